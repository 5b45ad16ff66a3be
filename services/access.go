package services

import "github.com/raulgonca/projectsync/models"

// Access is the permission level a caller holds on a project.
type Access int

const (
	AccessNone Access = iota
	AccessCollaborator
	AccessOwner
)

// ResolveAccess derives the caller's access level from the project's
// stored owner and collaborator set. Pure and stateless: nothing is cached
// between calls.
func ResolveAccess(userID uint, project *models.Project) Access {
	if project.OwnerID == userID {
		return AccessOwner
	}
	if project.IsCollaborator(userID) {
		return AccessCollaborator
	}
	return AccessNone
}

// CanRead covers project metadata, file listing and downloads.
func (a Access) CanRead() bool { return a >= AccessCollaborator }

// CanManage covers metadata updates, deletion, collaborator management and
// every file mutation.
func (a Access) CanManage() bool { return a == AccessOwner }
