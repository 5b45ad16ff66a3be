package services

import (
	"github.com/raulgonca/projectsync/models"
	"github.com/raulgonca/projectsync/repositories"
)

// In-memory repository implementations for the service tests. Lookups
// return copies so that only Save makes a mutation visible.

type fakeUserRepo struct {
	users  map[uint]models.User
	nextID uint
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[uint]models.User{}, nextID: 1}
}

func (r *fakeUserRepo) FindByID(id uint) (*models.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrRecordNotFound
	}
	return &user, nil
}

func (r *fakeUserRepo) FindByEmail(email string) (*models.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			u := user
			return &u, nil
		}
	}
	return nil, repositories.ErrRecordNotFound
}

func (r *fakeUserRepo) FindByUsername(username string) (*models.User, error) {
	for _, user := range r.users {
		if user.Username == username {
			u := user
			return &u, nil
		}
	}
	return nil, repositories.ErrRecordNotFound
}

func (r *fakeUserRepo) List(offset, limit int) ([]models.User, error) {
	var users []models.User
	for id := uint(1); id < r.nextID; id++ {
		if user, ok := r.users[id]; ok {
			users = append(users, user)
		}
	}
	if offset >= len(users) {
		return nil, nil
	}
	users = users[offset:]
	if limit < len(users) {
		users = users[:limit]
	}
	return users, nil
}

func (r *fakeUserRepo) Create(user *models.User) error {
	user.ID = r.nextID
	r.nextID++
	r.users[user.ID] = *user
	return nil
}

func (r *fakeUserRepo) Save(user *models.User) error {
	r.users[user.ID] = *user
	return nil
}

func (r *fakeUserRepo) Delete(id uint) error {
	delete(r.users, id)
	return nil
}

type fakeClientRepo struct {
	clients map[uint]models.Client
	nextID  uint
}

func newFakeClientRepo() *fakeClientRepo {
	return &fakeClientRepo{clients: map[uint]models.Client{}, nextID: 1}
}

func (r *fakeClientRepo) FindByID(id uint) (*models.Client, error) {
	client, ok := r.clients[id]
	if !ok {
		return nil, repositories.ErrRecordNotFound
	}
	return &client, nil
}

func (r *fakeClientRepo) FindByName(name string) (*models.Client, error) {
	for _, client := range r.clients {
		if client.Name == name {
			c := client
			return &c, nil
		}
	}
	return nil, repositories.ErrRecordNotFound
}

func (r *fakeClientRepo) FindByCIF(cif string) (*models.Client, error) {
	for _, client := range r.clients {
		if client.CIF == cif {
			c := client
			return &c, nil
		}
	}
	return nil, repositories.ErrRecordNotFound
}

func (r *fakeClientRepo) FindAll() ([]models.Client, error) {
	var clients []models.Client
	for id := uint(1); id < r.nextID; id++ {
		if client, ok := r.clients[id]; ok {
			clients = append(clients, client)
		}
	}
	return clients, nil
}

func (r *fakeClientRepo) Create(client *models.Client) error {
	client.ID = r.nextID
	r.nextID++
	r.clients[client.ID] = *client
	return nil
}

func (r *fakeClientRepo) Save(client *models.Client) error {
	r.clients[client.ID] = *client
	return nil
}

func (r *fakeClientRepo) Delete(id uint) error {
	delete(r.clients, id)
	return nil
}

func (r *fakeClientRepo) CreateBatch(clients []*models.Client) error {
	for _, client := range clients {
		if err := r.Create(client); err != nil {
			return err
		}
	}
	return nil
}

type fakeProjectRepo struct {
	projects map[uint]models.Project
	nextID   uint
}

func newFakeProjectRepo() *fakeProjectRepo {
	return &fakeProjectRepo{projects: map[uint]models.Project{}, nextID: 1}
}

func (r *fakeProjectRepo) FindByID(id uint) (*models.Project, error) {
	project, ok := r.projects[id]
	if !ok {
		return nil, repositories.ErrRecordNotFound
	}
	p := project
	p.Colaboradores = append([]models.User(nil), project.Colaboradores...)
	return &p, nil
}

func (r *fakeProjectRepo) FindByOwner(ownerID uint) ([]models.Project, error) {
	var projects []models.Project
	for id := uint(1); id < r.nextID; id++ {
		if project, ok := r.projects[id]; ok && project.OwnerID == ownerID {
			projects = append(projects, project)
		}
	}
	return projects, nil
}

func (r *fakeProjectRepo) FindByCollaborator(userID uint) ([]models.Project, error) {
	var projects []models.Project
	for id := uint(1); id < r.nextID; id++ {
		if project, ok := r.projects[id]; ok && project.IsCollaborator(userID) {
			projects = append(projects, project)
		}
	}
	return projects, nil
}

func (r *fakeProjectRepo) FindAll() ([]models.Project, error) {
	var projects []models.Project
	for id := uint(1); id < r.nextID; id++ {
		if project, ok := r.projects[id]; ok {
			projects = append(projects, project)
		}
	}
	return projects, nil
}

func (r *fakeProjectRepo) Create(project *models.Project) error {
	project.ID = r.nextID
	r.nextID++
	r.projects[project.ID] = *project
	return nil
}

func (r *fakeProjectRepo) Save(project *models.Project) error {
	stored, ok := r.projects[project.ID]
	if !ok {
		return repositories.ErrRecordNotFound
	}
	saved := *project
	saved.Colaboradores = stored.Colaboradores
	r.projects[project.ID] = saved
	return nil
}

func (r *fakeProjectRepo) Delete(id uint) error {
	delete(r.projects, id)
	return nil
}

func (r *fakeProjectRepo) CountByOwner(ownerID uint) (int64, error) {
	projects, _ := r.FindByOwner(ownerID)
	return int64(len(projects)), nil
}

func (r *fakeProjectRepo) AddCollaborator(projectID uint, user *models.User) error {
	project, ok := r.projects[projectID]
	if !ok {
		return repositories.ErrRecordNotFound
	}
	project.Colaboradores = append(project.Colaboradores, *user)
	r.projects[projectID] = project
	return nil
}

func (r *fakeProjectRepo) RemoveCollaborator(projectID uint, user *models.User) error {
	project, ok := r.projects[projectID]
	if !ok {
		return repositories.ErrRecordNotFound
	}
	var kept []models.User
	for _, c := range project.Colaboradores {
		if c.ID != user.ID {
			kept = append(kept, c)
		}
	}
	project.Colaboradores = kept
	r.projects[projectID] = project
	return nil
}

func (r *fakeProjectRepo) RemoveCollaboratorFromAll(userID uint) error {
	for id, project := range r.projects {
		var kept []models.User
		for _, c := range project.Colaboradores {
			if c.ID != userID {
				kept = append(kept, c)
			}
		}
		project.Colaboradores = kept
		r.projects[id] = project
	}
	return nil
}

type fakeFileRepo struct {
	files  map[uint]models.ProjectFile
	nextID uint
}

func newFakeFileRepo() *fakeFileRepo {
	return &fakeFileRepo{files: map[uint]models.ProjectFile{}, nextID: 1}
}

func (r *fakeFileRepo) FindByID(id uint) (*models.ProjectFile, error) {
	file, ok := r.files[id]
	if !ok {
		return nil, repositories.ErrRecordNotFound
	}
	return &file, nil
}

func (r *fakeFileRepo) FindByProject(projectID uint) ([]models.ProjectFile, error) {
	var files []models.ProjectFile
	for id := uint(1); id < r.nextID; id++ {
		if file, ok := r.files[id]; ok && file.ProjectID == projectID {
			files = append(files, file)
		}
	}
	return files, nil
}

func (r *fakeFileRepo) Create(file *models.ProjectFile) error {
	file.ID = r.nextID
	r.nextID++
	r.files[file.ID] = *file
	return nil
}

func (r *fakeFileRepo) Save(file *models.ProjectFile) error {
	r.files[file.ID] = *file
	return nil
}

func (r *fakeFileRepo) Delete(id uint) error {
	delete(r.files, id)
	return nil
}
