package models

import "time"

// Project status values. Status is derived from the end date, never stored.
const (
	StatusCompleted  = "completed"
	StatusInProgress = "in-progress"
	StatusPending    = "pending"
)

type Project struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Name        string     `gorm:"size:255" json:"projectname"`
	Description string     `gorm:"type:text" json:"description"`
	StartDate   time.Time  `gorm:"type:date" json:"fechaInicio"`
	EndDate     *time.Time `gorm:"type:date" json:"fechaFin"`
	// Legacy single attached file, kept from before per-project file
	// records existed. Stored at the root of the file repo dir.
	FileName string `gorm:"size:255" json:"fileName"`

	OwnerID  uint  `json:"-"`
	Owner    User  `json:"owner"`
	ClientID *uint `json:"-"`
	Client   *Client

	Colaboradores []User `gorm:"many2many:repo_colaboradores" json:"colaboradores"`
}

// Status derives the project state from the end date: completed when it is
// already past, in-progress when set in the future, pending when unset.
func (p *Project) Status(now time.Time) string {
	if p.EndDate == nil {
		return StatusPending
	}
	if p.EndDate.Before(now) {
		return StatusCompleted
	}
	return StatusInProgress
}

// IsCollaborator reports whether the user is in the collaborator set.
func (p *Project) IsCollaborator(userID uint) bool {
	for _, c := range p.Colaboradores {
		if c.ID == userID {
			return true
		}
	}
	return false
}
