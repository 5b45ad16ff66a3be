package models

import "time"

// ProjectFile is one uploaded binary attached to a project. FileName is the
// collision-free on-disk name ({uuid}-{original}); OriginalName is the
// human name shown to users and used inside ZIP exports. The uploading
// user is attribution only, the project owns the record.
type ProjectFile struct {
	ID           uint    `gorm:"primaryKey" json:"id"`
	ProjectID    uint    `json:"-"`
	Project      Project `json:"-"`
	UserID       uint    `json:"-"`
	User         User    `json:"user"`
	FileName     string  `gorm:"size:255" json:"fileName"`
	OriginalName string  `gorm:"size:255" json:"originalName"`
	FechaSubida  time.Time
}
