package models

type Client struct {
	ID    uint   `gorm:"primaryKey" json:"id"`
	Name  string `gorm:"size:255;uniqueIndex" json:"name"`
	CIF   string `gorm:"size:255;uniqueIndex;column:cif" json:"cif"`
	Email string `gorm:"size:255" json:"email"`
	Phone string `gorm:"size:255" json:"phone"`
	Web   string `gorm:"size:255" json:"web"`
}
