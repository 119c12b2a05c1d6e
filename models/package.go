package models

import "time"

type Package struct {
	ID          string    `gorm:"primaryKey;type:char(36)" json:"id"`
	Name        string    `gorm:"size:100;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Image       *string   `gorm:"type:varchar(255)" json:"image,omitempty"`
	Percentage  float64   `gorm:"type:decimal(5,2);not null" json:"percentage"`
	Duration    int       `gorm:"not null" json:"duration"` // days to maturity
	Disabled    bool      `gorm:"default:false" json:"disabled"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Package) TableName() string {
	return "packages"
}
