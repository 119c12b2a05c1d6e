package models

import "time"

type Notification struct {
	ID        string    `gorm:"primaryKey;type:char(36)" json:"id"`
	MemberID  string    `gorm:"type:char(36);not null;index" json:"member_id"`
	Title     string    `gorm:"size:100;not null" json:"title"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	Read      bool      `gorm:"default:false" json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

func (Notification) TableName() string {
	return "notifications"
}
