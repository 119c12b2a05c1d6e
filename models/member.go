package models

import (
	"strings"
	"time"
)

// HierarchyDelimiter separates ancestor ids in the stored hierarchy path.
// The path is a serialization detail; code works with the parsed ancestor list.
const HierarchyDelimiter = "."

type Member struct {
	ID            string    `gorm:"primaryKey;type:char(36)" json:"id"`
	Name          string    `gorm:"size:100;not null" json:"name"`
	Number        string    `gorm:"size:20;uniqueIndex;not null" json:"number"`
	Password      string    `gorm:"size:255;not null" json:"-"`
	ReffCode      string    `gorm:"size:20;uniqueIndex;not null" json:"reff_code"`
	SponsorID     *string   `gorm:"column:sponsor_id;type:char(36);index" json:"sponsor_id"`
	HierarchyPath string    `gorm:"column:hierarchy_path;type:text" json:"-"`
	Role          string    `gorm:"type:enum('member','admin');default:'member'" json:"role"`
	Active        bool      `gorm:"default:true" json:"active"`
	Restricted    bool      `gorm:"default:false" json:"restricted"`
	CreatedAt     time.Time `json:"-"`
	UpdatedAt     time.Time `json:"-"`
}

func (Member) TableName() string {
	return "members"
}

// Ancestry parses the stored hierarchy path into its ordered ancestor list,
// root first. An empty path yields an empty list.
func (m *Member) Ancestry() []string {
	if strings.TrimSpace(m.HierarchyPath) == "" {
		return nil
	}
	parts := strings.Split(m.HierarchyPath, HierarchyDelimiter)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ChildPath returns the hierarchy path a directly sponsored member inherits.
func (m *Member) ChildPath(childID string) string {
	if strings.TrimSpace(m.HierarchyPath) == "" {
		return m.ID + HierarchyDelimiter + childID
	}
	return m.HierarchyPath + HierarchyDelimiter + childID
}
