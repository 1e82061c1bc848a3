package models

import "strings"

// Member is a church member as seen by the finance core. Members are owned
// by the membership module; reconciliation only reads them.
type Member struct {
	Base
	FirstName   string `gorm:"not null;index" json:"first_name"`
	MiddleName  string `json:"middle_name,omitempty"`
	LastName    string `gorm:"not null;index" json:"last_name"`
	Email       string `gorm:"index" json:"email,omitempty"`
	PhoneNumber string `gorm:"index" json:"phone_number,omitempty"`
	IsActive    bool   `gorm:"default:true" json:"is_active"`
}

// FullName joins the non-empty name parts.
func (m *Member) FullName() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{m.FirstName, m.MiddleName, m.LastName} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}
