package models

// MemoMatch remembers an operator-confirmed mapping from a cleaned bank memo
// to a member. MemoKey is the lowercased memo and is unique, so the first
// confirmation for a memo wins.
type MemoMatch struct {
	Base
	Memo       string `gorm:"not null" json:"memo"`
	MemoKey    string `gorm:"not null;uniqueIndex" json:"-"`
	MemberID   string `gorm:"type:uuid;not null;index" json:"member_id"`
	MemberName string `json:"member_name,omitempty"`
}
