package models

// AuditLog records treasurer actions (imports, reconciliations, manual
// postings) for later review.
type AuditLog struct {
	Base
	OperatorID   string `gorm:"index" json:"operator_id"`
	Action       string `gorm:"not null" json:"action"`
	ResourceType string `gorm:"not null" json:"resource_type"`
	ResourceID   string `json:"resource_id"`
	IPAddress    string `json:"ip_address"`
	Changes      string `json:"changes,omitempty"`
}
