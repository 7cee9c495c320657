package models

import "time"

// Lead records a single tenant action (share/contact) against a listing.
// The denormalized leads_count on Property is the fast path; these rows are
// the durable record behind owner analytics.
type Lead struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	PropertyID string    `gorm:"type:varchar(36);not null;index" json:"property_id"`
	Kind       LeadKind  `gorm:"type:varchar(20);not null;default:'contact'" json:"kind"`
	CreatedAt  time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}

type LeadKind string

const (
	LeadKindWhatsApp LeadKind = "whatsapp"
	LeadKindCall     LeadKind = "call"
	LeadKindShare    LeadKind = "share"
	LeadKindContact  LeadKind = "contact"
)

func (Lead) TableName() string {
	return "leads"
}
