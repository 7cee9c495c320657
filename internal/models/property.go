package models

import (
	"time"

	"gorm.io/datatypes"
)

type Property struct {
	ID     string `gorm:"type:varchar(36);primaryKey" json:"id"`
	Handle string `gorm:"type:varchar(220);not null;index" json:"handle"`
	Title  string `gorm:"type:text;not null" json:"title"`

	Description string `gorm:"type:text" json:"description,omitempty"`
	Price       int    `gorm:"type:int;not null;index" json:"price"`
	Currency    string `gorm:"type:varchar(3);not null;default:'INR'" json:"currency"`

	Address  string       `gorm:"type:text" json:"address,omitempty"`
	City     string       `gorm:"type:varchar(100);index" json:"city,omitempty"`
	Locality string       `gorm:"type:varchar(200)" json:"locality,omitempty"`
	Type     PropertyType `gorm:"type:varchar(20);not null;index" json:"type"`

	// JSON array of {url, alt_text, width, height}
	Images datatypes.JSON `gorm:"type:jsonb" json:"images,omitempty"`

	AvailableForSale bool           `gorm:"not null;default:true;index" json:"available_for_sale"`
	Status           PropertyStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`

	// Immutable after creation; sole authorization anchor for mutation.
	UserID       string `gorm:"type:varchar(64);not null;index" json:"user_id"`
	ContactPhone string `gorm:"type:varchar(20)" json:"contact_phone,omitempty"`

	ViewCount  int64 `gorm:"not null;default:0" json:"view_count"`
	LeadsCount int64 `gorm:"not null;default:0" json:"leads_count"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime;index:idx_properties_created_at,sort:desc" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

// PropertyImage is the element shape stored in the Images JSON column.
type PropertyImage struct {
	URL     string `json:"url"`
	AltText string `json:"alt_text"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
}

type PropertyType string

const (
	PropertyTypePG     PropertyType = "PG"
	PropertyTypeFlat   PropertyType = "Flat"
	PropertyTypeRoom   PropertyType = "Room"
	PropertyTypeHostel PropertyType = "Hostel"
)

// ValidPropertyType reports whether t is one of the fixed listing types.
func ValidPropertyType(t string) bool {
	switch PropertyType(t) {
	case PropertyTypePG, PropertyTypeFlat, PropertyTypeRoom, PropertyTypeHostel:
		return true
	}
	return false
}

type PropertyStatus string

const (
	PropertyStatusPending  PropertyStatus = "pending"
	PropertyStatusApproved PropertyStatus = "approved"
	PropertyStatusInactive PropertyStatus = "inactive"
)

func (Property) TableName() string {
	return "properties"
}

// IsPubliclyVisible reports whether the listing appears in the public catalog.
func (p *Property) IsPubliclyVisible() bool {
	return p.Status == PropertyStatusApproved && p.AvailableForSale
}

// CounterName identifies one of the analytics counters on a property row.
type CounterName string

const (
	CounterViews CounterName = "view_count"
	CounterLeads CounterName = "leads_count"
)

// ValidCounterName guards the column name interpolated into raw counter SQL.
func ValidCounterName(name string) bool {
	return CounterName(name) == CounterViews || CounterName(name) == CounterLeads
}
