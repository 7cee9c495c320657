package models

import "time"

// Collection is a virtual catalog grouping. It carries no foreign key to
// properties; membership is derived at read time by matching the collection's
// keyword against listing titles and types.
type Collection struct {
	Handle      string    `gorm:"type:varchar(220);primaryKey" json:"handle"`
	Title       string    `gorm:"type:varchar(200);not null" json:"title"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Collection) TableName() string {
	return "collections"
}
