package models

import "time"

// Setting is a site-wide key/value pair managed from the admin dashboard
// (banner text, default contact number, and similar).
type Setting struct {
	Key       string    `gorm:"type:varchar(100);primaryKey" json:"key"`
	Value     string    `gorm:"type:text" json:"value"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Setting) TableName() string {
	return "settings"
}
