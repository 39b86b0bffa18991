package model

import (
	"time"

	"gorm.io/gorm"
)

// Country is reference data shared across all sites, unlike the rest of the
// catalog it is not scoped to a site.
type Country struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	Name      string         `json:"name" gorm:"type:varchar(50);uniqueIndex;not null"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}
