package model

import (
	"time"

	"gorm.io/gorm"
)

// Category groups jobs within one site. The same name may exist on other
// sites independently.
type Category struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	Name      string         `json:"name" gorm:"type:varchar(30);not null;uniqueIndex:idx_categories_name_site"`
	SiteID    uint           `json:"site_id" gorm:"index;not null;uniqueIndex:idx_categories_name_site"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Site Site `json:"site,omitempty" gorm:"foreignKey:SiteID"`
}
