package model

import (
	"time"

	"gorm.io/gorm"
)

// Company posts jobs on one site. Owned by an external user account; this
// service only stores the owner's ID.
type Company struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	Name      string         `json:"name" gorm:"type:varchar(50);not null;uniqueIndex:idx_companies_name_site"`
	URL       string         `json:"url" gorm:"type:varchar(200);not null"`
	Twitter   string         `json:"twitter" gorm:"type:varchar(20)"` // handle without the @, empty if none
	CountryID *uint          `json:"country_id"`                      // empty if 100% virtual
	SiteID    uint           `json:"site_id" gorm:"index;not null;uniqueIndex:idx_companies_name_site"`
	OwnerID   uint           `json:"owner_id" gorm:"index;not null"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Country *Country `json:"country,omitempty" gorm:"foreignKey:CountryID"`
	Site    Site     `json:"site,omitempty" gorm:"foreignKey:SiteID"`
}
