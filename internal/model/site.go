package model

import (
	"time"
)

// Site is one job board served by this deployment. Requests reach a site
// through its domain; every other row in the schema hangs off a site.
type Site struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"type:varchar(50);not null"`
	Domain    string    `json:"domain" gorm:"type:varchar(100);uniqueIndex;not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SiteConfig holds the per-site knobs. Exactly one row per site, created in
// the same transaction as the site itself and never deleted.
type SiteConfig struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	SiteID      uint      `json:"site_id" gorm:"uniqueIndex;not null"`
	ExpireAfter int       `json:"expire_after" gorm:"type:smallint;not null;default:30"` // days a paid job stays listed
	AdminEmail  string    `json:"admin_email" gorm:"type:varchar(254);not null;default:'admin@site'"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Relations
	Site Site `json:"site,omitempty" gorm:"foreignKey:SiteID"`
}
