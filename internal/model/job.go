package model

import (
	"time"

	"gorm.io/gorm"
)

// JobStatus is derived from the two lifecycle timestamps. Jobs move
// unpaid -> paid -> expired and never backwards.
type JobStatus string

const (
	JobStatusUnpaid  JobStatus = "unpaid"
	JobStatusPaid    JobStatus = "paid"
	JobStatusExpired JobStatus = "expired"
)

// Job is a single posting on one site. A job is listed publicly while paid
// and not yet expired; PaidAt and ExpiredAt are only ever set, never cleared.
type Job struct {
	ID              uint           `json:"id" gorm:"primaryKey"`
	Title           string         `json:"title" gorm:"type:varchar(50);not null"`
	Description     string         `json:"description" gorm:"type:text;not null"` // markdown accepted
	ApplicationInfo string         `json:"application_info" gorm:"type:text;not null"`
	Location        string         `json:"location" gorm:"type:text"` // timezone or residency requirements, may be empty
	Email           string         `json:"email" gorm:"type:varchar(254);not null"` // contact address, never rendered publicly
	CategoryID      uint           `json:"category_id" gorm:"index;not null"`
	CountryID       *uint          `json:"country_id"`
	CompanyID       uint           `json:"company_id" gorm:"index;not null"`
	SiteID          uint           `json:"site_id" gorm:"index;not null"`
	OwnerID         uint           `json:"owner_id" gorm:"index;not null"`
	PaidAt          *time.Time     `json:"paid_at"`
	ExpiredAt       *time.Time     `json:"expired_at"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Category Category `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	Country  *Country `json:"country,omitempty" gorm:"foreignKey:CountryID"`
	Company  Company  `json:"company,omitempty" gorm:"foreignKey:CompanyID"`
	Site     Site     `json:"site,omitempty" gorm:"foreignKey:SiteID"`
}

// Status reports where the job sits in its lifecycle.
func (j *Job) Status() JobStatus {
	switch {
	case j.ExpiredAt != nil:
		return JobStatusExpired
	case j.PaidAt != nil:
		return JobStatusPaid
	default:
		return JobStatusUnpaid
	}
}

// FormatCountry renders the job's country for listings. Jobs without a
// country are remote: "Anywhere*" when the location text carries extra
// requirements, plain "Anywhere" otherwise.
func (j *Job) FormatCountry() string {
	if j.Country != nil {
		return j.Country.Name
	}
	if j.Location != "" {
		return "Anywhere*"
	}
	return "Anywhere"
}
