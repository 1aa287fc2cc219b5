package models

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// User roles
const (
	RoleWorker   = "worker"
	RoleEmployer = "employer"
	RoleAdmin    = "admin"
)

// Worker availability
const (
	AvailabilityAvailable   = "available"
	AvailabilityBusy        = "busy"
	AvailabilityUnavailable = "unavailable"
)

// UserLocation holds the Kenyan administrative location of a user.
// County is the primary filter unit; the sub fields are optional.
type UserLocation struct {
	County    string `json:"county"`
	SubCounty string `json:"sub_county,omitempty"`
	Ward      string `json:"ward,omitempty"`
}

// Verification tracks which identity channels have been confirmed.
type Verification struct {
	Phone bool `json:"phone" gorm:"default:false"`
	ID    bool `json:"id" gorm:"default:false"`
	Email bool `json:"email" gorm:"default:false"`
}

// NotificationPrefs controls which delivery channels the user accepts.
type NotificationPrefs struct {
	SMS      bool `json:"sms" gorm:"default:true"`
	WhatsApp bool `json:"whatsapp" gorm:"default:true"`
	Email    bool `json:"email" gorm:"default:false"`
}

type User struct {
	gorm.Model
	Role  string  `json:"role" gorm:"index"` // "worker", "employer", "admin"
	Name  string  `json:"name"`
	Phone string  `json:"phone" gorm:"uniqueIndex"` // normalized to 254XXXXXXXXX digits
	Email *string `json:"email,omitempty" gorm:"uniqueIndex"`

	Location UserLocation `json:"location" gorm:"embedded;embeddedPrefix:location_"`

	// Worker fields
	Skills                pq.StringArray `json:"skills" gorm:"type:text[]"`
	ExperienceYears       int            `json:"experience_years" gorm:"default:0"`
	ExperienceDescription string         `json:"experience_description,omitempty"`
	Availability          string         `json:"availability" gorm:"default:available"`
	AvailabilityType      string         `json:"availability_type" gorm:"default:casual"`

	// Employer fields
	CompanyName string `json:"company_name,omitempty"`
	CompanySize string `json:"company_size,omitempty"`
	Industry    string `json:"industry,omitempty"`

	IsVerified          Verification `json:"is_verified" gorm:"embedded;embeddedPrefix:verified_"`
	VerificationCode    string       `json:"-"`
	VerificationExpires *time.Time   `json:"-"`

	Rating       float64 `json:"rating" gorm:"default:0"` // always within [0,5]
	TotalReviews int     `json:"total_reviews" gorm:"default:0"`

	ProfileImage string         `json:"profile_image,omitempty"`
	Bio          string         `json:"bio,omitempty"`
	Portfolio    pq.StringArray `json:"portfolio" gorm:"type:text[]"`

	Password  string     `json:"-"` // bcrypt hash, opaque to the core
	LastLogin *time.Time `json:"last_login,omitempty"`
	Active    bool       `json:"active" gorm:"default:true"`

	Notifications NotificationPrefs `json:"notifications" gorm:"embedded;embeddedPrefix:notify_"`
}

// HasSkills reports whether the worker lists every requested skill.
func (u *User) HasSkills(required []string) bool {
	have := make(map[string]bool, len(u.Skills))
	for _, s := range u.Skills {
		have[normalizeSkill(s)] = true
	}
	for _, s := range required {
		if !have[normalizeSkill(s)] {
			return false
		}
	}
	return true
}
