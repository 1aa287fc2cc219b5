package models

import (
	"strconv"
	"strings"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Job statuses. There is no enforced transition table: the employer may set
// any of these at any time.
const (
	JobOpen      = "open"
	JobClosed    = "closed"
	JobFilled    = "filled"
	JobCancelled = "cancelled"
)

// Job types
const (
	TypeFullTime = "full-time"
	TypePartTime = "part-time"
	TypeCasual   = "casual"
	TypeContract = "contract"
)

// JobCategories is the closed set of trade categories a posting may use.
var JobCategories = []string{
	"construction", "plumbing", "electrical", "cleaning",
	"delivery", "domestic", "farming", "security",
	"driving", "other",
}

// Salary periods
const (
	PeriodHour    = "hour"
	PeriodDay     = "day"
	PeriodWeek    = "week"
	PeriodMonth   = "month"
	PeriodProject = "project"
)

// JobLocation is the posting's location; County is required.
type JobLocation struct {
	County        string `json:"county"`
	SubCounty     string `json:"sub_county,omitempty"`
	Ward          string `json:"ward,omitempty"`
	ExactLocation string `json:"exact_location,omitempty"`
}

// Salary is always expressed as amount + currency + period.
type Salary struct {
	Amount     float64 `json:"amount"`
	Currency   string  `json:"currency" gorm:"default:KES"`
	Period     string  `json:"period"` // hour, day, week, month, project
	Negotiable bool    `json:"is_negotiable" gorm:"default:false"`
}

type Job struct {
	gorm.Model
	Title       string `json:"title"`
	Description string `json:"description"`
	Type        string `json:"type" gorm:"index"`
	Category    string `json:"category" gorm:"index"`

	Skills   pq.StringArray `json:"skills" gorm:"type:text[]"`
	Location JobLocation    `json:"location" gorm:"embedded;embeddedPrefix:location_"`
	Salary   Salary         `json:"salary" gorm:"embedded;embeddedPrefix:salary_"`

	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`
	IsUrgent  bool       `json:"is_urgent" gorm:"default:false;index"`

	EmployerID      uint   `json:"employer_id" gorm:"index"`
	Employer        *User  `json:"employer,omitempty" gorm:"foreignKey:EmployerID"`
	CompanyName     string `json:"company_name,omitempty"`
	ContactPhone    string `json:"contact_phone,omitempty"`
	ContactWhatsApp string `json:"contact_whatsapp,omitempty"`

	Status string `json:"status" gorm:"default:open;index"`

	// Optional map position, stored as WKB (see internal/geo).
	MapPoint []byte `json:"-" gorm:"type:bytea"`

	// Views is a monotonic popularity counter; every single-job read bumps it.
	Views int64 `json:"views" gorm:"default:0"`

	// ApplicationsCount is derived data. The source of truth is the set of
	// Application rows for this job; the store keeps the two in step.
	ApplicationsCount int64 `json:"applications_count" gorm:"default:0"`

	Featured      bool       `json:"featured" gorm:"default:false;index"`
	PromotedUntil *time.Time `json:"promoted_until,omitempty"`
}

// FormattedSalary renders the salary the way listings display it,
// e.g. "KSh 2,500 per day". Project-based pay has no period suffix.
func (j *Job) FormattedSalary() string {
	out := "KSh " + formatAmount(j.Salary.Amount)
	if j.Salary.Period != PeriodProject && j.Salary.Period != "" {
		out += " per " + j.Salary.Period
	}
	return out
}

// ValidCategory reports whether cat is one of the closed trade categories.
func ValidCategory(cat string) bool {
	for _, c := range JobCategories {
		if c == cat {
			return true
		}
	}
	return false
}

// formatAmount groups the whole shillings with thousands separators.
func formatAmount(amount float64) string {
	s := strconv.FormatInt(int64(amount), 10)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	for i := len(s) - 3; i > 0; i -= 3 {
		s = s[:i] + "," + s[i:]
	}
	if neg {
		s = "-" + s
	}
	return s
}

func normalizeSkill(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
