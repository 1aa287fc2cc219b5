package models

import (
	"time"

	"gorm.io/gorm"
)

// Application statuses. pending may move to any of the other three; the
// terminal states never transition again.
const (
	ApplicationPending   = "pending"
	ApplicationAccepted  = "accepted"
	ApplicationRejected  = "rejected"
	ApplicationWithdrawn = "withdrawn"
)

// Application links one worker to one job. The (job, worker) pair is unique
// forever: withdrawing keeps the row, so a worker can never re-apply.
type Application struct {
	gorm.Model
	JobID    uint  `json:"job_id" gorm:"uniqueIndex:idx_job_worker"`
	Job      *Job  `json:"job,omitempty" gorm:"foreignKey:JobID"`
	WorkerID uint  `json:"worker_id" gorm:"uniqueIndex:idx_job_worker"`
	Worker   *User `json:"worker,omitempty" gorm:"foreignKey:WorkerID"`

	Status       string    `json:"status" gorm:"default:pending;index"`
	CoverMessage string    `json:"cover_message,omitempty"`
	AppliedAt    time.Time `json:"applied_at"`

	ResponseMessage string     `json:"response_message,omitempty"`
	RespondedAt     *time.Time `json:"responded_at,omitempty"`
}

// Terminal reports whether the application can no longer change status.
func (a *Application) Terminal() bool {
	return a.Status != ApplicationPending
}
