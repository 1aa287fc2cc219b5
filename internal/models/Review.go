package models

import (
	"gorm.io/gorm"
)

// Review is feedback left for a user (usually an employer reviewing a
// worker) after a job. Rating is an integer 1-5; the reviewee's cached
// Rating/TotalReviews are maintained as a running average by the directory
// service.
type Review struct {
	gorm.Model
	ReviewerID uint  `json:"reviewer_id" gorm:"index"`
	Reviewer   *User `json:"reviewer,omitempty" gorm:"foreignKey:ReviewerID"`
	RevieweeID uint  `json:"reviewee_id" gorm:"index"`

	JobID *uint `json:"job_id,omitempty"`
	Job   *Job  `json:"job,omitempty" gorm:"foreignKey:JobID"`

	Rating         int    `json:"rating"` // 1-5
	Comment        string `json:"comment,omitempty"`
	WouldRecommend bool   `json:"would_recommend" gorm:"default:true"`
}
