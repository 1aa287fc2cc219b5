package service

import (
	"context"
	"errors"
	"time"

	logrus "github.com/sirupsen/logrus"

	"jua_kazi/internal/models"
	"jua_kazi/internal/sms"
	"jua_kazi/internal/store"
)

// Pagination bounds applied to list endpoints.
const (
	DefaultPageSize = 50
	MaxPageSize     = 100
)

// SimilarJobLimit caps the similar-jobs block on a single-job read.
const SimilarJobLimit = 3

// FeaturedJobLimit caps the featured listing.
const FeaturedJobLimit = 10

// JobService owns the job lifecycle: creation (with worker alerts), the
// view-counting read, filtered listings and the discovery aggregations.
type JobService struct {
	jobs  store.JobStore
	users store.UserStore
	sms   *sms.Service
}

func NewJobService(jobs store.JobStore, users store.UserStore, smsSvc *sms.Service) *JobService {
	return &JobService{jobs: jobs, users: users, sms: smsSvc}
}

type CreateJobInput struct {
	Title           string
	Description     string
	Type            string
	Category        string
	Skills          []string
	Location        models.JobLocation
	Salary          models.Salary
	StartDate       *time.Time
	EndDate         *time.Time
	IsUrgent        bool
	CompanyName     string
	ContactPhone    string
	ContactWhatsApp string
	MapPoint        []byte
}

// Create persists a new posting for the employer. New jobs always start
// open, unfeatured and with zeroed counters, whatever the input says.
func (s *JobService) Create(ctx context.Context, employerID uint, in CreateJobInput) (*models.Job, error) {
	if !models.ValidCategory(in.Category) {
		return nil, ErrInvalidCategory
	}
	if in.Salary.Currency == "" {
		in.Salary.Currency = "KES"
	}
	if in.Salary.Period == "" {
		in.Salary.Period = models.PeriodDay
	}
	if in.Type == "" {
		in.Type = models.TypeCasual
	}
	job := &models.Job{
		Title:           in.Title,
		Description:     in.Description,
		Type:            in.Type,
		Category:        in.Category,
		Skills:          in.Skills,
		Location:        in.Location,
		Salary:          in.Salary,
		StartDate:       in.StartDate,
		EndDate:         in.EndDate,
		IsUrgent:        in.IsUrgent,
		EmployerID:      employerID,
		CompanyName:     in.CompanyName,
		ContactPhone:    in.ContactPhone,
		ContactWhatsApp: in.ContactWhatsApp,
		MapPoint:        in.MapPoint,
		Status:          models.JobOpen,
		Featured:        false,
	}
	if err := s.jobs.Create(ctx, job); err != nil {
		return nil, err
	}
	s.alertMatchingWorkers(ctx, job)
	return job, nil
}

// alertMatchingWorkers texts available workers in the job's county who
// list every required skill. Alerts are fire-and-forget: a failed send
// never fails the posting.
func (s *JobService) alertMatchingWorkers(ctx context.Context, job *models.Job) {
	if len(job.Skills) == 0 {
		return
	}
	workers, err := s.users.List(ctx, store.UserFilter{
		Role:     models.RoleWorker,
		Location: job.Location.County,
		Skills:   job.Skills,
		Limit:    DefaultPageSize,
	})
	if err != nil {
		logrus.WithError(err).WithField("job_id", job.ID).Warn("job alert lookup failed")
		return
	}
	for i := range workers {
		w := &workers[i]
		if !w.Notifications.SMS || w.Availability != models.AvailabilityAvailable {
			continue
		}
		if err := s.sms.SendJobAlert(w.Phone, job); err != nil {
			logrus.WithError(err).WithField("phone", w.Phone).Warn("job alert SMS failed")
		}
	}
}

// Get fetches one job plus up to three open jobs in the same category.
//
// Get is deliberately not idempotent: every call increments the job's view
// counter as a cheap popularity signal, so N reads move the counter by
// exactly N. The increment happens inside the store so concurrent reads
// never lose an update.
func (s *JobService) Get(ctx context.Context, id uint) (*models.Job, []models.Job, error) {
	if err := s.jobs.IncrementViews(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil, ErrJobNotFound
		}
		return nil, nil, err
	}
	job, err := s.jobs.ByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil, ErrJobNotFound
		}
		return nil, nil, err
	}
	similar, err := s.jobs.Similar(ctx, job.Category, job.ID, SimilarJobLimit)
	if err != nil {
		return nil, nil, err
	}
	return job, similar, nil
}

// List returns jobs matching the filter, newest first, with bounded
// pagination.
func (s *JobService) List(ctx context.Context, f store.JobFilter) ([]models.Job, error) {
	f.Limit = clampPageSize(f.Limit)
	return s.jobs.List(ctx, f)
}

// Featured returns up to ten featured jobs, newest first.
func (s *JobService) Featured(ctx context.Context) ([]models.Job, error) {
	return s.jobs.Featured(ctx, FeaturedJobLimit)
}

// Categories aggregates open jobs per category with average salary,
// count descending. Closed, filled and cancelled jobs never contribute.
func (s *JobService) Categories(ctx context.Context) ([]store.CategoryCount, error) {
	return s.jobs.Categories(ctx)
}

// Stats aggregates open jobs: totals, urgency, by-type breakdown and the
// top five categories.
func (s *JobService) Stats(ctx context.Context) (*store.JobStats, error) {
	return s.jobs.Stats(ctx)
}

type UpdateJobInput struct {
	Title           *string
	Description     *string
	Type            *string
	Category        *string
	Skills          []string
	Location        *models.JobLocation
	Salary          *models.Salary
	IsUrgent        *bool
	Status          *string
	Featured        *bool
	PromotedUntil   *time.Time
	ContactPhone    *string
	ContactWhatsApp *string
}

// Update patches a posting. Only the owning employer may update, and any of
// the four job statuses is settable (there is no enforced transition table
// for jobs). Counters are never writable through this path.
func (s *JobService) Update(ctx context.Context, jobID, employerID uint, in UpdateJobInput) (*models.Job, error) {
	job, err := s.jobs.ByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrJobNotFound
		}
		return nil, err
	}
	if job.EmployerID != employerID {
		return nil, ErrNotOwner
	}
	if in.Title != nil {
		job.Title = *in.Title
	}
	if in.Description != nil {
		job.Description = *in.Description
	}
	if in.Type != nil {
		job.Type = *in.Type
	}
	if in.Category != nil {
		if !models.ValidCategory(*in.Category) {
			return nil, ErrInvalidCategory
		}
		job.Category = *in.Category
	}
	if in.Skills != nil {
		job.Skills = in.Skills
	}
	if in.Location != nil {
		job.Location = *in.Location
	}
	if in.Salary != nil {
		job.Salary = *in.Salary
	}
	if in.IsUrgent != nil {
		job.IsUrgent = *in.IsUrgent
	}
	if in.Status != nil {
		switch *in.Status {
		case models.JobOpen, models.JobClosed, models.JobFilled, models.JobCancelled:
			job.Status = *in.Status
		default:
			return nil, ErrInvalidStatus
		}
	}
	if in.Featured != nil {
		job.Featured = *in.Featured
	}
	if in.PromotedUntil != nil {
		job.PromotedUntil = in.PromotedUntil
	}
	if in.ContactPhone != nil {
		job.ContactPhone = *in.ContactPhone
	}
	if in.ContactWhatsApp != nil {
		job.ContactWhatsApp = *in.ContactWhatsApp
	}
	job.Employer = nil
	if err := s.jobs.Save(ctx, job); err != nil {
		return nil, err
	}
	return job, nil
}

func clampPageSize(limit int) int {
	if limit <= 0 {
		return DefaultPageSize
	}
	if limit > MaxPageSize {
		return MaxPageSize
	}
	return limit
}
