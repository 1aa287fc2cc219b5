package service

import (
	"context"
	"errors"
	"time"

	"jua_kazi/internal/models"
	"jua_kazi/internal/store"
)

// ApplicationService owns the application lifecycle and the invariant that
// a job's cached ApplicationsCount mirrors its actual application rows.
type ApplicationService struct {
	apps store.ApplicationStore
	jobs store.JobStore
}

func NewApplicationService(apps store.ApplicationStore, jobs store.JobStore) *ApplicationService {
	return &ApplicationService{apps: apps, jobs: jobs}
}

// Apply submits a worker's application to an open job. The store inserts
// the row and bumps the job counter as one unit; a duplicate (job, worker)
// pair fails whether it is caught by the lookup here or by the unique
// index under a race.
func (s *ApplicationService) Apply(ctx context.Context, jobID, workerID uint, coverMessage string) (*models.Application, error) {
	job, err := s.jobs.ByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrJobNotFound
		}
		return nil, err
	}
	if job.Status != models.JobOpen {
		return nil, ErrJobNotOpen
	}
	if _, err := s.apps.ByJobAndWorker(ctx, jobID, workerID); err == nil {
		return nil, ErrDuplicateApplication
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	app := &models.Application{
		JobID:        jobID,
		WorkerID:     workerID,
		Status:       models.ApplicationPending,
		CoverMessage: coverMessage,
		AppliedAt:    time.Now(),
	}
	if err := s.apps.Create(ctx, app); err != nil {
		if errors.Is(err, store.ErrDuplicateKey) {
			return nil, ErrDuplicateApplication
		}
		return nil, err
	}
	app.Job = job
	return app, nil
}

// Respond lets the owning employer accept or reject a pending application.
// Terminal applications never transition again.
func (s *ApplicationService) Respond(ctx context.Context, appID, employerID uint, status, message string) (*models.Application, error) {
	if status != models.ApplicationAccepted && status != models.ApplicationRejected {
		return nil, ErrInvalidStatus
	}
	app, err := s.byIDWithJob(ctx, appID)
	if err != nil {
		return nil, err
	}
	if app.Job == nil || app.Job.EmployerID != employerID {
		return nil, ErrNotOwner
	}
	if app.Terminal() {
		return nil, ErrInvalidState
	}
	now := time.Now()
	app.Status = status
	app.ResponseMessage = message
	app.RespondedAt = &now
	if err := s.apps.Save(ctx, app); err != nil {
		return nil, err
	}
	return app, nil
}

// Withdraw moves a pending application to withdrawn. The row stays, so the
// (job, worker) pair remains used and the job counter is untouched.
func (s *ApplicationService) Withdraw(ctx context.Context, appID, workerID uint) (*models.Application, error) {
	app, err := s.byIDWithJob(ctx, appID)
	if err != nil {
		return nil, err
	}
	if app.WorkerID != workerID {
		return nil, ErrNotOwner
	}
	if app.Terminal() {
		return nil, ErrInvalidState
	}
	app.Status = models.ApplicationWithdrawn
	if err := s.apps.Save(ctx, app); err != nil {
		return nil, err
	}
	return app, nil
}

// Remove deletes the worker's application outright; the store decrements
// the job counter symmetrically with Apply.
func (s *ApplicationService) Remove(ctx context.Context, appID, workerID uint) error {
	app, err := s.byIDWithJob(ctx, appID)
	if err != nil {
		return err
	}
	if app.WorkerID != workerID {
		return ErrNotOwner
	}
	return s.apps.Delete(ctx, app)
}

// ListForJob returns a job's applications to its owning employer.
func (s *ApplicationService) ListForJob(ctx context.Context, jobID, employerID uint) ([]models.Application, error) {
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
	return s.apps.ListByJob(ctx, jobID)
}

// ListForWorker returns the worker's own applications, jobs attached.
func (s *ApplicationService) ListForWorker(ctx context.Context, workerID uint) ([]models.Application, error) {
	return s.apps.ListByWorker(ctx, workerID)
}

func (s *ApplicationService) byIDWithJob(ctx context.Context, appID uint) (*models.Application, error) {
	app, err := s.apps.ByID(ctx, appID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}
	if app.Job == nil {
		job, err := s.jobs.ByID(ctx, app.JobID)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			return nil, err
		}
		app.Job = job
	}
	return app, nil
}
