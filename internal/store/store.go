// Package store defines the persistence contract for the job board. The
// postgres subpackage is the durable implementation; the memory subpackage
// backs the service tests. Uniqueness (user phone, one application per
// worker per job) and counter atomicity are the store's responsibility.
package store

import (
	"context"
	"errors"

	"jua_kazi/internal/models"
)

var (
	// ErrNotFound means an id or key lookup missed.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateKey means a uniqueness constraint was violated.
	ErrDuplicateKey = errors.New("duplicate key")
)

// UserFilter narrows ListUsers. Zero values mean "no constraint".
type UserFilter struct {
	Role      string
	Location  string // substring match on county
	Skills    []string
	MinRating float64
	Search    string // substring match on name
	Limit     int
	Offset    int
}

// JobFilter narrows ListJobs. Zero values mean "no constraint".
type JobFilter struct {
	County    string
	Category  string
	Type      string
	Status    string
	Skills    []string
	MinSalary float64
	MaxSalary float64
	Urgent    *bool
	Limit     int
	Offset    int
}

// CategoryCount is one row of the per-category aggregation over open jobs.
type CategoryCount struct {
	Name      string  `json:"name"`
	Count     int64   `json:"count"`
	AvgSalary float64 `json:"avg_salary"`
}

// SkillCount is one row of the popular-skills ranking.
type SkillCount struct {
	Skill string `json:"skill"`
	Count int64  `json:"count"`
}

// CountyCount is one row of the workers-by-county breakdown.
type CountyCount struct {
	County string `json:"county"`
	Count  int64  `json:"count"`
}

// JobStats aggregates over open jobs only.
type JobStats struct {
	TotalJobs     int64            `json:"total_jobs"`
	TotalViews    int64            `json:"total_views"`
	AvgSalary     float64          `json:"avg_salary"`
	UrgentJobs    int64            `json:"urgent_jobs"`
	JobsByType    map[string]int64 `json:"jobs_by_type"`
	TopCategories []CategoryCount  `json:"top_categories"`
}

// UserStats aggregates over all users.
type UserStats struct {
	TotalUsers        int64         `json:"total_users"`
	Workers           int64         `json:"workers"`
	Employers         int64         `json:"employers"`
	AvgWorkerRating   float64       `json:"avg_worker_rating"`
	AvgEmployerRating float64       `json:"avg_employer_rating"`
	VerifiedWorkers   int64         `json:"verified_workers"`
	VerifiedEmployers int64         `json:"verified_employers"`
	WorkersByCounty   []CountyCount `json:"workers_by_county"`
}

type UserStore interface {
	Create(ctx context.Context, u *models.User) error
	ByID(ctx context.Context, id uint) (*models.User, error)
	ByPhone(ctx context.Context, phone string) (*models.User, error)
	ByEmail(ctx context.Context, email string) (*models.User, error)
	// Save persists the profile but never writes Rating/TotalReviews;
	// the review aggregate only moves through AddRating.
	Save(ctx context.Context, u *models.User) error
	// AddRating folds one review rating into the cached running average
	// atomically, moving Rating and TotalReviews together.
	AddRating(ctx context.Context, userID uint, rating int) error
	List(ctx context.Context, f UserFilter) ([]models.User, error)
	PopularSkills(ctx context.Context, limit int) ([]SkillCount, error)
	Stats(ctx context.Context) (*UserStats, error)
}

type JobStore interface {
	Create(ctx context.Context, j *models.Job) error
	ByID(ctx context.Context, id uint) (*models.Job, error)
	// Save persists the posting but never writes Views or
	// ApplicationsCount; the counters only move through their atomic
	// store operations.
	Save(ctx context.Context, j *models.Job) error
	List(ctx context.Context, f JobFilter) ([]models.Job, error)
	Featured(ctx context.Context, limit int) ([]models.Job, error)
	Similar(ctx context.Context, category string, excludeID uint, limit int) ([]models.Job, error)
	// IncrementViews bumps the view counter with a store-level atomic
	// expression; concurrent calls must never lose an increment.
	IncrementViews(ctx context.Context, id uint) error
	Categories(ctx context.Context) ([]CategoryCount, error)
	Stats(ctx context.Context) (*JobStats, error)
}

type ApplicationStore interface {
	// Create inserts the application and increments the owning job's
	// ApplicationsCount as one atomic unit. Returns ErrDuplicateKey if the
	// (job, worker) pair already exists.
	Create(ctx context.Context, a *models.Application) error
	ByID(ctx context.Context, id uint) (*models.Application, error)
	ByJobAndWorker(ctx context.Context, jobID, workerID uint) (*models.Application, error)
	ListByJob(ctx context.Context, jobID uint) ([]models.Application, error)
	ListByWorker(ctx context.Context, workerID uint) ([]models.Application, error)
	Save(ctx context.Context, a *models.Application) error
	// Delete removes the application and decrements the owning job's
	// ApplicationsCount as one atomic unit.
	Delete(ctx context.Context, a *models.Application) error
	CountByJob(ctx context.Context, jobID uint) (int64, error)
}

type ReviewStore interface {
	Create(ctx context.Context, r *models.Review) error
	ListForUser(ctx context.Context, userID uint) ([]models.Review, error)
}
