// Package memory is an in-memory store implementation with the same
// contract as the postgres store: unique user phone/email, one application
// per (job, worker), and atomic counters. It backs the service tests so
// they run without a database.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"jua_kazi/internal/models"
	"jua_kazi/internal/store"
)

type data struct {
	mu      sync.Mutex
	users   map[uint]*models.User
	jobs    map[uint]*models.Job
	apps    map[uint]*models.Application
	reviews map[uint]*models.Review
	lastID  uint
}

// Store bundles the per-entity stores over one shared dataset, mirroring
// the postgres.Store shape.
type Store struct {
	Users        *UserStore
	Jobs         *JobStore
	Applications *ApplicationStore
	Reviews      *ReviewStore
}

func New() *Store {
	d := &data{
		users:   map[uint]*models.User{},
		jobs:    map[uint]*models.Job{},
		apps:    map[uint]*models.Application{},
		reviews: map[uint]*models.Review{},
	}
	return &Store{
		Users:        &UserStore{d: d},
		Jobs:         &JobStore{d: d},
		Applications: &ApplicationStore{d: d},
		Reviews:      &ReviewStore{d: d},
	}
}

func (d *data) nextID() uint {
	d.lastID++
	return d.lastID
}

type UserStore struct{ d *data }

func (s *UserStore) Create(_ context.Context, u *models.User) error {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	for _, existing := range s.d.users {
		if existing.Phone == u.Phone {
			return store.ErrDuplicateKey
		}
		if u.Email != nil && existing.Email != nil && *existing.Email == *u.Email {
			return store.ErrDuplicateKey
		}
	}
	u.ID = s.d.nextID()
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	cp := *u
	s.d.users[u.ID] = &cp
	return nil
}

func (s *UserStore) ByID(_ context.Context, id uint) (*models.User, error) {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	u, ok := s.d.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *UserStore) ByPhone(_ context.Context, phone string) (*models.User, error) {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	for _, u := range s.d.users {
		if u.Phone == phone {
			cp := *u
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *UserStore) ByEmail(_ context.Context, email string) (*models.User, error) {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	for _, u := range s.d.users {
		if u.Email != nil && *u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *UserStore) Save(_ context.Context, u *models.User) error {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	existing, ok := s.d.users[u.ID]
	if !ok {
		return store.ErrNotFound
	}
	u.UpdatedAt = time.Now()
	// the review aggregate is owned by AddRating; Save never resets it
	u.Rating = existing.Rating
	u.TotalReviews = existing.TotalReviews
	cp := *u
	s.d.users[u.ID] = &cp
	return nil
}

func (s *UserStore) AddRating(_ context.Context, userID uint, rating int) error {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	u, ok := s.d.users[userID]
	if !ok {
		return store.ErrNotFound
	}
	total := float64(u.TotalReviews)
	u.Rating = (u.Rating*total + float64(rating)) / (total + 1)
	u.TotalReviews++
	return nil
}

func (s *UserStore) List(_ context.Context, f store.UserFilter) ([]models.User, error) {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	var out []models.User
	for _, u := range s.d.users {
		if f.Role != "" && u.Role != f.Role {
			continue
		}
		if f.Location != "" && !containsFold(u.Location.County, f.Location) {
			continue
		}
		if len(f.Skills) > 0 && !u.HasSkills(f.Skills) {
			continue
		}
		if f.MinRating > 0 && u.Rating < f.MinRating {
			continue
		}
		if f.Search != "" && !containsFold(u.Name, f.Search) {
			continue
		}
		out = append(out, *u)
	}
	sortByCreatedDesc(out, func(u models.User) (time.Time, uint) { return u.CreatedAt, u.ID })
	return window(out, f.Limit, f.Offset), nil
}

func (s *UserStore) PopularSkills(_ context.Context, limit int) ([]store.SkillCount, error) {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	counts := map[string]int64{}
	for _, u := range s.d.users {
		if u.Role != models.RoleWorker {
			continue
		}
		for _, skill := range u.Skills {
			counts[skill]++
		}
	}
	out := make([]store.SkillCount, 0, len(counts))
	for skill, n := range counts {
		out = append(out, store.SkillCount{Skill: skill, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Skill < out[j].Skill
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *UserStore) Stats(_ context.Context) (*store.UserStats, error) {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	stats := &store.UserStats{}
	var workerRating, employerRating float64
	byCounty := map[string]int64{}
	for _, u := range s.d.users {
		stats.TotalUsers++
		switch u.Role {
		case models.RoleWorker:
			stats.Workers++
			workerRating += u.Rating
			if u.IsVerified.Phone && u.IsVerified.ID {
				stats.VerifiedWorkers++
			}
			byCounty[u.Location.County]++
		case models.RoleEmployer:
			stats.Employers++
			employerRating += u.Rating
			if u.IsVerified.Phone && u.IsVerified.ID {
				stats.VerifiedEmployers++
			}
		}
	}
	if stats.Workers > 0 {
		stats.AvgWorkerRating = workerRating / float64(stats.Workers)
	}
	if stats.Employers > 0 {
		stats.AvgEmployerRating = employerRating / float64(stats.Employers)
	}
	for county, n := range byCounty {
		stats.WorkersByCounty = append(stats.WorkersByCounty, store.CountyCount{County: county, Count: n})
	}
	sort.Slice(stats.WorkersByCounty, func(i, j int) bool {
		return stats.WorkersByCounty[i].Count > stats.WorkersByCounty[j].Count
	})
	return stats, nil
}

type JobStore struct{ d *data }

func (s *JobStore) Create(_ context.Context, j *models.Job) error {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	j.ID = s.d.nextID()
	j.CreatedAt = time.Now()
	j.UpdatedAt = j.CreatedAt
	cp := *j
	s.d.jobs[j.ID] = &cp
	return nil
}

func (s *JobStore) ByID(_ context.Context, id uint) (*models.Job, error) {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	j, ok := s.d.jobs[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *j
	if emp, ok := s.d.users[j.EmployerID]; ok {
		ecp := *emp
		cp.Employer = &ecp
	}
	return &cp, nil
}

func (s *JobStore) Save(_ context.Context, j *models.Job) error {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	existing, ok := s.d.jobs[j.ID]
	if !ok {
		return store.ErrNotFound
	}
	j.UpdatedAt = time.Now()
	// counters are owned by the store; Save never resets them
	j.Views = existing.Views
	j.ApplicationsCount = existing.ApplicationsCount
	cp := *j
	cp.Employer = nil
	s.d.jobs[j.ID] = &cp
	return nil
}

func (s *JobStore) List(_ context.Context, f store.JobFilter) ([]models.Job, error) {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	var out []models.Job
	for _, j := range s.d.jobs {
		if f.County != "" && !containsFold(j.Location.County, f.County) {
			continue
		}
		if f.Category != "" && j.Category != f.Category {
			continue
		}
		if f.Type != "" && j.Type != f.Type {
			continue
		}
		if f.Status != "" && j.Status != f.Status {
			continue
		}
		if len(f.Skills) > 0 && !overlap(j.Skills, f.Skills) {
			continue
		}
		if f.MinSalary > 0 && j.Salary.Amount < f.MinSalary {
			continue
		}
		if f.MaxSalary > 0 && j.Salary.Amount > f.MaxSalary {
			continue
		}
		if f.Urgent != nil && j.IsUrgent != *f.Urgent {
			continue
		}
		out = append(out, *j)
	}
	sortByCreatedDesc(out, func(j models.Job) (time.Time, uint) { return j.CreatedAt, j.ID })
	return window(out, f.Limit, f.Offset), nil
}

func (s *JobStore) Featured(_ context.Context, limit int) ([]models.Job, error) {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	var out []models.Job
	for _, j := range s.d.jobs {
		if j.Featured {
			out = append(out, *j)
		}
	}
	sortByCreatedDesc(out, func(j models.Job) (time.Time, uint) { return j.CreatedAt, j.ID })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *JobStore) Similar(_ context.Context, category string, excludeID uint, limit int) ([]models.Job, error) {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	var out []models.Job
	for _, j := range s.d.jobs {
		if j.ID == excludeID || j.Category != category || j.Status != models.JobOpen {
			continue
		}
		out = append(out, *j)
	}
	sortByCreatedDesc(out, func(j models.Job) (time.Time, uint) { return j.CreatedAt, j.ID })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *JobStore) IncrementViews(_ context.Context, id uint) error {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	j, ok := s.d.jobs[id]
	if !ok {
		return store.ErrNotFound
	}
	j.Views++
	return nil
}

func (s *JobStore) Categories(_ context.Context) ([]store.CategoryCount, error) {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	return s.openCategoryCounts(0), nil
}

func (s *JobStore) Stats(_ context.Context) (*store.JobStats, error) {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	stats := &store.JobStats{JobsByType: map[string]int64{}}
	var salarySum float64
	for _, j := range s.d.jobs {
		if j.Status != models.JobOpen {
			continue
		}
		stats.TotalJobs++
		stats.TotalViews += j.Views
		salarySum += j.Salary.Amount
		if j.IsUrgent {
			stats.UrgentJobs++
		}
		stats.JobsByType[j.Type]++
	}
	if stats.TotalJobs > 0 {
		stats.AvgSalary = salarySum / float64(stats.TotalJobs)
	}
	stats.TopCategories = s.openCategoryCounts(5)
	return stats, nil
}

// openCategoryCounts aggregates open jobs per category, count descending.
// Callers must hold the lock.
func (s *JobStore) openCategoryCounts(limit int) []store.CategoryCount {
	type agg struct {
		count int64
		sum   float64
	}
	byCat := map[string]*agg{}
	for _, j := range s.d.jobs {
		if j.Status != models.JobOpen {
			continue
		}
		a := byCat[j.Category]
		if a == nil {
			a = &agg{}
			byCat[j.Category] = a
		}
		a.count++
		a.sum += j.Salary.Amount
	}
	out := make([]store.CategoryCount, 0, len(byCat))
	for cat, a := range byCat {
		out = append(out, store.CategoryCount{
			Name:      cat,
			Count:     a.count,
			AvgSalary: a.sum / float64(a.count),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

type ApplicationStore struct{ d *data }

func (s *ApplicationStore) Create(_ context.Context, a *models.Application) error {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	for _, existing := range s.d.apps {
		if existing.JobID == a.JobID && existing.WorkerID == a.WorkerID {
			return store.ErrDuplicateKey
		}
	}
	job, ok := s.d.jobs[a.JobID]
	if !ok {
		return store.ErrNotFound
	}
	a.ID = s.d.nextID()
	a.CreatedAt = time.Now()
	a.UpdatedAt = a.CreatedAt
	cp := *a
	s.d.apps[a.ID] = &cp
	job.ApplicationsCount++
	return nil
}

func (s *ApplicationStore) ByID(_ context.Context, id uint) (*models.Application, error) {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	a, ok := s.d.apps[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *a
	if job, ok := s.d.jobs[a.JobID]; ok {
		jcp := *job
		cp.Job = &jcp
	}
	return &cp, nil
}

func (s *ApplicationStore) ByJobAndWorker(_ context.Context, jobID, workerID uint) (*models.Application, error) {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	for _, a := range s.d.apps {
		if a.JobID == jobID && a.WorkerID == workerID {
			cp := *a
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *ApplicationStore) ListByJob(_ context.Context, jobID uint) ([]models.Application, error) {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	var out []models.Application
	for _, a := range s.d.apps {
		if a.JobID == jobID {
			out = append(out, *a)
		}
	}
	sortByCreatedDesc(out, func(a models.Application) (time.Time, uint) { return a.CreatedAt, a.ID })
	return out, nil
}

func (s *ApplicationStore) ListByWorker(_ context.Context, workerID uint) ([]models.Application, error) {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	var out []models.Application
	for _, a := range s.d.apps {
		if a.WorkerID == workerID {
			cp := *a
			if job, ok := s.d.jobs[a.JobID]; ok {
				jcp := *job
				cp.Job = &jcp
			}
			out = append(out, cp)
		}
	}
	sortByCreatedDesc(out, func(a models.Application) (time.Time, uint) { return a.CreatedAt, a.ID })
	return out, nil
}

func (s *ApplicationStore) Save(_ context.Context, a *models.Application) error {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	if _, ok := s.d.apps[a.ID]; !ok {
		return store.ErrNotFound
	}
	a.UpdatedAt = time.Now()
	cp := *a
	cp.Job = nil
	cp.Worker = nil
	s.d.apps[a.ID] = &cp
	return nil
}

func (s *ApplicationStore) Delete(_ context.Context, a *models.Application) error {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	if _, ok := s.d.apps[a.ID]; !ok {
		return store.ErrNotFound
	}
	delete(s.d.apps, a.ID)
	if job, ok := s.d.jobs[a.JobID]; ok {
		job.ApplicationsCount--
	}
	return nil
}

func (s *ApplicationStore) CountByJob(_ context.Context, jobID uint) (int64, error) {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	var count int64
	for _, a := range s.d.apps {
		if a.JobID == jobID {
			count++
		}
	}
	return count, nil
}

type ReviewStore struct{ d *data }

func (s *ReviewStore) Create(_ context.Context, r *models.Review) error {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	r.ID = s.d.nextID()
	r.CreatedAt = time.Now()
	r.UpdatedAt = r.CreatedAt
	cp := *r
	s.d.reviews[r.ID] = &cp
	return nil
}

func (s *ReviewStore) ListForUser(_ context.Context, userID uint) ([]models.Review, error) {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	var out []models.Review
	for _, r := range s.d.reviews {
		if r.RevieweeID == userID {
			cp := *r
			if reviewer, ok := s.d.users[r.ReviewerID]; ok {
				rcp := *reviewer
				cp.Reviewer = &rcp
			}
			out = append(out, cp)
		}
	}
	sortByCreatedDesc(out, func(r models.Review) (time.Time, uint) { return r.CreatedAt, r.ID })
	return out, nil
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

func overlap(have, want []string) bool {
	set := map[string]bool{}
	for _, s := range have {
		set[strings.ToLower(s)] = true
	}
	for _, s := range want {
		if set[strings.ToLower(s)] {
			return true
		}
	}
	return false
}

func sortByCreatedDesc[T any](items []T, key func(T) (time.Time, uint)) {
	sort.Slice(items, func(i, j int) bool {
		ti, idi := key(items[i])
		tj, idj := key(items[j])
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return idi > idj
	})
}

func window[T any](items []T, limit, offset int) []T {
	if offset > 0 {
		if offset >= len(items) {
			return nil
		}
		items = items[offset:]
	}
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items
}
