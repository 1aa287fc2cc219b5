package postgres

import (
	"context"

	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"jua_kazi/internal/models"
	"jua_kazi/internal/store"
)

type JobStore struct {
	db *gorm.DB
}

func (s *JobStore) Create(ctx context.Context, j *models.Job) error {
	return translate(s.db.WithContext(ctx).Create(j).Error)
}

func (s *JobStore) ByID(ctx context.Context, id uint) (*models.Job, error) {
	var job models.Job
	if err := s.db.WithContext(ctx).Preload("Employer").First(&job, id).Error; err != nil {
		return nil, translate(err)
	}
	return &job, nil
}

// Save persists the posting. The counter columns are omitted: views and
// applications_count are only ever moved by their atomic store operations,
// so a save of an earlier read can never overwrite a concurrent increment.
func (s *JobStore) Save(ctx context.Context, j *models.Job) error {
	return translate(s.db.WithContext(ctx).
		Omit("views", "applications_count", clause.Associations).
		Save(j).Error)
}

func (s *JobStore) List(ctx context.Context, f store.JobFilter) ([]models.Job, error) {
	q := s.db.WithContext(ctx).Model(&models.Job{})
	if f.County != "" {
		q = q.Where("location_county ILIKE ?", "%"+f.County+"%")
	}
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.Type != "" {
		q = q.Where("type = ?", f.Type)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if len(f.Skills) > 0 {
		q = q.Where("skills && ?", pq.Array(f.Skills))
	}
	if f.MinSalary > 0 {
		q = q.Where("salary_amount >= ?", f.MinSalary)
	}
	if f.MaxSalary > 0 {
		q = q.Where("salary_amount <= ?", f.MaxSalary)
	}
	if f.Urgent != nil {
		q = q.Where("is_urgent = ?", *f.Urgent)
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	if f.Offset > 0 {
		q = q.Offset(f.Offset)
	}

	var jobs []models.Job
	if err := q.Order("created_at DESC").Find(&jobs).Error; err != nil {
		return nil, translate(err)
	}
	return jobs, nil
}

func (s *JobStore) Featured(ctx context.Context, limit int) ([]models.Job, error) {
	var jobs []models.Job
	err := s.db.WithContext(ctx).
		Where("featured = ?", true).
		Order("created_at DESC").
		Limit(limit).
		Find(&jobs).Error
	if err != nil {
		return nil, translate(err)
	}
	return jobs, nil
}

func (s *JobStore) Similar(ctx context.Context, category string, excludeID uint, limit int) ([]models.Job, error) {
	var jobs []models.Job
	err := s.db.WithContext(ctx).
		Where("category = ? AND status = ? AND id <> ?", category, models.JobOpen, excludeID).
		Order("created_at DESC").
		Limit(limit).
		Find(&jobs).Error
	if err != nil {
		return nil, translate(err)
	}
	return jobs, nil
}

// IncrementViews runs the increment inside the database so concurrent reads
// never lose an update.
func (s *JobStore) IncrementViews(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Model(&models.Job{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + ?", 1))
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *JobStore) Categories(ctx context.Context) ([]store.CategoryCount, error) {
	var counts []store.CategoryCount
	err := s.db.WithContext(ctx).Model(&models.Job{}).
		Select("category AS name, COUNT(*) AS count, COALESCE(AVG(salary_amount), 0) AS avg_salary").
		Where("status = ?", models.JobOpen).
		Group("category").
		Order("count DESC").
		Scan(&counts).Error
	if err != nil {
		return nil, translate(err)
	}
	return counts, nil
}

func (s *JobStore) Stats(ctx context.Context) (*store.JobStats, error) {
	stats := &store.JobStats{JobsByType: map[string]int64{}}
	db := s.db.WithContext(ctx)

	err := db.Model(&models.Job{}).
		Select(`COUNT(*) AS total_jobs,
			COALESCE(SUM(views), 0) AS total_views,
			COALESCE(AVG(salary_amount), 0) AS avg_salary,
			COUNT(*) FILTER (WHERE is_urgent) AS urgent_jobs`).
		Where("status = ?", models.JobOpen).
		Scan(stats).Error
	if err != nil {
		return nil, translate(err)
	}

	type typeRow struct {
		Type  string
		Count int64
	}
	var byType []typeRow
	err = db.Model(&models.Job{}).
		Select("type, COUNT(*) AS count").
		Where("status = ?", models.JobOpen).
		Group("type").
		Scan(&byType).Error
	if err != nil {
		return nil, translate(err)
	}
	for _, r := range byType {
		stats.JobsByType[r.Type] = r.Count
	}

	err = db.Model(&models.Job{}).
		Select("category AS name, COUNT(*) AS count, COALESCE(AVG(salary_amount), 0) AS avg_salary").
		Where("status = ?", models.JobOpen).
		Group("category").
		Order("count DESC").
		Limit(5).
		Scan(&stats.TopCategories).Error
	if err != nil {
		return nil, translate(err)
	}
	return stats, nil
}
