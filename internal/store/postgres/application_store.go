package postgres

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"jua_kazi/internal/models"
)

type ApplicationStore struct {
	db *gorm.DB
}

// Create inserts the application and bumps the job's applications_count in
// one transaction, so the derived counter can never drift from the row set
// on this path. The unique (job_id, worker_id) index catches duplicate
// applies, including two racing ones.
func (s *ApplicationStore) Create(ctx context.Context, a *models.Application) error {
	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return tx.Error
	}
	if err := tx.Create(a).Error; err != nil {
		tx.Rollback()
		return translate(err)
	}
	err := tx.Model(&models.Job{}).
		Where("id = ?", a.JobID).
		UpdateColumn("applications_count", gorm.Expr("applications_count + ?", 1)).Error
	if err != nil {
		tx.Rollback()
		return translate(err)
	}
	return translate(tx.Commit().Error)
}

func (s *ApplicationStore) ByID(ctx context.Context, id uint) (*models.Application, error) {
	var app models.Application
	if err := s.db.WithContext(ctx).Preload("Job").First(&app, id).Error; err != nil {
		return nil, translate(err)
	}
	return &app, nil
}

func (s *ApplicationStore) ByJobAndWorker(ctx context.Context, jobID, workerID uint) (*models.Application, error) {
	var app models.Application
	err := s.db.WithContext(ctx).
		Where("job_id = ? AND worker_id = ?", jobID, workerID).
		First(&app).Error
	if err != nil {
		return nil, translate(err)
	}
	return &app, nil
}

func (s *ApplicationStore) ListByJob(ctx context.Context, jobID uint) ([]models.Application, error) {
	var apps []models.Application
	err := s.db.WithContext(ctx).
		Preload("Worker").
		Where("job_id = ?", jobID).
		Order("created_at DESC").
		Find(&apps).Error
	if err != nil {
		return nil, translate(err)
	}
	return apps, nil
}

func (s *ApplicationStore) ListByWorker(ctx context.Context, workerID uint) ([]models.Application, error) {
	var apps []models.Application
	err := s.db.WithContext(ctx).
		Preload("Job").
		Where("worker_id = ?", workerID).
		Order("created_at DESC").
		Find(&apps).Error
	if err != nil {
		return nil, translate(err)
	}
	return apps, nil
}

func (s *ApplicationStore) Save(ctx context.Context, a *models.Application) error {
	return translate(s.db.WithContext(ctx).Omit(clause.Associations).Save(a).Error)
}

// Delete removes the application and decrements the job counter
// symmetrically with Create.
func (s *ApplicationStore) Delete(ctx context.Context, a *models.Application) error {
	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return tx.Error
	}
	if err := tx.Unscoped().Delete(a).Error; err != nil {
		tx.Rollback()
		return translate(err)
	}
	err := tx.Model(&models.Job{}).
		Where("id = ?", a.JobID).
		UpdateColumn("applications_count", gorm.Expr("applications_count - ?", 1)).Error
	if err != nil {
		tx.Rollback()
		return translate(err)
	}
	return translate(tx.Commit().Error)
}

func (s *ApplicationStore) CountByJob(ctx context.Context, jobID uint) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Application{}).
		Where("job_id = ?", jobID).
		Count(&count).Error
	if err != nil {
		return 0, translate(err)
	}
	return count, nil
}
