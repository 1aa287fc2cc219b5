package postgres

import (
	"context"

	"gorm.io/gorm"

	"jua_kazi/internal/models"
)

type ReviewStore struct {
	db *gorm.DB
}

func (s *ReviewStore) Create(ctx context.Context, r *models.Review) error {
	return translate(s.db.WithContext(ctx).Create(r).Error)
}

func (s *ReviewStore) ListForUser(ctx context.Context, userID uint) ([]models.Review, error) {
	var reviews []models.Review
	err := s.db.WithContext(ctx).
		Preload("Reviewer").
		Where("reviewee_id = ?", userID).
		Order("created_at DESC").
		Find(&reviews).Error
	if err != nil {
		return nil, translate(err)
	}
	return reviews, nil
}
