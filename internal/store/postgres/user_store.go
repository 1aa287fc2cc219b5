package postgres

import (
	"context"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"jua_kazi/internal/models"
	"jua_kazi/internal/store"
)

type UserStore struct {
	db *gorm.DB
}

func (s *UserStore) Create(ctx context.Context, u *models.User) error {
	return translate(s.db.WithContext(ctx).Create(u).Error)
}

func (s *UserStore) ByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *UserStore) ByPhone(ctx context.Context, phone string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("phone = ?", phone).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *UserStore) ByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

// Save persists the profile. The cached review aggregate is omitted:
// rating and total_reviews only move through AddRating, so a profile save
// racing a review can never overwrite it.
func (s *UserStore) Save(ctx context.Context, u *models.User) error {
	return translate(s.db.WithContext(ctx).
		Omit("rating", "total_reviews").
		Save(u).Error)
}

// AddRating folds one review rating into the user's cached running average.
// Both columns move in a single atomic update, so concurrent reviews and
// profile saves never lose a contribution.
func (s *UserStore) AddRating(ctx context.Context, userID uint, rating int) error {
	res := s.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		UpdateColumns(map[string]interface{}{
			"rating":        gorm.Expr("(rating * total_reviews + ?) / (total_reviews + 1)", rating),
			"total_reviews": gorm.Expr("total_reviews + 1"),
		})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *UserStore) List(ctx context.Context, f store.UserFilter) ([]models.User, error) {
	q := s.db.WithContext(ctx).Model(&models.User{})
	if f.Role != "" {
		q = q.Where("role = ?", f.Role)
	}
	if f.Location != "" {
		q = q.Where("location_county ILIKE ?", "%"+f.Location+"%")
	}
	if len(f.Skills) > 0 {
		// superset match: the worker must list every requested skill
		q = q.Where("skills @> ?", pq.Array(f.Skills))
	}
	if f.MinRating > 0 {
		q = q.Where("rating >= ?", f.MinRating)
	}
	if f.Search != "" {
		q = q.Where("name ILIKE ?", "%"+f.Search+"%")
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	if f.Offset > 0 {
		q = q.Offset(f.Offset)
	}

	var users []models.User
	if err := q.Order("created_at DESC").Find(&users).Error; err != nil {
		return nil, translate(err)
	}
	return users, nil
}

func (s *UserStore) PopularSkills(ctx context.Context, limit int) ([]store.SkillCount, error) {
	var counts []store.SkillCount
	err := s.db.WithContext(ctx).Raw(`
		SELECT skill, COUNT(*) AS count
		FROM (
			SELECT unnest(skills) AS skill
			FROM users
			WHERE role = ? AND deleted_at IS NULL
		) worker_skills
		GROUP BY skill
		ORDER BY count DESC
		LIMIT ?`, models.RoleWorker, limit).Scan(&counts).Error
	if err != nil {
		return nil, translate(err)
	}
	return counts, nil
}

func (s *UserStore) Stats(ctx context.Context) (*store.UserStats, error) {
	stats := &store.UserStats{}
	db := s.db.WithContext(ctx)

	type roleRow struct {
		Role      string
		Count     int64
		AvgRating float64
		Verified  int64
	}
	var rows []roleRow
	err := db.Model(&models.User{}).
		Select(`role,
			COUNT(*) AS count,
			COALESCE(AVG(rating), 0) AS avg_rating,
			COUNT(*) FILTER (WHERE verified_phone AND verified_id) AS verified`).
		Group("role").
		Scan(&rows).Error
	if err != nil {
		return nil, translate(err)
	}
	for _, r := range rows {
		stats.TotalUsers += r.Count
		switch r.Role {
		case models.RoleWorker:
			stats.Workers = r.Count
			stats.AvgWorkerRating = r.AvgRating
			stats.VerifiedWorkers = r.Verified
		case models.RoleEmployer:
			stats.Employers = r.Count
			stats.AvgEmployerRating = r.AvgRating
			stats.VerifiedEmployers = r.Verified
		}
	}

	err = db.Model(&models.User{}).
		Select("location_county AS county, COUNT(*) AS count").
		Where("role = ?", models.RoleWorker).
		Group("location_county").
		Order("count DESC").
		Scan(&stats.WorkersByCounty).Error
	if err != nil {
		return nil, translate(err)
	}
	return stats, nil
}
