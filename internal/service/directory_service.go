package service

import (
	"context"
	"errors"

	"jua_kazi/internal/models"
	"jua_kazi/internal/store"
)

// PopularSkillLimit caps the popular-skills ranking.
const PopularSkillLimit = 10

// DirectoryService is the read side over users plus the review flow that
// feeds worker ratings.
type DirectoryService struct {
	users   store.UserStore
	reviews store.ReviewStore
}

func NewDirectoryService(users store.UserStore, reviews store.ReviewStore) *DirectoryService {
	return &DirectoryService{users: users, reviews: reviews}
}

// ListUsers filters the directory. Skill filtering is a superset match:
// a worker qualifies only when listing every requested skill.
func (s *DirectoryService) ListUsers(ctx context.Context, f store.UserFilter) ([]models.User, error) {
	f.Limit = clampPageSize(f.Limit)
	return s.users.List(ctx, f)
}

// GetUser returns one profile with the reviews left for it.
func (s *DirectoryService) GetUser(ctx context.Context, id uint) (*models.User, []models.Review, error) {
	user, err := s.users.ByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil, ErrUserNotFound
		}
		return nil, nil, err
	}
	reviews, err := s.reviews.ListForUser(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return user, reviews, nil
}

// Reviews returns the reviews left for a user.
func (s *DirectoryService) Reviews(ctx context.Context, userID uint) ([]models.Review, error) {
	if _, err := s.users.ByID(ctx, userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return s.reviews.ListForUser(ctx, userID)
}

type AddReviewInput struct {
	RevieweeID     uint
	JobID          *uint
	Rating         int
	Comment        string
	WouldRecommend bool
}

// AddReview stores the review and folds it into the reviewee's cached
// rating. The fold happens inside the store as one atomic update, and the
// rating stays within [0,5] because every contributing review is within
// [1,5].
func (s *DirectoryService) AddReview(ctx context.Context, reviewerID uint, in AddReviewInput) (*models.Review, error) {
	if in.Rating < 1 || in.Rating > 5 {
		return nil, ErrInvalidRating
	}
	if _, err := s.users.ByID(ctx, in.RevieweeID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	review := &models.Review{
		ReviewerID:     reviewerID,
		RevieweeID:     in.RevieweeID,
		JobID:          in.JobID,
		Rating:         in.Rating,
		Comment:        in.Comment,
		WouldRecommend: in.WouldRecommend,
	}
	if err := s.reviews.Create(ctx, review); err != nil {
		return nil, err
	}
	if err := s.users.AddRating(ctx, in.RevieweeID, in.Rating); err != nil {
		return nil, err
	}
	return review, nil
}

// PopularSkills ranks skill frequency across all workers, top ten.
func (s *DirectoryService) PopularSkills(ctx context.Context) ([]store.SkillCount, error) {
	return s.users.PopularSkills(ctx, PopularSkillLimit)
}

// Stats aggregates directory-wide user statistics.
func (s *DirectoryService) Stats(ctx context.Context) (*store.UserStats, error) {
	return s.users.Stats(ctx)
}
