package service_test

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"

	"jua_kazi/internal/models"
	"jua_kazi/internal/service"
	"jua_kazi/internal/store"
)

func TestListUsersSkillSupersetMatch(t *testing.T) {
	h := newHarness()
	ctx := context.Background()

	both := h.seedUser(t, models.RoleWorker, "Otis Kamau", "254722000001")
	both.Skills = []string{"plumbing", "welding"}
	if err := h.store.Users.Save(ctx, both); err != nil {
		t.Fatalf("save: %v", err)
	}
	one := h.seedUser(t, models.RoleWorker, "Jane Wanjiku", "254722000002")
	one.Skills = []string{"plumbing"}
	if err := h.store.Users.Save(ctx, one); err != nil {
		t.Fatalf("save: %v", err)
	}

	users, err := h.dir.ListUsers(ctx, store.UserFilter{Skills: []string{"plumbing", "welding"}})
	if err != nil {
		t.Fatalf("ListUsers: %v", err)
	}
	if len(users) != 1 || users[0].ID != both.ID {
		t.Fatalf("superset filter returned %d users, want only the worker with both skills", len(users))
	}
}

func TestListUsersByRole(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	h.seedUser(t, models.RoleWorker, "Otis Kamau", "254722000001")
	h.seedUser(t, models.RoleEmployer, "Mama Njeri", "254711000001")

	workers, err := h.dir.ListUsers(ctx, store.UserFilter{Role: models.RoleWorker})
	if err != nil {
		t.Fatalf("ListUsers: %v", err)
	}
	if len(workers) != 1 || workers[0].Role != models.RoleWorker {
		t.Fatalf("role filter returned %d users", len(workers))
	}
}

func TestAddReviewRunningAverage(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	worker := h.seedUser(t, models.RoleWorker, "Otis Kamau", "254722000001")
	employer := h.seedUser(t, models.RoleEmployer, "Mama Njeri", "254711000001")

	for _, rating := range []int{5, 3, 4} {
		if _, err := h.dir.AddReview(ctx, employer.ID, service.AddReviewInput{
			RevieweeID:     worker.ID,
			Rating:         rating,
			Comment:        "Good work",
			WouldRecommend: true,
		}); err != nil {
			t.Fatalf("AddReview(%d): %v", rating, err)
		}
	}

	stored, err := h.store.Users.ByID(ctx, worker.ID)
	if err != nil {
		t.Fatalf("ByID: %v", err)
	}
	if stored.TotalReviews != 3 {
		t.Errorf("TotalReviews = %d, want 3", stored.TotalReviews)
	}
	if math.Abs(stored.Rating-4.0) > 1e-9 {
		t.Errorf("Rating = %v, want 4.0", stored.Rating)
	}
	if stored.Rating < 0 || stored.Rating > 5 {
		t.Errorf("Rating %v fell outside [0,5]", stored.Rating)
	}
}

func TestUserSaveNeverWritesRatingAggregate(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	worker := h.seedUser(t, models.RoleWorker, "Otis Kamau", "254722000001")
	employer := h.seedUser(t, models.RoleEmployer, "Mama Njeri", "254711000001")

	// read a copy, then let a review land behind its back
	stale, err := h.store.Users.ByID(ctx, worker.ID)
	if err != nil {
		t.Fatalf("ByID: %v", err)
	}
	if _, err := h.dir.AddReview(ctx, employer.ID, service.AddReviewInput{
		RevieweeID: worker.ID,
		Rating:     5,
	}); err != nil {
		t.Fatalf("AddReview: %v", err)
	}

	stale.Bio = "Updated from a stale read"
	if err := h.store.Users.Save(ctx, stale); err != nil {
		t.Fatalf("Save: %v", err)
	}

	reloaded, err := h.store.Users.ByID(ctx, worker.ID)
	if err != nil {
		t.Fatalf("ByID: %v", err)
	}
	if reloaded.Bio != stale.Bio {
		t.Errorf("bio = %q, want the saved value", reloaded.Bio)
	}
	if reloaded.TotalReviews != 1 || reloaded.Rating != 5 {
		t.Errorf("aggregate after stale save = rating %v, reviews %d, want 5 and 1",
			reloaded.Rating, reloaded.TotalReviews)
	}
}

func TestAddReviewInvalidRating(t *testing.T) {
	h := newHarness()
	worker := h.seedUser(t, models.RoleWorker, "Otis Kamau", "254722000001")
	employer := h.seedUser(t, models.RoleEmployer, "Mama Njeri", "254711000001")

	for _, rating := range []int{0, 6, -1} {
		_, err := h.dir.AddReview(context.Background(), employer.ID, service.AddReviewInput{
			RevieweeID: worker.ID,
			Rating:     rating,
		})
		if !errors.Is(err, service.ErrInvalidRating) {
			t.Errorf("rating %d: err = %v, want ErrInvalidRating", rating, err)
		}
	}
}

func TestAddReviewUnknownUser(t *testing.T) {
	h := newHarness()
	employer := h.seedUser(t, models.RoleEmployer, "Mama Njeri", "254711000001")
	_, err := h.dir.AddReview(context.Background(), employer.ID, service.AddReviewInput{RevieweeID: 999, Rating: 4})
	if !errors.Is(err, service.ErrUserNotFound) {
		t.Fatalf("err = %v, want ErrUserNotFound", err)
	}
}

func TestGetUserWithReviews(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	worker := h.seedUser(t, models.RoleWorker, "Otis Kamau", "254722000001")
	employer := h.seedUser(t, models.RoleEmployer, "Mama Njeri", "254711000001")

	if _, err := h.dir.AddReview(ctx, employer.ID, service.AddReviewInput{RevieweeID: worker.ID, Rating: 5}); err != nil {
		t.Fatalf("AddReview: %v", err)
	}
	user, reviews, err := h.dir.GetUser(ctx, worker.ID)
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if user.ID != worker.ID || len(reviews) != 1 {
		t.Fatalf("GetUser returned %d reviews, want 1", len(reviews))
	}
	if _, _, err := h.dir.GetUser(ctx, 999); !errors.Is(err, service.ErrUserNotFound) {
		t.Fatalf("err = %v, want ErrUserNotFound", err)
	}
}

func TestPopularSkillsTopTen(t *testing.T) {
	h := newHarness()
	ctx := context.Background()

	// 12 distinct skills; skill-0 is the most common
	for i := 0; i < 12; i++ {
		u := h.seedUser(t, models.RoleWorker, fmt.Sprintf("Worker %d", i), fmt.Sprintf("2547220000%02d", i))
		u.Skills = []string{"skill-0", fmt.Sprintf("skill-%d", i)}
		if err := h.store.Users.Save(ctx, u); err != nil {
			t.Fatalf("save: %v", err)
		}
	}
	// employers never contribute
	emp := h.seedUser(t, models.RoleEmployer, "Mama Njeri", "254711000001")
	emp.Skills = []string{"management"}
	if err := h.store.Users.Save(ctx, emp); err != nil {
		t.Fatalf("save: %v", err)
	}

	skills, err := h.dir.PopularSkills(ctx)
	if err != nil {
		t.Fatalf("PopularSkills: %v", err)
	}
	if len(skills) != service.PopularSkillLimit {
		t.Fatalf("returned %d skills, want %d", len(skills), service.PopularSkillLimit)
	}
	if skills[0].Skill != "skill-0" || skills[0].Count != 12 {
		t.Errorf("top skill = %s (%d), want skill-0 (12)", skills[0].Skill, skills[0].Count)
	}
	for _, s := range skills {
		if s.Skill == "management" {
			t.Error("employer skills leaked into the worker ranking")
		}
	}
}

func TestUserStats(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	h.seedUser(t, models.RoleWorker, "Otis Kamau", "254722000001")
	h.seedUser(t, models.RoleWorker, "Jane Wanjiku", "254722000002")
	h.seedUser(t, models.RoleEmployer, "Mama Njeri", "254711000001")

	stats, err := h.dir.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.TotalUsers != 3 || stats.Workers != 2 || stats.Employers != 1 {
		t.Errorf("stats = %+v, want 3 users, 2 workers, 1 employer", stats)
	}
}
