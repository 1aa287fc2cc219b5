package service_test

import (
	"context"
	"testing"

	"jua_kazi/internal/models"
	"jua_kazi/internal/service"
	"jua_kazi/internal/sms"
	"jua_kazi/internal/store/memory"
)

// harness wires every service over one shared in-memory store so tests can
// observe cross-service effects, like application counts on jobs.
type harness struct {
	store *memory.Store
	jobs  *service.JobService
	apps  *service.ApplicationService
	dir   *service.DirectoryService
	auth  *service.AuthService
}

func newHarness() *harness {
	st := memory.New()
	smsSvc := sms.New(false)
	return &harness{
		store: st,
		jobs:  service.NewJobService(st.Jobs, st.Users, smsSvc),
		apps:  service.NewApplicationService(st.Applications, st.Jobs),
		dir:   service.NewDirectoryService(st.Users, st.Reviews),
		auth:  service.NewAuthService(st.Users, smsSvc),
	}
}

func (h *harness) seedUser(t *testing.T, role, name, phone string) *models.User {
	t.Helper()
	u := &models.User{
		Role:   role,
		Name:   name,
		Phone:  phone,
		Active: true,
		Location: models.UserLocation{
			County: "Nairobi",
		},
	}
	if err := h.store.Users.Create(context.Background(), u); err != nil {
		t.Fatalf("seed user %s: %v", name, err)
	}
	return u
}

func (h *harness) seedJob(t *testing.T, employerID uint, category string) *models.Job {
	t.Helper()
	job, err := h.jobs.Create(context.Background(), employerID, service.CreateJobInput{
		Title:       "General " + category + " work",
		Description: "Seeded posting used by the service tests, long enough to pass validation.",
		Category:    category,
		Location:    models.JobLocation{County: "Nairobi"},
		Salary:      models.Salary{Amount: 1500},
	})
	if err != nil {
		t.Fatalf("seed job: %v", err)
	}
	return job
}
