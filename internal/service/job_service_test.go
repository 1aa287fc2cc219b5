package service_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"

	"jua_kazi/internal/models"
	"jua_kazi/internal/service"
	"jua_kazi/internal/store"
)

func TestCreateJobAppliesDefaults(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	employer := h.seedUser(t, models.RoleEmployer, "Mama Njeri", "254711000001")

	job, err := h.jobs.Create(ctx, employer.ID, service.CreateJobInput{
		Title:       "Fence repair in Kikuyu",
		Description: "Replace three broken fence posts and re-tension the wire, tools provided.",
		Category:    "construction",
		Location:    models.JobLocation{County: "Kiambu"},
		Salary:      models.Salary{Amount: 2000},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if job.Status != models.JobOpen {
		t.Errorf("new job status = %q, want open", job.Status)
	}
	if job.Type != models.TypeCasual {
		t.Errorf("default type = %q, want casual", job.Type)
	}
	if job.Salary.Currency != "KES" || job.Salary.Period != models.PeriodDay {
		t.Errorf("salary defaults = %s/%s, want KES/day", job.Salary.Currency, job.Salary.Period)
	}
	if job.Featured || job.Views != 0 || job.ApplicationsCount != 0 {
		t.Error("new job must start unfeatured with zeroed counters")
	}
}

func TestCreateJobRejectsUnknownCategory(t *testing.T) {
	h := newHarness()
	employer := h.seedUser(t, models.RoleEmployer, "Mama Njeri", "254711000001")

	_, err := h.jobs.Create(context.Background(), employer.ID, service.CreateJobInput{
		Title:       "Fence repair in Kikuyu",
		Description: "Replace three broken fence posts and re-tension the wire, tools provided.",
		Category:    "gardening",
		Location:    models.JobLocation{County: "Kiambu"},
		Salary:      models.Salary{Amount: 2000},
	})
	if !errors.Is(err, service.ErrInvalidCategory) {
		t.Fatalf("err = %v, want ErrInvalidCategory", err)
	}
}

func TestGetCountsEveryView(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	employer := h.seedUser(t, models.RoleEmployer, "Mama Njeri", "254711000001")
	job := h.seedJob(t, employer.ID, "plumbing")

	const reads = 4
	var last *models.Job
	for i := 0; i < reads; i++ {
		var err error
		last, _, err = h.jobs.Get(ctx, job.ID)
		if err != nil {
			t.Fatalf("Get #%d: %v", i+1, err)
		}
	}
	if last.Views != reads {
		t.Errorf("views after %d reads = %d, want %d", reads, last.Views, reads)
	}
}

func TestConcurrentReadsCountEveryView(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	employer := h.seedUser(t, models.RoleEmployer, "Mama Njeri", "254711000001")
	job := h.seedJob(t, employer.ID, "plumbing")

	const readers = 32
	var wg sync.WaitGroup
	errs := make(chan error, readers)
	for i := 0; i < readers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, _, err := h.jobs.Get(ctx, job.ID); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("concurrent Get: %v", err)
	}

	stored, err := h.store.Jobs.ByID(ctx, job.ID)
	if err != nil {
		t.Fatalf("ByID: %v", err)
	}
	if stored.Views != readers {
		t.Errorf("views after %d concurrent reads = %d, want %d", readers, stored.Views, readers)
	}
}

func TestJobSaveNeverWritesCounters(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	employer := h.seedUser(t, models.RoleEmployer, "Mama Njeri", "254711000001")
	worker := h.seedUser(t, models.RoleWorker, "Otis Kamau", "254722000001")
	job := h.seedJob(t, employer.ID, "plumbing")

	// read a copy, then let both counters move behind its back
	stale, err := h.store.Jobs.ByID(ctx, job.ID)
	if err != nil {
		t.Fatalf("ByID: %v", err)
	}
	if _, _, err := h.jobs.Get(ctx, job.ID); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if _, err := h.apps.Apply(ctx, job.ID, worker.ID, ""); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	stale.Title = "Updated from a stale read"
	if err := h.store.Jobs.Save(ctx, stale); err != nil {
		t.Fatalf("Save: %v", err)
	}

	reloaded, err := h.store.Jobs.ByID(ctx, job.ID)
	if err != nil {
		t.Fatalf("ByID: %v", err)
	}
	if reloaded.Title != stale.Title {
		t.Errorf("title = %q, want the saved value", reloaded.Title)
	}
	if reloaded.Views != 1 || reloaded.ApplicationsCount != 1 {
		t.Errorf("counters after stale save = views %d, applications %d, want 1 and 1",
			reloaded.Views, reloaded.ApplicationsCount)
	}
}

func TestCreateJobAlertsMatchingWorkers(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	employer := h.seedUser(t, models.RoleEmployer, "Mama Njeri", "254711000001")

	match := h.seedUser(t, models.RoleWorker, "Otis Kamau", "254722000001")
	match.Skills = []string{"plumbing"}
	match.Availability = models.AvailabilityAvailable
	match.Notifications.SMS = true
	if err := h.store.Users.Save(ctx, match); err != nil {
		t.Fatalf("save: %v", err)
	}
	// same skills but opted out of SMS
	optedOut := h.seedUser(t, models.RoleWorker, "Jane Wanjiku", "254722000002")
	optedOut.Skills = []string{"plumbing"}
	optedOut.Availability = models.AvailabilityAvailable
	if err := h.store.Users.Save(ctx, optedOut); err != nil {
		t.Fatalf("save: %v", err)
	}

	hook := test.NewGlobal()
	defer hook.Reset()

	_, err := h.jobs.Create(ctx, employer.ID, service.CreateJobInput{
		Title:       "Burst pipe repair in South B",
		Description: "Kitchen supply line burst, needs a plumber today with own tools.",
		Category:    "plumbing",
		Skills:      []string{"plumbing"},
		Location:    models.JobLocation{County: "Nairobi"},
		Salary:      models.Salary{Amount: 1800},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	var alerted []string
	for _, entry := range hook.AllEntries() {
		if strings.Contains(entry.Message, "JOB ALERT") {
			if to, ok := entry.Data["to"].(string); ok {
				alerted = append(alerted, to)
			}
		}
	}
	if len(alerted) != 1 || alerted[0] != match.Phone {
		t.Errorf("alerted %v, want exactly %q", alerted, match.Phone)
	}
}

func TestCreateJobSurvivesAlertFailure(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	employer := h.seedUser(t, models.RoleEmployer, "Mama Njeri", "254711000001")

	// matching worker with an undeliverable number
	broken := h.seedUser(t, models.RoleWorker, "Otis Kamau", "12345")
	broken.Skills = []string{"plumbing"}
	broken.Availability = models.AvailabilityAvailable
	broken.Notifications.SMS = true
	if err := h.store.Users.Save(ctx, broken); err != nil {
		t.Fatalf("save: %v", err)
	}

	job, err := h.jobs.Create(ctx, employer.ID, service.CreateJobInput{
		Title:       "Burst pipe repair in South B",
		Description: "Kitchen supply line burst, needs a plumber today with own tools.",
		Category:    "plumbing",
		Skills:      []string{"plumbing"},
		Location:    models.JobLocation{County: "Nairobi"},
		Salary:      models.Salary{Amount: 1800},
	})
	if err != nil {
		t.Fatalf("Create must not fail on alert delivery: %v", err)
	}
	if job.ID == 0 {
		t.Error("job was not persisted")
	}
}

func TestGetUnknownJob(t *testing.T) {
	h := newHarness()
	if _, _, err := h.jobs.Get(context.Background(), 999); !errors.Is(err, service.ErrJobNotFound) {
		t.Fatalf("err = %v, want ErrJobNotFound", err)
	}
}

func TestGetSimilarJobs(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	employer := h.seedUser(t, models.RoleEmployer, "Mama Njeri", "254711000001")

	target := h.seedJob(t, employer.ID, "plumbing")
	for i := 0; i < 5; i++ {
		h.seedJob(t, employer.ID, "plumbing")
	}
	h.seedJob(t, employer.ID, "electrical")

	closedStatus := models.JobClosed
	closed := h.seedJob(t, employer.ID, "plumbing")
	if _, err := h.jobs.Update(ctx, closed.ID, employer.ID, service.UpdateJobInput{Status: &closedStatus}); err != nil {
		t.Fatalf("close job: %v", err)
	}

	_, similar, err := h.jobs.Get(ctx, target.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(similar) != service.SimilarJobLimit {
		t.Fatalf("similar count = %d, want %d", len(similar), service.SimilarJobLimit)
	}
	for _, s := range similar {
		if s.ID == target.ID {
			t.Error("similar jobs must exclude the job itself")
		}
		if s.Category != "plumbing" || s.Status != models.JobOpen {
			t.Errorf("similar job %d is %s/%s, want open plumbing", s.ID, s.Category, s.Status)
		}
	}
}

func TestFeaturedLimit(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	employer := h.seedUser(t, models.RoleEmployer, "Mama Njeri", "254711000001")

	featured := true
	for i := 0; i < service.FeaturedJobLimit+3; i++ {
		job := h.seedJob(t, employer.ID, "cleaning")
		if _, err := h.jobs.Update(ctx, job.ID, employer.ID, service.UpdateJobInput{Featured: &featured}); err != nil {
			t.Fatalf("feature job: %v", err)
		}
	}

	jobs, err := h.jobs.Featured(ctx)
	if err != nil {
		t.Fatalf("Featured: %v", err)
	}
	if len(jobs) != service.FeaturedJobLimit {
		t.Fatalf("featured count = %d, want %d", len(jobs), service.FeaturedJobLimit)
	}
}

func TestListClampsPageSize(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	employer := h.seedUser(t, models.RoleEmployer, "Mama Njeri", "254711000001")

	for i := 0; i < service.MaxPageSize+5; i++ {
		h.seedJob(t, employer.ID, "delivery")
	}

	jobs, err := h.jobs.List(ctx, store.JobFilter{Limit: 100000})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(jobs) != service.MaxPageSize {
		t.Errorf("oversized limit returned %d jobs, want %d", len(jobs), service.MaxPageSize)
	}

	jobs, err = h.jobs.List(ctx, store.JobFilter{Limit: -1})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(jobs) != service.DefaultPageSize {
		t.Errorf("negative limit returned %d jobs, want default %d", len(jobs), service.DefaultPageSize)
	}
}

func TestListFilters(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	employer := h.seedUser(t, models.RoleEmployer, "Mama Njeri", "254711000001")

	h.seedJob(t, employer.ID, "plumbing")
	h.seedJob(t, employer.ID, "plumbing")
	h.seedJob(t, employer.ID, "security")

	jobs, err := h.jobs.List(ctx, store.JobFilter{Category: "plumbing"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(jobs) != 2 {
		t.Errorf("plumbing filter returned %d jobs, want 2", len(jobs))
	}
}

func TestUpdateJobOwnership(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	owner := h.seedUser(t, models.RoleEmployer, "Mama Njeri", "254711000001")
	other := h.seedUser(t, models.RoleEmployer, "Baba Otis", "254711000002")
	job := h.seedJob(t, owner.ID, "driving")

	title := "Matatu driver wanted"
	if _, err := h.jobs.Update(ctx, job.ID, other.ID, service.UpdateJobInput{Title: &title}); !errors.Is(err, service.ErrNotOwner) {
		t.Fatalf("err = %v, want ErrNotOwner", err)
	}
	updated, err := h.jobs.Update(ctx, job.ID, owner.ID, service.UpdateJobInput{Title: &title})
	if err != nil {
		t.Fatalf("owner update: %v", err)
	}
	if updated.Title != title {
		t.Errorf("title = %q, want %q", updated.Title, title)
	}
}

func TestUpdateJobStatus(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	employer := h.seedUser(t, models.RoleEmployer, "Mama Njeri", "254711000001")
	job := h.seedJob(t, employer.ID, "farming")

	bad := "archived"
	if _, err := h.jobs.Update(ctx, job.ID, employer.ID, service.UpdateJobInput{Status: &bad}); !errors.Is(err, service.ErrInvalidStatus) {
		t.Fatalf("err = %v, want ErrInvalidStatus", err)
	}

	// jobs have no transition table: filled can reopen
	for _, status := range []string{models.JobFilled, models.JobOpen, models.JobCancelled} {
		s := status
		updated, err := h.jobs.Update(ctx, job.ID, employer.ID, service.UpdateJobInput{Status: &s})
		if err != nil {
			t.Fatalf("set status %s: %v", status, err)
		}
		if updated.Status != status {
			t.Errorf("status = %q, want %q", updated.Status, status)
		}
	}
}

func TestCategoriesCountOpenJobsOnly(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	employer := h.seedUser(t, models.RoleEmployer, "Mama Njeri", "254711000001")

	h.seedJob(t, employer.ID, "plumbing")
	h.seedJob(t, employer.ID, "plumbing")
	h.seedJob(t, employer.ID, "electrical")

	closedStatus := models.JobClosed
	closed := h.seedJob(t, employer.ID, "electrical")
	if _, err := h.jobs.Update(ctx, closed.ID, employer.ID, service.UpdateJobInput{Status: &closedStatus}); err != nil {
		t.Fatalf("close job: %v", err)
	}

	counts, err := h.jobs.Categories(ctx)
	if err != nil {
		t.Fatalf("Categories: %v", err)
	}
	got := map[string]int64{}
	for _, c := range counts {
		got[c.Name] = c.Count
	}
	if got["plumbing"] != 2 || got["electrical"] != 1 {
		t.Errorf("category counts = %v, want plumbing:2 electrical:1", got)
	}
}

func TestStatsAggregateOpenJobs(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	employer := h.seedUser(t, models.RoleEmployer, "Mama Njeri", "254711000001")

	urgent := true
	categories := []string{"plumbing", "cleaning", "security"}
	for i := 0; i < 3; i++ {
		job := h.seedJob(t, employer.ID, categories[i])
		if i == 0 {
			if _, err := h.jobs.Update(ctx, job.ID, employer.ID, service.UpdateJobInput{IsUrgent: &urgent}); err != nil {
				t.Fatalf("mark urgent: %v", err)
			}
		}
	}

	stats, err := h.jobs.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.TotalJobs != 3 {
		t.Errorf("TotalJobs = %d, want 3", stats.TotalJobs)
	}
	if stats.UrgentJobs != 1 {
		t.Errorf("UrgentJobs = %d, want 1", stats.UrgentJobs)
	}
	if stats.AvgSalary != 1500 {
		t.Errorf("AvgSalary = %v, want 1500", stats.AvgSalary)
	}
}
