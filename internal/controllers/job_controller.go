package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"jua_kazi/internal/geo"
	"jua_kazi/internal/middleware"
	"jua_kazi/internal/models"
	"jua_kazi/internal/service"
	"jua_kazi/internal/store"
	"jua_kazi/internal/validators"
)

type JobController struct {
	jobs *service.JobService
}

func NewJobController(jobs *service.JobService) *JobController {
	return &JobController{jobs: jobs}
}

// List returns jobs matching the query filters, newest first.
func (ctl *JobController) List(c *gin.Context) {
	filter := store.JobFilter{
		County:   c.Query("location"),
		Category: c.Query("category"),
		Type:     c.Query("type"),
		Status:   c.Query("status"),
	}
	if skills := c.Query("skills"); skills != "" {
		filter.Skills = splitCSV(skills)
	}
	filter.MinSalary, _ = strconv.ParseFloat(c.Query("min_salary"), 64)
	filter.MaxSalary, _ = strconv.ParseFloat(c.Query("max_salary"), 64)
	if urgent := c.Query("urgent"); urgent != "" {
		v := urgent == "true" || urgent == "1"
		filter.Urgent = &v
	}
	filter.Limit, _ = strconv.Atoi(c.Query("limit"))
	filter.Offset, _ = strconv.Atoi(c.Query("offset"))

	jobs, err := ctl.jobs.List(c.Request.Context(), filter)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(jobs),
		"jobs":    jobResponses(jobs),
	})
}

// Featured returns up to ten featured jobs, newest first.
func (ctl *JobController) Featured(c *gin.Context) {
	jobs, err := ctl.jobs.Featured(c.Request.Context())
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(jobs),
		"jobs":    jobResponses(jobs),
	})
}

// Get returns one job plus up to three similar open jobs.
//
// Reading a job is a documented mutation: every call bumps the job's view
// counter, so this endpoint is intentionally not idempotent.
func (ctl *JobController) Get(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	job, similar, err := ctl.jobs.Get(c.Request.Context(), id)
	if err != nil {
		respondErr(c, err)
		return
	}

	summaries := make([]gin.H, 0, len(similar))
	for i := range similar {
		summaries = append(summaries, gin.H{
			"id":       similar[i].ID,
			"title":    similar[i].Title,
			"location": similar[i].Location,
			"salary":   similar[i].Salary,
			"type":     similar[i].Type,
			"skills":   similar[i].Skills,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"job":          jobResponse(job),
		"similar_jobs": summaries,
	})
}

// Categories aggregates open jobs per category.
func (ctl *JobController) Categories(c *gin.Context) {
	counts, err := ctl.jobs.Categories(c.Request.Context())
	if err != nil {
		respondErr(c, err)
		return
	}
	out := make([]gin.H, 0, len(counts))
	for _, cat := range counts {
		out = append(out, gin.H{
			"name":         cat.Name,
			"display_name": titleCase(cat.Name),
			"count":        cat.Count,
			"avg_salary":   int64(cat.AvgSalary + 0.5),
		})
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "categories": out})
}

// Stats returns aggregate statistics over open jobs.
func (ctl *JobController) Stats(c *gin.Context) {
	stats, err := ctl.jobs.Stats(c.Request.Context())
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "stats": stats})
}

type createJobInput struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Type        string   `json:"type"`
	Category    string   `json:"category"`
	Skills      []string `json:"skills"`
	Location    struct {
		County        string `json:"county"`
		SubCounty     string `json:"sub_county"`
		Ward          string `json:"ward"`
		ExactLocation string `json:"exact_location"`
	} `json:"location"`
	Salary struct {
		Amount     float64 `json:"amount"`
		Period     string  `json:"period"`
		Negotiable bool    `json:"is_negotiable"`
	} `json:"salary"`
	StartDate       *time.Time `json:"start_date"`
	EndDate         *time.Time `json:"end_date"`
	IsUrgent        bool       `json:"is_urgent"`
	CompanyName     string     `json:"company_name"`
	ContactPhone    string     `json:"contact_phone"`
	ContactWhatsApp string     `json:"contact_whatsapp"`
	MapPoint        string     `json:"map_point"` // GeoJSON point, optional
}

// Create posts a new job for the authenticated employer.
func (ctl *JobController) Create(c *gin.Context) {
	var input createJobInput
	if err := c.ShouldBindJSON(&input); err != nil {
		validationFailed(c, validators.BindingErrors(err))
		return
	}
	if errs := validators.JobPosting(input.Title, input.Description, input.Salary.Amount, input.Location.County); len(errs) > 0 {
		validationFailed(c, errs)
		return
	}
	point, err := geo.ParsePoint(input.MapPoint)
	if err != nil {
		validationFailed(c, []string{"map_point must be a valid GeoJSON geometry"})
		return
	}

	job, err := ctl.jobs.Create(c.Request.Context(), middleware.UserID(c), service.CreateJobInput{
		Title:       input.Title,
		Description: input.Description,
		Type:        input.Type,
		Category:    input.Category,
		Skills:      input.Skills,
		Location: models.JobLocation{
			County:        input.Location.County,
			SubCounty:     input.Location.SubCounty,
			Ward:          input.Location.Ward,
			ExactLocation: input.Location.ExactLocation,
		},
		Salary: models.Salary{
			Amount:     input.Salary.Amount,
			Currency:   "KES",
			Period:     input.Salary.Period,
			Negotiable: input.Salary.Negotiable,
		},
		StartDate:       input.StartDate,
		EndDate:         input.EndDate,
		IsUrgent:        input.IsUrgent,
		CompanyName:     input.CompanyName,
		ContactPhone:    input.ContactPhone,
		ContactWhatsApp: input.ContactWhatsApp,
		MapPoint:        point,
	})
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Job posted successfully",
		"job":     jobResponse(job),
	})
}

type updateJobInput struct {
	Title           *string             `json:"title"`
	Description     *string             `json:"description"`
	Type            *string             `json:"type"`
	Category        *string             `json:"category"`
	Skills          []string            `json:"skills"`
	Location        *models.JobLocation `json:"location"`
	Salary          *models.Salary      `json:"salary"`
	IsUrgent        *bool               `json:"is_urgent"`
	Status          *string             `json:"status"`
	Featured        *bool               `json:"featured"`
	PromotedUntil   *time.Time          `json:"promoted_until"`
	ContactPhone    *string             `json:"contact_phone"`
	ContactWhatsApp *string             `json:"contact_whatsapp"`
}

// Update patches a posting owned by the caller, including its status.
func (ctl *JobController) Update(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var input updateJobInput
	if err := c.ShouldBindJSON(&input); err != nil {
		validationFailed(c, validators.BindingErrors(err))
		return
	}
	job, err := ctl.jobs.Update(c.Request.Context(), id, middleware.UserID(c), service.UpdateJobInput{
		Title:           input.Title,
		Description:     input.Description,
		Type:            input.Type,
		Category:        input.Category,
		Skills:          input.Skills,
		Location:        input.Location,
		Salary:          input.Salary,
		IsUrgent:        input.IsUrgent,
		Status:          input.Status,
		Featured:        input.Featured,
		PromotedUntil:   input.PromotedUntil,
		ContactPhone:    input.ContactPhone,
		ContactWhatsApp: input.ContactWhatsApp,
	})
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "job": jobResponse(job)})
}

// jobResponse renders a job with its display salary and the map point
// converted back to GeoJSON.
func jobResponse(job *models.Job) gin.H {
	out := gin.H{
		"id":                 job.ID,
		"created_at":         job.CreatedAt,
		"updated_at":         job.UpdatedAt,
		"title":              job.Title,
		"description":        job.Description,
		"type":               job.Type,
		"category":           job.Category,
		"skills":             job.Skills,
		"location":           job.Location,
		"salary":             job.Salary,
		"formatted_salary":   job.FormattedSalary(),
		"start_date":         job.StartDate,
		"end_date":           job.EndDate,
		"is_urgent":          job.IsUrgent,
		"employer_id":        job.EmployerID,
		"company_name":       job.CompanyName,
		"contact_phone":      job.ContactPhone,
		"contact_whatsapp":   job.ContactWhatsApp,
		"status":             job.Status,
		"views":              job.Views,
		"applications_count": job.ApplicationsCount,
		"featured":           job.Featured,
		"promoted_until":     job.PromotedUntil,
	}
	if job.Employer != nil {
		out["employer"] = gin.H{
			"id":            job.Employer.ID,
			"name":          job.Employer.Name,
			"phone":         job.Employer.Phone,
			"rating":        job.Employer.Rating,
			"total_reviews": job.Employer.TotalReviews,
			"profile_image": job.Employer.ProfileImage,
		}
	}
	if geoJSON, err := geo.ToGeoJSON(job.MapPoint); err == nil && geoJSON != "" {
		out["map_point"] = geoJSON
	}
	return out
}

func jobResponses(jobs []models.Job) []gin.H {
	out := make([]gin.H, 0, len(jobs))
	for i := range jobs {
		out = append(out, jobResponse(&jobs[i]))
	}
	return out
}
