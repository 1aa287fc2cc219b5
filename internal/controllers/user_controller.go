package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"jua_kazi/internal/middleware"
	"jua_kazi/internal/models"
	"jua_kazi/internal/service"
	"jua_kazi/internal/store"
	"jua_kazi/internal/validators"
)

type UserController struct {
	dir *service.DirectoryService
}

func NewUserController(dir *service.DirectoryService) *UserController {
	return &UserController{dir: dir}
}

// List filters the user directory by role, location, skills, rating and
// name.
func (ctl *UserController) List(c *gin.Context) {
	filter := store.UserFilter{
		Role:     c.Query("user_type"),
		Location: c.Query("location"),
		Search:   c.Query("search"),
	}
	if skills := c.Query("skills"); skills != "" {
		filter.Skills = splitCSV(skills)
	}
	filter.MinRating, _ = strconv.ParseFloat(c.Query("min_rating"), 64)
	filter.Limit, _ = strconv.Atoi(c.Query("limit"))
	filter.Offset, _ = strconv.Atoi(c.Query("offset"))

	users, err := ctl.dir.ListUsers(c.Request.Context(), filter)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(users), "users": users})
}

// Workers lists worker profiles.
func (ctl *UserController) Workers(c *gin.Context) {
	users, err := ctl.dir.ListUsers(c.Request.Context(), store.UserFilter{Role: models.RoleWorker})
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(users), "workers": users})
}

// Employers lists employer profiles.
func (ctl *UserController) Employers(c *gin.Context) {
	users, err := ctl.dir.ListUsers(c.Request.Context(), store.UserFilter{Role: models.RoleEmployer})
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(users), "employers": users})
}

// Get returns one profile with its reviews.
func (ctl *UserController) Get(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	user, reviews, err := ctl.dir.GetUser(c.Request.Context(), id)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "user": user, "reviews": reviews})
}

// Reviews returns the reviews left for a user.
func (ctl *UserController) Reviews(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	reviews, err := ctl.dir.Reviews(c.Request.Context(), id)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"user_id":       id,
		"total_reviews": len(reviews),
		"reviews":       reviews,
	})
}

// AddReview stores a review for a user and updates their cached rating.
func (ctl *UserController) AddReview(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var body struct {
		Rating         int    `json:"rating" binding:"required"`
		Comment        string `json:"comment"`
		JobID          *uint  `json:"job_id"`
		WouldRecommend *bool  `json:"would_recommend"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		validationFailed(c, validators.BindingErrors(err))
		return
	}
	recommend := true
	if body.WouldRecommend != nil {
		recommend = *body.WouldRecommend
	}
	review, err := ctl.dir.AddReview(c.Request.Context(), middleware.UserID(c), service.AddReviewInput{
		RevieweeID:     id,
		JobID:          body.JobID,
		Rating:         body.Rating,
		Comment:        body.Comment,
		WouldRecommend: recommend,
	})
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Review added successfully", "review": review})
}

// PopularSkills ranks skill frequency across workers, top ten.
func (ctl *UserController) PopularSkills(c *gin.Context) {
	skills, err := ctl.dir.PopularSkills(c.Request.Context())
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "popular_skills": skills})
}

// Stats returns directory-wide user statistics.
func (ctl *UserController) Stats(c *gin.Context) {
	stats, err := ctl.dir.Stats(c.Request.Context())
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "stats": stats})
}
