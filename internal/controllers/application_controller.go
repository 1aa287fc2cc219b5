package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"jua_kazi/internal/middleware"
	"jua_kazi/internal/service"
	"jua_kazi/internal/validators"
)

type ApplicationController struct {
	apps *service.ApplicationService
}

func NewApplicationController(apps *service.ApplicationService) *ApplicationController {
	return &ApplicationController{apps: apps}
}

// Apply submits the authenticated worker's application to a job.
func (ctl *ApplicationController) Apply(c *gin.Context) {
	jobID, ok := paramID(c)
	if !ok {
		return
	}
	var body struct {
		CoverMessage string `json:"cover_message"`
	}
	if err := c.ShouldBindJSON(&body); err != nil && err.Error() != "EOF" {
		validationFailed(c, validators.BindingErrors(err))
		return
	}

	app, err := ctl.apps.Apply(c.Request.Context(), jobID, middleware.UserID(c), body.CoverMessage)
	if err != nil {
		respondErr(c, err)
		return
	}

	resp := gin.H{
		"id":         app.ID,
		"job_id":     app.JobID,
		"applied_at": app.AppliedAt,
		"status":     app.Status,
	}
	if app.Job != nil {
		resp["job_title"] = app.Job.Title
	}
	c.JSON(http.StatusCreated, gin.H{
		"success":     true,
		"message":     "Application submitted successfully!",
		"application": resp,
	})
}

// ListForJob returns a job's applications to its owning employer.
func (ctl *ApplicationController) ListForJob(c *gin.Context) {
	jobID, ok := paramID(c)
	if !ok {
		return
	}
	apps, err := ctl.apps.ListForJob(c.Request.Context(), jobID, middleware.UserID(c))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(apps), "applications": apps})
}

// Mine returns the authenticated worker's applications.
func (ctl *ApplicationController) Mine(c *gin.Context) {
	apps, err := ctl.apps.ListForWorker(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(apps), "applications": apps})
}

// Respond lets the employer accept or reject a pending application.
func (ctl *ApplicationController) Respond(c *gin.Context) {
	appID, ok := paramID(c)
	if !ok {
		return
	}
	var body struct {
		Status  string `json:"status" binding:"required,oneof=accepted rejected"`
		Message string `json:"message"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		validationFailed(c, validators.BindingErrors(err))
		return
	}
	app, err := ctl.apps.Respond(c.Request.Context(), appID, middleware.UserID(c), body.Status, body.Message)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "application": app})
}

// Withdraw moves the worker's pending application to withdrawn.
func (ctl *ApplicationController) Withdraw(c *gin.Context) {
	appID, ok := paramID(c)
	if !ok {
		return
	}
	app, err := ctl.apps.Withdraw(c.Request.Context(), appID, middleware.UserID(c))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "application": app})
}

// Remove deletes the worker's application outright.
func (ctl *ApplicationController) Remove(c *gin.Context) {
	appID, ok := paramID(c)
	if !ok {
		return
	}
	if err := ctl.apps.Remove(c.Request.Context(), appID, middleware.UserID(c)); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Application removed"})
}
