package routes

import (
	"github.com/gin-gonic/gin"

	"jua_kazi/internal/controllers"
	"jua_kazi/internal/middleware"
	"jua_kazi/internal/models"
)

func JobRoutes(r *gin.Engine, jobs *controllers.JobController, apps *controllers.ApplicationController) {
	public := r.Group("/api/jobs")
	{
		// static paths before the :id routes
		public.GET("/featured", jobs.Featured)
		public.GET("/categories", jobs.Categories)
		public.GET("/stats", jobs.Stats)
		public.GET("", jobs.List)
		public.GET("/:id", jobs.Get)
	}

	employer := r.Group("/api/jobs")
	employer.Use(middleware.RequireAuthWithRole(models.RoleEmployer, models.RoleAdmin))
	{
		employer.POST("", jobs.Create)
		employer.PUT("/:id", jobs.Update)
		employer.GET("/:id/applications", apps.ListForJob)
	}

	worker := r.Group("/api/jobs")
	worker.Use(middleware.RequireAuthWithRole(models.RoleWorker))
	{
		worker.POST("/:id/apply", apps.Apply)
	}
}
