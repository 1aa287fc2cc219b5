package routes

import (
	"github.com/gin-gonic/gin"

	"jua_kazi/internal/controllers"
	"jua_kazi/internal/middleware"
	"jua_kazi/internal/models"
)

func ApplicationRoutes(r *gin.Engine, ctl *controllers.ApplicationController) {
	worker := r.Group("/api/applications")
	worker.Use(middleware.RequireAuthWithRole(models.RoleWorker))
	{
		worker.GET("/mine", ctl.Mine)
		worker.PUT("/:id/withdraw", ctl.Withdraw)
		worker.DELETE("/:id", ctl.Remove)
	}

	employer := r.Group("/api/applications")
	employer.Use(middleware.RequireAuthWithRole(models.RoleEmployer, models.RoleAdmin))
	{
		employer.PUT("/:id/respond", ctl.Respond)
	}
}
