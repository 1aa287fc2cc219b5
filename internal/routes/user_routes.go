package routes

import (
	"github.com/gin-gonic/gin"

	"jua_kazi/internal/controllers"
	"jua_kazi/internal/middleware"
)

func UserRoutes(r *gin.Engine, ctl *controllers.UserController) {
	users := r.Group("/api/users")
	{
		users.GET("", ctl.List)
		users.GET("/workers", ctl.Workers)
		users.GET("/employers", ctl.Employers)
		users.GET("/skills/popular", ctl.PopularSkills)
		users.GET("/stats", ctl.Stats)
		users.GET("/:id", ctl.Get)
		users.GET("/:id/reviews", ctl.Reviews)
	}

	authed := r.Group("/api/users")
	authed.Use(middleware.RequireAuth())
	{
		authed.POST("/:id/reviews", ctl.AddReview)
	}
}
