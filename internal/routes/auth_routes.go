package routes

import (
	"github.com/gin-gonic/gin"

	"jua_kazi/internal/controllers"
	"jua_kazi/internal/middleware"
)

func AuthRoutes(r *gin.Engine, ctl *controllers.AuthController) {
	auth := r.Group("/api/auth")
	{
		auth.POST("/register", ctl.Register)
		auth.POST("/login", ctl.Login)
		auth.POST("/forgot-password", ctl.ForgotPassword)
		auth.POST("/reset-password", ctl.ResetPassword)
	}

	me := r.Group("/api/auth")
	me.Use(middleware.RequireAuth())
	{
		me.GET("/me", ctl.Me)
		me.PUT("/update-profile", ctl.UpdateProfile)
		me.POST("/verify-phone", ctl.VerifyPhone)
		me.POST("/resend-verification", ctl.ResendVerification)
	}
}
