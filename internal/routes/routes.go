package routes

import (
	"net/http"
	"time"

	ginlog "github.com/gin-contrib/logger"
	"github.com/gin-gonic/gin"

	"jua_kazi/internal/controllers"
)

var startedAt = time.Now()

// Controllers groups everything the router needs; main wires it once.
type Controllers struct {
	Auth         *controllers.AuthController
	Jobs         *controllers.JobController
	Applications *controllers.ApplicationController
	Users        *controllers.UserController
}

func SetupRouter(ctls Controllers) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(ginlog.SetLogger())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"success":   true,
			"status":    "OK",
			"message":   "JuaKazi API is running",
			"timestamp": time.Now().Format(time.RFC3339),
			"uptime":    time.Since(startedAt).String(),
		})
	})

	AuthRoutes(r, ctls.Auth)
	JobRoutes(r, ctls.Jobs, ctls.Applications)
	ApplicationRoutes(r, ctls.Applications)
	UserRoutes(r, ctls.Users)

	return r
}
