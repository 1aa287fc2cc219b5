package main

import (
	"log"
	"net/http"
	"os"

	"jua_kazi/internal/config"
	"jua_kazi/internal/controllers"
	"jua_kazi/internal/logger"
	"jua_kazi/internal/middleware"
	"jua_kazi/internal/routes"
	"jua_kazi/internal/service"
	"jua_kazi/internal/sms"
	"jua_kazi/internal/store/postgres"
)

func main() {
	// Structured logging to a rotating file
	logger.Setup()

	// Connect to the database and migrate the schema
	db := config.InitDB()
	st := postgres.New(db)

	smsSvc := sms.New(config.Production())

	jobSvc := service.NewJobService(st.Jobs, st.Users, smsSvc)
	appSvc := service.NewApplicationService(st.Applications, st.Jobs)
	dirSvc := service.NewDirectoryService(st.Users, st.Reviews)
	authSvc := service.NewAuthService(st.Users, smsSvc)

	r := routes.SetupRouter(routes.Controllers{
		Auth:         controllers.NewAuthController(authSvc),
		Jobs:         controllers.NewJobController(jobSvc),
		Applications: controllers.NewApplicationController(appSvc),
		Users:        controllers.NewUserController(dirSvc),
	})

	// Wrap with CORS for the static frontend
	handler := middleware.EnableCORS(r)

	addr := "0.0.0.0:" + port()
	log.Printf("JuaKazi API listening at %s", addr)
	log.Fatal(http.ListenAndServe(addr, handler))
}

func port() string {
	if p := os.Getenv("PORT"); p != "" {
		return p
	}
	return "8080"
}
