package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/eduhub/eduhub-api/api/swagger"
	"github.com/eduhub/eduhub-api/internal/handler"
	"github.com/eduhub/eduhub-api/internal/integration"
	"github.com/eduhub/eduhub-api/internal/middleware"
	"github.com/eduhub/eduhub-api/internal/repository"
	"github.com/eduhub/eduhub-api/internal/service"
	"github.com/eduhub/eduhub-api/pkg/cache"
	"github.com/eduhub/eduhub-api/pkg/config"
	"github.com/eduhub/eduhub-api/pkg/database"
	"github.com/eduhub/eduhub-api/pkg/logger"
	"github.com/eduhub/eduhub-api/pkg/mailer"
	corsmiddleware "github.com/eduhub/eduhub-api/pkg/middleware/cors"
	reqidmiddleware "github.com/eduhub/eduhub-api/pkg/middleware/requestid"
)

// @title EduHub API
// @version 1.0.0
// @description School communication platform API: rosters, attendance, gradebook, assignments and messaging.
// @BasePath /
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to redis", "error", err)
	}
	defer redisClient.Close()

	validate := validator.New()

	userRepo := repository.NewUserRepository(db)
	rosterRepo := repository.NewRosterRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	gradeRepo := repository.NewGradeRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	behaviorRepo := repository.NewBehaviorRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	metricsSvc := service.NewMetricsService()

	var mail mailer.Mailer
	if cfg.Email.Provider == "sendgrid" && cfg.Email.SendGridKey != "" {
		mail = mailer.NewSendGrid(cfg.Email.SendGridKey, cfg.Email.FromName, cfg.Email.FromAddress, logr)
	} else {
		mail = mailer.NewConsole(logr)
	}

	classroom := integration.ClassroomProvider(integration.NewNoopClassroom(logr))
	if cfg.Integrations.ClassroomEnabled {
		logr.Warn("classroom sync enabled but no provider is implemented, using no-op")
	}
	conference := integration.ConferenceProvider(integration.NewNoopConference(logr))
	if cfg.Integrations.ConferenceEnabled {
		logr.Warn("video conferencing enabled but no provider is implemented, using no-op")
	}

	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		TokenSecret: cfg.Session.Secret,
		TokenExpiry: cfg.Session.Expiration,
	})
	classSvc := service.NewClassService(rosterRepo, logr)
	attendanceSvc := service.NewAttendanceService(attendanceRepo, rosterRepo, validate, logr)
	gradebookSvc := service.NewGradebookService(gradeRepo, rosterRepo, cacheRepo, cfg.Gradebook.CacheTTL, metricsSvc, logr)
	assignmentSvc := service.NewAssignmentService(assignmentRepo, rosterRepo, cacheRepo, classroom, validate, logr)
	messageSvc := service.NewMessageService(messageRepo, userRepo, mail, metricsSvc, validate, logr)
	studentSvc := service.NewStudentService(studentRepo, attendanceRepo, gradeRepo, behaviorRepo, conference, mail, validate, logr)
	userSvc := service.NewUserService(userRepo, logr)

	authHandler := handler.NewAuthHandler(authSvc)
	classHandler := handler.NewClassHandler(classSvc)
	attendanceHandler := handler.NewAttendanceHandler(attendanceSvc)
	gradebookHandler := handler.NewGradebookHandler(gradebookSvc)
	assignmentHandler := handler.NewAssignmentHandler(assignmentSvc)
	messageHandler := handler.NewMessageHandler(messageSvc)
	studentHandler := handler.NewStudentHandler(studentSvc)
	userHandler := handler.NewUserHandler(userSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	auth.POST("/login", authHandler.Login)
	auth.POST("/logout", middleware.JWT(authSvc), authHandler.Logout)
	auth.GET("/me", middleware.JWT(authSvc), authHandler.Me)

	teacher := api.Group("/teacher", middleware.JWT(authSvc))
	teacher.GET("/classes", middleware.RequirePermission(middleware.PermViewGradebook), classHandler.List)
	teacher.GET("/attendance", middleware.RequirePermission(middleware.PermManageAttendance), attendanceHandler.Sheet)
	teacher.POST("/attendance", middleware.RequirePermission(middleware.PermManageAttendance), attendanceHandler.Save)
	teacher.GET("/gradebook", middleware.RequirePermission(middleware.PermViewGradebook), gradebookHandler.Get)
	teacher.GET("/gradebook/export", middleware.RequirePermission(middleware.PermViewGradebook), gradebookHandler.Export)
	teacher.GET("/assignments", middleware.RequirePermission(middleware.PermManageAssignments), assignmentHandler.List)
	teacher.POST("/assignments", middleware.RequirePermission(middleware.PermManageAssignments), assignmentHandler.Create)
	teacher.GET("/students/:id", middleware.RequirePermission(middleware.PermViewStudents), studentHandler.Profile)
	teacher.POST("/students/:id/conference", middleware.RequirePermission(middleware.PermViewStudents), studentHandler.Conference)

	api.POST("/messages", middleware.JWT(authSvc), middleware.RequirePermission(middleware.PermSendMessages), messageHandler.Send)
	api.GET("/users", middleware.JWT(authSvc), middleware.RequirePermission(middleware.PermViewDirectory), userHandler.Directory)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
