package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/siga-peru/academico-api/api/swagger"
	"github.com/siga-peru/academico-api/internal/handler"
	"github.com/siga-peru/academico-api/internal/middleware"
	"github.com/siga-peru/academico-api/internal/models"
	"github.com/siga-peru/academico-api/internal/repository"
	"github.com/siga-peru/academico-api/internal/service"
	"github.com/siga-peru/academico-api/pkg/cache"
	"github.com/siga-peru/academico-api/pkg/config"
	"github.com/siga-peru/academico-api/pkg/database"
	"github.com/siga-peru/academico-api/pkg/export"
	"github.com/siga-peru/academico-api/pkg/logger"
	corsmiddleware "github.com/siga-peru/academico-api/pkg/middleware/cors"
	reqidmiddleware "github.com/siga-peru/academico-api/pkg/middleware/requestid"
	"github.com/siga-peru/academico-api/pkg/reniec"
	"github.com/siga-peru/academico-api/pkg/storage"
)

// @title Academico API
// @version 1.0.0
// @description Academic administration backend for a multi-campus institute
// @BasePath /api/v1
// @schemes http

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
		logr.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer db.Close()

	metricsSvc := service.NewMetricsService()

	var cacheSvc *service.CacheService
	if cfg.Catalog.CacheEnabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, catalog cache disabled", zap.Error(err))
		} else {
			cacheRepo := repository.NewCacheRepository(redisClient, logr)
			cacheSvc = service.NewCacheService(cacheRepo, metricsSvc, cfg.Catalog.CacheTTL, logr, true)
			defer cacheRepo.Close()
		}
	}

	receiptStore, err := storage.NewLocalStorage(cfg.Storage.ReceiptsDir, cfg.Storage.PublicBaseURL)
	if err != nil {
		logr.Fatal("failed to init receipt storage", zap.Error(err))
	}
	certificateStore, err := storage.NewLocalStorage(cfg.Certificates.StorageDir, "")
	if err != nil {
		logr.Fatal("failed to init certificate storage", zap.Error(err))
	}
	signer := storage.NewSignedURLSigner(cfg.Certificates.SignedURLSecret, cfg.Certificates.SignedURLTTL)
	renderer := export.NewCertificateRenderer("Instituto de Educación Superior SIGA Perú")

	var lookup reniec.Lookuper
	if cfg.Reniec.BaseURL != "" {
		lookup = reniec.NewClient(cfg.Reniec)
	}

	userRepo := repository.NewUserRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	teacherRepo := repository.NewTeacherRepository(db)
	secretaryRepo := repository.NewSecretaryRepository(db)
	adminRepo := repository.NewAdministratorRepository(db)
	campusRepo := repository.NewCampusRepository(db)
	careerRepo := repository.NewCareerRepository(db)
	scheduleRepo := repository.NewScheduleRepository(db)
	groupRepo := repository.NewGroupRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	specializationRepo := repository.NewSpecializationRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	pensionRepo := repository.NewPensionRepository(db)
	certificateRepo := repository.NewCertificateRepository(db)

	validate := validator.New()

	authSvc := service.NewAuthService(userRepo, studentRepo, teacherRepo, secretaryRepo, adminRepo, validate, logr, service.AuthConfig{
		Secret: cfg.JWT.Secret,
		Expiry: cfg.JWT.Expiration,
		Issuer: cfg.JWT.Issuer,
	})
	studentSvc := service.NewStudentService(studentRepo, userRepo, lookup, validate, logr)
	staffSvc := service.NewStaffService(teacherRepo, secretaryRepo, adminRepo, userRepo, campusRepo, validate, logr)
	campusSvc := service.NewCampusService(campusRepo, validate, logr)
	careerSvc := service.NewCareerService(careerRepo, cacheSvc, validate, logr)
	scheduleSvc := service.NewScheduleService(scheduleRepo, validate, logr)
	groupSvc := service.NewGroupService(groupRepo, careerRepo, teacherRepo, validate, logr)
	enrollmentSvc := service.NewEnrollmentService(enrollmentRepo, studentRepo, careerRepo, campusRepo, secretaryRepo, groupRepo, validate, logr)
	specializationSvc := service.NewSpecializationService(specializationRepo, studentRepo, secretaryRepo, campusRepo, teacherRepo, validate, logr)
	paymentSvc := service.NewPaymentService(paymentRepo, receiptStore, validate, logr)
	pensionSvc := service.NewPensionService(pensionRepo, enrollmentRepo, paymentRepo, validate, logr)
	certificateSvc := service.NewCertificateService(certificateRepo, studentRepo, careerRepo, campusRepo, renderer, certificateStore, signer, validate, logr)

	authHandler := handler.NewAuthHandler(authSvc)
	studentHandler := handler.NewStudentHandler(studentSvc)
	staffHandler := handler.NewStaffHandler(staffSvc)
	campusHandler := handler.NewCampusHandler(campusSvc)
	careerHandler := handler.NewCareerHandler(careerSvc)
	scheduleHandler := handler.NewScheduleHandler(scheduleSvc)
	groupHandler := handler.NewGroupHandler(groupSvc)
	enrollmentHandler := handler.NewEnrollmentHandler(enrollmentSvc, metricsSvc)
	specializationHandler := handler.NewSpecializationHandler(specializationSvc)
	paymentHandler := handler.NewPaymentHandler(paymentSvc)
	pensionHandler := handler.NewPensionHandler(pensionSvc)
	certificateHandler := handler.NewCertificateHandler(certificateSvc)
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
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	api.POST("/auth/login", authHandler.Login)
	api.GET("/certificates/download", certificateHandler.Download)

	auth := api.Group("")
	auth.Use(middleware.JWT(authSvc))

	admin := middleware.RequireRoles(models.RoleAdmin)
	staff := middleware.RequireRoles(models.RoleAdmin, models.RoleSecretary)
	anyRole := middleware.RequireRoles(models.RoleAdmin, models.RoleSecretary, models.RoleTeacher, models.RoleStudent)

	auth.PUT("/auth/password", anyRole, authHandler.ChangePassword)
	auth.GET("/auth/me", anyRole, authHandler.Me)

	auth.GET("/students", staff, studentHandler.List)
	auth.GET("/students/:id", anyRole, studentHandler.Get)
	auth.GET("/students/document/:dni", staff, studentHandler.GetByDocument)
	auth.GET("/students/dni/:dni", staff, studentHandler.LookupDNI)
	auth.PUT("/students/:id", staff, studentHandler.Update)
	auth.DELETE("/students/:id", admin, studentHandler.Delete)
	auth.GET("/students/:id/certificates", anyRole, certificateHandler.ListByStudent)

	auth.GET("/campuses", anyRole, campusHandler.List)
	auth.GET("/campuses/:id", anyRole, campusHandler.Get)
	auth.POST("/campuses", admin, campusHandler.Create)
	auth.PUT("/campuses/:id", admin, campusHandler.Update)
	auth.DELETE("/campuses/:id", admin, campusHandler.Delete)

	auth.GET("/careers", anyRole, careerHandler.List)
	auth.GET("/careers/:id", anyRole, careerHandler.Get)
	auth.POST("/careers", admin, careerHandler.Create)
	auth.PUT("/careers/:id", admin, careerHandler.Update)
	auth.DELETE("/careers/:id", admin, careerHandler.Delete)
	auth.GET("/careers/:id/modules", anyRole, careerHandler.ListModules)
	auth.POST("/careers/:id/modules", admin, careerHandler.CreateModule)
	auth.PUT("/careers/:id/modules/:moduleId", admin, careerHandler.UpdateModule)
	auth.DELETE("/careers/:id/modules/:moduleId", admin, careerHandler.DeleteModule)
	auth.POST("/careers/:id/campuses/:campusId", admin, careerHandler.AddOffering)
	auth.DELETE("/careers/:id/campuses/:campusId", admin, careerHandler.RemoveOffering)

	auth.GET("/schedules", anyRole, scheduleHandler.List)
	auth.GET("/schedules/:id", anyRole, scheduleHandler.Get)
	auth.POST("/schedules", staff, scheduleHandler.Create)
	auth.PUT("/schedules/:id", staff, scheduleHandler.Update)
	auth.DELETE("/schedules/:id", admin, scheduleHandler.Delete)

	auth.GET("/groups", middleware.RequireRoles(models.RoleAdmin, models.RoleSecretary, models.RoleTeacher), groupHandler.List)
	auth.GET("/groups/:id", middleware.RequireRoles(models.RoleAdmin, models.RoleSecretary, models.RoleTeacher), groupHandler.Get)
	auth.POST("/groups", admin, groupHandler.Create)
	auth.PUT("/groups/:id", admin, groupHandler.Update)
	auth.PATCH("/groups/:id/status", staff, groupHandler.SetStatus)
	auth.DELETE("/groups/:id", admin, groupHandler.Delete)

	auth.GET("/teachers", staff, staffHandler.ListTeachers)
	auth.GET("/teachers/:id", staff, staffHandler.GetTeacher)
	auth.POST("/teachers", admin, staffHandler.CreateTeacher)
	auth.PUT("/teachers/:id", admin, staffHandler.UpdateTeacher)
	auth.DELETE("/teachers/:id", admin, staffHandler.DeleteTeacher)

	auth.GET("/secretaries", admin, staffHandler.ListSecretaries)
	auth.GET("/secretaries/:id", admin, staffHandler.GetSecretary)
	auth.POST("/secretaries", admin, staffHandler.CreateSecretary)
	auth.PUT("/secretaries/:id", admin, staffHandler.UpdateSecretary)
	auth.DELETE("/secretaries/:id", admin, staffHandler.DeleteSecretary)

	auth.GET("/administrators/:id", admin, staffHandler.GetAdministrator)
	auth.POST("/administrators", admin, staffHandler.CreateAdministrator)
	auth.DELETE("/administrators/:id", admin, staffHandler.DeleteAdministrator)

	auth.POST("/enrollments", staff, enrollmentHandler.Register)
	auth.GET("/enrollments", staff, enrollmentHandler.List)
	auth.GET("/enrollments/:id", staff, enrollmentHandler.Get)
	auth.PATCH("/enrollments/:id/dates", staff, enrollmentHandler.UpdateDates)
	auth.DELETE("/enrollments/:id", admin, enrollmentHandler.Delete)

	auth.GET("/specializations", anyRole, specializationHandler.List)
	auth.GET("/specializations/:id", anyRole, specializationHandler.Get)
	auth.POST("/specializations", admin, specializationHandler.Create)
	auth.PUT("/specializations/:id", admin, specializationHandler.Update)
	auth.DELETE("/specializations/:id", admin, specializationHandler.Delete)
	auth.POST("/specializations/enrollments", staff, specializationHandler.Register)
	auth.GET("/specializations/:id/enrollments", staff, specializationHandler.ListEnrollments)
	auth.GET("/specializations/enrollments/:id", staff, specializationHandler.GetEnrollment)
	auth.PATCH("/specializations/enrollments/:id/teacher", staff, specializationHandler.AssignTeacher)
	auth.DELETE("/specializations/enrollments/:id", admin, specializationHandler.DeleteEnrollment)

	auth.POST("/pensions/generate", staff, pensionHandler.Generate)
	auth.GET("/pensions/:dni", middleware.RequireRoles(models.RoleAdmin, models.RoleSecretary, models.RoleStudent), pensionHandler.ListByDNI)
	auth.POST("/pensions/pay", staff, pensionHandler.Pay)

	auth.GET("/payments/:id", staff, paymentHandler.Get)
	auth.POST("/payments/:id/receipt", staff, paymentHandler.AttachReceipt)
	auth.GET("/payment-methods", anyRole, paymentHandler.ListMethods)
	auth.POST("/payment-methods", admin, paymentHandler.CreateMethod)
	auth.DELETE("/payment-methods/:id", admin, paymentHandler.DeleteMethod)

	auth.POST("/certificates", staff, certificateHandler.Issue)

	auth.GET("/metrics", admin, metricsHandler.Prometheus)
	auth.GET("/metrics/dashboard", admin, metricsHandler.Dashboard)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: r,
	}

	go func() {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logr.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logr.Error("forced shutdown", zap.Error(err))
	}
}
