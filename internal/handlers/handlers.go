package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"lms/api/internal/metrics"
	"lms/api/internal/middleware"
	"lms/api/internal/models"
	"lms/api/internal/service"
)

// Services bundles what the HTTP layer calls into.
type Services struct {
	Auth        *service.AuthService
	Courses     *service.CourseService
	Lessons     *service.LessonService
	Enrollments *service.EnrollmentService
	Progress    *service.ProgressService
	Media       *service.MediaService
}

// Probe reports whether one backing dependency is reachable.
type Probe struct {
	Name  string
	Check func(ctx context.Context) error
}

type HandlerSet struct {
	log         zerolog.Logger
	environment string
	svc         Services
	probes      []Probe
	gatherer    prometheus.Gatherer
	authLimiter *middleware.RateLimiter
	maxUpload   int64
}

type Options struct {
	Environment string
	Probes      []Probe
	Gatherer    prometheus.Gatherer
	AuthLimiter *middleware.RateLimiter
	// MaxUploadBytes caps the multipart body of video uploads.
	MaxUploadBytes int64
}

func NewHandlerSet(log zerolog.Logger, svc Services, opts Options) HandlerSet {
	registerValidators()
	return HandlerSet{
		log:         log,
		environment: opts.Environment,
		svc:         svc,
		probes:      opts.Probes,
		gatherer:    opts.Gatherer,
		authLimiter: opts.AuthLimiter,
		maxUpload:   opts.MaxUploadBytes,
	}
}

func (h HandlerSet) RegisterRoutes(router *gin.Engine) {
	router.GET("/healthcheck", h.Healthcheck)
	router.GET("/healthz", h.Health)
	if h.gatherer != nil {
		router.GET("/metrics", gin.WrapH(metrics.Handler(h.gatherer)))
	}

	router.NoRoute(h.NotFound)
	router.NoMethod(h.MethodNotAllowed)

	api := router.Group("/api")

	authenticate := middleware.Auth(h.svc.Auth)
	adminOnly := middleware.RequireRoles(models.UserRoleAdmin)
	learnerOnly := middleware.RequireRoles(models.UserRoleLearner)

	auth := api.Group("/auth")
	if h.authLimiter != nil {
		auth.Use(h.authLimiter.Middleware())
	}
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
		auth.POST("/refresh", h.Refresh)
		auth.POST("/logout", h.Logout)
		auth.GET("/me", authenticate, h.Me)
		auth.PATCH("/me", authenticate, h.UpdateMe)
	}

	courses := api.Group("/courses")
	{
		courses.GET("", h.ListCourses)
		courses.GET("/:id", h.GetCourse)
		courses.POST("", authenticate, adminOnly, h.CreateCourse)
		courses.PATCH("/:id", authenticate, adminOnly, h.UpdateCourse)
		courses.DELETE("/:id", authenticate, adminOnly, h.DeleteCourse)

		courses.POST("/:id/lessons", authenticate, adminOnly, h.CreateLesson)
		courses.GET("/:id/lessons", authenticate, middleware.RequireRoles(models.UserRoleLearner, models.UserRoleAdmin), h.ListLessons)
		courses.GET("/:id/enrollments", authenticate, adminOnly, h.CourseRoster)
	}

	lessons := api.Group("/lessons", authenticate, adminOnly)
	{
		lessons.PATCH("/:id", h.UpdateLesson)
		lessons.DELETE("/:id", h.DeleteLesson)
		lessons.POST("/:id/video", h.UploadLessonVideo)
	}

	enrollments := api.Group("/enrollments", authenticate, learnerOnly)
	{
		enrollments.POST("", h.Enroll)
		enrollments.GET("/me", h.MyEnrollments)
	}

	progress := api.Group("/progress", authenticate, learnerOnly)
	progress.POST("/mark-completed", h.MarkCompleted)
}

func (h HandlerSet) NotFound(c *gin.Context) {
	writeMessage(c, http.StatusNotFound, "Route "+c.Request.Method+" "+c.Request.URL.Path+" not found")
}

func (h HandlerSet) MethodNotAllowed(c *gin.Context) {
	writeMessage(c, http.StatusMethodNotAllowed, "Method "+c.Request.Method+" not allowed on "+c.Request.URL.Path)
}
