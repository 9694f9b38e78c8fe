package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/kaduart/fono-inova-gateway/internal/api/handler"
	"github.com/kaduart/fono-inova-gateway/internal/api/middleware"
	"github.com/kaduart/fono-inova-gateway/internal/core/domain"
	"github.com/kaduart/fono-inova-gateway/internal/core/ports"
	"github.com/kaduart/fono-inova-gateway/internal/pkg/config"
)

// Dependencies carries everything the route tree needs. Session state is
// dependency-injected here rather than held in any ambient singleton.
type Dependencies struct {
	Auth      ports.UpstreamAuth
	Directory ports.UpstreamDirectory
	Leads     ports.UpstreamLeads
	Sessions  ports.SessionService
	Submits   ports.SubmitGuard
	Upstream  handler.UpstreamPinger
	Redis     *redis.Client // nil when the in-memory token store is in use
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(cfg *config.Config, deps Dependencies, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("fono_inova"))
	e.Use(middleware.CanonicalHost(cfg.CanonicalHost))
	e.Use(middleware.Session(cfg.SessionSecret, deps.Sessions))

	// --- Handlers ---
	loginHandler := handler.NewLoginHandler(deps.Auth, deps.Sessions, deps.Submits, log)
	doctorHandler := handler.NewDoctorHandler(deps.Directory, deps.Sessions)
	leadHandler := handler.NewLeadHandler(deps.Leads, deps.Sessions)

	// --- Login flow (public) ---
	e.POST("/login", loginHandler.Login)
	e.POST("/login/password", loginHandler.CreatePassword)
	e.POST("/login/forgot", loginHandler.ForgotPassword)
	e.POST("/logout", loginHandler.Logout)
	e.GET("/session", loginHandler.Session)

	// --- Protected resources ---
	anyRole := middleware.Guard(domain.RoleAdmin, domain.RoleDoctor, domain.RolePatient, domain.RoleProfessional)
	adminOnly := middleware.Guard(domain.RoleAdmin)

	doctors := e.Group("/doctors", anyRole)
	doctors.GET("/all", doctorHandler.List)
	doctors.GET("/:id", doctorHandler.Get)

	e.GET("/appointments/available-slots", doctorHandler.AvailableSlots, anyRole)

	leads := e.Group("/leads", adminOnly)
	leads.GET("", leadHandler.List)
	leads.POST("", leadHandler.Create)
	leads.GET("/report/summary", leadHandler.Summary)
	leads.GET("/:id", leadHandler.Get)
	leads.PUT("/:id", leadHandler.Update)
	leads.DELETE("/:id", leadHandler.Delete)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(deps.Redis, deps.Upstream)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
