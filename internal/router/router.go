// Package router assembles the echo server: global middleware, the API
// routes, the readiness-gated internship group and static or root serving.
package router

import (
	"net/http"
	"strings"

	"github.com/Falco0906/internship-portal/internal/apperr"
	"github.com/Falco0906/internship-portal/internal/config"
	"github.com/Falco0906/internship-portal/internal/database"
	"github.com/Falco0906/internship-portal/internal/handler"
	"github.com/Falco0906/internship-portal/internal/logger"
	"github.com/Falco0906/internship-portal/internal/metrics"
	"github.com/Falco0906/internship-portal/internal/middleware"
	mongorepo "github.com/Falco0906/internship-portal/internal/repository/mongo"
	"github.com/Falco0906/internship-portal/internal/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.mongodb.org/mongo-driver/mongo"
)

const bodyLimit = "100K"

// Database is the part of the connection manager the HTTP layer uses.
type Database interface {
	State() database.State
	DatabaseName() string
	Database() (*mongo.Database, error)
}

// Deps are the long-lived collaborators the routes are built from.
type Deps struct {
	Config  *config.Config
	Log     *logger.Logger
	DB      Database
	Metrics *metrics.Metrics
	Limiter middleware.Limiter // nil disables rate limiting
}

// New builds the echo instance serving the whole application.
func New(deps Deps) *echo.Echo {
	cfg, log := deps.Config, deps.Log

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = handler.ErrorResponder(log, cfg.IsDevelopment())

	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(middleware.RequestLogger(log))
	e.Use(echomw.RecoverWithConfig(echomw.RecoverConfig{
		DisableErrorHandler: true,
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			return apperr.FromPanic(err, stack)
		},
	}))
	if deps.Metrics != nil {
		e.Use(deps.Metrics.Middleware())
	}
	e.Use(middleware.CORS(cfg.CORS))
	e.Use(echomw.BodyLimit(bodyLimit))

	if deps.Metrics != nil {
		e.GET("/metrics", echo.WrapHandler(deps.Metrics.Handler()))
	}

	registerAPI(e, deps)

	if cfg.Server.ServesStaticAssets {
		e.Use(echomw.StaticWithConfig(echomw.StaticConfig{
			Root:    cfg.Server.StaticDir,
			Index:   "index.html",
			HTML5:   true,
			Skipper: skipNonSPA,
		}))
	} else {
		e.GET("/", handler.Root)
	}

	return e
}

func registerAPI(e *echo.Echo, deps Deps) {
	// Health and status sit outside the rate-limited group so probes sharing
	// one address keep getting answers.
	system := handler.NewSystemHandler(deps.DB)
	e.GET("/api/health", system.Health)
	e.GET("/api/status", system.Status)

	api := e.Group("/api", middleware.RateLimit(deps.Limiter))

	var rejections middleware.RejectionRecorder
	if deps.Metrics != nil {
		rejections = deps.Metrics
	}
	internships := handler.NewInternshipHandler(
		service.NewInternshipService(mongorepo.NewInternshipRepository(deps.DB)),
	)
	admin := middleware.AdminAuth(deps.Config.Auth.JWTSecret)

	g := api.Group("/internships", middleware.ReadinessGate(deps.DB, deps.Log, rejections))
	g.GET("", internships.List)
	g.GET("/:id", internships.Get)
	g.POST("", internships.Create, admin)
	g.PUT("/:id", internships.Update, admin)
	g.DELETE("/:id", internships.Delete, admin)

	// Unregistered methods on the collection paths fall through to the API
	// 404 behind the gate instead of echo's 405.
	g.Match([]string{http.MethodPut, http.MethodPatch, http.MethodDelete}, "", handler.APINotFound)
	g.Match([]string{http.MethodPost, http.MethodPatch}, "/:id", handler.APINotFound)

	// Groups with middleware register their own catch-all 404 routes; point
	// them at the API body as well.
	g.RouteNotFound("", handler.APINotFound)
	g.RouteNotFound("/*", handler.APINotFound)
	api.RouteNotFound("", handler.APINotFound)
	api.RouteNotFound("/*", handler.APINotFound)
}

// skipNonSPA keeps the static middleware away from API and metrics paths so
// their 404s stay JSON.
func skipNonSPA(c echo.Context) bool {
	req := c.Request()
	if req.Method != http.MethodGet && req.Method != http.MethodHead {
		return true
	}
	p := req.URL.Path
	return p == "/api" || strings.HasPrefix(p, "/api/") || p == "/metrics"
}
