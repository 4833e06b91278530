package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/mediaflowhq/mediaflow-backend/internal/http/handlers"
	httpMW "github.com/mediaflowhq/mediaflow-backend/internal/http/middleware"
	"github.com/mediaflowhq/mediaflow-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log *logger.Logger
	// TracingServiceName turns on the otelgin span middleware when non-empty.
	TracingServiceName string

	AuthMiddleware *httpMW.AuthMiddleware

	HealthHandler    *httpH.HealthHandler
	AuthHandler      *httpH.AuthHandler
	DirectoryHandler *httpH.DirectoryHandler
	BriefHandler     *httpH.BriefHandler
	PlanHandler      *httpH.PlanHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.TracingServiceName != "" {
		r.Use(otelgin.Middleware(cfg.TracingServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.CORS())

	if cfg.HealthHandler != nil {
		r.GET("/healthz", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")
	if cfg.AuthHandler != nil {
		api.POST("/auth/login", cfg.AuthHandler.Login)
	}

	protected := api.Group("/")
	if cfg.AuthMiddleware != nil {
		protected.Use(cfg.AuthMiddleware.RequireAuth())
	}

	if cfg.AuthHandler != nil {
		protected.GET("/users/me", cfg.AuthHandler.Me)
	}
	if cfg.DirectoryHandler != nil {
		protected.GET("/agencies", cfg.DirectoryHandler.ListAgencies)
		protected.GET("/clients", cfg.DirectoryHandler.ListClients)
	}
	if cfg.BriefHandler != nil {
		protected.POST("/briefs", cfg.BriefHandler.Create)
		protected.GET("/briefs", cfg.BriefHandler.List)
		protected.GET("/briefs/:briefID", cfg.BriefHandler.Get)
	}
	if cfg.PlanHandler != nil {
		plans := protected.Group("/briefs/:briefID/plans/:planID")
		plans.GET("", cfg.PlanHandler.Get)
		plans.POST("/upload-url", cfg.PlanHandler.RequestUpload)
		plans.POST("/extract-columns", cfg.PlanHandler.ExtractColumns)
		plans.POST("/update-columns", cfg.PlanHandler.UpdateColumns)
		plans.POST("/submit", cfg.PlanHandler.Submit)
		plans.POST("/review", cfg.PlanHandler.Review)
	}

	return r
}
