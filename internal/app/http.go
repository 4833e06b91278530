package app

import (
	"github.com/gin-gonic/gin"

	"github.com/mediaflowhq/mediaflow-backend/internal/http"
	httpH "github.com/mediaflowhq/mediaflow-backend/internal/http/handlers"
	httpMW "github.com/mediaflowhq/mediaflow-backend/internal/http/middleware"
	"github.com/mediaflowhq/mediaflow-backend/internal/platform/envutil"
	"github.com/mediaflowhq/mediaflow-backend/internal/platform/logger"
)

type Middleware struct {
	Auth *httpMW.AuthMiddleware
}

type Handlers struct {
	Health    *httpH.HealthHandler
	Auth      *httpH.AuthHandler
	Directory *httpH.DirectoryHandler
	Brief     *httpH.BriefHandler
	Plan      *httpH.PlanHandler
}

func wireHandlers(log *logger.Logger, services Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:    httpH.NewHealthHandler(),
		Auth:      httpH.NewAuthHandler(services.Auth),
		Directory: httpH.NewDirectoryHandler(services.Directory),
		Brief:     httpH.NewBriefHandler(services.Brief),
		Plan:      httpH.NewPlanHandler(services.Plan),
	}
}

func wireMiddleware(log *logger.Logger, services Services) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth: httpMW.NewAuthMiddleware(log, services.Auth),
	}
}

func wireRouter(log *logger.Logger, cfg Config, handlers Handlers, middleware Middleware) *gin.Engine {
	tracingName := ""
	if envutil.Bool("OTEL_ENABLED", false) {
		tracingName = cfg.ServiceName
	}
	return http.NewRouter(http.RouterConfig{
		Log:                log,
		TracingServiceName: tracingName,
		AuthMiddleware:     middleware.Auth,
		HealthHandler:      handlers.Health,
		AuthHandler:        handlers.Auth,
		DirectoryHandler:   handlers.Directory,
		BriefHandler:       handlers.Brief,
		PlanHandler:        handlers.Plan,
	})
}
