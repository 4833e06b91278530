package app

import (
	"github.com/mediaflowhq/mediaflow-backend/internal/platform/envutil"
	"github.com/mediaflowhq/mediaflow-backend/internal/platform/logger"
)

type Config struct {
	Port        string
	ServiceName string
	Environment string
	Version     string
}

func LoadConfig(log *logger.Logger) Config {
	cfg := Config{
		Port:        envutil.String("PORT", "8080"),
		ServiceName: envutil.String("SERVICE_NAME", "mediaflow-backend"),
		Environment: envutil.String("APP_ENV", "development"),
		Version:     envutil.String("SERVICE_VERSION", "dev"),
	}
	log.Info("Environment loaded", "environment", cfg.Environment, "port", cfg.Port)
	return cfg
}
