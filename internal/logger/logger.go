package logger

import (
	"fmt"

	"github.com/extremegraphics/lead-pipeline-api/internal/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger creates a new structured logger
func NewLogger(cfg *config.LoggingConfig, appCfg *config.AppConfig) (*zap.Logger, error) {
	var zapCfg zap.Config

	if cfg.Format == "json" || appCfg.Environment == "production" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	zapCfg.InitialFields = map[string]interface{}{
		"app":         appCfg.Name,
		"environment": appCfg.Environment,
	}

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	return logger, nil
}

// WithRequest scopes a logger to one HTTP request
func WithRequest(logger *zap.Logger, method, route, requestID string) *zap.Logger {
	return logger.With(
		zap.String("method", method),
		zap.String("route", route),
		zap.String("request_id", requestID),
	)
}

// WithLead scopes a logger to a lead
func WithLead(logger *zap.Logger, leadID int64) *zap.Logger {
	return logger.With(zap.Int64("lead_id", leadID))
}
