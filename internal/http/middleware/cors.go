package middleware

import (
	"net/http"
	"strings"

	"github.com/extremegraphics/lead-pipeline-api/internal/config"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// alwaysExposed are response headers browser clients of the API rely on
var alwaysExposed = []string{"Location", "Retry-After", requestIDHeader}

func isDevelopment(environment string) bool {
	switch environment {
	case "", "development", "local", "test":
		return true
	}
	return false
}

// CORS serves two kinds of callers: the public landing site posting to the
// intake and lead routes, and the CRM dashboard sending credentials.
//
// An empty origin list allows everything in development and nothing
// elsewhere. A "*" entry allows any origin but drops credentials outside
// development.
func CORS(cfg *config.CORSConfig, environment string, logger *zap.Logger) func(http.Handler) http.Handler {
	options := cors.Options{
		AllowedMethods:   cfg.AllowedMethods,
		AllowedHeaders:   cfg.AllowedHeaders,
		ExposedHeaders:   mergeHeaders(cfg.ExposedHeaders, alwaysExposed),
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           cfg.MaxAge,
	}

	anyOrigin := func(_ *http.Request, origin string) bool { return origin != "" }

	switch {
	case containsWildcard(cfg.AllowedOrigins):
		options.AllowOriginFunc = anyOrigin
		if !isDevelopment(environment) {
			options.AllowCredentials = false
			logger.Warn("CORS allows any origin; credentials disabled",
				zap.String("environment", environment))
		}
	case len(cfg.AllowedOrigins) > 0:
		// go-chi/cors matches entries such as https://*.example.com itself
		options.AllowedOrigins = cfg.AllowedOrigins
		logger.Info("CORS configured with explicit origins", zap.Strings("origins", cfg.AllowedOrigins))
	case isDevelopment(environment):
		options.AllowOriginFunc = anyOrigin
		logger.Info("CORS allows all origins in development")
	default:
		// An empty AllowedOrigins means "*" to go-chi/cors, so deny explicitly
		options.AllowOriginFunc = func(*http.Request, string) bool { return false }
		logger.Warn("CORS has no allowed origins; cross-origin requests will be denied",
			zap.String("environment", environment))
	}

	return cors.Handler(options)
}

func containsWildcard(origins []string) bool {
	for _, origin := range origins {
		if strings.TrimSpace(origin) == "*" {
			return true
		}
	}
	return false
}

// mergeHeaders appends extra to base, skipping case-insensitive duplicates
func mergeHeaders(base, extra []string) []string {
	seen := make(map[string]bool, len(base)+len(extra))
	merged := make([]string, 0, len(base)+len(extra))
	for _, h := range append(append([]string{}, base...), extra...) {
		key := strings.ToLower(h)
		if seen[key] {
			continue
		}
		seen[key] = true
		merged = append(merged, h)
	}
	return merged
}
