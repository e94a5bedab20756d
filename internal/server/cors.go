package server

import (
	"log"
	"net/http"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/san-kum/physbox/internal/config"
)

// CORSMiddleware allows any origin in development and the configured
// origins otherwise.
func CORSMiddleware(cfg *config.ServerConfig) gin.HandlerFunc {
	log.Printf("[CORS] Environment: %s, origins: %v", cfg.Environment, cfg.Origins)

	corsConfig := cors.Config{
		AllowMethods: []string{
			"GET", "POST", "PATCH", "DELETE", "OPTIONS",
		},
		AllowHeaders: []string{
			"Origin", "Content-Length", "Content-Type", "Accept",
		},
		MaxAge: 12 * time.Hour,
	}
	if cfg.Environment == "development" || len(cfg.Origins) == 0 {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = cfg.Origins
	}
	return cors.New(corsConfig)
}

// originCheck validates WebSocket upgrade origins the same way.
func originCheck(cfg *config.ServerConfig) func(r *http.Request) bool {
	if cfg.Environment == "development" || len(cfg.Origins) == 0 {
		return nil
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || slices.Contains(cfg.Origins, origin)
	}
}
