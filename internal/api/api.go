// internal/api/api.go
package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/expeditionrm/revenue-studio/internal/api/handlers"
	"github.com/expeditionrm/revenue-studio/internal/api/middleware"
	"github.com/expeditionrm/revenue-studio/internal/service"
)

// NewRouter wires the dashboard routes over the revenue service.
func NewRouter(revenue *service.RevenueService, allowedOrigins []string) *gin.Engine {
	router := gin.New()

	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())

	defaultOrigins := []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	corsConfig := cors.Config{
		AllowOrigins:     defaultOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) > 0 {
		normalizedOrigins, allowAll := normalizeAllowedOrigins(allowedOrigins)
		if allowAll {
			corsConfig.AllowOrigins = nil
			corsConfig.AllowOriginFunc = func(origin string) bool { return true }
		} else if len(normalizedOrigins) > 0 {
			corsConfig.AllowOrigins = normalizedOrigins
		}
	}
	router.Use(cors.New(corsConfig))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	apiGroup := router.Group("/api/v1")

	revenueHandler := handlers.NewRevenueHandler(revenue)
	revenueGroup := apiGroup.Group("/revenue")
	{
		revenueGroup.GET("/summary", revenueHandler.GetSummary)
		revenueGroup.GET("/status_distribution", revenueHandler.GetStatusDistribution)
		revenueGroup.GET("/sailings", revenueHandler.GetSailings)
		revenueGroup.GET("/sailings/:id", revenueHandler.GetSailingDeepDive)
		revenueGroup.GET("/impact", revenueHandler.GetImpact)
		revenueGroup.GET("/filters", revenueHandler.GetFilterOptions)
		revenueGroup.GET("/export", revenueHandler.ExportClassifications)
	}

	return router
}

func normalizeAllowedOrigins(origins []string) ([]string, bool) {
	var (
		parsed   []string
		allowAll bool
	)
	for _, origin := range origins {
		parts := strings.Split(origin, ",")
		for _, part := range parts {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			if trimmed == "*" {
				allowAll = true
				continue
			}
			parsed = append(parsed, trimmed)
		}
	}
	return parsed, allowAll
}
