package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/expeditionrm/revenue-studio/internal/domain"
	"github.com/expeditionrm/revenue-studio/internal/service"
)

type RevenueHandler struct {
	service *service.RevenueService
}

func NewRevenueHandler(service *service.RevenueService) *RevenueHandler {
	return &RevenueHandler{service: service}
}

// parseFilter reads the region/ship/status query params. Repeated params and
// comma-separated lists are both supported:
//
//	?region=Antarctica&region=Arctic
//	?region=Antarctica,Arctic
//
// Unknown status labels are dropped.
func (h *RevenueHandler) parseFilter(c *gin.Context) domain.DashboardFilter {
	filter := domain.DashboardFilter{
		Regions: parseListParam(c, "region"),
		Ships:   parseListParam(c, "ship"),
	}

	for _, raw := range parseListParam(c, "status") {
		if status, ok := domain.ParseStatus(raw); ok {
			filter.Statuses = append(filter.Statuses, status)
		}
	}

	return filter
}

func parseListParam(c *gin.Context, name string) []string {
	var (
		values []string
		seen   = make(map[string]struct{})
	)
	for _, raw := range c.QueryArray(name) {
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			if _, ok := seen[part]; ok {
				continue
			}
			seen[part] = struct{}{}
			values = append(values, part)
		}
	}
	return values
}

func (h *RevenueHandler) respondError(c *gin.Context, err error, what string) {
	switch {
	case errors.Is(err, service.ErrNotReady):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "analytics results not ready"})
	case errors.Is(err, service.ErrSailingNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "sailing not found"})
	default:
		log.Error().Err(err).Str("operation", what).Msg("Request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to " + what, "details": err.Error()})
	}
}

func (h *RevenueHandler) GetSummary(c *gin.Context) {
	filter := h.parseFilter(c)
	summary, err := h.service.Summary(c.Request.Context(), filter)
	if err != nil {
		h.respondError(c, err, "fetch summary")
		return
	}

	c.JSON(http.StatusOK, summary)
}

func (h *RevenueHandler) GetStatusDistribution(c *gin.Context) {
	filter := h.parseFilter(c)
	dist, err := h.service.StatusDistribution(filter)
	if err != nil {
		h.respondError(c, err, "fetch status distribution")
		return
	}

	c.JSON(http.StatusOK, dist)
}

func (h *RevenueHandler) GetSailings(c *gin.Context) {
	filter := h.parseFilter(c)
	sailings, err := h.service.Sailings(filter)
	if err != nil {
		h.respondError(c, err, "fetch sailings")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"sailings": sailings,
		"total":    len(sailings),
	})
}

func (h *RevenueHandler) GetSailingDeepDive(c *gin.Context) {
	dive, err := h.service.DeepDive(c.Param("id"))
	if err != nil {
		h.respondError(c, err, "fetch sailing")
		return
	}

	c.JSON(http.StatusOK, dive)
}

func (h *RevenueHandler) GetImpact(c *gin.Context) {
	impact, err := h.service.Impact()
	if err != nil {
		h.respondError(c, err, "fetch revenue impact")
		return
	}

	c.JSON(http.StatusOK, impact)
}

func (h *RevenueHandler) GetFilterOptions(c *gin.Context) {
	options, err := h.service.FilterOptions()
	if err != nil {
		h.respondError(c, err, "fetch filter options")
		return
	}

	c.JSON(http.StatusOK, options)
}

func (h *RevenueHandler) ExportClassifications(c *gin.Context) {
	filter := h.parseFilter(c)
	data, err := h.service.ExportCSV(filter)
	if err != nil {
		h.respondError(c, err, "export classifications")
		return
	}

	analysisDate, err := h.service.AnalysisDate()
	if err != nil {
		h.respondError(c, err, "export classifications")
		return
	}

	filename := fmt.Sprintf("sailing_analysis_%s.csv", analysisDate.Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/csv", data)
}
