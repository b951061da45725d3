package handler

import (
	"github.com/gofiber/fiber/v2"

	"lapor-warga/internal/domain"
	"lapor-warga/internal/middleware"
	"lapor-warga/internal/service/analytics"
)

// AnalyticsHandler covers the dashboard; the charts only exist for complaints.
type AnalyticsHandler struct {
	analyticsService analytics.Service
}

func NewAnalyticsHandler(analyticsService analytics.Service) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService}
}

func (h *AnalyticsHandler) Complaints(c *fiber.Ctx) error {
	stats, err := h.analyticsService.CasesPerDay(c.Context(), middleware.GetActor(c), domain.KindComplaint)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(stats)
}

func (h *AnalyticsHandler) Dashboard(c *fiber.Ctx) error {
	dashboard, err := h.analyticsService.Dashboard(c.Context(), middleware.GetActor(c), domain.KindComplaint)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(dashboard)
}
