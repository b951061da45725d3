package handler

import (
	"github.com/gofiber/fiber/v2"

	"lapor-warga/internal/domain"
	"lapor-warga/internal/service"
)

type Handlers struct {
	Complaint    *CaseHandler
	Suggestion   *CaseHandler
	Device       *DeviceHandler
	Notification *NotificationHandler
	Verification *VerificationHandler
	Analytics    *AnalyticsHandler
}

func NewHandlers(services *service.Services) *Handlers {
	return &Handlers{
		Complaint:    NewCaseHandler(services.Case, domain.KindComplaint),
		Suggestion:   NewCaseHandler(services.Case, domain.KindSuggestion),
		Device:       NewDeviceHandler(services.Device),
		Notification: NewNotificationHandler(services.Notification),
		Verification: NewVerificationHandler(services.Verification),
		Analytics:    NewAnalyticsHandler(services.Analytics),
	}
}

func getPaginationParams(c *fiber.Ctx) domain.PaginationParams {
	params := domain.DefaultPagination()

	if page := c.QueryInt("page", 1); page > 0 {
		params.Page = page
	}
	if pageSize := c.QueryInt("page_size", 20); pageSize > 0 {
		params.PageSize = pageSize
	}

	params.Validate()
	return params
}
