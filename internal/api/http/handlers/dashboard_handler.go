package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/homebuilt/warranty-service/internal/service"
)

// DashboardHandler serves computed claim metrics.
type DashboardHandler struct {
	service *service.DashboardService
}

// NewDashboardHandler constructs handler.
func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: dashboardService}
}

// Metrics GET /dashboard/metrics?builder_group=.
func (h *DashboardHandler) Metrics(c *fiber.Ctx) error {
	account, err := currentAccount(c)
	if err != nil {
		return err
	}
	snap, err := h.service.Metrics(c.UserContext(), account, c.Query("builder_group"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": snap})
}
