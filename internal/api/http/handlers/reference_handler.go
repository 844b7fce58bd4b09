package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/homebuilt/warranty-service/internal/analytics"
	"github.com/homebuilt/warranty-service/internal/api/dto"
	"github.com/homebuilt/warranty-service/internal/service"
)

// ReferenceHandler lists builder groups and homeowners.
type ReferenceHandler struct {
	service *service.ReferenceService
}

// NewReferenceHandler constructs handler.
func NewReferenceHandler(referenceService *service.ReferenceService) *ReferenceHandler {
	return &ReferenceHandler{service: referenceService}
}

// ListBuilderGroups GET /builder-groups.
func (h *ReferenceHandler) ListBuilderGroups(c *fiber.Ctx) error {
	account, err := currentAccount(c)
	if err != nil {
		return err
	}
	groups, err := h.service.ListBuilderGroups(c.UserContext(), account)
	if err != nil {
		return err
	}
	items := make([]dto.BuilderGroupResponse, 0, len(groups))
	for _, g := range groups {
		items = append(items, dto.BuilderGroupResponse{ID: g.ID, Name: g.Name})
	}
	return c.JSON(fiber.Map{"data": items})
}

// ListHomeowners GET /homeowners?builder_group=.
func (h *ReferenceHandler) ListHomeowners(c *fiber.Ctx) error {
	account, err := currentAccount(c)
	if err != nil {
		return err
	}
	var group *string
	if raw := strings.TrimSpace(c.Query("builder_group")); raw != "" && raw != analytics.AllBuilderGroups {
		group = &raw
	}
	homeowners, err := h.service.ListHomeowners(c.UserContext(), account, group)
	if err != nil {
		return err
	}
	items := make([]dto.HomeownerResponse, 0, len(homeowners))
	for _, ho := range homeowners {
		items = append(items, dto.HomeownerResponse{
			ID:          ho.ID,
			Name:        ho.Name,
			Address:     ho.Address,
			Email:       ho.Email,
			Phone:       ho.Phone,
			ClosingDate: ho.ClosingDate,
			BuilderID:   ho.BuilderID,
		})
	}
	return c.JSON(fiber.Map{"data": items})
}
