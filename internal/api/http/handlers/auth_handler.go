package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/homebuilt/warranty-service/internal/api/dto"
	"github.com/homebuilt/warranty-service/internal/auth"
	"github.com/homebuilt/warranty-service/internal/domain"
	"github.com/homebuilt/warranty-service/internal/service"
	apperrors "github.com/homebuilt/warranty-service/pkg/util/errorutil"
)

// AuthHandler exposes login for every account role.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return apperrors.NewValidationError("email and password required", nil)
	}

	account, token, exp, err := h.auth.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"account": accountResponse(account),
			"auth":    dto.AuthResponse{Token: token, ExpiresAt: exp},
		},
	})
}

// Me handles GET /auth/me.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	return c.JSON(fiber.Map{"data": accountResponse(principal.Account)})
}

func accountResponse(account *domain.Account) dto.AccountResponse {
	return dto.AccountResponse{
		ID:          account.ID,
		Name:        account.Name,
		Email:       account.Email,
		Role:        account.Role,
		HomeownerID: account.HomeownerID,
		BuilderID:   account.BuilderID,
	}
}
