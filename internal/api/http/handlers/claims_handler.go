package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/homebuilt/warranty-service/internal/api/dto"
	"github.com/homebuilt/warranty-service/internal/auth"
	"github.com/homebuilt/warranty-service/internal/domain"
	"github.com/homebuilt/warranty-service/internal/selection"
	"github.com/homebuilt/warranty-service/internal/service"
	apperrors "github.com/homebuilt/warranty-service/pkg/util/errorutil"
)

// ClaimsHandler manages claim endpoints for every role.
type ClaimsHandler struct {
	service *service.ClaimService
}

// NewClaimsHandler constructs handler.
func NewClaimsHandler(claimService *service.ClaimService) *ClaimsHandler {
	return &ClaimsHandler{service: claimService}
}

// SubmitClaim POST /claims.
func (h *ClaimsHandler) SubmitClaim(c *fiber.Ctx) error {
	account, err := currentAccount(c)
	if err != nil {
		return err
	}
	var req dto.SubmitClaimRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.Description) == "" {
		return apperrors.NewValidationError("description required", nil)
	}
	claim, err := h.service.SubmitClaim(c.UserContext(), account, service.ClaimSubmitInput{
		HomeownerID:   req.HomeownerID,
		HomeownerName: req.HomeownerName,
		Address:       req.Address,
		Description:   req.Description,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": claimResponse(claim)})
}

// ListClaims GET /claims?filter=open|closed|all&search=.
func (h *ClaimsHandler) ListClaims(c *fiber.Ctx) error {
	account, err := currentAccount(c)
	if err != nil {
		return err
	}
	filter, err := selection.ParseClaimFilter(c.Query("filter"))
	if err != nil {
		return apperrors.NewValidationError(err.Error(), nil)
	}
	input := service.ClaimListInput{Filter: filter}
	if search := strings.TrimSpace(c.Query("search")); search != "" {
		input.SearchTerm = &search
	}
	claims, err := h.service.ListClaims(c.UserContext(), account, input)
	if err != nil {
		return err
	}
	items := make([]dto.ClaimResponse, 0, len(claims))
	for i := range claims {
		items = append(items, claimResponse(&claims[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetClaim GET /claims/:id.
func (h *ClaimsHandler) GetClaim(c *fiber.Ctx) error {
	account, err := currentAccount(c)
	if err != nil {
		return err
	}
	claim, err := h.service.GetClaim(c.UserContext(), account, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": claimResponse(claim)})
}

// UpdateStatus PATCH /claims/:id/status.
func (h *ClaimsHandler) UpdateStatus(c *fiber.Ctx) error {
	account, err := currentAccount(c)
	if err != nil {
		return err
	}
	var req dto.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	status, err := domain.ParseClaimStatus(req.Status)
	if err != nil {
		return apperrors.NewValidationError(err.Error(), nil)
	}
	claim, err := h.service.UpdateStatus(c.UserContext(), account, c.Params("id"), status)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": claimResponse(claim)})
}

// Classify PATCH /claims/:id/classification.
func (h *ClaimsHandler) Classify(c *fiber.Ctx) error {
	account, err := currentAccount(c)
	if err != nil {
		return err
	}
	var req dto.ClassifyRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	classification, err := domain.ParseClassification(req.Classification)
	if err != nil {
		return apperrors.NewValidationError(err.Error(), nil)
	}
	claim, err := h.service.Classify(c.UserContext(), account, c.Params("id"), classification)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": claimResponse(claim)})
}

// Evaluate POST /claims/:id/evaluate.
func (h *ClaimsHandler) Evaluate(c *fiber.Ctx) error {
	account, err := currentAccount(c)
	if err != nil {
		return err
	}
	var req dto.EvaluateRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return apperrors.NewValidationError("invalid payload", nil)
		}
	}
	claim, err := h.service.Evaluate(c.UserContext(), account, c.Params("id"), req.EvaluatedAt)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": claimResponse(claim)})
}

// SetReviewed PATCH /claims/:id/reviewed.
func (h *ClaimsHandler) SetReviewed(c *fiber.Ctx) error {
	account, err := currentAccount(c)
	if err != nil {
		return err
	}
	var req dto.ReviewedRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	claim, err := h.service.SetReviewed(c.UserContext(), account, c.Params("id"), req.Reviewed)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": claimResponse(claim)})
}

// AddComment POST /claims/:id/comments.
func (h *ClaimsHandler) AddComment(c *fiber.Ctx) error {
	account, err := currentAccount(c)
	if err != nil {
		return err
	}
	var req dto.CommentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	claim, err := h.service.AddComment(c.UserContext(), account, c.Params("id"), req.Text)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": claimResponse(claim)})
}

// ProposeDate POST /claims/:id/proposed-dates.
func (h *ClaimsHandler) ProposeDate(c *fiber.Ctx) error {
	account, err := currentAccount(c)
	if err != nil {
		return err
	}
	var req dto.ProposeDateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	claim, err := h.service.ProposeDate(c.UserContext(), account, c.Params("id"), req.Date, req.TimeSlot)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": claimResponse(claim)})
}

// RespondToProposedDate POST /claims/:id/proposed-dates/:index/respond.
func (h *ClaimsHandler) RespondToProposedDate(c *fiber.Ctx) error {
	account, err := currentAccount(c)
	if err != nil {
		return err
	}
	index, err := strconv.Atoi(c.Params("index"))
	if err != nil {
		return apperrors.NewValidationError("index must be an integer", nil)
	}
	var req dto.RespondProposedDateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	claim, err := h.service.RespondToProposedDate(c.UserContext(), account, c.Params("id"), index, req.Accept)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": claimResponse(claim)})
}

// RecordMessage POST /claims/:id/messages.
func (h *ClaimsHandler) RecordMessage(c *fiber.Ctx) error {
	account, err := currentAccount(c)
	if err != nil {
		return err
	}
	var req dto.RecordMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	msgType, err := domain.ParseClaimMessageType(req.Type)
	if err != nil {
		return apperrors.NewValidationError(err.Error(), nil)
	}
	msg, err := h.service.RecordMessage(c.UserContext(), account, c.Params("id"), service.RecordMessageInput{
		Type:      msgType,
		Recipient: req.Recipient,
		Subject:   req.Subject,
		Body:      req.Body,
		Timestamp: req.Timestamp,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": claimMessageResponse(msg)})
}

// ListMessages GET /claims/:id/messages.
func (h *ClaimsHandler) ListMessages(c *fiber.Ctx) error {
	account, err := currentAccount(c)
	if err != nil {
		return err
	}
	msgs, err := h.service.ListMessages(c.UserContext(), account, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": claimMessageResponses(msgs)})
}

// ServiceOrders GET /claims/:id/service-orders. The newest order comes first.
func (h *ClaimsHandler) ServiceOrders(c *fiber.Ctx) error {
	account, err := currentAccount(c)
	if err != nil {
		return err
	}
	msgs, err := h.service.ServiceOrders(c.UserContext(), account, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": claimMessageResponses(msgs)})
}

// BulkDelete POST /claims/bulk-delete.
func (h *ClaimsHandler) BulkDelete(c *fiber.Ctx) error {
	account, err := currentAccount(c)
	if err != nil {
		return err
	}
	var req dto.BulkDeleteRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	result, err := h.service.BulkDelete(c.UserContext(), account, req.IDs, req.Confirm)
	if err != nil {
		return err
	}
	resp := dto.BulkDeleteResponse{
		Deleted: append([]string{}, result.Deleted...),
		Failed:  make([]dto.BulkDeleteFailure, 0, len(result.Failed)),
	}
	for _, f := range result.Failed {
		resp.Failed = append(resp.Failed, dto.BulkDeleteFailure{ID: f.ID, Error: apperrors.ToDomainError(f.Err).Message})
	}
	status := http.StatusOK
	if !result.OK() {
		status = http.StatusMultiStatus
	}
	return c.Status(status).JSON(fiber.Map{"data": resp})
}

func currentAccount(c *fiber.Ctx) (*domain.Account, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	return principal.Account, nil
}

func claimResponse(claim *domain.Claim) dto.ClaimResponse {
	proposed := claim.ProposedDates
	if proposed == nil {
		proposed = []domain.ProposedDate{}
	}
	comments := claim.Comments
	if comments == nil {
		comments = []domain.ClaimComment{}
	}
	return dto.ClaimResponse{
		ID:             claim.ID,
		ClaimNumber:    claim.ClaimNumber,
		HomeownerName:  claim.HomeownerName,
		Address:        claim.Address,
		Description:    claim.Description,
		Status:         claim.Status,
		Classification: claim.Classification,
		DateSubmitted:  claim.DateSubmitted,
		DateEvaluated:  claim.DateEvaluated,
		Reviewed:       claim.Reviewed,
		ProposedDates:  proposed,
		Comments:       comments,
		CreatedAt:      claim.CreatedAt,
		UpdatedAt:      claim.UpdatedAt,
	}
}

func claimMessageResponse(msg *domain.ClaimMessage) dto.ClaimMessageResponse {
	return dto.ClaimMessageResponse{
		ID:        msg.ID,
		ClaimID:   msg.ClaimID,
		Type:      msg.Type,
		Recipient: msg.Recipient,
		Subject:   msg.Subject,
		Body:      msg.Body,
		Timestamp: msg.Timestamp,
	}
}

func claimMessageResponses(msgs []domain.ClaimMessage) []dto.ClaimMessageResponse {
	resp := make([]dto.ClaimMessageResponse, 0, len(msgs))
	for i := range msgs {
		resp = append(resp, claimMessageResponse(&msgs[i]))
	}
	return resp
}
