package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/homebuilt/warranty-service/internal/analytics"
	"github.com/homebuilt/warranty-service/internal/domain"
	"github.com/homebuilt/warranty-service/internal/events"
	"github.com/homebuilt/warranty-service/internal/repository"
	"github.com/homebuilt/warranty-service/internal/selection"
	apperrors "github.com/homebuilt/warranty-service/pkg/util/errorutil"
)

// ClaimService coordinates claim workflows.
type ClaimService struct {
	claims     repository.ClaimRepository
	messages   repository.ClaimMessageRepository
	homeowners repository.HomeownerRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
	now        func() time.Time
}

// ClaimDependencies bundles repositories for claim service.
type ClaimDependencies struct {
	ClaimRepo     repository.ClaimRepository
	MessageRepo   repository.ClaimMessageRepository
	HomeownerRepo repository.HomeownerRepository
	Dispatcher    events.Dispatcher
	Logger        *zap.Logger
	Clock         func() time.Time
}

// ClaimSubmitInput describes claim creation payload. HomeownerID, when set,
// snapshots name and address from the homeowner record.
type ClaimSubmitInput struct {
	HomeownerID   *string
	HomeownerName string
	Address       string
	Description   string
}

// ClaimListInput describes list filters.
type ClaimListInput struct {
	Filter     selection.ClaimFilter
	SearchTerm *string
}

// RecordMessageInput describes a tracked communication.
type RecordMessageInput struct {
	Type      domain.ClaimMessageType
	Recipient string
	Subject   string
	Body      string
	Timestamp *time.Time
}

// NewClaimService constructs the service.
func NewClaimService(deps ClaimDependencies) *ClaimService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	return &ClaimService{
		claims:     deps.ClaimRepo,
		messages:   deps.MessageRepo,
		homeowners: deps.HomeownerRepo,
		dispatcher: deps.Dispatcher,
		logger:     logger,
		now:        clock,
	}
}

// SubmitClaim creates a claim in Submitted/Unclassified state.
func (s *ClaimService) SubmitClaim(ctx context.Context, actor *domain.Account, input ClaimSubmitInput) (*domain.Claim, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthorized("account required")
	}

	var homeownerID *string
	switch actor.Role {
	case domain.AccountRoleHomeowner:
		if actor.HomeownerID == nil {
			return nil, apperrors.NewForbidden("account not linked to a homeowner")
		}
		homeownerID = actor.HomeownerID
	case domain.AccountRoleStaff, domain.AccountRoleAdmin:
		homeownerID = input.HomeownerID
	case domain.AccountRoleBuilder:
		return nil, apperrors.NewForbidden("builders cannot submit claims")
	default:
		return nil, apperrors.NewForbidden("unknown role")
	}

	name := strings.TrimSpace(input.HomeownerName)
	address := strings.TrimSpace(input.Address)
	if homeownerID != nil {
		h, err := s.homeowners.GetByID(ctx, *homeownerID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, apperrors.NewNotFound("homeowner", map[string]any{"homeowner_id": *homeownerID})
			}
			return nil, apperrors.MapError(err)
		}
		name, address = h.Name, h.Address
	}
	if name == "" || address == "" {
		return nil, apperrors.NewValidationError("homeowner name and address required", nil)
	}

	now := s.now()
	claim := &domain.Claim{
		ClaimNumber:    generateClaimNumber(),
		HomeownerName:  name,
		Address:        address,
		Description:    strings.TrimSpace(input.Description),
		Status:         domain.ClaimStatusSubmitted,
		Classification: domain.ClassificationUnclassified,
		DateSubmitted:  now,
		ProposedDates:  []domain.ProposedDate{},
		Comments:       []domain.ClaimComment{},
	}
	if err := s.claims.Create(ctx, claim); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.logger.Info("claim submitted", zap.String("claim_id", claim.ID), zap.String("claim_number", claim.ClaimNumber))
	s.publishEvent(ctx, actor, events.Event{
		Type:    events.EventClaimSubmitted,
		ClaimID: claim.ID,
		Payload: events.ClaimSubmittedPayload{
			ClaimNumber:   claim.ClaimNumber,
			HomeownerName: claim.HomeownerName,
			Address:       claim.Address,
		},
	})
	return claim, nil
}

// ListClaims returns the claims visible to actor, partitioned by filter.
func (s *ClaimService) ListClaims(ctx context.Context, actor *domain.Account, input ClaimListInput) ([]domain.Claim, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthorized("account required")
	}
	filter := input.Filter
	if filter == "" {
		filter = selection.FilterAll
	}

	repoFilter := repository.ClaimFilter{SearchTerm: input.SearchTerm}
	var scope []domain.Homeowner
	switch actor.Role {
	case domain.AccountRoleStaff, domain.AccountRoleAdmin:
	case domain.AccountRoleHomeowner:
		h, err := s.linkedHomeowner(ctx, actor)
		if err != nil {
			return nil, err
		}
		repoFilter.HomeownerName = &h.Name
		repoFilter.Address = &h.Address
	case domain.AccountRoleBuilder:
		homeowners, err := s.builderHomeowners(ctx, actor)
		if err != nil {
			return nil, err
		}
		scope = homeowners
	default:
		return nil, apperrors.NewForbidden("unknown role")
	}

	claims, err := s.claims.List(ctx, repoFilter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if scope != nil {
		claims = analytics.FilterClaims(claims, scope)
	}
	return selection.ApplyFilter(claims, filter), nil
}

// GetClaim fetches a claim ensuring the actor may see it.
func (s *ClaimService) GetClaim(ctx context.Context, actor *domain.Account, claimID string) (*domain.Claim, error) {
	claim, err := s.loadClaim(ctx, claimID)
	if err != nil {
		return nil, err
	}
	if err := s.ensureAccess(ctx, actor, claim); err != nil {
		return nil, err
	}
	return claim, nil
}

// UpdateStatus moves a claim to any valid status; no transition graph applies.
func (s *ClaimService) UpdateStatus(ctx context.Context, actor *domain.Account, claimID string, status domain.ClaimStatus) (*domain.Claim, error) {
	if err := requireInternal(actor); err != nil {
		return nil, err
	}
	if !status.Valid() {
		return nil, apperrors.NewValidationError("invalid status", map[string]any{"status": status})
	}
	claim, err := s.loadClaim(ctx, claimID)
	if err != nil {
		return nil, err
	}
	oldStatus := claim.Status
	claim.Status = status
	if err := s.claims.Update(ctx, claim); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.publishEvent(ctx, actor, events.Event{
		Type:    events.EventClaimStatusChanged,
		ClaimID: claim.ID,
		Payload: events.ClaimStatusChangedPayload{OldStatus: oldStatus, NewStatus: status},
	})
	return claim, nil
}

// Classify assigns the staff disposition of a claim.
func (s *ClaimService) Classify(ctx context.Context, actor *domain.Account, claimID string, classification domain.ClaimClassification) (*domain.Claim, error) {
	if err := requireInternal(actor); err != nil {
		return nil, err
	}
	if !classification.Valid() {
		return nil, apperrors.NewValidationError("invalid classification", map[string]any{"classification": classification})
	}
	claim, err := s.loadClaim(ctx, claimID)
	if err != nil {
		return nil, err
	}
	old := claim.Classification
	claim.Classification = classification
	if err := s.claims.Update(ctx, claim); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.publishEvent(ctx, actor, events.Event{
		Type:    events.EventClaimClassified,
		ClaimID: claim.ID,
		Payload: events.ClaimClassifiedPayload{OldClassification: old, NewClassification: classification},
	})
	return claim, nil
}

// Evaluate stamps the end of initial review. The first evaluation date is
// kept; later calls leave it untouched.
func (s *ClaimService) Evaluate(ctx context.Context, actor *domain.Account, claimID string, at *time.Time) (*domain.Claim, error) {
	if err := requireInternal(actor); err != nil {
		return nil, err
	}
	claim, err := s.loadClaim(ctx, claimID)
	if err != nil {
		return nil, err
	}
	if claim.DateEvaluated != nil {
		return claim, nil
	}
	evaluated := s.now()
	if at != nil {
		evaluated = *at
	}
	if evaluated.Before(claim.DateSubmitted) {
		return nil, apperrors.NewValidationError("evaluation date precedes submission", nil)
	}
	claim.DateEvaluated = &evaluated
	if err := s.claims.Update(ctx, claim); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.publishEvent(ctx, actor, events.Event{Type: events.EventClaimEvaluated, ClaimID: claim.ID})
	return claim, nil
}

// SetReviewed toggles the staff acknowledgment flag.
func (s *ClaimService) SetReviewed(ctx context.Context, actor *domain.Account, claimID string, reviewed bool) (*domain.Claim, error) {
	if err := requireInternal(actor); err != nil {
		return nil, err
	}
	claim, err := s.loadClaim(ctx, claimID)
	if err != nil {
		return nil, err
	}
	claim.Reviewed = reviewed
	if err := s.claims.Update(ctx, claim); err != nil {
		return nil, apperrors.MapError(err)
	}
	return claim, nil
}

// AddComment appends a note authored by actor.
func (s *ClaimService) AddComment(ctx context.Context, actor *domain.Account, claimID, text string) (*domain.Claim, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperrors.NewValidationError("comment text required", nil)
	}
	claim, err := s.GetClaim(ctx, actor, claimID)
	if err != nil {
		return nil, err
	}
	claim.Comments = append(claim.Comments, domain.ClaimComment{
		Author:    actor.Name,
		Role:      commentRole(actor.Role),
		Text:      text,
		Timestamp: s.now(),
	})
	if err := s.claims.Update(ctx, claim); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.publishEvent(ctx, actor, events.Event{Type: events.EventClaimCommentAdded, ClaimID: claim.ID})
	return claim, nil
}

// ProposeDate offers a service appointment to the homeowner.
func (s *ClaimService) ProposeDate(ctx context.Context, actor *domain.Account, claimID string, date time.Time, timeSlot string) (*domain.Claim, error) {
	if err := requireInternal(actor); err != nil {
		return nil, err
	}
	if date.IsZero() {
		return nil, apperrors.NewValidationError("date required", nil)
	}
	claim, err := s.loadClaim(ctx, claimID)
	if err != nil {
		return nil, err
	}
	proposed := domain.ProposedDate{Date: date, TimeSlot: strings.TrimSpace(timeSlot), Status: domain.ProposedDateProposed}
	claim.ProposedDates = append(claim.ProposedDates, proposed)
	if claim.Status == domain.ClaimStatusSubmitted || claim.Status == domain.ClaimStatusReviewing {
		claim.Status = domain.ClaimStatusScheduling
	}
	if err := s.claims.Update(ctx, claim); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.publishEvent(ctx, actor, events.Event{
		Type:    events.EventProposedDateAdded,
		ClaimID: claim.ID,
		Payload: events.ProposedDatePayload{
			Index:    len(claim.ProposedDates) - 1,
			Date:     proposed.Date,
			TimeSlot: proposed.TimeSlot,
			Status:   proposed.Status,
		},
	})
	return claim, nil
}

// RespondToProposedDate accepts or rejects a pending proposed date. Accepting
// moves a claim in Scheduling to Scheduled.
func (s *ClaimService) RespondToProposedDate(ctx context.Context, actor *domain.Account, claimID string, index int, accept bool) (*domain.Claim, error) {
	claim, err := s.GetClaim(ctx, actor, claimID)
	if err != nil {
		return nil, err
	}
	if actor.Role == domain.AccountRoleBuilder {
		return nil, apperrors.NewForbidden("builders cannot respond to proposed dates")
	}
	if index < 0 || index >= len(claim.ProposedDates) {
		return nil, apperrors.NewNotFound("proposed date", map[string]any{"index": index})
	}
	if claim.ProposedDates[index].Status != domain.ProposedDateProposed {
		return nil, apperrors.NewConflict("proposed date already answered", map[string]any{"index": index})
	}

	if accept {
		claim.ProposedDates[index].Status = domain.ProposedDateAccepted
		if claim.Status == domain.ClaimStatusScheduling {
			claim.Status = domain.ClaimStatusScheduled
		}
	} else {
		claim.ProposedDates[index].Status = domain.ProposedDateRejected
	}
	if err := s.claims.Update(ctx, claim); err != nil {
		return nil, apperrors.MapError(err)
	}
	pd := claim.ProposedDates[index]
	s.publishEvent(ctx, actor, events.Event{
		Type:    events.EventProposedDateResponded,
		ClaimID: claim.ID,
		Payload: events.ProposedDatePayload{Index: index, Date: pd.Date, TimeSlot: pd.TimeSlot, Status: pd.Status},
	})
	return claim, nil
}

// RecordMessage stores a tracked communication sent for a claim.
func (s *ClaimService) RecordMessage(ctx context.Context, actor *domain.Account, claimID string, input RecordMessageInput) (*domain.ClaimMessage, error) {
	if err := requireInternal(actor); err != nil {
		return nil, err
	}
	if _, err := domain.ParseClaimMessageType(string(input.Type)); err != nil {
		return nil, apperrors.NewValidationError(err.Error(), nil)
	}
	claim, err := s.loadClaim(ctx, claimID)
	if err != nil {
		return nil, err
	}
	sentAt := s.now()
	if input.Timestamp != nil {
		sentAt = *input.Timestamp
	}
	msg := &domain.ClaimMessage{
		ClaimID:   claim.ID,
		Type:      input.Type,
		Recipient: strings.TrimSpace(input.Recipient),
		Subject:   strings.TrimSpace(input.Subject),
		Body:      input.Body,
		Timestamp: sentAt,
	}
	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.publishEvent(ctx, actor, events.Event{
		Type:    events.EventClaimMessageRecorded,
		ClaimID: claim.ID,
		Payload: events.ClaimMessageRecordedPayload{
			MessageID: msg.ID,
			Type:      msg.Type,
			Subject:   msg.Subject,
			Recipient: msg.Recipient,
		},
	})
	return msg, nil
}

// ListMessages returns a claim's tracked messages, earliest first.
func (s *ClaimService) ListMessages(ctx context.Context, actor *domain.Account, claimID string) ([]domain.ClaimMessage, error) {
	if err := requireInternal(actor); err != nil {
		return nil, err
	}
	msgs, err := s.messages.ListByClaim(ctx, claimID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	sort.SliceStable(msgs, func(i, j int) bool {
		return msgs[i].Timestamp.Before(msgs[j].Timestamp)
	})
	return msgs, nil
}

// ServiceOrders returns the subcontractor service orders for a claim, latest first.
func (s *ClaimService) ServiceOrders(ctx context.Context, actor *domain.Account, claimID string) ([]domain.ClaimMessage, error) {
	if err := requireInternal(actor); err != nil {
		return nil, err
	}
	msgs, err := s.messages.ListByClaim(ctx, claimID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return analytics.FindServiceOrderMessages(claimID, msgs, analytics.Descending), nil
}

// BulkDelete hard-deletes the selected claims one by one. The caller must
// pass confirm; failures are reported per id and never roll back.
func (s *ClaimService) BulkDelete(ctx context.Context, actor *domain.Account, ids []string, confirm bool) (selection.BulkDeleteResult, error) {
	if actor == nil || actor.Role != domain.AccountRoleAdmin {
		return selection.BulkDeleteResult{}, apperrors.NewForbidden("admin role required")
	}
	if !confirm {
		return selection.BulkDeleteResult{}, apperrors.NewValidationError("bulk delete requires confirmation", nil)
	}
	if len(ids) == 0 {
		return selection.BulkDeleteResult{}, apperrors.NewValidationError("no claims selected", nil)
	}
	picked := selection.NewSelection(ids...)
	result := selection.BulkDelete(ctx, picked.IDs(), claimDeleter{repo: s.claims}, s.logger)
	for _, id := range result.Deleted {
		s.publishEvent(ctx, actor, events.Event{Type: events.EventClaimDeleted, ClaimID: id})
	}
	return result, nil
}

type claimDeleter struct {
	repo repository.ClaimRepository
}

func (d claimDeleter) DeleteClaim(ctx context.Context, id string) error {
	return d.repo.Delete(ctx, id)
}

func (s *ClaimService) loadClaim(ctx context.Context, claimID string) (*domain.Claim, error) {
	claim, err := s.claims.GetByID(ctx, claimID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("claim", map[string]any{"claim_id": claimID})
		}
		return nil, apperrors.MapError(err)
	}
	return claim, nil
}

func (s *ClaimService) ensureAccess(ctx context.Context, actor *domain.Account, claim *domain.Claim) error {
	if actor == nil {
		return apperrors.NewUnauthorized("account required")
	}
	var scope []domain.Homeowner
	switch actor.Role {
	case domain.AccountRoleStaff, domain.AccountRoleAdmin:
		return nil
	case domain.AccountRoleHomeowner:
		h, err := s.linkedHomeowner(ctx, actor)
		if err != nil {
			return err
		}
		scope = []domain.Homeowner{*h}
	case domain.AccountRoleBuilder:
		homeowners, err := s.builderHomeowners(ctx, actor)
		if err != nil {
			return err
		}
		scope = homeowners
	default:
		return apperrors.NewForbidden("unknown role")
	}
	if _, ok := analytics.AttributeClaim(*claim, scope); !ok {
		return apperrors.NewForbidden("access denied")
	}
	return nil
}

func (s *ClaimService) linkedHomeowner(ctx context.Context, actor *domain.Account) (*domain.Homeowner, error) {
	if actor.HomeownerID == nil {
		return nil, apperrors.NewForbidden("account not linked to a homeowner")
	}
	h, err := s.homeowners.GetByID(ctx, *actor.HomeownerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewForbidden("linked homeowner no longer exists")
		}
		return nil, apperrors.MapError(err)
	}
	return h, nil
}

func (s *ClaimService) builderHomeowners(ctx context.Context, actor *domain.Account) ([]domain.Homeowner, error) {
	if actor.BuilderID == nil {
		return nil, apperrors.NewForbidden("account not linked to a builder group")
	}
	homeowners, err := s.homeowners.List(ctx, actor.BuilderID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return homeowners, nil
}

func (s *ClaimService) publishEvent(ctx context.Context, actor *domain.Account, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now()
	}
	if actor != nil {
		event.Actor = events.Actor{AccountID: actor.ID, Role: actor.Role}
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event handler failed", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}

func requireInternal(actor *domain.Account) error {
	if actor == nil {
		return apperrors.NewUnauthorized("account required")
	}
	if !actor.Role.IsInternal() {
		return apperrors.NewForbidden("staff role required")
	}
	return nil
}

func commentRole(role domain.AccountRole) domain.CommentRole {
	switch role {
	case domain.AccountRoleHomeowner:
		return domain.CommentRoleHomeowner
	case domain.AccountRoleBuilder:
		return domain.CommentRoleBuilder
	default:
		return domain.CommentRoleStaff
	}
}

func generateClaimNumber() string {
	return "WC-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}
