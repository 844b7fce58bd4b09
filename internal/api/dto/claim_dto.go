package dto

import (
	"time"

	"github.com/homebuilt/warranty-service/internal/domain"
)

// SubmitClaimRequest payload. Staff may name a homeowner record or give the
// name and address directly.
type SubmitClaimRequest struct {
	HomeownerID   *string `json:"homeowner_id"`
	HomeownerName string  `json:"homeowner_name"`
	Address       string  `json:"address"`
	Description   string  `json:"description"`
}

// UpdateStatusRequest payload.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// ClassifyRequest payload.
type ClassifyRequest struct {
	Classification string `json:"classification"`
}

// EvaluateRequest payload.
type EvaluateRequest struct {
	EvaluatedAt *time.Time `json:"evaluated_at"`
}

// ReviewedRequest payload.
type ReviewedRequest struct {
	Reviewed bool `json:"reviewed"`
}

// CommentRequest payload.
type CommentRequest struct {
	Text string `json:"text"`
}

// ProposeDateRequest payload.
type ProposeDateRequest struct {
	Date     time.Time `json:"date"`
	TimeSlot string    `json:"time_slot"`
}

// RespondProposedDateRequest payload.
type RespondProposedDateRequest struct {
	Accept bool `json:"accept"`
}

// RecordMessageRequest payload.
type RecordMessageRequest struct {
	Type      string     `json:"type"`
	Recipient string     `json:"recipient"`
	Subject   string     `json:"subject"`
	Body      string     `json:"body"`
	Timestamp *time.Time `json:"timestamp"`
}

// BulkDeleteRequest payload. Confirm must be true.
type BulkDeleteRequest struct {
	IDs     []string `json:"ids"`
	Confirm bool     `json:"confirm"`
}

// ClaimResponse represents a claim.
type ClaimResponse struct {
	ID             string                     `json:"id"`
	ClaimNumber    string                     `json:"claim_number"`
	HomeownerName  string                     `json:"homeowner_name"`
	Address        string                     `json:"address"`
	Description    string                     `json:"description"`
	Status         domain.ClaimStatus         `json:"status"`
	Classification domain.ClaimClassification `json:"classification"`
	DateSubmitted  time.Time                  `json:"date_submitted"`
	DateEvaluated  *time.Time                 `json:"date_evaluated"`
	Reviewed       bool                       `json:"reviewed"`
	ProposedDates  []domain.ProposedDate      `json:"proposed_dates"`
	Comments       []domain.ClaimComment      `json:"comments"`
	CreatedAt      time.Time                  `json:"created_at"`
	UpdatedAt      time.Time                  `json:"updated_at"`
}

// ClaimMessageResponse represents a tracked message.
type ClaimMessageResponse struct {
	ID        string                  `json:"id"`
	ClaimID   string                  `json:"claim_id"`
	Type      domain.ClaimMessageType `json:"type"`
	Recipient string                  `json:"recipient"`
	Subject   string                  `json:"subject"`
	Body      string                  `json:"body"`
	Timestamp time.Time               `json:"timestamp"`
}

// BulkDeleteFailure reports one claim that could not be deleted.
type BulkDeleteFailure struct {
	ID    string `json:"id"`
	Error string `json:"error"`
}

// BulkDeleteResponse summarizes a bulk delete.
type BulkDeleteResponse struct {
	Deleted []string            `json:"deleted"`
	Failed  []BulkDeleteFailure `json:"failed"`
}
