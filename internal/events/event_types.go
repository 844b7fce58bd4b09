package events

import (
	"time"

	"github.com/homebuilt/warranty-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventClaimSubmitted        EventType = "claim_submitted"
	EventClaimStatusChanged    EventType = "claim_status_changed"
	EventClaimClassified       EventType = "claim_classified"
	EventClaimEvaluated        EventType = "claim_evaluated"
	EventClaimDeleted          EventType = "claim_deleted"
	EventClaimMessageRecorded  EventType = "claim_message_recorded"
	EventProposedDateAdded     EventType = "proposed_date_added"
	EventProposedDateResponded EventType = "proposed_date_responded"
	EventClaimCommentAdded     EventType = "claim_comment_added"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	AccountID string             `json:"account_id"`
	Role      domain.AccountRole `json:"role"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	ClaimID   string      `json:"claim_id"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// ClaimSubmittedPayload payload.
type ClaimSubmittedPayload struct {
	ClaimNumber   string `json:"claim_number"`
	HomeownerName string `json:"homeowner_name"`
	Address       string `json:"address"`
}

// ClaimStatusChangedPayload payload.
type ClaimStatusChangedPayload struct {
	OldStatus domain.ClaimStatus `json:"old_status"`
	NewStatus domain.ClaimStatus `json:"new_status"`
}

// ClaimClassifiedPayload payload.
type ClaimClassifiedPayload struct {
	OldClassification domain.ClaimClassification `json:"old_classification"`
	NewClassification domain.ClaimClassification `json:"new_classification"`
}

// ClaimMessageRecordedPayload payload.
type ClaimMessageRecordedPayload struct {
	MessageID string                  `json:"message_id"`
	Type      domain.ClaimMessageType `json:"type"`
	Subject   string                  `json:"subject"`
	Recipient string                  `json:"recipient"`
}

// ProposedDatePayload payload.
type ProposedDatePayload struct {
	Index    int                       `json:"index"`
	Date     time.Time                 `json:"date"`
	TimeSlot string                    `json:"time_slot"`
	Status   domain.ProposedDateStatus `json:"status"`
}
