package domain

import (
	"fmt"
	"time"
)

// ClaimStatus enumerates workflow stages for a warranty claim.
type ClaimStatus string

const (
	ClaimStatusSubmitted  ClaimStatus = "Submitted"
	ClaimStatusReviewing  ClaimStatus = "Reviewing"
	ClaimStatusScheduling ClaimStatus = "Scheduling"
	ClaimStatusScheduled  ClaimStatus = "Scheduled"
	ClaimStatusCompleted  ClaimStatus = "Completed"
	ClaimStatusClosed     ClaimStatus = "Closed"
)

// ClaimStatuses lists every status in workflow order.
var ClaimStatuses = []ClaimStatus{
	ClaimStatusSubmitted,
	ClaimStatusReviewing,
	ClaimStatusScheduling,
	ClaimStatusScheduled,
	ClaimStatusCompleted,
	ClaimStatusClosed,
}

// Valid reports whether s is one of the enumerated statuses.
func (s ClaimStatus) Valid() bool {
	switch s {
	case ClaimStatusSubmitted, ClaimStatusReviewing, ClaimStatusScheduling,
		ClaimStatusScheduled, ClaimStatusCompleted, ClaimStatusClosed:
		return true
	}
	return false
}

// ParseClaimStatus validates a raw status value.
func ParseClaimStatus(raw string) (ClaimStatus, error) {
	status := ClaimStatus(raw)
	if !status.Valid() {
		return "", fmt.Errorf("unknown claim status %q", raw)
	}
	return status, nil
}

// ClaimClassification is the staff-assigned disposition of a claim.
// The empty value means no classification was ever recorded.
type ClaimClassification string

const (
	ClassificationSixtyDay        ClaimClassification = "60 Day"
	ClassificationElevenMonth     ClaimClassification = "11 Month"
	ClassificationNonWarranty     ClaimClassification = "Non-Warranty"
	ClassificationCourtesyRepair  ClaimClassification = "Courtesy Repair"
	ClassificationHoldElevenMonth ClaimClassification = "Hold for 11 Month"
	ClassificationNeedsAttention  ClaimClassification = "Needs Attention"
	ClassificationOther           ClaimClassification = "Other"
	ClassificationServiceComplete ClaimClassification = "Service Complete"
	ClassificationDuplicate       ClaimClassification = "Duplicate"
	ClassificationUnclassified    ClaimClassification = "Unclassified"
)

// Classifications lists every assignable classification.
var Classifications = []ClaimClassification{
	ClassificationSixtyDay,
	ClassificationElevenMonth,
	ClassificationNonWarranty,
	ClassificationCourtesyRepair,
	ClassificationHoldElevenMonth,
	ClassificationNeedsAttention,
	ClassificationOther,
	ClassificationServiceComplete,
	ClassificationDuplicate,
	ClassificationUnclassified,
}

// Valid reports whether c is one of the enumerated classifications.
func (c ClaimClassification) Valid() bool {
	switch c {
	case ClassificationSixtyDay, ClassificationElevenMonth, ClassificationNonWarranty,
		ClassificationCourtesyRepair, ClassificationHoldElevenMonth, ClassificationNeedsAttention,
		ClassificationOther, ClassificationServiceComplete, ClassificationDuplicate,
		ClassificationUnclassified:
		return true
	}
	return false
}

// Assigned reports whether staff have given the claim a real disposition.
func (c ClaimClassification) Assigned() bool {
	return c.Valid() && c != ClassificationUnclassified
}

// ParseClassification validates a raw classification value.
func ParseClassification(raw string) (ClaimClassification, error) {
	c := ClaimClassification(raw)
	if !c.Valid() {
		return "", fmt.Errorf("unknown claim classification %q", raw)
	}
	return c, nil
}

// NormalizeClassification coerces unknown values to Unclassified. The empty
// value is preserved so "never classified" stays distinguishable.
func NormalizeClassification(raw string) ClaimClassification {
	if raw == "" {
		return ""
	}
	c := ClaimClassification(raw)
	if !c.Valid() {
		return ClassificationUnclassified
	}
	return c
}

// ProposedDateStatus tracks scheduling negotiation for a single slot.
type ProposedDateStatus string

const (
	ProposedDateProposed ProposedDateStatus = "Proposed"
	ProposedDateAccepted ProposedDateStatus = "Accepted"
	ProposedDateRejected ProposedDateStatus = "Rejected"
)

// Valid reports whether s is a known proposed date status.
func (s ProposedDateStatus) Valid() bool {
	switch s {
	case ProposedDateProposed, ProposedDateAccepted, ProposedDateRejected:
		return true
	}
	return false
}

// ProposedDate is one entry of the scheduling history.
type ProposedDate struct {
	Date     time.Time          `json:"date"`
	TimeSlot string             `json:"time_slot"`
	Status   ProposedDateStatus `json:"status"`
}

// CommentRole identifies who wrote a claim comment.
type CommentRole string

const (
	CommentRoleHomeowner CommentRole = "HOMEOWNER"
	CommentRoleStaff     CommentRole = "STAFF"
	CommentRoleBuilder   CommentRole = "BUILDER"
)

// ClaimComment is an append-only note on a claim.
type ClaimComment struct {
	Author    string      `json:"author"`
	Role      CommentRole `json:"role"`
	Text      string      `json:"text"`
	Timestamp time.Time   `json:"timestamp"`
}

// Claim is a warranty service request. HomeownerName and Address are a
// snapshot taken at submission time, not a live reference.
type Claim struct {
	ID             string
	ClaimNumber    string
	HomeownerName  string
	Address        string
	Description    string
	Status         ClaimStatus
	Classification ClaimClassification
	DateSubmitted  time.Time
	DateEvaluated  *time.Time
	Reviewed       bool
	ProposedDates  []ProposedDate
	Comments       []ClaimComment
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// IsOpen reports whether the claim still needs work.
func (c *Claim) IsOpen() bool {
	return c.Status != ClaimStatusCompleted
}

// IsApproved reports whether the claim is accepted warranty work in progress.
func (c *Claim) IsApproved() bool {
	switch c.Status {
	case ClaimStatusCompleted, ClaimStatusSubmitted:
		return false
	case ClaimStatusReviewing, ClaimStatusScheduling, ClaimStatusScheduled, ClaimStatusClosed:
		return c.Classification.Assigned()
	}
	return false
}

// NeedsAttention reports whether staff flagged the claim.
func (c *Claim) NeedsAttention() bool {
	return c.Classification == ClassificationNeedsAttention
}

// IsInProcessOrNew reports whether the claim is new or being scheduled.
func (c *Claim) IsInProcessOrNew() bool {
	switch c.Status {
	case ClaimStatusSubmitted, ClaimStatusScheduling, ClaimStatusScheduled:
		return true
	case ClaimStatusReviewing, ClaimStatusCompleted, ClaimStatusClosed:
		return false
	}
	return false
}

// LastComment returns the most recently appended comment.
func (c *Claim) LastComment() (ClaimComment, bool) {
	if len(c.Comments) == 0 {
		return ClaimComment{}, false
	}
	return c.Comments[len(c.Comments)-1], true
}

// LastProposedDate returns the most recently appended proposed date.
func (c *Claim) LastProposedDate() (ProposedDate, bool) {
	if len(c.ProposedDates) == 0 {
		return ProposedDate{}, false
	}
	return c.ProposedDates[len(c.ProposedDates)-1], true
}
