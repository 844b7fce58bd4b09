package analytics

import (
	"sort"
	"strings"

	"github.com/homebuilt/warranty-service/internal/domain"
)

// SortOrder selects how correlated messages are ordered by timestamp.
type SortOrder int

const (
	// Ascending puts the earliest message first.
	Ascending SortOrder = iota + 1
	// Descending puts the latest message first.
	Descending
)

const serviceOrderMarker = "service order"

// FindServiceOrderMessages returns the subcontractor service-order messages
// for a claim. Messages without a timestamp are dropped. An unknown order
// yields nil.
func FindServiceOrderMessages(claimID string, messages []domain.ClaimMessage, order SortOrder) []domain.ClaimMessage {
	if order != Ascending && order != Descending {
		return nil
	}

	matched := make([]domain.ClaimMessage, 0)
	for _, msg := range messages {
		if msg.ClaimID != claimID || msg.Type != domain.MessageTypeSubcontractor {
			continue
		}
		if !strings.Contains(strings.ToLower(msg.Subject), serviceOrderMarker) {
			continue
		}
		if msg.Timestamp.IsZero() {
			continue
		}
		matched = append(matched, msg)
	}

	sort.SliceStable(matched, func(i, j int) bool {
		if order == Descending {
			return matched[i].Timestamp.After(matched[j].Timestamp)
		}
		return matched[i].Timestamp.Before(matched[j].Timestamp)
	})
	return matched
}

// FirstSubcontractorContact returns the earliest service order sent for the claim.
func FirstSubcontractorContact(claimID string, messages []domain.ClaimMessage) (domain.ClaimMessage, bool) {
	return firstOf(FindServiceOrderMessages(claimID, messages, Ascending))
}

// LatestServiceOrder returns the most recent service order sent for the claim.
func LatestServiceOrder(claimID string, messages []domain.ClaimMessage) (domain.ClaimMessage, bool) {
	return firstOf(FindServiceOrderMessages(claimID, messages, Descending))
}

func firstOf(msgs []domain.ClaimMessage) (domain.ClaimMessage, bool) {
	if len(msgs) == 0 {
		return domain.ClaimMessage{}, false
	}
	return msgs[0], true
}

// indexByClaim groups messages per claim so the engine scans each list once.
func indexByClaim(messages []domain.ClaimMessage) map[string][]domain.ClaimMessage {
	index := make(map[string][]domain.ClaimMessage)
	for _, msg := range messages {
		index[msg.ClaimID] = append(index[msg.ClaimID], msg)
	}
	return index
}
