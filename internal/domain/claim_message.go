package domain

import (
	"fmt"
	"time"
)

// ClaimMessageType tags who a tracked communication was exchanged with.
type ClaimMessageType string

const (
	MessageTypeHomeowner     ClaimMessageType = "Homeowner"
	MessageTypeSubcontractor ClaimMessageType = "Subcontractor"
	MessageTypeInternal      ClaimMessageType = "Internal"
)

// ParseClaimMessageType validates a raw message type.
func ParseClaimMessageType(raw string) (ClaimMessageType, error) {
	switch t := ClaimMessageType(raw); t {
	case MessageTypeHomeowner, MessageTypeSubcontractor, MessageTypeInternal:
		return t, nil
	}
	return "", fmt.Errorf("unknown message type %q", raw)
}

// ClaimMessage is a tracked email/SMS linked to a claim. Messages carry no
// ordering guarantee; sort by Timestamp before use.
type ClaimMessage struct {
	ID        string
	ClaimID   string
	Type      ClaimMessageType
	Recipient string
	Subject   string
	Body      string
	Timestamp time.Time
}
