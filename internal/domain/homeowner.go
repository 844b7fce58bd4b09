package domain

import "time"

// Homeowner is the live property owner record. Claims reference it only by
// name and address snapshot.
type Homeowner struct {
	ID          string
	Name        string
	Address     string
	Email       string
	Phone       string
	ClosingDate time.Time
	BuilderID   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// BuilderGroup scopes homeowners, and transitively claims, per customer.
type BuilderGroup struct {
	ID        string
	Name      string
	CreatedAt time.Time
}
