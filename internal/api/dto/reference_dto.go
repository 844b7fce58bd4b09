package dto

import "time"

// BuilderGroupResponse represents a builder group.
type BuilderGroupResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// HomeownerResponse represents a homeowner record.
type HomeownerResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Address     string    `json:"address"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	ClosingDate time.Time `json:"closing_date"`
	BuilderID   string    `json:"builder_id"`
}
