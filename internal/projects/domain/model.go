package domain

import (
	"errors"
	"time"
)

// ErrNotFound is returned when the requested project does not exist.
var ErrNotFound = errors.New("project not found")

type Status string

const (
	StatusDraft     Status = "DRAFT"
	StatusPublished Status = "PUBLISHED"
	StatusCompleted Status = "COMPLETED"
	StatusCancelled Status = "CANCELLED"
)

// IsValidStatus reports whether s names a known project status.
func IsValidStatus(s string) bool {
	switch Status(s) {
	case StatusDraft, StatusPublished, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Project is a freelancer-authored offering with a fixed price.
// Orders snapshot the price at creation time, so later edits here never
// touch existing orders.
type Project struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	FreelancerID string    `json:"freelancer_id"`
	Status       Status    `json:"status"`
	Price        float64   `json:"price"`
	Tags         []string  `json:"tags"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
