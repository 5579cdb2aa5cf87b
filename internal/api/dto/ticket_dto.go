package dto

import (
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// CreateTicketRequest payload. Requester identity is never part of it.
type CreateTicketRequest struct {
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Priority    domain.TicketPriority `json:"priority"`
	Category    domain.TicketCategory `json:"category"`
}

// UpdateTicketRequest payload; absent fields are left untouched.
type UpdateTicketRequest struct {
	Status             *domain.TicketStatus   `json:"status"`
	Priority           *domain.TicketPriority `json:"priority"`
	AssignedTechnician *string                `json:"assigned_technician"`
	ResolutionNotes    *string                `json:"resolution_notes"`
}

// TicketResponse response.
type TicketResponse struct {
	ID                     string                `json:"id"`
	Title                  string                `json:"title"`
	Description            string                `json:"description"`
	Status                 domain.TicketStatus   `json:"status"`
	Priority               domain.TicketPriority `json:"priority"`
	Category               domain.TicketCategory `json:"category"`
	RequesterName          string                `json:"requester_name"`
	RequesterEmail         string                `json:"requester_email"`
	AssignedTechnician     *string               `json:"assigned_technician"`
	AssignedTechnicianName *string               `json:"assigned_technician_name"`
	ResolutionNotes        *string               `json:"resolution_notes"`
	CreatedAt              time.Time             `json:"created_at"`
	LastUpdated            time.Time             `json:"last_updated"`
}
