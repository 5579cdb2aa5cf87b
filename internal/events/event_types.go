package events

import (
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated    EventType = "ticket_created"
	EventTicketUpdated    EventType = "ticket_updated"
	EventUserAnonymized   EventType = "user_anonymized"
	EventArticlePublished EventType = "article_published"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	ActorID   string      `json:"actor_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	TicketID       string                `json:"ticket_id"`
	Title          string                `json:"title"`
	Priority       domain.TicketPriority `json:"priority"`
	Category       domain.TicketCategory `json:"category"`
	RequesterEmail string                `json:"requester_email"`
}

// TicketUpdatedPayload payload.
type TicketUpdatedPayload struct {
	TicketID           string                 `json:"ticket_id"`
	Status             *domain.TicketStatus   `json:"status,omitempty"`
	Priority           *domain.TicketPriority `json:"priority,omitempty"`
	AssignedTechnician *string                `json:"assigned_technician,omitempty"`
}

// UserAnonymizedPayload payload.
type UserAnonymizedPayload struct {
	UserID            string `json:"user_id"`
	RedactedTickets   int64  `json:"redacted_tickets"`
	UnassignedTickets int64  `json:"unassigned_tickets"`
}

// ArticlePublishedPayload payload.
type ArticlePublishedPayload struct {
	ArticleID string `json:"article_id"`
	Title     string `json:"title"`
	Category  string `json:"category"`
}
