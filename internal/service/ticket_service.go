package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk-service/internal/authz"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

// TicketService owns the ticket lifecycle: creation, listing, search,
// partial updates and stats.
type TicketService struct {
	tickets    repository.TicketRepository
	users      repository.UserRepository
	dispatcher events.Dispatcher
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo repository.TicketRepository
	UserRepo   repository.UserRepository
	Dispatcher events.Dispatcher
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:    deps.TicketRepo,
		users:      deps.UserRepo,
		dispatcher: deps.Dispatcher,
	}
}

// TicketCreateInput describes ticket creation payload. Requester
// identity is never part of it: it is captured from the acting user.
type TicketCreateInput struct {
	Title       string
	Description string
	Priority    domain.TicketPriority
	Category    domain.TicketCategory
}

// TicketUpdateInput carries a partial update; nil means "not supplied".
type TicketUpdateInput struct {
	Status             *domain.TicketStatus
	Priority           *domain.TicketPriority
	AssignedTechnician *string
	ResolutionNotes    *string
}

// Create files a ticket on behalf of the acting user. The requester
// name and email are taken from the actor, never from caller-supplied
// values, and status is forced to new.
func (s *TicketService) Create(ctx context.Context, actor *domain.User, input TicketCreateInput) (*domain.Ticket, error) {
	if err := requireAction(actor, authz.ActionCreateTicket); err != nil {
		return nil, err
	}
	if actor.EmailOrEmpty() == "" {
		return nil, apperrors.NewValidationError("user has no email; cannot create ticket", nil)
	}

	title := strings.TrimSpace(input.Title)
	description := strings.TrimSpace(input.Description)
	if title == "" || description == "" {
		return nil, apperrors.NewValidationError("title and description required", nil)
	}
	if !domain.ValidTicketPriority(input.Priority) {
		return nil, apperrors.NewValidationError("invalid priority", map[string]any{"priority": input.Priority})
	}
	if !domain.ValidTicketCategory(input.Category) {
		return nil, apperrors.NewValidationError("invalid category", map[string]any{"category": input.Category})
	}

	requesterName := actor.DisplayName()
	if requesterName == "" {
		requesterName = "Unknown"
	}

	ticket := &domain.Ticket{
		Title:          title,
		Description:    description,
		Status:         domain.TicketStatusNew,
		Priority:       input.Priority,
		Category:       input.Category,
		RequesterName:  requesterName,
		RequesterEmail: actor.EmailOrEmpty(),
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}

	publishEvent(ctx, s.dispatcher, events.Event{
		Type:    events.EventTicketCreated,
		ActorID: actor.ID,
		Payload: events.TicketCreatedPayload{
			TicketID:       ticket.ID,
			Title:          ticket.Title,
			Priority:       ticket.Priority,
			Category:       ticket.Category,
			RequesterEmail: ticket.RequesterEmail,
		},
	})
	return ticket, nil
}

// ListAll returns every ticket newest-first, enriched with the
// assigned technician's display name. Technician/admin only.
func (s *TicketService) ListAll(ctx context.Context, actor *domain.User) ([]domain.Ticket, error) {
	if err := requireAction(actor, authz.ActionViewAllTickets); err != nil {
		return nil, err
	}
	tickets, err := s.tickets.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	s.enrichTechnicianNames(ctx, tickets)
	return tickets, nil
}

// ListMine returns the actor's tickets: for end-users, those they
// requested (exact email match); for technicians and admins, those
// assigned to them.
func (s *TicketService) ListMine(ctx context.Context, actor *domain.User) ([]domain.Ticket, error) {
	if err := requireAction(actor, authz.ActionViewOwnTickets); err != nil {
		return nil, err
	}

	var (
		tickets []domain.Ticket
		err     error
	)
	if actor.EffectiveRole() == domain.RoleEndUser {
		email := actor.EmailOrEmpty()
		if email == "" {
			return nil, apperrors.NewValidationError("user has no email; cannot fetch their tickets", nil)
		}
		tickets, err = s.tickets.ListByRequesterEmail(ctx, email)
	} else {
		tickets, err = s.tickets.ListByAssignee(ctx, actor.ID)
	}
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	s.enrichTechnicianNames(ctx, tickets)
	return tickets, nil
}

// Search matches the search term against ticket titles only.
// Technician/admin only.
func (s *TicketService) Search(ctx context.Context, actor *domain.User, term string) ([]domain.Ticket, error) {
	if err := requireAction(actor, authz.ActionViewAllTickets); err != nil {
		return nil, err
	}
	tickets, err := s.tickets.SearchByTitle(ctx, term)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	s.enrichTechnicianNames(ctx, tickets)
	return tickets, nil
}

// Update patches only the supplied fields; lastUpdated is refreshed on
// every call regardless of which fields changed. Technician/admin only.
// Assigning a technician does not auto-transition status.
func (s *TicketService) Update(ctx context.Context, actor *domain.User, ticketID string, input TicketUpdateInput) (string, error) {
	if err := requireAction(actor, authz.ActionUpdateTicket); err != nil {
		return "", err
	}
	if input.Status != nil && !domain.ValidTicketStatus(*input.Status) {
		return "", apperrors.NewValidationError("invalid status", map[string]any{"status": *input.Status})
	}
	if input.Priority != nil && !domain.ValidTicketPriority(*input.Priority) {
		return "", apperrors.NewValidationError("invalid priority", map[string]any{"priority": *input.Priority})
	}
	if input.AssignedTechnician != nil {
		technician, err := s.users.GetByID(ctx, *input.AssignedTechnician)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return "", apperrors.NewNotFound("user", map[string]any{"user_id": *input.AssignedTechnician})
			}
			return "", apperrors.MapError(err)
		}
		role := technician.EffectiveRole()
		if role != domain.RoleTechnician && role != domain.RoleAdmin {
			return "", apperrors.NewValidationError("assignee must be a technician or admin", map[string]any{"user_id": technician.ID})
		}
	}

	patch := repository.TicketPatch{
		Status:             input.Status,
		Priority:           input.Priority,
		AssignedTechnician: input.AssignedTechnician,
		ResolutionNotes:    input.ResolutionNotes,
	}
	if err := s.tickets.Patch(ctx, ticketID, patch); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return "", apperrors.MapError(err)
	}

	publishEvent(ctx, s.dispatcher, events.Event{
		Type:    events.EventTicketUpdated,
		ActorID: actor.ID,
		Payload: events.TicketUpdatedPayload{
			TicketID:           ticketID,
			Status:             input.Status,
			Priority:           input.Priority,
			AssignedTechnician: input.AssignedTechnician,
		},
	})
	return ticketID, nil
}

// Stats aggregates counts over the full ticket set at call time.
// Technician/admin only.
func (s *TicketService) Stats(ctx context.Context, actor *domain.User) (*domain.TicketStats, error) {
	if err := requireAction(actor, authz.ActionViewAllTickets); err != nil {
		return nil, err
	}
	stats, err := s.tickets.Stats(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return stats, nil
}

// enrichTechnicianNames attaches assignee display names. A missing
// technician record degrades to nil instead of failing the read.
func (s *TicketService) enrichTechnicianNames(ctx context.Context, tickets []domain.Ticket) {
	names := map[string]*string{}
	for i := range tickets {
		assignee := tickets[i].AssignedTechnician
		if assignee == nil {
			continue
		}
		name, seen := names[*assignee]
		if !seen {
			if technician, err := s.users.GetByID(ctx, *assignee); err == nil && technician.Name != nil {
				name = technician.Name
			}
			names[*assignee] = name
		}
		tickets[i].AssignedTechnicianName = name
	}
}
