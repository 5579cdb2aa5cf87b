package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/dto"
	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/service"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

// TicketsHandler exposes the ticket lifecycle endpoints.
type TicketsHandler struct {
	service *service.TicketService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService) *TicketsHandler {
	return &TicketsHandler{service: ticketService}
}

// Create POST /tickets.
func (h *TicketsHandler) Create(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.service.Create(c.Context(), principal, service.TicketCreateInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		Category:    req.Category,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": ticketResponse(ticket)})
}

// ListAll GET /tickets.
func (h *TicketsHandler) ListAll(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	tickets, err := h.service.ListAll(c.Context(), principal)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponses(tickets)})
}

// ListMine GET /tickets/mine.
func (h *TicketsHandler) ListMine(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	tickets, err := h.service.ListMine(c.Context(), principal)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponses(tickets)})
}

// Search GET /tickets/search?q=term.
func (h *TicketsHandler) Search(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	tickets, err := h.service.Search(c.Context(), principal, c.Query("q"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponses(tickets)})
}

// Stats GET /tickets/stats.
func (h *TicketsHandler) Stats(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	stats, err := h.service.Stats(c.Context(), principal)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": stats})
}

// Update PATCH /tickets/:id.
func (h *TicketsHandler) Update(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	var req dto.UpdateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	ticketID, err := h.service.Update(c.Context(), principal, c.Params("id"), service.TicketUpdateInput{
		Status:             req.Status,
		Priority:           req.Priority,
		AssignedTechnician: req.AssignedTechnician,
		ResolutionNotes:    req.ResolutionNotes,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"ticket_id": ticketID}})
}

func ticketResponse(ticket *domain.Ticket) dto.TicketResponse {
	return dto.TicketResponse{
		ID:                     ticket.ID,
		Title:                  ticket.Title,
		Description:            ticket.Description,
		Status:                 ticket.Status,
		Priority:               ticket.Priority,
		Category:               ticket.Category,
		RequesterName:          ticket.RequesterName,
		RequesterEmail:         ticket.RequesterEmail,
		AssignedTechnician:     ticket.AssignedTechnician,
		AssignedTechnicianName: ticket.AssignedTechnicianName,
		ResolutionNotes:        ticket.ResolutionNotes,
		CreatedAt:              ticket.CreatedAt,
		LastUpdated:            ticket.LastUpdated,
	}
}

func ticketResponses(tickets []domain.Ticket) []dto.TicketResponse {
	items := make([]dto.TicketResponse, 0, len(tickets))
	for i := range tickets {
		items = append(items, ticketResponse(&tickets[i]))
	}
	return items
}
