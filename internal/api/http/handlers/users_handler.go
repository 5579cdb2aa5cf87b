package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/dto"
	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/service"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

// UsersHandler exposes the user directory and the anonymization
// workflow.
type UsersHandler struct {
	users         *service.UserService
	anonymization *service.AnonymizationService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(userService *service.UserService, anonymizationService *service.AnonymizationService) *UsersHandler {
	return &UsersHandler{users: userService, anonymization: anonymizationService}
}

// Me GET /users/me.
func (h *UsersHandler) Me(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthenticated("authentication required")
	}
	user, err := h.users.ResolveOrBootstrap(c.Context(), principal.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": userResponse(user)})
}

// CompleteProfile POST /users/profile.
func (h *UsersHandler) CompleteProfile(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthenticated("authentication required")
	}
	var req dto.CompleteProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	userID, err := h.users.CompleteProfile(c.Context(), principal.ID, service.ProfileInput{
		Email:      req.Email,
		Name:       req.Name,
		Department: req.Department,
		Role:       req.Role,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"user_id": userID}})
}

// ListTechnicians GET /users/technicians.
func (h *UsersHandler) ListTechnicians(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	technicians, err := h.users.ListTechnicians(c.Context(), principal)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": userResponses(technicians)})
}

// ListAll GET /users.
func (h *UsersHandler) ListAll(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	users, err := h.users.ListAll(c.Context(), principal)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": userResponses(users)})
}

// SetRole PATCH /users/:id/role.
func (h *UsersHandler) SetRole(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	var req dto.SetRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	userID, err := h.users.SetRole(c.Context(), principal, c.Params("id"), req.Role)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"user_id": userID}})
}

// Anonymize DELETE /users/:id.
func (h *UsersHandler) Anonymize(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	targetID := c.Params("id")
	result, err := h.anonymization.Anonymize(c.Context(), principal, targetID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.AnonymizeResponse{
		UserID:            targetID,
		RedactedTickets:   result.RedactedTickets,
		UnassignedTickets: result.UnassignedTickets,
	}})
}

func userResponse(user *domain.User) dto.UserResponse {
	return dto.UserResponse{
		ID:          user.ID,
		Email:       user.Email,
		Name:        user.Name,
		Role:        user.Role,
		Department:  user.Department,
		Provisioned: user.Provisioned(),
		CreatedAt:   user.CreatedAt,
		UpdatedAt:   user.UpdatedAt,
	}
}

func userResponses(users []domain.User) []dto.UserResponse {
	items := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		items = append(items, userResponse(&users[i]))
	}
	return items
}
