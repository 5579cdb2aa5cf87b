package dto

import (
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// CompleteProfileRequest payload. Role is accepted but never honored
// by the directory; self-service profile completion always stores
// end-user.
type CompleteProfileRequest struct {
	Email      string       `json:"email"`
	Name       string       `json:"name"`
	Department *string      `json:"department"`
	Role       *domain.Role `json:"role"`
}

// SetRoleRequest payload.
type SetRoleRequest struct {
	Role domain.Role `json:"role"`
}

// UserResponse response.
type UserResponse struct {
	ID          string       `json:"id"`
	Email       *string      `json:"email"`
	Name        *string      `json:"name"`
	Role        *domain.Role `json:"role"`
	Department  *string      `json:"department"`
	Provisioned bool         `json:"provisioned"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// AnonymizeResponse reports what the cascade touched.
type AnonymizeResponse struct {
	UserID            string `json:"user_id"`
	RedactedTickets   int64  `json:"redacted_tickets"`
	UnassignedTickets int64  `json:"unassigned_tickets"`
}
