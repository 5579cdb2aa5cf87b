package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

const principalKey = "auth_principal"

// Middleware resolves bearer tokens to user principals. Absence of an
// identity is a normal, representable state: Optional leaves no
// principal behind, Required converts absence into UNAUTHENTICATED.
type Middleware struct {
	tokens *TokenManager
	users  repository.UserRepository
}

// NewMiddleware constructs middleware.
func NewMiddleware(tokens *TokenManager, users repository.UserRepository) *Middleware {
	return &Middleware{tokens: tokens, users: users}
}

// Required enforces authentication for protected routes.
func (m *Middleware) Required(c *fiber.Ctx) error {
	user, err := m.resolve(c)
	if err != nil {
		return err
	}
	if user == nil {
		return apperrors.NewUnauthenticated("authentication required")
	}
	c.Locals(principalKey, user)
	return c.Next()
}

// Optional resolves an identity when a token is present but never
// fails for its absence. Open read paths (knowledge base) use this.
func (m *Middleware) Optional(c *fiber.Ctx) error {
	user, err := m.resolve(c)
	if err == nil && user != nil {
		c.Locals(principalKey, user)
	}
	return c.Next()
}

func (m *Middleware) resolve(c *fiber.Ctx) (*domain.User, error) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return nil, nil
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return nil, apperrors.NewUnauthenticated("invalid authorization header")
	}

	claims, err := m.tokens.ParseToken(parts[1])
	if err != nil {
		return nil, apperrors.NewUnauthenticated("invalid token")
	}

	user, err := m.users.GetByID(c.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewUnauthenticated("user not found")
		}
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// PrincipalFromContext retrieves the authenticated user, if any.
func PrincipalFromContext(c *fiber.Ctx) (*domain.User, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	user, ok := val.(*domain.User)
	return user, ok
}
