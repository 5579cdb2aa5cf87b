package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk-service/internal/authz"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

// UserService is the user directory: profile bootstrap and completion,
// technician lookups and role administration.
type UserService struct {
	users repository.UserRepository
}

// NewUserService constructs the service.
func NewUserService(users repository.UserRepository) *UserService {
	return &UserService{users: users}
}

// ProfileInput describes a profile-completion submission. Role is
// accepted for wire compatibility but never honored: self-assignment of
// elevated privilege is a forbidden side channel.
type ProfileInput struct {
	Email      string
	Name       string
	Department *string
	Role       *domain.Role
}

// ResolveOrBootstrap returns the existing profile for an authenticated
// identity, or a bare placeholder when no record exists yet. No role is
// assigned until profile setup completes.
func (s *UserService) ResolveOrBootstrap(ctx context.Context, identityID string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, identityID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &domain.User{ID: identityID}, nil
		}
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// CompleteProfile finishes setup for an authenticated identity.
// De-duplication is by email: when a record with the given email
// already exists it is returned idempotently rather than duplicated.
// The unique index on email closes the concurrent-submission race; a
// losing writer re-queries and converges on the same id.
func (s *UserService) CompleteProfile(ctx context.Context, identityID string, input ProfileInput) (string, error) {
	if identityID == "" {
		return "", apperrors.NewUnauthenticated("authentication required")
	}
	email := strings.TrimSpace(input.Email)
	if email == "" {
		return "", apperrors.NewValidationError("email required", nil)
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return "", apperrors.NewValidationError("name required", nil)
	}

	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return "", apperrors.MapError(err)
	}
	if existing != nil {
		// The caller's own bare record still gets its profile fields
		// filled in; anyone else's record is returned untouched.
		if existing.ID == identityID && !existing.Provisioned() {
			if err := s.fillProfile(ctx, existing, email, name, input.Department); err != nil {
				return "", err
			}
		}
		return existing.ID, nil
	}

	user, err := s.users.GetByID(ctx, identityID)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return "", apperrors.MapError(err)
		}
		user = &domain.User{ID: identityID}
	}

	if err := s.fillProfile(ctx, user, email, name, input.Department); err != nil {
		if apperrors.IsCode(err, "CONFLICT") {
			// Lost the race: another submission claimed the email first.
			winner, qerr := s.users.GetByEmail(ctx, email)
			if qerr != nil {
				return "", apperrors.MapError(qerr)
			}
			return winner.ID, nil
		}
		return "", err
	}
	return user.ID, nil
}

func (s *UserService) fillProfile(ctx context.Context, user *domain.User, email, name string, department *string) error {
	role := domain.RoleEndUser
	user.Email = &email
	user.Name = &name
	user.Department = department
	user.Role = &role

	var err error
	if user.CreatedAt.IsZero() {
		err = s.users.Create(ctx, user)
	} else {
		err = s.users.Update(ctx, user)
	}
	if err != nil {
		if apperrors.IsCode(err, "CONFLICT") {
			return err
		}
		return apperrors.MapError(err)
	}
	return nil
}

// ListTechnicians returns users holding the technician or admin role.
func (s *UserService) ListTechnicians(ctx context.Context, actor *domain.User) ([]domain.User, error) {
	if err := requireAction(actor, authz.ActionListTechnicians); err != nil {
		return nil, err
	}
	techs, err := s.users.ListByRoles(ctx, domain.RoleTechnician, domain.RoleAdmin)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return techs, nil
}

// ListAll returns every user record. Admin only.
func (s *UserService) ListAll(ctx context.Context, actor *domain.User) ([]domain.User, error) {
	if err := requireAction(actor, authz.ActionListUsers); err != nil {
		return nil, err
	}
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return users, nil
}

// SetRole patches the target user's role field only. Admin only.
func (s *UserService) SetRole(ctx context.Context, actor *domain.User, targetID string, role domain.Role) (string, error) {
	if err := requireAction(actor, authz.ActionChangeUserRole); err != nil {
		return "", err
	}
	if !domain.ValidRole(role) {
		return "", apperrors.NewValidationError("invalid role", map[string]any{"role": role})
	}
	if err := s.users.UpdateRole(ctx, targetID, role); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", apperrors.NewNotFound("user", map[string]any{"user_id": targetID})
		}
		return "", apperrors.MapError(err)
	}
	return targetID, nil
}
