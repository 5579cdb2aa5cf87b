package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk-service/internal/authz"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

// SentinelFormerEmployee replaces the requester name on tickets
// authored by an anonymized user.
const SentinelFormerEmployee = "Former Employee"

// AnonymizationService runs the cascading redaction that precedes a
// user's permanent removal.
type AnonymizationService struct {
	users      repository.UserRepository
	tickets    repository.TicketRepository
	dispatcher events.Dispatcher
}

// AnonymizationDependencies bundles collaborators.
type AnonymizationDependencies struct {
	UserRepo   repository.UserRepository
	TicketRepo repository.TicketRepository
	Dispatcher events.Dispatcher
}

// NewAnonymizationService constructs the service.
func NewAnonymizationService(deps AnonymizationDependencies) *AnonymizationService {
	return &AnonymizationService{
		users:      deps.UserRepo,
		tickets:    deps.TicketRepo,
		dispatcher: deps.Dispatcher,
	}
}

// PlaceholderEmail derives the synthetic requester email for an
// anonymized user. Keyed on the user id, it is unique per anonymized
// user and unreachable from the original identity.
func PlaceholderEmail(userID string) string {
	return fmt.Sprintf("anonymized-%s@redacted.invalid", userID)
}

// AnonymizeResult reports what the cascade touched.
type AnonymizeResult struct {
	RedactedTickets   int64
	UnassignedTickets int64
}

// Anonymize redacts the target's identity across their requested
// tickets, clears their ticket assignments and deletes the user record.
// Admin only; an admin may not anonymize their own account.
//
// The steps run sequentially against per-statement atomicity: a crash
// mid-cascade leaves anonymized tickets alongside a still-present user
// record. Each step is idempotent, so retrying the whole operation from
// step one converges — already-redacted tickets no longer match the
// original email and the assignment clear is a no-op the second time.
func (s *AnonymizationService) Anonymize(ctx context.Context, actor *domain.User, targetID string) (*AnonymizeResult, error) {
	if err := requireAction(actor, authz.ActionAnonymizeUser); err != nil {
		return nil, err
	}
	if actor.ID == targetID {
		return nil, apperrors.NewValidationError("cannot anonymize the acting account", nil)
	}

	target, err := s.users.GetByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", map[string]any{"user_id": targetID})
		}
		return nil, apperrors.MapError(err)
	}

	result := &AnonymizeResult{}

	if email := target.EmailOrEmpty(); email != "" {
		redacted, err := s.tickets.RedactRequester(ctx, email, SentinelFormerEmployee, PlaceholderEmail(targetID))
		if err != nil {
			return nil, apperrors.MapError(err)
		}
		result.RedactedTickets = redacted
	}

	cleared, err := s.tickets.ClearAssignee(ctx, targetID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	result.UnassignedTickets = cleared

	if err := s.users.Delete(ctx, targetID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", map[string]any{"user_id": targetID})
		}
		return nil, apperrors.MapError(err)
	}

	publishEvent(ctx, s.dispatcher, events.Event{
		Type:    events.EventUserAnonymized,
		ActorID: actor.ID,
		Payload: events.UserAnonymizedPayload{
			UserID:            targetID,
			RedactedTickets:   result.RedactedTickets,
			UnassignedTickets: result.UnassignedTickets,
		},
	})
	return result, nil
}
