// Package service implements the help-desk core: the user directory,
// the ticket lifecycle engine, the knowledge base manager and the
// anonymization workflow. Every operation receives the acting user
// resolved once per request and consults the authz policy before
// touching data.
package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/helpdesk-service/internal/authz"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/events"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

// requireAction resolves the two-stage failure: no identity at all is
// UNAUTHENTICATED, an identity whose role lacks the capability is
// UNAUTHORIZED.
func requireAction(actor *domain.User, action authz.Action) error {
	if actor == nil {
		return apperrors.NewUnauthenticated("authentication required")
	}
	if !authz.CanUser(actor, action) {
		return apperrors.NewUnauthorized("insufficient role")
	}
	return nil
}

func publishEvent(ctx context.Context, dispatcher events.Dispatcher, event events.Event) {
	if dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = dispatcher.Publish(ctx, event)
}
