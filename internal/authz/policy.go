// Package authz holds the pure role capability policy. Every service
// operation consults Can before touching data; the HTTP layer only
// authenticates.
package authz

import "github.com/spec-kit/helpdesk-service/internal/domain"

// Action enumerates everything the policy can decide on.
type Action string

const (
	ActionCreateTicket    Action = "ticket:create"
	ActionViewOwnTickets  Action = "ticket:view_own"
	ActionViewAllTickets  Action = "ticket:view_all"
	ActionUpdateTicket    Action = "ticket:update"
	ActionManageArticles  Action = "article:manage"
	ActionViewArticles    Action = "article:view"
	ActionListTechnicians Action = "user:list_technicians"
	ActionListUsers       Action = "user:list_all"
	ActionChangeUserRole  Action = "user:change_role"
	ActionAnonymizeUser   Action = "user:anonymize"
)

// Actions lists every recognized action.
var Actions = []Action{
	ActionCreateTicket,
	ActionViewOwnTickets,
	ActionViewAllTickets,
	ActionUpdateTicket,
	ActionManageArticles,
	ActionViewArticles,
	ActionListTechnicians,
	ActionListUsers,
	ActionChangeUserRole,
	ActionAnonymizeUser,
}

var capabilities = map[domain.Role]map[Action]bool{
	domain.RoleEndUser: {
		ActionCreateTicket:   true,
		ActionViewOwnTickets: true,
		ActionViewArticles:   true,
	},
	domain.RoleTechnician: {
		ActionCreateTicket:    true,
		ActionViewOwnTickets:  true,
		ActionViewAllTickets:  true,
		ActionUpdateTicket:    true,
		ActionManageArticles:  true,
		ActionViewArticles:    true,
		ActionListTechnicians: true,
	},
	domain.RoleAdmin: {
		ActionCreateTicket:    true,
		ActionViewOwnTickets:  true,
		ActionViewAllTickets:  true,
		ActionUpdateTicket:    true,
		ActionManageArticles:  true,
		ActionViewArticles:    true,
		ActionListTechnicians: true,
		ActionListUsers:       true,
		ActionChangeUserRole:  true,
		ActionAnonymizeUser:   true,
	},
}

// Can reports whether a role may perform an action. Unknown roles get
// the end-user capability set.
func Can(role domain.Role, action Action) bool {
	caps, ok := capabilities[role]
	if !ok {
		caps = capabilities[domain.RoleEndUser]
	}
	return caps[action]
}

// CanUser resolves the user's effective role and applies Can. A nil
// user is permitted nothing.
func CanUser(u *domain.User, action Action) bool {
	if u == nil {
		return false
	}
	return Can(u.EffectiveRole(), action)
}
