package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

const ticketColumns = `id, title, description, status, priority, category,
               requester_name, requester_email, assigned_technician, resolution_notes,
               created_at, last_updated`

// TicketPatch carries a partial update. Nil fields are left untouched;
// last_updated is refreshed regardless of which fields changed.
type TicketPatch struct {
	Status             *domain.TicketStatus
	Priority           *domain.TicketPriority
	AssignedTechnician *string
	ResolutionNotes    *string
}

// TicketRepository encapsulates ticket persistence.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	List(ctx context.Context) ([]domain.Ticket, error)
	ListByRequesterEmail(ctx context.Context, email string) ([]domain.Ticket, error)
	ListByAssignee(ctx context.Context, technicianID string) ([]domain.Ticket, error)
	SearchByTitle(ctx context.Context, term string) ([]domain.Ticket, error)
	Patch(ctx context.Context, id string, patch TicketPatch) error
	Stats(ctx context.Context) (*domain.TicketStats, error)
	RedactRequester(ctx context.Context, email, sentinelName, placeholderEmail string) (int64, error)
	ClearAssignee(ctx context.Context, technicianID string) (int64, error)
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (title, description, status, priority, category, requester_name, requester_email, assigned_technician, resolution_notes)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        RETURNING id, created_at, last_updated`
	return r.pool.QueryRow(ctx, query,
		ticket.Title,
		ticket.Description,
		ticket.Status,
		ticket.Priority,
		ticket.Category,
		ticket.RequesterName,
		ticket.RequesterEmail,
		ticket.AssignedTechnician,
		ticket.ResolutionNotes,
	).Scan(&ticket.ID, &ticket.CreatedAt, &ticket.LastUpdated)
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	const query = `SELECT ` + ticketColumns + ` FROM tickets WHERE id=$1`
	var ticket domain.Ticket
	if err := r.pool.QueryRow(ctx, query, id).Scan(ticketFields(&ticket)...); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *ticketRepository) List(ctx context.Context) ([]domain.Ticket, error) {
	const query = `SELECT ` + ticketColumns + ` FROM tickets ORDER BY created_at DESC`
	return r.fetchMany(ctx, query)
}

func (r *ticketRepository) ListByRequesterEmail(ctx context.Context, email string) ([]domain.Ticket, error) {
	const query = `SELECT ` + ticketColumns + ` FROM tickets WHERE requester_email=$1 ORDER BY created_at DESC`
	return r.fetchMany(ctx, query, email)
}

func (r *ticketRepository) ListByAssignee(ctx context.Context, technicianID string) ([]domain.Ticket, error) {
	const query = `SELECT ` + ticketColumns + ` FROM tickets WHERE assigned_technician=$1 ORDER BY created_at DESC`
	return r.fetchMany(ctx, query, technicianID)
}

func (r *ticketRepository) SearchByTitle(ctx context.Context, term string) ([]domain.Ticket, error) {
	const query = `SELECT ` + ticketColumns + ` FROM tickets WHERE LOWER(title) LIKE $1 ORDER BY created_at DESC`
	search := "%" + strings.ToLower(strings.TrimSpace(term)) + "%"
	return r.fetchMany(ctx, query, search)
}

func (r *ticketRepository) Patch(ctx context.Context, id string, patch TicketPatch) error {
	sets := []string{}
	args := []any{}

	if patch.Status != nil {
		args = append(args, *patch.Status)
		sets = append(sets, fmt.Sprintf("status=$%d", len(args)))
	}
	if patch.Priority != nil {
		args = append(args, *patch.Priority)
		sets = append(sets, fmt.Sprintf("priority=$%d", len(args)))
	}
	if patch.AssignedTechnician != nil {
		args = append(args, *patch.AssignedTechnician)
		sets = append(sets, fmt.Sprintf("assigned_technician=$%d", len(args)))
	}
	if patch.ResolutionNotes != nil {
		args = append(args, *patch.ResolutionNotes)
		sets = append(sets, fmt.Sprintf("resolution_notes=$%d", len(args)))
	}
	sets = append(sets, "last_updated=NOW()")

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE tickets SET %s WHERE id=$%d`, strings.Join(sets, ", "), len(args))

	cmd, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketRepository) Stats(ctx context.Context) (*domain.TicketStats, error) {
	stats := &domain.TicketStats{}

	statusRows, err := r.pool.Query(ctx, `SELECT status, COUNT(*) FROM tickets GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer statusRows.Close()
	for statusRows.Next() {
		var status domain.TicketStatus
		var count int
		if err := statusRows.Scan(&status, &count); err != nil {
			return nil, err
		}
		stats.Total += count
		switch status {
		case domain.TicketStatusNew:
			stats.ByStatus.New = count
		case domain.TicketStatusAssigned:
			stats.ByStatus.Assigned = count
		case domain.TicketStatusInProgress:
			stats.ByStatus.InProgress = count
		case domain.TicketStatusOnHold:
			stats.ByStatus.OnHold = count
		case domain.TicketStatusResolved:
			stats.ByStatus.Resolved = count
		case domain.TicketStatusClosed:
			stats.ByStatus.Closed = count
		}
	}
	if err := statusRows.Err(); err != nil {
		return nil, err
	}

	categoryRows, err := r.pool.Query(ctx, `SELECT category, COUNT(*) FROM tickets GROUP BY category`)
	if err != nil {
		return nil, err
	}
	defer categoryRows.Close()
	for categoryRows.Next() {
		var category domain.TicketCategory
		var count int
		if err := categoryRows.Scan(&category, &count); err != nil {
			return nil, err
		}
		switch category {
		case domain.TicketCategoryHardware:
			stats.ByCategory.Hardware = count
		case domain.TicketCategorySoftware:
			stats.ByCategory.Software = count
		case domain.TicketCategoryNetwork:
			stats.ByCategory.Network = count
		case domain.TicketCategoryAccount:
			stats.ByCategory.Account = count
		case domain.TicketCategoryOther:
			stats.ByCategory.Other = count
		}
	}
	if err := categoryRows.Err(); err != nil {
		return nil, err
	}

	priorityRows, err := r.pool.Query(ctx, `SELECT priority, COUNT(*) FROM tickets GROUP BY priority`)
	if err != nil {
		return nil, err
	}
	defer priorityRows.Close()
	for priorityRows.Next() {
		var priority domain.TicketPriority
		var count int
		if err := priorityRows.Scan(&priority, &count); err != nil {
			return nil, err
		}
		switch priority {
		case domain.TicketPriorityLow:
			stats.ByPriority.Low = count
		case domain.TicketPriorityMedium:
			stats.ByPriority.Medium = count
		case domain.TicketPriorityHigh:
			stats.ByPriority.High = count
		case domain.TicketPriorityCritical:
			stats.ByPriority.Critical = count
		}
	}
	if err := priorityRows.Err(); err != nil {
		return nil, err
	}

	return stats, nil
}

func (r *ticketRepository) RedactRequester(ctx context.Context, email, sentinelName, placeholderEmail string) (int64, error) {
	const query = `
        UPDATE tickets SET requester_name=$1, requester_email=$2, last_updated=NOW()
        WHERE requester_email=$3`
	cmd, err := r.pool.Exec(ctx, query, sentinelName, placeholderEmail, email)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

func (r *ticketRepository) ClearAssignee(ctx context.Context, technicianID string) (int64, error) {
	// A ticket whose only state was "has a technician" falls back to new;
	// any other status survives losing its assignee.
	const query = `
        UPDATE tickets SET assigned_technician=NULL,
            status = CASE WHEN status='assigned' THEN 'new' ELSE status END,
            last_updated=NOW()
        WHERE assigned_technician=$1`
	cmd, err := r.pool.Exec(ctx, query, technicianID)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

func (r *ticketRepository) fetchMany(ctx context.Context, query string, args ...any) ([]domain.Ticket, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

func scanTickets(rows pgx.Rows) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for rows.Next() {
		var ticket domain.Ticket
		if err := rows.Scan(ticketFields(&ticket)...); err != nil {
			return nil, err
		}
		result = append(result, ticket)
	}
	return result, rows.Err()
}

func ticketFields(ticket *domain.Ticket) []any {
	return []any{
		&ticket.ID,
		&ticket.Title,
		&ticket.Description,
		&ticket.Status,
		&ticket.Priority,
		&ticket.Category,
		&ticket.RequesterName,
		&ticket.RequesterEmail,
		&ticket.AssignedTechnician,
		&ticket.ResolutionNotes,
		&ticket.CreatedAt,
		&ticket.LastUpdated,
	}
}
