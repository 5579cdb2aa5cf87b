package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets. Any enumerated
// value may be set by an authorized technician or admin; there is no
// enforced transition ordering.
type TicketStatus string

const (
	TicketStatusNew        TicketStatus = "new"
	TicketStatusAssigned   TicketStatus = "assigned"
	TicketStatusInProgress TicketStatus = "in-progress"
	TicketStatusOnHold     TicketStatus = "on-hold"
	TicketStatusResolved   TicketStatus = "resolved"
	TicketStatusClosed     TicketStatus = "closed"
)

// ValidTicketStatus reports whether s is one of the enumerated statuses.
func ValidTicketStatus(s TicketStatus) bool {
	switch s {
	case TicketStatusNew, TicketStatusAssigned, TicketStatusInProgress,
		TicketStatusOnHold, TicketStatusResolved, TicketStatusClosed:
		return true
	}
	return false
}

// TicketPriority enumerates urgency levels.
type TicketPriority string

const (
	TicketPriorityLow      TicketPriority = "low"
	TicketPriorityMedium   TicketPriority = "medium"
	TicketPriorityHigh     TicketPriority = "high"
	TicketPriorityCritical TicketPriority = "critical"
)

// ValidTicketPriority reports whether p is one of the enumerated priorities.
func ValidTicketPriority(p TicketPriority) bool {
	switch p {
	case TicketPriorityLow, TicketPriorityMedium, TicketPriorityHigh, TicketPriorityCritical:
		return true
	}
	return false
}

// TicketCategory enumerates the coarse problem areas.
type TicketCategory string

const (
	TicketCategoryHardware TicketCategory = "hardware"
	TicketCategorySoftware TicketCategory = "software"
	TicketCategoryNetwork  TicketCategory = "network"
	TicketCategoryAccount  TicketCategory = "account"
	TicketCategoryOther    TicketCategory = "other"
)

// ValidTicketCategory reports whether c is one of the enumerated categories.
func ValidTicketCategory(c TicketCategory) bool {
	switch c {
	case TicketCategoryHardware, TicketCategorySoftware, TicketCategoryNetwork,
		TicketCategoryAccount, TicketCategoryOther:
		return true
	}
	return false
}

// Ticket is the aggregate for support requests. Requester identity is
// captured by value at creation time, not a live reference.
type Ticket struct {
	ID                 string
	Title              string
	Description        string
	Status             TicketStatus
	Priority           TicketPriority
	Category           TicketCategory
	RequesterName      string
	RequesterEmail     string
	AssignedTechnician *string
	ResolutionNotes    *string
	CreatedAt          time.Time
	LastUpdated        time.Time

	// AssignedTechnicianName is a read-time enrichment, never persisted.
	// Nil when the ticket is unassigned or the technician record is gone.
	AssignedTechnicianName *string
}

// StatusCounts partitions tickets by status.
type StatusCounts struct {
	New        int `json:"new"`
	Assigned   int `json:"assigned"`
	InProgress int `json:"inProgress"`
	OnHold     int `json:"onHold"`
	Resolved   int `json:"resolved"`
	Closed     int `json:"closed"`
}

// CategoryCounts partitions tickets by category.
type CategoryCounts struct {
	Hardware int `json:"hardware"`
	Software int `json:"software"`
	Network  int `json:"network"`
	Account  int `json:"account"`
	Other    int `json:"other"`
}

// PriorityCounts partitions tickets by priority.
type PriorityCounts struct {
	Low      int `json:"low"`
	Medium   int `json:"medium"`
	High     int `json:"high"`
	Critical int `json:"critical"`
}

// TicketStats aggregates counts over the full ticket set. The status
// buckets, on-hold included, always sum to Total.
type TicketStats struct {
	Total      int            `json:"total"`
	ByStatus   StatusCounts   `json:"byStatus"`
	ByCategory CategoryCounts `json:"byCategory"`
	ByPriority PriorityCounts `json:"byPriority"`
}
