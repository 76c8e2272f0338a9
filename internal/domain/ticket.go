package domain

import (
	"time"

	"github.com/google/uuid"
)

// ClientType classifies the person requesting service. Elderly and disabled
// clients form the priority class that jumps ahead of general clients within
// the same category.
type ClientType string

const (
	ClientTypeGeneral  ClientType = "GENERAL"
	ClientTypeElderly  ClientType = "ELDERLY"
	ClientTypeDisabled ClientType = "DISABLED"
)

func (c ClientType) Valid() bool {
	switch c {
	case ClientTypeGeneral, ClientTypeElderly, ClientTypeDisabled:
		return true
	}
	return false
}

// Priority reports whether the client type belongs to the priority class.
func (c ClientType) Priority() bool {
	return c == ClientTypeElderly || c == ClientTypeDisabled
}

// ServiceCategory selects which agent role may serve a ticket.
type ServiceCategory string

const (
	ServiceCategoryProcedure ServiceCategory = "PROCEDURE"
	ServiceCategoryAdvisory  ServiceCategory = "ADVISORY"
)

func (c ServiceCategory) Valid() bool {
	return c == ServiceCategoryProcedure || c == ServiceCategoryAdvisory
}

// TicketStatus is the ticket lifecycle state. Transitions only move forward:
// PENDING -> ASSIGNED -> IN_PROGRESS -> DONE. Auto-assignment at submission
// commits PENDING -> IN_PROGRESS in one transaction, skipping the externally
// visible ASSIGNED step.
type TicketStatus string

const (
	TicketStatusPending    TicketStatus = "PENDING"
	TicketStatusAssigned   TicketStatus = "ASSIGNED"
	TicketStatusInProgress TicketStatus = "IN_PROGRESS"
	TicketStatusDone       TicketStatus = "DONE"
)

// Ticket is a single client service request. Tickets are never deleted; DONE
// is terminal and completed tickets remain available for reporting.
type Ticket struct {
	TicketID         uuid.UUID       `json:"ticket_id"`
	ClientName       string          `json:"client_name"`
	ClientIdentifier string          `json:"client_identifier"`
	Motive           string          `json:"motive"`
	ClientType       ClientType      `json:"client_type"`
	ServiceCategory  ServiceCategory `json:"service_category"`
	IsPriority       bool            `json:"is_priority"`
	Status           TicketStatus    `json:"status"`
	AssignedAgent    *uuid.UUID      `json:"assigned_agent,omitempty"`
	QueueSeq         int64           `json:"queue_seq"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// AssignmentConsistent reports whether the assigned-agent mirror invariant
// holds: AssignedAgent is set exactly when the ticket is ASSIGNED or
// IN_PROGRESS.
func (t Ticket) AssignmentConsistent() bool {
	held := t.Status == TicketStatusAssigned || t.Status == TicketStatusInProgress
	return held == (t.AssignedAgent != nil)
}
