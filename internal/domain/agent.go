package domain

import (
	"time"

	"github.com/google/uuid"
)

// AgentStatus is the availability state of a staff agent.
type AgentStatus string

const (
	AgentStatusFree AgentStatus = "FREE"
	AgentStatusBusy AgentStatus = "BUSY"
)

// AgentState tracks availability for one agent-eligible user. It is created
// lazily (defaulting to FREE) on the first state query or action and is the
// agent-side half of the ticket/agent assignment mirror: Status is BUSY
// exactly when CurrentTicket is set, and an agent holds at most one ticket.
type AgentState struct {
	UserID        uuid.UUID   `json:"user_id"`
	Status        AgentStatus `json:"status"`
	CurrentTicket *uuid.UUID  `json:"current_ticket,omitempty"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

// OccupancyConsistent reports whether the BUSY-iff-holding invariant holds.
func (s AgentState) OccupancyConsistent() bool {
	return (s.Status == AgentStatusBusy) == (s.CurrentTicket != nil)
}
