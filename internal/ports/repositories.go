package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/turnoshq/queue-service/internal/domain"
)

// TicketRepository defines persistence operations for tickets. Create
// assigns the ticket id and the monotonic arrival sequence used for FIFO
// tie-breaks. The ForUpdate variant takes a row lock inside a unit of work
// so assignment preconditions are re-validated at commit time.
type TicketRepository interface {
	Create(ctx context.Context, ticket domain.Ticket) (domain.Ticket, error)
	Get(ctx context.Context, ticketID uuid.UUID) (domain.Ticket, error)
	GetForUpdate(ctx context.Context, ticketID uuid.UUID) (domain.Ticket, error)
	ListPending(ctx context.Context, category domain.ServiceCategory) ([]domain.Ticket, error)
	Save(ctx context.Context, ticket domain.Ticket) error
	ListDone(ctx context.Context) ([]domain.Ticket, error)
}

// AgentStateRepository manages per-user agent availability rows.
// FirstFreeByRole returns the FREE agent of the role with the lowest user
// id; selection among simultaneously free agents is arbitrary but must stay
// deterministic so behavior is reproducible.
type AgentStateRepository interface {
	GetByUser(ctx context.Context, userID uuid.UUID) (domain.AgentState, error)
	GetByUserForUpdate(ctx context.Context, userID uuid.UUID) (domain.AgentState, error)
	GetByCurrentTicket(ctx context.Context, ticketID uuid.UUID) (domain.AgentState, error)
	FirstFreeByRole(ctx context.Context, role domain.Role) (domain.AgentState, error)
	Save(ctx context.Context, state domain.AgentState) error
	ListAll(ctx context.Context) ([]domain.AgentState, error)
}

// UserRepository backs both the user directory (role lookups for the
// assignment engine) and credential checks for the auth surface.
type UserRepository interface {
	Create(ctx context.Context, user domain.User) (domain.User, error)
	GetByID(ctx context.Context, userID uuid.UUID) (domain.User, error)
	GetByUsername(ctx context.Context, username string) (domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
}

// RepositorySet groups the repositories bound to one storage scope: either
// the ambient connection or a single transaction inside TxRunner.InTx.
type RepositorySet struct {
	Tickets TicketRepository
	Agents  AgentStateRepository
	Users   UserRepository
}

// TxRunner executes fn as one atomic unit of work with commit-or-rollback on
// all exit paths. Every transition touching both a ticket and an agent state
// runs through here; rows are locked ticket-first to keep lock ordering
// fixed.
type TxRunner interface {
	InTx(ctx context.Context, fn func(ctx context.Context, repos RepositorySet) error) error
}
