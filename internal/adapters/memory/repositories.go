// Package memory provides map-backed repositories and a serializing unit of
// work. It backs the unit and contract test suites and any storage-free
// local run.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/turnoshq/queue-service/internal/domain"
	"github.com/turnoshq/queue-service/internal/ports"
)

type store struct {
	mu      sync.RWMutex
	tickets map[uuid.UUID]domain.Ticket
	agents  map[uuid.UUID]domain.AgentState
	users   map[uuid.UUID]domain.User
	seq     int64
}

// Store is the shared in-memory state plus its transaction runner. InTx
// serializes units of work under one write lock and restores a snapshot on
// rollback, which gives the same commit-time precondition semantics the
// postgres adapter gets from row locks.
type Store struct {
	s *store
}

func NewStore() *Store {
	return &Store{s: &store{
		tickets: map[uuid.UUID]domain.Ticket{},
		agents:  map[uuid.UUID]domain.AgentState{},
		users:   map[uuid.UUID]domain.User{},
	}}
}

// Repositories returns the ambient repository set, safe for concurrent use.
func (st *Store) Repositories() ports.RepositorySet {
	return ports.RepositorySet{
		Tickets: &ticketRepository{s: st.s, ambient: true},
		Agents:  &agentStateRepository{s: st.s, ambient: true},
		Users:   &userRepository{s: st.s, ambient: true},
	}
}

func (st *Store) InTx(ctx context.Context, fn func(ctx context.Context, repos ports.RepositorySet) error) error {
	st.s.mu.Lock()
	defer st.s.mu.Unlock()

	snapTickets := make(map[uuid.UUID]domain.Ticket, len(st.s.tickets))
	for k, v := range st.s.tickets {
		snapTickets[k] = v
	}
	snapAgents := make(map[uuid.UUID]domain.AgentState, len(st.s.agents))
	for k, v := range st.s.agents {
		snapAgents[k] = v
	}
	snapSeq := st.s.seq

	repos := ports.RepositorySet{
		Tickets: &ticketRepository{s: st.s},
		Agents:  &agentStateRepository{s: st.s},
		Users:   &userRepository{s: st.s},
	}
	if err := fn(ctx, repos); err != nil {
		st.s.tickets = snapTickets
		st.s.agents = snapAgents
		st.s.seq = snapSeq
		return err
	}
	return nil
}

type ticketRepository struct {
	s       *store
	ambient bool
}

func (r *ticketRepository) rlock() func() {
	if !r.ambient {
		return func() {}
	}
	r.s.mu.RLock()
	return r.s.mu.RUnlock
}

func (r *ticketRepository) lock() func() {
	if !r.ambient {
		return func() {}
	}
	r.s.mu.Lock()
	return r.s.mu.Unlock
}

func (r *ticketRepository) Create(_ context.Context, ticket domain.Ticket) (domain.Ticket, error) {
	defer r.lock()()
	if _, ok := r.s.tickets[ticket.TicketID]; ok {
		return domain.Ticket{}, domain.ErrConflict
	}
	r.s.seq++
	ticket.QueueSeq = r.s.seq
	r.s.tickets[ticket.TicketID] = ticket
	return ticket, nil
}

func (r *ticketRepository) Get(_ context.Context, ticketID uuid.UUID) (domain.Ticket, error) {
	defer r.rlock()()
	ticket, ok := r.s.tickets[ticketID]
	if !ok {
		return domain.Ticket{}, domain.ErrNotFound
	}
	return ticket, nil
}

func (r *ticketRepository) GetForUpdate(ctx context.Context, ticketID uuid.UUID) (domain.Ticket, error) {
	return r.Get(ctx, ticketID)
}

func (r *ticketRepository) ListPending(_ context.Context, category domain.ServiceCategory) ([]domain.Ticket, error) {
	defer r.rlock()()
	items := make([]domain.Ticket, 0)
	for _, ticket := range r.s.tickets {
		if ticket.Status == domain.TicketStatusPending && ticket.ServiceCategory == category {
			items = append(items, ticket)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].QueueSeq < items[j].QueueSeq })
	return items, nil
}

func (r *ticketRepository) Save(_ context.Context, ticket domain.Ticket) error {
	defer r.lock()()
	if _, ok := r.s.tickets[ticket.TicketID]; !ok {
		return domain.ErrNotFound
	}
	r.s.tickets[ticket.TicketID] = ticket
	return nil
}

func (r *ticketRepository) ListDone(_ context.Context) ([]domain.Ticket, error) {
	defer r.rlock()()
	items := make([]domain.Ticket, 0)
	for _, ticket := range r.s.tickets {
		if ticket.Status == domain.TicketStatusDone {
			items = append(items, ticket)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].QueueSeq > items[j].QueueSeq })
	return items, nil
}

type agentStateRepository struct {
	s       *store
	ambient bool
}

func (r *agentStateRepository) rlock() func() {
	if !r.ambient {
		return func() {}
	}
	r.s.mu.RLock()
	return r.s.mu.RUnlock
}

func (r *agentStateRepository) lock() func() {
	if !r.ambient {
		return func() {}
	}
	r.s.mu.Lock()
	return r.s.mu.Unlock
}

func (r *agentStateRepository) GetByUser(_ context.Context, userID uuid.UUID) (domain.AgentState, error) {
	defer r.rlock()()
	state, ok := r.s.agents[userID]
	if !ok {
		return domain.AgentState{}, domain.ErrNotFound
	}
	return state, nil
}

func (r *agentStateRepository) GetByUserForUpdate(ctx context.Context, userID uuid.UUID) (domain.AgentState, error) {
	return r.GetByUser(ctx, userID)
}

func (r *agentStateRepository) GetByCurrentTicket(_ context.Context, ticketID uuid.UUID) (domain.AgentState, error) {
	defer r.rlock()()
	for _, state := range r.s.agents {
		if state.CurrentTicket != nil && *state.CurrentTicket == ticketID {
			return state, nil
		}
	}
	return domain.AgentState{}, domain.ErrNotFound
}

func (r *agentStateRepository) FirstFreeByRole(_ context.Context, role domain.Role) (domain.AgentState, error) {
	defer r.rlock()()
	var best *domain.AgentState
	for id, state := range r.s.agents {
		if state.Status != domain.AgentStatusFree {
			continue
		}
		user, ok := r.s.users[id]
		if !ok || user.Role != role {
			continue
		}
		candidate := state
		if best == nil || candidate.UserID.String() < best.UserID.String() {
			best = &candidate
		}
	}
	if best == nil {
		return domain.AgentState{}, domain.ErrNotFound
	}
	return *best, nil
}

func (r *agentStateRepository) Save(_ context.Context, state domain.AgentState) error {
	defer r.lock()()
	r.s.agents[state.UserID] = state
	return nil
}

func (r *agentStateRepository) ListAll(_ context.Context) ([]domain.AgentState, error) {
	defer r.rlock()()
	items := make([]domain.AgentState, 0, len(r.s.agents))
	for _, state := range r.s.agents {
		items = append(items, state)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].UserID.String() < items[j].UserID.String() })
	return items, nil
}

type userRepository struct {
	s       *store
	ambient bool
}

func (r *userRepository) rlock() func() {
	if !r.ambient {
		return func() {}
	}
	r.s.mu.RLock()
	return r.s.mu.RUnlock
}

func (r *userRepository) lock() func() {
	if !r.ambient {
		return func() {}
	}
	r.s.mu.Lock()
	return r.s.mu.Unlock
}

func (r *userRepository) Create(_ context.Context, user domain.User) (domain.User, error) {
	defer r.lock()()
	for _, existing := range r.s.users {
		if strings.EqualFold(existing.Username, user.Username) {
			return domain.User{}, domain.ErrConflict
		}
	}
	if user.UserID == uuid.Nil {
		user.UserID = uuid.New()
	}
	r.s.users[user.UserID] = user
	return user, nil
}

func (r *userRepository) GetByID(_ context.Context, userID uuid.UUID) (domain.User, error) {
	defer r.rlock()()
	user, ok := r.s.users[userID]
	if !ok {
		return domain.User{}, domain.ErrNotFound
	}
	return user, nil
}

func (r *userRepository) GetByUsername(_ context.Context, username string) (domain.User, error) {
	defer r.rlock()()
	for _, user := range r.s.users {
		if strings.EqualFold(user.Username, username) {
			return user, nil
		}
	}
	return domain.User{}, domain.ErrNotFound
}

func (r *userRepository) List(_ context.Context) ([]domain.User, error) {
	defer r.rlock()()
	items := make([]domain.User, 0, len(r.s.users))
	for _, user := range r.s.users {
		items = append(items, user)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Username < items[j].Username })
	return items, nil
}
