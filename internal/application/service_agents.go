package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/turnoshq/queue-service/internal/domain"
	"github.com/turnoshq/queue-service/internal/ports"
)

// AgentStateFor returns the agent state for a user, creating it lazily as
// FREE on first access. Users without an agent-eligible role never get a
// state row.
func (s *Service) AgentStateFor(ctx context.Context, userID uuid.UUID) (domain.AgentState, error) {
	user, err := s.repos.Users.GetByID(ctx, userID)
	if err != nil {
		return domain.AgentState{}, err
	}
	if !user.Role.AgentEligible() {
		return domain.AgentState{}, fmt.Errorf("%w: role %s has no agent state", domain.ErrPreconditionFailed, user.Role)
	}

	state, err := s.repos.Agents.GetByUser(ctx, userID)
	if err == nil {
		return state, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return domain.AgentState{}, err
	}

	state = domain.AgentState{
		UserID:    userID,
		Status:    domain.AgentStatusFree,
		UpdatedAt: s.nowFn(),
	}
	if err := s.repos.Agents.Save(ctx, state); err != nil {
		return domain.AgentState{}, err
	}
	return state, nil
}

// SetAgentStatus is the agent-status-set operation. Only FREE can be set
// directly: it releases the agent (clearing the held-ticket pointer without
// touching the ticket). Forcing BUSY without a ticket would break the
// BUSY-iff-holding invariant, so it is rejected.
func (s *Service) SetAgentStatus(ctx context.Context, actor Actor, targetUserID uuid.UUID, input SetAgentStatusInput) (domain.AgentState, error) {
	if actor.Role != domain.RoleAdmin && actor.UserID != targetUserID {
		return domain.AgentState{}, fmt.Errorf("%w: cannot change another agent's status", domain.ErrForbidden)
	}
	status := domain.AgentStatus(strings.ToUpper(strings.TrimSpace(input.Status)))
	switch status {
	case domain.AgentStatusFree:
	case domain.AgentStatusBusy:
		return domain.AgentState{}, fmt.Errorf("%w: BUSY is only entered by assignment", domain.ErrPreconditionFailed)
	default:
		return domain.AgentState{}, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidInput, input.Status)
	}

	if _, err := s.AgentStateFor(ctx, targetUserID); err != nil {
		return domain.AgentState{}, err
	}

	var result domain.AgentState
	err := s.tx.InTx(ctx, func(ctx context.Context, repos ports.RepositorySet) error {
		state, err := repos.Agents.GetByUserForUpdate(ctx, targetUserID)
		if err != nil {
			return err
		}
		state.Status = domain.AgentStatusFree
		state.CurrentTicket = nil
		state.UpdatedAt = s.nowFn()
		if err := repos.Agents.Save(ctx, state); err != nil {
			return err
		}
		result = state
		return nil
	})
	if err != nil {
		return domain.AgentState{}, err
	}

	s.invalidateBoard(ctx)
	return result, nil
}

// NextForRole returns the head of the pending queue for the category bound
// to role, without mutating anything. ErrNotFound when the queue is empty.
func (s *Service) NextForRole(ctx context.Context, role domain.Role) (domain.Ticket, error) {
	category, ok := domain.CategoryForRole(role)
	if !ok {
		return domain.Ticket{}, fmt.Errorf("%w: role %s serves no queue", domain.ErrPreconditionFailed, role)
	}
	pending, err := s.pendingFor(ctx, category)
	if err != nil {
		return domain.Ticket{}, err
	}
	if len(pending) == 0 {
		return domain.Ticket{}, fmt.Errorf("%w: no tickets in queue", domain.ErrNotFound)
	}
	return pending[0], nil
}

// PullNext is the composed pull-and-assign operation for one agent: take the
// queue head, assign it, then advance it to IN_PROGRESS. Assignment
// re-validates the PENDING precondition under a row lock; on a lost race the
// pull retries against the fresh queue head a bounded number of times. The
// intermediate ASSIGNED state is committed before the advance, so the manual
// path keeps its durably observable step.
func (s *Service) PullNext(ctx context.Context, actor Actor, agentUserID uuid.UUID) (domain.Ticket, error) {
	if actor.Role != domain.RoleAdmin && actor.UserID != agentUserID {
		return domain.Ticket{}, fmt.Errorf("%w: cannot pull for another agent", domain.ErrForbidden)
	}
	user, err := s.repos.Users.GetByID(ctx, agentUserID)
	if err != nil {
		return domain.Ticket{}, err
	}
	if _, err := s.AgentStateFor(ctx, agentUserID); err != nil {
		return domain.Ticket{}, err
	}

	var lastErr error
	for attempt := 0; attempt < s.cfg.AssignRetries; attempt++ {
		head, err := s.NextForRole(ctx, user.Role)
		if err != nil {
			return domain.Ticket{}, err
		}

		assigned, err := s.assign(ctx, head.TicketID, agentUserID)
		if errors.Is(err, domain.ErrConflict) {
			lastErr = err
			appLogger().WarnContext(ctx, "lost race on queue head, retrying",
				"operation", "pull_next",
				"outcome", "retry",
				"ticket_id", head.TicketID.String(),
				"agent_user_id", agentUserID.String(),
				"attempt", attempt+1,
			)
			continue
		}
		if err != nil {
			return domain.Ticket{}, err
		}

		started, err := s.startAssigned(ctx, assigned.TicketID, agentUserID)
		if err != nil {
			return domain.Ticket{}, err
		}
		s.invalidateBoard(ctx)
		return started, nil
	}
	return domain.Ticket{}, fmt.Errorf("%w: queue contention persisted after %d attempts", lastErr, s.cfg.AssignRetries)
}

// ListAgents is the admin roster: every agent-eligible user merged with its
// live state, defaulting to FREE where no state row exists yet.
func (s *Service) ListAgents(ctx context.Context) ([]AgentSummary, error) {
	users, err := s.repos.Users.List(ctx)
	if err != nil {
		return nil, err
	}
	states, err := s.repos.Agents.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	byUser := make(map[uuid.UUID]domain.AgentState, len(states))
	for _, state := range states {
		byUser[state.UserID] = state
	}

	summaries := make([]AgentSummary, 0, len(users))
	for _, user := range users {
		if !user.Role.AgentEligible() {
			continue
		}
		summary := AgentSummary{
			UserID:      user.UserID,
			Username:    user.Username,
			DisplayName: user.DisplayName,
			Role:        user.Role,
			Status:      domain.AgentStatusFree,
		}
		if state, ok := byUser[user.UserID]; ok {
			summary.Status = state.Status
			summary.CurrentTicket = state.CurrentTicket
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

// assign moves a PENDING ticket to ASSIGNED on agent, updating both sides of
// the mirror in one transaction. The ticket row is locked before the agent
// row. A ticket that is no longer PENDING at commit time signals a lost race
// with ErrConflict; an agent that is not FREE is a caller precondition
// failure.
func (s *Service) assign(ctx context.Context, ticketID, agentUserID uuid.UUID) (domain.Ticket, error) {
	var result domain.Ticket
	err := s.tx.InTx(ctx, func(ctx context.Context, repos ports.RepositorySet) error {
		ticket, err := repos.Tickets.GetForUpdate(ctx, ticketID)
		if err != nil {
			return err
		}
		if ticket.Status != domain.TicketStatusPending {
			return fmt.Errorf("%w: ticket %s is %s", domain.ErrConflict, ticketID, ticket.Status)
		}

		state, err := repos.Agents.GetByUserForUpdate(ctx, agentUserID)
		if err != nil {
			return err
		}
		if state.Status != domain.AgentStatusFree {
			return fmt.Errorf("%w: agent is %s", domain.ErrPreconditionFailed, state.Status)
		}

		user, err := repos.Users.GetByID(ctx, agentUserID)
		if err != nil {
			return err
		}
		category, ok := domain.CategoryForRole(user.Role)
		if !ok || category != ticket.ServiceCategory {
			return fmt.Errorf("%w: ticket %s vs role %s", domain.ErrCategoryMismatch, ticket.ServiceCategory, user.Role)
		}

		now := s.nowFn()
		ticket.Status = domain.TicketStatusAssigned
		ticket.AssignedAgent = &agentUserID
		ticket.UpdatedAt = now
		if err := repos.Tickets.Save(ctx, ticket); err != nil {
			return err
		}

		state.Status = domain.AgentStatusBusy
		state.CurrentTicket = &ticket.TicketID
		state.UpdatedAt = now
		if err := repos.Agents.Save(ctx, state); err != nil {
			return err
		}
		result = ticket
		return nil
	})
	if err != nil {
		return domain.Ticket{}, err
	}
	return result, nil
}

// startAssigned advances a freshly assigned ticket to IN_PROGRESS in its own
// commit.
func (s *Service) startAssigned(ctx context.Context, ticketID, agentUserID uuid.UUID) (domain.Ticket, error) {
	var result domain.Ticket
	err := s.tx.InTx(ctx, func(ctx context.Context, repos ports.RepositorySet) error {
		ticket, err := repos.Tickets.GetForUpdate(ctx, ticketID)
		if err != nil {
			return err
		}
		if ticket.Status != domain.TicketStatusAssigned || ticket.AssignedAgent == nil || *ticket.AssignedAgent != agentUserID {
			return fmt.Errorf("%w: ticket %s no longer assigned to agent", domain.ErrConflict, ticketID)
		}
		ticket.Status = domain.TicketStatusInProgress
		ticket.UpdatedAt = s.nowFn()
		if err := repos.Tickets.Save(ctx, ticket); err != nil {
			return err
		}
		result = ticket
		return nil
	})
	if err != nil {
		return domain.Ticket{}, err
	}
	return result, nil
}
