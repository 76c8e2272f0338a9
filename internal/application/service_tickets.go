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

// SubmitTicket creates a PENDING ticket and attempts immediate assignment.
// When a FREE agent of the matching role exists the ticket jumps straight to
// IN_PROGRESS inside the same transaction; the separately observable
// ASSIGNED step only exists on the pull path.
func (s *Service) SubmitTicket(ctx context.Context, input SubmitTicketInput) (domain.Ticket, error) {
	clientType := domain.ClientType(strings.ToUpper(strings.TrimSpace(input.ClientType)))
	category := domain.ServiceCategory(strings.ToUpper(strings.TrimSpace(input.ServiceCategory)))
	name := strings.TrimSpace(input.ClientName)
	identifier := strings.TrimSpace(input.ClientIdentifier)
	motive := strings.TrimSpace(input.Motive)

	if name == "" || identifier == "" || motive == "" {
		return domain.Ticket{}, fmt.Errorf("%w: client_name, client_identifier and motive are required", domain.ErrInvalidInput)
	}
	if !clientType.Valid() {
		return domain.Ticket{}, fmt.Errorf("%w: unknown client_type %q", domain.ErrInvalidInput, input.ClientType)
	}
	if !category.Valid() {
		return domain.Ticket{}, fmt.Errorf("%w: unknown service_category %q", domain.ErrInvalidInput, input.ServiceCategory)
	}

	now := s.nowFn()
	ticket := domain.Ticket{
		TicketID:         uuid.New(),
		ClientName:       name,
		ClientIdentifier: identifier,
		Motive:           motive,
		ClientType:       clientType,
		ServiceCategory:  category,
		IsPriority:       clientType.Priority(),
		Status:           domain.TicketStatusPending,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	role, _ := domain.RoleForCategory(category)
	var result domain.Ticket
	err := s.tx.InTx(ctx, func(ctx context.Context, repos ports.RepositorySet) error {
		created, err := repos.Tickets.Create(ctx, ticket)
		if err != nil {
			return err
		}
		result = created

		state, err := repos.Agents.FirstFreeByRole(ctx, role)
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		created.Status = domain.TicketStatusInProgress
		created.AssignedAgent = &state.UserID
		created.UpdatedAt = s.nowFn()
		if err := repos.Tickets.Save(ctx, created); err != nil {
			return err
		}

		state.Status = domain.AgentStatusBusy
		state.CurrentTicket = &created.TicketID
		state.UpdatedAt = created.UpdatedAt
		if err := repos.Agents.Save(ctx, state); err != nil {
			return err
		}
		result = created
		return nil
	})
	if err != nil {
		return domain.Ticket{}, err
	}

	s.invalidateBoard(ctx)
	appLogger().InfoContext(ctx, "ticket submitted",
		"operation", "submit_ticket",
		"outcome", "success",
		"ticket_id", result.TicketID.String(),
		"service_category", string(result.ServiceCategory),
		"status", string(result.Status),
	)
	return result, nil
}

func (s *Service) GetTicket(ctx context.Context, ticketID uuid.UUID) (domain.Ticket, error) {
	return s.repos.Tickets.Get(ctx, ticketID)
}

// QueueSummary builds the public waiting-room board, served from the cache
// when a fresh snapshot exists.
func (s *Service) QueueSummary(ctx context.Context) (domain.QueueBoard, error) {
	if s.board != nil {
		if board, ok, err := s.board.Get(ctx); err == nil && ok {
			return board, nil
		}
	}

	procedure, err := s.pendingFor(ctx, domain.ServiceCategoryProcedure)
	if err != nil {
		return domain.QueueBoard{}, err
	}
	advisory, err := s.pendingFor(ctx, domain.ServiceCategoryAdvisory)
	if err != nil {
		return domain.QueueBoard{}, err
	}
	attending, err := s.repos.Agents.ListAll(ctx)
	if err != nil {
		return domain.QueueBoard{}, err
	}

	board := domain.QueueBoard{
		ProcedureQueue: procedure,
		AdvisoryQueue:  advisory,
		Attending:      attending,
	}
	if s.board != nil {
		if err := s.board.Set(ctx, board, s.cfg.BoardCacheTTL); err != nil {
			appLogger().WarnContext(ctx, "board cache set failed",
				"operation", "queue_summary",
				"outcome", "warning",
				"error", err.Error(),
			)
		}
	}
	return board, nil
}

// CompleteTicket marks a ticket DONE and releases whichever agent holds it,
// as one atomic unit. Completing an already-DONE ticket fails without
// touching state.
func (s *Service) CompleteTicket(ctx context.Context, ticketID uuid.UUID) (domain.Ticket, error) {
	var result domain.Ticket
	err := s.tx.InTx(ctx, func(ctx context.Context, repos ports.RepositorySet) error {
		ticket, err := repos.Tickets.GetForUpdate(ctx, ticketID)
		if err != nil {
			return err
		}
		if ticket.Status == domain.TicketStatusDone {
			return fmt.Errorf("%w: ticket already done", domain.ErrPreconditionFailed)
		}

		now := s.nowFn()
		ticket.Status = domain.TicketStatusDone
		ticket.AssignedAgent = nil
		ticket.UpdatedAt = now
		if err := repos.Tickets.Save(ctx, ticket); err != nil {
			return err
		}

		state, err := repos.Agents.GetByCurrentTicket(ctx, ticketID)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return err
		}
		if err == nil {
			state.Status = domain.AgentStatusFree
			state.CurrentTicket = nil
			state.UpdatedAt = now
			if err := repos.Agents.Save(ctx, state); err != nil {
				return err
			}
		}
		result = ticket
		return nil
	})
	if err != nil {
		return domain.Ticket{}, err
	}

	s.invalidateBoard(ctx)
	appLogger().InfoContext(ctx, "ticket completed",
		"operation", "complete_ticket",
		"outcome", "success",
		"ticket_id", result.TicketID.String(),
	)
	return result, nil
}

// DoneTickets is the pass-through reporting read over completed tickets.
func (s *Service) DoneTickets(ctx context.Context) ([]domain.Ticket, error) {
	return s.repos.Tickets.ListDone(ctx)
}

func (s *Service) pendingFor(ctx context.Context, category domain.ServiceCategory) ([]domain.Ticket, error) {
	pending, err := s.repos.Tickets.ListPending(ctx, category)
	if err != nil {
		return nil, err
	}
	return domain.OrderPending(pending), nil
}

func (s *Service) invalidateBoard(ctx context.Context) {
	if s.board == nil {
		return
	}
	if err := s.board.Invalidate(ctx); err != nil {
		appLogger().WarnContext(ctx, "board cache invalidate failed",
			"operation", "invalidate_board",
			"outcome", "warning",
			"error", err.Error(),
		)
	}
}
