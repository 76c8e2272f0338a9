package postgres

import (
	"errors"
	"fmt"

	"github.com/turnoshq/queue-service/internal/domain"
	"gorm.io/gorm"
)

func toDomainUser(rec userModel) domain.User {
	return domain.User{
		UserID:       rec.UserID,
		Username:     rec.Username,
		PasswordHash: rec.PasswordHash,
		Role:         domain.Role(rec.Role),
		DisplayName:  rec.DisplayName,
		CreatedAt:    rec.CreatedAt,
		UpdatedAt:    rec.UpdatedAt,
	}
}

func toDomainTicket(rec ticketModel) domain.Ticket {
	return domain.Ticket{
		TicketID:         rec.TicketID,
		ClientName:       rec.ClientName,
		ClientIdentifier: rec.ClientIdentifier,
		Motive:           rec.Motive,
		ClientType:       domain.ClientType(rec.ClientType),
		ServiceCategory:  domain.ServiceCategory(rec.ServiceCategory),
		IsPriority:       rec.IsPriority,
		Status:           domain.TicketStatus(rec.Status),
		AssignedAgent:    rec.AssignedAgent,
		QueueSeq:         rec.QueueSeq,
		CreatedAt:        rec.CreatedAt,
		UpdatedAt:        rec.UpdatedAt,
	}
}

func fromDomainTicket(t domain.Ticket) ticketModel {
	return ticketModel{
		TicketID:         t.TicketID,
		ClientName:       t.ClientName,
		ClientIdentifier: t.ClientIdentifier,
		Motive:           t.Motive,
		ClientType:       string(t.ClientType),
		ServiceCategory:  string(t.ServiceCategory),
		IsPriority:       t.IsPriority,
		Status:           string(t.Status),
		AssignedAgent:    t.AssignedAgent,
		QueueSeq:         t.QueueSeq,
		CreatedAt:        t.CreatedAt,
		UpdatedAt:        t.UpdatedAt,
	}
}

func toDomainAgentState(rec agentStateModel) domain.AgentState {
	return domain.AgentState{
		UserID:        rec.UserID,
		Status:        domain.AgentStatus(rec.Status),
		CurrentTicket: rec.CurrentTicket,
		UpdatedAt:     rec.UpdatedAt,
	}
}

// mapError translates gorm errors into domain kinds: missing rows become
// ErrNotFound, duplicates become ErrConflict, and everything else is passed
// through as StorageUnavailable so the engine never retries a persistence
// failure.
func mapError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return domain.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return domain.ErrConflict
	default:
		return fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}
}
