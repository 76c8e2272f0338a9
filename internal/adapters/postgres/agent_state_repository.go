package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/turnoshq/queue-service/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type agentStateRepository struct {
	db *gorm.DB
}

func (r *agentStateRepository) GetByUser(ctx context.Context, userID uuid.UUID) (domain.AgentState, error) {
	var rec agentStateModel
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Take(&rec).Error; err != nil {
		return domain.AgentState{}, mapError(err)
	}
	return toDomainAgentState(rec), nil
}

func (r *agentStateRepository) GetByUserForUpdate(ctx context.Context, userID uuid.UUID) (domain.AgentState, error) {
	var rec agentStateModel
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID).
		Take(&rec).Error
	if err != nil {
		return domain.AgentState{}, mapError(err)
	}
	return toDomainAgentState(rec), nil
}

func (r *agentStateRepository) GetByCurrentTicket(ctx context.Context, ticketID uuid.UUID) (domain.AgentState, error) {
	var rec agentStateModel
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("current_ticket = ?", ticketID).
		Take(&rec).Error
	if err != nil {
		return domain.AgentState{}, mapError(err)
	}
	return toDomainAgentState(rec), nil
}

// FirstFreeByRole picks the FREE agent of the role with the lowest user id
// and locks its row, skipping rows other transactions already claimed.
func (r *agentStateRepository) FirstFreeByRole(ctx context.Context, role domain.Role) (domain.AgentState, error) {
	var rec agentStateModel
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE", Table: clause.Table{Name: "agent_states"}, Options: "SKIP LOCKED"}).
		Joins("JOIN users ON users.user_id = agent_states.user_id").
		Where("agent_states.status = ? AND users.role = ?", string(domain.AgentStatusFree), string(role)).
		Order("agent_states.user_id ASC").
		Take(&rec).Error
	if err != nil {
		return domain.AgentState{}, mapError(err)
	}
	return toDomainAgentState(rec), nil
}

func (r *agentStateRepository) Save(ctx context.Context, state domain.AgentState) error {
	rec := agentStateModel{
		UserID:        state.UserID,
		Status:        string(state.Status),
		CurrentTicket: state.CurrentTicket,
		UpdatedAt:     state.UpdatedAt,
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"status", "current_ticket", "updated_at"}),
		}).
		Create(&rec).Error
	return mapError(err)
}

func (r *agentStateRepository) ListAll(ctx context.Context) ([]domain.AgentState, error) {
	var recs []agentStateModel
	if err := r.db.WithContext(ctx).Order("user_id ASC").Find(&recs).Error; err != nil {
		return nil, mapError(err)
	}
	items := make([]domain.AgentState, 0, len(recs))
	for _, rec := range recs {
		items = append(items, toDomainAgentState(rec))
	}
	return items, nil
}
