package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/turnoshq/queue-service/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ticketRepository struct {
	db *gorm.DB
}

func (r *ticketRepository) Create(ctx context.Context, ticket domain.Ticket) (domain.Ticket, error) {
	rec := fromDomainTicket(ticket)
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return domain.Ticket{}, mapError(err)
	}
	// queue_seq is database-generated; reload to return the arrival sequence.
	return r.Get(ctx, rec.TicketID)
}

func (r *ticketRepository) Get(ctx context.Context, ticketID uuid.UUID) (domain.Ticket, error) {
	var rec ticketModel
	if err := r.db.WithContext(ctx).Where("ticket_id = ?", ticketID).Take(&rec).Error; err != nil {
		return domain.Ticket{}, mapError(err)
	}
	return toDomainTicket(rec), nil
}

func (r *ticketRepository) GetForUpdate(ctx context.Context, ticketID uuid.UUID) (domain.Ticket, error) {
	var rec ticketModel
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("ticket_id = ?", ticketID).
		Take(&rec).Error
	if err != nil {
		return domain.Ticket{}, mapError(err)
	}
	return toDomainTicket(rec), nil
}

func (r *ticketRepository) ListPending(ctx context.Context, category domain.ServiceCategory) ([]domain.Ticket, error) {
	var recs []ticketModel
	err := r.db.WithContext(ctx).
		Where("status = ? AND service_category = ?", string(domain.TicketStatusPending), string(category)).
		Order("queue_seq ASC").
		Find(&recs).Error
	if err != nil {
		return nil, mapError(err)
	}
	items := make([]domain.Ticket, 0, len(recs))
	for _, rec := range recs {
		items = append(items, toDomainTicket(rec))
	}
	return items, nil
}

func (r *ticketRepository) Save(ctx context.Context, ticket domain.Ticket) error {
	rec := fromDomainTicket(ticket)
	res := r.db.WithContext(ctx).
		Model(&ticketModel{}).
		Where("ticket_id = ?", ticket.TicketID).
		Updates(map[string]any{
			"status":         rec.Status,
			"assigned_agent": rec.AssignedAgent,
			"updated_at":     rec.UpdatedAt,
		})
	if res.Error != nil {
		return mapError(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ticketRepository) ListDone(ctx context.Context) ([]domain.Ticket, error) {
	var recs []ticketModel
	err := r.db.WithContext(ctx).
		Where("status = ?", string(domain.TicketStatusDone)).
		Order("created_at DESC").
		Find(&recs).Error
	if err != nil {
		return nil, mapError(err)
	}
	items := make([]domain.Ticket, 0, len(recs))
	for _, rec := range recs {
		items = append(items, toDomainTicket(rec))
	}
	return items, nil
}
