package postgres

import (
	"context"

	"github.com/turnoshq/queue-service/internal/ports"
	"gorm.io/gorm"
)

// NewRepositories binds the repository set to a connection or transaction
// handle. The same constructor serves both the ambient pool and tx-scoped
// sets inside TxRunner.InTx.
func NewRepositories(db *gorm.DB) ports.RepositorySet {
	return ports.RepositorySet{
		Tickets: &ticketRepository{db: db},
		Agents:  &agentStateRepository{db: db},
		Users:   &userRepository{db: db},
	}
}

// TxRunner runs a unit of work inside one database transaction with
// commit-or-rollback on all exit paths.
type TxRunner struct {
	db *gorm.DB
}

func NewTxRunner(db *gorm.DB) *TxRunner {
	return &TxRunner{db: db}
}

func (r *TxRunner) InTx(ctx context.Context, fn func(ctx context.Context, repos ports.RepositorySet) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, NewRepositories(tx))
	})
}
