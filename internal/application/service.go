package application

import (
	"log/slog"
	"time"

	"github.com/turnoshq/queue-service/internal/ports"
)

const defaultAssignRetries = 3

// Service is the queue engine: ticket prioritization, the ticket and agent
// state machines, and the auth/directory reads the transport layer needs.
// Every transition that touches both a ticket and an agent state runs inside
// tx so the two halves of the assignment mirror can never diverge.
type Service struct {
	cfg    Config
	tx     ports.TxRunner
	repos  ports.RepositorySet
	board  ports.QueueBoardCache
	hasher ports.PasswordHasher
	signer ports.TokenSigner
	nowFn  func() time.Time
}

type Dependencies struct {
	Config Config
	Tx     ports.TxRunner
	Repos  ports.RepositorySet
	Board  ports.QueueBoardCache
	Hasher ports.PasswordHasher
	Signer ports.TokenSigner
}

func NewService(deps Dependencies) *Service {
	s := &Service{
		cfg:    deps.Config,
		tx:     deps.Tx,
		repos:  deps.Repos,
		board:  deps.Board,
		hasher: deps.Hasher,
		signer: deps.Signer,
		nowFn:  func() time.Time { return time.Now().UTC() },
	}
	if s.cfg.AssignRetries <= 0 {
		s.cfg.AssignRetries = defaultAssignRetries
	}
	if s.cfg.TokenTTL <= 0 {
		s.cfg.TokenTTL = 12 * time.Hour
	}
	if s.cfg.BoardCacheTTL <= 0 {
		s.cfg.BoardCacheTTL = 5 * time.Second
	}
	return s
}

func appLogger() *slog.Logger {
	return slog.Default().With(
		"service", "queue-service",
		"module", "application",
		"layer", "application",
	)
}
