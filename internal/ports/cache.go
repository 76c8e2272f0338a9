package ports

import (
	"context"
	"time"

	"github.com/turnoshq/queue-service/internal/domain"
)

// QueueBoardCache holds a short-lived snapshot of the public waiting-room
// board. The board is polled far more often than it changes, so reads are
// served from cache and every engine transition invalidates it. Cache
// failures must never fail the read path.
type QueueBoardCache interface {
	Get(ctx context.Context) (domain.QueueBoard, bool, error)
	Set(ctx context.Context, board domain.QueueBoard, ttl time.Duration) error
	Invalidate(ctx context.Context) error
}
