package cache

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turnoshq/queue-service/internal/domain"
)

func sampleBoard() domain.QueueBoard {
	return domain.QueueBoard{
		ProcedureQueue: []domain.Ticket{{
			TicketID:        uuid.New(),
			ClientName:      "Maria Lopez",
			ServiceCategory: domain.ServiceCategoryProcedure,
			Status:          domain.TicketStatusPending,
			QueueSeq:        1,
		}},
		AdvisoryQueue: []domain.Ticket{},
		Attending:     []domain.AgentState{},
	}
}

func TestBoardCacheMissOnNil(t *testing.T) {
	client, mock := redismock.NewClientMock()
	mock.ExpectGet("queue:board").RedisNil()

	cache := NewRedisBoardCache(client)
	_, ok, err := cache.Get(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBoardCacheRoundTrip(t *testing.T) {
	board := sampleBoard()
	raw, err := json.Marshal(board)
	require.NoError(t, err)

	client, mock := redismock.NewClientMock()
	mock.ExpectSet("queue:board", raw, 5*time.Second).SetVal("OK")
	mock.ExpectGet("queue:board").SetVal(string(raw))

	cache := NewRedisBoardCache(client)
	require.NoError(t, cache.Set(context.Background(), board, 5*time.Second))

	got, ok, err := cache.Get(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, board.ProcedureQueue[0].TicketID, got.ProcedureQueue[0].TicketID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBoardCacheInvalidate(t *testing.T) {
	client, mock := redismock.NewClientMock()
	mock.ExpectDel("queue:board").SetVal(1)

	cache := NewRedisBoardCache(client)
	require.NoError(t, cache.Invalidate(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
}
