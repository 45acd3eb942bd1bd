// internal/engine/session/session_test.go
package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	commonerrors "travel-orchestrator/internal/common/errors"
	"travel-orchestrator/internal/models"
)

func turnWith(text string, entities models.ExtractedEntities) models.Turn {
	return models.Turn{
		Request:  models.TravelRequest{TurnID: "t-" + text, SessionID: "s1", Text: text},
		Intent:   models.IntentFlightSearch,
		Entities: entities,
	}
}

func runStoreTests(t *testing.T, store Store) {
	ctx := context.Background()

	_, found, err := store.LastTurn(ctx, "s1")
	require.NoError(t, err)
	assert.False(t, found)

	idx, err := store.Append(ctx, "s1", turnWith("first", models.ExtractedEntities{
		Destination: "Tokyo",
		Passengers:  1,
	}))
	require.NoError(t, err)
	assert.Equal(t, 0, idx)

	idx, err = store.Append(ctx, "s1", turnWith("second", models.ExtractedEntities{
		Origin:      "Delhi",
		Destination: "Tokyo",
		Date:        "2025-08-01",
		Passengers:  2,
	}))
	require.NoError(t, err)
	assert.Equal(t, 1, idx)

	last, found, err := store.LastTurn(ctx, "s1")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "Tokyo", last.Entities.Destination)
	assert.Equal(t, "2025-08-01", last.Entities.Date)
	assert.Equal(t, 2, last.Entities.Passengers)

	history, err := store.History(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "first", history[0].Request.Text)
	assert.Equal(t, 0, history[0].Request.TurnIndex)
	assert.Equal(t, 1, history[1].Request.TurnIndex)

	// Other sessions stay empty.
	other, err := store.History(ctx, "s2")
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestMemoryStore(t *testing.T) {
	runStoreTests(t, NewMemoryStore())
}

func TestRedisStore(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	runStoreTests(t, NewRedisStore(client, 0))
}

func TestRedisStore_TTLRefreshesOnAppend(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	store := NewRedisStore(client, time.Minute)
	ctx := context.Background()

	_, err := store.Append(ctx, "s1", turnWith("first", models.ExtractedEntities{Passengers: 1}))
	require.NoError(t, err)
	assert.Greater(t, mr.TTL(sessionKey("s1")), time.Duration(0))

	mr.FastForward(30 * time.Second)
	_, err = store.Append(ctx, "s1", turnWith("second", models.ExtractedEntities{Passengers: 1}))
	require.NoError(t, err)
	assert.Greater(t, mr.TTL(sessionKey("s1")), 30*time.Second)
}

func TestEntityInheritanceAcrossTurns(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	_, err := store.Append(ctx, "s1", turnWith("plan a trip to Tokyo", models.ExtractedEntities{
		Destination: "Tokyo",
		Passengers:  1,
	}))
	require.NoError(t, err)

	prior, found, err := store.LastTurn(ctx, "s1")
	require.NoError(t, err)
	require.True(t, found)

	// A follow-up naming only a date inherits the destination.
	current := models.ExtractedEntities{Date: "2025-09-10", Passengers: 1}
	merged := current.MergeFrom(prior.Entities)

	assert.Equal(t, "Tokyo", merged.Destination)
	assert.Equal(t, "2025-09-10", merged.Date)
}

func TestLocker_SerializesSameSession(t *testing.T) {
	locker := NewLocker()

	var mu sync.Mutex
	var order []int

	unlock := locker.Lock("s1")

	done := make(chan struct{})
	go func() {
		u := locker.Lock("s1")
		mu.Lock()
		order = append(order, 2)
		mu.Unlock()
		u()
		close(done)
	}()

	time.Sleep(20 * time.Millisecond)
	mu.Lock()
	order = append(order, 1)
	mu.Unlock()
	unlock()

	<-done
	assert.Equal(t, []int{1, 2}, order)
}

func TestLocker_LockCtxBusySession(t *testing.T) {
	locker := NewLocker()

	unlock := locker.Lock("s1")
	defer unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	got, err := locker.LockCtx(ctx, "s1")
	require.Error(t, err)
	assert.Nil(t, got)
	assert.True(t, commonerrors.IsCode(err, commonerrors.ErrCodeSessionBusy))
}

func TestLocker_LockCtxFreeSlotIgnoresDoneContext(t *testing.T) {
	locker := NewLocker()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	unlock, err := locker.LockCtx(ctx, "s1")
	require.NoError(t, err)
	unlock()
}

func TestLocker_LockCtxAcquiresAfterRelease(t *testing.T) {
	locker := NewLocker()

	unlock := locker.Lock("s1")
	go func() {
		time.Sleep(10 * time.Millisecond)
		unlock()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	got, err := locker.LockCtx(ctx, "s1")
	require.NoError(t, err)
	got()
}

func TestLocker_IndependentSessions(t *testing.T) {
	locker := NewLocker()

	unlock1 := locker.Lock("s1")
	defer unlock1()

	acquired := make(chan struct{})
	go func() {
		u := locker.Lock("s2")
		u()
		close(acquired)
	}()

	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("different session blocked by unrelated lock")
	}
}
