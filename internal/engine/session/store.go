// internal/engine/session/store.go
package session

import (
	"context"
	"sync"

	commonerrors "travel-orchestrator/internal/common/errors"
	"travel-orchestrator/internal/models"
)

// Store persists conversation sessions as append-only turn logs. Completed
// turns are recorded with their merged entities, so the latest turn always
// carries the cumulative conversation context.
type Store interface {
	// Append records a completed turn and returns its assigned index.
	Append(ctx context.Context, sessionID string, turn models.Turn) (int, error)
	// LastTurn returns the most recent recorded turn, if any.
	LastTurn(ctx context.Context, sessionID string) (models.Turn, bool, error)
	// History returns all recorded turns in order.
	History(ctx context.Context, sessionID string) ([]models.Turn, error)
}

// Locker serializes turn processing per session. Different sessions never
// block each other.
type Locker struct {
	mu    sync.Mutex
	slots map[string]chan struct{}
}

func NewLocker() *Locker {
	return &Locker{slots: make(map[string]chan struct{})}
}

func (l *Locker) slot(sessionID string) chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()
	s, ok := l.slots[sessionID]
	if !ok {
		s = make(chan struct{}, 1)
		l.slots[sessionID] = s
	}
	return s
}

// Lock blocks until the session's slot is free and returns its release
// function.
func (l *Locker) Lock(sessionID string) func() {
	s := l.slot(sessionID)
	s <- struct{}{}
	return func() { <-s }
}

// LockCtx acquires the session's slot, giving up with a session-busy error
// when ctx expires first. A free slot is taken even when ctx is already done,
// so a cancelled turn fails on its own terms rather than as a busy session.
func (l *Locker) LockCtx(ctx context.Context, sessionID string) (func(), error) {
	s := l.slot(sessionID)
	select {
	case s <- struct{}{}:
		return func() { <-s }, nil
	default:
	}
	select {
	case s <- struct{}{}:
		return func() { <-s }, nil
	case <-ctx.Done():
		return nil, commonerrors.NewSessionBusyError(sessionID)
	}
}
