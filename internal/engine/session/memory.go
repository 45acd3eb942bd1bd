// internal/engine/session/memory.go
package session

import (
	"context"
	"sync"

	"travel-orchestrator/internal/models"
)

// MemoryStore is the default single-process session backend.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string][]models.Turn
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string][]models.Turn)}
}

func (s *MemoryStore) Append(ctx context.Context, sessionID string, turn models.Turn) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	index := len(s.sessions[sessionID])
	turn.Request.TurnIndex = index
	s.sessions[sessionID] = append(s.sessions[sessionID], turn)
	return index, nil
}

func (s *MemoryStore) LastTurn(ctx context.Context, sessionID string) (models.Turn, bool, error) {
	if err := ctx.Err(); err != nil {
		return models.Turn{}, false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	turns := s.sessions[sessionID]
	if len(turns) == 0 {
		return models.Turn{}, false, nil
	}
	return turns[len(turns)-1], true, nil
}

func (s *MemoryStore) History(ctx context.Context, sessionID string) ([]models.Turn, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	turns := s.sessions[sessionID]
	out := make([]models.Turn, len(turns))
	copy(out, turns)
	return out, nil
}
