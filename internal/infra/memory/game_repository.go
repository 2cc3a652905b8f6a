package memory

import (
	"context"
	"encoding/json"
	"sync"

	"wrong-answers-service/internal/domain"
)

// GameRepository is an in-memory implementation of app.GameRepository.
// States round-trip through JSON on every load and save so callers get
// the same blob semantics as the Redis adapter: mutations only stick
// once saved.
type GameRepository struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

func NewGameRepository() *GameRepository {
	return &GameRepository{blobs: make(map[string][]byte)}
}

func (r *GameRepository) Load(_ context.Context, gameID string) (*domain.GameState, error) {
	r.mu.RLock()
	blob, ok := r.blobs[gameID]
	r.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	var state domain.GameState
	if err := json.Unmarshal(blob, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

func (r *GameRepository) Save(_ context.Context, gameID string, state *domain.GameState) error {
	blob, err := json.Marshal(state)
	if err != nil {
		return err
	}
	r.mu.Lock()
	r.blobs[gameID] = blob
	r.mu.Unlock()
	return nil
}
