package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"wrong-answers-service/internal/domain"
)

// GameRepository persists each game state as a JSON blob in the `state`
// field of a per-game hash: HSET game:{gameID} state {json}. The whole
// blob is read and written as one unit; the last writer wins.
type GameRepository struct {
	client *redis.Client
}

func NewGameRepository(client *redis.Client) *GameRepository {
	return &GameRepository{client: client}
}

func (r *GameRepository) Load(ctx context.Context, gameID string) (*domain.GameState, error) {
	raw, err := r.client.HGet(ctx, r.key(gameID), "state").Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load game %s: %w", gameID, err)
	}
	var state domain.GameState
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		return nil, fmt.Errorf("unmarshal game %s: %w", gameID, err)
	}
	return &state, nil
}

func (r *GameRepository) Save(ctx context.Context, gameID string, state *domain.GameState) error {
	blob, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal game %s: %w", gameID, err)
	}
	if err := r.client.HSet(ctx, r.key(gameID), "state", blob).Err(); err != nil {
		return fmt.Errorf("save game %s: %w", gameID, err)
	}
	return nil
}

func (r *GameRepository) key(gameID string) string {
	return "game:" + gameID
}
