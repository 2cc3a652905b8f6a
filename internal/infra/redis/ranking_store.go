package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"wrong-answers-service/internal/domain"
)

const leaderboardKey = "leaderboard:alltime"

// RankingStore keeps the global wins ranking in a sorted set:
// ZADD leaderboard:alltime {wins} {playerName}. Equal scores come back
// from a reversed range in descending lexicographic member order, which
// is this store's tie-break.
type RankingStore struct {
	client *redis.Client
}

func NewRankingStore(client *redis.Client) *RankingStore {
	return &RankingStore{client: client}
}

func (r *RankingStore) UpsertScore(ctx context.Context, member string, score int) error {
	err := r.client.ZAdd(ctx, leaderboardKey, redis.Z{
		Score:  float64(score),
		Member: member,
	}).Err()
	if err != nil {
		return fmt.Errorf("ranking upsert %s: %w", member, err)
	}
	return nil
}

func (r *RankingStore) TopN(ctx context.Context, n int) ([]domain.RankedMember, error) {
	if n <= 0 {
		return nil, nil
	}
	zs, err := r.client.ZRevRangeWithScores(ctx, leaderboardKey, 0, int64(n-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("ranking range: %w", err)
	}
	members := make([]domain.RankedMember, 0, len(zs))
	for _, z := range zs {
		name, ok := z.Member.(string)
		if !ok {
			continue
		}
		members = append(members, domain.RankedMember{Member: name, Score: int(z.Score)})
	}
	return members, nil
}
