package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"wrong-answers-service/internal/domain"
)

const nameIndexKey = "players:byname"

// StatsRepository stores player aggregates as string-typed fields of a
// per-player hash (player:{playerID}) plus a playerName -> playerID
// index hash so leaderboard members can be resolved back to stats.
// Parsing to and from the typed struct happens only here.
type StatsRepository struct {
	client *redis.Client
}

func NewStatsRepository(client *redis.Client) *StatsRepository {
	return &StatsRepository{client: client}
}

func (r *StatsRepository) Get(ctx context.Context, playerID string) (*domain.PlayerStats, error) {
	fields, err := r.client.HGetAll(ctx, r.key(playerID)).Result()
	if err != nil {
		return nil, fmt.Errorf("load stats %s: %w", playerID, err)
	}
	if len(fields) == 0 {
		return nil, nil
	}
	return &domain.PlayerStats{
		PlayerID:           playerID,
		PlayerName:         fields["playerName"],
		TotalSubmissions:   atoiField(fields, "totalSubmissions"),
		TotalVotesReceived: atoiField(fields, "totalVotesReceived"),
		Wins:               atoiField(fields, "wins"),
		CurrentStreak:      atoiField(fields, "currentStreak"),
		LongestStreak:      atoiField(fields, "longestStreak"),
		LastPlayedDate:     fields["lastPlayedDate"],
	}, nil
}

func (r *StatsRepository) GetByName(ctx context.Context, playerName string) (*domain.PlayerStats, error) {
	playerID, err := r.client.HGet(ctx, nameIndexKey, playerName).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("resolve player name %s: %w", playerName, err)
	}
	return r.Get(ctx, playerID)
}

func (r *StatsRepository) Save(ctx context.Context, stats *domain.PlayerStats) error {
	pipe := r.client.Pipeline()
	pipe.HSet(ctx, r.key(stats.PlayerID), map[string]interface{}{
		"playerId":           stats.PlayerID,
		"playerName":         stats.PlayerName,
		"totalSubmissions":   strconv.Itoa(stats.TotalSubmissions),
		"totalVotesReceived": strconv.Itoa(stats.TotalVotesReceived),
		"wins":               strconv.Itoa(stats.Wins),
		"currentStreak":      strconv.Itoa(stats.CurrentStreak),
		"longestStreak":      strconv.Itoa(stats.LongestStreak),
		"lastPlayedDate":     stats.LastPlayedDate,
	})
	pipe.HSet(ctx, nameIndexKey, stats.PlayerName, stats.PlayerID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("save stats %s: %w", stats.PlayerID, err)
	}
	return nil
}

func (r *StatsRepository) key(playerID string) string {
	return "player:" + playerID
}

func atoiField(fields map[string]string, name string) int {
	n, err := strconv.Atoi(fields[name])
	if err != nil {
		return 0
	}
	return n
}
