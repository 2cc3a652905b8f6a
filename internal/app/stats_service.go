package app

import (
	"context"
	"log"
	"time"

	"wrong-answers-service/internal/domain"
)

// StatsRepository abstracts per-player stats storage. Get and GetByName
// return (nil, nil) when the player has never completed a game.
type StatsRepository interface {
	Get(ctx context.Context, playerID string) (*domain.PlayerStats, error)
	GetByName(ctx context.Context, playerName string) (*domain.PlayerStats, error)
	Save(ctx context.Context, stats *domain.PlayerStats) error
}

// RankingStore abstracts the global wins ranking (a sorted set in the
// Redis implementation).
type RankingStore interface {
	UpsertScore(ctx context.Context, member string, score int) error
	TopN(ctx context.Context, n int) ([]domain.RankedMember, error)
}

// StatsService maintains per-player aggregates and the global leaderboard.
type StatsService struct {
	stats   StatsRepository
	ranking RankingStore
	now     func() time.Time
}

func NewStatsService(stats StatsRepository, ranking RankingStore) *StatsService {
	return &StatsService{stats: stats, ranking: ranking, now: time.Now}
}

// NewStatsServiceWithClock is test-only for deterministic streak dates.
func NewStatsServiceWithClock(stats StatsRepository, ranking RankingStore, now func() time.Time) *StatsService {
	return &StatsService{stats: stats, ranking: ranking, now: now}
}

// RecordGameResult folds one completed game into a player's aggregates
// and upserts their wins into the ranking. Failures are logged and
// swallowed: one unreachable player record must not block crowning a
// winner or updating the other participants.
func (s *StatsService) RecordGameResult(ctx context.Context, playerID, playerName string, votesReceived int, isWinner bool) {
	stats, err := s.stats.Get(ctx, playerID)
	if err != nil {
		log.Printf("stats: load player %s: %v", playerID, err)
		return
	}
	if stats == nil {
		stats = &domain.PlayerStats{PlayerID: playerID}
	}

	stats.PlayerName = playerName
	stats.TotalSubmissions++
	stats.TotalVotesReceived += votesReceived
	if isWinner {
		stats.Wins++
	}

	today := s.now().UTC().Format("2006-01-02")
	if calendarDaysBetween(stats.LastPlayedDate, today) == 1 {
		stats.CurrentStreak++
	} else {
		// Playing after any gap other than exactly one day (including
		// a same-day repeat) restarts the streak at 1, not 0.
		stats.CurrentStreak = 1
	}
	if stats.CurrentStreak > stats.LongestStreak {
		stats.LongestStreak = stats.CurrentStreak
	}
	stats.LastPlayedDate = today

	if err := s.stats.Save(ctx, stats); err != nil {
		log.Printf("stats: save player %s: %v", playerID, err)
		return
	}
	if err := s.ranking.UpsertScore(ctx, stats.PlayerName, stats.Wins); err != nil {
		log.Printf("stats: ranking upsert for %s: %v", stats.PlayerName, err)
	}
}

// Leaderboard returns the top players by wins. Ranking members whose
// backing stats cannot be resolved are skipped rather than erroring.
func (s *StatsService) Leaderboard(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	members, err := s.ranking.TopN(ctx, limit)
	if err != nil {
		return nil, err
	}

	entries := make([]domain.LeaderboardEntry, 0, len(members))
	for _, member := range members {
		stats, err := s.stats.GetByName(ctx, member.Member)
		if err != nil {
			log.Printf("stats: resolve leaderboard member %s: %v", member.Member, err)
			continue
		}
		if stats == nil {
			continue
		}
		entries = append(entries, domain.LeaderboardEntry{
			PlayerName:         stats.PlayerName,
			Wins:               stats.Wins,
			TotalSubmissions:   stats.TotalSubmissions,
			TotalVotesReceived: stats.TotalVotesReceived,
			LongestStreak:      stats.LongestStreak,
		})
	}
	return entries, nil
}

// PlayerStats returns a player's aggregates, or (nil, nil) if they have
// never completed a game.
func (s *StatsService) PlayerStats(ctx context.Context, playerID string) (*domain.PlayerStats, error) {
	return s.stats.Get(ctx, playerID)
}

// calendarDaysBetween returns the whole calendar days from last to
// current, both in YYYY-MM-DD form. It returns -1 when either date is
// unset or unparsable, which callers treat as a streak reset.
func calendarDaysBetween(last, current string) int {
	if last == "" || current == "" {
		return -1
	}
	lastDay, err := time.ParseInLocation("2006-01-02", last, time.UTC)
	if err != nil {
		return -1
	}
	currentDay, err := time.ParseInLocation("2006-01-02", current, time.UTC)
	if err != nil {
		return -1
	}
	return int(currentDay.Sub(lastDay).Hours() / 24)
}
