package memory

import (
	"context"
	"sort"
	"sync"

	"wrong-answers-service/internal/domain"
)

// StatsRepository is an in-memory implementation of app.StatsRepository.
type StatsRepository struct {
	mu     sync.RWMutex
	byID   map[string]domain.PlayerStats
	byName map[string]string
}

func NewStatsRepository() *StatsRepository {
	return &StatsRepository{
		byID:   make(map[string]domain.PlayerStats),
		byName: make(map[string]string),
	}
}

func (r *StatsRepository) Get(_ context.Context, playerID string) (*domain.PlayerStats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	stats, ok := r.byID[playerID]
	if !ok {
		return nil, nil
	}
	return &stats, nil
}

func (r *StatsRepository) GetByName(ctx context.Context, playerName string) (*domain.PlayerStats, error) {
	r.mu.RLock()
	playerID, ok := r.byName[playerName]
	r.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	return r.Get(ctx, playerID)
}

func (r *StatsRepository) Save(_ context.Context, stats *domain.PlayerStats) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[stats.PlayerID] = *stats
	r.byName[stats.PlayerName] = stats.PlayerID
	return nil
}

// RankingStore is an in-memory implementation of app.RankingStore.
// TopN orders by score descending and breaks score ties by member name
// descending, matching how a reversed Redis sorted-set range orders
// equal scores.
type RankingStore struct {
	mu     sync.RWMutex
	scores map[string]int
}

func NewRankingStore() *RankingStore {
	return &RankingStore{scores: make(map[string]int)}
}

func (r *RankingStore) UpsertScore(_ context.Context, member string, score int) error {
	r.mu.Lock()
	r.scores[member] = score
	r.mu.Unlock()
	return nil
}

func (r *RankingStore) TopN(_ context.Context, n int) ([]domain.RankedMember, error) {
	r.mu.RLock()
	members := make([]domain.RankedMember, 0, len(r.scores))
	for member, score := range r.scores {
		members = append(members, domain.RankedMember{Member: member, Score: score})
	}
	r.mu.RUnlock()

	sort.Slice(members, func(i, j int) bool {
		if members[i].Score != members[j].Score {
			return members[i].Score > members[j].Score
		}
		return members[i].Member > members[j].Member
	})
	if n >= 0 && n < len(members) {
		members = members[:n]
	}
	return members, nil
}
