package memory

import (
	"context"
	"testing"

	"wrong-answers-service/internal/domain"
)

func TestGameRepositoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewGameRepository()

	missing, err := repo.Load(ctx, "game-1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if missing != nil {
		t.Fatalf("expected nil for missing game, got %+v", missing)
	}

	state := &domain.GameState{
		CurrentQuestion: domain.Question{ID: "q1", Text: "?"},
		Phase:           domain.PhaseSubmission,
		PhaseEndsAt:     1234,
		Submissions:     []domain.Submission{},
	}
	if err := repo.Save(ctx, "game-1", state); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := repo.Load(ctx, "game-1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.CurrentQuestion.ID != "q1" || loaded.PhaseEndsAt != 1234 {
		t.Fatalf("unexpected state %+v", loaded)
	}
}

func TestGameRepositoryIsolatesUnsavedMutations(t *testing.T) {
	ctx := context.Background()
	repo := NewGameRepository()

	state := &domain.GameState{Phase: domain.PhaseSubmission, Submissions: []domain.Submission{}}
	if err := repo.Save(ctx, "game-1", state); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, _ := repo.Load(ctx, "game-1")
	loaded.Submissions = append(loaded.Submissions, domain.Submission{ID: "s1"})

	// The mutation was never saved, so a fresh load must not see it.
	again, _ := repo.Load(ctx, "game-1")
	if len(again.Submissions) != 0 {
		t.Fatalf("unsaved mutation leaked into the store: %+v", again.Submissions)
	}
}

func TestStatsRepositoryNameIndex(t *testing.T) {
	ctx := context.Background()
	repo := NewStatsRepository()

	if err := repo.Save(ctx, &domain.PlayerStats{PlayerID: "u1", PlayerName: "alice", Wins: 3}); err != nil {
		t.Fatalf("save: %v", err)
	}

	byID, err := repo.Get(ctx, "u1")
	if err != nil || byID == nil || byID.Wins != 3 {
		t.Fatalf("get by id: %+v, %v", byID, err)
	}
	byName, err := repo.GetByName(ctx, "alice")
	if err != nil || byName == nil || byName.PlayerID != "u1" {
		t.Fatalf("get by name: %+v, %v", byName, err)
	}
	none, err := repo.GetByName(ctx, "nobody")
	if err != nil || none != nil {
		t.Fatalf("expected nil for unknown name, got %+v, %v", none, err)
	}
}

func TestRankingStoreOrdering(t *testing.T) {
	ctx := context.Background()
	store := NewRankingStore()

	_ = store.UpsertScore(ctx, "alice", 2)
	_ = store.UpsertScore(ctx, "bob", 5)
	_ = store.UpsertScore(ctx, "carol", 5)

	top, err := store.TopN(ctx, 10)
	if err != nil {
		t.Fatalf("topn: %v", err)
	}
	// Scores descend; equal scores order by member name descending,
	// matching a reversed Redis sorted-set range.
	want := []string{"carol", "bob", "alice"}
	for i, name := range want {
		if top[i].Member != name {
			t.Fatalf("expected %v at position %d, got %+v", name, i, top[i])
		}
	}

	top, _ = store.TopN(ctx, 2)
	if len(top) != 2 {
		t.Fatalf("expected limit applied, got %d", len(top))
	}

	// Upsert replaces the previous score.
	_ = store.UpsertScore(ctx, "alice", 9)
	top, _ = store.TopN(ctx, 1)
	if top[0].Member != "alice" || top[0].Score != 9 {
		t.Fatalf("expected alice promoted, got %+v", top[0])
	}
}

func TestStaticQuestionLoaderCopies(t *testing.T) {
	ctx := context.Background()
	loader := NewStaticQuestionLoader(DefaultQuestions())

	first, err := loader.LoadQuestions(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	first[0].Date = "2024-06-01"

	second, _ := loader.LoadQuestions(ctx)
	if second[0].Date != "" {
		t.Fatalf("loader leaked caller mutation: %+v", second[0])
	}
}
