package app

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"wrong-answers-service/internal/domain"
)

// GameRepository abstracts how game state blobs are stored (in-memory, Redis, etc).
// Load returns (nil, nil) when no state exists for the given game ID.
type GameRepository interface {
	Load(ctx context.Context, gameID string) (*domain.GameState, error)
	Save(ctx context.Context, gameID string, state *domain.GameState) error
}

// ResultRecorder receives one call per participant when a game rolls
// into results. Implementations must not fail the rollover.
type ResultRecorder interface {
	RecordGameResult(ctx context.Context, playerID, playerName string, votesReceived int, isWinner bool)
}

// GameService drives the daily game: phase transitions, submissions and
// votes. Phase rollover is lazy; it happens on whichever read or write
// first observes a passed deadline, one step per call.
type GameService struct {
	games   GameRepository
	pool    *QuestionPool
	results ResultRecorder

	submissionDuration time.Duration
	votingDuration     time.Duration

	now func() time.Time

	rndMu sync.Mutex
	rnd   *rand.Rand

	// Per-game locks serialize the read-modify-write over the state
	// blob within this process. Cross-process writers still race
	// last-writer-wins; the store adapter offers no compare-and-swap.
	lockMu sync.Mutex
	locks  map[string]*sync.Mutex
}

func NewGameService(games GameRepository, pool *QuestionPool, results ResultRecorder, submissionDuration, votingDuration time.Duration) *GameService {
	return newGameService(games, pool, results, submissionDuration, votingDuration, time.Now, rand.New(rand.NewSource(time.Now().UnixNano())))
}

// NewGameServiceWithClock is test-only for deterministic deadlines and shuffles.
func NewGameServiceWithClock(games GameRepository, pool *QuestionPool, results ResultRecorder, submissionDuration, votingDuration time.Duration, now func() time.Time, rnd *rand.Rand) *GameService {
	return newGameService(games, pool, results, submissionDuration, votingDuration, now, rnd)
}

func newGameService(games GameRepository, pool *QuestionPool, results ResultRecorder, submissionDuration, votingDuration time.Duration, now func() time.Time, rnd *rand.Rand) *GameService {
	return &GameService{
		games:              games,
		pool:               pool,
		results:            results,
		submissionDuration: submissionDuration,
		votingDuration:     votingDuration,
		now:                now,
		rnd:                rnd,
		locks:              make(map[string]*sync.Mutex),
	}
}

// GetOrInitialize loads the game state, creating a fresh game when none
// exists. If the current phase deadline has passed it applies exactly
// one rollover step before returning; a game left unattended across
// several deadlines catches up one step per read, not all at once.
func (s *GameService) GetOrInitialize(ctx context.Context, gameID string) (*domain.GameState, error) {
	unlock := s.lock(gameID)
	defer unlock()

	state, err := s.games.Load(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if state == nil {
		return s.initialize(ctx, gameID)
	}
	// Results has no duration of its own; any read starts the next game.
	if state.Phase == domain.PhaseResults || s.nowMillis() >= state.PhaseEndsAt {
		return s.rotate(ctx, gameID, state)
	}
	return state, nil
}

// SubmitAnswer records a player's wrong answer during the submission phase.
func (s *GameService) SubmitAnswer(ctx context.Context, gameID, userID, userName, answer string) (domain.Submission, error) {
	trimmed := strings.TrimSpace(answer)
	if trimmed == "" {
		return domain.Submission{}, domain.ErrAnswerRequired
	}
	if utf8.RuneCountInString(answer) > domain.MaxAnswerLength {
		return domain.Submission{}, fmt.Errorf("%w: answer must be %d characters or less", domain.ErrAnswerTooLong, domain.MaxAnswerLength)
	}

	unlock := s.lock(gameID)
	defer unlock()

	state, err := s.games.Load(ctx, gameID)
	if err != nil {
		return domain.Submission{}, err
	}
	if state == nil {
		return domain.Submission{}, domain.ErrGameNotFound
	}
	if state.Phase != domain.PhaseSubmission {
		return domain.Submission{}, fmt.Errorf("%w: submission phase is closed", domain.ErrWrongPhase)
	}
	if userID == "" || userName == "" {
		return domain.Submission{}, domain.ErrNotAuthenticated
	}
	if state.SubmissionByAuthor(userID) != nil {
		return domain.Submission{}, domain.ErrAlreadySubmitted
	}

	now := s.nowMillis()
	submission := domain.Submission{
		ID:         fmt.Sprintf("%s-%d", userID, now),
		AuthorID:   userID,
		AuthorName: userName,
		Answer:     trimmed,
		Timestamp:  now,
		Votes:      0,
		VoterIDs:   []string{},
	}
	state.Submissions = append(state.Submissions, submission)

	if err := s.games.Save(ctx, gameID, state); err != nil {
		return domain.Submission{}, err
	}
	return submission, nil
}

// Vote casts one vote for a submission during the voting phase.
func (s *GameService) Vote(ctx context.Context, gameID, voterID, submissionID string) error {
	unlock := s.lock(gameID)
	defer unlock()

	state, err := s.games.Load(ctx, gameID)
	if err != nil {
		return err
	}
	if state == nil {
		return domain.ErrGameNotFound
	}
	if state.Phase != domain.PhaseVoting {
		return fmt.Errorf("%w: voting phase is not active", domain.ErrWrongPhase)
	}
	if voterID == "" {
		return domain.ErrNotAuthenticated
	}
	submission := state.SubmissionByID(submissionID)
	if submission == nil {
		return domain.ErrSubmissionNotFound
	}
	if submission.AuthorID == voterID {
		return domain.ErrSelfVote
	}
	if state.VotesCastBy(voterID) >= domain.MaxVotesPerPlayer {
		return fmt.Errorf("%w: all %d votes used", domain.ErrVoteQuotaExceeded, domain.MaxVotesPerPlayer)
	}
	if submission.HasVoter(voterID) {
		return domain.ErrAlreadyVoted
	}

	submission.Votes++
	submission.VoterIDs = append(submission.VoterIDs, voterID)

	return s.games.Save(ctx, gameID, state)
}

// RotatePhase forces the next phase transition regardless of the
// deadline. Intended for admin and testing surfaces; the regular read
// path only rotates once the deadline has passed.
func (s *GameService) RotatePhase(ctx context.Context, gameID string) (*domain.GameState, error) {
	unlock := s.lock(gameID)
	defer unlock()

	state, err := s.games.Load(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if state == nil {
		return nil, domain.ErrGameNotFound
	}
	return s.rotate(ctx, gameID, state)
}

// rotate applies exactly one phase transition. Callers hold the game lock.
func (s *GameService) rotate(ctx context.Context, gameID string, state *domain.GameState) (*domain.GameState, error) {
	switch state.Phase {
	case domain.PhaseSubmission:
		state.Phase = domain.PhaseVoting
		state.PhaseEndsAt = s.nowMillis() + s.votingDuration.Milliseconds()
		// Randomize display order once so early submitters get no exposure bias.
		s.rndMu.Lock()
		s.rnd.Shuffle(len(state.Submissions), func(i, j int) {
			state.Submissions[i], state.Submissions[j] = state.Submissions[j], state.Submissions[i]
		})
		s.rndMu.Unlock()

	case domain.PhaseVoting:
		state.Phase = domain.PhaseResults
		if len(state.Submissions) > 0 {
			winnerID := winningSubmission(state.Submissions).ID
			for i := range state.Submissions {
				sub := &state.Submissions[i]
				s.results.RecordGameResult(ctx, sub.AuthorID, sub.AuthorName, sub.Votes, sub.ID == winnerID)
			}
		}

	case domain.PhaseResults:
		// The results phase has no duration of its own; the next
		// rotation starts a fresh game.
		return s.initialize(ctx, gameID)
	}

	if err := s.games.Save(ctx, gameID, state); err != nil {
		return nil, err
	}
	return state, nil
}

// initialize selects a question and persists a fresh submission-phase
// game. Callers hold the game lock.
func (s *GameService) initialize(ctx context.Context, gameID string) (*domain.GameState, error) {
	today := s.now().UTC().Format("2006-01-02")
	question, err := s.pool.Select(ctx, today)
	if err != nil {
		return nil, err
	}

	state := &domain.GameState{
		CurrentQuestion: question,
		Phase:           domain.PhaseSubmission,
		PhaseEndsAt:     s.nowMillis() + s.submissionDuration.Milliseconds(),
		Submissions:     []domain.Submission{},
	}
	if err := s.games.Save(ctx, gameID, state); err != nil {
		return nil, err
	}
	return state, nil
}

// winningSubmission returns the first submission in stored order with
// the maximal vote count, so ties resolve deterministically for a given
// ordering.
func winningSubmission(submissions []domain.Submission) *domain.Submission {
	winner := &submissions[0]
	for i := 1; i < len(submissions); i++ {
		if submissions[i].Votes > winner.Votes {
			winner = &submissions[i]
		}
	}
	return winner
}

func (s *GameService) nowMillis() int64 {
	return s.now().UnixMilli()
}

func (s *GameService) lock(gameID string) func() {
	s.lockMu.Lock()
	mu, ok := s.locks[gameID]
	if !ok {
		mu = &sync.Mutex{}
		s.locks[gameID] = mu
	}
	s.lockMu.Unlock()
	mu.Lock()
	return mu.Unlock
}
