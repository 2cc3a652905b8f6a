package domain

// Phase is the stage a game is currently in. Each phase carries its own
// deadline; rollover to the next phase is computed lazily on read.
type Phase string

const (
	PhaseSubmission Phase = "submission"
	PhaseVoting     Phase = "voting"
	PhaseResults    Phase = "results"
)

// Limits forming the external contract.
const (
	MaxAnswerLength   = 280
	MaxVotesPerPlayer = 3
)

// Question is one entry of the trivia catalog. Date holds the ISO
// calendar date (YYYY-MM-DD) the question was last assigned to a game,
// empty if never used.
type Question struct {
	ID            string `json:"id"`
	Text          string `json:"text"`
	Category      string `json:"category"`
	CorrectAnswer string `json:"correctAnswer"`
	Date          string `json:"date"`
}

// Submission is a single player's wrong-answer entry. Votes always
// equals len(VoterIDs) and VoterIDs never contains duplicates.
type Submission struct {
	ID         string   `json:"id"`
	AuthorID   string   `json:"authorId"`
	AuthorName string   `json:"authorName"`
	Answer     string   `json:"answer"`
	Timestamp  int64    `json:"timestamp"`
	Votes      int      `json:"votes"`
	VoterIDs   []string `json:"voterIds"`
}

// HasVoter reports whether a voter already backed this submission.
func (s *Submission) HasVoter(voterID string) bool {
	for _, id := range s.VoterIDs {
		if id == voterID {
			return true
		}
	}
	return false
}

// GameState is the full persisted state of one game instance, keyed by
// an external post/game identifier. Submissions keep insertion order
// during the submission phase and are shuffled exactly once when the
// game enters voting.
type GameState struct {
	CurrentQuestion Question     `json:"currentQuestion"`
	Phase           Phase        `json:"phase"`
	PhaseEndsAt     int64        `json:"phaseEndsAt"`
	Submissions     []Submission `json:"submissions"`
}

// SubmissionByAuthor returns the author's submission, if any.
func (g *GameState) SubmissionByAuthor(authorID string) *Submission {
	for i := range g.Submissions {
		if g.Submissions[i].AuthorID == authorID {
			return &g.Submissions[i]
		}
	}
	return nil
}

// SubmissionByID returns the submission with the given ID, if any.
func (g *GameState) SubmissionByID(id string) *Submission {
	for i := range g.Submissions {
		if g.Submissions[i].ID == id {
			return &g.Submissions[i]
		}
	}
	return nil
}

// VotesCastBy counts how many submissions carry the voter's ID.
func (g *GameState) VotesCastBy(voterID string) int {
	count := 0
	for i := range g.Submissions {
		if g.Submissions[i].HasVoter(voterID) {
			count++
		}
	}
	return count
}

// PlayerStats is the per-player aggregate, created lazily on the first
// completed game and updated once per completed game thereafter.
type PlayerStats struct {
	PlayerID           string `json:"playerId"`
	PlayerName         string `json:"playerName"`
	TotalSubmissions   int    `json:"totalSubmissions"`
	TotalVotesReceived int    `json:"totalVotesReceived"`
	Wins               int    `json:"wins"`
	CurrentStreak      int    `json:"currentStreak"`
	LongestStreak      int    `json:"longestStreak"`
	LastPlayedDate     string `json:"lastPlayedDate"`
}

// LeaderboardEntry is the denormalized ranking view of a player.
type LeaderboardEntry struct {
	PlayerName         string `json:"playerName"`
	Wins               int    `json:"wins"`
	TotalSubmissions   int    `json:"totalSubmissions"`
	TotalVotesReceived int    `json:"totalVotesReceived"`
	LongestStreak      int    `json:"longestStreak"`
}

// RankedMember is one member/score pair from the ranking store.
type RankedMember struct {
	Member string
	Score  int
}
