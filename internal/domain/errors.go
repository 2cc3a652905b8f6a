package domain

import "errors"

var (
	// ErrAnswerRequired is returned when a submission carries no answer text.
	ErrAnswerRequired = errors.New("answer is required")
	// ErrAnswerTooLong is returned when an answer exceeds MaxAnswerLength.
	ErrAnswerTooLong = errors.New("answer exceeds maximum length")
	// ErrWrongPhase is returned when an operation is attempted outside its phase.
	ErrWrongPhase = errors.New("operation not valid in current phase")
	// ErrNotAuthenticated is returned when no user identity can be resolved.
	ErrNotAuthenticated = errors.New("user not authenticated")
	// ErrAlreadySubmitted is returned when an author already has a submission in this game.
	ErrAlreadySubmitted = errors.New("answer already submitted")
	// ErrGameNotFound indicates no state exists for the given game ID.
	ErrGameNotFound = errors.New("game not found")
	// ErrSubmissionNotFound indicates a vote targeted an unknown submission.
	ErrSubmissionNotFound = errors.New("submission not found")
	// ErrSelfVote is returned when a player votes for their own submission.
	ErrSelfVote = errors.New("cannot vote for own submission")
	// ErrVoteQuotaExceeded is returned once a voter has used all their votes.
	ErrVoteQuotaExceeded = errors.New("vote quota exceeded")
	// ErrAlreadyVoted is returned on a repeat vote for the same submission.
	ErrAlreadyVoted = errors.New("already voted for this submission")
	// ErrNoQuestionsAvailable indicates the question catalog is empty.
	ErrNoQuestionsAvailable = errors.New("no questions available")
)
