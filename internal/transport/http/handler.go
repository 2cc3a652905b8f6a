package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"wrong-answers-service/internal/app"
	"wrong-answers-service/internal/domain"
)

const defaultLeaderboardLimit = 10

// Handler maps the JSON REST surface 1:1 onto the game and stats
// services.
type Handler struct {
	games    *app.GameService
	stats    *app.StatsService
	identity IdentityProvider
}

func NewHandler(games *app.GameService, stats *app.StatsService, identity IdentityProvider) *Handler {
	return &Handler{games: games, stats: stats, identity: identity}
}

// Routes registers all game endpoints on the mux.
func (h *Handler) Routes(mux *http.ServeMux) {
	mux.HandleFunc("/api/game-state", h.GameState)
	mux.HandleFunc("/api/submit-answer", h.SubmitAnswer)
	mux.HandleFunc("/api/vote", h.Vote)
	mux.HandleFunc("/api/leaderboard", h.Leaderboard)
	mux.HandleFunc("/api/player-stats", h.PlayerStats)
	mux.HandleFunc("/internal/rotate-phase", h.RotatePhase)
	mux.HandleFunc("/internal/menu/create-game", h.CreateGame)
}

type response struct {
	Type  string      `json:"type"`
	Data  interface{} `json:"data,omitempty"`
	Error string      `json:"error,omitempty"`
}

type gameStatePayload struct {
	*domain.GameState
	Username    string `json:"username"`
	CurrentTime int64  `json:"currentTime"`
}

// GameState returns the game, initializing it on first read and rolling
// the phase forward when its deadline has passed.
func (h *Handler) GameState(w http.ResponseWriter, r *http.Request) {
	gameID := r.URL.Query().Get("gameId")
	if gameID == "" {
		writeError(w, http.StatusBadRequest, "gameId is required")
		return
	}

	state, err := h.games.GetOrInitialize(r.Context(), gameID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	username := h.identity.Identify(r).Username
	if username == "" {
		username = "anonymous"
	}
	writeJSON(w, http.StatusOK, response{Type: "GAME_STATE", Data: gameStatePayload{
		GameState:   state,
		Username:    username,
		CurrentTime: time.Now().UnixMilli(),
	}})
}

type submitRequest struct {
	GameID string `json:"gameId"`
	Answer string `json:"answer"`
}

func (h *Handler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.GameID == "" {
		writeError(w, http.StatusBadRequest, "gameId is required")
		return
	}

	user := h.identity.Identify(r)
	submission, err := h.games.SubmitAnswer(r.Context(), req.GameID, user.UserID, user.Username, req.Answer)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, response{Type: "SUBMIT_SUCCESS", Data: submission})
}

type voteRequest struct {
	GameID       string `json:"gameId"`
	SubmissionID string `json:"submissionId"`
}

func (h *Handler) Vote(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req voteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.GameID == "" || req.SubmissionID == "" {
		writeError(w, http.StatusBadRequest, "gameId and submissionId are required")
		return
	}

	user := h.identity.Identify(r)
	if err := h.games.Vote(r.Context(), req.GameID, user.UserID, req.SubmissionID); err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, response{Type: "VOTE_SUCCESS", Data: map[string]string{"submissionId": req.SubmissionID}})
}

func (h *Handler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	limit := defaultLeaderboardLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}

	entries, err := h.stats.Leaderboard(r.Context(), limit)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, response{Type: "LEADERBOARD", Data: entries})
}

func (h *Handler) PlayerStats(w http.ResponseWriter, r *http.Request) {
	user := h.identity.Identify(r)
	if user.UserID == "" {
		h.writeServiceError(w, domain.ErrNotAuthenticated)
		return
	}

	stats, err := h.stats.PlayerStats(r.Context(), user.UserID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, response{Type: "PLAYER_STATS", Data: stats})
}

type rotateRequest struct {
	GameID string `json:"gameId"`
}

// RotatePhase forces the next phase transition. Admin/testing only; the
// regular read path rotates lazily on its own.
func (h *Handler) RotatePhase(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req rotateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.GameID == "" {
		writeError(w, http.StatusBadRequest, "gameId is required")
		return
	}

	state, err := h.games.RotatePhase(r.Context(), req.GameID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, response{Type: "PHASE_ROTATED", Data: state})
}

type createGamePayload struct {
	GameID string            `json:"gameId"`
	State  *domain.GameState `json:"gameState"`
}

// CreateGame seeds a fresh game under a generated ID, standing in for
// the platform's post-creation menu action.
func (h *Handler) CreateGame(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	gameID := uuid.NewString()
	state, err := h.games.GetOrInitialize(r.Context(), gameID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, response{Type: "GAME_CREATED", Data: createGamePayload{GameID: gameID, State: state}})
}

func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Printf("internal error: %v", err)
		writeError(w, status, "internal error")
		return
	}
	writeError(w, status, err.Error())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotAuthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrGameNotFound),
		errors.Is(err, domain.ErrSubmissionNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrAnswerRequired),
		errors.Is(err, domain.ErrAnswerTooLong),
		errors.Is(err, domain.ErrWrongPhase),
		errors.Is(err, domain.ErrAlreadySubmitted),
		errors.Is(err, domain.ErrSelfVote),
		errors.Is(err, domain.ErrVoteQuotaExceeded),
		errors.Is(err, domain.ErrAlreadyVoted):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, response{Type: "ERROR", Error: message})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("write response: %v", err)
	}
}
