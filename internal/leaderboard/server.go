package leaderboard

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/kkurian/typeattack/internal/session"
	"github.com/kkurian/typeattack/internal/storage"
	"github.com/kkurian/typeattack/internal/submit"
)

// Submission sanity bounds. Values outside them cannot come from real play.
const (
	maxWPM      = 300.0
	maxAccuracy = 100.0
)

// Config tunes the backend.
type Config struct {
	// RateLimit is the maximum accepted submissions per user per window.
	RateLimit  int
	RateWindow time.Duration

	// TopN is the default listing size for GET /api/scores.
	TopN int
}

// DefaultConfig returns the standard backend tuning.
func DefaultConfig() Config {
	return Config{
		RateLimit:  10,
		RateWindow: time.Hour,
		TopN:       20,
	}
}

// Server validates and stores score submissions. The only anti-cheat is
// recompute-and-compare: the hash is derived from the submitted session data
// and must match the claim.
type Server struct {
	cfg    Config
	store  *storage.Store
	hub    *Hub
	logger *log.Logger

	now func() time.Time
}

// NewServer creates a backend over the given store.
func NewServer(store *storage.Store, cfg Config) *Server {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "leaderboard",
	})
	return &Server{
		cfg:    cfg,
		store:  store,
		hub:    NewHub(logger),
		logger: logger,
		now:    time.Now,
	}
}

// Hub returns the websocket feed hub.
func (s *Server) Hub() *Hub {
	return s.hub
}

// Handler returns the HTTP routes: POST/GET /api/scores and GET /ws.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/scores", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			s.handleSubmit(w, r)
		case http.MethodGet:
			s.handleTop(w, r)
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	})
	mux.HandleFunc("/ws", s.hub.ServeWS)
	return mux
}

// reject writes a machine-readable rejection the client surfaces verbatim.
func (s *Server) reject(w http.ResponseWriter, status int, reason, message string) {
	s.logger.Info("submission rejected", "reason", reason, "message", message)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(submit.SubmitError{Reason: reason, Message: message})
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var payload submit.Payload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		s.reject(w, http.StatusBadRequest, submit.ReasonValidationFailed, "malformed JSON body")
		return
	}

	if msg := validatePayload(payload); msg != "" {
		s.reject(w, http.StatusBadRequest, submit.ReasonValidationFailed, msg)
		return
	}

	// Recompute the hash from the submitted session data; never trust the
	// claim.
	computed, err := session.Hash(payload.SessionData)
	if err != nil {
		s.reject(w, http.StatusBadRequest, submit.ReasonValidationFailed,
			fmt.Sprintf("session cannot be hashed: %v", err))
		return
	}
	if !strings.EqualFold(computed, payload.SessionHash) {
		s.reject(w, http.StatusBadRequest, submit.ReasonInvalidHash,
			"session hash does not match the session data")
		return
	}

	since := s.now().Add(-s.cfg.RateWindow)
	count, err := s.store.SubmissionsSince(payload.UserID, since)
	if err != nil {
		s.logger.Error("rate limit check failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if count >= s.cfg.RateLimit {
		s.reject(w, http.StatusTooManyRequests, submit.ReasonRateLimited,
			"too many submissions, try again later")
		return
	}

	dup, err := s.store.HasSessionHash(computed)
	if err != nil {
		s.logger.Error("duplicate check failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if dup {
		s.reject(w, http.StatusConflict, submit.ReasonDuplicateHash,
			"this session was already submitted")
		return
	}

	stats := payload.SessionData.Stats
	entry := storage.LeaderboardEntry{
		UserID:      payload.UserID,
		Initials:    payload.Initials,
		SessionHash: computed,
		Stage:       payload.SessionData.Stage,
		WPM:         stats.WPM,
		Accuracy:    stats.Accuracy * 100,
	}
	if _, err := s.store.SaveLeaderboardEntry(entry); err != nil {
		s.logger.Error("cannot store entry", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	s.logger.Info("score accepted",
		"initials", entry.Initials,
		"wpm", fmt.Sprintf("%.1f", entry.WPM),
		"stage", entry.Stage,
		"hash", computed[:8],
	)
	s.hub.Broadcast(entry)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(submit.Ack{Message: "accepted"})
}

func (s *Server) handleTop(w http.ResponseWriter, r *http.Request) {
	limit := s.cfg.TopN
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}

	entries, err := s.store.TopLeaderboard(limit)
	if err != nil {
		s.logger.Error("cannot query leaderboard", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if entries == nil {
		entries = []storage.LeaderboardEntry{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(entries)
}

// validatePayload checks structure and sanity bounds. Returns an empty
// string when the payload is acceptable.
func validatePayload(p submit.Payload) string {
	if p.SessionData == nil {
		return "missing sessionData"
	}
	if p.SessionHash == "" {
		return "missing sessionHash"
	}
	if p.UserID == "" {
		return "missing userId"
	}
	if !session.ValidToken(p.UserID) {
		return "userId must be a UUIDv4"
	}
	if _, err := submit.NormalizeInitials(p.Initials); err != nil || p.Initials != strings.ToUpper(p.Initials) {
		return "initials must be exactly three uppercase letters"
	}

	snap := p.SessionData
	if len(snap.Words) == 0 {
		return "session has no words"
	}
	if len(snap.Keystrokes) == 0 {
		return "session has no keystrokes"
	}
	if snap.Stage < 1 {
		return "stage must be at least 1"
	}
	if snap.Stats.WPM < 0 || snap.Stats.WPM > maxWPM {
		return fmt.Sprintf("wpm out of range (0-%.0f)", maxWPM)
	}
	acc := snap.Stats.Accuracy * 100
	if acc < 0 || acc > maxAccuracy {
		return fmt.Sprintf("accuracy out of range (0-%.0f)", maxAccuracy)
	}
	return ""
}
