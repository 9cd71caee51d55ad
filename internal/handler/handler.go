package handler

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ajaysvasan/neurolearn/internal/analysis"
	"github.com/ajaysvasan/neurolearn/internal/feedback"
	"github.com/ajaysvasan/neurolearn/internal/model"
	"github.com/ajaysvasan/neurolearn/internal/store"
)

// Handler holds shared dependencies for HTTP handlers.
type Handler struct {
	store    *store.Store
	feedback *feedback.Client
}

// New creates a new Handler. The feedback client may be nil, in which case
// submissions get templated feedback only.
func New(s *store.Store, f *feedback.Client) (*Handler, error) {
	return &Handler{store: s, feedback: f}, nil
}

// Routes registers all HTTP routes.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/api/tests", h.handleSubmitTest)
	r.Get("/api/tests", h.handleListTests)
	r.Get("/api/tests/{sessionID}", h.handleGetTest)
}

// SubmitRequest is one inbound test submission.
type SubmitRequest struct {
	Source     string                `json:"source"`
	Difficulty model.Difficulty      `json:"difficulty"`
	Attempts   []model.AttemptRecord `json:"attempts"`
}

// SubmitResponse returns the stored session ID with the full analysis.
type SubmitResponse struct {
	SessionID int64            `json:"session_id"`
	Report    *analysis.Report `json:"report"`
	Feedback  string           `json:"feedback"`
}

func (h *Handler) handleSubmitTest(w http.ResponseWriter, r *http.Request) {
	var req SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if len(req.Attempts) == 0 {
		http.Error(w, "no attempts in submission", http.StatusBadRequest)
		return
	}

	attempts := make([]model.Attempt, 0, len(req.Attempts))
	for i, rec := range req.Attempts {
		a, err := rec.Normalize(i)
		if err != nil {
			// Bad records degrade rather than failing the batch.
			slog.Warn("malformed attempt record", "error", err)
		}
		attempts = append(attempts, a)
	}

	// One analyzer per submission: the topic cache is not safe to share.
	rep, err := analysis.New().Analyze(attempts)
	if err != nil {
		if errors.Is(err, analysis.ErrNoAttempts) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	fb := h.feedback.Generate(r.Context(), rep)

	sess := model.TestSession{
		Source:       req.Source,
		Difficulty:   req.Difficulty,
		ScorePercent: rep.MarkingSummary.PercentageScore,
	}
	if sess.Difficulty == "" {
		sess.Difficulty = model.DifficultyMedium
	}
	if rep.Grade != nil {
		sess.LetterGrade = rep.Grade.LetterGrade
	}

	sessionID, err := h.store.CreateSession(sess, attempts, rep)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusCreated, SubmitResponse{
		SessionID: sessionID,
		Report:    rep,
		Feedback:  fb,
	})
}

func (h *Handler) handleListTests(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.store.ListSessions()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if sessions == nil {
		sessions = []model.TestSession{}
	}
	respondJSON(w, http.StatusOK, sessions)
}

// TestDetail is the full stored view of one session.
type TestDetail struct {
	Session  model.TestSession `json:"session"`
	Attempts []model.Attempt   `json:"attempts"`
	Report   json.RawMessage   `json:"report"`
}

func (h *Handler) handleGetTest(w http.ResponseWriter, r *http.Request) {
	sessionID, err := strconv.ParseInt(chi.URLParam(r, "sessionID"), 10, 64)
	if err != nil {
		http.Error(w, "invalid session ID", http.StatusBadRequest)
		return
	}

	sess, err := h.store.GetSession(sessionID)
	if err == sql.ErrNoRows {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	attempts, err := h.store.GetAttempts(sessionID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	report, err := h.store.GetReport(sessionID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, TestDetail{
		Session:  sess,
		Attempts: attempts,
		Report:   report,
	})
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}
