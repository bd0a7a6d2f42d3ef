// Package rankinghandlers exposes the ranking module over HTTP.
package rankinghandlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	rankingservice "github.com/Riverside-Racquet-Club/ladder-backend/app/modules/ranking/application"
	rankingdomain "github.com/Riverside-Racquet-Club/ladder-backend/app/modules/ranking/domain"
	rankingdb "github.com/Riverside-Racquet-Club/ladder-backend/app/modules/ranking/infrastructure/repositories"
)

// Handlers serves the ranking module's HTTP API.
type Handlers struct {
	service rankingservice.Service
	logger  *slog.Logger
}

// NewHandlers creates the HTTP handler set.
func NewHandlers(service rankingservice.Service, logger *slog.Logger) *Handlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handlers{service: service, logger: logger}
}

type windowStateResponse struct {
	Phase        string     `json:"phase"`
	Allowed      bool       `json:"allowed"`
	RequiresBlue bool       `json:"requires_blue"`
	UnlockAt     *time.Time `json:"unlock_at,omitempty"`
	Message      string     `json:"message"`
}

type closeRoundRequest struct {
	ActorID            uuid.UUID         `json:"actor_id"`
	PersistMemberships bool              `json:"persist_memberships"`
	CloseStatus        bool              `json:"close_status"`
	ManualOrder        map[int]uuid.UUID `json:"manual_order,omitempty"`
}

type rolloverRequest struct {
	ActorID     uuid.UUID `json:"actor_id"`
	TargetMonth string    `json:"target_month,omitempty"`
	IncludeAll  bool      `json:"include_all"`
}

// GetWindowState reports whether challenges may be created right now. The
// optional `at` query parameter (RFC 3339) evaluates the window at another
// instant.
func (h *Handlers) GetWindowState(w http.ResponseWriter, r *http.Request) {
	rankingID, ok := h.rankingID(w, r)
	if !ok {
		return
	}

	now := time.Now()
	if at := r.URL.Query().Get("at"); at != "" {
		parsed, err := time.Parse(time.RFC3339, at)
		if err != nil {
			http.Error(w, "Invalid at parameter, want RFC 3339", http.StatusBadRequest)
			return
		}
		now = parsed
	}

	state, err := h.service.WindowStateFor(r.Context(), rankingID, now)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, windowStateResponse{
		Phase:        string(state.Phase),
		Allowed:      state.Allowed,
		RequiresBlue: state.RequiresBlue,
		UnlockAt:     state.UnlockAt,
		Message:      state.Message,
	})
}

// GetLadder returns the current ladder ordered by position.
func (h *Handlers) GetLadder(w http.ResponseWriter, r *http.Request) {
	rankingID, ok := h.rankingID(w, r)
	if !ok {
		return
	}

	rows, err := h.service.Ladder(r.Context(), rankingID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, rows)
}

// CloseRound runs a close attempt for the month in the URL. Violations come
// back with 409 and the full report, so the caller sees every problem at once.
func (h *Handlers) CloseRound(w http.ResponseWriter, r *http.Request) {
	rankingID, ok := h.rankingID(w, r)
	if !ok {
		return
	}
	month, err := rankingdomain.ParseReferenceMonth(chi.URLParam(r, "month"))
	if err != nil {
		http.Error(w, "Invalid reference month", http.StatusBadRequest)
		return
	}

	var req closeRoundRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Failed to decode request body: %v", err), http.StatusBadRequest)
		return
	}

	result, err := h.service.CloseRound(r.Context(), rankingservice.CloseRoundInput{
		RankingID:          rankingID,
		ReferenceMonth:     month,
		ActorID:            req.ActorID,
		PersistMemberships: req.PersistMemberships,
		CloseStatus:        req.CloseStatus,
		ManualOrder:        req.ManualOrder,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	status := http.StatusOK
	if !result.OK() {
		status = http.StatusConflict
	}
	h.writeJSON(w, status, result)
}

// RolloverRound closes the month in the URL and opens the next round.
func (h *Handlers) RolloverRound(w http.ResponseWriter, r *http.Request) {
	rankingID, ok := h.rankingID(w, r)
	if !ok {
		return
	}
	month, err := rankingdomain.ParseReferenceMonth(chi.URLParam(r, "month"))
	if err != nil {
		http.Error(w, "Invalid reference month", http.StatusBadRequest)
		return
	}

	var req rolloverRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Failed to decode request body: %v", err), http.StatusBadRequest)
		return
	}

	input := rankingservice.RolloverInput{
		RankingID:      rankingID,
		ReferenceMonth: month,
		ActorID:        req.ActorID,
		IncludeAll:     req.IncludeAll,
	}
	if req.TargetMonth != "" {
		target, err := rankingdomain.ParseReferenceMonth(req.TargetMonth)
		if err != nil {
			http.Error(w, "Invalid target month", http.StatusBadRequest)
			return
		}
		input.TargetMonth = target
	}

	result, err := h.service.RolloverRound(r.Context(), input)
	if err != nil {
		if errors.Is(err, rankingservice.ErrCloseRejected) {
			h.writeJSON(w, http.StatusConflict, result)
			return
		}
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, result)
}

// rankingID resolves the {rankingID} URL segment, accepting a UUID or a slug.
func (h *Handlers) rankingID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	ref := chi.URLParam(r, "rankingID")
	id, err := h.service.ResolveRankingID(r.Context(), ref)
	if err != nil {
		h.writeError(w, r, err)
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handlers) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("Failed to encode response", slog.Any("error", err))
	}
}

func (h *Handlers) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, rankingdb.ErrRankingNotFound), errors.Is(err, rankingdb.ErrRoundNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, rankingservice.ErrInvalidReferenceMonth),
		errors.Is(err, rankingservice.ErrInvalidManualOrder):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		h.logger.Error("Request failed",
			slog.String("path", r.URL.Path),
			slog.Any("error", err),
		)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// Routes mounts the module's routes. Mutating endpoints sit behind the rate
// limiter.
func Routes(h *Handlers, limiter *ClientRateLimiter) chi.Router {
	r := chi.NewRouter()
	r.Get("/{rankingID}/window", h.GetWindowState)
	r.Get("/{rankingID}/ladder", h.GetLadder)
	r.Group(func(r chi.Router) {
		if limiter != nil {
			r.Use(RateLimit(limiter))
		}
		r.Post("/{rankingID}/rounds/{month}/close", h.CloseRound)
		r.Post("/{rankingID}/rounds/{month}/rollover", h.RolloverRound)
	})
	return r
}
