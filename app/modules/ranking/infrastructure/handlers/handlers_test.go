package rankinghandlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	rankingservice "github.com/Riverside-Racquet-Club/ladder-backend/app/modules/ranking/application"
	rankingdomain "github.com/Riverside-Racquet-Club/ladder-backend/app/modules/ranking/domain"
)

func newTestRouter(svc rankingservice.Service, limiter *ClientRateLimiter) http.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return Routes(NewHandlers(svc, logger), limiter)
}

func TestGetWindowState(t *testing.T) {
	rankingID := uuid.New()
	unlock := time.Date(2026, time.March, 2, 7, 0, 0, 0, time.UTC)

	svc := &FakeService{
		WindowStateForFunc: func(ctx context.Context, id uuid.UUID, now time.Time) (rankingdomain.WindowState, error) {
			if id != rankingID {
				t.Errorf("ranking id = %s, want %s", id, rankingID)
			}
			return rankingdomain.WindowState{
				Phase:    rankingdomain.PhaseWaitingOpen,
				UnlockAt: &unlock,
				Message:  "Open challenges start Mon 2 Mar 07:00.",
			}, nil
		},
	}
	router := newTestRouter(svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/"+rankingID.String()+"/window", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp windowStateResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Phase != string(rankingdomain.PhaseWaitingOpen) {
		t.Errorf("phase = %q, want waiting_open", resp.Phase)
	}
	if resp.Allowed {
		t.Error("challenges must not be allowed while waiting")
	}
	if resp.UnlockAt == nil || !resp.UnlockAt.Equal(unlock) {
		t.Errorf("unlock = %v, want %v", resp.UnlockAt, unlock)
	}
}

func TestGetWindowStateAtInstant(t *testing.T) {
	rankingID := uuid.New()
	at := time.Date(2026, time.March, 10, 18, 30, 0, 0, time.UTC)

	var got time.Time
	svc := &FakeService{
		WindowStateForFunc: func(ctx context.Context, id uuid.UUID, now time.Time) (rankingdomain.WindowState, error) {
			got = now
			return rankingdomain.WindowState{Phase: rankingdomain.PhaseOpen, Allowed: true}, nil
		},
	}
	router := newTestRouter(svc, nil)

	url := fmt.Sprintf("/%s/window?at=%s", rankingID, at.Format(time.RFC3339))
	req := httptest.NewRequest(http.MethodGet, url, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !got.Equal(at) {
		t.Errorf("evaluated at %v, want %v", got, at)
	}

	req = httptest.NewRequest(http.MethodGet, "/"+rankingID.String()+"/window?at=yesterday", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad at parameter: status = %d, want 400", rec.Code)
	}
}

func TestGetLadder(t *testing.T) {
	rankingID := uuid.New()
	svc := &FakeService{
		LadderFunc: func(ctx context.Context, id uuid.UUID) ([]rankingservice.LadderRow, error) {
			return []rankingservice.LadderRow{
				{Position: 1, PlayerID: uuid.New(), Points: 12},
				{Position: 2, PlayerID: uuid.New(), Points: 7},
			}, nil
		},
	}
	router := newTestRouter(svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/"+rankingID.String()+"/ladder", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var rows []rankingservice.LadderRow
	if err := json.NewDecoder(rec.Body).Decode(&rows); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(rows) != 2 || rows[0].Position != 1 {
		t.Errorf("rows = %+v", rows)
	}
}

func TestGetLadderUnknownRanking(t *testing.T) {
	router := newTestRouter(&FakeService{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/no-such-ladder/ladder", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestCloseRoundEndpoint(t *testing.T) {
	rankingID := uuid.New()
	actorID := uuid.New()

	var got rankingservice.CloseRoundInput
	svc := &FakeService{
		CloseRoundFunc: func(ctx context.Context, input rankingservice.CloseRoundInput) (rankingservice.CloseRoundResult, error) {
			got = input
			return rankingservice.CloseRoundResult{Persisted: input.PersistMemberships}, nil
		},
	}
	router := newTestRouter(svc, nil)

	body := fmt.Sprintf(`{"actor_id":%q,"persist_memberships":true,"close_status":true}`, actorID)
	req := httptest.NewRequest(http.MethodPost, "/"+rankingID.String()+"/rounds/2026-03/close", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}
	if !got.ReferenceMonth.Equal(time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("month = %v, want March 2026", got.ReferenceMonth)
	}
	if got.ActorID != actorID || !got.PersistMemberships || !got.CloseStatus {
		t.Errorf("input = %+v", got)
	}
}

func TestCloseRoundEndpointViolations(t *testing.T) {
	rankingID := uuid.New()
	svc := &FakeService{
		CloseRoundFunc: func(ctx context.Context, input rankingservice.CloseRoundInput) (rankingservice.CloseRoundResult, error) {
			return rankingservice.CloseRoundResult{
				Violations: []rankingservice.Violation{{ChallengeID: uuid.New(), Reason: "climb of 9 exceeds limit 2"}},
			}, nil
		},
	}
	router := newTestRouter(svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/"+rankingID.String()+"/rounds/2026-03/close", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
	var result rankingservice.CloseRoundResult
	if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(result.Violations) != 1 {
		t.Errorf("violations = %+v, want one", result.Violations)
	}
}

func TestCloseRoundEndpointBadMonth(t *testing.T) {
	router := newTestRouter(&FakeService{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/"+uuid.New().String()+"/rounds/march/close", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestRolloverEndpointRejected(t *testing.T) {
	rankingID := uuid.New()
	svc := &FakeService{
		RolloverRoundFunc: func(ctx context.Context, input rankingservice.RolloverInput) (rankingservice.CloseRoundResult, error) {
			result := rankingservice.CloseRoundResult{
				Violations: []rankingservice.Violation{{ChallengeID: uuid.New(), Reason: "participant is suspended"}},
			}
			return result, fmt.Errorf("%w: 1 violations", rankingservice.ErrCloseRejected)
		},
	}
	router := newTestRouter(svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/"+rankingID.String()+"/rounds/2026-03/rollover", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
}

func TestRolloverEndpointTargetMonth(t *testing.T) {
	rankingID := uuid.New()
	var got rankingservice.RolloverInput
	svc := &FakeService{
		RolloverRoundFunc: func(ctx context.Context, input rankingservice.RolloverInput) (rankingservice.CloseRoundResult, error) {
			got = input
			return rankingservice.CloseRoundResult{Persisted: true}, nil
		},
	}
	router := newTestRouter(svc, nil)

	body := `{"target_month":"2026-06","include_all":true}`
	req := httptest.NewRequest(http.MethodPost, "/"+rankingID.String()+"/rounds/2026-03/rollover", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !got.TargetMonth.Equal(time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("target month = %v, want June 2026", got.TargetMonth)
	}
	if !got.IncludeAll {
		t.Error("include_all not forwarded")
	}
}

func TestMutatingRoutesAreRateLimited(t *testing.T) {
	rankingID := uuid.New()
	limiter := NewClientRateLimiter(rate.Limit(1), 1)
	router := newTestRouter(&FakeService{}, limiter)

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/"+rankingID.String()+"/rounds/2026-03/close", strings.NewReader(`{}`))
		req.RemoteAddr = "203.0.113.7:1234"
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if i == 0 && rec.Code != http.StatusOK {
			t.Fatalf("first request status = %d, want 200", rec.Code)
		}
		if i == 1 && rec.Code != http.StatusTooManyRequests {
			t.Fatalf("second request status = %d, want 429", rec.Code)
		}
	}

	// Reads stay unthrottled.
	req := httptest.NewRequest(http.MethodGet, "/"+rankingID.String()+"/ladder", nil)
	req.RemoteAddr = "203.0.113.7:1234"
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("read status = %d, want 200", rec.Code)
	}
}
