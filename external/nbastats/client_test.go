package nbastats

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hooplabs/nba-sync/internal/platform/logging"
	"github.com/hooplabs/nba-sync/internal/platform/resilience"
	"github.com/hooplabs/nba-sync/internal/usecase"
)

func TestFetchScoreboardDecodesPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/scoreboard" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("game_date"); got != "2026-02-06" {
			t.Errorf("unexpected game_date %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"game_date": "2026-02-06",
			"game_header": [{"GAME_ID": "0022600789", "GAME_STATUS_TEXT": "7:30 pm ET"}],
			"line_score": [{"GAME_ID": "0022600789", "TEAM_ID": 1610612747, "PTS": 112}]
		}`))
	}))
	defer server.Close()

	client := NewClient(ClientConfig{
		HTTPClient: server.Client(),
		BaseURL:    server.URL,
		Logger:     logging.NewNop(),
	})

	board, err := client.FetchScoreboard(context.Background(), "2026-02-06")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if board.GameDate != "2026-02-06" {
		t.Fatalf("game date = %q", board.GameDate)
	}
	if len(board.GameHeader) != 1 || len(board.LineScore) != 1 {
		t.Fatalf("unexpected payload sizes: headers=%d lines=%d", len(board.GameHeader), len(board.LineScore))
	}
	if got := usecase.PickString(board.GameHeader[0], "GAME_ID"); got != "0022600789" {
		t.Fatalf("header GAME_ID = %q", got)
	}
}

func TestFetchBoxScoreNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "box score not published", http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(ClientConfig{
		HTTPClient: server.Client(),
		BaseURL:    server.URL,
		Logger:     logging.NewNop(),
	})

	_, err := client.FetchBoxScoreTraditional(context.Background(), "0022600789")
	if !errors.Is(err, usecase.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestExecuteRequestRetriesRetryableStatus(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			http.Error(w, "busy", http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"games": [{"game_id": "0022600789", "start_time_utc": "2026-02-07T00:30:00Z"}]}`))
	}))
	defer server.Close()

	client := NewClient(ClientConfig{
		HTTPClient: server.Client(),
		BaseURL:    server.URL,
		MaxRetries: 2,
		Logger:     logging.NewNop(),
	})

	games, err := client.FetchSchedule(context.Background(), "2026-02-06", "2026-02-06")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls.Load() != 2 {
		t.Fatalf("expected one retry, got %d calls", calls.Load())
	}
	if len(games) != 1 || games[0].StartTimeUTC != "2026-02-07T00:30:00Z" {
		t.Fatalf("unexpected schedule payload: %+v", games)
	}
}

func TestExecuteRequestDoesNotRetryBadRequest(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "bad input", http.StatusBadRequest)
	}))
	defer server.Close()

	client := NewClient(ClientConfig{
		HTTPClient: server.Client(),
		BaseURL:    server.URL,
		MaxRetries: 3,
		Logger:     logging.NewNop(),
	})

	_, err := client.FetchAllPlayers(context.Background(), "2025-26", true)
	if err == nil {
		t.Fatal("expected error")
	}
	if calls.Load() != 1 {
		t.Fatalf("expected a single call, got %d", calls.Load())
	}
}

func TestCircuitBreakerShedsAfterFailures(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(ClientConfig{
		HTTPClient: server.Client(),
		BaseURL:    server.URL,
		Logger:     logging.NewNop(),
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          true,
			FailureThreshold: 1,
			OpenTimeout:      time.Minute,
			HalfOpenMaxReq:   1,
		},
	})

	ctx := context.Background()
	_, err := client.FetchInjuryReport(ctx)
	if err == nil {
		t.Fatal("expected failure while provider is down")
	}

	_, err = client.FetchInjuryReport(ctx)
	if !errors.Is(err, usecase.ErrDependencyUnavailable) {
		t.Fatalf("expected circuit rejection, got %v", err)
	}
}
