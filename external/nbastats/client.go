package nbastats

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/hooplabs/nba-sync/internal/platform/logging"
	"github.com/hooplabs/nba-sync/internal/platform/resilience"
	"github.com/hooplabs/nba-sync/internal/usecase"
)

const (
	defaultBaseURL = "https://stats.nbaupstream.example.com/v1"
	maxBodyBytes   = 6 << 20
)

var errTransient = crerr.New("stats provider transient failure")

var _ usecase.StatsProvider = (*Client)(nil)

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	APIKey         string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client talks to the upstream stats API. It implements
// usecase.StatsProvider.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	apiKey         string
	maxRetries     int
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 20 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		apiKey:         strings.TrimSpace(cfg.APIKey),
		maxRetries:     cfg.MaxRetries,
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

type scoreboardEnvelope struct {
	GameDate   string           `json:"game_date"`
	GameHeader []usecase.Record `json:"game_header"`
	LineScore  []usecase.Record `json:"line_score"`
}

func (c *Client) FetchScoreboard(ctx context.Context, date string) (usecase.ScoreboardPayload, error) {
	var envelope scoreboardEnvelope
	err := c.doJSON(ctx, "/scoreboard", map[string]string{"game_date": date}, &envelope)
	if err != nil {
		return usecase.ScoreboardPayload{}, fmt.Errorf("fetch scoreboard date=%s: %w", date, err)
	}

	return usecase.ScoreboardPayload{
		GameDate:   envelope.GameDate,
		GameHeader: envelope.GameHeader,
		LineScore:  envelope.LineScore,
	}, nil
}

type scheduleEnvelope struct {
	Games []struct {
		GameID           string `json:"game_id"`
		StartTimeUTC     string `json:"start_time_utc"`
		StartDateEastern string `json:"start_date_eastern"`
		StartTimeEastern string `json:"start_time_eastern"`
	} `json:"games"`
}

func (c *Client) FetchSchedule(ctx context.Context, from, to string) ([]usecase.ScheduleGame, error) {
	var envelope scheduleEnvelope
	err := c.doJSON(ctx, "/schedule", map[string]string{"from": from, "to": to}, &envelope)
	if err != nil {
		return nil, fmt.Errorf("fetch schedule from=%s to=%s: %w", from, to, err)
	}

	out := make([]usecase.ScheduleGame, 0, len(envelope.Games))
	for _, g := range envelope.Games {
		out = append(out, usecase.ScheduleGame{
			GameID:           g.GameID,
			StartTimeUTC:     g.StartTimeUTC,
			StartDateEastern: g.StartDateEastern,
			StartTimeEastern: g.StartTimeEastern,
		})
	}
	return out, nil
}

type boxScoreEnvelope struct {
	GameID      string           `json:"game_id"`
	TeamStats   []usecase.Record `json:"team_stats"`
	PlayerStats []usecase.Record `json:"player_stats"`
}

func (c *Client) FetchBoxScoreTraditional(ctx context.Context, gameID string) (usecase.BoxScorePayload, error) {
	return c.fetchBoxScore(ctx, "/boxscore/traditional", gameID)
}

func (c *Client) FetchBoxScoreAdvanced(ctx context.Context, gameID string) (usecase.BoxScorePayload, error) {
	return c.fetchBoxScore(ctx, "/boxscore/advanced", gameID)
}

func (c *Client) fetchBoxScore(ctx context.Context, path, gameID string) (usecase.BoxScorePayload, error) {
	var envelope boxScoreEnvelope
	err := c.doJSON(ctx, path, map[string]string{"game_id": gameID}, &envelope)
	if err != nil {
		return usecase.BoxScorePayload{}, fmt.Errorf("fetch box score path=%s game_id=%s: %w", path, gameID, err)
	}

	return usecase.BoxScorePayload{
		GameID:      envelope.GameID,
		TeamStats:   envelope.TeamStats,
		PlayerStats: envelope.PlayerStats,
	}, nil
}

type playersEnvelope struct {
	Players []usecase.Record `json:"players"`
}

func (c *Client) FetchAllPlayers(ctx context.Context, seasonLabel string, currentOnly bool) ([]usecase.Record, error) {
	query := map[string]string{"season": seasonLabel}
	if currentOnly {
		query["current_only"] = "1"
	}

	var envelope playersEnvelope
	if err := c.doJSON(ctx, "/players/all", query, &envelope); err != nil {
		return nil, fmt.Errorf("fetch players season=%s: %w", seasonLabel, err)
	}
	return envelope.Players, nil
}

type playerInfoEnvelope struct {
	PlayerInfo []usecase.Record `json:"player_info"`
}

func (c *Client) FetchPlayerInfo(ctx context.Context, playerID string) ([]usecase.Record, error) {
	var envelope playerInfoEnvelope
	if err := c.doJSON(ctx, "/players/info", map[string]string{"player_id": playerID}, &envelope); err != nil {
		return nil, fmt.Errorf("fetch player info player_id=%s: %w", playerID, err)
	}
	return envelope.PlayerInfo, nil
}

type rosterEnvelope struct {
	Roster []usecase.Record `json:"roster"`
}

func (c *Client) FetchTeamRoster(ctx context.Context, teamID, seasonLabel string) ([]usecase.Record, error) {
	var envelope rosterEnvelope
	err := c.doJSON(ctx, "/teams/roster", map[string]string{"team_id": teamID, "season": seasonLabel}, &envelope)
	if err != nil {
		return nil, fmt.Errorf("fetch roster team_id=%s season=%s: %w", teamID, seasonLabel, err)
	}
	return envelope.Roster, nil
}

type injuryReportEnvelope struct {
	Report struct {
		SourceURL  string `json:"source_url"`
		ReportDate string `json:"report_date"`
		ReportTime string `json:"report_time"`
	} `json:"report"`
	Entries []usecase.Record `json:"entries"`
}

func (c *Client) FetchInjuryReport(ctx context.Context) (usecase.InjuryReportPayload, error) {
	var envelope injuryReportEnvelope
	if err := c.doJSON(ctx, "/injury-report/latest", nil, &envelope); err != nil {
		return usecase.InjuryReportPayload{}, fmt.Errorf("fetch injury report: %w", err)
	}

	return usecase.InjuryReportPayload{
		SourceURL:  envelope.Report.SourceURL,
		ReportDate: envelope.Report.ReportDate,
		ReportTime: envelope.Report.ReportTime,
		Entries:    envelope.Entries,
	}, nil
}

func (c *Client) doJSON(ctx context.Context, path string, query map[string]string, target any) error {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "stats provider circuit breaker rejected request", "state", c.breaker.State())
			return fmt.Errorf("%w: stats provider is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	values := url.Values{}
	for key, value := range query {
		values.Set(key, value)
	}

	fullURL := c.baseURL + path
	if encoded := values.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	out, err, _ := c.flight.Do(fullURL, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, fullURL)
		if c.circuitEnabled {
			if reqErr != nil && crerr.Is(reqErr, errTransient) {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return raw, reqErr
	})
	if err != nil {
		return err
	}

	raw, ok := out.([]byte)
	if !ok {
		return fmt.Errorf("unexpected response payload type %T", out)
	}
	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode provider payload: %w", err)
	}

	return nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("accept", "application/json")
		if c.apiKey != "" {
			req.Header.Set("x-api-key", c.apiKey)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %v", errTransient, err)
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
			_ = resp.Body.Close()
			switch {
			case readErr != nil:
				lastErr = fmt.Errorf("%w: read response body: %v", errTransient, readErr)
			case resp.StatusCode >= 200 && resp.StatusCode < 300:
				return raw, nil
			case resp.StatusCode == http.StatusNotFound:
				return nil, fmt.Errorf("%w: provider status=404 body=%s", usecase.ErrNotFound, abbreviateBody(raw))
			case isRetryableStatus(resp.StatusCode):
				lastErr = fmt.Errorf("%w: provider status=%d body=%s", errTransient, resp.StatusCode, abbreviateBody(raw))
			default:
				return nil, fmt.Errorf("provider status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
			}
		}

		if attempt == c.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * time.Second
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("provider request failed")
	}
	c.logger.WarnContext(ctx, "stats provider request failed", "url", fullURL, "error", lastErr)
	return nil, lastErr
}

func isRetryableStatus(code int) bool {
	switch code {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}

func abbreviateBody(raw []byte) string {
	body := strings.TrimSpace(string(raw))
	if len(body) > 256 {
		body = body[:256] + "..."
	}
	return body
}
