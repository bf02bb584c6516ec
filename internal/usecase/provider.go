package usecase

import "context"

// Record is one loosely-typed row from a provider payload. Upstream key
// casing is inconsistent across endpoints, so rows stay generic until a
// pipeline normalizes them.
type Record = map[string]any

// ScoreboardPayload is the provider's daily scoreboard: game headers plus
// per-team line scores.
type ScoreboardPayload struct {
	GameDate   string
	GameHeader []Record
	LineScore  []Record
}

// ScheduleGame is one scheduled game with a confirmed tipoff instant.
type ScheduleGame struct {
	GameID           string
	StartTimeUTC     string
	StartDateEastern string
	StartTimeEastern string
}

// BoxScorePayload carries team and player lines for one game. The
// advanced feed only populates TeamStats.
type BoxScorePayload struct {
	GameID      string
	TeamStats   []Record
	PlayerStats []Record
}

// InjuryReportPayload is one published report document with its entries.
type InjuryReportPayload struct {
	SourceURL  string
	ReportDate string
	ReportTime string
	Entries    []Record
}

// StatsProvider is everything the sync pipelines need from the upstream
// stats API.
type StatsProvider interface {
	FetchScoreboard(ctx context.Context, date string) (ScoreboardPayload, error)
	FetchSchedule(ctx context.Context, from, to string) ([]ScheduleGame, error)
	FetchBoxScoreTraditional(ctx context.Context, gameID string) (BoxScorePayload, error)
	FetchBoxScoreAdvanced(ctx context.Context, gameID string) (BoxScorePayload, error)
	FetchAllPlayers(ctx context.Context, seasonLabel string, currentOnly bool) ([]Record, error)
	FetchPlayerInfo(ctx context.Context, playerID string) ([]Record, error)
	FetchTeamRoster(ctx context.Context, teamID, seasonLabel string) ([]Record, error)
	FetchInjuryReport(ctx context.Context) (InjuryReportPayload, error)
}
