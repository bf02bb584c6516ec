package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/hooplabs/nba-sync/internal/domain/injury"
	qb "github.com/hooplabs/nba-sync/internal/platform/querybuilder"
)

type InjuryRepository struct {
	db *sqlx.DB
}

func NewInjuryRepository(db *sqlx.DB) *InjuryRepository {
	return &InjuryRepository{db: db}
}

func (r *InjuryRepository) UpsertReport(ctx context.Context, report injury.Report) (int64, error) {
	if err := report.Validate(); err != nil {
		return 0, err
	}

	insertModel := injuryReportInsertModel{
		SourceURL:  report.SourceURL,
		ReportDate: report.ReportDate,
		ReportTime: report.ReportTime,
		FetchedAt:  report.FetchedAt.UTC(),
	}
	query, args, err := qb.InsertModel("injury_reports", insertModel, `ON CONFLICT (source_url)
DO UPDATE SET report_date = EXCLUDED.report_date,
	report_time = EXCLUDED.report_time,
	fetched_at = EXCLUDED.fetched_at
RETURNING id`)
	if err != nil {
		return 0, fmt.Errorf("build upsert injury report query: %w", err)
	}

	var id int64
	if err := r.db.GetContext(ctx, &id, query, args...); err != nil {
		return 0, fmt.Errorf("upsert injury report source_url=%s: %w", report.SourceURL, err)
	}

	return id, nil
}

func (r *InjuryRepository) UpsertEntry(ctx context.Context, e injury.Entry) (int64, error) {
	if err := e.Validate(); err != nil {
		return 0, err
	}

	insertModel := injuryEntryInsertModel{
		ReportID:   e.ReportID,
		GameDate:   e.GameDate,
		GameTime:   e.GameTime,
		Matchup:    e.Matchup,
		TeamAbbrev: e.TeamAbbrev,
		PlayerName: e.PlayerName,
		TeamID:     int64PtrToNullInt64(e.TeamID),
		PlayerID:   int64PtrToNullInt64(e.PlayerID),
		Status:     e.Status,
		Reason:     e.Reason,
	}
	query, args, err := qb.InsertModel("injury_entries", insertModel, `ON CONFLICT (report_id, team_abbrev, player_name, matchup, game_date, game_time)
DO UPDATE SET team_id = COALESCE(EXCLUDED.team_id, injury_entries.team_id),
	player_id = COALESCE(EXCLUDED.player_id, injury_entries.player_id),
	status = EXCLUDED.status,
	reason = EXCLUDED.reason,
	updated_at = NOW()
RETURNING id`)
	if err != nil {
		return 0, fmt.Errorf("build upsert injury entry query: %w", err)
	}

	var id int64
	if err := r.db.GetContext(ctx, &id, query, args...); err != nil {
		return 0, fmt.Errorf("upsert injury entry player=%s: %w", e.PlayerName, err)
	}

	return id, nil
}

func (r *InjuryRepository) GetReportBySourceURL(ctx context.Context, sourceURL string) (injury.Report, bool, error) {
	query, args, err := qb.Select("*").From("injury_reports").
		Where(qb.Eq("source_url", sourceURL)).
		ToSQL()
	if err != nil {
		return injury.Report{}, false, fmt.Errorf("build select injury report query: %w", err)
	}

	var row injuryReportTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return injury.Report{}, false, nil
		}
		return injury.Report{}, false, fmt.Errorf("select injury report source_url=%s: %w", sourceURL, err)
	}

	return mapInjuryReportRow(row), true, nil
}

func (r *InjuryRepository) ListEntriesByReport(ctx context.Context, reportID int64) ([]injury.Entry, error) {
	return r.listEntries(ctx, qb.Eq("report_id", reportID))
}

func (r *InjuryRepository) ListEntriesByPlayer(ctx context.Context, playerID int64) ([]injury.Entry, error) {
	return r.listEntries(ctx, qb.Eq("player_id", playerID))
}

func (r *InjuryRepository) listEntries(ctx context.Context, cond qb.Condition) ([]injury.Entry, error) {
	query, args, err := qb.Select("*").From("injury_entries").
		Where(cond).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select injury entries query: %w", err)
	}

	var rows []injuryEntryTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select injury entries: %w", err)
	}

	out := make([]injury.Entry, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapInjuryEntryRow(row))
	}

	return out, nil
}
