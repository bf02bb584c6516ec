package injury

import "context"

// Repository describes injury report persistence needs from use cases.
type Repository interface {
	// UpsertReport inserts or refreshes a report by source URL and returns
	// the internal id.
	UpsertReport(ctx context.Context, r Report) (int64, error)
	// UpsertEntry inserts or refreshes an entry by its natural key within
	// the report (team abbrev, player name, matchup, game date and time).
	UpsertEntry(ctx context.Context, e Entry) (int64, error)
	GetReportBySourceURL(ctx context.Context, sourceURL string) (Report, bool, error)
	ListEntriesByReport(ctx context.Context, reportID int64) ([]Entry, error)
	ListEntriesByPlayer(ctx context.Context, playerID int64) ([]Entry, error)
}
