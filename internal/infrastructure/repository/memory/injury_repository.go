package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/hooplabs/nba-sync/internal/domain/injury"
)

type InjuryRepository struct {
	mu      sync.RWMutex
	nextID  int64
	reports map[int64]injury.Report
	entries map[int64]injury.Entry
}

func NewInjuryRepository() *InjuryRepository {
	return &InjuryRepository{
		reports: make(map[int64]injury.Report),
		entries: make(map[int64]injury.Entry),
	}
}

func (r *InjuryRepository) UpsertReport(_ context.Context, report injury.Report) (int64, error) {
	if err := report.Validate(); err != nil {
		return 0, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	for id, existing := range r.reports {
		if existing.SourceURL == report.SourceURL {
			report.ID = id
			report.CreatedAt = existing.CreatedAt
			r.reports[id] = report
			return id, nil
		}
	}

	r.nextID++
	report.ID = r.nextID
	report.CreatedAt = now
	r.reports[report.ID] = report

	return report.ID, nil
}

func (r *InjuryRepository) UpsertEntry(_ context.Context, e injury.Entry) (int64, error) {
	if err := e.Validate(); err != nil {
		return 0, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	for id, existing := range r.entries {
		if existing.ReportID == e.ReportID &&
			existing.TeamAbbrev == e.TeamAbbrev &&
			existing.PlayerName == e.PlayerName &&
			existing.Matchup == e.Matchup &&
			existing.GameDate == e.GameDate &&
			existing.GameTime == e.GameTime {
			e.ID = id
			e.CreatedAt = existing.CreatedAt
			e.UpdatedAt = now
			r.entries[id] = e
			return id, nil
		}
	}

	r.nextID++
	e.ID = r.nextID
	e.CreatedAt = now
	e.UpdatedAt = now
	r.entries[e.ID] = e

	return e.ID, nil
}

func (r *InjuryRepository) GetReportBySourceURL(_ context.Context, sourceURL string) (injury.Report, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, report := range r.reports {
		if report.SourceURL == sourceURL {
			return report, true, nil
		}
	}

	return injury.Report{}, false, nil
}

func (r *InjuryRepository) ListEntriesByReport(_ context.Context, reportID int64) ([]injury.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []injury.Entry
	for _, e := range r.entries {
		if e.ReportID == reportID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out, nil
}

func (r *InjuryRepository) ListEntriesByPlayer(_ context.Context, playerID int64) ([]injury.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []injury.Entry
	for _, e := range r.entries {
		if e.PlayerID != nil && *e.PlayerID == playerID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out, nil
}
