package usecase

import (
	"context"

	"github.com/bytedance/sonic"

	"github.com/hooplabs/nba-sync/internal/domain/conflict"
	"github.com/hooplabs/nba-sync/internal/platform/logging"
)

// ConflictLedger appends unresolved reconciliation events. Recording is
// best effort: a ledger write failure is logged and never fails the sync
// that triggered it.
type ConflictLedger struct {
	repo   conflict.Repository
	logger *logging.Logger
}

func NewConflictLedger(repo conflict.Repository, logger *logging.Logger) *ConflictLedger {
	if logger == nil {
		logger = logging.Default()
	}

	return &ConflictLedger{repo: repo, logger: logger}
}

// Record appends one conflict. details is marshaled to JSON; playerID,
// season and jobID are optional dimensions (zero values are omitted).
func (l *ConflictLedger) Record(ctx context.Context, conflictType string, details map[string]any, playerID int64, season int, jobID string) {
	if l == nil || l.repo == nil {
		return
	}

	c := conflict.Conflict{Type: conflictType}
	if playerID != 0 {
		c.PlayerID = &playerID
	}
	if season != 0 {
		c.Season = &season
	}
	if jobID != "" {
		c.JobID = &jobID
	}
	if len(details) > 0 {
		encoded, err := sonic.Marshal(details)
		if err != nil {
			l.logger.WarnContext(ctx, "encode conflict details", "type", conflictType, "error", err)
		} else {
			c.Details = string(encoded)
		}
	}

	if _, err := l.repo.Insert(ctx, c); err != nil {
		l.logger.ErrorContext(ctx, "append conflict", "type", conflictType, "error", err)
	}
}
