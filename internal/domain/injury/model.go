package injury

import (
	"fmt"
	"time"
)

// Known report statuses. Entries carry whatever the league publishes, so
// this list is advisory rather than enforced.
const (
	StatusOut              = "Out"
	StatusQuestionable     = "Questionable"
	StatusProbable         = "Probable"
	StatusDoubtful         = "Doubtful"
	StatusAvailable        = "Available"
	StatusSuspended        = "Suspended"
	StatusGameTimeDecision = "Game Time Decision"
	StatusNotWithTeam      = "Not With Team"
)

// Report is one published injury report document, keyed by its source URL.
type Report struct {
	ID         int64
	SourceURL  string
	ReportDate string
	ReportTime string
	FetchedAt  time.Time
	CreatedAt  time.Time
}

func (r Report) Validate() error {
	if r.SourceURL == "" {
		return fmt.Errorf("injury report source url is required")
	}

	return nil
}

// Entry is one player line in a report. TeamID and PlayerID stay nil when
// the published names could not be matched to known rows; the raw text is
// kept either way.
type Entry struct {
	ID         int64
	ReportID   int64
	GameDate   string
	GameTime   string
	Matchup    string
	TeamAbbrev string
	PlayerName string
	TeamID     *int64
	PlayerID   *int64
	Status     string
	Reason     string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (e Entry) Validate() error {
	if e.ReportID == 0 {
		return fmt.Errorf("injury entry report reference is required")
	}
	if e.PlayerName == "" {
		return fmt.Errorf("injury entry player name is required")
	}

	return nil
}
