package usecase

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/hooplabs/nba-sync/internal/domain/game"
)

// TipoffResolution is a resolved tipoff instant plus whether it carries a
// confirmed clock time (as opposed to a date-only placeholder).
type TipoffResolution struct {
	TipOff    time.Time
	Confirmed bool
}

var statusClockPattern = regexp.MustCompile(`(?i)\b(\d{1,2}):(\d{2})\s*(am|pm)\s*ET\b`)

// TipoffResolver turns the scoreboard's eastern game date, status text
// and the schedule feed into a UTC tipoff. Resolution precedence:
//
//  1. a clock parsed from the scoreboard status text ("7:30 pm ET")
//  2. a schedule entry (UTC instant, or eastern date and clock)
//  3. a previously confirmed stored tipoff
//  4. midnight UTC of the game date, unconfirmed
//
// Confirmed times never regress to placeholders.
type TipoffResolver struct {
	civilZone *time.Location
}

func NewTipoffResolver(civilTZ string) *TipoffResolver {
	loc, err := time.LoadLocation(civilTZ)
	if err != nil {
		// Eastern offset without DST is a last resort when the tz
		// database is unavailable.
		loc = time.FixedZone("ET", -5*60*60)
	}

	return &TipoffResolver{civilZone: loc}
}

// Resolve picks the best available tipoff for the given game.
// dateEastern is the scoreboard's civil game date ("2026-02-06"),
// statusText the scoreboard status, sched a confirmed schedule entry for
// the game (nil when absent), and prior the stored game row (nil on first
// sight). An unparseable date fails resolution outright; the caller keeps
// a best-effort timestamp of its own.
func (r *TipoffResolver) Resolve(dateEastern, statusText string, sched *ScheduleGame, prior *game.Game) (TipoffResolution, error) {
	day, err := time.Parse("2006-01-02", strings.TrimSpace(dateEastern))
	if err != nil {
		return TipoffResolution{}, fmt.Errorf("%w: game date %q", ErrInvalidInput, dateEastern)
	}

	if res, ok := r.fromStatusText(day, statusText); ok {
		return res, nil
	}

	if sched != nil {
		if ts := strings.TrimSpace(sched.StartTimeUTC); ts != "" {
			if t, err := time.Parse(time.RFC3339, ts); err == nil {
				return TipoffResolution{TipOff: t.UTC(), Confirmed: true}, nil
			}
		}
		if res, ok := r.fromEasternClock(sched.StartDateEastern, sched.StartTimeEastern); ok {
			return res, nil
		}
	}

	if prior != nil && prior.TimeConfirmed {
		return TipoffResolution{TipOff: prior.DateTimeUTC, Confirmed: true}, nil
	}

	midnight := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	return TipoffResolution{TipOff: midnight, Confirmed: false}, nil
}

func (r *TipoffResolver) fromStatusText(day time.Time, statusText string) (TipoffResolution, bool) {
	m := statusClockPattern.FindStringSubmatch(statusText)
	if m == nil {
		return TipoffResolution{}, false
	}

	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])
	if hour < 1 || hour > 12 || minute > 59 {
		return TipoffResolution{}, false
	}
	if strings.EqualFold(m[3], "pm") {
		if hour != 12 {
			hour += 12
		}
	} else if hour == 12 {
		hour = 0
	}

	tip := time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, r.civilZone)
	return TipoffResolution{TipOff: tip.UTC(), Confirmed: true}, true
}

func (r *TipoffResolver) fromEasternClock(dateEastern, clock string) (TipoffResolution, bool) {
	dateEastern = strings.TrimSpace(dateEastern)
	clock = strings.TrimSpace(clock)
	if dateEastern == "" || clock == "" {
		return TipoffResolution{}, false
	}

	for _, layout := range []string{"2006-01-02 3:04 PM", "2006-01-02 15:04", "2006-01-02 3:04 pm"} {
		if t, err := time.ParseInLocation(layout, dateEastern+" "+clock, r.civilZone); err == nil {
			return TipoffResolution{TipOff: t.UTC(), Confirmed: true}, true
		}
	}

	return TipoffResolution{}, false
}
