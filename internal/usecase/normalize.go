package usecase

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const poundsPerKg = 0.453592

// PickString reads the first present key from a provider record as a
// trimmed string. Numeric values are formatted, everything else is
// skipped.
func PickString(rec Record, keys ...string) string {
	for _, key := range keys {
		raw, ok := rec[key]
		if !ok || raw == nil {
			continue
		}
		switch v := raw.(type) {
		case string:
			if s := strings.TrimSpace(v); s != "" {
				return s
			}
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		case int:
			return strconv.Itoa(v)
		case int64:
			return strconv.FormatInt(v, 10)
		case bool:
			return strconv.FormatBool(v)
		}
	}

	return ""
}

// PickStringFold is PickString with case-insensitive key matching. The
// injury report feed mixes camelCase and UPPER_SNAKE keys between
// publishes, so those lookups go through here.
func PickStringFold(rec Record, keys ...string) string {
	if s := PickString(rec, keys...); s != "" {
		return s
	}
	for _, key := range keys {
		for recKey, raw := range rec {
			if !strings.EqualFold(recKey, key) || raw == nil {
				continue
			}
			if s := PickString(Record{recKey: raw}, recKey); s != "" {
				return s
			}
		}
	}

	return ""
}

// PickInt reads the first present key as an int, returning ok=false when
// no key holds a usable number.
func PickInt(rec Record, keys ...string) (int, bool) {
	for _, key := range keys {
		raw, ok := rec[key]
		if !ok || raw == nil {
			continue
		}
		switch v := raw.(type) {
		case float64:
			return int(v), true
		case int:
			return v, true
		case int64:
			return int(v), true
		case string:
			if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
				return n, true
			}
		}
	}

	return 0, false
}

// PickIntPtr is PickInt for nullable columns.
func PickIntPtr(rec Record, keys ...string) *int {
	if n, ok := PickInt(rec, keys...); ok {
		return &n
	}
	return nil
}

// PickFloat reads the first present key as a float64.
func PickFloat(rec Record, keys ...string) (float64, bool) {
	for _, key := range keys {
		raw, ok := rec[key]
		if !ok || raw == nil {
			continue
		}
		switch v := raw.(type) {
		case float64:
			return v, true
		case int:
			return float64(v), true
		case int64:
			return float64(v), true
		case string:
			if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
				return f, true
			}
		}
	}

	return 0, false
}

// PickFloatPtr is PickFloat for nullable columns.
func PickFloatPtr(rec Record, keys ...string) *float64 {
	if f, ok := PickFloat(rec, keys...); ok {
		return &f
	}
	return nil
}

// PickBool reads the first present key as a bool. The provider encodes
// flags as booleans, 0/1 numbers, or "0"/"1" strings depending on the
// endpoint.
func PickBool(rec Record, keys ...string) (bool, bool) {
	for _, key := range keys {
		raw, ok := rec[key]
		if !ok || raw == nil {
			continue
		}
		switch v := raw.(type) {
		case bool:
			return v, true
		case float64:
			return v != 0, true
		case int:
			return v != 0, true
		case string:
			switch strings.ToLower(strings.TrimSpace(v)) {
			case "1", "true", "t", "yes", "y":
				return true, true
			case "0", "false", "f", "no", "n":
				return false, true
			}
		}
	}

	return false, false
}

// ParseHeightCm converts a feet-inches string like "6-9" to centimeters.
func ParseHeightCm(raw string) *float64 {
	parts := strings.SplitN(strings.TrimSpace(raw), "-", 2)
	if len(parts) != 2 {
		return nil
	}
	feet, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return nil
	}
	inches, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return nil
	}
	if feet < 0 || inches < 0 || inches >= 12 {
		return nil
	}

	cm := (float64(feet)*12 + float64(inches)) * 2.54
	return &cm
}

// ParseWeightKg converts a pounds value (usually a bare number string) to
// kilograms.
func ParseWeightKg(raw string) *float64 {
	lbs, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || lbs <= 0 {
		return nil
	}

	kg := lbs * poundsPerKg
	return &kg
}

// ParseMinutes converts a played-minutes value to decimal minutes. The
// box score feeds emit ISO durations ("PT34M12.00S"), clock strings
// ("34:12"), or plain decimals depending on the endpoint.
func ParseMinutes(raw string) *float64 {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}

	if strings.HasPrefix(s, "PT") {
		rest := strings.TrimPrefix(s, "PT")
		var minutes float64
		if idx := strings.IndexByte(rest, 'M'); idx >= 0 {
			m, err := strconv.ParseFloat(rest[:idx], 64)
			if err != nil {
				return nil
			}
			minutes = m
			rest = rest[idx+1:]
		}
		if idx := strings.IndexByte(rest, 'S'); idx >= 0 {
			sec, err := strconv.ParseFloat(rest[:idx], 64)
			if err != nil {
				return nil
			}
			minutes += sec / 60
		}
		return &minutes
	}

	if idx := strings.IndexByte(s, ':'); idx >= 0 {
		m, err := strconv.ParseFloat(s[:idx], 64)
		if err != nil {
			return nil
		}
		sec, err := strconv.ParseFloat(s[idx+1:], 64)
		if err != nil {
			return nil
		}
		minutes := m + sec/60
		return &minutes
	}

	minutes, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &minutes
}

// ParseBirthDate accepts the provider's birth date formats.
func ParseBirthDate(raw string) *time.Time {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}
	for _, layout := range []string{"2006-01-02T15:04:05", "2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t
		}
	}

	return nil
}

// SeasonYearForDate derives the season's starting calendar year: seasons
// roll over in July, so a June 2026 game still belongs to season 2025.
func SeasonYearForDate(t time.Time) int {
	if t.Month() >= time.July {
		return t.Year()
	}
	return t.Year() - 1
}

// SeasonLabel formats a starting year as the provider's season label,
// e.g. 2025 -> "2025-26".
func SeasonLabel(seasonYear int) string {
	return fmt.Sprintf("%d-%02d", seasonYear, (seasonYear+1)%100)
}
