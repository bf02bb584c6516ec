package usecase

import (
	"sort"
	"strings"

	"github.com/hooplabs/nba-sync/internal/domain/player"
	"github.com/hooplabs/nba-sync/internal/domain/seasonteam"
	"github.com/hooplabs/nba-sync/internal/domain/team"
)

// matchKey lowercases and strips everything but letters and digits, so
// "L.A. Lakers" and "LA Lakers" collide on purpose.
func matchKey(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

var nameSuffixes = map[string]struct{}{
	"jr": {}, "sr": {}, "ii": {}, "iii": {}, "iv": {}, "v": {},
}

// TeamMatcher resolves published team names and abbreviations against
// known teams. A lookup that lands on more than one team returns no
// match; the caller records a conflict instead of guessing.
type TeamMatcher struct {
	byKey   map[string][]team.Team
	entries []teamEntry
}

type teamEntry struct {
	team team.Team
	keys []string
}

// TeamCandidate is one scored fallback candidate; Score is the length of
// the longest substring shared with the looked-up label.
type TeamCandidate struct {
	Team  team.Team
	Score int
}

// minTeamMatchScore is the shortest shared substring the scored fallback
// accepts; anything shorter collides with half the league.
const minTeamMatchScore = 4

func NewTeamMatcher(teams []team.Team) *TeamMatcher {
	m := &TeamMatcher{byKey: make(map[string][]team.Team)}
	for _, t := range teams {
		var keys []string
		for _, key := range []string{matchKey(t.Abbrev), matchKey(t.Name)} {
			if key == "" {
				continue
			}
			m.index(key, t)
			keys = append(keys, key)
		}
		if len(keys) > 0 {
			m.entries = append(m.entries, teamEntry{team: t, keys: keys})
		}
	}
	return m
}

func (m *TeamMatcher) index(key string, t team.Team) {
	for _, existing := range m.byKey[key] {
		if existing.ID == t.ID {
			return
		}
	}
	m.byKey[key] = append(m.byKey[key], t)
}

// Rank scores every known team by the longest substring it shares with
// the label and returns candidates best-first. Resolution policy lives in
// Match; Rank only measures.
func (m *TeamMatcher) Rank(label string) []TeamCandidate {
	key := matchKey(label)
	if key == "" {
		return nil
	}

	candidates := make([]TeamCandidate, 0, len(m.entries))
	for _, e := range m.entries {
		best := 0
		for _, k := range e.keys {
			if score := longestCommonSubstring(key, k); score > best {
				best = score
			}
		}
		if best > 0 {
			candidates = append(candidates, TeamCandidate{Team: e.team, Score: best})
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})
	return candidates
}

// Match resolves any of the given labels (abbreviation, full name, city
// name) to exactly one team: exact key lookup first, then the scored
// fallback. A top score shared by two teams stays unmatched.
func (m *TeamMatcher) Match(labels ...string) (team.Team, bool) {
	for _, label := range labels {
		key := matchKey(label)
		if key == "" {
			continue
		}
		if candidates, ok := m.byKey[key]; ok && len(candidates) == 1 {
			return candidates[0], true
		}
	}

	for _, label := range labels {
		ranked := m.Rank(label)
		if len(ranked) == 0 || ranked[0].Score < minTeamMatchScore {
			continue
		}
		if len(ranked) > 1 && ranked[1].Score == ranked[0].Score {
			continue
		}
		return ranked[0].Team, true
	}

	return team.Team{}, false
}

// longestCommonSubstring returns the length of the longest contiguous
// substring shared by a and b.
func longestCommonSubstring(a, b string) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	best := 0
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] != b[j-1] {
				cur[j] = 0
				continue
			}
			cur[j] = prev[j-1] + 1
			if cur[j] > best {
				best = cur[j]
			}
		}
		prev, cur = cur, prev
	}
	return best
}

// PlayerMatcher resolves published player names against known players,
// optionally disambiguating by current team. Every player is indexed
// under several spellings of their name; lookups that stay ambiguous
// return no match.
type PlayerMatcher struct {
	byKey         map[string][]player.Player
	currentTeamID map[int64]int64
	everTeamIDs   map[int64]map[int64]struct{}
}

func NewPlayerMatcher(players []player.Player, assignments []seasonteam.Assignment) *PlayerMatcher {
	m := &PlayerMatcher{
		byKey:         make(map[string][]player.Player),
		currentTeamID: make(map[int64]int64),
		everTeamIDs:   make(map[int64]map[int64]struct{}),
	}
	for _, a := range assignments {
		if a.Open() {
			m.currentTeamID[a.PlayerID] = a.TeamID
		}
		teams, ok := m.everTeamIDs[a.PlayerID]
		if !ok {
			teams = make(map[int64]struct{})
			m.everTeamIDs[a.PlayerID] = teams
		}
		teams[a.TeamID] = struct{}{}
	}
	for _, p := range players {
		for _, key := range playerNameKeys(p) {
			m.index(key, p)
		}
	}
	return m
}

func (m *PlayerMatcher) index(key string, p player.Player) {
	if key == "" {
		return
	}
	for _, existing := range m.byKey[key] {
		if existing.ID == p.ID {
			return
		}
	}
	m.byKey[key] = append(m.byKey[key], p)
}

func playerNameKeys(p player.Player) []string {
	seen := make(map[string]struct{})
	var keys []string
	add := func(s string) {
		key := matchKey(s)
		if key == "" {
			return
		}
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		keys = append(keys, key)
	}

	add(p.DisplayName)
	add(stripNameSuffix(p.DisplayName))
	if p.FirstName != "" && p.LastName != "" {
		add(p.FirstName + " " + p.LastName)
		add(p.LastName + " " + p.FirstName)
		add(stripNameSuffix(p.FirstName + " " + p.LastName))
	}

	return keys
}

func stripNameSuffix(name string) string {
	fields := strings.Fields(name)
	if len(fields) < 2 {
		return name
	}
	last := strings.ToLower(strings.Trim(fields[len(fields)-1], "."))
	if _, ok := nameSuffixes[last]; ok {
		return strings.Join(fields[:len(fields)-1], " ")
	}
	return name
}

// Match resolves a published name to exactly one player. teamID, when
// non-zero, breaks ties using season assignments, current ones first and
// any historical interval second; a tie that survives the hint returns no
// match.
func (m *PlayerMatcher) Match(name string, teamID int64) (player.Player, bool) {
	for _, spelling := range nameSpellings(name) {
		candidates := m.byKey[matchKey(spelling)]
		switch len(candidates) {
		case 0:
			continue
		case 1:
			return candidates[0], true
		default:
			if teamID == 0 {
				return player.Player{}, false
			}
			var hits []player.Player
			for _, c := range candidates {
				if m.currentTeamID[c.ID] == teamID {
					hits = append(hits, c)
				}
			}
			if len(hits) == 0 {
				for _, c := range candidates {
					if _, ok := m.everTeamIDs[c.ID][teamID]; ok {
						hits = append(hits, c)
					}
				}
			}
			if len(hits) == 1 {
				return hits[0], true
			}
			return player.Player{}, false
		}
	}

	return player.Player{}, false
}

// nameSpellings expands a published name into lookup variants: as-is,
// suffix-stripped, and comma-reordered ("James, LeBron" -> "LeBron
// James").
func nameSpellings(name string) []string {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}

	variants := []string{name, stripNameSuffix(name)}
	if idx := strings.Index(name, ","); idx >= 0 {
		reordered := strings.TrimSpace(name[idx+1:]) + " " + strings.TrimSpace(name[:idx])
		variants = append(variants, reordered, stripNameSuffix(reordered))
	}

	seen := make(map[string]struct{})
	var out []string
	for _, v := range variants {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}

	return out
}
