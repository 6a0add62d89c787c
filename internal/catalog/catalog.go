package catalog

import (
	"fmt"
	"sort"
	"strings"
)

// HostFamily identifies one of the two upstream API families.
type HostFamily string

const (
	// HostPrimary serves schedule, standings, roster and club operations.
	HostPrimary HostFamily = "primary"
	// HostStatistics serves leader and statistics operations.
	HostStatistics HostFamily = "statistics"
)

// ParseHostFamily validates a host family string.
func ParseHostFamily(s string) (HostFamily, error) {
	switch HostFamily(strings.TrimSpace(s)) {
	case "", HostPrimary:
		return HostPrimary, nil
	case HostStatistics:
		return HostStatistics, nil
	default:
		return "", fmt.Errorf("unknown host family: %q", s)
	}
}

// Hosts holds the base URLs of both upstream families. Built once at
// process start and passed by value, never mutated.
type Hosts struct {
	Primary    string
	Statistics string
}

// DefaultHosts returns the fixed upstream base URLs.
func DefaultHosts() Hosts {
	return Hosts{
		Primary:    "https://api-web.nhle.com/v1",
		Statistics: "https://api.nhle.com/stats/rest/en",
	}
}

// BaseURL resolves the base URL of a family.
func (h Hosts) BaseURL(family HostFamily) (string, error) {
	switch family {
	case HostPrimary:
		return h.Primary, nil
	case HostStatistics:
		return h.Statistics, nil
	default:
		return "", fmt.Errorf("unknown host family: %q", family)
	}
}

// DefaultSeason is substituted whenever a caller omits the season.
const DefaultSeason = "20252026"

func seasonOrDefault(season string) string {
	if strings.TrimSpace(season) == "" {
		return DefaultSeason
	}
	return season
}

// CurrentSchedule returns the path for the league-wide current schedule.
func CurrentSchedule() string {
	return "/schedule/now"
}

// TeamSchedule returns the full-season schedule path for one team.
func TeamSchedule(team, season string) string {
	return "/club-schedule-season/" + team + "/" + seasonOrDefault(season)
}

// CurrentStandings returns the path for the current league standings.
func CurrentStandings() string {
	return "/standings/now"
}

// TeamRoster returns the current roster path for one team.
func TeamRoster(team string) string {
	return "/roster/" + team + "/current"
}

// TeamStats returns the regular-season club statistics path for one team.
func TeamStats(team, season string) string {
	return "/club-stats/" + team + "/" + seasonOrDefault(season) + "/2"
}

// SkaterLeaders returns the skater points leaders path (statistics family).
func SkaterLeaders() string {
	return "/leaders/skaters/points"
}

// GoalieLeaders returns the goalie GAA leaders path (statistics family).
func GoalieLeaders() string {
	return "/leaders/goalies/gaa"
}

// Operation is a named catalog entry usable by CLI and web consumers.
type Operation struct {
	Name        string
	Family      HostFamily
	NeedsTeam   bool
	TakesSeason bool
	path        func(team, season string) string
}

var operations = map[string]Operation{
	"schedule": {
		Name:   "schedule",
		Family: HostPrimary,
		path:   func(_, _ string) string { return CurrentSchedule() },
	},
	"team-schedule": {
		Name:        "team-schedule",
		Family:      HostPrimary,
		NeedsTeam:   true,
		TakesSeason: true,
		path:        func(team, season string) string { return TeamSchedule(team, season) },
	},
	"standings": {
		Name:   "standings",
		Family: HostPrimary,
		path:   func(_, _ string) string { return CurrentStandings() },
	},
	"roster": {
		Name:      "roster",
		Family:    HostPrimary,
		NeedsTeam: true,
		path:      func(team, _ string) string { return TeamRoster(team) },
	},
	"club-stats": {
		Name:        "club-stats",
		Family:      HostPrimary,
		NeedsTeam:   true,
		TakesSeason: true,
		path:        func(team, season string) string { return TeamStats(team, season) },
	},
	"skater-leaders": {
		Name:   "skater-leaders",
		Family: HostStatistics,
		path:   func(_, _ string) string { return SkaterLeaders() },
	},
	"goalie-leaders": {
		Name:   "goalie-leaders",
		Family: HostStatistics,
		path:   func(_, _ string) string { return GoalieLeaders() },
	},
}

// OperationNames lists catalog operations in stable order.
func OperationNames() []string {
	names := make([]string, 0, len(operations))
	for name := range operations {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve maps an operation name plus parameters to a relative path and
// host family. Team codes are validated against the known set before
// any path is built.
func Resolve(name, team, season string) (string, HostFamily, error) {
	op, ok := operations[name]
	if !ok {
		return "", "", fmt.Errorf("unknown operation: %q", name)
	}
	if op.NeedsTeam {
		if team == "" {
			return "", "", fmt.Errorf("operation %s requires a team code", name)
		}
		if !IsTeamCode(team) {
			return "", "", fmt.Errorf("unknown team code: %q", team)
		}
	}
	return op.path(team, season), op.Family, nil
}
