// Package payload defines the upstream JSON record shapes callers
// decode envelopes into. Every decoder reports a malformed body as an
// error instead of silently returning partial data.
package payload

import (
	"encoding/json"
	"fmt"
)

// LocalizedName is the upstream's localized string wrapper.
type LocalizedName struct {
	Default string `json:"default"`
}

// Schedule is the league-wide current schedule response.
type Schedule struct {
	GameWeek []GameDay `json:"gameWeek"`
}

// GameDay groups the games of one calendar date.
type GameDay struct {
	Date  string `json:"date"`
	Games []Game `json:"games"`
}

// ClubSchedule is one team's full-season schedule response.
type ClubSchedule struct {
	ClubTimezone string `json:"clubTimezone"`
	Games        []Game `json:"games"`
}

// Game is a single scheduled or played game.
type Game struct {
	ID           int64     `json:"id"`
	GameState    string    `json:"gameState"`
	StartTimeUTC string    `json:"startTimeUTC"`
	HomeTeam     TeamSlice `json:"homeTeam"`
	AwayTeam     TeamSlice `json:"awayTeam"`
}

// TeamSlice is a team's appearance within a game record. Score is a
// pointer so an unplayed game is distinguishable from a shutout.
type TeamSlice struct {
	Abbrev string `json:"abbrev"`
	Score  *int   `json:"score,omitempty"`
}

// Standings is the current league standings response.
type Standings struct {
	Standings []StandingsEntry `json:"standings"`
}

// StandingsEntry is one team's standings row.
type StandingsEntry struct {
	TeamName    LocalizedName `json:"teamName"`
	TeamAbbrev  LocalizedName `json:"teamAbbrev"`
	GamesPlayed int           `json:"gamesPlayed"`
	Wins        int           `json:"wins"`
	Losses      int           `json:"losses"`
	OtLosses    int           `json:"otLosses"`
	Points      int           `json:"points"`
}

// Roster is one team's current roster response.
type Roster struct {
	Forwards   []RosterPlayer `json:"forwards"`
	Defensemen []RosterPlayer `json:"defensemen"`
	Goalies    []RosterPlayer `json:"goalies"`
}

// RosterPlayer is one player on a roster.
type RosterPlayer struct {
	ID            int64         `json:"id"`
	FirstName     LocalizedName `json:"firstName"`
	LastName      LocalizedName `json:"lastName"`
	SweaterNumber *int          `json:"sweaterNumber,omitempty"`
	Position      string        `json:"positionCode"`
}

// ClubStats is one team's season statistics response.
type ClubStats struct {
	Season  string       `json:"season"`
	Skaters []SkaterStat `json:"skaters"`
	Goalies []GoalieStat `json:"goalies"`
}

// SkaterStat is one skater's season line.
type SkaterStat struct {
	PlayerID  int64         `json:"playerId"`
	FirstName LocalizedName `json:"firstName"`
	LastName  LocalizedName `json:"lastName"`
	Goals     int           `json:"goals"`
	Assists   int           `json:"assists"`
	Points    int           `json:"points"`
}

// GoalieStat is one goalie's season line.
type GoalieStat struct {
	PlayerID       int64         `json:"playerId"`
	FirstName      LocalizedName `json:"firstName"`
	LastName       LocalizedName `json:"lastName"`
	GamesPlayed    int           `json:"gamesPlayed"`
	Wins           int           `json:"wins"`
	SavePercentage *float64      `json:"savePercentage,omitempty"`
}

// Leaders is a statistical leaders response from the statistics family.
type Leaders struct {
	Data []Leader `json:"data"`
}

// Leader is one leaderboard row.
type Leader struct {
	ID       int64   `json:"id"`
	FullName string  `json:"fullName"`
	Team     string  `json:"teamAbbrev,omitempty"`
	Value    float64 `json:"value"`
}

// DecodeSchedule decodes and validates a current-schedule payload.
func DecodeSchedule(raw json.RawMessage) (*Schedule, error) {
	var s Schedule
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("decode schedule: %w", err)
	}
	if s.GameWeek == nil {
		return nil, fmt.Errorf("schedule payload missing gameWeek")
	}
	return &s, nil
}

// DecodeClubSchedule decodes and validates a team-season-schedule payload.
func DecodeClubSchedule(raw json.RawMessage) (*ClubSchedule, error) {
	var s ClubSchedule
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("decode club schedule: %w", err)
	}
	if s.Games == nil {
		return nil, fmt.Errorf("club schedule payload missing games")
	}
	return &s, nil
}

// DecodeStandings decodes and validates a standings payload.
func DecodeStandings(raw json.RawMessage) (*Standings, error) {
	var s Standings
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("decode standings: %w", err)
	}
	if s.Standings == nil {
		return nil, fmt.Errorf("standings payload missing standings")
	}
	return &s, nil
}

// DecodeRoster decodes and validates a roster payload.
func DecodeRoster(raw json.RawMessage) (*Roster, error) {
	var r Roster
	if err := json.Unmarshal(raw, &r); err != nil {
		return nil, fmt.Errorf("decode roster: %w", err)
	}
	if r.Forwards == nil && r.Defensemen == nil && r.Goalies == nil {
		return nil, fmt.Errorf("roster payload carries no position groups")
	}
	return &r, nil
}

// DecodeClubStats decodes and validates a club statistics payload.
func DecodeClubStats(raw json.RawMessage) (*ClubStats, error) {
	var s ClubStats
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("decode club stats: %w", err)
	}
	if s.Skaters == nil && s.Goalies == nil {
		return nil, fmt.Errorf("club stats payload carries no player groups")
	}
	return &s, nil
}

// DecodeLeaders decodes and validates a statistical leaders payload.
func DecodeLeaders(raw json.RawMessage) (*Leaders, error) {
	var l Leaders
	if err := json.Unmarshal(raw, &l); err != nil {
		return nil, fmt.Errorf("decode leaders: %w", err)
	}
	if l.Data == nil {
		return nil, fmt.Errorf("leaders payload missing data")
	}
	return &l, nil
}
