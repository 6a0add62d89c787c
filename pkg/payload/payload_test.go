package payload

import (
	"encoding/json"
	"testing"
)

func TestDecodeStandings(t *testing.T) {
	raw := json.RawMessage(`{
		"standings": [
			{
				"teamName": {"default": "Colorado Avalanche"},
				"teamAbbrev": {"default": "COL"},
				"gamesPlayed": 10,
				"wins": 7,
				"losses": 2,
				"otLosses": 1,
				"points": 15
			}
		]
	}`)

	s, err := DecodeStandings(raw)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if len(s.Standings) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(s.Standings))
	}
	entry := s.Standings[0]
	if entry.TeamAbbrev.Default != "COL" || entry.Points != 15 {
		t.Fatalf("unexpected entry: %+v", entry)
	}
}

func TestDecodeStandingsMissingField(t *testing.T) {
	if _, err := DecodeStandings(json.RawMessage(`{"rows": []}`)); err == nil {
		t.Fatal("expected error for payload without standings field")
	}
	if _, err := DecodeStandings(json.RawMessage(`"just a string"`)); err == nil {
		t.Fatal("expected error for non-object payload")
	}
	// An empty standings array is still a valid standings payload.
	if _, err := DecodeStandings(json.RawMessage(`{"standings": []}`)); err != nil {
		t.Fatalf("unexpected error for empty standings: %v", err)
	}
}

func TestDecodeSchedule(t *testing.T) {
	raw := json.RawMessage(`{
		"gameWeek": [
			{
				"date": "2026-01-10",
				"games": [
					{
						"id": 2025020500,
						"gameState": "FUT",
						"startTimeUTC": "2026-01-11T00:00:00Z",
						"homeTeam": {"abbrev": "COL"},
						"awayTeam": {"abbrev": "DAL"}
					}
				]
			}
		]
	}`)

	s, err := DecodeSchedule(raw)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	game := s.GameWeek[0].Games[0]
	if game.HomeTeam.Abbrev != "COL" {
		t.Fatalf("unexpected home team: %s", game.HomeTeam.Abbrev)
	}
	// No score yet: pointer stays nil rather than reading as zero.
	if game.HomeTeam.Score != nil {
		t.Fatal("expected nil score for future game")
	}

	if _, err := DecodeSchedule(json.RawMessage(`{}`)); err == nil {
		t.Fatal("expected error for payload without gameWeek")
	}
}

func TestDecodeRoster(t *testing.T) {
	raw := json.RawMessage(`{
		"forwards": [
			{
				"id": 8477492,
				"firstName": {"default": "Nathan"},
				"lastName": {"default": "MacKinnon"},
				"sweaterNumber": 29,
				"positionCode": "C"
			}
		],
		"defensemen": [],
		"goalies": []
	}`)

	r, err := DecodeRoster(raw)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	p := r.Forwards[0]
	if p.LastName.Default != "MacKinnon" || p.SweaterNumber == nil || *p.SweaterNumber != 29 {
		t.Fatalf("unexpected player: %+v", p)
	}

	if _, err := DecodeRoster(json.RawMessage(`{"coaches": []}`)); err == nil {
		t.Fatal("expected error for payload without position groups")
	}
}

func TestDecodeClubStats(t *testing.T) {
	raw := json.RawMessage(`{
		"season": "20252026",
		"skaters": [
			{
				"playerId": 8477492,
				"firstName": {"default": "Nathan"},
				"lastName": {"default": "MacKinnon"},
				"goals": 12,
				"assists": 20,
				"points": 32
			}
		],
		"goalies": [
			{
				"playerId": 8480925,
				"firstName": {"default": "Mackenzie"},
				"lastName": {"default": "Blackwood"},
				"gamesPlayed": 8,
				"wins": 6,
				"savePercentage": 0.921
			}
		]
	}`)

	s, err := DecodeClubStats(raw)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if s.Skaters[0].Points != 32 {
		t.Fatalf("unexpected skater points: %d", s.Skaters[0].Points)
	}
	goalie := s.Goalies[0]
	if goalie.SavePercentage == nil || *goalie.SavePercentage != 0.921 {
		t.Fatalf("unexpected goalie save percentage: %+v", goalie.SavePercentage)
	}

	if _, err := DecodeClubStats(json.RawMessage(`{"season":"20252026"}`)); err == nil {
		t.Fatal("expected error for payload without player groups")
	}
}

func TestDecodeLeaders(t *testing.T) {
	raw := json.RawMessage(`{
		"data": [
			{"id": 8478402, "fullName": "Connor McDavid", "teamAbbrev": "EDM", "value": 64}
		]
	}`)

	l, err := DecodeLeaders(raw)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if l.Data[0].FullName != "Connor McDavid" || l.Data[0].Value != 64 {
		t.Fatalf("unexpected leader: %+v", l.Data[0])
	}

	if _, err := DecodeLeaders(json.RawMessage(`{"leaders": []}`)); err == nil {
		t.Fatal("expected error for payload without data field")
	}
}

func TestDecodeClubSchedule(t *testing.T) {
	raw := json.RawMessage(`{"clubTimezone": "America/Denver", "games": []}`)
	s, err := DecodeClubSchedule(raw)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if s.ClubTimezone != "America/Denver" {
		t.Fatalf("unexpected timezone: %s", s.ClubTimezone)
	}

	if _, err := DecodeClubSchedule(json.RawMessage(`{}`)); err == nil {
		t.Fatal("expected error for payload without games")
	}
}
