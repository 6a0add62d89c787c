package catalog

import "testing"

func TestTeamSchedulePath(t *testing.T) {
	got := TeamSchedule("COL", "20252026")
	if got != "/club-schedule-season/COL/20252026" {
		t.Fatalf("unexpected path: %s", got)
	}
}

func TestTeamScheduleDefaultSeason(t *testing.T) {
	got := TeamSchedule("COL", "")
	want := "/club-schedule-season/COL/" + DefaultSeason
	if got != want {
		t.Fatalf("path = %s, want %s", got, want)
	}
}

func TestPathTemplates(t *testing.T) {
	cases := []struct {
		name string
		got  string
		want string
	}{
		{"schedule", CurrentSchedule(), "/schedule/now"},
		{"standings", CurrentStandings(), "/standings/now"},
		{"roster", TeamRoster("TOR"), "/roster/TOR/current"},
		{"club stats", TeamStats("TOR", "20242025"), "/club-stats/TOR/20242025/2"},
		{"skater leaders", SkaterLeaders(), "/leaders/skaters/points"},
		{"goalie leaders", GoalieLeaders(), "/leaders/goalies/gaa"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.got != tc.want {
				t.Fatalf("path = %s, want %s", tc.got, tc.want)
			}
		})
	}
}

func TestResolve(t *testing.T) {
	path, family, err := Resolve("team-schedule", "COL", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if family != HostPrimary {
		t.Fatalf("family = %s, want %s", family, HostPrimary)
	}
	if path != "/club-schedule-season/COL/"+DefaultSeason {
		t.Fatalf("unexpected path: %s", path)
	}

	if _, family, err = Resolve("skater-leaders", "", ""); err != nil || family != HostStatistics {
		t.Fatalf("expected statistics family, got %s err %v", family, err)
	}

	if _, _, err = Resolve("nope", "", ""); err == nil {
		t.Fatal("expected error for unknown operation")
	}
	if _, _, err = Resolve("roster", "", ""); err == nil {
		t.Fatal("expected error for missing team code")
	}
	if _, _, err = Resolve("roster", "ZZZ", ""); err == nil {
		t.Fatal("expected error for unknown team code")
	}
}

func TestTeamLookups(t *testing.T) {
	if !IsTeamCode("COL") {
		t.Fatal("COL should be a known team code")
	}
	if IsTeamCode("ZZZ") {
		t.Fatal("ZZZ should not be a known team code")
	}
	if TeamName("COL") != "Colorado Avalanche" {
		t.Fatalf("unexpected team name: %s", TeamName("COL"))
	}
	if TeamCode("Colorado Avalanche") != "COL" {
		t.Fatalf("unexpected team code: %s", TeamCode("Colorado Avalanche"))
	}
	// Unknown values pass through untouched.
	if TeamName("XXX") != "XXX" || TeamCode("Nobody") != "Nobody" {
		t.Fatal("unknown lookups should return their input")
	}
	if len(TeamCodes()) != 32 {
		t.Fatalf("expected 32 team codes, got %d", len(TeamCodes()))
	}
}

func TestHosts(t *testing.T) {
	hosts := DefaultHosts()
	base, err := hosts.BaseURL(HostPrimary)
	if err != nil || base != "https://api-web.nhle.com/v1" {
		t.Fatalf("primary base = %s err %v", base, err)
	}
	base, err = hosts.BaseURL(HostStatistics)
	if err != nil || base != "https://api.nhle.com/stats/rest/en" {
		t.Fatalf("statistics base = %s err %v", base, err)
	}
	if _, err := hosts.BaseURL("mystery"); err == nil {
		t.Fatal("expected error for unknown family")
	}
}

func TestParseHostFamily(t *testing.T) {
	family, err := ParseHostFamily("")
	if err != nil || family != HostPrimary {
		t.Fatalf("empty family should default to primary, got %s err %v", family, err)
	}
	if _, err := ParseHostFamily("statistics"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := ParseHostFamily("tertiary"); err == nil {
		t.Fatal("expected error for unknown family")
	}
}
