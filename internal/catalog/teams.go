package catalog

import "sort"

// Team tri-code to full name mappings. Extend here when the league adds
// a franchise.
var teamNames = map[string]string{
	"ANA": "Anaheim Ducks",
	"BOS": "Boston Bruins",
	"BUF": "Buffalo Sabres",
	"CAR": "Carolina Hurricanes",
	"CBJ": "Columbus Blue Jackets",
	"CGY": "Calgary Flames",
	"CHI": "Chicago Blackhawks",
	"COL": "Colorado Avalanche",
	"DAL": "Dallas Stars",
	"DET": "Detroit Red Wings",
	"EDM": "Edmonton Oilers",
	"FLA": "Florida Panthers",
	"LAK": "Los Angeles Kings",
	"MIN": "Minnesota Wild",
	"MTL": "Montreal Canadiens",
	"NJD": "New Jersey Devils",
	"NSH": "Nashville Predators",
	"NYI": "New York Islanders",
	"NYR": "New York Rangers",
	"OTT": "Ottawa Senators",
	"PHI": "Philadelphia Flyers",
	"PIT": "Pittsburgh Penguins",
	"SEA": "Seattle Kraken",
	"SJS": "San Jose Sharks",
	"STL": "St. Louis Blues",
	"TBL": "Tampa Bay Lightning",
	"TOR": "Toronto Maple Leafs",
	"UTA": "Utah Mammoth",
	"VAN": "Vancouver Canucks",
	"VGK": "Vegas Golden Knights",
	"WPG": "Winnipeg Jets",
	"WSH": "Washington Capitals",
}

var teamCodes = map[string]string{}

func init() {
	for code, name := range teamNames {
		teamCodes[name] = code
	}
}

// IsTeamCode reports whether a tri-code is recognized. Pure lookup, no
// network involved.
func IsTeamCode(code string) bool {
	_, ok := teamNames[code]
	return ok
}

// TeamName returns the full name for a tri-code, or the input when unknown.
func TeamName(code string) string {
	if name, ok := teamNames[code]; ok {
		return name
	}
	return code
}

// TeamCode returns the tri-code for a full team name, or the input when unknown.
func TeamCode(name string) string {
	if code, ok := teamCodes[name]; ok {
		return code
	}
	return name
}

// TeamCodes returns all recognized tri-codes sorted.
func TeamCodes() []string {
	codes := make([]string, 0, len(teamNames))
	for code := range teamNames {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
