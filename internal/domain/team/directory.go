package team

import "sort"

// Directory is an immutable lookup of NBA team codes. It replaces any
// notion of a process-global team list: callers construct one and pass
// it down explicitly.
type Directory struct {
	nameByCode map[string]string
}

// NewDirectory builds the directory of the 30 current NBA franchises.
func NewDirectory() Directory {
	return Directory{nameByCode: map[string]string{
		"ATL": "Atlanta Hawks",
		"BOS": "Boston Celtics",
		"BKN": "Brooklyn Nets",
		"CHA": "Charlotte Hornets",
		"CHI": "Chicago Bulls",
		"CLE": "Cleveland Cavaliers",
		"DAL": "Dallas Mavericks",
		"DEN": "Denver Nuggets",
		"DET": "Detroit Pistons",
		"GSW": "Golden State Warriors",
		"HOU": "Houston Rockets",
		"IND": "Indiana Pacers",
		"LAC": "LA Clippers",
		"LAL": "Los Angeles Lakers",
		"MEM": "Memphis Grizzlies",
		"MIA": "Miami Heat",
		"MIL": "Milwaukee Bucks",
		"MIN": "Minnesota Timberwolves",
		"NOP": "New Orleans Pelicans",
		"NYK": "New York Knicks",
		"OKC": "Oklahoma City Thunder",
		"ORL": "Orlando Magic",
		"PHI": "Philadelphia 76ers",
		"PHX": "Phoenix Suns",
		"POR": "Portland Trail Blazers",
		"SAC": "Sacramento Kings",
		"SAS": "San Antonio Spurs",
		"TOR": "Toronto Raptors",
		"UTA": "Utah Jazz",
		"WAS": "Washington Wizards",
	}}
}

func (d Directory) Contains(code string) bool {
	_, ok := d.nameByCode[code]
	return ok
}

// Name returns the franchise name for a code, or the code itself when
// unknown so callers always have something printable.
func (d Directory) Name(code string) string {
	if name, ok := d.nameByCode[code]; ok {
		return name
	}
	return code
}

// Codes returns all team codes in a stable sorted order.
func (d Directory) Codes() []string {
	out := make([]string, 0, len(d.nameByCode))
	for code := range d.nameByCode {
		out = append(out, code)
	}
	sort.Strings(out)
	return out
}
