package dataprocessing

import (
	"path/filepath"
	"regexp"

	"github.com/kevindiazor/ThePUL/pkg/contracts/domain"
)

var (
	weekPattern  = regexp.MustCompile(`(?i)week[_\- ]?(\d+)`)
	teamsPattern = regexp.MustCompile(`([\p{L}\p{N}_]+)\s*@\s*([\p{L}\p{N}_]+)`)
)

// GameInfo is the game context derived from a file's location. Empty fields
// mean the value could not be derived.
type GameInfo struct {
	Week     string `json:"week,omitempty"`
	Team1    string `json:"team1,omitempty"`
	Team2    string `json:"team2,omitempty"`
	FilePath string `json:"file_path"`
}

// Match returns the match key for the game
func (g GameInfo) Match() string {
	return domain.MatchKey(g.Team1, g.Team2)
}

// IdentifyGameInfo extracts the week number and team pair from path.
//
// The week is the first "week" token (any case, optionally followed by one
// of "_", "-" or space) followed by digits anywhere in the path. Teams come
// from a "<team1> @ <team2>" folder: the containing folder is tried first,
// then enclosing folders from nearest to farthest. Misses leave fields empty.
func IdentifyGameInfo(path string) GameInfo {
	info := GameInfo{FilePath: path}

	if m := weekPattern.FindStringSubmatch(path); m != nil {
		info.Week = m[1]
	}

	dir := filepath.Dir(path)
	for {
		if m := teamsPattern.FindStringSubmatch(filepath.Base(dir)); m != nil {
			info.Team1, info.Team2 = m[1], m[2]
			break
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return info
}
