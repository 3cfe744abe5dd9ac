package models

// MatchState is a predicted outcome category for a (player, opposing army)
// matchup. The set of categories is fixed.
type MatchState string

const (
	StateGamble  MatchState = "GAMBLE"
	StateUnknown MatchState = "UNKNOWN"
	StateEasy    MatchState = "EASY"
	StateWin     MatchState = "WIN"
	StateSWin    MatchState = "S_WIN"
	StateSLoose  MatchState = "S_LOOSE"
	StateLoose   MatchState = "LOOSE"
	StateHelp    MatchState = "HELP"
)

// Expected score per category — midpoints of the score ranges the team plays
// with. UNKNOWN and GAMBLE are intentionally both 10.0.
var stateExpected = map[MatchState]float64{
	StateHelp:    3.0,  // <5
	StateLoose:   6.5,  // 5-8
	StateSLoose:  9.0,  // 8-10
	StateSWin:    11.0, // 10-12
	StateWin:     13.5, // 12-15
	StateEasy:    16.0, // 15+
	StateUnknown: 10.0,
	StateGamble:  10.0,
}

// Valid reports whether s is one of the fixed categories.
func (s MatchState) Valid() bool {
	_, ok := stateExpected[s]
	return ok
}

// ExpectedScore returns the fixed expected score for s.
func (s MatchState) ExpectedScore() (float64, bool) {
	v, ok := stateExpected[s]
	return v, ok
}

// AllMatchStates lists the categories in a stable order (for API consumers).
func AllMatchStates() []MatchState {
	return []MatchState{
		StateGamble, StateUnknown, StateEasy, StateWin,
		StateSWin, StateSLoose, StateLoose, StateHelp,
	}
}
