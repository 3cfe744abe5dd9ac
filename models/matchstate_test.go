package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchStateExpectedScores(t *testing.T) {
	expected := map[MatchState]float64{
		StateHelp:    3.0,
		StateLoose:   6.5,
		StateSLoose:  9.0,
		StateSWin:    11.0,
		StateWin:     13.5,
		StateEasy:    16.0,
		StateUnknown: 10.0,
		StateGamble:  10.0,
	}

	for state, want := range expected {
		got, ok := state.ExpectedScore()
		require.True(t, ok, "state %s", state)
		assert.Equal(t, want, got, "state %s", state)
		assert.True(t, state.Valid())
	}
}

func TestMatchStateUnknownAndGambleShareExpectancy(t *testing.T) {
	u, _ := StateUnknown.ExpectedScore()
	g, _ := StateGamble.ExpectedScore()
	assert.Equal(t, u, g)
}

func TestMatchStateRejectsUnknownCategories(t *testing.T) {
	for _, bad := range []MatchState{"", "win", "DRAW", "EASY_WIN"} {
		assert.False(t, bad.Valid(), "%q should be invalid", bad)
		_, ok := bad.ExpectedScore()
		assert.False(t, ok)
	}
}

func TestAllMatchStatesCoversCatalog(t *testing.T) {
	states := AllMatchStates()
	require.Len(t, states, 8)
	seen := make(map[MatchState]bool, len(states))
	for _, s := range states {
		assert.True(t, s.Valid())
		assert.False(t, seen[s], "duplicate state %s", s)
		seen[s] = true
	}
}
