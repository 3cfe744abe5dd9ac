package services

import (
	"sort"
	"testing"

	"team-pairing-system/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRoster() []models.RosterEntry {
	names := []string{"Anna", "Ben", "Chris", "Dana", "Eli", "Fred", "Gwen", "Hugo"}
	roster := make([]models.RosterEntry, 0, 8)
	for i, name := range names {
		roster = append(roster, models.RosterEntry{
			PlayerID:   i + 1,
			PlayerName: name,
			ListText:   "list of " + name,
		})
	}
	return roster
}

func testArmies() []models.Army {
	factions := []string{
		"Necrons", "Aeldari", "Orks", "Tyranids",
		"Death Guard", "Custodes", "Votann", "World Eaters",
	}
	armies := make([]models.Army, 0, 8)
	for _, f := range factions {
		armies = append(armies, models.Army{Faction: f, List: f + " list"})
	}
	return armies
}

// fullMatrix fills every cell with state.
func fullMatrix(roster []models.RosterEntry, armies []models.Army, state models.MatchState) map[string]models.MatchState {
	matrix := map[string]models.MatchState{}
	for _, r := range roster {
		for j := range armies {
			matrix[models.MatrixKey(r.PlayerID, j)] = state
		}
	}
	return matrix
}

// bruteForceTotals recomputes every bijection's total independently of the
// optimizer, so the test does not share code with the thing it checks.
func bruteForceTotals(roster []models.RosterEntry, matrix map[string]models.MatchState) []float64 {
	n := len(roster)
	var totals []float64
	perm := make([]int, n)
	used := make([]bool, n)
	var rec func(depth int, sum float64)
	rec = func(depth int, sum float64) {
		if depth == n {
			totals = append(totals, sum)
			return
		}
		for j := 0; j < n; j++ {
			if used[j] {
				continue
			}
			used[j] = true
			perm[depth] = j
			v, _ := matrix[models.MatrixKey(roster[depth].PlayerID, j)].ExpectedScore()
			rec(depth+1, sum+v)
			used[j] = false
		}
	}
	rec(0, 0)
	return totals
}

func TestTopProposalsReturnsFiveRankedCandidates(t *testing.T) {
	roster := testRoster()
	armies := testArmies()
	matrix := fullMatrix(roster, armies, models.StateUnknown)
	// a few spikes so the ranking is not all ties
	matrix[models.MatrixKey(3, 5)] = models.StateEasy
	matrix[models.MatrixKey(1, 0)] = models.StateWin
	matrix[models.MatrixKey(7, 2)] = models.StateHelp

	proposals := TopProposals(roster, armies, matrix, 5)
	require.Len(t, proposals, 5)

	for i, p := range proposals {
		require.Len(t, p.Pairs, 8)

		// total matches the sum of its own pairs
		var sum float64
		seenPlayers := map[int]bool{}
		seenArmies := map[int]bool{}
		for _, pair := range p.Pairs {
			sum += pair.Expected
			seenPlayers[pair.PlayerID] = true
			seenArmies[pair.ArmyIndex] = true
		}
		assert.InDelta(t, sum, p.Total, 0.05)
		// a real bijection: all 8 players and all 8 armies used once
		assert.Len(t, seenPlayers, 8)
		assert.Len(t, seenArmies, 8)

		if i > 0 {
			assert.LessOrEqual(t, p.Total, proposals[i-1].Total)
		}
	}

	// the reported top 5 are genuinely the 5 best of all 40,320
	totals := bruteForceTotals(roster, matrix)
	require.Len(t, totals, 40320)
	sort.Sort(sort.Reverse(sort.Float64Slice(totals)))
	for i, p := range proposals {
		assert.InDelta(t, totals[i], p.Total, 0.05)
	}
}

func TestTopProposalsPairsTheStandoutCell(t *testing.T) {
	roster := testRoster()
	armies := testArmies()
	// all UNKNOWN (10.0) except player 3 vs army 5, which is EASY (16.0):
	// any optimal assignment must take that cell, beating every assignment
	// that skips it by its full 6.0 margin.
	matrix := fullMatrix(roster, armies, models.StateUnknown)
	matrix[models.MatrixKey(3, 5)] = models.StateEasy

	proposals := TopProposals(roster, armies, matrix, 5)
	require.NotEmpty(t, proposals)

	best := proposals[0]
	assert.InDelta(t, 7*10.0+16.0, best.Total, 0.001)

	found := false
	for _, pair := range best.Pairs {
		if pair.PlayerID == 3 && pair.ArmyIndex == 5 {
			found = true
			assert.Equal(t, models.StateEasy, pair.State)
			assert.Equal(t, "Custodes", pair.Faction)
		}
	}
	assert.True(t, found, "best proposal must pair player 3 with army 5")

	// every assignment avoiding the EASY cell totals exactly 80.0
	assert.GreaterOrEqual(t, best.Total-80.0, 6.0-0.001)
}

func TestTopProposalsDeterministicAcrossCalls(t *testing.T) {
	roster := testRoster()
	armies := testArmies()
	matrix := fullMatrix(roster, armies, models.StateUnknown)
	matrix[models.MatrixKey(2, 1)] = models.StateSWin
	matrix[models.MatrixKey(5, 4)] = models.StateLoose

	first := TopProposals(roster, armies, matrix, 5)
	second := TopProposals(roster, armies, matrix, 5)
	assert.Equal(t, first, second)
}

func TestMissingMatrixCellsEnumeratesEveryGap(t *testing.T) {
	roster := testRoster()
	armies := testArmies()
	matrix := fullMatrix(roster, armies, models.StateUnknown)
	delete(matrix, models.MatrixKey(2, 3))
	delete(matrix, models.MatrixKey(8, 0))

	missing := MissingMatrixCells(roster, armies, matrix)
	require.Len(t, missing, 2)
	assert.Contains(t, missing, CellRef{PlayerID: 2, ArmyIndex: 3})
	assert.Contains(t, missing, CellRef{PlayerID: 8, ArmyIndex: 0})

	// complete matrix reports nothing
	matrix = fullMatrix(roster, armies, models.StateGamble)
	assert.Empty(t, MissingMatrixCells(roster, armies, matrix))
}
