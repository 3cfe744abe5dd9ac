package services

import (
	"testing"

	"team-pairing-system/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// reportMatch assembles a match with a one-entry roster/pairing for player
// pid, the given matrix state at (pid, 0), and an optional real score.
func reportMatch(t *testing.T, id, pid int, name string, state models.MatchState, realScore *int) models.Match {
	t.Helper()

	match := models.Match{ID: id, OpponentName: "Opponents"}
	match.SetArmies([]models.Army{{Faction: "Necrons", List: "necron list"}})
	match.SetRoster([]models.RosterEntry{
		{PlayerID: pid, PlayerName: name, ListText: "some list"},
	})
	match.SetMatrix(map[string]models.MatchState{
		models.MatrixKey(pid, 0): state,
	})
	one, zero := 1, 0
	match.SetPairings([]models.PairingEntry{
		{GameNo: &one, PlayerID: &pid, ArmyIndex: &zero, LayoutN: &one, RealScore: realScore},
	})
	return match
}

func TestBuildReportRowsAverages(t *testing.T) {
	// player 7 scores 15 against a WIN (13.5) prediction and 9 against a
	// LOOSE (6.5) prediction: avg score 12.0, avg delta 2.0.
	s1, s2 := 15, 9
	matches := []models.Match{
		reportMatch(t, 1, 7, "Gwen", models.StateWin, &s1),
		reportMatch(t, 2, 7, "Gwen", models.StateLoose, &s2),
	}

	rows := buildReportRows(matches)
	require.Len(t, rows, 1)

	row := rows[0]
	assert.Equal(t, 7, row.PlayerID)
	assert.Equal(t, "Gwen", row.PlayerName)
	assert.Equal(t, 2, row.Games)
	require.NotNil(t, row.AvgScore)
	assert.InDelta(t, 12.0, *row.AvgScore, 0.001)
	require.NotNil(t, row.AvgDelta)
	assert.InDelta(t, 2.0, *row.AvgDelta, 0.001)

	require.Len(t, row.Details, 2)
	d := row.Details[0]
	assert.Equal(t, 1, d.GameID)
	assert.Equal(t, "Necrons", d.Faction)
	require.NotNil(t, d.Expected)
	assert.InDelta(t, 13.5, *d.Expected, 0.001)
	require.NotNil(t, d.Delta)
	assert.InDelta(t, 1.5, *d.Delta, 0.001)
}

func TestBuildReportRowsMissingCellLeavesDeltaAbsent(t *testing.T) {
	score := 11
	match := reportMatch(t, 1, 4, "Dana", models.StateWin, &score)
	match.SetMatrix(nil) // nobody ever filled the matrix

	rows := buildReportRows([]models.Match{match})
	require.Len(t, rows, 1)

	row := rows[0]
	require.Len(t, row.Details, 1)
	assert.Nil(t, row.Details[0].Expected)
	assert.Nil(t, row.Details[0].Delta)
	require.NotNil(t, row.AvgScore) // real score still counts
	assert.InDelta(t, 11.0, *row.AvgScore, 0.001)
	assert.Nil(t, row.AvgDelta) // no delta could be computed
}

func TestBuildReportRowsUnscoredEntriesStillCountGames(t *testing.T) {
	match := reportMatch(t, 1, 2, "Ben", models.StateUnknown, nil)

	rows := buildReportRows([]models.Match{match})
	require.Len(t, rows, 1)
	assert.Equal(t, 1, rows[0].Games)
	assert.Nil(t, rows[0].AvgScore)
	assert.Nil(t, rows[0].AvgDelta)
}

func TestBuildReportRowsFallsBackToPlaceholderName(t *testing.T) {
	// a pairing can reference a player missing from the roster snapshot
	// (hand-edited data); the row still appears under a placeholder name
	score := 10
	match := reportMatch(t, 1, 5, "Eli", models.StateUnknown, &score)
	match.SetRoster(nil)

	rows := buildReportRows([]models.Match{match})
	require.Len(t, rows, 1)
	assert.Equal(t, 5, rows[0].PlayerID)
	assert.Equal(t, "Player 5", rows[0].PlayerName)
}

func TestReportRowOrdering(t *testing.T) {
	s18, s12a, s12b := 18, 12, 12
	matches := []models.Match{
		reportMatch(t, 1, 1, "zoe", models.StateUnknown, &s12a),
		reportMatch(t, 2, 2, "Adam", models.StateUnknown, &s12b),
		reportMatch(t, 3, 3, "Mia", models.StateUnknown, &s18),
		reportMatch(t, 4, 4, "Noah", models.StateUnknown, nil),
	}

	rows := buildReportRows(matches)
	require.Len(t, rows, 4)

	// best average first; the 12.0 tie breaks case-insensitively
	// (Adam before zoe); the scoreless row sorts last.
	assert.Equal(t, "Mia", rows[0].PlayerName)
	assert.Equal(t, "Adam", rows[1].PlayerName)
	assert.Equal(t, "zoe", rows[2].PlayerName)
	assert.Equal(t, "Noah", rows[3].PlayerName)
}
