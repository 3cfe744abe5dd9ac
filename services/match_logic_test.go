package services

import (
	"testing"

	"team-pairing-system/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPlayers(n int) []models.Player {
	players := make([]models.Player, 0, n)
	for i := 1; i <= n; i++ {
		p := models.Player{ID: i, Name: "Player " + string(rune('A'+i-1))}
		p.SetLists(nil)
		players = append(players, p)
	}
	return players
}

func TestBuildRosterSnapshotsDefaultLists(t *testing.T) {
	players := testPlayers(10)
	players[0].AddList("first list of A")
	players[0].AddList("second list of A")
	one := 1
	players[0].DefaultIndex = &one
	players[1].AddList("only list of B")
	// players[2..] have no lists at all

	roster, appErr := buildRoster([]int{1, 2, 3, 4, 5, 6, 7, 8}, players)
	require.Nil(t, appErr)
	require.Len(t, roster, 8)

	assert.Equal(t, "second list of A", roster[0].ListText)
	assert.Equal(t, "only list of B", roster[1].ListText)
	assert.Equal(t, models.NoDefaultListText, roster[2].ListText)
	assert.Equal(t, players[3].Name, roster[3].PlayerName)
}

func TestBuildRosterRejectsBadSelections(t *testing.T) {
	players := testPlayers(10)

	_, appErr := buildRoster([]int{1, 2, 3}, players)
	require.NotNil(t, appErr)
	assert.Equal(t, "INVALID_SELECTION", appErr.Code)

	_, appErr = buildRoster([]int{1, 2, 3, 4, 5, 6, 7, 7}, players)
	require.NotNil(t, appErr)
	assert.Equal(t, "INVALID_SELECTION", appErr.Code)

	_, appErr = buildRoster([]int{1, 2, 3, 4, 5, 6, 7, 99}, players)
	require.NotNil(t, appErr)
	assert.Equal(t, "INVALID_SELECTION", appErr.Code)
	assert.Equal(t, 99, appErr.Detail["player_id"])
}

func TestBuildMatrixValidatesRosterAndCatalog(t *testing.T) {
	roster := testRoster()

	one, five := 1, 5
	entries := []MatrixEntry{
		{PlayerID: &one, ArmyIndex: &five, Value: "EASY"},
	}
	matrix, appErr := buildMatrix(entries, roster)
	require.Nil(t, appErr)
	assert.Equal(t, models.StateEasy, matrix[models.MatrixKey(1, 5)])

	// category outside the fixed catalog
	entries[0].Value = "SURE_THING"
	_, appErr = buildMatrix(entries, roster)
	require.NotNil(t, appErr)
	assert.Equal(t, "INVALID_CATEGORY", appErr.Code)

	// player not in the locked roster
	ninetynine := 99
	entries[0].Value = "WIN"
	entries[0].PlayerID = &ninetynine
	_, appErr = buildMatrix(entries, roster)
	require.NotNil(t, appErr)
	assert.Equal(t, "UNKNOWN_PLAYER", appErr.Code)
	assert.Equal(t, 99, appErr.Detail["player_id"])
}

func TestValidateArmies(t *testing.T) {
	ok := []models.Army{
		{Faction: "Necrons", List: "necron list"},
		{Faction: "Orks", List: "ork list"},
	}
	assert.Nil(t, validateArmies(ok))

	assert.Equal(t, "ARMY_COUNT", validateArmies(nil).Code)
	assert.Equal(t, "ARMY_COUNT", validateArmies(make([]models.Army, 9)).Code)

	missing := []models.Army{{Faction: "Necrons", List: "  "}}
	assert.Equal(t, "ARMY_FIELDS", validateArmies(missing).Code)

	dup := []models.Army{
		{Faction: "Necrons", List: "a"},
		{Faction: "Necrons", List: "b"},
	}
	assert.Equal(t, "FACTION_DUPLICATE", validateArmies(dup).Code)
}
