package services

import (
	"math"

	"team-pairing-system/models"
)

// CellRef identifies one expectancy-matrix cell.
type CellRef struct {
	PlayerID  int `json:"player_id"`
	ArmyIndex int `json:"army_index"`
}

// ProposalPair is one player↔army assignment inside a proposal.
type ProposalPair struct {
	PlayerID   int               `json:"player_id"`
	PlayerName string            `json:"player_name"`
	ArmyIndex  int               `json:"army_index"`
	Faction    string            `json:"faction"`
	State      models.MatchState `json:"state"`
	Expected   float64           `json:"expected"`
}

// Proposal is one full bijection between the roster and the opposing armies,
// with its total expected score (rounded to one decimal).
type Proposal struct {
	Total float64        `json:"total"`
	Pairs []ProposalPair `json:"pairs"`
}

// MissingMatrixCells enumerates every (player, army) cell a full bijection
// would need that has no matrix entry. All gaps are reported, not just the
// first, so the caller can fill the grid in one pass.
func MissingMatrixCells(roster []models.RosterEntry, armies []models.Army, matrix map[string]models.MatchState) []CellRef {
	var missing []CellRef
	for _, r := range roster {
		for armyIdx := range armies {
			if _, ok := matrix[models.MatrixKey(r.PlayerID, armyIdx)]; !ok {
				missing = append(missing, CellRef{PlayerID: r.PlayerID, ArmyIndex: armyIdx})
			}
		}
	}
	return missing
}

// candidate keeps a permutation's score while the search runs; pairs are only
// materialized for the winners.
type candidate struct {
	total float64
	perm  []int
}

// TopProposals exhaustively scores every bijection between the roster
// players and the army indices (8! = 40,320 for a full match) and returns
// the k best by total expected score, descending. Ties keep enumeration
// order, so repeated calls on the same input return the same ranking.
// The matrix must be complete; check MissingMatrixCells first.
func TopProposals(roster []models.RosterEntry, armies []models.Army, matrix map[string]models.MatchState, k int) []Proposal {
	n := len(roster)

	// player i vs army j score lookup
	scores := make([][]float64, n)
	for i, r := range roster {
		scores[i] = make([]float64, n)
		for j := 0; j < n; j++ {
			expected, _ := matrix[models.MatrixKey(r.PlayerID, j)].ExpectedScore()
			scores[i][j] = expected
		}
	}

	best := make([]candidate, 0, k)
	perm := make([]int, n)
	used := make([]bool, n)

	var search func(depth int, partial float64)
	search = func(depth int, partial float64) {
		if depth == n {
			insertCandidate(&best, candidate{total: partial, perm: append([]int(nil), perm...)}, k)
			return
		}
		for armyIdx := 0; armyIdx < n; armyIdx++ {
			if used[armyIdx] {
				continue
			}
			used[armyIdx] = true
			perm[depth] = armyIdx
			search(depth+1, partial+scores[depth][armyIdx])
			used[armyIdx] = false
		}
	}
	search(0, 0)

	proposals := make([]Proposal, 0, len(best))
	for _, cand := range best {
		pairs := make([]ProposalPair, 0, n)
		for i, armyIdx := range cand.perm {
			state := matrix[models.MatrixKey(roster[i].PlayerID, armyIdx)]
			pairs = append(pairs, ProposalPair{
				PlayerID:   roster[i].PlayerID,
				PlayerName: roster[i].PlayerName,
				ArmyIndex:  armyIdx,
				Faction:    armies[armyIdx].Faction,
				State:      state,
				Expected:   scores[i][armyIdx],
			})
		}
		proposals = append(proposals, Proposal{
			Total: math.Round(cand.total*10) / 10,
			Pairs: pairs,
		})
	}
	return proposals
}

// insertCandidate keeps best sorted by total descending, capped at k. A new
// candidate goes after existing candidates with an equal total.
func insertCandidate(best *[]candidate, cand candidate, k int) {
	b := *best
	pos := 0
	for pos < len(b) && b[pos].total >= cand.total {
		pos++
	}
	if pos >= k {
		return
	}
	if len(b) < k {
		b = append(b, candidate{})
	}
	copy(b[pos+1:], b[pos:])
	b[pos] = cand
	*best = b
}
