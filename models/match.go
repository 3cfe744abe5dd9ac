// models/match.go
package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Army is one opposing list in a match: a faction tag plus the list text.
// Factions are unique within a match.
type Army struct {
	Faction string `json:"faction"`
	List    string `json:"list"`
}

// RosterEntry is a frozen snapshot of a player taken at roster-lock time.
// Later edits to the player's lists do not touch historical matches.
type RosterEntry struct {
	PlayerID   int    `json:"player_id"`
	PlayerName string `json:"player_name"`
	ListText   string `json:"list_text"`
}

// PairingEntry is one committed table of the match. A slot with no player or
// no army is an empty slot and is skipped by the uniqueness checks.
type PairingEntry struct {
	GameNo    *int `json:"game_no"`
	PlayerID  *int `json:"player_id"`
	ArmyIndex *int `json:"army_index"`
	LayoutN   *int `json:"layout_n"`
	RealScore *int `json:"real_score"`
}

// Empty reports whether the slot has no pairing assigned yet.
func (e PairingEntry) Empty() bool {
	return e.PlayerID == nil || e.ArmyIndex == nil
}

// Match is one team match against an opponent team: 1–8 opposing armies, an
// 8-player roster locked before scoring, the expectancy matrix, and the
// committed pairings. Armies, roster, matrix and pairings live as JSON text
// columns; all writes go through versioned single-row updates.
type Match struct {
	ID           int     `json:"id" gorm:"primaryKey;autoIncrement"`
	OpponentName string  `json:"opponent_name" gorm:"not null"`
	ArmiesJSON   string  `json:"-" gorm:"type:text;not null;default:'[]'"`
	Comment      string  `json:"comment"`
	Scenario     *string `json:"scenario"`
	RosterJSON   string  `json:"-" gorm:"type:text;not null;default:'[]'"`
	MatrixJSON   string  `json:"-" gorm:"type:text;not null;default:'{}'"`
	PairingsJSON string  `json:"-" gorm:"type:text;not null;default:'[]'"`

	// Optimistic concurrency: mutating writes require the version they read.
	Version int `json:"version" gorm:"not null;default:1"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// MatrixKey builds the persisted "<playerId>-<armyIndex>" matrix cell key.
func MatrixKey(playerID, armyIndex int) string {
	return fmt.Sprintf("%d-%d", playerID, armyIndex)
}

func (m *Match) Armies() []Army {
	var armies []Army
	if m.ArmiesJSON != "" {
		_ = json.Unmarshal([]byte(m.ArmiesJSON), &armies)
	}
	if armies == nil {
		armies = []Army{}
	}
	return armies
}

func (m *Match) SetArmies(armies []Army) {
	b, _ := json.Marshal(armies)
	m.ArmiesJSON = string(b)
}

func (m *Match) Roster() []RosterEntry {
	var roster []RosterEntry
	if m.RosterJSON != "" {
		_ = json.Unmarshal([]byte(m.RosterJSON), &roster)
	}
	if roster == nil {
		roster = []RosterEntry{}
	}
	return roster
}

func (m *Match) SetRoster(roster []RosterEntry) {
	b, _ := json.Marshal(roster)
	m.RosterJSON = string(b)
}

// RosterLocked reports whether the match has its full 8-player roster. A
// locked roster is immutable for the lifetime of the match.
func (m *Match) RosterLocked() bool {
	return len(m.Roster()) == MaxActivePlayers
}

var (
	ErrRosterLocked    = errors.New("roster is already locked")
	ErrRosterNotLocked = errors.New("roster is not locked")
)

// Lock freezes the roster. Locking is one-way: a locked match refuses a
// second roster and keeps the first. Any matrix cells and pairings recorded
// against a previous selection are wiped.
func (m *Match) Lock(roster []RosterEntry) error {
	if m.RosterLocked() {
		return ErrRosterLocked
	}
	m.SetRoster(roster)
	m.SetMatrix(nil)
	m.SetPairings(nil)
	return nil
}

// ApplyMatrix replaces the expectancy matrix. Only a locked match has one.
func (m *Match) ApplyMatrix(matrix map[string]MatchState) error {
	if !m.RosterLocked() {
		return ErrRosterNotLocked
	}
	m.SetMatrix(matrix)
	return nil
}

func (m *Match) Matrix() map[string]MatchState {
	matrix := map[string]MatchState{}
	if m.MatrixJSON != "" {
		_ = json.Unmarshal([]byte(m.MatrixJSON), &matrix)
	}
	return matrix
}

func (m *Match) SetMatrix(matrix map[string]MatchState) {
	if matrix == nil {
		matrix = map[string]MatchState{}
	}
	b, _ := json.Marshal(matrix)
	m.MatrixJSON = string(b)
}

func (m *Match) Pairings() []PairingEntry {
	var pairings []PairingEntry
	if m.PairingsJSON != "" {
		_ = json.Unmarshal([]byte(m.PairingsJSON), &pairings)
	}
	if pairings == nil {
		pairings = []PairingEntry{}
	}
	return pairings
}

func (m *Match) SetPairings(pairings []PairingEntry) {
	if pairings == nil {
		pairings = []PairingEntry{}
	}
	b, _ := json.Marshal(pairings)
	m.PairingsJSON = string(b)
}

// MatchExport is the full API / snapshot shape of a match, sub-documents
// decoded. Timestamps are second-resolution ISO strings, matching the
// persisted format the team's tooling reads.
type MatchExport struct {
	ID           int                   `json:"id"`
	OpponentName string                `json:"opponent_name"`
	Armies       []Army                `json:"armies"`
	CreatedAt    string                `json:"created_at"`
	Comment      string                `json:"comment"`
	Scenario     *string               `json:"scenario"`
	Roster       []RosterEntry         `json:"roster"`
	Matrix       map[string]MatchState `json:"matrix"`
	Pairings     []PairingEntry        `json:"pairings"`
}

func (m *Match) Export() MatchExport {
	return MatchExport{
		ID:           m.ID,
		OpponentName: m.OpponentName,
		Armies:       m.Armies(),
		CreatedAt:    m.CreatedAt.Format("2006-01-02T15:04:05"),
		Comment:      m.Comment,
		Scenario:     m.Scenario,
		Roster:       m.Roster(),
		Matrix:       m.Matrix(),
		Pairings:     m.Pairings(),
	}
}
