package models

import (
	"encoding/json"
	"errors"
	"time"
)

// NoDefaultListText is snapshotted into a roster when a player has no
// default list at lock time.
const NoDefaultListText = "No default list"

// MaxActivePlayers is the size of the competing team.
const MaxActivePlayers = 8

// Player is a team member. List texts are free-form army lists kept in
// insertion order; one of them may be marked as the default.
type Player struct {
	ID           int    `json:"id" gorm:"primaryKey;autoIncrement"`
	Name         string `json:"name" gorm:"not null"`
	ListsJSON    string `json:"-" gorm:"type:text;not null;default:'[]'"`
	DefaultIndex *int   `json:"default_index"`
	Active       bool   `json:"active" gorm:"default:false"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

var ErrListIndexOutOfRange = errors.New("list index out of range")

// Lists decodes the stored list texts. A broken column yields an empty slice
// rather than an error; the column is always written by SetLists.
func (p *Player) Lists() []string {
	if p.ListsJSON == "" {
		return []string{}
	}
	var lists []string
	if err := json.Unmarshal([]byte(p.ListsJSON), &lists); err != nil {
		return []string{}
	}
	return lists
}

func (p *Player) SetLists(lists []string) {
	if lists == nil {
		lists = []string{}
	}
	b, _ := json.Marshal(lists)
	p.ListsJSON = string(b)
}

// AddList appends a list text. The first list a player gets becomes the
// default automatically.
func (p *Player) AddList(text string) {
	lists := append(p.Lists(), text)
	p.SetLists(lists)
	if p.DefaultIndex == nil {
		zero := 0
		p.DefaultIndex = &zero
	}
}

// RemoveList deletes the list at index and renumbers the default: removing
// the default itself falls back to 0 (or none if no lists remain); removing
// a list before the default shifts the default down by one.
func (p *Player) RemoveList(index int) error {
	lists := p.Lists()
	if index < 0 || index >= len(lists) {
		return ErrListIndexOutOfRange
	}
	lists = append(lists[:index], lists[index+1:]...)
	p.SetLists(lists)

	if p.DefaultIndex != nil {
		switch {
		case index == *p.DefaultIndex:
			if len(lists) > 0 {
				zero := 0
				p.DefaultIndex = &zero
			} else {
				p.DefaultIndex = nil
			}
		case index < *p.DefaultIndex:
			d := *p.DefaultIndex - 1
			p.DefaultIndex = &d
		}
	}
	return nil
}

// SetDefaultIndex marks the list at index as the default.
func (p *Player) SetDefaultIndex(index int) error {
	if index < 0 || index >= len(p.Lists()) {
		return ErrListIndexOutOfRange
	}
	p.DefaultIndex = &index
	return nil
}

// DefaultListText resolves the current default list text, if any.
func (p *Player) DefaultListText() (string, bool) {
	if p.DefaultIndex == nil {
		return "", false
	}
	lists := p.Lists()
	if *p.DefaultIndex < 0 || *p.DefaultIndex >= len(lists) {
		return "", false
	}
	return lists[*p.DefaultIndex], true
}

// PlayerView is the API shape of a player, lists decoded.
type PlayerView struct {
	ID           int      `json:"id"`
	Name         string   `json:"name"`
	Lists        []string `json:"lists"`
	DefaultIndex *int     `json:"default_index"`
	Active       bool     `json:"active"`
}

func (p *Player) View() PlayerView {
	return PlayerView{
		ID:           p.ID,
		Name:         p.Name,
		Lists:        p.Lists(),
		DefaultIndex: p.DefaultIndex,
		Active:       p.Active,
	}
}
