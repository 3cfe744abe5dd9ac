package services

import (
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	"team-pairing-system/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// MatchService owns the match lifecycle: creation against an opponent's
// armies, the irreversible roster lock, and the expectancy matrix.
type MatchService struct {
	DB *gorm.DB
}

func NewMatchService(db *gorm.DB) *MatchService {
	return &MatchService{DB: db}
}

// findMatchByID resolves the :id route param to a match row. On failure the
// error response has already been written; callers just return the error.
func findMatchByID(c *fiber.Ctx, db *gorm.DB) (*models.Match, error) {
	matchID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return nil, respondErr(c, validationErr("INVALID_GAME_ID", "game id must be an integer"))
	}

	var match models.Match
	if err := db.First(&match, "id = ?", matchID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, respondErr(c, notFoundErr("GAME_NOT_FOUND", "Game not found"))
		}
		log.Printf("DB Error fetching game %d: %v", matchID, err)
		return nil, c.Status(500).JSON(fiber.Map{"error": "database error"})
	}
	return &match, nil
}

func (s *MatchService) findMatch(c *fiber.Ctx) (*models.Match, error) {
	return findMatchByID(c, s.DB)
}

// saveMatchVersioned writes a mutated match back with an optimistic version
// check. A concurrent writer that got there first turns into a
// VERSION_CONFLICT instead of a silent overwrite.
func saveMatchVersioned(c *fiber.Ctx, db *gorm.DB, match *models.Match) error {
	res := db.Model(&models.Match{}).
		Where("id = ? AND version = ?", match.ID, match.Version).
		Updates(map[string]interface{}{
			"opponent_name": match.OpponentName,
			"armies_json":   match.ArmiesJSON,
			"comment":       match.Comment,
			"scenario":      match.Scenario,
			"roster_json":   match.RosterJSON,
			"matrix_json":   match.MatrixJSON,
			"pairings_json": match.PairingsJSON,
			"version":       match.Version + 1,
		})
	if res.Error != nil {
		log.Printf("DB Error saving game %d: %v", match.ID, res.Error)
		return c.Status(500).JSON(fiber.Map{"error": "database error"})
	}
	if res.RowsAffected == 0 {
		return respondErr(c, conflictErr("VERSION_CONFLICT",
			"game was modified concurrently, reload and retry"))
	}
	match.Version++
	return nil
}

// validateArmies checks the opponent list set: 1–8 entries, each with a
// faction and a list text, factions unique.
func validateArmies(armies []models.Army) *AppError {
	if len(armies) < 1 || len(armies) > models.MaxActivePlayers {
		return validationErr("ARMY_COUNT", "You must define between 1 and 8 armies")
	}
	seen := map[string]bool{}
	for _, a := range armies {
		faction := strings.TrimSpace(a.Faction)
		list := strings.TrimSpace(a.List)
		if faction == "" || list == "" {
			return validationErr("ARMY_FIELDS", "Each army needs a faction and a list text")
		}
		if seen[faction] {
			return validationErr("FACTION_DUPLICATE", "Each faction must be unique (no duplicates)")
		}
		seen[faction] = true
	}
	return nil
}

// CreateMatch records a new match against an opponent team.
func (s *MatchService) CreateMatch(c *fiber.Ctx) error {
	type createRequest struct {
		OpponentName string        `json:"opponent_name"`
		Armies       []models.Army `json:"armies"`
		Comment      string        `json:"comment"`
	}
	var req createRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid JSON", "details": err.Error()})
	}

	opponent := strings.TrimSpace(req.OpponentName)
	if opponent == "" {
		return respondErr(c, validationErr("OPPONENT_REQUIRED", "Opponent name is required"))
	}
	if appErr := validateArmies(req.Armies); appErr != nil {
		return respondErr(c, appErr)
	}

	armies := make([]models.Army, 0, len(req.Armies))
	for _, a := range req.Armies {
		armies = append(armies, models.Army{
			Faction: strings.TrimSpace(a.Faction),
			List:    strings.TrimSpace(a.List),
		})
	}

	match := models.Match{
		OpponentName: opponent,
		Comment:      strings.TrimSpace(req.Comment),
	}
	match.SetArmies(armies)
	match.SetRoster(nil)
	match.SetMatrix(nil)
	match.SetPairings(nil)

	if err := s.DB.Create(&match).Error; err != nil {
		log.Printf("DB Error creating game: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "database error"})
	}
	return c.Status(201).JSON(match.Export())
}

// GetMatches lists all matches, newest first.
func (s *MatchService) GetMatches(c *fiber.Ctx) error {
	var matches []models.Match
	if err := s.DB.Order("created_at DESC, id DESC").Find(&matches).Error; err != nil {
		log.Printf("DB Error fetching games: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "database error"})
	}

	out := make([]models.MatchExport, 0, len(matches))
	for i := range matches {
		out = append(out, matches[i].Export())
	}
	return c.JSON(out)
}

// GetMatch returns a single match in full.
func (s *MatchService) GetMatch(c *fiber.Ctx) error {
	match, err := s.findMatch(c)
	if err != nil {
		return err
	}
	return c.JSON(match.Export())
}

// DeleteMatch removes a match and all its scoring data.
func (s *MatchService) DeleteMatch(c *fiber.Ctx) error {
	match, err := s.findMatch(c)
	if err != nil {
		return err
	}
	if err := s.DB.Delete(match).Error; err != nil {
		log.Printf("DB Error deleting game %d: %v", match.ID, err)
		return c.Status(500).JSON(fiber.Map{"error": "database error"})
	}
	return c.JSON(fiber.Map{"status": "ok"})
}

// buildRoster validates a roster selection and snapshots the chosen players:
// id, name, and the default list text resolved at lock time.
func buildRoster(playerIDs []int, players []models.Player) ([]models.RosterEntry, *AppError) {
	if len(playerIDs) != models.MaxActivePlayers {
		return nil, validationErr("INVALID_SELECTION",
			fmt.Sprintf("exactly 8 players required, got %d", len(playerIDs)))
	}

	byID := make(map[int]*models.Player, len(players))
	for i := range players {
		byID[players[i].ID] = &players[i]
	}

	seen := map[int]bool{}
	roster := make([]models.RosterEntry, 0, models.MaxActivePlayers)
	for _, id := range playerIDs {
		if seen[id] {
			return nil, validationErr("INVALID_SELECTION",
				fmt.Sprintf("player %d selected more than once", id)).
				withDetail(fiber.Map{"player_id": id})
		}
		seen[id] = true

		player, ok := byID[id]
		if !ok {
			return nil, validationErr("INVALID_SELECTION",
				fmt.Sprintf("unknown player id %d", id)).
				withDetail(fiber.Map{"player_id": id})
		}

		listText, ok := player.DefaultListText()
		if !ok {
			listText = models.NoDefaultListText
		}
		roster = append(roster, models.RosterEntry{
			PlayerID:   player.ID,
			PlayerName: player.Name,
			ListText:   listText,
		})
	}
	return roster, nil
}

// LockRoster fixes the 8 players contesting this match. Locking is
// irreversible and, as an explicit postcondition, wipes any matrix cells and
// pairings recorded against a previous selection.
func (s *MatchService) LockRoster(c *fiber.Ctx) error {
	type lockRequest struct {
		PlayerIDs []int `json:"player_ids"`
	}
	var req lockRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid JSON", "details": err.Error()})
	}

	match, err := s.findMatch(c)
	if err != nil {
		return err
	}
	if match.RosterLocked() {
		return respondErr(c, conflictErr("ALREADY_LOCKED", "roster is already locked for this game"))
	}

	var players []models.Player
	if err := s.DB.Find(&players).Error; err != nil {
		log.Printf("DB Error fetching players: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "database error"})
	}

	roster, appErr := buildRoster(req.PlayerIDs, players)
	if appErr != nil {
		return respondErr(c, appErr)
	}

	if err := match.Lock(roster); err != nil {
		return respondErr(c, conflictErr("ALREADY_LOCKED", "roster is already locked for this game"))
	}
	if err := saveMatchVersioned(c, s.DB, match); err != nil {
		return err
	}

	log.Printf("🔒 Roster locked for game %d (%d players)", match.ID, len(roster))
	return c.JSON(fiber.Map{"status": "ok", "roster": roster})
}

// GetMatrix returns the matchup grid view. Before the roster is locked the
// caller gets the full active-player catalog to plan with; after the lock it
// gets only the frozen roster snapshot.
func (s *MatchService) GetMatrix(c *fiber.Ctx) error {
	match, err := s.findMatch(c)
	if err != nil {
		return err
	}

	var players interface{}
	if match.RosterLocked() {
		players = match.Roster()
	} else {
		var active []models.Player
		if err := s.DB.Where("active = ?", true).Order("id ASC").Find(&active).Error; err != nil {
			log.Printf("DB Error fetching active players: %v", err)
			return c.Status(500).JSON(fiber.Map{"error": "database error"})
		}
		views := make([]models.PlayerView, 0, len(active))
		for i := range active {
			views = append(views, active[i].View())
		}
		players = views
	}

	return c.JSON(fiber.Map{
		"game": fiber.Map{
			"id":            match.ID,
			"opponent_name": match.OpponentName,
			"armies":        match.Armies(),
			"created_at":    match.CreatedAt.Format("2006-01-02T15:04:05"),
			"comment":       match.Comment,
		},
		"roster_locked": match.RosterLocked(),
		"players":       players,
		"matrix":        match.Matrix(),
	})
}

// MatrixEntry is one cell of the expectancy matrix in a save payload.
type MatrixEntry struct {
	PlayerID  *int   `json:"player_id"`
	ArmyIndex *int   `json:"army_index"`
	Value     string `json:"value"`
}

// buildMatrix validates a full matrix payload against the locked roster and
// the category catalog and assembles the replacement cell map.
func buildMatrix(entries []MatrixEntry, roster []models.RosterEntry) (map[string]models.MatchState, *AppError) {
	inRoster := make(map[int]bool, len(roster))
	for _, r := range roster {
		inRoster[r.PlayerID] = true
	}

	matrix := make(map[string]models.MatchState, len(entries))
	for _, entry := range entries {
		if entry.PlayerID == nil || entry.ArmyIndex == nil {
			return nil, validationErr("INVALID_CELL", "player_id and army_index must be integers")
		}
		state := models.MatchState(entry.Value)
		if !state.Valid() {
			return nil, validationErr("INVALID_CATEGORY",
				fmt.Sprintf("Invalid state %s", entry.Value)).
				withDetail(fiber.Map{"value": entry.Value})
		}
		if !inRoster[*entry.PlayerID] {
			return nil, validationErr("UNKNOWN_PLAYER",
				fmt.Sprintf("player %d is not in the locked roster", *entry.PlayerID)).
				withDetail(fiber.Map{"player_id": *entry.PlayerID})
		}
		matrix[models.MatrixKey(*entry.PlayerID, *entry.ArmyIndex)] = state
	}
	return matrix, nil
}

// SaveMatrix replaces the whole expectancy matrix for a match. Full
// overwrite, never a merge. An optional comment is trimmed and stored.
func (s *MatchService) SaveMatrix(c *fiber.Ctx) error {
	type matrixRequest struct {
		Entries []MatrixEntry `json:"entries"`
		Comment *string       `json:"comment"`
	}
	var req matrixRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid JSON", "details": err.Error()})
	}

	match, err := s.findMatch(c)
	if err != nil {
		return err
	}
	if !match.RosterLocked() {
		return respondErr(c, preconditionErr("ROSTER_NOT_LOCKED",
			"lock the roster before filling the matrix"))
	}

	matrix, appErr := buildMatrix(req.Entries, match.Roster())
	if appErr != nil {
		return respondErr(c, appErr)
	}

	if err := match.ApplyMatrix(matrix); err != nil {
		return respondErr(c, preconditionErr("ROSTER_NOT_LOCKED",
			"lock the roster before filling the matrix"))
	}
	if req.Comment != nil {
		match.Comment = strings.TrimSpace(*req.Comment)
	}
	if err := saveMatchVersioned(c, s.DB, match); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"status": "ok", "matrix": matrix})
}
