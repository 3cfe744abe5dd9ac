package services

import (
	"errors"
	"log"
	"strconv"
	"strings"

	"team-pairing-system/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// PlayerService manages the team directory: players, their army lists and
// the 8-player active selection.
type PlayerService struct {
	DB *gorm.DB
}

func NewPlayerService(db *gorm.DB) *PlayerService {
	return &PlayerService{DB: db}
}

func (s *PlayerService) findPlayer(c *fiber.Ctx) (*models.Player, error) {
	playerID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return nil, respondErr(c, validationErr("INVALID_PLAYER_ID", "player id must be an integer"))
	}

	var player models.Player
	if err := s.DB.First(&player, "id = ?", playerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, respondErr(c, notFoundErr("PLAYER_NOT_FOUND", "Player not found"))
		}
		log.Printf("DB Error fetching player %d: %v", playerID, err)
		return nil, c.Status(500).JSON(fiber.Map{"error": "database error"})
	}
	return &player, nil
}

// GetPlayers lists every registered player, lists decoded.
func (s *PlayerService) GetPlayers(c *fiber.Ctx) error {
	var players []models.Player
	if err := s.DB.Order("id ASC").Find(&players).Error; err != nil {
		log.Printf("DB Error fetching players: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "database error"})
	}

	views := make([]models.PlayerView, 0, len(players))
	for i := range players {
		views = append(views, players[i].View())
	}
	return c.JSON(views)
}

// AddPlayer registers a new player. New players start inactive with no lists.
func (s *PlayerService) AddPlayer(c *fiber.Ctx) error {
	type addRequest struct {
		Name string `json:"name"`
	}
	var req addRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid JSON", "details": err.Error()})
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return respondErr(c, validationErr("NAME_REQUIRED", "Name is required"))
	}

	player := models.Player{Name: name, Active: false}
	player.SetLists(nil)
	if err := s.DB.Create(&player).Error; err != nil {
		log.Printf("DB Error creating player: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "database error"})
	}
	return c.Status(201).JSON(player.View())
}

// SetPlayerActive toggles a player's active flag. At most 8 players may be
// active at once, counting everyone but the player being toggled.
func (s *PlayerService) SetPlayerActive(c *fiber.Ctx) error {
	type activeRequest struct {
		Active *bool `json:"active"`
	}
	var req activeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid JSON", "details": err.Error()})
	}
	if req.Active == nil {
		return respondErr(c, validationErr("ACTIVE_REQUIRED", "active must be boolean"))
	}

	player, err := s.findPlayer(c)
	if err != nil {
		return err
	}

	if *req.Active {
		var activeOthers int64
		if err := s.DB.Model(&models.Player{}).
			Where("id <> ? AND active = ?", player.ID, true).
			Count(&activeOthers).Error; err != nil {
			log.Printf("DB Error counting active players: %v", err)
			return c.Status(500).JSON(fiber.Map{"error": "database error"})
		}
		if activeOthers >= models.MaxActivePlayers {
			return respondErr(c, conflictErr("ACTIVE_LIMIT", "You can only activate 8 players."))
		}
	}

	player.Active = *req.Active
	if err := s.DB.Model(player).Update("active", player.Active).Error; err != nil {
		log.Printf("DB Error updating player %d: %v", player.ID, err)
		return c.Status(500).JSON(fiber.Map{"error": "database error"})
	}
	return c.JSON(player.View())
}

// DeletePlayer removes a player. Roster snapshots in existing matches keep
// their frozen copy of the player.
func (s *PlayerService) DeletePlayer(c *fiber.Ctx) error {
	player, err := s.findPlayer(c)
	if err != nil {
		return err
	}

	if err := s.DB.Delete(player).Error; err != nil {
		log.Printf("DB Error deleting player %d: %v", player.ID, err)
		return c.Status(500).JSON(fiber.Map{"error": "database error"})
	}
	return c.JSON(fiber.Map{"status": "ok"})
}

// AddList appends an army list text to a player. The first list becomes the
// default.
func (s *PlayerService) AddList(c *fiber.Ctx) error {
	type listRequest struct {
		Text string `json:"text"`
	}
	var req listRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid JSON", "details": err.Error()})
	}

	text := strings.TrimSpace(req.Text)
	if text == "" {
		return respondErr(c, validationErr("LIST_TEXT_REQUIRED", "List text is required"))
	}

	player, err := s.findPlayer(c)
	if err != nil {
		return err
	}

	player.AddList(text)
	if err := s.savePlayerLists(player); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "database error"})
	}
	return c.JSON(player.View())
}

// DeleteList removes the list at the given index and renumbers the default.
func (s *PlayerService) DeleteList(c *fiber.Ctx) error {
	listIndex, err := strconv.Atoi(c.Params("index"))
	if err != nil {
		return respondErr(c, validationErr("INVALID_LIST_INDEX", "list index must be an integer"))
	}

	player, ferr := s.findPlayer(c)
	if ferr != nil {
		return ferr
	}

	if err := player.RemoveList(listIndex); err != nil {
		return respondErr(c, validationErr("LIST_INDEX_RANGE", "List index out of range"))
	}
	if err := s.savePlayerLists(player); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "database error"})
	}
	return c.JSON(player.View())
}

// SetDefaultList marks one of the player's lists as the default.
func (s *PlayerService) SetDefaultList(c *fiber.Ctx) error {
	type defaultRequest struct {
		Index *int `json:"index"`
	}
	var req defaultRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid JSON", "details": err.Error()})
	}
	if req.Index == nil {
		return respondErr(c, validationErr("INDEX_REQUIRED", "Index is required"))
	}

	player, ferr := s.findPlayer(c)
	if ferr != nil {
		return ferr
	}

	if err := player.SetDefaultIndex(*req.Index); err != nil {
		return respondErr(c, validationErr("LIST_INDEX_RANGE", "Index out of range"))
	}
	if err := s.savePlayerLists(player); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "database error"})
	}
	return c.JSON(player.View())
}

func (s *PlayerService) savePlayerLists(player *models.Player) error {
	err := s.DB.Model(player).Updates(map[string]interface{}{
		"lists_json":    player.ListsJSON,
		"default_index": player.DefaultIndex,
	}).Error
	if err != nil {
		log.Printf("DB Error saving lists for player %d: %v", player.ID, err)
	}
	return err
}
