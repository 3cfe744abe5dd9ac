package services

import (
	"fmt"
	"strings"

	"team-pairing-system/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// PairingService records the committed player↔army↔layout assignment for a
// match and the real scores entered after play.
type PairingService struct {
	DB *gorm.DB
}

func NewPairingService(db *gorm.DB) *PairingService {
	return &PairingService{DB: db}
}

// validatePairings checks every non-empty entry for range violations and
// cross-entry duplicates. Empty slots (no player or no army) pass through
// untouched so a partially planned match can still be saved.
func validatePairings(entries []models.PairingEntry) *AppError {
	usedGameNos := map[int]bool{}
	usedPlayers := map[int]bool{}
	usedArmies := map[int]bool{}
	usedLayouts := map[int]bool{}

	for _, p := range entries {
		if p.Empty() {
			continue
		}

		if p.GameNo == nil || *p.GameNo < 1 || *p.GameNo > 8 {
			return validationErr("INVALID_ENTRY", "game_no must be 1..8")
		}
		if p.LayoutN == nil || *p.LayoutN <= 0 {
			return validationErr("INVALID_ENTRY", "layout_n must be a positive integer")
		}
		if p.RealScore != nil && (*p.RealScore < 0 || *p.RealScore > 20) {
			return validationErr("INVALID_ENTRY", "real_score must be 0..20")
		}

		if usedGameNos[*p.GameNo] {
			return validationErr("INVALID_ENTRY",
				fmt.Sprintf("game_no %d is used more than once", *p.GameNo))
		}
		if usedPlayers[*p.PlayerID] {
			return conflictErr("DUPLICATE_ASSIGNMENT", "A player is used more than once").
				withDetail(fiber.Map{"field": "player_id", "player_id": *p.PlayerID})
		}
		if usedArmies[*p.ArmyIndex] {
			return conflictErr("DUPLICATE_ASSIGNMENT", "An opponent list is used more than once").
				withDetail(fiber.Map{"field": "army_index", "army_index": *p.ArmyIndex})
		}
		if usedLayouts[*p.LayoutN] {
			return conflictErr("DUPLICATE_ASSIGNMENT", "A layout number is used more than once").
				withDetail(fiber.Map{"field": "layout_n", "layout_n": *p.LayoutN})
		}

		usedGameNos[*p.GameNo] = true
		usedPlayers[*p.PlayerID] = true
		usedArmies[*p.ArmyIndex] = true
		usedLayouts[*p.LayoutN] = true
	}
	return nil
}

// SavePairings replaces the match's pairing record. A non-null scenario on
// the payload overwrites the match scenario; a missing one leaves it alone.
func (s *PairingService) SavePairings(c *fiber.Ctx) error {
	type saveRequest struct {
		Scenario *string               `json:"scenario"`
		Pairings []models.PairingEntry `json:"pairings"`
	}
	var req saveRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid JSON", "details": err.Error()})
	}

	match, err := findMatchByID(c, s.DB)
	if err != nil {
		return err
	}

	if appErr := validatePairings(req.Pairings); appErr != nil {
		return respondErr(c, appErr)
	}

	if req.Scenario != nil {
		scenario := strings.TrimSpace(*req.Scenario)
		match.Scenario = &scenario
	}
	match.SetPairings(req.Pairings)
	if err := saveMatchVersioned(c, s.DB, match); err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"status":   "ok",
		"scenario": match.Scenario,
		"pairings": match.Pairings(),
	})
}

// GetPairings returns the match's committed pairing record.
func (s *PairingService) GetPairings(c *fiber.Ctx) error {
	match, err := findMatchByID(c, s.DB)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"scenario": match.Scenario,
		"pairings": match.Pairings(),
	})
}
