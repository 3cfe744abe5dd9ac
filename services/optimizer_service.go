package services

import (
	"fmt"
	"log"

	"team-pairing-system/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// proposalCount is how many ranked assignments the optimizer reports.
const proposalCount = 5

// OptimizerService exposes the exhaustive pairing search over a match's
// expectancy matrix.
type OptimizerService struct {
	DB *gorm.DB
}

func NewOptimizerService(db *gorm.DB) *OptimizerService {
	return &OptimizerService{DB: db}
}

// Optimize returns the top 5 player↔army assignments for a match by total
// expected score. Requires a locked 8-player roster, exactly 8 armies and a
// complete matrix; an incomplete matrix reports every missing cell.
func (s *OptimizerService) Optimize(c *fiber.Ctx) error {
	m, err := findMatchByID(c, s.DB)
	if err != nil {
		return err
	}

	roster := m.Roster()
	if len(roster) != models.MaxActivePlayers {
		return respondErr(c, preconditionErr("ROSTER_INCOMPLETE",
			fmt.Sprintf("roster must have 8 players, found %d", len(roster))).
			withDetail(fiber.Map{"roster_count": len(roster)}))
	}

	armies := m.Armies()
	if len(armies) != models.MaxActivePlayers {
		return respondErr(c, preconditionErr("ARMY_COUNT_INVALID",
			fmt.Sprintf("game must have 8 armies, found %d", len(armies))).
			withDetail(fiber.Map{"army_count": len(armies)}))
	}

	matrix := m.Matrix()
	if missing := MissingMatrixCells(roster, armies, matrix); len(missing) > 0 {
		return respondErr(c, preconditionErr("MATRIX_INCOMPLETE",
			fmt.Sprintf("%d matrix cells are missing", len(missing))).
			withDetail(fiber.Map{"missing_cells": missing}))
	}

	proposals := TopProposals(roster, armies, matrix, proposalCount)
	log.Printf("🎯 Optimized game %d: best total %.1f", m.ID, proposals[0].Total)

	return c.JSON(fiber.Map{
		"game_id":   m.ID,
		"proposals": proposals,
	})
}
