package services

import (
	"log"
	"path/filepath"
	"strings"

	"team-pairing-system/utils"

	"github.com/gofiber/fiber/v2"
)

// LayoutService serves the board-layout image catalog out of the data
// directory. Files follow <scenario prefix><number>.png, e.g. HA1.png.
type LayoutService struct {
	DataDir string
}

func NewLayoutService(dataDir string) *LayoutService {
	return &LayoutService{DataDir: dataDir}
}

// ListLayouts returns, per scenario, the layout images present on disk,
// sorted by layout number.
func (s *LayoutService) ListLayouts(c *fiber.Ctx) error {
	layouts, err := utils.ScanLayouts(s.DataDir)
	if err != nil {
		log.Printf("Error scanning layouts in %s: %v", s.DataDir, err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to scan layouts"})
	}
	return c.JSON(layouts)
}

// ServeLayout streams one layout image. The filename is sanitized to the
// data directory; no traversal.
func (s *LayoutService) ServeLayout(c *fiber.Ctx) error {
	filename := filepath.Base(c.Params("file"))
	if filename == "." || filename == "/" || strings.HasPrefix(filename, ".") {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "File not found"})
	}
	return c.SendFile(filepath.Join(s.DataDir, filename))
}
