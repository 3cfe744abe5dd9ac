package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"team-pairing-system/models"
	"team-pairing-system/utils"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

// SnapshotWorker serializes the player directory and the match collection to
// the flat JSON files the team's older tooling reads, keeps them under
// <data>/backups, and ships a copy to R2 when that is configured.
type SnapshotWorker struct {
	DB       *gorm.DB
	DataDir  string
	TeamName string
}

func NewSnapshotWorker(db *gorm.DB, dataDir, teamName string) *SnapshotWorker {
	return &SnapshotWorker{DB: db, DataDir: dataDir, TeamName: teamName}
}

// Run takes one snapshot. Local write failures abort; an R2 upload failure
// is logged but keeps the local snapshot.
func (w *SnapshotWorker) Run(ctx context.Context) error {
	var players []models.Player
	if err := w.DB.Order("id ASC").Find(&players).Error; err != nil {
		return fmt.Errorf("snapshot: load players: %w", err)
	}
	var matches []models.Match
	if err := w.DB.Order("id ASC").Find(&matches).Error; err != nil {
		return fmt.Errorf("snapshot: load games: %w", err)
	}

	playerViews := make([]models.PlayerView, 0, len(players))
	for i := range players {
		playerViews = append(playerViews, players[i].View())
	}
	matchExports := make([]models.MatchExport, 0, len(matches))
	for i := range matches {
		matchExports = append(matchExports, matches[i].Export())
	}

	playersJSON, err := json.MarshalIndent(playerViews, "", "  ")
	if err != nil {
		return fmt.Errorf("snapshot: encode players: %w", err)
	}
	gamesJSON, err := json.MarshalIndent(matchExports, "", "  ")
	if err != nil {
		return fmt.Errorf("snapshot: encode games: %w", err)
	}

	backupDir, err := utils.SnapshotDir(w.DataDir)
	if err != nil {
		return fmt.Errorf("snapshot: ensure backup dir: %w", err)
	}

	stamp := time.Now().Format("20060102-150405")
	dir := filepath.Join(backupDir, stamp)
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return fmt.Errorf("snapshot: create %s: %w", dir, err)
	}
	if err := os.WriteFile(filepath.Join(dir, "players.json"), playersJSON, 0o644); err != nil {
		return fmt.Errorf("snapshot: write players.json: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "games.json"), gamesJSON, 0o644); err != nil {
		return fmt.Errorf("snapshot: write games.json: %w", err)
	}
	log.Printf("💾 Snapshot written: %s (%d players, %d games)", dir, len(playerViews), len(matchExports))

	if utils.R2Enabled() {
		prefix := fmt.Sprintf("backups/%s/%s-%s",
			slug.Make(w.TeamName), stamp, uuid.NewString()[:8])
		if err := utils.UploadToR2(ctx, prefix+"/players.json", playersJSON, "application/json"); err != nil {
			log.Printf("[Snapshot] R2 upload failed (players): %v", err)
			return nil
		}
		if err := utils.UploadToR2(ctx, prefix+"/games.json", gamesJSON, "application/json"); err != nil {
			log.Printf("[Snapshot] R2 upload failed (games): %v", err)
			return nil
		}
		log.Printf("☁️  Snapshot uploaded to R2 under %s", prefix)
	}
	return nil
}
