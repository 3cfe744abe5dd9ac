package services

import (
	"fmt"
	"log"
	"sort"

	"team-pairing-system/models"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
	"gorm.io/gorm"
)

// ReportService folds every match's pairing record against its expectancy
// matrix into per-player performance rows.
type ReportService struct {
	DB *gorm.DB
}

func NewReportService(db *gorm.DB) *ReportService {
	return &ReportService{DB: db}
}

// ReportDetail is one played pairing of one player, with the prediction the
// matrix held for that cell when it exists. Expected and delta stay absent
// (not zero) when the cell was never filled.
type ReportDetail struct {
	GameID       int                `json:"game_id"`
	OpponentName string             `json:"opponent_name"`
	GameNo       int                `json:"game_no"`
	Faction      string             `json:"faction"`
	Scenario     *string            `json:"scenario"`
	RealScore    *int               `json:"real_score"`
	State        *models.MatchState `json:"state"`
	Expected     *float64           `json:"expected"`
	Delta        *float64           `json:"delta"`
}

// ReportRow aggregates one player across the whole match history.
type ReportRow struct {
	PlayerID   int            `json:"player_id"`
	PlayerName string         `json:"player_name"`
	Games      int            `json:"games"`
	AvgScore   *float64       `json:"avg_score"`
	AvgDelta   *float64       `json:"avg_delta"`
	Details    []ReportDetail `json:"details"`
}

// buildReportRows walks every non-empty pairing entry of every match. Real
// scores feed the average; deltas only where the matrix had a prediction for
// that exact (player, army) cell.
func buildReportRows(matches []models.Match) []ReportRow {
	rowsByPlayer := map[int]*ReportRow{}
	order := []int{}

	for i := range matches {
		match := &matches[i]
		matrix := match.Matrix()
		armies := match.Armies()

		names := map[int]string{}
		for _, r := range match.Roster() {
			names[r.PlayerID] = r.PlayerName
		}

		for _, p := range match.Pairings() {
			if p.Empty() {
				continue
			}

			row, ok := rowsByPlayer[*p.PlayerID]
			if !ok {
				row = &ReportRow{
					PlayerID:   *p.PlayerID,
					PlayerName: fmt.Sprintf("Player %d", *p.PlayerID),
				}
				rowsByPlayer[*p.PlayerID] = row
				order = append(order, *p.PlayerID)
			}
			// the roster snapshot is the authoritative name source
			if name := names[*p.PlayerID]; name != "" {
				row.PlayerName = name
			}

			detail := ReportDetail{
				GameID:       match.ID,
				OpponentName: match.OpponentName,
				Scenario:     match.Scenario,
				RealScore:    p.RealScore,
			}
			if p.GameNo != nil {
				detail.GameNo = *p.GameNo
			}
			if *p.ArmyIndex >= 0 && *p.ArmyIndex < len(armies) {
				detail.Faction = armies[*p.ArmyIndex].Faction
			}

			if state, ok := matrix[models.MatrixKey(*p.PlayerID, *p.ArmyIndex)]; ok {
				if expected, ok := state.ExpectedScore(); ok {
					st := state
					detail.State = &st
					detail.Expected = &expected
					if p.RealScore != nil {
						delta := float64(*p.RealScore) - expected
						detail.Delta = &delta
					}
				}
			}

			row.Games++
			row.Details = append(row.Details, detail)
		}
	}

	rows := make([]ReportRow, 0, len(order))
	for _, playerID := range order {
		row := rowsByPlayer[playerID]

		var scoreSum, deltaSum float64
		var scoreN, deltaN int
		for _, d := range row.Details {
			if d.RealScore != nil {
				scoreSum += float64(*d.RealScore)
				scoreN++
			}
			if d.Delta != nil {
				deltaSum += *d.Delta
				deltaN++
			}
		}
		if scoreN > 0 {
			avg := scoreSum / float64(scoreN)
			row.AvgScore = &avg
		}
		if deltaN > 0 {
			avg := deltaSum / float64(deltaN)
			row.AvgDelta = &avg
		}
		rows = append(rows, *row)
	}

	sortReportRows(rows)
	return rows
}

// sortReportRows orders scored rows first, best average first; ties and the
// unscored tail fall back to case-insensitive name order.
func sortReportRows(rows []ReportRow) {
	collator := collate.New(language.Und, collate.IgnoreCase)
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		switch {
		case a.AvgScore != nil && b.AvgScore == nil:
			return true
		case a.AvgScore == nil && b.AvgScore != nil:
			return false
		case a.AvgScore != nil && b.AvgScore != nil && *a.AvgScore != *b.AvgScore:
			return *a.AvgScore > *b.AvgScore
		default:
			return collator.CompareString(a.PlayerName, b.PlayerName) < 0
		}
	})
}

// BuildReport returns the cross-match per-player report.
func (s *ReportService) BuildReport(c *fiber.Ctx) error {
	var matches []models.Match
	if err := s.DB.Order("created_at ASC, id ASC").Find(&matches).Error; err != nil {
		log.Printf("DB Error fetching games for report: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "database error"})
	}

	rows := buildReportRows(matches)
	return c.JSON(fiber.Map{
		"players": rows,
		"games":   len(matches),
	})
}
