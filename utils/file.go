package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
)

// Scenario -> layout filename prefix. A layout image for scenario
// HAMMER_ANVIL with number 3 is stored as HA3.png in the data directory.
var scenarioPrefix = map[string]string{
	"HAMMER_ANVIL":        "HA",
	"SEEK_DESTROY":        "SD",
	"CRUCIBLE_BATTLE":     "CB",
	"TIPPING_POINTS":      "TP",
	"DAWN_OF_WAR":         "DOW",
	"SWEEPING_ENGAGEMENT": "SE",
}

// LayoutEntry is one board layout image on disk.
type LayoutEntry struct {
	N    int    `json:"n"`
	File string `json:"file"`
}

// EnsureDataDir creates the data directory (layout images, snapshots) if it
// doesn't exist.
func EnsureDataDir(dataDir string) error {
	return os.MkdirAll(dataDir, os.ModePerm)
}

// ScanLayouts lists the layout images per scenario, sorted by layout number.
// Scenarios with no images on disk still appear with an empty slice.
func ScanLayouts(dataDir string) (map[string][]LayoutEntry, error) {
	out := make(map[string][]LayoutEntry, len(scenarioPrefix))
	for scenario := range scenarioPrefix {
		out[scenario] = []LayoutEntry{}
	}

	files, err := os.ReadDir(dataDir)
	if err != nil {
		if os.IsNotExist(err) {
			return out, nil
		}
		return nil, err
	}

	for scenario, prefix := range scenarioPrefix {
		rx := regexp.MustCompile(fmt.Sprintf(`(?i)^%s(\d+)\.png$`, regexp.QuoteMeta(prefix)))
		var matches []LayoutEntry
		for _, f := range files {
			if f.IsDir() {
				continue
			}
			m := rx.FindStringSubmatch(f.Name())
			if m == nil {
				continue
			}
			n, err := strconv.Atoi(m[1])
			if err != nil {
				continue
			}
			matches = append(matches, LayoutEntry{N: n, File: f.Name()})
		}
		sort.Slice(matches, func(i, j int) bool { return matches[i].N < matches[j].N })
		if matches != nil {
			out[scenario] = matches
		}
	}
	return out, nil
}

// SnapshotDir returns the backup directory under the data dir, creating it
// if needed.
func SnapshotDir(dataDir string) (string, error) {
	dir := filepath.Join(dataDir, "backups")
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return "", err
	}
	return dir, nil
}
