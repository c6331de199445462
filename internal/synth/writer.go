package synth

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/okian/contestcorr/internal/adapters/dataset"
	"github.com/okian/contestcorr/pkg/logger"
)

// File names written into Config.Dir.
const (
	ContestsFile  = "contests.json"
	ResultsFile   = "result.txt"
	ProvincesFile = "provinces.json"
)

const (
	directoryPermission = 0o750
	filePermission      = 0o644
)

type contestJSON struct {
	Name string `json:"name"`
	Type string `json:"type"`
	Year int    `json:"year"`
}

// Write generates a dataset and writes it to cfg.Dir, returning the paths
// for dataset.Load.
func Write(ctx context.Context, cfg *Config) (dataset.Paths, Stats, error) {
	if err := cfg.Validate(); err != nil {
		return dataset.Paths{}, Stats{}, err
	}
	if err := os.MkdirAll(cfg.Dir, directoryPermission); err != nil {
		return dataset.Paths{}, Stats{}, fmt.Errorf("failed to create directory: %w", err)
	}

	rows, stats, err := generate(ctx, cfg)
	if err != nil {
		return dataset.Paths{}, Stats{}, fmt.Errorf("generate: %w", err)
	}

	paths := dataset.Paths{
		Contests:  filepath.Join(cfg.Dir, ContestsFile),
		Results:   filepath.Join(cfg.Dir, ResultsFile),
		Provinces: filepath.Join(cfg.Dir, ProvincesFile),
	}

	contests := make([]contestJSON, len(cfg.Competitions))
	for i, name := range cfg.Competitions {
		contests[i] = contestJSON{Name: name, Type: contestType(name), Year: contestYear(name)}
	}
	if err := writeJSON(paths.Contests, contests); err != nil {
		return dataset.Paths{}, Stats{}, err
	}
	if err := writeJSON(paths.Provinces, cfg.Provinces); err != nil {
		return dataset.Paths{}, Stats{}, err
	}
	if err := writeResults(paths.Results, rows); err != nil {
		return dataset.Paths{}, Stats{}, err
	}

	logger.Get().Info(ctx, "synthetic dataset written",
		logger.String("dir", cfg.Dir),
		logger.Int("competitors", stats.Competitors),
		logger.Int("participations", stats.Participations),
		logger.Int("missingScores", stats.MissingScores))
	return paths, stats, nil
}

func writeJSON(path string, v any) (err error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, filePermission)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", path, cerr)
		}
	}()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func writeResults(path string, rows []row) (err error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, filePermission)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", path, cerr)
		}
	}()

	w := csv.NewWriter(f)
	for _, r := range rows {
		// id, uid, name, gender, enrollment, two derived columns, entries
		rec := []string{
			strconv.Itoa(r.id),
			r.uid,
			r.name,
			strconv.Itoa(r.gender),
			strconv.Itoa(r.enroll),
			strconv.Itoa(len(r.entries)),
			"0",
			encodeEntries(r.entries),
		}
		if err := w.Write(rec); err != nil {
			return fmt.Errorf("failed to write row %d: %w", r.id, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// contestType strips the trailing year and anything after it, e.g.
// "CSP2023提高" -> "CSP".
func contestType(name string) string {
	for i, r := range name {
		if r >= '0' && r <= '9' {
			return name[:i]
		}
	}
	return name
}

// contestYear extracts the first run of four digits, or 0.
func contestYear(name string) int {
	run := 0
	for i := 0; i < len(name); i++ {
		if name[i] >= '0' && name[i] <= '9' {
			run++
			if run == 4 {
				y, _ := strconv.Atoi(name[i-3 : i+1])
				return y
			}
			continue
		}
		run = 0
	}
	return 0
}
