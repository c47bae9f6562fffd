package simulator

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/lox/reversi/internal/statistics"
)

// Report is the machine-readable summary of a run
type Report struct {
	Label        string     `json:"label"`
	Seed         int64      `json:"seed"`
	Games        int        `json:"games"`
	BlackWins    int        `json:"black_wins"`
	WhiteWins    int        `json:"white_wins"`
	Draws        int        `json:"draws"`
	BlackScore   float64    `json:"black_score"`
	MeanMargin   float64    `json:"mean_margin"`
	MedianMargin float64    `json:"median_margin"`
	StdDev       float64    `json:"std_dev"`
	CI95         [2]float64 `json:"ci95"`
	AverageDiscs float64    `json:"average_discs"`
	Moves        int        `json:"moves"`
	Passes       int        `json:"passes"`
	Anomalies    int        `json:"anomalies"`
}

// NewReport summarises stats
func NewReport(stats *statistics.Statistics, label string, seed int64) Report {
	low, high := stats.ConfidenceInterval95()
	return Report{
		Label:        label,
		Seed:         seed,
		Games:        stats.Games,
		BlackWins:    stats.BlackWins,
		WhiteWins:    stats.WhiteWins,
		Draws:        stats.Draws,
		BlackScore:   stats.WinRate(),
		MeanMargin:   stats.Mean(),
		MedianMargin: stats.Median(),
		StdDev:       stats.StdDev(),
		CI95:         [2]float64{low, high},
		AverageDiscs: stats.AverageDiscs(),
		Moves:        stats.Moves,
		Passes:       stats.Passes,
		Anomalies:    stats.Anomalies,
	}
}

// WriteReport writes r as JSON to path. The file is written next to its
// destination and renamed into place, so a reader never sees half a report.
func WriteReport(path string, r Report) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp.*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		if tmp != nil {
			tmp.Close()
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("sync report: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close report: %w", err)
	}
	tmp = nil

	if err := os.Chmod(tmpPath, 0o644); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("chmod report: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename report: %w", err)
	}
	return nil
}
