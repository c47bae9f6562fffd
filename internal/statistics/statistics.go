// Package statistics aggregates the results of simulated games.
package statistics

import (
	"fmt"
	"math"
	"sort"

	"github.com/lox/reversi/internal/game"
)

// GameResult is the outcome of one simulated game, seen from Black
type GameResult struct {
	Seed      int64
	Outcome   game.Outcome
	Black     int
	White     int
	Moves     int // placements by either side
	Passes    int // natural passes, not forced ones
	Anomalies int // policy responses replaced by a forced pass
}

// Margin is Black's disc lead at the end of the game
func (r GameResult) Margin() int {
	return r.Black - r.White
}

// Statistics tracks simulation results
type Statistics struct {
	Games      int
	SumMargin  float64
	SumMargin2 float64   // Sum of squares for variance calculation
	Values     []float64 // Store all margins for median/percentile calculation

	BlackWins int
	WhiteWins int
	Draws     int

	Moves      int
	Passes     int
	Anomalies  int
	FinalDiscs int

	MaxMargin int
	MinMargin int
}

// Add incorporates a new game result into the statistics
func (s *Statistics) Add(result GameResult) {
	margin := result.Margin()
	m := float64(margin)
	if s.Games == 0 || margin > s.MaxMargin {
		s.MaxMargin = margin
	}
	if s.Games == 0 || margin < s.MinMargin {
		s.MinMargin = margin
	}

	s.Games++
	s.SumMargin += m
	s.SumMargin2 += m * m
	s.Values = append(s.Values, m)

	switch result.Outcome {
	case game.BlackWins:
		s.BlackWins++
	case game.WhiteWins:
		s.WhiteWins++
	case game.Draw:
		s.Draws++
	}

	s.Moves += result.Moves
	s.Passes += result.Passes
	s.Anomalies += result.Anomalies
	s.FinalDiscs += result.Black + result.White
}

// Mean returns the average margin per game
func (s *Statistics) Mean() float64 {
	if s.Games == 0 {
		return 0
	}
	return s.SumMargin / float64(s.Games)
}

// Variance returns the sample variance of the margins
func (s *Statistics) Variance() float64 {
	if s.Games < 2 {
		return 0
	}
	mean := s.Mean()
	return (s.SumMargin2 - float64(s.Games)*mean*mean) / float64(s.Games-1)
}

// StdDev returns the sample standard deviation of the margins
func (s *Statistics) StdDev() float64 {
	return math.Sqrt(s.Variance())
}

// StdError returns the standard error of the mean
func (s *Statistics) StdError() float64 {
	if s.Games == 0 {
		return 0
	}
	return s.StdDev() / math.Sqrt(float64(s.Games))
}

// ConfidenceInterval95 returns the 95% confidence interval for the mean
func (s *Statistics) ConfidenceInterval95() (float64, float64) {
	mean := s.Mean()
	margin := 1.96 * s.StdError()
	return mean - margin, mean + margin
}

// Median returns the median margin
func (s *Statistics) Median() float64 {
	return s.Percentile(0.5)
}

// Percentile returns the margin at the given percentile (0.0 to 1.0)
func (s *Statistics) Percentile(p float64) float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := make([]float64, len(s.Values))
	copy(sorted, s.Values)
	sort.Float64s(sorted)

	index := p * float64(len(sorted)-1)
	lower := int(index)
	upper := lower + 1
	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}

	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// WinRate returns Black's share of games won, counting draws as half
func (s *Statistics) WinRate() float64 {
	if s.Games == 0 {
		return 0
	}
	return (float64(s.BlackWins) + 0.5*float64(s.Draws)) / float64(s.Games)
}

// AverageDiscs returns the mean number of discs on the final board
func (s *Statistics) AverageDiscs() float64 {
	if s.Games == 0 {
		return 0
	}
	return float64(s.FinalDiscs) / float64(s.Games)
}

// Validate checks that the counters agree with each other
func (s *Statistics) Validate() error {
	if s.Games <= 0 {
		return fmt.Errorf("invalid games count: %d", s.Games)
	}
	if len(s.Values) != s.Games {
		return fmt.Errorf("values length (%d) does not match games count (%d)", len(s.Values), s.Games)
	}
	if total := s.BlackWins + s.WhiteWins + s.Draws; total != s.Games {
		return fmt.Errorf("outcomes total (%d) does not match games count (%d)", total, s.Games)
	}
	// Every placement adds one disc to the four on the opening board
	if s.FinalDiscs != 4*s.Games+s.Moves {
		return fmt.Errorf("final discs (%d) do not match %d games and %d moves", s.FinalDiscs, s.Games, s.Moves)
	}
	return nil
}
