package statistics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/reversi/internal/game"
)

func result(black, white int) GameResult {
	r := GameResult{Black: black, White: white, Moves: black + white - 4}
	r.Outcome = game.Draw
	if black > white {
		r.Outcome = game.BlackWins
	} else if white > black {
		r.Outcome = game.WhiteWins
	}
	return r
}

func TestStatistics_Empty(t *testing.T) {
	stats := &Statistics{}

	assert.Zero(t, stats.Mean())
	assert.Zero(t, stats.Variance())
	assert.Zero(t, stats.StdError())
	assert.Zero(t, stats.Median())
	assert.Zero(t, stats.WinRate())
	assert.Error(t, stats.Validate())
}

func TestStatistics_Add(t *testing.T) {
	stats := &Statistics{}
	stats.Add(result(40, 24))
	stats.Add(result(20, 44))
	stats.Add(result(32, 32))
	stats.Add(result(50, 10))

	require.NoError(t, stats.Validate())
	assert.Equal(t, 4, stats.Games)
	assert.Equal(t, 2, stats.BlackWins)
	assert.Equal(t, 1, stats.WhiteWins)
	assert.Equal(t, 1, stats.Draws)
	assert.Equal(t, 40, stats.MaxMargin)
	assert.Equal(t, -24, stats.MinMargin)

	// margins 16, -24, 0, 40
	assert.InDelta(t, 8.0, stats.Mean(), 1e-9)
	assert.InDelta(t, 8.0, stats.Median(), 1e-9)
	assert.InDelta(t, 0.625, stats.WinRate(), 1e-9)
	assert.InDelta(t, 63.0, stats.AverageDiscs(), 1e-9)

	variance := (math.Pow(8, 2) + math.Pow(32, 2) + math.Pow(8, 2) + math.Pow(32, 2)) / 3
	assert.InDelta(t, variance, stats.Variance(), 1e-9)

	low, high := stats.ConfidenceInterval95()
	assert.Less(t, low, stats.Mean())
	assert.Greater(t, high, stats.Mean())
}

func TestStatistics_Percentile(t *testing.T) {
	stats := &Statistics{}
	for _, black := range []int{10, 20, 30, 40, 50} {
		stats.Add(result(black, 64-black))
	}
	assert.InDelta(t, -44.0, stats.Percentile(0), 1e-9)
	assert.InDelta(t, 36.0, stats.Percentile(1), 1e-9)
	assert.InDelta(t, -4.0, stats.Percentile(0.5), 1e-9)
	assert.InDelta(t, -24.0, stats.Percentile(0.25), 1e-9)
}

func TestStatistics_ValidateCatchesDiscMismatch(t *testing.T) {
	stats := &Statistics{}
	r := result(40, 24)
	r.Moves-- // a move that added no disc
	stats.Add(r)
	assert.ErrorContains(t, stats.Validate(), "final discs")
}
