package statistics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/blackjack/internal/game"
)

func TestAdd(t *testing.T) {
	s := New()
	s.Add(RoundResult{Outcome: game.PlayerWin, Bet: 10, Net: 10, Natural: true})
	s.Add(RoundResult{Outcome: game.DealerWin, Bet: 10, Net: -10})
	s.Add(RoundResult{Outcome: game.PlayerBust, Bet: 10, Net: -10})
	s.Add(RoundResult{Outcome: game.Push, Bet: 10, Net: 0})

	require.NoError(t, s.Validate())
	assert.Equal(t, 4, s.Rounds)
	assert.Equal(t, -10, s.SumNet)
	assert.Equal(t, 1, s.Wins())
	assert.Equal(t, 2, s.Losses())
	assert.Equal(t, 1, s.Pushes())
	assert.Equal(t, 1, s.Naturals)
	assert.InDelta(t, -0.25, s.Mean(), 1e-9)
	assert.InDelta(t, 0.25, s.Rate(game.Push), 1e-9)
	assert.Equal(t, 20, s.MaxDrawdown)

	lo, hi := s.ConfidenceInterval95()
	assert.Less(t, lo, s.Mean())
	assert.Greater(t, hi, s.Mean())
}

func TestVariance(t *testing.T) {
	s := New()
	for i := 0; i < 10; i++ {
		s.Add(RoundResult{Outcome: game.PlayerWin, Bet: 5, Net: 5})
		s.Add(RoundResult{Outcome: game.DealerWin, Bet: 5, Net: -5})
	}
	assert.InDelta(t, 0, s.Mean(), 1e-9)
	// Twenty results of +1/-1: variance is 20/19.
	assert.InDelta(t, 20.0/19.0, s.Variance(), 1e-9)
}

func TestMerge(t *testing.T) {
	a, b := New(), New()
	a.Add(RoundResult{Outcome: game.PlayerWin, Bet: 10, Net: 10})
	b.Add(RoundResult{Outcome: game.DealerBust, Bet: 10, Net: 10})
	b.Add(RoundResult{Outcome: game.DealerWin, Bet: 10, Net: -10})
	b.Rebuys = 2

	a.Merge(b)
	require.NoError(t, a.Validate())
	assert.Equal(t, 3, a.Rounds)
	assert.Equal(t, 2, a.Wins())
	assert.Equal(t, 2, a.Rebuys)
	assert.Equal(t, 10, a.MaxDrawdown)
}

func TestValidate(t *testing.T) {
	s := New()
	s.Add(RoundResult{Outcome: game.NoOutcome})
	assert.Error(t, s.Validate())

	s = New()
	s.Rounds = 3
	assert.Error(t, s.Validate())
}
