package game

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDealerHitsToTwentyOne(t *testing.T) {
	e, src := newTestEngine(t, 2000, 100, 10, 9, 10, 6, 5)

	require.NoError(t, e.Deal())
	assert.Equal(t, PlayerTurn, e.Phase())
	assert.Equal(t, 19, e.Snapshot().PlayerSum)

	require.NoError(t, e.Stand())

	s := e.Snapshot()
	assert.Equal(t, Settled, s.Phase)
	assert.Equal(t, DealerWin, s.Outcome)
	assert.Equal(t, []CardValue{10, 6, 5}, s.DealerCards)
	assert.Equal(t, 21, s.DealerSum)
	assert.Equal(t, 1900, e.Balance())
	assert.Zero(t, src.remaining())
}

func TestNaturalAutoStands(t *testing.T) {
	e, src := newTestEngine(t, 2000, 100, Ace, 10, 10, 9)

	require.NoError(t, e.Deal())

	assert.Equal(t, Settled, e.Phase(), "natural should stand without player input")
	assert.Equal(t, PlayerWin, e.Outcome())
	assert.True(t, e.Snapshot().PlayerNatural)
	assert.Equal(t, 2100, e.Balance())
	assert.Zero(t, src.remaining())

	assert.ErrorIs(t, e.Hit(), ErrWrongPhase)
	assert.ErrorIs(t, e.Stand(), ErrWrongPhase)
}

func TestPlayerBustSettlesWithoutDealerDrawing(t *testing.T) {
	e, src := newTestEngine(t, 2000, 100, 10, 6, 10, 5, 7)

	require.NoError(t, e.Deal())
	require.NoError(t, e.Hit())

	s := e.Snapshot()
	assert.Equal(t, Settled, s.Phase)
	assert.Equal(t, PlayerBust, s.Outcome)
	assert.Equal(t, 23, s.PlayerSum)
	assert.Equal(t, []CardValue{10, 5}, s.DealerCards, "dealer keeps the dealt hand")
	assert.False(t, s.DealerConcealed)
	assert.Equal(t, 1900, e.Balance())
	assert.Zero(t, src.remaining())
}

func TestPushLeavesBalance(t *testing.T) {
	e, _ := newTestEngine(t, 2000, 100, 10, 8, 10, 8)

	require.NoError(t, e.Deal())
	require.NoError(t, e.Stand())

	assert.Equal(t, Push, e.Outcome())
	assert.Equal(t, 2000, e.Balance())
}

func TestHitToTwentyOneAutoStands(t *testing.T) {
	e, src := newTestEngine(t, 500, 50, 10, 5, 10, 7, 6)

	require.NoError(t, e.Deal())
	require.NoError(t, e.Hit())

	assert.Equal(t, Settled, e.Phase())
	assert.Equal(t, PlayerWin, e.Outcome())
	assert.False(t, e.Snapshot().PlayerNatural, "three card 21 is not a natural")
	assert.Equal(t, 550, e.Balance())
	assert.Zero(t, src.remaining())
}

func TestDealerStandsOnSoftSeventeen(t *testing.T) {
	e, src := newTestEngine(t, 2000, 100, 10, 9, Ace, 6)

	require.NoError(t, e.Deal())
	require.NoError(t, e.Stand())

	s := e.Snapshot()
	assert.Equal(t, 17, s.DealerSum)
	assert.Len(t, s.DealerCards, 2)
	assert.Equal(t, PlayerWin, s.Outcome)
	assert.Zero(t, src.remaining())
}

func TestDealerBust(t *testing.T) {
	e, _ := newTestEngine(t, 2000, 200, 10, 2, 10, 6, 10)

	require.NoError(t, e.Deal())
	require.NoError(t, e.Stand())

	assert.Equal(t, DealerBust, e.Outcome())
	assert.Equal(t, 26, e.Snapshot().DealerSum)
	assert.Equal(t, 2200, e.Balance())
}

func TestDealerDrawsSeveralCards(t *testing.T) {
	// Dealer 2+3, then 2, 2, A: the ace stays soft at 20.
	e, src := newTestEngine(t, 2000, 100, 10, 8, 2, 3, 2, 2, Ace)

	require.NoError(t, e.Deal())
	require.NoError(t, e.Stand())

	s := e.Snapshot()
	assert.Equal(t, 20, s.DealerSum)
	assert.Equal(t, DealerWin, s.Outcome)
	assert.Zero(t, src.remaining())
}

func TestPlaceBet(t *testing.T) {
	t.Run("accumulates", func(t *testing.T) {
		e, _ := newTestEngine(t, 2000, 0)
		require.NoError(t, e.PlaceBet(100))
		require.NoError(t, e.PlaceBet(10))
		require.NoError(t, e.PlaceBet(1))
		assert.Equal(t, 111, e.Bet())
		assert.Equal(t, 2000, e.Balance(), "betting does not move chips until settlement")
	})

	t.Run("whole balance", func(t *testing.T) {
		e, _ := newTestEngine(t, 100, 0)
		require.NoError(t, e.PlaceBet(100))
		assert.Equal(t, 100, e.Bet())
	})

	t.Run("insufficient chips is a no-op", func(t *testing.T) {
		e, _ := newTestEngine(t, 100, 60)
		err := e.PlaceBet(50)
		require.ErrorIs(t, err, ErrInsufficientChips)
		assert.Equal(t, 60, e.Bet())
	})

	t.Run("non-positive amount", func(t *testing.T) {
		e, _ := newTestEngine(t, 100, 0)
		assert.ErrorIs(t, e.PlaceBet(0), ErrInvalidBet)
		assert.ErrorIs(t, e.PlaceBet(-10), ErrInvalidBet)
		assert.Zero(t, e.Bet())
	})

	t.Run("clear", func(t *testing.T) {
		e, _ := newTestEngine(t, 100, 60)
		require.NoError(t, e.ClearBet())
		assert.Zero(t, e.Bet())
		require.NoError(t, e.PlaceBet(100))
	})
}

func TestDealRequiresBet(t *testing.T) {
	e, src := newTestEngine(t, 2000, 0, 10, 9, 10, 8)

	err := e.Deal()
	require.ErrorIs(t, err, ErrNoBetPlaced)
	assert.Equal(t, Betting, e.Phase())
	assert.Equal(t, 4, src.remaining(), "no cards drawn on failure")
}

func TestWrongPhase(t *testing.T) {
	t.Run("betting", func(t *testing.T) {
		e, _ := newTestEngine(t, 2000, 100)
		assert.ErrorIs(t, e.Hit(), ErrWrongPhase)
		assert.ErrorIs(t, e.Stand(), ErrWrongPhase)
		assert.ErrorIs(t, e.ResetToBetting(), ErrWrongPhase)
		assert.Equal(t, Betting, e.Phase())
		assert.Equal(t, 100, e.Bet())
	})

	t.Run("player turn", func(t *testing.T) {
		e, _ := newTestEngine(t, 2000, 100, 10, 5, 10, 7)
		require.NoError(t, e.Deal())
		before := e.Snapshot()

		assert.ErrorIs(t, e.PlaceBet(10), ErrWrongPhase)
		assert.ErrorIs(t, e.ClearBet(), ErrWrongPhase)
		assert.ErrorIs(t, e.Deal(), ErrWrongPhase)
		assert.ErrorIs(t, e.ResetToBetting(), ErrWrongPhase)
		assert.Equal(t, before, e.Snapshot())
	})

	t.Run("settled", func(t *testing.T) {
		e, _ := newTestEngine(t, 2000, 100, 10, 8, 10, 8)
		require.NoError(t, e.Deal())
		require.NoError(t, e.Stand())
		before := e.Snapshot()

		assert.ErrorIs(t, e.PlaceBet(10), ErrWrongPhase)
		assert.ErrorIs(t, e.ClearBet(), ErrWrongPhase)
		assert.ErrorIs(t, e.Deal(), ErrWrongPhase)
		assert.ErrorIs(t, e.Hit(), ErrWrongPhase)
		assert.ErrorIs(t, e.Stand(), ErrWrongPhase)
		assert.Equal(t, before, e.Snapshot())
	})
}

func TestSnapshotConcealsHoleCard(t *testing.T) {
	e, _ := newTestEngine(t, 2000, 100, 10, 5, Ace, 9, 3)
	require.NoError(t, e.Deal())

	s := e.Snapshot()
	assert.True(t, s.DealerConcealed)
	assert.Equal(t, []CardValue{Ace}, s.DealerCards)
	assert.Equal(t, 11, s.DealerSum, "only the up-card is counted")
	assert.Equal(t, Ace, s.DealerUpCard())
	assert.Equal(t, NoOutcome, s.Outcome)

	require.NoError(t, e.Hit())
	s = e.Snapshot()
	assert.True(t, s.DealerConcealed)
	assert.Equal(t, 18, s.PlayerSum)

	require.NoError(t, e.Stand())
	s = e.Snapshot()
	assert.False(t, s.DealerConcealed)
	assert.Equal(t, []CardValue{Ace, 9}, s.DealerCards)
	assert.Equal(t, 20, s.DealerSum)
}

func TestResetToBetting(t *testing.T) {
	e, _ := newTestEngine(t, 2000, 100, 10, 9, 10, 6, 5)
	require.NoError(t, e.Deal())
	require.NoError(t, e.Stand())
	require.NoError(t, e.ResetToBetting())

	s := e.Snapshot()
	assert.Equal(t, Betting, s.Phase)
	assert.Zero(t, s.Bet)
	assert.Empty(t, s.PlayerCards)
	assert.Empty(t, s.DealerCards)
	assert.Zero(t, s.PlayerSum)
	assert.Equal(t, NoOutcome, s.Outcome)
	assert.Equal(t, 1900, s.Balance, "balance carries over")
	assert.Equal(t, 1, s.Round)
}

// TestRandomRounds plays many rounds from a random source and checks the
// invariants that hold for every round.
func TestRandomRounds(t *testing.T) {
	rng := rand.New(rand.NewPCG(42, 1042))
	weights := []CardValue{2, 3, 4, 5, 6, 7, 8, 9, 10, 10, 10, 10, Ace}
	src := CardSourceFunc(func() CardValue { return weights[rng.IntN(len(weights))] })

	e := NewEngine(src, WithBalance(5000))
	for round := 0; round < 500 && e.Balance() > 0; round++ {
		before := e.Balance()
		bet := 1 + rng.IntN(min(before, 200))
		require.NoError(t, e.PlaceBet(bet))
		require.LessOrEqual(t, e.Bet(), e.Balance())
		require.NoError(t, e.Deal())

		for e.Phase() == PlayerTurn {
			if rng.IntN(2) == 0 {
				require.NoError(t, e.Hit())
			} else {
				require.NoError(t, e.Stand())
			}
		}
		require.Equal(t, Settled, e.Phase())

		s := e.Snapshot()
		dealer := s.DealerCards
		for i := 2; i < len(dealer); i++ {
			require.Less(t, NewHand(dealer[:i]...).Sum(), DealerStandsOn, "dealer drew on %v", dealer[:i])
		}
		if s.Outcome != PlayerBust {
			require.GreaterOrEqual(t, s.DealerSum, DealerStandsOn)
		} else {
			require.Len(t, dealer, 2)
		}

		switch {
		case s.Outcome.PlayerWon():
			require.Equal(t, before+bet, s.Balance)
		case s.Outcome.PlayerLost():
			require.Equal(t, before-bet, s.Balance)
		default:
			require.Equal(t, before, s.Balance)
		}

		require.NoError(t, e.ResetToBetting())
		s = e.Snapshot()
		require.Equal(t, Betting, s.Phase)
		require.Zero(t, s.Bet)
		require.Empty(t, s.PlayerCards)
		require.Empty(t, s.DealerCards)
	}
}

func TestNewEngineRequiresSource(t *testing.T) {
	assert.Panics(t, func() { NewEngine(nil) })
}

func TestInvalidCardPanics(t *testing.T) {
	e := NewEngine(CardSourceFunc(func() CardValue { return 1 }))
	require.NoError(t, e.PlaceBet(10))
	assert.Panics(t, func() { _ = e.Deal() })
}
