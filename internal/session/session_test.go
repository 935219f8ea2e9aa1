package session

import (
	"context"
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/game"
)

func newTestSession(t *testing.T, clock quartz.Clock, opts []Option, cards ...game.CardValue) *Session {
	t.Helper()
	opts = append([]Option{WithClock(clock)}, opts...)
	s := New(deck.NewStacked(cards...), opts...)
	t.Cleanup(s.Close)
	return s
}

func advance(t *testing.T, clock *quartz.Mock, d time.Duration) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	clock.Advance(d).MustWait(ctx)
}

func TestSessionRoundWithAutomaticReset(t *testing.T) {
	clock := quartz.NewMock(t)
	s := newTestSession(t, clock, nil, 10, 9, 10, 6, 5)
	updates := s.Subscribe()

	assert.Equal(t, "Place Your Bets", s.State().Message)

	require.NoError(t, s.PlaceChip(100))
	require.NoError(t, s.PlaceChip(10))
	st := s.State()
	assert.Equal(t, "Current Bet: $110", st.Message)
	assert.Equal(t, []int{100, 10}, st.Chips)
	assert.Equal(t, 110, st.Bet)

	require.NoError(t, s.Deal())
	st = s.State()
	assert.Equal(t, "Hit or Stand?", st.Message)
	assert.True(t, st.DealerConcealed)

	require.NoError(t, s.Stand())
	st = s.State()
	assert.Equal(t, game.Settled, st.Phase)
	assert.Equal(t, "Dealer Wins!", st.Message)
	assert.True(t, st.ResetPending)
	assert.Equal(t, 1890, st.Balance)

	// Drain notifications from the commands.
	select {
	case <-updates:
	default:
		t.Fatal("expected a state change notification")
	}

	advance(t, clock, DefaultResetDelay)

	select {
	case <-updates:
	case <-time.After(time.Second):
		t.Fatal("expected a notification from the automatic reset")
	}

	st = s.State()
	assert.Equal(t, game.Betting, st.Phase)
	assert.Equal(t, "Place Your Bets", st.Message)
	assert.Empty(t, st.Chips)
	assert.Zero(t, st.Bet)
	assert.False(t, st.ResetPending)
	assert.Equal(t, 1890, st.Balance)
}

func TestSessionMessages(t *testing.T) {
	tests := []struct {
		name    string
		cards   []game.CardValue
		hits    int
		stand   bool
		message string
	}{
		{name: "natural", cards: []game.CardValue{game.Ace, 10, 10, 9}, message: "Blackjack! You Win!"},
		{name: "bust", cards: []game.CardValue{10, 6, 10, 5, 9}, hits: 1, message: "Bust! Dealer Wins."},
		{name: "dealer bust", cards: []game.CardValue{10, 2, 10, 6, 10}, stand: true, message: "Dealer Busted! You Win!"},
		{name: "win", cards: []game.CardValue{10, 9, 10, 7}, stand: true, message: "You Win!"},
		{name: "push", cards: []game.CardValue{10, 8, 10, 8}, stand: true, message: "It's a Push (Tie)! Bet returned."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSession(t, quartz.NewMock(t), nil, tt.cards...)
			require.NoError(t, s.PlaceChip(10))
			require.NoError(t, s.Deal())
			for i := 0; i < tt.hits; i++ {
				require.NoError(t, s.Hit())
			}
			if tt.stand {
				require.NoError(t, s.Stand())
			}
			assert.Equal(t, tt.message, s.State().Message)
		})
	}
}

func TestSessionBettingErrors(t *testing.T) {
	s := newTestSession(t, quartz.NewMock(t), []Option{WithBalance(100)})

	err := s.PlaceChip(25)
	require.ErrorIs(t, err, ErrUnknownChip)

	err = s.PlaceChip(500)
	require.ErrorIs(t, err, game.ErrInsufficientChips)
	assert.Equal(t, "Insufficient chips. Max bet is $100.", s.State().Message)

	err = s.Deal()
	require.ErrorIs(t, err, game.ErrNoBetPlaced)
	assert.Equal(t, "You must place a bet to deal!", s.State().Message)

	require.NoError(t, s.PlaceChip(10))
	require.NoError(t, s.ClearBet())
	st := s.State()
	assert.Equal(t, "Bet cleared. Place Your Bets", st.Message)
	assert.Empty(t, st.Chips)

	assert.ErrorIs(t, s.Hit(), game.ErrWrongPhase)
	assert.ErrorIs(t, s.Reset(), game.ErrWrongPhase)
}

func TestSessionManualResetCancelsTimer(t *testing.T) {
	clock := quartz.NewMock(t)
	s := newTestSession(t, clock, nil, 10, 8, 10, 8, 10, 9, 10, 7)

	require.NoError(t, s.PlaceChip(10))
	require.NoError(t, s.Deal())
	require.NoError(t, s.Stand())
	require.True(t, s.State().ResetPending)

	require.NoError(t, s.Reset())
	assert.False(t, s.State().ResetPending)

	// Start the next round; the cancelled timer must not reset it.
	require.NoError(t, s.PlaceChip(10))
	require.NoError(t, s.Deal())
	advance(t, clock, DefaultResetDelay)
	assert.Equal(t, game.PlayerTurn, s.State().Phase)
}

func TestSessionWithoutAutomaticReset(t *testing.T) {
	s := newTestSession(t, quartz.NewMock(t), []Option{WithResetDelay(0)}, 10, 8, 10, 8)

	require.NoError(t, s.PlaceChip(10))
	require.NoError(t, s.Deal())
	require.NoError(t, s.Stand())

	st := s.State()
	assert.Equal(t, game.Settled, st.Phase)
	assert.False(t, st.ResetPending)

	require.NoError(t, s.Reset())
	assert.Equal(t, game.Betting, s.State().Phase)
}

func TestSessionBroke(t *testing.T) {
	clock := quartz.NewMock(t)
	s := newTestSession(t, clock, []Option{WithBalance(100)}, 10, 6, 10, 5, 9)

	require.NoError(t, s.PlaceChip(100))
	require.NoError(t, s.Deal())
	require.NoError(t, s.Hit())
	advance(t, clock, DefaultResetDelay)

	st := s.State()
	assert.True(t, st.Broke)
	assert.Equal(t, "Out of chips. Game over.", st.Message)
	assert.Zero(t, st.Balance)
}

func TestSessionLogAndHandlers(t *testing.T) {
	var settled []game.RoundSettledEvent
	handler := game.EventHandlerFunc(func(ev game.Event) {
		if e, ok := ev.(game.RoundSettledEvent); ok {
			settled = append(settled, e)
		}
	})

	s := newTestSession(t, quartz.NewMock(t), []Option{WithEventHandler(handler)}, game.Ace, 10, 10, 9)
	require.NoError(t, s.PlaceChip(100))
	require.NoError(t, s.Deal())

	require.Len(t, settled, 1)
	assert.Equal(t, game.PlayerWin, settled[0].Outcome)

	lines := s.State().Log
	require.NotEmpty(t, lines)
	assert.Equal(t, "Bet $100 (total $100)", lines[0])
	assert.Equal(t, "Round 1: player wins, 21 vs 19, +$100, balance $2100", lines[len(lines)-1])
}

func TestSessionClose(t *testing.T) {
	s := New(deck.NewStacked(), WithClock(quartz.NewMock(t)))
	ch := s.Subscribe()
	s.Close()
	s.Close()

	_, ok := <-ch
	assert.False(t, ok)

	_, ok = <-s.Subscribe()
	assert.False(t, ok)
}
