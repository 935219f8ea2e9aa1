package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettle(t *testing.T) {
	tests := []struct {
		name      string
		player    int
		dealer    int
		outcome   Outcome
		balance   int
		bet       int
		wantAfter int
	}{
		{name: "player bust", player: 23, dealer: 18, outcome: PlayerBust, balance: 2000, bet: 100, wantAfter: 1900},
		{name: "both bust goes to dealer", player: 22, dealer: 25, outcome: PlayerBust, balance: 2000, bet: 100, wantAfter: 1900},
		{name: "dealer bust", player: 12, dealer: 22, outcome: DealerBust, balance: 2000, bet: 100, wantAfter: 2100},
		{name: "player higher", player: 20, dealer: 19, outcome: PlayerWin, balance: 500, bet: 500, wantAfter: 1000},
		{name: "dealer higher", player: 19, dealer: 21, outcome: DealerWin, balance: 2000, bet: 100, wantAfter: 1900},
		{name: "push", player: 18, dealer: 18, outcome: Push, balance: 2000, bet: 100, wantAfter: 2000},
		{name: "push on 21", player: 21, dealer: 21, outcome: Push, balance: 10, bet: 10, wantAfter: 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			after, outcome := Settle(tt.player, tt.dealer, tt.bet, tt.balance)
			assert.Equal(t, tt.outcome, outcome)
			assert.Equal(t, tt.wantAfter, after)
		})
	}
}

// TestSettleIsTotal covers every pair of totals in [0,30] and checks that
// the balance moves by exactly the bet or not at all.
func TestSettleIsTotal(t *testing.T) {
	const balance, bet = 1000, 50

	for p := 0; p <= 30; p++ {
		for d := 0; d <= 30; d++ {
			after, outcome := Settle(p, d, bet, balance)
			require.NotEqual(t, NoOutcome, outcome, "player %d dealer %d", p, d)

			switch outcome {
			case PlayerBust:
				require.Greater(t, p, 21)
				require.Equal(t, balance-bet, after)
			case DealerBust:
				require.LessOrEqual(t, p, 21)
				require.Greater(t, d, 21)
				require.Equal(t, balance+bet, after)
			case PlayerWin:
				require.Greater(t, p, d)
				require.Equal(t, balance+bet, after)
			case DealerWin:
				require.Less(t, p, d)
				require.Equal(t, balance-bet, after)
			case Push:
				require.Equal(t, p, d)
				require.Equal(t, balance, after)
			}
		}
	}
}

func TestOutcomeHelpers(t *testing.T) {
	assert.True(t, PlayerWin.PlayerWon())
	assert.True(t, DealerBust.PlayerWon())
	assert.True(t, PlayerBust.PlayerLost())
	assert.True(t, DealerWin.PlayerLost())
	assert.False(t, Push.PlayerWon())
	assert.False(t, Push.PlayerLost())
	assert.Equal(t, "dealer_bust", DealerBust.String())
	assert.Equal(t, "player_turn", PlayerTurn.String())
}

func TestParsePhaseAndOutcome(t *testing.T) {
	for p := Betting; p <= Settled; p++ {
		got, err := ParsePhase(p.String())
		require.NoError(t, err)
		assert.Equal(t, p, got)
	}
	_, err := ParsePhase("insurance")
	assert.Error(t, err)

	for o := NoOutcome; o <= Push; o++ {
		got, err := ParseOutcome(o.String())
		require.NoError(t, err)
		assert.Equal(t, o, got)
	}
	got, err := ParseOutcome("")
	require.NoError(t, err)
	assert.Equal(t, NoOutcome, got)
	_, err = ParseOutcome("surrender")
	assert.Error(t, err)
}
