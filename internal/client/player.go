package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/lox/blackjack/internal/bot"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/server"
	"github.com/lox/blackjack/internal/statistics"
)

// ErrBroke is returned when the balance can no longer cover the bet
var ErrBroke = errors.New("balance below bet")

var (
	phaseBetting    = game.Betting.String()
	phasePlayerTurn = game.PlayerTurn.String()
	phaseSettled    = game.Settled.String()
)

// Play plays rounds at the connected table with player making the
// decisions, betting the same amount every round.
func Play(ctx context.Context, c *Client, player bot.Player, bet, rounds int) (*statistics.Statistics, error) {
	stats := statistics.New()
	for i := 0; i < rounds; i++ {
		result, err := playRound(ctx, c, player, bet)
		if err != nil {
			return stats, fmt.Errorf("round %d: %w", i+1, err)
		}
		stats.Add(result)
		c.logger.Debug("Round finished", "outcome", result.Outcome, "net", result.Net)
	}
	return stats, nil
}

func playRound(ctx context.Context, c *Client, player bot.Player, bet int) (statistics.RoundResult, error) {
	st, err := c.Wait(ctx, func(s server.StateData) bool { return s.Phase == phaseBetting })
	if err != nil {
		return statistics.RoundResult{}, err
	}
	if st.Bet > 0 {
		if st, err = c.Do(ctx, server.ActionClear, 0, func(s server.StateData) bool { return s.Bet == 0 }); err != nil {
			return statistics.RoundResult{}, err
		}
	}
	if st.Balance < bet {
		return statistics.RoundResult{}, fmt.Errorf("%w: have $%d, need $%d", ErrBroke, st.Balance, bet)
	}

	before, round := st.Balance, st.Round
	if _, err := c.Do(ctx, server.ActionBet, bet, func(s server.StateData) bool { return s.Bet == bet }); err != nil {
		return statistics.RoundResult{}, err
	}

	// Updates coalesce, and a short reset delay can return the table to
	// betting before the settled state is seen.
	dealt := func(s server.StateData) bool { return s.Round > round }
	st, err = c.Do(ctx, server.ActionDeal, 0, dealt)
	if err != nil {
		return statistics.RoundResult{}, err
	}

	for st.Phase == phasePlayerTurn {
		snap, err := st.Snapshot()
		if err != nil {
			return statistics.RoundResult{}, err
		}

		switch player.Decide(snap) {
		case bot.Hit:
			n := len(st.PlayerCards)
			st, err = c.Do(ctx, server.ActionHit, 0, func(s server.StateData) bool {
				return s.Phase != phasePlayerTurn || len(s.PlayerCards) > n
			})
		default:
			st, err = c.Do(ctx, server.ActionStand, 0, func(s server.StateData) bool { return s.Phase != phasePlayerTurn })
		}
		if err != nil {
			return statistics.RoundResult{}, err
		}
	}

	result := statistics.RoundResult{
		Bet:         bet,
		Net:         st.Balance - before,
		Natural:     st.PlayerNatural,
		PlayerCards: len(st.PlayerCards),
		DealerCards: len(st.DealerCards),
	}

	if st.Phase == phaseSettled {
		if result.Outcome, err = game.ParseOutcome(st.Outcome); err != nil {
			return statistics.RoundResult{}, err
		}
		_, err = c.Do(ctx, server.ActionReset, 0, func(s server.StateData) bool { return s.Phase == phaseBetting })
		if err != nil && !errors.Is(err, game.ErrWrongPhase) {
			return statistics.RoundResult{}, err
		}
	} else {
		result.Outcome = outcomeFromNet(result.Net)
	}
	return result, nil
}

// outcomeFromNet approximates the outcome of a round whose settled state
// was not observed.
func outcomeFromNet(net int) game.Outcome {
	switch {
	case net > 0:
		return game.PlayerWin
	case net < 0:
		return game.DealerWin
	default:
		return game.Push
	}
}
