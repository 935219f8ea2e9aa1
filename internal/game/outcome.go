package game

import "fmt"

// Outcome is the result of a settled round.
type Outcome int

const (
	// NoOutcome is reported until a round settles.
	NoOutcome Outcome = iota
	PlayerBust
	DealerBust
	PlayerWin
	DealerWin
	Push
)

// String returns the string representation of an outcome
func (o Outcome) String() string {
	switch o {
	case NoOutcome:
		return "none"
	case PlayerBust:
		return "player_bust"
	case DealerBust:
		return "dealer_bust"
	case PlayerWin:
		return "player_win"
	case DealerWin:
		return "dealer_win"
	case Push:
		return "push"
	default:
		return "unknown"
	}
}

// PlayerWon reports whether the player collects the bet.
func (o Outcome) PlayerWon() bool {
	return o == DealerBust || o == PlayerWin
}

// PlayerLost reports whether the player forfeits the bet.
func (o Outcome) PlayerLost() bool {
	return o == PlayerBust || o == DealerWin
}

// Settle resolves a round from the final totals. A player bust is checked
// before a dealer bust, so the player loses even when both hands are over 21.
// A push returns the bet and leaves the balance unchanged.
func Settle(playerSum, dealerSum, bet, balance int) (int, Outcome) {
	switch {
	case playerSum > Blackjack:
		return balance - bet, PlayerBust
	case dealerSum > Blackjack:
		return balance + bet, DealerBust
	case playerSum > dealerSum:
		return balance + bet, PlayerWin
	case playerSum < dealerSum:
		return balance - bet, DealerWin
	default:
		return balance, Push
	}
}

// ParseOutcome converts the string form of an outcome back to an Outcome.
// The empty string is NoOutcome.
func ParseOutcome(s string) (Outcome, error) {
	if s == "" {
		return NoOutcome, nil
	}
	for o := NoOutcome; o <= Push; o++ {
		if o.String() == s {
			return o, nil
		}
	}
	return NoOutcome, fmt.Errorf("unknown outcome %q", s)
}
