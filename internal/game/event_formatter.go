package game

import "fmt"

// FormattingOptions controls how events are formatted for different contexts
type FormattingOptions struct {
	// ShowBalance appends the balance to settlement and reset lines.
	ShowBalance bool
}

// EventFormatter renders round events as short human-readable lines
type EventFormatter struct {
	opts FormattingOptions
}

// NewEventFormatter creates a new event formatter with the given options
func NewEventFormatter(opts FormattingOptions) *EventFormatter {
	return &EventFormatter{opts: opts}
}

// Format returns a one-line description of the event.
func (ef *EventFormatter) Format(ev Event) string {
	switch ev := ev.(type) {
	case BetPlacedEvent:
		return fmt.Sprintf("Bet $%d (total $%d)", ev.Amount, ev.Bet)
	case BetClearedEvent:
		return "Bet cleared"
	case CardDealtEvent:
		if ev.Hidden {
			return "Dealer: dealt a face-down card"
		}
		return fmt.Sprintf("%s: draws %s (%d)", partyName(ev.To), ev.Value, ev.Sum)
	case HoleCardRevealedEvent:
		return fmt.Sprintf("Dealer: reveals %s (%d)", ev.Value, ev.DealerSum)
	case PlayerStoodEvent:
		if ev.Auto {
			return fmt.Sprintf("Player: stands automatically on %d", ev.PlayerSum)
		}
		return fmt.Sprintf("Player: stands on %d", ev.PlayerSum)
	case RoundSettledEvent:
		line := fmt.Sprintf("Round %d: %s, %d vs %d, %s", ev.Round, outcomeText(ev.Outcome), ev.PlayerSum, ev.DealerSum, chipDelta(ev.Outcome, ev.Bet))
		if ef.opts.ShowBalance {
			line += fmt.Sprintf(", balance $%d", ev.Balance)
		}
		return line
	case RoundResetEvent:
		if ef.opts.ShowBalance {
			return fmt.Sprintf("Place your bets (balance $%d)", ev.Balance)
		}
		return "Place your bets"
	default:
		return ev.EventType().String()
	}
}

func partyName(p Party) string {
	if p == PartyDealer {
		return "Dealer"
	}
	return "Player"
}

func outcomeText(o Outcome) string {
	switch o {
	case PlayerBust:
		return "player busts"
	case DealerBust:
		return "dealer busts"
	case PlayerWin:
		return "player wins"
	case DealerWin:
		return "dealer wins"
	case Push:
		return "push"
	default:
		return o.String()
	}
}

func chipDelta(o Outcome, bet int) string {
	switch {
	case o.PlayerWon():
		return fmt.Sprintf("+$%d", bet)
	case o.PlayerLost():
		return fmt.Sprintf("-$%d", bet)
	default:
		return "bet returned"
	}
}
