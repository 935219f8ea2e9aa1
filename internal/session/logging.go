package session

import (
	"github.com/charmbracelet/log"

	"github.com/lox/blackjack/internal/game"
)

// LogEvents returns a handler that writes engine events to logger.
func LogEvents(logger *log.Logger) game.EventHandler {
	return game.EventHandlerFunc(func(ev game.Event) {
		switch ev := ev.(type) {
		case game.RoundSettledEvent:
			logger.Info("Round settled",
				"round", ev.Round,
				"outcome", ev.Outcome,
				"playerSum", ev.PlayerSum,
				"dealerSum", ev.DealerSum,
				"bet", ev.Bet,
				"balance", ev.Balance)
		case game.CardDealtEvent:
			if ev.Hidden {
				logger.Debug("Card dealt", "round", ev.Round, "to", ev.To, "hidden", true)
				return
			}
			logger.Debug("Card dealt", "round", ev.Round, "to", ev.To, "value", ev.Value, "sum", ev.Sum)
		default:
			logger.Debug("Round event", "type", ev.EventType(), "round", ev.RoundNumber())
		}
	})
}
