package session

import "github.com/lox/blackjack/internal/game"

const (
	msgPlaceBets  = "Place Your Bets"
	msgPlayerTurn = "Hit or Stand?"
	msgBroke      = "Out of chips. Game over."
)

func outcomeMessage(o game.Outcome, natural bool) string {
	switch o {
	case game.PlayerBust:
		return "Bust! Dealer Wins."
	case game.DealerBust:
		return "Dealer Busted! You Win!"
	case game.PlayerWin:
		if natural {
			return "Blackjack! You Win!"
		}
		return "You Win!"
	case game.DealerWin:
		return "Dealer Wins!"
	case game.Push:
		return "It's a Push (Tie)! Bet returned."
	default:
		return ""
	}
}
