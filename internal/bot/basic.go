package bot

import "github.com/lox/blackjack/internal/game"

// Basic plays hit/stand basic strategy for a game without doubling or
// splitting. Decisions are looked up by player total, softness and the
// dealer's up-card.
type Basic struct {
	hard [game.Blackjack + 1][game.Ace + 1]Action
	soft [game.Blackjack + 1][game.Ace + 1]Action
}

// NewBasic builds the strategy tables.
func NewBasic() *Basic {
	b := &Basic{}
	for total := 0; total <= game.Blackjack; total++ {
		for up := game.MinCardValue; up <= game.Ace; up++ {
			b.hard[total][up] = hardAction(total, up)
			b.soft[total][up] = softAction(total, up)
		}
	}
	return b
}

// Decide implements Player.
func (b *Basic) Decide(s game.Snapshot) Action {
	up := s.DealerUpCard()
	if s.PlayerSum >= game.Blackjack || !up.Valid() {
		return Stand
	}
	if s.PlayerSoft {
		return b.soft[s.PlayerSum][up]
	}
	return b.hard[s.PlayerSum][up]
}

func hardAction(total int, up game.CardValue) Action {
	switch {
	case total <= 11:
		return Hit
	case total == 12:
		if up >= 4 && up <= 6 {
			return Stand
		}
		return Hit
	case total <= 16:
		if up <= 6 {
			return Stand
		}
		return Hit
	default:
		return Stand
	}
}

func softAction(total int, up game.CardValue) Action {
	switch {
	case total <= 17:
		return Hit
	case total == 18:
		if up >= 9 {
			return Hit
		}
		return Stand
	default:
		return Stand
	}
}
