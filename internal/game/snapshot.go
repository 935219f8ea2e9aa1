package game

// Snapshot is a read-only view of the engine for a presentation layer.
//
// While the player is acting the dealer's hole card is concealed: it is left
// out of DealerCards, DealerConcealed is set, and DealerSum covers the
// up-card only.
type Snapshot struct {
	Phase Phase
	Round int

	PlayerCards   []CardValue
	PlayerSum     int
	PlayerSoft    bool
	PlayerNatural bool

	DealerCards     []CardValue
	DealerSum       int
	DealerConcealed bool

	Balance int
	Bet     int
	Outcome Outcome
}

// DealerUpCard returns the dealer's first card, or 0 before the deal.
func (s Snapshot) DealerUpCard() CardValue {
	if len(s.DealerCards) == 0 {
		return 0
	}
	return s.DealerCards[0]
}

// Snapshot returns the current state with the hole card concealed during
// the player's turn.
func (e *Engine) Snapshot() Snapshot {
	s := Snapshot{
		Phase:         e.phase,
		Round:         e.round,
		PlayerCards:   e.player.Cards(),
		PlayerSum:     e.player.Sum(),
		PlayerSoft:    e.player.IsSoft(),
		PlayerNatural: e.player.IsNaturalBlackjack(),
		DealerCards:   e.dealer.Cards(),
		DealerSum:     e.dealer.Sum(),
		Balance:       e.balance,
		Bet:           e.bet,
		Outcome:       e.Outcome(),
	}

	if e.phase == PlayerTurn && e.dealer.Len() >= 2 {
		s.DealerConcealed = true
		visible := append(s.DealerCards[:1:1], s.DealerCards[2:]...)
		s.DealerCards = visible
		s.DealerSum = NewHand(visible...).Sum()
	}
	return s
}
