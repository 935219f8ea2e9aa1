package game

import "fmt"

// Engine sequences a blackjack round: betting, the deal, the player's turn,
// the dealer's turn and settlement. The chip balance carries over between
// rounds; the bet and both hands are reset each time betting reopens.
type Engine struct {
	source  CardSource
	handler EventHandler

	phase   Phase
	round   int
	balance int
	bet     int
	player  Hand
	dealer  Hand
	outcome Outcome
	// holeHidden is true from the deal until the player's turn ends.
	holeHidden bool
}

// NewEngine creates an engine in the betting phase. The card source is
// required so that every draw is explicit and tests can be deterministic.
func NewEngine(source CardSource, opts ...Option) *Engine {
	if source == nil {
		panic("card source is required for engine creation")
	}

	cfg := &engineConfig{balance: DefaultBalance}
	for _, opt := range opts {
		opt(cfg)
	}

	return &Engine{
		source:  source,
		handler: cfg.handler,
		phase:   Betting,
		balance: cfg.balance,
	}
}

// Phase returns the current phase.
func (e *Engine) Phase() Phase { return e.phase }

// Balance returns the chip balance.
func (e *Engine) Balance() int { return e.balance }

// Bet returns the amount currently wagered.
func (e *Engine) Bet() int { return e.bet }

// Round returns the number of rounds dealt so far.
func (e *Engine) Round() int { return e.round }

// Outcome returns the result of the last settled round, or NoOutcome
// outside the Settled phase.
func (e *Engine) Outcome() Outcome {
	if e.phase != Settled {
		return NoOutcome
	}
	return e.outcome
}

// PlaceBet adds amount to the current bet.
func (e *Engine) PlaceBet(amount int) error {
	if e.phase != Betting {
		return wrongPhase("place bet", e.phase)
	}
	if amount <= 0 {
		return fmt.Errorf("bet of %d: %w", amount, ErrInvalidBet)
	}
	if e.bet+amount > e.balance {
		return fmt.Errorf("bet of %d with %d already wagered exceeds balance %d: %w",
			amount, e.bet, e.balance, ErrInsufficientChips)
	}

	e.bet += amount
	e.emit(BetPlacedEvent{Round: e.round + 1, Amount: amount, Bet: e.bet})
	return nil
}

// ClearBet takes the current bet back.
func (e *Engine) ClearBet() error {
	if e.phase != Betting {
		return wrongPhase("clear bet", e.phase)
	}
	e.bet = 0
	e.emit(BetClearedEvent{Round: e.round + 1})
	return nil
}

// Deal draws two cards each for the player and the dealer, in the order
// player, player, dealer, dealer, and starts the player's turn. A natural
// blackjack stands immediately.
func (e *Engine) Deal() error {
	if e.phase != Betting {
		return wrongPhase("deal", e.phase)
	}
	if e.bet == 0 {
		return fmt.Errorf("deal: %w", ErrNoBetPlaced)
	}

	e.round++
	e.player.Reset()
	e.dealer.Reset()
	e.outcome = NoOutcome
	e.phase = PlayerTurn
	e.holeHidden = true

	e.draw(PartyPlayer)
	e.draw(PartyPlayer)
	e.draw(PartyDealer)
	e.draw(PartyDealer)

	e.afterPlayerDraw()
	return nil
}

// Hit draws one card for the player. A bust settles the round at once and
// a total of 21 stands.
func (e *Engine) Hit() error {
	if e.phase != PlayerTurn {
		return wrongPhase("hit", e.phase)
	}
	e.draw(PartyPlayer)
	e.afterPlayerDraw()
	return nil
}

// Stand ends the player's turn, plays out the dealer's hand and settles.
func (e *Engine) Stand() error {
	if e.phase != PlayerTurn {
		return wrongPhase("stand", e.phase)
	}
	e.stand(false)
	return nil
}

// ResetToBetting clears the bet and both hands and reopens betting. It is
// only valid once a round has settled.
func (e *Engine) ResetToBetting() error {
	if e.phase != Settled {
		return wrongPhase("reset", e.phase)
	}
	e.bet = 0
	e.player.Reset()
	e.dealer.Reset()
	e.outcome = NoOutcome
	e.holeHidden = false
	e.phase = Betting
	e.emit(RoundResetEvent{Round: e.round, Balance: e.balance})
	return nil
}

// afterPlayerDraw applies the transition guards that follow every player
// draw during the deal or a hit.
func (e *Engine) afterPlayerDraw() {
	switch {
	case e.player.IsBust():
		// The dealer keeps the hand as dealt.
		e.revealHole()
		e.settle()
	case e.player.Sum() == Blackjack:
		e.stand(true)
	}
}

func (e *Engine) stand(auto bool) {
	e.emit(PlayerStoodEvent{Round: e.round, PlayerSum: e.player.Sum(), Auto: auto})
	e.phase = DealerTurn
	e.revealHole()
	for e.dealer.Sum() < DealerStandsOn {
		e.draw(PartyDealer)
	}
	e.settle()
}

func (e *Engine) settle() {
	e.balance, e.outcome = Settle(e.player.Sum(), e.dealer.Sum(), e.bet, e.balance)
	e.phase = Settled
	e.emit(RoundSettledEvent{
		Round:     e.round,
		Outcome:   e.outcome,
		PlayerSum: e.player.Sum(),
		DealerSum: e.dealer.Sum(),
		Bet:       e.bet,
		Balance:   e.balance,
		Natural:   e.player.IsNaturalBlackjack(),
	})
}

func (e *Engine) draw(to Party) {
	v := e.source.DrawCard()
	if !v.Valid() {
		panic(fmt.Sprintf("card source returned %d, outside [2,11]", int(v)))
	}

	h := &e.player
	if to == PartyDealer {
		h = &e.dealer
	}
	h.AddCard(v)

	hidden := to == PartyDealer && h.Len() == 2 && e.holeHidden
	ev := CardDealtEvent{Round: e.round, To: to, Value: v, Hidden: hidden, Sum: h.Sum()}
	if hidden {
		ev.Value = 0
		ev.Sum = int(e.dealer.cards[0])
	}
	e.emit(ev)
}

func (e *Engine) revealHole() {
	if !e.holeHidden {
		return
	}
	e.holeHidden = false
	if e.dealer.Len() < 2 {
		return
	}
	e.emit(HoleCardRevealedEvent{Round: e.round, Value: e.dealer.cards[1], DealerSum: e.dealer.Sum()})
}

func (e *Engine) emit(ev Event) {
	if e.handler != nil {
		e.handler.HandleEvent(ev)
	}
}
