// Package game implements the rules engine for single-player blackjack
// against an automated dealer.
//
// The main type is Engine, a synchronous state machine that owns the chip
// balance, the current bet, the player and dealer hands and the round phase.
// Hand holds drawn card values and computes a blackjack sum with aces
// down-valued from 11 to 1 as needed.
//
// # Basic Usage
//
//	e := game.NewEngine(deck.NewInfinite(rng))
//	if err := e.PlaceBet(100); err != nil {
//	    // errors.Is(err, game.ErrInsufficientChips)
//	}
//	_ = e.Deal()
//	for e.Phase() == game.PlayerTurn && e.Snapshot().PlayerSum < 17 {
//	    _ = e.Hit()
//	}
//	if e.Phase() == game.PlayerTurn {
//	    _ = e.Stand()
//	}
//	fmt.Println(e.Outcome(), e.Balance())
//	_ = e.ResetToBetting()
//
// # Deterministic Testing
//
// Cards come from an injected CardSource. Tests supply a fixed sequence:
//
//	src := deck.NewStacked(10, 9, 10, 6, 5)
//	e := game.NewEngine(src, game.WithBalance(2000))
//
// Deal draws in the order player, player, dealer, dealer; every further draw
// goes to whichever hand is acting.
//
// # Phases
//
// A round moves Betting -> PlayerTurn -> DealerTurn -> Settled. Natural
// blackjacks and hits to 21 stand automatically, a player bust settles
// immediately without the dealer drawing. The caller moves Settled back to
// Betting with ResetToBetting once it has finished presenting the result.
//
// An Engine is not safe for concurrent use.
package game
