// Package bot provides automated blackjack players used by the simulator.
package bot

import (
	"fmt"
	"sort"

	"github.com/lox/blackjack/internal/game"
)

// Action is a player decision during their turn.
type Action int

const (
	Stand Action = iota
	Hit
)

// String returns the string representation of an action
func (a Action) String() string {
	if a == Hit {
		return "hit"
	}
	return "stand"
}

// Player decides between hitting and standing from what is visible on the
// table. Implementations only see the dealer's up-card.
type Player interface {
	Decide(s game.Snapshot) Action
}

// PlayerFunc adapts a function to Player.
type PlayerFunc func(game.Snapshot) Action

// Decide calls f.
func (f PlayerFunc) Decide(s game.Snapshot) Action { return f(s) }

var registry = map[string]func() Player{
	"basic":  func() Player { return NewBasic() },
	"dealer": func() Player { return MimicDealer{} },
	"stand":  func() Player { return Never{} },
}

// ByName returns the named player: "basic", "dealer" or "stand".
func ByName(name string) (Player, error) {
	ctor, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown strategy %q (available: %v)", name, Names())
	}
	return ctor(), nil
}

// Names lists the registered strategies in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// MimicDealer hits below 17 like the house does.
type MimicDealer struct{}

// Decide implements Player.
func (MimicDealer) Decide(s game.Snapshot) Action {
	if s.PlayerSum < game.DealerStandsOn {
		return Hit
	}
	return Stand
}

// Never always stands on the dealt hand.
type Never struct{}

// Decide implements Player.
func (Never) Decide(game.Snapshot) Action { return Stand }
