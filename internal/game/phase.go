package game

import "fmt"

// Phase is the stage of the current round.
type Phase int

const (
	Betting Phase = iota
	PlayerTurn
	DealerTurn
	Settled
)

// String returns the string representation of a phase
func (p Phase) String() string {
	switch p {
	case Betting:
		return "betting"
	case PlayerTurn:
		return "player_turn"
	case DealerTurn:
		return "dealer_turn"
	case Settled:
		return "settled"
	default:
		return "unknown"
	}
}

// ParsePhase converts the string form of a phase back to a Phase
func ParsePhase(s string) (Phase, error) {
	for p := Betting; p <= Settled; p++ {
		if p.String() == s {
			return p, nil
		}
	}
	return Betting, fmt.Errorf("unknown phase %q", s)
}
