package game

import "strconv"

// CardValue is the blackjack value of a drawn card. 11 is an ace counted
// soft, 10 covers ten and the face cards.
type CardValue int

const (
	MinCardValue CardValue = 2
	Ten          CardValue = 10
	Ace          CardValue = 11
)

// Valid reports whether v is in [2,11].
func (v CardValue) Valid() bool {
	return v >= MinCardValue && v <= Ace
}

// String returns "A" for an ace, otherwise the number.
func (v CardValue) String() string {
	if v == Ace {
		return "A"
	}
	return strconv.Itoa(int(v))
}

// CardSource supplies card values to the engine. Implementations must only
// return values in [2,11].
type CardSource interface {
	DrawCard() CardValue
}

// CardSourceFunc adapts a plain function to CardSource.
type CardSourceFunc func() CardValue

// DrawCard calls f.
func (f CardSourceFunc) DrawCard() CardValue {
	return f()
}
