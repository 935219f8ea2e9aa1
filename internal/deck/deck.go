package deck

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"

	"github.com/lox/blackjack/internal/game"
)

// Infinite draws every card from a fresh 52-card deck, so draws are
// independent: ten-valued cards come up 4/13 of the time and every other
// value 1/13.
type Infinite struct {
	rng  *rand.Rand
	last Card
}

// NewInfinite returns an infinite-deck source. The RNG is required.
func NewInfinite(rng *rand.Rand) *Infinite {
	if rng == nil {
		panic("rng is required for deck creation")
	}
	return &Infinite{rng: rng}
}

// Draw returns a random card.
func (d *Infinite) Draw() Card {
	d.last = Card{Suit: Suit(d.rng.IntN(4)), Rank: Two + Rank(d.rng.IntN(13))}
	return d.last
}

// DrawCard implements game.CardSource.
func (d *Infinite) DrawCard() game.CardValue {
	return d.Draw().Value()
}

// Last returns the most recently drawn card.
func (d *Infinite) Last() Card {
	return d.last
}

// Shoe is a single 52-card deck dealt without replacement. It reshuffles
// a full deck once every card has been dealt.
type Shoe struct {
	cards     []Card
	rng       *rand.Rand
	shuffles  int
	onShuffle func()
}

// NewShoe creates a shuffled shoe. The RNG is required.
func NewShoe(rng *rand.Rand) *Shoe {
	if rng == nil {
		panic("rng is required for deck creation")
	}
	s := &Shoe{rng: rng}
	s.Reset()
	return s
}

// OnShuffle registers a callback run after every reshuffle.
func (s *Shoe) OnShuffle(fn func()) {
	s.onShuffle = fn
}

// Shuffle randomizes the order of the remaining cards
func (s *Shoe) Shuffle() {
	s.rng.Shuffle(len(s.cards), func(i, j int) {
		s.cards[i], s.cards[j] = s.cards[j], s.cards[i]
	})
}

// Reset restores a full deck and shuffles it
func (s *Shoe) Reset() {
	s.cards = append(s.cards[:0], fullDeck()...)
	s.Shuffle()
	s.shuffles++
	if s.onShuffle != nil {
		s.onShuffle()
	}
}

// Draw removes and returns the top card, reshuffling first if the shoe is empty.
func (s *Shoe) Draw() Card {
	if len(s.cards) == 0 {
		s.Reset()
	}
	card := s.cards[0]
	s.cards = s.cards[1:]
	return card
}

// DrawCard implements game.CardSource.
func (s *Shoe) DrawCard() game.CardValue {
	return s.Draw().Value()
}

// CardsRemaining returns the number of cards left before the next reshuffle
func (s *Shoe) CardsRemaining() int {
	return len(s.cards)
}

// Shuffles returns how many times the shoe has been shuffled, including the
// initial shuffle.
func (s *Shoe) Shuffles() int {
	return s.shuffles
}

// Stacked deals a fixed sequence of values, for scripted rounds and tests.
// Drawing past the end panics.
type Stacked struct {
	values []game.CardValue
	next   int
}

// NewStacked returns a source that deals values in order.
func NewStacked(values ...game.CardValue) *Stacked {
	for _, v := range values {
		if !v.Valid() {
			panic(fmt.Sprintf("stacked card value %d outside [2,11]", int(v)))
		}
	}
	return &Stacked{values: values}
}

// DrawCard implements game.CardSource.
func (s *Stacked) DrawCard() game.CardValue {
	if s.next >= len(s.values) {
		panic(fmt.Sprintf("stacked deck exhausted after %d cards", len(s.values)))
	}
	v := s.values[s.next]
	s.next++
	return v
}

// Remaining returns the number of undealt values.
func (s *Stacked) Remaining() int {
	return len(s.values) - s.next
}

// ParseValues parses a whitespace or comma separated list of card values.
// Numbers 2-11 are taken literally; A, T, J, Q and K are also accepted.
func ParseValues(s string) ([]game.CardValue, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == ',' || r == '\t'
	})

	values := make([]game.CardValue, 0, len(fields))
	for _, f := range fields {
		var v game.CardValue
		switch strings.ToUpper(f) {
		case "A":
			v = game.Ace
		case "T", "J", "Q", "K":
			v = game.Ten
		default:
			n, err := strconv.Atoi(f)
			if err != nil {
				return nil, fmt.Errorf("invalid card value %q: %w", f, err)
			}
			v = game.CardValue(n)
		}
		if !v.Valid() {
			return nil, fmt.Errorf("card value %q outside [2,11]", f)
		}
		values = append(values, v)
	}
	return values, nil
}

// Source names accepted by NewSource.
const (
	SourceInfinite = "infinite"
	SourceShoe     = "shoe"
)

// NewSource builds a named card source. An empty name selects the infinite
// deck.
func NewSource(name string, rng *rand.Rand) (game.CardSource, error) {
	switch name {
	case "", SourceInfinite:
		return NewInfinite(rng), nil
	case SourceShoe:
		return NewShoe(rng), nil
	default:
		return nil, fmt.Errorf("unknown card source %q", name)
	}
}
