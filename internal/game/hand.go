package game

import (
	"fmt"
	"strings"
)

const (
	// Blackjack is the best possible hand total.
	Blackjack = 21
	// DealerStandsOn is the total at which the dealer stops drawing.
	// Soft and hard totals are treated the same.
	DealerStandsOn = 17
)

// Hand holds the card values dealt to one party, in draw order. The zero
// value is an empty hand.
type Hand struct {
	cards []CardValue
	sum   int
	soft  bool
}

// NewHand returns a hand holding the given cards.
func NewHand(cards ...CardValue) *Hand {
	h := &Hand{}
	for _, c := range cards {
		h.AddCard(c)
	}
	return h
}

// AddCard appends a card and recomputes the cached sum.
func (h *Hand) AddCard(v CardValue) {
	h.cards = append(h.cards, v)
	h.recompute()
}

// Reset empties the hand.
func (h *Hand) Reset() {
	h.cards = h.cards[:0]
	h.sum = 0
	h.soft = false
}

// recompute counts every ace as 11 then down-values them one at a time
// while the total is over 21.
func (h *Hand) recompute() {
	total, aces := 0, 0
	for _, c := range h.cards {
		total += int(c)
		if c == Ace {
			aces++
		}
	}
	for total > Blackjack && aces > 0 {
		total -= 10
		aces--
	}
	h.sum = total
	h.soft = aces > 0
}

// Sum returns the blackjack total of the hand.
func (h *Hand) Sum() int {
	return h.sum
}

// IsSoft reports whether an ace is still counted as 11.
func (h *Hand) IsSoft() bool {
	return h.soft
}

// IsBust reports whether the hand is over 21 after every ace is down-valued.
func (h *Hand) IsBust() bool {
	return h.sum > Blackjack
}

// IsNaturalBlackjack reports whether the hand is exactly two cards totalling 21.
func (h *Hand) IsNaturalBlackjack() bool {
	return len(h.cards) == 2 && h.sum == Blackjack
}

// Len returns the number of cards in the hand.
func (h *Hand) Len() int {
	return len(h.cards)
}

// Cards returns a copy of the cards in draw order.
func (h *Hand) Cards() []CardValue {
	out := make([]CardValue, len(h.cards))
	copy(out, h.cards)
	return out
}

// String renders the hand as "A 10 = 21".
func (h *Hand) String() string {
	if len(h.cards) == 0 {
		return "empty"
	}
	parts := make([]string, len(h.cards))
	for i, c := range h.cards {
		parts[i] = c.String()
	}
	return fmt.Sprintf("%s = %d", strings.Join(parts, " "), h.sum)
}
