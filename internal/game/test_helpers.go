package game

import "testing"

// stackedSource deals a fixed sequence and fails the test when exhausted.
type stackedSource struct {
	t     testing.TB
	cards []CardValue
	drawn int
}

func newStackedSource(t testing.TB, cards ...CardValue) *stackedSource {
	return &stackedSource{t: t, cards: cards}
}

func (s *stackedSource) DrawCard() CardValue {
	if s.drawn >= len(s.cards) {
		s.t.Fatalf("stacked source exhausted after %d cards", s.drawn)
	}
	c := s.cards[s.drawn]
	s.drawn++
	return c
}

func (s *stackedSource) remaining() int {
	return len(s.cards) - s.drawn
}

// eventRecorder collects events for assertions.
type eventRecorder struct {
	events []Event
}

func (r *eventRecorder) HandleEvent(e Event) {
	r.events = append(r.events, e)
}

func (r *eventRecorder) types() []EventType {
	out := make([]EventType, len(r.events))
	for i, e := range r.events {
		out[i] = e.EventType()
	}
	return out
}

// newTestEngine builds an engine with the given balance and deck and places bet.
func newTestEngine(t testing.TB, balance, bet int, cards ...CardValue) (*Engine, *stackedSource) {
	t.Helper()
	src := newStackedSource(t, cards...)
	e := NewEngine(src, WithBalance(balance))
	if bet > 0 {
		if err := e.PlaceBet(bet); err != nil {
			t.Fatalf("PlaceBet(%d): %v", bet, err)
		}
	}
	return e, src
}
