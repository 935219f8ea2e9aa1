package game

// EventType represents a game event type with type safety
type EventType string

// EventType constants for round events
const (
	EventTypeBetPlaced        EventType = "bet_placed"
	EventTypeBetCleared       EventType = "bet_cleared"
	EventTypeCardDealt        EventType = "card_dealt"
	EventTypeHoleCardRevealed EventType = "hole_card_revealed"
	EventTypePlayerStood      EventType = "player_stood"
	EventTypeRoundSettled     EventType = "round_settled"
	EventTypeRoundReset       EventType = "round_reset"
)

// String returns the string representation of the event type
func (et EventType) String() string {
	return string(et)
}

// Party identifies who a card was dealt to.
type Party int

const (
	PartyPlayer Party = iota
	PartyDealer
)

func (p Party) String() string {
	if p == PartyDealer {
		return "dealer"
	}
	return "player"
}

// Event is anything the engine reports to an EventHandler.
type Event interface {
	EventType() EventType
	RoundNumber() int
}

// EventHandler receives engine events. Handlers run synchronously after the
// state change they describe has completed.
type EventHandler interface {
	HandleEvent(Event)
}

// EventHandlerFunc adapts a function to EventHandler.
type EventHandlerFunc func(Event)

// HandleEvent calls f.
func (f EventHandlerFunc) HandleEvent(e Event) { f(e) }

// BetPlacedEvent is published when chips are added to the bet
type BetPlacedEvent struct {
	Round  int
	Amount int
	Bet    int
}

func (e BetPlacedEvent) EventType() EventType { return EventTypeBetPlaced }
func (e BetPlacedEvent) RoundNumber() int     { return e.Round }

// BetClearedEvent is published when the bet is taken back
type BetClearedEvent struct {
	Round int
}

func (e BetClearedEvent) EventType() EventType { return EventTypeBetCleared }
func (e BetClearedEvent) RoundNumber() int     { return e.Round }

// CardDealtEvent is published for every card drawn. Hidden is set for the
// dealer's hole card, whose value is withheld until it is revealed.
type CardDealtEvent struct {
	Round  int
	To     Party
	Value  CardValue
	Hidden bool
	Sum    int
}

func (e CardDealtEvent) EventType() EventType { return EventTypeCardDealt }
func (e CardDealtEvent) RoundNumber() int     { return e.Round }

// HoleCardRevealedEvent is published when the player's turn ends
type HoleCardRevealedEvent struct {
	Round     int
	Value     CardValue
	DealerSum int
}

func (e HoleCardRevealedEvent) EventType() EventType { return EventTypeHoleCardRevealed }
func (e HoleCardRevealedEvent) RoundNumber() int     { return e.Round }

// PlayerStoodEvent is published when the player stands. Auto is set when
// the stand came from a natural or a hit to 21.
type PlayerStoodEvent struct {
	Round     int
	PlayerSum int
	Auto      bool
}

func (e PlayerStoodEvent) EventType() EventType { return EventTypePlayerStood }
func (e PlayerStoodEvent) RoundNumber() int     { return e.Round }

// RoundSettledEvent is published once the outcome is known
type RoundSettledEvent struct {
	Round     int
	Outcome   Outcome
	PlayerSum int
	DealerSum int
	Bet       int
	Balance   int
	Natural   bool
}

func (e RoundSettledEvent) EventType() EventType { return EventTypeRoundSettled }
func (e RoundSettledEvent) RoundNumber() int     { return e.Round }

// RoundResetEvent is published when the engine returns to betting
type RoundResetEvent struct {
	Round   int
	Balance int
}

func (e RoundResetEvent) EventType() EventType { return EventTypeRoundReset }
func (e RoundResetEvent) RoundNumber() int     { return e.Round }
