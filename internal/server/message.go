package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/session"
)

// MessageType identifies the payload of a Message
type MessageType string

const (
	// Client → Server
	MessageTypeCommand MessageType = "command"

	// Server → Client
	MessageTypeState MessageType = "state"
	MessageTypeError MessageType = "error"
)

// Message represents the base WebSocket message structure
type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data"`
	Timestamp time.Time       `json:"timestamp"`
	RequestID string          `json:"requestId,omitempty"`
}

// NewMessage creates a new message with the current timestamp
func NewMessage(messageType MessageType, data any) (*Message, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	return &Message{
		Type:      messageType,
		Data:      dataBytes,
		Timestamp: time.Now(),
	}, nil
}

// Command actions accepted from clients.
const (
	ActionBet   = "bet"
	ActionChip  = "chip"
	ActionClear = "clear"
	ActionDeal  = "deal"
	ActionHit   = "hit"
	ActionStand = "stand"
	ActionReset = "reset"
)

// CommandData is sent by the client to drive the round
type CommandData struct {
	Action string `json:"action"`
	Amount int    `json:"amount,omitempty"`
}

// ErrorData reports a rejected command
type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// StateData is the table state pushed after every change
type StateData struct {
	Session         string `json:"session"`
	Phase           string `json:"phase"`
	Round           int    `json:"round"`
	PlayerCards     []int  `json:"playerCards"`
	PlayerSum       int    `json:"playerSum"`
	PlayerSoft      bool   `json:"playerSoft"`
	PlayerNatural   bool   `json:"playerNatural"`
	DealerCards     []int  `json:"dealerCards"`
	DealerSum       int    `json:"dealerSum"`
	DealerConcealed bool   `json:"dealerConcealed"`
	Balance         int    `json:"balance"`
	Bet             int    `json:"bet"`
	Chips           []int  `json:"chips"`
	ChipValues      []int  `json:"chipValues"`
	Outcome         string `json:"outcome,omitempty"`
	Message         string `json:"message"`
	ResetPending    bool   `json:"resetPending"`
	Broke           bool   `json:"broke"`
}

// StateDataFromSession converts a session state to its wire form
func StateDataFromSession(st session.State) StateData {
	data := StateData{
		Phase:           st.Phase.String(),
		Round:           st.Round,
		PlayerCards:     cardInts(st.PlayerCards),
		PlayerSum:       st.PlayerSum,
		PlayerSoft:      st.PlayerSoft,
		PlayerNatural:   st.PlayerNatural,
		DealerCards:     cardInts(st.DealerCards),
		DealerSum:       st.DealerSum,
		DealerConcealed: st.DealerConcealed,
		Balance:         st.Balance,
		Bet:             st.Bet,
		Chips:           st.Chips,
		ChipValues:      st.ChipValues,
		Message:         st.Message,
		ResetPending:    st.ResetPending,
		Broke:           st.Broke,
	}
	if st.Outcome != game.NoOutcome {
		data.Outcome = st.Outcome.String()
	}
	if data.Chips == nil {
		data.Chips = []int{}
	}
	return data
}

func cardInts(cards []game.CardValue) []int {
	out := make([]int, len(cards))
	for i, c := range cards {
		out[i] = int(c)
	}
	return out
}

// Error codes sent in ErrorData.
const (
	CodeInvalidMessage    = "invalid_message"
	CodeUnknownAction     = "unknown_action"
	CodeInsufficientChips = "insufficient_chips"
	CodeNoBetPlaced       = "no_bet_placed"
	CodeWrongPhase        = "wrong_phase"
	CodeInvalidBet        = "invalid_bet"
	CodeUnknownChip       = "unknown_chip"
	CodeInternal          = "internal_error"
)

// errorCode maps engine and session errors to wire codes
func errorCode(err error) string {
	switch {
	case errors.Is(err, game.ErrInsufficientChips):
		return CodeInsufficientChips
	case errors.Is(err, game.ErrNoBetPlaced):
		return CodeNoBetPlaced
	case errors.Is(err, game.ErrWrongPhase):
		return CodeWrongPhase
	case errors.Is(err, game.ErrInvalidBet):
		return CodeInvalidBet
	case errors.Is(err, session.ErrUnknownChip):
		return CodeUnknownChip
	default:
		return CodeInternal
	}
}

// Snapshot converts the wire state back to an engine snapshot, for
// strategies playing over the network.
func (d StateData) Snapshot() (game.Snapshot, error) {
	phase, err := game.ParsePhase(d.Phase)
	if err != nil {
		return game.Snapshot{}, err
	}
	outcome, err := game.ParseOutcome(d.Outcome)
	if err != nil {
		return game.Snapshot{}, err
	}
	return game.Snapshot{
		Phase:           phase,
		Round:           d.Round,
		PlayerCards:     cardValues(d.PlayerCards),
		PlayerSum:       d.PlayerSum,
		PlayerSoft:      d.PlayerSoft,
		PlayerNatural:   d.PlayerNatural,
		DealerCards:     cardValues(d.DealerCards),
		DealerSum:       d.DealerSum,
		DealerConcealed: d.DealerConcealed,
		Balance:         d.Balance,
		Bet:             d.Bet,
		Outcome:         outcome,
	}, nil
}

func cardValues(cards []int) []game.CardValue {
	out := make([]game.CardValue, len(cards))
	for i, c := range cards {
		out[i] = game.CardValue(c)
	}
	return out
}

// CommandError is an error reported by the server for a rejected command.
// It matches the engine's sentinel errors with errors.Is.
type CommandError struct {
	Code    string
	Message string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Is reports whether the error code corresponds to target
func (e *CommandError) Is(target error) bool {
	switch e.Code {
	case CodeInsufficientChips:
		return target == game.ErrInsufficientChips
	case CodeNoBetPlaced:
		return target == game.ErrNoBetPlaced
	case CodeWrongPhase:
		return target == game.ErrWrongPhase
	case CodeInvalidBet:
		return target == game.ErrInvalidBet
	case CodeUnknownChip:
		return target == session.ErrUnknownChip
	}
	return false
}
