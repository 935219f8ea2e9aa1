// Package session drives a blackjack engine on behalf of a presentation
// layer. It serializes commands, keeps the chip stack and status message the
// table shows, and returns the engine to betting after a display delay.
package session

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/blackjack/internal/game"
)

// ErrUnknownChip is returned when a chip is not one of the table's denominations.
var ErrUnknownChip = errors.New("unknown chip value")

const (
	// DefaultResetDelay is how long a settled round stays on the table.
	DefaultResetDelay = 3 * time.Second

	maxLogLines = 50
)

// DefaultChipValues are the denominations offered in the chip tray.
var DefaultChipValues = []int{1, 10, 100, 500}

// State is everything a presentation layer needs to draw the table.
type State struct {
	game.Snapshot

	// Chips is the stack of chips placed this round, in order.
	Chips        []int
	ChipValues   []int
	Message      string
	ResetPending bool
	Broke        bool
	Log          []string
}

// Session wraps an engine for a single player. All methods are safe for
// concurrent use.
type Session struct {
	mu sync.Mutex

	engine     *game.Engine
	clock      quartz.Clock
	logger     *log.Logger
	resetDelay time.Duration
	chipValues []int
	formatter  *game.EventFormatter

	chips      []int
	message    string
	lines      []string
	resetTimer *quartz.Timer
	resetGen   int

	subscribers []chan struct{}
	closed      bool
}

// Option configures a Session.
type Option func(*sessionConfig)

type sessionConfig struct {
	clock      quartz.Clock
	logger     *log.Logger
	resetDelay time.Duration
	chipValues []int
	balance    int
	handlers   []game.EventHandler
}

// WithClock sets the clock used for the reset delay.
func WithClock(clock quartz.Clock) Option {
	return func(c *sessionConfig) { c.clock = clock }
}

// WithLogger sets the logger. Events are logged at debug level, outcomes at info.
func WithLogger(logger *log.Logger) Option {
	return func(c *sessionConfig) { c.logger = logger }
}

// WithResetDelay sets how long a settled round is shown before betting
// reopens. A delay of zero or less disables the automatic reset; the caller
// then calls Reset.
func WithResetDelay(d time.Duration) Option {
	return func(c *sessionConfig) { c.resetDelay = d }
}

// WithChipValues sets the chip denominations accepted by PlaceChip.
func WithChipValues(values []int) Option {
	return func(c *sessionConfig) { c.chipValues = slices.Clone(values) }
}

// WithBalance sets the starting chip balance.
func WithBalance(chips int) Option {
	return func(c *sessionConfig) { c.balance = chips }
}

// WithEventHandler adds a handler that receives every engine event. Handlers
// run while the session lock is held and must not call back into the Session.
func WithEventHandler(h game.EventHandler) Option {
	return func(c *sessionConfig) { c.handlers = append(c.handlers, h) }
}

// New creates a session with a fresh engine drawing from source.
func New(source game.CardSource, opts ...Option) *Session {
	cfg := &sessionConfig{
		clock:      quartz.NewReal(),
		logger:     log.New(io.Discard),
		resetDelay: DefaultResetDelay,
		chipValues: DefaultChipValues,
		balance:    game.DefaultBalance,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	s := &Session{
		clock:      cfg.clock,
		logger:     cfg.logger.WithPrefix("session"),
		resetDelay: cfg.resetDelay,
		chipValues: cfg.chipValues,
		formatter:  game.NewEventFormatter(game.FormattingOptions{ShowBalance: true}),
		message:    msgPlaceBets,
	}

	handlers := append([]game.EventHandler{game.EventHandlerFunc(s.record), LogEvents(s.logger)}, cfg.handlers...)
	s.engine = game.NewEngine(source,
		game.WithBalance(cfg.balance),
		game.WithEventHandler(game.EventHandlerFunc(func(ev game.Event) {
			for _, h := range handlers {
				h.HandleEvent(ev)
			}
		})),
	)
	return s
}

// State returns the current table state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

func (s *Session) stateLocked() State {
	snap := s.engine.Snapshot()
	return State{
		Snapshot:     snap,
		Chips:        slices.Clone(s.chips),
		ChipValues:   slices.Clone(s.chipValues),
		Message:      s.message,
		ResetPending: s.resetTimer != nil,
		Broke:        snap.Phase == game.Betting && snap.Balance == 0,
		Log:          slices.Clone(s.lines),
	}
}

// PlaceChip adds one chip of the given denomination to the bet.
func (s *Session) PlaceChip(value int) error {
	if !slices.Contains(s.chipValues, value) {
		return fmt.Errorf("chip $%d: %w", value, ErrUnknownChip)
	}
	return s.PlaceBet(value)
}

// PlaceBet adds amount to the bet.
func (s *Session) PlaceBet(amount int) error {
	return s.do(func() error {
		err := s.engine.PlaceBet(amount)
		switch {
		case errors.Is(err, game.ErrInsufficientChips):
			s.message = fmt.Sprintf("Insufficient chips. Max bet is $%d.", s.engine.Balance())
		case err == nil:
			s.chips = append(s.chips, amount)
			s.message = fmt.Sprintf("Current Bet: $%d", s.engine.Bet())
		}
		return err
	})
}

// ClearBet takes the chips back off the table.
func (s *Session) ClearBet() error {
	return s.do(func() error {
		if err := s.engine.ClearBet(); err != nil {
			return err
		}
		s.chips = nil
		s.message = "Bet cleared. " + msgPlaceBets
		return nil
	})
}

// Deal starts the round.
func (s *Session) Deal() error {
	return s.do(func() error {
		err := s.engine.Deal()
		if errors.Is(err, game.ErrNoBetPlaced) {
			s.message = "You must place a bet to deal!"
		}
		return err
	})
}

// Hit draws a card for the player.
func (s *Session) Hit() error {
	return s.do(s.engine.Hit)
}

// Stand ends the player's turn.
func (s *Session) Stand() error {
	return s.do(s.engine.Stand)
}

// Reset returns a settled round to betting straight away, cancelling any
// pending automatic reset.
func (s *Session) Reset() error {
	return s.do(s.resetLocked)
}

// Subscribe returns a channel that receives a value after every state
// change. Notifications coalesce; the channel is closed by Close.
func (s *Session) Subscribe() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan struct{}, 1)
	if s.closed {
		close(ch)
		return ch
	}
	s.subscribers = append(s.subscribers, ch)
	return ch
}

// Close stops the reset timer and closes subscriber channels.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.stopResetLocked()
	for _, ch := range s.subscribers {
		close(ch)
	}
	s.subscribers = nil
}

// do runs a command under the lock, refreshes the status message and
// schedules the reset once the round has settled.
func (s *Session) do(cmd func() error) error {
	s.mu.Lock()
	err := cmd()
	if err == nil {
		s.afterCommandLocked()
	}
	s.mu.Unlock()

	s.notify()
	return err
}

func (s *Session) afterCommandLocked() {
	switch s.engine.Phase() {
	case game.PlayerTurn:
		s.message = msgPlayerTurn
	case game.Settled:
		s.message = outcomeMessage(s.engine.Outcome(), s.engine.Snapshot().PlayerNatural)
		s.scheduleResetLocked()
	}
}

func (s *Session) scheduleResetLocked() {
	if s.resetDelay <= 0 {
		return
	}
	s.resetGen++
	gen := s.resetGen
	s.resetTimer = s.clock.AfterFunc(s.resetDelay, func() {
		s.mu.Lock()
		if s.closed || gen != s.resetGen {
			s.mu.Unlock()
			return
		}
		s.resetTimer = nil
		err := s.resetLocked()
		s.mu.Unlock()

		if err != nil {
			s.logger.Error("Automatic reset failed", "error", err)
			return
		}
		s.notify()
	}, "session", "reset")
}

func (s *Session) stopResetLocked() {
	if s.resetTimer != nil {
		s.resetTimer.Stop()
		s.resetTimer = nil
	}
	s.resetGen++
}

func (s *Session) resetLocked() error {
	if err := s.engine.ResetToBetting(); err != nil {
		return err
	}
	s.stopResetLocked()
	s.chips = nil
	s.message = msgPlaceBets
	if s.engine.Balance() == 0 {
		s.message = msgBroke
	}
	return nil
}

func (s *Session) notify() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ch := range s.subscribers {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// record keeps the formatted event history. It runs inside engine calls,
// which always happen with s.mu held.
func (s *Session) record(ev game.Event) {
	s.lines = append(s.lines, s.formatter.Format(ev))
	if len(s.lines) > maxLogLines {
		s.lines = slices.Delete(s.lines, 0, len(s.lines)-maxLogLines)
	}
}
