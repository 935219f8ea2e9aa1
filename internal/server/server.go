package server

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"

	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/randutil"
	"github.com/lox/blackjack/internal/session"
	"github.com/lox/blackjack/internal/sessionid"
)

// Config holds the table settings applied to every connection
type Config struct {
	Balance    int
	ChipValues []int
	ResetDelay time.Duration
}

// DefaultConfig returns the default table settings
func DefaultConfig() Config {
	return Config{
		Balance:    game.DefaultBalance,
		ChipValues: slices.Clone(session.DefaultChipValues),
		ResetDelay: session.DefaultResetDelay,
	}
}

// SourceFactory builds the card source for a new connection
type SourceFactory func(rng *rand.Rand) game.CardSource

// Server serves one blackjack session per WebSocket connection
type Server struct {
	upgrader  websocket.Upgrader
	logger    *log.Logger
	config    Config
	clock     quartz.Clock
	newSource SourceFactory

	rngMu sync.Mutex
	rng   *rand.Rand
	ids   *sessionid.Generator

	mu          sync.Mutex
	connections map[*Connection]struct{}
}

// Option configures a Server
type Option func(*Server)

// WithConfig sets the table settings
func WithConfig(cfg Config) Option {
	return func(s *Server) { s.config = cfg }
}

// WithClock sets the clock used for the settlement display delay
func WithClock(clock quartz.Clock) Option {
	return func(s *Server) { s.clock = clock }
}

// WithSourceFactory overrides how card sources are built
func WithSourceFactory(f SourceFactory) Option {
	return func(s *Server) { s.newSource = f }
}

// NewServer creates a new WebSocket server. Each connection gets its own
// card source seeded from rng.
func NewServer(logger *log.Logger, rng *rand.Rand, opts ...Option) *Server {
	s := &Server{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		logger:      logger.WithPrefix("server"),
		config:      DefaultConfig(),
		clock:       quartz.NewReal(),
		newSource:   func(rng *rand.Rand) game.CardSource { return deck.NewInfinite(rng) },
		rng:         rng,
		connections: make(map[*Connection]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.ids = sessionid.NewGenerator(s.clock, randutil.Child(rng))
	return s
}

// Handler returns the HTTP handler serving /ws and /health
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/ws", s.handleWebSocket)
	r.Get("/health", s.handleHealth)
	return r
}

// Serve listens on addr until ctx is cancelled
func (s *Server) Serve(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting WebSocket server", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down")
	s.closeAll()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// ConnectionCount returns the number of open connections
func (s *Server) ConnectionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.connections)
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("Failed to upgrade connection", "error", err)
		return
	}

	s.rngMu.Lock()
	id := s.ids.Generate()
	source := s.newSource(randutil.Child(s.rng))
	s.rngMu.Unlock()

	logger := s.logger.With("session", id)
	sess := session.New(source,
		session.WithClock(s.clock),
		session.WithLogger(logger),
		session.WithBalance(s.config.Balance),
		session.WithChipValues(s.config.ChipValues),
		session.WithResetDelay(s.config.ResetDelay),
	)

	conn := NewConnection(id, ws, sess, logger)
	s.mu.Lock()
	s.connections[conn] = struct{}{}
	total := len(s.connections)
	s.mu.Unlock()
	s.logger.Info("Client connected", "remote", r.RemoteAddr, "total", total)

	go func() {
		<-conn.Done()
		s.mu.Lock()
		delete(s.connections, conn)
		total := len(s.connections)
		s.mu.Unlock()
		s.logger.Info("Client disconnected", "remote", r.RemoteAddr, "total", total)
	}()

	conn.Start()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprint(w, "OK")
}

func (s *Server) closeAll() {
	s.mu.Lock()
	conns := make([]*Connection, 0, len(s.connections))
	for c := range s.connections {
		conns = append(conns, c)
	}
	s.mu.Unlock()

	for _, c := range conns {
		_ = c.Close()
	}
}
