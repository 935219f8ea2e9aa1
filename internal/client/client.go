// Package client connects to a blackjack server over WebSocket.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/lox/blackjack/internal/server" // Reuse message types
)

const writeWait = 10 * time.Second

// ErrClosed is returned once the connection to the server is gone
var ErrClosed = errors.New("connection closed")

type commandError struct {
	requestID string
	err       *server.CommandError
}

// Client represents a WebSocket connection to one table session. The
// latest state pushed by the server is kept and can be waited on.
type Client struct {
	conn   *websocket.Conn
	logger *log.Logger

	writeMu sync.Mutex
	nextID  int

	mu       sync.Mutex
	state    server.StateData
	hasState bool
	changed  chan struct{}
	readErr  error

	errs      chan commandError
	done      chan struct{}
	closeOnce sync.Once
}

// Dial connects to the server. http and https URLs are converted to ws and
// wss, and the /ws path is added when missing.
func Dial(ctx context.Context, serverURL string, logger *log.Logger) (*Client, error) {
	u, err := url.Parse(serverURL)
	if err != nil {
		return nil, fmt.Errorf("invalid server URL: %w", err)
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	}
	if u.Path == "" || u.Path == "/" {
		u.Path = "/ws"
	}

	logger = logger.WithPrefix("client")
	logger.Debug("Connecting to server", "url", u.String())

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect: %w", err)
	}

	c := &Client{
		conn:    conn,
		logger:  logger,
		changed: make(chan struct{}),
		errs:    make(chan commandError, 16),
		done:    make(chan struct{}),
	}
	go c.readPump()
	return c, nil
}

// Close closes the connection
func (c *Client) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.writeMu.Lock()
		_ = c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(writeWait))
		c.writeMu.Unlock()
		err = c.conn.Close()
	})
	return err
}

// State returns the latest state, and whether one has been received yet
func (c *Client) State() (server.StateData, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state, c.hasState
}

// Do sends a command and waits until the state satisfies done. A rejection
// of this command is returned as a *server.CommandError.
func (c *Client) Do(ctx context.Context, action string, amount int, done func(server.StateData) bool) (server.StateData, error) {
	id, err := c.send(action, amount)
	if err != nil {
		return server.StateData{}, err
	}
	return c.wait(ctx, id, done)
}

// Wait blocks until the state satisfies done
func (c *Client) Wait(ctx context.Context, done func(server.StateData) bool) (server.StateData, error) {
	return c.wait(ctx, "", done)
}

func (c *Client) send(action string, amount int) (string, error) {
	msg, err := server.NewMessage(server.MessageTypeCommand, server.CommandData{Action: action, Amount: amount})
	if err != nil {
		return "", err
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	c.nextID++
	msg.RequestID = strconv.Itoa(c.nextID)

	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := c.conn.WriteJSON(msg); err != nil {
		return "", fmt.Errorf("failed to send %s: %w", action, err)
	}
	return msg.RequestID, nil
}

func (c *Client) wait(ctx context.Context, requestID string, done func(server.StateData) bool) (server.StateData, error) {
	for {
		c.mu.Lock()
		st, ok, changed := c.state, c.hasState, c.changed
		c.mu.Unlock()

		if ok && done(st) {
			return st, nil
		}

		select {
		case <-changed:
		case e := <-c.errs:
			if requestID != "" && e.requestID == requestID {
				return st, e.err
			}
			c.logger.Debug("Ignoring error for earlier command", "request", e.requestID, "error", e.err)
		case <-c.done:
			c.mu.Lock()
			err := c.readErr
			c.mu.Unlock()
			return st, err
		case <-ctx.Done():
			return st, ctx.Err()
		}
	}
}

// readPump handles incoming messages from the server
func (c *Client) readPump() {
	defer close(c.done)

	for {
		var msg server.Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Error("WebSocket error", "error", err)
			}
			c.mu.Lock()
			c.readErr = fmt.Errorf("%w: %v", ErrClosed, err)
			c.mu.Unlock()
			return
		}

		c.handleMessage(&msg)
	}
}

func (c *Client) handleMessage(msg *server.Message) {
	switch msg.Type {
	case server.MessageTypeState:
		var st server.StateData
		if err := json.Unmarshal(msg.Data, &st); err != nil {
			c.logger.Warn("Invalid state message", "error", err)
			return
		}
		c.mu.Lock()
		c.state = st
		c.hasState = true
		close(c.changed)
		c.changed = make(chan struct{})
		c.mu.Unlock()

	case server.MessageTypeError:
		var data server.ErrorData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.logger.Warn("Invalid error message", "error", err)
			return
		}
		e := commandError{requestID: msg.RequestID, err: &server.CommandError{Code: data.Code, Message: data.Message}}
		select {
		case c.errs <- e:
		default:
			c.logger.Warn("Dropping server error, nobody is waiting", "code", data.Code)
		}

	default:
		c.logger.Debug("Ignoring message", "type", msg.Type)
	}
}
