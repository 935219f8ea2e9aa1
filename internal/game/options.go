package game

// DefaultBalance is the chip balance a new engine starts with.
const DefaultBalance = 2000

// Option configures an Engine during creation.
type Option func(*engineConfig)

type engineConfig struct {
	balance int
	handler EventHandler
}

// WithBalance sets the starting chip balance. Negative values are clamped to 0.
func WithBalance(chips int) Option {
	return func(c *engineConfig) {
		c.balance = max(chips, 0)
	}
}

// WithEventHandler registers a handler for round events.
func WithEventHandler(h EventHandler) Option {
	return func(c *engineConfig) {
		c.handler = h
	}
}
