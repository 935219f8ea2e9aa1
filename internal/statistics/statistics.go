package statistics

import (
	"fmt"
	"math"

	"github.com/lox/blackjack/internal/game"
)

// RoundResult represents the outcome of a single blackjack round
type RoundResult struct {
	Outcome     game.Outcome
	Bet         int
	Net         int // Chips won (positive) or lost (negative)
	Natural     bool
	PlayerCards int
	DealerCards int
}

// Statistics tracks results across simulated rounds. Net results are
// recorded in chips and in units of the bet.
type Statistics struct {
	Rounds int
	SumNet int
	// SumUnits and SumUnits2 track the result per round in bets, for the
	// mean and variance.
	SumUnits  float64
	SumUnits2 float64

	Outcomes map[game.Outcome]int
	Naturals int
	Rebuys   int

	MaxDrawdown int // Largest peak-to-trough fall in cumulative net chips
	peak        int
}

// New returns empty statistics
func New() *Statistics {
	return &Statistics{Outcomes: make(map[game.Outcome]int)}
}

// Add incorporates a new round result into the statistics
func (s *Statistics) Add(result RoundResult) {
	if s.Outcomes == nil {
		s.Outcomes = make(map[game.Outcome]int)
	}

	s.Rounds++
	s.SumNet += result.Net
	if result.Bet > 0 {
		units := float64(result.Net) / float64(result.Bet)
		s.SumUnits += units
		s.SumUnits2 += units * units
	}
	s.Outcomes[result.Outcome]++
	if result.Natural {
		s.Naturals++
	}

	if s.SumNet > s.peak {
		s.peak = s.SumNet
	}
	if dd := s.peak - s.SumNet; dd > s.MaxDrawdown {
		s.MaxDrawdown = dd
	}
}

// Merge folds other into s. Drawdown is taken as the worse of the two,
// since workers play independent sequences.
func (s *Statistics) Merge(other *Statistics) {
	if s.Outcomes == nil {
		s.Outcomes = make(map[game.Outcome]int)
	}
	s.Rounds += other.Rounds
	s.SumNet += other.SumNet
	s.SumUnits += other.SumUnits
	s.SumUnits2 += other.SumUnits2
	for o, n := range other.Outcomes {
		s.Outcomes[o] += n
	}
	s.Naturals += other.Naturals
	s.Rebuys += other.Rebuys
	s.MaxDrawdown = max(s.MaxDrawdown, other.MaxDrawdown)
}

// Wins returns rounds the player won, including dealer busts
func (s *Statistics) Wins() int {
	return s.Outcomes[game.PlayerWin] + s.Outcomes[game.DealerBust]
}

// Losses returns rounds the player lost, including player busts
func (s *Statistics) Losses() int {
	return s.Outcomes[game.DealerWin] + s.Outcomes[game.PlayerBust]
}

// Pushes returns tied rounds
func (s *Statistics) Pushes() int {
	return s.Outcomes[game.Push]
}

// Rate returns the fraction of rounds that ended with outcome o
func (s *Statistics) Rate(o game.Outcome) float64 {
	if s.Rounds == 0 {
		return 0
	}
	return float64(s.Outcomes[o]) / float64(s.Rounds)
}

// Mean returns the mean result per round in bets
func (s *Statistics) Mean() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return s.SumUnits / float64(s.Rounds)
}

// Variance returns the sample variance of the per-round result
func (s *Statistics) Variance() float64 {
	if s.Rounds < 2 {
		return 0
	}
	mean := s.Mean()
	return (s.SumUnits2 - float64(s.Rounds)*mean*mean) / float64(s.Rounds-1)
}

// StdDev returns the sample standard deviation of all results
func (s *Statistics) StdDev() float64 {
	return math.Sqrt(s.Variance())
}

// StdError returns the standard error of the mean
func (s *Statistics) StdError() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return s.StdDev() / math.Sqrt(float64(s.Rounds))
}

// ConfidenceInterval95 returns the 95% confidence interval for the mean
func (s *Statistics) ConfidenceInterval95() (float64, float64) {
	mean := s.Mean()
	margin := 1.96 * s.StdError()
	return mean - margin, mean + margin
}

// Validate checks that the outcome counts add up to the rounds played
func (s *Statistics) Validate() error {
	total := 0
	for _, n := range s.Outcomes {
		total += n
	}
	if total != s.Rounds {
		return fmt.Errorf("outcome counts sum to %d, expected %d rounds", total, s.Rounds)
	}
	if s.Outcomes[game.NoOutcome] != 0 {
		return fmt.Errorf("%d rounds finished without an outcome", s.Outcomes[game.NoOutcome])
	}
	return nil
}
