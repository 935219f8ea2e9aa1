package deck

import (
	"testing"

	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/randutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInfiniteDistribution(t *testing.T) {
	d := NewInfinite(randutil.New(1))
	const draws = 130000

	counts := map[game.CardValue]int{}
	for i := 0; i < draws; i++ {
		v := d.DrawCard()
		require.True(t, v.Valid())
		counts[v]++
	}

	// 4/13 for ten-valued cards, 1/13 for everything else, within 5%.
	assert.InEpsilon(t, draws*4/13, counts[game.Ten], 0.05)
	assert.InEpsilon(t, draws/13, counts[game.Ace], 0.05)
	assert.InEpsilon(t, draws/13, counts[5], 0.05)
}

func TestInfiniteIsDeterministic(t *testing.T) {
	a := NewInfinite(randutil.New(99))
	b := NewInfinite(randutil.New(99))
	for i := 0; i < 50; i++ {
		require.Equal(t, a.Draw(), b.Draw())
	}
	assert.Equal(t, a.Last(), b.Last())
}

func TestShoeDealsEveryCardOnce(t *testing.T) {
	s := NewShoe(randutil.New(3))
	assert.Equal(t, 52, s.CardsRemaining())
	assert.Equal(t, 1, s.Shuffles())

	seen := map[Card]bool{}
	for i := 0; i < 52; i++ {
		c := s.Draw()
		assert.False(t, seen[c], "card %s dealt twice", c)
		seen[c] = true
	}
	assert.Zero(t, s.CardsRemaining())

	reshuffled := 0
	s.OnShuffle(func() { reshuffled++ })
	_ = s.DrawCard()
	assert.Equal(t, 1, reshuffled)
	assert.Equal(t, 2, s.Shuffles())
	assert.Equal(t, 51, s.CardsRemaining())
}

func TestStacked(t *testing.T) {
	s := NewStacked(game.Ace, 10, 9)
	assert.Equal(t, game.Ace, s.DrawCard())
	assert.Equal(t, 2, s.Remaining())
	s.DrawCard()
	s.DrawCard()
	assert.Panics(t, func() { s.DrawCard() })
	assert.Panics(t, func() { NewStacked(12) })
}

func TestParseValues(t *testing.T) {
	got, err := ParseValues("A, 10 k 9\t2 11")
	require.NoError(t, err)
	assert.Equal(t, []game.CardValue{game.Ace, 10, 10, 9, 2, game.Ace}, got)

	_, err = ParseValues("1")
	assert.Error(t, err)
	_, err = ParseValues("x")
	assert.Error(t, err)
}

func TestSourcesDriveEngine(t *testing.T) {
	values, err := ParseValues("A 10 10 9")
	require.NoError(t, err)

	e := game.NewEngine(NewStacked(values...))
	require.NoError(t, e.PlaceBet(100))
	require.NoError(t, e.Deal())
	assert.Equal(t, game.PlayerWin, e.Outcome())
	assert.Equal(t, 2100, e.Balance())
}

func TestNewSource(t *testing.T) {
	src, err := NewSource("", randutil.New(1))
	require.NoError(t, err)
	assert.IsType(t, &Infinite{}, src)

	src, err = NewSource(SourceShoe, randutil.New(1))
	require.NoError(t, err)
	assert.IsType(t, &Shoe{}, src)

	_, err = NewSource("eight-deck", randutil.New(1))
	assert.ErrorContains(t, err, "unknown card source")
}
