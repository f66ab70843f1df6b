package dice_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/scarsofash/internal/game/dice"
)

// seqSrc returns its values in order, repeating the last one.
type seqSrc struct {
	vals []int
	i    int
}

func (s *seqSrc) Intn(n int) int {
	v := s.vals[len(s.vals)-1]
	if s.i < len(s.vals) {
		v = s.vals[s.i]
	}
	s.i++
	return v % n
}

func TestRollResult_Total(t *testing.T) {
	r := dice.RollResult{Expression: "2d6+3", Dice: []int{4, 5}, Modifier: 3}
	assert.Equal(t, 12, r.Total())
}

func TestRollResult_String(t *testing.T) {
	r := dice.RollResult{Expression: "1d11-6", Dice: []int{7}, Modifier: -6}
	assert.Equal(t, "1d11-6 → [7] -6 = 1", r.String())
}

func TestRollResult_String_PanicsOnEmptyExpression(t *testing.T) {
	r := dice.RollResult{Dice: []int{4}}
	assert.Panics(t, func() { _ = r.String() })
}

func TestRollResult_String_Property(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		expr := rapid.StringMatching(`[1-9]d[2-9][+-][0-9]`).Draw(rt, "expression")
		ds := rapid.SliceOfN(rapid.IntRange(1, 20), 1, 10).Draw(rt, "dice")
		mod := rapid.IntRange(-100, 100).Draw(rt, "modifier")
		r := dice.RollResult{Expression: expr, Dice: ds, Modifier: mod}
		s := r.String()
		assert.True(rt, strings.HasPrefix(s, expr))
		assert.Contains(rt, s, fmt.Sprintf("= %d", r.Total()))
	})
}

func TestParse_Forms(t *testing.T) {
	cases := []struct {
		in                   string
		count, sides, modder int
	}{
		{"d20", 1, 20, 0},
		{"2d6", 2, 6, 0},
		{"1d11-6", 1, 11, -6},
		{"3D4+2", 3, 4, 2},
	}
	for _, tc := range cases {
		e, err := dice.Parse(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.count, e.Count, tc.in)
		assert.Equal(t, tc.sides, e.Sides, tc.in)
		assert.Equal(t, tc.modder, e.Modifier, tc.in)
		assert.Equal(t, tc.in, e.Raw)
	}
}

func TestParse_Errors(t *testing.T) {
	for _, in := range []string{"", "6", "0d6", "xd6", "1d1", "1dx", "1d6+x"} {
		_, err := dice.Parse(in)
		assert.Error(t, err, "expected error for %q", in)
	}
}

func TestMustParse_Panics(t *testing.T) {
	assert.Panics(t, func() { dice.MustParse("bogus") })
}

func TestExpression_MinMax(t *testing.T) {
	e := dice.MustParse("1d11-6")
	assert.Equal(t, -5, e.Min())
	assert.Equal(t, 5, e.Max())
}

func TestRoll_WithinBounds_Property(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		count := rapid.IntRange(1, 5).Draw(rt, "count")
		sides := rapid.IntRange(2, 20).Draw(rt, "sides")
		mod := rapid.IntRange(-10, 10).Draw(rt, "mod")
		e := dice.MustParse(fmt.Sprintf("%dd%d%+d", count, sides, mod))
		seed := rapid.Uint64().Draw(rt, "seed")
		res := dice.Roll(e, dice.NewSeededSource(seed))
		assert.Len(rt, res.Dice, count)
		assert.GreaterOrEqual(rt, res.Total(), e.Min())
		assert.LessOrEqual(rt, res.Total(), e.Max())
	})
}

func TestCryptoSource_Intn_InRange(t *testing.T) {
	src := dice.NewCryptoSource()
	for i := 0; i < 1000; i++ {
		v := src.Intn(6)
		assert.GreaterOrEqual(t, v, 0)
		assert.Less(t, v, 6)
	}
}

func TestCryptoSource_Intn_PanicsOnZero(t *testing.T) {
	assert.Panics(t, func() { dice.NewCryptoSource().Intn(0) })
}

func TestSeededSource_Deterministic(t *testing.T) {
	a := dice.NewSeededSource(42)
	b := dice.NewSeededSource(42)
	for i := 0; i < 100; i++ {
		require.Equal(t, a.Intn(1000), b.Intn(1000))
	}
}

func TestSeededSource_PanicsOnZero(t *testing.T) {
	assert.Panics(t, func() { dice.NewSeededSource(1).Intn(0) })
}

func TestPercent(t *testing.T) {
	assert.True(t, dice.Percent(&seqSrc{vals: []int{59}}, 60))
	assert.False(t, dice.Percent(&seqSrc{vals: []int{60}}, 60))
	// Saturated chances never draw.
	src := &seqSrc{vals: []int{0}}
	assert.False(t, dice.Percent(src, 0))
	assert.True(t, dice.Percent(src, 100))
	assert.Equal(t, 0, src.i)
}

func TestWeighted(t *testing.T) {
	weights := []int{60, 40}
	assert.Equal(t, 0, dice.Weighted(&seqSrc{vals: []int{59}}, weights))
	assert.Equal(t, 1, dice.Weighted(&seqSrc{vals: []int{60}}, weights))
	assert.Equal(t, -1, dice.Weighted(&seqSrc{vals: []int{0}}, []int{0, -3}))
	assert.Equal(t, 2, dice.Weighted(&seqSrc{vals: []int{0}}, []int{0, 0, 5}))
}

func TestPick_SingleDoesNotDraw(t *testing.T) {
	src := &seqSrc{vals: []int{3}}
	assert.Equal(t, 0, dice.Pick(src, 1))
	assert.Equal(t, 0, src.i)
	assert.Equal(t, 3, dice.Pick(src, 4))
}

func TestRoller_LogsAtDebug(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	r := dice.NewLoggedRoller(&seqSrc{vals: []int{6}}, zap.New(core))
	res, err := r.RollExpr("1d11-6")
	require.NoError(t, err)
	assert.Equal(t, 1, res.Total())
	require.Equal(t, 1, logs.FilterMessage("dice roll").Len())

	assert.True(t, r.Percent("encounter", 60))
	assert.Equal(t, 1, logs.FilterMessage("percent check").Len())
}

func TestRoller_NilLogger(t *testing.T) {
	r := dice.NewLoggedRoller(&seqSrc{vals: []int{0}}, nil)
	_, err := r.RollExpr("bad")
	assert.Error(t, err)
}
