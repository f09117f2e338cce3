package spacing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/sectiongrid/internal/function"
	"github.com/vk/sectiongrid/internal/model"
	"github.com/vk/sectiongrid/internal/param"
	"github.com/vk/sectiongrid/internal/units"
)

func TestDivide(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		length       float64
		pitch        float64
		wantSpacings int
		wantPitch    float64
		wantOK       bool
	}{
		{"rounds count up then recomputes pitch", 1000, 300, 4, 250, true},
		{"exact fit", 1000, 250, 4, 250, true},
		{"pitch equals length", 1000, 1000, 1, 1000, true},
		{"pitch longer than length", 1000, 1500, 1, 1000, true},
		{"last bar within the limit", 9999, 1, 9999, 1, true},
		{"one bar over the limit", 10000, 1, 0, 0, false},
		{"vanishing pitch", 1e9, 1e-9, 0, 0, false},
		{"infinite length", math.Inf(1), 300, 0, 0, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			n, p, ok := Divide(tc.length, tc.pitch)
			assert.Equal(t, tc.wantOK, ok)
			assert.Equal(t, tc.wantSpacings, n)
			assert.InDelta(t, tc.wantPitch, p, 1e-9)
		})
	}
}

func newBound(t *testing.T) *Function {
	t.Helper()
	f := New(units.MetricMillimetre)
	f.rebar.Set(model.NewRebar(12, 1, model.DefaultSteel))
	f.length.Set(1000)
	return f
}

func TestCompute_ByPitch(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	f := newBound(t)
	f.pitch.Set(300)

	// --- Act ---
	require.True(t, function.Evaluate(f))

	// --- Assert ---
	assert.Equal(t, 4, f.spacings.Value())
	assert.Equal(t, 5, f.bars.Value())
	assert.InDelta(t, 250, f.actual.Value(), 1e-9)
	assert.Equal(t, []float64{0, 250, 500, 750, 1000}, f.positions.Value())
	assert.True(t, f.Messages().Empty())
}

func TestCompute_SingleSpacingHasTwoEnds(t *testing.T) {
	t.Parallel()

	f := newBound(t)
	f.pitch.Set(1000)

	require.True(t, function.Evaluate(f))

	assert.Equal(t, 1, f.spacings.Value())
	assert.Equal(t, []float64{0, 1000}, f.positions.Value())
}

func TestCompute_ByCount(t *testing.T) {
	t.Parallel()

	f := newBound(t)
	require.NoError(t, f.SetMode("ByCount"))
	f.count.Set(3)

	require.True(t, function.Evaluate(f))

	assert.Equal(t, 2, f.spacings.Value())
	assert.InDelta(t, 500, f.actual.Value(), 1e-9)

	f.count.Set(1)
	require.False(t, function.Evaluate(f))
	assert.Equal(t, []string{"Count must be at least 2, got 1"}, f.Messages().Errors)
}

func TestCompute_Idempotent(t *testing.T) {
	t.Parallel()

	f := newBound(t)
	f.pitch.Set(20)

	require.True(t, function.Evaluate(f))
	first, firstMsgs := f.positions.Value(), *f.Messages()
	require.True(t, function.Evaluate(f))

	assert.Equal(t, first, f.positions.Value())
	assert.Equal(t, firstMsgs, *f.Messages())
	assert.Len(t, f.Messages().Warnings, 1, "tight spacing warns once per run")
}

func TestCompute_MissingRebar(t *testing.T) {
	t.Parallel()

	f := New(units.MetricMillimetre)
	f.pitch.Set(300)
	f.length.Set(1000)

	require.False(t, function.Evaluate(f))
	assert.Equal(t, []string{"Input parameter Rebar failed to collect data"}, f.Messages().Errors)
	assert.False(t, f.bars.IsSet())
}

func TestInputs_PerMode(t *testing.T) {
	t.Parallel()

	f := New(units.MetricMillimetre)
	names := func() []string {
		var out []string
		for _, a := range param.Attributes(f.Inputs()) {
			out = append(out, a.Name)
		}
		return out
	}

	assert.Equal(t, []string{"Rebar", "Spacing", "Length"}, names())
	require.NoError(t, f.SetMode("ByCount"))
	assert.Equal(t, []string{"Rebar", "Count", "Length"}, names())
}

func TestValidateInputs_BarLimit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mode    string
		length  float64
		pitch   float64
		count   int
		wantErr string
	}{
		{"pitch far below length", "ByPitch", 1e9, 1e-9, 0, "Spacing 1e-09 places more than 10000 bars over length 1e+09"},
		{"infinite length", "ByPitch", math.Inf(1), 300, 0, "Length must be finite"},
		{"not a number pitch", "ByPitch", 1000, math.NaN(), 0, "Spacing must be positive"},
		{"count over the limit", "ByCount", 1000, 0, 1 << 40, "Count must be at most 10000, got 1099511627776"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			// --- Arrange ---
			f := newBound(t)
			require.NoError(t, f.SetMode(tc.mode))
			f.length.Set(tc.length)
			f.pitch.Set(tc.pitch)
			f.count.Set(tc.count)

			// --- Act ---
			ok := function.Evaluate(f)

			// --- Assert ---
			require.False(t, ok)
			assert.Equal(t, []string{tc.wantErr}, f.Messages().Errors)
			assert.False(t, f.positions.IsSet(), "compute must not run")
		})
	}
}
