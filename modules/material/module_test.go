package material

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/sectiongrid/internal/function"
	"github.com/vk/sectiongrid/internal/units"
	"github.com/vk/sectiongrid/internal/variable"
)

func TestGrade_DefaultAndSelection(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	f := New(units.MetricMillimetre)
	signals := 0
	f.SetNotifier(func() { signals++ })

	// --- Act ---
	require.True(t, function.Evaluate(f))
	first := f.material.Value()
	require.NoError(t, f.Select(GradeLabel, "C40"))
	require.True(t, function.Evaluate(f))

	// --- Assert ---
	assert.Equal(t, 28.0, first.Strength)
	assert.Equal(t, "C40", f.material.Value().Name)
	assert.InDelta(t, 4700*math.Sqrt(40), f.modulus.Value(), 1e-9)
	assert.Equal(t, 1, signals)
	assert.Empty(t, f.Inputs())
}

func TestGrade_DropdownOnlyInGradeMode(t *testing.T) {
	t.Parallel()

	f := New(units.MetricMillimetre)
	labels := func() []string {
		var out []string
		for _, o := range f.Options() {
			out = append(out, o.Label())
		}
		return out
	}

	assert.Equal(t, []string{variable.ModeLabel, GradeLabel, "Stress unit"}, labels())
	require.NoError(t, f.SetMode("Custom"))
	assert.Equal(t, []string{variable.ModeLabel, "Stress unit"}, labels())
	assert.Error(t, f.Select(GradeLabel, "C30"))
}

func TestCustom(t *testing.T) {
	t.Parallel()

	f := New(units.MetricMillimetre)
	require.NoError(t, f.SetMode("Custom"))
	f.strength.Set(15)

	require.True(t, function.Evaluate(f))

	assert.Equal(t, "Custom", f.material.Value().Name)
	assert.Equal(t, []string{"Strength 15.0 MPa is below the 17 MPa structural minimum"}, f.Messages().Warnings)

	f.strength.Unset()
	require.False(t, function.Evaluate(f))
	assert.Equal(t, []string{"Input parameter Strength failed to collect data"}, f.Messages().Errors)
}

func TestState_RoundTrip(t *testing.T) {
	t.Parallel()

	f := New(units.MetricMillimetre)
	require.NoError(t, f.Select(GradeLabel, "C35"))
	require.NoError(t, f.Select("Stress unit", "GPa"))
	saved := f.State()

	g := New(units.MetricMillimetre)
	require.NoError(t, g.Restore(saved))

	assert.Equal(t, saved, g.State())
	assert.Equal(t, "C35", g.grade)
}
