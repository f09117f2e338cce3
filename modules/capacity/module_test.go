package capacity

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/sectiongrid/internal/analysis"
	"github.com/vk/sectiongrid/internal/analysis/nscp"
	"github.com/vk/sectiongrid/internal/function"
	"github.com/vk/sectiongrid/internal/model"
	"github.com/vk/sectiongrid/internal/units"
)

// stubEngine records the section it was asked about.
type stubEngine struct {
	got analysis.Section
	res analysis.Capacity
	err error
}

func (s *stubEngine) Name() string { return "stub" }

func (s *stubEngine) Capacity(_ context.Context, sec analysis.Section) (analysis.Capacity, error) {
	s.got = sec
	return s.res, s.err
}

func beam(f *Function) {
	concrete, _ := model.ConcreteGrade("C28")
	f.width.Set(300)
	f.height.Set(500)
	f.concrete.Set(concrete)
	f.layers.Set([]model.Layer{{
		Rebar:  model.NewRebar(20, 1, model.DefaultSteel),
		Points: []model.Point{{X: 60, Y: 60}, {X: 150, Y: 60}, {X: 240, Y: 60}},
	}})
}

func TestCapacity_WithNSCPEngine(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	f := New(units.MetricMillimetre, nscp.New())
	beam(f)
	as := 3 * math.Pi * 100
	a := as * 415 / (0.85 * 28 * 300)
	want := 0.9 * as * 415 * (440 - a/2) / 1e6

	// --- Act ---
	ok := function.Evaluate(f)

	// --- Assert ---
	require.True(t, ok)
	assert.True(t, f.Messages().Empty())
	assert.InDelta(t, want, f.capacity.Value(), 0.01)
	assert.False(t, f.utilisation.IsSet())
}

func TestCapacity_PassesBarsAndPreloads(t *testing.T) {
	t.Parallel()

	eng := &stubEngine{res: analysis.Capacity{PhiMn: 100, Phi: 0.9, TensionControlled: true, UltimateStrain: 0.003}}
	f := New(units.MetricMillimetre, eng)
	beam(f)
	tendon := model.Layer{
		Rebar:  model.NewRebar(12.7, 1, model.Material{Family: model.Steel, Strength: 1670, Modulus: 200000}),
		Points: []model.Point{{X: 150, Y: 100}},
	}
	f.preloads.Set([]model.PreLoad{{Kind: model.PreloadStrain, Value: 0.005, Layer: tendon}})

	require.True(t, function.Evaluate(f))

	require.Len(t, eng.got.Bars, 4)
	assert.Equal(t, 28.0, eng.got.Fc)
	assert.Equal(t, 0.005, eng.got.Bars[3].Prestrain)
	assert.Equal(t, 100.0, eng.got.Bars[3].Y)
}

func TestCapacity_Utilisation(t *testing.T) {
	t.Parallel()

	eng := &stubEngine{res: analysis.Capacity{PhiMn: 200, Phi: 0.9, TensionControlled: true, UltimateStrain: 0.003}}

	tests := []struct {
		name   string
		action model.Action
		want   float64
		errors int
	}{
		{"load", model.Action{Variant: model.ActionLoad, Moment: -150}, 0.75, 0},
		{"overloaded", model.Action{Variant: model.ActionLoad, Moment: 300}, 1.5, 1},
		// top strain 0.0006 + 4 * 1e-6 * 250 = 0.0016
		{"deformation", model.Action{Variant: model.ActionDeformation, Strain: 0.0006, Curvature: 4}, 0.0016 / 0.003, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := New(units.MetricMillimetre, eng)
			beam(f)
			f.action.Set(tc.action)

			require.True(t, function.Evaluate(f))

			assert.InDelta(t, tc.want, f.utilisation.Value(), 1e-9)
			assert.Len(t, f.Messages().Errors, tc.errors)
		})
	}
}

func TestCapacity_UnsupportedVariantIsValidationFailure(t *testing.T) {
	t.Parallel()

	eng := &stubEngine{}
	f := New(units.MetricMillimetre, eng)
	beam(f)
	f.action.Set(model.Action{Variant: "torsion"})

	require.False(t, function.Evaluate(f))
	assert.Equal(t, []string{`Action variant "torsion" is not supported, expected load or deformation`}, f.Messages().Errors)
	assert.Empty(t, eng.got.Bars, "engine not called")
}

func TestCapacity_EngineFailureBecomesMessage(t *testing.T) {
	t.Parallel()

	f := New(units.MetricMillimetre, &stubEngine{err: errors.New("no equilibrium")})
	beam(f)

	require.True(t, function.Evaluate(f))
	assert.Equal(t, []string{"stub: no equilibrium"}, f.Messages().Errors)
	assert.False(t, f.capacity.IsSet())
}

func TestCapacity_CancelledSolveReachesEngine(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	f := New(units.MetricMillimetre, nscp.New())
	beam(f)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	f.SetContext(ctx)

	// --- Act ---
	ok := function.Evaluate(f)

	// --- Assert ---
	require.True(t, ok)
	require.Len(t, f.Messages().Errors, 1)
	assert.Contains(t, f.Messages().Errors[0], context.Canceled.Error())
	assert.False(t, f.capacity.IsSet())
}

func TestCapacity_CompressionControlledWarns(t *testing.T) {
	t.Parallel()

	eng := &stubEngine{res: analysis.Capacity{PhiMn: 100, Phi: 0.7, UltimateStrain: 0.003}}
	f := New(units.MetricMillimetre, eng)
	beam(f)

	require.True(t, function.Evaluate(f))
	assert.Equal(t, []string{"Section is not tension-controlled (φ = 0.70)"}, f.Messages().Warnings)
}
