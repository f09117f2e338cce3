package variable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/sectiongrid/internal/function"
	"github.com/vk/sectiongrid/internal/param"
	"github.com/vk/sectiongrid/internal/units"
)

type pitchMode int

const (
	byPitch pitchMode = iota
	byCount
)

func (m pitchMode) String() string {
	if m == byPitch {
		return "ByPitch"
	}
	return "ByCount"
}

type pitchFn struct {
	function.Base
	*Controller[pitchMode]
	grade   string
	rebar   *param.TypedParameter[string]
	spacing *param.TypedParameter[float64]
	count   *param.TypedParameter[int]
}

func newPitchFn() *pitchFn {
	f := &pitchFn{
		Base:    function.NewBase(function.Info{Name: "Pitch"}),
		grade:   "B500",
		rebar:   param.New[string](param.KindText, param.Attribute{Name: "Rebar"}),
		spacing: param.New[float64](param.KindLength, param.Attribute{Name: "Spacing", Quantity: units.Length}),
		count:   param.New[int](param.KindInteger, param.Attribute{Name: "Count"}),
	}
	f.Controller = NewController(f, units.MetricMillimetre, byPitch, byPitch, byCount)
	f.AddExtra(Extra{
		Name:    "Grade",
		Choices: []string{"B500", "B600"},
		Active:  func() bool { return f.Current() == byPitch },
		Get:     func() string { return f.grade },
		Set:     func(s string) error { f.grade = s; return nil },
	})
	f.Refresh()
	return f
}

func (f *pitchFn) Inputs() []param.Parameter {
	switch f.Current() {
	case byPitch:
		return []param.Parameter{f.rebar, f.spacing}
	case byCount:
		return []param.Parameter{f.rebar, f.count}
	}
	return nil
}

func (f *pitchFn) Outputs() []param.Parameter { return nil }
func (f *pitchFn) Compute()                   {}

var _ Function = (*pitchFn)(nil)

func names(ps []param.Parameter) []string {
	var out []string
	for _, p := range ps {
		out = append(out, p.Attr().Name)
	}
	return out
}

func TestInputs_StableWithoutModeChange(t *testing.T) {
	t.Parallel()

	f := newPitchFn()
	first := param.Attributes(f.Inputs())
	second := param.Attributes(f.Inputs())

	assert.Equal(t, first, second)
}

func TestSetMode_ReflectsNewModeAndNotifies(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	f := newPitchFn()
	var signals int
	var seenDuringSignal []string
	f.SetNotifier(func() {
		signals++
		seenDuringSignal = names(f.Inputs())
	})

	// --- Act ---
	require.NoError(t, f.SetMode("ByCount"))

	// --- Assert ---
	assert.Equal(t, 1, signals)
	assert.Equal(t, []string{"Rebar", "Count"}, seenDuringSignal)
	assert.Equal(t, []string{"Rebar", "Count"}, names(f.Inputs()))
	assert.Equal(t, "ByCount", f.Mode())
}

func TestSetMode_SameModeIsSilent(t *testing.T) {
	t.Parallel()

	f := newPitchFn()
	signals := 0
	f.SetNotifier(func() { signals++ })

	require.NoError(t, f.SetMode("ByPitch"))
	assert.Equal(t, 0, signals)
}

func TestSetMode_Unknown(t *testing.T) {
	t.Parallel()

	f := newPitchFn()
	err := f.SetMode("Sideways")
	assert.ErrorContains(t, err, `unknown mode "Sideways"`)
	assert.Equal(t, "ByPitch", f.Mode())
}

func TestOptions_PerMode(t *testing.T) {
	t.Parallel()

	f := newPitchFn()

	opts := f.Options()
	require.Len(t, opts, 3)
	assert.Equal(t, ModeLabel, opts[0].Label())
	assert.Equal(t, []string{"ByPitch", "ByCount"}, opts[0].Entries())
	assert.Equal(t, "Grade", opts[1].Label())
	assert.Equal(t, "Length unit", opts[2].Label())
	assert.Equal(t, []string{"mm", "cm", "m"}, opts[2].Entries())
	assert.Equal(t, "mm", opts[2].Selected())

	require.NoError(t, f.SetMode("ByCount"))
	opts = f.Options()
	require.Len(t, opts, 1, "grade and length unit do not apply to ByCount")
}

func TestSelect_UnitChangesSuffixNotName(t *testing.T) {
	t.Parallel()

	f := newPitchFn()
	signals := 0
	f.SetNotifier(func() { signals++ })
	assert.Equal(t, "Spacing [mm]", f.spacing.Attr().Label())

	require.NoError(t, f.Select("Length unit", "cm"))

	assert.Equal(t, 1, signals)
	assert.Equal(t, "Spacing", f.spacing.Attr().Name)
	assert.Equal(t, "Spacing [cm]", f.spacing.Attr().Label())
	assert.InDelta(t, 300.0, f.ToBase(f.spacing, 30), 1e-9)

	assert.Error(t, f.Select("Length unit", "in"))
	assert.Error(t, f.Select("Colour", "red"))
}

func TestSelect_Extra(t *testing.T) {
	t.Parallel()

	f := newPitchFn()
	require.NoError(t, f.Select("Grade", "B600"))
	assert.Equal(t, "B600", f.grade)
	assert.ErrorContains(t, f.Select("Grade", "B700"), "is not a choice")

	require.NoError(t, f.Select(ModeLabel, "ByCount"))
	assert.ErrorContains(t, f.Select("Grade", "B500"), "not available in mode ByCount")
}

func TestSetSystem_DropsIllegalOverrides(t *testing.T) {
	t.Parallel()

	f := newPitchFn()
	require.NoError(t, f.Select("Length unit", "cm"))

	require.NoError(t, f.SetSystem(units.Imperial))

	assert.Equal(t, "in", f.Unit(units.Length).Symbol)
	assert.Equal(t, "Spacing [in]", f.spacing.Attr().Label())
	assert.Error(t, f.SetSystem("cubits"))
}

func TestStateRoundTrip(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	src := newPitchFn()
	require.NoError(t, src.Select("Grade", "B600"))
	require.NoError(t, src.Select("Length unit", "m"))
	require.NoError(t, src.SetMode("ByCount"))
	state := src.State()

	dst := newPitchFn()
	signals := 0
	dst.SetNotifier(func() { signals++ })

	// --- Act ---
	require.NoError(t, dst.Restore(state))

	// --- Assert ---
	assert.Equal(t, 1, signals, "restore raises exactly one notification")
	assert.Equal(t, "ByCount", dst.Mode())
	assert.Equal(t, "B600", dst.grade)
	assert.Equal(t, "m", dst.Unit(units.Length).Symbol)
	assert.Equal(t, State{Mode: "ByCount", Units: map[string]string{"length": "m"}, Choices: map[string]string{"Grade": "B600"}}, state)
}

func TestRestore_RejectsUnknownEntries(t *testing.T) {
	t.Parallel()

	f := newPitchFn()
	assert.Error(t, f.Restore(State{Mode: "Nope"}))
	assert.Error(t, f.Restore(State{Units: map[string]string{"length": "furlong"}}))
	assert.Error(t, f.Restore(State{Choices: map[string]string{"Grade": "B999"}}))
}

func TestRestore_LeavesStateOnError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		state State
	}{
		{"bad unit after a valid mode", State{Mode: "ByCount", Units: map[string]string{"length": "furlong"}}},
		{"bad choice after a valid mode and unit", State{
			Mode:    "ByCount",
			Units:   map[string]string{"length": "cm"},
			Choices: map[string]string{"Grade": "B600", "Finish": "Matte"},
		}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			// --- Arrange ---
			f := newPitchFn()
			notified := 0
			f.SetNotifier(func() { notified++ })
			before := f.State()

			// --- Act ---
			err := f.Restore(tc.state)

			// --- Assert ---
			require.Error(t, err)
			assert.Equal(t, before, f.State())
			assert.Equal(t, "ByPitch", f.Mode())
			assert.Equal(t, "Spacing", f.spacing.Attr().Name)
			assert.Equal(t, "mm", f.spacing.Attr().Suffix)
			assert.Zero(t, notified)
		})
	}
}

func TestNewController_Panics(t *testing.T) {
	t.Parallel()

	f := &pitchFn{Base: function.NewBase(function.Info{Name: "Broken"})}
	assert.Panics(t, func() { NewController(f, units.MetricMillimetre, byCount, byPitch) })
	assert.Panics(t, func() { NewController(f, units.MetricMillimetre, byPitch, byPitch, byPitch) })
}
