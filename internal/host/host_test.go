package host

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/sectiongrid/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// behaviorFunc adapts a function to Behavior.
type behaviorFunc func(ctx context.Context, c *Component) error

func (f behaviorFunc) Solve(ctx context.Context, c *Component) error { return f(ctx, c) }

// addOne outputs every input number plus one.
func addOne(c *Component) {
	c.RegisterInput(ParamSpec{Key: "X", Name: "X", TypeName: "number", Access: List})
	c.RegisterOutput(ParamSpec{Key: "Y", Name: "Y", TypeName: "number", Access: List})
	c.SetBehavior(behaviorFunc(func(_ context.Context, c *Component) error {
		in, _ := c.Input("X")
		out, _ := c.Output("Y")
		var vs []cty.Value
		for _, v := range in.Data() {
			vs = append(vs, v.Add(cty.NumberIntVal(1)))
		}
		out.SetData(vs)
		return nil
	}))
}

func ints(t *testing.T, vs []cty.Value) []int64 {
	t.Helper()
	out := make([]int64, len(vs))
	for i, v := range vs {
		n, acc := v.AsBigFloat().Int64()
		require.Zero(t, acc)
		out[i] = n
	}
	return out
}

func mustParams(t *testing.T, c *Component) (*Param, *Param) {
	t.Helper()
	in, ok := c.Input("X")
	require.True(t, ok)
	out, ok := c.Output("Y")
	require.True(t, ok)
	return in, out
}

func TestConnect_RejectsWrongDirection(t *testing.T) {
	a, b := NewComponent("a"), NewComponent("b")
	addOne(a)
	addOne(b)
	aIn, aOut := mustParams(t, a)
	bIn, _ := mustParams(t, b)

	require.Error(t, Connect(aIn, bIn))
	require.Error(t, Connect(aOut, aIn), "self wiring")
	require.NoError(t, Connect(aOut, bIn))
	require.NoError(t, Connect(aOut, bIn), "reconnecting is a no-op")

	assert.Len(t, bIn.Sources(), 1)
	assert.Len(t, aOut.Recipients(), 1)

	Disconnect(aOut, bIn)
	assert.False(t, bIn.Connected())
	assert.False(t, aOut.Connected())
}

func TestAdoptWiring_MovesWiresAndValues(t *testing.T) {
	// --- Arrange ---
	up, c, down := NewComponent("up"), NewComponent("c"), NewComponent("down")
	addOne(up)
	addOne(down)
	_, upOut := mustParams(t, up)
	downIn, _ := mustParams(t, down)

	old := c.RegisterInput(ParamSpec{Key: "L", TypeName: "length"})
	oldOut := c.RegisterOutput(ParamSpec{Key: "R", TypeName: "rebar"})
	old.SetPersistent(cty.NumberIntVal(300))
	require.NoError(t, Connect(upOut, old))
	require.NoError(t, Connect(oldOut, downIn))

	// --- Act ---
	c.UnregisterInput(old)
	c.UnregisterOutput(oldOut)
	fresh := c.RegisterInput(ParamSpec{Key: "L", TypeName: "length"})
	freshOut := c.RegisterOutput(ParamSpec{Key: "R", TypeName: "rebar"})
	fresh.AdoptWiring(old)
	freshOut.AdoptWiring(oldOut)

	// --- Assert ---
	assert.Equal(t, []*Param{upOut}, fresh.Sources())
	assert.Equal(t, []*Param{fresh}, upOut.Recipients())
	assert.Equal(t, []*Param{freshOut}, downIn.Sources())
	assert.Equal(t, []cty.Value{cty.NumberIntVal(300)}, fresh.Persistent())
	assert.False(t, old.Connected())
	assert.False(t, oldOut.Connected())
}

func TestIsolate_DropsAllWires(t *testing.T) {
	a, b, c := NewComponent("a"), NewComponent("b"), NewComponent("c")
	addOne(a)
	addOne(b)
	addOne(c)
	_, aOut := mustParams(t, a)
	bIn, bOut := mustParams(t, b)
	cIn, _ := mustParams(t, c)
	require.NoError(t, Connect(aOut, bIn))
	require.NoError(t, Connect(bOut, cIn))

	bIn.Isolate()
	bOut.Isolate()

	assert.False(t, aOut.Connected())
	assert.False(t, cIn.Connected())
}

func TestDocument_SolveInDependencyOrder(t *testing.T) {
	// --- Arrange ---
	doc := NewDocument(2)
	a, b, c := NewComponentWithID("a", "a"), NewComponentWithID("b", "b"), NewComponentWithID("c", "c")
	for _, x := range []*Component{c, b, a} {
		addOne(x)
		require.NoError(t, doc.Add(x))
	}
	aIn, aOut := mustParams(t, a)
	bIn, bOut := mustParams(t, b)
	cIn, cOut := mustParams(t, c)
	aIn.SetPersistent(cty.NumberIntVal(1), cty.NumberIntVal(10))
	bIn.SetPersistent(cty.NumberIntVal(99))
	require.NoError(t, Connect(aOut, bIn))
	require.NoError(t, Connect(aOut, cIn))
	require.NoError(t, Connect(bOut, cIn))

	// --- Act ---
	require.NoError(t, doc.Solve(ctxlog.Discard()))

	// --- Assert ---
	assert.Equal(t, []int64{3, 12}, ints(t, bOut.Data()), "wired input ignores persistent data")
	assert.Equal(t, []int64{3, 12, 4, 13}, ints(t, cOut.Data()), "sources concatenate in wiring order")
}

func TestDocument_BehaviorErrorBecomesMessage(t *testing.T) {
	doc := NewDocument(1)
	c := NewComponent("broken")
	c.SetBehavior(behaviorFunc(func(context.Context, *Component) error {
		return errors.New("boom")
	}))
	require.NoError(t, doc.Add(c))

	require.NoError(t, doc.Solve(ctxlog.Discard()))

	require.True(t, c.HasErrors())
	assert.Equal(t, []Message{{Severity: Error, Text: "boom"}}, c.Messages())
}

func TestDocument_RejectsDuplicateAndCycles(t *testing.T) {
	doc := NewDocument(0)
	a, b := NewComponentWithID("a", "a"), NewComponentWithID("b", "b")
	addOne(a)
	addOne(b)
	require.NoError(t, doc.Add(a))
	require.NoError(t, doc.Add(b))
	require.Error(t, doc.Add(NewComponentWithID("a", "again")))

	aIn, aOut := mustParams(t, a)
	bIn, bOut := mustParams(t, b)
	require.NoError(t, Connect(aOut, bIn))
	require.NoError(t, Connect(bOut, aIn))

	err := doc.Solve(ctxlog.Discard())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cycle detected")
}

func TestDocument_RemoveIsolates(t *testing.T) {
	doc := NewDocument(1)
	a, b := NewComponentWithID("a", "a"), NewComponentWithID("b", "b")
	addOne(a)
	addOne(b)
	require.NoError(t, doc.Add(a))
	require.NoError(t, doc.Add(b))
	_, aOut := mustParams(t, a)
	bIn, _ := mustParams(t, b)
	require.NoError(t, Connect(aOut, bIn))

	require.True(t, doc.Remove("a"))
	require.False(t, doc.Remove("a"))

	assert.False(t, bIn.Connected())
	assert.Len(t, doc.Components(), 1)
}

func TestDocument_SolvesLevelConcurrently(t *testing.T) {
	doc := NewDocument(4)
	var running, peak atomic.Int32
	var wg sync.WaitGroup
	wg.Add(4)
	for range 4 {
		c := NewComponent("parallel")
		c.SetBehavior(behaviorFunc(func(context.Context, *Component) error {
			n := running.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			wg.Done()
			wg.Wait()
			running.Add(-1)
			return nil
		}))
		require.NoError(t, doc.Add(c))
	}

	require.NoError(t, doc.Solve(ctxlog.Discard()))
	assert.Equal(t, int32(4), peak.Load())
}

func TestDocument_SolveHonoursCancellation(t *testing.T) {
	doc := NewDocument(1)
	c := NewComponent("never")
	var called atomic.Bool
	c.SetBehavior(behaviorFunc(func(context.Context, *Component) error {
		called.Store(true)
		return nil
	}))
	require.NoError(t, doc.Add(c))

	ctx, cancel := context.WithCancel(ctxlog.Discard())
	cancel()

	require.ErrorIs(t, doc.Solve(ctx), context.Canceled)
	assert.False(t, called.Load())
}
