package vm

import (
	"bytes"
	"context"
	"testing"

	"github.com/magnum-lang/magnum/compiler"
	"github.com/magnum-lang/magnum/object"
	"github.com/magnum-lang/magnum/op"
	"github.com/stretchr/testify/require"
)

// TestObserver is a test observer that records events.
type TestObserver struct {
	NoOpObserver
	config  ObserverConfig
	Steps   []StepEvent
	Calls   []CallEvent
	Returns []ReturnEvent
}

func newTestObserver(mode StepMode) *TestObserver {
	return &TestObserver{config: NewObserverConfig(mode)}
}

func (o *TestObserver) Config() ObserverConfig {
	return o.config
}

func (o *TestObserver) OnStep(event StepEvent) bool {
	o.Steps = append(o.Steps, event)
	return true
}

func (o *TestObserver) OnCall(event CallEvent) bool {
	o.Calls = append(o.Calls, event)
	return true
}

func (o *TestObserver) OnReturn(event ReturnEvent) bool {
	o.Returns = append(o.Returns, event)
	return true
}

func runObserved(t *testing.T, source string, observer Observer, options ...Option) error {
	t.Helper()
	main, err := compiler.Compile(source)
	require.NoError(t, err)
	options = append(options, WithObserver(observer), WithStdout(&bytes.Buffer{}))
	return New(main, options...).Run(context.Background())
}

func TestObserverOnStep(t *testing.T) {
	observer := newTestObserver(StepAll)
	require.NoError(t, runObserved(t, `set x: 1 + 2`, observer))

	var names []string
	for _, step := range observer.Steps {
		require.Equal(t, "script", step.Function)
		require.Equal(t, 1, step.Line)
		require.Equal(t, 1, step.FrameDepth)
		names = append(names, step.OpcodeName)
	}
	require.Equal(t, []string{"LOAD_CONST", "LOAD_CONST", "BINARY_OP", "DECLARE_GLOBAL", "HALT"}, names)
	require.Equal(t, op.Halt, observer.Steps[len(observer.Steps)-1].Opcode)
	require.Equal(t, 2, observer.Steps[2].StackDepth)
}

func TestObserverStepOnLine(t *testing.T) {
	observer := newTestObserver(StepOnLine)
	require.NoError(t, runObserved(t, "set a: 1\nset b: 2\n\nset c: a + b", observer))

	var lines []int
	for _, step := range observer.Steps {
		lines = append(lines, step.Line)
	}
	require.Equal(t, []int{1, 2, 4}, lines)
}

func TestObserverStepNone(t *testing.T) {
	observer := newTestObserver(StepNone)
	require.NoError(t, runObserved(t, "define f: return 1\nf()", observer))
	require.Empty(t, observer.Steps)
	require.Len(t, observer.Calls, 1)
	require.Len(t, observer.Returns, 1)
}

func TestObserverOnCallAndReturn(t *testing.T) {
	source := `define add(a, b) {
  return a + b
}
set result: add(1, 2)
print twice(result)`
	twice := object.NewNative("twice", func(args []object.Object) object.Object {
		n := args[0].(*object.Number)
		return object.NewNumber(n.Value().Add(n.Value()))
	})
	observer := newTestObserver(StepNone)
	require.NoError(t, runObserved(t, source, observer, WithNatives(map[string]object.Object{"twice": twice})))

	require.Equal(t, []CallEvent{
		{Function: "add", ArgCount: 2, Line: 4, FrameDepth: 2},
		{Function: "twice", Native: true, ArgCount: 1, Line: 5, FrameDepth: 1},
	}, observer.Calls)
	require.Equal(t, []ReturnEvent{
		{Function: "add", Line: 2, FrameDepth: 1},
	}, observer.Returns)
}

func TestObserverCallsDisabled(t *testing.T) {
	observer := newTestObserver(StepNone)
	observer.config.ObserveCalls = false
	observer.config.ObserveReturns = false
	require.NoError(t, runObserved(t, "define f: return 1\nf()", observer))
	require.Empty(t, observer.Calls)
	require.Empty(t, observer.Returns)
}

type haltingObserver struct {
	NoOpObserver
	haltAfter int
	stepCount int
}

func (o *haltingObserver) OnStep(event StepEvent) bool {
	o.stepCount++
	return o.stepCount < o.haltAfter
}

func TestObserverHaltOnStep(t *testing.T) {
	observer := &haltingObserver{haltAfter: 3}
	err := runObserved(t, `set x: 1 + 2 + 3 + 4`, observer)
	require.ErrorIs(t, err, ErrStopped)
	require.Equal(t, 3, observer.stepCount)
}

type callRejectingObserver struct {
	NoOpObserver
}

func (callRejectingObserver) Config() ObserverConfig {
	return NewObserverConfig(StepNone)
}

func (callRejectingObserver) OnCall(CallEvent) bool { return false }

func TestObserverHaltOnCall(t *testing.T) {
	var out bytes.Buffer
	main, err := compiler.Compile("print 1\ndefine f: print 2\nf()\nprint 3")
	require.NoError(t, err)
	err = Run(context.Background(), main, WithObserver(callRejectingObserver{}), WithStdout(&out))
	require.ErrorIs(t, err, ErrStopped)
	require.Equal(t, "1\n", out.String())
}
