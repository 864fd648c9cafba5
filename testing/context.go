package testing

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/magnum-lang/magnum/object"
	"github.com/magnum-lang/magnum/vm"
)

// TestContext collects the outcome of one test. Its natives are declared as
// globals for the test run, and it observes the VM to learn the line of each
// assertion call.
type TestContext struct {
	vm.NoOpObserver

	name       string
	filename   string
	line       int
	failed     bool
	skipped    bool
	skipReason string
	logs       []string
	partial    []byte
	failures   []AssertionError
}

// NewTestContext creates a new TestContext for a test function.
func NewTestContext(name, filename string) *TestContext {
	return &TestContext{name: name, filename: filename}
}

func (t *TestContext) Name() string               { return t.name }
func (t *TestContext) Failed() bool               { return t.failed }
func (t *TestContext) Skipped() bool              { return t.skipped }
func (t *TestContext) SkipReason() string         { return t.skipReason }
func (t *TestContext) Logs() []string             { return t.logs }
func (t *TestContext) Failures() []AssertionError { return t.failures }

// Natives returns the assertion functions available to test code:
//
//	assert(cond, msg?)        cond must be true
//	assert_eq(got, want, msg?)
//	assert_ne(got, want, msg?)
//	assert_void(value, msg?)
//	fail(msg?)
//	skip(reason?)             stops the test when the current function returns
//	log(values...)
//
// Each assertion returns true when it passed.
func (t *TestContext) Natives() map[string]object.Object {
	return map[string]object.Object{
		"assert":      object.NewNative("assert", t.assert),
		"assert_eq":   object.NewNative("assert_eq", t.assertEq),
		"assert_ne":   object.NewNative("assert_ne", t.assertNe),
		"assert_void": object.NewNative("assert_void", t.assertVoid),
		"fail":        object.NewNative("fail", t.fail),
		"skip":        object.NewNative("skip", t.skip),
		"log":         object.NewNative("log", t.log),
	}
}

// Config asks only for calls and returns.
func (t *TestContext) Config() vm.ObserverConfig {
	return vm.NewObserverConfig(vm.StepNone)
}

func (t *TestContext) OnCall(e vm.CallEvent) bool {
	if e.Native {
		t.line = e.Line
	}
	return !t.skipped
}

func (t *TestContext) OnReturn(vm.ReturnEvent) bool {
	return !t.skipped
}

func (t *TestContext) assert(args []object.Object) object.Object {
	if !t.checkArgs("assert", args, 1, 2) {
		return object.False
	}
	if args[0] != object.True {
		t.addFailure(message(args, 1, "assertion failed"), args[0], nil)
		return object.False
	}
	return object.True
}

func (t *TestContext) assertEq(args []object.Object) object.Object {
	if !t.checkArgs("assert_eq", args, 2, 3) {
		return object.False
	}
	if got, want := args[0], args[1]; !got.Equals(want) {
		t.addFailure(message(args, 2, "values are not equal"), got, want)
		return object.False
	}
	return object.True
}

func (t *TestContext) assertNe(args []object.Object) object.Object {
	if !t.checkArgs("assert_ne", args, 2, 3) {
		return object.False
	}
	if got, want := args[0], args[1]; got.Equals(want) {
		t.addFailure(message(args, 2, "values should not be equal"), got, want)
		return object.False
	}
	return object.True
}

func (t *TestContext) assertVoid(args []object.Object) object.Object {
	if !t.checkArgs("assert_void", args, 1, 2) {
		return object.False
	}
	if args[0] != object.Void {
		t.addFailure(message(args, 1, "expected void"), args[0], object.Void)
		return object.False
	}
	return object.True
}

func (t *TestContext) fail(args []object.Object) object.Object {
	if t.checkArgs("fail", args, 0, 1) {
		t.addFailure(message(args, 0, "test failed"), nil, nil)
	}
	return object.Void
}

func (t *TestContext) skip(args []object.Object) object.Object {
	if !t.checkArgs("skip", args, 0, 1) {
		return object.Void
	}
	t.skipped = true
	if len(args) == 1 {
		t.skipReason = text(args[0])
	}
	return object.Void
}

func (t *TestContext) log(args []object.Object) object.Object {
	parts := make([]string, len(args))
	for i, arg := range args {
		parts[i] = text(arg)
	}
	t.logs = append(t.logs, strings.Join(parts, " "))
	return object.Void
}

// Write records printed output as log lines, so that print and log output
// keep their order.
func (t *TestContext) Write(p []byte) (int, error) {
	t.partial = append(t.partial, p...)
	for {
		i := bytes.IndexByte(t.partial, '\n')
		if i < 0 {
			return len(p), nil
		}
		t.logs = append(t.logs, string(t.partial[:i]))
		t.partial = t.partial[i+1:]
	}
}

func (t *TestContext) checkArgs(name string, args []object.Object, lo, hi int) bool {
	if len(args) >= lo && len(args) <= hi {
		return true
	}
	t.addFailure(fmt.Sprintf("%s: expected %d-%d arguments, got %d", name, lo, hi, len(args)), nil, nil)
	return false
}

func (t *TestContext) addFailure(msg string, got, want object.Object) {
	t.failed = true
	t.failures = append(t.failures, AssertionError{
		Message: msg,
		File:    t.filename,
		Line:    t.line,
		Got:     got,
		Want:    want,
	})
}

// message returns the optional message argument at index i, or def.
func message(args []object.Object, i int, def string) string {
	if len(args) > i {
		return text(args[i])
	}
	return def
}

func text(obj object.Object) string {
	if s, ok := obj.(*object.String); ok {
		return s.Value()
	}
	return obj.Inspect()
}

var _ vm.Observer = (*TestContext)(nil)
