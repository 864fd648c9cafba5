package magnum

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/magnum-lang/magnum/errors"
	"github.com/magnum-lang/magnum/object"
	"github.com/magnum-lang/magnum/symtab"
	"github.com/magnum-lang/magnum/vm"
)

func interpret(t *testing.T, source string, opts ...Option) (string, Result, error) {
	t.Helper()
	var out bytes.Buffer
	opts = append([]Option{WithStdout(&out), WithStdin(strings.NewReader(""))}, opts...)
	result, err := Interpret(context.Background(), source, opts...)
	return out.String(), result, err
}

func TestInterpret(t *testing.T) {
	tests := []struct {
		source   string
		expected string
	}{
		{`print 1 + 2;`, "3\n"},
		{`set x: 10; x += 5; print x;`, "15\n"},
		{`define add(a, b) { return a + b; } print invoke add(2, 3);`, "5\n"},
		{`print "a" @ "b";`, "a b\n"},
		{`set i: 0; while i < 3: { print i; i += 1; }`, "0\n1\n2\n"},
		{`print 1 / 0; print 0 / 0;`, "INFINITE\nNaN\n"},
	}
	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			out, result, err := interpret(t, tt.source)
			require.NoError(t, err)
			require.Equal(t, ResultOK, result)
			require.Equal(t, tt.expected, out)
		})
	}
}

func TestStandardNatives(t *testing.T) {
	out, _, err := interpret(t, `
print length("abc")
print number("1.5") + 1
print string(2) @ "x"
print number("oops")
print length(42)`)
	require.NoError(t, err)
	require.Equal(t, "3\n2.5\n2 x\nvoid\nvoid\n", out)
}

func TestWithoutStandardNatives(t *testing.T) {
	out, _, err := interpret(t, "print length", WithoutStandardNatives())
	require.NoError(t, err)
	require.Equal(t, "void\n", out)
}

func TestWithNatives(t *testing.T) {
	shout := object.NewNative("length", func(args []object.Object) object.Object {
		return object.NewString("overridden")
	})
	out, _, err := interpret(t, "print length(\"abc\")\nprint number(\"4\")",
		WithNatives(map[string]object.Object{"length": shout}))
	require.NoError(t, err)
	require.Equal(t, "overridden\n4\n", out)
}

func TestCompileError(t *testing.T) {
	_, result, err := interpret(t, "set 1\nprint")
	require.Equal(t, ResultCompileError, result)
	require.Equal(t, ExitCompileError, ExitCode(result))
	require.Equal(t, ResultCompileError, ResultOf(err))
	require.True(t, errors.HasCode(err, errors.CodeIdentifier))
	require.True(t, errors.HasCode(err, errors.CodeExpression))
}

func TestLocalsLimit(t *testing.T) {
	block := func(n int) string {
		var b strings.Builder
		b.WriteString("{\n")
		for i := 0; i < n; i++ {
			fmt.Fprintf(&b, "set v%d: %d\n", i, i%2)
		}
		b.WriteString("print v0 + v" + strconv.Itoa(n-1) + "\n}")
		return b.String()
	}

	out, result, err := interpret(t, block(256))
	require.NoError(t, err)
	require.Equal(t, ResultOK, result)
	require.Equal(t, "1\n", out)

	out, result, err = interpret(t, block(257))
	require.Equal(t, ResultCompileError, result)
	require.Empty(t, out)
	require.True(t, errors.HasCode(err, errors.CodeScope))
	require.Contains(t, err.Error(), "[line 258] COMPILE-TIME ERROR in script: "+errors.CodeScope.Message())
}

func TestRuntimeError(t *testing.T) {
	out, result, err := interpret(t, "print 1\nprint 1 + true\nprint 2")
	require.Equal(t, ResultRuntimeError, result)
	require.Equal(t, ExitRuntimeError, ExitCode(result))
	require.Equal(t, ResultRuntimeError, ResultOf(err))
	require.Equal(t, "1\n", out)
	require.True(t, errors.IsRuntimeError(err))
	require.Equal(t, "[line 2] RUN-TIME ERROR in script: The types of the operands does not match with the operator", err.Error())
}

func TestResult(t *testing.T) {
	require.Equal(t, "ok", ResultOK.String())
	require.Equal(t, "compile error", ResultCompileError.String())
	require.Equal(t, "runtime error", ResultRuntimeError.String())
	require.Equal(t, ExitOK, ExitCode(ResultOK))
	require.Equal(t, ResultOK, ResultOf(nil))
}

func TestInput(t *testing.T) {
	out, _, err := interpret(t, "set n: number(get)\nprint n * 2", WithStdin(strings.NewReader("21\n")))
	require.NoError(t, err)
	require.Equal(t, "42\n", out)
}

func TestSharedGlobals(t *testing.T) {
	globals := symtab.New()
	var out bytes.Buffer
	for _, line := range []string{"set count: 1", "count += 1", "print string(count) @ string(count)"} {
		_, err := Interpret(context.Background(), line, WithGlobals(globals), WithStdout(&out))
		require.NoError(t, err)
	}
	require.Equal(t, "2 2\n", out.String())
}

func TestCompileOnceRunMany(t *testing.T) {
	main, err := Compile("set total: 0\nfor (set i: 1; i <= 10; i++) total += i\nprint total")
	require.NoError(t, err)

	outputs := make([]bytes.Buffer, 8)
	errs := make([]error, len(outputs))
	var wg sync.WaitGroup
	for i := range outputs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = Run(context.Background(), main, WithStdout(&outputs[i]))
		}(i)
	}
	wg.Wait()
	for i := range outputs {
		require.NoError(t, errs[i])
		require.Equal(t, "55\n", outputs[i].String())
	}
}

func TestRunNil(t *testing.T) {
	require.Error(t, Run(context.Background(), nil))
}

func TestTimeout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	result, err := Interpret(ctx, "while true: empty")
	require.Equal(t, ResultRuntimeError, result)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

type countingObserver struct {
	vm.NoOpObserver
	calls []string
}

func (o *countingObserver) Config() vm.ObserverConfig {
	return vm.NewObserverConfig(vm.StepNone)
}

func (o *countingObserver) OnCall(event vm.CallEvent) bool {
	o.calls = append(o.calls, event.Function)
	return true
}

func TestWithObserver(t *testing.T) {
	observer := &countingObserver{}
	_, _, err := interpret(t, "define f: return length(\"x\")\nf()", WithObserver(observer))
	require.NoError(t, err)
	require.Equal(t, []string{"f", "length"}, observer.calls)
}

func TestWithLogger(t *testing.T) {
	var buf bytes.Buffer
	_, err := Compile("print 1", WithLogger(zerolog.New(&buf)))
	require.NoError(t, err)
	require.Contains(t, buf.String(), `"function":"script"`)
}

func TestExampleScripts(t *testing.T) {
	tests := []struct {
		file     string
		input    string
		expected string
	}{
		{"fib.mg", "", "0\n1\n1\n2\n3\n5\n8\n13\n21\n34\n55\n89\n144\n233\n377\n"},
		{"greet.mg", "Ada 2", "hello Ada\nhello Ada\n"},
		{"greet.mg", "Bob", "hello Bob\n"},
		{"decimals.mg", "", "0.3\n0.33333333333333333333\nINFINITE\nNaN\n1\n2.5!\n"},
	}
	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			source, err := os.ReadFile("examples/scripts/" + tt.file)
			require.NoError(t, err)
			var out bytes.Buffer
			_, err = Interpret(context.Background(), string(source),
				WithStdout(&out), WithStdin(strings.NewReader(tt.input)))
			require.NoError(t, err)
			require.Equal(t, tt.expected, out.String())
		})
	}
}
