package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

type cliResult struct {
	code   int
	stdout string
	stderr string
}

func runCLI(t *testing.T, stdin string, args ...string) cliResult {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("NO_COLOR", "1")
	homedir.DisableCache = true

	var stdout, stderr bytes.Buffer
	code := execute(context.Background(), args, strings.NewReader(stdin), &stdout, &stderr)
	return cliResult{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

func writeScript(t *testing.T, source string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "script.mg")
	require.NoError(t, os.WriteFile(path, []byte(source), 0o644))
	return path
}

func TestRunCode(t *testing.T) {
	res := runCLI(t, "", "run", "-c", "print 1 + 2")
	require.Equal(t, 0, res.code)
	require.Equal(t, "3\n", res.stdout)
	require.Empty(t, res.stderr)
}

func TestRunFile(t *testing.T) {
	path := writeScript(t, "define square(n) return n * n\nprint square(12)\n")
	res := runCLI(t, "", "run", path)
	require.Equal(t, 0, res.code)
	require.Equal(t, "144\n", res.stdout)
}

func TestRootRunsFile(t *testing.T) {
	path := writeScript(t, "print \"hi\"")
	res := runCLI(t, "", path)
	require.Equal(t, 0, res.code)
	require.Equal(t, "hi\n", res.stdout)
}

func TestRunFromStdin(t *testing.T) {
	res := runCLI(t, "set x: 5\nprint x * 2\n", "run", "--stdin")
	require.Equal(t, 0, res.code)
	require.Equal(t, "10\n", res.stdout)

	// Without a terminal the root command falls back to stdin.
	res = runCLI(t, "print 7")
	require.Equal(t, 0, res.code)
	require.Equal(t, "7\n", res.stdout)
}

func TestRunReadsInput(t *testing.T) {
	res := runCLI(t, "alice\n", "run", "-c", "print \"hello\" @ get")
	require.Equal(t, 0, res.code)
	require.Equal(t, "hello alice\n", res.stdout)
}

func TestRunCompileError(t *testing.T) {
	res := runCLI(t, "", "run", "-c", "print 1\nset 5")
	require.Equal(t, 65, res.code)
	require.Empty(t, res.stdout)
	require.Contains(t, res.stderr, "[line 2] COMPILE-TIME ERROR in script:")
}

func TestRunRuntimeError(t *testing.T) {
	res := runCLI(t, "", "run", "-c", "print 1\nprint 1 + \"a\"")
	require.Equal(t, 70, res.code)
	require.Equal(t, "1\n", res.stdout)
	require.Contains(t, res.stderr, "[line 2] RUN-TIME ERROR in script:")
}

func TestMissingFile(t *testing.T) {
	res := runCLI(t, "", "run", filepath.Join(t.TempDir(), "missing.mg"))
	require.Equal(t, 1, res.code)
	require.Contains(t, res.stderr, "error: ")
}

func TestMultipleInputSources(t *testing.T) {
	path := writeScript(t, "print 1")
	res := runCLI(t, "", "run", "-c", "print 2", path)
	require.Equal(t, 1, res.code)
	require.Contains(t, res.stderr, "multiple input sources specified")
}

func TestTiming(t *testing.T) {
	res := runCLI(t, "", "run", "--timing", "-c", "print 1")
	require.Equal(t, 0, res.code)
	require.Equal(t, "1\n", res.stdout)
	require.NotEmpty(t, res.stderr)
}

func TestTimingFromEnv(t *testing.T) {
	t.Setenv("MAGNUM_TIMING", "true")
	res := runCLI(t, "", "-c", "print 1")
	require.Equal(t, 0, res.code)
	require.NotEmpty(t, res.stderr)

	res = runCLI(t, "", "dis", "-c", "print 1")
	require.Equal(t, 0, res.code)
	require.Empty(t, res.stderr)
}

func TestBindFlags(t *testing.T) {
	a := &app{v: viper.New()}
	root := newRootCmd(a)
	run, _, err := root.Find([]string{"run"})
	require.NoError(t, err)
	require.NoError(t, run.ParseFlags([]string{"--timing", "--trace", "--timeout", "2s"}))
	require.NoError(t, a.bindFlags(run))
	require.True(t, a.v.GetBool("timing"))
	require.True(t, a.v.GetBool("trace"))
	require.Equal(t, "2s", a.v.GetDuration("timeout").String())

	dis, _, err := root.Find([]string{"dis"})
	require.NoError(t, err)
	require.NoError(t, a.bindFlags(dis))
}

func TestTimeoutFromEnv(t *testing.T) {
	t.Setenv("MAGNUM_TIMEOUT", "20ms")
	res := runCLI(t, "", "run", "-c", "set i: 0\nwhile true: i = i + 1")
	require.Equal(t, 70, res.code)
	require.Contains(t, res.stderr, "deadline exceeded")
}

func TestTimeoutFlag(t *testing.T) {
	res := runCLI(t, "", "--timeout", "20ms", "run", "-c", "while true: {}")
	require.Equal(t, 70, res.code)
}

func TestTrace(t *testing.T) {
	source := "define double(n) return n * 2\nprint double(4)"
	res := runCLI(t, "", "--trace", "run", "-c", source)
	require.Equal(t, 0, res.code)
	require.Equal(t, "8\n", res.stdout)
	require.Contains(t, res.stderr, "call")
	require.Contains(t, res.stderr, "function=double")
	require.Contains(t, res.stderr, "return")
	require.NotContains(t, res.stderr, "step")
}

func TestTraceSteps(t *testing.T) {
	res := runCLI(t, "", "--trace-steps", "run", "-c", "set a: 1\nprint a")
	require.Equal(t, 0, res.code)
	require.Equal(t, "1\n", res.stdout)
	require.Contains(t, res.stderr, "step")
	require.Contains(t, res.stderr, "line=2")
}

func TestConfigFile(t *testing.T) {
	config := filepath.Join(t.TempDir(), "magnum.yaml")
	require.NoError(t, os.WriteFile(config, []byte("trace: true\n"), 0o644))
	res := runCLI(t, "", "--config", config, "run", "-c", "define f: return 1\nprint f()")
	require.Equal(t, 0, res.code)
	require.Equal(t, "1\n", res.stdout)
	require.Contains(t, res.stderr, "function=f")
}

func TestBadConfigFile(t *testing.T) {
	res := runCLI(t, "", "--config", filepath.Join(t.TempDir(), "nope.yaml"), "run", "-c", "print 1")
	require.Equal(t, 1, res.code)
	require.Contains(t, res.stderr, "error reading config file")
}

func TestDis(t *testing.T) {
	res := runCLI(t, "", "dis", "-c", "print 1 + 2")
	require.Equal(t, 0, res.code)
	require.Contains(t, res.stdout, "LOAD_CONST")
	require.Contains(t, res.stdout, "BINARY_OP")
	require.Contains(t, res.stdout, "PRINT")
	require.Contains(t, res.stdout, "HALT")
}

func TestDisFunction(t *testing.T) {
	source := "define add(a, b) return a + b\nprint add(1, 2)"
	res := runCLI(t, "", "dis", "--func", "add", "-c", source)
	require.Equal(t, 0, res.code)
	require.Contains(t, res.stdout, "LOAD_FAST")
	require.Contains(t, res.stdout, "RETURN_VALUE")
	require.NotContains(t, res.stdout, "PRINT")

	res = runCLI(t, "", "dis", "--func", "missing", "-c", source)
	require.Equal(t, 1, res.code)
	require.Contains(t, res.stderr, `function "missing" not found`)
}

func TestDisJSON(t *testing.T) {
	res := runCLI(t, "", "dis", "-o", "json", "-c", "print 1")
	require.Equal(t, 0, res.code)
	var instructions []map[string]any
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &instructions))
	require.Len(t, instructions, 3)
	require.Equal(t, "LOAD_CONST", instructions[0]["opcode"])
	require.Equal(t, "PRINT", instructions[1]["opcode"])
}

func TestDisCompileError(t *testing.T) {
	res := runCLI(t, "", "dis", "-c", "print (")
	require.Equal(t, 65, res.code)
}

func TestDisRequiresInput(t *testing.T) {
	res := runCLI(t, "print 1", "dis")
	require.Equal(t, 1, res.code)
	require.Contains(t, res.stderr, "no input provided")
}

func TestTokens(t *testing.T) {
	res := runCLI(t, "", "tokens", "-o", "json", "-c", "set x: 1")
	require.Equal(t, 0, res.code)
	var rows []tokenRow
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &rows))
	require.Equal(t, []tokenRow{
		{Line: 1, Type: "SET", Literal: "set"},
		{Line: 1, Type: "IDENT", Literal: "x"},
		{Line: 1, Type: ":", Literal: ":"},
		{Line: 1, Type: "NUMBER", Literal: "1"},
		{Line: 1, Type: "EOF"},
	}, rows)
}

func TestTokensTable(t *testing.T) {
	res := runCLI(t, "", "tokens", "-c", "print \"a\"")
	require.Equal(t, 0, res.code)
	require.Contains(t, res.stdout, "PRINT")
	require.Contains(t, res.stdout, "STRING")
}

func TestTokensIllegal(t *testing.T) {
	res := runCLI(t, "", "tokens", "-c", "print $")
	require.Equal(t, 65, res.code)
	require.Contains(t, res.stdout, "ILLEGAL")
	require.Contains(t, res.stderr, "SYNTAX-ERROR")
}

func TestRepl(t *testing.T) {
	input := strings.Join([]string{
		"set x: 2",
		"print x * 3",
		"define twice(n) {",
		"  return n * 2",
		"}",
		"print twice(x)",
		":quit",
		"print 99",
	}, "\n")
	res := runCLI(t, input, "repl")
	require.Equal(t, 0, res.code)
	require.Equal(t, "6\n4\n", res.stdout)
	require.Empty(t, res.stderr)
}

func TestReplContinuesAfterErrors(t *testing.T) {
	input := "print 1 +\nprint nope()\nprint 2\n"
	res := runCLI(t, input, "repl")
	require.Equal(t, 0, res.code)
	require.Equal(t, "2\n", res.stdout)
	require.Contains(t, res.stderr, "COMPILE-TIME ERROR")
	require.Contains(t, res.stderr, "RUN-TIME ERROR")
}

func TestReplCommands(t *testing.T) {
	input := "set answer: 42\n:globals\n:reset\nprint answer\n:help\n:bogus\n"
	res := runCLI(t, input, "repl")
	require.Equal(t, 0, res.code)
	require.Contains(t, res.stdout, "answer")
	require.Contains(t, res.stdout, "42")
	require.Contains(t, res.stdout, "void\n")
	require.Contains(t, res.stdout, "length")
	require.Contains(t, res.stderr, "unknown command: :bogus")
}

func TestReplHistory(t *testing.T) {
	home := t.TempDir()
	var stdout, stderr bytes.Buffer
	t.Setenv("HOME", home)
	homedir.DisableCache = true
	code := execute(context.Background(), []string{"repl"}, strings.NewReader("print 1\n"), &stdout, &stderr)
	require.Equal(t, 0, code)
	data, err := os.ReadFile(filepath.Join(home, ".magnum_history"))
	require.NoError(t, err)
	require.Equal(t, "print 1\n", string(data))
}

func TestReplHistoryUnwritable(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(home, ".magnum_history"), 0o755))
	var stdout, stderr bytes.Buffer
	t.Setenv("HOME", home)
	homedir.DisableCache = true
	code := execute(context.Background(), []string{"repl"}, strings.NewReader("print 1\nprint 2\n"), &stdout, &stderr)
	require.Equal(t, 0, code)
	require.Equal(t, "1\n2\n", stdout.String())
	require.Equal(t, 1, strings.Count(stderr.String(), "warning: history disabled"))
}

func TestAppendToHistory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history")
	require.NoError(t, appendToHistory(path, "print 1"))
	require.NoError(t, appendToHistory(path, ""))
	require.NoError(t, appendToHistory("", "print 2"))
	require.NoError(t, appendToHistory(path, "print 3"))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "print 1\nprint 3\n", string(data))

	require.Error(t, appendToHistory(filepath.Join(path, "nested"), "print 4"))
}

func TestUnbalanced(t *testing.T) {
	require.True(t, unbalanced("define f() {"))
	require.True(t, unbalanced("{ {\n}"))
	require.False(t, unbalanced("{ print 1 }"))
	require.False(t, unbalanced("print \"{\""))
	require.False(t, unbalanced("}"))
}

func TestVersion(t *testing.T) {
	res := runCLI(t, "", "version")
	require.Equal(t, 0, res.code)
	require.Equal(t, "dev\n", res.stdout)

	res = runCLI(t, "", "version", "-o", "json")
	require.Equal(t, 0, res.code)
	var info map[string]string
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &info))
	require.Equal(t, map[string]string{"version": "dev", "commit": "unknown", "date": "unknown"}, info)
}

func TestBench(t *testing.T) {
	res := runCLI(t, "", "bench", "-n", "5", "--warmup", "1", "-o", "json", "-c", "print 1")
	require.Equal(t, 0, res.code)
	var result benchResult
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &result))
	require.Equal(t, 5, result.Iterations)
	require.Equal(t, 1, result.Warmup)
	require.LessOrEqual(t, result.MinNs, result.MaxNs)

	res = runCLI(t, "", "bench", "-n", "5", "-c", "print 1 + \"a\"")
	require.Equal(t, 70, res.code)
}

func TestScriptTests(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ok_test.mg"),
		[]byte("define test_add() assert_eq(1 + 2, 3)\n"), 0o644))
	res := runCLI(t, "", "test", dir)
	require.Equal(t, 0, res.code)
	require.Contains(t, res.stdout, "--- PASS: test_add")
	require.True(t, strings.HasSuffix(res.stdout, "PASS  1 file, 1 passed\n"))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad_test.mg"),
		[]byte("define test_sub() assert_eq(3 - 1, 1)\n"), 0o644))
	res = runCLI(t, "", "test", "--run", "sub", dir)
	require.Equal(t, 1, res.code)
	require.Contains(t, res.stdout, "--- FAIL: test_sub")
	require.NotContains(t, res.stdout, "test_add")
	require.Contains(t, res.stderr, "tests failed")

	bad := filepath.Join(dir, "bad_test.mg")
	require.NoError(t, os.WriteFile(bad,
		[]byte("define half(n) return n / \"2\"\ndefine test_half() assert_eq(half(4), 2)\n"), 0o644))
	res = runCLI(t, "", "test", bad)
	require.Equal(t, 1, res.code)
	require.Contains(t, res.stdout, "--- ERROR: test_half")
	require.Contains(t, res.stdout, bad+":1: RUN-TIME ERROR in `half`: ")
	require.Contains(t, res.stdout, "called from "+bad+":2 in `test_half`")
}
