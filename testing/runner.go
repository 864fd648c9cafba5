package testing

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/magnum-lang/magnum"
	mgerrors "github.com/magnum-lang/magnum/errors"
	"github.com/magnum-lang/magnum/object"
	"github.com/magnum-lang/magnum/symtab"
	"github.com/magnum-lang/magnum/vm"
)

// Config holds configuration for running tests.
type Config struct {
	// Patterns specifies files or directories to search for tests.
	// Default is current directory.
	Patterns []string

	// RunPattern filters tests to run by name regex.
	RunPattern string
}

// DiscoverTestFiles finds all *_test.mg files matching the given patterns.
// A pattern may be a file, a directory, a glob, or a directory followed by
// "/..." for a recursive search. If no patterns are provided, the current
// directory is searched.
func DiscoverTestFiles(patterns []string) ([]string, error) {
	if len(patterns) == 0 {
		patterns = []string{"."}
	}

	var files []string
	seen := make(map[string]bool)
	add := func(path string) {
		if isTestFile(path) && !seen[path] {
			files = append(files, path)
			seen[path] = true
		}
	}

	for _, pattern := range patterns {
		if strings.Contains(pattern, "*") {
			matches, err := filepath.Glob(pattern)
			if err != nil {
				return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
			}
			for _, m := range matches {
				add(m)
			}
			continue
		}

		recursive := false
		searchDir := pattern
		if strings.HasSuffix(pattern, "...") {
			recursive = true
			searchDir = strings.TrimSuffix(strings.TrimSuffix(pattern, "..."), "/")
			if searchDir == "" {
				searchDir = "."
			}
		}

		info, err := os.Stat(searchDir)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, fmt.Errorf("path not found: %s", searchDir)
			}
			return nil, err
		}
		switch {
		case !info.IsDir():
			add(pattern)
		case recursive:
			err = filepath.WalkDir(searchDir, func(path string, d os.DirEntry, err error) error {
				if err != nil {
					return err
				}
				if !d.IsDir() {
					add(path)
				}
				return nil
			})
			if err != nil {
				return nil, err
			}
		default:
			entries, err := os.ReadDir(searchDir)
			if err != nil {
				return nil, err
			}
			for _, e := range entries {
				if !e.IsDir() {
					add(filepath.Join(searchDir, e.Name()))
				}
			}
		}
	}
	return files, nil
}

// isTestFile returns true if the filename matches *_test.mg.
func isTestFile(path string) bool {
	return strings.HasSuffix(path, "_test.mg")
}

// DiscoverTestFunctions returns the test_* functions defined by a script,
// in definition order.
func DiscoverTestFunctions(main *object.Function) []*object.Function {
	var tests []*object.Function
	for _, c := range main.Chunk().Constants {
		if fn, ok := c.(*object.Function); ok && strings.HasPrefix(fn.Name(), "test_") {
			tests = append(tests, fn)
		}
	}
	return tests
}

// Run executes tests according to the given configuration.
func Run(ctx context.Context, cfg *Config) (*Summary, error) {
	if cfg == nil {
		cfg = &Config{}
	}

	files, err := DiscoverTestFiles(cfg.Patterns)
	if err != nil {
		return nil, err
	}

	var runRe *regexp.Regexp
	if cfg.RunPattern != "" {
		runRe, err = regexp.Compile(cfg.RunPattern)
		if err != nil {
			return nil, fmt.Errorf("invalid run pattern: %w", err)
		}
	}

	summary := &Summary{}
	start := time.Now()
	for _, file := range files {
		summary.Files = append(summary.Files, runTestFile(ctx, file, runRe))
	}
	summary.Duration = time.Since(start)
	summary.ComputeTotals()
	return summary, nil
}

func runTestFile(ctx context.Context, filename string, runRe *regexp.Regexp) *FileResult {
	result := &FileResult{Filename: filename}

	source, err := os.ReadFile(filename)
	if err != nil {
		result.CompileErr = err
		return result
	}
	main, err := magnum.Compile(string(source))
	if err != nil {
		result.CompileErr = err
		return result
	}

	for _, fn := range DiscoverTestFunctions(main) {
		if runRe != nil && !runRe.MatchString(fn.Name()) {
			continue
		}
		result.Tests = append(result.Tests, runSingleTest(ctx, main, fn, filename))
	}
	return result
}

// runSingleTest executes the script in fresh globals and then calls the test
// function. Anything printed is kept as log output.
func runSingleTest(ctx context.Context, main, fn *object.Function, filename string) *TestResult {
	result := &TestResult{Name: fn.Name()}
	start := time.Now()
	defer func() { result.Duration = time.Since(start) }()

	if fn.Arity() != 0 {
		result.Status = StatusError
		result.Error = fmt.Errorf("test function %q must not take parameters", fn.Name())
		return result
	}

	tc := NewTestContext(fn.Name(), filename)
	opts := []magnum.Option{
		magnum.WithGlobals(symtab.New()),
		magnum.WithNatives(tc.Natives()),
		magnum.WithStdout(tc),
		magnum.WithStdin(strings.NewReader("")),
		magnum.WithObserver(tc),
	}

	err := magnum.Run(ctx, main, opts...)
	if err == nil {
		_, err = magnum.Interpret(ctx, fn.Name()+"()", opts...)
		trimCallerFrame(err)
	}
	result.Logs = tc.Logs()
	result.Failures = tc.Failures()

	switch {
	case err != nil && !errors.Is(err, vm.ErrStopped):
		result.Status = StatusError
		result.Error = err
	case tc.Skipped():
		result.Status = StatusSkipped
		result.SkipReason = tc.SkipReason()
	case tc.Failed():
		result.Status = StatusFailed
	default:
		result.Status = StatusPassed
	}
	return result
}

// trimCallerFrame drops the outermost frame of a runtime error raised by a
// test function. That frame is the one-line call that started the test, so
// it has no line in the test file.
func trimCallerFrame(err error) {
	var rerr *mgerrors.RuntimeError
	if errors.As(err, &rerr) && len(rerr.Trace) > 1 {
		rerr.Trace = rerr.Trace[:len(rerr.Trace)-1]
	}
}
