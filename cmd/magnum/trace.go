package main

import (
	"io"

	"github.com/rs/zerolog"

	"github.com/magnum-lang/magnum/vm"
)

// traceObserver logs VM events. Calls and returns are logged at debug level
// and line steps at trace level.
type traceObserver struct {
	logger zerolog.Logger
	mode   vm.StepMode
}

func newTraceObserver(w io.Writer, steps, colored bool) *traceObserver {
	level, mode := zerolog.DebugLevel, vm.StepNone
	if steps {
		level, mode = zerolog.TraceLevel, vm.StepOnLine
	}
	out := zerolog.ConsoleWriter{
		Out:          w,
		NoColor:      !colored,
		PartsExclude: []string{zerolog.TimestampFieldName},
	}
	return &traceObserver{
		logger: zerolog.New(out).Level(level),
		mode:   mode,
	}
}

func (o *traceObserver) Config() vm.ObserverConfig {
	return vm.NewObserverConfig(o.mode)
}

func (o *traceObserver) OnStep(e vm.StepEvent) bool {
	o.logger.Trace().
		Str("function", e.Function).
		Int("line", e.Line).
		Int("ip", e.IP).
		Str("op", e.OpcodeName).
		Int("stack", e.StackDepth).
		Msg("step")
	return true
}

func (o *traceObserver) OnCall(e vm.CallEvent) bool {
	o.logger.Debug().
		Str("function", e.Function).
		Bool("native", e.Native).
		Int("args", e.ArgCount).
		Int("line", e.Line).
		Int("depth", e.FrameDepth).
		Msg("call")
	return true
}

func (o *traceObserver) OnReturn(e vm.ReturnEvent) bool {
	o.logger.Debug().
		Str("function", e.Function).
		Int("line", e.Line).
		Int("depth", e.FrameDepth).
		Msg("return")
	return true
}
