package vm

import (
	"github.com/magnum-lang/magnum/op"
)

// StepMode controls when OnStep callbacks are triggered.
type StepMode uint8

const (
	// StepAll calls OnStep for every instruction.
	StepAll StepMode = iota

	// StepNone never calls OnStep.
	StepNone

	// StepOnLine calls OnStep when the source line changes.
	StepOnLine
)

// ObserverConfig specifies what events an observer wants to receive.
type ObserverConfig struct {
	StepMode       StepMode
	ObserveCalls   bool
	ObserveReturns bool
}

// NewObserverConfig creates a config with calls and returns enabled.
func NewObserverConfig(mode StepMode) ObserverConfig {
	return ObserverConfig{
		StepMode:       mode,
		ObserveCalls:   true,
		ObserveReturns: true,
	}
}

// Observer is an interface for observing VM execution events. It enables
// tracers and debuggers without changes to the VM.
//
// Observer methods are called synchronously during VM execution.
// Implementations can embed NoOpObserver for methods they don't need.
type Observer interface {
	// Config returns the observer's configuration. Called once per run.
	Config() ObserverConfig

	// OnStep is called based on the StepMode in the observer's config.
	// Returns false to halt execution immediately.
	OnStep(event StepEvent) bool

	// OnCall is called when a function is invoked.
	// Returns false to halt execution immediately.
	OnCall(event CallEvent) bool

	// OnReturn is called when a function returns.
	// Returns false to halt execution immediately.
	OnReturn(event ReturnEvent) bool
}

// StepEvent describes one instruction about to execute.
type StepEvent struct {
	IP         int
	Opcode     op.Code
	OpcodeName string
	Function   string
	Line       int
	StackDepth int
	FrameDepth int
}

// CallEvent describes a call to a compiled function or a native.
type CallEvent struct {
	Function   string
	Native     bool
	ArgCount   int
	Line       int
	FrameDepth int
}

// ReturnEvent describes a function returning to its caller.
type ReturnEvent struct {
	Function   string
	Line       int
	FrameDepth int
}

// NoOpObserver is an Observer implementation that does nothing.
type NoOpObserver struct{}

func (NoOpObserver) Config() ObserverConfig {
	return NewObserverConfig(StepAll)
}

func (NoOpObserver) OnStep(StepEvent) bool     { return true }
func (NoOpObserver) OnCall(CallEvent) bool     { return true }
func (NoOpObserver) OnReturn(ReturnEvent) bool { return true }

// Ensure NoOpObserver implements Observer.
var _ Observer = NoOpObserver{}
