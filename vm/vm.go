// Package vm provides a VirtualMachine that executes compiled bytecode.
package vm

import (
	"bufio"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/magnum-lang/magnum/errors"
	"github.com/magnum-lang/magnum/object"
	"github.com/magnum-lang/magnum/op"
	"github.com/magnum-lang/magnum/symtab"
)

const (
	MaxFrameDepth = 1000
	MaxStackDepth = 1024

	// DefaultContextCheckInterval is the number of instructions between
	// checks of ctx.Done(). Set to 0 to check on calls only.
	DefaultContextCheckInterval = 1024
)

var (
	// ErrStopped is returned when an observer halts execution.
	ErrStopped = stderrors.New("execution halted by observer")

	// ErrConcurrentRun is returned by Run while another Run is in progress on
	// the same VM.
	ErrConcurrentRun = stderrors.New("vm is already running")
)

type VirtualMachine struct {
	ip          int // instruction pointer within the active chunk
	sp          int // number of live values on the stack
	fp          int // index of the active frame
	main        *object.Function
	activeFrame *frame
	code        []op.Code
	constants   []object.Object
	stack       [MaxStackDepth]object.Object
	frames      [MaxFrameDepth]frame
	globals     *symtab.Table
	natives     map[string]object.Object
	stdout      io.Writer
	stdin       *bufio.Reader
	running     bool
	runMutex    sync.Mutex

	// contextCheckInterval is the number of instructions between checks of
	// ctx.Done(). A value of 0 disables the per-instruction check.
	contextCheckInterval int

	// observer receives callbacks for VM execution events (steps, calls,
	// returns). If nil, no callbacks are made.
	observer       Observer
	observerConfig ObserverConfig
	lastLine       int
}

// New creates a new Virtual Machine that will run the given top-level
// function.
func New(main *object.Function, options ...Option) *VirtualMachine {
	vm := &VirtualMachine{
		main:                 main,
		natives:              map[string]object.Object{},
		contextCheckInterval: DefaultContextCheckInterval,
	}
	for _, opt := range options {
		opt(vm)
	}
	if vm.globals == nil {
		vm.globals = symtab.New()
	}
	if vm.stdout == nil {
		vm.stdout = os.Stdout
	}
	if vm.stdin == nil {
		vm.stdin = bufio.NewReader(os.Stdin)
	}
	return vm
}

// Globals returns the symbol table holding the global variables.
func (vm *VirtualMachine) Globals() *symtab.Table {
	return vm.globals
}

func (vm *VirtualMachine) start() error {
	vm.runMutex.Lock()
	defer vm.runMutex.Unlock()
	if vm.running {
		return ErrConcurrentRun
	}
	vm.running = true
	return nil
}

func (vm *VirtualMachine) stop() {
	vm.runMutex.Lock()
	defer vm.runMutex.Unlock()
	vm.running = false
}

// Run executes the main function until it halts, fails, or ctx is done.
// Runtime failures are returned as *errors.RuntimeError.
func (vm *VirtualMachine) Run(ctx context.Context) (err error) {
	if vm.main == nil {
		return stderrors.New("no main function available")
	}
	if err := vm.start(); err != nil {
		return err
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
		vm.stop()
	}()

	for name, value := range vm.natives {
		vm.globals.Insert(name, value)
	}
	if vm.observer != nil {
		vm.observerConfig = vm.observer.Config()
	}
	vm.reset()
	vm.frames[0].activate(vm.main, 0)
	vm.resume(0)
	return vm.eval(ctx)
}

func (vm *VirtualMachine) reset() {
	for i := 0; i < vm.sp; i++ {
		vm.stack[i] = nil
	}
	vm.sp = 0
	vm.fp = 0
	vm.lastLine = 0
}

// resume makes frames[fp] the active frame and continues from its saved ip.
func (vm *VirtualMachine) resume(fp int) {
	vm.fp = fp
	vm.activeFrame = &vm.frames[fp]
	vm.ip = vm.activeFrame.ip
	chunk := vm.activeFrame.fn.Chunk()
	vm.code = chunk.Code
	vm.constants = chunk.Constants
}

func (vm *VirtualMachine) eval(ctx context.Context) error {
	var instructionCount int
	checkInterval := vm.contextCheckInterval
	doneChan := ctx.Done()

	for vm.ip < len(vm.code) {
		// Deterministic check of ctx.Done() every N instructions.
		if checkInterval > 0 && doneChan != nil {
			instructionCount++
			if instructionCount >= checkInterval {
				instructionCount = 0
				select {
				case <-doneChan:
					return ctx.Err()
				default:
				}
			}
		}

		opcode := vm.code[vm.ip]

		if vm.observer != nil && !vm.notifyStep(opcode) {
			return ErrStopped
		}

		// Advance past the opcode before executing it. Jump offsets are
		// relative to the end of the instruction.
		vm.ip++

		var err error
		switch opcode {
		case op.Nop:
		case op.Halt:
			return nil
		case op.LoadConst:
			err = vm.push(vm.constants[vm.fetch()])
		case op.True:
			err = vm.push(object.True)
		case op.False:
			err = vm.push(object.False)
		case op.Void:
			err = vm.push(object.Void)
		case op.LoadFast:
			err = vm.push(vm.stack[vm.activeFrame.base+vm.fetch()])
		case op.StoreFast:
			vm.stack[vm.activeFrame.base+vm.fetch()] = vm.top()
		case op.DeclareGlobal:
			name := vm.name(vm.fetch())
			if !vm.globals.Insert(name, vm.pop()) {
				return vm.runtimeError(errors.CodeDeclaration)
			}
		case op.LoadGlobal:
			value, _ := vm.globals.Get(vm.name(vm.fetch()))
			err = vm.push(value)
		case op.StoreGlobal:
			name := vm.name(vm.fetch())
			if !vm.globals.Set(name, vm.top()) {
				rerr := vm.runtimeError(errors.CodeAssignment)
				rerr.Hint = vm.assignmentHint(name)
				return rerr
			}
		case op.UnaryPlus:
			err = vm.unary(object.Plus)
		case op.UnaryNegative:
			err = vm.unary(object.Negate)
		case op.UnaryNot:
			err = vm.unary(object.Not)
		case op.BinaryOp:
			opType := op.BinaryOpType(vm.fetch())
			b := vm.pop()
			a := vm.pop()
			result, ok := object.BinaryOp(opType, a, b)
			if !ok {
				return vm.runtimeError(errors.CodeOperands)
			}
			err = vm.push(result)
		case op.CompareOp:
			opType := op.CompareOpType(vm.fetch())
			b := vm.pop()
			a := vm.pop()
			result, ok := object.Compare(opType, a, b)
			if !ok {
				return vm.runtimeError(errors.CodeOperands)
			}
			err = vm.push(result)
		case op.Print:
			fmt.Fprintln(vm.stdout, vm.pop().Inspect())
		case op.Input:
			err = vm.push(object.NewString(readWord(vm.stdin)))
		case op.JumpForwardIfFalse:
			offset := vm.fetch2()
			condition, ok := vm.top().(*object.Bool)
			if !ok {
				return vm.runtimeError(errors.CodeCondition)
			}
			if !condition.Value() {
				vm.ip += offset
			}
		case op.JumpForward:
			offset := vm.fetch2()
			vm.ip += offset
		case op.JumpBackward:
			offset := vm.fetch2()
			vm.ip -= offset
		case op.Call:
			argc := vm.fetch()
			err = vm.call(ctx, vm.stack[vm.sp-1-argc], argc)
		case op.ReturnValue:
			if vm.fp == 0 {
				return vm.runtimeError(errors.CodeReturn)
			}
			err = vm.returnValue()
		case op.PopTop:
			vm.pop()
		default:
			return fmt.Errorf("unknown opcode: %d", opcode)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (vm *VirtualMachine) notifyStep(opcode op.Code) bool {
	cfg := vm.observerConfig
	line := vm.activeFrame.fn.Chunk().Line(vm.ip)
	switch cfg.StepMode {
	case StepNone:
		return true
	case StepOnLine:
		if line == vm.lastLine {
			return true
		}
	}
	vm.lastLine = line
	return vm.observer.OnStep(StepEvent{
		IP:         vm.ip,
		Opcode:     opcode,
		OpcodeName: opcode.String(),
		Function:   vm.activeFrame.fn.DisplayName(),
		Line:       line,
		StackDepth: vm.sp,
		FrameDepth: vm.fp + 1,
	})
}

func (vm *VirtualMachine) unary(fn func(object.Object) (object.Object, bool)) error {
	result, ok := fn(vm.pop())
	if !ok {
		return vm.runtimeError(errors.CodeOperands)
	}
	return vm.push(result)
}

// call invokes the callee found below its argc arguments on the stack.
func (vm *VirtualMachine) call(ctx context.Context, callee object.Object, argc int) error {
	if vm.fp+1 >= MaxFrameDepth {
		return vm.runtimeError(errors.CodeStackOverflow)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	switch fn := callee.(type) {
	case *object.Function:
		if err := vm.checkCallArgs(fn, argc); err != nil {
			return err
		}
		if vm.observer != nil && vm.observerConfig.ObserveCalls {
			if !vm.observer.OnCall(CallEvent{
				Function:   fn.DisplayName(),
				ArgCount:   argc,
				Line:       vm.activeFrame.fn.Chunk().Line(vm.ip - 1),
				FrameDepth: vm.fp + 2,
			}) {
				return ErrStopped
			}
		}
		// The callee's slot becomes the frame base: the arguments shift down
		// over it so that the first argument is local slot 0.
		base := vm.sp - argc - 1
		copy(vm.stack[base:], vm.stack[base+1:vm.sp])
		vm.sp--
		vm.stack[vm.sp] = nil
		vm.activeFrame.ip = vm.ip
		vm.frames[vm.fp+1].activate(fn, base)
		vm.resume(vm.fp + 1)
		return nil
	case *object.Native:
		if vm.observer != nil && vm.observerConfig.ObserveCalls {
			if !vm.observer.OnCall(CallEvent{
				Function:   fn.Name(),
				Native:     true,
				ArgCount:   argc,
				Line:       vm.activeFrame.fn.Chunk().Line(vm.ip - 1),
				FrameDepth: vm.fp + 1,
			}) {
				return ErrStopped
			}
		}
		args := make([]object.Object, argc)
		copy(args, vm.stack[vm.sp-argc:vm.sp])
		result := fn.Call(args)
		vm.truncate(vm.sp - argc - 1)
		return vm.push(result)
	}
	return vm.runtimeError(errors.CodeFunction)
}

func (vm *VirtualMachine) returnValue() error {
	value := vm.pop()
	returning := vm.activeFrame
	if vm.observer != nil && vm.observerConfig.ObserveReturns {
		if !vm.observer.OnReturn(ReturnEvent{
			Function:   returning.fn.DisplayName(),
			Line:       returning.fn.Chunk().Line(vm.ip - 1),
			FrameDepth: vm.fp,
		}) {
			return ErrStopped
		}
	}
	vm.truncate(returning.base)
	returning.fn = nil
	vm.resume(vm.fp - 1)
	return vm.push(value)
}

// runtimeError builds an error carrying the active call stack, innermost
// frame first.
func (vm *VirtualMachine) runtimeError(code errors.ErrorCode) *errors.RuntimeError {
	vm.activeFrame.ip = vm.ip
	trace := make([]errors.StackFrame, 0, vm.fp+1)
	for i := vm.fp; i >= 0; i-- {
		f := &vm.frames[i]
		trace = append(trace, errors.StackFrame{
			Function: f.fn.DisplayName(),
			Line:     f.line(),
		})
	}
	return errors.NewRuntimeError(code, trace)
}

func (vm *VirtualMachine) name(index int) string {
	if s, ok := vm.constants[index].(*object.String); ok {
		return s.Value()
	}
	return vm.constants[index].Inspect()
}

func (vm *VirtualMachine) top() object.Object {
	return vm.stack[vm.sp-1]
}

func (vm *VirtualMachine) pop() object.Object {
	vm.sp--
	obj := vm.stack[vm.sp]
	vm.stack[vm.sp] = nil
	return obj
}

func (vm *VirtualMachine) push(obj object.Object) error {
	if vm.sp >= MaxStackDepth {
		return vm.runtimeError(errors.CodeStackOverflow)
	}
	vm.stack[vm.sp] = obj
	vm.sp++
	return nil
}

func (vm *VirtualMachine) truncate(sp int) {
	for i := sp; i < vm.sp; i++ {
		vm.stack[i] = nil
	}
	vm.sp = sp
}

func (vm *VirtualMachine) fetch() int {
	value := int(vm.code[vm.ip])
	vm.ip++
	return value
}

func (vm *VirtualMachine) fetch2() int {
	value := int(vm.code[vm.ip])<<8 | int(vm.code[vm.ip+1])
	vm.ip += 2
	return value
}
