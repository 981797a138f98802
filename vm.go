package ren

import (
	"io"
	"math/rand"
	"os"
	"sync/atomic"
	"time"

	"golang.org/x/text/cases"
)

// A VM is one interpreter. It owns the symbol table, the global contexts,
// the frame stack, and the collector's pools. A VM is single-threaded: all
// evaluation happens on the goroutine that calls into it, and only Interrupt
// is safe to call from elsewhere.
type VM struct {
	// Lib is the context of every built-in definition.
	Lib *Context
	// User is the context top-level script words collect into. Its parent is
	// Lib, so user definitions shadow built-ins.
	User *Context
	// Sys is the system object's context.
	Sys *Context

	// Out is where print and friends write. Defaults to os.Stdout.
	Out io.Writer

	symbols map[string]*Symbol
	folder  cases.Caser

	frame *Frame

	// Collector state.
	seriesPool  []*Series
	ctxPool     []*Context
	guard       []Value
	allocs      int
	gcThreshold int
	gcOff       bool

	// Evaluation position of the current step, for error near reports.
	nearSeries *Series
	nearIndex  int

	// Unwind metadata carried alongside a Stop.
	throwName    *Symbol
	returnTarget *Frame
	redoTarget   *Frame

	// ExitStatus is the code carried by a quit.
	ExitStatus int

	// StartTime is when the VM was created.
	StartTime time.Time

	rng *rand.Rand

	halted uint32
}

// NewVM prepares a new interpreter with the whole built-in library
// installed. The arguments become system/script/args.
func NewVM(args ...string) *VM {
	vm := &VM{
		Out:         os.Stdout,
		gcThreshold: collectEvery,
		StartTime:   time.Now(),
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	vm.initSymbols()

	vm.Lib = vm.AllocContext(moduleCtx, 256)
	vm.User = vm.AllocContext(moduleCtx, 64)
	vm.User.parent = vm.Lib

	vm.initDatatypes()
	vm.initControl()
	vm.initSeries()
	vm.initMath()
	vm.initCompare()
	vm.initObject()
	vm.initIO()
	vm.initDate()
	vm.initSystem(args)
	return vm
}

// AddNative parses a native spec, registers the action in Lib under its
// name, and returns it.
func (vm *VM) AddNative(spec string, fn NativeFunc) *Action {
	a := vm.NewNative(spec, fn)
	vm.Lib.Set(a.Name, ActionValue(a))
	return a
}

// AddEnfix registers a native whose first argument comes from the preceding
// expression.
func (vm *VM) AddEnfix(spec string, fn NativeFunc) *Action {
	a := vm.AddNative(spec, fn)
	a.Enfix = true
	return a
}

// initDatatypes gives every datatype! a Lib word of its own name.
func (vm *VM) initDatatypes() {
	for k := Kind(0); k < numKinds; k++ {
		vm.Lib.Set(vm.Sym(k.String()), DatatypeValue(k))
	}
	vm.Lib.Set(vm.Sym("true"), True)
	vm.Lib.Set(vm.Sym("false"), False)
	vm.Lib.Set(vm.Sym("none"), None)
}

// Interrupt requests that evaluation halt at the next step boundary. It is
// safe to call from any goroutine, typically a signal handler.
func (vm *VM) Interrupt() {
	atomic.StoreUint32(&vm.halted, 1)
}

// interrupted consumes a pending interrupt request.
func (vm *VM) interrupted() bool {
	return atomic.CompareAndSwapUint32(&vm.halted, 1, 0)
}
