package ren

import "fmt"

// A Stop tells the evaluator how to unwind. Evaluation functions return a
// value and a Stop; NoStop means the value is an ordinary result, and any
// other Stop propagates outward until something interprets it.
type Stop int

// Control flow reasons.
const (
	// NoStop indicates normal evaluation.
	NoStop Stop = iota
	// ContinueStop indicates a continue, interpreted by loop natives.
	ContinueStop
	// BreakStop indicates a break, interpreted by loop natives. The carried
	// value is the loop's result.
	BreakStop
	// ReturnStop indicates a return unwinding to the frame recorded in
	// vm.returnTarget. Only that frame's invocation absorbs it.
	ReturnStop
	// ThrowStop indicates a throw unwinding to a catch. vm.throwName holds
	// the name from throw/name, or nil.
	ThrowStop
	// ErrorStop indicates a raised error. The carried value is an error!.
	ErrorStop
	// RedoStop restarts the frame recorded in vm.redoTarget with its current
	// argument values.
	RedoStop
	// HaltStop aborts evaluation entirely. No script construct traps it.
	HaltStop
	// QuitStop terminates the interpreter with the carried exit code.
	QuitStop
)

var stopNames = [...]string{
	"no", "continue", "break", "return", "throw", "error", "redo", "halt",
	"quit",
}

func (s Stop) String() string {
	if s < 0 || int(s) >= len(stopNames) {
		return fmt.Sprintf("Stop(%d)", int(s))
	}
	return stopNames[s] + " stop"
}

// Err converts a Stop into a Go error for API boundaries like DoString
// callers. NoStop converts to nil.
func (s Stop) Err() error {
	if s == NoStop {
		return nil
	}
	return s
}

// Error satisfies error for non-NoStop Stops.
func (s Stop) Error() string {
	return s.String()
}
