package ren

// A Frame is one invocation of an action. Its locals context holds the
// argument, refinement, and local slots in parameter order. Reifying a frame
// as a frame! value keeps it alive past its invocation; its slots stay
// readable and writable, which is what definitional return and redo rely on
// to identify a specific invocation.
type Frame struct {
	prev   *Frame
	act    *Action
	locals *Context

	// caller is the specifier active at the call site. Actions created
	// during this invocation capture it as their binding.
	caller *Context

	// nearSeries and nearIndex snapshot the caller's evaluation position
	// when the frame was invoked, for error reports that unwind through it.
	nearSeries *Series
	nearIndex  int
}

// FrameValue wraps a frame as a frame! cell.
func FrameValue(f *Frame) Value {
	return Value{Kind: FrameKind, Frame: f}
}

// Action returns the action this frame invokes.
func (f *Frame) Action() *Action {
	return f.act
}

// Locals returns the frame's locals context.
func (f *Frame) Locals() *Context {
	return f.locals
}

// Arg returns the argument in slot i. Natives address their arguments by
// parameter order, refinements included.
func (f *Frame) Arg(i int) Value {
	return *f.locals.Slot(i)
}

// SetArg stores a value in slot i.
func (f *Frame) SetArg(i int, v Value) {
	*f.locals.Slot(i) = v
}

// Flag reports whether the refinement in slot i was supplied.
func (f *Frame) Flag(i int) bool {
	return f.locals.Slot(i).Kind != NoneKind
}
