package ren

import "unicode/utf8"

func (vm *VM) initControl() {
	vm.AddNative("if condition then-block [block!]", ControlIf)
	vm.AddNative("either condition true-block [block!] false-block [block!]", ControlEither)
	vm.AddNative("unless condition then-block [block!]", ControlUnless)
	vm.AddNative("all block [block!]", ControlAll)
	vm.AddNative("any block [block!]", ControlAny)
	vm.AddNative("loop count [integer!] body [block!]", ControlLoop)
	vm.AddNative("repeat 'word [word!] count [integer!] body [block!]", ControlRepeat)
	vm.AddNative("foreach 'word [word! block!] series [any-series!] body [block!]", ControlForeach)
	vm.AddNative("forall 'word [word!] body [block!]", ControlForall)
	vm.AddNative("while condition [block!] body [block!]", ControlWhile)
	vm.AddNative("until body [block!]", ControlUntil)
	vm.AddNative("forever body [block!]", ControlForever)
	vm.AddNative("break /return value", ControlBreak)
	vm.AddNative("continue", ControlContinue)
	vm.AddNative("catch body [block!] /name word [word!] /quit", ControlCatch)
	vm.AddNative("throw value /name word [word!]", ControlThrow)
	vm.AddNative("try body [block!]", ControlTry)
	vm.AddNative("attempt body [block!]", ControlAttempt)
	vm.AddNative("do value", ControlDo)
	vm.AddNative("reduce block [block!]", ControlReduce)
	vm.AddNative("compose block [block!] /deep /only", ControlCompose)
	vm.AddNative("func spec [block!] body [block!]", ControlFunc)
	vm.AddNative("does body [block!]", ControlDoes)
	vm.AddNative("redo frame [frame!]", ControlRedo)
	vm.AddNative("halt", ControlHalt)
	vm.AddNative("quit /return code [integer!]", ControlQuit)
	vm.AddNative("recycle /on /off", ControlRecycle)
	vm.AddNative("not value", ControlNot)
	vm.AddNative("current-frame", ControlCurrentFrame)
	vm.AddNative("frame-of 'word [word!]", ControlFrameOf)
	vm.AddNative("comment 'value [any-type!]", ControlComment)
}

// loopStep interprets a body result inside a loop. done is true when the
// loop must end, in which case r and stop are its outcome.
func loopStep(r Value, stop Stop) (Value, Stop, bool) {
	switch stop {
	case NoStop, ContinueStop:
		return r, NoStop, false
	case BreakStop:
		return r, NoStop, true
	case ReturnStop, ThrowStop, ErrorStop, RedoStop, HaltStop, QuitStop:
		return r, stop, true
	default:
		panic("ren: invalid Stop in loop: " + stop.String())
	}
}

// ControlIf implements the if native.
//
// if evaluates its block when the condition is truthy and yields none
// otherwise. Only none and false are not truthy.
func ControlIf(vm *VM, f *Frame) (Value, Stop) {
	if !f.Arg(0).IsTruthy() {
		return None, NoStop
	}
	return vm.DoBlock(f.Arg(1))
}

// ControlEither implements the either native.
//
// either evaluates its first block when the condition is truthy and its
// second otherwise.
func ControlEither(vm *VM, f *Frame) (Value, Stop) {
	if f.Arg(0).IsTruthy() {
		return vm.DoBlock(f.Arg(1))
	}
	return vm.DoBlock(f.Arg(2))
}

// ControlUnless implements the unless native.
//
// unless evaluates its block when the condition is not truthy.
func ControlUnless(vm *VM, f *Frame) (Value, Stop) {
	if f.Arg(0).IsTruthy() {
		return None, NoStop
	}
	return vm.DoBlock(f.Arg(1))
}

// ControlAll implements the all native.
//
// all evaluates each expression and stops at the first that is none or
// false, yielding none; otherwise it yields the last result.
func ControlAll(vm *VM, f *Frame) (Value, Stop) {
	b := f.Arg(0)
	r := True
	idx := b.Index
	for idx < b.Series.Len() {
		v, idx2, stop := vm.DoNext(b.Series, idx, b.Bind.Ctx)
		if stop != NoStop {
			return v, stop
		}
		if v.Kind != UnsetKind && !v.IsTruthy() {
			return None, NoStop
		}
		if v.Kind != UnsetKind {
			r = v
		}
		idx = idx2
	}
	return r, NoStop
}

// ControlAny implements the any native.
//
// any evaluates each expression and yields the first truthy result, or none
// when every one is none or false.
func ControlAny(vm *VM, f *Frame) (Value, Stop) {
	b := f.Arg(0)
	idx := b.Index
	for idx < b.Series.Len() {
		v, idx2, stop := vm.DoNext(b.Series, idx, b.Bind.Ctx)
		if stop != NoStop {
			return v, stop
		}
		if v.Kind != UnsetKind && v.IsTruthy() {
			return v, NoStop
		}
		idx = idx2
	}
	return None, NoStop
}

// ControlLoop implements the loop native.
//
// loop evaluates its body the given number of times. break exits the loop,
// carrying a value when given break/return; continue restarts the body.
func ControlLoop(vm *VM, f *Frame) (Value, Stop) {
	n := f.Arg(0).Int
	body := f.Arg(1)
	r := Unset
	for i := int64(0); i < n; i++ {
		v, stop := vm.DoBlock(body)
		v, stop, done := loopStep(v, stop)
		if done {
			return v, stop
		}
		r = v
	}
	return r, NoStop
}

// loopContext rebinds a fresh copy of body so that the given words resolve
// in a new context of their own. The copy keeps the loop's slots out of the
// surrounding bindings.
func (vm *VM) loopContext(syms []*Symbol, body Value) (*Context, Value) {
	ctx := vm.AllocContext(objectCtx, len(syms))
	for _, s := range syms {
		ctx.Add(s)
	}
	b := vm.deepCopyBlock(body)
	vm.bindSeries(b.Series, ctx)
	return ctx, b
}

// ControlRepeat implements the repeat native.
//
// repeat evaluates its body with the word counting 1 through count.
func ControlRepeat(vm *VM, f *Frame) (Value, Stop) {
	word := f.Arg(0)
	n := f.Arg(1).Int
	ctx, body := vm.loopContext([]*Symbol{word.Sym}, f.Arg(2))
	// A body that never mentions the word is the context's only reference,
	// so it needs a root of its own while the loop runs.
	vm.PushGuard(ObjectValue(ctx))
	defer vm.PopGuard()
	r := Unset
	for i := int64(1); i <= n; i++ {
		*ctx.Slot(0) = IntValue(i)
		v, stop := vm.DoBlock(body)
		v, stop, done := loopStep(v, stop)
		if done {
			return v, stop
		}
		r = v
	}
	return r, NoStop
}

// ControlForeach implements the foreach native.
//
// foreach walks a series, binding one word or a block of words to successive
// elements for each evaluation of the body.
func ControlForeach(vm *VM, f *Frame) (Value, Stop) {
	word := f.Arg(0)
	series := f.Arg(1)
	var syms []*Symbol
	if word.Kind == BlockKind {
		for _, c := range word.Series.Cells()[word.Index:] {
			if !c.IsWord() {
				return vm.scriptError("expect-arg", "foreach words must be words, not %s", c.Kind)
			}
			syms = append(syms, c.Sym)
		}
		if len(syms) == 0 {
			return vm.scriptError("expect-arg", "foreach needs at least one word")
		}
	} else {
		syms = []*Symbol{word.Sym}
	}
	ctx, body := vm.loopContext(syms, f.Arg(2))
	vm.PushGuard(ObjectValue(ctx))
	defer vm.PopGuard()
	r := Unset
	for i := series.Index; i < series.Series.Len(); i += len(syms) {
		for k := range syms {
			*ctx.Slot(k) = seriesElement(series, i+k)
		}
		v, stop := vm.DoBlock(body)
		v, stop, done := loopStep(v, stop)
		if done {
			return v, stop
		}
		r = v
	}
	return r, NoStop
}

// seriesElement fetches element i of a series value of either width, or none
// past the tail.
func seriesElement(v Value, i int) Value {
	if i >= v.Series.Len() {
		return None
	}
	if v.Kind == StringKind {
		r, _ := utf8.DecodeRune(v.Series.Bytes()[i:])
		return CharValue(r)
	}
	return *v.Series.At(i)
}

// ControlForall implements the forall native.
//
// forall evaluates its body with the word's series advanced one element per
// pass until it reaches the tail, then restores the original position.
func ControlForall(vm *VM, f *Frame) (Value, Stop) {
	word := f.Arg(0)
	ctx, slot, ok := resolveBinding(word.Bind, f.caller)
	if !ok {
		return vm.scriptError("not-bound", "%s is not bound to a context", word.Sym.Text)
	}
	orig := *ctx.Slot(slot)
	if !orig.IsSeries() {
		return vm.typeError("forall", orig)
	}
	body := f.Arg(1)
	r := Unset
	cur := orig
	for cur.Index < cur.Series.Len() {
		*ctx.Slot(slot) = cur
		v, stop := vm.DoBlock(body)
		v, stop, done := loopStep(v, stop)
		if done {
			*ctx.Slot(slot) = orig
			return v, stop
		}
		r = v
		cur.Index++
	}
	*ctx.Slot(slot) = orig
	return r, NoStop
}

// ControlWhile implements the while native.
//
// while evaluates its body as long as the condition block yields a truthy
// value.
func ControlWhile(vm *VM, f *Frame) (Value, Stop) {
	cond := f.Arg(0)
	body := f.Arg(1)
	r := Unset
	for {
		c, stop := vm.DoBlock(cond)
		c, stop, done := loopStep(c, stop)
		if done {
			return c, stop
		}
		if c.Kind == UnsetKind || !c.IsTruthy() {
			return r, NoStop
		}
		v, stop := vm.DoBlock(body)
		v, stop, done = loopStep(v, stop)
		if done {
			return v, stop
		}
		r = v
	}
}

// ControlUntil implements the until native.
//
// until evaluates its body repeatedly until the body's result is truthy.
func ControlUntil(vm *VM, f *Frame) (Value, Stop) {
	body := f.Arg(0)
	for {
		v, stop := vm.DoBlock(body)
		v, stop, done := loopStep(v, stop)
		if done {
			return v, stop
		}
		if v.Kind != UnsetKind && v.IsTruthy() {
			return v, NoStop
		}
	}
}

// ControlForever implements the forever native.
//
// forever evaluates its body until something breaks out of it.
func ControlForever(vm *VM, f *Frame) (Value, Stop) {
	body := f.Arg(0)
	for {
		v, stop := vm.DoBlock(body)
		v, stop, done := loopStep(v, stop)
		if done {
			return v, stop
		}
	}
}

// ControlBreak implements the break native.
//
// break exits the nearest enclosing loop. break/return makes the given value
// the loop's result; plain break yields none.
func ControlBreak(vm *VM, f *Frame) (Value, Stop) {
	if f.Flag(0) {
		return f.Arg(1), BreakStop
	}
	return None, BreakStop
}

// ControlContinue implements the continue native.
//
// continue restarts the nearest enclosing loop's body.
func ControlContinue(vm *VM, f *Frame) (Value, Stop) {
	return Unset, ContinueStop
}

// ControlCatch implements the catch native.
//
// catch evaluates its body and yields the value of any throw from within.
// catch/name only intercepts a throw/name of the matching word; unnamed
// catch only intercepts unnamed throws. catch/quit intercepts quit and
// yields its exit code.
func ControlCatch(vm *VM, f *Frame) (Value, Stop) {
	var want *Symbol
	if f.Flag(1) {
		want = f.Arg(2).Sym
	}
	v, stop := vm.DoBlock(f.Arg(0))
	switch {
	case stop == ThrowStop && vm.throwName == want:
		vm.throwName = nil
		return v, NoStop
	case stop == QuitStop && f.Flag(3):
		return IntValue(int64(vm.ExitStatus)), NoStop
	}
	return v, stop
}

// ControlThrow implements the throw native.
//
// throw unwinds to the nearest matching catch, delivering its value as the
// catch's result.
func ControlThrow(vm *VM, f *Frame) (Value, Stop) {
	vm.throwName = nil
	if f.Flag(1) {
		vm.throwName = f.Arg(2).Sym
	}
	return f.Arg(0), ThrowStop
}

// ControlTry implements the try native.
//
// try evaluates its body and yields any raised error as an error! value
// instead of propagating it.
func ControlTry(vm *VM, f *Frame) (Value, Stop) {
	v, stop := vm.DoBlock(f.Arg(0))
	if stop == ErrorStop {
		return v, NoStop
	}
	return v, stop
}

// ControlAttempt implements the attempt native.
//
// attempt evaluates its body and yields none when it raises an error.
func ControlAttempt(vm *VM, f *Frame) (Value, Stop) {
	v, stop := vm.DoBlock(f.Arg(0))
	if stop == ErrorStop {
		return None, NoStop
	}
	return v, stop
}

// ControlDo implements the do native.
//
// do evaluates a block or group in place, a string as loaded source, and
// re-raises an error value. Anything else yields itself.
func ControlDo(vm *VM, f *Frame) (Value, Stop) {
	v := f.Arg(0)
	switch v.Kind {
	case BlockKind, GroupKind:
		return vm.DoBlock(v)
	case StringKind:
		return vm.DoString(v.Series.String()[v.Index:], "do")
	case ErrorKind:
		return v, ErrorStop
	}
	return v, NoStop
}

// ControlReduce implements the reduce native.
//
// reduce evaluates each expression of a block and collects the results into
// a new block.
func ControlReduce(vm *VM, f *Frame) (Value, Stop) {
	b := f.Arg(0)
	out := vm.NewBlock(b.Series.Len() - b.Index)
	vm.PushGuard(out)
	defer vm.PopGuard()
	idx := b.Index
	for idx < b.Series.Len() {
		v, idx2, stop := vm.DoNext(b.Series, idx, b.Bind.Ctx)
		if stop != NoStop {
			return v, stop
		}
		out.Series.Append(v)
		idx = idx2
	}
	return out, NoStop
}

// ControlCompose implements the compose native.
//
// compose copies a block, replacing each group with its evaluated result.
// Block results splice in place unless /only; /deep composes nested blocks
// as well.
func ControlCompose(vm *VM, f *Frame) (Value, Stop) {
	return vm.compose(f.Arg(0), f.Flag(1), f.Flag(2))
}

func (vm *VM) compose(b Value, deep, only bool) (Value, Stop) {
	out := vm.NewBlock(b.Series.Len() - b.Index)
	out.Kind = b.Kind
	vm.PushGuard(out)
	defer vm.PopGuard()
	cells := b.Series.Cells()
	for i := b.Index; i < len(cells); i++ {
		c := cells[i]
		switch {
		case c.Kind == GroupKind:
			g := derelativize(c, b.Bind.Ctx)
			v, stop := vm.DoBlockAt(g.Series, g.Index, g.Bind.Ctx)
			if stop != NoStop {
				return v, stop
			}
			if v.Kind == BlockKind && !only {
				out.Series.Append(v.Series.Cells()[v.Index:]...)
			} else if v.Kind != UnsetKind {
				out.Series.Append(v)
			}
			cells = b.Series.Cells()
		case deep && c.Kind == BlockKind:
			v, stop := vm.compose(derelativize(c, b.Bind.Ctx), deep, only)
			if stop != NoStop {
				return v, stop
			}
			out.Series.Append(v)
		default:
			out.Series.Append(c)
		}
	}
	return out, NoStop
}

// ControlFunc implements the func native.
//
// func creates an action from a spec block and a body block. The body is
// copied and bound so that parameter words refer to the invocation's frame
// and return unwinds exactly that invocation.
func ControlFunc(vm *VM, f *Frame) (Value, Stop) {
	return vm.MakeFunction(f.Arg(0), f.Arg(1), f.caller)
}

// ControlDoes implements the does native.
//
// does creates an action with no parameters from a body block.
func ControlDoes(vm *VM, f *Frame) (Value, Stop) {
	spec := vm.NewBlock(0)
	return vm.MakeFunction(spec, f.Arg(0), f.caller)
}

// ControlRedo implements the redo native.
//
// redo restarts the invocation owning the given frame, re-entering its body
// with the frame's current argument values.
func ControlRedo(vm *VM, f *Frame) (Value, Stop) {
	target := f.Arg(0).Frame
	for live := vm.frame; live != nil; live = live.prev {
		if live == target {
			vm.redoTarget = target
			return Unset, RedoStop
		}
	}
	return vm.scriptError("bad-frame", "cannot redo a frame that is not running")
}

// ControlCurrentFrame implements the current-frame native.
//
// current-frame reifies the nearest enclosing function invocation as a
// frame!. Native invocations in between, such as the either carrying the
// call, are skipped; redoing one would rerun it with stale arguments.
func ControlCurrentFrame(vm *VM, f *Frame) (Value, Stop) {
	for live := f.prev; live != nil; live = live.prev {
		if live.act != nil && live.act.Body != nil {
			return FrameValue(live), NoStop
		}
	}
	return vm.scriptError("bad-frame", "no function is running")
}

// ControlFrameOf implements the frame-of native.
//
// frame-of yields the frame! owning the given word's binding, or none when
// the word does not resolve into a function invocation.
func ControlFrameOf(vm *VM, f *Frame) (Value, Stop) {
	word := f.Arg(0)
	ctx, _, ok := resolveBinding(word.Bind, f.caller)
	if !ok {
		return vm.scriptError("not-bound", "%s is not bound to a context", word.Sym.Text)
	}
	if ctx.frame == nil {
		return None, NoStop
	}
	return FrameValue(ctx.frame), NoStop
}

// ControlComment implements the comment native.
//
// comment takes its argument without evaluating it and yields unset, so it
// vanishes from the surrounding code.
func ControlComment(vm *VM, f *Frame) (Value, Stop) {
	return Unset, NoStop
}

// ControlHalt implements the halt native.
//
// halt abandons evaluation entirely. Nothing in the script can trap it.
func ControlHalt(vm *VM, f *Frame) (Value, Stop) {
	return Unset, HaltStop
}

// ControlQuit implements the quit native.
//
// quit ends the interpreter. quit/return sets the process exit code.
func ControlQuit(vm *VM, f *Frame) (Value, Stop) {
	vm.ExitStatus = 0
	if f.Flag(0) {
		vm.ExitStatus = int(f.Arg(1).Int)
	}
	return Unset, QuitStop
}

// ControlRecycle implements the recycle native.
//
// recycle runs a collection pass and yields the number of nodes freed.
// recycle/off disables automatic collection and recycle/on restores it;
// both yield none without collecting.
func ControlRecycle(vm *VM, f *Frame) (Value, Stop) {
	switch {
	case f.Flag(0):
		vm.gcOff = false
		return None, NoStop
	case f.Flag(1):
		vm.gcOff = true
		return None, NoStop
	}
	return IntValue(int64(vm.Recycle())), NoStop
}

// ControlNot implements the not native.
//
// not yields true for none and false, and false for every other value.
func ControlNot(vm *VM, f *Frame) (Value, Stop) {
	return LogicValue(!f.Arg(0).IsTruthy()), NoStop
}
