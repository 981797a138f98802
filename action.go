package ren

import "strings"

// ParamClass selects how a parameter's argument is obtained at call time.
type ParamClass uint8

const (
	// NormalParam evaluates one expression for its argument.
	NormalParam ParamClass = iota
	// QuotedParam takes the next cell literally without evaluating it.
	QuotedParam
	// RefinementParam is an optional flag. Its value is true when the call
	// path names it and none otherwise. Parameters following it up to the
	// next refinement are gathered only when it is active.
	RefinementParam
	// LocalParam reserves an unset slot with no argument.
	LocalParam
	// ReturnParam reserves the slot for the definitional return function.
	ReturnParam
)

// A Param describes one slot of an action's frame.
type Param struct {
	Sym   *Symbol
	Class ParamClass
	// Types constrains the argument's datatype. The zero Typeset admits
	// everything except unset!.
	Types Typeset
}

// A NativeFunc implements an action in Go. It reads its arguments from the
// frame's locals by slot index.
type NativeFunc func(vm *VM, f *Frame) (Value, Stop)

// An Action is a callable: either a native backed by Go code or a function
// with a block body. Actions are immutable after creation.
type Action struct {
	id uintptr

	// Name is the spelling the action was created under, for error reports
	// and mold. It has no semantic weight.
	Name   *Symbol
	Params []Param

	// Native is set on natives; Spec, Body, and Binding on block-bodied
	// functions.
	Native  NativeFunc
	Spec    *Series
	Body    *Series
	Binding *Context

	// Enfix actions take their first argument from the expression evaluated
	// before them.
	Enfix bool
}

// ActionValue wraps an Action as an action! cell.
func ActionValue(a *Action) Value {
	return Value{Kind: ActionKind, Act: a}
}

// findParam returns the index of the parameter with the given symbol, or -1.
func (a *Action) findParam(sym *Symbol) int {
	for i := range a.Params {
		if a.Params[i].Sym == sym {
			return i
		}
	}
	return -1
}

// typesetByName maps spec type names to typesets. A name that is a single
// datatype maps to that kind's bit.
func (vm *VM) typesetByName(name string) (Typeset, bool) {
	switch name {
	case "any-type!":
		// Every kind, unset! included. Distinct from the zero typeset, which
		// admits everything else but treats an unset argument as missing.
		return Typeset(1<<numKinds) - 1, true
	case "any-value!":
		return 0, true
	case "any-series!":
		return anySeriesTypes, true
	case "any-word!":
		return anyWordTypes, true
	case "any-block!":
		return anyBlockTypes, true
	case "any-number!", "number!":
		return anyNumberTypes, true
	}
	for k := Kind(0); k < numKinds; k++ {
		if k.String() == name {
			return TypesetOf(k), true
		}
	}
	return 0, false
}

// NewNative creates a native action from a spec string like
//
//	"append series [any-series!] value /only"
//
// The first word is the action's name; following words are parameters, with
// a leading ' marking a quoted parameter, a leading / a refinement, and an
// optional bracketed list of type names constraining the preceding
// parameter.
func (vm *VM) NewNative(spec string, fn NativeFunc) *Action {
	fields := strings.Fields(spec)
	if len(fields) == 0 {
		panic("ren: empty native spec")
	}
	a := &Action{id: nextNode(), Name: vm.Sym(fields[0]), Native: fn}
	i := 1
	for i < len(fields) {
		w := fields[i]
		i++
		if strings.HasPrefix(w, "[") {
			// Type block for the previous parameter.
			var names []string
			w = strings.TrimPrefix(w, "[")
			for {
				done := strings.HasSuffix(w, "]")
				w = strings.TrimSuffix(w, "]")
				if w != "" {
					names = append(names, w)
				}
				if done {
					break
				}
				w = fields[i]
				i++
			}
			var t Typeset
			for _, n := range names {
				ts, ok := vm.typesetByName(n)
				if !ok {
					panic("ren: unknown type in native spec: " + n)
				}
				t |= ts
			}
			a.Params[len(a.Params)-1].Types = t
			continue
		}
		p := Param{Class: NormalParam}
		switch {
		case strings.HasPrefix(w, "'"):
			p.Class = QuotedParam
			w = w[1:]
		case strings.HasPrefix(w, "/"):
			p.Class = RefinementParam
			w = w[1:]
		}
		p.Sym = vm.Sym(w)
		a.Params = append(a.Params, p)
	}
	return a
}

// MakeFunction creates a block-bodied action from spec and body blocks, per
// the func native. The body is deep-copied and its words matching parameters
// are bound relative to the new action; other words keep their bindings. The
// current binding environment is captured so the body's free words resolve
// where the function was made.
func (vm *VM) MakeFunction(spec, body Value, binding *Context) (Value, Stop) {
	a := &Action{id: nextNode(), Binding: binding}
	cells := spec.Series.Cells()[spec.Index:]
	class := NormalParam
	for i := 0; i < len(cells); i++ {
		c := cells[i]
		switch c.Kind {
		case StringKind:
			// Doc strings in specs are ignored.
			continue
		case BlockKind:
			// Type constraint for the previous parameter.
			if len(a.Params) == 0 {
				return vm.scriptError("bad-func-def", "type block with no preceding parameter")
			}
			var t Typeset
			tc := c.Series.Cells()[c.Index:]
			for _, tv := range tc {
				if tv.Kind != WordKind {
					return vm.scriptError("bad-func-def", "invalid type constraint %s", tv.Kind)
				}
				ts, ok := vm.typesetByName(tv.Sym.Canon)
				if !ok {
					return vm.scriptError("bad-func-def", "unknown datatype %s", tv.Sym.Text)
				}
				t |= ts
			}
			a.Params[len(a.Params)-1].Types = t
			continue
		case WordKind:
			a.Params = append(a.Params, Param{Sym: c.Sym, Class: class})
		case LitWordKind:
			a.Params = append(a.Params, Param{Sym: c.Sym, Class: QuotedParam})
		case RefinementKind:
			if c.Sym.Canon == "local" {
				class = LocalParam
				continue
			}
			class = NormalParam
			a.Params = append(a.Params, Param{Sym: c.Sym, Class: RefinementParam})
		case SetWordKind:
			if c.Sym.Canon != "return" {
				return vm.scriptError("bad-func-def", "invalid spec element %s", c.Sym.Text)
			}
			// return: [types] documents the result; consume the type block.
			if i+1 < len(cells) && cells[i+1].Kind == BlockKind {
				i++
			}
		default:
			return vm.scriptError("bad-func-def", "invalid spec element %s", c.Kind)
		}
	}
	a.Params = append(a.Params, Param{Sym: vm.Sym("return"), Class: ReturnParam})
	a.Spec = vm.deepCopyBlock(spec).Series
	b := vm.deepCopyBlock(body)
	vm.bindRelative(b.Series, a)
	a.Body = b.Series
	return ActionValue(a), NoStop
}

// NewFrame builds the locals context and Frame for one invocation. Slots are
// created in parameter order so natives can address arguments by index.
func (vm *VM) NewFrame(a *Action) *Frame {
	locals := vm.AllocContext(frameCtx, len(a.Params))
	f := &Frame{act: a, locals: locals}
	locals.act = a
	locals.frame = f
	locals.parent = a.Binding
	for i := range a.Params {
		locals.Add(a.Params[i].Sym)
		if a.Params[i].Class == RefinementParam {
			*locals.Slot(i) = None
		}
	}
	return f
}

// applyAction invokes an action whose frame has been fully filled. It pushes
// the frame, runs the native or body, and interprets return and redo stops
// addressed to this frame.
func (vm *VM) applyAction(a *Action, f *Frame) (Value, Stop) {
	f.prev = vm.frame
	vm.frame = f
	if ri := a.returnSlot(); ri >= 0 {
		*f.locals.Slot(ri) = ActionValue(vm.makeReturn(f))
	}
	var r Value
	var stop Stop
	for {
		if a.Native != nil {
			r, stop = a.Native(vm, f)
		} else {
			r, stop = vm.DoBlockAt(a.Body, 0, f.locals)
		}
		if stop == RedoStop && vm.redoTarget == f {
			vm.redoTarget = nil
			if ev, estop := vm.redoFrame(a, f); estop != NoStop {
				r, stop = ev, estop
				break
			}
			continue
		}
		break
	}
	if stop == ReturnStop && vm.returnTarget == f {
		vm.returnTarget = nil
		stop = NoStop
	}
	vm.frame = f.prev
	f.prev = nil
	return r, stop
}

// redoFrame readies a frame to run its body again: locals return to unset,
// inactive refinement arguments to none, and the remaining arguments must
// still satisfy their typesets, since the body may have stored anything in
// the slots.
func (vm *VM) redoFrame(a *Action, f *Frame) (Value, Stop) {
	active := true
	for i := range a.Params {
		p := &a.Params[i]
		switch p.Class {
		case RefinementParam:
			active = f.Flag(i)
			continue
		case LocalParam:
			*f.locals.Slot(i) = Unset
			continue
		case ReturnParam:
			continue
		}
		if !active {
			*f.locals.Slot(i) = None
			continue
		}
		v := *f.locals.Slot(i)
		if v.Kind == UnsetKind && p.Types == 0 {
			return vm.scriptError("no-arg", "%s is missing its %s argument", a.name(), p.Sym.Text)
		}
		if !p.Types.Has(v.Kind) {
			return vm.scriptError("expect-arg", "%s does not allow %s for its %s argument", a.name(), v.Kind, p.Sym.Text)
		}
	}
	return Unset, NoStop
}

// name is the action's spelling for error reports.
func (a *Action) name() string {
	if a.Name == nil {
		return "function"
	}
	return a.Name.Text
}

func (a *Action) returnSlot() int {
	for i := range a.Params {
		if a.Params[i].Class == ReturnParam {
			return i
		}
	}
	return -1
}

// makeReturn builds the definitional return action for one frame. Calling it
// unwinds exactly to that frame's invocation, no matter how deeply nested or
// through how many other calls the word has traveled. A bare return at the
// end of a block returns unset.
func (vm *VM) makeReturn(f *Frame) *Action {
	a := &Action{id: nextNode(), Name: vm.Sym("return")}
	a.Params = []Param{{Sym: vm.Sym("value"), Types: Typeset(1<<numKinds) - 1}}
	a.Native = func(vm *VM, rf *Frame) (Value, Stop) {
		vm.returnTarget = f
		return rf.Arg(0), ReturnStop
	}
	return a
}
