package ren

// DoNext evaluates one expression of s beginning at idx, under the specifier
// spc, and returns the result with the index of the next expression. A
// non-NoStop Stop abandons the step; the value is then the unwind payload.
// Evaluating past the tail yields unset!.
func (vm *VM) DoNext(s *Series, idx int, spc *Context) (Value, int, Stop) {
	r, idx, stop := vm.doStep(s, idx, spc)
	if stop != NoStop {
		return r, idx, stop
	}
	return vm.enfix(r, s, idx, spc)
}

// doStep is DoNext without the trailing enfix lookahead. An enfix action
// gathers its right operand this way, which keeps operator chains
// left-associative.
func (vm *VM) doStep(s *Series, idx int, spc *Context) (Value, int, Stop) {
	vm.nearSeries, vm.nearIndex = s, idx
	if vm.interrupted() {
		return Unset, idx, HaltStop
	}
	vm.maybeCollect(Value{Kind: BlockKind, Series: s})
	if idx >= s.Len() {
		return Unset, idx, NoStop
	}
	c := *s.At(idx)
	idx++
	var r Value
	var stop Stop
	switch c.Kind {
	case WordKind:
		v, vstop := vm.getWord(c, spc)
		if vstop != NoStop {
			return v, idx, vstop
		}
		if v.Kind == UnsetKind {
			ev, estop := vm.scriptError("no-value", "%s has no value", c.Sym.Text)
			return ev, idx, estop
		}
		if v.Kind == ActionKind {
			r, idx, stop = vm.invoke(v.Act, c.Sym, nil, s, idx, spc, nil)
		} else {
			r = derelativize(v, spc)
		}
	case SetWordKind:
		v, idx2, vstop := vm.DoNext(s, idx, spc)
		if vstop != NoStop {
			return v, idx2, vstop
		}
		idx = idx2
		if v.Kind == UnsetKind {
			ev, estop := vm.scriptError("need-value", "%s: needs a value", c.Sym.Text)
			return ev, idx, estop
		}
		ctx, slot, ok := resolveBinding(c.Bind, spc)
		if !ok {
			ev, estop := vm.scriptError("not-bound", "%s is not bound to a context", c.Sym.Text)
			return ev, idx, estop
		}
		*ctx.Slot(slot) = v
		r = v
	case GetWordKind:
		ctx, slot, ok := resolveBinding(c.Bind, spc)
		if !ok {
			ev, estop := vm.scriptError("not-bound", "%s is not bound to a context", c.Sym.Text)
			return ev, idx, estop
		}
		r = derelativize(*ctx.Slot(slot), spc)
	case LitWordKind:
		r = derelativize(c.AsWordKind(WordKind), spc)
	case GroupKind:
		g := derelativize(c, spc)
		v, vstop := vm.DoBlockAt(g.Series, g.Index, g.Bind.Ctx)
		if vstop != NoStop {
			return v, idx, vstop
		}
		r = v
	case PathKind:
		r, idx, stop = vm.evalPath(c, s, idx, spc)
	case SetPathKind:
		v, idx2, vstop := vm.DoNext(s, idx, spc)
		if vstop != NoStop {
			return v, idx2, vstop
		}
		idx = idx2
		if sv, sstop := vm.evalSetPath(c, v, spc); sstop != NoStop {
			return sv, idx, sstop
		}
		r = v
	case ActionKind:
		r, idx, stop = vm.invoke(c.Act, c.Act.Name, nil, s, idx, spc, nil)
	case BlockKind:
		r = derelativize(c, spc)
	default:
		// Scalars, strings, refinements, and the rest are inert.
		r = c
	}
	return r, idx, stop
}

// enfix gives a trailing enfix action the chance to consume the result just
// produced as its first argument, repeatedly, so chains like 1 + 2 * 3
// associate left.
func (vm *VM) enfix(r Value, s *Series, idx int, spc *Context) (Value, int, Stop) {
	for idx < s.Len() {
		c := *s.At(idx)
		if c.Kind != WordKind {
			break
		}
		ctx, slot, ok := resolveBinding(c.Bind, spc)
		if !ok {
			break
		}
		v := *ctx.Slot(slot)
		if v.Kind != ActionKind || !v.Act.Enfix {
			break
		}
		var stop Stop
		r, idx, stop = vm.invoke(v.Act, c.Sym, nil, s, idx+1, spc, &r)
		if stop != NoStop {
			return r, idx, stop
		}
	}
	return r, idx, NoStop
}

// getWord resolves a word to its slot's value.
func (vm *VM) getWord(c Value, spc *Context) (Value, Stop) {
	ctx, slot, ok := resolveBinding(c.Bind, spc)
	if !ok {
		return vm.scriptError("not-bound", "%s is not bound to a context", c.Sym.Text)
	}
	return *ctx.Slot(slot), NoStop
}

// invoke gathers an action's arguments from s at idx and applies it. refs
// names refinements activated through a path; first, when non-nil, supplies
// the first gatherable argument, which is how enfix receives its left side.
func (vm *VM) invoke(a *Action, name *Symbol, refs []*Symbol, s *Series, idx int, spc *Context, first *Value) (Value, int, Stop) {
	f := vm.NewFrame(a)
	f.caller = spc
	f.nearSeries, f.nearIndex = s, idx
	// The frame is reachable only from the Go stack until applyAction pushes
	// it; argument evaluation can collect.
	vm.PushGuard(ObjectValue(f.locals))
	defer vm.PopGuard()
	for _, rs := range refs {
		pi := a.findParam(rs)
		if pi < 0 || a.Params[pi].Class != RefinementParam {
			v, stop := vm.scriptError("no-refine", "%s has no refinement /%s", name.Text, rs.Text)
			return v, idx, stop
		}
		f.SetArg(pi, True)
	}
	active := true
	for i := range a.Params {
		p := &a.Params[i]
		switch p.Class {
		case RefinementParam:
			active = f.Flag(i)
			continue
		case LocalParam, ReturnParam:
			continue
		}
		if !active {
			f.SetArg(i, None)
			continue
		}
		var arg Value
		switch {
		case first != nil:
			arg = *first
			first = nil
		case p.Class == QuotedParam:
			if idx >= s.Len() {
				v, stop := vm.scriptError("no-arg", "%s is missing its %s argument", name.Text, p.Sym.Text)
				return v, idx, stop
			}
			arg = derelativize(*s.At(idx), spc)
			idx++
		default:
			step := vm.DoNext
			if a.Enfix {
				step = vm.doStep
			}
			v, idx2, stop := step(s, idx, spc)
			if stop != NoStop {
				return v, idx2, stop
			}
			arg, idx = v, idx2
		}
		if arg.Kind == UnsetKind && p.Types == 0 {
			v, stop := vm.scriptError("no-arg", "%s is missing its %s argument", name.Text, p.Sym.Text)
			return v, idx, stop
		}
		if !p.Types.Has(arg.Kind) {
			v, stop := vm.scriptError("expect-arg", "%s does not allow %s for its %s argument", name.Text, arg.Kind, p.Sym.Text)
			return v, idx, stop
		}
		f.SetArg(i, arg)
	}
	r, stop := vm.applyAction(a, f)
	return r, idx, stop
}

// DoBlockAt evaluates expressions from idx to the tail of s and returns the
// last result, or unset! for an empty stretch.
func (vm *VM) DoBlockAt(s *Series, idx int, spc *Context) (Value, Stop) {
	r := Unset
	for idx < s.Len() {
		// Guard the previous result across the step so a collection pass
		// cannot free a series only it references.
		vm.PushGuard(r)
		v, idx2, stop := vm.DoNext(s, idx, spc)
		vm.PopGuard()
		if stop != NoStop {
			return v, stop
		}
		r, idx = v, idx2
	}
	return r, NoStop
}

// DoBlock evaluates a block-family value under its own specifier.
func (vm *VM) DoBlock(v Value) (Value, Stop) {
	return vm.DoBlockAt(v.Series, v.Index, v.Bind.Ctx)
}

// DoString loads src, binds it at the top level, and evaluates it. label
// names the source in syntax errors.
func (vm *VM) DoString(src, label string) (Value, Stop) {
	b, stop := vm.LoadString(src, label)
	if stop != NoStop {
		return b, stop
	}
	vm.PushGuard(b)
	defer vm.PopGuard()
	vm.BindScript(b)
	return vm.DoBlock(b)
}

// MustDoString evaluates src and panics on any non-normal outcome. It is
// for installing library code during startup.
func (vm *VM) MustDoString(src string) Value {
	v, stop := vm.DoString(src, "boot")
	if stop != NoStop {
		panic("ren: boot: " + stop.String())
	}
	return v
}
