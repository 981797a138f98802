package ren

// Path evaluation. A path's head word decides everything: an action head
// turns the remaining elements into refinement activations, while any other
// head starts an element-by-element pick through objects and series.

// evalPath evaluates a path! appearing in code. s and idx locate the code
// after the path so an action head can gather its arguments there.
func (vm *VM) evalPath(p Value, s *Series, idx int, spc *Context) (Value, int, Stop) {
	p = derelativize(p, spc)
	elems := p.Series.Cells()[p.Index:]
	if len(elems) == 0 {
		v, stop := vm.scriptError("invalid-path", "empty path")
		return v, idx, stop
	}
	head := elems[0]
	if !head.IsWord() {
		v, stop := vm.scriptError("invalid-path", "path head must be a word, not %s", head.Kind)
		return v, idx, stop
	}
	hv, stop := vm.getWord(head, p.Bind.Ctx)
	if stop != NoStop {
		return hv, idx, stop
	}
	if hv.Kind == ActionKind {
		refs := make([]*Symbol, 0, len(elems)-1)
		for _, e := range elems[1:] {
			if !e.IsWord() {
				v, stop := vm.scriptError("invalid-path", "refinement must be a word, not %s", e.Kind)
				return v, idx, stop
			}
			refs = append(refs, e.Sym)
		}
		return vm.invoke(hv.Act, head.Sym, refs, s, idx, spc, nil)
	}
	cur := derelativize(hv, p.Bind.Ctx)
	for _, e := range elems[1:] {
		var pstop Stop
		cur, pstop = vm.pickElement(cur, e, p.Bind.Ctx)
		if pstop != NoStop {
			return cur, idx, pstop
		}
	}
	if cur.Kind == ActionKind {
		return vm.invoke(cur.Act, cur.Act.Name, nil, s, idx, spc, nil)
	}
	return cur, idx, NoStop
}

// pickElement applies one path step to a value. Words select object fields
// or block associations; integers index series one-based; groups evaluate
// to their selector first.
func (vm *VM) pickElement(cur, e Value, spc *Context) (Value, Stop) {
	if e.Kind == GroupKind {
		g := derelativize(e, spc)
		v, stop := vm.DoBlockAt(g.Series, g.Index, g.Bind.Ctx)
		if stop != NoStop {
			return v, stop
		}
		e = v
	}
	switch cur.Kind {
	case ObjectKind:
		if !e.IsWord() {
			return vm.scriptError("invalid-path", "cannot select object field with %s", e.Kind)
		}
		v, ok := cur.Ctx.Get(e.Sym)
		if !ok {
			return vm.scriptError("invalid-path", "object has no field %s", e.Sym.Text)
		}
		return v, NoStop
	case ErrorKind:
		return vm.pickErrorField(cur.Err, e)
	case FrameKind:
		if !e.IsWord() {
			return vm.scriptError("invalid-path", "cannot select frame field with %s", e.Kind)
		}
		v, ok := cur.Frame.locals.Get(e.Sym)
		if !ok {
			return vm.scriptError("invalid-path", "frame has no field %s", e.Sym.Text)
		}
		return v, NoStop
	case BlockKind, GroupKind, PathKind, SetPathKind:
		switch e.Kind {
		case IntegerKind:
			i := cur.Index + int(e.Int) - 1
			if e.Int < 1 || i >= cur.Series.Len() {
				return None, NoStop
			}
			return *cur.Series.At(i), NoStop
		case WordKind:
			// block/word selects the value after the matching word.
			cells := cur.Series.Cells()
			for i := cur.Index; i < len(cells); i++ {
				if cells[i].IsWord() && cells[i].Sym == e.Sym {
					if i+1 < len(cells) {
						return cells[i+1], NoStop
					}
					return None, NoStop
				}
			}
			return None, NoStop
		}
		return vm.scriptError("invalid-path", "cannot index block with %s", e.Kind)
	case StringKind:
		if e.Kind != IntegerKind {
			return vm.scriptError("invalid-path", "cannot index string with %s", e.Kind)
		}
		i := cur.Index + int(e.Int) - 1
		if e.Int < 1 || i >= cur.Series.Len() {
			return None, NoStop
		}
		return CharValue(rune(cur.Series.Bytes()[i])), NoStop
	case DateKind:
		return vm.pickDateField(cur, e)
	}
	return vm.scriptError("invalid-path", "cannot use a path on %s", cur.Kind)
}

// pickErrorField exposes the error! fields by name.
func (vm *VM) pickErrorField(e *Error, sel Value) (Value, Stop) {
	if !sel.IsWord() {
		return vm.scriptError("invalid-path", "cannot select error field with %s", sel.Kind)
	}
	switch sel.Sym.Canon {
	case "category":
		return WordValue(vm.Sym(e.Category)), NoStop
	case "id":
		return WordValue(vm.Sym(e.ID)), NoStop
	case "message":
		return vm.NewString(e.Message), NoStop
	case "where":
		if e.Where == "" {
			return None, NoStop
		}
		return WordValue(vm.Sym(e.Where)), NoStop
	case "near":
		return e.Near, NoStop
	}
	return vm.scriptError("invalid-path", "error has no field %s", sel.Sym.Text)
}

// evalSetPath stores v at the location a set-path names. The right-hand side
// has already been evaluated.
func (vm *VM) evalSetPath(p, v Value, spc *Context) (Value, Stop) {
	p = derelativize(p, spc)
	elems := p.Series.Cells()[p.Index:]
	if len(elems) < 2 {
		return vm.scriptError("invalid-path", "set-path needs at least two elements")
	}
	head := elems[0]
	if !head.IsWord() {
		return vm.scriptError("invalid-path", "path head must be a word, not %s", head.Kind)
	}
	cur, stop := vm.getWord(head, p.Bind.Ctx)
	if stop != NoStop {
		return cur, stop
	}
	cur = derelativize(cur, p.Bind.Ctx)
	for _, e := range elems[1 : len(elems)-1] {
		cur, stop = vm.pickElement(cur, e, p.Bind.Ctx)
		if stop != NoStop {
			return cur, stop
		}
	}
	last := elems[len(elems)-1]
	if last.Kind == GroupKind {
		g := derelativize(last, p.Bind.Ctx)
		lv, lstop := vm.DoBlockAt(g.Series, g.Index, g.Bind.Ctx)
		if lstop != NoStop {
			return lv, lstop
		}
		last = lv
	}
	switch cur.Kind {
	case ObjectKind:
		if !last.IsWord() {
			return vm.scriptError("invalid-path", "cannot set object field with %s", last.Kind)
		}
		if cur.Ctx.Find(last.Sym) < 0 {
			return vm.scriptError("invalid-path", "object has no field %s", last.Sym.Text)
		}
		cur.Ctx.Set(last.Sym, v)
		return v, NoStop
	case FrameKind:
		if !last.IsWord() {
			return vm.scriptError("invalid-path", "cannot set frame field with %s", last.Kind)
		}
		if cur.Frame.locals.Find(last.Sym) < 0 {
			return vm.scriptError("invalid-path", "frame has no field %s", last.Sym.Text)
		}
		cur.Frame.locals.Set(last.Sym, v)
		return v, NoStop
	case BlockKind, GroupKind:
		if last.Kind != IntegerKind {
			return vm.scriptError("invalid-path", "cannot poke block with %s", last.Kind)
		}
		i := cur.Index + int(last.Int) - 1
		if last.Int < 1 || i >= cur.Series.Len() {
			return vm.scriptError("out-of-range", "index %d is out of range", last.Int)
		}
		*cur.Series.At(i) = v
		return v, NoStop
	case StringKind:
		if last.Kind != IntegerKind {
			return vm.scriptError("invalid-path", "cannot poke string with %s", last.Kind)
		}
		if v.Kind != CharKind {
			return vm.scriptError("invalid-path", "cannot poke %s into a string", v.Kind)
		}
		i := cur.Index + int(last.Int) - 1
		if last.Int < 1 || i >= cur.Series.Len() {
			return vm.scriptError("out-of-range", "index %d is out of range", last.Int)
		}
		cur.Series.Bytes()[i] = byte(v.Int)
		return v, NoStop
	}
	return vm.scriptError("invalid-path", "cannot set into %s", cur.Kind)
}
