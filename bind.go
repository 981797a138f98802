package ren

// Binding machinery. A word cell resolves in one of three ways: directly to
// a context slot, relatively to a parameter of an action through the live
// specifier chain, or not at all. Binding mutates word cells in place, so it
// affects every alias of the series it walks.

// BindBlock walks a block-family value deeply and binds each word found in
// ctx or its parents to its slot there. Words absent from the chain keep
// their current binding. The block's own cells are mutated.
func (vm *VM) BindBlock(b Value, ctx *Context) Value {
	vm.bindSeries(b.Series, ctx)
	return b
}

// bindSeries is BindBlock's walker.
func (vm *VM) bindSeries(s *Series, ctx *Context) {
	cells := s.Cells()
	for i := range cells {
		c := &cells[i]
		switch {
		case c.IsWord():
			if owner, slot := ctx.Resolve(c.Sym); owner != nil {
				c.Bind = Binding{Ctx: owner, Index: slot}
			}
		case c.IsBlockFamily():
			vm.bindSeries(c.Series, ctx)
		}
	}
}

// BindScript prepares a loaded top-level block for do: set-words anywhere in
// it are collected into the user context, then every word binds against the
// user context and through it the library.
func (vm *VM) BindScript(b Value) Value {
	vm.collectSetWords(b.Series)
	vm.bindSeries(b.Series, vm.User)
	return b
}

func (vm *VM) collectSetWords(s *Series) {
	cells := s.Cells()
	for i := range cells {
		c := &cells[i]
		switch {
		case c.Kind == SetWordKind:
			vm.User.Add(c.Sym)
		case c.IsBlockFamily():
			vm.collectSetWords(c.Series)
		}
	}
}

// bindRelative walks an action body deeply and binds words that name one of
// the action's parameters relative to the action. Which invocation's frame
// such a word reads from is decided at evaluation time by the specifier.
func (vm *VM) bindRelative(s *Series, a *Action) {
	cells := s.Cells()
	for i := range cells {
		c := &cells[i]
		switch {
		case c.IsWord():
			if pi := a.findParam(c.Sym); pi >= 0 {
				c.Bind = Binding{Rel: a, Index: pi}
			}
		case c.IsBlockFamily():
			vm.bindRelative(c.Series, a)
		}
	}
}

// resolveBinding turns a binding into a concrete context and slot. Relative
// bindings search the specifier chain for the nearest live frame of the
// action they are relative to. ok is false for unbound words and for
// relative words with no matching frame in scope.
func resolveBinding(b Binding, spc *Context) (*Context, int, bool) {
	if b.Ctx != nil {
		return b.Ctx, b.Index, true
	}
	if b.Rel == nil {
		return nil, 0, false
	}
	for c := spc; c != nil; c = c.parent {
		if c.kind == frameCtx && c.act == b.Rel {
			return c, b.Index, true
		}
	}
	return nil, 0, false
}

// derelativize rewrites a value escaping an action body so it stays valid
// outside it: a relative word becomes bound to the live frame the specifier
// reaches, and a block-family value with no specifier of its own adopts the
// current one. Other values pass through unchanged.
func derelativize(v Value, spc *Context) Value {
	switch {
	case v.IsWord():
		if v.Bind.Rel != nil {
			if ctx, slot, ok := resolveBinding(v.Bind, spc); ok {
				v.Bind = Binding{Ctx: ctx, Index: slot}
			}
		}
	case v.IsBlockFamily():
		if v.Bind.Ctx == nil {
			v.Bind.Ctx = spc
		}
	}
	return v
}

// deepCopyBlock copies a block-family value from its index, recursively
// copying nested series. Word bindings are preserved.
func (vm *VM) deepCopyBlock(v Value) Value {
	r := v
	r.Series = vm.CopySeries(v.Series, v.Index)
	r.Index = 0
	cells := r.Series.Cells()
	for i := range cells {
		switch {
		case cells[i].IsBlockFamily():
			cells[i] = vm.deepCopyBlock(cells[i])
		case cells[i].Kind == StringKind:
			c := cells[i]
			c.Series = vm.CopySeries(c.Series, c.Index)
			c.Index = 0
			cells[i] = c
		}
	}
	return r
}
