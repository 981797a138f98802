package ren

// Object and word natives: construction with make, binding inspection, and
// the datatype predicates.

func (vm *VM) initObject() {
	vm.AddNative("make type spec", ObjectMake)
	vm.AddNative("context body [block!]", ObjectContext)
	vm.AddNative("in object [object!] word [word!]", ObjectIn)
	vm.AddNative("bind words [any-word! any-block!] context [object! any-word!] /copy", ObjectBind)
	vm.AddNative("set word [any-word!] value [any-type!] /any", ObjectSet)
	vm.AddNative("get word [any-word!] /any", ObjectGet)
	vm.AddNative("unbind words [any-word! any-block!] /deep", ObjectUnbind)
	vm.AddNative("value? word", ObjectValueQ)
	vm.AddNative("words-of value [object! action! frame!]", ObjectWordsOf)
	vm.AddNative("values-of value [object! frame!]", ObjectValuesOf)
	vm.AddNative("spec-of action [action!]", ObjectSpecOf)
	vm.AddNative("body-of action [action!]", ObjectBodyOf)
	vm.AddNative("type? value [any-type!]", ObjectType)
	vm.AddNative("to-word value [any-word! string! datatype!]", ObjectToWord)
	vm.AddNative("to-string value", ObjectToString)
	vm.AddNative("to-block value", ObjectToBlock)
	vm.AddNative("unset? value [any-type!]", predicate(UnsetKind))
	for k := NoneKind; k < numKinds; k++ {
		name := k.String()
		spec := name[:len(name)-1] + "? value"
		vm.AddNative(spec, predicate(k))
	}
	vm.AddNative("series? value", func(vm *VM, f *Frame) (Value, Stop) {
		return LogicValue(f.Arg(0).IsSeries()), NoStop
	})
	vm.AddNative("any-word? value", func(vm *VM, f *Frame) (Value, Stop) {
		return LogicValue(f.Arg(0).IsWord()), NoStop
	})
	vm.AddNative("number? value", func(vm *VM, f *Frame) (Value, Stop) {
		return LogicValue(f.Arg(0).IsNumber()), NoStop
	})
}

// predicate builds the native behind integer?, block?, and the rest of the
// datatype tests.
func predicate(k Kind) NativeFunc {
	return func(vm *VM, f *Frame) (Value, Stop) {
		return LogicValue(f.Arg(0).Kind == k), NoStop
	}
}

// ObjectMake implements the make native.
//
// make constructs a value of the type named by its first argument, or
// extends an object prototype. make object! binds the spec block's
// set-words into the new object and evaluates it there.
func ObjectMake(vm *VM, f *Frame) (Value, Stop) {
	t := f.Arg(0)
	spec := f.Arg(1)
	if t.Kind == ObjectKind {
		if spec.Kind != BlockKind {
			return vm.typeError("make", spec)
		}
		proto := vm.copyObject(t.Ctx)
		return vm.makeObjectIn(proto.Ctx, spec)
	}
	if t.Kind != DatatypeKind {
		return vm.typeError("make", t)
	}
	switch Kind(t.Int) {
	case ObjectKind:
		if spec.Kind != BlockKind {
			return vm.typeError("make", spec)
		}
		return vm.makeObjectIn(vm.AllocContext(objectCtx, 8), spec)
	case BlockKind, GroupKind:
		switch spec.Kind {
		case IntegerKind:
			b := vm.NewBlock(int(spec.Int))
			b.Kind = Kind(t.Int)
			return b, NoStop
		case BlockKind, GroupKind:
			b := spec
			b.Series = vm.CopySeries(spec.Series, spec.Index)
			b.Index = 0
			b.Kind = Kind(t.Int)
			return b, NoStop
		}
		return vm.typeError("make", spec)
	case StringKind:
		switch spec.Kind {
		case IntegerKind:
			s := vm.NewString("")
			return s, NoStop
		default:
			return vm.NewString(vm.Form(spec)), NoStop
		}
	case ErrorKind:
		return vm.makeError(spec)
	}
	return vm.scriptError("bad-make-arg", "cannot make %s", Kind(t.Int))
}

// makeObjectIn collects the spec's top-level set-words into ctx, binds the
// spec deeply so those words resolve there, and evaluates it.
func (vm *VM) makeObjectIn(ctx *Context, spec Value) (Value, Stop) {
	cells := spec.Series.Cells()
	for i := spec.Index; i < len(cells); i++ {
		if cells[i].Kind == SetWordKind {
			ctx.Add(cells[i].Sym)
		}
	}
	vm.bindSeries(spec.Series, ctx)
	if v, stop := vm.DoBlock(spec); stop != NoStop {
		return v, stop
	}
	return ObjectValue(ctx), NoStop
}

// makeError builds an error! from a message string or a field block.
func (vm *VM) makeError(spec Value) (Value, Stop) {
	e := &Error{Category: ErrScript, ID: "user-error", Near: vm.nearValue()}
	switch spec.Kind {
	case StringKind:
		e.Message = spec.Series.String()[spec.Index:]
		return ErrorValue(e), NoStop
	case BlockKind:
		o, stop := vm.makeObjectIn(vm.AllocContext(objectCtx, 4), spec)
		if stop != NoStop {
			return o, stop
		}
		if v, ok := o.Ctx.Get(vm.Sym("category")); ok && v.IsWord() {
			e.Category = v.Sym.Canon
		}
		if v, ok := o.Ctx.Get(vm.Sym("id")); ok && v.IsWord() {
			e.ID = v.Sym.Canon
		}
		if v, ok := o.Ctx.Get(vm.Sym("message")); ok && v.Kind == StringKind {
			e.Message = v.Series.String()[v.Index:]
		}
		return ErrorValue(e), NoStop
	}
	return vm.typeError("make error!", spec)
}

// ObjectContext implements the context native.
//
// context is make object! with the type implied.
func ObjectContext(vm *VM, f *Frame) (Value, Stop) {
	return vm.makeObjectIn(vm.AllocContext(objectCtx, 8), f.Arg(0))
}

// ObjectIn implements the in native.
//
// in yields the word bound into the object's context, or none when the
// object has no such field.
func ObjectIn(vm *VM, f *Frame) (Value, Stop) {
	ctx := f.Arg(0).Ctx
	w := f.Arg(1)
	i := ctx.Find(w.Sym)
	if i < 0 {
		return None, NoStop
	}
	w.Bind = Binding{Ctx: ctx, Index: i}
	return w, NoStop
}

// ObjectBind implements the bind native.
//
// bind rebinds a word, or every word in a block, to the given context, or
// to the context a sample word is bound in. bind/copy binds a copy of the
// block instead of mutating it.
func ObjectBind(vm *VM, f *Frame) (Value, Stop) {
	words := f.Arg(0)
	where := f.Arg(1)
	var ctx *Context
	if where.Kind == ObjectKind {
		ctx = where.Ctx
	} else {
		c, _, ok := resolveBinding(where.Bind, f.caller)
		if !ok {
			return vm.scriptError("not-bound", "%s is not bound to a context", where.Sym.Text)
		}
		ctx = c
	}
	if words.IsWord() {
		i := ctx.Find(words.Sym)
		if i < 0 {
			return vm.scriptError("not-in-context", "%s is not in the target context", words.Sym.Text)
		}
		words.Bind = Binding{Ctx: ctx, Index: i}
		return words, NoStop
	}
	if f.Flag(2) {
		words = vm.deepCopyBlock(words)
	}
	vm.bindSeries(words.Series, ctx)
	return words, NoStop
}

// ObjectSet implements the set native.
//
// set stores a value through a word's binding and yields the value. An
// unbound word cannot be set, and storing unset requires /any.
func ObjectSet(vm *VM, f *Frame) (Value, Stop) {
	w := f.Arg(0)
	v := f.Arg(1)
	if v.Kind == UnsetKind && !f.Flag(2) {
		return vm.scriptError("need-value", "%s needs a value", w.Sym.Text)
	}
	ctx, slot, ok := resolveBinding(w.Bind, f.caller)
	if !ok {
		return vm.scriptError("not-bound", "%s is not bound to a context", w.Sym.Text)
	}
	*ctx.Slot(slot) = v
	return v, NoStop
}

// ObjectGet implements the get native.
//
// get yields the value a word's binding holds. Reading an unset slot is an
// error unless /any.
func ObjectGet(vm *VM, f *Frame) (Value, Stop) {
	w := f.Arg(0)
	ctx, slot, ok := resolveBinding(w.Bind, f.caller)
	if !ok {
		return vm.scriptError("not-bound", "%s is not bound to a context", w.Sym.Text)
	}
	v := *ctx.Slot(slot)
	if v.Kind == UnsetKind && !f.Flag(1) {
		return vm.scriptError("no-value", "%s has no value", w.Sym.Text)
	}
	return v, NoStop
}

// ObjectUnbind implements the unbind native.
//
// unbind strips the binding from a word, or from every word at the top level
// of a block. unbind/deep descends into nested blocks.
func ObjectUnbind(vm *VM, f *Frame) (Value, Stop) {
	v := f.Arg(0)
	if v.IsWord() {
		v.Bind = Binding{}
		return v, NoStop
	}
	unbindSeries(v.Series, f.Flag(1))
	return v, NoStop
}

func unbindSeries(s *Series, deep bool) {
	cells := s.Cells()
	for i := range cells {
		switch {
		case cells[i].IsWord():
			cells[i].Bind = Binding{}
		case deep && cells[i].IsBlockFamily():
			unbindSeries(cells[i].Series, deep)
		}
	}
}

// ObjectValueQ implements the value? native.
//
// value? yields true when its argument is a word bound to a set slot, and
// true outright for any non-word value.
func ObjectValueQ(vm *VM, f *Frame) (Value, Stop) {
	v := f.Arg(0)
	if !v.IsWord() {
		return True, NoStop
	}
	ctx, slot, ok := resolveBinding(v.Bind, f.caller)
	if !ok {
		return False, NoStop
	}
	return LogicValue(ctx.Slot(slot).Kind != UnsetKind), NoStop
}

// ObjectSpecOf implements the spec-of native.
//
// spec-of yields a copy of the spec block a function was made from. A
// native has no spec block, so its parameter words stand in.
func ObjectSpecOf(vm *VM, f *Frame) (Value, Stop) {
	a := f.Arg(0).Act
	if a.Spec == nil {
		return ObjectWordsOf(vm, f)
	}
	return vm.deepCopyBlock(Value{Kind: BlockKind, Series: a.Spec}), NoStop
}

// ObjectBodyOf implements the body-of native.
//
// body-of yields a copy of a function's body block, or none for a native.
func ObjectBodyOf(vm *VM, f *Frame) (Value, Stop) {
	a := f.Arg(0).Act
	if a.Body == nil {
		return None, NoStop
	}
	return Value{Kind: BlockKind, Series: vm.CopySeries(a.Body, 0)}, NoStop
}

// ObjectWordsOf implements the words-of native.
//
// words-of yields a new block of an object's field words, or an action's
// parameter words with their decorations.
func ObjectWordsOf(vm *VM, f *Frame) (Value, Stop) {
	v := f.Arg(0)
	switch v.Kind {
	case ActionKind:
		out := vm.NewBlock(len(v.Act.Params))
		for _, p := range v.Act.Params {
			w := WordValue(p.Sym)
			switch p.Class {
			case QuotedParam:
				w.Kind = LitWordKind
			case RefinementParam:
				w.Kind = RefinementKind
			case ReturnParam:
				continue
			}
			out.Series.Append(w)
		}
		return out, NoStop
	case FrameKind:
		return vm.contextWords(v.Frame.locals), NoStop
	}
	return vm.contextWords(v.Ctx), NoStop
}

func (vm *VM) contextWords(c *Context) Value {
	out := vm.NewBlock(c.Len())
	for i := 0; i < c.Len(); i++ {
		out.Series.Append(WordValue(c.SymbolAt(i)))
	}
	return out
}

// ObjectValuesOf implements the values-of native.
func ObjectValuesOf(vm *VM, f *Frame) (Value, Stop) {
	v := f.Arg(0)
	c := v.Ctx
	if v.Kind == FrameKind {
		c = v.Frame.locals
	}
	out := vm.NewBlock(c.Len())
	for i := 0; i < c.Len(); i++ {
		out.Series.Append(*c.Slot(i))
	}
	return out, NoStop
}

// ObjectType implements the type? native.
//
// type? yields the datatype! of its argument.
func ObjectType(vm *VM, f *Frame) (Value, Stop) {
	return DatatypeValue(f.Arg(0).Kind), NoStop
}

// ObjectToWord implements the to-word native.
func ObjectToWord(vm *VM, f *Frame) (Value, Stop) {
	v := f.Arg(0)
	switch {
	case v.IsWord():
		return v.AsWordKind(WordKind), NoStop
	case v.Kind == DatatypeKind:
		return WordValue(vm.Sym(Kind(v.Int).String())), NoStop
	}
	text := v.Series.String()[v.Index:]
	if !validWord(text) {
		return vm.scriptError("bad-make-arg", "cannot make a word from %q", text)
	}
	return WordValue(vm.Sym(text)), NoStop
}

// ObjectToString implements the to-string native.
func ObjectToString(vm *VM, f *Frame) (Value, Stop) {
	return vm.NewString(vm.Form(f.Arg(0))), NoStop
}

// ObjectToBlock implements the to-block native.
//
// to-block wraps a value in a new block, loads a string, or repositions a
// block-family value as a block!.
func ObjectToBlock(vm *VM, f *Frame) (Value, Stop) {
	v := f.Arg(0)
	switch {
	case v.Kind == BlockKind:
		return v, NoStop
	case v.IsBlockFamily():
		v.Kind = BlockKind
		return v, NoStop
	case v.Kind == StringKind:
		return vm.LoadString(v.Series.String()[v.Index:], "to-block")
	}
	return vm.BlockOf(v), NoStop
}
