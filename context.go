package ren

// ctxKind distinguishes the roles a Context can play.
type ctxKind uint8

const (
	objectCtx ctxKind = iota
	moduleCtx
	frameCtx
)

// A Context is an ordered mapping from symbols to value slots. Objects,
// modules, and function frames are all contexts; a frame context additionally
// knows its action and reified Frame. Lookup within one context is by canon
// symbol; nested resolution walks parent links innermost-first.
type Context struct {
	id   uintptr
	kind ctxKind

	syms []*Symbol
	vals []Value

	// parent is the enclosing lexical context, if any. For a frame context
	// it is the binding the action captured at creation, which makes the
	// specifier chain reach enclosing invocations.
	parent *Context

	// act and frame are set on frame contexts only.
	act   *Action
	frame *Frame
}

// AllocContext returns a new empty context registered with the collector.
func (vm *VM) AllocContext(kind ctxKind, capacity int) *Context {
	c := &Context{
		id:   nextNode(),
		kind: kind,
		syms: make([]*Symbol, 0, capacity),
		vals: make([]Value, 0, capacity),
	}
	vm.addContext(c)
	return c
}

// Len returns the number of slots.
func (c *Context) Len() int {
	return len(c.syms)
}

// Find returns the slot index of a symbol, or -1. Symbols are canon-unique
// within one context.
func (c *Context) Find(sym *Symbol) int {
	for i, s := range c.syms {
		if s == sym {
			return i
		}
	}
	return -1
}

// Add appends a new unset slot for a symbol and returns its index. If the
// symbol is already present, its existing index is returned.
func (c *Context) Add(sym *Symbol) int {
	if i := c.Find(sym); i >= 0 {
		return i
	}
	c.syms = append(c.syms, sym)
	c.vals = append(c.vals, Unset)
	return len(c.syms) - 1
}

// Slot returns the value cell at index i.
func (c *Context) Slot(i int) *Value {
	return &c.vals[i]
}

// SymbolAt returns the symbol of slot i.
func (c *Context) SymbolAt(i int) *Symbol {
	return c.syms[i]
}

// Set creates or updates a slot by symbol.
func (c *Context) Set(sym *Symbol, v Value) {
	c.vals[c.Add(sym)] = v
}

// Get returns the value of a slot by symbol, with ok false when absent.
func (c *Context) Get(sym *Symbol) (Value, bool) {
	i := c.Find(sym)
	if i < 0 {
		return Unset, false
	}
	return c.vals[i], true
}

// Resolve walks the context and its parents innermost-first for a symbol,
// returning the owning context and slot index. The innermost definition
// shadows outer ones.
func (c *Context) Resolve(sym *Symbol) (*Context, int) {
	for ; c != nil; c = c.parent {
		if i := c.Find(sym); i >= 0 {
			return c, i
		}
	}
	return nil, -1
}

// ObjectValue returns the context as an object! value.
func ObjectValue(c *Context) Value {
	return Value{Kind: ObjectKind, Ctx: c}
}
