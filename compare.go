package ren

import "math"

// Equivalence. Lax equality folds case and numeric type; strict equality
// requires matching datatypes and bit-identical decimals; sameness is
// identity. Comparing aggregates that reach themselves cannot terminate by
// value, so it raises a script error, which try can turn into a value.

// decimalULPs is the spread two decimals may have and still be lax-equal.
const decimalULPs = 10

func almostEqual(a, b float64) bool {
	if a == b {
		return true
	}
	if math.IsNaN(a) || math.IsNaN(b) {
		return false
	}
	if math.Signbit(a) != math.Signbit(b) {
		return false
	}
	ai := int64(math.Float64bits(a))
	bi := int64(math.Float64bits(b))
	d := ai - bi
	if d < 0 {
		d = -d
	}
	return d <= decimalULPs
}

type cmpState struct {
	vm *VM
	// pairs records series and context pairings already being compared, to
	// detect comparison that recurses into itself.
	pairs map[[2]uintptr]bool
}

func (vm *VM) newCmp() *cmpState {
	return &cmpState{vm: vm, pairs: make(map[[2]uintptr]bool)}
}

// EqualValues reports lax or strict equality of two values. The error
// return is an error! with ErrorStop when the comparison is cyclic.
func (vm *VM) EqualValues(a, b Value, strict bool) (bool, Value, Stop) {
	return vm.newCmp().equal(a, b, strict)
}

func (c *cmpState) equal(a, b Value, strict bool) (bool, Value, Stop) {
	if a.Kind != b.Kind {
		if strict {
			return false, Unset, NoStop
		}
		// Lax equality promotes across numbers and across word flavors.
		if a.IsNumber() && b.IsNumber() {
			return almostEqual(numAsFloat(a), numAsFloat(b)), Unset, NoStop
		}
		if a.IsWord() && b.IsWord() {
			return a.Sym == b.Sym, Unset, NoStop
		}
		return false, Unset, NoStop
	}
	switch a.Kind {
	case UnsetKind, NoneKind:
		return true, Unset, NoStop
	case LogicKind, CharKind:
		if !strict && a.Kind == CharKind {
			return foldRune(rune(a.Int)) == foldRune(rune(b.Int)), Unset, NoStop
		}
		return a.Int == b.Int, Unset, NoStop
	case IntegerKind:
		return a.Int == b.Int, Unset, NoStop
	case DecimalKind:
		if strict {
			return math.Float64bits(a.Dec) == math.Float64bits(b.Dec), Unset, NoStop
		}
		return almostEqual(a.Dec, b.Dec), Unset, NoStop
	case WordKind, SetWordKind, GetWordKind, LitWordKind, RefinementKind:
		return a.Sym == b.Sym, Unset, NoStop
	case StringKind:
		as := a.Series.String()[a.Index:]
		bs := b.Series.String()[b.Index:]
		if strict {
			return as == bs, Unset, NoStop
		}
		return c.vm.folder.String(as) == c.vm.folder.String(bs), Unset, NoStop
	case BlockKind, GroupKind, PathKind, SetPathKind:
		return c.equalSeries(a, b, strict)
	case ObjectKind:
		return c.equalContexts(a.Ctx, b.Ctx, strict)
	case FrameKind:
		return c.equalContexts(a.Frame.locals, b.Frame.locals, strict)
	case ActionKind:
		return a.Act == b.Act, Unset, NoStop
	case ErrorKind:
		return a.Err.Category == b.Err.Category && a.Err.ID == b.Err.ID &&
			a.Err.Message == b.Err.Message, Unset, NoStop
	case DateKind:
		return a.When.Equal(b.When) && a.HasTime == b.HasTime, Unset, NoStop
	case DatatypeKind:
		return a.Int == b.Int, Unset, NoStop
	}
	panic("ren: unhandled kind in equal: " + a.Kind.String())
}

func (c *cmpState) equalSeries(a, b Value, strict bool) (bool, Value, Stop) {
	if a.Series == b.Series && a.Index == b.Index {
		return true, Unset, NoStop
	}
	key := [2]uintptr{a.Series.id, b.Series.id}
	if c.pairs[key] {
		ev, stop := c.vm.scriptError("cyclic-compare", "cannot compare cyclic series by value")
		return false, ev, stop
	}
	c.pairs[key] = true
	defer delete(c.pairs, key)
	ac := a.Series.Cells()[a.Index:]
	bc := b.Series.Cells()[b.Index:]
	if len(ac) != len(bc) {
		return false, Unset, NoStop
	}
	for i := range ac {
		eq, ev, stop := c.equal(ac[i], bc[i], strict)
		if stop != NoStop {
			return false, ev, stop
		}
		if !eq {
			return false, Unset, NoStop
		}
	}
	return true, Unset, NoStop
}

func (c *cmpState) equalContexts(a, b *Context, strict bool) (bool, Value, Stop) {
	if a == b {
		return true, Unset, NoStop
	}
	key := [2]uintptr{a.id, b.id}
	if c.pairs[key] {
		ev, stop := c.vm.scriptError("cyclic-compare", "cannot compare cyclic objects by value")
		return false, ev, stop
	}
	c.pairs[key] = true
	defer delete(c.pairs, key)
	if a.Len() != b.Len() {
		return false, Unset, NoStop
	}
	for i := 0; i < a.Len(); i++ {
		if a.SymbolAt(i) != b.SymbolAt(i) {
			return false, Unset, NoStop
		}
		eq, ev, stop := c.equal(*a.Slot(i), *b.Slot(i), strict)
		if stop != NoStop {
			return false, ev, stop
		}
		if !eq {
			return false, Unset, NoStop
		}
	}
	return true, Unset, NoStop
}

// SameValues reports identity: the very same series, context, or action, or
// bit-identical scalars. Sameness never recurses, so cycles are harmless.
func SameValues(a, b Value) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case StringKind, BlockKind, GroupKind, PathKind, SetPathKind:
		return a.Series == b.Series && a.Index == b.Index
	case ObjectKind:
		return a.Ctx == b.Ctx
	case FrameKind:
		return a.Frame == b.Frame
	case ActionKind:
		return a.Act == b.Act
	case ErrorKind:
		return a.Err == b.Err
	case DecimalKind:
		return math.Float64bits(a.Dec) == math.Float64bits(b.Dec)
	case WordKind, SetWordKind, GetWordKind, LitWordKind, RefinementKind:
		return a.Sym == b.Sym
	case DateKind:
		return a.When.Equal(b.When) && a.HasTime == b.HasTime
	default:
		return a.Int == b.Int
	}
}

func numAsFloat(v Value) float64 {
	if v.Kind == IntegerKind {
		return float64(v.Int)
	}
	return v.Dec
}

func foldRune(r rune) rune {
	if r >= 'A' && r <= 'Z' {
		return r + ('a' - 'A')
	}
	return r
}

// CompareValues orders two values, returning -1, 0, or 1. Only numbers,
// chars, strings, words, and dates have an ordering.
func (vm *VM) CompareValues(a, b Value) (int, Value, Stop) {
	if a.IsNumber() && b.IsNumber() {
		af, bf := numAsFloat(a), numAsFloat(b)
		switch {
		case af < bf:
			return -1, Unset, NoStop
		case af > bf:
			return 1, Unset, NoStop
		}
		return 0, Unset, NoStop
	}
	if a.Kind != b.Kind && !(a.IsWord() && b.IsWord()) {
		ev, stop := vm.scriptError("invalid-compare", "cannot compare %s with %s", a.Kind, b.Kind)
		return 0, ev, stop
	}
	switch a.Kind {
	case CharKind:
		return intOrder(foldRune(rune(a.Int)), foldRune(rune(b.Int))), Unset, NoStop
	case StringKind:
		as := vm.folder.String(a.Series.String()[a.Index:])
		bs := vm.folder.String(b.Series.String()[b.Index:])
		switch {
		case as < bs:
			return -1, Unset, NoStop
		case as > bs:
			return 1, Unset, NoStop
		}
		return 0, Unset, NoStop
	case WordKind, SetWordKind, GetWordKind, LitWordKind, RefinementKind:
		switch {
		case a.Sym.Canon < b.Sym.Canon:
			return -1, Unset, NoStop
		case a.Sym.Canon > b.Sym.Canon:
			return 1, Unset, NoStop
		}
		return 0, Unset, NoStop
	case DateKind:
		switch {
		case a.When.Before(b.When):
			return -1, Unset, NoStop
		case a.When.After(b.When):
			return 1, Unset, NoStop
		}
		return 0, Unset, NoStop
	}
	ev, stop := vm.scriptError("invalid-compare", "cannot compare %s values", a.Kind)
	return 0, ev, stop
}

func intOrder(a, b rune) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func (vm *VM) initCompare() {
	vm.AddNative("equal? value1 value2", CmpEqual)
	vm.AddNative("not-equal? value1 value2", CmpNotEqual)
	vm.AddNative("strict-equal? value1 value2", CmpStrictEqual)
	vm.AddNative("same? value1 value2", CmpSame)
	vm.AddNative("lesser? value1 value2", CmpLesser)
	vm.AddNative("greater? value1 value2", CmpGreater)
	vm.AddNative("lesser-or-equal? value1 value2", CmpLesserEqual)
	vm.AddNative("greater-or-equal? value1 value2", CmpGreaterEqual)
	vm.AddEnfix("= value1 value2", CmpEqual)
	vm.AddEnfix("<> value1 value2", CmpNotEqual)
	vm.AddEnfix("== value1 value2", CmpStrictEqual)
	vm.AddEnfix("=? value1 value2", CmpSame)
	vm.AddEnfix("< value1 value2", CmpLesser)
	vm.AddEnfix("> value1 value2", CmpGreater)
	vm.AddEnfix("<= value1 value2", CmpLesserEqual)
	vm.AddEnfix(">= value1 value2", CmpGreaterEqual)
}

// CmpEqual implements the equal? native and the = operator.
//
// equal? reports whether two values are equal, folding case and numeric
// datatype.
func CmpEqual(vm *VM, f *Frame) (Value, Stop) {
	eq, ev, stop := vm.EqualValues(f.Arg(0), f.Arg(1), false)
	if stop != NoStop {
		return ev, stop
	}
	return LogicValue(eq), NoStop
}

// CmpNotEqual implements the not-equal? native and the <> operator.
//
// not-equal? is the complement of equal?.
func CmpNotEqual(vm *VM, f *Frame) (Value, Stop) {
	eq, ev, stop := vm.EqualValues(f.Arg(0), f.Arg(1), false)
	if stop != NoStop {
		return ev, stop
	}
	return LogicValue(!eq), NoStop
}

// CmpStrictEqual implements the strict-equal? native and the == operator.
//
// strict-equal? requires matching datatypes, exact case, and bit-identical
// decimals.
func CmpStrictEqual(vm *VM, f *Frame) (Value, Stop) {
	eq, ev, stop := vm.EqualValues(f.Arg(0), f.Arg(1), true)
	if stop != NoStop {
		return ev, stop
	}
	return LogicValue(eq), NoStop
}

// CmpSame implements the same? native and the =? operator.
//
// same? reports identity: both values are the very same series, object, or
// function, not merely equal ones.
func CmpSame(vm *VM, f *Frame) (Value, Stop) {
	return LogicValue(SameValues(f.Arg(0), f.Arg(1))), NoStop
}

// CmpLesser implements the lesser? native and the < operator.
func CmpLesser(vm *VM, f *Frame) (Value, Stop) {
	o, ev, stop := vm.CompareValues(f.Arg(0), f.Arg(1))
	if stop != NoStop {
		return ev, stop
	}
	return LogicValue(o < 0), NoStop
}

// CmpGreater implements the greater? native and the > operator.
func CmpGreater(vm *VM, f *Frame) (Value, Stop) {
	o, ev, stop := vm.CompareValues(f.Arg(0), f.Arg(1))
	if stop != NoStop {
		return ev, stop
	}
	return LogicValue(o > 0), NoStop
}

// CmpLesserEqual implements the lesser-or-equal? native and the <= operator.
func CmpLesserEqual(vm *VM, f *Frame) (Value, Stop) {
	o, ev, stop := vm.CompareValues(f.Arg(0), f.Arg(1))
	if stop != NoStop {
		return ev, stop
	}
	return LogicValue(o <= 0), NoStop
}

// CmpGreaterEqual implements the greater-or-equal? native and the >= operator.
func CmpGreaterEqual(vm *VM, f *Frame) (Value, Stop) {
	o, ev, stop := vm.CompareValues(f.Arg(0), f.Arg(1))
	if stop != NoStop {
		return ev, stop
	}
	return LogicValue(o >= 0), NoStop
}
