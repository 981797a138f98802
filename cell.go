package ren

import (
	"time"
)

// Kind is the datatype discriminant of a Value. The active payload of a Value
// is always the one its Kind selects.
type Kind uint8

// Value kinds. The order matters for typeset bits and for mold of datatype
// values; add new kinds at the end.
const (
	UnsetKind Kind = iota
	NoneKind
	LogicKind
	IntegerKind
	DecimalKind
	CharKind
	StringKind
	WordKind
	SetWordKind
	GetWordKind
	LitWordKind
	RefinementKind
	BlockKind
	GroupKind
	PathKind
	SetPathKind
	ObjectKind
	ActionKind
	FrameKind
	ErrorKind
	DateKind
	DatatypeKind

	numKinds
)

var kindNames = [...]string{
	"unset!", "none!", "logic!", "integer!", "decimal!", "char!", "string!",
	"word!", "set-word!", "get-word!", "lit-word!", "refinement!", "block!",
	"group!", "path!", "set-path!", "object!", "action!", "frame!", "error!",
	"date!", "datatype!",
}

// String returns the datatype name, e.g. "integer!".
func (k Kind) String() string {
	if k >= numKinds {
		return "unknown!"
	}
	return kindNames[k]
}

// Binding records where a word resolves, or the specifier attached to a
// block-family value. A word with Ctx set resolves to slot Index of that
// context. A word with Rel set is relative: it resolves to slot Index of
// whichever live frame of that action the current specifier chain reaches.
// A word with neither is unbound.
type Binding struct {
	Ctx   *Context
	Rel   *Action
	Index int
}

// IsUnbound reports whether the binding points nowhere.
func (b Binding) IsUnbound() bool {
	return b.Ctx == nil && b.Rel == nil
}

// Value is the fixed-size tagged cell underlying every datatype. Scalars live
// inline; aggregate kinds reference a Series, Context, Frame, Action, or
// Error owned by the VM's collector.
type Value struct {
	Kind Kind

	// Int holds integer! values, logic! as 0/1, char! code points, and the
	// Kind of a datatype! value.
	Int int64
	// Dec holds decimal! values.
	Dec float64
	// When holds date! values.
	When time.Time
	// HasTime distinguishes a date! with a time component from a plain day.
	HasTime bool

	// Sym is the spelling of any word kind.
	Sym *Symbol
	// Series and Index address string and block-family values. Index is the
	// cell's position within the series; several cells may alias one series
	// at different indexes.
	Series *Series
	Index  int

	Ctx   *Context
	Frame *Frame
	Act   *Action
	Err   *Error

	// Bind is the word's binding, or the specifier for block-family values.
	Bind Binding
}

// Unset is the canonical unset! value.
var Unset = Value{Kind: UnsetKind}

// None is the canonical none! value.
var None = Value{Kind: NoneKind}

// True and False are the logic! values.
var (
	True  = Value{Kind: LogicKind, Int: 1}
	False = Value{Kind: LogicKind}
)

// IntValue makes an integer! value.
func IntValue(n int64) Value {
	return Value{Kind: IntegerKind, Int: n}
}

// DecimalValue makes a decimal! value.
func DecimalValue(f float64) Value {
	return Value{Kind: DecimalKind, Dec: f}
}

// LogicValue makes a logic! value.
func LogicValue(t bool) Value {
	if t {
		return True
	}
	return False
}

// CharValue makes a char! value.
func CharValue(r rune) Value {
	return Value{Kind: CharKind, Int: int64(r)}
}

// WordValue makes an unbound word! of the given spelling.
func WordValue(sym *Symbol) Value {
	return Value{Kind: WordKind, Sym: sym}
}

// DatatypeValue makes a datatype! value for the given kind.
func DatatypeValue(k Kind) Value {
	return Value{Kind: DatatypeKind, Int: int64(k)}
}

// DateValue makes a date! value. hasTime controls whether the clock part is
// significant.
func DateValue(t time.Time, hasTime bool) Value {
	return Value{Kind: DateKind, When: t, HasTime: hasTime}
}

// IsTruthy reports the conditional truth of the value: false for none! and
// logic! false, true for everything else. Callers must reject unset! before
// asking.
func (v Value) IsTruthy() bool {
	switch v.Kind {
	case NoneKind:
		return false
	case LogicKind:
		return v.Int != 0
	}
	return true
}

// IsWord reports whether the value is any word kind, including refinements.
func (v Value) IsWord() bool {
	switch v.Kind {
	case WordKind, SetWordKind, GetWordKind, LitWordKind, RefinementKind:
		return true
	}
	return false
}

// IsBlockFamily reports whether the value is a cell-series kind.
func (v Value) IsBlockFamily() bool {
	switch v.Kind {
	case BlockKind, GroupKind, PathKind, SetPathKind:
		return true
	}
	return false
}

// IsSeries reports whether the value references a series of any width.
func (v Value) IsSeries() bool {
	return v.Kind == StringKind || v.IsBlockFamily()
}

// IsNumber reports whether the value is integer! or decimal!.
func (v Value) IsNumber() bool {
	return v.Kind == IntegerKind || v.Kind == DecimalKind
}

// AsWordKind returns a copy of a word value converted to another word kind,
// keeping spelling and binding.
func (v Value) AsWordKind(k Kind) Value {
	r := v
	r.Kind = k
	return r
}

// Typeset is a bitset of Kinds used for parameter type constraints. The zero
// Typeset admits every kind except unset!.
type Typeset uint32

// TypesetOf builds a typeset from kinds.
func TypesetOf(kinds ...Kind) Typeset {
	var t Typeset
	for _, k := range kinds {
		t |= 1 << k
	}
	return t
}

// Has reports whether the typeset admits a kind.
func (t Typeset) Has(k Kind) bool {
	if t == 0 {
		return k != UnsetKind
	}
	return t&(1<<k) != 0
}

// Named typesets usable in function specs.
var (
	anySeriesTypes = TypesetOf(StringKind, BlockKind, GroupKind, PathKind, SetPathKind)
	anyWordTypes   = TypesetOf(WordKind, SetWordKind, GetWordKind, LitWordKind, RefinementKind)
	anyBlockTypes  = TypesetOf(BlockKind, GroupKind, PathKind, SetPathKind)
	anyNumberTypes = TypesetOf(IntegerKind, DecimalKind)
)
