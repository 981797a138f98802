package ren

// Width selects the element width of a Series.
type Width uint8

// Series widths. Cell-wide series back the block family; byte-wide series
// back strings.
const (
	CellWide Width = iota
	ByteWide
)

// A Series is a resizable contiguous buffer of fixed-width elements. Every
// aggregate value references one. Multiple cells may alias the same series at
// different indexes; growth keeps the series identity, so mutation through
// one alias is visible through all of them.
//
// Series are owned by the VM's collector. A series is freed only when it is
// unreachable from every root, at which point no live cell references it.
type Series struct {
	id   uintptr
	wide Width

	cells []Value
	bytes []byte

	// dead marks a swept series. Touching a dead series is an interpreter
	// bug, not a script error.
	dead bool
}

// AllocSeries returns a new empty series able to hold capacity elements of
// the given width without reallocation. The series is registered with the
// collector.
func (vm *VM) AllocSeries(capacity int, wide Width) *Series {
	s := &Series{id: nextNode(), wide: wide}
	if wide == CellWide {
		s.cells = make([]Value, 0, capacity)
	} else {
		s.bytes = make([]byte, 0, capacity)
	}
	vm.addSeries(s)
	return s
}

// NewBlock allocates a cell series and returns it as a block! at its head.
func (vm *VM) NewBlock(capacity int) Value {
	return Value{Kind: BlockKind, Series: vm.AllocSeries(capacity, CellWide)}
}

// NewString allocates a byte series holding s and returns it as a string! at
// its head.
func (vm *VM) NewString(s string) Value {
	ser := vm.AllocSeries(len(s), ByteWide)
	ser.bytes = append(ser.bytes, s...)
	return Value{Kind: StringKind, Series: ser}
}

// BlockOf allocates a block! holding the given cells.
func (vm *VM) BlockOf(vals ...Value) Value {
	b := vm.NewBlock(len(vals))
	b.Series.cells = append(b.Series.cells, vals...)
	return b
}

// Len returns the element count.
func (s *Series) Len() int {
	if s.wide == CellWide {
		return len(s.cells)
	}
	return len(s.bytes)
}

// At returns the cell at index i. The index must be within the current
// length; callers validate against script input first.
func (s *Series) At(i int) *Value {
	s.check()
	return &s.cells[i]
}

// Cells returns the live cell slice. The slice is invalidated by any
// mutating operation; re-fetch after every call that can grow the series.
func (s *Series) Cells() []Value {
	s.check()
	return s.cells
}

// Bytes returns the live byte slice, with the same invalidation caveat as
// Cells.
func (s *Series) Bytes() []byte {
	s.check()
	return s.bytes
}

// String returns the byte contents as a Go string.
func (s *Series) String() string {
	s.check()
	return string(s.bytes)
}

// Append adds cells at the tail, growing as needed. Amortized O(1); append
// never detaches aliasing cells from the series.
func (s *Series) Append(vals ...Value) {
	s.check()
	s.cells = append(s.cells, vals...)
}

// AppendBytes adds bytes at the tail of a byte-wide series.
func (s *Series) AppendBytes(b []byte) {
	s.check()
	s.bytes = append(s.bytes, b...)
}

// Insert places cells at index i, shifting later elements toward the tail.
func (s *Series) Insert(i int, vals ...Value) {
	s.check()
	s.cells = append(s.cells, vals...)
	copy(s.cells[i+len(vals):], s.cells[i:])
	copy(s.cells[i:], vals)
}

// InsertBytes places bytes at index i of a byte-wide series.
func (s *Series) InsertBytes(i int, b []byte) {
	s.check()
	s.bytes = append(s.bytes, b...)
	copy(s.bytes[i+len(b):], s.bytes[i:])
	copy(s.bytes[i:], b)
}

// Remove deletes n elements starting at index i, shifting later elements
// toward the head.
func (s *Series) Remove(i, n int) {
	s.check()
	if s.wide == CellWide {
		s.cells = append(s.cells[:i], s.cells[i+n:]...)
	} else {
		s.bytes = append(s.bytes[:i], s.bytes[i+n:]...)
	}
}

// Clear truncates the series to length i.
func (s *Series) Clear(i int) {
	s.check()
	if s.wide == CellWide {
		// Zero the tail so the collector cannot see stale references.
		tail := s.cells[i:]
		for k := range tail {
			tail[k] = Value{}
		}
		s.cells = s.cells[:i]
	} else {
		s.bytes = s.bytes[:i]
	}
}

// CopySeries produces an independent series with the same contents from
// index i. Cell copies are shallow: aggregate elements still reference their
// original series, per copy's default; deep copying is a caller concern.
func (vm *VM) CopySeries(s *Series, i int) *Series {
	s.check()
	r := &Series{id: nextNode(), wide: s.wide}
	if s.wide == CellWide {
		r.cells = append(make([]Value, 0, len(s.cells)-i), s.cells[i:]...)
	} else {
		r.bytes = append(make([]byte, 0, len(s.bytes)-i), s.bytes[i:]...)
	}
	vm.addSeries(r)
	return r
}

func (s *Series) check() {
	if s.dead {
		panic("ren: use of freed series")
	}
}
