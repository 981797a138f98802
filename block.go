package ren

// Series natives. A series value is a position into a shared buffer, so the
// navigation natives return repositioned cells while the mutation natives
// change the buffer every alias sees.

func (vm *VM) initSeries() {
	vm.AddNative("append series [any-series!] value /only", SeriesAppend)
	vm.AddNative("insert series [any-series!] value /only", SeriesInsert)
	vm.AddNative("remove series [any-series!] /part count [integer!]", SeriesRemove)
	vm.AddNative("clear series [any-series!]", SeriesClear)
	vm.AddNative("change series [any-series!] value /only", SeriesChange)
	vm.AddNative("pick series [any-series!] index [integer!]", SeriesPick)
	vm.AddNative("poke series [any-series!] index [integer!] value", SeriesPoke)
	vm.AddNative("copy series [any-series! object!] /deep /part count [integer!]", SeriesCopy)
	vm.AddNative("length? series [any-series!]", SeriesLength)
	vm.AddNative("head series [any-series!]", SeriesHead)
	vm.AddNative("tail series [any-series!]", SeriesTail)
	vm.AddNative("next series [any-series!]", SeriesNext)
	vm.AddNative("back series [any-series!]", SeriesBack)
	vm.AddNative("at series [any-series!] index [integer!]", SeriesAt)
	vm.AddNative("skip series [any-series!] offset [integer!]", SeriesSkip)
	vm.AddNative("index? series [any-series!]", SeriesIndex)
	vm.AddNative("empty? series [any-series! none!]", SeriesEmpty)
	vm.AddNative("head? series [any-series!]", SeriesHeadQ)
	vm.AddNative("tail? series [any-series!]", SeriesTailQ)
	vm.AddNative("first series [any-series!]", SeriesFirst)
	vm.AddNative("second series [any-series!]", SeriesSecond)
	vm.AddNative("third series [any-series!]", SeriesThird)
	vm.AddNative("last series [any-series!]", SeriesLast)
	vm.AddNative("find series [any-series!] value /only", SeriesFind)
	vm.AddNative("select series [any-series!] value", SeriesSelect)
	vm.AddNative("join value1 value2", SeriesJoin)
}

// valueBytes renders a value for insertion into a string series.
func (vm *VM) valueBytes(v Value) []byte {
	return []byte(vm.Form(v))
}

// SeriesAppend implements the append native.
//
// append adds a value at the tail of a series and yields the series at its
// head. A block appended to a block splices its elements; append/only adds
// it as a single element. Appending to a string forms the value.
func SeriesAppend(vm *VM, f *Frame) (Value, Stop) {
	s := f.Arg(0)
	v := f.Arg(1)
	if s.Kind == StringKind {
		s.Series.AppendBytes(vm.valueBytes(v))
	} else if v.IsBlockFamily() && !f.Flag(2) {
		s.Series.Append(v.Series.Cells()[v.Index:]...)
	} else {
		s.Series.Append(v)
	}
	s.Index = 0
	return s, NoStop
}

// SeriesInsert implements the insert native.
//
// insert adds a value at the series position, with the same splicing rules
// as append, and yields the series positioned just past the insertion.
func SeriesInsert(vm *VM, f *Frame) (Value, Stop) {
	s := f.Arg(0)
	v := f.Arg(1)
	var n int
	if s.Kind == StringKind {
		b := vm.valueBytes(v)
		s.Series.InsertBytes(s.Index, b)
		n = len(b)
	} else if v.IsBlockFamily() && !f.Flag(2) {
		cells := v.Series.Cells()[v.Index:]
		s.Series.Insert(s.Index, cells...)
		n = len(cells)
	} else {
		s.Series.Insert(s.Index, v)
		n = 1
	}
	s.Index += n
	return s, NoStop
}

// SeriesRemove implements the remove native.
//
// remove deletes the element at the series position, or remove/part deletes
// count elements, and yields the series at the same position.
func SeriesRemove(vm *VM, f *Frame) (Value, Stop) {
	s := f.Arg(0)
	n := 1
	if f.Flag(1) {
		n = int(f.Arg(2).Int)
	}
	if n < 0 {
		return vm.scriptError("out-of-range", "cannot remove %d elements", n)
	}
	if left := s.Series.Len() - s.Index; n > left {
		n = left
	}
	if n > 0 {
		s.Series.Remove(s.Index, n)
	}
	return s, NoStop
}

// SeriesClear implements the clear native.
//
// clear deletes everything from the series position to the tail.
func SeriesClear(vm *VM, f *Frame) (Value, Stop) {
	s := f.Arg(0)
	if s.Index < s.Series.Len() {
		s.Series.Clear(s.Index)
	}
	return s, NoStop
}

// SeriesChange implements the change native.
//
// change overwrites elements at the series position with the value, growing
// the series as needed, and yields the series past the change.
func SeriesChange(vm *VM, f *Frame) (Value, Stop) {
	s := f.Arg(0)
	v := f.Arg(1)
	if s.Kind == StringKind {
		b := vm.valueBytes(v)
		end := s.Index + len(b)
		if end > s.Series.Len() {
			s.Series.AppendBytes(make([]byte, end-s.Series.Len()))
		}
		copy(s.Series.Bytes()[s.Index:], b)
		s.Index = end
		return s, NoStop
	}
	var cells []Value
	if v.IsBlockFamily() && !f.Flag(2) {
		cells = v.Series.Cells()[v.Index:]
	} else {
		cells = []Value{v}
	}
	end := s.Index + len(cells)
	for s.Series.Len() < end {
		s.Series.Append(Unset)
	}
	copy(s.Series.Cells()[s.Index:], cells)
	s.Index = end
	return s, NoStop
}

// SeriesPick implements the pick native.
//
// pick yields the element at the one-based index from the series position,
// or none past either end.
func SeriesPick(vm *VM, f *Frame) (Value, Stop) {
	s := f.Arg(0)
	i := s.Index + int(f.Arg(1).Int) - 1
	if f.Arg(1).Int < 1 || i >= s.Series.Len() {
		return None, NoStop
	}
	return seriesElement(s, i), NoStop
}

// SeriesPoke implements the poke native.
//
// poke stores a value at the one-based index from the series position and
// yields the value. Indexes outside the series raise an error.
func SeriesPoke(vm *VM, f *Frame) (Value, Stop) {
	s := f.Arg(0)
	v := f.Arg(2)
	i := s.Index + int(f.Arg(1).Int) - 1
	if f.Arg(1).Int < 1 || i >= s.Series.Len() {
		return vm.scriptError("out-of-range", "index %d is out of range", f.Arg(1).Int)
	}
	if s.Kind == StringKind {
		if v.Kind != CharKind {
			return vm.typeError("poke", v)
		}
		s.Series.Bytes()[i] = byte(v.Int)
		return v, NoStop
	}
	*s.Series.At(i) = v
	return v, NoStop
}

// SeriesCopy implements the copy native.
//
// copy yields a new series with the same contents from the position to the
// tail, or copy/part a bounded count. The copy is shallow, so aggregate
// elements still share their buffers; copy/deep copies those too. copy of
// an object clones the object.
func SeriesCopy(vm *VM, f *Frame) (Value, Stop) {
	s := f.Arg(0)
	if s.Kind == ObjectKind {
		return vm.copyObject(s.Ctx), NoStop
	}
	r := s
	r.Series = vm.CopySeries(s.Series, s.Index)
	r.Index = 0
	if f.Flag(2) {
		n := int(f.Arg(3).Int)
		if n < 0 {
			n = 0
		}
		if n < r.Series.Len() {
			r.Series.Clear(n)
		}
	}
	if f.Flag(1) && r.IsBlockFamily() {
		cells := r.Series.Cells()
		for i := range cells {
			if cells[i].IsBlockFamily() {
				cells[i] = vm.deepCopyBlock(cells[i])
			}
		}
	}
	return r, NoStop
}

func (vm *VM) copyObject(c *Context) Value {
	n := vm.AllocContext(objectCtx, c.Len())
	n.parent = c.parent
	for i := 0; i < c.Len(); i++ {
		n.Add(c.SymbolAt(i))
		*n.Slot(i) = *c.Slot(i)
	}
	return ObjectValue(n)
}

// SeriesLength implements the length? native.
//
// length? yields the number of elements from the series position to the
// tail.
func SeriesLength(vm *VM, f *Frame) (Value, Stop) {
	s := f.Arg(0)
	return IntValue(int64(s.Series.Len() - s.Index)), NoStop
}

// SeriesHead implements the head native.
func SeriesHead(vm *VM, f *Frame) (Value, Stop) {
	s := f.Arg(0)
	s.Index = 0
	return s, NoStop
}

// SeriesTail implements the tail native.
func SeriesTail(vm *VM, f *Frame) (Value, Stop) {
	s := f.Arg(0)
	s.Index = s.Series.Len()
	return s, NoStop
}

// SeriesNext implements the next native.
//
// next yields the series advanced one element, stopping at the tail.
func SeriesNext(vm *VM, f *Frame) (Value, Stop) {
	s := f.Arg(0)
	if s.Index < s.Series.Len() {
		s.Index++
	}
	return s, NoStop
}

// SeriesBack implements the back native.
//
// back yields the series moved back one element, stopping at the head.
func SeriesBack(vm *VM, f *Frame) (Value, Stop) {
	s := f.Arg(0)
	if s.Index > 0 {
		s.Index--
	}
	return s, NoStop
}

// SeriesAt implements the at native.
//
// at yields the series positioned at the one-based index, clamped to the
// series bounds.
func SeriesAt(vm *VM, f *Frame) (Value, Stop) {
	s := f.Arg(0)
	s.Index += int(f.Arg(1).Int) - 1
	return clampIndex(s), NoStop
}

// SeriesSkip implements the skip native.
//
// skip yields the series moved by a signed offset, clamped to its bounds.
func SeriesSkip(vm *VM, f *Frame) (Value, Stop) {
	s := f.Arg(0)
	s.Index += int(f.Arg(1).Int)
	return clampIndex(s), NoStop
}

func clampIndex(s Value) Value {
	if s.Index < 0 {
		s.Index = 0
	}
	if s.Index > s.Series.Len() {
		s.Index = s.Series.Len()
	}
	return s
}

// SeriesIndex implements the index? native.
//
// index? yields the one-based position of the series.
func SeriesIndex(vm *VM, f *Frame) (Value, Stop) {
	return IntValue(int64(f.Arg(0).Index) + 1), NoStop
}

// SeriesEmpty implements the empty? native.
//
// empty? is true at the tail of a series, and for none.
func SeriesEmpty(vm *VM, f *Frame) (Value, Stop) {
	s := f.Arg(0)
	if s.Kind == NoneKind {
		return True, NoStop
	}
	return LogicValue(s.Index >= s.Series.Len()), NoStop
}

// SeriesHeadQ implements the head? native.
func SeriesHeadQ(vm *VM, f *Frame) (Value, Stop) {
	return LogicValue(f.Arg(0).Index == 0), NoStop
}

// SeriesTailQ implements the tail? native.
func SeriesTailQ(vm *VM, f *Frame) (Value, Stop) {
	s := f.Arg(0)
	return LogicValue(s.Index >= s.Series.Len()), NoStop
}

func pickOrdinal(s Value, n int) Value {
	i := s.Index + n - 1
	if i >= s.Series.Len() {
		return None
	}
	return seriesElement(s, i)
}

// SeriesFirst implements the first native.
func SeriesFirst(vm *VM, f *Frame) (Value, Stop) {
	return pickOrdinal(f.Arg(0), 1), NoStop
}

// SeriesSecond implements the second native.
func SeriesSecond(vm *VM, f *Frame) (Value, Stop) {
	return pickOrdinal(f.Arg(0), 2), NoStop
}

// SeriesThird implements the third native.
func SeriesThird(vm *VM, f *Frame) (Value, Stop) {
	return pickOrdinal(f.Arg(0), 3), NoStop
}

// SeriesLast implements the last native.
func SeriesLast(vm *VM, f *Frame) (Value, Stop) {
	s := f.Arg(0)
	if s.Series.Len() == 0 {
		return None, NoStop
	}
	return seriesElement(s, s.Series.Len()-1), NoStop
}

// SeriesFind implements the find native.
//
// find yields the series positioned at the first element equal to the
// value, or none. In a string it finds a substring or char, folding case.
// A block value matches as a subsequence; find/only matches it as a single
// element instead.
func SeriesFind(vm *VM, f *Frame) (Value, Stop) {
	s := f.Arg(0)
	v := f.Arg(1)
	if s.Kind == StringKind {
		return vm.findInString(s, v)
	}
	if v.IsBlockFamily() && !f.Flag(2) {
		return vm.findSequence(s, v)
	}
	cells := s.Series.Cells()
	for i := s.Index; i < len(cells); i++ {
		eq, ev, stop := vm.EqualValues(cells[i], v, false)
		if stop != NoStop {
			return ev, stop
		}
		if eq {
			s.Index = i
			return s, NoStop
		}
	}
	return None, NoStop
}

// findSequence finds the elements of v in order within s.
func (vm *VM) findSequence(s, v Value) (Value, Stop) {
	want := v.Series.Cells()[v.Index:]
	if len(want) == 0 {
		return s, NoStop
	}
	cells := s.Series.Cells()
	for i := s.Index; i+len(want) <= len(cells); i++ {
		ok := true
		for k := range want {
			eq, ev, stop := vm.EqualValues(cells[i+k], want[k], false)
			if stop != NoStop {
				return ev, stop
			}
			if !eq {
				ok = false
				break
			}
		}
		if ok {
			s.Index = i
			return s, NoStop
		}
	}
	return None, NoStop
}

func (vm *VM) findInString(s, v Value) (Value, Stop) {
	hay := s.Series.String()[s.Index:]
	var needle string
	switch v.Kind {
	case StringKind:
		needle = v.Series.String()[v.Index:]
	case CharKind:
		needle = string(rune(v.Int))
	default:
		needle = vm.Form(v)
	}
	at := foldIndex(hay, needle, vm.folder.String)
	if at < 0 {
		return None, NoStop
	}
	s.Index += at
	return s, NoStop
}

// foldIndex finds needle in hay under case folding, returning the byte
// offset in the unfolded hay. Folding is done per candidate window so the
// offset stays aligned with the original bytes.
func foldIndex(hay, needle string, fold func(string) string) int {
	fn := fold(needle)
	if fn == "" {
		return 0
	}
	for i := 0; i < len(hay); i++ {
		rest := fold(hay[i:])
		if len(rest) < len(fn) {
			return -1
		}
		if rest[:len(fn)] == fn {
			return i
		}
	}
	return -1
}

// SeriesSelect implements the select native.
//
// select finds a value in a block and yields the element after it, or none.
func SeriesSelect(vm *VM, f *Frame) (Value, Stop) {
	s := f.Arg(0)
	v := f.Arg(1)
	cells := s.Series.Cells()
	for i := s.Index; i < len(cells); i++ {
		eq, ev, stop := vm.EqualValues(cells[i], v, false)
		if stop != NoStop {
			return ev, stop
		}
		if eq {
			if i+1 < len(cells) {
				return cells[i+1], NoStop
			}
			return None, NoStop
		}
	}
	return None, NoStop
}

// SeriesJoin implements the join native.
//
// join concatenates two values into a new series: a new block when the
// first is a block, and a new string of both formed otherwise.
func SeriesJoin(vm *VM, f *Frame) (Value, Stop) {
	a, b := f.Arg(0), f.Arg(1)
	if a.IsBlockFamily() {
		out := vm.NewBlock(a.Series.Len() - a.Index + 1)
		out.Series.Append(a.Series.Cells()[a.Index:]...)
		if b.IsBlockFamily() {
			out.Series.Append(b.Series.Cells()[b.Index:]...)
		} else {
			out.Series.Append(b)
		}
		return out, NoStop
	}
	return vm.NewString(vm.Form(a) + vm.Form(b)), NoStop
}
