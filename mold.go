package ren

import (
	"math"
	"strconv"
	"strings"
)

// Mold renders a value as loadable source text. Aggregates that reach
// themselves render the cycle as an ellipsis rather than recursing.
func (vm *VM) Mold(v Value) string {
	m := &molder{vm: vm, seen: make(map[uintptr]bool)}
	m.mold(v)
	return m.b.String()
}

// Form renders a value for human reading: strings and chars bare, blocks as
// their spaced elements, everything else as mold shows it.
func (vm *VM) Form(v Value) string {
	m := &molder{vm: vm, seen: make(map[uintptr]bool)}
	m.form(v)
	return m.b.String()
}

type molder struct {
	vm   *VM
	b    strings.Builder
	seen map[uintptr]bool
}

func (m *molder) mold(v Value) {
	switch v.Kind {
	case UnsetKind:
	case NoneKind:
		m.b.WriteString("none")
	case LogicKind:
		if v.Int != 0 {
			m.b.WriteString("true")
		} else {
			m.b.WriteString("false")
		}
	case IntegerKind:
		m.b.WriteString(strconv.FormatInt(v.Int, 10))
	case DecimalKind:
		m.b.WriteString(moldDecimal(v.Dec))
	case CharKind:
		m.b.WriteString(`#"`)
		m.moldRune(rune(v.Int))
		m.b.WriteString(`"`)
	case StringKind:
		m.b.WriteByte('"')
		for _, r := range v.Series.String()[v.Index:] {
			m.moldRune(r)
		}
		m.b.WriteByte('"')
	case WordKind:
		m.b.WriteString(v.Sym.Text)
	case SetWordKind:
		m.b.WriteString(v.Sym.Text)
		m.b.WriteByte(':')
	case GetWordKind:
		m.b.WriteByte(':')
		m.b.WriteString(v.Sym.Text)
	case LitWordKind:
		m.b.WriteByte('\'')
		m.b.WriteString(v.Sym.Text)
	case RefinementKind:
		m.b.WriteByte('/')
		m.b.WriteString(v.Sym.Text)
	case BlockKind:
		m.moldSeq(v, "[", "]", " ")
	case GroupKind:
		m.moldSeq(v, "(", ")", " ")
	case PathKind:
		m.moldSeq(v, "", "", "/")
	case SetPathKind:
		m.moldSeq(v, "", "", "/")
		m.b.WriteByte(':')
	case ObjectKind:
		m.moldObject(v.Ctx, "object!")
	case FrameKind:
		m.moldObject(v.Frame.locals, "frame!")
	case ActionKind:
		m.b.WriteString("make action! [[")
		for i, p := range v.Act.Params {
			if i > 0 {
				m.b.WriteByte(' ')
			}
			switch p.Class {
			case QuotedParam:
				m.b.WriteByte('\'')
			case RefinementParam:
				m.b.WriteByte('/')
			}
			m.b.WriteString(p.Sym.Text)
		}
		m.b.WriteString("] ...]")
	case ErrorKind:
		e := v.Err
		m.b.WriteString("make error! [category: ")
		m.b.WriteString(e.Category)
		m.b.WriteString(" id: ")
		m.b.WriteString(e.ID)
		m.b.WriteString(" message: ")
		m.b.WriteString(strconv.Quote(e.Message))
		m.b.WriteByte(']')
	case DateKind:
		m.b.WriteString(moldDate(v))
	case DatatypeKind:
		m.b.WriteString(Kind(v.Int).String())
	default:
		m.b.WriteString(v.Kind.String())
	}
}

// moldSeq renders a cell series between delimiters, guarding against cycles.
func (m *molder) moldSeq(v Value, open, close, sep string) {
	m.b.WriteString(open)
	if m.seen[v.Series.id] {
		m.b.WriteString("...")
		m.b.WriteString(close)
		return
	}
	m.seen[v.Series.id] = true
	cells := v.Series.Cells()
	for i := v.Index; i < len(cells); i++ {
		if i > v.Index {
			m.b.WriteString(sep)
		}
		m.mold(cells[i])
	}
	delete(m.seen, v.Series.id)
	m.b.WriteString(close)
}

func (m *molder) moldObject(c *Context, what string) {
	m.b.WriteString("make ")
	m.b.WriteString(what)
	m.b.WriteString(" [")
	if m.seen[c.id] {
		m.b.WriteString("...]")
		return
	}
	m.seen[c.id] = true
	for i := 0; i < c.Len(); i++ {
		if i > 0 {
			m.b.WriteByte(' ')
		}
		m.b.WriteString(c.SymbolAt(i).Text)
		m.b.WriteString(": ")
		m.mold(*c.Slot(i))
	}
	delete(m.seen, c.id)
	m.b.WriteByte(']')
}

func (m *molder) moldRune(r rune) {
	switch r {
	case '\n':
		m.b.WriteString("^/")
	case '\t':
		m.b.WriteString("^-")
	case '^':
		m.b.WriteString("^^")
	case '"':
		m.b.WriteString(`^"`)
	case 0:
		m.b.WriteString("^@")
	default:
		if r < 0x20 {
			m.b.WriteByte('^')
			m.b.WriteByte(byte('A' + r - 1))
			return
		}
		m.b.WriteRune(r)
	}
}

func (m *molder) form(v Value) {
	switch v.Kind {
	case StringKind:
		m.b.WriteString(v.Series.String()[v.Index:])
	case CharKind:
		m.b.WriteRune(rune(v.Int))
	case BlockKind, GroupKind:
		if m.seen[v.Series.id] {
			m.b.WriteString("...")
			return
		}
		m.seen[v.Series.id] = true
		cells := v.Series.Cells()
		for i := v.Index; i < len(cells); i++ {
			if i > v.Index {
				m.b.WriteByte(' ')
			}
			m.form(cells[i])
		}
		delete(m.seen, v.Series.id)
	case ErrorKind:
		e := v.Err
		m.b.WriteString("** ")
		m.b.WriteString(e.Category)
		m.b.WriteString(" error: ")
		m.b.WriteString(e.Message)
		if e.Where != "" {
			m.b.WriteString("\n** where: ")
			m.b.WriteString(e.Where)
		}
		if e.Near.Kind == BlockKind {
			m.b.WriteString("\n** near: ")
			m.mold(e.Near)
		}
	default:
		m.mold(v)
	}
}

// moldDecimal formats a decimal! so it reloads as a decimal!, keeping a
// fractional point even for whole values.
func moldDecimal(f float64) string {
	if math.IsInf(f, 1) {
		return "1.#INF"
	}
	if math.IsInf(f, -1) {
		return "-1.#INF"
	}
	if math.IsNaN(f) {
		return "1.#NaN"
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

func moldDate(v Value) string {
	s := v.When.Format("2-Jan-2006")
	if v.HasTime {
		s += v.When.Format("/15:04:05")
	}
	return s
}
