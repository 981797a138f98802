package ren

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// LoadString parses source text into a block! of unbound values. Loading
// never evaluates; a loaded block is plain data until something does it.
func (vm *VM) LoadString(src, label string) (Value, Stop) {
	return vm.LoadReader(strings.NewReader(src), label)
}

// LoadReader parses source from a reader. A leading byte order mark in any
// Unicode encoding is stripped and the text decoded to UTF-8.
func (vm *VM) LoadReader(r io.Reader, label string) (Value, Stop) {
	dec := unicode.UTF8.NewDecoder()
	br := bufio.NewReader(transform.NewReader(r, unicode.BOMOverride(dec)))
	tokens := make(chan token, 16)
	go lex(br, tokens)
	root := vm.NewBlock(16)
	stack := []Value{root}
	bad := func(format string, args ...interface{}) (Value, Stop) {
		for range tokens {
		}
		return vm.syntaxError("invalid", "%s: %s", label, fmt.Sprintf(format, args...))
	}
	for tok := range tokens {
		top := stack[len(stack)-1]
		switch tok.Kind {
		case commentToken:
			continue
		case badToken:
			if tok.Err != nil {
				return bad("line %d: %v", tok.Line, tok.Err)
			}
			return bad("line %d: invalid token %q", tok.Line, tok.Value)
		case openBlockToken:
			stack = append(stack, vm.NewBlock(8))
		case openGroupToken:
			g := vm.NewBlock(8)
			g.Kind = GroupKind
			stack = append(stack, g)
		case closeBlockToken, closeGroupToken:
			if len(stack) == 1 {
				return bad("line %d: unmatched %s", tok.Line, tok.Value)
			}
			want := closeBlockToken
			if top.Kind == GroupKind {
				want = closeGroupToken
			}
			if tok.Kind != want {
				return bad("line %d: mismatched %s", tok.Line, tok.Value)
			}
			stack = stack[:len(stack)-1]
			stack[len(stack)-1].Series.Append(top)
		case stringToken:
			s, err := decodeString(tok.Value)
			if err != nil {
				return bad("line %d: %v", tok.Line, err)
			}
			top.Series.Append(vm.NewString(s))
		case charToken:
			c, err := decodeChar(tok.Value)
			if err != nil {
				return bad("line %d: %v", tok.Line, err)
			}
			top.Series.Append(CharValue(c))
		case atomToken:
			v, err := vm.loadAtom(tok.Value)
			if err != nil {
				return bad("line %d: %v", tok.Line, err)
			}
			top.Series.Append(v)
		default:
			panic(fmt.Sprintf("ren: unhandled token kind %d", tok.Kind))
		}
	}
	if len(stack) > 1 {
		return vm.syntaxError("missing", "%s: unclosed block or group at end of input", label)
	}
	return root, NoStop
}

// LoadScript loads a script's source and separates its header. The header is
// the block following a leading REBOL or Ren word, or none when absent.
func (vm *VM) LoadScript(src, label string) (header, body Value, stop Stop) {
	b, stop := vm.LoadString(src, label)
	if stop != NoStop {
		return Unset, b, stop
	}
	cells := b.Series.Cells()
	if len(cells) >= 2 && cells[0].Kind == WordKind && cells[1].Kind == BlockKind {
		if c := cells[0].Sym.Canon; c == "rebol" || c == "ren" {
			body = b
			body.Index = 2
			return cells[1], body, NoStop
		}
	}
	return None, b, NoStop
}

// wordRunes are the symbol characters allowed in word spellings alongside
// letters and digits.
const wordRunes = "+-*!&?=<>._~|"

func validWord(s string) bool {
	if s == "" {
		return false
	}
	if r, _ := utf8.DecodeRuneInString(s); r >= '0' && r <= '9' {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case strings.ContainsRune(wordRunes, r), r >= 0x80:
		default:
			return false
		}
	}
	return true
}

// loadAtom classifies an undelimited atom into a value. Decorations strip
// off the outside in: a leading ' quotes, a trailing : sets, a leading :
// gets, a leading / is a refinement, and an interior / builds a path.
func (vm *VM) loadAtom(text string) (Value, error) {
	switch text {
	case "/", "//":
		// Division is a word even though / is otherwise structural.
		return WordValue(vm.Sym(text)), nil
	}
	if v, ok := vm.loadNumeric(text); ok {
		return v, nil
	}
	if v, ok := vm.loadDate(text); ok {
		return v, nil
	}
	kind := WordKind
	switch {
	case strings.HasPrefix(text, "'"):
		kind = LitWordKind
		text = text[1:]
	case strings.HasPrefix(text, ":"):
		kind = GetWordKind
		text = text[1:]
	case strings.HasPrefix(text, "/"):
		kind = RefinementKind
		text = text[1:]
	}
	if kind != RefinementKind && strings.ContainsRune(text, '/') {
		if kind != WordKind {
			return Unset, fmt.Errorf("invalid path %q", text)
		}
		return vm.loadPath(text)
	}
	if strings.HasSuffix(text, ":") {
		if kind != WordKind {
			return Unset, fmt.Errorf("invalid word %q", text)
		}
		kind = SetWordKind
		text = text[:len(text)-1]
	}
	if !validWord(text) {
		return Unset, fmt.Errorf("invalid word %q", text)
	}
	return Value{Kind: kind, Sym: vm.Sym(text)}, nil
}

// loadPath builds a path! or set-path! from a /-separated atom.
func (vm *VM) loadPath(text string) (Value, error) {
	kind := PathKind
	if strings.HasSuffix(text, ":") {
		kind = SetPathKind
		text = text[:len(text)-1]
	}
	parts := strings.Split(text, "/")
	p := vm.NewBlock(len(parts))
	p.Kind = kind
	for _, part := range parts {
		if part == "" {
			return Unset, fmt.Errorf("invalid path %q", text)
		}
		if v, ok := vm.loadNumeric(part); ok {
			if v.Kind != IntegerKind {
				return Unset, fmt.Errorf("invalid path element %q", part)
			}
			p.Series.Append(v)
			continue
		}
		if !validWord(part) {
			return Unset, fmt.Errorf("invalid path element %q", part)
		}
		p.Series.Append(WordValue(vm.Sym(part)))
	}
	return p, nil
}

// loadNumeric recognizes integer! and decimal! spellings.
func (vm *VM) loadNumeric(text string) (Value, bool) {
	if strings.HasPrefix(text, "'") {
		// A leading quote is lit-word decoration, never a digit separator.
		return Unset, false
	}
	t := strings.ReplaceAll(text, "'", "")
	if t == "" || t == "+" || t == "-" {
		return Unset, false
	}
	c := t[0]
	if c != '+' && c != '-' && c != '.' && (c < '0' || c > '9') {
		return Unset, false
	}
	if n, err := strconv.ParseInt(t, 10, 64); err == nil {
		return IntValue(n), true
	}
	if f, err := strconv.ParseFloat(t, 64); err == nil {
		return DecimalValue(f), true
	}
	return Unset, false
}

var months = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

// loadDate recognizes date! spellings like 30-Aug-2026 and 30-8-2026, with
// an optional /hh:mm or /hh:mm:ss time part.
func (vm *VM) loadDate(text string) (Value, bool) {
	date := text
	clock := ""
	if i := strings.IndexByte(text, '/'); i >= 0 {
		date, clock = text[:i], text[i+1:]
	}
	parts := strings.Split(date, "-")
	if len(parts) != 3 {
		return Unset, false
	}
	day, err := strconv.Atoi(parts[0])
	if err != nil || day < 1 || day > 31 {
		return Unset, false
	}
	var month time.Month
	if m, err := strconv.Atoi(parts[1]); err == nil {
		if m < 1 || m > 12 {
			return Unset, false
		}
		month = time.Month(m)
	} else {
		name := strings.ToLower(parts[1])
		if len(name) > 3 {
			name = name[:3]
		}
		m, ok := months[name]
		if !ok {
			return Unset, false
		}
		month = m
	}
	year, err := strconv.Atoi(parts[2])
	if err != nil || len(parts[2]) < 3 {
		return Unset, false
	}
	hh, mm, ss := 0, 0, 0
	hasTime := false
	if clock != "" {
		cp := strings.Split(clock, ":")
		if len(cp) != 2 && len(cp) != 3 {
			return Unset, false
		}
		if hh, err = strconv.Atoi(cp[0]); err != nil || hh > 23 {
			return Unset, false
		}
		if mm, err = strconv.Atoi(cp[1]); err != nil || mm > 59 {
			return Unset, false
		}
		if len(cp) == 3 {
			if ss, err = strconv.Atoi(cp[2]); err != nil || ss > 59 {
				return Unset, false
			}
		}
		hasTime = true
	}
	t := time.Date(year, month, day, hh, mm, ss, 0, time.UTC)
	if t.Day() != day || t.Month() != month {
		// Normalization moved the date; the day was out of range.
		return Unset, false
	}
	return DateValue(t, hasTime), true
}

// decodeString strips a string token's delimiters and resolves ^ escapes.
func decodeString(tok string) (string, error) {
	body := tok[1 : len(tok)-1]
	if !strings.ContainsRune(body, '^') {
		return body, nil
	}
	var b strings.Builder
	for i := 0; i < len(body); {
		r, w := utf8.DecodeRuneInString(body[i:])
		i += w
		if r != '^' {
			b.WriteRune(r)
			continue
		}
		if i >= len(body) {
			return "", fmt.Errorf("dangling escape in string")
		}
		e, w := utf8.DecodeRuneInString(body[i:])
		i += w
		switch {
		case e == '/':
			b.WriteByte('\n')
		case e == '-':
			b.WriteByte('\t')
		case e == '^', e == '"', e == '{', e == '}':
			b.WriteRune(e)
		case e == '@':
			b.WriteByte(0)
		case e >= 'A' && e <= 'Z':
			b.WriteByte(byte(e - 'A' + 1))
		case e >= 'a' && e <= 'z':
			b.WriteByte(byte(e - 'a' + 1))
		case e == '(':
			j := strings.IndexByte(body[i:], ')')
			if j < 0 {
				return "", fmt.Errorf("unterminated ^( escape")
			}
			n, err := strconv.ParseUint(body[i:i+j], 16, 32)
			if err != nil {
				return "", fmt.Errorf("invalid ^(%s) escape", body[i:i+j])
			}
			b.WriteRune(rune(n))
			i += j + 1
		default:
			return "", fmt.Errorf("invalid escape ^%c", e)
		}
	}
	return b.String(), nil
}

// decodeChar decodes a #"c" token into its code point.
func decodeChar(tok string) (rune, error) {
	s, err := decodeString(tok[1:])
	if err != nil {
		return 0, err
	}
	r, w := utf8.DecodeRuneInString(s)
	if w == 0 || w != len(s) {
		return 0, fmt.Errorf("char literal %s must hold exactly one character", tok)
	}
	return r, nil
}
