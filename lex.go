package ren

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// A token is a single lexical element.
type token struct {
	Kind  tokenKind
	Value string
	Err   error

	Line, Col int
}

type tokenKind int

const (
	badToken tokenKind = iota

	atomToken       // word, number, date, or anything else undelimited
	openBlockToken  // [
	closeBlockToken // ]
	openGroupToken  // (
	closeGroupToken // )
	stringToken     // "string" or {string}
	charToken       // #"c"
	commentToken    // ; comment
)

// lexFn is a lexer state function. Each lexFn lexes a token, sends it on the
// supplied channel, and returns the next lexFn to use.
type lexFn func(src *bufio.Reader, tokens chan<- token, line, col int) (lexFn, int, int)

// lex converts a source into a stream of tokens.
func lex(src *bufio.Reader, tokens chan<- token) {
	state := eatSpace
	line, col := 1, 1
	for state != nil {
		state, line, col = state(src, tokens, line, col)
	}
	close(tokens)
}

// accept appends the next run of characters in src which satisfy the predicate
// to b. Returns b after appending, the first rune which did not satisfy the
// predicate, and any error that occurred. If there was no such error, the
// last rune is unread.
func accept(src *bufio.Reader, predicate func(rune) bool, b []byte) ([]byte, rune, error) {
	r, _, err := src.ReadRune()
	for {
		if err != nil {
			return b, r, err
		}
		if !predicate(r) {
			break
		}
		b = append(b, string(r)...)
		r, _, err = src.ReadRune()
	}
	src.UnreadRune()
	return b, r, nil
}

// lexsend is a shortcut for sending a token with error checking. It returns
// eatSpace as the default lexing function.
func lexsend(err error, tokens chan<- token, good token) lexFn {
	if err != nil && err != io.EOF {
		good.Kind = badToken
		good.Err = err
	}
	tokens <- good
	if err != nil {
		return nil
	}
	return eatSpace
}

// isDelim reports whether a rune ends an undelimited atom.
func isDelim(r rune) bool {
	return strings.ContainsRune(" \r\f\t\v\n[](){}\";", r)
}

// eatSpace consumes space and decides the next lexFn to use.
func eatSpace(src *bufio.Reader, tokens chan<- token, line, col int) (lexFn, int, int) {
	for {
		eaten, r, err := accept(src, func(r rune) bool { return strings.ContainsRune(" \r\f\t\v", r) }, nil)
		col += len(eaten)
		if err != nil {
			if err != io.EOF {
				tokens <- token{
					Kind:  badToken,
					Value: string(r),
					Err:   err,
				}
			}
			return nil, line, col
		}
		if r == '\n' {
			src.ReadRune()
			line++
			col = 1
			continue
		}
		switch {
		case r == ';':
			return lexComment, line, col
		case r == '[':
			src.ReadRune()
			tokens <- token{Kind: openBlockToken, Value: "[", Line: line, Col: col}
			return eatSpace, line, col + 1
		case r == ']':
			src.ReadRune()
			tokens <- token{Kind: closeBlockToken, Value: "]", Line: line, Col: col}
			return eatSpace, line, col + 1
		case r == '(':
			src.ReadRune()
			tokens <- token{Kind: openGroupToken, Value: "(", Line: line, Col: col}
			return eatSpace, line, col + 1
		case r == ')':
			src.ReadRune()
			tokens <- token{Kind: closeGroupToken, Value: ")", Line: line, Col: col}
			return eatSpace, line, col + 1
		case r == '"':
			return lexQuoteString, line, col
		case r == '{':
			return lexBraceString, line, col
		case r == '}':
			src.ReadRune()
			tokens <- token{
				Kind:  badToken,
				Value: "}",
				Err:   fmt.Errorf("unmatched } at line %d", line),
				Line:  line,
				Col:   col,
			}
			return nil, line, col
		case r == '#':
			peek, _ := src.Peek(2)
			if len(peek) > 1 && peek[1] == '"' {
				return lexChar, line, col
			}
			return lexAtom, line, col
		}
		return lexAtom, line, col
	}
}

// lexComment lexes a ; comment running to the end of the line.
func lexComment(src *bufio.Reader, tokens chan<- token, line, col int) (lexFn, int, int) {
	b, _, err := accept(src, func(r rune) bool { return r != '\n' }, nil)
	ncol := col + len(b)
	return lexsend(err, tokens, token{Kind: commentToken, Value: string(b), Line: line, Col: col}), line, ncol
}

// lexAtom lexes an undelimited atom. Words, numbers, paths, refinements, and
// dates all arrive as atoms; the loader classifies them.
func lexAtom(src *bufio.Reader, tokens chan<- token, line, col int) (lexFn, int, int) {
	b, _, err := accept(src, func(r rune) bool { return !isDelim(r) }, nil)
	ncol := col + len(b)
	return lexsend(err, tokens, token{Kind: atomToken, Value: string(b), Line: line, Col: col}), line, ncol
}

// lexQuoteString lexes a "string". The value keeps its quotes and escapes;
// the loader decodes them. A quoted string cannot span lines.
func lexQuoteString(src *bufio.Reader, tokens chan<- token, line, col int) (lexFn, int, int) {
	b := make([]byte, 1, 2)
	src.Read(b)
	ncol := col + 1
	esc := false
	for {
		r, _, err := src.ReadRune()
		if err != nil {
			if err == io.EOF {
				err = io.ErrUnexpectedEOF
			}
			tokens <- token{
				Kind:  badToken,
				Value: string(b),
				Err:   err,
				Line:  line,
				Col:   col,
			}
			return nil, line, ncol
		}
		ncol++
		if r == '\n' {
			tokens <- token{
				Kind:  badToken,
				Value: string(b),
				Err:   fmt.Errorf("string not closed before end of line %d", line),
				Line:  line,
				Col:   col,
			}
			return nil, line, ncol
		}
		b = append(b, string(r)...)
		if r == '^' {
			esc = !esc
		} else if r == '"' && !esc {
			return lexsend(err, tokens, token{Kind: stringToken, Value: string(b), Line: line, Col: col}), line, ncol
		} else {
			esc = false
		}
	}
}

// lexBraceString lexes a {string}, which nests braces and may span lines.
func lexBraceString(src *bufio.Reader, tokens chan<- token, line, col int) (lexFn, int, int) {
	b := make([]byte, 1, 2)
	src.Read(b)
	nline := line
	ncol := col + 1
	depth := 1
	esc := false
	for {
		r, _, err := src.ReadRune()
		if err != nil {
			if err == io.EOF {
				err = io.ErrUnexpectedEOF
			}
			tokens <- token{
				Kind:  badToken,
				Value: string(b),
				Err:   err,
				Line:  line,
				Col:   col,
			}
			return nil, nline, ncol
		}
		ncol++
		if r == '\n' {
			nline++
			ncol = 1
		}
		b = append(b, string(r)...)
		switch {
		case esc:
			esc = false
		case r == '^':
			esc = true
		case r == '{':
			depth++
		case r == '}':
			depth--
			if depth == 0 {
				return lexsend(err, tokens, token{Kind: stringToken, Value: string(b), Line: line, Col: col}), nline, ncol
			}
		}
	}
}

// lexChar lexes a #"c" character literal.
func lexChar(src *bufio.Reader, tokens chan<- token, line, col int) (lexFn, int, int) {
	b := make([]byte, 2, 6)
	src.Read(b)
	ncol := col + 2
	esc := false
	for {
		r, _, err := src.ReadRune()
		if err != nil {
			if err == io.EOF {
				err = io.ErrUnexpectedEOF
			}
			tokens <- token{
				Kind:  badToken,
				Value: string(b),
				Err:   err,
				Line:  line,
				Col:   col,
			}
			return nil, line, ncol
		}
		ncol++
		b = append(b, string(r)...)
		if r == '^' {
			esc = !esc
		} else if r == '"' && !esc {
			return lexsend(err, tokens, token{Kind: charToken, Value: string(b), Line: line, Col: col}), line, ncol
		} else {
			esc = false
		}
	}
}
