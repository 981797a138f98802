package ren

import (
	"golang.org/x/text/cases"
)

// A Symbol is an interned word spelling. Two words with the same spelling
// under case folding share one Symbol, so symbol identity is pointer
// identity. The Text of a Symbol preserves the case of the first spelling
// interned.
type Symbol struct {
	// Text is the case-preserving spelling.
	Text string
	// Canon is the case-folded spelling all case variants share.
	Canon string
}

// Sym interns a spelling and returns its Symbol. Symbols live for the life of
// the VM; they are not collected.
func (vm *VM) Sym(text string) *Symbol {
	canon := vm.folder.String(text)
	if s, ok := vm.symbols[canon]; ok {
		return s
	}
	s := &Symbol{Text: text, Canon: canon}
	vm.symbols[canon] = s
	return s
}

// initSymbols prepares the canon table. Unicode case folding comes from
// x/text so that non-ASCII word spellings compare the way strings do.
func (vm *VM) initSymbols() {
	vm.folder = cases.Fold()
	vm.symbols = make(map[string]*Symbol, 256)
}
