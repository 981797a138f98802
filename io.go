package ren

import "fmt"

func (vm *VM) initIO() {
	vm.AddNative("print value", IOPrint)
	vm.AddNative("prin value", IOPrin)
	vm.AddNative("probe value", IOProbe)
	vm.AddNative("mold value /only", IOMold)
	vm.AddNative("form value", IOForm)
	vm.AddNative("load source [string!] /header", IOLoad)
	vm.AddNative("transcode source [string!]", IOTranscode)
	vm.AddNative("source 'word [word!]", IOSource)
	vm.AddNative("help 'word [word!]", IOHelp)
}

// printForm renders a value the way print shows it: blocks are reduced
// first, so their expressions print by result.
func (vm *VM) printForm(v Value) (string, Value, Stop) {
	if v.Kind == BlockKind {
		out := vm.NewBlock(v.Series.Len() - v.Index)
		vm.PushGuard(out)
		defer vm.PopGuard()
		idx := v.Index
		for idx < v.Series.Len() {
			r, idx2, stop := vm.DoNext(v.Series, idx, v.Bind.Ctx)
			if stop != NoStop {
				return "", r, stop
			}
			out.Series.Append(r)
			idx = idx2
		}
		return vm.Form(out), Unset, NoStop
	}
	return vm.Form(v), Unset, NoStop
}

// IOPrint implements the print native.
//
// print writes the formed value and a newline. A block argument is reduced
// and its results printed separated by spaces.
func IOPrint(vm *VM, f *Frame) (Value, Stop) {
	s, ev, stop := vm.printForm(f.Arg(0))
	if stop != NoStop {
		return ev, stop
	}
	fmt.Fprintln(vm.Out, s)
	return Unset, NoStop
}

// IOPrin implements the prin native.
//
// prin is print without the newline.
func IOPrin(vm *VM, f *Frame) (Value, Stop) {
	s, ev, stop := vm.printForm(f.Arg(0))
	if stop != NoStop {
		return ev, stop
	}
	fmt.Fprint(vm.Out, s)
	return Unset, NoStop
}

// IOProbe implements the probe native.
//
// probe writes the molded value and yields the value, so it can be spliced
// into an expression to watch it.
func IOProbe(vm *VM, f *Frame) (Value, Stop) {
	v := f.Arg(0)
	fmt.Fprintln(vm.Out, vm.Mold(v))
	return v, NoStop
}

// IOMold implements the mold native.
//
// mold yields a string of the value as loadable source. mold/only renders a
// block's contents without the outer brackets.
func IOMold(vm *VM, f *Frame) (Value, Stop) {
	v := f.Arg(0)
	if f.Flag(1) && (v.Kind == BlockKind || v.Kind == GroupKind) {
		m := &molder{vm: vm, seen: make(map[uintptr]bool)}
		m.moldSeq(v, "", "", " ")
		return vm.NewString(m.b.String()), NoStop
	}
	return vm.NewString(vm.Mold(v)), NoStop
}

// IOForm implements the form native.
//
// form yields a string of the value for human reading.
func IOForm(vm *VM, f *Frame) (Value, Stop) {
	return vm.NewString(vm.Form(f.Arg(0))), NoStop
}

// IOLoad implements the load native.
//
// load parses source text into a block of unbound values without evaluating
// anything. load/header yields a two-element block of the script header (or
// none) and the body positioned past it.
func IOLoad(vm *VM, f *Frame) (Value, Stop) {
	v := f.Arg(0)
	src := v.Series.String()[v.Index:]
	if f.Flag(1) {
		header, body, stop := vm.LoadScript(src, "load")
		if stop != NoStop {
			return body, stop
		}
		out := vm.NewBlock(2)
		out.Series.Append(header, body)
		return out, NoStop
	}
	return vm.LoadString(src, "load")
}

// IOTranscode implements the transcode native.
//
// transcode is load without header handling: the bare token-to-value pass.
func IOTranscode(vm *VM, f *Frame) (Value, Stop) {
	v := f.Arg(0)
	return vm.LoadString(v.Series.String()[v.Index:], "transcode")
}

// sourceText renders a value the way source shows it: functions as the func
// call that would rebuild them, everything else molded.
func (vm *VM) sourceText(v Value) string {
	if v.Kind == ActionKind && v.Act.Body != nil {
		spec := Value{Kind: BlockKind, Series: v.Act.Spec}
		body := Value{Kind: BlockKind, Series: v.Act.Body}
		return "func " + vm.Mold(spec) + " " + vm.Mold(body)
	}
	return vm.Mold(v)
}

// IOSource implements the source native.
//
// source prints a word and the definition it names.
func IOSource(vm *VM, f *Frame) (Value, Stop) {
	w := f.Arg(0)
	ctx, slot, ok := resolveBinding(w.Bind, f.caller)
	if !ok {
		return vm.scriptError("not-bound", "%s is not bound to a context", w.Sym.Text)
	}
	fmt.Fprintf(vm.Out, "%s: %s\n", w.Sym.Text, vm.sourceText(*ctx.Slot(slot)))
	return Unset, NoStop
}

// IOHelp implements the help native.
//
// help prints a word's datatype and definition on one line.
func IOHelp(vm *VM, f *Frame) (Value, Stop) {
	w := f.Arg(0)
	ctx, slot, ok := resolveBinding(w.Bind, f.caller)
	if !ok {
		fmt.Fprintf(vm.Out, "%s is not bound\n", w.Sym.Text)
		return Unset, NoStop
	}
	v := *ctx.Slot(slot)
	fmt.Fprintf(vm.Out, "%s is %s: %s\n", w.Sym.Text, v.Kind, vm.sourceText(v))
	return Unset, NoStop
}
