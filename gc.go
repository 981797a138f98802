package ren

import (
	"sync/atomic"

	"github.com/zephyrtronium/contains"
)

// Ren has its own mark-and-sweep collector over the series/context pool. Go's
// collector manages the host memory, but script-visible lifetime, such as when
// a series stops being valid, follows reachability from the interpreter's
// roots, traced here.

// nodecounter is the global counter for collector node IDs.
var nodecounter uintptr

// nextNode returns a unique ID for a new collector node.
func nextNode() uintptr {
	return atomic.AddUintptr(&nodecounter, 1)
}

// gcState carries one mark phase: the visited set and the worklists.
type gcState struct {
	visited contains.Set
	series  []*Series
	ctxs    []*Context
}

// collectEvery is the default number of node allocations between automatic
// collection passes.
const collectEvery = 4096

func (vm *VM) addSeries(s *Series) {
	vm.seriesPool = append(vm.seriesPool, s)
	vm.allocs++
}

func (vm *VM) addContext(c *Context) {
	vm.ctxPool = append(vm.ctxPool, c)
	vm.allocs++
}

// PushGuard protects a value from collection while it is held only on the Go
// stack, typically across a nested evaluation. Pair with PopGuard.
func (vm *VM) PushGuard(v Value) {
	vm.guard = append(vm.guard, v)
}

// PopGuard releases the most recent guard.
func (vm *VM) PopGuard() {
	vm.guard = vm.guard[:len(vm.guard)-1]
}

// maybeCollect runs a collection pass if allocation pressure crossed the
// threshold. It is called only at evaluator step boundaries, never in the
// middle of constructing a value, so the extra roots are the only values that
// can be live without being reachable from a frame or guard.
func (vm *VM) maybeCollect(extra ...Value) {
	if vm.gcOff || vm.allocs < vm.gcThreshold {
		return
	}
	for _, v := range extra {
		vm.PushGuard(v)
	}
	vm.Recycle()
	vm.guard = vm.guard[:len(vm.guard)-len(extra)]
}

// Recycle forces a full mark-and-sweep pass and returns the number of nodes
// freed. A pass itself cannot fail.
func (vm *VM) Recycle() int {
	g := &gcState{}
	// Roots: the global contexts, every live frame's locals, and the guard
	// stack of values under construction.
	g.markContext(vm.Lib)
	g.markContext(vm.User)
	g.markContext(vm.Sys)
	for f := vm.frame; f != nil; f = f.prev {
		g.markFrame(f)
	}
	for _, v := range vm.guard {
		g.markValue(v)
	}
	if vm.nearSeries != nil {
		g.markSeries(vm.nearSeries)
	}
	// Trace with an explicit worklist; cyclic aggregates terminate because
	// the visited set admits each node once.
	for len(g.series) > 0 || len(g.ctxs) > 0 {
		if n := len(g.series); n > 0 {
			s := g.series[n-1]
			g.series = g.series[:n-1]
			for i := range s.cells {
				g.markValue(s.cells[i])
			}
			continue
		}
		n := len(g.ctxs)
		c := g.ctxs[n-1]
		g.ctxs = g.ctxs[:n-1]
		for i := range c.vals {
			g.markValue(c.vals[i])
		}
		if c.parent != nil {
			g.markContext(c.parent)
		}
		if c.act != nil {
			g.markAction(c.act)
		}
		if c.frame != nil {
			g.markFrame(c.frame)
		}
	}
	freed := vm.sweep(g)
	vm.allocs = 0
	return freed
}

// markValue queues the collector nodes a cell references.
func (g *gcState) markValue(v Value) {
	switch v.Kind {
	case StringKind, BlockKind, GroupKind, PathKind, SetPathKind:
		g.markSeries(v.Series)
		g.markBinding(v.Bind)
	case ObjectKind:
		g.markContext(v.Ctx)
	case FrameKind:
		g.markFrame(v.Frame)
	case ActionKind:
		g.markAction(v.Act)
	case ErrorKind:
		if v.Err != nil {
			g.markValue(v.Err.Near)
		}
	case WordKind, SetWordKind, GetWordKind, LitWordKind, RefinementKind:
		g.markBinding(v.Bind)
	}
}

func (g *gcState) markBinding(b Binding) {
	if b.Ctx != nil {
		g.markContext(b.Ctx)
	}
	if b.Rel != nil {
		g.markAction(b.Rel)
	}
}

func (g *gcState) markSeries(s *Series) {
	if s == nil || !g.visited.Add(s.id) {
		return
	}
	if s.wide == CellWide {
		g.series = append(g.series, s)
	}
}

func (g *gcState) markContext(c *Context) {
	if c == nil || !g.visited.Add(c.id) {
		return
	}
	g.ctxs = append(g.ctxs, c)
}

func (g *gcState) markFrame(f *Frame) {
	if f == nil {
		return
	}
	g.markContext(f.locals)
	g.markContext(f.caller)
	g.markAction(f.act)
	if f.nearSeries != nil {
		g.markSeries(f.nearSeries)
	}
}

func (g *gcState) markAction(a *Action) {
	if a == nil || !g.visited.Add(a.id) {
		return
	}
	if a.Spec != nil {
		g.markSeries(a.Spec)
	}
	if a.Body != nil {
		g.markSeries(a.Body)
	}
	if a.Binding != nil {
		g.markContext(a.Binding)
	}
}

// sweep reclaims every pooled node the mark phase did not reach. Freed series
// are cleared and flagged dead so that a stale alias fails loudly.
func (vm *VM) sweep(g *gcState) int {
	freed := 0
	live := vm.seriesPool[:0]
	for _, s := range vm.seriesPool {
		// Add reports true for an ID the mark phase never reached.
		if !g.visited.Add(s.id) {
			live = append(live, s)
			continue
		}
		s.cells = nil
		s.bytes = nil
		s.dead = true
		freed++
	}
	vm.seriesPool = live
	livec := vm.ctxPool[:0]
	for _, c := range vm.ctxPool {
		if !g.visited.Add(c.id) {
			livec = append(livec, c)
			continue
		}
		c.syms = nil
		c.vals = nil
		c.parent = nil
		c.act = nil
		c.frame = nil
		freed++
	}
	vm.ctxPool = livec
	return freed
}
