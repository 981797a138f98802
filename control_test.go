package ren_test

import (
	"testing"

	"github.com/renlang/ren"
	"github.com/renlang/ren/testutils"
)

func TestConditionals(t *testing.T) {
	cases := map[string]map[string]testutils.SourceTestCase{
		"if": {
			"true":   {Source: `if 1 < 2 [3]`, Pass: testutils.PassEqual(ren.IntValue(3))},
			"false":  {Source: `if 2 < 1 [3]`, Pass: testutils.PassEqual(ren.None)},
			"none":   {Source: `if none [3]`, Pass: testutils.PassEqual(ren.None)},
			"truthy": {Source: `if 0 [3]`, Pass: testutils.PassEqual(ren.IntValue(3))},
		},
		"either": {
			"true":  {Source: `either true [1] [2]`, Pass: testutils.PassEqual(ren.IntValue(1))},
			"false": {Source: `either false [1] [2]`, Pass: testutils.PassEqual(ren.IntValue(2))},
		},
		"unless": {
			"false": {Source: `unless false [7]`, Pass: testutils.PassEqual(ren.IntValue(7))},
			"true":  {Source: `unless true [7]`, Pass: testutils.PassEqual(ren.None)},
		},
		"all": {
			"allTruthy": {Source: `all [1 2 3]`, Pass: testutils.PassEqual(ren.IntValue(3))},
			"shortNone": {Source: `all [1 none 3]`, Pass: testutils.PassEqual(ren.None)},
			"empty":     {Source: `all []`, Pass: testutils.PassIdentical(ren.True)},
		},
		"any": {
			"firstTruthy": {Source: `any [none false 5]`, Pass: testutils.PassEqual(ren.IntValue(5))},
			"noneTruthy":  {Source: `any [none false]`, Pass: testutils.PassEqual(ren.None)},
		},
		"not": {
			"none":  {Source: `not none`, Pass: testutils.PassIdentical(ren.True)},
			"value": {Source: `not 1`, Pass: testutils.PassIdentical(ren.False)},
		},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			for name, s := range c {
				t.Run(name, s.TestFunc("TestConditionals"))
			}
		})
	}
}

func TestLoops(t *testing.T) {
	cases := map[string]map[string]testutils.SourceTestCase{
		"loop": {
			"result":      {Source: `loop 3 [1]`, Pass: testutils.PassEqual(ren.IntValue(1))},
			"count":       {Source: `ctl1: 0 loop 5 [ctl1: ctl1 + 1] ctl1`, Pass: testutils.PassEqual(ren.IntValue(5))},
			"zero":        {Source: `loop 0 [1]`, Pass: testutils.PassUnset()},
			"break":       {Source: `loop 3 [break]`, Pass: testutils.PassEqual(ren.None)},
			"breakReturn": {Source: `loop 1 [break/return 5 2]`, Pass: testutils.PassEqual(ren.IntValue(5))},
			"continue":    {Source: `ctl2: 0 loop 3 [continue ctl2: ctl2 + 1] ctl2`, Pass: testutils.PassEqual(ren.IntValue(0))},
		},
		"repeat": {
			"last": {Source: `repeat i 4 [i]`, Pass: testutils.PassEqual(ren.IntValue(4))},
			"sum":  {Source: `ctl3: 0 repeat i 5 [ctl3: ctl3 + i] ctl3`, Pass: testutils.PassEqual(ren.IntValue(15))},
			"isolated": {
				// The loop word lives in its own context, not the script's.
				Source: `i: 99 repeat i 3 [i] i`,
				Pass:   testutils.PassEqual(ren.IntValue(99)),
			},
		},
		"foreach": {
			"single": {Source: `foreach v [1 2 3] [v]`, Pass: testutils.PassEqual(ren.IntValue(3))},
			"pair":   {Source: `ctl4: 0 foreach [a b] [1 2 3 4] [ctl4: ctl4 + a + b] ctl4`, Pass: testutils.PassEqual(ren.IntValue(10))},
			"string": {Source: `foreach ch "ab" [ch]`, Pass: testutils.PassEqual(ren.CharValue('b'))},
			"badWords": {
				Source: `foreach [1] [1 2] [1]`,
				Pass:   testutils.PassError("script", "expect-arg"),
			},
		},
		"forall": {
			"positions": {Source: `ctl5: [1 2 3] ctl6: 0 forall ctl5 [ctl6: ctl6 + first ctl5] ctl6`, Pass: testutils.PassEqual(ren.IntValue(6))},
			"restores":  {Source: `ctl7: [1 2 3] forall ctl7 [ctl7] index? ctl7`, Pass: testutils.PassEqual(ren.IntValue(1))},
		},
		"while": {
			"counts": {Source: `ctl8: 0 while [ctl8 < 5] [ctl8: ctl8 + 1] ctl8`, Pass: testutils.PassEqual(ren.IntValue(5))},
			"never":  {Source: `while [false] [1]`, Pass: testutils.PassUnset()},
			"break":  {Source: `ctl9: 0 while [true] [ctl9: ctl9 + 1 if ctl9 = 3 [break]] ctl9`, Pass: testutils.PassEqual(ren.IntValue(3))},
		},
		"until": {
			"counts": {Source: `ctl10: 0 until [ctl10: ctl10 + 1 ctl10 > 2] ctl10`, Pass: testutils.PassEqual(ren.IntValue(3))},
		},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			for name, s := range c {
				t.Run(name, s.TestFunc("TestLoops"))
			}
		})
	}
}

func TestCatchThrow(t *testing.T) {
	cases := map[string]testutils.SourceTestCase{
		"basic":      {Source: `catch [throw 1 2]`, Pass: testutils.PassEqual(ren.IntValue(1))},
		"noThrow":    {Source: `catch [1 2]`, Pass: testutils.PassEqual(ren.IntValue(2))},
		"named":      {Source: `catch/name [throw/name 10 'alarm] 'alarm`, Pass: testutils.PassEqual(ren.IntValue(10))},
		"nameMiss":   {Source: `catch [throw/name 1 'other 2]`, Pass: testutils.PassControl(ren.IntValue(1), ren.ThrowStop)},
		"plainMiss":  {Source: `catch/name [throw 1] 'alarm`, Pass: testutils.PassControl(ren.IntValue(1), ren.ThrowStop)},
		"nested":     {Source: `catch [catch/name [throw 5] 'x]`, Pass: testutils.PassEqual(ren.IntValue(5))},
		"throughFns": {Source: `ctt1: func [] [throw 9] catch [ctt1 2]`, Pass: testutils.PassEqual(ren.IntValue(9))},
		"uncaught":   {Source: `throw 3`, Pass: testutils.PassControl(ren.IntValue(3), ren.ThrowStop)},
	}
	for name, c := range cases {
		t.Run(name, c.TestFunc("TestCatchThrow"))
	}
}

func TestTryAttempt(t *testing.T) {
	cases := map[string]testutils.SourceTestCase{
		"tryError":    {Source: `try [1 / 0]`, Pass: testutils.PassKind(ren.ErrorKind)},
		"tryOK":       {Source: `try [1 + 1]`, Pass: testutils.PassEqual(ren.IntValue(2))},
		"tryID":       {Source: `cta1: try [1 / 0] cta1/id`, Pass: testutils.PassMold("zero-divide")},
		"tryCategory": {Source: `cta2: try [1 / 0] cta2/category`, Pass: testutils.PassMold("math")},
		"attemptErr":  {Source: `attempt [1 / 0]`, Pass: testutils.PassEqual(ren.None)},
		"attemptOK":   {Source: `attempt [3]`, Pass: testutils.PassEqual(ren.IntValue(3))},
		"reRaise":     {Source: `do try [1 / 0]`, Pass: testutils.PassError("math", "zero-divide")},
		"throwFlies":  {Source: `catch [try [throw 4]]`, Pass: testutils.PassEqual(ren.IntValue(4))},
	}
	for name, c := range cases {
		t.Run(name, c.TestFunc("TestTryAttempt"))
	}
}

func TestDoReduceCompose(t *testing.T) {
	cases := map[string]testutils.SourceTestCase{
		"doBlock":      {Source: `do [1 + 2]`, Pass: testutils.PassEqual(ren.IntValue(3))},
		"doString":     {Source: `do "1 + 2"`, Pass: testutils.PassEqual(ren.IntValue(3))},
		"doValue":      {Source: `do 7`, Pass: testutils.PassEqual(ren.IntValue(7))},
		"reduce":       {Source: `reduce [1 + 2 3]`, Pass: testutils.PassMold("[3 3]")},
		"reduceWords":  {Source: `drc1: 5 reduce [drc1 drc1 + 1]`, Pass: testutils.PassMold("[5 6]")},
		"compose":      {Source: `compose [a (1 + 2) b]`, Pass: testutils.PassMold("[a 3 b]")},
		"composeLit":   {Source: `compose [a [b] 1]`, Pass: testutils.PassMold("[a [b] 1]")},
		"splice":       {Source: `compose [(reduce [1 2]) 3]`, Pass: testutils.PassMold("[1 2 3]")},
		"only":         {Source: `compose/only [(reduce [1 2]) 3]`, Pass: testutils.PassMold("[[1 2] 3]")},
		"deep":         {Source: `compose/deep [a [b (1 + 1)]]`, Pass: testutils.PassMold("[a [b 2]]")},
		"shallowInner": {Source: `compose [a [b (1 + 1)]]`, Pass: testutils.PassMold("[a [b (1 + 1)]]")},
	}
	for name, c := range cases {
		t.Run(name, c.TestFunc("TestDoReduceCompose"))
	}
}

func TestFunctions(t *testing.T) {
	cases := map[string]map[string]testutils.SourceTestCase{
		"basics": {
			"apply":     {Source: `fn1: func [x] [x * 2] fn1 5`, Pass: testutils.PassEqual(ren.IntValue(10))},
			"does":      {Source: `fn2: does [42] fn2`, Pass: testutils.PassEqual(ren.IntValue(42))},
			"twoArgs":   {Source: `fn3: func [a b] [a - b] fn3 10 4`, Pass: testutils.PassEqual(ren.IntValue(6))},
			"typed":     {Source: `fn4: func [n [integer!]] [n] fn4 "s"`, Pass: testutils.PassError("script", "expect-arg")},
			"litParam":  {Source: `fn5: func ['w] [w] fn5 hello`, Pass: testutils.PassMold("hello")},
			"docString": {Source: `fn6: func ["doubles" x "the value"] [x * 2] fn6 3`, Pass: testutils.PassEqual(ren.IntValue(6))},
			"badSpec":   {Source: `func [1] [1]`, Pass: testutils.PassError("script", "bad-func-def")},
		},
		"recursion": {
			"factorial": {Source: `fact: func [n] [either n < 2 [1] [n * fact n - 1]] fact 5`, Pass: testutils.PassEqual(ren.IntValue(120))},
			"fibonacci": {Source: `fib: func [n] [either n < 2 [n] [(fib n - 1) + fib n - 2]] fib 10`, Pass: testutils.PassEqual(ren.IntValue(55))},
		},
		"isolation": {
			"shadows": {Source: `fni1: 1 fni2: func [fni1] [fni1] reduce [fni2 9 fni1]`, Pass: testutils.PassMold("[9 1]")},
			"perCall": {Source: `fni3: func [n] [either n = 0 [0] [fni3 n - 1 n]] fni3 3`, Pass: testutils.PassEqual(ren.IntValue(3))},
		},
		"refinements": {
			"inactive": {Source: `fnr1: func [a /double] [either double [a * 2] [a]] fnr1 3`, Pass: testutils.PassEqual(ren.IntValue(3))},
			"active":   {Source: `fnr2: func [a /double] [either double [a * 2] [a]] fnr2/double 3`, Pass: testutils.PassEqual(ren.IntValue(6))},
			"skipArgs": {Source: `fnr3: func [a /with b] [either with [a + b] [a]] reduce [fnr3 1 fnr3/with 1 2]`, Pass: testutils.PassMold("[1 3]")},
		},
		"locals": {
			"local":     {Source: `fnl1: func [a /local t] [t: a + 1 t] fnl1 4`, Pass: testutils.PassEqual(ren.IntValue(5))},
			"unsetFree": {Source: `fnl2: func [/local t] [unset? get/any 'x-never-set-local] fnl2`, Pass: testutils.PassError("script", "not-bound")},
		},
		"closures": {
			"capture": {Source: `mkc1: func [n] [func [] [n]] mkc2: mkc1 5 mkc3: mkc1 7 reduce [mkc2 mkc3]`, Pass: testutils.PassMold("[5 7]")},
			"counter": {Source: `mkc4: func [n] [does [n: n + 1]] mkc5: mkc4 0 mkc5 mkc5 mkc5`, Pass: testutils.PassEqual(ren.IntValue(3))},
		},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			for name, s := range c {
				t.Run(name, s.TestFunc("TestFunctions"))
			}
		})
	}
}

func TestDefinitionalReturn(t *testing.T) {
	cases := map[string]testutils.SourceTestCase{
		"early": {Source: `rt1: func [x] [return x 99] rt1 7`, Pass: testutils.PassEqual(ren.IntValue(7))},
		"loop":  {Source: `rt2: func [] [loop 10 [return 3] 99] rt2`, Pass: testutils.PassEqual(ren.IntValue(3))},
		"escapes": {
			// The block travels into another function, yet return still
			// unwinds the call that created it.
			Source: `rt3: func [b] [do b 11] rt4: func [] [rt3 [return 5] 99] rt4`,
			Pass:   testutils.PassEqual(ren.IntValue(5)),
		},
		"perInvocation": {Source: `rt5: func [n] [if n = 0 [return 0] rt5 n - 1 n] rt5 2`, Pass: testutils.PassEqual(ren.IntValue(2))},
		"bareTail":      {Source: `rt6: func [x] [if x [return] 5] rt6 true`, Pass: testutils.PassUnset()},
		"bareTailOff":   {Source: `rt7: func [x] [if x [return] 5] rt7 false`, Pass: testutils.PassEqual(ren.IntValue(5))},
		"topLevel":      {Source: `return 1`, Pass: testutils.PassError("script", "not-bound")},
	}
	for name, c := range cases {
		t.Run(name, c.TestFunc("TestDefinitionalReturn"))
	}
}

func TestRedo(t *testing.T) {
	cases := map[string]testutils.SourceTestCase{
		"countdown": {
			Source: `rd1: func [n] [either n > 0 [n: n - 1 redo current-frame] [n]] rd1 3`,
			Pass:   testutils.PassEqual(ren.IntValue(0)),
		},
		"deadFrame": {
			Source: `rd2: func [] [current-frame] redo rd2`,
			Pass:   testutils.PassError("script", "bad-frame"),
		},
		"localsCleared": {
			// Each pass starts with fresh locals, not the last pass's.
			Source: `rd3: func [n /local l] [rd3v: value? 'l l: 1 either n > 0 [n: n - 1 redo current-frame] [rd3v]] rd3 2`,
			Pass:   testutils.PassIdentical(ren.False),
		},
		"typesRechecked": {
			Source: `rd4: func [n [integer!]] [either n = 0 [0] [n: "x" redo current-frame]] rd4 1`,
			Pass:   testutils.PassError("script", "expect-arg"),
		},
		"topLevel": {Source: `current-frame`, Pass: testutils.PassError("script", "bad-frame")},
	}
	for name, c := range cases {
		t.Run(name, c.TestFunc("TestRedo"))
	}
}

func TestQuitHalt(t *testing.T) {
	vm := testutils.TestingVM()
	v, stop := vm.DoString(`quit/return 3`, "TestQuitHalt")
	if stop != ren.QuitStop {
		t.Fatalf("quit gave %s (%v)", vm.Mold(v), stop)
	}
	if vm.ExitStatus != 3 {
		t.Errorf("quit/return 3 set exit status %d", vm.ExitStatus)
	}
	v, stop = vm.DoString(`quit`, "TestQuitHalt")
	if stop != ren.QuitStop || vm.ExitStatus != 0 {
		t.Errorf("quit gave %s (%v) with status %d", vm.Mold(v), stop, vm.ExitStatus)
	}
	_, stop = vm.DoString(`halt 99`, "TestQuitHalt")
	if stop != ren.HaltStop {
		t.Errorf("halt gave %v, want HaltStop", stop)
	}
}
