package ren_test

import (
	"testing"

	"github.com/renlang/ren"
	"github.com/renlang/ren/testutils"
)

func TestEvalBasics(t *testing.T) {
	vm := testutils.TestingVM()
	cases := map[string]map[string]testutils.SourceTestCase{
		"inert": {
			"integer": {Source: `3`, Pass: testutils.PassEqual(ren.IntValue(3))},
			"decimal": {Source: `2.5`, Pass: testutils.PassEqual(ren.DecimalValue(2.5))},
			"string":  {Source: `"hi"`, Pass: testutils.PassEqual(vm.NewString("hi"))},
			"char":    {Source: `#"a"`, Pass: testutils.PassEqual(ren.CharValue('a'))},
			"block":   {Source: `[1 2]`, Pass: testutils.PassMold("[1 2]")},
			"none":    {Source: `none`, Pass: testutils.PassEqual(ren.None)},
			"logic":   {Source: `true`, Pass: testutils.PassIdentical(ren.True)},
			"empty":   {Source: ``, Pass: testutils.PassUnset()},
		},
		"words": {
			"setAndGet": {Source: `evw1: 10 evw1`, Pass: testutils.PassEqual(ren.IntValue(10))},
			"getWord":   {Source: `evw2: 5 :evw2`, Pass: testutils.PassEqual(ren.IntValue(5))},
			"litWord":   {Source: `'foo`, Pass: testutils.PassMold("foo")},
			"setResult": {Source: `evw3: 7`, Pass: testutils.PassEqual(ren.IntValue(7))},
			"unbound":   {Source: `no-such-word-at-all`, Pass: testutils.PassError("script", "not-bound")},
			"needValue": {Source: `evw4: ()`, Pass: testutils.PassError("script", "need-value")},
			"caseFold":  {Source: `EvW5: 3 evw5`, Pass: testutils.PassEqual(ren.IntValue(3))},
		},
		"groups": {
			"single": {Source: `(1 + 2)`, Pass: testutils.PassEqual(ren.IntValue(3))},
			"last":   {Source: `(3 4)`, Pass: testutils.PassEqual(ren.IntValue(4))},
			"empty":  {Source: `type? ()`, Pass: testutils.PassMold("unset!")},
		},
		"enfix": {
			"leftAssoc":  {Source: `1 + 2 * 3`, Pass: testutils.PassEqual(ren.IntValue(9))},
			"chain":      {Source: `10 - 3 - 2`, Pass: testutils.PassEqual(ren.IntValue(5))},
			"grouped":    {Source: `1 + (2 * 3)`, Pass: testutils.PassEqual(ren.IntValue(7))},
			"comparison": {Source: `1 + 1 = 2`, Pass: testutils.PassIdentical(ren.True)},
			"decimal":    {Source: `0.1 + 0.2 = 0.3`, Pass: testutils.PassIdentical(ren.True)},
			// A prefix argument is a full expression, so the operator still
			// finishes it; only an operator's own right operand is bare.
			"prefixArg": {Source: `add 1 2 * 3`, Pass: testutils.PassEqual(ren.IntValue(7))},
			"condition": {Source: `if 2 - 1 = 1 [5]`, Pass: testutils.PassEqual(ren.IntValue(5))},
		},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			for name, s := range c {
				t.Run(name, s.TestFunc("TestEvalBasics"))
			}
		})
	}
}

func TestEvalPaths(t *testing.T) {
	cases := map[string]map[string]testutils.SourceTestCase{
		"pick": {
			"blockIndex":  {Source: `evp1: [3 4 5] evp1/2`, Pass: testutils.PassEqual(ren.IntValue(4))},
			"outOfRange":  {Source: `evp2: [1] evp2/9`, Pass: testutils.PassEqual(ren.None)},
			"association": {Source: `evp3: [a 1 b 2] evp3/b`, Pass: testutils.PassEqual(ren.IntValue(2))},
			"string":      {Source: `evp4: "abc" evp4/3`, Pass: testutils.PassEqual(ren.CharValue('c'))},
			"nested":      {Source: `evp5: [x [y 9]] evp5/x/y`, Pass: testutils.PassEqual(ren.IntValue(9))},
			"group":       {Source: `evp6: [10 20 30] evp6/(1 + 1)`, Pass: testutils.PassEqual(ren.IntValue(20))},
			"object":      {Source: `evp7: make object! [a: 1] evp7/a`, Pass: testutils.PassEqual(ren.IntValue(1))},
			"badField":    {Source: `evp8: make object! [a: 1] evp8/b`, Pass: testutils.PassError("script", "invalid-path")},
		},
		"set": {
			"blockPoke":  {Source: `evs1: [1 2 3] evs1/2: 9 evs1`, Pass: testutils.PassMold("[1 9 3]")},
			"object":     {Source: `evs2: make object! [a: 1 b: 2] evs2/b: 5 evs2/b`, Pass: testutils.PassEqual(ren.IntValue(5))},
			"badField":   {Source: `evs3: make object! [a: 1] evs3/c: 2`, Pass: testutils.PassError("script", "invalid-path")},
			"outOfRange": {Source: `evs4: [1] evs4/5: 2`, Pass: testutils.PassError("script", "out-of-range")},
			"string":     {Source: `evs5: "abc" evs5/2: #"x" evs5`, Pass: testutils.PassMold(`"axc"`)},
			"result":     {Source: `evs6: [1 2] evs6/1: 8`, Pass: testutils.PassEqual(ren.IntValue(8))},
		},
		"refinement": {
			"activate": {Source: `copy/part [1 2 3 4] 2`, Pass: testutils.PassMold("[1 2]")},
			"missing":  {Source: `copy/nonesuch [1]`, Pass: testutils.PassError("script", "no-refine")},
		},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			for name, s := range c {
				t.Run(name, s.TestFunc("TestEvalPaths"))
			}
		})
	}
}

func TestEvalArgumentErrors(t *testing.T) {
	cases := map[string]testutils.SourceTestCase{
		"missingArg": {Source: `add 1`, Pass: testutils.PassError("script", "no-arg")},
		"wrongType":  {Source: `add 1 "two"`, Pass: testutils.PassError("script", "expect-arg")},
		"unsetTyped": {Source: `add 1 ()`, Pass: testutils.PassError("script", "expect-arg")},
		"unsetArg":   {Source: `do ()`, Pass: testutils.PassError("script", "no-arg")},
	}
	for name, c := range cases {
		t.Run(name, c.TestFunc("TestEvalArgumentErrors"))
	}
}

func TestInterrupt(t *testing.T) {
	vm := testutils.TestingVM()
	vm.Interrupt()
	_, stop := vm.DoString(`1 + 1`, "TestInterrupt")
	if stop != ren.HaltStop {
		t.Errorf("interrupted evaluation gave %v, want HaltStop", stop)
	}
	// The interrupt is consumed; the VM evaluates normally again.
	v, stop := vm.DoString(`1 + 1`, "TestInterrupt")
	if stop != ren.NoStop || v.Int != 2 {
		t.Errorf("evaluation after interrupt gave %s (%v)", vm.Mold(v), stop)
	}
}

func TestErrorNear(t *testing.T) {
	vm := testutils.TestingVM()
	v, stop := vm.DoString(`1 + 2 no-such-word-here 4`, "TestErrorNear")
	if stop != ren.ErrorStop || v.Err == nil {
		t.Fatalf("expected an error, got %s (%v)", vm.Mold(v), stop)
	}
	if v.Err.Near.Kind != ren.BlockKind {
		t.Fatalf("error near is %s, want a block", v.Err.Near.Kind)
	}
	if got := vm.Mold(v.Err.Near); got != "[2 no-such-word-here 4]" {
		t.Errorf("error near molds as %q", got)
	}
}
