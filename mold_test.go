package ren_test

import (
	"strings"
	"testing"

	"github.com/renlang/ren"
	"github.com/renlang/ren/testutils"
)

func TestMold(t *testing.T) {
	cases := map[string]testutils.SourceTestCase{
		"integer":   {Source: `mold 3`, Pass: testutils.PassEqual(testutils.TestingVM().NewString("3"))},
		"decimal":   {Source: `mold 3.0`, Pass: testutils.PassMold(`"3.0"`)},
		"fraction":  {Source: `mold 1.5`, Pass: testutils.PassMold(`"1.5"`)},
		"string":    {Source: `mold "a b"`, Pass: testutils.PassMold(`"^"a b^""`)},
		"escape":    {Source: `mold "a^/b"`, Pass: testutils.PassMold(`"^"a^^/b^""`)},
		"char":      {Source: `mold #"a"`, Pass: testutils.PassMold(`"#^"a^""`)},
		"block":     {Source: `mold [1 [2] "x"]`, Pass: testutils.PassMold(`"[1 [2] ^"x^"]"`)},
		"group":     {Source: `mold first [(1 2)]`, Pass: testutils.PassMold(`"(1 2)"`)},
		"setWord":   {Source: `mold first [a:]`, Pass: testutils.PassMold(`"a:"`)},
		"getWord":   {Source: `mold first [:a]`, Pass: testutils.PassMold(`":a"`)},
		"litWord":   {Source: `mold first ['a]`, Pass: testutils.PassMold(`"'a"`)},
		"refine":    {Source: `mold first [/a]`, Pass: testutils.PassMold(`"/a"`)},
		"path":      {Source: `mold first [a/b/2]`, Pass: testutils.PassMold(`"a/b/2"`)},
		"setPath":   {Source: `mold first [a/b:]`, Pass: testutils.PassMold(`"a/b:"`)},
		"none":      {Source: `mold none`, Pass: testutils.PassMold(`"none"`)},
		"logic":     {Source: `mold true`, Pass: testutils.PassMold(`"true"`)},
		"datatype":  {Source: `mold integer!`, Pass: testutils.PassMold(`"integer!"`)},
		"date":      {Source: `mold 30-Aug-2026`, Pass: testutils.PassMold(`"30-Aug-2026"`)},
		"dateTime":  {Source: `mold 30-Aug-2026/12:30`, Pass: testutils.PassMold(`"30-Aug-2026/12:30:00"`)},
		"object":    {Source: `mold make object! [a: 1]`, Pass: testutils.PassMold(`"make object! [a: 1]"`)},
		"tailEmpty": {Source: `mold tail [1 2]`, Pass: testutils.PassMold(`"[]"`)},
	}
	for name, c := range cases {
		t.Run(name, c.TestFunc("TestMold"))
	}
}

func TestMoldCycles(t *testing.T) {
	cases := map[string]testutils.SourceTestCase{
		"selfBlock": {
			Source: `mc1: [1] append/only mc1 mc1 mold mc1`,
			Pass:   testutils.PassMold(`"[1 [...]]"`),
		},
		"mutual": {
			Source: `mc2: [a] mc3: [b] append/only mc2 mc3 append/only mc3 mc2 mold mc2`,
			Pass:   testutils.PassMold(`"[a [b [...]]]"`),
		},
		"selfObject": {
			Source: `mc4: make object! [me: none] mc4/me: mc4 mold mc4`,
			Pass:   testutils.PassMold(`"make object! [me: make object! [...]]"`),
		},
		"diamondNotCycle": {
			// The same series twice in one block is not a cycle.
			Source: `mc5: [1] mc6: [] append/only mc6 mc5 append/only mc6 mc5 mold mc6`,
			Pass:   testutils.PassMold(`"[[1] [1]]"`),
		},
	}
	for name, c := range cases {
		t.Run(name, c.TestFunc("TestMoldCycles"))
	}
}

func TestForm(t *testing.T) {
	cases := map[string]testutils.SourceTestCase{
		"string": {Source: `form "a b"`, Pass: testutils.PassMold(`"a b"`)},
		"char":   {Source: `form #"x"`, Pass: testutils.PassMold(`"x"`)},
		"block":  {Source: `form [1 "a" b]`, Pass: testutils.PassMold(`"1 a b"`)},
		"nested": {Source: `form [1 [2 3]]`, Pass: testutils.PassMold(`"1 2 3"`)},
		"number": {Source: `form 7`, Pass: testutils.PassMold(`"7"`)},
	}
	for name, c := range cases {
		t.Run(name, c.TestFunc("TestForm"))
	}
}

func TestFormError(t *testing.T) {
	vm := testutils.TestingVM()
	v, stop := vm.DoString(`form try [1 / 0]`, "TestFormError")
	if stop != ren.NoStop {
		t.Fatalf("form try gave %s (%v)", vm.Mold(v), stop)
	}
	got := v.Series.String()
	if !strings.HasPrefix(got, "** math error: ") {
		t.Errorf("formed error starts %q", got)
	}
	if !strings.Contains(got, "** where: ") || !strings.Contains(got, "** near: ") {
		t.Errorf("formed error lacks where/near: %q", got)
	}
}

// TestLoadMoldRoundTrip checks that molded data reloads as an equal value.
func TestLoadMoldRoundTrip(t *testing.T) {
	sources := []string{
		`[1 -2 3.5 x x: :x 'x /only [a b] (c d) p/q "str" #"k" none true 30-Aug-2026]`,
		`[1'000'000 "tab:^-end" {brace "string"} [[deep [deeper]]]]`,
		`["^(2603)" #"^/" #"^@"]`,
	}
	vm := testutils.TestingVM()
	for _, src := range sources {
		v, stop := vm.DoString(`load mold first `+src, "TestLoadMoldRoundTrip")
		if stop != ren.NoStop {
			t.Errorf("round trip of %s failed: %s", src, vm.Form(v))
			continue
		}
		w, stop := vm.DoString(`first `+src, "TestLoadMoldRoundTrip")
		if stop != ren.NoStop {
			t.Fatalf("loading %s failed: %s", src, vm.Form(w))
		}
		// load yields a block holding the reloaded value.
		got := *v.Series.At(0)
		eq, ev, stop := vm.EqualValues(got, w, false)
		if stop != ren.NoStop {
			t.Errorf("comparing round trip of %s failed: %s", src, vm.Form(ev))
			continue
		}
		if !eq {
			t.Errorf("round trip of %s gave %s", src, vm.Mold(got))
		}
	}
}

func TestPrint(t *testing.T) {
	vm := testutils.TestingVM()
	var b strings.Builder
	old := vm.Out
	vm.Out = &b
	defer func() { vm.Out = old }()
	vm.MustDoString(`print "hello"`)
	vm.MustDoString(`print [1 + 1 "x"]`)
	vm.MustDoString(`prin "a" prin "b"`)
	vm.MustDoString(`probe [1 2]`)
	want := "hello\n2 x\nab[1 2]\n"
	if got := b.String(); got != want {
		t.Errorf("printed %q, want %q", got, want)
	}
}
