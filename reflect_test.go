package ren_test

import (
	"strings"
	"testing"

	"github.com/renlang/ren"
	"github.com/renlang/ren/testutils"
)

func TestSpecBodyOf(t *testing.T) {
	cases := map[string]testutils.SourceTestCase{
		"specOfFunc":   {Source: `spec-of func [a /b c] [a]`, Pass: testutils.PassMold("[a /b c]")},
		"specOfTyped":  {Source: `spec-of func [n [integer!]] [n]`, Pass: testutils.PassMold("[n [integer!]]")},
		"specOfDoes":   {Source: `spec-of does [1]`, Pass: testutils.PassMold("[]")},
		"specOfNative": {Source: `spec-of :either`, Pass: testutils.PassMold("[condition true-block false-block]")},
		"bodyOfFunc":   {Source: `body-of func [n] [n + 1]`, Pass: testutils.PassMold("[n + 1]")},
		"bodyOfNative": {Source: `body-of :either`, Pass: testutils.PassEqual(ren.None)},
		"bodyCopied": {
			// Mutating the reflected body must not change the function.
			Source: `rb1: func [] [1] append body-of :rb1 2 rb1`,
			Pass:   testutils.PassEqual(ren.IntValue(1)),
		},
	}
	for name, c := range cases {
		t.Run(name, c.TestFunc("TestSpecBodyOf"))
	}
}

func TestValueUnbind(t *testing.T) {
	cases := map[string]testutils.SourceTestCase{
		"valueSet":     {Source: `rv1: 3 value? 'rv1`, Pass: testutils.PassIdentical(ren.True)},
		"valueUnbound": {Source: `value? 'never-bound-rv`, Pass: testutils.PassIdentical(ren.False)},
		"valueUnsetSlot": {
			Source: `rv2: func [/local l] [value? 'l] rv2`,
			Pass:   testutils.PassIdentical(ren.False),
		},
		"valueNonWord": {Source: `value? 7`, Pass: testutils.PassIdentical(ren.True)},
		"unbindWord":   {Source: `rv3: 5 value? unbind 'rv3`, Pass: testutils.PassIdentical(ren.False)},
		"unbindBlock": {
			Source: `rv4: 7 rv5: [rv4] unbind rv5 do rv5`,
			Pass:   testutils.PassError("script", "not-bound"),
		},
		"unbindShallow": {
			// Without /deep, nested blocks keep their bindings.
			Source: `rv6: 1 rv7: [[rv6]] unbind rv7 do first rv7`,
			Pass:   testutils.PassEqual(ren.IntValue(1)),
		},
		"unbindDeep": {
			Source: `rv8: 1 rv9: [[rv8]] unbind/deep rv9 error? try [do first rv9]`,
			Pass:   testutils.PassIdentical(ren.True),
		},
		"setUnsetRejected": {
			Source: `rv10: 1 set 'rv10 ()`,
			Pass:   testutils.PassError("script", "need-value"),
		},
		"setAny": {
			Source: `rv11: 1 set/any 'rv11 () value? 'rv11`,
			Pass:   testutils.PassIdentical(ren.False),
		},
	}
	for name, c := range cases {
		t.Run(name, c.TestFunc("TestValueUnbind"))
	}
}

func TestFrameOf(t *testing.T) {
	cases := map[string]testutils.SourceTestCase{
		"inFunction": {Source: `rf1: func [x] [frame-of x] frame? rf1 1`, Pass: testutils.PassIdentical(ren.True)},
		"global":     {Source: `rf2: 2 frame-of rf2`, Pass: testutils.PassEqual(ren.None)},
		"unbound":    {Source: `frame-of never-bound-rf`, Pass: testutils.PassError("script", "not-bound")},
		"slotValue": {
			Source: `rf3: func [x] [frame-of x] rf4: rf3 11 first values-of rf4`,
			Pass:   testutils.PassEqual(ren.IntValue(11)),
		},
	}
	for name, c := range cases {
		t.Run(name, c.TestFunc("TestFrameOf"))
	}
}

func TestForeverComment(t *testing.T) {
	cases := map[string]testutils.SourceTestCase{
		"foreverBreak": {
			Source: `rc1: 0 forever [rc1: rc1 + 1 if rc1 = 3 [break]] rc1`,
			Pass:   testutils.PassEqual(ren.IntValue(3)),
		},
		"foreverValue":  {Source: `forever [break/return 9]`, Pass: testutils.PassEqual(ren.IntValue(9))},
		"commentBlock":  {Source: `comment [anything at all] 5`, Pass: testutils.PassEqual(ren.IntValue(5))},
		"commentInert":  {Source: `rc2: 1 comment rc2 rc2`, Pass: testutils.PassEqual(ren.IntValue(1))},
		"commentUnset":  {Source: `comment [x]`, Pass: testutils.PassUnset()},
	}
	for name, c := range cases {
		t.Run(name, c.TestFunc("TestForeverComment"))
	}
}

func TestCatchQuit(t *testing.T) {
	cases := map[string]testutils.SourceTestCase{
		"code":      {Source: `catch/quit [quit/return 7]`, Pass: testutils.PassEqual(ren.IntValue(7))},
		"default":   {Source: `catch/quit [quit]`, Pass: testutils.PassEqual(ren.IntValue(0))},
		"noCatch":   {Source: `catch [quit]`, Pass: testutils.PassControl(ren.Unset, ren.QuitStop)},
		"normal":    {Source: `catch/quit [4]`, Pass: testutils.PassEqual(ren.IntValue(4))},
		"stillThrows": {
			Source: `catch/quit [catch [throw 6]]`,
			Pass:   testutils.PassEqual(ren.IntValue(6)),
		},
	}
	for name, c := range cases {
		t.Run(name, c.TestFunc("TestCatchQuit"))
	}
}

func TestPower(t *testing.T) {
	cases := map[string]testutils.SourceTestCase{
		"ints":     {Source: `2 ** 10`, Pass: testutils.PassEqual(ren.IntValue(1024))},
		"zeroExp":  {Source: `5 ** 0`, Pass: testutils.PassEqual(ren.IntValue(1))},
		"negBase":  {Source: `-2 ** 3`, Pass: testutils.PassEqual(ren.IntValue(-8))},
		"overflow": {Source: `2 ** 64`, Pass: testutils.PassError("math", "overflow")},
		"decimal":  {Source: `4 ** 0.5`, Pass: testutils.PassMold("2.0")},
		"negExp":   {Source: `2 ** -1`, Pass: testutils.PassMold("0.5")},
	}
	for name, c := range cases {
		t.Run(name, c.TestFunc("TestPower"))
	}
}

func TestMoldOnlyLoadHeader(t *testing.T) {
	cases := map[string]testutils.SourceTestCase{
		"moldOnly":       {Source: `mold/only [1 [2] 3]`, Pass: testutils.PassMold(`"1 [2] 3"`)},
		"moldOnlyScalar": {Source: `mold/only 5`, Pass: testutils.PassMold(`"5"`)},
		"transcode":      {Source: `transcode "1 two [3]"`, Pass: testutils.PassMold("[1 two [3]]")},
		"headerBlock":    {Source: `first load/header "REBOL [] 1 2"`, Pass: testutils.PassMold("[]")},
		"headerBody":     {Source: `second load/header "REBOL [] 1 2"`, Pass: testutils.PassMold("[1 2]")},
		"headerAbsent":   {Source: `first load/header "1 2"`, Pass: testutils.PassEqual(ren.None)},
		"statsSeries":    {Source: `integer? select stats 'series`, Pass: testutils.PassIdentical(ren.True)},
		"statsContexts":  {Source: `integer? select stats 'contexts`, Pass: testutils.PassIdentical(ren.True)},
	}
	for name, c := range cases {
		t.Run(name, c.TestFunc("TestMoldOnlyLoadHeader"))
	}
}

func TestSourceHelp(t *testing.T) {
	vm := testutils.TestingVM()
	var b strings.Builder
	old := vm.Out
	vm.Out = &b
	defer func() { vm.Out = old }()
	vm.MustDoString(`sh1: func [n] [n + 1]`)
	vm.MustDoString(`source sh1`)
	vm.MustDoString(`sh2: 5 help sh2`)
	vm.MustDoString(`help never-bound-sh`)
	want := "sh1: func [n] [n + 1]\n" +
		"sh2 is integer!: 5\n" +
		"never-bound-sh is not bound\n"
	if got := b.String(); got != want {
		t.Errorf("printed %q, want %q", got, want)
	}
}
