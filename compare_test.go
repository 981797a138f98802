package ren_test

import (
	"testing"

	"github.com/renlang/ren"
	"github.com/renlang/ren/testutils"
)

func TestEquality(t *testing.T) {
	cases := map[string]map[string]testutils.SourceTestCase{
		"lax": {
			"ints":       {Source: `1 = 1`, Pass: testutils.PassIdentical(ren.True)},
			"crossKind":  {Source: `1 = 1.0`, Pass: testutils.PassIdentical(ren.True)},
			"strings":    {Source: `"abc" = "ABC"`, Pass: testutils.PassIdentical(ren.True)},
			"chars":      {Source: `#"a" = #"A"`, Pass: testutils.PassIdentical(ren.True)},
			"words":      {Source: `'foo = 'FOO`, Pass: testutils.PassIdentical(ren.True)},
			"wordKinds":  {Source: `equal? 'foo to-word "foo"`, Pass: testutils.PassIdentical(ren.True)},
			"blocks":     {Source: `[1 [2]] = [1 [2]]`, Pass: testutils.PassIdentical(ren.True)},
			"blockDepth": {Source: `[1 2] = [1 [2]]`, Pass: testutils.PassIdentical(ren.False)},
			"notEqual":   {Source: `1 <> 2`, Pass: testutils.PassIdentical(ren.True)},
			"none":       {Source: `none = none`, Pass: testutils.PassIdentical(ren.True)},
			"noneFalse":  {Source: `none = false`, Pass: testutils.PassIdentical(ren.False)},
		},
		"strict": {
			"sameBits":   {Source: `1.5 == 1.5`, Pass: testutils.PassIdentical(ren.True)},
			"caseString": {Source: `"abc" == "ABC"`, Pass: testutils.PassIdentical(ren.False)},
			"crossKind":  {Source: `1 == 1.0`, Pass: testutils.PassIdentical(ren.False)},
			"native":     {Source: `strict-equal? [1] [1]`, Pass: testutils.PassIdentical(ren.True)},
		},
		"same": {
			"aliases":  {Source: `cmp1: [1] cmp2: cmp1 cmp1 =? cmp2`, Pass: testutils.PassIdentical(ren.True)},
			"distinct": {Source: `[1] =? [1]`, Pass: testutils.PassIdentical(ren.False)},
			"copied":   {Source: `cmp3: [1] same? cmp3 copy cmp3`, Pass: testutils.PassIdentical(ren.False)},
			"scalars":  {Source: `same? 2 2`, Pass: testutils.PassIdentical(ren.True)},
		},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			for name, s := range c {
				t.Run(name, s.TestFunc("TestEquality"))
			}
		})
	}
}

func TestDecimalULPs(t *testing.T) {
	cases := map[string]testutils.SourceTestCase{
		// 0.1 + 0.2 is within a few ULPs of 0.3, far inside the lax window.
		"laxNear":    {Source: `0.1 + 0.2 = 0.3`, Pass: testutils.PassIdentical(ren.True)},
		"strictNear": {Source: `0.1 + 0.2 == 0.3`, Pass: testutils.PassIdentical(ren.False)},
		"laxFar":     {Source: `0.1 = 0.2`, Pass: testutils.PassIdentical(ren.False)},
		"signs":      {Source: `0.0 = -0.0`, Pass: testutils.PassIdentical(ren.True)},
	}
	for name, c := range cases {
		t.Run(name, c.TestFunc("TestDecimalULPs"))
	}
}

func TestOrdering(t *testing.T) {
	cases := map[string]testutils.SourceTestCase{
		"lesser":      {Source: `1 < 2`, Pass: testutils.PassIdentical(ren.True)},
		"greater":     {Source: `2 > 3`, Pass: testutils.PassIdentical(ren.False)},
		"lesserEq":    {Source: `2 <= 2`, Pass: testutils.PassIdentical(ren.True)},
		"greaterEq":   {Source: `2 >= 3`, Pass: testutils.PassIdentical(ren.False)},
		"crossNumber": {Source: `1 < 1.5`, Pass: testutils.PassIdentical(ren.True)},
		"strings":     {Source: `"abc" < "ABD"`, Pass: testutils.PassIdentical(ren.True)},
		"chars":       {Source: `#"a" < #"B"`, Pass: testutils.PassIdentical(ren.True)},
		"dates":       {Source: `1-Jan-2026 < 30-Aug-2026`, Pass: testutils.PassIdentical(ren.True)},
		"words":       {Source: `lesser? 'apple 'banana`, Pass: testutils.PassIdentical(ren.True)},
		"unordered":   {Source: `[1] < [2]`, Pass: testutils.PassError("script", "invalid-compare")},
		"mixed":       {Source: `1 < "a"`, Pass: testutils.PassError("script", "invalid-compare")},
	}
	for name, c := range cases {
		t.Run(name, c.TestFunc("TestOrdering"))
	}
}

func TestCyclicCompare(t *testing.T) {
	cases := map[string]testutils.SourceTestCase{
		"raises": {
			Source: `cyc1: [1] append/only cyc1 cyc1 cyc2: [1] append/only cyc2 cyc2 cyc1 = cyc2`,
			Pass:   testutils.PassError("script", "cyclic-compare"),
		},
		"trappable": {
			Source: `cyc3: [1] append/only cyc3 cyc3 cyc4: [1] append/only cyc4 cyc4 error? try [cyc3 = cyc4]`,
			Pass:   testutils.PassIdentical(ren.True),
		},
		"sameIsFine": {
			Source: `cyc5: [1] append/only cyc5 cyc5 cyc5 =? cyc5`,
			Pass:   testutils.PassIdentical(ren.True),
		},
		"selfAlias": {
			// A series compared with itself at the same index is equal without
			// walking its elements, cyclic or not.
			Source: `cyc6: [1] append/only cyc6 cyc6 cyc6 = cyc6`,
			Pass:   testutils.PassIdentical(ren.True),
		},
	}
	for name, c := range cases {
		t.Run(name, c.TestFunc("TestCyclicCompare"))
	}
}
