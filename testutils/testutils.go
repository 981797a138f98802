// Package testutils provides utilities for testing Ren code in Go.
package testutils

import (
	"sync"
	"testing"

	"github.com/renlang/ren"
)

// testVM is the VM used for all tests.
var testVM *ren.VM

var testVMInit sync.Once

// TestingVM returns a VM for testing Ren. The VM is shared by all tests that
// use this package.
func TestingVM() *ren.VM {
	testVMInit.Do(ResetTestingVM)
	return testVM
}

// ResetTestingVM reinitializes the VM returned by TestingVM. It is not safe
// to call this in parallel tests.
func ResetTestingVM() {
	testVM = ren.NewVM()
}

// A SourceTestCase is a test case containing Ren source code and a predicate
// to check the result.
type SourceTestCase struct {
	// Source is the Ren source code to execute.
	Source string
	// Pass is a predicate taking the result of executing Source. If Pass
	// returns false, then the test fails.
	Pass func(result ren.Value, control ren.Stop) bool
}

// TestFunc returns a test function for the test case. This uses TestingVM to
// load and evaluate the code.
func (c SourceTestCase) TestFunc(name string) func(*testing.T) {
	return func(t *testing.T) {
		vm := TestingVM()
		if r, s := vm.DoString(c.Source, name); !c.Pass(r, s) {
			if s == ren.ErrorStop {
				t.Errorf("%q produced wrong result; an error occurred:\n%s", c.Source, vm.Form(r))
			} else {
				t.Errorf("%q produced wrong result; got %s (%v)", c.Source, vm.Mold(r), s)
			}
		}
	}
}

// PassEqual returns a Pass function for a SourceTestCase that predicates on
// equality. To determine equality, this first checks for identical values;
// if not, it checks that the result of TestingVM().EqualValues(want, result)
// is true under lax comparison. If the Stop is not NoStop, then the predicate
// returns false.
func PassEqual(want ren.Value) func(ren.Value, ren.Stop) bool {
	return func(result ren.Value, control ren.Stop) bool {
		vm := TestingVM()
		if control != ren.NoStop {
			return false
		}
		if ren.SameValues(want, result) {
			return true
		}
		eq, _, stop := vm.EqualValues(want, result, false)
		if stop != ren.NoStop {
			return false
		}
		return eq
	}
}

// PassMold returns a Pass function for a SourceTestCase that predicates on
// the molded form of the result. If the Stop is not NoStop, then the
// predicate returns false.
func PassMold(want string) func(ren.Value, ren.Stop) bool {
	return func(result ren.Value, control ren.Stop) bool {
		if control != ren.NoStop {
			return false
		}
		return TestingVM().Mold(result) == want
	}
}

// PassIdentical returns a Pass function for a SourceTestCase that predicates
// on identity, i.e. the result must be the same value as want in the sense
// of same?. If the Stop is not NoStop, then the predicate returns false.
func PassIdentical(want ren.Value) func(ren.Value, ren.Stop) bool {
	return func(result ren.Value, control ren.Stop) bool {
		if control != ren.NoStop {
			return false
		}
		return ren.SameValues(want, result)
	}
}

// PassControl returns a Pass function for a SourceTestCase that predicates on
// equality with a certain control flow status. The control flow check
// precedes the value check. Equality here has the same semantics as in
// PassEqual.
func PassControl(want ren.Value, stop ren.Stop) func(ren.Value, ren.Stop) bool {
	return func(result ren.Value, control ren.Stop) bool {
		vm := TestingVM()
		if control != stop {
			return false
		}
		if ren.SameValues(want, result) {
			return true
		}
		eq, _, s := vm.EqualValues(want, result, false)
		if s != ren.NoStop {
			return false
		}
		return eq
	}
}

// PassKind returns a Pass function for a SourceTestCase that predicates on
// the kind of the result. If the Stop is not NoStop, then the predicate
// returns false.
func PassKind(want ren.Kind) func(ren.Value, ren.Stop) bool {
	return func(result ren.Value, control ren.Stop) bool {
		if control != ren.NoStop {
			return false
		}
		return result.Kind == want
	}
}

// PassFailure returns a Pass function for a SourceTestCase that returns true
// iff the result is a raised error.
func PassFailure() func(ren.Value, ren.Stop) bool {
	// This doesn't need to be a function returning a function, but it's nice
	// to stay consistent with the other predicate generators.
	return func(result ren.Value, control ren.Stop) bool {
		return control == ren.ErrorStop
	}
}

// PassError returns a Pass function for a SourceTestCase that returns true
// iff the result is a raised error with the given category and id.
func PassError(category, id string) func(ren.Value, ren.Stop) bool {
	return func(result ren.Value, control ren.Stop) bool {
		if control != ren.ErrorStop || result.Err == nil {
			return false
		}
		return result.Err.Category == category && result.Err.ID == id
	}
}

// PassSuccess returns a Pass function for a SourceTestCase that returns true
// iff the control flow status is NoStop.
func PassSuccess() func(ren.Value, ren.Stop) bool {
	return func(result ren.Value, control ren.Stop) bool {
		return control == ren.NoStop
	}
}

// PassUnset returns a Pass function for a SourceTestCase that returns true
// iff the result is unset and the control flow status is NoStop.
func PassUnset() func(ren.Value, ren.Stop) bool {
	return func(result ren.Value, control ren.Stop) bool {
		return control == ren.NoStop && result.Kind == ren.UnsetKind
	}
}

// PassFields returns a Pass function for a SourceTestCase that returns true
// iff the result is an object having all of the fields in want and none of
// the fields in exclude. If the Stop is not NoStop, then the predicate
// returns false.
func PassFields(want, exclude []string) func(ren.Value, ren.Stop) bool {
	return func(result ren.Value, control ren.Stop) bool {
		vm := TestingVM()
		if control != ren.NoStop || result.Ctx == nil {
			return false
		}
		for _, field := range want {
			if result.Ctx.Find(vm.Sym(field)) < 0 {
				return false
			}
		}
		for _, field := range exclude {
			if result.Ctx.Find(vm.Sym(field)) >= 0 {
				return false
			}
		}
		return true
	}
}
