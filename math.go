package ren

import "math"

// Integer arithmetic is exact 64-bit with overflow detection; anything that
// cannot be represented raises a math error rather than wrapping. Mixing an
// integer with a decimal promotes to decimal.

func (vm *VM) initMath() {
	vm.AddNative("add value1 [any-number!] value2 [any-number!]", MathAdd)
	vm.AddNative("subtract value1 [any-number!] value2 [any-number!]", MathSubtract)
	vm.AddNative("multiply value1 [any-number!] value2 [any-number!]", MathMultiply)
	vm.AddNative("divide value1 [any-number!] value2 [any-number!]", MathDivide)
	vm.AddNative("remainder value1 [any-number!] value2 [any-number!]", MathRemainder)
	vm.AddNative("negate value [any-number!]", MathNegate)
	vm.AddNative("absolute value [any-number!]", MathAbsolute)
	vm.AddNative("min value1 [any-number!] value2 [any-number!]", MathMin)
	vm.AddNative("max value1 [any-number!] value2 [any-number!]", MathMax)
	vm.AddNative("odd? value [integer!]", MathOdd)
	vm.AddNative("even? value [integer!]", MathEven)
	vm.AddNative("zero? value [any-number!]", MathZero)
	vm.AddNative("negative? value [any-number!]", MathNegative)
	vm.AddNative("positive? value [any-number!]", MathPositive)
	vm.AddNative("to-integer value [any-number! string! char! logic!]", MathToInteger)
	vm.AddNative("to-decimal value [any-number! string!]", MathToDecimal)
	vm.AddNative("random value [any-number!] /seed", MathRandom)
	vm.AddEnfix("+ value1 [any-number!] value2 [any-number!]", MathAdd)
	vm.AddEnfix("- value1 [any-number!] value2 [any-number!]", MathSubtract)
	vm.AddEnfix("* value1 [any-number!] value2 [any-number!]", MathMultiply)
	vm.AddEnfix("/ value1 [any-number!] value2 [any-number!]", MathDivide)
	vm.AddEnfix("// value1 [any-number!] value2 [any-number!]", MathRemainder)
	vm.AddEnfix("** value1 [any-number!] value2 [any-number!]", MathPower)
	vm.AddEnfix("and value1 [logic! integer!] value2 [logic! integer!]", MathAnd)
	vm.AddEnfix("or value1 [logic! integer!] value2 [logic! integer!]", MathOr)
	vm.AddEnfix("xor value1 [logic! integer!] value2 [logic! integer!]", MathXor)
}

func (vm *VM) overflow(op string) (Value, Stop) {
	return vm.mathError("overflow", "%s overflowed the integer range", op)
}

// MathAdd implements the add native and the + operator.
//
// add sums two numbers.
func MathAdd(vm *VM, f *Frame) (Value, Stop) {
	a, b := f.Arg(0), f.Arg(1)
	if a.Kind == IntegerKind && b.Kind == IntegerKind {
		r := a.Int + b.Int
		if (a.Int > 0 && b.Int > 0 && r <= 0) || (a.Int < 0 && b.Int < 0 && r >= 0) {
			return vm.overflow("add")
		}
		return IntValue(r), NoStop
	}
	return DecimalValue(numAsFloat(a) + numAsFloat(b)), NoStop
}

// MathSubtract implements the subtract native and the - operator.
//
// subtract takes the second number from the first.
func MathSubtract(vm *VM, f *Frame) (Value, Stop) {
	a, b := f.Arg(0), f.Arg(1)
	if a.Kind == IntegerKind && b.Kind == IntegerKind {
		r := a.Int - b.Int
		if (b.Int < 0 && r < a.Int) || (b.Int > 0 && r > a.Int) {
			return vm.overflow("subtract")
		}
		return IntValue(r), NoStop
	}
	return DecimalValue(numAsFloat(a) - numAsFloat(b)), NoStop
}

// MathMultiply implements the multiply native and the * operator.
//
// multiply takes the product of two numbers.
func MathMultiply(vm *VM, f *Frame) (Value, Stop) {
	a, b := f.Arg(0), f.Arg(1)
	if a.Kind == IntegerKind && b.Kind == IntegerKind {
		if a.Int == 0 || b.Int == 0 {
			return IntValue(0), NoStop
		}
		r := a.Int * b.Int
		if r/b.Int != a.Int || (a.Int == math.MinInt64 && b.Int == -1) {
			return vm.overflow("multiply")
		}
		return IntValue(r), NoStop
	}
	return DecimalValue(numAsFloat(a) * numAsFloat(b)), NoStop
}

// MathDivide implements the divide native and the / operator.
//
// divide yields an integer when both operands are integers and the division
// is exact, and a decimal otherwise. Dividing by zero raises a math error.
func MathDivide(vm *VM, f *Frame) (Value, Stop) {
	a, b := f.Arg(0), f.Arg(1)
	if a.Kind == IntegerKind && b.Kind == IntegerKind {
		if b.Int == 0 {
			return vm.mathError("zero-divide", "cannot divide by zero")
		}
		if a.Int%b.Int == 0 {
			if a.Int == math.MinInt64 && b.Int == -1 {
				return vm.overflow("divide")
			}
			return IntValue(a.Int / b.Int), NoStop
		}
		return DecimalValue(float64(a.Int) / float64(b.Int)), NoStop
	}
	bf := numAsFloat(b)
	if bf == 0 {
		return vm.mathError("zero-divide", "cannot divide by zero")
	}
	return DecimalValue(numAsFloat(a) / bf), NoStop
}

// MathRemainder implements the remainder native and the // operator.
//
// remainder yields what is left after dividing the first number by the
// second. The result takes the sign of the first operand.
func MathRemainder(vm *VM, f *Frame) (Value, Stop) {
	a, b := f.Arg(0), f.Arg(1)
	if a.Kind == IntegerKind && b.Kind == IntegerKind {
		if b.Int == 0 {
			return vm.mathError("zero-divide", "cannot divide by zero")
		}
		if a.Int == math.MinInt64 && b.Int == -1 {
			return IntValue(0), NoStop
		}
		return IntValue(a.Int % b.Int), NoStop
	}
	bf := numAsFloat(b)
	if bf == 0 {
		return vm.mathError("zero-divide", "cannot divide by zero")
	}
	return DecimalValue(math.Mod(numAsFloat(a), bf)), NoStop
}

// MathPower implements the ** operator.
//
// ** raises the first number to the power of the second. The result stays an
// integer when both operands are integers and the exponent is not negative.
func MathPower(vm *VM, f *Frame) (Value, Stop) {
	a, b := f.Arg(0), f.Arg(1)
	if a.Kind == IntegerKind && b.Kind == IntegerKind && b.Int >= 0 {
		r := int64(1)
		for i := int64(0); i < b.Int; i++ {
			if a.Int == 0 {
				return IntValue(0), NoStop
			}
			if r == math.MinInt64 && a.Int == -1 {
				return vm.overflow("**")
			}
			q := r * a.Int
			if q/a.Int != r {
				return vm.overflow("**")
			}
			r = q
		}
		return IntValue(r), NoStop
	}
	return DecimalValue(math.Pow(numAsFloat(a), numAsFloat(b))), NoStop
}

// MathNegate implements the negate native.
func MathNegate(vm *VM, f *Frame) (Value, Stop) {
	v := f.Arg(0)
	if v.Kind == IntegerKind {
		if v.Int == math.MinInt64 {
			return vm.overflow("negate")
		}
		return IntValue(-v.Int), NoStop
	}
	return DecimalValue(-v.Dec), NoStop
}

// MathAbsolute implements the absolute native.
func MathAbsolute(vm *VM, f *Frame) (Value, Stop) {
	v := f.Arg(0)
	if v.Kind == IntegerKind {
		if v.Int == math.MinInt64 {
			return vm.overflow("absolute")
		}
		if v.Int < 0 {
			return IntValue(-v.Int), NoStop
		}
		return v, NoStop
	}
	return DecimalValue(math.Abs(v.Dec)), NoStop
}

// MathMin implements the min native.
func MathMin(vm *VM, f *Frame) (Value, Stop) {
	a, b := f.Arg(0), f.Arg(1)
	if numAsFloat(b) < numAsFloat(a) {
		return b, NoStop
	}
	return a, NoStop
}

// MathMax implements the max native.
func MathMax(vm *VM, f *Frame) (Value, Stop) {
	a, b := f.Arg(0), f.Arg(1)
	if numAsFloat(b) > numAsFloat(a) {
		return b, NoStop
	}
	return a, NoStop
}

// MathOdd implements the odd? native.
func MathOdd(vm *VM, f *Frame) (Value, Stop) {
	return LogicValue(f.Arg(0).Int&1 != 0), NoStop
}

// MathEven implements the even? native.
func MathEven(vm *VM, f *Frame) (Value, Stop) {
	return LogicValue(f.Arg(0).Int&1 == 0), NoStop
}

// MathZero implements the zero? native.
func MathZero(vm *VM, f *Frame) (Value, Stop) {
	return LogicValue(numAsFloat(f.Arg(0)) == 0), NoStop
}

// MathNegative implements the negative? native.
func MathNegative(vm *VM, f *Frame) (Value, Stop) {
	return LogicValue(numAsFloat(f.Arg(0)) < 0), NoStop
}

// MathPositive implements the positive? native.
func MathPositive(vm *VM, f *Frame) (Value, Stop) {
	return LogicValue(numAsFloat(f.Arg(0)) > 0), NoStop
}

// MathToInteger implements the to-integer native.
//
// to-integer converts decimals by truncation, strings by loading, chars to
// their code points, and logic to 0 or 1.
func MathToInteger(vm *VM, f *Frame) (Value, Stop) {
	v := f.Arg(0)
	switch v.Kind {
	case IntegerKind:
		return v, NoStop
	case DecimalKind:
		t := math.Trunc(v.Dec)
		if t > math.MaxInt64 || t < math.MinInt64 || math.IsNaN(t) {
			return vm.overflow("to-integer")
		}
		return IntValue(int64(t)), NoStop
	case CharKind, LogicKind:
		return IntValue(v.Int), NoStop
	case StringKind:
		n, ok := vm.loadNumeric(v.Series.String()[v.Index:])
		if !ok || n.Kind != IntegerKind {
			return vm.scriptError("bad-make-arg", "cannot convert %q to integer!", v.Series.String()[v.Index:])
		}
		return n, NoStop
	}
	return vm.typeError("to-integer", v)
}

// MathToDecimal implements the to-decimal native.
func MathToDecimal(vm *VM, f *Frame) (Value, Stop) {
	v := f.Arg(0)
	switch v.Kind {
	case DecimalKind:
		return v, NoStop
	case IntegerKind:
		return DecimalValue(float64(v.Int)), NoStop
	case StringKind:
		n, ok := vm.loadNumeric(v.Series.String()[v.Index:])
		if !ok {
			return vm.scriptError("bad-make-arg", "cannot convert %q to decimal!", v.Series.String()[v.Index:])
		}
		return DecimalValue(numAsFloat(n)), NoStop
	}
	return vm.typeError("to-decimal", v)
}

// MathRandom implements the random native.
//
// random of an integer n yields a uniform integer from 1 through n; of a
// decimal, a uniform decimal below it. random/seed reseeds the generator
// from the value and yields none.
func MathRandom(vm *VM, f *Frame) (Value, Stop) {
	v := f.Arg(0)
	if f.Flag(1) {
		vm.rng.Seed(v.Int)
		return None, NoStop
	}
	switch v.Kind {
	case IntegerKind:
		if v.Int <= 0 {
			return vm.mathError("bad-range", "random needs a positive bound")
		}
		return IntValue(vm.rng.Int63n(v.Int) + 1), NoStop
	case DecimalKind:
		return DecimalValue(vm.rng.Float64() * v.Dec), NoStop
	}
	return vm.typeError("random", v)
}

// logicPair extracts two operands for a bitwise operator. Logic values work
// bit-for-bit the same as 0 and 1.
func logicResult(a, b Value, r int64) Value {
	if a.Kind == LogicKind && b.Kind == LogicKind {
		return LogicValue(r != 0)
	}
	return IntValue(r)
}

// MathAnd implements the and operator.
//
// and is bitwise on integers and conjunction on logic values.
func MathAnd(vm *VM, f *Frame) (Value, Stop) {
	a, b := f.Arg(0), f.Arg(1)
	return logicResult(a, b, a.Int&b.Int), NoStop
}

// MathOr implements the or operator.
func MathOr(vm *VM, f *Frame) (Value, Stop) {
	a, b := f.Arg(0), f.Arg(1)
	return logicResult(a, b, a.Int|b.Int), NoStop
}

// MathXor implements the xor operator.
func MathXor(vm *VM, f *Frame) (Value, Stop) {
	a, b := f.Arg(0), f.Arg(1)
	return logicResult(a, b, a.Int^b.Int), NoStop
}
