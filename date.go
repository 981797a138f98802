package ren

import (
	"time"

	"gitlab.com/variadico/lctime"
)

func (vm *VM) initDate() {
	vm.AddNative("now /utc /date", DateNow)
	vm.AddNative("format-date date [date!] format [string!]", DateFormat)
}

// DateNow implements the now native.
//
// now yields the current local date and time. now/utc uses UTC, and
// now/date drops the time component.
func DateNow(vm *VM, f *Frame) (Value, Stop) {
	t := time.Now()
	if f.Flag(0) {
		t = t.UTC()
	}
	if f.Flag(1) {
		y, m, d := t.Date()
		return DateValue(time.Date(y, m, d, 0, 0, 0, 0, time.UTC), false), NoStop
	}
	return DateValue(t, true), NoStop
}

// DateFormat implements the format-date native.
//
// format-date renders a date with strftime-style directives in the current
// locale, e.g. "%Y-%m-%d %H:%M".
func DateFormat(vm *VM, f *Frame) (Value, Stop) {
	d := f.Arg(0)
	format := f.Arg(1)
	s := lctime.Strftime(format.Series.String()[format.Index:], d.When)
	return vm.NewString(s), NoStop
}

// pickDateField implements paths into date! values, like d/year.
func (vm *VM) pickDateField(d, sel Value) (Value, Stop) {
	if !sel.IsWord() {
		return vm.scriptError("invalid-path", "cannot select date field with %s", sel.Kind)
	}
	switch sel.Sym.Canon {
	case "year":
		return IntValue(int64(d.When.Year())), NoStop
	case "month":
		return IntValue(int64(d.When.Month())), NoStop
	case "day":
		return IntValue(int64(d.When.Day())), NoStop
	case "hour":
		return IntValue(int64(d.When.Hour())), NoStop
	case "minute":
		return IntValue(int64(d.When.Minute())), NoStop
	case "second":
		return IntValue(int64(d.When.Second())), NoStop
	case "weekday":
		// Monday is 1, per the calendar on the wall rather than Go's.
		wd := int64(d.When.Weekday())
		if wd == 0 {
			wd = 7
		}
		return IntValue(wd), NoStop
	case "date":
		y, m, dd := d.When.Date()
		return DateValue(time.Date(y, m, dd, 0, 0, 0, 0, time.UTC), false), NoStop
	}
	return vm.scriptError("invalid-path", "date has no field %s", sel.Sym.Text)
}
