package ren

import (
	"os"
	"runtime"
)

// Version is the interpreter version reported in system/version.
const Version = "0.3.0"

// initSystem builds the system object. Its fields describe the interpreter
// and the script being run.
func (vm *VM) initSystem(args []string) {
	sys := vm.AllocContext(objectCtx, 8)
	sys.Set(vm.Sym("version"), vm.NewString(Version))
	sys.Set(vm.Sym("platform"), vm.NewString(runtime.GOOS+"-"+runtime.GOARCH))
	sys.Set(vm.Sym("platform-version"), vm.NewString(platformVersion()))
	sys.Set(vm.Sym("start"), DateValue(vm.StartTime, true))
	sys.Set(vm.Sym("pid"), IntValue(int64(os.Getpid())))

	script := vm.AllocContext(objectCtx, 3)
	argb := vm.NewBlock(len(args))
	for _, a := range args {
		argb.Series.Append(vm.NewString(a))
	}
	script.Set(vm.Sym("args"), argb)
	script.Set(vm.Sym("path"), None)
	script.Set(vm.Sym("header"), None)
	sys.Set(vm.Sym("script"), ObjectValue(script))

	vm.Sys = sys
	vm.Lib.Set(vm.Sym("system"), ObjectValue(sys))
	vm.AddNative("get-env name [string!]", SystemGetEnv)
	vm.AddNative("set-env name [string!] value [string!]", SystemSetEnv)
	vm.AddNative("stats", SystemStats)
}

// SystemStats implements the stats native.
//
// stats yields a block of collector pool counters: live series, live
// contexts, and allocations since the last collection pass.
func SystemStats(vm *VM, f *Frame) (Value, Stop) {
	out := vm.NewBlock(6)
	out.Series.Append(WordValue(vm.Sym("series")), IntValue(int64(len(vm.seriesPool))))
	out.Series.Append(WordValue(vm.Sym("contexts")), IntValue(int64(len(vm.ctxPool))))
	out.Series.Append(WordValue(vm.Sym("allocs")), IntValue(int64(vm.allocs)))
	return out, NoStop
}

// SetScript records the running script's path and header in system/script.
func (vm *VM) SetScript(path string, header Value) {
	v, ok := vm.Sys.Get(vm.Sym("script"))
	if !ok || v.Kind != ObjectKind {
		return
	}
	v.Ctx.Set(vm.Sym("path"), vm.NewString(path))
	v.Ctx.Set(vm.Sym("header"), header)
}

// SystemGetEnv implements the get-env native.
//
// get-env yields the value of an environment variable, or none when it is
// not set.
func SystemGetEnv(vm *VM, f *Frame) (Value, Stop) {
	n := f.Arg(0)
	s, ok := os.LookupEnv(n.Series.String()[n.Index:])
	if !ok {
		return None, NoStop
	}
	return vm.NewString(s), NoStop
}

// SystemSetEnv implements the set-env native.
func SystemSetEnv(vm *VM, f *Frame) (Value, Stop) {
	n, v := f.Arg(0), f.Arg(1)
	err := os.Setenv(n.Series.String()[n.Index:], v.Series.String()[v.Index:])
	if err != nil {
		return vm.accessError("cannot-open", "cannot set environment variable: %v", err)
	}
	return v, NoStop
}
