// Command renfn lists the native implementations in a package. It finds
// every package-scope function assignable to ren.NativeFunc, which is how
// the natives table in the documentation stays honest.
package main

import (
	"flag"
	"fmt"
	"go/token"
	"go/types"
	"os"
	"regexp"
	"sort"

	"golang.org/x/tools/go/packages"
)

func main() {
	var match, ignore string
	var renpkg string
	flag.StringVar(&match, "match", ".", "include only functions matching this regular expression")
	flag.StringVar(&ignore, "ignore", "$^", "exclude functions matching this regular expression")
	flag.StringVar(&renpkg, "ren", "github.com/renlang/ren", "import path for package ren source code")
	flag.Parse()
	mre, err := regexp.Compile(match)
	if err != nil {
		fail("error compiling match:", err)
	}
	ire, err := regexp.Compile(ignore)
	if err != nil {
		fail("error compiling ignore:", err)
	}

	fset := token.NewFileSet()
	config := packages.Config{Mode: packages.NeedTypes | packages.NeedSyntax | packages.NeedImports, Fset: fset}
	pkgs, err := packages.Load(&config, append([]string{renpkg}, flag.Args()...)...)
	if err != nil {
		fail("error loading packages:", err)
	}
	fn, scan := getFn(pkgs)
	results := []string{}
	for _, pkg := range scan {
		results = append(results, find(pkg.Types.Scope(), fn, mre, ire)...)
	}
	sort.Strings(results)
	for _, name := range results {
		fmt.Println(name)
	}
}

func fail(args ...interface{}) {
	fmt.Fprintln(os.Stderr, args...)
	os.Exit(1)
}

// getFn digs the NativeFunc type out of the first loaded package. The
// remaining packages are the ones to scan; with none given, the ren package
// scans itself.
func getFn(pkgs []*packages.Package) (types.Type, []*packages.Package) {
	pkg := pkgs[0].Types
	r := pkg.Scope().Lookup("NativeFunc")
	if r == nil {
		fail(pkg.Name(), "has no definition of NativeFunc")
	}
	t, ok := r.(*types.TypeName)
	if !ok {
		fail(pkg.Name(), "has incorrect definition of NativeFunc:", r)
	}
	fn := t.Type().Underlying()
	if len(pkgs) == 1 {
		return fn, pkgs
	}
	return fn, pkgs[1:]
}

func find(pkg *types.Scope, fn types.Type, mre, ire *regexp.Regexp) []string {
	var results []string
	for _, name := range pkg.Names() {
		if mre.MatchString(name) && !ire.MatchString(name) {
			t := pkg.Lookup(name).Type()
			if types.AssignableTo(t, fn) {
				results = append(results, name)
			}
		}
	}
	return results
}
