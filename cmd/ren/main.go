package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/chzyer/readline"
	"gopkg.in/yaml.v2"

	"github.com/renlang/ren"
)

// config is the optional ~/.renrc.yaml file.
type config struct {
	Prompt      string `yaml:"prompt"`
	ContPrompt  string `yaml:"cont_prompt"`
	HistoryFile string `yaml:"history_file"`
}

func loadConfig() config {
	c := config{
		Prompt:     ">> ",
		ContPrompt: ".. ",
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return c
	}
	c.HistoryFile = filepath.Join(home, ".ren-history")
	b, err := os.ReadFile(filepath.Join(home, ".renrc.yaml"))
	if err != nil {
		return c
	}
	if err := yaml.Unmarshal(b, &c); err != nil {
		fmt.Fprintln(os.Stderr, "ren: ignoring bad ~/.renrc.yaml:", err)
	}
	return c
}

func main() {
	var do string
	flag.StringVar(&do, "do", "", "evaluate this code instead of reading a script")
	flag.Parse()

	args := flag.Args()
	var scriptArgs []string
	if len(args) > 1 {
		scriptArgs = args[1:]
	}
	vm := ren.NewVM(scriptArgs...)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt)
	go func() {
		for range sig {
			vm.Interrupt()
		}
	}()

	switch {
	case do != "":
		os.Exit(run(vm, do, "--do"))
	case len(args) > 0:
		os.Exit(runScript(vm, args[0]))
	}
	repl(vm)
}

// run evaluates one piece of source and reports its outcome as an exit
// code: 0 for success, the quit code for quit, 1 for an uncaught error.
func run(vm *ren.VM, src, label string) int {
	v, stop := vm.DoString(src, label)
	return finish(vm, v, stop)
}

func runScript(vm *ren.VM, path string) int {
	b, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, "ren:", err)
		return 1
	}
	header, body, stop := vm.LoadScript(string(b), path)
	if stop != ren.NoStop {
		return finish(vm, body, stop)
	}
	vm.SetScript(path, header)
	vm.BindScript(body)
	v, stop := vm.DoBlock(body)
	return finish(vm, v, stop)
}

func finish(vm *ren.VM, v ren.Value, stop ren.Stop) int {
	switch stop {
	case ren.NoStop:
		return 0
	case ren.QuitStop:
		return vm.ExitStatus
	case ren.ErrorStop:
		fmt.Fprintln(os.Stderr, vm.Form(v))
		return 1
	case ren.HaltStop:
		fmt.Fprintln(os.Stderr, "ren: halted")
		return 130
	case ren.ThrowStop:
		fmt.Fprintln(os.Stderr, "ren: uncaught throw:", vm.Mold(v))
		return 1
	default:
		fmt.Fprintln(os.Stderr, "ren: unexpected", stop)
		return 1
	}
}

func repl(vm *ren.VM) {
	cfg := loadConfig()
	l, err := readline.NewEx(&readline.Config{
		Prompt:            cfg.Prompt,
		HistoryFile:       cfg.HistoryFile,
		InterruptPrompt:   "^C",
		EOFPrompt:         "quit",
		HistorySearchFold: true,
	})
	if err != nil {
		panic(err)
	}
	defer l.Close()
	l.CaptureExitSignal()

	fmt.Println("Ren", ren.Version)
	oldline := ""
	for {
		line, err := l.Readline()
		line = oldline + line
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				break
			}
			oldline = ""
			l.SetPrompt(cfg.Prompt)
			continue
		} else if err == io.EOF {
			break
		} else if err != nil {
			panic(err)
		}
		if line == "" {
			continue
		}

		v, stop := vm.DoString(line, "repl")
		switch stop {
		case ren.NoStop:
			if v.Kind != ren.UnsetKind {
				fmt.Println("==", vm.Mold(v))
			}
		case ren.ErrorStop:
			if v.Err != nil && v.Err.Category == ren.ErrSyntax && v.Err.ID == "missing" {
				// An unclosed block continues on the next line.
				oldline = line + "\n"
				l.SetPrompt(cfg.ContPrompt)
				continue
			}
			fmt.Println(vm.Form(v))
		case ren.QuitStop:
			os.Exit(vm.ExitStatus)
		case ren.HaltStop:
			fmt.Println("(halted)")
		case ren.ThrowStop:
			fmt.Println("** uncaught throw:", vm.Mold(v))
		}
		oldline = ""
		l.SetPrompt(cfg.Prompt)
	}
}
