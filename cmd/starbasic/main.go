// Command starbasic compiles and runs a single BASIC script to
// completion, grounded on cmd/barn/main.go's flag layout and trace
// wiring, narrowed to this runtime's script-file/process model instead
// of barn's database-backed MOO server.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/example/starbasic/builtins"
	"github.com/example/starbasic/trace"
	"github.com/example/starbasic/types"
	"github.com/example/starbasic/vm"
	"github.com/example/starbasic/world"
)

func main() {
	ticks := flag.Int("ticks", 0, "Tick limit per run (0 = unlimited)")
	loadPath := flag.String("load-path", ".", "Comma-separated search path for Load/TryLoad")
	optLevel := flag.Int("optimise", 1, "Optimisation level (-1..3)")
	traceEnabled := flag.Bool("trace", false, "Enable execution tracing")
	traceFilter := flag.String("trace-filter", "", "Trace filter pattern (glob, e.g. 'SQR*')")

	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] <script.bas>\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(2)
	}
	scriptPath := flag.Arg(0)

	if *traceEnabled {
		var filters []string
		if *traceFilter != "" {
			for _, f := range strings.Split(*traceFilter, ",") {
				filters = append(filters, strings.TrimSpace(f))
			}
		}
		trace.Init(true, filters, os.Stderr)
	} else {
		trace.Init(false, nil, nil)
	}

	f, err := os.Open(scriptPath)
	if err != nil {
		log.Fatalf("opening %s: %v", scriptPath, err)
	}
	defer f.Close()

	opts := world.DefaultOptions()
	opts.TickLimit = *ticks
	opts.OptimisationLevel = *optLevel
	if *loadPath != "" {
		opts.LoadPath = strings.Split(*loadPath, ",")
	}

	w := world.New(opts)
	reg := builtins.NewRegistry(w)
	reg.InstallOn(w)

	bco, cerr := vm.NewStatementCompiler(&fileSource{s: bufio.NewScanner(f)}, scriptPath, vm.SCC{
		CaseBlind:         true,
		AlsoGlobalContext: true,
		WantTerminators:   true,
		OptimisationLevel: *optLevel,
	}).Compile()
	if cerr != nil {
		log.Fatalf("compile error: %v", cerr)
	}

	machine := vm.NewVM(reg, w)
	proc := vm.NewProcess(1, bco, opts.TickLimit)
	machine.Run(proc)

	switch proc.GetState() {
	case vm.StateEnded:
		if proc.Result != nil && proc.Result != types.Null {
			fmt.Println(proc.Result.String())
		}
	case vm.StateFailed:
		if proc.Err != nil {
			log.Fatalf("runtime error: %s", proc.Err.Message)
		}
		log.Fatalf("process failed")
	default:
		log.Fatalf("process did not finish (state=%s); a Sub/Function is suspended with nothing left to run it", proc.GetState())
	}
}

// fileSource adapts a bufio.Scanner to parser.CommandSource.
type fileSource struct {
	s *bufio.Scanner
}

func (f *fileSource) ReadNextLine() (string, bool) {
	if !f.s.Scan() {
		return "", false
	}
	return f.s.Text(), true
}
