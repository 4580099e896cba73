// Command lumenc drives the SSA construction pass over a textual IR
// (".lir") file: it parses every function the file contains, runs the
// pass, optionally verifies the dominance invariant the pass is supposed
// to establish, and prints the resulting IR. Styled after the teacher's
// cmd/kanso-cli/main.go: flag parsing, a recover-and-report top level, and
// fatih/color for pass/fail coloring.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/tliron/commonlog"

	"github.com/lumenvm/lumen/internal/ir"
	"github.com/lumenvm/lumen/internal/irtext"
	"github.com/lumenvm/lumen/internal/lumenerr"
	"github.com/lumenvm/lumen/internal/pipeline"
)

func main() {
	pipelinePath := flag.String("pipeline", "", "path to a pipeline YAML config (defaults to verifying dominance)")
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Println("Usage: lumenc [-pipeline lumen.yaml] <file.lir>")
		os.Exit(1)
	}
	path := flag.Arg(0)

	commonlog.Configure(1, nil)

	cfg := pipeline.DefaultConfig()
	if *pipelinePath != "" {
		loaded, err := pipeline.LoadConfig(*pipelinePath)
		if err != nil {
			color.Red("%s", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	fns, err := irtext.ParseFile(path)
	if err != nil {
		os.Exit(1) // irtext already printed a caret-style diagnostic
	}

	if !runAll(fns, cfg) {
		os.Exit(1)
	}
}

// runAll runs the pass over every function, reporting and recovering from
// a lumenerr.InternalError per function so one malformed function doesn't
// stop the rest from being processed. Reports whether every function
// succeeded.
func runAll(fns []*ir.Function, cfg *pipeline.Config) bool {
	ok := true
	for _, fn := range fns {
		if !runOne(fn, cfg) {
			ok = false
		}
	}
	return ok
}

func runOne(fn *ir.Function, cfg *pipeline.Config) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			ie, isInternal := r.(*lumenerr.InternalError)
			if !isInternal {
				panic(r)
			}
			color.Red("❌ %s: %s", fn.Name, ie)
			ok = false
		}
	}()

	log := fmt.Sprintf("lumenc: running SSA construction on %s", fn.Name)
	fmt.Println(log)

	cache := pipeline.MakeSSA(fn)

	if cfg.VerifyDominance {
		if err := pipeline.VerifyDominance(fn, cache); err != nil {
			color.Red("❌ %s: dominance verification failed: %s", fn.Name, err)
			return false
		}
	}

	fmt.Print(ir.Print(fn))
	color.Green("✅ %s: SSA construction complete", fn.Name)
	return true
}
