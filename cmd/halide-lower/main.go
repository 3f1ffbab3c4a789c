// Command halide-lower reads one or more .hdsl source files, builds each
// into a pipeline of Functions, lowers the named output Function to a Stmt
// tree, and prints the result. Sources are lowered concurrently up to
// -t workers, grounded on the teacher's src/main.go worker/Writer pattern.
package main

import (
	"fmt"
	"os"
	"sync"

	"halide/src/diag"
	"halide/src/dsl"
	"halide/src/ir"
	"halide/src/lower"
	"halide/src/util"
)

// lowerOne parses, builds and lowers a single .hdsl source file, writing
// its result through w.
func lowerOne(opt util.Options, path string, w *util.Writer, logger diag.Logger) error {
	src, err := util.ReadSource(path)
	if err != nil {
		return fmt.Errorf("%s: could not read source: %w", path, err)
	}

	prog, err := dsl.ParseString(path, src)
	if err != nil {
		return fmt.Errorf("%s: parse error: %w", path, err)
	}

	f, _, err := dsl.Build(prog, opt.Func)
	if err != nil {
		return fmt.Errorf("%s: build error: %w", path, err)
	}

	s, err := lower.Lower(f, lower.Identity(), logger)
	if err != nil {
		return fmt.Errorf("%s: lowering error: %w", path, err)
	}

	w.Write("-- %s: lowered %s --\n", path, f.Name)
	w.WriteString(ir.PrintStmt(s, 0))
	w.WriteString("\n")
	return nil
}

// run drives the full batch: one worker goroutine per source file, capped
// at opt.Threads concurrently outstanding, with errors collected through a
// util perror listener rather than printed from worker goroutines directly.
func run(opt util.Options) error {
	if len(opt.Src) == 0 {
		return fmt.Errorf("no source files given")
	}

	logger := diag.New(opt.Verbose)
	pe := util.NewPerror(len(opt.Src))
	defer pe.Stop()

	sem := make(chan struct{}, opt.Threads)
	var wg2 sync.WaitGroup
	for _, path := range opt.Src {
		wg2.Add(1)
		sem <- struct{}{}
		go func(path string) {
			defer wg2.Done()
			defer func() { <-sem }()

			w := util.NewWriter()
			defer w.Close()

			if err := lowerOne(opt, path, &w, logger); err != nil {
				pe.Append(err)
			}
		}(path)
	}
	wg2.Wait()

	if n := pe.Len(); n > 0 {
		for err := range pe.Errors() {
			fmt.Fprintln(os.Stderr, err)
		}
		return fmt.Errorf("%d of %d sources failed to lower", n, len(opt.Src))
	}
	return nil
}

func main() {
	opt, err := util.ParseArgs()
	if err != nil {
		fmt.Fprintf(os.Stderr, "command line argument error: %s\n", err)
		os.Exit(1)
	}

	wg := sync.WaitGroup{}
	if len(opt.Out) > 0 {
		f, err := os.OpenFile(opt.Out, os.O_TRUNC|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		defer func() {
			if err := f.Close(); err != nil {
				fmt.Fprintln(os.Stderr, err)
			}
		}()
		util.ListenWrite(opt, f, &wg)
	} else {
		util.ListenWrite(opt, nil, &wg)
	}
	defer util.Close()

	if err := run(opt); err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		wg.Wait()
		os.Exit(1)
	}

	wg.Wait()
}
