// Command halide-repl is an interactive inspector for the lowering
// pipeline: load a .hdsl source, step through the pass boundaries that
// lower.Lower runs, and print the Stmt tree at any point, grounded on
// the liner/fatih-color REPL idiom used elsewhere in the example pack.
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/peterh/liner"

	"halide/src/diag"
	"halide/src/dsl"
	"halide/src/function"
	"halide/src/ir"
	"halide/src/lower"
)

var (
	green  = color.New(color.FgGreen).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	dim    = color.New(color.Faint).SprintFunc()
)

// step names the pass boundaries a :step command advances through, in the
// same order lower.Lower itself runs them.
type step int

const (
	stepInitial step = iota
	stepRealizationsInjected
	stepTracing
	stepImageChecks
	stepBoundsInference
	stepSlidingWindow
	stepStorageFlattening
	stepSimplify1
	stepVectorize
	stepUnroll
	stepSimplify2
	stepDone
)

var stepNames = [...]string{
	"initial loop nest",
	"realizations injected",
	"tracing injected",
	"image checks added",
	"bounds inference",
	"sliding window",
	"storage flattening",
	"simplify",
	"vectorize",
	"unroll",
	"simplify (final)",
	"done",
}

// session holds everything a loaded .hdsl source contributes to the REPL.
type session struct {
	path   string
	env    map[string]*function.Function
	output *function.Function
	order  []string
	cur    step
	s      ir.Stmt
}

func (sess *session) load(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	prog, err := dsl.ParseString(path, string(b))
	if err != nil {
		return fmt.Errorf("parse error: %w", err)
	}
	f, env, err := dsl.Build(prog, "")
	if err != nil {
		return fmt.Errorf("build error: %w", err)
	}

	order, err := lower.RealizationOrder(f.Name, env)
	if err != nil {
		return fmt.Errorf("realization order: %w", err)
	}

	sess.path = path
	sess.env = env
	sess.output = f
	sess.order = order
	sess.cur = stepInitial
	sess.s = lower.CreateInitialLoopNest(f)
	return nil
}

// advance runs exactly the next pass lower.Lower would run, in place, and
// reports the new step name.
func (sess *session) advance(logger diag.Logger) (string, error) {
	if sess.output == nil {
		return "", fmt.Errorf("no pipeline loaded, use :load <file>")
	}
	if sess.cur >= stepDone {
		return "", fmt.Errorf("already at the end of the pipeline")
	}

	var err error
	switch sess.cur {
	case stepInitial:
		sess.s, err = lower.ScheduleFunctions(sess.s, sess.order, sess.env)
	case stepRealizationsInjected:
		sess.s = lower.Identity().InjectTracing(sess.s)
	case stepTracing:
		sess.s, err = lower.AddImageChecks(sess.s, sess.output)
	case stepImageChecks:
		sess.s = lower.Identity().BoundsInference(sess.s, sess.order, sess.env)
	case stepBoundsInference:
		sess.s = lower.Identity().SlidingWindow(sess.s, sess.env)
	case stepSlidingWindow:
		sess.s = lower.Identity().StorageFlattening(sess.s)
	case stepStorageFlattening:
		sess.s = lower.Identity().Simplify(sess.s)
	case stepSimplify1:
		sess.s = lower.Identity().VectorizeLoops(sess.s)
	case stepVectorize:
		sess.s = lower.Identity().UnrollLoops(sess.s)
	case stepUnroll:
		sess.s = lower.Identity().Simplify(sess.s)
		sess.s = lower.Identity().RemoveDeadLets(sess.s)
	}
	if err != nil {
		return "", err
	}
	sess.cur++
	return stepNames[sess.cur], nil
}

func highlight(text string) string {
	var b strings.Builder
	for _, line := range strings.Split(text, "\n") {
		switch {
		case strings.Contains(line, "produce "):
			b.WriteString(cyan(line))
		case strings.Contains(line, "for "):
			b.WriteString(green(line))
		case strings.Contains(line, "realize "):
			b.WriteString(yellow(line))
		default:
			b.WriteString(line)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func handleCommand(sess *session, input string, logger diag.Logger, out io.Writer) {
	fields := strings.Fields(input)
	cmd := fields[0]

	switch cmd {
	case ":help", ":h":
		fmt.Fprintln(out, dim(":load <file>   parse and build a .hdsl source"))
		fmt.Fprintln(out, dim(":step          advance one lowering pass"))
		fmt.Fprintln(out, dim(":print         print the current Stmt tree"))
		fmt.Fprintln(out, dim(":funcs         list the Functions in the loaded pipeline"))
		fmt.Fprintln(out, dim(":quit          exit"))
	case ":load":
		if len(fields) < 2 {
			fmt.Fprintln(out, red("usage: :load <file>"))
			return
		}
		if err := sess.load(fields[1]); err != nil {
			fmt.Fprintf(out, "%s: %v\n", red("error"), err)
			return
		}
		fmt.Fprintf(out, "%s %s, output function %s\n", green("loaded"), fields[1], sess.output.Name)
	case ":lower":
		name := sess.output.Name
		if len(fields) > 1 {
			name = fields[1]
		}
		f, ok := sess.env[name]
		if !ok {
			fmt.Fprintf(out, "%s: no such function %q\n", red("error"), name)
			return
		}
		s, err := lower.Lower(f, lower.Identity(), logger)
		if err != nil {
			fmt.Fprintf(out, "%s: %v\n", red("error"), err)
			return
		}
		fmt.Fprint(out, highlight(ir.PrintStmt(s, 0)))
	case ":step":
		name, err := sess.advance(logger)
		if err != nil {
			fmt.Fprintf(out, "%s: %v\n", red("error"), err)
			return
		}
		fmt.Fprintf(out, "%s %s\n", green("->"), name)
	case ":print":
		if sess.s == nil {
			fmt.Fprintln(out, red("nothing loaded"))
			return
		}
		fmt.Fprint(out, highlight(ir.PrintStmt(sess.s, 0)))
	case ":funcs":
		for name := range sess.env {
			fmt.Fprintln(out, name)
		}
	default:
		fmt.Fprintf(out, "%s: unknown command %q, try :help\n", red("error"), cmd)
	}
}

func main() {
	verbose := 0
	for _, a := range os.Args[1:] {
		if a == "-vb" {
			verbose = 1
		}
	}
	logger := diag.New(verbose)

	line := liner.NewLiner()
	defer line.Close()
	line.SetMultiLineMode(false)
	line.SetCompleter(func(input string) (c []string) {
		if !strings.HasPrefix(input, ":") {
			return nil
		}
		for _, cmd := range []string{":help", ":load", ":lower", ":step", ":print", ":funcs", ":quit"} {
			if strings.HasPrefix(cmd, input) {
				c = append(c, cmd)
			}
		}
		return
	})

	fmt.Println(green("halide-lower inspector"))
	fmt.Println(dim("Type :help for commands, :quit to exit"))

	sess := &session{}
	for {
		input, err := line.Prompt("halide> ")
		if err == io.EOF {
			fmt.Println(green("\nGoodbye!"))
			return
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", red("error"), err)
			continue
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		line.AppendHistory(input)

		if input == ":quit" || input == ":q" {
			fmt.Println(green("Goodbye!"))
			return
		}
		if strings.HasPrefix(input, ":") {
			handleCommand(sess, input, logger, os.Stdout)
			continue
		}
		fmt.Fprintln(os.Stdout, red("expressions aren't evaluated here, use :load then :step/:lower"))
	}
}
