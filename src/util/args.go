package util

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// Options holds the parsed command line configuration for halide-lower.
type Options struct {
	Src     []string // Paths to .hdsl source files to lower (batch capable).
	Out     string   // Output file receiving the lowered output of every source. Empty means stdout.
	Func    string   // Name of the output function to lower; empty means the last func declared.
	Threads int      // Worker count when lowering several sources concurrently.
	Verbose int      // Verbosity level, 0-4 (§9/diag): higher prints more pass boundaries.
}

// ---------------------
// ----- Constants -----
// ---------------------

const maxThreads = 64 // Maximum threads allowed executing in parallel.
const appVersion = "halide-lower 1.0"

// ---------------------
// ----- functions -----
// ---------------------

// ParseArgs parses command line arguments.
func ParseArgs() (Options, error) {
	opt := Options{Threads: 1}
	args := os.Args[1:]
	for i1 := 0; i1 < len(args); i1++ {
		switch args[i1] {
		case "-h", "--h", "-help", "--help":
			printHelp()
			os.Exit(0)
		case "-o":
			if i1+1 >= len(args) {
				return opt, fmt.Errorf("got flag %s but no argument", args[i1])
			}
			opt.Out = args[i1+1]
			i1++
		case "-t":
			if i1+1 >= len(args) {
				return opt, fmt.Errorf("got flag %s but no argument", args[i1])
			}
			t, err := strconv.Atoi(args[i1+1])
			if err != nil {
				return opt, fmt.Errorf("expected integer thread count, got: %s", args[i1+1])
			}
			if t < 1 || t > maxThreads {
				return opt, fmt.Errorf("thread count must be integer in range [1, %d]", maxThreads)
			}
			opt.Threads = t
			i1++
		case "-fn":
			if i1+1 >= len(args) {
				return opt, fmt.Errorf("got flag %s but no argument", args[i1])
			}
			opt.Func = args[i1+1]
			i1++
		case "-vb":
			if i1+1 >= len(args) {
				return opt, fmt.Errorf("got flag %s but no argument", args[i1])
			}
			v, err := strconv.Atoi(args[i1+1])
			if err != nil || v < 0 || v > 4 {
				return opt, fmt.Errorf("verbosity must be an integer in range [0, 4], got: %s", args[i1+1])
			}
			opt.Verbose = v
			i1++
		case "-v", "--v", "-version", "--version":
			fmt.Println(appVersion)
			os.Exit(0)
		default:
			if strings.HasPrefix(args[i1], "-") {
				return opt, fmt.Errorf("unexpected flag: %s", args[i1])
			}
			opt.Src = append(opt.Src, args[i1])
		}
	}
	return opt, nil
}

// printHelp prints a helpful usage message to stdout.
func printHelp() {
	w := tabwriter.NewWriter(os.Stdout, 6, 1, 1, 0, 0)
	_, _ = fmt.Fprintln(w, "-h, -help\tPrints this help message and exits the application.")
	_, _ = fmt.Fprintln(w, "-o\tOutput file; the output of all sources is written to it.")
	_, _ = fmt.Fprintf(w, "-t\tNumber of sources to lower in parallel. Must be in range [1, %d].\n", maxThreads)
	_, _ = fmt.Fprintln(w, "-fn\tName of the output function to lower. Defaults to the last func declared.")
	_, _ = fmt.Fprintln(w, "-vb\tVerbosity level, 0-4: higher prints more lowering pass boundaries.")
	_, _ = fmt.Fprintln(w, "-v, -version\tPrints application version and exits the application.")
	_ = w.Flush()
}
