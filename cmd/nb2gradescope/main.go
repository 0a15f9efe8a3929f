package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/automaxprocs/maxprocs"

	"github.com/DS-100/nb-to-gradescope/internal/logging"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	os.Exit(run(os.Args[1:], DefaultEnv()))
}

// run dispatches to the subcommand and returns the process exit code.
func run(args []string, env *Environment) int {
	cmd := "convert"
	if len(args) > 0 {
		switch args[0] {
		case "convert", "doctor", "version", "help":
			cmd = args[0]
			args = args[1:]
		case "-h", "--help":
			cmd = "help"
			args = args[1:]
		}
	}

	switch cmd {
	case "version":
		fmt.Fprintf(env.Stdout, "nb2gradescope %s\n", Version)
		return ExitSuccess
	case "help":
		printUsage(env.Stdout)
		return ExitSuccess
	case "doctor":
		return runDoctorCmd(args, env)
	default:
		return runConvertCmd(args, env)
	}
}

// runConvertCmd parses flags, configures the pipeline, and converts the
// given notebooks.
func runConvertCmd(args []string, env *Environment) int {
	flags, files, err := parseConvertFlags(args)
	if err != nil {
		fmt.Fprintln(env.Stderr, err)
		return ExitUsage
	}

	switch {
	case flags.quiet:
		logging.SetLevel(logging.LevelError)
	case flags.verbose:
		logging.SetLevel(logging.LevelDebug)
	}

	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply and the program continues
	// safely.
	if flags.verbose {
		_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...any) {
			fmt.Fprintf(env.Stderr, format+"\n", args...)
		}))
	} else {
		_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...any) {}))
	}

	if err := runConvert(context.Background(), files, flags, env); err != nil {
		fmt.Fprintln(env.Stderr, err)
		return exitCodeFor(err)
	}
	return ExitSuccess
}
