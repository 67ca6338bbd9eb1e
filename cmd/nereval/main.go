// nereval analyzes, converts and evaluates named entity recognition datasets stored in
// column format: one token per line, whitespace separated columns, the token first and the
// label(s) last, and blank lines between sentences.
//
// Usage:
//
//	nereval [-v] [-r] <command> [command options] ARGS
//
// Run `nereval --help` for the list of commands.
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/jessevdk/go-flags"
	"k8s.io/klog/v2"
)

// Options are the global options, shared by all commands.
type Options struct {
	Verbose []bool `short:"v" long:"verbose" description:"Log more details, repeat for more verbosity"`
	Relax   bool   `short:"r" long:"relax" description:"Accept inconsistent label sequences instead of failing on the first error"`
}

var (
	options Options
	parser  = flags.NewParser(&options, flags.HelpFlag|flags.PassDoubleDash)
)

func addCommand(name, short, long string, command flags.Commander) {
	if _, err := parser.AddCommand(name, short, long, command); err != nil {
		panic(err)
	}
}

// setupLogging configures klog from the global options. klog keeps its own flag set, so we
// feed it from a private one.
func setupLogging() {
	fs := flag.NewFlagSet("klog", flag.ContinueOnError)
	klog.InitFlags(fs)
	_ = fs.Set("logtostderr", "true")
	_ = fs.Set("v", strconv.Itoa(len(options.Verbose)))
}

func main() {
	parser.CommandHandler = func(command flags.Commander, args []string) error {
		setupLogging()
		defer klog.Flush()
		return command.Execute(args)
	}
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			fmt.Println(flagsErr.Message)
			os.Exit(0)
		}
		klog.Errorf("%v", err)
		klog.Flush()
		os.Exit(1)
	}
}
