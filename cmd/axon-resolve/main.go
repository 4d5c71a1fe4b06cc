package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/toyz/axonresolve/internal/config"
	"github.com/toyz/axonresolve/internal/diagnostics"
)

const (
	debugCommand = "debug:meta-resolvers"
	serveCommand = "serve"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func usage(w io.Writer, fs *flag.FlagSet) func() {
	return func() {
		fmt.Fprintf(w, "Usage: axon-resolve [options] <command> [command options]\n\n")
		fmt.Fprintf(w, "Resolves handler arguments from request data using declarative markers.\n\n")
		fmt.Fprintf(w, "Options:\n")
		fs.SetOutput(w)
		fs.PrintDefaults()
		fmt.Fprintf(w, "\nCommands:\n")
		fmt.Fprintf(w, "  %-22s List every marker and the resolver that handles it\n", debugCommand)
		fmt.Fprintf(w, "  %-22s Start the HTTP service\n", serveCommand)
		fmt.Fprintf(w, "\nExamples:\n")
		fmt.Fprintf(w, "  axon-resolve %s\n", debugCommand)
		fmt.Fprintf(w, "  axon-resolve %s -verbose\n", debugCommand)
		fmt.Fprintf(w, "  axon-resolve -quiet %s\n", debugCommand)
		fmt.Fprintf(w, "  axon-resolve -config resolve.yaml %s\n", serveCommand)
	}
}

// run executes the CLI and returns the process exit code
func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("axon-resolve", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var (
		configFlag  = fs.String("config", "", "Path to a YAML or JSON configuration file")
		quietFlag   = fs.Bool("quiet", false, "Only show errors")
		verboseFlag = fs.Bool("verbose", false, "Show error context and causes")
		helpFlag    = fs.Bool("help", false, "Show help information")
	)
	fs.Usage = usage(stderr, fs)

	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n\n", err)
		fs.Usage()
		return 2
	}

	if *helpFlag {
		usage(stdout, fs)()
		return 0
	}

	level := diagnostics.InfoLevel
	switch {
	case *quietFlag:
		level = diagnostics.ErrorLevel
	case *verboseFlag:
		level = diagnostics.VerboseLevel
	}
	printer := diagnostics.NewPrinterTo(level, stdout, stderr, false)
	if f, ok := stdout.(*os.File); ok && f == os.Stdout {
		printer = diagnostics.NewPrinter(level)
	}

	rest := fs.Args()
	if len(rest) == 0 {
		fmt.Fprintf(stderr, "Error: a command is required\n\n")
		fs.Usage()
		return 2
	}

	cfg, err := config.Load(*configFlag)
	if err != nil {
		printer.ReportError(err)
		return 1
	}
	if *configFlag != "" {
		printer.Verbose("configuration loaded from %s", *configFlag)
	}
	printer.Verbose("adapter %s, json engine %s", cfg.Server.Adapter, cfg.Codec.JSONEngine)

	switch rest[0] {
	case debugCommand:
		return runDebug(rest[1:], cfg, printer)
	case serveCommand:
		if err := serve(cfg, printer); err != nil {
			printer.ReportError(err)
			return 1
		}
		return 0
	default:
		fmt.Fprintf(stderr, "Error: unknown command %q\n\n", rest[0])
		fs.Usage()
		return 2
	}
}

func runDebug(args []string, cfg *config.Config, printer *diagnostics.Printer) int {
	fs := flag.NewFlagSet(debugCommand, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	verbose := fs.Bool("verbose", false, "Show fully qualified marker and resolver names")
	fs.BoolVar(verbose, "v", false, "Shorthand for -verbose")

	if err := fs.Parse(args); err != nil {
		printer.Error("%s: %v", debugCommand, err)
		return 2
	}

	reg, err := loadRegistry(cfg)
	if err != nil {
		printer.ReportError(err)
		return 1
	}

	if err := renderListing(printer.Output(), reg, *verbose); err != nil {
		printer.ReportError(err)
		return 1
	}
	if reg.Len() > 0 {
		printer.Success("%d meta resolvers registered", reg.Len())
	}
	return 0
}
