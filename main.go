package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/olehluchkiv/apishape/internal/logging"
	"github.com/olehluchkiv/apishape/internal/rules"
	"github.com/olehluchkiv/apishape/internal/scanner"
	"github.com/olehluchkiv/apishape/internal/workspace"
)

// exitFindings is the exit status when the scan reported findings.
const exitFindings = 3

func main() {
	// Use a custom FlagSet so we can parse all args regardless of position.
	// Go's default flag.Parse stops at the first non-flag argument, which
	// breaks "apishape ./path -rules sqlstring". We reorder args so flags
	// come first, then positional args.
	flags, positional := reorderArgs(os.Args[1:])

	fs := flag.NewFlagSet("apishape", flag.ExitOnError)
	pathFlag := fs.String("path", "", "path or GitHub URL to scan (alternative to positional argument)")
	filter := fs.String("filter", "", "package path prefix filter (import path for Go, dotted module for Python)")
	rulesFlag := fs.String("rules", "", "comma-separated rules to run (default: all)")
	python := fs.Bool("python", false, "also scan *.py files")
	format := fs.String("format", "text", "output format (text, json)")
	output := fs.String("output", "", "write findings to file instead of stdout")
	list := fs.Bool("list", false, "list available rules and exit")
	logFile := fs.String("log-file", "logs/apishape.log", "log file path (empty for stderr only)")
	logLevel := fs.String("log-level", "info", "log level (debug, info, warn, error)")

	if err := fs.Parse(flags); err != nil {
		os.Exit(1)
	}
	positional = append(positional, fs.Args()...)

	if *list {
		listRules(os.Stdout)
		return
	}

	// Determine input: positional argument takes precedence, then -path flag
	input := ""
	if len(positional) > 0 {
		input = positional[0]
	}
	if input == "" {
		input = *pathFlag
	}
	if input == "" {
		fmt.Fprintln(os.Stderr, "Usage: apishape [flags] <path-or-url>")
		fs.PrintDefaults()
		os.Exit(1)
	}

	if *format != "text" && *format != "json" {
		fmt.Fprintf(os.Stderr, "Invalid format %q (valid: text, json)\n", *format)
		os.Exit(1)
	}

	level, err := parseLogLevel(*logLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid log level %q: %v\n", *logLevel, err)
		os.Exit(1)
	}

	logger, logCleanup, err := logging.Setup(*logFile, level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to setup logging: %v\n", err)
		os.Exit(1)
	}
	defer logCleanup()

	// Setup signal handling with context cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received signal, shutting down", "signal", sig)
		cancel()
	}()

	code := run(ctx, input, scanner.Options{
		Filter: *filter,
		Rules:  splitRules(*rulesFlag),
		Python: *python,
	}, *format, *output, logger)
	logCleanup()
	os.Exit(code)
}

// run resolves input, scans it and writes the findings. It returns the
// process exit status.
func run(ctx context.Context, input string, opts scanner.Options, format, output string, logger *slog.Logger) int {
	ws, cleanup, err := workspace.Resolve(ctx, input, logger)
	if err != nil {
		logger.Error("failed to resolve input", "error", err)
		fmt.Fprintf(os.Stderr, "Error resolving input: %v\n", err)
		return 1
	}
	defer cleanup()

	result, err := scanner.Scan(ctx, ws.Dir, opts, logger.With("component", "scanner"))
	if err != nil {
		logger.Error("scan failed", "error", err)
		fmt.Fprintf(os.Stderr, "Error scanning: %v\n", err)
		return 1
	}
	if result.ModulePath == "" {
		result.ModulePath = ws.ModulePath
	}
	result = scanner.Filter(result, opts)

	w := io.Writer(os.Stdout)
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			logger.Error("failed to create output file", "error", err)
			fmt.Fprintf(os.Stderr, "Error writing to %s: %v\n", output, err)
			return 1
		}
		defer f.Close()
		w = f
	}

	if format == "json" {
		err = writeJSON(w, result)
	} else {
		err = writeText(w, result)
	}
	if err != nil {
		logger.Error("failed to write findings", "error", err)
		fmt.Fprintf(os.Stderr, "Error writing findings: %v\n", err)
		return 1
	}

	fmt.Fprintf(os.Stderr, "Scanned %d packages, %d python files: %d findings\n",
		result.Packages, result.PythonFiles, len(result.Findings))
	if len(result.Findings) > 0 {
		return exitFindings
	}
	return 0
}

// writeText writes one "file:line:col: [rule] message" line per finding.
func writeText(w io.Writer, result *scanner.Result) error {
	for _, f := range result.Findings {
		if _, err := fmt.Fprintf(w, "%s:%d:%d: [%s] %s\n", f.File, f.Line, f.Column, f.Rule, f.Message); err != nil {
			return err
		}
	}
	return nil
}

func writeJSON(w io.Writer, result *scanner.Result) error {
	if result.Findings == nil {
		result.Findings = []scanner.Finding{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func listRules(w io.Writer) {
	for _, a := range rules.Go {
		fmt.Fprintf(w, "%-16s go      %s\n", a.Name, a.Doc)
	}
	for _, r := range rules.Python {
		fmt.Fprintf(w, "%-16s python  %s\n", r.Name, r.Doc)
	}
}

// splitRules parses the -rules value. Blank entries are dropped.
func splitRules(s string) []string {
	var out []string
	for _, name := range strings.Split(s, ",") {
		if name = strings.TrimSpace(name); name != "" {
			out = append(out, name)
		}
	}
	return out
}

// reorderArgs separates flags and positional arguments so flags can appear
// in any position (before or after the positional path argument).
// Flags that take a value (e.g., -output file.txt) consume the next arg.
func reorderArgs(args []string) (flags, positional []string) {
	// Set of flags that take a value argument
	valueFlagSet := map[string]bool{
		"-path": true, "-filter": true, "-rules": true, "-format": true,
		"-output": true, "-log-file": true, "-log-level": true,
	}

	for i := 0; i < len(args); i++ {
		arg := args[i]
		if strings.HasPrefix(arg, "-") {
			flags = append(flags, arg)
			// Check if this flag takes a value (and it's not using = syntax)
			if !strings.Contains(arg, "=") && valueFlagSet[arg] && i+1 < len(args) {
				i++
				flags = append(flags, args[i])
			}
		} else {
			positional = append(positional, arg)
		}
	}
	return flags, positional
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level: %s (valid: debug, info, warn, error)", s)
	}
}
