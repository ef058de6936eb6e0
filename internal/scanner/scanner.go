// Package scanner runs the rule catalog over a source tree: every Go package
// of the module rooted there and, optionally, every Python file.
package scanner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/checker"
	"golang.org/x/tools/go/packages"

	"github.com/olehluchkiv/apishape/internal/rules"
)

// Scan loads the Go packages under dir and runs the rules selected by opts.
// A tree without go.mod is scanned for Python files only.
func Scan(ctx context.Context, dir string, opts Options, logger *slog.Logger) (*Result, error) {
	goRules, pyRules, err := rules.Select(opts.Rules)
	if err != nil {
		return nil, err
	}
	dir, err = filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}
	limit := opts.Concurrency
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}

	c := &collector{dir: dir}
	result := &Result{}

	if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil && len(goRules) > 0 {
		if err := scanGo(ctx, dir, goRules, limit, c, result, logger); err != nil {
			return nil, err
		}
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("stat go.mod: %w", err)
	}

	if opts.Python && len(pyRules) > 0 {
		n, err := scanPython(ctx, dir, pyRules, limit, c, logger)
		if err != nil {
			return nil, err
		}
		result.PythonFiles = n
	}

	result.Findings = c.findings
	sortFindings(result.Findings)
	logger.Info("scan complete", "packages", result.Packages, "python_files", result.PythonFiles, "findings", len(result.Findings))
	return result, nil
}

func scanGo(ctx context.Context, dir string, analyzers []*analysis.Analyzer, limit int, c *collector, result *Result, logger *slog.Logger) error {
	cfg := &packages.Config{
		Mode: packages.NeedName | packages.NeedTypes | packages.NeedSyntax |
			packages.NeedTypesInfo | packages.NeedImports | packages.NeedTypesSizes |
			packages.NeedModule,
		Dir:     dir,
		Context: ctx,
	}

	pkgs, err := packages.Load(cfg, "./...")
	if err != nil {
		return fmt.Errorf("loading packages: %w", err)
	}
	logger.Info("packages loaded", "packages_count", len(pkgs))
	for _, pkg := range pkgs {
		if pkg.Module != nil {
			result.ModulePath = pkg.Module.Path
			break
		}
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for _, pkg := range pkgs {
		if len(pkg.Errors) > 0 {
			for _, e := range pkg.Errors {
				logger.Warn("package load error", "package", pkg.PkgPath, "error", e.Msg)
			}
			continue
		}
		result.Packages++
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return analyzePackage(pkg, analyzers, c, logger)
		})
	}
	return g.Wait()
}

// analyzePackage runs analyzers over pkg on the calling goroutine, so the
// worker limit bounds the whole scan.
func analyzePackage(pkg *packages.Package, analyzers []*analysis.Analyzer, c *collector, logger *slog.Logger) error {
	graph, err := checker.Analyze(analyzers, []*packages.Package{pkg}, &checker.Options{Sequential: true})
	if err != nil {
		return fmt.Errorf("analyzing %s: %w", pkg.PkgPath, err)
	}
	for _, act := range graph.Roots {
		if act.Err != nil {
			return fmt.Errorf("analyzer %s on %s: %w", act.Analyzer.Name, pkg.PkgPath, act.Err)
		}
	}
	for act := range graph.All() {
		for _, d := range act.Diagnostics {
			c.addGo(act.Package, act.Analyzer.Name, d)
		}
	}
	logger.Debug("package scanned", "package", pkg.PkgPath)
	return nil
}

// collector gathers findings from concurrent workers.
type collector struct {
	dir      string
	mu       sync.Mutex
	findings []Finding
}

func (c *collector) addGo(pkg *packages.Package, rule string, d analysis.Diagnostic) {
	pos := pkg.Fset.Position(d.Pos)
	c.add(Finding{
		Rule:     rule,
		Language: Go,
		Package:  pkg.PkgPath,
		File:     c.rel(pos.Filename),
		Line:     pos.Line,
		Column:   pos.Column,
		Message:  d.Message,
	})
}

func (c *collector) add(f Finding) {
	c.mu.Lock()
	c.findings = append(c.findings, f)
	c.mu.Unlock()
}

// rel resolves a file name to a path relative to the scanned directory.
func (c *collector) rel(name string) string {
	rel, err := filepath.Rel(c.dir, name)
	if err != nil {
		return name
	}
	return filepath.ToSlash(rel)
}
