package scanner

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/olehluchkiv/apishape/internal/pysyntax"
	"github.com/olehluchkiv/apishape/internal/rules"
)

var skipDirs = map[string]bool{
	".git":         true,
	"vendor":       true,
	"node_modules": true,
	"__pycache__":  true,
}

// pythonFiles returns the *.py files under dir, skipping version control,
// vendored and hidden directories.
func pythonFiles(ctx context.Context, dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && (skipDirs[d.Name()] || strings.HasPrefix(d.Name(), ".")) {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Type().IsRegular() && strings.HasSuffix(d.Name(), ".py") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", dir, err)
	}
	return files, nil
}

func scanPython(ctx context.Context, dir string, pyRules []*rules.PyRule, limit int, c *collector, logger *slog.Logger) (int, error) {
	files, err := pythonFiles(ctx, dir)
	if err != nil {
		return 0, err
	}
	stubs, err := rules.Stubs(ctx)
	if err != nil {
		return 0, err
	}
	parser := pysyntax.NewParser(pysyntax.WithStubs(stubs), pysyntax.WithLogger(logger))
	logger.Info("python files found", "files_count", len(files), "stub_modules", stubs.Modules())

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for _, path := range files {
		g.Go(func() error {
			return scanPythonFile(ctx, parser, c, path, pyRules, logger)
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}
	return len(files), nil
}

func scanPythonFile(ctx context.Context, parser *pysyntax.Parser, c *collector, path string, pyRules []*rules.PyRule, logger *slog.Logger) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	rel := c.rel(path)
	f, err := parser.Parse(ctx, content, rel)
	switch {
	case errors.Is(err, pysyntax.ErrFileTooLarge), errors.Is(err, pysyntax.ErrInvalidContent):
		logger.Warn("skipping python file", "file", rel, "error", err)
		return nil
	case err != nil:
		return fmt.Errorf("parsing %s: %w", rel, err)
	}
	defer f.Close()

	for _, r := range pyRules {
		r.Run(f, func(call *pysyntax.Call, msg string) {
			c.add(Finding{
				Rule:     r.Name,
				Language: Python,
				Package:  f.Module,
				File:     rel,
				Line:     call.Line(),
				Column:   call.Column(),
				Message:  msg,
			})
		})
	}
	logger.Debug("python file scanned", "file", rel, "calls", len(f.Calls()))
	return nil
}
