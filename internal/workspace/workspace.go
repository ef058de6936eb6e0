// Package workspace turns the CLI input (a local directory or a GitHub URL)
// into a directory ready for scanning.
package workspace

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"

	"golang.org/x/mod/modfile"
)

// maxSearchDepth bounds the go.mod search below a cloned repository root.
const maxSearchDepth = 3

var errNoModule = errors.New("no go.mod found")

// Workspace is a resolved scan root.
type Workspace struct {
	// Dir is the module root, or the input directory itself when it holds
	// no Go module.
	Dir string
	// ModulePath is the module path declared in go.mod; empty for trees
	// without one.
	ModulePath string
}

// Resolve takes an input (local dir, sub-package path, or GitHub URL) and
// returns the workspace to scan, plus a cleanup function.
func Resolve(ctx context.Context, input string, logger *slog.Logger) (ws *Workspace, cleanup func(), err error) {
	cleanup = func() {} // default no-op

	if isGitHubURL(input) {
		return fetchRepo(ctx, input, logger)
	}

	absPath, err := filepath.Abs(input)
	if err != nil {
		return nil, cleanup, fmt.Errorf("resolving path: %w", err)
	}

	info, err := os.Stat(absPath)
	if err != nil {
		return nil, cleanup, fmt.Errorf("stat %s: %w", absPath, err)
	}
	if !info.IsDir() {
		return nil, cleanup, fmt.Errorf("%s is not a directory", absPath)
	}

	modRoot, err := findModuleRoot(absPath)
	if errors.Is(err, errNoModule) {
		logger.Info("no Go module found, scanning directory as is", "dir", absPath)
		return &Workspace{Dir: absPath}, cleanup, nil
	}
	if err != nil {
		return nil, cleanup, err
	}

	ws, err = open(ctx, modRoot, logger)
	if err != nil {
		return nil, cleanup, err
	}
	logger.Info("resolved local directory", "input", input, "module_root", modRoot, "module", ws.ModulePath)
	return ws, cleanup, nil
}

// open reads the module at modRoot and makes sure its dependencies are
// available to the package loader.
func open(ctx context.Context, modRoot string, logger *slog.Logger) (*Workspace, error) {
	path, err := ModulePath(modRoot)
	if err != nil {
		return nil, err
	}
	if err := goModDownload(ctx, modRoot, logger); err != nil {
		logger.Warn("go mod download failed", "error", err)
	}
	return &Workspace{Dir: modRoot, ModulePath: path}, nil
}

// ModulePath returns the module path declared in dir/go.mod.
func ModulePath(dir string) (string, error) {
	data, err := os.ReadFile(filepath.Join(dir, "go.mod"))
	if err != nil {
		return "", fmt.Errorf("reading go.mod: %w", err)
	}
	path := modfile.ModulePath(data)
	if path == "" {
		return "", fmt.Errorf("%s/go.mod declares no module path", dir)
	}
	return path, nil
}

func isGitHubURL(input string) bool {
	return strings.Contains(input, "github.com") &&
		(strings.HasPrefix(input, "http://") || strings.HasPrefix(input, "https://"))
}

// cacheDir returns a stable directory for caching a cloned repo.
// Uses ~/.cache/apishape/repos/<hash> where hash is derived from the URL.
func cacheDir(url string) (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home dir: %w", err)
	}
	h := sha256.Sum256([]byte(url))
	name := fmt.Sprintf("%x", h[:8])
	return filepath.Join(home, ".cache", "apishape", "repos", name), nil
}

// fetchRepo either updates an existing cached clone or does a fresh clone.
// The cleanup is a no-op because the cache is persistent.
func fetchRepo(ctx context.Context, url string, logger *slog.Logger) (*Workspace, func(), error) {
	noop := func() {}

	dir, err := cacheDir(url)
	if err != nil {
		return nil, noop, err
	}

	if _, err := os.Stat(filepath.Join(dir, ".git")); err != nil {
		return cloneRepo(ctx, url, dir, logger)
	}

	logger.Info("updating cached repository", "url", url, "dir", dir)
	for _, args := range [][]string{
		{"fetch", "--depth=1", "origin"},
		{"reset", "--hard", "origin/HEAD"},
	} {
		if err := git(ctx, dir, args...); err != nil {
			logger.Warn("git "+args[0]+" failed, will re-clone", "error", err)
			_ = os.RemoveAll(dir)
			return cloneRepo(ctx, url, dir, logger)
		}
	}
	logger.Info("repository updated", "dir", dir)

	ws, err := openTree(ctx, dir, logger)
	return ws, noop, err
}

func cloneRepo(ctx context.Context, url, dir string, logger *slog.Logger) (*Workspace, func(), error) {
	noop := func() {}

	if err := os.MkdirAll(filepath.Dir(dir), 0o755); err != nil {
		return nil, noop, fmt.Errorf("creating cache dir: %w", err)
	}

	logger.Info("cloning repository", "url", url, "dest", dir)
	if err := git(ctx, "", "clone", "--depth=1", url, dir); err != nil {
		_ = os.RemoveAll(dir)
		return nil, noop, fmt.Errorf("git clone: %w", err)
	}
	logger.Info("clone complete", "dest", dir)

	ws, err := openTree(ctx, dir, logger)
	if err != nil {
		_ = os.RemoveAll(dir)
	}
	return ws, noop, err
}

// openTree opens the shallowest module in a cloned tree. go.mod may not be
// at the repository root; a tree without one is scanned as is.
func openTree(ctx context.Context, dir string, logger *slog.Logger) (*Workspace, error) {
	modRoot, err := findModuleRootInTree(dir)
	if errors.Is(err, errNoModule) {
		logger.Info("no Go module found in repository", "dir", dir)
		return &Workspace{Dir: dir}, nil
	}
	if err != nil {
		return nil, err
	}
	logger.Info("found module root", "module_root", modRoot)
	return open(ctx, modRoot, logger)
}

func git(ctx context.Context, dir string, args ...string) error {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// findModuleRoot returns the nearest directory at or above dir holding a
// go.mod.
func findModuleRoot(dir string) (string, error) {
	current := dir
	for {
		if _, err := os.Stat(filepath.Join(current, "go.mod")); err == nil {
			return current, nil
		}
		parent := filepath.Dir(current)
		if parent == current {
			return "", fmt.Errorf("%w in %s or any parent directory", errNoModule, dir)
		}
		current = parent
	}
}

// findModuleRootInTree searches root and its subdirectories for a go.mod,
// returning the shallowest one. Ties at the same depth go to the
// lexicographically first path. Hidden, vendor and node_modules directories
// are skipped.
func findModuleRootInTree(root string) (string, error) {
	var found []string
	foundDepth := maxSearchDepth + 1
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		depth := 0
		if path != root {
			name := d.Name()
			if strings.HasPrefix(name, ".") || name == "vendor" || name == "node_modules" {
				return filepath.SkipDir
			}
			rel, _ := filepath.Rel(root, path)
			depth = strings.Count(filepath.ToSlash(rel), "/") + 1
		}
		if depth > foundDepth || depth > maxSearchDepth {
			return filepath.SkipDir
		}
		if _, err := os.Stat(filepath.Join(path, "go.mod")); err == nil {
			if depth < foundDepth {
				found, foundDepth = nil, depth
			}
			found = append(found, path)
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("searching %s: %w", root, err)
	}
	if len(found) == 0 {
		return "", fmt.Errorf("%w in %s or its subdirectories", errNoModule, root)
	}
	slices.Sort(found)
	return found[0], nil
}

func goModDownload(ctx context.Context, dir string, logger *slog.Logger) error {
	logger.Debug("running go mod download", "dir", dir)
	cmd := exec.CommandContext(ctx, "go", "mod", "download")
	cmd.Dir = dir
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
