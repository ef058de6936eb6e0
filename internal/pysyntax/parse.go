// Package pysyntax adapts tree-sitter Python syntax trees to the symbol model.
//
// Python carries no static types, so resolution is file-local: calls bind to
// functions and classes defined at module level in the same file, to methods
// of the enclosing class through self, and to imported modules. Signatures of
// imported modules come from optional stub sources. Several module-level
// definitions of the same name (typically under try/except or if/else) make
// the callee ambiguous.
package pysyntax

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"strings"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

// DefaultMaxFileSize is the largest file Parse accepts unless configured.
const DefaultMaxFileSize = 10 * 1024 * 1024

var (
	ErrFileTooLarge   = errors.New("pysyntax: file too large")
	ErrInvalidContent = errors.New("pysyntax: invalid content")
)

// Parser parses Python files. It is safe for concurrent use.
type Parser struct {
	stubs       *Stubs
	maxFileSize int64
	logger      *slog.Logger
}

// Option configures a Parser.
type Option func(*Parser)

// WithStubs resolves calls into imported modules against s.
func WithStubs(s *Stubs) Option {
	return func(p *Parser) { p.stubs = s }
}

// WithMaxFileSize overrides DefaultMaxFileSize.
func WithMaxFileSize(bytes int64) Option {
	return func(p *Parser) { p.maxFileSize = bytes }
}

// WithLogger sets the logger used for parse warnings.
func WithLogger(l *slog.Logger) Option {
	return func(p *Parser) { p.logger = l }
}

// NewParser returns a parser configured by opts.
func NewParser(opts ...Option) *Parser {
	p := &Parser{maxFileSize: DefaultMaxFileSize, logger: slog.Default()}
	for _, o := range opts {
		o(p)
	}
	return p
}

// File is one parsed Python source file with its symbol table and calls. The
// syntax tree stays alive until Close.
type File struct {
	Path string
	// Module is the dotted module path derived from Path.
	Module string
	// HasErrors is set when tree-sitter recovered from syntax errors.
	HasErrors bool

	content []byte
	tree    *sitter.Tree
	mod     *module
	stubs   *Stubs
	imports map[string]string   // local name -> module path
	from    map[string]imported // local name -> module member
	calls   []*Call
}

type imported struct {
	module string
	name   string
}

// Parse parses content as the Python file at filePath.
func (p *Parser) Parse(ctx context.Context, content []byte, filePath string) (*File, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("parse canceled before start: %w", err)
	}
	if int64(len(content)) > p.maxFileSize {
		return nil, fmt.Errorf("%w: size %d exceeds limit %d", ErrFileTooLarge, len(content), p.maxFileSize)
	}
	if !utf8.Valid(content) {
		return nil, fmt.Errorf("%w: content is not valid UTF-8", ErrInvalidContent)
	}

	tree, err := parseTree(ctx, content)
	if err != nil {
		return nil, err
	}
	f := &File{
		Path:    filePath,
		Module:  ModulePath(filePath),
		content: content,
		tree:    tree,
		stubs:   p.stubs,
		imports: make(map[string]string),
		from:    make(map[string]imported),
	}
	root := tree.RootNode()
	f.HasErrors = root.HasError()
	if f.HasErrors {
		p.logger.Warn("python source contains syntax errors", "file", filePath)
	}

	f.mod = newModule(f.Module)
	b := &builder{content: content, mod: f.mod, imports: f.imports, from: f.from}
	b.block(root)
	b.resolveBases(f.stubs)
	f.extractCalls(ctx, root)

	if err := ctx.Err(); err != nil {
		tree.Close()
		return nil, fmt.Errorf("parse canceled after extraction: %w", err)
	}
	return f, nil
}

func parseTree(ctx context.Context, content []byte) (*sitter.Tree, error) {
	// A parser per call keeps Parse safe for concurrent use.
	parser := sitter.NewParser()
	parser.SetLanguage(python.GetLanguage())
	tree, err := parser.ParseCtx(ctx, nil, content)
	if err != nil {
		return nil, fmt.Errorf("tree-sitter parse failed: %w", err)
	}
	return tree, nil
}

// Close releases the syntax tree. Nodes obtained from the file are invalid
// afterwards.
func (f *File) Close() {
	if f.tree != nil {
		f.tree.Close()
		f.tree = nil
	}
}

// Calls returns every call, class construction, subscript and decorator
// application in source order.
func (f *File) Calls() []*Call { return f.calls }

// Text returns the source text of n.
func (f *File) Text(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	return n.Content(f.content)
}

// ModulePath derives a dotted module path from a slash-separated file path.
func ModulePath(filePath string) string {
	p := strings.TrimSuffix(path.Clean(strings.ReplaceAll(filePath, "\\", "/")), ".py")
	p = strings.TrimSuffix(strings.TrimSuffix(p, ".pyi"), "/__init__")
	p = strings.TrimLeft(p, "./")
	return strings.ReplaceAll(p, "/", ".")
}

// Stubs holds the declared signatures of imported modules, written as
// Python source with elided bodies.
type Stubs struct {
	modules map[string]*module
}

// LoadStubs parses every *.pyi file in fsys. The module path of a stub is its
// file name without the extension, so os.path.pyi declares os.path.
func LoadStubs(ctx context.Context, fsys fs.FS) (*Stubs, error) {
	names, err := fs.Glob(fsys, "*.pyi")
	if err != nil {
		return nil, fmt.Errorf("listing stubs: %w", err)
	}
	s := &Stubs{modules: make(map[string]*module, len(names))}
	for _, name := range names {
		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("reading stub %s: %w", name, err)
		}
		tree, err := parseTree(ctx, content)
		if err != nil {
			return nil, fmt.Errorf("parsing stub %s: %w", name, err)
		}
		mod := newModule(strings.TrimSuffix(name, ".pyi"))
		b := &builder{content: content, mod: mod, imports: map[string]string{}, from: map[string]imported{}}
		b.block(tree.RootNode())
		b.resolveBases(nil)
		tree.Close()
		s.modules[mod.path] = mod
	}
	return s, nil
}

// Modules returns the number of stub modules loaded.
func (s *Stubs) Modules() int {
	if s == nil {
		return 0
	}
	return len(s.modules)
}

func (s *Stubs) module(path string) (*module, bool) {
	if s == nil {
		return nil, false
	}
	m, ok := s.modules[path]
	return m, ok
}
