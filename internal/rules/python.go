package rules

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"strings"

	"github.com/olehluchkiv/apishape/internal/binding"
	"github.com/olehluchkiv/apishape/internal/knowntype"
	"github.com/olehluchkiv/apishape/internal/member"
	"github.com/olehluchkiv/apishape/internal/pysyntax"
	"github.com/olehluchkiv/apishape/internal/shape"
	"github.com/olehluchkiv/apishape/internal/symbol"
)

// PyRule is a check over one parsed Python file.
type PyRule struct {
	Name string
	Doc  string
	Run  func(f *pysyntax.File, report func(c *pysyntax.Call, msg string))
}

//go:embed pystubs/*.pyi
var stubFS embed.FS

// Stubs parses the signatures the Python rules resolve imported calls
// against.
func Stubs(ctx context.Context) (*pysyntax.Stubs, error) {
	sub, err := fs.Sub(stubFS, "pystubs")
	if err != nil {
		return nil, fmt.Errorf("opening embedded stubs: %w", err)
	}
	return pysyntax.LoadStubs(ctx, sub)
}

// SubprocessShell reports subprocess calls that pass shell=True.
var SubprocessShell = &PyRule{
	Name: "subprocessshell",
	Doc:  "reports subprocess calls and Popen constructions with shell=True",
	Run:  runSubprocessShell,
}

var subprocessFuncs = []*member.Descriptor{
	member.New(knowntype.PySubprocess, "run", member.CaseSensitive),
	member.New(knowntype.PySubprocess, "call", member.CaseSensitive),
	member.New(knowntype.PySubprocess, "check_call", member.CaseSensitive),
	member.New(knowntype.PySubprocess, "check_output", member.CaseSensitive),
	// Popen is a function until a stub declares the class.
	member.New(knowntype.PySubprocess, "Popen", member.CaseSensitive),
}

var (
	shellArgument = shape.AnyMethodArgument(subprocessFuncs, "shell", member.CaseSensitive)
	shellPopen    = shape.ConstructorArgument(knowntype.PySubprocessPopen, "shell", binding.NoPosition, member.CaseSensitive)
	shellKeyword  = byKeyword(subprocessFuncs, "shell")
)

func runSubprocessShell(f *pysyntax.File, report func(c *pysyntax.Call, msg string)) {
	for _, c := range f.Calls() {
		if c.Callee() == nil {
			if ambiguousShell(c) {
				report(c, fmt.Sprintf("%s called with shell=True runs its command through the system shell", c.Name))
			}
			continue
		}
		for s := range c.Sites() {
			if !shellArgument.IsMatch(s) && !shellPopen.IsMatch(s) && !matchKeyword(shellKeyword, s) {
				continue
			}
			if c.Text(s.Position) == "True" {
				report(c, fmt.Sprintf("%s called with shell=True runs its command through the system shell", c.Name))
			}
			break
		}
	}
}

// ambiguousShell reports whether an overloaded subprocess call passes
// shell=True. Every overload must bind the same argument to shell.
func ambiguousShell(c *pysyntax.Call) bool {
	amb := c.Ambiguous()
	if c.Kind != shape.Method || amb == nil {
		return false
	}
	for _, m := range amb.Candidates() {
		if !member.MatchesAny(c.Name, m, subprocessFuncs...) {
			return false
		}
	}
	args, ok := amb.Arguments("shell")
	if !ok || len(args) != 1 {
		return false
	}
	return c.Text(c.Resolver().IndexOf(args[0])) == "True"
}

// YAMLLoad reports yaml.load calls that may construct arbitrary Python
// objects.
var YAMLLoad = &PyRule{
	Name: "yamlload",
	Doc:  "reports yaml.load calls without an explicit safe Loader",
	Run:  runYAMLLoad,
}

var (
	yamlLoads = []*member.Descriptor{
		member.New(knowntype.PyYAML, "load", member.CaseSensitive),
		member.New(knowntype.PyYAML, "load_all", member.CaseSensitive),
	}
	loaderArgument = shape.AnyMethodArgument(yamlLoads, "Loader", member.CaseSensitive)
	loaderKeyword  = byKeyword(yamlLoads, "Loader")
	// Without a signature the loader is the second positional argument.
	loaderPositional = shape.MethodInvocation(shape.MemberIs(yamlLoads...), nil, member.CaseSensitive,
		nil, shape.AtPosition(1))

	unsafeLoaders = map[string]bool{"Loader": true, "UnsafeLoader": true, "FullLoader": true}
)

func runYAMLLoad(f *pysyntax.File, report func(c *pysyntax.Call, msg string)) {
	for _, c := range f.Calls() {
		if c.Kind != shape.Method || c.Callee() == nil || !member.MatchesAny(c.Name, c.Callee(), yamlLoads...) {
			continue
		}
		loader := binding.NoPosition
		for s := range c.Sites() {
			if loaderArgument.IsMatch(s) || matchKeyword(loaderKeyword, s) ||
				unsigned(s.Member) && loaderPositional.IsMatch(s) && binding.Positional(s.Arguments, s.Position) == 1 {
				loader = s.Position
				break
			}
		}
		if loader == binding.NoPosition {
			report(c, fmt.Sprintf("yaml.%s without Loader= constructs arbitrary Python objects; use yaml.safe_load", c.Name))
			continue
		}
		name := c.Text(loader)
		if i := strings.LastIndexByte(name, '.'); i >= 0 {
			name = name[i+1:]
		}
		if unsafeLoaders[name] {
			report(c, fmt.Sprintf("yaml.%s with %s constructs arbitrary Python objects; use yaml.SafeLoader", c.Name, name))
		}
	}
}

// byKeyword describes an argument passed as name= to one of ms. It matches
// whether or not a signature for the callee is known.
func byKeyword(ms []*member.Descriptor, name string) *shape.Descriptor {
	return shape.MethodInvocation(shape.MemberIs(ms...), nil, member.CaseSensitive, nil, nil,
		shape.WithValid(shape.ArgumentNamed(name)))
}

func matchKeyword(d *shape.Descriptor, s shape.Site) bool {
	return d.IsMatch(s) && d.IsValid(s)
}

// unsigned reports whether m is a callee whose parameter list is unknown.
func unsigned(m symbol.Member) bool {
	return m != nil && len(m.Parameters()) == 0
}
