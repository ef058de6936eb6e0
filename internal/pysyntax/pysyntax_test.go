package pysyntax

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olehluchkiv/apishape/internal/binding"
	"github.com/olehluchkiv/apishape/internal/knowntype"
	"github.com/olehluchkiv/apishape/internal/member"
	"github.com/olehluchkiv/apishape/internal/shape"
	"github.com/olehluchkiv/apishape/internal/symbol"
)

func parse(t *testing.T, src string, opts ...Option) *File {
	t.Helper()
	f, err := NewParser(opts...).Parse(context.Background(), []byte(src), "app.py")
	require.NoError(t, err)
	t.Cleanup(f.Close)
	return f
}

// find returns the first call of kind named name.
func find(t *testing.T, f *File, kind shape.Kind, name string) *Call {
	t.Helper()
	for _, c := range f.Calls() {
		if c.Kind == kind && c.Name == name {
			return c
		}
	}
	require.Failf(t, "call not found", "%s %s", kind, name)
	return nil
}

func paramName(t *testing.T, c *Call, position int) string {
	t.Helper()
	p, ok := c.Resolver().Parameter(position)
	if !ok {
		return ""
	}
	return p.Name()
}

func TestNamedArgumentBindsByName(t *testing.T) {
	f := parse(t, `
def Bar(a, value):
    pass

Bar(x, value=y)
Bar(value=y, a=x)
`)
	calls := f.Calls()
	require.Len(t, calls, 2)

	c := calls[0]
	assert.Equal(t, shape.Method, c.Kind)
	assert.Equal(t, "a", paramName(t, c, 0))
	assert.Equal(t, "value", paramName(t, c, 1))
	assert.Equal(t, "y", c.Text(1))

	reordered := calls[1]
	assert.Equal(t, "value", paramName(t, reordered, 0))
	assert.Equal(t, "a", paramName(t, reordered, 1))

	value, ok := reordered.Resolver().ParameterNamed("value")
	require.True(t, ok)
	arg, ok := reordered.Resolver().Argument(value)
	require.True(t, ok)
	assert.Equal(t, "value=y", f.Text(arg))

	d := shape.MethodArgument(member.New(knowntype.Module("app"), "Bar", member.CaseSensitive), "value", 1)
	assert.False(t, d.IsMatch(c.Site(0)))
	assert.True(t, d.IsMatch(c.Site(1)))
	assert.True(t, d.IsMatch(reordered.Site(0)))
}

func TestVariadicParameter(t *testing.T) {
	f := parse(t, `
def run(cmd, *args, **kwargs):
    pass

run("sh", "-c", script)
run("ls")
run("ls", extra=1)
`)
	calls := f.Calls()
	require.Len(t, calls, 3)

	args, ok := calls[0].Resolver().ArgumentsNamed("args")
	require.True(t, ok)
	require.Len(t, args, 2)
	assert.Equal(t, `"-c"`, f.Text(args[0]))
	assert.Equal(t, "script", f.Text(args[1]))

	omitted, ok := calls[1].Resolver().ArgumentsNamed("args")
	assert.True(t, ok)
	assert.Empty(t, omitted)

	_, ok = calls[2].Resolver().Parameter(1)
	assert.False(t, ok, "**kwargs is not a parameter")
	assert.Len(t, calls[0].Callee().Parameters(), 2)
}

func TestDuplicateDefinitionsAreAmbiguous(t *testing.T) {
	f := parse(t, `
try:
    def load(path, mode):
        pass
except ImportError:
    def load(path, mode, strict=False):
        pass

if FAST:
    def pick(a, b):
        pass
else:
    def pick(b, a):
        pass

load("a", mode="r")
pick(1, 2)
`)
	load := find(t, f, shape.Method, "load")
	assert.Nil(t, load.Callee())
	assert.Len(t, load.Candidates(), 2)

	amb := load.Ambiguous()
	require.NotNil(t, amb)
	mode, ok := amb.Arguments("mode")
	require.True(t, ok)
	require.Len(t, mode, 1)
	assert.Equal(t, `mode="r"`, f.Text(mode[0]))

	_, ok = amb.Arguments("strict")
	assert.False(t, ok, "not every candidate declares strict")

	pick := find(t, f, shape.Method, "pick")
	_, ok = pick.Ambiguous().Arguments("a")
	assert.False(t, ok, "candidates bind a to different arguments")
}

func TestClassConstruction(t *testing.T) {
	f := parse(t, `
class Service:
    def __init__(self, host, port=80):
        self.host = host

    def ping(self, timeout):
        return self.send(timeout)

    def send(self, payload):
        pass

    @staticmethod
    def parse(text):
        pass

class Child(Service):
    pass

Service("h", port=1)
Child("h")
`)
	svc := find(t, f, shape.Constructor, "Service")
	assert.Equal(t, symbol.KindConstructor, svc.Callee().Kind())
	assert.Equal(t, "host", paramName(t, svc, 0))
	assert.Equal(t, "port", paramName(t, svc, 1))
	assert.True(t, shape.ConstructorArgument(knowntype.NewDotted("app", "Service"), "port", binding.NoPosition, member.CaseSensitive).IsMatch(svc.Site(1)))

	child := find(t, f, shape.Constructor, "Child")
	assert.Equal(t, "host", paramName(t, child, 0), "constructor inherited from the base class")
	supers := 0
	for s := range child.Callee().Owner().Supertypes() {
		assert.Equal(t, "Service", s.Name())
		supers++
	}
	assert.Equal(t, 1, supers)

	send := find(t, f, shape.Method, "send")
	require.NotNil(t, send.Callee())
	assert.Equal(t, symbol.KindMethod, send.Callee().Kind())
	assert.Equal(t, "payload", paramName(t, send, 0), "self is not a parameter")
	assert.True(t, member.New(knowntype.NewDotted("app", "Service"), "send", member.CaseSensitive).MatchesSymbol(send.Callee()))

	cls := f.mod.classes["Service"]
	require.NotNil(t, cls)
	assert.Equal(t, "text", cls.methods["parse"].params[0].Name(), "static methods keep their first parameter")
}

func TestChainThroughBaseClass(t *testing.T) {
	f := parse(t, `
class Writer:
    def write(self, data):
        pass

class FileWriter(Writer):
    def write(self, data):
        pass

class Sink:
    def run(self):
        w = FileWriter()
        self.emit(1)

    def emit(self, v):
        pass
`)
	fw := f.mod.classes["FileWriter"]
	require.NotNil(t, fw)
	write := fw.methods["write"]

	assert.False(t, member.New(knowntype.NewDotted("app", "Writer"), "write", member.CaseSensitive).MatchesSymbol(write))
	assert.True(t, member.NewChain(knowntype.NewDotted("app", "Writer"), "write", member.CaseSensitive).MatchesSymbol(write))
}

const yamlStub = `
def load(stream, Loader=None): ...
def safe_load(stream): ...

class SafeLoader:
    def __init__(self, stream): ...
`

func stubs(t *testing.T) *Stubs {
	t.Helper()
	s, err := LoadStubs(context.Background(), fstest.MapFS{
		"yaml.pyi":       {Data: []byte(yamlStub)},
		"subprocess.pyi": {Data: []byte("def run(args, *, shell=False, check=False): ...\n")},
		"README":         {Data: []byte("ignored")},
	})
	require.NoError(t, err)
	return s
}

func TestImportedModuleWithStub(t *testing.T) {
	s := stubs(t)
	assert.Equal(t, 2, s.Modules())

	f := parse(t, `
import yaml
from yaml import SafeLoader as SL
from subprocess import run as r

yaml.load(f, yaml.SafeLoader)
yaml.load(f)
SL(stream)
r("ls", shell=True)
`, WithStubs(s))

	calls := f.Calls()
	var loads []*Call
	for _, c := range calls {
		if c.Name == "load" {
			loads = append(loads, c)
		}
	}
	require.Len(t, loads, 2)

	load := member.New(knowntype.PyYAML, "load", member.CaseSensitive)
	assert.True(t, load.MatchesSymbol(loads[0].Callee()))
	assert.Equal(t, "Loader", paramName(t, loads[0], 1), "positional Loader")
	_, ok := loads[1].Resolver().Argument(loads[1].Callee().Parameters()[1])
	assert.False(t, ok, "Loader omitted")

	sl := find(t, f, shape.Constructor, "SL")
	assert.True(t, knowntype.NewDotted("yaml", "SafeLoader").Matches(sl.Callee().Owner()))

	run := find(t, f, shape.Method, "r")
	assert.True(t, member.New(knowntype.PySubprocess, "run", member.CaseSensitive).MatchesSymbol(run.Callee()))
	assert.Equal(t, "shell", paramName(t, run, 1))
	v, ok := run.Keyword("shell")
	require.True(t, ok)
	assert.Equal(t, "True", f.Text(v))
}

func TestImportedModuleWithoutStub(t *testing.T) {
	f := parse(t, `
import os.path
import subprocess as sp

os.path.join(a, b)
sp.call(cmd, shell=True)
unknown(1)
`)
	join := find(t, f, shape.Method, "join")
	require.NotNil(t, join.Callee())
	assert.True(t, knowntype.Module("os.path").Matches(join.Callee().Owner()))
	assert.Empty(t, join.Callee().Parameters())

	call := find(t, f, shape.Method, "call")
	assert.True(t, member.New(knowntype.PySubprocess, "call", member.CaseSensitive).MatchesSymbol(call.Callee()))
	assert.True(t, shape.ArgumentNamed("shell")(call.Site(1)), "keyword visible without a signature")
	_, ok := call.Resolver().Parameter(1)
	assert.False(t, ok)

	assert.Nil(t, find(t, f, shape.Method, "unknown").Callee())
}

func TestSubscript(t *testing.T) {
	f := parse(t, `
import os
os.environ["HOME"]
d["k"]
`)
	env := find(t, f, shape.Indexer, "environ")
	d := shape.IndexerArgument(knowntype.NewDotted("os", "environ"), nil, member.CaseSensitive, 0)
	assert.True(t, d.IsMatch(env.Site(0)))
	assert.Equal(t, `"HOME"`, env.Text(0))

	local := find(t, f, shape.Indexer, "d")
	assert.Nil(t, local.Callee())
	assert.False(t, d.IsMatch(local.Site(0)))
}

func TestDecorators(t *testing.T) {
	f := parse(t, `
@app.route("/x", methods=["GET"])
@deprecated
def handler():
    pass
`)
	route := find(t, f, shape.Attribute, "route")
	assert.Equal(t, 2, route.Len())
	assert.True(t, shape.AttributeArgument("route", "", 0, member.CaseSensitive).IsMatch(route.Site(0)))
	assert.True(t, shape.ArgumentNamed("methods")(route.Site(1)))

	bare := find(t, f, shape.Attribute, "deprecated")
	assert.Equal(t, 0, bare.Len())

	for _, c := range f.Calls() {
		assert.NotEqual(t, shape.Method, c.Kind, "decorator calls are attribute applications")
	}
}

func TestKwargsSplatNeverResolves(t *testing.T) {
	f := parse(t, `
def f(a, b):
    pass

f(1, **opts)
`)
	c := find(t, f, shape.Method, "f")
	name, named := c.Resolver().Named(1)
	assert.True(t, named)
	assert.Equal(t, kwargsName, name)
	_, ok := c.Resolver().Parameter(1)
	assert.False(t, ok)
}

func TestParseErrors(t *testing.T) {
	p := NewParser(WithMaxFileSize(4))
	_, err := p.Parse(context.Background(), []byte("x = 1\n"), "big.py")
	assert.ErrorIs(t, err, ErrFileTooLarge)

	_, err = NewParser().Parse(context.Background(), []byte{0xff, 0xfe}, "bad.py")
	assert.ErrorIs(t, err, ErrInvalidContent)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = NewParser().Parse(ctx, []byte("x = 1\n"), "x.py")
	assert.ErrorIs(t, err, context.Canceled)

	f, err := NewParser().Parse(context.Background(), []byte("def f(:\n"), "broken.py")
	require.NoError(t, err)
	defer f.Close()
	assert.True(t, f.HasErrors)
}

func TestModulePath(t *testing.T) {
	for in, want := range map[string]string{
		"app.py":               "app",
		"./pkg/service.py":     "pkg.service",
		"pkg/sub/__init__.py":  "pkg.sub",
		"typeshed/os.path.pyi": "typeshed.os.path",
		`win\pkg\mod.py`:       "win.pkg.mod",
	} {
		assert.Equal(t, want, ModulePath(in), in)
	}
}

func TestLineAndColumn(t *testing.T) {
	f := parse(t, "x = 1\n  \nfoo(x)\n")
	c := find(t, f, shape.Method, "foo")
	assert.Equal(t, 3, c.Line())
	assert.Equal(t, 1, c.Column())
}
