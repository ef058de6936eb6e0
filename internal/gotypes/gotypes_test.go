package gotypes

import (
	"go/ast"
	"go/constant"
	"go/types"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/tools/go/packages"

	"github.com/olehluchkiv/apishape/internal/knowntype"
	"github.com/olehluchkiv/apishape/internal/member"
	"github.com/olehluchkiv/apishape/internal/shape"
	"github.com/olehluchkiv/apishape/internal/symbol"
)

type checked struct {
	pkg  *types.Package
	info *types.Info
	file *ast.File
	u    *Universe
}

func check(t *testing.T) *checked {
	t.Helper()
	cfg := &packages.Config{
		Mode: packages.NeedName | packages.NeedTypes | packages.NeedSyntax |
			packages.NeedTypesInfo | packages.NeedImports,
		Dir: "testdata/sample",
	}
	pkgs, err := packages.Load(cfg, ".")
	require.NoError(t, err)
	require.Len(t, pkgs, 1)
	pkg := pkgs[0]
	require.Empty(t, pkg.Errors)
	require.Len(t, pkg.Syntax, 1)
	return &checked{pkg: pkg.Types, info: pkg.TypesInfo, file: pkg.Syntax[0], u: NewUniverse(pkg.Types)}
}

// calls returns every invocation in the file, in source order.
func (c *checked) calls() []*Call {
	var out []*Call
	ast.Inspect(c.file, func(n ast.Node) bool {
		if call, ok := NewCall(c.u, c.info, n); ok {
			out = append(out, call)
		}
		return true
	})
	return out
}

func (c *checked) find(t *testing.T, kind shape.Kind, name string) *Call {
	t.Helper()
	for _, call := range c.calls() {
		if call.Kind == kind && call.Name == name {
			return call
		}
	}
	require.Failf(t, "call not found", "%s %s", kind, name)
	return nil
}

func TestNewCall_SkipsNonInvocations(t *testing.T) {
	c := check(t)
	var names []string
	for _, call := range c.calls() {
		names = append(names, call.Kind.String()+":"+call.Name)
	}

	assert.Equal(t, []string{
		"method:Sum",
		"constructor:Config",
		"constructor:Config",
		"method:Command",
		"indexer:h",
		"method:Write",
		"method:Load",
		"method:fn",
		"indexer:data",
	}, names, "conversions, builtins and map literals are not invocations")
}

func TestFunction_OwnedByPackage(t *testing.T) {
	c := check(t)
	call := c.find(t, shape.Method, "Sum")

	callee := call.Callee()
	require.NotNil(t, callee)
	assert.Equal(t, symbol.KindFunction, callee.Kind())
	assert.True(t, knowntype.CryptoMD5.Matches(callee.Owner()))
	assert.False(t, knowntype.CryptoSHA1.Matches(callee.Owner()))
	assert.True(t, member.New(knowntype.CryptoMD5, "Sum", member.CaseSensitive).MatchesSymbol(callee))

	params := callee.Parameters()
	require.Len(t, params, 1)
	assert.Equal(t, "data", params[0].Name())
	assert.True(t, knowntype.ByteSlice.Matches(params[0].Type()))
}

func TestConstructor_KeyedFieldsAreNamedArguments(t *testing.T) {
	c := check(t)
	call := c.find(t, shape.Constructor, "Config")

	assert.True(t, knowntype.TLSConfig.Matches(call.Callee().Owner()))
	v, ok := call.Argument("InsecureSkipVerify")
	require.True(t, ok)
	assert.Equal(t, "true", v.(*ast.Ident).Name)

	d := shape.ConstructorArgument(knowntype.TLSConfig, "InsecureSkipVerify", 0, member.CaseSensitive)
	var matched []int
	for s := range call.Sites() {
		if d.IsMatch(s) {
			matched = append(matched, s.Position)
		}
	}
	assert.Equal(t, []int{1}, matched)

	_, ok = call.Argument("MinVersion")
	assert.False(t, ok, "omitted field")
}

func TestVariadicArguments(t *testing.T) {
	c := check(t)
	call := c.find(t, shape.Method, "Command")

	name, ok := call.Constant(0)
	require.True(t, ok)
	assert.Equal(t, "sh", constant.StringVal(name))

	args, ok := call.Arguments("arg")
	require.True(t, ok)
	require.Len(t, args, 2)
	flag, ok := call.Constant(1)
	require.True(t, ok)
	assert.Equal(t, "-c", constant.StringVal(flag))
	_, ok = call.Constant(2)
	assert.False(t, ok, "script is not constant")

	p, ok := call.Resolver().Parameter(2)
	require.True(t, ok)
	assert.True(t, p.IsVariadic())
	assert.True(t, knowntype.StringSlice.Matches(p.Type()))
}

func TestIndexer(t *testing.T) {
	c := check(t)
	call := c.find(t, shape.Indexer, "h")

	d := shape.IndexerArgument(knowntype.HTTPHeader, nil, member.CaseSensitive, 0)
	assert.True(t, d.IsMatch(call.Site(0)))
	key, ok := call.Constant(0)
	require.True(t, ok)
	assert.Equal(t, "content-type", constant.StringVal(key))

	p, ok := call.Resolver().Parameter(0)
	require.True(t, ok)
	assert.Equal(t, "key", p.Name())
	assert.True(t, knowntype.StringType.Matches(p.Type()))

	slice := c.find(t, shape.Indexer, "data")
	assert.False(t, d.IsMatch(slice.Site(0)))
	assert.True(t, knowntype.ByteSlice.Matches(slice.Callee().Owner()))
}

func TestMethod_ChainThroughImplementedInterface(t *testing.T) {
	c := check(t)
	call := c.find(t, shape.Method, "Write")
	callee := call.Callee()
	require.Equal(t, symbol.KindMethod, callee.Kind())

	assert.True(t, member.New(knowntype.OSFile, "Write", member.CaseSensitive).MatchesSymbol(callee))
	assert.False(t, member.New(knowntype.IOWriter, "Write", member.CaseSensitive).MatchesSymbol(callee))
	assert.True(t, member.NewChain(knowntype.IOWriter, "Write", member.CaseSensitive).MatchesSymbol(callee))
}

func TestGenericOwner(t *testing.T) {
	c := check(t)
	call := c.find(t, shape.Method, "Load")
	owner := call.Callee().Owner()

	assert.Equal(t, "Pointer", owner.Name())
	assert.True(t, knowntype.AtomicPointer.Matches(owner))
	assert.False(t, knowntype.New("sync/atomic", "Pointer").Matches(owner))
}

func TestFunctionValueHasNoCallee(t *testing.T) {
	c := check(t)
	call := c.find(t, shape.Method, "fn")

	assert.Nil(t, call.Callee())
	assert.True(t, shape.MethodInvocation(nil, shape.NameIs("fn"), member.CaseSensitive, nil, nil).IsMatch(call.Site(0)))
	_, ok := call.Resolver().Parameter(0)
	assert.False(t, ok)
}

func TestUniverse(t *testing.T) {
	c := check(t)

	var keys []string
	for _, n := range c.u.Interfaces() {
		keys = append(keys, ifaceKey(n))
	}
	assert.Contains(t, keys, "io.Writer")
	assert.Contains(t, keys, "builtin.error")
	assert.IsIncreasing(t, keys)

	rotating := c.pkg.Scope().Lookup("RotatingFile").Type()
	var implemented []string
	for n := range c.u.Implemented(rotating) {
		implemented = append(implemented, ifaceKey(n))
	}
	assert.Contains(t, implemented, "io.Writer", "promoted through the embedded *os.File")

	writer := c.u.Type(rotating)
	assert.True(t, member.NewChain(knowntype.IOWriter, "Write", member.CaseSensitive).MatchesSymbol(
		&goMember{kind: symbol.KindMethod, name: "Write", owner: writer}))

	for _, n := range c.u.Interfaces() {
		for got := range c.u.Implemented(n) {
			assert.NotEqual(t, ifaceKey(n), ifaceKey(got), "an interface does not implement itself")
		}
	}
}

func TestPackageOwner(t *testing.T) {
	p := Package(types.NewPackage("crypto/tls", "tls"))

	assert.Equal(t, "tls", p.Name())
	seg, ok := p.Namespace(0)
	assert.True(t, ok)
	assert.Equal(t, "crypto", seg)
	_, ok = p.Namespace(1)
	assert.False(t, ok)
	assert.True(t, knowntype.CryptoTLS.Matches(p))
	assert.Nil(t, Package(nil))
}

func TestIntrinsicMapping(t *testing.T) {
	u := &Universe{}
	assert.Equal(t, symbol.Uint8, u.Type(types.Typ[types.Byte]).Intrinsic())
	assert.Equal(t, symbol.String, u.Type(types.Typ[types.UntypedString]).Intrinsic())
	assert.Equal(t, symbol.UnsafePointer, u.Type(types.Typ[types.UnsafePointer]).Intrinsic())
	assert.Equal(t, symbol.IntrinsicNone, u.Type(types.Typ[types.UntypedNil]).Intrinsic())
	assert.Nil(t, u.Type(nil))

	ptr := u.Type(types.NewPointer(types.Typ[types.Int]))
	assert.True(t, knowntype.IntType.Matches(ptr), "pointers are transparent")
}
