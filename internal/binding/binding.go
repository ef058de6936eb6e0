// Package binding maps call-site arguments to the formal parameters of a
// resolved callee, and back.
//
// A Resolver is generic over the host's argument node type so callers that
// walk a concrete syntax tree get their own nodes back. Callers that only
// need positions and parameters use the node-agnostic List view.
//
// Resolution is a pure function of the argument list and the callee's
// parameter list. Nothing is cached between queries, and a Resolver is
// read-only once built, so one may be shared by concurrent readers.
package binding

import (
	"errors"
	"fmt"

	"github.com/olehluchkiv/apishape/internal/symbol"
)

// ErrUsage is wrapped by the panic raised when a caller violates a documented
// precondition.
var ErrUsage = errors.New("binding: usage fault")

// NoPosition is reported for an argument that is bound by name rather than
// by position.
const NoPosition = -1

// Syntax adapts one syntax family's argument nodes.
type Syntax[N comparable] interface {
	// NameBinding returns the explicit parameter name an argument is bound
	// to, as in f(value: x) or f(value=x).
	NameBinding(arg N) (name string, ok bool)
}

// SyntaxFunc adapts a function to Syntax.
type SyntaxFunc[N comparable] func(arg N) (string, bool)

func (f SyntaxFunc[N]) NameBinding(arg N) (string, bool) { return f(arg) }

// List is the node-agnostic view of one call's argument list.
type List interface {
	Len() int
	// Named returns the explicit name binding of the argument at position.
	Named(position int) (string, bool)
	// Parameter resolves the argument at position.
	Parameter(position int) (symbol.Parameter, bool)
}

// Resolver binds the arguments of one call to its callee's parameters.
type Resolver[N comparable] struct {
	syntax Syntax[N]
	args   []N
	callee symbol.Member
	params []symbol.Parameter
}

var _ List = (*Resolver[int])(nil)

// New returns a resolver for args against callee. The argument and parameter
// lists are borrowed, not copied. A nil callee is allowed: name bindings are
// still visible but no argument resolves to a parameter.
func New[N comparable](syntax Syntax[N], args []N, callee symbol.Member) *Resolver[N] {
	r := &Resolver[N]{syntax: syntax, args: args, callee: callee}
	if callee != nil {
		r.params = callee.Parameters()
	}
	return r
}

// Callee returns the resolved callee, or nil.
func (r *Resolver[N]) Callee() symbol.Member { return r.callee }

// Args returns the argument nodes in source order.
func (r *Resolver[N]) Args() []N { return r.args }

func (r *Resolver[N]) Len() int { return len(r.args) }

// IndexOf returns the zero-based position of arg, or NoPosition when arg is
// not part of this call.
func (r *Resolver[N]) IndexOf(arg N) int {
	for i, a := range r.args {
		if a == arg {
			return i
		}
	}
	return NoPosition
}

// Resolve returns the parameter arg feeds. It panics with ErrUsage when arg
// does not belong to this call's argument list.
func (r *Resolver[N]) Resolve(arg N) (symbol.Parameter, bool) {
	if r.varArgs() {
		return nil, false
	}
	pos := r.IndexOf(arg)
	if pos == NoPosition {
		panic(fmt.Errorf("%w: argument is not part of this call's argument list", ErrUsage))
	}
	return r.resolveAt(pos)
}

func (r *Resolver[N]) Named(position int) (string, bool) {
	r.checkPosition(position)
	return r.syntax.NameBinding(r.args[position])
}

func (r *Resolver[N]) Parameter(position int) (symbol.Parameter, bool) {
	r.checkPosition(position)
	if r.varArgs() {
		return nil, false
	}
	return r.resolveAt(position)
}

// Arguments returns, in source order, the argument nodes bound to p. An empty
// result means the parameter was omitted; more than one node only happens
// for a variadic parameter.
func (r *Resolver[N]) Arguments(p symbol.Parameter) []N {
	if p == nil {
		panic(fmt.Errorf("%w: parameter", symbol.ErrNilSymbol))
	}
	if r.varArgs() {
		return nil
	}
	var out []N
	for i, a := range r.args {
		if got, ok := r.resolveAt(i); ok && sameParameter(got, p) {
			out = append(out, a)
		}
	}
	return out
}

// Argument returns the single argument node bound to the non-variadic
// parameter p. Asking for a variadic parameter is a usage fault, since more
// than one node may feed it.
func (r *Resolver[N]) Argument(p symbol.Parameter) (N, bool) {
	var zero N
	if p == nil {
		panic(fmt.Errorf("%w: parameter", symbol.ErrNilSymbol))
	}
	if p.IsVariadic() {
		panic(fmt.Errorf("%w: single-argument resolution of variadic parameter %q", ErrUsage, p.Name()))
	}
	if r.varArgs() {
		return zero, false
	}
	found, n := zero, 0
	for i, a := range r.args {
		if got, ok := r.resolveAt(i); ok && sameParameter(got, p) {
			found = a
			n++
		}
	}
	if n != 1 {
		return zero, false
	}
	return found, true
}

// ParameterNamed returns the callee's parameter called name.
func (r *Resolver[N]) ParameterNamed(name string) (symbol.Parameter, bool) {
	for _, p := range r.params {
		if p.Name() == name {
			return p, true
		}
	}
	return nil, false
}

// ArgumentsNamed is Arguments for the parameter called name. ok is false when
// the callee has no such parameter.
func (r *Resolver[N]) ArgumentsNamed(name string) (args []N, ok bool) {
	p, ok := r.ParameterNamed(name)
	if !ok {
		return nil, false
	}
	return r.Arguments(p), true
}

func (r *Resolver[N]) resolveAt(pos int) (symbol.Parameter, bool) {
	if name, ok := r.syntax.NameBinding(r.args[pos]); ok {
		return r.ParameterNamed(name)
	}
	if pos < len(r.params) {
		return r.params[pos], true
	}
	if n := len(r.params); n > 0 && r.params[n-1].IsVariadic() {
		return r.params[n-1], true
	}
	return nil, false
}

func (r *Resolver[N]) varArgs() bool {
	return r.callee != nil && r.callee.IsVarArgs()
}

func (r *Resolver[N]) checkPosition(position int) {
	if position < 0 || position >= len(r.args) {
		panic(fmt.Errorf("%w: position %d outside argument list of length %d", ErrUsage, position, len(r.args)))
	}
}

// sameParameter compares by ordinal and name because hosts may hand out a
// fresh wrapper for the same parameter on every call.
func sameParameter(a, b symbol.Parameter) bool {
	return a.Ordinal() == b.Ordinal() && a.Name() == b.Name()
}

// Positional returns position when the argument there is bound by position,
// or NoPosition when it is bound by name.
func Positional(l List, position int) int {
	if _, named := l.Named(position); named {
		return NoPosition
	}
	return position
}
