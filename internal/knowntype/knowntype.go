// Package knowntype recognizes well-known API types by identity.
//
// A Descriptor is an immutable predicate over a resolved symbol.Type. It is
// either qualified (namespace path, short name, declared type-parameter
// names) or intrinsic (a builtin primitive tag), optionally wrapped as
// "array of". Descriptors are built once, usually as package-level catalog
// variables, and are safe for concurrent use without synchronization.
//
// Matching never builds a qualified name string: the candidate's namespace
// chain is walked innermost-first and the walk stops at the first mismatch,
// so the common "not a match" case does not allocate.
package knowntype

import (
	"fmt"
	"strings"

	"github.com/olehluchkiv/apishape/internal/symbol"
)

// Descriptor identifies one known type.
type Descriptor struct {
	name       string
	namespace  []string // innermost first
	sep        byte
	typeParams []string
	intrinsic  symbol.Intrinsic
	elem       *Descriptor
}

// New returns a descriptor for the type name declared in a slash-separated
// namespace (a Go package path). typeParams lists the declared type-parameter
// names of a generic definition, in order.
func New(namespace, name string, typeParams ...string) *Descriptor {
	return newQualified(namespace, '/', name, typeParams)
}

// NewDotted is New for dot-separated namespaces.
func NewDotted(namespace, name string, typeParams ...string) *Descriptor {
	return newQualified(namespace, '.', name, typeParams)
}

// Package returns a descriptor for a Go package, which hosts expose as the
// owner pseudo-type of package-level functions.
func Package(path string) *Descriptor {
	parent, last := symbol.SplitLast(path, '/')
	return New(parent, last)
}

// Module is Package for dot-separated module paths.
func Module(path string) *Descriptor {
	parent, last := symbol.SplitLast(path, '.')
	return NewDotted(parent, last)
}

// Intrinsic returns a descriptor matching a builtin primitive type.
func Intrinsic(tag symbol.Intrinsic) *Descriptor {
	if tag == symbol.IntrinsicNone {
		panic("knowntype: Intrinsic requires a primitive tag")
	}
	return &Descriptor{name: tag.String(), intrinsic: tag}
}

// ArrayOf returns a descriptor matching arrays whose element type matches
// elem.
func ArrayOf(elem *Descriptor) *Descriptor {
	return &Descriptor{name: elem.name, elem: elem}
}

func newQualified(namespace string, sep byte, name string, typeParams []string) *Descriptor {
	d := &Descriptor{name: name, sep: sep}
	if namespace != "" {
		parts := strings.Split(namespace, string(sep))
		d.namespace = make([]string, len(parts))
		for i, p := range parts {
			d.namespace[len(parts)-1-i] = p
		}
	}
	if len(typeParams) > 0 {
		d.typeParams = append([]string(nil), typeParams...)
	}
	return d
}

// Name returns the short type name.
func (d *Descriptor) Name() string { return d.name }

// IsArray reports whether d matches arrays only.
func (d *Descriptor) IsArray() bool { return d.elem != nil }

// Matches reports whether t is the type d describes. A constructed generic
// type matches the descriptor of its open definition. Matches panics when t
// is nil.
func (d *Descriptor) Matches(t symbol.Type) bool {
	if t == nil {
		panic(fmt.Errorf("%w: matching %s", symbol.ErrNilSymbol, d))
	}
	if d.elem != nil {
		e, ok := t.Elem()
		return ok && e != nil && d.elem.Matches(e)
	}
	if d.isMatch(t) {
		return true
	}
	o := t.Origin()
	return o != nil && d.isMatch(o)
}

// MatchesAny reports whether t matches any of ds.
func MatchesAny(t symbol.Type, ds ...*Descriptor) bool {
	for _, d := range ds {
		if d.Matches(t) {
			return true
		}
	}
	return false
}

func (d *Descriptor) isMatch(t symbol.Type) bool {
	if d.intrinsic != symbol.IntrinsicNone {
		return t.Intrinsic() == d.intrinsic
	}
	if t.Name() != d.name {
		return false
	}
	for i, want := range d.namespace {
		got, ok := t.Namespace(i)
		if !ok || got != want {
			return false
		}
	}
	if _, deeper := t.Namespace(len(d.namespace)); deeper {
		return false
	}
	// Declared parameter names are compared, not arity.
	if t.TypeParameterCount() != len(d.typeParams) {
		return false
	}
	for i, want := range d.typeParams {
		if t.TypeParameterName(i) != want {
			return false
		}
	}
	return true
}

func (d *Descriptor) String() string {
	if d.elem != nil {
		return "[]" + d.elem.String()
	}
	if d.intrinsic != symbol.IntrinsicNone {
		return d.intrinsic.String()
	}
	var b strings.Builder
	for i := len(d.namespace) - 1; i >= 0; i-- {
		b.WriteString(d.namespace[i])
		if i > 0 {
			b.WriteByte(d.sep)
		}
	}
	if b.Len() > 0 {
		b.WriteByte('.')
	}
	b.WriteString(d.name)
	if len(d.typeParams) > 0 {
		b.WriteByte('[')
		b.WriteString(strings.Join(d.typeParams, ", "))
		b.WriteByte(']')
	}
	return b.String()
}
