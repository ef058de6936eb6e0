// Package symbol defines the resolved-symbol model the matching engine
// consumes. A host front end (go/types, tree-sitter, or a test fixture)
// implements these interfaces; the engine never inspects concrete syntax.
package symbol

import (
	"errors"
	"iter"
)

// ErrNilSymbol is the panic value (wrapped) raised when a required resolved
// symbol is absent. Callers are expected to filter unresolved symbols first.
var ErrNilSymbol = errors.New("symbol: nil resolved symbol")

// Type is a resolved type.
type Type interface {
	// Name is the short (unqualified) name, e.g. "Config" or "int32".
	Name() string

	// Namespace returns the enclosing namespace segment at depth, where
	// depth 0 is the innermost one. ok is false past the outermost segment.
	Namespace(depth int) (segment string, ok bool)

	TypeParameterCount() int
	TypeParameterName(i int) string

	// Intrinsic returns the builtin primitive tag, or IntrinsicNone.
	Intrinsic() Intrinsic

	// Origin returns the original (unbound) generic definition of a
	// constructed type, or the type itself.
	Origin() Type

	// Elem returns the element type when the type is an array.
	Elem() (Type, bool)

	// Supertypes yields base types and implemented interfaces.
	Supertypes() iter.Seq[Type]
}

// MemberKind classifies a resolved member.
type MemberKind uint8

const (
	KindMethod MemberKind = iota
	KindFunction
	KindConstructor
	KindIndexer
	KindField
	KindProperty
	KindSetter
	KindEvent
)

func (k MemberKind) String() string {
	switch k {
	case KindMethod:
		return "method"
	case KindFunction:
		return "function"
	case KindConstructor:
		return "constructor"
	case KindIndexer:
		return "indexer"
	case KindField:
		return "field"
	case KindProperty:
		return "property"
	case KindSetter:
		return "setter"
	case KindEvent:
		return "event"
	default:
		return "unknown"
	}
}

// Member is a resolved method, function, constructor, indexer, property or
// event.
type Member interface {
	Kind() MemberKind
	Name() string

	// Owner is the declaring type. Package-level functions report their
	// package as a pseudo-type.
	Owner() Type

	Parameters() []Parameter

	// IsVarArgs reports the legacy variable-arity calling convention, which
	// argument resolution does not support.
	IsVarArgs() bool
}

// RefKind is the by-reference modifier of a parameter.
type RefKind uint8

const (
	RefNone RefKind = iota
	RefRef
	RefOut
	RefIn
)

func (k RefKind) String() string {
	switch k {
	case RefNone:
		return "none"
	case RefRef:
		return "ref"
	case RefOut:
		return "out"
	case RefIn:
		return "in"
	default:
		return "unknown"
	}
}

// Parameter is a formal parameter of a resolved member.
type Parameter interface {
	Name() string
	Type() Type
	Ordinal() int
	RefKind() RefKind
	IsVariadic() bool
	Member() Member
}
