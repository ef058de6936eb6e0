package shape

import (
	"github.com/olehluchkiv/apishape/internal/knowntype"
	"github.com/olehluchkiv/apishape/internal/member"
	"github.com/olehluchkiv/apishape/internal/symbol"
)

// MethodInvocation describes an argument of a method or function call. Any
// predicate may be nil.
func MethodInvocation(m MemberPredicate, name NamePredicate, compare member.Compare,
	param ParameterPredicate, list ArgumentListPredicate, opts ...Option) *Descriptor {
	return build(Method, m, name, compare, param, list, opts)
}

// MethodArgument describes the argument feeding parameterName of the member
// described by m. position pins the argument's positional index; pass
// binding.NoPosition to accept any position. An empty parameterName accepts
// any parameter.
func MethodArgument(m *member.Descriptor, parameterName string, position int, opts ...Option) *Descriptor {
	return build(Method, m.MatchesSymbol, NameIs(m.Name()), m.Compare(),
		ParameterNamed(parameterName), AtPosition(position), opts)
}

// AnyMethodArgument is MethodArgument for a set of alternative members. The
// invoked name is compared under compare; each member still applies its own
// mode when matching the resolved symbol.
func AnyMethodArgument(ms []*member.Descriptor, parameterName string, compare member.Compare, opts ...Option) *Descriptor {
	names := make([]string, 0, len(ms))
	for _, m := range ms {
		names = append(names, m.Name())
	}
	return build(Method, MemberIs(ms...), NameIs(names...), compare,
		ParameterNamed(parameterName), nil, opts)
}

// ConstructorInvocation describes an argument of an object construction.
func ConstructorInvocation(m MemberPredicate, name NamePredicate, compare member.Compare,
	param ParameterPredicate, list ArgumentListPredicate, opts ...Option) *Descriptor {
	return build(Constructor, m, name, compare, param, list, opts)
}

// ConstructorArgument describes the argument feeding parameterName when
// constructing owner.
func ConstructorArgument(owner *knowntype.Descriptor, parameterName string, position int,
	compare member.Compare, opts ...Option) *Descriptor {
	return build(Constructor, ConstructorOf(owner), NameIs(owner.Name()), compare,
		ParameterNamed(parameterName), AtPosition(position), opts)
}

// ElementAccess describes an index argument of an indexer access.
func ElementAccess(m MemberPredicate, name NamePredicate, compare member.Compare,
	param ParameterPredicate, list ArgumentListPredicate, opts ...Option) *Descriptor {
	return build(Indexer, m, name, compare, param, list, opts)
}

// IndexerArgument describes the index argument at position when indexing a
// value of type container. indexed optionally constrains the name of the
// indexed expression.
func IndexerArgument(container *knowntype.Descriptor, indexed NamePredicate, compare member.Compare,
	position int, opts ...Option) *Descriptor {
	return build(Indexer, IndexerOf(container), indexed, compare, nil, AtPosition(position), opts)
}

// AttributeArgument describes the argument feeding parameterName of an
// attribute application. The attribute name matches with or without its
// "Attribute" suffix.
func AttributeArgument(attributeName, parameterName string, position int, compare member.Compare, opts ...Option) *Descriptor {
	return build(Attribute, nil, AttributeNameIs(attributeName), compare,
		ParameterNamed(parameterName), AtPosition(position), opts)
}

// AttributeProperty describes a property assignment inside an attribute
// application, which hosts resolve to the value parameter of the property's
// generated setter.
func AttributeProperty(attributeName, propertyName string, compare member.Compare, opts ...Option) *Descriptor {
	setter := func(p symbol.Parameter) bool {
		m := p.Member()
		return m != nil && m.Kind() == symbol.KindSetter && compare.Equal(m.Name(), propertyName)
	}
	return build(Attribute, nil, AttributeNameIs(attributeName), compare, setter, nil, opts)
}
