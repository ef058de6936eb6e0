package shape

import (
	"github.com/olehluchkiv/apishape/internal/binding"
	"github.com/olehluchkiv/apishape/internal/knowntype"
	"github.com/olehluchkiv/apishape/internal/member"
	"github.com/olehluchkiv/apishape/internal/symbol"
)

const attributeSuffix = "Attribute"

// NameIs matches any of names under the descriptor's comparison mode.
func NameIs(names ...string) NamePredicate {
	return func(name string, compare member.Compare) bool {
		for _, n := range names {
			if compare.Equal(name, n) {
				return true
			}
		}
		return false
	}
}

// AttributeNameIs matches an attribute by its short or suffixed long name,
// whichever spelling either side uses.
func AttributeNameIs(attributeName string) NamePredicate {
	return func(name string, compare member.Compare) bool {
		return compare.Equal(trimAttributeSuffix(name, compare), trimAttributeSuffix(attributeName, compare))
	}
}

func trimAttributeSuffix(name string, compare member.Compare) string {
	if len(name) > len(attributeSuffix) && compare.Equal(name[len(name)-len(attributeSuffix):], attributeSuffix) {
		return name[:len(name)-len(attributeSuffix)]
	}
	return name
}

// MemberIs matches a member described by any of ms.
func MemberIs(ms ...*member.Descriptor) MemberPredicate {
	return func(m symbol.Member) bool {
		name := m.Name()
		for _, d := range ms {
			if d.Matches(name, m) {
				return true
			}
		}
		return false
	}
}

// ConstructorOf matches a constructor of owner.
func ConstructorOf(owner *knowntype.Descriptor) MemberPredicate {
	return func(m symbol.Member) bool {
		o := m.Owner()
		return m.Kind() == symbol.KindConstructor && o != nil && owner.Matches(o)
	}
}

// IndexerOf matches an indexer declared on container.
func IndexerOf(container *knowntype.Descriptor) MemberPredicate {
	return func(m symbol.Member) bool {
		o := m.Owner()
		return m.Kind() == symbol.KindIndexer && o != nil && container.Matches(o)
	}
}

// ParameterNamed matches the parameter called name. An empty name yields a
// nil predicate, which IsMatch treats as a wildcard.
func ParameterNamed(name string) ParameterPredicate {
	if name == "" {
		return nil
	}
	return func(p symbol.Parameter) bool { return p.Name() == name }
}

// ParameterOfType matches parameters whose type matches t.
func ParameterOfType(t *knowntype.Descriptor) ParameterPredicate {
	return func(p symbol.Parameter) bool {
		pt := p.Type()
		return pt != nil && t.Matches(pt)
	}
}

// AtPosition accepts the argument at absolute position i, or any argument
// bound by name. binding.NoPosition yields a nil predicate.
func AtPosition(i int) ArgumentListPredicate {
	if i == binding.NoPosition {
		return nil
	}
	return func(_ binding.List, position int) bool {
		return position == binding.NoPosition || position == i
	}
}

// FromEnd accepts the positional argument k places before the last one, so
// FromEnd(0) is the last argument.
func FromEnd(k int) ArgumentListPredicate {
	return func(args binding.List, position int) bool {
		return position != binding.NoPosition && position == args.Len()-1-k
	}
}

// Present accepts every argument unconditionally.
func Present() ArgumentListPredicate {
	return func(binding.List, int) bool { return true }
}

// ArgumentNamed is a site predicate holding when the inspected argument is
// explicitly bound to name. It suits WithValid and callers whose callee
// could not be resolved.
func ArgumentNamed(name string) SitePredicate {
	return func(s Site) bool {
		if s.Arguments == nil {
			return false
		}
		n, ok := s.Arguments.Named(s.Position)
		return ok && n == name
	}
}
