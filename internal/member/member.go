// Package member recognizes well-known methods, properties and events by
// name and declaring type.
package member

import (
	"fmt"
	"strings"

	"github.com/olehluchkiv/apishape/internal/knowntype"
	"github.com/olehluchkiv/apishape/internal/symbol"
)

// Compare selects how member names are compared. There is no default; every
// descriptor states its mode.
type Compare uint8

const (
	CaseSensitive Compare = iota
	IgnoreCase
)

// Equal compares a and b under c.
func (c Compare) Equal(a, b string) bool {
	if c == IgnoreCase {
		return strings.EqualFold(a, b)
	}
	return a == b
}

// maxChainDepth bounds the supertype walk so a cyclic host model cannot hang
// a scan.
const maxChainDepth = 32

// Descriptor is an immutable (owner type, member name) pair.
type Descriptor struct {
	owner   *knowntype.Descriptor
	name    string
	compare Compare
	chain   bool
}

// New returns a descriptor that requires the member to be declared directly
// on owner.
func New(owner *knowntype.Descriptor, name string, compare Compare) *Descriptor {
	return &Descriptor{owner: owner, name: name, compare: compare}
}

// NewChain returns a descriptor that also accepts members whose declaring
// type derives from or implements owner, so implementations of a well-known
// interface method are recognized under the implementing type.
func NewChain(owner *knowntype.Descriptor, name string, compare Compare) *Descriptor {
	return &Descriptor{owner: owner, name: name, compare: compare, chain: true}
}

func (d *Descriptor) Name() string                 { return d.name }
func (d *Descriptor) Owner() *knowntype.Descriptor { return d.owner }
func (d *Descriptor) Chain() bool                  { return d.chain }
func (d *Descriptor) Compare() Compare             { return d.compare }

// Matches reports whether the member called name, resolved to m, is the one
// d describes. It panics when m is nil.
func (d *Descriptor) Matches(name string, m symbol.Member) bool {
	if m == nil {
		panic(fmt.Errorf("%w: matching member %s", symbol.ErrNilSymbol, d))
	}
	return d.compare.Equal(name, d.name) && d.matchesOwner(m)
}

// MatchesSymbol is Matches using the member's own name.
func (d *Descriptor) MatchesSymbol(m symbol.Member) bool {
	if m == nil {
		panic(fmt.Errorf("%w: matching member %s", symbol.ErrNilSymbol, d))
	}
	return d.Matches(m.Name(), m)
}

// MatchesAny reports whether any of ds matches. Owner identity is only
// checked for descriptors whose name matches.
func MatchesAny(name string, m symbol.Member, ds ...*Descriptor) bool {
	if m == nil {
		panic(fmt.Errorf("%w: matching member %s", symbol.ErrNilSymbol, name))
	}
	for _, d := range ds {
		if d.compare.Equal(name, d.name) && d.matchesOwner(m) {
			return true
		}
	}
	return false
}

func (d *Descriptor) matchesOwner(m symbol.Member) bool {
	owner := m.Owner()
	if owner == nil {
		return false
	}
	if d.owner.Matches(owner) {
		return true
	}
	return d.chain && d.inChain(owner)
}

// inChain walks the supertypes of t breadth first. Every direct supertype is
// checked before any is expanded, and each type is expanded at most once.
func (d *Descriptor) inChain(t symbol.Type) bool {
	seen := map[symbol.Type]bool{t: true}
	level := []symbol.Type{t}
	for depth := 0; depth < maxChainDepth && len(level) > 0; depth++ {
		var next []symbol.Type
		for _, cur := range level {
			for s := range cur.Supertypes() {
				if s == nil || seen[s] {
					continue
				}
				if d.owner.Matches(s) {
					return true
				}
				seen[s] = true
				next = append(next, s)
			}
		}
		level = next
	}
	return false
}

func (d *Descriptor) String() string {
	return d.owner.String() + "." + d.name
}
