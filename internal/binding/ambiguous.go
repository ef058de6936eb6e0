package binding

import (
	"slices"

	"github.com/olehluchkiv/apishape/internal/symbol"
)

// Ambiguous resolves arguments when overload resolution left several
// candidate callees. It never picks one candidate over another.
type Ambiguous[N comparable] struct {
	syntax     Syntax[N]
	args       []N
	candidates []symbol.Member
}

// NewAmbiguous returns a resolver over every candidate signature.
func NewAmbiguous[N comparable](syntax Syntax[N], args []N, candidates []symbol.Member) *Ambiguous[N] {
	return &Ambiguous[N]{syntax: syntax, args: args, candidates: candidates}
}

// Candidates returns the candidate callees.
func (a *Ambiguous[N]) Candidates() []symbol.Member { return a.candidates }

// Arguments returns the argument nodes bound to the parameter called name.
// ok is true only when every candidate declares the parameter and binds the
// same, non-empty sequence of nodes to it.
func (a *Ambiguous[N]) Arguments(name string) (args []N, ok bool) {
	if len(a.candidates) == 0 {
		return nil, false
	}
	var first []N
	for i, c := range a.candidates {
		if c == nil {
			return nil, false
		}
		nodes, found := New(a.syntax, a.args, c).ArgumentsNamed(name)
		if !found || len(nodes) == 0 {
			return nil, false
		}
		if i == 0 {
			first = nodes
			continue
		}
		if !slices.Equal(first, nodes) {
			return nil, false
		}
	}
	return first, true
}
