package pysyntax

import (
	"context"
	"iter"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/olehluchkiv/apishape/internal/binding"
	"github.com/olehluchkiv/apishape/internal/shape"
	"github.com/olehluchkiv/apishape/internal/symbol"
)

// maxNestingDepth bounds the syntax walk on pathological inputs.
const maxNestingDepth = 512

// kwargsName is the name binding reported for a **mapping argument. No
// parameter carries it, so such arguments never resolve.
const kwargsName = "**"

// Call is one invocation in a Python file.
type Call struct {
	Kind shape.Kind
	// Name is the called function, method or class as written, the
	// decorator name, or the name of the subscripted expression.
	Name string
	Node *sitter.Node

	file       *File
	resolver   *binding.Resolver[*sitter.Node]
	candidates []symbol.Member
}

// Callee returns the resolved callee, or nil when it is unresolved or
// ambiguous.
func (c *Call) Callee() symbol.Member { return c.resolver.Callee() }

// Candidates returns every definition the callee name could refer to. It has
// more than one element only for an ambiguous callee.
func (c *Call) Candidates() []symbol.Member { return c.candidates }

// Ambiguous returns the candidate-set resolver of an ambiguous call, or nil.
func (c *Call) Ambiguous() *binding.Ambiguous[*sitter.Node] {
	if len(c.candidates) < 2 {
		return nil
	}
	return binding.NewAmbiguous[*sitter.Node](c.file.syntax(), c.resolver.Args(), c.candidates)
}

// Resolver returns the argument-to-parameter binding of the call.
func (c *Call) Resolver() *binding.Resolver[*sitter.Node] { return c.resolver }

// File returns the file the call belongs to.
func (c *Call) File() *File { return c.file }

// Len returns the number of arguments.
func (c *Call) Len() int { return c.resolver.Len() }

// Site returns the shape view of the argument at position.
func (c *Call) Site(position int) shape.Site {
	return shape.Site{
		Kind:      c.Kind,
		Name:      c.Name,
		Member:    c.resolver.Callee(),
		Arguments: c.resolver,
		Position:  position,
		Context:   c,
	}
}

// Sites yields the shape view of every argument in source order.
func (c *Call) Sites() iter.Seq[shape.Site] {
	return func(yield func(shape.Site) bool) {
		for i := range c.resolver.Len() {
			if !yield(c.Site(i)) {
				return
			}
		}
	}
}

// Value returns the expression of the argument at position, without the
// keyword of a keyword argument.
func (c *Call) Value(position int) *sitter.Node {
	return argValue(c.resolver.Args()[position])
}

// Text returns the source text of the argument value at position.
func (c *Call) Text(position int) string {
	return c.file.Text(c.Value(position))
}

// Keyword returns the value bound by keyword to name, whether or not the
// callee is resolved.
func (c *Call) Keyword(name string) (*sitter.Node, bool) {
	for i := range c.resolver.Len() {
		if n, ok := c.resolver.Named(i); ok && n == name {
			return c.Value(i), true
		}
	}
	return nil, false
}

// Line and Column return the 1-based start of the call.
func (c *Call) Line() int   { return int(c.Node.StartPoint().Row) + 1 }
func (c *Call) Column() int { return int(c.Node.StartPoint().Column) + 1 }

func argValue(n *sitter.Node) *sitter.Node {
	if n.Type() == "keyword_argument" {
		if v := n.ChildByFieldName("value"); v != nil {
			return v
		}
	}
	return n
}

// syntax binds keyword arguments to their parameter names.
func (f *File) syntax() binding.Syntax[*sitter.Node] {
	return binding.SyntaxFunc[*sitter.Node](func(n *sitter.Node) (string, bool) {
		switch n.Type() {
		case "keyword_argument":
			if name := n.ChildByFieldName("name"); name != nil {
				return f.Text(name), true
			}
		case "dictionary_splat":
			return kwargsName, true
		}
		return "", false
	})
}

type walkEntry struct {
	node      *sitter.Node
	depth     int
	class     *class
	decorator bool
}

// extractCalls walks the whole tree in source order.
func (f *File) extractCalls(ctx context.Context, root *sitter.Node) {
	stack := []walkEntry{{node: root}}
	visited := 0
	for len(stack) > 0 {
		e := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if e.depth > maxNestingDepth {
			continue
		}
		visited++
		if visited%1000 == 0 && ctx.Err() != nil {
			return
		}

		n := e.node
		cls := e.class
		switch n.Type() {
		case "class_definition":
			if name := n.ChildByFieldName("name"); name != nil {
				cls = f.mod.classes[f.Text(name)]
			}
		case "call":
			if c := f.newCall(n, e.class, e.decorator); c != nil {
				f.calls = append(f.calls, c)
			}
		case "subscript":
			if c := f.newSubscript(n); c != nil {
				f.calls = append(f.calls, c)
			}
		case "decorator":
			if n.NamedChildCount() > 0 && n.NamedChild(0).Type() != "call" {
				if c := f.newBareDecorator(n.NamedChild(0), e.class); c != nil {
					f.calls = append(f.calls, c)
				}
			}
		}

		for i := int(n.NamedChildCount()) - 1; i >= 0; i-- {
			child := n.NamedChild(i)
			if child == nil {
				continue
			}
			stack = append(stack, walkEntry{
				node:      child,
				depth:     e.depth + 1,
				class:     cls,
				decorator: n.Type() == "decorator",
			})
		}
	}
}

func (f *File) newCall(n *sitter.Node, cls *class, decorator bool) *Call {
	fn := n.ChildByFieldName("function")
	if fn == nil {
		return nil
	}
	var args []*sitter.Node
	if list := n.ChildByFieldName("arguments"); list != nil {
		if list.Type() == "argument_list" {
			for i := 0; i < int(list.NamedChildCount()); i++ {
				if a := list.NamedChild(i); a.Type() != "comment" {
					args = append(args, a)
				}
			}
		} else {
			args = []*sitter.Node{list}
		}
	}

	candidates, ctor := f.resolve(fn, cls)
	kind := shape.Method
	switch {
	case decorator:
		kind = shape.Attribute
	case ctor:
		kind = shape.Constructor
	}
	return f.newInvocation(kind, lastName(fn, f.content), n, args, candidates)
}

func (f *File) newBareDecorator(expr *sitter.Node, cls *class) *Call {
	name := lastName(expr, f.content)
	if name == "" {
		return nil
	}
	candidates, _ := f.resolve(expr, cls)
	return f.newInvocation(shape.Attribute, name, expr, nil, candidates)
}

func (f *File) newSubscript(n *sitter.Node) *Call {
	value := n.ChildByFieldName("value")
	if value == nil {
		return nil
	}
	var args []*sitter.Node
	for i := 0; i < int(n.NamedChildCount()); i++ {
		a := n.NamedChild(i)
		if a.StartByte() == value.StartByte() && a.EndByte() == value.EndByte() || a.Type() == "comment" {
			continue
		}
		args = append(args, a)
	}

	var candidates []symbol.Member
	if value.Type() == "attribute" {
		obj, attr := value.ChildByFieldName("object"), value.ChildByFieldName("attribute")
		if obj != nil && attr != nil {
			if path, ok := modulePath(obj, f.content, f.imports, f.from); ok {
				m := &pyMember{
					kind:  symbol.KindIndexer,
					name:  "[]",
					owner: &pyType{name: f.Text(attr), path: path},
				}
				m.addParam("key", false)
				candidates = []symbol.Member{m}
			}
		}
	}
	return f.newInvocation(shape.Indexer, lastName(value, f.content), n, args, candidates)
}

func (f *File) newInvocation(kind shape.Kind, name string, n *sitter.Node, args []*sitter.Node, candidates []symbol.Member) *Call {
	var callee symbol.Member
	if len(candidates) == 1 {
		callee = candidates[0]
	}
	return &Call{
		Kind:       kind,
		Name:       name,
		Node:       n,
		file:       f,
		resolver:   binding.New[*sitter.Node](f.syntax(), args, callee),
		candidates: candidates,
	}
}

// resolve returns the definitions fn may refer to. ctor is set when fn names
// a class.
func (f *File) resolve(fn *sitter.Node, cls *class) (candidates []symbol.Member, ctor bool) {
	switch fn.Type() {
	case "identifier":
		name := f.Text(fn)
		if ms, isCtor := f.mod.lookup(name); len(ms) > 0 {
			return members(ms), isCtor
		}
		if imp, ok := f.from[name]; ok {
			return f.external(imp.module, imp.name)
		}
	case "attribute":
		obj, attr := fn.ChildByFieldName("object"), fn.ChildByFieldName("attribute")
		if obj == nil || attr == nil {
			return nil, false
		}
		name := f.Text(attr)
		if cls != nil && obj.Type() == "identifier" {
			if recv := f.Text(obj); recv == "self" || recv == "cls" {
				if m, ok := cls.methods[name]; ok {
					return []symbol.Member{m}, false
				}
				return nil, false
			}
		}
		if path, ok := modulePath(obj, f.content, f.imports, f.from); ok {
			return f.external(path, name)
		}
	}
	return nil, false
}

// external resolves name in an imported module, through its stub when one
// is loaded. Without a stub the callee is a function with an unknown
// parameter list.
func (f *File) external(path, name string) ([]symbol.Member, bool) {
	if m, ok := f.stubs.module(path); ok {
		if ms, isCtor := m.lookup(name); len(ms) > 0 {
			return members(ms), isCtor
		}
	}
	return []symbol.Member{&pyMember{kind: symbol.KindFunction, name: name, owner: moduleType(path)}}, false
}

func members(ms []*pyMember) []symbol.Member {
	out := make([]symbol.Member, len(ms))
	for i, m := range ms {
		out[i] = m
	}
	return out
}

// lastName returns the final identifier of a name or attribute chain.
func lastName(n *sitter.Node, content []byte) string {
	switch n.Type() {
	case "identifier":
		return n.Content(content)
	case "attribute":
		if attr := n.ChildByFieldName("attribute"); attr != nil {
			return attr.Content(content)
		}
	}
	return ""
}
