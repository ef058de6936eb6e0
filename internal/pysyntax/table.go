package pysyntax

import (
	"slices"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/olehluchkiv/apishape/internal/symbol"
)

// maxBaseDepth bounds constructor inheritance through local base classes.
const maxBaseDepth = 16

// builder fills a module symbol table from module-level statements.
type builder struct {
	content []byte
	mod     *module
	imports map[string]string
	from    map[string]imported
	bases   map[*class][]*sitter.Node
	// inherits marks classes whose constructor comes from a base class.
	inherits map[*class]bool
}

func (b *builder) text(n *sitter.Node) string { return n.Content(b.content) }

// block visits the statements of a module body. Definitions nested in
// conditional and exception-handling blocks are module-level too.
func (b *builder) block(n *sitter.Node) {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		b.statement(n.NamedChild(i), nil)
	}
}

func (b *builder) statement(n *sitter.Node, decorators []string) {
	switch n.Type() {
	case "import_statement":
		b.importStatement(n)
	case "import_from_statement":
		b.importFrom(n)
	case "function_definition":
		if fn := b.function(n, nil, decorators); fn != nil {
			b.mod.funcs[fn.name] = append(b.mod.funcs[fn.name], fn)
		}
	case "class_definition":
		b.class(n)
	case "decorated_definition":
		if def := n.ChildByFieldName("definition"); def != nil {
			b.statement(def, decoratorNames(n, b.content))
		}
	case "if_statement", "try_statement", "elif_clause", "else_clause",
		"except_clause", "finally_clause", "block", "with_statement":
		b.block(n)
	}
}

func (b *builder) importStatement(n *sitter.Node) {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		switch c.Type() {
		case "dotted_name":
			full := b.text(c)
			first, _, _ := strings.Cut(full, ".")
			b.imports[first] = first
		case "aliased_import":
			name, alias := c.ChildByFieldName("name"), c.ChildByFieldName("alias")
			if name != nil && alias != nil {
				b.imports[b.text(alias)] = b.text(name)
			}
		}
	}
}

func (b *builder) importFrom(n *sitter.Node) {
	modNode := n.ChildByFieldName("module_name")
	if modNode == nil {
		return
	}
	mod := b.text(modNode)
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		if c.StartByte() == modNode.StartByte() {
			continue
		}
		switch c.Type() {
		case "dotted_name":
			name := b.text(c)
			b.from[name] = imported{module: mod, name: name}
		case "aliased_import":
			name, alias := c.ChildByFieldName("name"), c.ChildByFieldName("alias")
			if name != nil && alias != nil {
				b.from[b.text(alias)] = imported{module: mod, name: b.text(name)}
			}
		}
	}
}

// function builds the member of a def. owner is nil for module-level
// functions.
func (b *builder) function(n *sitter.Node, owner *class, decorators []string) *pyMember {
	nameNode := n.ChildByFieldName("name")
	if nameNode == nil {
		return nil
	}
	m := &pyMember{name: b.text(nameNode)}
	if owner == nil {
		m.kind = symbol.KindFunction
		m.owner = b.mod.typ
	} else {
		m.kind = symbol.KindMethod
		m.owner = owner.typ
	}
	skipFirst := owner != nil && !slices.Contains(decorators, "staticmethod")
	if params := n.ChildByFieldName("parameters"); params != nil {
		b.parameters(m, params, skipFirst)
	}
	return m
}

// parameters appends the formal parameters of a def. **kwargs and the bare
// * and / separators are not parameters.
func (b *builder) parameters(m *pyMember, n *sitter.Node, skipFirst bool) {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		name, variadic, ok := b.parameter(c)
		if !ok {
			continue
		}
		if skipFirst {
			skipFirst = false
			continue
		}
		m.addParam(name, variadic)
	}
}

func (b *builder) parameter(n *sitter.Node) (name string, variadic, ok bool) {
	switch n.Type() {
	case "identifier":
		return b.text(n), false, true
	case "default_parameter", "typed_default_parameter":
		if id := n.ChildByFieldName("name"); id != nil {
			return b.text(id), false, true
		}
	case "typed_parameter":
		if n.NamedChildCount() > 0 {
			return b.parameter(n.NamedChild(0))
		}
	case "list_splat_pattern":
		if n.NamedChildCount() > 0 {
			return b.text(n.NamedChild(0)), true, true
		}
	}
	return "", false, false
}

func (b *builder) class(n *sitter.Node) {
	nameNode := n.ChildByFieldName("name")
	if nameNode == nil {
		return
	}
	name := b.text(nameNode)
	c := &class{
		typ:     &pyType{name: name, path: b.mod.path},
		methods: make(map[string]*pyMember),
	}
	c.ctor = &pyMember{kind: symbol.KindConstructor, name: name, owner: c.typ}

	if supers := n.ChildByFieldName("superclasses"); supers != nil {
		for i := 0; i < int(supers.NamedChildCount()); i++ {
			s := supers.NamedChild(i)
			if t := s.Type(); t == "identifier" || t == "attribute" {
				if b.bases == nil {
					b.bases = make(map[*class][]*sitter.Node)
				}
				b.bases[c] = append(b.bases[c], s)
			}
		}
	}

	hasInit := false
	if body := n.ChildByFieldName("body"); body != nil {
		for i := 0; i < int(body.NamedChildCount()); i++ {
			stmt := body.NamedChild(i)
			var decorators []string
			if stmt.Type() == "decorated_definition" {
				decorators = decoratorNames(stmt, b.content)
				stmt = stmt.ChildByFieldName("definition")
			}
			if stmt == nil || stmt.Type() != "function_definition" {
				continue
			}
			m := b.function(stmt, c, decorators)
			if m == nil {
				continue
			}
			c.methods[m.name] = m
			if m.name == "__init__" {
				hasInit = true
				for _, p := range m.params {
					c.ctor.addParam(p.Name(), p.IsVariadic())
				}
			}
		}
	}
	if !hasInit {
		if b.inherits == nil {
			b.inherits = make(map[*class]bool)
		}
		b.inherits[c] = true
	}
	b.mod.classes[name] = c
}

// resolveBases links each class to its base types and gives classes without
// __init__ the constructor parameters of their first resolvable base.
func (b *builder) resolveBases(stubs *Stubs) {
	for c, nodes := range b.bases {
		for _, n := range nodes {
			if t := b.baseType(n, stubs); t != nil {
				c.typ.supers = append(c.typ.supers, t)
			}
		}
	}
	for c := range b.inherits {
		if base := b.inheritedInit(c, stubs, 0); base != nil {
			for _, p := range base.params {
				c.ctor.addParam(p.Name(), p.IsVariadic())
			}
		}
	}
}

func (b *builder) inheritedInit(c *class, stubs *Stubs, depth int) *pyMember {
	if depth >= maxBaseDepth {
		return nil
	}
	for _, n := range b.bases[c] {
		base := b.baseClass(n, stubs)
		if base == nil {
			continue
		}
		if !b.inherits[base] {
			return base.ctor
		}
		if m := b.inheritedInit(base, stubs, depth+1); m != nil {
			return m
		}
	}
	return nil
}

// baseClass resolves a base-class expression to a known class.
func (b *builder) baseClass(n *sitter.Node, stubs *Stubs) *class {
	switch n.Type() {
	case "identifier":
		name := b.text(n)
		if c, ok := b.mod.classes[name]; ok {
			return c
		}
		if imp, ok := b.from[name]; ok {
			if m, ok := stubs.module(imp.module); ok {
				return m.classes[imp.name]
			}
		}
	case "attribute":
		obj, attr := n.ChildByFieldName("object"), n.ChildByFieldName("attribute")
		if obj == nil || attr == nil {
			return nil
		}
		if path, ok := modulePath(obj, b.content, b.imports, b.from); ok {
			if m, ok := stubs.module(path); ok {
				return m.classes[b.text(attr)]
			}
		}
	}
	return nil
}

// baseType resolves a base-class expression to a type, known or not.
func (b *builder) baseType(n *sitter.Node, stubs *Stubs) symbol.Type {
	if c := b.baseClass(n, stubs); c != nil {
		return c.typ
	}
	switch n.Type() {
	case "identifier":
		if imp, ok := b.from[b.text(n)]; ok {
			return &pyType{name: imp.name, path: imp.module}
		}
	case "attribute":
		obj, attr := n.ChildByFieldName("object"), n.ChildByFieldName("attribute")
		if obj == nil || attr == nil {
			return nil
		}
		if path, ok := modulePath(obj, b.content, b.imports, b.from); ok {
			return &pyType{name: b.text(attr), path: path}
		}
	}
	return nil
}

// modulePath resolves a dotted expression naming an imported module, such as
// os.path after import os, to its module path.
func modulePath(n *sitter.Node, content []byte, imports map[string]string, from map[string]imported) (string, bool) {
	dotted, ok := dottedName(n, content)
	if !ok {
		return "", false
	}
	first, rest, _ := strings.Cut(dotted, ".")
	var base string
	if m, ok := imports[first]; ok {
		base = m
	} else if imp, ok := from[first]; ok {
		base = imp.module + "." + imp.name
	} else {
		return "", false
	}
	if rest != "" {
		base += "." + rest
	}
	return base, true
}

// dottedName returns the text of an identifier or a chain of attribute
// accesses on one.
func dottedName(n *sitter.Node, content []byte) (string, bool) {
	switch n.Type() {
	case "identifier":
		return n.Content(content), true
	case "attribute":
		obj, attr := n.ChildByFieldName("object"), n.ChildByFieldName("attribute")
		if obj == nil || attr == nil {
			return "", false
		}
		prefix, ok := dottedName(obj, content)
		if !ok {
			return "", false
		}
		return prefix + "." + attr.Content(content), true
	}
	return "", false
}

// decoratorNames returns the dotted names of the decorators applied by a
// decorated_definition.
func decoratorNames(n *sitter.Node, content []byte) []string {
	var names []string
	for i := 0; i < int(n.NamedChildCount()); i++ {
		d := n.NamedChild(i)
		if d.Type() != "decorator" || d.NamedChildCount() == 0 {
			continue
		}
		expr := d.NamedChild(0)
		if expr.Type() == "call" {
			expr = expr.ChildByFieldName("function")
		}
		if expr == nil {
			continue
		}
		if name, ok := dottedName(expr, content); ok {
			names = append(names, name)
		}
	}
	return names
}
