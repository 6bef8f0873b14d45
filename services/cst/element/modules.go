// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package element

import "github.com/AleutianAI/jscst/services/cst/token"

// moduleNameTypes are the forms of an imported or exported binding name.
var moduleNameTypes = []string{TypeIdentifier, TypeStringLiteral}

// moduleName consumes an import or export name. `default` has no node of its
// own and comes back as a token.
func (c *Cursor) moduleName() Element {
	if t := c.ExpectOptionalToken(token.Keyword, "default"); t != nil {
		return t
	}
	return c.ExpectOneOfNode(moduleNameTypes...)
}

// nameOf returns the text of a module name element.
func nameOf(e Element) string {
	switch v := e.(type) {
	case *Identifier:
		return v.Name()
	case *StringLiteral:
		return v.Value()
	case *Token:
		return v.value()
	}
	return ""
}

// source consumes `from "module"`.
func (c *Cursor) source() *StringLiteral {
	c.ExpectToken(token.Identifier, "from")
	return as[*StringLiteral](c.ExpectNode(TypeStringLiteral))
}

// attributes consumes an optional `with {...}` or `assert {...}` clause.
func (c *Cursor) attributes() *ObjectExpression {
	if c.ExpectOptionalToken(token.Keyword, "with") == nil &&
		c.ExpectOptionalToken(token.Identifier, "assert") == nil {
		return nil
	}
	return as[*ObjectExpression](c.ExpectNode(TypeObjectExpression))
}

// ImportDeclaration is an import statement.
type ImportDeclaration struct {
	nodeBase
	importKind string
	specifiers []Node
	source     *StringLiteral
	attributes *ObjectExpression
}

func (n *ImportDeclaration) grammar(c *Cursor) {
	c.keyword("import")
	n.importKind = "value"
	if kind := c.ExpectOptionalToken(token.Identifier, "type"); kind != nil {
		n.importKind = kind.Value()
	} else if kind := c.ExpectOptionalToken(token.Keyword, "typeof"); kind != nil {
		n.importKind = kind.Value()
	}
	if c.IsNode(TypeStringLiteral) {
		n.source = as[*StringLiteral](c.ExpectNode(TypeStringLiteral))
	} else {
		n.specifiers = append(n.specifiers, n.clause(c)...)
		for c.optionalPunct(",") != nil {
			n.specifiers = append(n.specifiers, n.clause(c)...)
		}
		n.source = c.source()
	}
	n.attributes = c.attributes()
	c.semicolon()
}

func (n *ImportDeclaration) clause(c *Cursor) []Node {
	if c.isPunct("{") {
		return c.list("{", "}", []string{TypeImportSpecifier})
	}
	return []Node{c.ExpectOneOfNode(TypeImportDefaultSpecifier, TypeImportNamespaceSpecifier)}
}

// Specifiers returns the default, namespace and named specifiers in source
// order.
func (n *ImportDeclaration) Specifiers() []Node { return n.specifiers }

// Source returns the module specifier string.
func (n *ImportDeclaration) Source() *StringLiteral { return n.source }

// Attributes returns the import attributes object, or nil.
func (n *ImportDeclaration) Attributes() *ObjectExpression { return n.attributes }

// ImportKind returns "value", "type" or "typeof".
func (n *ImportDeclaration) ImportKind() string { return n.importKind }

// ImportSpecifier is `name` or `name as local` inside import braces.
type ImportSpecifier struct {
	nodeBase
	imported Element
	local    *Identifier
}

func (n *ImportSpecifier) grammar(c *Cursor) {
	n.imported = c.moduleName()
	if c.ExpectOptionalToken(token.Identifier, "as") != nil {
		n.local = as[*Identifier](c.ExpectNode(TypeIdentifier))
		return
	}
	n.local, _ = n.imported.(*Identifier)
}

// Imported returns the exported name being imported.
func (n *ImportSpecifier) Imported() string { return nameOf(n.imported) }

// Local returns the local binding.
func (n *ImportSpecifier) Local() *Identifier { return n.local }

// ImportDefaultSpecifier is the `name` of `import name from "m"`.
type ImportDefaultSpecifier struct {
	nodeBase
	local *Identifier
}

func (n *ImportDefaultSpecifier) grammar(c *Cursor) {
	n.local = as[*Identifier](c.ExpectNode(TypeIdentifier))
}

// Local returns the local binding.
func (n *ImportDefaultSpecifier) Local() *Identifier { return n.local }

// ImportNamespaceSpecifier is `* as name`.
type ImportNamespaceSpecifier struct {
	nodeBase
	local *Identifier
}

func (n *ImportNamespaceSpecifier) grammar(c *Cursor) {
	c.punct("*")
	c.ExpectToken(token.Identifier, "as")
	n.local = as[*Identifier](c.ExpectNode(TypeIdentifier))
}

// Local returns the local binding.
func (n *ImportNamespaceSpecifier) Local() *Identifier { return n.local }

// declarationTypes can follow `export`.
var declarationTypes = []string{
	TypeFunctionDeclaration, TypeClassDeclaration, TypeVariableDeclaration,
	TypeTypeAlias,
}

// ExportNamedDeclaration is `export declaration` or
// `export {specifiers} [from "m"]`.
type ExportNamedDeclaration struct {
	nodeBase
	decorators  []*Decorator
	declaration Node
	specifiers  []*ExportSpecifier
	source      *StringLiteral
	attributes  *ObjectExpression
}

func (n *ExportNamedDeclaration) grammar(c *Cursor) {
	n.decorators = c.decorators()
	c.keyword("export")
	if !c.isPunct("{") {
		n.declaration = c.ExpectOneOfNode(declarationTypes...)
		return
	}
	for _, s := range c.list("{", "}", []string{TypeExportSpecifier}) {
		n.specifiers = append(n.specifiers, as[*ExportSpecifier](s))
	}
	if c.IsToken(token.Identifier, "from") {
		n.source = c.source()
		n.attributes = c.attributes()
	}
	c.semicolon()
}

// Decorators returns decorators written before `export`.
func (n *ExportNamedDeclaration) Decorators() []*Decorator { return n.decorators }

// Declaration returns the exported declaration, or nil for a specifier
// list.
func (n *ExportNamedDeclaration) Declaration() Node { return n.declaration }

// Specifiers returns the export specifiers.
func (n *ExportNamedDeclaration) Specifiers() []*ExportSpecifier { return n.specifiers }

// Source returns the re-export module, or nil.
func (n *ExportNamedDeclaration) Source() *StringLiteral { return n.source }

// ExportDefaultDeclaration is `export default declaration|expression`.
type ExportDefaultDeclaration struct {
	nodeBase
	decorators  []*Decorator
	declaration Node
}

func (n *ExportDefaultDeclaration) grammar(c *Cursor) {
	n.decorators = c.decorators()
	c.keyword("export")
	c.keyword("default")
	n.declaration = c.ExpectOneOfNode(concat(declarationTypes, expressionTypes)...)
	c.semicolon()
}

// Decorators returns decorators written before `export`.
func (n *ExportDefaultDeclaration) Decorators() []*Decorator { return n.decorators }

// Declaration returns the exported declaration or expression.
func (n *ExportDefaultDeclaration) Declaration() Node { return n.declaration }

// ExportAllDeclaration is `export * [as name] from "m"`.
type ExportAllDeclaration struct {
	nodeBase
	exported   Element
	source     *StringLiteral
	attributes *ObjectExpression
}

func (n *ExportAllDeclaration) grammar(c *Cursor) {
	c.keyword("export")
	c.punct("*")
	if c.ExpectOptionalToken(token.Identifier, "as") != nil {
		n.exported = c.moduleName()
	}
	n.source = c.source()
	n.attributes = c.attributes()
	c.semicolon()
}

// Exported returns the namespace export name, or "".
func (n *ExportAllDeclaration) Exported() string { return nameOf(n.exported) }

// Source returns the re-exported module.
func (n *ExportAllDeclaration) Source() *StringLiteral { return n.source }

// ExportSpecifier is `local` or `local as exported` inside export braces.
type ExportSpecifier struct {
	nodeBase
	local    Element
	exported Element
}

func (n *ExportSpecifier) grammar(c *Cursor) {
	n.local = c.moduleName()
	n.exported = n.local
	if c.ExpectOptionalToken(token.Identifier, "as") != nil {
		n.exported = c.moduleName()
	}
}

// Local returns the local name being exported.
func (n *ExportSpecifier) Local() string { return nameOf(n.local) }

// LocalIdentifier returns the local binding reference, or nil when the local
// name is a string (re-exports only).
func (n *ExportSpecifier) LocalIdentifier() *Identifier {
	id, _ := n.local.(*Identifier)
	return id
}

// Exported returns the name seen by importers.
func (n *ExportSpecifier) Exported() string { return nameOf(n.exported) }
