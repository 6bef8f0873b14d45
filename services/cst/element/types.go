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

// Node type names.
const (
	TypeProgram = "Program"

	// Statements
	TypeExpressionStatement = "ExpressionStatement"
	TypeBlockStatement      = "BlockStatement"
	TypeEmptyStatement      = "EmptyStatement"
	TypeDebuggerStatement   = "DebuggerStatement"
	TypeWithStatement       = "WithStatement"
	TypeReturnStatement     = "ReturnStatement"
	TypeLabeledStatement    = "LabeledStatement"
	TypeBreakStatement      = "BreakStatement"
	TypeContinueStatement   = "ContinueStatement"
	TypeIfStatement         = "IfStatement"
	TypeSwitchStatement     = "SwitchStatement"
	TypeSwitchCase          = "SwitchCase"
	TypeThrowStatement      = "ThrowStatement"
	TypeTryStatement        = "TryStatement"
	TypeCatchClause         = "CatchClause"
	TypeWhileStatement      = "WhileStatement"
	TypeDoWhileStatement    = "DoWhileStatement"
	TypeForStatement        = "ForStatement"
	TypeForInStatement      = "ForInStatement"
	TypeForOfStatement      = "ForOfStatement"

	// Declarations
	TypeFunctionDeclaration = "FunctionDeclaration"
	TypeVariableDeclaration = "VariableDeclaration"
	TypeVariableDeclarator  = "VariableDeclarator"
	TypeClassDeclaration    = "ClassDeclaration"

	// Classes
	TypeClassExpression  = "ClassExpression"
	TypeClassBody        = "ClassBody"
	TypeMethodDefinition = "MethodDefinition"
	TypeClassProperty    = "ClassProperty"
	TypeStaticBlock      = "StaticBlock"
	TypeDecorator        = "Decorator"

	// Expressions
	TypeIdentifier               = "Identifier"
	TypePrivateName              = "PrivateName"
	TypeNumericLiteral           = "NumericLiteral"
	TypeStringLiteral            = "StringLiteral"
	TypeBooleanLiteral           = "BooleanLiteral"
	TypeNullLiteral              = "NullLiteral"
	TypeRegExpLiteral            = "RegExpLiteral"
	TypeTemplateLiteral          = "TemplateLiteral"
	TypeTaggedTemplateExpression = "TaggedTemplateExpression"
	TypeThisExpression           = "ThisExpression"
	TypeSuper                    = "Super"
	TypeImport                   = "Import"
	TypeArrayExpression          = "ArrayExpression"
	TypeObjectExpression         = "ObjectExpression"
	TypeProperty                 = "Property"
	TypeFunctionExpression       = "FunctionExpression"
	TypeArrowFunctionExpression  = "ArrowFunctionExpression"
	TypeUnaryExpression          = "UnaryExpression"
	TypeUpdateExpression         = "UpdateExpression"
	TypeBinaryExpression         = "BinaryExpression"
	TypeLogicalExpression        = "LogicalExpression"
	TypeAssignmentExpression     = "AssignmentExpression"
	TypeConditionalExpression    = "ConditionalExpression"
	TypeCallExpression           = "CallExpression"
	TypeNewExpression            = "NewExpression"
	TypeMemberExpression         = "MemberExpression"
	TypeSequenceExpression       = "SequenceExpression"
	TypeYieldExpression          = "YieldExpression"
	TypeAwaitExpression          = "AwaitExpression"
	TypeSpreadElement            = "SpreadElement"
	TypeParenthesizedExpression  = "ParenthesizedExpression"
	TypeMetaProperty             = "MetaProperty"

	// Patterns
	TypeObjectPattern     = "ObjectPattern"
	TypeArrayPattern      = "ArrayPattern"
	TypeRestElement       = "RestElement"
	TypeAssignmentPattern = "AssignmentPattern"

	// Modules
	TypeImportDeclaration        = "ImportDeclaration"
	TypeImportSpecifier          = "ImportSpecifier"
	TypeImportDefaultSpecifier   = "ImportDefaultSpecifier"
	TypeImportNamespaceSpecifier = "ImportNamespaceSpecifier"
	TypeExportNamedDeclaration   = "ExportNamedDeclaration"
	TypeExportDefaultDeclaration = "ExportDefaultDeclaration"
	TypeExportAllDeclaration     = "ExportAllDeclaration"
	TypeExportSpecifier          = "ExportSpecifier"

	// JSX
	TypeJSXElement             = "JSXElement"
	TypeJSXFragment            = "JSXFragment"
	TypeJSXOpeningElement      = "JSXOpeningElement"
	TypeJSXClosingElement      = "JSXClosingElement"
	TypeJSXOpeningFragment     = "JSXOpeningFragment"
	TypeJSXClosingFragment     = "JSXClosingFragment"
	TypeJSXAttribute           = "JSXAttribute"
	TypeJSXSpreadAttribute     = "JSXSpreadAttribute"
	TypeJSXIdentifier          = "JSXIdentifier"
	TypeJSXMemberExpression    = "JSXMemberExpression"
	TypeJSXNamespacedName      = "JSXNamespacedName"
	TypeJSXExpressionContainer = "JSXExpressionContainer"
	TypeJSXSpreadChild         = "JSXSpreadChild"
	TypeJSXText                = "JSXText"

	// Type annotations
	TypeTypeAnnotation               = "TypeAnnotation"
	TypeTypeAlias                    = "TypeAlias"
	TypeTypeParameterDeclaration     = "TypeParameterDeclaration"
	TypeTypeParameter                = "TypeParameter"
	TypeTypeParameterInstantiation   = "TypeParameterInstantiation"
	TypeGenericTypeAnnotation        = "GenericTypeAnnotation"
	TypeQualifiedTypeIdentifier      = "QualifiedTypeIdentifier"
	TypeAnyTypeAnnotation            = "AnyTypeAnnotation"
	TypeNumberTypeAnnotation         = "NumberTypeAnnotation"
	TypeStringTypeAnnotation         = "StringTypeAnnotation"
	TypeBooleanTypeAnnotation        = "BooleanTypeAnnotation"
	TypeVoidTypeAnnotation           = "VoidTypeAnnotation"
	TypeSymbolTypeAnnotation         = "SymbolTypeAnnotation"
	TypeBigIntTypeAnnotation         = "BigIntTypeAnnotation"
	TypeMixedTypeAnnotation          = "MixedTypeAnnotation"
	TypeEmptyTypeAnnotation          = "EmptyTypeAnnotation"
	TypeStringLiteralTypeAnnotation  = "StringLiteralTypeAnnotation"
	TypeNumberLiteralTypeAnnotation  = "NumberLiteralTypeAnnotation"
	TypeBooleanLiteralTypeAnnotation = "BooleanLiteralTypeAnnotation"
	TypeNullLiteralTypeAnnotation    = "NullLiteralTypeAnnotation"
	TypeObjectTypeAnnotation         = "ObjectTypeAnnotation"
	TypeObjectTypeProperty           = "ObjectTypeProperty"
	TypeObjectTypeIndexer            = "ObjectTypeIndexer"
	TypeArrayTypeAnnotation          = "ArrayTypeAnnotation"
	TypeTupleTypeAnnotation          = "TupleTypeAnnotation"
	TypeUnionTypeAnnotation          = "UnionTypeAnnotation"
	TypeIntersectionTypeAnnotation   = "IntersectionTypeAnnotation"
	TypeNullableTypeAnnotation       = "NullableTypeAnnotation"
	TypeParenthesizedTypeAnnotation  = "ParenthesizedTypeAnnotation"
	TypeExistsTypeAnnotation         = "ExistsTypeAnnotation"
	TypeFunctionTypeAnnotation       = "FunctionTypeAnnotation"
	TypeFunctionTypeParam            = "FunctionTypeParam"
)

// Node type sets used by grammars.
var (
	expressionTypes = []string{
		TypeIdentifier, TypePrivateName, TypeNumericLiteral, TypeStringLiteral,
		TypeBooleanLiteral, TypeNullLiteral, TypeRegExpLiteral, TypeTemplateLiteral,
		TypeTaggedTemplateExpression, TypeThisExpression, TypeSuper, TypeImport,
		TypeArrayExpression, TypeObjectExpression, TypeFunctionExpression,
		TypeArrowFunctionExpression, TypeClassExpression, TypeUnaryExpression,
		TypeUpdateExpression, TypeBinaryExpression, TypeLogicalExpression,
		TypeAssignmentExpression, TypeConditionalExpression, TypeCallExpression,
		TypeNewExpression, TypeMemberExpression, TypeSequenceExpression,
		TypeYieldExpression, TypeAwaitExpression, TypeParenthesizedExpression,
		TypeMetaProperty, TypeJSXElement, TypeJSXFragment,
	}

	patternTypes = []string{
		TypeIdentifier, TypeObjectPattern, TypeArrayPattern, TypeRestElement,
		TypeAssignmentPattern, TypeMemberExpression, TypeParenthesizedExpression,
	}

	statementTypes = []string{
		TypeExpressionStatement, TypeBlockStatement, TypeEmptyStatement,
		TypeDebuggerStatement, TypeWithStatement, TypeReturnStatement,
		TypeLabeledStatement, TypeBreakStatement, TypeContinueStatement,
		TypeIfStatement, TypeSwitchStatement, TypeThrowStatement,
		TypeTryStatement, TypeWhileStatement, TypeDoWhileStatement,
		TypeForStatement, TypeForInStatement, TypeForOfStatement,
		TypeFunctionDeclaration, TypeVariableDeclaration, TypeClassDeclaration,
		TypeImportDeclaration, TypeExportNamedDeclaration,
		TypeExportDefaultDeclaration, TypeExportAllDeclaration, TypeTypeAlias,
	}

	// argumentTypes are call arguments and array elements.
	argumentTypes = append([]string{TypeSpreadElement}, expressionTypes...)

	// propertyKeyTypes are non-computed keys of properties and members.
	propertyKeyTypes = []string{
		TypeIdentifier, TypeStringLiteral, TypeNumericLiteral, TypePrivateName,
	}

	jsxChildTypes = []string{
		TypeJSXText, TypeJSXExpressionContainer, TypeJSXSpreadChild,
		TypeJSXElement, TypeJSXFragment,
	}

	jsxNameTypes = []string{
		TypeJSXIdentifier, TypeJSXMemberExpression, TypeJSXNamespacedName,
	}

	keywordAnnotationTypes = []string{
		TypeAnyTypeAnnotation, TypeNumberTypeAnnotation, TypeStringTypeAnnotation,
		TypeBooleanTypeAnnotation, TypeVoidTypeAnnotation, TypeSymbolTypeAnnotation,
		TypeBigIntTypeAnnotation, TypeMixedTypeAnnotation, TypeEmptyTypeAnnotation,
	}

	literalAnnotationTypes = []string{
		TypeStringLiteralTypeAnnotation, TypeNumberLiteralTypeAnnotation,
		TypeBooleanLiteralTypeAnnotation, TypeNullLiteralTypeAnnotation,
	}

	// annotationTypes are the types allowed wherever a type is expected.
	annotationTypes = concat(keywordAnnotationTypes, literalAnnotationTypes, []string{
		TypeGenericTypeAnnotation, TypeObjectTypeAnnotation, TypeArrayTypeAnnotation,
		TypeTupleTypeAnnotation, TypeUnionTypeAnnotation, TypeIntersectionTypeAnnotation,
		TypeNullableTypeAnnotation, TypeParenthesizedTypeAnnotation,
		TypeExistsTypeAnnotation, TypeFunctionTypeAnnotation,
	})

	// typeOnlyTypes are every variant that lives purely in type positions.
	typeOnlyTypes = concat(annotationTypes, []string{
		TypeTypeAnnotation, TypeTypeAlias, TypeTypeParameterDeclaration,
		TypeTypeParameter, TypeTypeParameterInstantiation,
		TypeQualifiedTypeIdentifier, TypeObjectTypeProperty,
		TypeObjectTypeIndexer, TypeFunctionTypeParam,
	})
)

// IsExpression reports whether typ names an expression variant.
func IsExpression(typ string) bool {
	return contains(expressionTypes, typ)
}

// IsStatement reports whether typ names a statement or declaration variant.
func IsStatement(typ string) bool {
	return contains(statementTypes, typ)
}

// IsType reports whether typ names a type annotation variant. Identifiers
// below such a node name types, never runtime bindings.
func IsType(typ string) bool {
	return contains(typeOnlyTypes, typ)
}

func contains(set []string, typ string) bool {
	for _, t := range set {
		if t == typ {
			return true
		}
	}
	return false
}

func concat(sets ...[]string) []string {
	var out []string
	for _, s := range sets {
		out = append(out, s...)
	}
	return out
}
