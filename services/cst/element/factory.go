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

// newVariant returns an empty variant for a node type, or nil when the type
// is unknown.
func newVariant(typ string) variant {
	switch typ {
	case TypeProgram:
		return &Program{}
	case TypeExpressionStatement:
		return &ExpressionStatement{}
	case TypeBlockStatement:
		return &BlockStatement{}
	case TypeEmptyStatement:
		return &EmptyStatement{}
	case TypeDebuggerStatement:
		return &DebuggerStatement{}
	case TypeWithStatement:
		return &WithStatement{}
	case TypeReturnStatement:
		return &ReturnStatement{}
	case TypeLabeledStatement:
		return &LabeledStatement{}
	case TypeBreakStatement:
		return &BreakStatement{}
	case TypeContinueStatement:
		return &ContinueStatement{}
	case TypeIfStatement:
		return &IfStatement{}
	case TypeSwitchStatement:
		return &SwitchStatement{}
	case TypeSwitchCase:
		return &SwitchCase{}
	case TypeThrowStatement:
		return &ThrowStatement{}
	case TypeTryStatement:
		return &TryStatement{}
	case TypeCatchClause:
		return &CatchClause{}
	case TypeWhileStatement:
		return &WhileStatement{}
	case TypeDoWhileStatement:
		return &DoWhileStatement{}
	case TypeForStatement:
		return &ForStatement{}
	case TypeForInStatement:
		return &ForInStatement{}
	case TypeForOfStatement:
		return &ForOfStatement{}
	case TypeFunctionDeclaration:
		return &FunctionDeclaration{}
	case TypeVariableDeclaration:
		return &VariableDeclaration{}
	case TypeVariableDeclarator:
		return &VariableDeclarator{}
	case TypeClassDeclaration:
		return &ClassDeclaration{}
	case TypeClassExpression:
		return &ClassExpression{}
	case TypeClassBody:
		return &ClassBody{}
	case TypeMethodDefinition:
		return &MethodDefinition{}
	case TypeClassProperty:
		return &ClassProperty{}
	case TypeStaticBlock:
		return &StaticBlock{}
	case TypeDecorator:
		return &Decorator{}
	case TypeIdentifier:
		return &Identifier{}
	case TypePrivateName:
		return &PrivateName{}
	case TypeNumericLiteral:
		return &NumericLiteral{}
	case TypeStringLiteral:
		return &StringLiteral{}
	case TypeBooleanLiteral:
		return &BooleanLiteral{}
	case TypeNullLiteral:
		return &NullLiteral{}
	case TypeRegExpLiteral:
		return &RegExpLiteral{}
	case TypeTemplateLiteral:
		return &TemplateLiteral{}
	case TypeTaggedTemplateExpression:
		return &TaggedTemplateExpression{}
	case TypeThisExpression:
		return &ThisExpression{}
	case TypeSuper:
		return &Super{}
	case TypeImport:
		return &Import{}
	case TypeArrayExpression:
		return &ArrayExpression{}
	case TypeObjectExpression:
		return &ObjectExpression{}
	case TypeProperty:
		return &Property{}
	case TypeFunctionExpression:
		return &FunctionExpression{}
	case TypeArrowFunctionExpression:
		return &ArrowFunctionExpression{}
	case TypeUnaryExpression:
		return &UnaryExpression{}
	case TypeUpdateExpression:
		return &UpdateExpression{}
	case TypeBinaryExpression:
		return &BinaryExpression{}
	case TypeLogicalExpression:
		return &LogicalExpression{}
	case TypeAssignmentExpression:
		return &AssignmentExpression{}
	case TypeConditionalExpression:
		return &ConditionalExpression{}
	case TypeCallExpression:
		return &CallExpression{}
	case TypeNewExpression:
		return &NewExpression{}
	case TypeMemberExpression:
		return &MemberExpression{}
	case TypeSequenceExpression:
		return &SequenceExpression{}
	case TypeYieldExpression:
		return &YieldExpression{}
	case TypeAwaitExpression:
		return &AwaitExpression{}
	case TypeSpreadElement:
		return &SpreadElement{}
	case TypeParenthesizedExpression:
		return &ParenthesizedExpression{}
	case TypeMetaProperty:
		return &MetaProperty{}
	case TypeObjectPattern:
		return &ObjectPattern{}
	case TypeArrayPattern:
		return &ArrayPattern{}
	case TypeRestElement:
		return &RestElement{}
	case TypeAssignmentPattern:
		return &AssignmentPattern{}
	case TypeImportDeclaration:
		return &ImportDeclaration{}
	case TypeImportSpecifier:
		return &ImportSpecifier{}
	case TypeImportDefaultSpecifier:
		return &ImportDefaultSpecifier{}
	case TypeImportNamespaceSpecifier:
		return &ImportNamespaceSpecifier{}
	case TypeExportNamedDeclaration:
		return &ExportNamedDeclaration{}
	case TypeExportDefaultDeclaration:
		return &ExportDefaultDeclaration{}
	case TypeExportAllDeclaration:
		return &ExportAllDeclaration{}
	case TypeExportSpecifier:
		return &ExportSpecifier{}
	case TypeJSXElement:
		return &JSXElement{}
	case TypeJSXFragment:
		return &JSXFragment{}
	case TypeJSXOpeningElement:
		return &JSXOpeningElement{}
	case TypeJSXClosingElement:
		return &JSXClosingElement{}
	case TypeJSXOpeningFragment:
		return &JSXOpeningFragment{}
	case TypeJSXClosingFragment:
		return &JSXClosingFragment{}
	case TypeJSXAttribute:
		return &JSXAttribute{}
	case TypeJSXSpreadAttribute:
		return &JSXSpreadAttribute{}
	case TypeJSXIdentifier:
		return &JSXIdentifier{}
	case TypeJSXMemberExpression:
		return &JSXMemberExpression{}
	case TypeJSXNamespacedName:
		return &JSXNamespacedName{}
	case TypeJSXExpressionContainer:
		return &JSXExpressionContainer{}
	case TypeJSXSpreadChild:
		return &JSXSpreadChild{}
	case TypeJSXText:
		return &JSXText{}
	case TypeTypeAnnotation:
		return &TypeAnnotation{}
	case TypeTypeAlias:
		return &TypeAlias{}
	case TypeTypeParameterDeclaration:
		return &TypeParameterDeclaration{}
	case TypeTypeParameter:
		return &TypeParameter{}
	case TypeTypeParameterInstantiation:
		return &TypeParameterInstantiation{}
	case TypeGenericTypeAnnotation:
		return &GenericTypeAnnotation{}
	case TypeQualifiedTypeIdentifier:
		return &QualifiedTypeIdentifier{}
	case TypeAnyTypeAnnotation, TypeNumberTypeAnnotation, TypeStringTypeAnnotation,
		TypeBooleanTypeAnnotation, TypeVoidTypeAnnotation, TypeSymbolTypeAnnotation,
		TypeBigIntTypeAnnotation, TypeMixedTypeAnnotation, TypeEmptyTypeAnnotation:
		return &KeywordTypeAnnotation{}
	case TypeStringLiteralTypeAnnotation, TypeNumberLiteralTypeAnnotation,
		TypeBooleanLiteralTypeAnnotation, TypeNullLiteralTypeAnnotation:
		return &LiteralTypeAnnotation{}
	case TypeObjectTypeAnnotation:
		return &ObjectTypeAnnotation{}
	case TypeObjectTypeProperty:
		return &ObjectTypeProperty{}
	case TypeObjectTypeIndexer:
		return &ObjectTypeIndexer{}
	case TypeArrayTypeAnnotation:
		return &ArrayTypeAnnotation{}
	case TypeTupleTypeAnnotation:
		return &TupleTypeAnnotation{}
	case TypeUnionTypeAnnotation:
		return &UnionTypeAnnotation{}
	case TypeIntersectionTypeAnnotation:
		return &IntersectionTypeAnnotation{}
	case TypeNullableTypeAnnotation:
		return &NullableTypeAnnotation{}
	case TypeParenthesizedTypeAnnotation:
		return &ParenthesizedTypeAnnotation{}
	case TypeExistsTypeAnnotation:
		return &ExistsTypeAnnotation{}
	case TypeFunctionTypeAnnotation:
		return &FunctionTypeAnnotation{}
	case TypeFunctionTypeParam:
		return &FunctionTypeParam{}
	}
	return nil
}
