// Package cst defines the concrete syntax tree produced by the parser.
//
// Every grammar rule yields a [Node] of exactly one [Kind]. Children are kept
// in source order; optional parts that are absent are represented by an
// [Empty] node so that positional access stays stable.
package cst

import (
	"strconv"
	"strings"

	"github.com/ardnew/pyx/lang/token"
)

// Kind enumerates grammar rules.
type Kind int

const (
	Empty Kind = iota

	// Statements.
	FileInput     // stmt*
	Suite         // stmt+
	ExprStmt      // expr
	AssignStmt    // target+ value
	AugAssignStmt // target value; Tok is the operator
	Pass
	Break
	Continue
	Return    // value | Empty
	Raise     // exc | Empty, cause | Empty
	Global    // Name+
	Nonlocal  // Name+
	Del       // target+
	Assert    // test, msg | Empty
	Import    // DottedAsName+
	ImportFrom // Dots, DottedName | Empty, (ImportAsName+ | Star)
	DottedName   // Name+
	DottedAsName // DottedName, Name | Empty
	ImportAsName // Name, Name | Empty
	Dots         // Tok.Lit holds the leading dots
	Star
	If      // test, Suite, Elif*, Else | Empty
	Elif    // test, Suite
	Else    // Suite
	While   // test, Suite, Else | Empty
	For     // target, iter, Suite, Else | Empty
	Try     // Suite, Except*, Else | Empty, Finally | Empty
	Except  // type | Empty, Name | Empty, Suite
	Finally // Suite
	With    // WithItem+, Suite
	WithItem // expr, target | Empty
	FuncDef   // Name, Parameters, Suite
	ClassDef  // Name, Arguments | Empty, Suite
	Decorated // Decorators, FuncDef | ClassDef
	Decorators // expr+

	// Parameters.
	Parameters   // parameter*
	Param        // Name
	DefaultParam // Name, default
	StarParam    // Name
	StarMarker   // bare '*'
	SlashMarker  // '/'
	KwParam      // Name

	// Expressions.
	Name
	Number
	String
	StringConcat // String+
	Const        // True, False, None, ...
	Tuple
	List
	Set
	Dict     // (KeyValue | DictUnpack)*
	KeyValue // key, value
	DictUnpack
	ListComp  // elt, CompFor+
	SetComp   // elt, CompFor+
	DictComp  // KeyValue, CompFor+
	GenExp    // elt, CompFor+
	CompFor   // target, iter, CompIf*
	CompIf    // test
	Starred   // expr
	FuncCall  // callee, Arguments
	Arguments // (expr | Keyword | StarArg | KwArg)*
	Keyword   // Name, value
	StarArg   // expr
	KwArg     // expr
	GetAttr   // value, Name
	GetItem   // value, index
	Slice     // lower | Empty, upper | Empty, step | Empty
	BinOp     // left, right; Tok is the operator
	UnaryOp   // operand; Tok is the operator
	Not       // operand
	And       // operand+
	Or        // operand+
	Compare   // left, (CompOp, right)+
	CompOp    // Tok.Lit holds the operator, e.g. "not in"
	IfExp     // body, test, orelse
	Lambda    // Parameters, body

	// Tag literals.
	Tag        // TagName, Attributes, Children, TagName
	SingleTag  // TagName, Attributes
	TagName    // Name+
	Attributes // Attribute*
	Attribute  // Name, value | Empty
	Children   // (Tag | SingleTag | Text | expr)*
	Text

	numKinds
)

var kindNames = [...]string{
	Empty: "empty", FileInput: "file_input", Suite: "suite",
	ExprStmt: "expr_stmt", AssignStmt: "assign_stmt",
	AugAssignStmt: "augassign_stmt", Pass: "pass_stmt",
	Break: "break_stmt", Continue: "continue_stmt", Return: "return_stmt",
	Raise: "raise_stmt", Global: "global_stmt", Nonlocal: "nonlocal_stmt",
	Del: "del_stmt", Assert: "assert_stmt", Import: "import_name",
	ImportFrom: "import_from", DottedName: "dotted_name",
	DottedAsName: "dotted_as_name", ImportAsName: "import_as_name",
	Dots: "dots", Star: "star", If: "if_stmt", Elif: "elif", Else: "else",
	While: "while_stmt", For: "for_stmt", Try: "try_stmt",
	Except: "except_clause", Finally: "finally", With: "with_stmt",
	WithItem: "with_item", FuncDef: "funcdef", ClassDef: "classdef",
	Decorated: "decorated", Decorators: "decorators",
	Parameters: "parameters", Param: "param",
	DefaultParam: "default_param", StarParam: "star_param",
	StarMarker: "star_marker", SlashMarker: "slash_marker",
	KwParam: "kw_param", Name: "name", Number: "number",
	String: "string", StringConcat: "string_concat", Const: "const",
	Tuple: "tuple", List: "list", Set: "set", Dict: "dict",
	KeyValue: "key_value", DictUnpack: "dict_unpack",
	ListComp: "list_comp", SetComp: "set_comp", DictComp: "dict_comp",
	GenExp: "gen_exp", CompFor: "comp_for", CompIf: "comp_if",
	Starred: "starred", FuncCall: "funccall", Arguments: "arguments",
	Keyword: "keyword", StarArg: "star_arg", KwArg: "kw_arg",
	GetAttr: "getattr", GetItem: "getitem", Slice: "slice",
	BinOp: "binop", UnaryOp: "unaryop", Not: "not_test", And: "and_test",
	Or: "or_test", Compare: "comparison", CompOp: "comp_op",
	IfExp: "ifexp", Lambda: "lambda", Tag: "htmltag",
	SingleTag: "singhtmltag", TagName: "tag_name",
	Attributes: "html_attrs", Attribute: "html_attr",
	Children: "html_children", Text: "html_text",
}

func (k Kind) String() string {
	if k >= 0 && k < numKinds && kindNames[k] != "" {
		return kindNames[k]
	}

	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// Node is a concrete syntax tree node.
type Node struct {
	Children []*Node
	Tok      token.Token
	Kind     Kind
}

// New returns a node of kind k positioned at tok.
func New(k Kind, tok token.Token, children ...*Node) *Node {
	return &Node{Kind: k, Tok: tok, Children: children}
}

// Leaf returns a childless node for tok.
func Leaf(k Kind, tok token.Token) *Node {
	return &Node{Kind: k, Tok: tok}
}

// None returns an Empty placeholder.
func None() *Node { return &Node{Kind: Empty} }

// Pos returns the position of the token that began n.
func (n *Node) Pos() token.Position { return n.Tok.Pos }

// IsEmpty reports whether n is absent.
func (n *Node) IsEmpty() bool { return n == nil || n.Kind == Empty }

// Child returns the i'th child, or an Empty node if out of range.
func (n *Node) Child(i int) *Node {
	if n == nil || i < 0 || i >= len(n.Children) {
		return None()
	}

	return n.Children[i]
}

// Add appends children to n and returns n.
func (n *Node) Add(children ...*Node) *Node {
	n.Children = append(n.Children, children...)

	return n
}

// Dotted joins the token text of n's children with '.', as used for
// [TagName] and [DottedName] nodes.
func (n *Node) Dotted() string {
	var sb strings.Builder

	for i, c := range n.Children {
		if i > 0 {
			sb.WriteByte('.')
		}

		sb.WriteString(c.Tok.Lit)
	}

	return sb.String()
}
