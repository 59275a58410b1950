// Package ast defines the abstract syntax of the Python programs that pyx
// emits.
//
// The node set mirrors the subset of Python's own abstract grammar that the
// transformer produces. Nodes carry no source positions; two trees built from
// equivalent programs compare equal.
package ast

// Node is implemented by every abstract syntax node.
type Node interface{ node() }

// Stmt is a statement node.
type Stmt interface {
	Node
	stmt()
}

// Expr is an expression node.
type Expr interface {
	Node
	expr()
}

// Context distinguishes how a [Name] or other target expression is used.
type Context int

const (
	Load Context = iota
	Store
	Del
	Param
)

func (c Context) String() string {
	switch c {
	case Load:
		return "Load"
	case Store:
		return "Store"
	case Del:
		return "Del"
	case Param:
		return "Param"
	default:
		return "Context(?)"
	}
}

// Module is the root of a program.
type Module struct {
	Body []Stmt
}

func (*Module) node() {}

// Statements.
type (
	// FunctionDef is a def statement.
	FunctionDef struct {
		Args       *Arguments
		Name       string
		Body       []Stmt
		Decorators []*Decorator
	}

	// ClassDef is a class statement.
	ClassDef struct {
		Name       string
		Bases      []Expr
		Keywords   []*Keyword
		Body       []Stmt
		Decorators []*Decorator
	}

	// Return is a return statement. Value is nil for a bare return.
	Return struct {
		Value Expr
	}

	// Assign is an assignment, possibly chained: a = b = value.
	Assign struct {
		Value   Expr
		Targets []Expr
	}

	// AugAssign is an augmented assignment such as a += 1.
	AugAssign struct {
		Target Expr
		Value  Expr
		Op     Operator
	}

	// ExprStmt is an expression evaluated for its effect.
	ExprStmt struct {
		Value Expr
	}

	// If is an if statement; elif chains nest in Orelse.
	If struct {
		Test   Expr
		Body   []Stmt
		Orelse []Stmt
	}

	// While is a while loop.
	While struct {
		Test   Expr
		Body   []Stmt
		Orelse []Stmt
	}

	// For is a for loop.
	For struct {
		Target Expr
		Iter   Expr
		Body   []Stmt
		Orelse []Stmt
	}

	// Try is a try statement.
	Try struct {
		Body      []Stmt
		Handlers  []*ExceptHandler
		Orelse    []Stmt
		Finalbody []Stmt
	}

	// With is a with statement.
	With struct {
		Items []*WithItem
		Body  []Stmt
	}

	// Raise is a raise statement.
	Raise struct {
		Exc   Expr
		Cause Expr
	}

	// Assert is an assert statement.
	Assert struct {
		Test Expr
		Msg  Expr
	}

	// Delete is a del statement.
	Delete struct {
		Targets []Expr
	}

	// Global is a global declaration.
	Global struct {
		Names []string
	}

	// Nonlocal is a nonlocal declaration.
	Nonlocal struct {
		Names []string
	}

	// Import is an import statement.
	Import struct {
		Names []*Alias
	}

	// ImportFrom is a from-import statement. Module is empty for purely
	// relative imports such as "from . import x".
	ImportFrom struct {
		Module string
		Names  []*Alias
		Level  int
	}

	Pass     struct{}
	Break    struct{}
	Continue struct{}
)

// Expressions.
type (
	// Name is a bare identifier.
	Name struct {
		ID  string
		Ctx Context
	}

	// Constant is a literal value. Value holds the decoded text of strings
	// and bytes and the source spelling of numbers.
	Constant struct {
		Value string
		Kind  ConstKind
	}

	// JoinedStr is a formatted string literal, kept as its source spelling.
	// Parts holds adjacent literals that are concatenated at runtime.
	JoinedStr struct {
		Parts []string
	}

	// Attribute is value.attr.
	Attribute struct {
		Value Expr
		Attr  string
		Ctx   Context
	}

	// Subscript is value[slice].
	Subscript struct {
		Value Expr
		Slice Expr
		Ctx   Context
	}

	// Slice is lower:upper:step inside a subscript.
	Slice struct {
		Lower Expr
		Upper Expr
		Step  Expr
	}

	// Starred is *value in a call, display, or assignment target.
	Starred struct {
		Value Expr
		Ctx   Context
	}

	// Call is a function call.
	//
	// Element is set on the outer call produced by lowering a tag literal.
	// It does not affect emitted code.
	Call struct {
		Func     Expr
		Args     []Expr
		Keywords []*Keyword
		Element  bool
	}

	// List is a list display.
	List struct {
		Elts []Expr
		Ctx  Context
	}

	// Tuple is a tuple display.
	Tuple struct {
		Elts []Expr
		Ctx  Context
	}

	// Set is a set display.
	Set struct {
		Elts []Expr
	}

	// Dict is a dict display. A nil key marks a **mapping unpack.
	Dict struct {
		Keys   []Expr
		Values []Expr
	}

	// Lambda is an anonymous function.
	Lambda struct {
		Args *Arguments
		Body Expr
	}

	// BinOp is a binary arithmetic or bitwise operation.
	BinOp struct {
		Left  Expr
		Right Expr
		Op    Operator
	}

	// UnaryOp is a prefix operation.
	UnaryOp struct {
		Operand Expr
		Op      UnaryOperator
	}

	// BoolOp is a chain of and/or operands.
	BoolOp struct {
		Values []Expr
		Op     BoolOperator
	}

	// Compare is a comparison chain.
	Compare struct {
		Left        Expr
		Ops         []CmpOperator
		Comparators []Expr
	}

	// IfExp is body if test else orelse.
	IfExp struct {
		Test   Expr
		Body   Expr
		Orelse Expr
	}

	// ListComp is [elt for ...].
	ListComp struct {
		Elt        Expr
		Generators []*Comprehension
	}

	// SetComp is {elt for ...}.
	SetComp struct {
		Elt        Expr
		Generators []*Comprehension
	}

	// GeneratorExp is (elt for ...).
	GeneratorExp struct {
		Elt        Expr
		Generators []*Comprehension
	}

	// DictComp is {key: value for ...}.
	DictComp struct {
		Key        Expr
		Value      Expr
		Generators []*Comprehension
	}
)

// Auxiliary nodes.
type (
	// Arguments is the parameter specification of a function or lambda.
	//
	// A nil Default on an entry of Args or KwOnly means the parameter has no
	// default, which is distinct from a default of None.
	Arguments struct {
		Vararg  *Arg
		Kwarg   *Arg
		PosOnly []*Arg
		Args    []*Arg
		KwOnly  []*Arg
	}

	// Arg is a single parameter.
	Arg struct {
		Default Expr
		Name    string
	}

	// Keyword is a keyword argument. Arg is empty for **value.
	Keyword struct {
		Value Expr
		Arg   string
	}

	// Decorator is an @expression preceding a definition.
	Decorator struct {
		Value Expr
	}

	// Alias is a name in an import statement.
	Alias struct {
		Name   string
		AsName string
	}

	// ExceptHandler is an except clause.
	ExceptHandler struct {
		Type Expr
		Name string
		Body []Stmt
	}

	// WithItem is one context manager of a with statement.
	WithItem struct {
		Context Expr
		Target  Expr
	}

	// Comprehension is one for clause with its conditions.
	Comprehension struct {
		Target Expr
		Iter   Expr
		Ifs    []Expr
	}
)

func (*FunctionDef) node() {}
func (*ClassDef) node()    {}
func (*Return) node()      {}
func (*Assign) node()      {}
func (*AugAssign) node()   {}
func (*ExprStmt) node()    {}
func (*If) node()          {}
func (*While) node()       {}
func (*For) node()         {}
func (*Try) node()         {}
func (*With) node()        {}
func (*Raise) node()       {}
func (*Assert) node()      {}
func (*Delete) node()      {}
func (*Global) node()      {}
func (*Nonlocal) node()    {}
func (*Import) node()      {}
func (*ImportFrom) node()  {}
func (*Pass) node()        {}
func (*Break) node()       {}
func (*Continue) node()    {}

func (*FunctionDef) stmt() {}
func (*ClassDef) stmt()    {}
func (*Return) stmt()      {}
func (*Assign) stmt()      {}
func (*AugAssign) stmt()   {}
func (*ExprStmt) stmt()    {}
func (*If) stmt()          {}
func (*While) stmt()       {}
func (*For) stmt()         {}
func (*Try) stmt()         {}
func (*With) stmt()        {}
func (*Raise) stmt()       {}
func (*Assert) stmt()      {}
func (*Delete) stmt()      {}
func (*Global) stmt()      {}
func (*Nonlocal) stmt()    {}
func (*Import) stmt()      {}
func (*ImportFrom) stmt()  {}
func (*Pass) stmt()        {}
func (*Break) stmt()       {}
func (*Continue) stmt()    {}

func (*Name) node()         {}
func (*Constant) node()     {}
func (*JoinedStr) node()    {}
func (*Attribute) node()    {}
func (*Subscript) node()    {}
func (*Slice) node()        {}
func (*Starred) node()      {}
func (*Call) node()         {}
func (*List) node()         {}
func (*Tuple) node()        {}
func (*Set) node()          {}
func (*Dict) node()         {}
func (*Lambda) node()       {}
func (*BinOp) node()        {}
func (*UnaryOp) node()      {}
func (*BoolOp) node()       {}
func (*Compare) node()      {}
func (*IfExp) node()        {}
func (*ListComp) node()     {}
func (*SetComp) node()      {}
func (*GeneratorExp) node() {}
func (*DictComp) node()     {}

func (*Name) expr()         {}
func (*Constant) expr()     {}
func (*JoinedStr) expr()    {}
func (*Attribute) expr()    {}
func (*Subscript) expr()    {}
func (*Slice) expr()        {}
func (*Starred) expr()      {}
func (*Call) expr()         {}
func (*List) expr()         {}
func (*Tuple) expr()        {}
func (*Set) expr()          {}
func (*Dict) expr()         {}
func (*Lambda) expr()       {}
func (*BinOp) expr()        {}
func (*UnaryOp) expr()      {}
func (*BoolOp) expr()       {}
func (*Compare) expr()      {}
func (*IfExp) expr()        {}
func (*ListComp) expr()     {}
func (*SetComp) expr()      {}
func (*GeneratorExp) expr() {}
func (*DictComp) expr()     {}

func (*Arguments) node()     {}
func (*Arg) node()           {}
func (*Keyword) node()       {}
func (*Decorator) node()     {}
func (*Alias) node()         {}
func (*ExceptHandler) node() {}
func (*WithItem) node()      {}
func (*Comprehension) node() {}
