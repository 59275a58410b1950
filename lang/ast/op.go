package ast

// Operator is a binary arithmetic or bitwise operator.
type Operator int

const (
	Add Operator = iota + 1
	Sub
	Mult
	MatMult
	Div
	Mod
	Pow
	LShift
	RShift
	BitOr
	BitXor
	BitAnd
	FloorDiv
)

var operators = map[Operator][2]string{
	Add:      {"Add", "+"},
	Sub:      {"Sub", "-"},
	Mult:     {"Mult", "*"},
	MatMult:  {"MatMult", "@"},
	Div:      {"Div", "/"},
	Mod:      {"Mod", "%"},
	Pow:      {"Pow", "**"},
	LShift:   {"LShift", "<<"},
	RShift:   {"RShift", ">>"},
	BitOr:    {"BitOr", "|"},
	BitXor:   {"BitXor", "^"},
	BitAnd:   {"BitAnd", "&"},
	FloorDiv: {"FloorDiv", "//"},
}

func (o Operator) String() string { return operators[o][0] }

// Symbol returns the operator's source spelling, or "" if o is invalid.
func (o Operator) Symbol() string { return operators[o][1] }

// BinaryOperator returns the operator spelled sym.
func BinaryOperator(sym string) (Operator, bool) {
	for op, s := range operators {
		if s[1] == sym {
			return op, true
		}
	}

	return 0, false
}

// UnaryOperator is a prefix operator.
type UnaryOperator int

const (
	UAdd UnaryOperator = iota + 1
	USub
	Invert
	Not
)

func (o UnaryOperator) String() string {
	return [...]string{"", "UAdd", "USub", "Invert", "Not"}[o]
}

// Symbol returns the operator's source spelling.
func (o UnaryOperator) Symbol() string {
	return [...]string{"", "+", "-", "~", "not"}[o]
}

// BoolOperator is and or or.
type BoolOperator int

const (
	And BoolOperator = iota + 1
	Or
)

func (o BoolOperator) String() string { return [...]string{"", "And", "Or"}[o] }

// Symbol returns the operator's source spelling.
func (o BoolOperator) Symbol() string { return [...]string{"", "and", "or"}[o] }

// CmpOperator is a comparison operator.
type CmpOperator int

const (
	Eq CmpOperator = iota + 1
	NotEq
	Lt
	LtE
	Gt
	GtE
	Is
	IsNot
	In
	NotIn
)

var comparisons = [...][2]string{
	{"", ""},
	{"Eq", "=="},
	{"NotEq", "!="},
	{"Lt", "<"},
	{"LtE", "<="},
	{"Gt", ">"},
	{"GtE", ">="},
	{"Is", "is"},
	{"IsNot", "is not"},
	{"In", "in"},
	{"NotIn", "not in"},
}

func (o CmpOperator) String() string { return comparisons[o][0] }

// Symbol returns the operator's source spelling.
func (o CmpOperator) Symbol() string { return comparisons[o][1] }

// CompareOperator returns the comparison spelled sym.
func CompareOperator(sym string) (CmpOperator, bool) {
	for i, c := range comparisons {
		if i > 0 && c[1] == sym {
			return CmpOperator(i), true
		}
	}

	return 0, false
}

// ConstKind classifies a [Constant].
type ConstKind int

const (
	Str ConstKind = iota
	Bytes
	Int
	Float
	Imag
	True
	False
	None
	Ellipsis
)

func (k ConstKind) String() string {
	return [...]string{
		"str", "bytes", "int", "float", "complex",
		"True", "False", "None", "Ellipsis",
	}[k]
}

// Helpers for building common nodes.

// NewName returns a Name with Load context.
func NewName(id string) *Name { return &Name{ID: id, Ctx: Load} }

// NewStr returns a string constant.
func NewStr(s string) *Constant { return &Constant{Kind: Str, Value: s} }

// NewNone returns the None constant.
func NewNone() *Constant { return &Constant{Kind: None, Value: "None"} }

// NewTrue returns the True constant.
func NewTrue() *Constant { return &Constant{Kind: True, Value: "True"} }
