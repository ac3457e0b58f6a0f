package exprtree

import "github.com/dekarrin/dpc/internal/ast"

// NodeType tags the concrete type of a Node.
type NodeType int

const (
	NConstant NodeType = iota
	NVariable
	NUnaryOp
	NBinaryOp
	NEmbedCall
	NFString
)

// BinaryOp mirrors ast.BinaryOp at the lowered-expression layer; kept as a
// distinct enum so the expression tree has no compile-time dependency on
// the parser's precedence-layered AST beyond the one-way lowering in
// internal/ir.
type BinaryOp int

const (
	BOr BinaryOp = iota
	BAnd
	BEq
	BNotEq
	BLess
	BGreater
	BLessEq
	BGreaterEq
	BAdd
	BSub
	BMul
	BDiv
	BMod
	BPow
)

// UnaryOp mirrors ast.UnaryOp at the lowered-expression layer.
type UnaryOp int

const (
	UNeg UnaryOp = iota
	UPos
	UNot
)

// Node is an evaluable expression tree node, separate from the parse-time
// ast.Expr (spec.md §3).
type Node interface {
	Type() NodeType
	Position() ast.Pos

	AsConstant() *ConstantNode
	AsVariable() *VariableNode
	AsUnaryOp() *UnaryOpNode
	AsBinaryOp() *BinaryOpNode
	AsEmbedCall() *EmbedCallNode
	AsFString() *FStringNode
}

type baseNode struct {
	pos ast.Pos
}

func (b baseNode) Position() ast.Pos { return b.pos }

func (b baseNode) AsConstant() *ConstantNode   { panic("Type() is not NConstant") }
func (b baseNode) AsVariable() *VariableNode   { panic("Type() is not NVariable") }
func (b baseNode) AsUnaryOp() *UnaryOpNode     { panic("Type() is not NUnaryOp") }
func (b baseNode) AsBinaryOp() *BinaryOpNode   { panic("Type() is not NBinaryOp") }
func (b baseNode) AsEmbedCall() *EmbedCallNode { panic("Type() is not NEmbedCall") }
func (b baseNode) AsFString() *FStringNode     { panic("Type() is not NFString") }

// ConstantNode is a literal value, already typed and parsed out of its
// source spelling.
type ConstantNode struct {
	baseNode
	Value Value
}

func (n *ConstantNode) Type() NodeType          { return NConstant }
func (n *ConstantNode) AsConstant() *ConstantNode { return n }

func NewConstantNode(pos ast.Pos, value Value) *ConstantNode {
	return &ConstantNode{baseNode: baseNode{pos}, Value: value}
}

// VariableNode is a `$name`/`$global.name` reference (leading `$` already
// stripped, `global.` prefix preserved in Name).
type VariableNode struct {
	baseNode
	Name string
}

func (n *VariableNode) Type() NodeType          { return NVariable }
func (n *VariableNode) AsVariable() *VariableNode { return n }

func NewVariableNode(pos ast.Pos, name string) *VariableNode {
	return &VariableNode{baseNode: baseNode{pos}, Name: name}
}

// UnaryOpNode is a unary operation over a lowered operand.
type UnaryOpNode struct {
	baseNode
	Op      UnaryOp
	Operand Node
}

func (n *UnaryOpNode) Type() NodeType        { return NUnaryOp }
func (n *UnaryOpNode) AsUnaryOp() *UnaryOpNode { return n }

func NewUnaryOpNode(pos ast.Pos, op UnaryOp, operand Node) *UnaryOpNode {
	return &UnaryOpNode{baseNode: baseNode{pos}, Op: op, Operand: operand}
}

// BinaryOpNode is a binary operation over two lowered operands. Compound
// assignment (`$v += expr`) desugars to `BinaryOpNode{op, Variable(v),
// expr}` at IR-build time (spec.md §4.3); there is no separate
// compound-assign node.
type BinaryOpNode struct {
	baseNode
	Op    BinaryOp
	Left  Node
	Right Node
}

func (n *BinaryOpNode) Type() NodeType          { return NBinaryOp }
func (n *BinaryOpNode) AsBinaryOp() *BinaryOpNode { return n }

func NewBinaryOpNode(pos ast.Pos, op BinaryOp, left, right Node) *BinaryOpNode {
	return &BinaryOpNode{baseNode: baseNode{pos}, Op: op, Left: left, Right: right}
}

// EmbedCallNode is a lowered `call name(args)`.
type EmbedCallNode struct {
	baseNode
	Name string
	Args []Node
}

func (n *EmbedCallNode) Type() NodeType            { return NEmbedCall }
func (n *EmbedCallNode) AsEmbedCall() *EmbedCallNode { return n }

func NewEmbedCallNode(pos ast.Pos, name string, args []Node) *EmbedCallNode {
	return &EmbedCallNode{baseNode: baseNode{pos}, Name: name, Args: args}
}

// EmbedSentinel is the placeholder text substituted into FStringNode's
// fragment list for each embed, in reconstruction order (spec.md §4.3).
const EmbedSentinel = "{_0_}"

// FStringNode is the lowered form of ast.FString: Fragments holds literal
// text interleaved with EmbedSentinel placeholders (one per entry of
// Embeds), instead of ast.FString's {Text, Placeholder} pairs.
type FStringNode struct {
	baseNode
	Fragments []string
	Embeds    []Node
}

func (n *FStringNode) Type() NodeType        { return NFString }
func (n *FStringNode) AsFString() *FStringNode { return n }

func NewFStringNode(pos ast.Pos, fragments []string, embeds []Node) *FStringNode {
	return &FStringNode{baseNode: baseNode{pos}, Fragments: fragments, Embeds: embeds}
}
