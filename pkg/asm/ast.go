package asm

import (
	"fmt"

	"asm6502/pkg/diag"
	"asm6502/pkg/isa"
)

// NodeIndex addresses a node in an Arena. Null is never a real node.
type NodeIndex uint16

const Null NodeIndex = 0

// MaxArenaCapacity is the most nodes a 16-bit index can address, not
// counting the reserved Null slot.
const MaxArenaCapacity = 1<<16 - 1

// DefaultArenaCapacity is the node budget of one parse of up to
// DefaultMaxInput bytes.
const DefaultArenaCapacity = 2*DefaultMaxInput + 2

// ArenaCapacityFor returns a node budget no input of maxInput bytes can
// exhaust. The densest source is blank lines: one byte each, two nodes each
// (Empty and its StatementList link), plus the final statement.
func ArenaCapacityFor(maxInput int) int {
	return min(2*maxInput+2, MaxArenaCapacity)
}

// NodeKind tags a Node and fixes which Payload it carries.
type NodeKind uint8

const (
	NodeNull          NodeKind = iota // zero record, "no node"
	NodeNumber                        // Raw: value
	NodeChar                          // Raw: character code
	NodeIdent                         // Text: name
	NodeBinOp                         // Raw: BinOp; Left, Right operands
	NodeEmpty                         // no payload
	NodeInstruction                   // Raw: isa.Instruction; Left: argument
	NodeLabel                         // Left: ident
	NodeArgument                      // Operand; Left: ident for label references
	NodeStatementList                 // Left: statement; Right: rest of list
	NodePragma                        // Text: directive name
)

var nodeKindNames = [...]string{
	NodeNull:          "NULL",
	NodeNumber:        "NUMBER",
	NodeChar:          "CHAR",
	NodeIdent:         "ID",
	NodeBinOp:         "BINOP",
	NodeEmpty:         "EMPTY",
	NodeInstruction:   "INSTRUCTION",
	NodeLabel:         "LABEL",
	NodeArgument:      "ARGUMENT",
	NodeStatementList: "STATEMENT_LIST",
	NodePragma:        "PRAGMA",
}

func (k NodeKind) String() string {
	if int(k) < len(nodeKindNames) {
		return nodeKindNames[k]
	}
	return fmt.Sprintf("NodeKind(%d)", int(k))
}

// BinOp is the operator of a NodeBinOp.
type BinOp uint8

const (
	OpNone BinOp = iota
	OpAdd
	OpSub
	OpMul
	OpDiv
)

func (op BinOp) String() string {
	switch op {
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	}
	return "?"
}

func binOpFromToken(tt TokenType) BinOp {
	switch tt {
	case ADD:
		return OpAdd
	case SUB:
		return OpSub
	case MUL:
		return OpMul
	case DIV:
		return OpDiv
	}
	return OpNone
}

// Payload is the data slot of a Node: exactly one of Raw, Text or Operand.
type Payload interface {
	payload()
}

// Raw is an integer payload.
type Raw uint64

// Text is an owned string payload.
type Text string

// Operand is an inline argument payload.
type Operand isa.Argument

func (Raw) payload()     {}
func (Text) payload()    {}
func (Operand) payload() {}

// Node is a fixed-size AST record. Children are arena indices.
type Node struct {
	Kind  NodeKind
	Left  NodeIndex
	Right NodeIndex
	Data  Payload
	Pos   diag.Pos
}

// Raw returns the integer payload, or 0 when the node carries another shape.
func (n Node) Raw() uint64 {
	if v, ok := n.Data.(Raw); ok {
		return uint64(v)
	}
	return 0
}

// Text returns the string payload, or "".
func (n Node) Text() string {
	if v, ok := n.Data.(Text); ok {
		return string(v)
	}
	return ""
}

// Argument returns the operand payload, or the zero Argument.
func (n Node) Argument() isa.Argument {
	if v, ok := n.Data.(Operand); ok {
		return isa.Argument(v)
	}
	return isa.Argument{}
}

// Instruction returns the variant stored in a NodeInstruction.
func (n Node) Instruction() isa.Instruction { return isa.Instruction(n.Raw()) }

// BinOp returns the operator stored in a NodeBinOp.
func (n Node) BinOp() BinOp { return BinOp(n.Raw()) }

// Constructors tie each kind to its payload shape.

func NumberNode(v uint64, pos diag.Pos) Node {
	return Node{Kind: NodeNumber, Data: Raw(v), Pos: pos}
}

func CharNode(v uint64, pos diag.Pos) Node {
	return Node{Kind: NodeChar, Data: Raw(v), Pos: pos}
}

func IdentNode(name string, pos diag.Pos) Node {
	return Node{Kind: NodeIdent, Data: Text(name), Pos: pos}
}

func BinOpNode(op BinOp, left, right NodeIndex, pos diag.Pos) Node {
	return Node{Kind: NodeBinOp, Left: left, Right: right, Data: Raw(op), Pos: pos}
}

func EmptyNode(pos diag.Pos) Node {
	return Node{Kind: NodeEmpty, Pos: pos}
}

func InstructionNode(inst isa.Instruction, arg NodeIndex, pos diag.Pos) Node {
	return Node{Kind: NodeInstruction, Left: arg, Data: Raw(inst), Pos: pos}
}

func LabelNode(ident NodeIndex, pos diag.Pos) Node {
	return Node{Kind: NodeLabel, Left: ident, Pos: pos}
}

// ArgumentNode builds an argument; ident is Null unless the operand is a
// label reference still to be resolved.
func ArgumentNode(arg isa.Argument, ident NodeIndex, pos diag.Pos) Node {
	return Node{Kind: NodeArgument, Left: ident, Data: Operand(arg), Pos: pos}
}

func StatementListNode(stmt, rest NodeIndex, pos diag.Pos) Node {
	return Node{Kind: NodeStatementList, Left: stmt, Right: rest, Pos: pos}
}

func PragmaNode(name string, pos diag.Pos) Node {
	return Node{Kind: NodePragma, Data: Text(name), Pos: pos}
}

// Arena is append-only node storage addressed by NodeIndex. Slot 0 holds the
// zero Node and is never handed out.
type Arena struct {
	nodes    []Node
	capacity int
}

// NewArena returns an arena that holds up to capacity nodes.
func NewArena(capacity int) *Arena {
	if capacity <= 0 {
		capacity = DefaultArenaCapacity
	}
	if capacity > MaxArenaCapacity {
		capacity = MaxArenaCapacity
	}
	a := &Arena{capacity: capacity}
	a.nodes = make([]Node, 1, capacity+1)
	return a
}

// Allocate appends n and returns its index.
func (a *Arena) Allocate(n Node) (NodeIndex, error) {
	if a.Len() >= a.capacity {
		return Null, diag.Errorf(diag.KindArena, n.Pos, "arena exhausted (%d nodes)", a.capacity)
	}
	a.nodes = append(a.nodes, n)
	return NodeIndex(len(a.nodes) - 1), nil
}

// Node returns the node at i. Null and out-of-range indices yield the zero
// Node, whose Kind is NodeNull.
func (a *Arena) Node(i NodeIndex) Node {
	if i == Null || int(i) >= len(a.nodes) {
		return Node{}
	}
	return a.nodes[i]
}

// Len is the number of allocated nodes, excluding the Null slot.
func (a *Arena) Len() int { return len(a.nodes) - 1 }

// Cap is the node budget.
func (a *Arena) Cap() int { return a.capacity }

// Reset drops every node. Indices from before the reset are invalid.
func (a *Arena) Reset() {
	clear(a.nodes)
	a.nodes = a.nodes[:1]
}

// Statements flattens a statement list into its statement indices in source
// order.
func (a *Arena) Statements(list NodeIndex) []NodeIndex {
	var out []NodeIndex
	for list != Null {
		n := a.Node(list)
		if n.Kind != NodeStatementList {
			break
		}
		out = append(out, n.Left)
		list = n.Right
	}
	return out
}
