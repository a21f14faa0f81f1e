package asm

import (
	"fmt"
	"io"
	"strings"

	"asm6502/pkg/isa"
)

// DumpAST writes the tree rooted at root, one node per line, indented two
// spaces per level.
func DumpAST(w io.Writer, a *Arena, root NodeIndex) error {
	d := &dumper{w: w, arena: a}
	d.node(root, 0)
	return d.err
}

// ASTString returns DumpAST output as a string.
func ASTString(a *Arena, root NodeIndex) string {
	var sb strings.Builder
	_ = DumpAST(&sb, a, root)
	return sb.String()
}

type dumper struct {
	w     io.Writer
	arena *Arena
	err   error
}

func (d *dumper) line(depth int, format string, args ...any) {
	if d.err != nil {
		return
	}
	_, d.err = fmt.Fprintf(d.w, "%s%s\n", strings.Repeat("  ", depth), fmt.Sprintf(format, args...))
}

func (d *dumper) node(idx NodeIndex, depth int) {
	n := d.arena.Node(idx)
	switch n.Kind {
	case NodeNull:
		d.line(depth, "(NULL)")
	case NodeNumber:
		d.line(depth, "(NUM: %d)", n.Raw())
	case NodeChar:
		d.line(depth, "(CHAR: %q)", rune(n.Raw()))
	case NodeIdent:
		d.line(depth, "(ID: %s)", n.Text())
	case NodeBinOp:
		d.line(depth, "(BINOP: %s)", n.BinOp())
		d.node(n.Left, depth+1)
		d.node(n.Right, depth+1)
	case NodeEmpty:
		d.line(depth, "(EMPTY STATEMENT)")
	case NodeInstruction:
		d.line(depth, "(INSTRUCTION: %s)", n.Instruction())
		d.node(n.Left, depth+1)
	case NodeArgument:
		arg := n.Argument()
		if n.Left != Null {
			d.line(depth, "(ARGUMENT: %s -> %s)", arg.Mode, d.arena.Node(n.Left).Text())
			return
		}
		if arg.Mode == isa.Implicit {
			d.line(depth, "(ARGUMENT: %s)", arg.Mode)
			return
		}
		d.line(depth, "(ARGUMENT: %s %s)", arg.Mode, arg)
	case NodeLabel:
		d.line(depth, "(LABEL: %s)", d.arena.Node(n.Left).Text())
	case NodePragma:
		d.line(depth, "(PRAGMA: .%s)", n.Text())
	case NodeStatementList:
		d.line(depth, "(BLOCK)")
		for _, stmt := range d.arena.Statements(idx) {
			d.node(stmt, depth+1)
		}
	default:
		d.line(depth, "(UNKNOWN NODE %s)", n.Kind)
	}
}

// ListingString renders one line per emitted instruction as
// "ADDR  BYTES     SOURCE".
func (p *Program) ListingString() string {
	var sb strings.Builder
	for _, l := range p.Listing {
		hex := make([]string, len(l.Bytes))
		for i, b := range l.Bytes {
			hex[i] = fmt.Sprintf("%02X", b)
		}
		fmt.Fprintf(&sb, "$%04X  %-8s  %s\n", l.Addr, strings.Join(hex, " "), strings.TrimSpace(l.Source))
	}
	return sb.String()
}
