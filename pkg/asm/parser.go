package asm

import (
	"strings"

	"asm6502/pkg/diag"
	"asm6502/pkg/isa"
)

// Parser drives a Lexer one token at a time and appends nodes to an Arena.
//
// Grammar:
//
//	program     = statement (NEWLINE statement)* EOF
//	statement   = label | instruction | pragma | empty
//	label       = IDENTIFIER ":" (NEWLINE | EOF)
//	instruction = MNEMONIC argument
//	pragma      = "." IDENTIFIER <anything up to NEWLINE>
//	argument    = "#" literal
//	            | literal ("," IDENTIFIER)?
//	            | "(" literal ")" ("," IDENTIFIER)?
//	            | "(" literal "," IDENTIFIER ")"
//	            | IDENTIFIER       ; "A" after ASL/LSR/ROL/ROR is the accumulator
//	            | <nothing>
//
//	expr        = term (("+" | "-") term)*
//	term        = factor (("*" | "/") factor)*
//	factor      = literal | "(" expr ")"
//
// Every rule returns the index of the subtree it built. The first unexpected
// token ends the parse with a *diag.Error.
type Parser struct {
	lex   *Lexer
	arena *Arena
}

func NewParser(lex *Lexer, arena *Arena) *Parser {
	return &Parser{lex: lex, arena: arena}
}

func (p *Parser) tok() Token { return p.lex.Current() }

func (p *Parser) add(n Node) (NodeIndex, error) { return p.arena.Allocate(n) }

func (p *Parser) errorf(tok Token, format string, args ...any) error {
	return diag.Errorf(diag.KindParse, tok.Pos, format, args...)
}

// Program parses the whole input into a statement list and returns its root.
func (p *Parser) Program() (NodeIndex, error) {
	if err := p.lex.Advance(); err != nil {
		return Null, err
	}

	var stmts []NodeIndex
	var positions []diag.Pos
	for {
		pos := p.tok().Pos
		stmt, err := p.statement()
		if err != nil {
			return Null, err
		}
		stmts = append(stmts, stmt)
		positions = append(positions, pos)

		switch p.tok().Type {
		case NEWLINE:
			if err := p.lex.Match(NEWLINE); err != nil {
				return Null, err
			}
		case EOF:
			return p.link(stmts, positions)
		default:
			return Null, p.errorf(p.tok(), "unexpected %s after statement", p.tok().Type)
		}
	}
}

// link builds the right-recursive statement list from the back so that the
// root is the first statement.
func (p *Parser) link(stmts []NodeIndex, positions []diag.Pos) (NodeIndex, error) {
	rest := Null
	for i := len(stmts) - 1; i >= 0; i-- {
		idx, err := p.add(StatementListNode(stmts[i], rest, positions[i]))
		if err != nil {
			return Null, err
		}
		rest = idx
	}
	return rest, nil
}

func (p *Parser) statement() (NodeIndex, error) {
	tok := p.tok()
	switch {
	case tok.Type == DOT:
		return p.pragma()
	case tok.Type == IDENTIFIER:
		return p.label()
	case tok.Type.IsInstruction():
		return p.instruction()
	case tok.Type == NEWLINE || tok.Type == EOF:
		return p.add(EmptyNode(tok.Pos))
	case tok.Type.IsKeyword():
		return Null, p.errorf(tok, "reserved word %s cannot start a statement", tok.Type)
	default:
		return Null, p.errorf(tok, "invalid statement starting token %s", tok.Type)
	}
}

func (p *Parser) ident() (NodeIndex, error) {
	tok := p.tok()
	if err := p.lex.Match(IDENTIFIER); err != nil {
		return Null, err
	}
	return p.add(IdentNode(tok.Text, tok.Pos))
}

func (p *Parser) label() (NodeIndex, error) {
	pos := p.tok().Pos
	id, err := p.ident()
	if err != nil {
		return Null, err
	}
	if err := p.lex.Match(COLON); err != nil {
		return Null, err
	}
	if t := p.tok().Type; t != NEWLINE && t != EOF {
		return Null, p.errorf(p.tok(), "unexpected %s after label", t)
	}
	return p.add(LabelNode(id, pos))
}

// pragma records a directive name and skips its operands. Directives are
// reserved syntax; none is executed.
func (p *Parser) pragma() (NodeIndex, error) {
	pos := p.tok().Pos
	if err := p.lex.Match(DOT); err != nil {
		return Null, err
	}
	name := p.tok()
	if name.Type != IDENTIFIER {
		return Null, p.errorf(name, "expected directive name after '.', found %s", name.Type)
	}
	for t := p.tok().Type; t != NEWLINE && t != EOF; t = p.tok().Type {
		if err := p.lex.Advance(); err != nil {
			return Null, err
		}
	}
	return p.add(PragmaNode(strings.ToLower(name.Text), pos))
}

func (p *Parser) instruction() (NodeIndex, error) {
	tok := p.tok()
	inst := tok.Type.Instruction()
	if err := p.lex.Advance(); err != nil {
		return Null, err
	}
	arg, err := p.argument(inst)
	if err != nil {
		return Null, err
	}
	return p.add(InstructionNode(inst, arg, tok.Pos))
}

// literal consumes a numeric token and returns its value.
func (p *Parser) literal() (Token, error) {
	tok := p.tok()
	switch tok.Type {
	case HEX_LITERAL, INT_LITERAL, BINARY_LITERAL:
	default:
		return tok, p.errorf(tok, "expected a numeric literal, found %s", tok.Type)
	}
	if tok.Value > 0xFFFF {
		return tok, p.errorf(tok, "value $%X does not fit in 16 bits", tok.Value)
	}
	return tok, p.lex.Advance()
}

// indexRegister consumes ", X" or ", Y" and returns 'X' or 'Y'. The register
// is a plain identifier compared by text.
func (p *Parser) indexRegister() (byte, error) {
	if err := p.lex.Match(COMMA); err != nil {
		return 0, err
	}
	tok := p.tok()
	if tok.Type != IDENTIFIER {
		return 0, p.errorf(tok, "expected index register X or Y, found %s", tok.Type)
	}
	var reg byte
	switch {
	case strings.EqualFold(tok.Text, "X"):
		reg = 'X'
	case strings.EqualFold(tok.Text, "Y"):
		reg = 'Y'
	default:
		return 0, p.errorf(tok, "expected index register X or Y, found %q", tok.Text)
	}
	return reg, p.lex.Advance()
}

// argument resolves the addressing mode from the tokens after a mnemonic.
func (p *Parser) argument(inst isa.Instruction) (NodeIndex, error) {
	tok := p.tok()
	var arg isa.Argument

	switch tok.Type {
	case HASH:
		if err := p.lex.Advance(); err != nil {
			return Null, err
		}
		val := p.tok()
		if !val.Type.IsNumber() {
			return Null, p.errorf(val, "expected a literal after '#', found %s", val.Type)
		}
		if val.Value > 0xFF {
			return Null, p.errorf(val, "immediate value $%X does not fit in 8 bits", val.Value)
		}
		if err := p.lex.Advance(); err != nil {
			return Null, err
		}
		arg = isa.Argument{Mode: isa.Immediate, Value: uint16(val.Value)}

	case HEX_LITERAL, INT_LITERAL, BINARY_LITERAL:
		val, err := p.literal()
		if err != nil {
			return Null, err
		}
		arg.Value = uint16(val.Value)
		zeroPage := val.Value < 256
		if zeroPage {
			arg.Mode = isa.ZeroPage
		} else {
			arg.Mode = isa.Absolute
		}
		if p.tok().Type == COMMA {
			reg, err := p.indexRegister()
			if err != nil {
				return Null, err
			}
			switch {
			case zeroPage && reg == 'X':
				arg.Mode = isa.ZeroPageX
			case zeroPage:
				arg.Mode = isa.ZeroPageY
			case reg == 'X':
				arg.Mode = isa.AbsoluteX
			default:
				arg.Mode = isa.AbsoluteY
			}
		}

	case LPAREN:
		if err := p.lex.Advance(); err != nil {
			return Null, err
		}
		val, err := p.literal()
		if err != nil {
			return Null, err
		}
		arg.Value = uint16(val.Value)

		switch p.tok().Type {
		case RPAREN:
			if err := p.lex.Advance(); err != nil {
				return Null, err
			}
			arg.Mode = isa.Indirect
			if p.tok().Type == COMMA {
				reg, err := p.indexRegister()
				if err != nil {
					return Null, err
				}
				if reg != 'Y' {
					return Null, p.errorf(tok, "post-indexed indirect addressing uses Y, not X")
				}
				arg.Mode = isa.IndirectIndexed
			}
		case COMMA:
			reg, err := p.indexRegister()
			if err != nil {
				return Null, err
			}
			if reg != 'X' {
				return Null, p.errorf(tok, "pre-indexed indirect addressing uses X, not Y")
			}
			if err := p.lex.Match(RPAREN); err != nil {
				return Null, err
			}
			arg.Mode = isa.IndexedIndirect
		default:
			return Null, p.errorf(p.tok(), "expected ')' or ',' in indirect operand, found %s", p.tok().Type)
		}
		if arg.Mode != isa.Indirect && arg.Value > 0xFF {
			return Null, p.errorf(val, "indexed indirect operand $%X is not a zero-page address", arg.Value)
		}

	case IDENTIFIER:
		if inst.HasAccumulator() && strings.EqualFold(tok.Text, "A") {
			if err := p.lex.Advance(); err != nil {
				return Null, err
			}
			arg.Mode = isa.Implicit
			break
		}
		id, err := p.ident()
		if err != nil {
			return Null, err
		}
		mode := isa.Absolute
		if inst.IsBranch() {
			mode = isa.Relative
		}
		return p.add(ArgumentNode(isa.Argument{Mode: mode}, id, tok.Pos))

	case NEWLINE, EOF:
		arg.Mode = isa.Implicit

	default:
		return Null, p.errorf(tok, "invalid argument starting token %s", tok.Type)
	}

	return p.add(ArgumentNode(arg, Null, tok.Pos))
}

// Expression parses a standalone arithmetic expression and requires it to
// span the whole input.
func (p *Parser) Expression() (NodeIndex, error) {
	if err := p.lex.Advance(); err != nil {
		return Null, err
	}
	root, err := p.expr()
	if err != nil {
		return Null, err
	}
	for p.tok().Type == NEWLINE {
		if err := p.lex.Advance(); err != nil {
			return Null, err
		}
	}
	if p.tok().Type != EOF {
		return Null, p.errorf(p.tok(), "unexpected %s after expression", p.tok().Type)
	}
	return root, nil
}

func (p *Parser) factor() (NodeIndex, error) {
	tok := p.tok()
	switch {
	case tok.Type == CHAR_LITERAL:
		if err := p.lex.Advance(); err != nil {
			return Null, err
		}
		return p.add(CharNode(tok.Value, tok.Pos))
	case tok.Type.IsNumber():
		if err := p.lex.Advance(); err != nil {
			return Null, err
		}
		return p.add(NumberNode(tok.Value, tok.Pos))
	case tok.Type == LPAREN:
		if err := p.lex.Advance(); err != nil {
			return Null, err
		}
		inner, err := p.expr()
		if err != nil {
			return Null, err
		}
		if err := p.lex.Match(RPAREN); err != nil {
			return Null, err
		}
		return inner, nil
	}
	return Null, p.errorf(tok, "expected a number or '(', found %s", tok.Type)
}

// binary parses operand (op operand)* into a left-leaning BinOp chain.
func (p *Parser) binary(operand func() (NodeIndex, error), ops ...TokenType) (NodeIndex, error) {
	root, err := operand()
	if err != nil {
		return Null, err
	}
	for {
		tok := p.tok()
		matched := false
		for _, op := range ops {
			if tok.Type == op {
				matched = true
				break
			}
		}
		if !matched {
			return root, nil
		}
		if err := p.lex.Advance(); err != nil {
			return Null, err
		}
		right, err := operand()
		if err != nil {
			return Null, err
		}
		root, err = p.add(BinOpNode(binOpFromToken(tok.Type), root, right, tok.Pos))
		if err != nil {
			return Null, err
		}
	}
}

func (p *Parser) term() (NodeIndex, error) { return p.binary(p.factor, MUL, DIV) }

func (p *Parser) expr() (NodeIndex, error) { return p.binary(p.term, ADD, SUB) }

// Evaluate folds the expression tree rooted at idx. Arithmetic wraps at 64
// bits; division by zero is an error.
func Evaluate(a *Arena, idx NodeIndex) (uint64, error) {
	n := a.Node(idx)
	switch n.Kind {
	case NodeNumber, NodeChar:
		return n.Raw(), nil
	case NodeBinOp:
		l, err := Evaluate(a, n.Left)
		if err != nil {
			return 0, err
		}
		r, err := Evaluate(a, n.Right)
		if err != nil {
			return 0, err
		}
		switch n.BinOp() {
		case OpAdd:
			return l + r, nil
		case OpSub:
			return l - r, nil
		case OpMul:
			return l * r, nil
		case OpDiv:
			if r == 0 {
				return 0, diag.Errorf(diag.KindParse, n.Pos, "division by zero")
			}
			return l / r, nil
		}
		return 0, diag.Errorf(diag.KindParse, n.Pos, "unknown operator %d", n.Raw())
	case NodeNull:
		return 0, diag.Errorf(diag.KindParse, diag.Pos{}, "missing operand")
	}
	return 0, diag.Errorf(diag.KindParse, n.Pos, "%s is not an arithmetic node", n.Kind)
}
