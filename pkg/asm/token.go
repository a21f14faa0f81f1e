package asm

import (
	"fmt"

	"asm6502/pkg/diag"
	"asm6502/pkg/isa"
)

// TokenType identifies the category of a lexed token.
type TokenType int

const (
	EOF TokenType = iota // sentinel: end of input

	// Literals
	BINARY_LITERAL // 0b0101
	HEX_LITERAL    // 0xff or $ff
	INT_LITERAL    // 1234
	CHAR_LITERAL   // 'a'
	STRING_LITERAL // "text"
	IDENTIFIER     // label or register name

	// Operators
	ADD // +
	SUB // -
	MUL // *
	DIV // /

	// Paired delimiters
	LPAREN // (
	RPAREN // )
	LBRACE // {
	RBRACE // }

	// Punctuation
	DOT          // .
	DOLLAR       // $ not followed by a hex digit
	HASH         // #
	COMMA        // ,
	COLON        // :
	NEWLINE      // \n, significant
	ASSIGN       // =
	EQUALS       // ==
	SINGLE_QUOTE // ' not forming a char literal

	// Keywords. Reserved, never consumed by the parser.
	KW_AUTO
	KW_BREAK
	KW_CASE
	KW_CHAR
	KW_CONST
	KW_CONTINUE
	KW_DEFAULT
	KW_DO
	KW_DOUBLE
	KW_ELSE
	KW_ENUM
	KW_EXTERN
	KW_FLOAT
	KW_FOR
	KW_GOTO
	KW_IF
	KW_INT
	KW_LONG
	KW_REGISTER
	KW_RETURN
	KW_SHORT
	KW_SIGNED
	KW_SIZEOF
	KW_STATIC
	KW_STRUCT
	KW_SWITCH
	KW_TYPEDEF
	KW_UNION
	KW_UNSIGNED
	KW_VOID
	KW_VOLATILE
	KW_WHILE

	// firstInstruction is followed by one token type per isa.Instruction,
	// in isa order.
	firstInstruction
)

const (
	firstKeyword = KW_AUTO
	lastKeyword  = KW_WHILE
)

var tokenNames = [...]string{
	EOF:            "EOF",
	BINARY_LITERAL: "BINARY_LITERAL",
	HEX_LITERAL:    "HEX_LITERAL",
	INT_LITERAL:    "INT_LITERAL",
	CHAR_LITERAL:   "CHAR_LITERAL",
	STRING_LITERAL: "STRING_LITERAL",
	IDENTIFIER:     "IDENTIFIER",
	ADD:            "ADD",
	SUB:            "SUB",
	MUL:            "MUL",
	DIV:            "DIV",
	LPAREN:         "LPAREN",
	RPAREN:         "RPAREN",
	LBRACE:         "LBRACE",
	RBRACE:         "RBRACE",
	DOT:            "DOT",
	DOLLAR:         "DOLLAR",
	HASH:           "HASH",
	COMMA:          "COMMA",
	COLON:          "COLON",
	NEWLINE:        "NEWLINE",
	ASSIGN:         "ASSIGN",
	EQUALS:         "EQUALS",
	SINGLE_QUOTE:   "SINGLE_QUOTE",
	KW_AUTO:        "KW_AUTO",
	KW_BREAK:       "KW_BREAK",
	KW_CASE:        "KW_CASE",
	KW_CHAR:        "KW_CHAR",
	KW_CONST:       "KW_CONST",
	KW_CONTINUE:    "KW_CONTINUE",
	KW_DEFAULT:     "KW_DEFAULT",
	KW_DO:          "KW_DO",
	KW_DOUBLE:      "KW_DOUBLE",
	KW_ELSE:        "KW_ELSE",
	KW_ENUM:        "KW_ENUM",
	KW_EXTERN:      "KW_EXTERN",
	KW_FLOAT:       "KW_FLOAT",
	KW_FOR:         "KW_FOR",
	KW_GOTO:        "KW_GOTO",
	KW_IF:          "KW_IF",
	KW_INT:         "KW_INT",
	KW_LONG:        "KW_LONG",
	KW_REGISTER:    "KW_REGISTER",
	KW_RETURN:      "KW_RETURN",
	KW_SHORT:       "KW_SHORT",
	KW_SIGNED:      "KW_SIGNED",
	KW_SIZEOF:      "KW_SIZEOF",
	KW_STATIC:      "KW_STATIC",
	KW_STRUCT:      "KW_STRUCT",
	KW_SWITCH:      "KW_SWITCH",
	KW_TYPEDEF:     "KW_TYPEDEF",
	KW_UNION:       "KW_UNION",
	KW_UNSIGNED:    "KW_UNSIGNED",
	KW_VOID:        "KW_VOID",
	KW_VOLATILE:    "KW_VOLATILE",
	KW_WHILE:       "KW_WHILE",
}

// keywords maps source text to its keyword TokenType.
var keywords = map[string]TokenType{}

func init() {
	for tt := firstKeyword; tt <= lastKeyword; tt++ {
		// "KW_WHILE" -> "while"
		name := tokenNames[tt][3:]
		lower := make([]byte, len(name))
		for i := 0; i < len(name); i++ {
			lower[i] = name[i] + ('a' - 'A')
		}
		keywords[string(lower)] = tt
	}
}

// InstructionToken returns the token type the lexer produces for inst.
func InstructionToken(inst isa.Instruction) TokenType {
	return firstInstruction + TokenType(inst)
}

// IsInstruction reports whether tt is a mnemonic token.
func (tt TokenType) IsInstruction() bool {
	return tt >= firstInstruction && int(tt-firstInstruction) < isa.NumInstructions
}

// Instruction returns the instruction variant of a mnemonic token.
func (tt TokenType) Instruction() isa.Instruction {
	return isa.Instruction(tt - firstInstruction)
}

// IsKeyword reports whether tt is a reserved keyword.
func (tt TokenType) IsKeyword() bool {
	return tt >= firstKeyword && tt <= lastKeyword
}

// IsNumber reports whether tt carries an integer Value.
func (tt TokenType) IsNumber() bool {
	switch tt {
	case BINARY_LITERAL, HEX_LITERAL, INT_LITERAL, CHAR_LITERAL:
		return true
	}
	return false
}

func (tt TokenType) String() string {
	if tt.IsInstruction() {
		return tt.Instruction().String()
	}
	if int(tt) >= 0 && int(tt) < len(tokenNames) {
		return tokenNames[tt]
	}
	return fmt.Sprintf("TokenType(%d)", int(tt))
}

// Token is a single lexical unit produced by the Lexer. Numeric and char
// literals carry Value; identifiers and string literals own Text.
type Token struct {
	Type  TokenType
	Value uint64
	Text  string
	Pos   diag.Pos
}

func (t Token) String() string {
	switch {
	case t.Type == IDENTIFIER || t.Type == STRING_LITERAL:
		return fmt.Sprintf("%-14s %-14q  %s", t.Type, t.Text, t.Pos)
	case t.Type.IsNumber():
		return fmt.Sprintf("%-14s %-14d  %s", t.Type, t.Value, t.Pos)
	default:
		return fmt.Sprintf("%-14s %-14s  %s", t.Type, "", t.Pos)
	}
}
