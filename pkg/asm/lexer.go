package asm

import (
	"io"
	"log/slog"

	"asm6502/pkg/diag"
	"asm6502/pkg/isa"
)

const (
	// DefaultMaxInput bounds the source buffer a single parse accepts.
	DefaultMaxInput = 4096
	// DefaultMaxString bounds the owned text of a string literal. Longer
	// literals are consumed in full but truncated to this many bytes.
	DefaultMaxString = 256
)

// Lexer holds all mutable state for a single scanning pass over src. It is
// a one-token lookahead stream: Current is valid after each Advance.
type Lexer struct {
	src       []byte
	pos       int // index of the current character
	line, col int // position of the current character
	maxString int
	tok       Token
	log       *slog.Logger
}

// LexerOptions bound the lexer's buffers. Zero fields take the defaults.
type LexerOptions struct {
	MaxInput  int
	MaxString int
	Logger    *slog.Logger
}

// NewLexer prepares src for scanning. Call Advance to load the first token.
func NewLexer(src string, opts LexerOptions) (*Lexer, error) {
	if opts.MaxInput <= 0 {
		opts.MaxInput = DefaultMaxInput
	}
	if opts.MaxString <= 0 {
		opts.MaxString = DefaultMaxString
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if len(src) > opts.MaxInput {
		return nil, diag.Errorf(diag.KindLex, diag.Pos{}, "input is %d bytes, limit is %d", len(src), opts.MaxInput)
	}
	return &Lexer{
		src:       []byte(src),
		line:      1,
		col:       1,
		maxString: opts.MaxString,
		log:       opts.Logger,
	}, nil
}

// Current returns the token most recently produced by Advance.
func (l *Lexer) Current() Token { return l.tok }

func (l *Lexer) atEnd() bool { return l.pos >= len(l.src) }

// peek returns the character n places past the cursor, or 0 past the end.
func (l *Lexer) peek(n int) byte {
	if l.pos+n >= len(l.src) {
		return 0
	}
	return l.src[l.pos+n]
}

func (l *Lexer) here() diag.Pos {
	return diag.Pos{Line: l.line, Col: l.col, Offset: l.pos}
}

// bump moves the cursor one character forward.
func (l *Lexer) bump() {
	if l.atEnd() {
		return
	}
	if l.src[l.pos] == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	l.pos++
}

// skipBlanks discards spaces, tabs, carriage returns and ';' comments. The
// newline ending a comment is left in place: it is a token.
func (l *Lexer) skipBlanks() {
	for !l.atEnd() {
		switch l.peek(0) {
		case ' ', '\t', '\r':
			l.bump()
		case ';':
			for !l.atEnd() && l.peek(0) != '\n' {
				l.bump()
			}
		default:
			return
		}
	}
}

// Advance consumes exactly one lexeme and makes it the current token.
func (l *Lexer) Advance() error {
	l.skipBlanks()
	tok, err := l.scan()
	if err != nil {
		return err
	}
	l.tok = tok
	return nil
}

// Match consumes the current token if it has type tt.
func (l *Lexer) Match(tt TokenType) error {
	if l.tok.Type != tt {
		return diag.Errorf(diag.KindParse, l.tok.Pos, "expected %s, found %s", tt, l.tok.Type)
	}
	return l.Advance()
}

func (l *Lexer) scan() (Token, error) {
	start := l.here()
	if l.atEnd() {
		return Token{Type: EOF, Pos: start}, nil
	}

	ch := l.peek(0)
	switch {
	case ch == '\'' && isAlnum(l.peek(1)) && l.peek(2) == '\'':
		val := l.peek(1)
		l.bump()
		l.bump()
		l.bump()
		return Token{Type: CHAR_LITERAL, Value: uint64(val), Pos: start}, nil

	case ch == '"':
		return l.scanString(start)

	case ch == '0' && (l.peek(1) == 'b' || l.peek(1) == 'B') && isBinary(l.peek(2)):
		l.bump()
		l.bump()
		return l.scanNumber(start, BINARY_LITERAL, isBinary, BinaryToInt)

	case ch == '0' && (l.peek(1) == 'x' || l.peek(1) == 'X') && isHex(l.peek(2)):
		l.bump()
		l.bump()
		return l.scanNumber(start, HEX_LITERAL, isHex, HexToInt)

	case ch == '$' && isHex(l.peek(1)):
		l.bump()
		return l.scanNumber(start, HEX_LITERAL, isHex, HexToInt)

	case isDigit(ch):
		return l.scanNumber(start, INT_LITERAL, isDigit, DecimalToInt)

	case isIdentStart(ch):
		return l.scanWord(start), nil
	}

	l.bump()
	switch ch {
	case '+':
		return Token{Type: ADD, Pos: start}, nil
	case '-':
		return Token{Type: SUB, Pos: start}, nil
	case '*':
		return Token{Type: MUL, Pos: start}, nil
	case '/':
		return Token{Type: DIV, Pos: start}, nil
	case '(':
		return Token{Type: LPAREN, Pos: start}, nil
	case ')':
		return Token{Type: RPAREN, Pos: start}, nil
	case '{':
		return Token{Type: LBRACE, Pos: start}, nil
	case '}':
		return Token{Type: RBRACE, Pos: start}, nil
	case '.':
		return Token{Type: DOT, Pos: start}, nil
	case '$':
		return Token{Type: DOLLAR, Pos: start}, nil
	case '#':
		return Token{Type: HASH, Pos: start}, nil
	case ',':
		return Token{Type: COMMA, Pos: start}, nil
	case ':':
		return Token{Type: COLON, Pos: start}, nil
	case '\n':
		return Token{Type: NEWLINE, Pos: start}, nil
	case '\'':
		return Token{Type: SINGLE_QUOTE, Pos: start}, nil
	case '=':
		if l.peek(0) == '=' {
			l.bump()
			return Token{Type: EQUALS, Pos: start}, nil
		}
		return Token{Type: ASSIGN, Pos: start}, nil
	default:
		return Token{}, diag.Errorf(diag.KindLex, start, "unexpected character %q", ch)
	}
}

// scanNumber collects a digit run (prefix already consumed) and converts it.
func (l *Lexer) scanNumber(start diag.Pos, tt TokenType, accept func(byte) bool, convert func(string) (uint64, error)) (Token, error) {
	from := l.pos
	for !l.atEnd() && accept(l.peek(0)) {
		l.bump()
	}
	v, err := convert(string(l.src[from:l.pos]))
	if err != nil {
		return Token{}, diag.At(err, start)
	}
	return Token{Type: tt, Value: v, Pos: start}, nil
}

// scanString collects a string literal. Characters past maxString are
// consumed and dropped.
func (l *Lexer) scanString(start diag.Pos) (Token, error) {
	l.bump() // opening "
	buf := make([]byte, 0, 16)
	dropped := 0
	for {
		if l.atEnd() || l.peek(0) == '\n' {
			return Token{}, diag.Errorf(diag.KindLex, start, "unterminated string literal")
		}
		ch := l.peek(0)
		l.bump()
		if ch == '"' {
			break
		}
		if len(buf) < l.maxString {
			buf = append(buf, ch)
		} else {
			dropped++
		}
	}
	if dropped > 0 {
		l.log.Debug("string literal truncated", "pos", start.String(), "kept", len(buf), "dropped", dropped)
	}
	return Token{Type: STRING_LITERAL, Text: string(buf), Pos: start}, nil
}

// scanWord collects an alphanumeric run and classifies it as a mnemonic,
// keyword or identifier. Mnemonics must match over their whole length.
func (l *Lexer) scanWord(start diag.Pos) Token {
	from := l.pos
	for !l.atEnd() && isIdentChar(l.peek(0)) {
		l.bump()
	}
	word := string(l.src[from:l.pos])

	if inst, ok := isa.LookupMnemonic(word); ok {
		return Token{Type: InstructionToken(inst), Pos: start}
	}
	if kw, ok := keywords[word]; ok {
		return Token{Type: kw, Pos: start}
	}
	return Token{Type: IDENTIFIER, Text: word, Pos: start}
}

// Lex tokenises src with the default limits and returns all tokens
// including the final EOF token.
func Lex(src string) ([]Token, error) {
	return LexWith(src, LexerOptions{})
}

// LexWith is Lex with explicit limits.
func LexWith(src string, opts LexerOptions) ([]Token, error) {
	l, err := NewLexer(src, opts)
	if err != nil {
		return nil, err
	}
	var tokens []Token
	for {
		if err := l.Advance(); err != nil {
			return tokens, err
		}
		tokens = append(tokens, l.Current())
		if l.Current().Type == EOF {
			return tokens, nil
		}
	}
}

func isDigit(ch byte) bool  { return ch >= '0' && ch <= '9' }
func isBinary(ch byte) bool { return ch == '0' || ch == '1' }
func isHex(ch byte) bool {
	_, ok := hexDigit(ch)
	return ok
}
func isAlpha(ch byte) bool      { return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') }
func isAlnum(ch byte) bool      { return isAlpha(ch) || isDigit(ch) }
func isIdentStart(ch byte) bool { return isAlpha(ch) || ch == '_' }
func isIdentChar(ch byte) bool  { return isAlnum(ch) || ch == '_' }
