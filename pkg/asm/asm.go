package asm

import (
	"io"
	"log/slog"
	"strings"

	"asm6502/pkg/diag"
	"asm6502/pkg/isa"
)

// DefaultOrigin is where assembled code is placed unless Options says
// otherwise.
const DefaultOrigin = 0x0600

// Options sizes an Assembler. Zero size fields take the package defaults,
// except a zero ArenaCapacity, which is derived from MaxInput. Origin is used
// as given.
type Options struct {
	Origin          uint16
	MaxInput        int
	MaxString       int
	ArenaCapacity   int
	SymbolTableSize int
	Logger          *slog.Logger
}

// DefaultOptions returns the options used by the package-level Assemble.
func DefaultOptions() Options {
	return Options{
		Origin:          DefaultOrigin,
		MaxInput:        DefaultMaxInput,
		MaxString:       DefaultMaxString,
		ArenaCapacity:   DefaultArenaCapacity,
		SymbolTableSize: DefaultSymbolTableSize,
	}
}

// Assembler owns the node arena and symbol table of one assembly session.
// It is not safe for concurrent use; independent sessions use independent
// Assemblers.
type Assembler struct {
	opts    Options
	arena   *Arena
	symbols *SymbolTable
	root    NodeIndex // statement list of the last Assemble
	log     *slog.Logger
}

// ListingLine is one emitted instruction.
type ListingLine struct {
	Addr   uint16
	Bytes  []byte
	Line   int // 1-based source line
	Source string
}

// Program is the output of Assemble. SourceMap maps the address of every
// emitted instruction to its 1-based source line.
type Program struct {
	Origin    uint16
	Code      []byte
	SourceMap map[uint16]int
	Listing   []ListingLine
}

func NewAssembler(opts Options) *Assembler {
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if opts.MaxInput <= 0 {
		opts.MaxInput = DefaultMaxInput
	}
	if opts.ArenaCapacity <= 0 {
		opts.ArenaCapacity = ArenaCapacityFor(opts.MaxInput)
	}
	return &Assembler{
		opts:    opts,
		arena:   NewArena(opts.ArenaCapacity),
		symbols: NewSymbolTable(opts.SymbolTableSize),
		log:     opts.Logger,
	}
}

// Assemble runs src through a fresh Assembler with DefaultOptions.
func Assemble(src string) (*Program, error) {
	return NewAssembler(DefaultOptions()).Assemble(src)
}

func (a *Assembler) Arena() *Arena { return a.arena }

func (a *Assembler) Symbols() *SymbolTable { return a.symbols }

func (a *Assembler) Origin() uint16 { return a.opts.Origin }

// Root is the statement list built by the last successful Assemble, or Null.
func (a *Assembler) Root() NodeIndex { return a.root }

// Reset drops every node and symbol. Node indices handed out before the
// reset are invalid afterwards.
func (a *Assembler) Reset() {
	a.arena.Reset()
	a.symbols.Reset()
	a.root = Null
}

func (a *Assembler) lexerOptions() LexerOptions {
	return LexerOptions{
		MaxInput:  a.opts.MaxInput,
		MaxString: a.opts.MaxString,
		Logger:    a.log,
	}
}

// Lex tokenises src under the same limits Parse and Assemble apply.
func (a *Assembler) Lex(src string) ([]Token, error) {
	return LexWith(src, a.lexerOptions())
}

func (a *Assembler) newParser(src string) (*Parser, error) {
	lex, err := NewLexer(src, a.lexerOptions())
	if err != nil {
		return nil, err
	}
	return NewParser(lex, a.arena), nil
}

// Parse builds the statement list for src in the arena and returns its
// root. Nodes from earlier parses are kept until Reset.
func (a *Assembler) Parse(src string) (NodeIndex, error) {
	p, err := a.newParser(src)
	if err != nil {
		return Null, err
	}
	return p.Program()
}

// ParseExpression parses src as a single arithmetic expression.
func (a *Assembler) ParseExpression(src string) (NodeIndex, error) {
	p, err := a.newParser(src)
	if err != nil {
		return Null, err
	}
	return p.Expression()
}

// Evaluate folds the expression rooted at idx.
func (a *Assembler) Evaluate(idx NodeIndex) (uint64, error) {
	return Evaluate(a.arena, idx)
}

// Assemble resets the session, parses src and encodes it in one pass from
// the origin. Labels may only be referenced after their definition.
func (a *Assembler) Assemble(src string) (*Program, error) {
	a.Reset()

	root, err := a.Parse(src)
	if err != nil {
		return nil, err
	}

	lines := strings.Split(src, "\n")
	prog := &Program{
		Origin:    a.opts.Origin,
		SourceMap: make(map[uint16]int),
	}
	pc := uint32(a.opts.Origin)

	for _, idx := range a.arena.Statements(root) {
		n := a.arena.Node(idx)
		switch n.Kind {
		case NodeEmpty:
		case NodePragma:
			a.log.Debug("directive ignored", "name", n.Text(), "pos", n.Pos.String())
		case NodeLabel:
			if err := a.bindLabel(n, pc); err != nil {
				return nil, err
			}
		case NodeInstruction:
			bytes, err := a.encode(n, pc)
			if err != nil {
				return nil, err
			}
			if pc+uint32(len(bytes)) > 0x10000 {
				return nil, diag.Errorf(diag.KindEncode, n.Pos, "program runs past $FFFF")
			}
			addr := uint16(pc)
			prog.Code = append(prog.Code, bytes...)
			prog.SourceMap[addr] = n.Pos.Line
			prog.Listing = append(prog.Listing, ListingLine{
				Addr:   addr,
				Bytes:  bytes,
				Line:   n.Pos.Line,
				Source: sourceLine(lines, n.Pos.Line),
			})
			pc += uint32(len(bytes))
		default:
			return nil, diag.Errorf(diag.KindParse, n.Pos, "unexpected %s node in statement list", n.Kind)
		}
	}

	a.root = root
	a.log.Debug("assembled", "bytes", len(prog.Code), "symbols", a.symbols.Len(), "nodes", a.arena.Len())
	return prog, nil
}

func (a *Assembler) bindLabel(n Node, pc uint32) error {
	name := a.arena.Node(n.Left).Text()
	if pc > 0xFFFF {
		return diag.Errorf(diag.KindSymbol, n.Pos, "label %q points past $FFFF", name)
	}
	if _, ok := a.symbols.Lookup(name); ok {
		return diag.Errorf(diag.KindSymbol, n.Pos, "duplicate label %q", name)
	}
	slot, evicted, had := a.symbols.Insert(Symbol{Type: SymLabel, Name: name, Value: uint64(pc)})
	if had {
		a.log.Warn("symbol slot collision, earlier label evicted",
			"slot", slot, "label", name, "evicted", evicted.Name, "pos", n.Pos.String())
	}
	return nil
}

// encode resolves the operand of an instruction node at address pc and
// returns its bytes.
func (a *Assembler) encode(n Node, pc uint32) ([]byte, error) {
	inst := n.Instruction()
	argNode := a.arena.Node(n.Left)
	arg := argNode.Argument()

	if argNode.Left != Null {
		name := a.arena.Node(argNode.Left).Text()
		sym, ok := a.symbols.Lookup(name)
		if !ok {
			return nil, diag.Errorf(diag.KindSymbol, argNode.Pos, "undefined label %q (labels must be defined before use)", name)
		}
		arg.Value = uint16(sym.Value)
	}

	if inst.IsBranch() {
		switch arg.Mode {
		case isa.Relative, isa.ZeroPage, isa.Absolute:
			offset := int(arg.Value) - int(pc+2)
			if offset < -128 || offset > 127 {
				return nil, diag.Errorf(diag.KindEncode, argNode.Pos, "branch target $%04X out of range (offset %d)", arg.Value, offset)
			}
			arg = isa.Argument{Mode: isa.Relative, Value: uint16(uint8(int8(offset)))}
		}
	} else {
		arg = isa.Promote(inst, arg)
	}

	buf, length, err := isa.Encode(arg, inst)
	if err != nil {
		return nil, diag.At(err, n.Pos)
	}
	out := make([]byte, length)
	copy(out, buf[:length])
	return out, nil
}

func sourceLine(lines []string, line int) string {
	if line < 1 || line > len(lines) {
		return ""
	}
	return strings.TrimRight(lines[line-1], "\r")
}
