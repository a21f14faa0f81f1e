// Package session keeps a growing program that is reassembled from scratch
// after every submitted line. A line that fails is dropped and the program
// stays as it was.
package session

import (
	"fmt"
	"log/slog"
	"strings"

	"asm6502/internal/logging"
	"asm6502/pkg/asm"
)

// Result is what one submitted line produced.
type Result struct {
	Line    string
	Program *asm.Program
	// Emitted holds the listing lines the submitted line added.
	Emitted []asm.ListingLine
}

type Session struct {
	asm     *asm.Assembler
	calc    *asm.Assembler // scratch arena for Eval
	log     *slog.Logger
	lines   []string
	program *asm.Program
}

func New(opts asm.Options) *Session {
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	a := asm.NewAssembler(opts)
	s := &Session{asm: a, calc: asm.NewAssembler(opts), log: opts.Logger}
	s.program = &asm.Program{Origin: a.Origin(), SourceMap: map[uint16]int{}}
	return s
}

// Submit appends line to the program and reassembles it. On error the line
// is discarded and the previous program is kept.
func (s *Session) Submit(line string) (*Result, error) {
	line = strings.TrimRight(line, "\r\n")
	candidate := append(append([]string(nil), s.lines...), line)

	prog, err := s.asm.Assemble(strings.Join(candidate, "\n"))
	if err != nil {
		s.log.Debug("line rejected", "line", len(candidate), "err", err)
		// Leave the assembler's symbols in step with the accepted program.
		if _, rerr := s.asm.Assemble(s.Source()); rerr != nil {
			return nil, fmt.Errorf("restoring session: %w", rerr)
		}
		return nil, fmt.Errorf("line %d: %w", len(candidate), err)
	}

	lineNo := len(candidate)
	var emitted []asm.ListingLine
	for _, l := range prog.Listing {
		if l.Line == lineNo {
			emitted = append(emitted, l)
		}
	}

	s.lines = candidate
	s.program = prog
	return &Result{Line: line, Program: prog, Emitted: emitted}, nil
}

// Eval parses and folds a standalone expression. It does not touch the
// program.
func (s *Session) Eval(expr string) (uint64, error) {
	s.calc.Reset()
	idx, err := s.calc.ParseExpression(expr)
	if err != nil {
		return 0, err
	}
	return s.calc.Evaluate(idx)
}

// Source returns the accepted lines joined by newlines.
func (s *Session) Source() string { return strings.Join(s.lines, "\n") }

func (s *Session) Lines() []string { return append([]string(nil), s.lines...) }

func (s *Session) Program() *asm.Program { return s.program }

// Symbols returns the symbol table dump for the accepted program.
func (s *Session) Symbols() string { return s.asm.Symbols().String() }

// AST returns the tree dump for the accepted program.
func (s *Session) AST() string {
	if len(s.lines) == 0 {
		return ""
	}
	return asm.ASTString(s.asm.Arena(), s.asm.Root())
}

// Clear drops every accepted line.
func (s *Session) Clear() {
	s.lines = nil
	s.asm.Reset()
	s.program = &asm.Program{Origin: s.asm.Origin(), SourceMap: map[uint16]int{}}
}
