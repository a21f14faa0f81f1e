// Package diag defines the structured error returned at every boundary of the
// assembler pipeline. A caller that owns a read loop inspects the Kind and
// position and decides whether to drop one line or give up entirely.
package diag

import (
	"errors"
	"fmt"
)

// Kind classifies which stage of the pipeline rejected the input.
type Kind int

const (
	KindUnknown Kind = iota
	KindLex
	KindParse
	KindArena
	KindSymbol
	KindEncode
	KindConfig
)

var kindNames = [...]string{
	KindUnknown: "unknown",
	KindLex:     "lex",
	KindParse:   "parse",
	KindArena:   "arena",
	KindSymbol:  "symbol",
	KindEncode:  "encode",
	KindConfig:  "config",
}

func (k Kind) String() string {
	if int(k) >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Pos is a 1-based line/column location in the source buffer.
// The zero Pos means "no location", e.g. for errors raised by the encoder.
type Pos struct {
	Line   int
	Col    int
	Offset int
}

func (p Pos) IsValid() bool { return p.Line > 0 }

func (p Pos) String() string {
	if !p.IsValid() {
		return "-"
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Col)
}

// Error is a kind + position + message triple.
type Error struct {
	Kind Kind
	Pos  Pos
	Msg  string
}

func (e *Error) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s: %s error: %s", e.Pos, e.Kind, e.Msg)
	}
	return fmt.Sprintf("%s error: %s", e.Kind, e.Msg)
}

// Errorf builds an *Error with a formatted message.
func Errorf(kind Kind, pos Pos, format string, args ...any) *Error {
	return &Error{Kind: kind, Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

// At returns err with its position filled in when it is a position-less
// *Error. Any other error is returned unchanged.
func At(err error, pos Pos) error {
	var de *Error
	if errors.As(err, &de) && !de.Pos.IsValid() {
		cp := *de
		cp.Pos = pos
		return &cp
	}
	return err
}

// KindOf reports the Kind carried by err, looking through wrapping.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindUnknown
}

// PosOf reports the position carried by err, or the zero Pos.
func PosOf(err error) Pos {
	var de *Error
	if errors.As(err, &de) {
		return de.Pos
	}
	return Pos{}
}
