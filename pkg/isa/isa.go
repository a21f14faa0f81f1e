// Package isa describes the MOS 6502 instruction set as seen by the
// assembler: instruction variants, addressing modes, the opcode matrix and the
// encoder that turns an (instruction, argument) pair into machine code.
package isa

import (
	"fmt"
	"strings"
)

// Instruction is one of the 56 documented 6502 mnemonics.
type Instruction uint8

const (
	ADC Instruction = iota // add with carry
	AND                    // logical and
	ASL                    // arithmetic shift left
	BCC                    // branch if carry clear
	BCS                    // branch if carry set
	BEQ                    // branch if equal
	BIT                    // bit test
	BMI                    // branch if minus
	BNE                    // branch if not equal
	BPL                    // branch if plus
	BRK                    // break
	BVC                    // branch if overflow clear
	BVS                    // branch if overflow set
	CLC
	CLD
	CLI
	CLV
	CMP
	CPX
	CPY
	DEC
	DEX
	DEY
	EOR
	INC
	INX
	INY
	JMP
	JSR
	LDA
	LDX
	LDY
	LSR
	NOP
	ORA
	PHA
	PHP
	PLA
	PLP
	ROL
	ROR
	RTI
	RTS
	SBC
	SEC
	SED
	SEI
	STA
	STX
	STY
	TAX
	TAY
	TSX
	TXA
	TXS
	TYA

	NumInstructions = int(TYA) + 1
)

var mnemonics = [NumInstructions]string{
	"ADC", "AND", "ASL", "BCC", "BCS", "BEQ", "BIT", "BMI", "BNE", "BPL",
	"BRK", "BVC", "BVS", "CLC", "CLD", "CLI", "CLV", "CMP", "CPX", "CPY",
	"DEC", "DEX", "DEY", "EOR", "INC", "INX", "INY", "JMP", "JSR", "LDA",
	"LDX", "LDY", "LSR", "NOP", "ORA", "PHA", "PHP", "PLA", "PLP", "ROL",
	"ROR", "RTI", "RTS", "SBC", "SEC", "SED", "SEI", "STA", "STX", "STY",
	"TAX", "TAY", "TSX", "TXA", "TXS", "TYA",
}

func (i Instruction) String() string {
	if int(i) < NumInstructions {
		return mnemonics[i]
	}
	return fmt.Sprintf("Instruction(%d)", int(i))
}

// Valid reports whether i names a real instruction.
func (i Instruction) Valid() bool { return int(i) < NumInstructions }

// IsBranch reports whether i only has a Relative form.
func (i Instruction) IsBranch() bool {
	switch i {
	case BCC, BCS, BEQ, BMI, BNE, BPL, BVC, BVS:
		return true
	}
	return false
}

// HasAccumulator reports whether i can operate on the accumulator, written
// either bare ("ASL") or with an explicit "A" operand ("ASL A").
func (i Instruction) HasAccumulator() bool {
	switch i {
	case ASL, LSR, ROL, ROR:
		return true
	}
	return false
}

// LookupMnemonic matches a whole word against the mnemonic set. The match is
// case-insensitive and length-checked: "lda" matches, "ldax" does not.
func LookupMnemonic(word string) (Instruction, bool) {
	if len(word) != 3 {
		return 0, false
	}
	for i, m := range mnemonics {
		if strings.EqualFold(word, m) {
			return Instruction(i), true
		}
	}
	return 0, false
}

// Mode is a 6502 addressing mode. The order is the column order of the
// opcode matrix.
type Mode uint8

const (
	Implicit Mode = iota
	Immediate
	Absolute
	AbsoluteX
	AbsoluteY
	ZeroPage
	ZeroPageX
	ZeroPageY
	Relative
	Indirect
	IndexedIndirect // ($zp,X)
	IndirectIndexed // ($zp),Y

	NumModes = int(IndirectIndexed) + 1
)

var modeNames = [NumModes]string{
	"Implicit", "Immediate", "Absolute", "AbsoluteX", "AbsoluteY",
	"ZeroPage", "ZeroPageX", "ZeroPageY", "Relative", "Indirect",
	"IndexedIndirect", "IndirectIndexed",
}

func (m Mode) String() string {
	if int(m) < NumModes {
		return modeNames[m]
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// OperandWidth is the number of bytes that follow the opcode byte.
func (m Mode) OperandWidth() int {
	switch m {
	case Implicit:
		return 0
	case Absolute, AbsoluteX, AbsoluteY, Indirect:
		return 2
	default:
		return 1
	}
}

// Argument is an addressing mode plus its operand value. It is small enough
// to live inline in an AST node payload.
type Argument struct {
	Mode  Mode
	Value uint16
}

var modeFormat = [NumModes]string{
	"",        // Implicit
	"#$%02X",  // Immediate
	"$%04X",   // Absolute
	"$%04X,X", // AbsoluteX
	"$%04X,Y", // AbsoluteY
	"$%02X",   // ZeroPage
	"$%02X,X", // ZeroPageX
	"$%02X,Y", // ZeroPageY
	"$%02X",   // Relative
	"($%04X)", // Indirect
	"($%02X,X)",
	"($%02X),Y",
}

// String renders the argument in conventional assembler syntax.
func (a Argument) String() string {
	if int(a.Mode) >= NumModes {
		return fmt.Sprintf("?%d:%d", a.Mode, a.Value)
	}
	if a.Mode == Implicit {
		return ""
	}
	return fmt.Sprintf(modeFormat[a.Mode], a.Value)
}
