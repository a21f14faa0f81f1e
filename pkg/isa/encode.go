package isa

import (
	"strings"

	"asm6502/pkg/diag"
)

// MaxOpcodeLen is the longest 6502 instruction: opcode plus a 16-bit operand.
const MaxOpcodeLen = 3

// Encode returns the machine code for inst with arg, little-endian, and the
// number of bytes used. It touches nothing but its arguments.
func Encode(arg Argument, inst Instruction) ([MaxOpcodeLen]byte, int, error) {
	var out [MaxOpcodeLen]byte

	if !inst.Valid() {
		return out, 0, diag.Errorf(diag.KindEncode, diag.Pos{}, "invalid instruction %d", int(inst))
	}
	op, ok := Opcode(inst, arg.Mode)
	if !ok {
		return out, 0, diag.Errorf(diag.KindEncode, diag.Pos{},
			"%s does not support %s addressing (supports %s)", inst, arg.Mode, modeList(Modes(inst)))
	}

	out[0] = op
	switch arg.Mode.OperandWidth() {
	case 0:
		return out, 1, nil
	case 1:
		out[1] = byte(arg.Value & 0xFF)
		return out, 2, nil
	default:
		out[1] = byte(arg.Value & 0xFF)
		out[2] = byte(arg.Value >> 8)
		return out, 3, nil
	}
}

// Promote widens a zero-page form to its absolute counterpart when inst has
// no zero-page encoding for it, e.g. "JMP $10" or "LDA $10,Y". Any other
// argument is returned unchanged.
func Promote(inst Instruction, arg Argument) Argument {
	if Legal(inst, arg.Mode) {
		return arg
	}
	var wide Mode
	switch arg.Mode {
	case ZeroPage:
		wide = Absolute
	case ZeroPageX:
		wide = AbsoluteX
	case ZeroPageY:
		wide = AbsoluteY
	default:
		return arg
	}
	if Legal(inst, wide) {
		arg.Mode = wide
	}
	return arg
}

func modeList(modes []Mode) string {
	names := make([]string, len(modes))
	for i, m := range modes {
		names[i] = m.String()
	}
	return strings.Join(names, ", ")
}
