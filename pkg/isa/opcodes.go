package isa

// opcodes maps [instruction][mode] to the opcode byte. 0x00 marks an illegal
// combination, except where the legality table below says otherwise.
//
//	Imp   Imm   Abs   AbsX  AbsY  ZP    ZPX   ZPY   Rel   Ind   (zp,X) (zp),Y
var opcodes = [NumInstructions][NumModes]byte{
	ADC: {0x00, 0x69, 0x6D, 0x7D, 0x79, 0x65, 0x75, 0x00, 0x00, 0x00, 0x61, 0x71},
	AND: {0x00, 0x29, 0x2D, 0x3D, 0x39, 0x25, 0x35, 0x00, 0x00, 0x00, 0x21, 0x31},
	ASL: {0x0A, 0x00, 0x0E, 0x1E, 0x00, 0x06, 0x16, 0x00, 0x00, 0x00, 0x00, 0x00},
	BCC: {0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x90, 0x00, 0x00, 0x00},
	BCS: {0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0xB0, 0x00, 0x00, 0x00},
	BEQ: {0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0xF0, 0x00, 0x00, 0x00},
	BIT: {0x00, 0x00, 0x2C, 0x00, 0x00, 0x24, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00},
	BMI: {0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x30, 0x00, 0x00, 0x00},
	BNE: {0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0xD0, 0x00, 0x00, 0x00},
	BPL: {0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x10, 0x00, 0x00, 0x00},
	BRK: {0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00},
	BVC: {0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x50, 0x00, 0x00, 0x00},
	BVS: {0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x70, 0x00, 0x00, 0x00},
	CLC: {0x18, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00},
	CLD: {0xD8, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00},
	CLI: {0x58, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00},
	CLV: {0xB8, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00},
	CMP: {0x00, 0xC9, 0xCD, 0xDD, 0xD9, 0xC5, 0xD5, 0x00, 0x00, 0x00, 0xC1, 0xD1},
	CPX: {0x00, 0xE0, 0xEC, 0x00, 0x00, 0xE4, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00},
	CPY: {0x00, 0xC0, 0xCC, 0x00, 0x00, 0xC4, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00},
	DEC: {0x00, 0x00, 0xCE, 0xDE, 0x00, 0xC6, 0xD6, 0x00, 0x00, 0x00, 0x00, 0x00},
	DEX: {0xCA, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00},
	DEY: {0x88, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00},
	EOR: {0x00, 0x49, 0x4D, 0x5D, 0x59, 0x45, 0x55, 0x00, 0x00, 0x00, 0x41, 0x51},
	INC: {0x00, 0x00, 0xEE, 0xFE, 0x00, 0xE6, 0xF6, 0x00, 0x00, 0x00, 0x00, 0x00},
	INX: {0xE8, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00},
	INY: {0xC8, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00},
	JMP: {0x00, 0x00, 0x4C, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x6C, 0x00, 0x00},
	JSR: {0x00, 0x00, 0x20, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00},
	LDA: {0x00, 0xA9, 0xAD, 0xBD, 0xB9, 0xA5, 0xB5, 0x00, 0x00, 0x00, 0xA1, 0xB1},
	LDX: {0x00, 0xA2, 0xAE, 0x00, 0xBE, 0xA6, 0x00, 0xB6, 0x00, 0x00, 0x00, 0x00},
	LDY: {0x00, 0xA0, 0xAC, 0xBC, 0x00, 0xA4, 0xB4, 0x00, 0x00, 0x00, 0x00, 0x00},
	LSR: {0x4A, 0x00, 0x4E, 0x5E, 0x00, 0x46, 0x56, 0x00, 0x00, 0x00, 0x00, 0x00},
	NOP: {0xEA, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00},
	ORA: {0x00, 0x09, 0x0D, 0x1D, 0x19, 0x05, 0x15, 0x00, 0x00, 0x00, 0x01, 0x11},
	PHA: {0x48, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00},
	PHP: {0x08, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00},
	PLA: {0x68, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00},
	PLP: {0x28, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00},
	ROL: {0x2A, 0x00, 0x2E, 0x3E, 0x00, 0x26, 0x36, 0x00, 0x00, 0x00, 0x00, 0x00},
	ROR: {0x6A, 0x00, 0x6E, 0x7E, 0x00, 0x66, 0x76, 0x00, 0x00, 0x00, 0x00, 0x00},
	RTI: {0x40, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00},
	RTS: {0x60, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00},
	SBC: {0x00, 0xE9, 0xED, 0xFD, 0xF9, 0xE5, 0xF5, 0x00, 0x00, 0x00, 0xE1, 0xF1},
	SEC: {0x38, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00},
	SED: {0xF8, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00},
	SEI: {0x78, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00},
	STA: {0x00, 0x00, 0x8D, 0x9D, 0x99, 0x85, 0x95, 0x00, 0x00, 0x00, 0x81, 0x91},
	STX: {0x00, 0x00, 0x8E, 0x00, 0x00, 0x86, 0x00, 0x96, 0x00, 0x00, 0x00, 0x00},
	STY: {0x00, 0x00, 0x8C, 0x00, 0x00, 0x84, 0x94, 0x00, 0x00, 0x00, 0x00, 0x00},
	TAX: {0xAA, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00},
	TAY: {0xA8, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00},
	TSX: {0xBA, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00},
	TXA: {0x8A, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00},
	TXS: {0x9A, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00},
	TYA: {0x98, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00},
}

// zeroOpcodes lists the pairs whose real encoding is 0x00.
var zeroOpcodes = map[Instruction]Mode{
	BRK: Implicit,
}

// legal is a bitmask per instruction, bit m set when mode m is encodable.
var legal [NumInstructions]uint16

func init() {
	for inst := range opcodes {
		for mode, op := range opcodes[inst] {
			if op != 0x00 {
				legal[inst] |= 1 << mode
			}
		}
	}
	for inst, mode := range zeroOpcodes {
		legal[inst] |= 1 << mode
	}
}

// Legal reports whether inst has an encoding in mode.
func Legal(inst Instruction, mode Mode) bool {
	if !inst.Valid() || int(mode) >= NumModes {
		return false
	}
	return legal[inst]&(1<<mode) != 0
}

// Opcode returns the base opcode byte for the pair and whether it is legal.
func Opcode(inst Instruction, mode Mode) (byte, bool) {
	if !Legal(inst, mode) {
		return 0, false
	}
	return opcodes[inst][mode], true
}

// Modes lists the legal modes of inst in column order.
func Modes(inst Instruction) []Mode {
	var out []Mode
	for m := 0; m < NumModes; m++ {
		if Legal(inst, Mode(m)) {
			out = append(out, Mode(m))
		}
	}
	return out
}
