package asm

import (
	"reflect"
	"strings"
	"testing"

	"asm6502/pkg/diag"
)

func TestAssembleEncodings(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []byte
	}{
		{"immediate", "LDA #$05", []byte{0xA9, 0x05}},
		{"absolute", "LDA $0200", []byte{0xAD, 0x00, 0x02}},
		{"zero page x", "LDA $05,X", []byte{0xB5, 0x05}},
		{"zero page", "STA $10", []byte{0x85, 0x10}},
		{"absolute y", "STA $0200,Y", []byte{0x99, 0x00, 0x02}},
		{"zero page y", "LDX $10,Y", []byte{0xB6, 0x10}},
		{"indirect", "JMP ($1234)", []byte{0x6C, 0x34, 0x12}},
		{"indexed indirect", "LDA ($20,X)", []byte{0xA1, 0x20}},
		{"indirect indexed", "LDA ($20),Y", []byte{0xB1, 0x20}},
		{"implicit", "INX", []byte{0xE8}},
		{"brk", "BRK", []byte{0x00}},
		{"accumulator shift", "ASL", []byte{0x0A}},
		{"explicit accumulator", "LSR A\nrol a", []byte{0x4A, 0x2A}},
		{"lowercase", "lda #$ff", []byte{0xA9, 0xFF}},
		{"binary immediate", "LDA #0b1010", []byte{0xA9, 0x0A}},
		{"decimal immediate", "LDA #10", []byte{0xA9, 0x0A}},
		{"char immediate", "LDA #'a'", []byte{0xA9, 0x61}},
		{"promoted jmp", "JMP $10", []byte{0x4C, 0x10, 0x00}},
		{"promoted zero page y", "LDA $10,Y", []byte{0xB9, 0x10, 0x00}},
		{"comment", "NOP ; does nothing", []byte{0xEA}},
		{"empty", "", nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			prog, err := Assemble(tc.src)
			if err != nil {
				t.Fatalf("Assemble(%q) error: %v", tc.src, err)
			}
			if !reflect.DeepEqual(prog.Code, tc.want) {
				t.Errorf("Assemble(%q) = % X; want % X", tc.src, prog.Code, tc.want)
			}
		})
	}
}

func TestAssembleLabels(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []byte
	}{
		{
			name: "backward branch",
			src:  "LDX #$08\nloop:\nDEX\nBNE loop\nBRK\n",
			want: []byte{0xA2, 0x08, 0xCA, 0xD0, 0xFD, 0x00},
		},
		{
			name: "branch to itself",
			src:  "here:\nBEQ here",
			want: []byte{0xF0, 0xFE},
		},
		{
			name: "absolute jump",
			src:  "start:\nNOP\nJMP start",
			want: []byte{0xEA, 0x4C, 0x00, 0x06},
		},
		{
			name: "subroutine",
			src:  "sub:\nRTS\nJSR sub",
			want: []byte{0x60, 0x20, 0x00, 0x06},
		},
		{
			name: "branch to literal address",
			src:  "NOP\nBNE $0600",
			want: []byte{0xEA, 0xD0, 0xFD},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			prog, err := Assemble(tc.src)
			if err != nil {
				t.Fatalf("Assemble error: %v", err)
			}
			if !reflect.DeepEqual(prog.Code, tc.want) {
				t.Errorf("code = % X; want % X", prog.Code, tc.want)
			}
		})
	}
}

func TestAssembleErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		kind diag.Kind
		line int
	}{
		{"forward reference", "JMP end\nend:", diag.KindSymbol, 1},
		{"undefined label", "NOP\nBNE nowhere", diag.KindSymbol, 2},
		{"duplicate label", "a:\nNOP\na:", diag.KindSymbol, 3},
		{"branch out of range", "BNE $0700", diag.KindEncode, 1},
		{"illegal mode", "STA #$05", diag.KindEncode, 1},
		{"missing operand", "LDA", diag.KindEncode, 1},
		{"immediate too wide", "LDA #$100", diag.KindParse, 1},
		{"value too wide", "LDA $10000", diag.KindParse, 1},
		{"bad index register", "LDA $10,Z", diag.KindParse, 1},
		{"indirect y with x", "LDA ($20),X", diag.KindParse, 1},
		{"indexed indirect with y", "LDA ($20,Y)", diag.KindParse, 1},
		{"wide indexed indirect", "LDA ($1234,X)", diag.KindParse, 1},
		{"label without newline", "a: NOP", diag.KindParse, 1},
		{"keyword statement", "while:", diag.KindParse, 1},
		{"trailing garbage", "NOP NOP", diag.KindParse, 1},
		{"unterminated string", "\"abc", diag.KindLex, 1},
		{"unknown character", "LDA @", diag.KindLex, 1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Assemble(tc.src)
			if err == nil {
				t.Fatalf("Assemble(%q) succeeded; want error", tc.src)
			}
			if got := diag.KindOf(err); got != tc.kind {
				t.Errorf("kind = %v; want %v (err: %v)", got, tc.kind, err)
			}
			if got := diag.PosOf(err).Line; got != tc.line {
				t.Errorf("line = %d; want %d (err: %v)", got, tc.line, err)
			}
		})
	}
}

func TestAssembleInputLimit(t *testing.T) {
	opts := DefaultOptions()
	opts.MaxInput = 4
	_, err := NewAssembler(opts).Assemble("NOP\nNOP")
	if diag.KindOf(err) != diag.KindLex {
		t.Fatalf("err = %v; want lex error", err)
	}
}

func TestAssembleBlankLinesFitDefaultArena(t *testing.T) {
	src := strings.Repeat("\n", DefaultMaxInput)
	if _, err := Assemble(src); err != nil {
		t.Fatalf("Assemble of %d blank lines: %v", DefaultMaxInput, err)
	}

	opts := DefaultOptions()
	opts.MaxInput = 10000
	opts.ArenaCapacity = 0
	src = strings.Repeat("\n", opts.MaxInput)
	if _, err := NewAssembler(opts).Assemble(src); err != nil {
		t.Fatalf("Assemble with derived arena: %v", err)
	}
}

func TestArenaCapacityFor(t *testing.T) {
	tests := []struct{ in, want int }{
		{0, 2},
		{4096, 8194},
		{40000, MaxArenaCapacity},
	}
	for _, tc := range tests {
		if got := ArenaCapacityFor(tc.in); got != tc.want {
			t.Errorf("ArenaCapacityFor(%d) = %d; want %d", tc.in, got, tc.want)
		}
	}
}

func TestAssembleArenaExhausted(t *testing.T) {
	opts := DefaultOptions()
	opts.ArenaCapacity = 3
	_, err := NewAssembler(opts).Assemble("NOP\nNOP")
	if diag.KindOf(err) != diag.KindArena {
		t.Fatalf("err = %v; want arena error", err)
	}
}

func TestAssembleCollisionEvictsEarlierLabel(t *testing.T) {
	opts := DefaultOptions()
	opts.SymbolTableSize = 1

	a := NewAssembler(opts)
	if _, err := a.Assemble("first:\nNOP\nsecond:\nJMP second"); err != nil {
		t.Fatalf("Assemble error: %v", err)
	}
	if _, ok := a.Symbols().Lookup("first"); ok {
		t.Errorf("first still resolvable after collision")
	}

	_, err := a.Assemble("first:\nNOP\nsecond:\nJMP first")
	if diag.KindOf(err) != diag.KindSymbol {
		t.Fatalf("err = %v; want symbol error for evicted label", err)
	}
}

func TestAssembleResetsBetweenRuns(t *testing.T) {
	a := NewAssembler(DefaultOptions())
	if _, err := a.Assemble("x:\nNOP"); err != nil {
		t.Fatalf("first Assemble: %v", err)
	}
	if _, err := a.Assemble("JMP x"); diag.KindOf(err) != diag.KindSymbol {
		t.Fatalf("err = %v; want symbol error, labels must not survive", err)
	}
}

func TestAssembleOrigin(t *testing.T) {
	opts := DefaultOptions()
	opts.Origin = 0xC000
	prog, err := NewAssembler(opts).Assemble("start:\nJMP start")
	if err != nil {
		t.Fatalf("Assemble error: %v", err)
	}
	want := []byte{0x4C, 0x00, 0xC0}
	if !reflect.DeepEqual(prog.Code, want) {
		t.Errorf("code = % X; want % X", prog.Code, want)
	}
	if prog.Origin != 0xC000 {
		t.Errorf("Origin = $%04X; want $C000", prog.Origin)
	}
}

func TestAssembleSourceMap(t *testing.T) {
	src := "; header\nLDA #$01\n\nloop:\nSTA $0200\nBRK\n"

	prog, err := Assemble(src)
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}

	want := map[uint16]int{
		0x0600: 2,
		0x0602: 5,
		0x0605: 6,
	}
	if !reflect.DeepEqual(prog.SourceMap, want) {
		t.Errorf("SourceMap = %v; want %v", prog.SourceMap, want)
	}
	if len(prog.Listing) != 3 {
		t.Fatalf("len(Listing) = %d; want 3", len(prog.Listing))
	}
	if got := prog.Listing[1]; got.Addr != 0x0602 || got.Source != "STA $0200" {
		t.Errorf("Listing[1] = %+v", got)
	}
}

func TestAssemblePragmaIgnored(t *testing.T) {
	prog, err := Assemble(".org $0800\nNOP")
	if err != nil {
		t.Fatalf("Assemble error: %v", err)
	}
	if !reflect.DeepEqual(prog.Code, []byte{0xEA}) {
		t.Errorf("code = % X; want EA", prog.Code)
	}
}

func TestAssemblerEvaluate(t *testing.T) {
	tests := []struct {
		src  string
		want uint64
	}{
		{"1+2*3", 7},
		{"(1+2)*3", 9},
		{"10-2-3", 5},
		{"100/10/5", 2},
		{"$10+0b1", 17},
		{"'a'+1", 98},
	}
	a := NewAssembler(DefaultOptions())
	for _, tc := range tests {
		idx, err := a.ParseExpression(tc.src)
		if err != nil {
			t.Fatalf("ParseExpression(%q): %v", tc.src, err)
		}
		got, err := a.Evaluate(idx)
		if err != nil {
			t.Fatalf("Evaluate(%q): %v", tc.src, err)
		}
		if got != tc.want {
			t.Errorf("Evaluate(%q) = %d; want %d", tc.src, got, tc.want)
		}
	}

	idx, err := a.ParseExpression("1/0")
	if err != nil {
		t.Fatalf("ParseExpression(1/0): %v", err)
	}
	if _, err := a.Evaluate(idx); diag.KindOf(err) != diag.KindParse {
		t.Errorf("Evaluate(1/0) err = %v; want parse error", err)
	}
}
