package session

import (
	"reflect"
	"strings"
	"testing"

	"asm6502/pkg/asm"
	"asm6502/pkg/diag"
)

func TestSubmitAccumulates(t *testing.T) {
	s := New(asm.DefaultOptions())

	steps := []struct {
		line    string
		emitted []byte
		code    []byte
	}{
		{"LDX #$03", []byte{0xA2, 0x03}, []byte{0xA2, 0x03}},
		{"loop:", nil, []byte{0xA2, 0x03}},
		{"DEX", []byte{0xCA}, []byte{0xA2, 0x03, 0xCA}},
		{"BNE loop", []byte{0xD0, 0xFD}, []byte{0xA2, 0x03, 0xCA, 0xD0, 0xFD}},
	}
	for _, st := range steps {
		res, err := s.Submit(st.line)
		if err != nil {
			t.Fatalf("Submit(%q): %v", st.line, err)
		}
		var emitted []byte
		for _, l := range res.Emitted {
			emitted = append(emitted, l.Bytes...)
		}
		if !reflect.DeepEqual(emitted, st.emitted) {
			t.Errorf("Submit(%q) emitted % X; want % X", st.line, emitted, st.emitted)
		}
		if !reflect.DeepEqual(res.Program.Code, st.code) {
			t.Errorf("after %q code = % X; want % X", st.line, res.Program.Code, st.code)
		}
	}
}

func TestSubmitDiscardsFailingLine(t *testing.T) {
	s := New(asm.DefaultOptions())
	if _, err := s.Submit("start:"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Submit("LDA #$01"); err != nil {
		t.Fatal(err)
	}

	bad := []struct {
		line string
		kind diag.Kind
	}{
		{"LDA #$100", diag.KindParse},
		{"STA #$01", diag.KindEncode},
		{"JMP nowhere", diag.KindSymbol},
		{"start:", diag.KindSymbol},
		{"LDA @", diag.KindLex},
	}
	for _, b := range bad {
		_, err := s.Submit(b.line)
		if diag.KindOf(err) != b.kind {
			t.Errorf("Submit(%q) err = %v; want %v", b.line, err, b.kind)
		}
	}

	if got := s.Lines(); !reflect.DeepEqual(got, []string{"start:", "LDA #$01"}) {
		t.Errorf("Lines = %q", got)
	}
	if got := s.Program().Code; !reflect.DeepEqual(got, []byte{0xA9, 0x01}) {
		t.Errorf("Code = % X; want A9 01", got)
	}

	// The label survives the rejected lines.
	res, err := s.Submit("JMP start")
	if err != nil {
		t.Fatalf("Submit(JMP start): %v", err)
	}
	want := []byte{0xA9, 0x01, 0x4C, 0x00, 0x06}
	if !reflect.DeepEqual(res.Program.Code, want) {
		t.Errorf("Code = % X; want % X", res.Program.Code, want)
	}
	if !strings.Contains(s.Symbols(), "start") {
		t.Errorf("symbol dump missing start:\n%s", s.Symbols())
	}
}

func TestSessionEval(t *testing.T) {
	s := New(asm.DefaultOptions())
	if _, err := s.Submit("NOP"); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		got, err := s.Eval("(2+3)*$10")
		if err != nil {
			t.Fatalf("Eval: %v", err)
		}
		if got != 80 {
			t.Errorf("Eval = %d; want 80", got)
		}
	}
	if _, err := s.Eval("4/0"); err == nil {
		t.Error("Eval(4/0) succeeded")
	}
	if !strings.Contains(s.AST(), "(INSTRUCTION: NOP)") {
		t.Errorf("AST after Eval = %q", s.AST())
	}
}

func TestSessionClear(t *testing.T) {
	s := New(asm.DefaultOptions())
	if _, err := s.Submit("x:"); err != nil {
		t.Fatal(err)
	}
	s.Clear()
	if len(s.Lines()) != 0 || len(s.Program().Code) != 0 || s.AST() != "" {
		t.Errorf("session not empty after Clear")
	}
	if _, err := s.Submit("JMP x"); diag.KindOf(err) != diag.KindSymbol {
		t.Errorf("label survived Clear: err = %v", err)
	}
}
