package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"asm6502/internal/config"
)

func writeSource(t *testing.T, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "prog.s")
	if err := os.WriteFile(path, []byte(src), 0644); err != nil {
		t.Fatalf("write source: %v", err)
	}
	return path
}

func TestViewerLoadsListing(t *testing.T) {
	path := writeSource(t, "LDA #$05\nSTA $0200\nBRK\n")
	v := NewViewer(path, config.Default())

	if v.err != nil {
		t.Fatalf("unexpected error: %v", v.err)
	}
	if len(v.lines) != 3 {
		t.Fatalf("got %d listing lines; want 3: %q", len(v.lines), v.lines)
	}
	if !strings.HasPrefix(v.lines[0], "$0600  A9 05") {
		t.Errorf("first line = %q", v.lines[0])
	}
	if got := v.status(); !strings.Contains(got, "6 bytes") || !strings.Contains(got, "[listing]") {
		t.Errorf("status = %q", got)
	}
}

func TestViewerReloadKeepsProgramOnError(t *testing.T) {
	path := writeSource(t, "NOP\n")
	v := NewViewer(path, config.Default())
	if v.prog == nil {
		t.Fatalf("no program: %v", v.err)
	}

	if err := os.WriteFile(path, []byte("LDA #$100\n"), 0644); err != nil {
		t.Fatal(err)
	}
	v.Reload()
	if v.err == nil {
		t.Fatal("expected an assembly error")
	}
	if v.prog == nil || len(v.prog.Code) != 1 {
		t.Errorf("previous program not kept: %+v", v.prog)
	}
}

func TestViewerReloadsOnWrite(t *testing.T) {
	path := writeSource(t, "NOP\n")
	v := NewViewer(path, config.Default())
	if err := v.Watch(); err != nil {
		t.Fatalf("Watch: %v", err)
	}
	defer v.Close()

	if v.pollChanges() {
		t.Fatal("reload reported before any write")
	}
	if err := os.WriteFile(path, []byte("LDA #$05\nBRK\n"), 0644); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		v.pollChanges()
		if v.prog != nil && len(v.prog.Code) == 3 {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("program not reloaded after write: %+v (err %v)", v.prog, v.err)
}

func TestViewerIgnoresOtherFiles(t *testing.T) {
	path := writeSource(t, "NOP\n")
	v := NewViewer(path, config.Default())
	if err := v.Watch(); err != nil {
		t.Fatalf("Watch: %v", err)
	}
	defer v.Close()

	other := filepath.Join(filepath.Dir(path), "other.s")
	if err := os.WriteFile(other, []byte("BRK\n"), 0644); err != nil {
		t.Fatal(err)
	}
	time.Sleep(200 * time.Millisecond)
	if v.pollChanges() {
		t.Error("write to a sibling file triggered a reload")
	}
}

func TestViewerScrollClamps(t *testing.T) {
	var src strings.Builder
	for range 100 {
		src.WriteString("NOP\n")
	}
	v := NewViewer(writeSource(t, src.String()), config.Default())

	v.scrollBy(-5)
	if v.scroll != 0 {
		t.Errorf("scroll = %d; want 0", v.scroll)
	}
	v.scrollBy(1000)
	if want := 100 - v.visibleRows(); v.scroll != want {
		t.Errorf("scroll = %d; want %d", v.scroll, want)
	}

	// 100 bytes fit on one screen of hex rows.
	v.memory = true
	v.scroll = 0
	v.scrollBy(10)
	if v.scroll != 0 {
		t.Errorf("memory scroll = %d; want 0", v.scroll)
	}
}

func TestViewerMemoryCells(t *testing.T) {
	var src strings.Builder
	for range 20 {
		src.WriteString("NOP\n")
	}
	v := NewViewer(writeSource(t, src.String()), config.Default())
	v.memory = true

	rows, bytes := v.memoryCells()
	if len(rows) != 2 {
		t.Fatalf("got %d address rows; want 2", len(rows))
	}
	if rows[0].text != "$0600" || rows[1].text != "$0610" {
		t.Errorf("row labels = %q, %q", rows[0].text, rows[1].text)
	}
	if len(bytes) != 20 {
		t.Fatalf("got %d byte cells; want 20", len(bytes))
	}
	if bytes[0].text != "EA" {
		t.Errorf("first byte = %q; want EA", bytes[0].text)
	}
	// byte 17 sits in column 1 of the second row
	if bytes[17].y != rows[1].y || bytes[17].x != bytes[1].x {
		t.Errorf("byte 17 at (%d, %d); want (%d, %d)", bytes[17].x, bytes[17].y, bytes[1].x, rows[1].y)
	}
}
