package asm

import (
	"fmt"
	"reflect"
	"strings"
	"testing"
)

func TestHashDjb2(t *testing.T) {
	tests := []struct {
		name string
		want uint64
	}{
		{"", 5381},
		{"a", 5381*33 + 'a'},
		{"ab", (5381*33+'a')*33 + 'b'},
	}
	for _, tc := range tests {
		if got := Hash(tc.name); got != tc.want {
			t.Errorf("Hash(%q) = %d; want %d", tc.name, got, tc.want)
		}
	}
}

func TestSymbolTableInsertLookup(t *testing.T) {
	st := NewSymbolTable(0)
	if st.Size() != DefaultSymbolTableSize {
		t.Fatalf("Size = %d; want %d", st.Size(), DefaultSymbolTableSize)
	}

	sym := Symbol{Type: SymLabel, Name: "loop", Value: 0x0602}
	slot, _, had := st.Insert(sym)
	if had {
		t.Errorf("insert into empty table reported an occupant")
	}
	if slot != st.Slot("loop") {
		t.Errorf("slot = %d; want %d", slot, st.Slot("loop"))
	}

	got, ok := st.Lookup("loop")
	if !ok || !reflect.DeepEqual(got, sym) {
		t.Errorf("Lookup(loop) = %+v, %v; want %+v, true", got, ok, sym)
	}
	if _, ok := st.Lookup("other"); ok {
		t.Errorf("Lookup(other) hit in a table without it")
	}
	if st.Len() != 1 {
		t.Errorf("Len = %d; want 1", st.Len())
	}
}

// collidingNames returns two distinct names that share a slot in st.
func collidingNames(t *testing.T, st *SymbolTable) (string, string) {
	t.Helper()
	seen := make(map[int]string)
	for i := 0; i < 10000; i++ {
		name := fmt.Sprintf("label%d", i)
		slot := st.Slot(name)
		if prev, ok := seen[slot]; ok {
			return prev, name
		}
		seen[slot] = name
	}
	t.Fatal("no colliding names found")
	return "", ""
}

func TestSymbolTableCollisionLastWriteWins(t *testing.T) {
	st := NewSymbolTable(DefaultSymbolTableSize)
	first, second := collidingNames(t, st)

	st.Insert(Symbol{Type: SymLabel, Name: first, Value: 1})
	slot, evicted, had := st.Insert(Symbol{Type: SymLabel, Name: second, Value: 2})

	if !had || evicted.Name != first || evicted.Value != 1 {
		t.Errorf("evicted = %+v, %v; want %s", evicted, had, first)
	}
	if slot != st.Slot(first) {
		t.Errorf("slot = %d; want shared slot %d", slot, st.Slot(first))
	}
	if got, ok := st.Lookup(second); !ok || got.Value != 2 {
		t.Errorf("Lookup(%s) = %+v, %v; want value 2", second, got, ok)
	}
	if _, ok := st.Lookup(first); ok {
		t.Errorf("Lookup(%s) hit after eviction", first)
	}
	if st.Len() != 1 {
		t.Errorf("Len = %d; want 1", st.Len())
	}
}

func TestSymbolTableSameNameOverwrite(t *testing.T) {
	st := NewSymbolTable(16)
	st.Insert(Symbol{Type: SymLabel, Name: "n", Value: 1})
	_, evicted, had := st.Insert(Symbol{Type: SymLabel, Name: "n", Value: 2})
	if !had || evicted.Value != 1 {
		t.Errorf("evicted = %+v, %v; want value 1", evicted, had)
	}
	if got, _ := st.Lookup("n"); got.Value != 2 {
		t.Errorf("value = %d; want 2", got.Value)
	}
}

func TestSymbolTableResetAndEntries(t *testing.T) {
	st := NewSymbolTable(64)
	names := []string{"alpha", "beta", "gamma"}
	for i, n := range names {
		st.Insert(Symbol{Type: SymLabel, Name: n, Value: uint64(i)})
	}

	entries := st.Entries()
	if len(entries) != st.Len() {
		t.Fatalf("len(Entries) = %d; want %d", len(entries), st.Len())
	}
	for i := 1; i < len(entries); i++ {
		if entries[i-1].Slot >= entries[i].Slot {
			t.Errorf("entries not in slot order: %d then %d", entries[i-1].Slot, entries[i].Slot)
		}
	}

	dump := st.String()
	for _, n := range names {
		if !strings.Contains(dump, n) {
			t.Errorf("dump missing %q:\n%s", n, dump)
		}
	}

	st.Reset()
	if st.Len() != 0 || len(st.Entries()) != 0 {
		t.Errorf("table not empty after Reset")
	}
	if _, ok := st.Lookup("alpha"); ok {
		t.Errorf("Lookup hit after Reset")
	}
	if got := st.String(); got != "Symbols: (empty)\n" {
		t.Errorf("empty dump = %q", got)
	}
}
