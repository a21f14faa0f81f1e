package asm

import (
	"fmt"
	"strings"
)

// DefaultSymbolTableSize is the slot count of a new table.
const DefaultSymbolTableSize = 256

// SymbolType tags what a symbol's value means.
type SymbolType int

const (
	SymInvalid SymbolType = iota // empty slot
	SymLabel                     // Value is an address
)

func (t SymbolType) String() string {
	switch t {
	case SymLabel:
		return "label"
	}
	return "invalid"
}

type Symbol struct {
	Type  SymbolType
	Name  string
	Value uint64
}

// SymbolTable is a direct-mapped name -> value table. Each name hashes to
// exactly one slot; there is no chaining, so inserting a name whose slot is
// taken by a different name evicts that entry.
type SymbolTable struct {
	slots []Symbol
	count int
}

func NewSymbolTable(size int) *SymbolTable {
	if size <= 0 {
		size = DefaultSymbolTableSize
	}
	return &SymbolTable{slots: make([]Symbol, size)}
}

// Hash is djb2: seeded at 5381, h = h*33 + c for every byte of name.
func Hash(name string) uint64 {
	var h uint64 = 5381
	for i := 0; i < len(name); i++ {
		h = h*33 + uint64(name[i])
	}
	return h
}

// Slot returns the slot name maps to.
func (s *SymbolTable) Slot(name string) int {
	return int(Hash(name) % uint64(len(s.slots)))
}

// Insert stores sym in its slot unconditionally. It returns the slot and the
// previous occupant, if any.
func (s *SymbolTable) Insert(sym Symbol) (slot int, evicted Symbol, hadOccupant bool) {
	slot = s.Slot(sym.Name)
	evicted = s.slots[slot]
	hadOccupant = evicted.Type != SymInvalid
	if !hadOccupant {
		s.count++
	}
	s.slots[slot] = sym
	return slot, evicted, hadOccupant
}

// Lookup finds name's slot and reports a hit only if that slot still holds
// name; a later colliding insert makes the earlier name unresolvable.
func (s *SymbolTable) Lookup(name string) (Symbol, bool) {
	sym := s.slots[s.Slot(name)]
	if sym.Type == SymInvalid || sym.Name != name {
		return Symbol{}, false
	}
	return sym, true
}

// Len is the number of occupied slots.
func (s *SymbolTable) Len() int { return s.count }

// Size is the slot count.
func (s *SymbolTable) Size() int { return len(s.slots) }

// Reset empties every slot.
func (s *SymbolTable) Reset() {
	clear(s.slots)
	s.count = 0
}

// SlotEntry is an occupied slot.
type SlotEntry struct {
	Slot int
	Symbol
}

// Entries lists occupied slots in slot order.
func (s *SymbolTable) Entries() []SlotEntry {
	out := make([]SlotEntry, 0, s.count)
	for i, sym := range s.slots {
		if sym.Type != SymInvalid {
			out = append(out, SlotEntry{Slot: i, Symbol: sym})
		}
	}
	return out
}

// String returns a slot-ordered dump of the table.
func (s *SymbolTable) String() string {
	var sb strings.Builder
	entries := s.Entries()
	if len(entries) == 0 {
		sb.WriteString("Symbols: (empty)\n")
		return sb.String()
	}
	fmt.Fprintf(&sb, "Symbols (%d/%d slots):\n", len(entries), len(s.slots))
	for _, e := range entries {
		fmt.Fprintf(&sb, "  [%3d] %-20s  %-8s $%04X\n", e.Slot, e.Name, e.Type, e.Value)
	}
	return sb.String()
}
