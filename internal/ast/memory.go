package ast

import (
	"fmt"

	"fortio.org/safecast"
)

// MemoryEntry is one de-duplicated compound literal.
type MemoryEntry struct {
	ID    MemoryID
	Key   string
	Value Expression
}

// ProgramMemory maps textually identical compound literals to a single
// synthetic name so large literals are emitted once.
type ProgramMemory struct {
	Entries []MemoryEntry
	Index   map[string]MemoryID
}

// NewProgramMemory creates an empty table.
func NewProgramMemory() *ProgramMemory {
	return &ProgramMemory{Index: make(map[string]MemoryID)}
}

// Intern returns the id of value, adding it on first sight. Two literals
// share an id exactly when their structural form is identical.
func (m *ProgramMemory) Intern(value Expression) MemoryID {
	key := Format(value)
	if m.Index == nil {
		m.Index = make(map[string]MemoryID, len(m.Entries))
		for _, e := range m.Entries {
			m.Index[e.Key] = e.ID
		}
	}
	if id, ok := m.Index[key]; ok {
		return id
	}
	n, err := safecast.Conv[uint32](len(m.Entries) + 1)
	if err != nil {
		panic(fmt.Errorf("program memory overflow: %w", err))
	}
	id := MemoryID(n)
	m.Entries = append(m.Entries, MemoryEntry{ID: id, Key: key, Value: value})
	m.Index[key] = id
	return id
}

// Get returns the entry for id or nil.
func (m *ProgramMemory) Get(id MemoryID) *MemoryEntry {
	if !id.IsValid() || int(id) > len(m.Entries) {
		return nil
	}
	return &m.Entries[id-1]
}

// Len reports the number of distinct literals.
func (m *ProgramMemory) Len() int { return len(m.Entries) }

// MemoryName is the synthetic global name of a memory slot.
func MemoryName(id MemoryID) string {
	return fmt.Sprintf("__soul_mem_%d", id)
}
