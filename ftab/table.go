// Package ftab is the in-memory directory: named entries, the blocks
// each one owns, and the allocator holding every block nobody owns.
//
// Table does no I/O. Callers get block ids back and are responsible
// for reading, writing, and zeroing them.
package ftab

import (
	"errors"
	"fmt"
	"slices"

	"omegafs/balloc"
	"omegafs/bio"
)

var (
	ErrNameInUse = errors.New("file name in use")
	ErrNotFound  = errors.New("file not found")
	ErrNoSpace   = balloc.ErrNoSpace
)

// Entry is one file.
type Entry struct {
	Name   Name
	Blocks []bio.BlockID // in file order, never empty while live
	Size   uint32
	Flags  uint8
}

type Table struct {
	entries []*Entry // insertion order
	alloc   *balloc.Alloc
}

// New returns an empty table for a device of total blocks.
func New(total uint32) *Table {
	return &Table{
		alloc: balloc.New(total),
	}
}

// Create adds an empty file owning one block.
func (t *Table) Create(name string) (*Entry, error) {
	n, err := MkName(name)
	if err != nil {
		return nil, err
	}
	if t.lookup(n) >= 0 {
		return nil, fmt.Errorf("%w: %s", ErrNameInUse, name)
	}
	bn, err := t.alloc.AllocBlock()
	if err != nil {
		return nil, err
	}
	e := &Entry{
		Name:   n,
		Blocks: []bio.BlockID{bn},
	}
	t.entries = append(t.entries, e)
	return e, nil
}

// Find returns the entry named name, or nil. Only exact matches count.
func (t *Table) Find(name string) *Entry {
	n, err := MkName(name)
	if err != nil {
		return nil
	}
	if i := t.lookup(n); i >= 0 {
		return t.entries[i]
	}
	return nil
}

func (t *Table) lookup(n Name) int {
	return slices.IndexFunc(t.entries, func(e *Entry) bool {
		return e.Name == n
	})
}

// AllocateAdditional takes count blocks from the free list, all or
// nothing.
func (t *Table) AllocateAdditional(count int) ([]bio.BlockID, error) {
	return t.alloc.AllocBlocks(count)
}

// Release returns blks to the free list. The caller must have zeroed
// them first.
func (t *Table) Release(blks []bio.BlockID) error {
	return t.alloc.RelseBlocks(blks)
}

// Remove drops the entry and hands back the blocks it owned. The
// blocks are not yet free: zero them, then Release them.
func (t *Table) Remove(name string) ([]bio.BlockID, error) {
	n, err := MkName(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	i := t.lookup(n)
	if i < 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	e := t.entries[i]
	t.entries = slices.Delete(t.entries, i, i+1)
	return e.Blocks, nil
}

// Names snapshots the trimmed names of all live files in insertion
// order.
func (t *Table) Names() ([]string, error) {
	names := make([]string, 0, len(t.entries))
	for _, e := range t.entries {
		s, err := e.Name.Decode()
		if err != nil {
			return nil, err
		}
		names = append(names, s)
	}
	return names, nil
}

// Entries returns the live entries in insertion order. The entries
// themselves are shared with the table.
func (t *Table) Entries() []*Entry {
	return slices.Clone(t.entries)
}

func (t *Table) Len() int {
	return len(t.entries)
}

func (t *Table) FreeCount() int {
	return t.alloc.FreeCount()
}

// Usable is the number of data blocks, free or owned.
func (t *Table) Usable() uint32 {
	return t.alloc.Usable()
}

// FreeList copies the free list, next allocation last.
func (t *Table) FreeList() []bio.BlockID {
	return t.alloc.Snapshot()
}
