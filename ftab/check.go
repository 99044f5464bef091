package ftab

import (
	"errors"
	"fmt"

	"github.com/RoaringBitmap/roaring/v2"

	"omegafs/bio"
)

var ErrCorrupt = errors.New("file table inconsistent")

// Check verifies the table invariants: every data block is either
// free or owned by exactly one entry, sizes fit in their blocks, and
// no two entries share a name.
func (t *Table) Check() error {
	seen := t.alloc.FreeSet()
	names := make(map[Name]struct{}, len(t.entries))

	for _, e := range t.entries {
		if _, dup := names[e.Name]; dup {
			return fmt.Errorf("%w: duplicate name %s", ErrCorrupt, e.Name)
		}
		names[e.Name] = struct{}{}

		if len(e.Blocks) == 0 {
			return fmt.Errorf("%w: %s owns no blocks", ErrCorrupt, e.Name)
		}
		if int(e.Size) > len(e.Blocks)*bio.BlockSize {
			return fmt.Errorf("%w: %s size %d exceeds %d blocks", ErrCorrupt, e.Name, e.Size, len(e.Blocks))
		}
		for _, bn := range e.Blocks {
			if !seen.CheckedAdd(uint32(bn)) {
				return fmt.Errorf("%w: block %d owned twice or also free (%s)", ErrCorrupt, bn, e.Name)
			}
		}
	}

	want := roaring.New()
	want.AddRange(1, uint64(t.alloc.Usable())+1)
	if !seen.Equals(want) {
		return fmt.Errorf("%w: %d blocks accounted for, %d usable", ErrCorrupt, seen.GetCardinality(), want.GetCardinality())
	}
	return nil
}
