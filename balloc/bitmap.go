package balloc

import (
	"github.com/RoaringBitmap/roaring/v2"

	"omegafs/bio"
)

// bitmap mirrors free list membership so double frees are caught
// without scanning the stack.
type bitmap struct {
	rb *roaring.Bitmap
}

func newBitmap() *bitmap {
	return &bitmap{rb: roaring.New()}
}

func (b *bitmap) setBit(bn bio.BlockID) {
	b.rb.Add(uint32(bn))
}

func (b *bitmap) clearBit(bn bio.BlockID) {
	b.rb.Remove(uint32(bn))
}

func (b *bitmap) isSet(bn bio.BlockID) bool {
	return b.rb.Contains(uint32(bn))
}

// setRange marks [lo, hi) free.
func (b *bitmap) setRange(lo bio.BlockID, hi uint32) {
	b.rb.AddRange(uint64(lo), uint64(hi))
}

// FreeSet returns a copy of the free blocks as a roaring bitmap.
func (a *Alloc) FreeSet() *roaring.Bitmap {
	return a.btmp.rb.Clone()
}
