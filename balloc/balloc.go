// Package balloc hands out data blocks from a free list.
//
// The free list is a stack: the most recently released block is the
// next one allocated. A fresh allocator for a device of total blocks
// holds 1..total-1 in ascending order, so the first allocation after
// formatting returns total-1.
package balloc

import (
	"errors"
	"fmt"

	"omegafs/bio"
)

const startData bio.BlockID = 1

var (
	ErrNoSpace    = errors.New("no space left on device")
	ErrDoubleFree = errors.New("block already free")
)

type Alloc struct {
	free   []bio.BlockID
	btmp   *bitmap
	usable uint32
}

// New returns an allocator owning every block of a total-block
// device except block 0.
func New(total uint32) *Alloc {
	a := &Alloc{btmp: newBitmap()}
	if total <= uint32(startData) {
		return a
	}
	a.usable = total - uint32(startData)
	a.free = make([]bio.BlockID, 0, a.usable)
	for bn := startData; uint32(bn) < total; bn++ {
		a.free = append(a.free, bn)
	}
	a.btmp.setRange(startData, total)
	return a
}

func (a *Alloc) AllocBlock() (bio.BlockID, error) {
	blks, err := a.AllocBlocks(1)
	if err != nil {
		return 0, err
	}
	return blks[0], nil
}

// AllocBlocks pops n blocks. If fewer than n are free nothing is
// taken and ErrNoSpace is returned.
func (a *Alloc) AllocBlocks(n int) ([]bio.BlockID, error) {
	if n < 0 || n > len(a.free) {
		return nil, fmt.Errorf("%w: want %d blocks, %d free", ErrNoSpace, n, len(a.free))
	}
	blks := make([]bio.BlockID, 0, n)
	for i := 0; i < n; i++ {
		bn := a.free[len(a.free)-1]
		a.free = a.free[:len(a.free)-1]
		a.btmp.clearBit(bn)
		blks = append(blks, bn)
	}
	return blks, nil
}

// RelseBlocks pushes blks back onto the free list in order. Every
// block is validated before any is released: out-of-range blocks,
// blocks that are already free, and duplicates fail the whole call.
func (a *Alloc) RelseBlocks(blks []bio.BlockID) error {
	seen := newBitmap()
	for _, bn := range blks {
		if bn < startData || uint32(bn) > a.usable {
			return &bio.DeviceError{Op: "release", Block: bn, Err: bio.ErrOutOfRange}
		}
		if a.btmp.isSet(bn) || seen.isSet(bn) {
			return &bio.DeviceError{Op: "release", Block: bn, Err: ErrDoubleFree}
		}
		seen.setBit(bn)
	}
	for _, bn := range blks {
		a.free = append(a.free, bn)
		a.btmp.setBit(bn)
	}
	return nil
}

func (a *Alloc) FreeCount() int {
	return len(a.free)
}

// Usable is the number of blocks the allocator manages, free or not.
func (a *Alloc) Usable() uint32 {
	return a.usable
}

func (a *Alloc) IsFree(bn bio.BlockID) bool {
	return a.btmp.isSet(bn)
}

// Snapshot copies the free list, bottom of the stack first.
func (a *Alloc) Snapshot() []bio.BlockID {
	out := make([]bio.BlockID, len(a.free))
	copy(out, a.free)
	return out
}
