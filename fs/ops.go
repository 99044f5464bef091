package fs

import (
	"fmt"
	"math"
	"slices"

	"omegafs/bio"
	"omegafs/ftab"
	"omegafs/txn"
)

// CreateFile adds an empty file. Its block keeps whatever bytes it
// held before; a zero-size file reads back empty regardless.
func (g *Guard) CreateFile(name string) (err error) {
	defer func() { g.d.log.LogOp("create", name, err) }()

	tab, err := g.Table()
	if err != nil {
		return err
	}
	if _, err := tab.Create(name); err != nil {
		return err
	}
	return g.verify(tab)
}

// WriteFile replaces the whole content of name with data, growing or
// shrinking the file's block list to fit. If the extra blocks cannot
// be allocated nothing changes and ErrNoSpace is returned.
func (g *Guard) WriteFile(name string, data []byte) (err error) {
	defer func() { g.d.log.LogOp("write", name, err, "bytes", len(data)) }()

	tab, err := g.Table()
	if err != nil {
		return err
	}
	e := tab.Find(name)
	if e == nil {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if uint64(len(data)) > math.MaxUint32 {
		return fmt.Errorf("%w: %d bytes", ErrNoSpace, len(data))
	}

	need := ftab.BlocksFor(len(data))
	have := len(e.Blocks)

	var added, surplus []bio.BlockID
	blocks := e.Blocks
	switch {
	case need > have:
		added, err = tab.AllocateAdditional(need - have)
		if err != nil {
			return err
		}
		blocks = append(slices.Clone(e.Blocks), added...)
	case need < have:
		blocks = e.Blocks[:need]
		surplus = e.Blocks[need:]
	}

	t := txn.BeginTransaction(g.d.disk)
	if err := stageWrite(t, blocks, surplus, data); err != nil {
		t.AbortTransaction()
		g.giveBack(tab, name, added)
		return err
	}
	if err := t.EndTransaction(); err != nil {
		g.giveBack(tab, name, added)
		return err
	}

	if len(surplus) > 0 {
		if err := tab.Release(surplus); err != nil {
			return err
		}
	}
	e.Blocks = slices.Clone(blocks)
	e.Size = uint32(len(data))
	return g.verify(tab)
}

// giveBack returns blocks allocated for a write that did not happen.
// They go back in reverse pop order so the free list is restored
// exactly.
func (g *Guard) giveBack(tab *ftab.Table, name string, added []bio.BlockID) {
	if len(added) == 0 {
		return
	}
	back := slices.Clone(added)
	slices.Reverse(back)
	if err := tab.Release(back); err != nil {
		g.d.log.WithFile(name).Error("returning blocks after failed write", "error", err)
	}
}

// stageWrite lays data out over blocks one chunk per block, zero
// padding the last, and zeroes the surplus blocks being dropped.
func stageWrite(t *txn.TxnHandle, blocks, surplus []bio.BlockID, data []byte) error {
	for i, bn := range blocks {
		lo := min(i*bio.BlockSize, len(data))
		hi := min(lo+bio.BlockSize, len(data))
		if err := t.WriteFull(bn, data[lo:hi]); err != nil {
			return err
		}
	}
	for _, bn := range surplus {
		if err := t.ZeroBlock(bn); err != nil {
			return err
		}
	}
	return nil
}

// ReadFile returns exactly the file's Size bytes.
func (g *Guard) ReadFile(name string) (data []byte, err error) {
	defer func() { g.d.log.LogOp("read", name, err, "bytes", len(data)) }()

	tab, err := g.Table()
	if err != nil {
		return nil, err
	}
	e := tab.Find(name)
	if e == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}

	size := int(e.Size)
	out := make([]byte, size)
	for i := 0; i*bio.BlockSize < size; i++ {
		off := i * bio.BlockSize
		n := min(bio.BlockSize, size-off)
		if err := g.d.disk.ReadBlock(e.Blocks[i], n, out[off:]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// DeleteFile zeroes every block the file owned, then removes it and
// returns its blocks to the free list.
func (g *Guard) DeleteFile(name string) (err error) {
	defer func() { g.d.log.LogOp("delete", name, err) }()

	tab, err := g.Table()
	if err != nil {
		return err
	}
	e := tab.Find(name)
	if e == nil {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}

	t := txn.BeginTransaction(g.d.disk)
	for _, bn := range e.Blocks {
		if err := t.ZeroBlock(bn); err != nil {
			t.AbortTransaction()
			return err
		}
	}
	if err := t.EndTransaction(); err != nil {
		return err
	}

	blks, err := tab.Remove(name)
	if err != nil {
		return err
	}
	if err := tab.Release(blks); err != nil {
		return err
	}
	return g.verify(tab)
}

// ListFiles snapshots the live file names in creation order.
func (g *Guard) ListFiles() ([]string, error) {
	tab, err := g.Table()
	if err != nil {
		return nil, err
	}
	return tab.Names()
}

func (d *Device) Format(total uint32) error {
	g := d.Acquire()
	defer g.Release()
	return g.Format(total)
}

func (d *Device) CreateFile(name string) error {
	g := d.Acquire()
	defer g.Release()
	return g.CreateFile(name)
}

func (d *Device) WriteFile(name string, data []byte) error {
	g := d.Acquire()
	defer g.Release()
	return g.WriteFile(name, data)
}

func (d *Device) ReadFile(name string) ([]byte, error) {
	g := d.Acquire()
	defer g.Release()
	return g.ReadFile(name)
}

func (d *Device) DeleteFile(name string) error {
	g := d.Acquire()
	defer g.Release()
	return g.DeleteFile(name)
}

func (d *Device) ListFiles() ([]string, error) {
	g := d.Acquire()
	defer g.Release()
	return g.ListFiles()
}

func (d *Device) Stat() (Stat, error) {
	g := d.Acquire()
	defer g.Release()
	return g.Stat()
}
