// Package fs ties a block device and a file table into a filesystem
// with a flat namespace.
//
// All table state lives behind the Device mutex. There are two ways
// in: Acquire blocks until the device is free, TryAcquire fails fast
// with ErrDeviceBusy. Either returns a Guard whose methods run file
// operations without taking the lock again. The methods on Device
// itself are shorthands that Acquire, run one operation, and Release.
package fs

import (
	"fmt"
	"sync"

	"omegafs/bio"
	"omegafs/ftab"
	"omegafs/sb"
	"omegafs/txn"
)

type Device struct {
	mu   sync.Mutex
	disk bio.Device
	tab  *ftab.Table // nil until formatted

	log   *Logger
	check bool
}

// New wraps disk. The device must be formatted before files can be
// created.
func New(disk bio.Device, opts ...Option) *Device {
	o := options{logger: NoopLogger()}
	for _, fn := range opts {
		fn(&o)
	}
	return &Device{
		disk:  disk,
		log:   o.logger,
		check: o.checkInvariants,
	}
}

// Guard is exclusive access to a Device. It must be released exactly
// once; operations on a released guard fail with ErrReleased.
type Guard struct {
	d    *Device
	held bool
}

// Acquire blocks until the device is free.
func (d *Device) Acquire() *Guard {
	d.mu.Lock()
	return &Guard{d: d, held: true}
}

// TryAcquire takes the device if nobody holds it and reports
// ErrDeviceBusy otherwise. It never waits.
func (d *Device) TryAcquire() (*Guard, error) {
	if !d.mu.TryLock() {
		return nil, ErrDeviceBusy
	}
	return &Guard{d: d, held: true}, nil
}

func (g *Guard) Release() {
	if !g.held {
		return
	}
	g.held = false
	g.d.mu.Unlock()
}

// Disk is the underlying block device.
func (g *Guard) Disk() bio.Device {
	return g.d.disk
}

// Table returns the file table. It is only valid until Release.
func (g *Guard) Table() (*ftab.Table, error) {
	if !g.held {
		return nil, ErrReleased
	}
	if g.d.tab == nil {
		return nil, ErrNotFormatted
	}
	return g.d.tab, nil
}

// Format writes a fresh superblock describing total blocks (block 0
// included) and replaces the file table with an empty one. Every
// existing file is lost.
func (g *Guard) Format(total uint32) (err error) {
	defer func() { g.d.log.LogFormat(total, err) }()

	if !g.held {
		return ErrReleased
	}
	if total < 1 || total > g.d.disk.NumBlocks() {
		return &bio.DeviceError{
			Op:    "format",
			Block: bio.BlockID(total),
			Err:   fmt.Errorf("%w: device has %d blocks", bio.ErrOutOfRange, g.d.disk.NumBlocks()),
		}
	}

	t := txn.BeginTransaction(g.d.disk)
	blk := sb.New(total).Encode()
	if err := t.WriteBlock(sb.Nr, blk[:]); err != nil {
		t.AbortTransaction()
		return err
	}
	if err := t.EndTransaction(); err != nil {
		return err
	}
	g.d.tab = ftab.New(total)
	return nil
}

// Stat describes a formatted device.
type Stat struct {
	BlockSize  int
	BlockCount uint32 // from the superblock, block 0 included
	FormatFree uint32 // free blocks recorded at format time
	Free       int
	Used       int
	Files      int
}

// Stat reads the superblock back and combines it with the live table
// counts.
func (g *Guard) Stat() (Stat, error) {
	tab, err := g.Table()
	if err != nil {
		return Stat{}, err
	}
	s, err := sb.Read(g.d.disk)
	if err != nil {
		return Stat{}, err
	}
	if s.BlockCount != tab.Usable()+1 {
		return Stat{}, &bio.DeviceError{
			Op:    "stat",
			Block: sb.Nr,
			Err:   fmt.Errorf("%w: superblock says %d blocks, table has %d", bio.ErrMalformed, s.BlockCount, tab.Usable()+1),
		}
	}
	return Stat{
		BlockSize:  bio.BlockSize,
		BlockCount: s.BlockCount,
		FormatFree: s.FreeBlockCount,
		Free:       tab.FreeCount(),
		Used:       int(tab.Usable()) - tab.FreeCount(),
		Files:      tab.Len(),
	}, nil
}

// verify runs the table invariant check when enabled.
func (g *Guard) verify(tab *ftab.Table) error {
	if !g.d.check {
		return nil
	}
	if err := tab.Check(); err != nil {
		g.d.log.Error("file table check failed", "error", err)
		return err
	}
	return nil
}
