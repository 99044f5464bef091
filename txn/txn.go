// Package txn batches block writes so that a file operation either
// lands all of its data or none of it.
//
// Writes are validated and copied when they are staged. Nothing
// reaches the device until EndTransaction, and a device error during
// EndTransaction rolls the touched blocks back.
package txn

import (
	"errors"
	"fmt"

	"omegafs/bio"
)

var ErrDone = errors.New("transaction already finished")

type staged struct {
	nr   bio.BlockID
	data []byte
}

type TxnHandle struct {
	dev    bio.Device
	writes []staged
	done   bool
}

func BeginTransaction(dev bio.Device) *TxnHandle {
	return &TxnHandle{dev: dev}
}

// WriteBlock stages data for block nr. A later write to the same block
// in the same transaction replaces the earlier one.
func (t *TxnHandle) WriteBlock(nr bio.BlockID, data []byte) error {
	if t.done {
		return ErrDone
	}
	if err := bio.CheckWrite(t.dev.NumBlocks(), nr, data); err != nil {
		return err
	}
	cp := make([]byte, len(data))
	copy(cp, data)

	for i := range t.writes {
		if t.writes[i].nr == nr {
			t.writes[i].data = cp
			return nil
		}
	}
	t.writes = append(t.writes, staged{nr: nr, data: cp})
	return nil
}

// WriteFull stages data zero padded to a whole block.
func (t *TxnHandle) WriteFull(nr bio.BlockID, data []byte) error {
	if len(data) > bio.BlockSize {
		return &bio.DeviceError{Op: "write", Block: nr, Err: bio.ErrBadSize}
	}
	blk := make([]byte, bio.BlockSize)
	copy(blk, data)
	return t.WriteBlock(nr, blk)
}

// ZeroBlock stages an all-zero block.
func (t *TxnHandle) ZeroBlock(nr bio.BlockID) error {
	return t.WriteBlock(nr, make([]byte, bio.BlockSize))
}

// EndTransaction applies the staged writes in order. The current
// image of every target block is saved first; if a write fails, the
// blocks already touched are put back and the write error returned.
func (t *TxnHandle) EndTransaction() error {
	if t.done {
		return ErrDone
	}
	t.done = true
	defer func() { t.writes = nil }()

	saved := make([][]byte, len(t.writes))
	for i, w := range t.writes {
		saved[i] = make([]byte, bio.BlockSize)
		if err := t.dev.ReadBlock(w.nr, bio.BlockSize, saved[i]); err != nil {
			return err
		}
	}

	for i, w := range t.writes {
		if err := t.dev.WriteBlock(w.nr, w.data); err != nil {
			return errors.Join(err, t.undo(saved[:i+1]))
		}
	}
	return nil
}

// undo writes back the saved images of the first len(saved) staged
// blocks, newest first.
func (t *TxnHandle) undo(saved [][]byte) error {
	var errs []error
	for i := len(saved) - 1; i >= 0; i-- {
		nr := t.writes[i].nr
		if err := t.dev.WriteBlock(nr, saved[i]); err != nil {
			errs = append(errs, fmt.Errorf("restoring block %d: %w", nr, err))
		}
	}
	return errors.Join(errs...)
}

// AbortTransaction discards everything staged. Safe to call after
// EndTransaction.
func (t *TxnHandle) AbortTransaction() {
	t.done = true
	t.writes = nil
}
