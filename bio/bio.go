package bio

import (
	"errors"
	"fmt"
)

// BlockSize is the size in bytes of every block on a medium.
const BlockSize = 512

// BlockID indexes a block. Block 0 always holds the superblock.
type BlockID uint32

var (
	ErrOutOfRange = errors.New("block id out of range")
	ErrBadSize    = errors.New("bad transfer size")
	ErrMalformed  = errors.New("malformed on-disk data")
)

// DeviceError reports a failed block transfer or an undecodable
// block. It always wraps one of the sentinel errors above.
type DeviceError struct {
	Op    string
	Block BlockID
	Err   error
}

func (e *DeviceError) Error() string {
	return fmt.Sprintf("%s block %d: %v", e.Op, e.Block, e.Err)
}

func (e *DeviceError) Unwrap() error { return e.Err }

// Device is anything that can move whole or partial blocks in and
// out of a fixed number of BlockSize slots. Implementations must
// return a *DeviceError instead of panicking on bad ids or sizes.
type Device interface {
	NumBlocks() uint32
	// ReadBlock copies length bytes from the start of block id into buf.
	ReadBlock(id BlockID, length int, buf []byte) error
	// WriteBlock copies data (at most BlockSize bytes) to the start of
	// block id. Bytes past len(data) keep their previous content.
	WriteBlock(id BlockID, data []byte) error
}

// CheckRead validates a ReadBlock request against a device of
// nblocks blocks.
func CheckRead(nblocks uint32, id BlockID, length int, buf []byte) error {
	if uint32(id) >= nblocks {
		return &DeviceError{Op: "read", Block: id, Err: ErrOutOfRange}
	}
	if length < 0 || length > BlockSize || len(buf) < length {
		return &DeviceError{Op: "read", Block: id, Err: ErrBadSize}
	}
	return nil
}

// CheckWrite validates a WriteBlock request against a device of
// nblocks blocks.
func CheckWrite(nblocks uint32, id BlockID, data []byte) error {
	if uint32(id) >= nblocks {
		return &DeviceError{Op: "write", Block: id, Err: ErrOutOfRange}
	}
	if len(data) > BlockSize {
		return &DeviceError{Op: "write", Block: id, Err: ErrBadSize}
	}
	return nil
}
