// Package sb encodes and decodes the superblock stored in block 0.
//
// Layout, all fields little-endian:
//
//	offset 0  magic             4 bytes
//	offset 4  block_count       4 bytes
//	offset 8  free_block_count  4 bytes
//	offset 12 reserved, zero
package sb

import (
	"encoding/binary"
	"fmt"

	"omegafs/bio"
)

// Magic marks a formatted medium.
const Magic uint32 = 0x6969

// Nr is the block the superblock lives in.
const Nr bio.BlockID = 0

const (
	offMagic    = 0
	offBlockCnt = 4
	offFreeCnt  = 8
	EncodedSize = 12
)

type Superblock struct {
	Magic          uint32
	BlockCount     uint32
	FreeBlockCount uint32 // snapshot taken at format time
}

// New describes a freshly formatted device of total blocks, block 0
// included.
func New(total uint32) *Superblock {
	free := uint32(0)
	if total > 0 {
		free = total - 1
	}
	return &Superblock{
		Magic:          Magic,
		BlockCount:     total,
		FreeBlockCount: free,
	}
}

// Encode flattens the superblock into a full block image.
func (s *Superblock) Encode() [bio.BlockSize]byte {
	var b [bio.BlockSize]byte
	binary.LittleEndian.PutUint32(b[offMagic:], s.Magic)
	binary.LittleEndian.PutUint32(b[offBlockCnt:], s.BlockCount)
	binary.LittleEndian.PutUint32(b[offFreeCnt:], s.FreeBlockCount)
	return b
}

// Decode parses a superblock, rejecting short input and foreign
// magic numbers.
func Decode(b []byte) (*Superblock, error) {
	if len(b) < EncodedSize {
		return nil, &bio.DeviceError{Op: "decode superblock", Block: Nr, Err: fmt.Errorf("%w: %d bytes", bio.ErrMalformed, len(b))}
	}
	s := &Superblock{
		Magic:          binary.LittleEndian.Uint32(b[offMagic:]),
		BlockCount:     binary.LittleEndian.Uint32(b[offBlockCnt:]),
		FreeBlockCount: binary.LittleEndian.Uint32(b[offFreeCnt:]),
	}
	if s.Magic != Magic {
		return nil, &bio.DeviceError{Op: "decode superblock", Block: Nr, Err: fmt.Errorf("%w: bad magic %#x", bio.ErrMalformed, s.Magic)}
	}
	return s, nil
}

// Read loads and decodes the superblock from d.
func Read(d bio.Device) (*Superblock, error) {
	buf := make([]byte, EncodedSize)
	if err := d.ReadBlock(Nr, EncodedSize, buf); err != nil {
		return nil, err
	}
	return Decode(buf)
}

// Write stores s in block 0 of d.
func Write(d bio.Device, s *Superblock) error {
	b := s.Encode()
	return d.WriteBlock(Nr, b[:])
}
