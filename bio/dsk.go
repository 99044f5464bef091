package bio

import "io"

// MemDisk is a block device backed by a byte slice. The slice is the
// storage medium; MemDisk never grows or reallocates it.
type MemDisk struct {
	mem     []byte
	nblocks uint32
}

// NewMemDisk wraps buf. Only whole blocks are usable, a trailing
// partial block is ignored.
func NewMemDisk(buf []byte) *MemDisk {
	return &MemDisk{
		mem:     buf,
		nblocks: uint32(len(buf) / BlockSize),
	}
}

// MkMemDisk allocates a zeroed medium of nblocks blocks.
func MkMemDisk(nblocks uint32) *MemDisk {
	return NewMemDisk(make([]byte, int(nblocks)*BlockSize))
}

func (m *MemDisk) NumBlocks() uint32 {
	return m.nblocks
}

func (m *MemDisk) ReadBlock(id BlockID, length int, buf []byte) error {
	if err := CheckRead(m.nblocks, id, length, buf); err != nil {
		return err
	}
	start := int(id) * BlockSize
	copy(buf[:length], m.mem[start:start+length])
	return nil
}

func (m *MemDisk) WriteBlock(id BlockID, data []byte) error {
	if err := CheckWrite(m.nblocks, id, data); err != nil {
		return err
	}
	start := int(id) * BlockSize
	copy(m.mem[start:start+len(data)], data)
	return nil
}

// ReadWriterAt is both an io.ReaderAt and an io.WriterAt, e.g. an
// *os.File holding a disk image.
type ReadWriterAt interface {
	io.ReaderAt
	io.WriterAt
}

// RWDisk is a block device over a ReadWriterAt of a fixed block
// count. Reads past the end of a short image return zeroes.
type RWDisk struct {
	lower   ReadWriterAt
	nblocks uint32
}

func NewRWDisk(lower ReadWriterAt, nblocks uint32) *RWDisk {
	return &RWDisk{
		lower:   lower,
		nblocks: nblocks,
	}
}

func (r *RWDisk) NumBlocks() uint32 {
	return r.nblocks
}

func (r *RWDisk) ReadBlock(id BlockID, length int, buf []byte) error {
	if err := CheckRead(r.nblocks, id, length, buf); err != nil {
		return err
	}
	dst := buf[:length]
	n, err := r.lower.ReadAt(dst, int64(id)*BlockSize)
	if err == io.EOF {
		clear(dst[n:])
		return nil
	}
	if err != nil {
		return &DeviceError{Op: "read", Block: id, Err: err}
	}
	return nil
}

func (r *RWDisk) WriteBlock(id BlockID, data []byte) error {
	if err := CheckWrite(r.nblocks, id, data); err != nil {
		return err
	}
	if _, err := r.lower.WriteAt(data, int64(id)*BlockSize); err != nil {
		return &DeviceError{Op: "write", Block: id, Err: err}
	}
	return nil
}
