package ftab

import (
	"bytes"
	"errors"
	"fmt"
	"unicode/utf8"

	"omegafs/bio"
)

// NameLen is the fixed width of a stored file name.
const NameLen = 16

var (
	ErrNameTooLong = errors.New("file name too long")
	ErrInvalidName = errors.New("invalid file name")
)

// Name is a file name padded with NUL bytes to NameLen. Two names are
// the same file iff their padded forms are equal.
type Name [NameLen]byte

// MkName pads s into a Name. s must be 1..NameLen bytes of valid
// UTF-8 without NUL bytes.
func MkName(s string) (Name, error) {
	var n Name
	if len(s) > NameLen {
		return n, fmt.Errorf("%w: %q is %d bytes, max %d", ErrNameTooLong, s, len(s), NameLen)
	}
	if s == "" || !utf8.ValidString(s) || bytes.IndexByte([]byte(s), 0) >= 0 {
		return n, fmt.Errorf("%w: %q", ErrInvalidName, s)
	}
	copy(n[:], s)
	return n, nil
}

// Decode returns the name with its padding trimmed.
func (n Name) Decode() (string, error) {
	b := bytes.TrimRight(n[:], "\x00")
	if len(b) == 0 || !utf8.Valid(b) || bytes.IndexByte(b, 0) >= 0 {
		return "", &bio.DeviceError{Op: "decode name", Err: fmt.Errorf("%w: name bytes %x", bio.ErrMalformed, n[:])}
	}
	return string(b), nil
}

func (n Name) String() string {
	s, err := n.Decode()
	if err != nil {
		return fmt.Sprintf("%x", n[:])
	}
	return s
}
