package fs

import (
	"errors"

	"omegafs/balloc"
	"omegafs/ftab"
)

// Errors returned at the file API. Device-level failures come back as
// a *bio.DeviceError.
var (
	ErrNameTooLong = ftab.ErrNameTooLong
	ErrInvalidName = ftab.ErrInvalidName
	ErrNameInUse   = ftab.ErrNameInUse
	ErrNotFound    = ftab.ErrNotFound
	ErrNoSpace     = balloc.ErrNoSpace

	// ErrDeviceBusy is only returned by TryAcquire.
	ErrDeviceBusy   = errors.New("device busy")
	ErrNotFormatted = errors.New("device not formatted")
	ErrReleased     = errors.New("device guard already released")
)
