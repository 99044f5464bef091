package ftab

import "omegafs/bio"

// BlocksFor is the number of blocks needed to hold size bytes. An
// empty file still owns one block.
func BlocksFor(size int) int {
	n := (size + bio.BlockSize - 1) / bio.BlockSize
	if n == 0 {
		return 1
	}
	return n
}
