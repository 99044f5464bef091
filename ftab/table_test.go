package ftab

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"omegafs/bio"
)

// Tests the table api:
//	-> Create, Find, AllocateAdditional, Release, Remove, Names, Check

// Partitions:
//	-> Create
//		-> name: 1 byte, 16 bytes, 17 bytes (=FAIL), empty (=FAIL)
//		-> name already live (=FAIL), name live then removed
//		-> free list: has blocks, empty (=FAIL)
//	-> Find
//		-> exact match, prefix of a live name, extension of a live name
//	-> Remove
//		-> live, absent (=FAIL)
//	-> Names
//		-> empty table, after removal from the middle

func mkName(t *testing.T, s string) Name {
	n, err := MkName(s)
	require.NoError(t, err)
	return n
}

// Covers:
//	-> create/name/1 byte, 16 bytes
//	-> create/free/has blocks
func TestCreate(tt *testing.T) {
	t := New(4)
	e, err := t.Create("a")
	require.NoError(tt, err)

	expect := Entry{
		Name:   mkName(tt, "a"),
		Blocks: []bio.BlockID{3},
		Size:   0,
	}
	if !cmp.Equal(expect, *e) {
		tt.Errorf("didn't get right entry, got %v/wanted %v\n", *e, expect)
	}

	_, err = t.Create(strings.Repeat("x", NameLen))
	require.NoError(tt, err)
	require.Equal(tt, 1, t.FreeCount())
	require.NoError(tt, t.Check())
}

// Covers:
//	-> create/name/17 bytes, empty
//	-> create/name/live
func TestCreateRejects(tt *testing.T) {
	t := New(8)
	_, err := t.Create("dup")
	require.NoError(tt, err)
	before := t.FreeList()

	_, err = t.Create(strings.Repeat("x", NameLen+1))
	require.ErrorIs(tt, err, ErrNameTooLong)

	_, err = t.Create("")
	require.ErrorIs(tt, err, ErrInvalidName)

	_, err = t.Create("nul\x00byte")
	require.ErrorIs(tt, err, ErrInvalidName)

	_, err = t.Create("dup")
	require.ErrorIs(tt, err, ErrNameInUse)

	if diff := cmp.Diff(before, t.FreeList()); diff != "" {
		tt.Errorf("failed creates touched the free list (-want +got):\n%s", diff)
	}
	require.Equal(tt, 1, t.Len())
}

// Covers:
//	-> create/free/empty
func TestExhaustion(tt *testing.T) {
	const usable = 5
	t := New(usable + 1)
	for i := 0; i < usable; i++ {
		_, err := t.Create(string(rune('a' + i)))
		require.NoError(tt, err)
	}

	_, err := t.Create("z")
	require.ErrorIs(tt, err, ErrNoSpace)
	require.Equal(tt, usable, t.Len())
	require.Nil(tt, t.Find("z"))
	require.NoError(tt, t.Check())
}

// Covers:
//	-> find/exact, prefix, extension
func TestFindExactOnly(tt *testing.T) {
	t := New(8)
	_, err := t.Create("notes")
	require.NoError(tt, err)

	require.NotNil(tt, t.Find("notes"))
	require.Nil(tt, t.Find("note"))
	require.Nil(tt, t.Find("notes2"))
	require.Nil(tt, t.Find(""))
	require.Nil(tt, t.Find(strings.Repeat("n", 40)))
}

// Covers:
//	-> remove/live, absent
//	-> create/name/live then removed
func TestRemoveAndReuse(tt *testing.T) {
	t := New(4)
	e, err := t.Create("a")
	require.NoError(tt, err)
	more, err := t.AllocateAdditional(1)
	require.NoError(tt, err)
	e.Blocks = append(e.Blocks, more...)

	blks, err := t.Remove("a")
	require.NoError(tt, err)
	require.Equal(tt, []bio.BlockID{3, 2}, blks)
	require.NoError(tt, t.Release(blks))
	require.Equal(tt, 3, t.FreeCount())

	_, err = t.Remove("a")
	require.ErrorIs(tt, err, ErrNotFound)

	// most recently freed block comes back first
	e, err = t.Create("a")
	require.NoError(tt, err)
	require.Equal(tt, []bio.BlockID{2}, e.Blocks)
	require.NoError(tt, t.Check())
}

func TestAllocateAdditionalAtomic(tt *testing.T) {
	t := New(4)
	_, err := t.Create("a")
	require.NoError(tt, err)

	_, err = t.AllocateAdditional(3)
	require.True(tt, errors.Is(err, ErrNoSpace))
	require.Equal(tt, 2, t.FreeCount())
}

// Covers:
//	-> names/empty, removal from the middle
func TestNamesOrder(tt *testing.T) {
	t := New(8)
	names, err := t.Names()
	require.NoError(tt, err)
	require.Empty(tt, names)

	for _, n := range []string{"c", "a", "b"} {
		_, err := t.Create(n)
		require.NoError(tt, err)
	}
	blks, err := t.Remove("a")
	require.NoError(tt, err)
	require.NoError(tt, t.Release(blks))

	names, err = t.Names()
	require.NoError(tt, err)
	if diff := cmp.Diff([]string{"c", "b"}, names); diff != "" {
		tt.Errorf("names (-want +got):\n%s", diff)
	}
}

func TestCheckCatchesCorruption(tt *testing.T) {
	t := New(6)
	a, _ := t.Create("a")
	b, _ := t.Create("b")
	require.NoError(tt, t.Check())

	// shared block
	b.Blocks = append(b.Blocks, a.Blocks[0])
	require.ErrorIs(tt, t.Check(), ErrCorrupt)
	b.Blocks = b.Blocks[:1]

	// leaked block
	leaked, _ := t.AllocateAdditional(1)
	require.ErrorIs(tt, t.Check(), ErrCorrupt)
	require.NoError(tt, t.Release(leaked))

	// oversize
	a.Size = bio.BlockSize + 1
	require.ErrorIs(tt, t.Check(), ErrCorrupt)
	a.Size = 0

	// duplicate name
	b.Name = a.Name
	require.ErrorIs(tt, t.Check(), ErrCorrupt)
}

func TestNameDecode(tt *testing.T) {
	n := mkName(tt, "héllo")
	s, err := n.Decode()
	require.NoError(tt, err)
	require.Equal(tt, "héllo", s)

	bad := Name{0xff, 0xfe}
	_, err = bad.Decode()
	require.ErrorIs(tt, err, bio.ErrMalformed)

	_, err = Name{}.Decode()
	require.ErrorIs(tt, err, bio.ErrMalformed)
}

func TestBlocksFor(tt *testing.T) {
	for size, want := range map[int]int{0: 1, 1: 1, 512: 1, 513: 2, 600: 2, 1024: 2, 1025: 3} {
		require.Equal(tt, want, BlocksFor(size), "size %d", size)
	}
}
