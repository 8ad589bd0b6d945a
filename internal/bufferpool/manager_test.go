package bufferpool

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestManager_AllocWriteUnpinFlushReadBack(t *testing.T) {
	mgr, err := NewBufferManager(3)
	require.NoError(t, err)
	f := newFakeFile("F")

	pageNo, p, err := mgr.AllocPage(f)
	require.NoError(t, err)
	require.Equal(t, uint32(0), pageNo)
	copy(p.Bytes()[4:], []byte("A"))

	require.NoError(t, mgr.UnpinPage(f, pageNo, true))
	require.NoError(t, mgr.FlushFile(f))

	q, err := mgr.ReadPage(f, pageNo)
	require.NoError(t, err)
	require.Equal(t, byte('A'), q.Bytes()[4])

	valid := 0
	for i := range mgr.desc {
		if mgr.desc[i].valid {
			valid++
		}
	}
	require.Equal(t, 1, valid)

	frameID, ok := mgr.index.lookup(f.Filename(), pageNo)
	require.True(t, ok)
	require.Equal(t, 1, mgr.desc[frameID].pinCnt)
}

func TestManager_BufferExceeded(t *testing.T) {
	mgr, err := NewBufferManager(3)
	require.NoError(t, err)
	f := newFakeFile("F")

	_, err = mgr.ReadPage(f, 0)
	require.NoError(t, err)
	_, err = mgr.ReadPage(f, 1)
	require.NoError(t, err)
	_, err = mgr.ReadPage(f, 2)
	require.NoError(t, err)

	_, err = mgr.ReadPage(f, 3)
	require.ErrorIs(t, err, ErrBufferExceeded)
}

func TestManager_ClockSkipsPinnedPicksUnreferencedVictim(t *testing.T) {
	mgr, err := NewBufferManager(3)
	require.NoError(t, err)
	f := newFakeFile("F")

	// Frame 0 <- (F,0), left pinned, refbit false (never re-read).
	_, err = mgr.ReadPage(f, 0)
	require.NoError(t, err)

	// Frame 1 <- (F,1), unpinned, clean.
	_, err = mgr.ReadPage(f, 1)
	require.NoError(t, err)
	require.NoError(t, mgr.UnpinPage(f, 1, false))

	// Frame 2 <- (F,2), unpinned, refbit set by a second read+unpin.
	_, err = mgr.ReadPage(f, 2)
	require.NoError(t, err)
	require.NoError(t, mgr.UnpinPage(f, 2, false))
	_, err = mgr.ReadPage(f, 2) // hit: sets refbit
	require.NoError(t, err)
	require.NoError(t, mgr.UnpinPage(f, 2, false))

	victimFrame, ok := mgr.index.lookup(f.Filename(), 1)
	require.True(t, ok)

	_, err = mgr.ReadPage(f, 3)
	require.NoError(t, err)

	newFrame, ok := mgr.index.lookup(f.Filename(), 3)
	require.True(t, ok)
	require.Equal(t, victimFrame, newFrame)

	_, ok = mgr.index.lookup(f.Filename(), 0)
	require.True(t, ok, "pinned page must survive eviction")
	_, ok = mgr.index.lookup(f.Filename(), 2)
	require.True(t, ok, "page whose refbit was set at sweep start must survive")
}

func TestManager_DirtyVictimWrittenBackSinglePage(t *testing.T) {
	mgr, err := NewBufferManager(3)
	require.NoError(t, err)
	f := newFakeFile("F")

	letters := []byte{'X', 'Y', 'Z'}
	for i := uint32(0); i < 3; i++ {
		p, err := mgr.ReadPage(f, i)
		require.NoError(t, err)
		p.Bytes()[4] = letters[i]
		require.NoError(t, mgr.UnpinPage(f, i, true))
	}

	q, err := mgr.ReadPage(f, 3)
	require.NoError(t, err)
	require.NotNil(t, q)

	total := 0
	for _, n := range f.writeCount {
		total += n
	}
	require.Equal(t, 1, total, "eviction must write back exactly one page")

	for pageNo, letter := range map[uint32]byte{0: 'X', 1: 'Y', 2: 'Z'} {
		if f.writeCount[pageNo] == 1 {
			got, err := mgr.ReadPage(f, pageNo)
			require.NoError(t, err)
			require.Equal(t, letter, got.Bytes()[4])
		}
	}
}

func TestManager_UnpinBeyondZeroFails(t *testing.T) {
	mgr, err := NewBufferManager(3)
	require.NoError(t, err)
	f := newFakeFile("F")

	_, err = mgr.ReadPage(f, 0)
	require.NoError(t, err)
	require.NoError(t, mgr.UnpinPage(f, 0, false))

	err = mgr.UnpinPage(f, 0, false)
	require.ErrorIs(t, err, ErrPageNotPinned)
}

func TestManager_UnpinMissingPageIsNoOp(t *testing.T) {
	mgr, err := NewBufferManager(3)
	require.NoError(t, err)
	f := newFakeFile("F")

	require.NoError(t, mgr.UnpinPage(f, 99, false))
}

func TestManager_FlushFilePinnedFailsAndLeavesStateUnchanged(t *testing.T) {
	mgr, err := NewBufferManager(3)
	require.NoError(t, err)
	f := newFakeFile("F")

	_, err = mgr.ReadPage(f, 0)
	require.NoError(t, err)

	err = mgr.FlushFile(f)
	require.ErrorIs(t, err, ErrPagePinned)

	frameID, ok := mgr.index.lookup(f.Filename(), 0)
	require.True(t, ok)
	require.Equal(t, 1, mgr.desc[frameID].pinCnt)
	require.True(t, mgr.desc[frameID].valid)
}

func TestManager_DisposePageIdempotent(t *testing.T) {
	mgr, err := NewBufferManager(3)
	require.NoError(t, err)
	f := newFakeFile("F")

	_, err = mgr.ReadPage(f, 0)
	require.NoError(t, err)
	require.NoError(t, mgr.UnpinPage(f, 0, false))

	require.NoError(t, mgr.DisposePage(f, 0))
	require.True(t, f.deleted[0])

	require.NoError(t, mgr.DisposePage(f, 0))

	_, ok := mgr.index.lookup(f.Filename(), 0)
	require.False(t, ok)
}

func TestManager_NumBufsZeroRejected(t *testing.T) {
	_, err := NewBufferManager(0)
	require.Error(t, err)
}

func TestManager_PinHandleReleaseIsIdempotent(t *testing.T) {
	mgr, err := NewBufferManager(2)
	require.NoError(t, err)
	f := newFakeFile("F")

	pp, err := mgr.PinNew(f)
	require.NoError(t, err)
	pp.Page().Bytes()[4] = 'Q'

	require.NoError(t, pp.Release(true))
	require.NoError(t, pp.Release(true)) // second release is a no-op

	frameID, ok := mgr.index.lookup(f.Filename(), pp.PageNumber())
	require.True(t, ok)
	require.Equal(t, 0, mgr.desc[frameID].pinCnt)
}

func TestManager_ErrorsAreWrappedSentinels(t *testing.T) {
	mgr, err := NewBufferManager(1)
	require.NoError(t, err)
	f := newFakeFile("F")

	_, err = mgr.ReadPage(f, 0)
	require.NoError(t, err)
	err = mgr.FlushFile(f)
	require.True(t, errors.Is(err, ErrPagePinned))
	require.Contains(t, err.Error(), "pageNo=0")
}
