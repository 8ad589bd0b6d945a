package bufferpool

import (
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"
)

// pageKey is the Page Index's lookup key. File identity is a plain
// string (the collaborator's canonical filename), never a pointer, so
// two handles opened on the same path collide into the same bucket.
type pageKey struct {
	file   string
	pageNo uint32
}

type indexEntry struct {
	key     pageKey
	frameID int
}

// pageIndex is a fixed-bucket-count hash table with chaining, sized
// once at construction the way a fixed-size buffer pool sizes its
// companion structures once and never rehashes.
type pageIndex struct {
	buckets [][]indexEntry
}

// hashTableSize returns the smallest odd integer >= 1.2 * numBufs,
// trading a little memory for shorter collision chains.
func hashTableSize(numBufs int) int {
	n := int(math.Ceil(1.2 * float64(numBufs)))
	if n < 1 {
		n = 1
	}
	if n%2 == 0 {
		n++
	}
	return n
}

func newPageIndex(numBufs int) *pageIndex {
	return &pageIndex{buckets: make([][]indexEntry, hashTableSize(numBufs))}
}

func (pi *pageIndex) bucketFor(key pageKey) int {
	h := xxhash.New()
	_, _ = h.WriteString(key.file)
	var pn [4]byte
	binary.LittleEndian.PutUint32(pn[:], key.pageNo)
	_, _ = h.Write(pn[:])
	return int(h.Sum64() % uint64(len(pi.buckets)))
}

// lookup returns the frame id for (file, pageNo), and false if absent.
// This ok-bool is the index's entire contract with HashNotFound: there
// is no exception here for readPage/unPinPage/disposePage to catch.
func (pi *pageIndex) lookup(file string, pageNo uint32) (int, bool) {
	key := pageKey{file, pageNo}
	bucket := pi.buckets[pi.bucketFor(key)]
	for _, e := range bucket {
		if e.key == key {
			return e.frameID, true
		}
	}
	return 0, false
}

// insert records (file, pageNo) -> frameID. The key is assumed not
// already present; callers only insert after a confirmed lookup miss.
func (pi *pageIndex) insert(file string, pageNo uint32, frameID int) {
	key := pageKey{file, pageNo}
	b := pi.bucketFor(key)
	pi.buckets[b] = append(pi.buckets[b], indexEntry{key: key, frameID: frameID})
}

// remove deletes (file, pageNo) if present; removing an absent key is
// a silent no-op.
func (pi *pageIndex) remove(file string, pageNo uint32) {
	key := pageKey{file, pageNo}
	b := pi.bucketFor(key)
	entries := pi.buckets[b]
	for i, e := range entries {
		if e.key == key {
			pi.buckets[b] = append(entries[:i], entries[i+1:]...)
			return
		}
	}
}
