package bufferpool

import (
	"fmt"
	"strings"
	"sync"

	"github.com/tuannm99/clockbuf/internal/storage"
)

// BufferManager is the in-memory page cache sitting between callers
// and a PagedFile. It owns a fixed-size pool of page-sized frames, a
// parallel descriptor table, a (file, pageNo) -> frame index, and a
// clock evictor, and exposes the five operations that keep all of
// those consistent under arbitrary call interleavings.
//
// Public operations take a single coarse lock; the manager does not
// attempt finer-grained concurrency, matching a single-threaded,
// synchronous cache.
type BufferManager struct {
	mu sync.Mutex

	desc    []frameDescriptor
	pool    [][]byte
	index   *pageIndex
	evictor *clockEvictor

	// files maps a canonical filename to the PagedFile handle last
	// seen for it, so eviction and FlushFile can write back through
	// it without the caller passing a handle along with every frame.
	files map[string]PagedFile
}

// NewBufferManager allocates a pool of numBufs frames. numBufs must be
// at least 1.
func NewBufferManager(numBufs int) (*BufferManager, error) {
	if numBufs < 1 {
		return nil, fmt.Errorf("bufferpool: numBufs must be >= 1, got %d", numBufs)
	}

	desc := newDescriptorTable(numBufs)
	pool := make([][]byte, numBufs)
	for i := range pool {
		pool[i] = make([]byte, storage.PageSize)
	}

	m := &BufferManager{
		desc:  desc,
		pool:  pool,
		index: newPageIndex(numBufs),
		files: make(map[string]PagedFile),
	}
	m.evictor = newClockEvictor(m.desc, m.index, m.writeBackFrame)
	return m, nil
}

func (m *BufferManager) registerFile(file PagedFile) string {
	name := file.Filename()
	m.files[name] = file
	return name
}

func (m *BufferManager) pageAt(frameID int) (*storage.Page, error) {
	return storage.NewPage(m.pool[frameID], m.desc[frameID].pageNo)
}

// writeBackFrame persists only bufPool[frameID]'s bytes, never the
// rest of its file. This is the single-page write-back the clock
// algorithm requires on a dirty victim.
func (m *BufferManager) writeBackFrame(file string, frameID int) error {
	f, ok := m.files[file]
	if !ok {
		return fmt.Errorf("bufferpool: no registered handle for file %q", file)
	}
	p, err := storage.NewPage(m.pool[frameID], m.desc[frameID].pageNo)
	if err != nil {
		return err
	}
	return f.WritePage(p)
}

// ReadPage returns a pinned, stable reference to (file, pageNo)'s
// in-memory image, reading it in on a miss.
func (m *BufferManager) ReadPage(file PagedFile, pageNo uint32) (*storage.Page, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	name := m.registerFile(file)

	if frameID, ok := m.index.lookup(name, pageNo); ok {
		d := &m.desc[frameID]
		d.pinCnt++
		d.refbit = true
		return m.pageAt(frameID)
	}

	frameID, err := m.evictor.allocBuf()
	if err != nil {
		return nil, err
	}

	p, err := file.ReadPage(pageNo)
	if err != nil {
		// allocBuf already left frameID invalid and unindexed; I1/I4
		// hold without further cleanup.
		return nil, err
	}
	copy(m.pool[frameID], p.Bytes())

	m.desc[frameID].set(name, pageNo)
	m.index.insert(name, pageNo, frameID)

	return m.pageAt(frameID)
}

// AllocPage asks file for a brand new page, places it in a fresh
// pinned frame, and returns both the assigned page number and a
// reference to its in-memory image.
func (m *BufferManager) AllocPage(file PagedFile) (uint32, *storage.Page, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	name := m.registerFile(file)

	frameID, err := m.evictor.allocBuf()
	if err != nil {
		return 0, nil, err
	}

	p, err := file.AllocatePage()
	if err != nil {
		return 0, nil, err
	}
	copy(m.pool[frameID], p.Bytes())

	m.desc[frameID].set(name, p.PageNumber())
	m.index.insert(name, p.PageNumber(), frameID)

	page, err := m.pageAt(frameID)
	if err != nil {
		return 0, nil, err
	}
	return p.PageNumber(), page, nil
}

// UnpinPage releases one pin on (file, pageNo). A page not currently
// resident is a silent no-op, matching the intended idempotent
// behavior rather than surfacing the internal index-miss case to
// callers. dirty only ever sets the dirty bit; it is never cleared
// here.
func (m *BufferManager) UnpinPage(file PagedFile, pageNo uint32, dirty bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	name := m.registerFile(file)

	frameID, ok := m.index.lookup(name, pageNo)
	if !ok {
		return nil
	}

	d := &m.desc[frameID]
	if d.pinCnt == 0 {
		return newPageError(ErrPageNotPinned, name, pageNo, frameID)
	}
	d.pinCnt--
	if dirty {
		d.dirty = true
	}
	return nil
}

// DisposePage removes (file, pageNo) from memory, if resident, and
// then asks the file to delete it from disk. A page not resident in
// memory is not an error; the delete still proceeds.
func (m *BufferManager) DisposePage(file PagedFile, pageNo uint32) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	name := m.registerFile(file)

	if frameID, ok := m.index.lookup(name, pageNo); ok {
		m.desc[frameID].clear()
		m.index.remove(name, pageNo)
	}

	return file.DeletePage(pageNo)
}

// FlushFile writes back every dirty frame belonging to file and
// invalidates every frame of file, dirty or clean. It fails without mutating anything if any frame
// of file is still pinned.
func (m *BufferManager) FlushFile(file PagedFile) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	name := m.registerFile(file)

	for i := range m.desc {
		d := &m.desc[i]
		if d.file != name {
			continue
		}
		if d.pinCnt > 0 {
			return newPageError(ErrPagePinned, name, d.pageNo, i)
		}
	}

	for i := range m.desc {
		d := &m.desc[i]
		if d.file != name {
			continue
		}
		if !d.valid {
			return newPageError(ErrBadBuffer, name, d.pageNo, i)
		}
		if d.dirty {
			if err := m.writeBackFrame(name, i); err != nil {
				return err
			}
			d.dirty = false
		}
		m.index.remove(name, d.pageNo)
		d.clear()
	}

	return nil
}

// PrintSelf renders the descriptor table for diagnostics. It has no
// side effects on manager state.
func (m *BufferManager) PrintSelf() string {
	m.mu.Lock()
	defer m.mu.Unlock()

	var sb strings.Builder
	valid := 0
	for i := range m.desc {
		d := &m.desc[i]
		if d.valid {
			valid++
		}
		fmt.Fprintf(&sb, "frame %d: valid=%t file=%q pageNo=%d pinCnt=%d dirty=%t refbit=%t\n",
			d.frameNo, d.valid, d.file, d.pageNo, d.pinCnt, d.dirty, d.refbit)
	}
	fmt.Fprintf(&sb, "valid frames: %d/%d\n", valid, len(m.desc))
	return sb.String()
}
