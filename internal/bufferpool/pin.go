package bufferpool

import "github.com/tuannm99/clockbuf/internal/storage"

// PinnedPage is a scoped handle over a pinned frame. It exists so
// callers don't have to carry (file, pageNo) alongside every pointer
// dereference just to unpin correctly later; Release is safe to call
// more than once, and a deferred Release is the idiomatic way to use
// one.
//
// The byte slice returned by Page().Bytes() aliases the pool directly.
// It must not be read or written after Release: once the pin count
// reaches zero the frame becomes eligible for reuse by the evictor.
type PinnedPage struct {
	mgr    *BufferManager
	file   PagedFile
	pageNo uint32
	page   *storage.Page

	released bool
}

// Pin reads (or faults in) file's pageNo and returns a handle holding
// one pin on it.
func (m *BufferManager) Pin(file PagedFile, pageNo uint32) (*PinnedPage, error) {
	p, err := m.ReadPage(file, pageNo)
	if err != nil {
		return nil, err
	}
	return &PinnedPage{mgr: m, file: file, pageNo: pageNo, page: p}, nil
}

// PinNew allocates a fresh page in file and returns a handle holding
// one pin on it, along with the assigned page number.
func (m *BufferManager) PinNew(file PagedFile) (*PinnedPage, error) {
	pageNo, p, err := m.AllocPage(file)
	if err != nil {
		return nil, err
	}
	return &PinnedPage{mgr: m, file: file, pageNo: pageNo, page: p}, nil
}

// Page returns the pinned in-memory page. Valid only until Release.
func (pp *PinnedPage) Page() *storage.Page {
	return pp.page
}

// PageNumber returns the pinned page's number.
func (pp *PinnedPage) PageNumber() uint32 {
	return pp.pageNo
}

// Release gives up the pin, marking the frame dirty if dirty is true.
// Calling Release more than once is a no-op after the first.
func (pp *PinnedPage) Release(dirty bool) error {
	if pp.released {
		return nil
	}
	pp.released = true
	return pp.mgr.UnpinPage(pp.file, pp.pageNo, dirty)
}
