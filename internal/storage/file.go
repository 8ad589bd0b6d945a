package storage

import "sync"

// File is the on-disk paged file the buffer manager mediates access
// to: readPage, writePage, allocatePage, deletePage, filename.
//
// File owns its own page-count bookkeeping and a mutex. The buffer
// manager above it is single-threaded, but a File may be shared by
// more than one manager in a larger system, and keeping File safe to
// call concurrently costs nothing here.
type File struct {
	mu sync.Mutex

	sm *StorageManager
	fs LocalFileSet

	nextPageNo uint32
	counted    bool
}

// NewFile returns a handle on the paged file at dir/base. Nothing is
// opened or created here; the directory and segment files are created
// on first access.
func NewFile(dir, base string) *File {
	return &File{
		sm: NewStorageManager(),
		fs: LocalFileSet{Dir: dir, Base: base},
	}
}

func (f *File) ensureCounted() error {
	if f.counted {
		return nil
	}
	n, err := f.sm.CountPages(f.fs)
	if err != nil {
		return err
	}
	f.nextPageNo = n
	f.counted = true
	return nil
}

// ReadPage returns the in-memory image of pageNo, reading it from
// disk. A page number beyond what has ever been allocated reads back
// as a freshly zeroed page, matching StorageManager.LoadPage.
func (f *File) ReadPage(pageNo uint32) (*Page, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.sm.LoadPage(f.fs, pageNo)
}

// WritePage persists p at the segment offset for its own page number.
func (f *File) WritePage(p *Page) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.sm.SavePage(f.fs, p)
}

// AllocatePage assigns the next unused page number and returns a
// zeroed page stamped with it. The page is not yet on disk; the
// caller is expected to write it back once it has been populated.
func (f *File) AllocatePage() (*Page, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.ensureCounted(); err != nil {
		return nil, err
	}

	pageNo := f.nextPageNo
	f.nextPageNo++

	return NewPage(make([]byte, PageSize), pageNo)
}

// DeletePage removes pageNo's content from disk. Space is reclaimed
// logically, not physically: the page's bytes are zeroed in place.
// Physical compaction or reuse of the freed slot is out of scope; the
// buffer manager never inspects how a file reclaims deleted pages.
func (f *File) DeletePage(pageNo uint32) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	p, err := f.sm.LoadPage(f.fs, pageNo)
	if err != nil {
		return err
	}
	p.zero(pageNo)
	return f.sm.SavePage(f.fs, p)
}

// Filename returns the canonical identity of the underlying file set,
// used by the Page Index and FlushFile to compare files structurally
// rather than by Go pointer identity.
func (f *File) Filename() string {
	return f.fs.CanonicalPath()
}
