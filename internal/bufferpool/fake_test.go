package bufferpool

import (
	"fmt"

	"github.com/tuannm99/clockbuf/internal/storage"
)

// fakeFile is an in-memory PagedFile used to exercise the manager
// without touching disk. It also counts writes per page so tests can
// assert the clock evictor writes back exactly one page, not a whole
// file, on a dirty victim.
type fakeFile struct {
	name  string
	pages map[uint32][]byte
	next  uint32

	writeCount map[uint32]int
	deleted    map[uint32]bool
}

func newFakeFile(name string) *fakeFile {
	return &fakeFile{
		name:       name,
		pages:      make(map[uint32][]byte),
		writeCount: make(map[uint32]int),
		deleted:    make(map[uint32]bool),
	}
}

func (f *fakeFile) ReadPage(pageNo uint32) (*storage.Page, error) {
	buf := make([]byte, storage.PageSize)
	if existing, ok := f.pages[pageNo]; ok {
		copy(buf, existing)
	}
	return storage.NewPage(buf, pageNo)
}

func (f *fakeFile) WritePage(p *storage.Page) error {
	buf := make([]byte, storage.PageSize)
	copy(buf, p.Bytes())
	f.pages[p.PageNumber()] = buf
	f.writeCount[p.PageNumber()]++
	return nil
}

func (f *fakeFile) AllocatePage() (*storage.Page, error) {
	pageNo := f.next
	f.next++
	buf := make([]byte, storage.PageSize)
	return storage.NewPage(buf, pageNo)
}

func (f *fakeFile) DeletePage(pageNo uint32) error {
	delete(f.pages, pageNo)
	f.deleted[pageNo] = true
	return nil
}

func (f *fakeFile) Filename() string {
	return fmt.Sprintf("fake://%s", f.name)
}
