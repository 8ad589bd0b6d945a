package bufferpool

import "github.com/tuannm99/clockbuf/internal/storage"

// PagedFile is the file collaborator the buffer manager mediates
// access to. Open/close is the caller's problem; the five operations
// below (read, write, allocate, delete, and a stable identity) are
// everything the manager asks of it.
type PagedFile interface {
	ReadPage(pageNo uint32) (*storage.Page, error)
	WritePage(p *storage.Page) error
	AllocatePage() (*storage.Page, error)
	DeletePage(pageNo uint32) error
	// Filename returns a canonical identifier for this file, compared
	// structurally rather than by Go pointer identity: two PagedFile
	// values opened on the same underlying file must return the same
	// string so the Page Index and FlushFile see them as one file.
	Filename() string
}
