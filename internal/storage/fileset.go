package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/tuannm99/clockbuf/pkg/util"
)

// FileSet addresses the segment files backing one logical paged file.
// Segments are stored as: Base, Base.1, Base.2, ... so a single
// logical file can grow past one OS file without bumping into
// filesystem size limits.
type FileSet interface {
	OpenSegment(segNo int32) (*os.File, error)
	// CanonicalPath identifies the FileSet structurally (by resolved
	// path), not by pointer/handle identity, so two FileSet values
	// opened on the same directory+base resolve to the same Page
	// Index entries.
	CanonicalPath() string
}

var _ FileSet = (*LocalFileSet)(nil)

// LocalFileSet is a local directory + base file name.
type LocalFileSet struct {
	Dir  string
	Base string
}

func (lfs LocalFileSet) OpenSegment(segNo int32) (*os.File, error) {
	name := lfs.Base
	if segNo > 0 {
		name = fmt.Sprintf("%s.%d", lfs.Base, segNo)
	}
	path := filepath.Join(lfs.Dir, name)
	if err := os.MkdirAll(lfs.Dir, FileMode0755); err != nil {
		return nil, err
	}
	return os.OpenFile(path, os.O_RDWR|os.O_CREATE, FileMode0644)
}

func (lfs LocalFileSet) CanonicalPath() string {
	abs, err := filepath.Abs(filepath.Join(lfs.Dir, lfs.Base))
	if err != nil {
		// Dir/Base is already the best identity we have.
		return filepath.Join(lfs.Dir, lfs.Base)
	}
	return abs
}

// StorageManager maps a logical page number to a (segment, offset)
// pair and performs the raw byte-level reads/writes. It has no notion
// of pinning, caching, or eviction; that belongs entirely to the
// buffer manager that sits above it.
type StorageManager struct{}

func NewStorageManager() *StorageManager {
	return &StorageManager{}
}

func (sm *StorageManager) locate(pageNo uint32) (segNo int32, offset int64) {
	segNo = int32(pageNo / PagesPerSegment)
	pageInSeg := pageNo % PagesPerSegment
	offset = int64(pageInSeg) * PageSize
	return segNo, offset
}

// ReadPage reads exactly one page (PageSize bytes) into dst. If the
// underlying segment is shorter than offset+PageSize, the remainder
// is zero-filled, so a page that was never written reads back as all
// zero rather than erroring.
func (sm *StorageManager) ReadPage(fs FileSet, pageNo uint32, dst []byte) error {
	if len(dst) != PageSize {
		return ErrWrongSize
	}
	segNo, off := sm.locate(pageNo)
	f, err := fs.OpenSegment(segNo)
	if err != nil {
		return err
	}
	defer util.CloseFileFunc(f)

	n, err := f.ReadAt(dst, off)
	if err != nil && err != io.EOF {
		return err
	}
	for i := n; i < PageSize; i++ {
		dst[i] = 0
	}
	return nil
}

// WritePage writes exactly one page (PageSize bytes) from src at the
// segment offset computed from pageNo.
func (sm *StorageManager) WritePage(fs FileSet, pageNo uint32, src []byte) error {
	if len(src) != PageSize {
		return ErrWrongSize
	}
	segNo, off := sm.locate(pageNo)
	f, err := fs.OpenSegment(segNo)
	if err != nil {
		return err
	}
	defer util.CloseFileFunc(f)

	n, err := f.WriteAt(src, off)
	if err != nil {
		return err
	}
	if n != PageSize {
		return io.ErrShortWrite
	}
	return nil
}

// LoadPage reads pageNo into memory. A page whose on-disk bytes are
// still all zero is treated as never-written and stamped with its
// page number on the way out, the same lazy-initialization the
// teacher's StorageManager.LoadPage performs.
func (sm *StorageManager) LoadPage(fs FileSet, pageNo uint32) (*Page, error) {
	buf := make([]byte, PageSize)
	if err := sm.ReadPage(fs, pageNo, buf); err != nil {
		return nil, err
	}
	p := &Page{buf: buf}
	if p.isZero() {
		p.setPageNo(pageNo)
	}
	return p, nil
}

// SavePage writes p back to its own page number's location.
func (sm *StorageManager) SavePage(fs FileSet, p *Page) error {
	return sm.WritePage(fs, p.PageNumber(), p.buf)
}

// CountPages scans the segments of fs in order and returns the total
// number of whole pages stored, used by File.AllocatePage to assign
// the next fresh page number. OpenSegment creates a missing segment,
// so the scan stops at the first empty segment rather than waiting
// for a "not exist" error.
func (sm *StorageManager) CountPages(fs FileSet) (uint32, error) {
	var total uint32

	for segNo := int32(0); ; segNo++ {
		f, err := fs.OpenSegment(segNo)
		if err != nil {
			if os.IsNotExist(err) {
				break
			}
			return 0, err
		}

		info, statErr := f.Stat()
		_ = f.Close()
		if statErr != nil {
			return 0, statErr
		}

		if info.Size() <= 0 {
			break
		}
		total += uint32(info.Size() / PageSize)
	}

	return total, nil
}
