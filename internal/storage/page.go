package storage

import "encoding/binary"

// offPageNo is the byte offset of the page number stamped into every
// page's first four bytes. Keeping the identity inside the page (not
// just in the directory that points to it) lets LoadPage notice a
// page that has never been written and self-initialize it.
const offPageNo = 0

// Page is a fixed-size, page-number-addressable byte buffer. It
// carries no tuple or slot layout: that belongs to an access-method
// layer above the buffer pool, not here.
type Page struct {
	buf []byte
}

// NewPage wraps buf (which must be exactly PageSize bytes) as a page
// stamped with pageNo.
func NewPage(buf []byte, pageNo uint32) (*Page, error) {
	if len(buf) != PageSize {
		return nil, ErrWrongSize
	}
	p := &Page{buf: buf}
	p.setPageNo(pageNo)
	return p, nil
}

// PageNumber returns the page's identity.
func (p *Page) PageNumber() uint32 {
	return binary.LittleEndian.Uint32(p.buf[offPageNo:])
}

func (p *Page) setPageNo(v uint32) {
	binary.LittleEndian.PutUint32(p.buf[offPageNo:], v)
}

// Bytes returns the page's backing buffer. Mutating the returned
// slice mutates the page in place; callers are expected to hold a pin
// (see bufferpool.PinnedPage) while doing so.
func (p *Page) Bytes() []byte {
	return p.buf
}

// zero overwrites the page with zero bytes. Page deletion here is
// logical, not physical: bytes are cleared in place rather than the
// slot being reclaimed (see SPEC_FULL.md). The page number is stamped
// back into the cleared buffer.
func (p *Page) zero(pageNo uint32) {
	for i := range p.buf {
		p.buf[i] = 0
	}
	p.setPageNo(pageNo)
}

// isZero reports whether the page has never been written (an all-zero
// buffer), used by StorageManager.LoadPage to decide whether to stamp
// a freshly read page with its page number.
func (p *Page) isZero() bool {
	for _, b := range p.buf {
		if b != 0 {
			return false
		}
	}
	return true
}
