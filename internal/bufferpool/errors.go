package bufferpool

import (
	"errors"
	"fmt"
)

// Sentinel errors, checked with errors.Is. HashNotFound has no sentinel
// here: a missing index entry is modeled as a plain ok bool returned
// from the Page Index, never raised as an error.
var (
	ErrBufferExceeded = errors.New("bufferpool: no unpinned frame available")
	ErrPageNotPinned  = errors.New("bufferpool: unpin of a page with pinCnt == 0")
	ErrPagePinned     = errors.New("bufferpool: flush of a file with a pinned page")
	ErrBadBuffer      = errors.New("bufferpool: descriptor matched file while invalid")
)

// pageError decorates a sentinel with the offending (file, pageNo,
// frameNo) so a caller can log or print something actionable; it wraps
// the sentinel so errors.Is(err, ErrPagePinned) etc. still works.
type pageError struct {
	sentinel error
	file     string
	pageNo   uint32
	frameNo  int
}

func (e *pageError) Error() string {
	return fmt.Sprintf("%v: file=%q pageNo=%d frameNo=%d", e.sentinel, e.file, e.pageNo, e.frameNo)
}

func (e *pageError) Unwrap() error {
	return e.sentinel
}

func newPageError(sentinel error, file string, pageNo uint32, frameNo int) error {
	return &pageError{sentinel: sentinel, file: file, pageNo: pageNo, frameNo: frameNo}
}
