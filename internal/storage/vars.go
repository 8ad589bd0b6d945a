package storage

import "errors"

// Sizing constants for the on-disk page layout. A segment-per-gigabyte
// scheme keeps a segment offset within an int32.
const (
	OneKB = 1 << 10
	OneMB = 1 << 20
	OneGB = 1 << 30

	// PageSize is the fixed size of every page, in bytes.
	PageSize = 8 * OneKB

	// SegmentSize is the maximum size of one backing file before a
	// page number rolls over into the next segment file.
	SegmentSize = 1 * OneGB

	// PagesPerSegment is how many PageSize pages fit in one segment.
	PagesPerSegment = SegmentSize / PageSize
)

const (
	FileMode0644 = 0o644
	FileMode0755 = 0o755
)

var (
	ErrWrongSize  = errors.New("storage: buffer size != PageSize")
	ErrStorageIO  = errors.New("storage: I/O error")
	ErrBadPageNum = errors.New("storage: invalid page number")
)
