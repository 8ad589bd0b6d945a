package bufferpool

// frameDescriptor is the per-frame residency record. valid=false means
// every other field is meaningless; the zero value is exactly the
// empty state.
type frameDescriptor struct {
	frameNo int

	valid  bool
	file   string
	pageNo uint32

	pinCnt int
	dirty  bool
	refbit bool
}

// clear resets the descriptor to its empty state without touching
// frameNo, which is immutable for the lifetime of the table.
func (d *frameDescriptor) clear() {
	d.valid = false
	d.file = ""
	d.pageNo = 0
	d.pinCnt = 0
	d.dirty = false
	d.refbit = false
}

// set installs a fresh occupant: valid, pinned once, no second chance
// yet, clean. Callers populate bufPool[frameNo] themselves before or
// after calling set; the descriptor carries no bytes.
func (d *frameDescriptor) set(file string, pageNo uint32) {
	d.valid = true
	d.file = file
	d.pageNo = pageNo
	d.pinCnt = 1
	d.dirty = false
	d.refbit = false
}

func newDescriptorTable(n int) []frameDescriptor {
	table := make([]frameDescriptor, n)
	for i := range table {
		table[i].frameNo = i
	}
	return table
}
