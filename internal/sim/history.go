package sim

// History is a bounded ring of snapshots, oldest first.
type History struct {
	buf   []Snapshot
	start int
	size  int
}

func NewHistory(limit int) *History {
	if limit < 1 {
		limit = 1
	}
	return &History{buf: make([]Snapshot, limit)}
}

func (h *History) Push(s Snapshot) {
	if h.size < len(h.buf) {
		h.buf[(h.start+h.size)%len(h.buf)] = s
		h.size++
		return
	}
	h.buf[h.start] = s
	h.start = (h.start + 1) % len(h.buf)
}

func (h *History) Len() int { return h.size }

func (h *History) Cap() int { return len(h.buf) }

// At returns the i-th retained snapshot, 0 being the oldest.
func (h *History) At(i int) (Snapshot, bool) {
	if i < 0 || i >= h.size {
		return Snapshot{}, false
	}
	return h.buf[(h.start+i)%len(h.buf)], true
}

func (h *History) Latest() (Snapshot, bool) {
	return h.At(h.size - 1)
}

func (h *History) Clear() {
	clear(h.buf)
	h.start = 0
	h.size = 0
}
