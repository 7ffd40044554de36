package memengine

// lineRing is a fixed-capacity circular buffer of terminal lines.
//
// # How It Works
//
// Lines are stored in a slice that wraps around. start points at the
// oldest line and size counts the lines held. The newest line is the
// one the write pipeline mutates; pushing a line once the ring is full
// overwrites the oldest.
//
// The ring always holds at least one line so the cursor has a line to
// sit on.
//
// # Thread Safety
//
// lineRing is not safe for concurrent use. The engine guards it with
// its own mutex.
type lineRing struct {
	buf   []string
	start int
	size  int
}

// newLineRing creates a ring holding up to capacity lines, seeded with
// a single empty line.
func newLineRing(capacity int) *lineRing {
	if capacity < 1 {
		capacity = 1
	}
	r := &lineRing{buf: make([]string, capacity)}
	r.push("")
	return r
}

// push appends a line, dropping the oldest once the ring is full.
func (r *lineRing) push(line string) {
	if r.size < len(r.buf) {
		r.buf[(r.start+r.size)%len(r.buf)] = line
		r.size++
		return
	}
	r.buf[r.start] = line
	r.start = (r.start + 1) % len(r.buf)
}

// at returns the line at index i, counted from the oldest line.
func (r *lineRing) at(i int) string {
	return r.buf[(r.start+i)%len(r.buf)]
}

// last returns the newest line.
func (r *lineRing) last() string {
	return r.at(r.size - 1)
}

// setLast replaces the newest line.
func (r *lineRing) setLast(line string) {
	r.buf[(r.start+r.size-1)%len(r.buf)] = line
}

// appendToLast extends the newest line.
func (r *lineRing) appendToLast(s string) {
	idx := (r.start + r.size - 1) % len(r.buf)
	r.buf[idx] += s
}

// len returns the number of lines held.
func (r *lineRing) len() int {
	return r.size
}

// reset empties the ring back to a single empty line.
func (r *lineRing) reset() {
	for i := range r.buf {
		r.buf[i] = ""
	}
	r.start = 0
	r.size = 0
	r.push("")
}
