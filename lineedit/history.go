package lineedit

// History is a list of previously entered lines with a navigation cursor in
// [0, Count()]. A cursor equal to Count() points past the newest entry.
type History struct {
	entries        []string
	capacity       int
	cursor         int
	skipDuplicates bool
}

// HistoryOption configures a History.
type HistoryOption func(*History)

// SkipDuplicates makes Add ignore empty lines and repeats of the newest entry.
func SkipDuplicates() HistoryOption {
	return func(h *History) { h.skipDuplicates = true }
}

// NewHistory returns an empty history holding at most capacity entries.
// A capacity of 0 means unbounded. Every added line is stored unless
// SkipDuplicates is given.
func NewHistory(capacity int, opts ...HistoryOption) *History {
	h := &History{capacity: max(capacity, 0)}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *History) Count() int  { return len(h.entries) }
func (h *History) Cursor() int { return h.cursor }

// Add appends line, evicting the oldest entries beyond capacity, and resets
// the cursor past the newest entry.
func (h *History) Add(line string) {
	if !h.skips(line) {
		h.entries = append(h.entries, line)
		if h.capacity > 0 && len(h.entries) > h.capacity {
			h.entries = append(h.entries[:0], h.entries[len(h.entries)-h.capacity:]...)
		}
	}
	h.cursor = len(h.entries)
}

func (h *History) skips(line string) bool {
	if !h.skipDuplicates {
		return false
	}
	return line == "" || (len(h.entries) > 0 && h.entries[len(h.entries)-1] == line)
}

// MoveCursor moves the cursor relative to origin. It returns false, leaving
// the cursor alone, if the target is outside [0, Count()].
func (h *History) MoveCursor(origin SeekOrigin, offset int) bool {
	target, ok := seek(origin, offset, h.cursor, len(h.entries))
	if ok {
		h.cursor = target
	}
	return ok
}

// Current returns the entry under the cursor; false when past the newest entry.
func (h *History) Current() (string, bool) {
	if h.cursor >= len(h.entries) {
		return "", false
	}
	return h.entries[h.cursor], true
}

// Entries returns the entries, oldest first.
func (h *History) Entries() []string {
	return append([]string(nil), h.entries...)
}
