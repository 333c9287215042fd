// Package accesslog implements the AccessLog entity: an append-only,
// human-readable trace of every memory access attempt a subarray makes,
// successful or not, used for post-hoc inspection and regression testing.
package accesslog

// Log is an ordered, append-only sequence of access-attempt entries. The
// zero value is ready to use.
type Log struct {
	entries []string
}

// Append adds entry to the end of the log. The log holds a copy of the
// string, never a reference into a caller's buffer.
func (l *Log) Append(entry string) {
	l.entries = append(l.entries, entry)
}

// Len returns the number of entries recorded so far.
func (l *Log) Len() int { return len(l.entries) }

// Entries returns a copy of the log in invocation order.
func (l *Log) Entries() []string {
	out := make([]string, len(l.entries))
	copy(out, l.entries)
	return out
}

// Last returns the most recently appended entry and true, or "" and false
// if the log is empty.
func (l *Log) Last() (string, bool) {
	if len(l.entries) == 0 {
		return "", false
	}
	return l.entries[len(l.entries)-1], true
}

// Dump renders the log the way pimCore.cpp's printMemoryAccess does: one
// entry per line, bracketed by a header/footer banner.
func (l *Log) Dump() string {
	out := "\nRecorded Memory Accesses:\n"
	for _, e := range l.entries {
		out += e + "\n"
	}
	out += "\n"
	return out
}
