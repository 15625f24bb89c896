package store

import "fmt"

// Display numbers shown to the user are positions inside a filtered, possibly
// reversed view of the backing file. They are recomputed from the current
// line list on every invocation and mapped back to absolute indices before
// any mutation; nothing here is cached or persisted.

// Predicate selects lines for a view based on their decoded form.
type Predicate func(Record) bool

// Entry pairs a 1-based display number with the absolute position of the
// line in the full line list.
type Entry struct {
	N     int
	Index int
}

// FilteredIndices returns the absolute indices, in file order, of every line
// matching pred.
func FilteredIndices(lines []string, pred Predicate) []int {
	var out []int
	for i, line := range lines {
		if pred(Parse(line)) {
			out = append(out, i)
		}
	}
	return out
}

// DisplayNumbering assigns 1-based display numbers to the matching lines.
// With newestFirst the filtered sequence is reversed before numbering, so
// the last-appended match is shown as #1.
func DisplayNumbering(lines []string, pred Predicate, newestFirst bool) []Entry {
	idx := FilteredIndices(lines, pred)
	if newestFirst {
		for i, j := 0, len(idx)-1; i < j; i, j = i+1, j-1 {
			idx[i], idx[j] = idx[j], idx[i]
		}
	}
	entries := make([]Entry, len(idx))
	for i, abs := range idx {
		entries[i] = Entry{N: i + 1, Index: abs}
	}
	return entries
}

// Resolve maps a user-supplied display number back to an absolute index
// under the same predicate and ordering the number was shown with. It
// returns ErrOutOfRange when n is not within [1, count of matches]; callers
// must not mutate anything on that error.
func Resolve(lines []string, pred Predicate, newestFirst bool, n int) (int, error) {
	idx := FilteredIndices(lines, pred)
	if n < 1 || n > len(idx) {
		return 0, fmt.Errorf("%w: task number %d (have %d)", ErrOutOfRange, n, len(idx))
	}
	if newestFirst {
		return idx[len(idx)-n], nil
	}
	return idx[n-1], nil
}

// Common view predicates.

func IsPending(r Record) bool   { return r.Status == StatusPending }
func IsDone(r Record) bool      { return r.Status == StatusDone }
func IsCancelled(r Record) bool { return r.Status == StatusCancelled }

// Any matches every line, including ones with no recognized status token.
func Any(Record) bool { return true }
