package store

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// TaskView is one row of a listing: the display number the user sees, the
// absolute line index it maps to, and the decoded line.
type TaskView struct {
	N     int
	Index int
	Line  string
	Rec   Record
}

func viewsFor(lines []string, pred Predicate, newestFirst bool) []TaskView {
	entries := DisplayNumbering(lines, pred, newestFirst)
	views := make([]TaskView, len(entries))
	for i, e := range entries {
		views[i] = TaskView{N: e.N, Index: e.Index, Line: lines[e.Index], Rec: Parse(lines[e.Index])}
	}
	return views
}

// Add appends a new pending task and returns the encoded line. The created
// date is stamped once here and never changes afterwards.
func (w *Workspace) Add(due time.Time, body string) (string, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return "", fmt.Errorf("%w: task cannot be empty", ErrInvalid)
	}
	line := EncodeNew(due, Today(), body)
	lines, err := w.ReadLines()
	if err != nil {
		return "", err
	}
	lines = append(lines, line)
	if err := w.WriteLines(lines); err != nil {
		return "", err
	}
	return line, nil
}

// Pending lists pending tasks newest first, so the most recently added task
// is #1. The same numbering is what Complete and Cancel resolve against.
func (w *Workspace) Pending() ([]TaskView, error) {
	lines, err := w.ReadLines()
	if err != nil {
		return nil, err
	}
	return viewsFor(lines, IsPending, true), nil
}

// DueOn lists pending tasks due exactly on the given date, in file order.
func (w *Workspace) DueOn(date time.Time) ([]TaskView, error) {
	lines, err := w.ReadLines()
	if err != nil {
		return nil, err
	}
	pred := func(r Record) bool {
		return r.Status == StatusPending && !r.Due.IsZero() && r.Due.Equal(date)
	}
	return viewsFor(lines, pred, false), nil
}

// DueBetween lists pending tasks whose due date falls in [from, to], both
// endpoints inclusive, in file order.
func (w *Workspace) DueBetween(from, to time.Time) ([]TaskView, error) {
	lines, err := w.ReadLines()
	if err != nil {
		return nil, err
	}
	pred := func(r Record) bool {
		return r.Status == StatusPending && !r.Due.IsZero() &&
			!r.Due.Before(from) && !r.Due.After(to)
	}
	return viewsFor(lines, pred, false), nil
}

// CompletedBetween lists done tasks completed in [from, to], both endpoints
// inclusive, in file order.
func (w *Workspace) CompletedBetween(from, to time.Time) ([]TaskView, error) {
	lines, err := w.ReadLines()
	if err != nil {
		return nil, err
	}
	pred := func(r Record) bool {
		return r.Status == StatusDone && !r.Completed.IsZero() &&
			!r.Completed.Before(from) && !r.Completed.After(to)
	}
	return viewsFor(lines, pred, false), nil
}

// Done lists completed tasks in file order.
func (w *Workspace) Done() ([]TaskView, error) {
	lines, err := w.ReadLines()
	if err != nil {
		return nil, err
	}
	return viewsFor(lines, IsDone, false), nil
}

// Cancelled lists cancelled tasks in file order.
func (w *Workspace) Cancelled() ([]TaskView, error) {
	lines, err := w.ReadLines()
	if err != nil {
		return nil, err
	}
	return viewsFor(lines, IsCancelled, false), nil
}

// All lists every line of the backing file in order, including lines with no
// recognized status token.
func (w *Workspace) All() ([]TaskView, error) {
	lines, err := w.ReadLines()
	if err != nil {
		return nil, err
	}
	return viewsFor(lines, Any, false), nil
}

// CompleteResult reports the outcome for one number of a Complete batch.
type CompleteResult struct {
	N    int
	Line string
	Err  error
}

// Complete marks the pending tasks with the given display numbers as done.
// Every number resolves against the numbering in effect before any of the
// batch is applied (completion rewrites lines in place and never reorders,
// so the resolved indices stay valid). An out-of-range number is reported in
// its result and does not abort the rest of the batch; the file is written
// only when at least one line changed.
func (w *Workspace) Complete(nums []int, date time.Time) ([]CompleteResult, error) {
	lines, err := w.ReadLines()
	if err != nil {
		return nil, err
	}
	// Snapshot the pending numbering once: completing a task removes it from
	// the pending view, so resolving later numbers against the mutated lines
	// would shift the numbering the user was shown.
	pending := FilteredIndices(lines, IsPending)
	results := make([]CompleteResult, 0, len(nums))
	changed := 0
	for _, n := range nums {
		if n < 1 || n > len(pending) {
			results = append(results, CompleteResult{N: n,
				Err: fmt.Errorf("%w: task number %d (have %d)", ErrOutOfRange, n, len(pending))})
			continue
		}
		idx := pending[len(pending)-n]
		updated, err := ApplyCompletion(lines[idx], date)
		if err != nil {
			results = append(results, CompleteResult{N: n, Err: err})
			continue
		}
		lines[idx] = updated
		changed++
		results = append(results, CompleteResult{N: n, Line: updated})
	}
	if changed > 0 {
		if err := w.WriteLines(lines); err != nil {
			return nil, err
		}
	}
	return results, nil
}

// Cancel marks the pending task with the given display number as cancelled.
// On ErrOutOfRange nothing is written.
func (w *Workspace) Cancel(n int, date time.Time) (TaskView, error) {
	lines, err := w.ReadLines()
	if err != nil {
		return TaskView{}, err
	}
	idx, err := Resolve(lines, IsPending, true, n)
	if err != nil {
		return TaskView{}, err
	}
	updated, err := ApplyCancellation(lines[idx], date)
	if err != nil {
		return TaskView{}, err
	}
	lines[idx] = updated
	if err := w.WriteLines(lines); err != nil {
		return TaskView{}, err
	}
	return TaskView{N: n, Index: idx, Line: updated, Rec: Parse(updated)}, nil
}

// IsOutOfRange reports whether err is a display-number range error, which is
// user input validation rather than an environment failure.
func IsOutOfRange(err error) bool {
	return errors.Is(err, ErrOutOfRange)
}
