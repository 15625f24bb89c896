package store

import (
	"fmt"
	"strings"
	"time"
)

// Status marker tokens and field glyphs of the checklist line format.
const (
	tokenPending   = "- [ ]"
	tokenDone      = "- [x]"
	tokenCancelled = "- [-]"

	glyphDue       = "📅"
	glyphCreated   = "📋"
	glyphCompleted = "✅"
	glyphCancelled = "❌"
)

// DateLayout is the only serialized date form in the backing store.
const DateLayout = "2006-01-02"

type Status int

const (
	StatusUnknown Status = iota
	StatusPending
	StatusDone
	StatusCancelled
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusDone:
		return "done"
	case StatusCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Record is the decoded form of one checklist line. Absent fields are the
// zero value: an unrecognized status token decodes as StatusUnknown and a
// missing or malformed date decodes as the zero time. Decoding never fails;
// lines that don't carry a field simply don't match filters keyed on it.
type Record struct {
	Status    Status
	Due       time.Time
	Created   time.Time
	Completed time.Time
	Cancelled time.Time

	// Body is the free text after the last decoded date field, trimmed.
	// For cancelled lines it includes the strikethrough markers.
	Body string

	// datePrefix is the verbatim span from the due glyph through the
	// created-date token. Preserved so cancellation can carry it over
	// unchanged.
	datePrefix string
}

// Parse decodes a single checklist line. It never returns an error; foreign
// or hand-edited lines decode to a Record that matches no status or date
// filter.
func Parse(line string) Record {
	var r Record
	switch {
	case strings.HasPrefix(line, tokenPending):
		r.Status = StatusPending
	case strings.HasPrefix(line, tokenDone):
		r.Status = StatusDone
	case strings.HasPrefix(line, tokenCancelled):
		r.Status = StatusCancelled
	}

	r.Due, _ = dateAfter(line, glyphDue)
	r.Completed, _ = dateAfter(line, glyphCompleted)
	r.Cancelled, _ = dateAfter(line, glyphCancelled)

	var createdEnd int
	r.Created, createdEnd = dateAfter(line, glyphCreated)

	if dueStart := strings.Index(line, glyphDue); dueStart >= 0 && createdEnd > dueStart {
		r.datePrefix = line[dueStart:createdEnd]
		r.Body = strings.TrimSpace(line[createdEnd:])
	}
	return r
}

// dateAfter scans for glyph followed by whitespace and a YYYY-MM-DD token.
// It returns the parsed date and the offset just past the token, or a zero
// time and -1 when the pattern is absent or the date is not a real calendar
// date.
func dateAfter(line, glyph string) (time.Time, int) {
	start := strings.Index(line, glyph)
	if start < 0 {
		return time.Time{}, -1
	}
	i := start + len(glyph)
	j := i
	for j < len(line) && (line[j] == ' ' || line[j] == '\t') {
		j++
	}
	if j == i || j+len(DateLayout) > len(line) {
		return time.Time{}, -1
	}
	token := line[j : j+len(DateLayout)]
	d, ok := parseDate(token)
	if !ok {
		return time.Time{}, -1
	}
	return d, j + len(DateLayout)
}

func parseDate(s string) (time.Time, bool) {
	if len(s) != len(DateLayout) {
		return time.Time{}, false
	}
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

// EncodeNew produces a pending checklist line. The result round-trips
// through Parse.
func EncodeNew(due, created time.Time, body string) string {
	return fmt.Sprintf("%s %s %s %s %s %s",
		tokenPending,
		glyphDue, due.Format(DateLayout),
		glyphCreated, created.Format(DateLayout),
		body)
}

// ApplyCompletion rewrites a pending line as done, stamping the completion
// date right after the status token. Due date, created date and body are
// untouched.
func ApplyCompletion(line string, date time.Time) (string, error) {
	if Parse(line).Status != StatusPending {
		return "", fmt.Errorf("%w: line is not pending", ErrInvalid)
	}
	stamp := fmt.Sprintf("%s %s %s", tokenDone, glyphCompleted, date.Format(DateLayout))
	return stamp + strings.TrimPrefix(line, tokenPending), nil
}

// ApplyCancellation rewrites a pending line as cancelled: cancellation date
// first, then the due/created span carried over verbatim, then the body
// wrapped in strikethrough markers.
func ApplyCancellation(line string, date time.Time) (string, error) {
	r := Parse(line)
	if r.Status != StatusPending {
		return "", fmt.Errorf("%w: line is not pending", ErrInvalid)
	}
	if r.datePrefix == "" {
		return "", fmt.Errorf("%w: line has no due/created date span", ErrInvalid)
	}
	return fmt.Sprintf("%s %s %s %s ~~%s~~",
		tokenCancelled,
		glyphCancelled, date.Format(DateLayout),
		r.datePrefix, r.Body), nil
}
