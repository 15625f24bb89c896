package store

import (
	"errors"
	"testing"
	"time"
)

func date(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		t.Fatalf("bad test date %q: %v", s, err)
	}
	return d
}

func TestEncodeNewRoundTrips(t *testing.T) {
	due := date(t, "2025-06-10")
	created := date(t, "2025-06-01")
	line := EncodeNew(due, created, "Buy milk")

	want := "- [ ] 📅 2025-06-10 📋 2025-06-01 Buy milk"
	if line != want {
		t.Fatalf("expected %q, got %q", want, line)
	}

	r := Parse(line)
	if r.Status != StatusPending {
		t.Fatalf("expected pending status, got %v", r.Status)
	}
	if !r.Due.Equal(due) {
		t.Fatalf("expected due %v, got %v", due, r.Due)
	}
	if !r.Created.Equal(created) {
		t.Fatalf("expected created %v, got %v", created, r.Created)
	}
	if r.Body != "Buy milk" {
		t.Fatalf("expected body %q, got %q", "Buy milk", r.Body)
	}
}

func TestParseStatusTokens(t *testing.T) {
	cases := []struct {
		line string
		want Status
	}{
		{"- [ ] 📅 2025-06-01 📋 2025-06-01 a", StatusPending},
		{"- [x] ✅ 2025-06-02 📅 2025-06-01 📋 2025-06-01 a", StatusDone},
		{"- [-] ❌ 2025-06-02 📅 2025-06-01 📋 2025-06-01 ~~a~~", StatusCancelled},
		{"# heading", StatusUnknown},
		{"", StatusUnknown},
		{"just some prose", StatusUnknown},
	}
	for _, c := range cases {
		if got := Parse(c.line).Status; got != c.want {
			t.Fatalf("line %q: expected status %v, got %v", c.line, c.want, got)
		}
	}
}

func TestParseMalformedDateDecodesAsAbsent(t *testing.T) {
	r := Parse("- [ ] 📅 2025-02-30 📋 2025-06-01 Impossible date")
	if !r.Due.IsZero() {
		t.Fatalf("expected absent due date, got %v", r.Due)
	}
	if r.Status != StatusPending {
		t.Fatalf("expected pending status, got %v", r.Status)
	}
	if !r.Created.Equal(date(t, "2025-06-01")) {
		t.Fatalf("expected created date to survive, got %v", r.Created)
	}
}

func TestParseTruncatedDateDecodesAsAbsent(t *testing.T) {
	r := Parse("- [ ] 📅 2025-06 📋 2025-06-01 Short date")
	if !r.Due.IsZero() {
		t.Fatalf("expected absent due date, got %v", r.Due)
	}
	r = Parse("- [ ] 📅 2025-06-0")
	if !r.Due.IsZero() {
		t.Fatalf("expected absent due date at end of line, got %v", r.Due)
	}
}

func TestParseDoneLine(t *testing.T) {
	r := Parse("- [x] ✅ 2025-06-03 📅 2025-06-01 📋 2025-06-01 Buy milk")
	if r.Status != StatusDone {
		t.Fatalf("expected done status, got %v", r.Status)
	}
	if !r.Completed.Equal(date(t, "2025-06-03")) {
		t.Fatalf("expected completed 2025-06-03, got %v", r.Completed)
	}
	if !r.Due.Equal(date(t, "2025-06-01")) {
		t.Fatalf("expected due 2025-06-01, got %v", r.Due)
	}
	if r.Body != "Buy milk" {
		t.Fatalf("expected body %q, got %q", "Buy milk", r.Body)
	}
}

func TestApplyCompletion(t *testing.T) {
	line := "- [ ] 📅 2025-06-01 📋 2025-06-01 Buy milk"
	got, err := ApplyCompletion(line, date(t, "2025-06-03"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "- [x] ✅ 2025-06-03 📅 2025-06-01 📋 2025-06-01 Buy milk"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestApplyCompletionRejectsNonPending(t *testing.T) {
	done := "- [x] ✅ 2025-06-03 📅 2025-06-01 📋 2025-06-01 Buy milk"
	if _, err := ApplyCompletion(done, date(t, "2025-06-04")); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
	if _, err := ApplyCompletion("plain text", date(t, "2025-06-04")); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid for foreign line, got %v", err)
	}
}

func TestApplyCancellation(t *testing.T) {
	line := "- [ ] 📅 2025-06-10 📋 2025-06-01 Old task"
	got, err := ApplyCancellation(line, date(t, "2025-06-05"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "- [-] ❌ 2025-06-05 📅 2025-06-10 📋 2025-06-01 ~~Old task~~"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}

	r := Parse(got)
	if r.Status != StatusCancelled {
		t.Fatalf("expected cancelled status, got %v", r.Status)
	}
	if !r.Cancelled.Equal(date(t, "2025-06-05")) {
		t.Fatalf("expected cancelled 2025-06-05, got %v", r.Cancelled)
	}
	if !r.Due.Equal(date(t, "2025-06-10")) {
		t.Fatalf("expected due to survive cancellation, got %v", r.Due)
	}
	if r.Body != "~~Old task~~" {
		t.Fatalf("expected struck-through body, got %q", r.Body)
	}
}

func TestApplyCancellationRejectsCancelled(t *testing.T) {
	line := "- [-] ❌ 2025-06-05 📅 2025-06-10 📋 2025-06-01 ~~Old task~~"
	if _, err := ApplyCancellation(line, date(t, "2025-06-06")); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
}

func TestApplyCancellationRequiresDateSpan(t *testing.T) {
	if _, err := ApplyCancellation("- [ ] no dates here", date(t, "2025-06-05")); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid for line without date span, got %v", err)
	}
}
