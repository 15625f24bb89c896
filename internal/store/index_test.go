package store

import (
	"errors"
	"testing"
)

var indexLines = []string{
	"# Work log",
	"- [ ] 📅 2025-06-01 📋 2025-06-01 first",
	"- [x] ✅ 2025-06-02 📅 2025-06-01 📋 2025-06-01 done one",
	"- [ ] 📅 2025-06-02 📋 2025-06-02 second",
	"random prose line",
	"- [ ] 📅 2025-06-03 📋 2025-06-03 third",
}

func TestFilteredIndicesSkipsForeignLines(t *testing.T) {
	idx := FilteredIndices(indexLines, IsPending)
	want := []int{1, 3, 5}
	if len(idx) != len(want) {
		t.Fatalf("expected %d indices, got %d: %v", len(want), len(idx), idx)
	}
	for i, v := range idx {
		if v != want[i] {
			t.Fatalf("expected index %d at position %d, got %d", want[i], i, v)
		}
	}
}

func TestDisplayNumberingNewestFirst(t *testing.T) {
	entries := DisplayNumbering(indexLines, IsPending, true)
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	if entries[0].N != 1 || entries[0].Index != 5 {
		t.Fatalf("expected #1 to be the last pending line, got %+v", entries[0])
	}
	if entries[2].N != 3 || entries[2].Index != 1 {
		t.Fatalf("expected #3 to be the first pending line, got %+v", entries[2])
	}
}

func TestDisplayNumberingFileOrder(t *testing.T) {
	entries := DisplayNumbering(indexLines, IsPending, false)
	if entries[0].Index != 1 || entries[1].Index != 3 || entries[2].Index != 5 {
		t.Fatalf("expected file order, got %+v", entries)
	}
}

func TestResolveNewestFirst(t *testing.T) {
	idx, err := Resolve(indexLines, IsPending, true, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if idx != 5 {
		t.Fatalf("expected number 1 to resolve to index 5, got %d", idx)
	}
	idx, err = Resolve(indexLines, IsPending, true, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if idx != 1 {
		t.Fatalf("expected number 3 to resolve to index 1, got %d", idx)
	}
}

func TestResolveOutOfRange(t *testing.T) {
	for _, n := range []int{0, -1, 4} {
		if _, err := Resolve(indexLines, IsPending, true, n); !errors.Is(err, ErrOutOfRange) {
			t.Fatalf("expected ErrOutOfRange for %d, got %v", n, err)
		}
	}
}

func TestResolveEmptyView(t *testing.T) {
	if _, err := Resolve([]string{"just prose"}, IsPending, true, 1); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("expected ErrOutOfRange on empty view, got %v", err)
	}
}
