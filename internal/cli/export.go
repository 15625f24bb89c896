package cli

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/amirbrooks/taskline/internal/store"
)

type randReader struct{}

func (randReader) Read(p []byte) (int, error) { return rand.Read(p) }

// taskItem is the export shape of one listing row.
type taskItem struct {
	N         int    `json:"n"`
	Status    string `json:"status"`
	Due       string `json:"due,omitempty"`
	Created   string `json:"created,omitempty"`
	Completed string `json:"completed,omitempty"`
	Cancelled string `json:"cancelled,omitempty"`
	Body      string `json:"body,omitempty"`
	Line      string `json:"line"`
}

func itemsFor(views []store.TaskView) []taskItem {
	items := make([]taskItem, len(views))
	for i, v := range views {
		it := taskItem{N: v.N, Status: v.Rec.Status.String(), Body: v.Rec.Body, Line: v.Line}
		if !v.Rec.Due.IsZero() {
			it.Due = v.Rec.Due.Format(store.DateLayout)
		}
		if !v.Rec.Created.IsZero() {
			it.Created = v.Rec.Created.Format(store.DateLayout)
		}
		if !v.Rec.Completed.IsZero() {
			it.Completed = v.Rec.Completed.Format(store.DateLayout)
		}
		if !v.Rec.Cancelled.IsZero() {
			it.Cancelled = v.Rec.Cancelled.Format(store.DateLayout)
		}
		items[i] = it
	}
	return items
}

// exportViews handles the --json/--ndjson output modes for a listing. The
// second return is false when neither mode is active and the caller should
// render normally.
func exportViews(gf GlobalFlags, base string, views []store.TaskView) (int, bool) {
	if !gf.JSON && !gf.NDJSON {
		return ExitOK, false
	}
	items := itemsFor(views)

	if gf.NDJSON {
		if gf.StdoutNDJSON {
			for _, it := range items {
				b, _ := json.Marshal(it)
				fmt.Println(string(b))
			}
			return ExitOK, true
		}
		path, err := writeNDJSONExport(gf, base, items)
		if err != nil {
			fmt.Fprintln(os.Stderr, base+":", err)
			return ExitInternal, true
		}
		if !gf.Quiet {
			fmt.Println("Wrote NDJSON to:", path)
		}
		return ExitOK, true
	}

	payload := map[string]any{"tasks": items}
	if gf.StdoutJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(payload)
		return ExitOK, true
	}
	path, err := writeJSONExport(gf, base, payload)
	if err != nil {
		fmt.Fprintln(os.Stderr, base+":", err)
		return ExitInternal, true
	}
	if !gf.Quiet {
		fmt.Println("Wrote JSON to:", path)
	}
	return ExitOK, true
}

func writeJSONExport(gf GlobalFlags, base string, payload any) (string, error) {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", err
	}
	return writeExportFile(gf.ExportDir, base, "json", data)
}

func writeNDJSONExport(gf GlobalFlags, base string, items []taskItem) (string, error) {
	var b strings.Builder
	for _, item := range items {
		line, err := json.Marshal(item)
		if err != nil {
			return "", err
		}
		b.Write(line)
		b.WriteByte('\n')
	}
	return writeExportFile(gf.ExportDir, base, "ndjson", []byte(b.String()))
}

// writeExportFile writes data to <dir>/<base>-<ulid>.<ext>. ULIDs are
// monotonic within the process, so names sort by creation time and never
// collide.
func writeExportFile(dir, base, ext string, data []byte) (string, error) {
	if strings.TrimSpace(dir) == "" {
		return "", errors.New("export directory is empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	name := fmt.Sprintf("%s-%s.%s", base, newExportID(), ext)
	path := filepath.Join(dir, name)
	tmp := filepath.Join(dir, fmt.Sprintf(".tmp-%d", time.Now().UTC().UnixNano()))
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		_ = os.Remove(tmp)
		return "", err
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return "", err
	}
	return path, nil
}

var exportEntropy = ulid.Monotonic(randReader{}, 0)

func newExportID() string {
	t := ulid.Timestamp(time.Now().UTC())
	id, err := ulid.New(t, exportEntropy)
	if err != nil {
		// fallback
		return fmt.Sprintf("%d", time.Now().UTC().UnixNano())
	}
	return strings.ToLower(id.String())
}
