package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

var (
	ErrInvalid    = errors.New("invalid")
	ErrOutOfRange = errors.New("out of range")
	timeNow       = func() time.Time { return time.Now() }
)

const (
	// EnvFile overrides the backing file path.
	EnvFile = "TASK_FILE"

	configFileName  = "config.yaml"
	defaultDirName  = ".task"
	defaultFileName = "work_log.md"
)

// Config is the optional workspace configuration, stored as YAML next to the
// default backing file.
type Config struct {
	// File overrides the backing file path. Relative paths resolve against
	// the workspace directory.
	File string `yaml:"file,omitempty"`
	// WeekDays is the span of the week view (default 7).
	WeekDays int `yaml:"week_days,omitempty"`
	// Legend controls the emoji legend header.
	Legend bool `yaml:"legend"`
}

func defaultConfig() Config {
	return Config{WeekDays: 7, Legend: true}
}

// Workspace is a single backing file of checklist lines plus its
// configuration. One invocation reads the whole file, performs at most one
// mutation pass, and writes the whole file back.
type Workspace struct {
	// Dir is the workspace directory holding the config and, unless
	// overridden, the backing file.
	Dir string
	// Path is the resolved backing file.
	Path string

	cfg Config
}

// Open resolves the backing file and loads the configuration. Resolution
// order: explicit path, TASK_FILE environment variable, the config file's
// `file` key, then <home>/.task/work_log.md. The directory holding the
// backing file is created if missing.
func Open(explicit string) (*Workspace, error) {
	w := &Workspace{Dir: defaultDir(), cfg: defaultConfig()}
	if err := w.loadConfig(); err != nil {
		return nil, err
	}

	switch {
	case strings.TrimSpace(explicit) != "":
		w.Path = expandHome(strings.TrimSpace(explicit))
	case os.Getenv(EnvFile) != "":
		w.Path = expandHome(os.Getenv(EnvFile))
	case strings.TrimSpace(w.cfg.File) != "":
		p := expandHome(strings.TrimSpace(w.cfg.File))
		if !filepath.IsAbs(p) {
			p = filepath.Join(w.Dir, p)
		}
		w.Path = p
	default:
		w.Path = filepath.Join(w.Dir, defaultFileName)
	}

	if err := os.MkdirAll(filepath.Dir(w.Path), 0o755); err != nil {
		return nil, fmt.Errorf("create task directory: %w (set %s to a writable location)", err, EnvFile)
	}
	return w, nil
}

func defaultDir() string {
	home, _ := os.UserHomeDir()
	if home == "" {
		return defaultDirName
	}
	return filepath.Join(home, defaultDirName)
}

func (w *Workspace) Config() Config {
	return w.cfg
}

func (w *Workspace) loadConfig() error {
	b, err := os.ReadFile(filepath.Join(w.Dir, configFileName))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	cfg := defaultConfig()
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	if cfg.WeekDays < 1 {
		cfg.WeekDays = 7
	}
	w.cfg = cfg
	return nil
}

func (w *Workspace) SaveConfig(cfg Config) error {
	if cfg.WeekDays < 1 {
		cfg.WeekDays = 7
	}
	w.cfg = cfg
	b, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return atomicWriteFile(filepath.Join(w.Dir, configFileName), b, 0o644)
}

// ReadLines loads every line of the backing file, creating it empty when
// absent. Line order is the order in the file.
func (w *Workspace) ReadLines() ([]string, error) {
	f, err := os.OpenFile(w.Path, os.O_RDONLY|os.O_CREATE, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open task file %s: %w (set %s to a writable location)", w.Path, err, EnvFile)
	}
	defer f.Close()

	b, err := os.ReadFile(w.Path)
	if err != nil {
		return nil, fmt.Errorf("read task file %s: %w", w.Path, err)
	}
	s := strings.ReplaceAll(string(b), "\r\n", "\n")
	s = strings.TrimSuffix(s, "\n")
	if s == "" {
		return nil, nil
	}
	return strings.Split(s, "\n"), nil
}

// WriteLines atomically replaces the backing file with the given lines. The
// content goes to a temporary sibling, is flushed to stable storage, then
// renamed over the original; the rename is the single commit point.
func (w *Workspace) WriteLines(lines []string) error {
	dir := filepath.Dir(w.Path)
	tmp := filepath.Join(dir, fmt.Sprintf(".tmp-%d", timeNow().UnixNano()))
	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("create temporary file: %w", err)
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(f, line); err != nil {
			f.Close()
			_ = os.Remove(tmp)
			return fmt.Errorf("write task file: %w", err)
		}
	}
	if err := f.Sync(); err != nil {
		f.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("sync task file: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("close task file: %w", err)
	}
	if err := os.Rename(tmp, w.Path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace task file: %w", err)
	}
	return nil
}

// Today returns the local calendar date, truncated to midnight UTC so it
// compares cleanly against dates decoded from lines.
func Today() time.Time {
	now := timeNow()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

func expandHome(path string) string {
	if strings.HasPrefix(path, "~"+string(os.PathSeparator)) || path == "~" {
		home, _ := os.UserHomeDir()
		if home != "" {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}

func atomicWriteFile(path string, data []byte, perm fs.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp := filepath.Join(dir, fmt.Sprintf(".tmp-%d", timeNow().UnixNano()))
	if err := os.WriteFile(tmp, data, perm); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	// Rename is atomic on same filesystem.
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}
