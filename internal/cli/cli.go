package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/amirbrooks/taskline/internal/store"
)

// Exit codes
const (
	ExitOK       = 0
	ExitUsage    = 2
	ExitInternal = 10
)

type GlobalFlags struct {
	File         string
	JSON         bool
	NDJSON       bool
	Plain        bool
	Quiet        bool
	NoLegend     bool
	StdoutJSON   bool
	StdoutNDJSON bool
	ExportDir    string
}

// Run executes one taskline invocation and returns the process exit code.
// Input validation problems (empty task text, out-of-range numbers) print a
// message and still exit zero; environment failures exit non-zero.
func Run(args []string) int {
	gf, rest, err := extractGlobalFlags(args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		return ExitUsage
	}

	ws, err := store.Open(gf.File)
	if err != nil {
		fmt.Fprintln(os.Stderr, "taskline:", err)
		return ExitInternal
	}
	if gf.ExportDir == "" {
		gf.ExportDir = filepath.Join(ws.Dir, "exports")
	}

	if len(rest) == 0 {
		printLegend(gf, ws)
		printHelp()
		return ExitOK
	}

	cmd := rest[0]
	cmdArgs := rest[1:]

	switch cmd {
	case "help", "--help", "-h":
		printHelp()
		return ExitOK
	case "add", "a":
		printLegend(gf, ws)
		return cmdAdd(ws, gf, cmdArgs)
	case "today", "t":
		printLegend(gf, ws)
		return cmdToday(ws, gf, cmdArgs)
	case "week", "w":
		printLegend(gf, ws)
		return cmdWeek(ws, gf, cmdArgs)
	case "lastweek", "lw":
		printLegend(gf, ws)
		return cmdLastWeek(ws, gf, cmdArgs)
	case "pending", "p":
		printLegend(gf, ws)
		return cmdPending(ws, gf, cmdArgs)
	case "done", "d":
		printLegend(gf, ws)
		return cmdDone(ws, gf, cmdArgs)
	case "cancel", "c":
		printLegend(gf, ws)
		return cmdCancel(ws, gf, cmdArgs)
	case "all", "list", "l":
		printLegend(gf, ws)
		return cmdAll(ws, gf, cmdArgs)
	case "config", "cfg":
		return cmdConfig(ws, gf, cmdArgs)
	case "ui":
		return cmdUI(ws, gf, cmdArgs)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		printHelp()
		return ExitUsage
	}
}

func printLegend(gf GlobalFlags, ws *store.Workspace) {
	if gf.Quiet || gf.NoLegend || gf.Plain || gf.JSON || gf.NDJSON {
		return
	}
	if !ws.Config().Legend {
		return
	}
	fmt.Println("📝 TASKLINE 📝")
	fmt.Println("===============")
	fmt.Println()
	fmt.Println("Legend: 📅 due   📋 created   ✅ completed   ❌ cancelled")
	fmt.Println()
}

func printHelp() {
	fmt.Print(`taskline — checklist tasks in one plain text file

Usage:
  taskline [global flags] <command> [args]

Global flags:
  --file <path>    Backing file (default: ~/.task/work_log.md or TASK_FILE)
  --json           Write JSON listing to the export dir
  --ndjson         Write NDJSON listing to the export dir
  --stdout-json    Allow JSON on stdout (debug only)
  --stdout-ndjson  Allow NDJSON on stdout (debug only)
  --export-dir     Override export directory (default: <dir>/exports)
  --plain          TSV output
  --no-legend      Suppress the emoji legend header
  --quiet

Commands:
  add|a [date] <text>   Add a task with optional due date (YYYY-MM-DD), defaults to today
  today|t               List tasks due today
  week|w                List tasks due in the next 7 days
  lastweek|lw [weeks]   List tasks completed in the last N weeks (default: 1)
  pending|p             List pending tasks, newest first
  done|d [num...]       Mark tasks as completed, or list completed tasks
  cancel|c [num]        Mark a task as cancelled, or list cancelled tasks
  all|list|l            List every line
  config show|set       Inspect or update config.yaml
  ui                    Interactive task view

Examples:
  taskline add "Buy groceries"              # due today
  taskline add 2025-09-15 "Finish project"  # explicit due date
  taskline pending
  taskline done 2
`)
}

func extractGlobalFlags(args []string) (GlobalFlags, []string, error) {
	gf := GlobalFlags{}

	out := make([]string, 0, len(args))
	skip := 0

	for i := 0; i < len(args); i++ {
		if skip > 0 {
			skip--
			continue
		}
		a := args[i]
		switch a {
		case "--file":
			if i+1 >= len(args) {
				return gf, nil, errors.New("--file requires a value")
			}
			gf.File = args[i+1]
			skip = 1
		case "--json":
			gf.JSON = true
		case "--ndjson":
			gf.NDJSON = true
		case "--stdout-json":
			gf.StdoutJSON = true
		case "--stdout-ndjson":
			gf.StdoutNDJSON = true
		case "--export-dir":
			if i+1 >= len(args) {
				return gf, nil, errors.New("--export-dir requires a value")
			}
			gf.ExportDir = args[i+1]
			skip = 1
		case "--plain":
			gf.Plain = true
		case "--no-legend":
			gf.NoLegend = true
		case "--quiet":
			gf.Quiet = true
		default:
			out = append(out, a)
		}
	}

	if gf.JSON && gf.NDJSON {
		return gf, nil, errors.New("--json and --ndjson are mutually exclusive")
	}
	if gf.StdoutJSON && !gf.JSON {
		return gf, nil, errors.New("--stdout-json requires --json")
	}
	if gf.StdoutNDJSON && !gf.NDJSON {
		return gf, nil, errors.New("--stdout-ndjson requires --ndjson")
	}
	return gf, out, nil
}
