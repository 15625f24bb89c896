package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/amirbrooks/taskline/internal/store"
	"github.com/amirbrooks/taskline/internal/ui"
)

func cmdAdd(ws *store.Workspace, gf GlobalFlags, args []string) int {
	due, text := splitAddArgs(args)
	if due.IsZero() {
		due = store.Today()
	}
	if strings.TrimSpace(text) == "" {
		fmt.Fprintln(os.Stderr, "Error: Task cannot be empty.")
		return ExitOK
	}
	if _, err := ws.Add(due, text); err != nil {
		fmt.Fprintln(os.Stderr, "add:", err)
		return ExitInternal
	}
	if !gf.Quiet {
		fmt.Printf("Added task due 📅 %s: %s\n", due.Format(store.DateLayout), strings.TrimSpace(text))
	}
	return ExitOK
}

// splitAddArgs peels an optional leading due date off the argument list. A
// first argument is a due date only when it has the YYYY-MM-DD shape and is
// a real calendar date; anything else is task text.
func splitAddArgs(args []string) (time.Time, string) {
	if len(args) == 0 {
		return time.Time{}, ""
	}
	first := args[0]
	if len(first) == len(store.DateLayout) && first[4] == '-' {
		if d, err := time.Parse(store.DateLayout, first); err == nil {
			return d, strings.Join(args[1:], " ")
		}
	}
	return time.Time{}, strings.Join(args, " ")
}

func cmdToday(ws *store.Workspace, gf GlobalFlags, args []string) int {
	today := store.Today()
	views, err := ws.DueOn(today)
	if err != nil {
		fmt.Fprintln(os.Stderr, "today:", err)
		return ExitInternal
	}
	if code, handled := exportViews(gf, "today", views); handled {
		return code
	}
	fmt.Printf("Tasks due today (📅 %s):\n", today.Format(store.DateLayout))
	return renderViews(gf, views, "No tasks due today.")
}

func cmdWeek(ws *store.Workspace, gf GlobalFlags, args []string) int {
	today := store.Today()
	days := ws.Config().WeekDays
	views, err := ws.DueBetween(today, today.AddDate(0, 0, days))
	if err != nil {
		fmt.Fprintln(os.Stderr, "week:", err)
		return ExitInternal
	}
	if code, handled := exportViews(gf, "week", views); handled {
		return code
	}
	fmt.Printf("Tasks due in the next %d days:\n", days)
	return renderViews(gf, views, "No tasks due this week.")
}

func cmdLastWeek(ws *store.Workspace, gf GlobalFlags, args []string) int {
	weeks := 1
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 {
			fmt.Fprintln(os.Stderr, "Usage: taskline lastweek [weeks]")
			return ExitUsage
		}
		weeks = n
	}
	today := store.Today()
	views, err := ws.CompletedBetween(today.AddDate(0, 0, -7*weeks), today)
	if err != nil {
		fmt.Fprintln(os.Stderr, "lastweek:", err)
		return ExitInternal
	}
	if code, handled := exportViews(gf, "lastweek", views); handled {
		return code
	}
	fmt.Printf("Tasks completed in the last %d week(s):\n", weeks)
	return renderViews(gf, views, fmt.Sprintf("No tasks completed in the last %d week(s).", weeks))
}

func cmdPending(ws *store.Workspace, gf GlobalFlags, args []string) int {
	views, err := ws.Pending()
	if err != nil {
		fmt.Fprintln(os.Stderr, "pending:", err)
		return ExitInternal
	}
	if code, handled := exportViews(gf, "pending", views); handled {
		return code
	}
	fmt.Println("Pending tasks:")
	return renderViews(gf, views, "No pending tasks.")
}

func cmdDone(ws *store.Workspace, gf GlobalFlags, args []string) int {
	if len(args) == 0 {
		views, err := ws.Done()
		if err != nil {
			fmt.Fprintln(os.Stderr, "done:", err)
			return ExitInternal
		}
		if code, handled := exportViews(gf, "done", views); handled {
			return code
		}
		fmt.Println("Completed tasks:")
		return renderViews(gf, views, "No completed tasks.")
	}

	nums := make([]int, 0, len(args))
	for _, a := range args {
		n, err := strconv.Atoi(a)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Usage: taskline done [num...]")
			return ExitUsage
		}
		nums = append(nums, n)
	}
	results, err := ws.Complete(nums, store.Today())
	if err != nil {
		fmt.Fprintln(os.Stderr, "done:", err)
		return ExitInternal
	}
	for _, res := range results {
		if res.Err != nil {
			fmt.Println("Error: Task number out of range. Run 'taskline pending' to see available tasks.")
			continue
		}
		fmt.Printf("Task %d marked as completed\n", res.N)
	}
	return ExitOK
}

func cmdCancel(ws *store.Workspace, gf GlobalFlags, args []string) int {
	if len(args) == 0 {
		views, err := ws.Cancelled()
		if err != nil {
			fmt.Fprintln(os.Stderr, "cancel:", err)
			return ExitInternal
		}
		if code, handled := exportViews(gf, "cancelled", views); handled {
			return code
		}
		fmt.Println("Cancelled tasks:")
		return renderViews(gf, views, "No cancelled tasks.")
	}

	n, err := strconv.Atoi(args[0])
	if err != nil {
		fmt.Fprintln(os.Stderr, "Usage: taskline cancel [num]")
		return ExitUsage
	}
	if _, err := ws.Cancel(n, store.Today()); err != nil {
		if store.IsOutOfRange(err) {
			fmt.Fprintln(os.Stderr, "Error: Task number out of range. Run 'taskline pending' to see available tasks.")
			return ExitOK
		}
		fmt.Fprintln(os.Stderr, "cancel:", err)
		return ExitInternal
	}
	fmt.Printf("Task %d marked as cancelled\n", n)
	return ExitOK
}

func cmdAll(ws *store.Workspace, gf GlobalFlags, args []string) int {
	views, err := ws.All()
	if err != nil {
		fmt.Fprintln(os.Stderr, "all:", err)
		return ExitInternal
	}
	if code, handled := exportViews(gf, "all", views); handled {
		return code
	}
	fmt.Println("All tasks:")
	return renderViews(gf, views, "No tasks found.")
}

// renderViews prints listing rows. Display lines drop the leading "- " of
// the stored form, matching what the numbering refers to on screen.
func renderViews(gf GlobalFlags, views []store.TaskView, empty string) int {
	if len(views) == 0 {
		fmt.Println(empty)
		return ExitOK
	}
	if gf.Plain {
		fmt.Println("N\tSTATUS\tDUE\tLINE")
		for _, v := range views {
			due := "-"
			if !v.Rec.Due.IsZero() {
				due = v.Rec.Due.Format(store.DateLayout)
			}
			fmt.Printf("%d\t%s\t%s\t%s\n", v.N, v.Rec.Status, due, v.Line)
		}
		return ExitOK
	}
	for _, v := range views {
		fmt.Printf("%d - %s\n", v.N, displayLine(v.Line))
	}
	return ExitOK
}

func displayLine(line string) string {
	return strings.TrimPrefix(line, "- ")
}

func cmdConfig(ws *store.Workspace, gf GlobalFlags, args []string) int {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "Usage: taskline config <show|set> ...")
		return ExitUsage
	}
	switch args[0] {
	case "show":
		cfg := ws.Config()
		fmt.Println("Config")
		fmt.Println("  Dir:", ws.Dir)
		fmt.Println("  File:", ws.Path)
		fmt.Printf("  week_days: %d\n", cfg.WeekDays)
		fmt.Printf("  legend: %t\n", cfg.Legend)
		if strings.TrimSpace(cfg.File) != "" {
			fmt.Printf("  file: %s\n", cfg.File)
		}
		return ExitOK
	case "set":
		return cmdConfigSet(ws, gf, args[1:])
	default:
		fmt.Fprintln(os.Stderr, "Usage: taskline config <show|set> ...")
		return ExitUsage
	}
}

func cmdConfigSet(ws *store.Workspace, gf GlobalFlags, args []string) int {
	if len(args) < 2 {
		fmt.Fprintln(os.Stderr, "Usage: taskline config set <key> <value>")
		return ExitUsage
	}
	key := strings.ToLower(strings.TrimSpace(args[0]))
	value := strings.TrimSpace(strings.Join(args[1:], " "))
	cfg := ws.Config()

	switch key {
	case "file":
		if value == "" || value == "none" || value == "null" {
			cfg.File = ""
		} else {
			cfg.File = value
		}
	case "week_days":
		n, err := strconv.Atoi(value)
		if err != nil || n < 1 {
			fmt.Fprintf(os.Stderr, "Invalid value for week_days: %q\n", value)
			return ExitUsage
		}
		cfg.WeekDays = n
	case "legend":
		v, ok := parseBool(value)
		if !ok {
			fmt.Fprintf(os.Stderr, "Invalid value for legend: %q\n", value)
			return ExitUsage
		}
		cfg.Legend = v
	default:
		fmt.Fprintln(os.Stderr, "Unknown config key:", key)
		fmt.Fprintln(os.Stderr, "Allowed keys: file, week_days, legend")
		return ExitUsage
	}

	if err := ws.SaveConfig(cfg); err != nil {
		fmt.Fprintln(os.Stderr, "config set:", err)
		return ExitInternal
	}
	if !gf.Quiet {
		fmt.Printf("Updated %s\n", key)
	}
	return ExitOK
}

func parseBool(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "y", "on":
		return true, true
	case "0", "false", "no", "n", "off":
		return false, true
	default:
		return false, false
	}
}

func cmdUI(ws *store.Workspace, gf GlobalFlags, args []string) int {
	m, err := ui.New(ws)
	if err != nil {
		fmt.Fprintln(os.Stderr, "ui:", err)
		return ExitInternal
	}
	if _, err := tea.NewProgram(m).Run(); err != nil {
		fmt.Fprintln(os.Stderr, "ui:", err)
		return ExitInternal
	}
	return ExitOK
}
