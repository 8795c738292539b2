// Package main is a small terminal client for the todoboard API. It
// signs in with the same credentials as the web UI, keeps the session
// token in the OS keyring, and mirrors the dashboard's pending and
// completed sections.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/todoboard/internal/calendar"
	"github.com/nhle/todoboard/internal/client"
	"github.com/nhle/todoboard/internal/credential"
	"github.com/nhle/todoboard/internal/model"
	"github.com/nhle/todoboard/internal/todostate"
	"github.com/nhle/todoboard/internal/ui/watch"
)

const usage = `Usage: todoctl [--server <url>] <command> [args]

Commands:
  register <name> <email>   Create an account (password prompted via TODOCTL_PASSWORD)
  login <email>             Sign in and save the session
  logout                    Sign out and clear the saved session
  list [YYYY-MM-DD]         Show pending and completed tasks, optionally for one day
  watch                     Keep the task list on screen, refreshed from the server
  add <title> [description] Add a task
  done <id>                 Toggle a task's completion
  rm <id>                   Delete a task
  cal [YYYY-MM]             Show the month calendar with task markers
`

func main() {
	configPath := flag.String("config", model.DefaultConfigPath(), "path to config file")
	serverURL := flag.String("server", "", "API base URL (overrides the config file)")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := model.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	baseURL := cfg.Client.BaseURL
	if *serverURL != "" {
		baseURL = *serverURL
	}

	c := client.New(baseURL)
	if token, err := credential.SessionToken(); err == nil {
		c.SetToken(token)
	}

	ctx := context.Background()
	if err := run(ctx, c, cfg, args[0], args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, c *client.Client, cfg *model.AppConfig, cmd string, args []string) error {
	switch cmd {
	case "register":
		if len(args) != 2 {
			return fmt.Errorf("usage: todoctl register <name> <email>")
		}
		password := os.Getenv("TODOCTL_PASSWORD")
		if password == "" {
			return fmt.Errorf("set TODOCTL_PASSWORD to register")
		}
		user, err := c.Register(ctx, args[0], args[1], password)
		if err != nil {
			return err
		}
		fmt.Printf("registered %s (%s)\n", user.Name, user.Email)
		return nil

	case "login":
		if len(args) != 1 {
			return fmt.Errorf("usage: todoctl login <email>")
		}
		password := os.Getenv("TODOCTL_PASSWORD")
		if password == "" {
			return fmt.Errorf("set TODOCTL_PASSWORD to log in")
		}
		user, err := c.Login(ctx, args[0], password)
		if err != nil {
			return err
		}
		if err := credential.SaveSessionToken(c.Token()); err != nil {
			return err
		}
		fmt.Printf("signed in as %s\n", user.Email)
		return nil

	case "logout":
		_ = c.Logout(ctx)
		if err := credential.ClearSessionToken(); err != nil {
			return err
		}
		fmt.Println("signed out")
		return nil

	case "list":
		return listTodos(ctx, c, args)

	case "watch":
		return watchTodos(c, cfg)

	case "add":
		if len(args) < 1 {
			return fmt.Errorf("usage: todoctl add <title> [description]")
		}
		description := ""
		if len(args) > 1 {
			description = args[1]
		}
		st := todostate.NewStore(c)
		eff, err := st.Add(args[0], description, nil)
		if err != nil {
			return err
		}
		eff(ctx)
		if err := storeErr(st); err != nil {
			return err
		}
		todos := st.Todos()
		created := todos[len(todos)-1]
		fmt.Printf("added %s (position %d)\n", created.ID, created.Position)
		return nil

	case "done":
		if len(args) != 1 {
			return fmt.Errorf("usage: todoctl done <id>")
		}
		st := todostate.NewStore(c)
		if err := st.Refresh(ctx); err != nil {
			return err
		}
		eff := st.Complete(args[0])
		if eff == nil {
			return fmt.Errorf("no todo with id %s", args[0])
		}
		eff(ctx)
		if err := storeErr(st); err != nil {
			return err
		}
		for _, t := range st.Todos() {
			if t.ID == args[0] {
				fmt.Printf("%s -> %s\n", t.Title, t.Section)
			}
		}
		return nil

	case "rm":
		if len(args) != 1 {
			return fmt.Errorf("usage: todoctl rm <id>")
		}
		st := todostate.NewStore(c)
		if err := st.Refresh(ctx); err != nil {
			return err
		}
		eff := st.Delete(args[0])
		if eff == nil {
			return fmt.Errorf("no todo with id %s", args[0])
		}
		eff(ctx)
		if err := storeErr(st); err != nil {
			return err
		}
		fmt.Println("deleted")
		return nil

	case "cal":
		return showCalendar(ctx, c, args)

	default:
		return fmt.Errorf("unknown command: %s", cmd)
	}
}

// listTodos renders the two dashboard sections, optionally filtered to
// a single calendar day.
func listTodos(ctx context.Context, c *client.Client, args []string) error {
	st := todostate.NewStore(c)
	if err := st.Refresh(ctx); err != nil {
		return err
	}

	if len(args) == 1 {
		day, err := time.Parse("2006-01-02", args[0])
		if err != nil {
			return fmt.Errorf("parsing date %q: %w", args[0], err)
		}
		st.SetDateFilter(&day)
	}

	fmt.Println("Pending:")
	for _, t := range st.PendingTodos() {
		fmt.Printf("  [ ] %-8s  %s\n", shortID(t.ID), t.Title)
	}
	fmt.Println("Completed:")
	for _, t := range st.CompletedTodos() {
		fmt.Printf("  [x] %-8s  %s\n", shortID(t.ID), t.Title)
	}
	return nil
}

// watchTodos runs the live task list view. The refresher keeps the
// state store current; the view re-renders on every store transition.
func watchTodos(c *client.Client, cfg *model.AppConfig) error {
	st := todostate.NewStore(c)
	interval := time.Duration(cfg.Client.RefreshIntervalSec) * time.Second
	r := todostate.NewRefresher(st, interval)
	defer r.Stop()

	p := tea.NewProgram(watch.New(st, r), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running watch view: %w", err)
	}
	return nil
}

// showCalendar prints the month grid with task markers: '*' for days
// with pending tasks, '+' for days with only completed ones.
func showCalendar(ctx context.Context, c *client.Client, args []string) error {
	ref := time.Now()
	if len(args) == 1 {
		parsed, err := time.Parse("2006-01", args[0])
		if err != nil {
			return fmt.Errorf("parsing month %q: %w", args[0], err)
		}
		ref = parsed
	}

	todos, err := c.ListTodos(ctx)
	if err != nil {
		return err
	}

	days := calendar.MonthGrid(ref, todos, nil, time.Now())
	fmt.Printf("%s\n Su  Mo  Tu  We  Th  Fr  Sa\n", ref.Format("January 2006"))
	for i, d := range days {
		mark := " "
		switch {
		case d.HasPendingTasks:
			mark = "*"
		case d.HasTasks:
			mark = "+"
		}
		if d.IsCurrentMonth {
			fmt.Printf("%3d%s", d.Date.Day(), mark)
		} else {
			fmt.Printf("   %s", mark)
		}
		if (i+1)%7 == 0 {
			fmt.Println()
		}
	}
	return nil
}

// storeErr surfaces an intent failure after its effect has run.
func storeErr(st *todostate.Store) error {
	if st.AuthRequired() {
		return fmt.Errorf("session expired, run: todoctl login <email>")
	}
	return st.Err()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
