// Command tasks is the command-line front end of the task manager.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"

	"Tasker/internal/cache"
	"Tasker/internal/calendar"
	"Tasker/internal/client"
	"Tasker/internal/config"
	"Tasker/internal/dto"
	"Tasker/internal/logging"

	"github.com/redis/go-redis/v9"
)

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("tasks", flag.ContinueOnError)
	configPath := fs.String("config", "", "optional config file (yaml, toml or json)")
	fs.Usage = func() { printUsage(fs.Output()) }
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		printUsage(fs.Output())
		return errors.New("missing command")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	logger := logging.New(cfg.Log, "tasks")
	loc, err := cfg.Tasks.Location()
	if err != nil {
		return err
	}

	mirror, closeMirror := newMirror(cfg.Client)
	defer closeMirror()

	api := client.NewHTTPClient(cfg.Client.APIURL, cfg.Client.Timeout.Duration())
	mgr := client.NewManager(api, mirror, client.Options{Logger: logger, Location: loc})
	if _, err := mgr.Load(ctx); err != nil {
		return err
	}

	cmd, rest := fs.Arg(0), fs.Args()[1:]
	switch cmd {
	case "list":
		return runList(mgr, rest, out)
	case "add":
		return runAdd(ctx, mgr, rest, out)
	case "delete", "rm":
		return runDelete(ctx, mgr, rest, out)
	case "done":
		return runDone(ctx, mgr, rest, out)
	case "calendar":
		return runCalendar(mgr, rest, out)
	default:
		printUsage(fs.Output())
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func newMirror(cfg config.ClientConfig) (cache.Mirror, func()) {
	if cfg.RedisURL == "" {
		return cache.NewFileMirror(cfg.MirrorPath), func() {}
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	return cache.NewRedisMirror(rdb, cfg.RedisKey), func() { _ = rdb.Close() }
}

func runList(mgr *client.Manager, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	filterName := fs.String("filter", "all", "all, completed or pending")
	if err := fs.Parse(args); err != nil {
		return err
	}
	filter, err := client.ParseFilter(*filterName)
	if err != nil {
		return err
	}

	list := mgr.Tasks(filter)
	if len(list) == 0 {
		fmt.Fprintln(out, "No tasks to show.")
		return nil
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDONE\tNAME\tDATE\tTIME\tHOURS\tDESCRIPTION")
	for _, t := range list {
		done := " "
		if t.Completed {
			done = "x"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%d\t%s\n", t.ID, done, t.Name, t.Fecha, t.Hora, t.Horas, t.Description)
	}
	return tw.Flush()
}

func runAdd(ctx context.Context, mgr *client.Manager, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	var req dto.CreateTaskRequest
	fs.StringVar(&req.Name, "name", "", "task name (required)")
	fs.StringVar(&req.Description, "desc", "", "description")
	fs.StringVar(&req.Fecha, "date", "", "date, YYYY-MM-DD (required)")
	fs.StringVar(&req.Hora, "time", "", "start time, HH:MM (required)")
	fs.IntVar(&req.Horas, "hours", 1, "duration in hours")
	if err := fs.Parse(args); err != nil {
		return err
	}

	t, err := mgr.Create(ctx, req)
	if err != nil {
		return err
	}
	if t.Start.IsZero() {
		fmt.Fprintf(out, "Added task %d: %s (%s %s, not scheduled)\n", t.ID, t.Name, t.Fecha, t.Hora)
		return nil
	}
	fmt.Fprintf(out, "Added task %d: %s (%s - %s)\n", t.ID, t.Name,
		t.Start.Format("2006-01-02 15:04"), t.End.Format("15:04"))
	return nil
}

func runDelete(ctx context.Context, mgr *client.Manager, args []string, out io.Writer) error {
	id, err := parseIDArg(args)
	if err != nil {
		return err
	}
	if err := mgr.Delete(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(out, "Deleted task %d\n", id)
	return nil
}

func runDone(ctx context.Context, mgr *client.Manager, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("done", flag.ContinueOnError)
	undo := fs.Bool("undo", false, "mark the task as pending again")
	if err := fs.Parse(args); err != nil {
		return err
	}
	id, err := parseIDArg(fs.Args())
	if err != nil {
		return err
	}
	t, err := mgr.SetCompleted(ctx, id, !*undo)
	if err != nil {
		return err
	}
	state := "completed"
	if !t.Completed {
		state = "pending"
	}
	fmt.Fprintf(out, "Task %d is %s\n", t.ID, state)
	return nil
}

func runCalendar(mgr *client.Manager, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("calendar", flag.ContinueOnError)
	google := fs.Bool("google", false, "print Google Calendar event resources as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}

	events := mgr.Events()
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if !*google {
		return enc.Encode(events)
	}
	resources := make([]any, len(events))
	for i, ev := range events {
		resources[i] = calendar.ToGoogleEvent(ev)
	}
	return enc.Encode(resources)
}

func parseIDArg(args []string) (int64, error) {
	if len(args) != 1 {
		return 0, errors.New("expected exactly one task id")
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid task id %q", args[0])
	}
	return id, nil
}

func printUsage(w io.Writer) {
	fmt.Fprint(w, `Usage: tasks [-config file] <command> [flags]

Commands:
  list [-filter all|completed|pending]
  add -name N [-desc D] -date YYYY-MM-DD -time HH:MM [-hours H]
  delete <id>
  done [-undo] <id>
  calendar [-google]
`)
}
