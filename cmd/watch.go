package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"cadence/internal/api"
	"cadence/internal/cli"
	"cadence/internal/config"
	"cadence/internal/watch"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	flagWatchInterval     time.Duration
	flagWatchDetach       bool
	flagWatchPIDFile      string
	flagWatchLogFile      string
	flagWatchEventsBuffer int
	flagWatchChild        bool
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Monitor the budget and report spend, overspend, and rollover events",
	RunE:  runWatch,
}

var watchStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop a detached watcher",
	RunE:  runWatchStop,
}

var watchStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show watcher process status",
	RunE:  runWatchStatus,
}

func init() {
	stateDir := filepath.Dir(config.CachePath())
	defaultPID := filepath.Join(stateDir, "cadence-watch.pid")
	defaultLog := filepath.Join(stateDir, "cadence-watch.log")

	watchCmd.PersistentFlags().DurationVar(&flagWatchInterval, "interval", 0, "Polling interval (0 = config value)")
	watchCmd.PersistentFlags().StringVar(&flagWatchPIDFile, "pid-file", defaultPID, "PID file path")
	watchCmd.PersistentFlags().StringVar(&flagWatchLogFile, "log-file", defaultLog, "Log file path for detached mode")
	watchCmd.PersistentFlags().IntVar(&flagWatchEventsBuffer, "events-buffer", 200, "Max in-memory events retained")

	watchCmd.Flags().BoolVar(&flagWatchDetach, "detach", false, "Run the watcher as a background process")
	watchCmd.Flags().BoolVar(&flagWatchChild, "child", false, "Internal: mark detached child process")
	_ = watchCmd.Flags().MarkHidden("child")

	watchCmd.AddCommand(watchStopCmd)
	watchCmd.AddCommand(watchStatusCmd)
	rootCmd.AddCommand(watchCmd)
}

func runWatch(_ *cobra.Command, _ []string) error {
	if flagWatchDetach && flagWatchChild {
		return errors.New("invalid watch launch mode")
	}

	if flagWatchDetach {
		return startWatchDetached()
	}

	return runWatchForeground()
}

func startWatchDetached() error {
	if err := ensureWatchNotRunning(flagWatchPIDFile); err != nil {
		return err
	}

	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("resolve executable: %w", err)
	}

	args := filterDetachArg(os.Args[1:])
	args = append(args, "--child")

	if err := os.MkdirAll(filepath.Dir(flagWatchPIDFile), 0o750); err != nil {
		return fmt.Errorf("create watch directory: %w", err)
	}

	logf, err := os.OpenFile(flagWatchLogFile, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o600)
	if err != nil {
		return fmt.Errorf("open watch log file: %w", err)
	}
	defer func() { _ = logf.Close() }()

	child := exec.Command(exe, args...)
	child.Stdout = logf
	child.Stderr = logf
	child.Stdin = nil
	child.Env = os.Environ()

	if err := child.Start(); err != nil {
		return fmt.Errorf("start detached watcher: %w", err)
	}

	fmt.Printf("  Started watcher (pid %d)\n", child.Process.Pid)
	fmt.Printf("  PID file: %s\n", flagWatchPIDFile)
	fmt.Printf("  Log: %s\n", flagWatchLogFile)
	return nil
}

func runWatchForeground() error {
	if err := ensureWatchNotRunning(flagWatchPIDFile); err != nil {
		return err
	}

	cfg := loadConfig()

	cache, err := openCache()
	if err != nil {
		return err
	}
	client, err := newClient(cfg, cache)
	closeErr := cache.Close()
	if err != nil {
		return err
	}
	if closeErr != nil {
		return closeErr
	}

	interval := flagWatchInterval
	if interval == 0 {
		interval = time.Duration(cfg.Watch.IntervalSec) * time.Second
	}

	if err := os.MkdirAll(filepath.Dir(flagWatchPIDFile), 0o750); err != nil {
		return fmt.Errorf("create watch directory: %w", err)
	}
	if err := writePID(flagWatchPIDFile, os.Getpid()); err != nil {
		return err
	}
	defer func() { _ = os.Remove(flagWatchPIDFile) }()

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	svc := watch.New(watch.Config{
		Fetcher:      client,
		Interval:     interval,
		EventsBuffer: flagWatchEventsBuffer,
		Log:          log,
	})

	fmt.Printf("  Watching budget, polling every %s\n", interval)
	fmt.Printf("  Stop with Ctrl-C or: cadence watch stop --pid-file %s\n", flagWatchPIDFile)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	events, unsubscribe := svc.Subscribe()
	defer unsubscribe()

	go printEvents(ctx, events, cfg.General.CurrencySymbol)

	if err := svc.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func printEvents(ctx context.Context, events <-chan watch.Event, symbol string) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-events:
			printEvent(ev, symbol)
		}
	}
}

func printEvent(ev watch.Event, symbol string) {
	ts := ev.Timestamp.Format("15:04:05")
	switch ev.Type {
	case watch.EventSnapshot:
		fmt.Printf("  [%s] watching cycle %s – %s\n", ts,
			cli.FormatShortDate(ev.Snapshot.CycleStart),
			cli.FormatShortDate(ev.Snapshot.CycleEnd))
	case watch.EventSpendDelta:
		fmt.Printf("  [%s] spend moved: needs %s, wants %s, savings %s\n", ts,
			cli.FormatMoney(ev.Delta.Needs, symbol),
			cli.FormatMoney(ev.Delta.Wants, symbol),
			cli.FormatMoney(ev.Delta.Savings, symbol))
	case watch.EventOverspend:
		fmt.Printf("  [%s] OVERSPENT: the %s bucket is over budget\n", ts, ev.Category)
	case watch.EventRollover:
		fmt.Printf("  [%s] new cycle started: %s – %s\n", ts,
			cli.FormatShortDate(ev.Snapshot.CycleStart),
			cli.FormatShortDate(ev.Snapshot.CycleEnd))
	case watch.EventNoMainIncome:
		fmt.Printf("  [%s] main income removed, no active cycle\n", ts)
	}
}

func runWatchStatus(_ *cobra.Command, _ []string) error {
	pid, err := readPID(flagWatchPIDFile)
	if err != nil {
		fmt.Printf("  Watcher: not running (pid file not found)\n")
		return nil
	}

	if !processAlive(pid) {
		fmt.Printf("  Watcher: stale pid file (pid %d not alive)\n", pid)
		return nil
	}

	fmt.Printf("  Watcher PID: %d\n", pid)
	fmt.Printf("  Log: %s\n", flagWatchLogFile)

	// Surface session health so a long-running watcher does not silently
	// poll with a dead token.
	cache, err := openCache()
	if err != nil {
		return nil
	}
	defer func() { _ = cache.Close() }()

	token, err := cache.Token()
	if err != nil || token == "" {
		fmt.Printf("  Session: none\n")
		return nil
	}
	if exp, err := api.TokenExpiry(token); err == nil {
		fmt.Printf("  Session expires: %s\n", exp.Local().Format(time.RFC3339))
	}
	return nil
}

func runWatchStop(_ *cobra.Command, _ []string) error {
	pid, err := readPID(flagWatchPIDFile)
	if err != nil {
		return errors.New("watcher is not running")
	}

	proc, err := os.FindProcess(pid)
	if err != nil {
		return fmt.Errorf("find watcher process: %w", err)
	}
	if err := proc.Signal(syscall.SIGTERM); err != nil {
		return fmt.Errorf("signal watcher process: %w", err)
	}

	deadline := time.Now().Add(8 * time.Second)
	for time.Now().Before(deadline) {
		if !processAlive(pid) {
			_ = os.Remove(flagWatchPIDFile)
			fmt.Printf("  Stopped watcher (pid %d)\n", pid)
			return nil
		}
		time.Sleep(150 * time.Millisecond)
	}

	return fmt.Errorf("watcher (pid %d) did not exit in time", pid)
}

func filterDetachArg(args []string) []string {
	out := make([]string, 0, len(args))
	for _, a := range args {
		if a == "--detach" || strings.HasPrefix(a, "--detach=") {
			continue
		}
		out = append(out, a)
	}
	return out
}

func ensureWatchNotRunning(pidFile string) error {
	pid, err := readPID(pidFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if processAlive(pid) {
		return fmt.Errorf("watcher already running (pid %d)", pid)
	}
	_ = os.Remove(pidFile)
	return nil
}

func writePID(path string, pid int) error {
	return os.WriteFile(path, []byte(strconv.Itoa(pid)+"\n"), 0o600)
}

func readPID(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid <= 0 {
		return 0, fmt.Errorf("invalid pid in %s", path)
	}
	return pid, nil
}

func processAlive(pid int) bool {
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	err = proc.Signal(syscall.Signal(0))
	return err == nil || errors.Is(err, syscall.EPERM)
}
