package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"cadence/internal/api"
	"cadence/internal/budget"
	"cadence/internal/config"
	"cadence/internal/model"
	"cadence/internal/store"

	"github.com/spf13/cobra"
)

var (
	flagServer  string
	flagOffline bool
	flagQuiet   bool
)

var rootCmd = &cobra.Command{
	Use:   "cadence",
	Short: "Personal budgeting CLI",
	Long:  "Track incomes, expenses, and your needs/wants/savings split per pay cycle.",
	RunE:  runOverview,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagServer, "server", "s", "", "Data service base URL (overrides config)")
	rootCmd.PersistentFlags().BoolVar(&flagOffline, "offline", false, "Use the local snapshot, skip the data service")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output")
}

// loadConfig returns the saved config or defaults, with the --server flag
// applied on top.
func loadConfig() config.Config {
	cfg, err := config.Load()
	if err != nil {
		cfg = config.DefaultConfig()
	}
	if flagServer != "" {
		cfg.Server.BaseURL = flagServer
	}
	return cfg
}

func openCache() (*store.Cache, error) {
	cache, err := store.Open(config.CachePath())
	if err != nil {
		return nil, fmt.Errorf("opening local snapshot: %w", err)
	}
	return cache, nil
}

// newClient builds an authenticated API client from the stored session.
// Returns a helpful error when no session exists or it has expired.
func newClient(cfg config.Config, cache *store.Cache) (*api.Client, error) {
	token := os.Getenv("CADENCE_TOKEN")
	if token == "" {
		var err error
		token, err = cache.Token()
		if err != nil {
			return nil, fmt.Errorf("reading session: %w", err)
		}
	}
	if token == "" {
		return nil, errors.New("not logged in, run `cadence login` first")
	}
	if api.TokenExpired(token, time.Now()) {
		return nil, errors.New("session expired, run `cadence login` again")
	}
	return api.NewClient(config.ServerURL(cfg), token), nil
}

// budgetData is the assembled state every read command works from.
type budgetData struct {
	Incomes   []model.Income
	Expenses  []model.Expense
	Ratio     model.Ratio
	Result    model.CycleResult
	FromCache bool
	FetchedAt time.Time
}

// loadBudget is the shared data loading path. It fetches fresh state from
// the data service and refreshes the local snapshot; when the service is
// unreachable (or --offline is set) it falls back to the snapshot.
func loadBudget(ctx context.Context) (*budgetData, error) {
	cfg := loadConfig()

	cache, err := openCache()
	if err != nil {
		return nil, err
	}
	defer func() { _ = cache.Close() }()

	if flagOffline {
		return loadFromCache(cache)
	}

	client, err := newClient(cfg, cache)
	if err != nil {
		return nil, err
	}

	data, err := fetchBudget(ctx, client)
	if err != nil {
		if errors.Is(err, api.ErrUnavailable) {
			if !flagQuiet {
				fmt.Fprintf(os.Stderr, "  Service unreachable, using local snapshot\n")
			}
			return loadFromCache(cache)
		}
		return nil, err
	}

	// Refresh the snapshot so offline reads stay current. A save failure
	// is not fatal for the command itself.
	saveErr := cache.SaveSnapshot(store.Snapshot{
		Incomes:   data.Incomes,
		Expenses:  data.Expenses,
		Ratio:     data.Ratio,
		FetchedAt: time.Now(),
	})
	if saveErr != nil && !flagQuiet {
		fmt.Fprintf(os.Stderr, "  Snapshot save failed: %v\n", saveErr)
	}

	return data, nil
}

func fetchBudget(ctx context.Context, client *api.Client) (*budgetData, error) {
	incomes, err := client.ListIncomes(ctx)
	if err != nil {
		return nil, err
	}

	res, err := budget.Resolve(incomes, time.Now())
	if err != nil {
		return nil, err
	}

	ratio, err := client.GetRatio(ctx)
	if err != nil {
		return nil, err
	}

	data := &budgetData{
		Incomes:   incomes,
		Ratio:     ratio,
		Result:    res,
		FetchedAt: time.Now(),
	}

	if res.HasMain() {
		expenses, err := client.ListExpenses(ctx, res.Cycle.Start, res.Cycle.End)
		if err != nil {
			return nil, err
		}
		data.Expenses = expenses
	}

	return data, nil
}

// loadFromCache rebuilds budgetData from the local snapshot. The cycle is
// re-resolved against today so a stale snapshot still shows the right window.
func loadFromCache(cache *store.Cache) (*budgetData, error) {
	snap, err := cache.LoadSnapshot()
	if err != nil {
		return nil, fmt.Errorf("reading local snapshot: %w", err)
	}
	if snap == nil {
		return nil, errors.New("no local snapshot yet, connect to the service once first")
	}

	res, err := budget.Resolve(snap.Incomes, time.Now())
	if err != nil {
		return nil, err
	}

	data := &budgetData{
		Incomes:   snap.Incomes,
		Ratio:     snap.Ratio,
		Result:    res,
		FromCache: true,
		FetchedAt: snap.FetchedAt,
	}

	if res.HasMain() {
		w := budget.Window{Start: res.Cycle.Start, End: res.Cycle.End}
		for _, e := range snap.Expenses {
			if budget.InCycle(e, w) {
				data.Expenses = append(data.Expenses, e)
			}
		}
	}

	return data, nil
}
