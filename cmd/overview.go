package cmd

import (
	"fmt"

	"cadence/internal/budget"
	"cadence/internal/cli"

	"github.com/spf13/cobra"
)

var overviewCmd = &cobra.Command{
	Use:   "overview",
	Short: "Current cycle budget overview",
	RunE:  runOverview,
}

func init() {
	rootCmd.AddCommand(overviewCmd)
}

func runOverview(cmd *cobra.Command, _ []string) error {
	data, err := loadBudget(cmd.Context())
	if err != nil {
		return err
	}

	cfg := loadConfig()
	symbol := cfg.General.CurrencySymbol

	if !data.Result.HasMain() {
		fmt.Println()
		fmt.Println("  No main income set yet.")
		fmt.Println("  Add one with `cadence income add --main`, then come back!")
		return nil
	}

	cycle := data.Result.Cycle
	allocs := budget.Aggregate(*cycle, data.Ratio, data.Expenses)

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("BUDGET  %s – %s",
		cli.FormatShortDate(cycle.Start), cli.FormatShortDate(cycle.End))))
	fmt.Println()

	head := cli.Table{
		Headers: []string{"Cycle", "Value"},
		Rows: [][]string{
			{"Main income", data.Result.Main.Name},
			{"Pay cycle", cli.TitleCase(string(cycle.Kind))},
			{"Total income", cli.FormatMoney(cycle.TotalIncome, symbol)},
			{"Days left", cli.FormatDays(cycle.RemainingDays)},
		},
	}
	fmt.Print(cli.RenderTable(head))
	fmt.Println()

	rows := make([][]string, 0, len(allocs)+2)
	for _, a := range allocs {
		rows = append(rows, []string{
			cli.TitleCase(string(a.Category)),
			fmt.Sprintf("%d%%", a.Percent),
			cli.FormatMoney(a.Budget, symbol),
			cli.FormatMoney(a.Spent, symbol),
			cli.FormatMoney(a.Remaining, symbol),
			cli.RenderBar(a.Progress, 20),
		})
	}
	rows = append(rows, []string{"---"})
	rows = append(rows, []string{
		"Total", "100%",
		cli.FormatMoney(cycle.TotalIncome, symbol),
		cli.FormatMoney(budget.TotalSpent(allocs), symbol),
		cli.FormatMoney(budget.TotalRemaining(allocs), symbol),
		"",
	})

	table := cli.Table{
		Headers: []string{"Bucket", "Split", "Budget", "Spent", "Remaining", "Progress"},
		Rows:    rows,
	}
	fmt.Print(cli.RenderTable(table))

	if data.FromCache {
		fmt.Printf("\n  Offline snapshot from %s\n", cli.FormatDate(data.FetchedAt))
	}

	return nil
}
