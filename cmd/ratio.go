package cmd

import (
	"fmt"
	"strconv"

	"cadence/internal/budget"
	"cadence/internal/cli"

	"github.com/spf13/cobra"
)

var ratioCmd = &cobra.Command{
	Use:   "ratio",
	Short: "Show or adjust the needs/wants/savings split",
	RunE:  runRatioShow,
}

var ratioShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current split",
	RunE:  runRatioShow,
}

var ratioSetCmd = &cobra.Command{
	Use:   "set <bucket> <percent>",
	Short: "Set one bucket; the other two rebalance proportionally",
	Long: "Set one bucket's percentage. The remaining percentage is split\n" +
		"between the other two buckets in proportion to their current values,\n" +
		"so the three always sum to 100.",
	Args: cobra.ExactArgs(2),
	RunE: runRatioSet,
}

func init() {
	ratioCmd.AddCommand(ratioShowCmd)
	ratioCmd.AddCommand(ratioSetCmd)
	rootCmd.AddCommand(ratioCmd)
}

func runRatioShow(cmd *cobra.Command, _ []string) error {
	data, err := loadBudget(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Bucket", "Split"},
		Rows: [][]string{
			{"Needs", fmt.Sprintf("%d%%", data.Ratio.Needs)},
			{"Wants", fmt.Sprintf("%d%%", data.Ratio.Wants)},
			{"Savings", fmt.Sprintf("%d%%", data.Ratio.Savings)},
		},
	}))
	return nil
}

func runRatioSet(cmd *cobra.Command, args []string) error {
	field := budget.RatioField(args[0])
	value, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid percentage %q", args[1])
	}

	cfg := loadConfig()
	cache, err := openCache()
	if err != nil {
		return err
	}
	defer func() { _ = cache.Close() }()

	client, err := newClient(cfg, cache)
	if err != nil {
		return err
	}

	current, err := client.GetRatio(cmd.Context())
	if err != nil {
		return err
	}

	adjusted, err := budget.Adjust(current, field, value)
	if err != nil {
		return err
	}

	if err := client.UpdateRatio(cmd.Context(), adjusted); err != nil {
		return err
	}

	fmt.Printf("  Split is now %d/%d/%d (needs/wants/savings)\n",
		adjusted.Needs, adjusted.Wants, adjusted.Savings)
	return nil
}
