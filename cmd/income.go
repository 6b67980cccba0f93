package cmd

import (
	"fmt"
	"time"

	"cadence/internal/budget"
	"cadence/internal/cli"
	"cadence/internal/model"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var (
	flagIncomeName    string
	flagIncomeAmount  string
	flagIncomeCycle   string
	flagIncomeNextPay string
	flagIncomeMain    bool
)

var incomeCmd = &cobra.Command{
	Use:   "income",
	Short: "Manage income sources",
	RunE:  runIncomeList,
}

var incomeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List income sources",
	RunE:  runIncomeList,
}

var incomeAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add an income source",
	RunE:  runIncomeAdd,
}

var incomeSetMainCmd = &cobra.Command{
	Use:   "set-main <id>",
	Short: "Promote an income to main (drives the budget cycle)",
	Args:  cobra.ExactArgs(1),
	RunE:  runIncomeSetMain,
}

var incomeRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Remove an income source",
	Args:  cobra.ExactArgs(1),
	RunE:  runIncomeRm,
}

func init() {
	incomeAddCmd.Flags().StringVar(&flagIncomeName, "name", "", "Income name")
	incomeAddCmd.Flags().StringVar(&flagIncomeAmount, "amount", "", "Amount per pay cycle, e.g. 2500.00")
	incomeAddCmd.Flags().StringVar(&flagIncomeCycle, "cycle", "monthly", "Pay cycle: weekly, biweekly, monthly, one-time")
	incomeAddCmd.Flags().StringVar(&flagIncomeNextPay, "next-pay", "", "Next pay date (YYYY-MM-DD)")
	incomeAddCmd.Flags().BoolVar(&flagIncomeMain, "main", false, "Make this the main income")
	_ = incomeAddCmd.MarkFlagRequired("name")
	_ = incomeAddCmd.MarkFlagRequired("amount")
	_ = incomeAddCmd.MarkFlagRequired("next-pay")

	incomeCmd.AddCommand(incomeListCmd)
	incomeCmd.AddCommand(incomeAddCmd)
	incomeCmd.AddCommand(incomeSetMainCmd)
	incomeCmd.AddCommand(incomeRmCmd)
	rootCmd.AddCommand(incomeCmd)
}

func runIncomeList(cmd *cobra.Command, _ []string) error {
	data, err := loadBudget(cmd.Context())
	if err != nil {
		return err
	}

	if len(data.Incomes) == 0 {
		fmt.Println("\n  No incomes yet. Add one with `cadence income add`.")
		return nil
	}

	cfg := loadConfig()
	symbol := cfg.General.CurrencySymbol

	rows := make([][]string, 0, len(data.Incomes))
	for _, inc := range data.Incomes {
		main := ""
		if inc.IsMain {
			main = "main"
		}
		rows = append(rows, []string{
			inc.ID,
			inc.Name,
			cli.FormatMoney(inc.Amount, symbol),
			cli.TitleCase(string(inc.PayCycle)),
			cli.FormatShortDate(inc.NextPayDate),
			main,
		})
	}

	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"ID", "Name", "Amount", "Cycle", "Next Pay", ""},
		Rows:    rows,
	}))
	return nil
}

func runIncomeAdd(cmd *cobra.Command, _ []string) error {
	amount, err := decimal.NewFromString(flagIncomeAmount)
	if err != nil {
		return fmt.Errorf("invalid amount %q", flagIncomeAmount)
	}

	nextPay, err := time.ParseInLocation("2006-01-02", flagIncomeNextPay, time.Local)
	if err != nil {
		return fmt.Errorf("invalid next-pay date %q, want YYYY-MM-DD", flagIncomeNextPay)
	}

	inc := model.Income{
		Name:        flagIncomeName,
		Amount:      amount,
		PayCycle:    model.PayCycle(flagIncomeCycle),
		NextPayDate: nextPay,
		IsMain:      flagIncomeMain,
	}

	if err := budget.ValidateIncome(inc, time.Now()); err != nil {
		return err
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

	created, err := client.CreateIncome(cmd.Context(), inc)
	if err != nil {
		return err
	}

	fmt.Printf("  Added income %s (%s)\n", created.Name, created.ID)
	if created.IsMain {
		fmt.Println("  This income now drives the budget cycle.")
	}
	return nil
}

func runIncomeSetMain(cmd *cobra.Command, args []string) error {
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

	if err := client.SetMainIncome(cmd.Context(), args[0]); err != nil {
		return err
	}

	fmt.Printf("  Income %s is now the main income.\n", args[0])
	return nil
}

func runIncomeRm(cmd *cobra.Command, args []string) error {
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

	if err := client.DeleteIncome(cmd.Context(), args[0]); err != nil {
		return err
	}

	fmt.Printf("  Removed income %s\n", args[0])
	return nil
}
