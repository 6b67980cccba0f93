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
	flagExpenseName     string
	flagExpenseAmount   string
	flagExpenseBucket   string
	flagExpenseCategory string
	flagExpenseNote     string
	flagExpenseCycle    string
	flagExpenseNextDue  string
)

var expenseCmd = &cobra.Command{
	Use:   "expense",
	Short: "Manage expenses",
	RunE:  runExpenseList,
}

var expenseListCmd = &cobra.Command{
	Use:   "list",
	Short: "List expenses in the current cycle",
	RunE:  runExpenseList,
}

var expenseAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Record an expense",
	RunE:  runExpenseAdd,
}

var expenseRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Remove an expense",
	Args:  cobra.ExactArgs(1),
	RunE:  runExpenseRm,
}

func init() {
	expenseAddCmd.Flags().StringVar(&flagExpenseName, "name", "", "Expense name")
	expenseAddCmd.Flags().StringVar(&flagExpenseAmount, "amount", "", "Amount, e.g. 42.50")
	expenseAddCmd.Flags().StringVar(&flagExpenseBucket, "from", "needs", "Bucket to spend from: needs, wants, savings")
	expenseAddCmd.Flags().StringVar(&flagExpenseCategory, "category", "other", "Expense category, e.g. food, housing")
	expenseAddCmd.Flags().StringVar(&flagExpenseNote, "note", "", "Optional note")
	expenseAddCmd.Flags().StringVar(&flagExpenseCycle, "recurring", "", "Make it recurring: weekly, biweekly, monthly")
	expenseAddCmd.Flags().StringVar(&flagExpenseNextDue, "next-due", "", "First due date for recurring (YYYY-MM-DD)")
	_ = expenseAddCmd.MarkFlagRequired("name")
	_ = expenseAddCmd.MarkFlagRequired("amount")

	expenseCmd.AddCommand(expenseListCmd)
	expenseCmd.AddCommand(expenseAddCmd)
	expenseCmd.AddCommand(expenseRmCmd)
	rootCmd.AddCommand(expenseCmd)
}

func runExpenseList(cmd *cobra.Command, _ []string) error {
	data, err := loadBudget(cmd.Context())
	if err != nil {
		return err
	}

	if !data.Result.HasMain() {
		fmt.Println("\n  No main income set, so there is no active cycle.")
		return nil
	}
	if len(data.Expenses) == 0 {
		fmt.Println("\n  No expenses in the current cycle.")
		return nil
	}

	cfg := loadConfig()
	symbol := cfg.General.CurrencySymbol

	rows := make([][]string, 0, len(data.Expenses))
	for _, e := range data.Expenses {
		when := cli.FormatShortDate(e.CreatedAt)
		kind := "one-time"
		if e.Type == model.ExpenseRecurring {
			when = cli.FormatShortDate(e.NextPaymentDate)
			kind = string(e.PayCycle)
		}
		rows = append(rows, []string{
			e.ID,
			e.Name,
			cli.FormatMoney(e.Amount, symbol),
			string(e.SpendFrom),
			string(e.Category),
			kind,
			when,
		})
	}

	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"ID", "Name", "Amount", "From", "Category", "Type", "Date"},
		Rows:    rows,
	}))
	return nil
}

func runExpenseAdd(cmd *cobra.Command, _ []string) error {
	amount, err := decimal.NewFromString(flagExpenseAmount)
	if err != nil {
		return fmt.Errorf("invalid amount %q", flagExpenseAmount)
	}

	e := model.Expense{
		Name:      flagExpenseName,
		Amount:    amount,
		SpendFrom: model.Category(flagExpenseBucket),
		Category:  model.ExpenseCategory(flagExpenseCategory),
		Note:      flagExpenseNote,
		Type:      model.ExpenseOneTime,
		CreatedAt: time.Now(),
	}

	if flagExpenseCycle != "" {
		if flagExpenseNextDue == "" {
			return fmt.Errorf("recurring expenses need --next-due")
		}
		due, err := time.ParseInLocation("2006-01-02", flagExpenseNextDue, time.Local)
		if err != nil {
			return fmt.Errorf("invalid next-due date %q, want YYYY-MM-DD", flagExpenseNextDue)
		}
		e.Type = model.ExpenseRecurring
		e.PayCycle = model.PayCycle(flagExpenseCycle)
		e.NextPaymentDate = due
	}

	if err := budget.ValidateExpense(e, time.Now()); err != nil {
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

	created, err := client.CreateExpense(cmd.Context(), e)
	if err != nil {
		return err
	}

	fmt.Printf("  Recorded %s from %s (%s)\n",
		cli.FormatMoney(created.Amount, cfg.General.CurrencySymbol),
		created.SpendFrom, created.ID)
	return nil
}

func runExpenseRm(cmd *cobra.Command, args []string) error {
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

	if err := client.DeleteExpense(cmd.Context(), args[0]); err != nil {
		return err
	}

	fmt.Printf("  Removed expense %s\n", args[0])
	return nil
}
