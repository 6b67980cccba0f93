package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"cadence/internal/api"
	"cadence/internal/budget"
	"cadence/internal/model"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/shopspring/decimal"
)

type incomeFormValues struct {
	name    string
	amount  string
	cycle   string
	nextPay string
	isMain  bool
}

type expenseFormValues struct {
	name     string
	amount   string
	bucket   string
	category string
	note     string
	cycle    string // empty for one-time
	nextDue  string
}

type ratioFormValues struct {
	bucket  string
	percent string
}

func (a App) openIncomeForm() (tea.Model, tea.Cmd) {
	a.incomeVals = incomeFormValues{cycle: string(model.PayCycleMonthly)}

	cycleOpts := make([]huh.Option[string], 0, len(model.PayCycles))
	for _, pc := range model.PayCycles {
		cycleOpts = append(cycleOpts, huh.NewOption(string(pc), string(pc)))
	}

	a.form = huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("Name").
			Validate(requiredField("name")).
			Value(&a.incomeVals.name),
		huh.NewInput().
			Title("Amount per cycle").
			Validate(validAmount).
			Value(&a.incomeVals.amount),
		huh.NewSelect[string]().
			Title("Pay cycle").
			Options(cycleOpts...).
			Value(&a.incomeVals.cycle),
		huh.NewInput().
			Title("Next pay date (YYYY-MM-DD)").
			Validate(validFutureDate).
			Value(&a.incomeVals.nextPay),
		huh.NewConfirm().
			Title("Main income?").
			Value(&a.incomeVals.isMain),
	))
	a.formKind = formAddIncome

	if a.width > 0 {
		a.form = a.form.WithWidth(a.width).WithHeight(a.height)
	}
	return a, a.form.Init()
}

func (a App) openExpenseForm() (tea.Model, tea.Cmd) {
	a.expenseVals = expenseFormValues{
		bucket:   string(model.CategoryNeeds),
		category: string(model.ExpenseOther),
	}

	bucketOpts := make([]huh.Option[string], 0, len(model.Categories))
	for _, c := range model.Categories {
		bucketOpts = append(bucketOpts, huh.NewOption(string(c), string(c)))
	}

	catOpts := make([]huh.Option[string], 0, len(model.ExpenseCategories))
	for _, c := range model.ExpenseCategories {
		catOpts = append(catOpts, huh.NewOption(string(c), string(c)))
	}

	cycleOpts := []huh.Option[string]{huh.NewOption("one-time", "")}
	for _, pc := range model.PayCycles {
		if pc.Recurring() {
			cycleOpts = append(cycleOpts, huh.NewOption(string(pc), string(pc)))
		}
	}

	a.form = huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("Name").
			Validate(requiredField("name")).
			Value(&a.expenseVals.name),
		huh.NewInput().
			Title("Amount").
			Validate(validAmount).
			Value(&a.expenseVals.amount),
		huh.NewSelect[string]().
			Title("Spend from").
			Options(bucketOpts...).
			Value(&a.expenseVals.bucket),
		huh.NewSelect[string]().
			Title("Category").
			Options(catOpts...).
			Value(&a.expenseVals.category),
		huh.NewSelect[string]().
			Title("Repeats").
			Options(cycleOpts...).
			Value(&a.expenseVals.cycle),
		huh.NewInput().
			Title("Next due date (recurring only, YYYY-MM-DD)").
			Value(&a.expenseVals.nextDue),
		huh.NewInput().
			Title("Note (optional)").
			Value(&a.expenseVals.note),
	))
	a.formKind = formAddExpense

	if a.width > 0 {
		a.form = a.form.WithWidth(a.width).WithHeight(a.height)
	}
	return a, a.form.Init()
}

func (a App) openRatioForm() (tea.Model, tea.Cmd) {
	a.ratioVals = ratioFormValues{bucket: string(budget.FieldNeeds)}

	a.form = huh.NewForm(huh.NewGroup(
		huh.NewSelect[string]().
			Title("Bucket to change").
			Options(
				huh.NewOption("needs", string(budget.FieldNeeds)),
				huh.NewOption("wants", string(budget.FieldWants)),
				huh.NewOption("savings", string(budget.FieldSavings)),
			).
			Value(&a.ratioVals.bucket),
		huh.NewInput().
			Title("New percentage (0-100)").
			Validate(validPercent).
			Value(&a.ratioVals.percent),
	))
	a.formKind = formRatio

	if a.width > 0 {
		a.form = a.form.WithWidth(a.width).WithHeight(a.height)
	}
	return a, a.form.Init()
}

func (a App) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.form = f
	}

	if a.form.State == huh.StateCompleted {
		kind := a.formKind
		a.form = nil
		a.formKind = formNone
		return a.submitForm(kind)
	}

	if a.form.State == huh.StateAborted {
		a.form = nil
		a.formKind = formNone
		return a, nil
	}

	return a, cmd
}

func (a App) submitForm(kind formKind) (tea.Model, tea.Cmd) {
	switch kind {
	case formAddIncome:
		return a, submitIncomeCmd(a.client, a.incomeVals)
	case formAddExpense:
		return a, submitExpenseCmd(a.client, a.expenseVals)
	case formRatio:
		return a, submitRatioCmd(a.client, a.ratioVals)
	}
	return a, nil
}

func submitIncomeCmd(client *api.Client, vals incomeFormValues) tea.Cmd {
	return func() tea.Msg {
		amount, err := decimal.NewFromString(vals.amount)
		if err != nil {
			return ActionDoneMsg{Err: fmt.Errorf("invalid amount %q", vals.amount)}
		}
		nextPay, err := time.ParseInLocation("2006-01-02", vals.nextPay, time.Local)
		if err != nil {
			return ActionDoneMsg{Err: errors.New("next pay date must be YYYY-MM-DD")}
		}

		inc := model.Income{
			Name:        vals.name,
			Amount:      amount,
			PayCycle:    model.PayCycle(vals.cycle),
			NextPayDate: nextPay,
			IsMain:      vals.isMain,
		}
		if err := budget.ValidateIncome(inc, time.Now()); err != nil {
			return ActionDoneMsg{Err: err}
		}

		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		created, err := client.CreateIncome(ctx, inc)
		if err != nil {
			return ActionDoneMsg{Err: err}
		}
		return ActionDoneMsg{Status: "Added income " + created.Name}
	}
}

func submitExpenseCmd(client *api.Client, vals expenseFormValues) tea.Cmd {
	return func() tea.Msg {
		amount, err := decimal.NewFromString(vals.amount)
		if err != nil {
			return ActionDoneMsg{Err: fmt.Errorf("invalid amount %q", vals.amount)}
		}

		e := model.Expense{
			Name:      vals.name,
			Amount:    amount,
			SpendFrom: model.Category(vals.bucket),
			Category:  model.ExpenseCategory(vals.category),
			Note:      vals.note,
			Type:      model.ExpenseOneTime,
			CreatedAt: time.Now(),
		}
		if vals.cycle != "" {
			due, err := time.ParseInLocation("2006-01-02", vals.nextDue, time.Local)
			if err != nil {
				return ActionDoneMsg{Err: errors.New("next due date must be YYYY-MM-DD")}
			}
			e.Type = model.ExpenseRecurring
			e.PayCycle = model.PayCycle(vals.cycle)
			e.NextPaymentDate = due
		}
		if err := budget.ValidateExpense(e, time.Now()); err != nil {
			return ActionDoneMsg{Err: err}
		}

		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		created, err := client.CreateExpense(ctx, e)
		if err != nil {
			return ActionDoneMsg{Err: err}
		}
		return ActionDoneMsg{Status: "Recorded " + created.Name}
	}
}

func submitRatioCmd(client *api.Client, vals ratioFormValues) tea.Cmd {
	return func() tea.Msg {
		value, err := strconv.Atoi(vals.percent)
		if err != nil {
			return ActionDoneMsg{Err: fmt.Errorf("invalid percentage %q", vals.percent)}
		}

		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		current, err := client.GetRatio(ctx)
		if err != nil {
			return ActionDoneMsg{Err: err}
		}

		adjusted, err := budget.Adjust(current, budget.RatioField(vals.bucket), value)
		if err != nil {
			return ActionDoneMsg{Err: err}
		}

		if err := client.UpdateRatio(ctx, adjusted); err != nil {
			return ActionDoneMsg{Err: err}
		}
		return ActionDoneMsg{Status: fmt.Sprintf("Split is now %d/%d/%d",
			adjusted.Needs, adjusted.Wants, adjusted.Savings)}
	}
}

func requiredField(field string) func(string) error {
	return func(s string) error {
		if s == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}

func validAmount(s string) error {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return errors.New("enter a number like 42.50")
	}
	if !d.IsPositive() {
		return errors.New("amount must be positive")
	}
	return nil
}

func validFutureDate(s string) error {
	d, err := time.ParseInLocation("2006-01-02", s, time.Local)
	if err != nil {
		return errors.New("use YYYY-MM-DD")
	}
	if d.Before(time.Now().AddDate(0, 0, -1)) {
		return errors.New("date must be today or later")
	}
	return nil
}

func validPercent(s string) error {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 || n > 100 {
		return errors.New("enter a whole number 0-100")
	}
	return nil
}
