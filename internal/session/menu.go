package session

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/fintrack-dev/fintrack/internal/tracker"
)

// handler runs one menu entry and returns the message to show. A non-empty
// message together with tracker.ErrNotSaved means the change was applied
// in memory only.
type handler func(ctx context.Context, svc *tracker.Service) (string, error)

type menuItem struct {
	label string
	run   handler // nil exits the menu
}

const projectionYears = 10

// errInvalidInput marks a value the user typed that could not be parsed.
var errInvalidInput = errors.New("invalid input")

func (s *Session) menu() []menuItem {
	return []menuItem{
		{"Add a transaction", s.addTransaction},
		{"View transactions", s.viewTransactions},
		{"Manage categories", s.manageCategories},
		{"Set a financial goal", s.setGoal},
		{"Track goal progress", s.trackGoal},
		{"Add a recurring expense", s.addRecurring},
		{"View recurring expenses", s.viewRecurring},
		{"Add an investment", s.addInvestment},
		{"View investments", s.viewInvestments},
		{"Calculate tax", s.calculateTax},
		{"Convert currency", s.convertCurrency},
		{"View notifications", s.viewNotifications},
		{"Payment methods", s.paymentMethods},
		{"View summary", s.viewSummary},
		{"Exit", nil},
	}
}

func (s *Session) mainMenu(ctx context.Context, svc *tracker.Service) error {
	items := s.menu()
	for {
		s.println("")
		s.println(s.style.title.Render("Main Menu: " + svc.Username()))
		for i, item := range items {
			s.println(fmt.Sprintf("%d. %s", i+1, item.label))
		}

		choice, err := s.ask("Enter your choice: ")
		if errors.Is(err, errInputClosed) {
			return nil
		}
		if err != nil {
			return err
		}

		n, convErr := strconv.Atoi(choice)
		if convErr != nil || n < 1 || n > len(items) {
			s.println(s.style.err.Render(fmt.Sprintf("Invalid choice. Please enter a number from 1 to %d.", len(items))))
			continue
		}

		item := items[n-1]
		if item.run == nil {
			s.println("Goodbye!")
			return nil
		}

		msg, err := item.run(ctx, svc)
		switch {
		case errors.Is(err, errInputClosed):
			return nil
		case errors.Is(err, tracker.ErrNotSaved):
			if msg != "" {
				s.println(s.style.success.Render(msg))
			}
			s.println(s.style.warning.Render("Warning: " + err.Error()))
		case err != nil:
			s.println(s.style.err.Render("Error: " + err.Error()))
		case msg != "":
			s.println(s.style.success.Render(msg))
		}
	}
}

func (s *Session) askFloat(prompt string) (float64, error) {
	raw, err := s.ask(prompt)
	if err != nil {
		return 0, err
	}
	return parseNumber(raw)
}

// parseNumber accepts finite decimal numbers only; ParseFloat alone would
// let "nan" and "inf" through.
func parseNumber(raw string) (float64, error) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %q is not a number", errInvalidInput, raw)
	}
	return v, nil
}

func (s *Session) addTransaction(ctx context.Context, svc *tracker.Service) (string, error) {
	amount, err := s.askFloat("Amount (negative for an expense): ")
	if err != nil {
		return "", err
	}
	category, err := s.ask("Category: ")
	if err != nil {
		return "", err
	}
	desc, err := s.ask("Description: ")
	if err != nil {
		return "", err
	}

	txn, err := svc.AddTransaction(ctx, amount, category, desc)
	msg := fmt.Sprintf("Transaction %s added: %s in '%s'.", txn.ID, tracker.FormatAmount(txn.Amount), txn.Category)
	return msg, err
}

func (s *Session) viewTransactions(_ context.Context, svc *tracker.Service) (string, error) {
	filter, err := s.ask("Filter by category (blank for all): ")
	if err != nil {
		return "", err
	}

	txns := svc.Transactions()
	if filter != "" {
		txns = svc.TransactionsByCategory(filter)
	}
	if len(txns) == 0 {
		return "No transactions recorded.", nil
	}

	tw := tabwriter.NewWriter(s.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATE\tAMOUNT\tCATEGORY\tDESCRIPTION")
	for _, t := range txns {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			t.ID, t.Timestamp.Format("2006-01-02"), tracker.FormatAmount(t.Amount), t.Category, t.Description)
	}
	return "", tw.Flush()
}

func (s *Session) manageCategories(ctx context.Context, svc *tracker.Service) (string, error) {
	if names := svc.Categories(); len(names) > 0 {
		s.println(s.style.subtle.Render("Categories: " + strings.Join(names, ", ")))
	}

	action, err := s.ask("Action (add/delete): ")
	if err != nil {
		return "", err
	}
	action = strings.ToLower(action)
	name, err := s.ask("Category name: ")
	if err != nil {
		return "", err
	}

	changed, err := svc.ManageCategory(ctx, action, name)
	if err != nil && !errors.Is(err, tracker.ErrNotSaved) {
		return "", err
	}
	switch {
	case !changed:
		return fmt.Sprintf("Category '%s' already exists.", name), err
	case action == tracker.ActionAdd:
		return fmt.Sprintf("Category '%s' added.", name), err
	default:
		return fmt.Sprintf("Category '%s' deleted.", name), err
	}
}

func (s *Session) setGoal(ctx context.Context, svc *tracker.Service) (string, error) {
	amount, err := s.askFloat("Goal amount: ")
	if err != nil {
		return "", err
	}
	err = svc.SetGoal(ctx, amount)
	return fmt.Sprintf("Financial goal set: %s", tracker.FormatAmount(amount)), err
}

func (s *Session) trackGoal(ctx context.Context, svc *tracker.Service) (string, error) {
	status, err := svc.TrackGoalProgress(ctx)
	if !status.HasGoal {
		return "No financial goal set.", err
	}
	msg := fmt.Sprintf("Progress: %s of %s (%.1f%%)",
		tracker.FormatAmount(status.Progress), tracker.FormatAmount(status.Target), status.Percent())
	if status.Reached {
		msg += " Goal reached!"
	}
	return msg, err
}

func (s *Session) addRecurring(ctx context.Context, svc *tracker.Service) (string, error) {
	amount, err := s.askFloat("Amount: ")
	if err != nil {
		return "", err
	}
	raw, err := s.ask("Repeat every how many days: ")
	if err != nil {
		return "", err
	}
	days, convErr := strconv.Atoi(raw)
	if convErr != nil || days <= 0 {
		return "", fmt.Errorf("%w: interval must be a positive whole number of days", errInvalidInput)
	}
	desc, err := s.ask("Description: ")
	if err != nil {
		return "", err
	}

	exp, err := svc.AddRecurringExpense(ctx, amount, days, desc)
	return fmt.Sprintf("Recurring expense '%s' added, next due %s.", desc, exp.NextDueDate.Format("2006-01-02")), err
}

func (s *Session) viewRecurring(_ context.Context, svc *tracker.Service) (string, error) {
	exps := svc.RecurringExpenses()
	if len(exps) == 0 {
		return "No recurring expenses.", nil
	}

	now := s.now()
	tw := tabwriter.NewWriter(s.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DESCRIPTION\tAMOUNT\tEVERY\tNEXT DUE\t")
	for _, e := range exps {
		marker := ""
		if e.IsDue(now) {
			marker = "due"
		}
		fmt.Fprintf(tw, "%s\t%s\t%dd\t%s\t%s\n",
			e.Description, tracker.FormatAmount(e.Amount), e.IntervalDays, e.NextDueDate.Format("2006-01-02"), marker)
	}
	return "", tw.Flush()
}

func (s *Session) addInvestment(ctx context.Context, svc *tracker.Service) (string, error) {
	amount, err := s.askFloat("Investment amount: ")
	if err != nil {
		return "", err
	}
	desc, err := s.ask("Description: ")
	if err != nil {
		return "", err
	}
	raw, err := s.ask("Expected returns (blank to skip): ")
	if err != nil {
		return "", err
	}

	var roiNote string
	if raw != "" {
		returns, err := parseNumber(raw)
		if err != nil {
			return "", err
		}
		roi, err := tracker.ROI(amount, returns)
		if err != nil {
			return "", err
		}
		roiNote = fmt.Sprintf(" Expected ROI: %.2f%%", roi)
	}

	_, err = svc.AddInvestment(ctx, amount, desc)
	return fmt.Sprintf("Investment of %s added.%s", tracker.FormatAmount(amount), roiNote), err
}

func (s *Session) viewInvestments(_ context.Context, svc *tracker.Service) (string, error) {
	invs := svc.Investments()
	if len(invs) == 0 {
		return "No investments recorded.", nil
	}

	var total float64
	tw := tabwriter.NewWriter(s.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tAMOUNT\tDESCRIPTION")
	for _, inv := range invs {
		total += inv.Amount
		fmt.Fprintf(tw, "%s\t%s\t%s\n", inv.Timestamp.Format("2006-01-02"), tracker.FormatAmount(inv.Amount), inv.Description)
	}
	if err := tw.Flush(); err != nil {
		return "", err
	}
	s.println("Total invested: " + tracker.FormatAmount(total))

	raw, err := s.ask(fmt.Sprintf("Annual growth %% for a %d-year projection (blank to skip): ", projectionYears))
	if err != nil || raw == "" {
		return "", err
	}
	rate, err := parseNumber(raw)
	if err != nil {
		return "", err
	}
	projected := tracker.CompoundValue(total, rate, projectionYears)
	return fmt.Sprintf("Projected value after %d years at %g%%: %s", projectionYears, rate, tracker.FormatAmount(projected)), nil
}

func (s *Session) calculateTax(ctx context.Context, svc *tracker.Service) (string, error) {
	income, err := s.askFloat("Income: ")
	if err != nil {
		return "", err
	}
	method, err := s.ask("Method (bracket/flat) [bracket]: ")
	if err != nil {
		return "", err
	}

	var owed float64
	switch strings.ToLower(method) {
	case "", "bracket":
		owed, err = svc.CalculateTax(ctx, income)
	case "flat":
		owed, err = svc.CalculateFlatTax(ctx, income)
		if err != nil && !errors.Is(err, tracker.ErrNotSaved) {
			return "", err
		}
	default:
		return "", fmt.Errorf("%w: method must be bracket or flat", errInvalidInput)
	}
	return fmt.Sprintf("Tax owed on %s: %s", tracker.FormatAmount(income), tracker.FormatAmount(owed)), err
}

func (s *Session) convertCurrency(ctx context.Context, svc *tracker.Service) (string, error) {
	conv := svc.Converter()
	amount, err := s.askFloat(fmt.Sprintf("Amount in %s: ", conv.Base()))
	if err != nil {
		return "", err
	}
	to, err := s.ask(fmt.Sprintf("Target currency (%s): ", strings.Join(conv.Codes(), ", ")))
	if err != nil {
		return "", err
	}

	converted, err := svc.ConvertCurrency(ctx, amount, to)
	if err != nil && !errors.Is(err, tracker.ErrNotSaved) {
		return "", err
	}
	return fmt.Sprintf("%s %s = %s %s", tracker.FormatAmount(amount), conv.Base(),
		tracker.FormatAmount(converted), strings.ToUpper(to)), err
}

func (s *Session) viewNotifications(ctx context.Context, svc *tracker.Service) (string, error) {
	notes := svc.Notifications()
	if len(notes) == 0 {
		s.println("No notifications.")
	}
	for _, n := range notes {
		s.println(s.style.subtle.Render(n.Timestamp.Format("2006-01-02 15:04")) + "  " + n.Message)
	}

	note, err := s.ask("Add a notification (blank to skip): ")
	if err != nil || note == "" {
		return "", err
	}
	return "Notification added.", svc.Notify(ctx, note)
}

func (s *Session) paymentMethods(ctx context.Context, svc *tracker.Service) (string, error) {
	if methods := svc.PaymentMethods(); len(methods) > 0 {
		s.println(s.style.subtle.Render("Payment methods: " + strings.Join(methods, ", ")))
	} else {
		s.println(s.style.subtle.Render("No payment methods."))
	}

	action, err := s.ask("Action (add/remove, blank to go back): ")
	if err != nil {
		return "", err
	}
	action = strings.ToLower(action)
	if action == "" {
		return "", nil
	}
	if action != "add" && action != "remove" {
		return "", fmt.Errorf("%w: action must be add or remove", errInvalidInput)
	}

	name, err := s.ask("Payment method: ")
	if err != nil {
		return "", err
	}
	if action == "add" {
		err = svc.AddPaymentMethod(ctx, name)
		return fmt.Sprintf("Payment method '%s' added.", name), err
	}
	err = svc.RemovePaymentMethod(ctx, name)
	if err != nil && !errors.Is(err, tracker.ErrNotSaved) {
		return "", err
	}
	return fmt.Sprintf("Payment method '%s' removed.", name), err
}

func (s *Session) viewSummary(_ context.Context, svc *tracker.Service) (string, error) {
	sum := svc.Summary()
	tw := tabwriter.NewWriter(s.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Transactions\t%d\n", sum.Count)
	fmt.Fprintf(tw, "Income\t%s\n", tracker.FormatAmount(sum.TotalIncome))
	fmt.Fprintf(tw, "Expenses\t%s\n", tracker.FormatAmount(sum.TotalExpenses))
	fmt.Fprintf(tw, "Net\t%s\n", tracker.FormatAmount(sum.Net))
	fmt.Fprintf(tw, "Average\t%s\n", tracker.FormatAmount(sum.Average))
	return "", tw.Flush()
}
