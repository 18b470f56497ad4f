package session

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fintrack-dev/fintrack/internal/auth"
	"github.com/fintrack-dev/fintrack/internal/model"
	"github.com/fintrack-dev/fintrack/internal/store"
)

var testTime = time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC)

type fakeAuth struct {
	users map[string]string
}

func newFakeAuth(users ...string) *fakeAuth {
	a := &fakeAuth{users: map[string]string{}}
	for _, u := range users {
		a.users[u] = "secret1"
	}
	return a
}

func (a *fakeAuth) Login(username, password string) (bool, error) {
	p, ok := a.users[username]
	return ok && p == password, nil
}

func (a *fakeAuth) Register(username, password string) (bool, error) {
	if _, ok := a.users[username]; ok {
		return false, auth.ErrUserExists
	}
	a.users[username] = password
	return true, nil
}

type brokenStore struct {
	*store.MemoryStore
}

func (brokenStore) Save(context.Context, string, *model.Record) error {
	return errors.New("disk full")
}

func runScript(t *testing.T, a Authenticator, st store.Store, lines ...string) string {
	t.Helper()
	var out bytes.Buffer
	in := strings.NewReader(strings.Join(lines, "\n") + "\n")
	s := New(in, &out, a, st, WithClock(func() time.Time { return testTime }))
	require.NoError(t, s.Run(context.Background()))
	return out.String()
}

func login(user string) []string {
	return []string{"1", user, "secret1"}
}

func TestRun_FullSession(t *testing.T) {
	mem := store.NewMemoryStore()
	a := newFakeAuth()

	script := []string{"2", "alice", "secret1"}
	script = append(script, login("alice")...)
	script = append(script,
		"1", "-42.5", "Food", "Groceries",
		"2", "Food",
		"4", "5000",
		"1", "6000", "Salary", "January pay",
		"5",
		"11", "9500", "USD",
		"15",
	)
	out := runScript(t, a, mem, script...)

	assert.Contains(t, out, "Registration successful")
	assert.Contains(t, out, "Welcome back, alice!")
	assert.Contains(t, out, "Transaction 2025-01-001 added: -42.50 in 'Food'.")
	assert.Contains(t, out, "2025-01-15  -42.50  Food")
	assert.Contains(t, out, "Financial goal set: 5000.00")
	assert.Contains(t, out, "Progress: 6000.00 of 5000.00 (120.0%) Goal reached!")
	assert.Contains(t, out, "9500.00 BDT = 100.00 USD")
	assert.True(t, strings.HasSuffix(strings.TrimSpace(out), "Goodbye!"))

	rec, err := mem.Load(context.Background(), "alice")
	require.NoError(t, err)
	require.Len(t, rec.Transactions, 2)
	assert.Equal(t, "2025-01-002", rec.Transactions[1].ID)
	require.NotNil(t, rec.Goal)
	assert.Equal(t, 6000.0, rec.Goal.Progress)
	assert.True(t, rec.HasCategory("Food"))
}

func TestRun_AuthMenu(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		want  []string
	}{
		{"exit", []string{"3"}, []string{"Goodbye!"}},
		{"bad login", []string{"1", "bob", "wrong", "3"}, []string{"Invalid username or password.", "Goodbye!"}},
		{"unknown choice", []string{"9", "3"}, []string{"Invalid choice. Please enter 1, 2 or 3."}},
		{"duplicate register", []string{"2", "bob", "secret1", "3"}, []string{"Registration failed: username already registered"}},
		{"eof", nil, []string{"Personal Finance Tracker"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := runScript(t, newFakeAuth("bob"), store.NewMemoryStore(), tt.lines...)
			for _, w := range tt.want {
				assert.Contains(t, out, w)
			}
		})
	}
}

func TestMainMenu_EOFEndsCleanly(t *testing.T) {
	out := runScript(t, newFakeAuth("bob"), store.NewMemoryStore(), append(login("bob"), "1", "12")...)
	assert.Contains(t, out, "Amount (negative for an expense): ")
	assert.NotContains(t, out, "Goodbye!")
}

func TestMainMenu_ValidationErrorsDoNotMutate(t *testing.T) {
	mem := store.NewMemoryStore()
	script := append(login("bob"),
		"1", "abc",
		"1", "nan",
		"4", "-Inf",
		"8", "100", "Bonds", "inf",
		"3", "rename", "Food",
		"3", "delete", "Travel",
		"11", "100", "GBP",
		"6", "10", "0",
		"99",
		"15",
	)
	out := runScript(t, newFakeAuth("bob"), mem, script...)

	assert.Contains(t, out, `Error: invalid input: "abc" is not a number`)
	assert.Contains(t, out, `Error: invalid input: "nan" is not a number`)
	assert.Contains(t, out, `Error: invalid input: "-Inf" is not a number`)
	assert.Contains(t, out, `Error: invalid input: "inf" is not a number`)
	assert.Contains(t, out, `Error: unknown category action: "rename"`)
	assert.Contains(t, out, "Error: category not found: 'Travel'")
	assert.Contains(t, out, "Error: unsupported currency")
	assert.Contains(t, out, "interval must be a positive whole number of days")
	assert.Contains(t, out, "Invalid choice. Please enter a number from 1 to 15.")
	assert.Equal(t, 0, mem.Saves())
}

func TestMainMenu_Categories(t *testing.T) {
	mem := store.NewMemoryStore()
	script := append(login("bob"),
		"3", "add", "Travel",
		"3", "add", "Travel",
		"3", "DELETE", "Travel",
		"15",
	)
	out := runScript(t, newFakeAuth("bob"), mem, script...)

	assert.Contains(t, out, "Category 'Travel' added.")
	assert.Contains(t, out, "Category 'Travel' already exists.")
	assert.Contains(t, out, "Category 'Travel' deleted.")
	assert.Equal(t, 2, mem.Saves())
}

func TestMainMenu_RecurringAndInvestments(t *testing.T) {
	mem := store.NewMemoryStore()
	script := append(login("bob"),
		"6", "-1200", "30", "Rent",
		"6", "-15", "0",
		"7",
		"8", "1000", "Index fund", "100",
		"8", "0", "Nothing", "5",
		"9", "5",
		"9", "lots",
		"9", "",
		"15",
	)
	out := runScript(t, newFakeAuth("bob"), mem, script...)

	assert.Contains(t, out, "Main Menu: bob")
	assert.Contains(t, out, "Recurring expense 'Rent' added, next due 2025-02-14.")
	assert.Contains(t, out, "Rent")
	assert.Contains(t, out, "Investment of 1000.00 added. Expected ROI: 10.00%")
	assert.Contains(t, out, "Error: investment amount is zero")
	assert.Contains(t, out, "Total invested: 1000.00")
	assert.Contains(t, out, "Projected value after 10 years at 5%: 1628.89")
	assert.Contains(t, out, `Error: invalid input: "lots" is not a number`)
	assert.Equal(t, 3, strings.Count(out, "Total invested: 1000.00"))

	rec, err := mem.Load(context.Background(), "bob")
	require.NoError(t, err)
	assert.Len(t, rec.RecurringExpenses, 1)
	assert.Len(t, rec.Investments, 1)
}

func TestMainMenu_TaxNotificationsAndPayments(t *testing.T) {
	mem := store.NewMemoryStore()
	script := append(login("bob"),
		"10", "700000", "",
		"10", "1000", "flat",
		"10", "-5", "flat",
		"10", "1000", "wealth",
		"13", "add", "Visa",
		"13", "remove", "Amex",
		"13", "remove", "Visa",
		"13", "",
		"12", "Pay rent on Friday",
		"12", "",
		"2", "",
		"14",
		"15",
	)
	out := runScript(t, newFakeAuth("bob"), mem, script...)

	assert.Contains(t, out, "Tax owed on 700000.00: 40000.00")
	assert.Contains(t, out, "Tax owed on 1000.00: 150.00")
	assert.Contains(t, out, "Error: amount cannot be negative")
	assert.Contains(t, out, "method must be bracket or flat")
	assert.Contains(t, out, "Notification added.")
	assert.Contains(t, out, "Pay rent on Friday")
	assert.Contains(t, out, "Error: Tax calculation failed. Negative amount provided.")
	assert.Contains(t, out, "No transactions recorded.")
	assert.Contains(t, out, "Payment method 'Visa' added.")
	assert.Contains(t, out, "Error: payment method not found: 'Amex'")
	assert.Contains(t, out, "Payment method 'Visa' removed.")
	assert.Contains(t, out, "2025-01-15 10:30  Tax calculated: 40000.00 for income 700000.00")
	assert.Contains(t, out, "Transactions  0")
}

func TestMainMenu_SaveFailureIsAWarning(t *testing.T) {
	st := brokenStore{store.NewMemoryStore()}
	out := runScript(t, newFakeAuth("bob"), st, append(login("bob"), "4", "100", "15")...)

	assert.Contains(t, out, "Financial goal set: 100.00")
	assert.Contains(t, out, "Warning: record not saved: disk full")
	assert.Contains(t, out, "Goodbye!")
}

func TestRunUser_DueReminder(t *testing.T) {
	mem := store.NewMemoryStore()
	rec := model.NewRecord()
	rec.RecurringExpenses = []model.RecurringExpense{
		{Amount: -10, IntervalDays: 7, Description: "Gym", NextDueDate: testTime.Add(-time.Hour)},
	}
	require.NoError(t, mem.Save(context.Background(), "bob", rec))

	out := runScript(t, newFakeAuth("bob"), mem, append(login("bob"), "7", "15")...)
	assert.Contains(t, out, "1 recurring expense(s) due.")
	assert.Contains(t, out, "due")
}
