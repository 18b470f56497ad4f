// Package session runs the interactive text menu: an authentication menu
// followed by a main menu bound to one user's tracker.
package session

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/fintrack-dev/fintrack/internal/tracker"
)

// errInputClosed ends the session when the input reaches EOF.
var errInputClosed = errors.New("input closed")

// Authenticator verifies and registers users. *auth.Service satisfies it.
type Authenticator interface {
	Login(username, password string) (bool, error)
	Register(username, password string) (bool, error)
}

// Session drives one interactive run.
type Session struct {
	in          *bufio.Scanner
	out         io.Writer
	auth        Authenticator
	store       tracker.Store
	now         func() time.Time
	trackerOpts []tracker.Option
	style       styles
}

// Option configures a Session.
type Option func(*Session)

// WithClock replaces time.Now for the session and its tracker.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		s.now = now
		s.trackerOpts = append(s.trackerOpts, tracker.WithClock(now))
	}
}

// WithTrackerOptions passes options through to tracker.Open.
func WithTrackerOptions(opts ...tracker.Option) Option {
	return func(s *Session) { s.trackerOpts = append(s.trackerOpts, opts...) }
}

// New creates a Session reading lines from in and writing to out.
func New(in io.Reader, out io.Writer, auth Authenticator, store tracker.Store, opts ...Option) *Session {
	s := &Session{
		in:    bufio.NewScanner(in),
		out:   out,
		auth:  auth,
		store: store,
		now:   time.Now,
		style: newStyles(out),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run shows the authentication menu until the user exits, logs in and
// leaves the main menu, or the input ends. None of those is an error.
func (s *Session) Run(ctx context.Context) error {
	s.println(s.style.title.Render("Personal Finance Tracker"))
	for {
		s.println("")
		s.println("1. Login")
		s.println("2. Register")
		s.println("3. Exit")

		choice, err := s.ask("Choose an option: ")
		if errors.Is(err, errInputClosed) {
			return nil
		}
		if err != nil {
			return err
		}

		switch choice {
		case "1":
			username, ok, err := s.login()
			if errors.Is(err, errInputClosed) {
				return nil
			}
			if err != nil {
				return err
			}
			if !ok {
				continue
			}
			return s.runUser(ctx, username)
		case "2":
			if err := s.register(); err != nil {
				if errors.Is(err, errInputClosed) {
					return nil
				}
				return err
			}
		case "3":
			s.println("Goodbye!")
			return nil
		default:
			s.println(s.style.err.Render("Invalid choice. Please enter 1, 2 or 3."))
		}
	}
}

func (s *Session) login() (string, bool, error) {
	username, err := s.ask("Username: ")
	if err != nil {
		return "", false, err
	}
	password, err := s.ask("Password: ")
	if err != nil {
		return "", false, err
	}

	ok, err := s.auth.Login(username, password)
	if err != nil {
		return "", false, fmt.Errorf("checking credentials: %w", err)
	}
	if !ok {
		s.println(s.style.err.Render("Invalid username or password."))
		return "", false, nil
	}
	s.println(s.style.success.Render(fmt.Sprintf("Welcome back, %s!", username)))
	return username, true, nil
}

func (s *Session) register() error {
	username, err := s.ask("Choose a username: ")
	if err != nil {
		return err
	}
	password, err := s.ask("Choose a password: ")
	if err != nil {
		return err
	}

	ok, err := s.auth.Register(username, password)
	if err != nil {
		s.println(s.style.err.Render("Registration failed: " + err.Error()))
		return nil
	}
	if ok {
		s.println(s.style.success.Render("Registration successful. You can now log in."))
	}
	return nil
}

func (s *Session) runUser(ctx context.Context, username string) error {
	svc, err := tracker.Open(ctx, s.store, username, s.trackerOpts...)
	if err != nil {
		return err
	}
	slog.InfoContext(ctx, "session started", "user", username)

	if due := svc.DueRecurringExpenses(s.now()); len(due) > 0 {
		s.println(s.style.warning.Render(fmt.Sprintf("%d recurring expense(s) due.", len(due))))
	}

	return s.mainMenu(ctx, svc)
}

// ask prints prompt and returns the next trimmed input line.
func (s *Session) ask(prompt string) (string, error) {
	fmt.Fprint(s.out, s.style.prompt.Render(prompt))
	if !s.in.Scan() {
		if err := s.in.Err(); err != nil {
			return "", fmt.Errorf("reading input: %w", err)
		}
		s.println("")
		return "", errInputClosed
	}
	return strings.TrimSpace(s.in.Text()), nil
}

func (s *Session) println(line string) {
	fmt.Fprintln(s.out, line)
}
