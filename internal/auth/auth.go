// Package auth registers and verifies local users. Credentials live in a
// JSON file mapping username to a bcrypt hash.
package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"

	"golang.org/x/crypto/bcrypt"
)

// Validation errors returned by Register.
var (
	ErrInvalidUsername = errors.New("username must be 3-32 characters of letters, digits, '.', '_' or '-'")
	ErrInvalidPassword = errors.New("password must be at least 6 characters")
	ErrUserExists      = errors.New("username already registered")
)

// MinPasswordLength is the shortest accepted password.
const MinPasswordLength = 6

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_.-]{3,32}$`)

// Service reads and writes the credentials file.
type Service struct {
	path string
	cost int
}

// NewService creates a Service backed by the credentials file at path.
func NewService(path string) *Service {
	return &Service{path: path, cost: bcrypt.DefaultCost}
}

// ValidateUsername checks the username shape.
func ValidateUsername(username string) error {
	if !usernamePattern.MatchString(username) {
		return ErrInvalidUsername
	}
	return nil
}

// ValidatePassword checks the password shape.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return ErrInvalidPassword
	}
	return nil
}

// Register adds a user. It reports false with a validation error when the
// username or password has the wrong shape or the user already exists.
func (s *Service) Register(username, password string) (bool, error) {
	if err := ValidateUsername(username); err != nil {
		return false, err
	}
	if err := ValidatePassword(password); err != nil {
		return false, err
	}

	users, err := s.read()
	if err != nil {
		return false, err
	}
	if _, ok := users[username]; ok {
		return false, ErrUserExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return false, fmt.Errorf("hashing password: %w", err)
	}
	users[username] = string(hash)

	if err := s.write(users); err != nil {
		return false, err
	}
	return true, nil
}

// Login reports whether the credentials match a registered user. Unknown
// users and wrong passwords are a plain false; only storage problems error.
func (s *Service) Login(username, password string) (bool, error) {
	users, err := s.read()
	if err != nil {
		return false, err
	}
	hash, ok := users[username]
	if !ok {
		return false, nil
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return false, nil
	}
	return true, nil
}

func (s *Service) read() (map[string]string, error) {
	users := make(map[string]string)
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return users, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading credentials: %w", err)
	}
	if err := json.Unmarshal(data, &users); err != nil {
		return nil, fmt.Errorf("parsing credentials %s: %w", s.path, err)
	}
	return users, nil
}

func (s *Service) write(users map[string]string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("creating credentials dir: %w", err)
	}
	data, err := json.MarshalIndent(users, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding credentials: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("writing credentials: %w", err)
	}
	return nil
}
