package commands

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var errBadCredentials = errors.New("invalid username or password")

// authenticate reads the password as the first line of stdin and checks it
// against the credentials file.
func (a *app) authenticate(cmd *cobra.Command, username string) error {
	if username == "" {
		return fmt.Errorf("--user is required")
	}

	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && line == "" {
		return fmt.Errorf("reading password from stdin: %w", err)
	}
	password := strings.TrimRight(line, "\r\n")

	ok, err := a.auth().Login(username, password)
	if err != nil {
		return err
	}
	if !ok {
		return errBadCredentials
	}
	return nil
}
