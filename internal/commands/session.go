package commands

import (
	"github.com/spf13/cobra"

	"github.com/fintrack-dev/fintrack/internal/session"
)

func newSessionCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "session",
		Short: "Start the interactive menu (default when no command is given)",
		Args:  cobra.NoArgs,
		RunE:  a.runSession,
	}
}

func (a *app) runSession(cmd *cobra.Command, _ []string) error {
	st, err := a.openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	s := session.New(cmd.InOrStdin(), cmd.OutOrStdout(), a.auth(), st,
		session.WithTrackerOptions(a.trackerOptions()...))
	return s.Run(cmd.Context())
}
