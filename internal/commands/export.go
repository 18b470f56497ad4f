package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/fintrack-dev/fintrack/internal/export"
	"github.com/fintrack-dev/fintrack/internal/tracker"
)

func newExportCommand(a *app) *cobra.Command {
	var user, out string
	var notifications bool

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export transactions or notifications as CSV",
		Long:  `Export a user's transactions (or activity log with --notifications) as CSV. The password is read from the first line of stdin.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.authenticate(cmd, user); err != nil {
				return err
			}

			st, err := a.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			svc, err := tracker.Open(cmd.Context(), st, user, a.trackerOptions()...)
			if err != nil {
				return err
			}

			var w io.Writer = cmd.OutOrStdout()
			if out != "" {
				f, err := os.Create(out)
				if err != nil {
					return fmt.Errorf("creating %s: %w", out, err)
				}
				defer f.Close()
				w = f
			}

			if notifications {
				err = export.WriteNotifications(w, svc.Notifications())
			} else {
				err = export.WriteTransactions(w, svc.Transactions())
			}
			if err != nil {
				return err
			}
			if out != "" {
				fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s\n", out)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&user, "user", "", "username (required)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&notifications, "notifications", false, "export the activity log instead of transactions")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}
