package commands

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/fintrack-dev/fintrack/internal/importer"
	"github.com/fintrack-dev/fintrack/internal/tracker"
)

func newImportCommand(a *app) *cobra.Command {
	var user, format, category string

	cmd := &cobra.Command{
		Use:   "import [file]",
		Short: "Import transactions from a CSV file",
		Long: `Import transactions from a bank or fintrack CSV file. Without a file, every
CSV in <data-dir>/import is imported and moved to import/processed.
The password is read from the first line of stdin.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parser := importer.DefaultRegistry().Get(format)
			if parser == nil {
				return fmt.Errorf("unknown import format %q (known: %v)", format, importer.DefaultRegistry().Formats())
			}
			if err := a.authenticate(cmd, user); err != nil {
				return err
			}

			var files []importer.FileInfo
			if len(args) == 1 {
				files = []importer.FileInfo{{Name: filepath.Base(args[0]), Path: args[0]}}
			} else {
				scanned, err := importer.Scan(a.dataDir)
				if err != nil {
					return err
				}
				if len(scanned) == 0 {
					fmt.Fprintf(cmd.OutOrStdout(), "No CSV files in %s\n", importer.Dir(a.dataDir))
					return nil
				}
				files = scanned
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

			for _, f := range files {
				n, err := importFile(cmd, svc, parser, f.Path, category)
				if err != nil {
					return fmt.Errorf("importing %s: %w", f.Name, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Imported %d transactions from %s\n", n, f.Name)

				if a.inImportDir(f.Path) {
					if err := importer.MarkProcessed(a.dataDir, f.Name); err != nil {
						return err
					}
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&user, "user", "", "username (required)")
	cmd.Flags().StringVar(&format, "format", "chase", "input format (chase, fintrack)")
	cmd.Flags().StringVar(&category, "category", importer.DefaultCategory, "category for rows without one")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}

func importFile(cmd *cobra.Command, svc *tracker.Service, parser importer.Parser, path, category string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	rows, err := parser.Parse(f)
	if err != nil {
		return 0, err
	}
	slog.DebugContext(cmd.Context(), "parsed import file", "path", path, "format", parser.Format(), "rows", len(rows))

	return importer.Apply(cmd.Context(), svc, rows, category)
}

// inImportDir reports whether path sits directly inside <data-dir>/import.
func (a *app) inImportDir(path string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	dir, err := filepath.Abs(importer.Dir(a.dataDir))
	if err != nil {
		return false
	}
	return filepath.Dir(abs) == dir
}
