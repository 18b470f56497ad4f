package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fintrack-dev/fintrack/internal/auth"
	"github.com/fintrack-dev/fintrack/internal/buildinfo"
	"github.com/fintrack-dev/fintrack/internal/config"
	"github.com/fintrack-dev/fintrack/internal/currency"
	"github.com/fintrack-dev/fintrack/internal/logging"
	"github.com/fintrack-dev/fintrack/internal/store"
	"github.com/fintrack-dev/fintrack/internal/tax"
	"github.com/fintrack-dev/fintrack/internal/tracker"
)

// EnvPrefix prefixes environment overrides, e.g. FINTRACK_DATA_DIR.
const EnvPrefix = "FINTRACK"

// app carries the state resolved before any subcommand runs.
type app struct {
	v       *viper.Viper
	dataDir string
	cfg     *config.Config
}

// NewRootCommand creates the root CLI command with all subcommands registered.
// Running it without a subcommand starts the interactive session.
func NewRootCommand() *cobra.Command {
	a := &app{v: viper.New()}

	rootCmd := &cobra.Command{
		Use:     "fintrack",
		Short:   "Personal finance tracker",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		RunE:              a.runSession,
	}

	flags := rootCmd.PersistentFlags()
	flags.String("data-dir", config.DefaultDataDir(), "data directory")
	flags.String("log-level", "", "log level (debug, info, warn, error)")
	flags.String("log-format", "", "log format (console, json)")

	_ = a.v.BindPFlag("data_dir", flags.Lookup("data-dir"))
	_ = a.v.BindPFlag("logging.level", flags.Lookup("log-level"))
	_ = a.v.BindPFlag("logging.format", flags.Lookup("log-format"))

	a.v.SetEnvPrefix(EnvPrefix)
	a.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	a.v.AutomaticEnv()

	rootCmd.AddCommand(newInitCommand(a))
	rootCmd.AddCommand(newSessionCommand(a))
	rootCmd.AddCommand(newImportCommand(a))
	rootCmd.AddCommand(newExportCommand(a))
	rootCmd.AddCommand(newTaxCommand(a))
	rootCmd.AddCommand(newConvertCommand(a))

	return rootCmd
}

// setup loads fintrack.yaml from the data directory, applies flag and
// environment overrides and installs the logger.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	a.dataDir = config.ExpandPath(a.v.GetString("data_dir"))
	if a.dataDir == "" {
		return fmt.Errorf("data directory is empty")
	}

	cfg, err := config.LoadOrDefault(a.dataDir)
	if err != nil {
		return err
	}
	if level := a.v.GetString("logging.level"); level != "" {
		cfg.Logging.Level = level
	}
	if format := a.v.GetString("logging.format"); format != "" {
		cfg.Logging.Format = format
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg

	return logging.Setup(cmd.ErrOrStderr(), cfg.Logging.Level, cfg.Logging.Format)
}

func (a *app) openStore() (store.Store, error) {
	if err := os.MkdirAll(a.dataDir, 0o700); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}
	return store.Open(a.cfg, a.dataDir)
}

func (a *app) auth() *auth.Service {
	return auth.NewService(config.Resolve(a.dataDir, a.cfg.Auth.Path))
}

func (a *app) converter() *currency.Converter {
	return currency.NewConverter(a.cfg.Currency.Base, a.cfg.Currency.Rates)
}

func (a *app) trackerOptions() []tracker.Option {
	return []tracker.Option{
		tracker.WithConverter(a.converter()),
		tracker.WithFlatRate(a.cfg.Tax.FlatRate),
		tracker.WithSchedule(a.schedule()),
	}
}

// schedule converts the configured brackets, whose rates are percentages.
func (a *app) schedule() tax.Schedule {
	if len(a.cfg.Tax.Brackets) == 0 {
		return tax.DefaultSchedule
	}
	s := make(tax.Schedule, 0, len(a.cfg.Tax.Brackets))
	for _, b := range a.cfg.Tax.Brackets {
		s = append(s, tax.Bracket{Lower: b.Lower, Upper: b.Upper, Rate: b.Rate / 100})
	}
	return s
}
