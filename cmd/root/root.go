// Package root contains the root command for the application
package root

import (
	"fmt"
	"strings"

	"fjacquet/budget-csv/internal/config"
	"fjacquet/budget-csv/internal/container"
	"fjacquet/budget-csv/internal/logging"
	"fjacquet/budget-csv/internal/report"

	"github.com/spf13/cobra"
)

// CommonFlags represents the persistent flags shared by every command
type CommonFlags struct {
	ConfigFile string
	DataPath   string
	Backend    string
	LogLevel   string
	Format     string
}

var (
	// Log is the shared logger instance for commands. It is replaced once the
	// configuration has been loaded.
	Log logging.Logger = logging.NewLogrusAdapter("info", "text")

	// AppContainer holds the wired dependencies of the running command.
	AppContainer *container.Container

	// SharedFlags holds the persistent flag values.
	SharedFlags = CommonFlags{}

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "budget-csv",
		Short: "Import Danish bank statement CSV files, categorize and summarize spending.",
		Long: `budget-csv imports bank statement CSV exports (Danske Bank and similar),
normalizes amounts and dates, categorizes each transaction with your own rules and a
keyword dictionary, and reports monthly income, expenses and spending insights.`,
		SilenceUsage: true,
		Run: func(cmd *cobra.Command, args []string) {
			_ = cmd.Help()
		},
	}
)

func init() {
	// assigned here rather than in the literal to avoid an initialization cycle (setup refers to Cmd)
	Cmd.PersistentPreRunE = setup
	Cmd.PersistentPostRunE = teardown
}

// Init initializes the root command flags
func Init() {
	flags := Cmd.PersistentFlags()
	if flags.Lookup("config") != nil {
		return
	}
	flags.StringVar(&SharedFlags.ConfigFile, "config", "", "Config file (default searches ./config.yaml, ./.budget-csv/ and ~/.budget-csv/)")
	flags.StringVar(&SharedFlags.DataPath, "data", "", "Ledger data file (overrides data.path)")
	flags.StringVar(&SharedFlags.Backend, "backend", "", "Storage backend: file or sqlite (overrides data.backend)")
	flags.StringVar(&SharedFlags.LogLevel, "log-level", "", "Log level: debug, info, warn, error (overrides log.level)")
	flags.StringVar(&SharedFlags.Format, "output-format", "text", "Output format for listings and reports: text, json or yaml")
}

// LoadConfig reads the configuration and applies the persistent flag overrides.
func LoadConfig() (*config.Config, error) {
	config.LoadEnv(Log)

	cfg, err := config.InitializeConfigFrom(SharedFlags.ConfigFile)
	if err != nil {
		return nil, err
	}
	if SharedFlags.DataPath != "" {
		cfg.Data.Path = SharedFlags.DataPath
	}
	if SharedFlags.Backend != "" {
		cfg.Data.Backend = strings.ToLower(SharedFlags.Backend)
	}
	if SharedFlags.LogLevel != "" {
		cfg.Log.Level = strings.ToLower(SharedFlags.LogLevel)
	}
	return cfg, nil
}

func setup(cmd *cobra.Command, args []string) error {
	// help and completion need no ledger
	if cmd == Cmd || cmd.Name() == "help" || strings.HasPrefix(cmd.CommandPath(), Cmd.Name()+" completion") {
		return nil
	}

	cfg, err := LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := logging.NewLogrusAdapterWithOutput(cfg.Log.Level, cfg.Log.Format, cmd.ErrOrStderr())
	c, err := container.NewContainerWithLogger(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	AppContainer = c
	Log = c.GetLogger()
	return nil
}

func teardown(cmd *cobra.Command, args []string) error {
	if AppContainer == nil {
		return nil
	}
	err := AppContainer.Close()
	AppContainer = nil
	return err
}

// GetContainer returns the container wired for the running command.
func GetContainer() (*container.Container, error) {
	if AppContainer == nil {
		return nil, fmt.Errorf("application is not initialized")
	}
	return AppContainer, nil
}

// Render writes a report to the command output in the format selected with --output-format.
func Render(cmd *cobra.Command, r *report.Report) error {
	generator := report.NewReportGenerator(Log)
	if AppContainer != nil {
		generator = AppContainer.GetReportGenerator()
	}
	out, err := generator.GenerateReport(r, SharedFlags.Format)
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(out)
	return err
}
