package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Akaiko1/file-lister/internal/config"
	"github.com/Akaiko1/file-lister/internal/logging"
	"github.com/Akaiko1/file-lister/internal/ui"
)

var logger = logging.Get("cli")

// cliState is shared by the root command and its subcommands.
type cliState struct {
	cfgFile  string
	logLevel string
	cfg      *config.Config
}

func newRootCmd() *cobra.Command {
	state := &cliState{}

	rootCmd := &cobra.Command{
		Use:   "file-lister",
		Short: "List the files of a directory and export the listing to Word",
		Long: `file-lister shows the files of a directory with their sizes, optionally
filtered by file type, and exports the listing as a .docx document.

Without a subcommand the graphical window is opened.

Examples:
  file-lister                                  # Open the window
  file-lister scan ~/Pictures --category images
  file-lister scan . --recursive=false -o list.docx`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return state.init(cmd.Name() == "scan")
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			_ = logging.Close()
		},
		RunE: func(*cobra.Command, []string) error {
			logger.Info("starting window", "config", state.configPath())
			ui.NewFileListerApp(state.cfg, state.configPath()).Run()
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&state.cfgFile, "config", "", "config file (default: $XDG_CONFIG_HOME/file-lister/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&state.logLevel, "log-level", "", "log level: debug, info, warn, error (overrides config)")

	rootCmd.AddCommand(newScanCmd(state))
	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	return newRootCmd().Execute()
}

func (s *cliState) configPath() string {
	if s.cfgFile != "" {
		return s.cfgFile
	}
	return config.DefaultPath()
}

// init loads the config file and starts logging. The headless command also
// mirrors the log to stderr.
func (s *cliState) init(console bool) error {
	cfg, err := config.Load(s.configPath())
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if s.logLevel != "" {
		cfg.Logging.Level = s.logLevel
	}

	if err := logging.Init(logging.Config{
		Level:   cfg.Logging.Level,
		Path:    cfg.Logging.Path,
		Console: console,
	}); err != nil {
		return fmt.Errorf("initializing logging: %w", err)
	}

	s.cfg = cfg
	return nil
}
