package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/agentx-labs/launchdx/internal/branding"
	"github.com/agentx-labs/launchdx/internal/config"
	"github.com/agentx-labs/launchdx/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string

	// logger is rebuilt from settings before every command runs.
	logger = logging.Discard()
)

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` collects the launchd daemons and agents defined on a macOS system
(or a mounted image of one) and exports them as a single snapshot.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config.Load()
		settings := config.Resolve()

		l, err := logging.New(logging.Options{
			Level:  settings.LogLevel,
			Format: settings.LogFormat,
			Writer: cmd.ErrOrStderr(),
		})
		if err != nil {
			return err
		}
		logger = l.With(slog.String("cmd", cmd.Name()))
		return nil
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("root", "/", "Collection root (a mounted image for offline collection)")
	pf.String("log-level", "warn", "Log level (debug, info, warn, error)")
	pf.String("log-format", "auto", "Log format (auto, text, json)")

	_ = viper.BindPFlag(config.KeyRoot, pf.Lookup("root"))
	_ = viper.BindPFlag(config.KeyLogLevel, pf.Lookup("log-level"))
	_ = viper.BindPFlag(config.KeyLogFormat, pf.Lookup("log-format"))
}

// Execute runs the root command with build info injected via ldflags.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}
