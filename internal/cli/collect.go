package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/agentx-labs/launchdx/internal/config"
	"github.com/agentx-labs/launchdx/internal/export"
	"github.com/agentx-labs/launchdx/internal/hostinfo"
	"github.com/agentx-labs/launchdx/internal/launchd"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	collectKind  string
	collectQuiet bool
)

var collectCmd = &cobra.Command{
	Use:   "collect",
	Short: "Collect launchd daemons and agents into a snapshot file",
	Long: `Collect every launchd daemon and agent property list from the fixed macOS
locations (rebased on --root) and write them to a single export file.

Files that fail to parse are logged as warnings and skipped. The command
fails only when no source files exist at all or none of them could be parsed.`,
	Args: cobra.NoArgs,
	RunE: runCollect,
}

func init() {
	collectCmd.Flags().StringVar(&collectKind, "kind", "all", "What to collect (daemons, agents, all)")
	collectCmd.Flags().StringP("output", "o", "", "Output file (default output.json)")
	collectCmd.Flags().String("format", "", "Export format (json, yaml, sqlite); defaults from the output extension")
	collectCmd.Flags().BoolVarP(&collectQuiet, "quiet", "q", false, "Suppress the summary table")

	_ = viper.BindPFlag(config.KeyOutput, collectCmd.Flags().Lookup("output"))
	_ = viper.BindPFlag(config.KeyFormat, collectCmd.Flags().Lookup("format"))
	rootCmd.AddCommand(collectCmd)
}

func runCollect(cmd *cobra.Command, args []string) error {
	settings := config.Resolve()

	kinds, err := parseKinds(collectKind)
	if err != nil {
		return err
	}
	format, err := export.ParseFormat(settings.Format, settings.Output)
	if err != nil {
		return err
	}

	collector := launchd.NewCollector(
		launchd.WithRoot(settings.Root),
		launchd.WithLogger(logger),
	)
	outcomes, err := collectKinds(collector, kinds)
	if err != nil {
		return err
	}

	host := readHost(settings.Root)
	snap := export.NewSnapshot(settings.Root, host,
		recordsOf(outcomes, launchd.KindDaemon),
		recordsOf(outcomes, launchd.KindAgent))

	if err := export.WriteFile(cmd.Context(), settings.Output, format, snap); err != nil {
		return fmt.Errorf("writing %s: %w", settings.Output, err)
	}

	if !collectQuiet {
		printCollectSummary(cmd.OutOrStdout(), outcomes)
		total := len(snap.Daemons) + len(snap.Agents)
		p := message.NewPrinter(language.English)
		p.Fprintf(cmd.OutOrStdout(), "Saved %d records to %s (%s)\n", total, settings.Output, format)
	}
	return nil
}

// readHost identifies the system being collected. A missing or unreadable
// SystemVersion.plist never fails the collection.
func readHost(root string) *hostinfo.Info {
	host, err := hostinfo.Read(root)
	if err != nil {
		level := slog.LevelWarn
		if errors.Is(err, hostinfo.ErrNotFound) {
			level = slog.LevelDebug
		}
		logger.Log(context.Background(), level, "could not identify host", slog.String("root", root), slog.Any("error", err))
		return nil
	}
	return host
}

func printCollectSummary(w io.Writer, outcomes []kindOutcome) {
	p := message.NewPrinter(language.English)
	num := func(n int) string { return p.Sprintf("%d", n) }

	rows := make([][]string, 0, len(outcomes))
	for _, o := range outcomes {
		if o.Err != nil {
			rows = append(rows, []string{o.Kind.String(), "-", "-", "-", "0", o.Err.Error()})
			continue
		}
		r := o.Result
		rows = append(rows, []string{
			o.Kind.String(),
			num(r.Scanned),
			num(r.Filtered),
			num(len(r.Failed)),
			num(len(r.Records)),
			"ok",
		})
	}

	columns := []column{
		leftCol("KIND"),
		rightCol("SCANNED"),
		rightCol("FILTERED"),
		rightCol("FAILED"),
		rightCol("RECORDS"),
		leftCol("STATUS"),
	}
	fmt.Fprintln(w, renderTable(columns, rows))
}
