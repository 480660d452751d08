package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/agentx-labs/launchdx/internal/config"
	"github.com/agentx-labs/launchdx/internal/hostinfo"
	"github.com/agentx-labs/launchdx/internal/launchd"
	"github.com/spf13/cobra"
)

var pathsCmd = &cobra.Command{
	Use:   "paths",
	Short: "Show the launchd directories that would be scanned",
	Long: `Show every fixed launchd directory (rebased on --root), the per-user
agent directories found under the accounts root, and whether each can be read.`,
	Args: cobra.NoArgs,
	RunE: runPaths,
}

func init() {
	rootCmd.AddCommand(pathsCmd)
}

func runPaths(cmd *cobra.Command, args []string) error {
	settings := config.Resolve()
	out := cmd.OutOrStdout()

	host, hostErr := hostinfo.Read(settings.Root)
	if hostErr == nil {
		fmt.Fprintf(out, "Host: %s\n", host)
	}

	var rows [][]string
	for _, loc := range launchd.Locations(settings.Root) {
		status := dirStatus(loc.Path)
		if status == "missing" && host != nil && !host.HasAppleSystemLibrary() && loc.IsAppleVendor() {
			status = "missing (expected before macOS 11)"
		}
		rows = append(rows, []string{loc.Kind.String(), loc.Scope.String(), loc.Path, status})
	}

	resolver := launchd.Resolver{Root: settings.Root}
	perUser, err := resolver.UserAgentDirs()
	if err != nil {
		logger.Warn("cannot enumerate user accounts", slog.Any("error", err))
		rows = append(rows, []string{"agents", "user", "(accounts root)", "unreadable"})
	}
	for _, dir := range perUser {
		rows = append(rows, []string{"agents", "user", dir, dirStatus(dir)})
	}

	columns := []column{leftCol("KIND"), leftCol("SCOPE"), leftCol("PATH"), leftCol("STATUS")}
	fmt.Fprintln(out, renderTable(columns, rows))
	return nil
}

// dirStatus lists dir and summarizes the outcome.
func dirStatus(dir string) string {
	entries, err := launchd.ListDir(dir)
	switch {
	case err == nil:
		return fmt.Sprintf("ok (%d entries)", len(entries))
	case errors.Is(err, fs.ErrNotExist):
		return "missing"
	case errors.Is(err, fs.ErrPermission):
		return "permission denied"
	default:
		return "unreadable"
	}
}
