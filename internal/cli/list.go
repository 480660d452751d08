package cli

import (
	"encoding/json"
	"fmt"

	"github.com/agentx-labs/launchdx/internal/config"
	"github.com/agentx-labs/launchdx/internal/export"
	"github.com/agentx-labs/launchdx/internal/launchd"
	"github.com/spf13/cobra"
)

var (
	listKind string
	listJSON bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List collected launchd records without writing a file",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	listCmd.Flags().StringVar(&listKind, "kind", "all", "What to list (daemons, agents, all)")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output flattened records as JSON")
	rootCmd.AddCommand(listCmd)
}

// listEntry is one table row.
type listEntry struct {
	Kind  launchd.Kind
	Label string
	Path  string
}

func newListEntry(kind launchd.Kind, r launchd.Record) listEntry {
	label := r.Label()
	if label == "" {
		label = "-"
	}
	return listEntry{Kind: kind, Label: label, Path: r.SourcePath}
}

func (e listEntry) row() []string {
	return []string{e.Kind.String(), e.Label, e.Path}
}

func runList(cmd *cobra.Command, args []string) error {
	settings := config.Resolve()

	kinds, err := parseKinds(listKind)
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

	if listJSON {
		return printListJSON(cmd, outcomes)
	}

	var rows [][]string
	for _, o := range outcomes {
		for _, r := range o.records() {
			rows = append(rows, newListEntry(o.Kind, r).row())
		}
	}
	columns := []column{leftCol("KIND"), leftCol("LABEL"), leftCol("PATH")}
	fmt.Fprintln(cmd.OutOrStdout(), renderTable(columns, rows))
	return nil
}

func printListJSON(cmd *cobra.Command, outcomes []kindOutcome) error {
	out := make(map[string][]map[string]any)
	for _, o := range outcomes {
		flat := make([]map[string]any, 0, len(o.records()))
		for _, r := range o.records() {
			flat = append(flat, export.Flatten(r))
		}
		out[o.Kind.String()] = flat
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return err
}
