package main

import (
	"encoding/json"
	"fmt"

	humanize "github.com/dustin/go-humanize"
	"github.com/icecave/waggle/logstore"
	"github.com/spf13/cobra"
)

var logsQuery = logstore.Query{
	Limit:  logstore.DefaultLimit,
	Offset: logstore.DefaultOffset,
}

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Print recorded log entries, newest first",
	Long: `Searches the log streams in the log directory and prints the matching
entries as JSON, one per line, newest first.

The target may be either the upstream base URL or the name of a log stream.`,
	Args: cobra.NoArgs,
	RunE: runLogs,
}

func init() {
	logsCmd.Flags().StringVar(&logsQuery.Target, "target", "", "only show entries for this target")
	logsCmd.Flags().StringVar(&logsQuery.Search, "search", "", "only show entries containing this text (case-insensitive)")
	logsCmd.Flags().IntVar(&logsQuery.Limit, "limit", logsQuery.Limit, "maximum number of entries to show")
	logsCmd.Flags().IntVar(&logsQuery.Offset, "offset", logsQuery.Offset, "number of entries to skip")

	rootCmd.AddCommand(logsCmd)
}

func runLogs(c *cobra.Command, _ []string) error {
	store := &logstore.Store{Dir: config.LogDir}
	rs := store.Query(logsQuery)

	enc := json.NewEncoder(c.OutOrStdout())
	enc.SetEscapeHTML(false)

	for _, r := range rs.Entries {
		if err := enc.Encode(r); err != nil {
			return err
		}
	}

	fmt.Fprintf(
		c.ErrOrStderr(),
		"%s of %s entries\n",
		humanize.Comma(int64(len(rs.Entries))),
		humanize.Comma(int64(rs.Total)),
	)

	return nil
}
