package main

import (
	"fmt"
	"text/tabwriter"

	humanize "github.com/dustin/go-humanize"
	"github.com/icecave/waggle/logstore"
	"github.com/spf13/cobra"
)

var filesCmd = &cobra.Command{
	Use:   "files",
	Short: "List the log streams",
	Args:  cobra.NoArgs,
	RunE:  runFiles,
}

func init() {
	rootCmd.AddCommand(filesCmd)
}

func runFiles(c *cobra.Command, _ []string) error {
	store := &logstore.Store{Dir: config.LogDir}

	streams, err := store.Streams()
	if err != nil {
		return fmt.Errorf("unable to list log files: %w", err)
	}

	w := tabwriter.NewWriter(c.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tSIZE\tMODIFIED")

	for _, s := range streams {
		fmt.Fprintf(
			w,
			"%s\t%s\t%s\n",
			s.Name,
			humanize.Bytes(uint64(s.Size)),
			humanize.Time(s.Modified),
		)
	}

	return w.Flush()
}
