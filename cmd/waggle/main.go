package main

import (
	"fmt"
	"os"

	"github.com/icecave/waggle/cmd"
	"github.com/spf13/cobra"
)

var version = "notset"

var config = cmd.GetConfigFromEnvironment()

// rootCmd serves the proxy when called without a subcommand.
var rootCmd = &cobra.Command{
	Use:     "waggle",
	Short:   "Waggle is a forwarding proxy that records every request it forwards",
	Version: version,
	Args:    cobra.NoArgs,
	RunE:    runServe,

	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&config.LogDir,
		"log-dir",
		config.LogDir,
		"directory that holds the log streams",
	)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
