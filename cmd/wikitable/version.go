package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"pkt.systems/version"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.Module(), version.Current())
		},
	}
}
