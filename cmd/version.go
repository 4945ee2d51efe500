package cmd

import (
	"fmt"

	"github.com/nulzo/llm-translate/internal/cli"
	"github.com/nulzo/llm-translate/internal/httpclient"
	"github.com/spf13/cobra"
)

func NewVersionCmd(current string) *cobra.Command {
	var check bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version, optionally checking for a newer release",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "llm-translate %s\n", current)
			if !check {
				return nil
			}

			info, err := CheckForUpdates(cmd.Context(), httpclient.New(0), ReleasesURL, current)
			if err != nil {
				fmt.Fprintf(out, "%s could not check for updates: %v\n", cli.CrossMark(), err)
				return nil
			}
			if info.Outdated {
				fmt.Fprintf(out, "%s a newer version is available: %s %s\n", cli.WarningSign(), info.Latest, info.URL)
				return nil
			}
			fmt.Fprintf(out, "%s up to date\n", cli.CheckMark())
			return nil
		},
	}
	cmd.Flags().BoolVar(&check, "check", false, "query GitHub for the latest release")
	return cmd
}
