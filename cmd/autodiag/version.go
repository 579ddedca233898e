package main

import (
	"fmt"

	"github.com/aretw0/autodiag"
	"github.com/spf13/cobra"
	"github.com/tcnksm/go-latest"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of autodiag",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "autodiag version %s\n", autodiag.Version)

		if check, _ := cmd.Flags().GetBool("check"); check {
			checkUpdate(cmd, autodiag.Version)
		}
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.Flags().Bool("check", false, "Check GitHub for a newer release")
}

func checkUpdate(cmd *cobra.Command, current string) {
	githubTag := &latest.GithubTag{
		Owner:      "aretw0",
		Repository: "autodiag",
	}

	res, err := latest.Check(githubTag, current)
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Could not check for updates: %v\n", err)
		return
	}
	if res.Outdated {
		fmt.Fprintf(cmd.OutOrStdout(), "A new version is available: %s (you have %s)\n", res.Current, current)
		return
	}
	fmt.Fprintln(cmd.OutOrStdout(), "You are using the latest version.")
}
