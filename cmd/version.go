package cmd

import (
	"fmt"

	"github.com/shiroyk/cookiecat/lib"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(&cobra.Command{
		Use:         "version",
		Short:       "Print version information",
		Annotations: map[string]string{"skip-env": "true"},
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%v\n cookiecat %v/%v\n", lib.Banner, lib.Version, lib.CommitSHA)
		},
	})
}
