package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shiroyk/cookiecat/js"
	"github.com/spf13/cobra"
)

var modulesCmd = &cobra.Command{
	Use:         "modules",
	Aliases:     []string{"mod"},
	Short:       "Show the native js modules",
	Annotations: map[string]string{"skip-env": "true"},
	Run: func(cmd *cobra.Command, _ []string) {
		names := make([]string, 0)
		for name := range js.AllModule() {
			names = append(names, name)
		}
		sort.Strings(names)
		fmt.Fprintln(cmd.OutOrStdout(), strings.Join(names, "\n"))
	},
}

func init() {
	rootCmd.AddCommand(modulesCmd)
}
