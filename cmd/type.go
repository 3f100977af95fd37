package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/shiroyk/cookiecat/types"
	"github.com/spf13/cobra"
)

var typeCmd = &cobra.Command{
	Use:         "type JSON",
	Short:       "Print the type of the JSON value, exit with 1 if it is not known",
	Args:        cobra.ExactArgs(1),
	Annotations: map[string]string{"skip-env": "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		var value any
		if err := json.Unmarshal([]byte(args[0]), &value); err != nil {
			return fmt.Errorf("invalid JSON value: %w", err)
		}
		if value == nil {
			// null
			return ErrFalse
		}
		tag, ok := types.Lookup(value)
		if !ok {
			return ErrFalse
		}
		fmt.Fprintln(cmd.OutOrStdout(), tag)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(typeCmd)
}
