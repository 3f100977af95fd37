package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/shiroyk/cookiecat/js"
	_ "github.com/shiroyk/cookiecat/js/modules" // register the native modules
	"github.com/spf13/cobra"
)

var runArgs struct {
	timeout    time.Duration
	modulePath []string
}

var runCmd = &cobra.Command{
	Use:   "run SCRIPT|-",
	Short: "Run the script against the document and print the result as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			source []byte
			err    error
		)
		if args[0] == "-" {
			source, err = io.ReadAll(cmd.InOrStdin())
		} else {
			source, err = os.ReadFile(args[0])
		}
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), runArgs.timeout)
		defer cancel()

		vm := js.NewVM(js.Options{
			Jar:        current.doc,
			Logger:     current.logger,
			ModulePath: runArgs.modulePath,
		})
		value, err := vm.RunString(ctx, string(source))
		if err != nil {
			return err
		}
		ret, err := js.Unwrap(value)
		if err != nil {
			return err
		}

		bytes, err := json.MarshalIndent(ret, "", "\t")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(bytes))
		return nil
	},
}

func init() {
	runCmd.Flags().DurationVarP(&runArgs.timeout, "timeout", "t", time.Minute, "run timeout")
	runCmd.Flags().StringSliceVarP(&runArgs.modulePath, "module-path", "m", nil, "global module folders")
	rootCmd.AddCommand(runCmd)
}
