package cmd

import (
	"io"
	"os"

	"github.com/spf13/cobra"
)

var applyCmd = &cobra.Command{
	Use:   "apply HTML|-",
	Short: `Apply the <meta http-equiv="set-cookie"> cookies of the HTML page`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var r io.Reader = cmd.InOrStdin()
		if args[0] != "-" {
			file, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer file.Close()
			r = file
		}
		n, err := current.doc.ApplyHTML(r)
		if err != nil {
			return err
		}
		current.logger.Info("applied cookies", "count", n)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(applyCmd)
}
