package cmd

import (
	"fmt"

	"github.com/shiroyk/cookiecat/cookie"
	"github.com/spf13/cobra"
)

var getCmd = &cobra.Command{
	Use:   "get [NAME]",
	Short: "Print the value of the cookie, or the document cookie without a name",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), current.doc.Read())
			return
		}
		fmt.Fprintln(cmd.OutOrStdout(), current.store.Get(args[0]))
	},
}

var hasCmd = &cobra.Command{
	Use:   "has NAME",
	Short: "Exit with 0 if the cookie exists, 1 otherwise",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		return boolResult(current.store.Has(args[0]))
	},
}

var setArgs struct {
	expire, path, domain string
	secure               bool
}

var setCmd = &cobra.Command{
	Use:   "set NAME VALUE",
	Short: "Write the cookie, exit with 1 if the name is rejected",
	Args:  cobra.ExactArgs(2),
	RunE: func(_ *cobra.Command, args []string) error {
		if err := cookie.Validate(args[0]); err != nil {
			current.logger.Warn("cookie rejected", "error", err)
			return ErrFalse
		}
		return boolResult(current.store.Set(cookie.Options{
			Name:   args[0],
			Value:  args[1],
			Expire: cookie.ParseExpire(setArgs.expire),
			Path:   setArgs.path,
			Domain: setArgs.domain,
			Secure: setArgs.secure,
		}))
	},
}

var rmArgs struct {
	path, domain string
}

var rmCmd = &cobra.Command{
	Use:     "rm NAME",
	Aliases: []string{"remove"},
	Short:   "Remove the cookie, exit with 1 if it does not exist",
	Args:    cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		return boolResult(current.store.Remove(cookie.RemoveOptions{
			Name:   args[0],
			Domain: rmArgs.domain,
			Path:   rmArgs.path,
		}))
	},
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every cookie stored for the document host",
	Args:  cobra.NoArgs,
	Run: func(_ *cobra.Command, _ []string) {
		current.doc.Clear()
	},
}

func init() {
	setCmd.Flags().StringVarP(&setArgs.expire, "expire", "e", "", `seconds, "Infinity", a duration like "1h" or an HTTP-date`)
	setCmd.Flags().StringVarP(&setArgs.path, "path", "p", "", "cookie path")
	setCmd.Flags().StringVarP(&setArgs.domain, "domain", "d", "", "cookie domain")
	setCmd.Flags().BoolVarP(&setArgs.secure, "secure", "s", false, "secure cookie")
	rmCmd.Flags().StringVarP(&rmArgs.path, "path", "p", "", "cookie path it was written with")
	rmCmd.Flags().StringVarP(&rmArgs.domain, "domain", "d", "", "cookie domain it was written with")

	rootCmd.AddCommand(getCmd, hasCmd, setCmd, rmCmd, clearCmd)
}
