package cmd

import (
	"fmt"

	"github.com/shiroyk/cookiecat/lib/config"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configGenArg string

var configCmd = &cobra.Command{
	Use:         "config",
	Short:       "Print the configuration, or generate the default one with --gen",
	Annotations: map[string]string{"skip-env": "true"},
	RunE: func(cmd *cobra.Command, _ []string) error {
		if configGenArg != "" {
			return config.WriteConfig(configGenArg)
		}
		cfg, err := config.ReadConfig(configArg)
		if err != nil {
			return err
		}
		bytes, err := yaml.Marshal(cfg)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), string(bytes))
		return nil
	},
}

func init() {
	configCmd.Flags().StringVarP(&configGenArg, "gen", "g", "", "generate default configuration file")
	rootCmd.AddCommand(configCmd)
}
