package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/user/studio-review/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or create the config file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with the defaults",
	RunE: func(cmd *cobra.Command, args []string) error {
		base, err := config.DefaultBaseDir()
		if err != nil {
			return err
		}
		if err := config.Init(app.cfgPath, config.NewConfig(base)); err != nil {
			return err
		}
		fmt.Printf("Config written to %s\n", app.cfgPath)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective config",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Printf("# %s\n", app.cfgPath)
		m := &config.Manager{}
		return m.Write(os.Stdout, app.cfg)
	},
}

func init() {
	configCmd.AddCommand(configInitCmd, configShowCmd)
	rootCmd.AddCommand(configCmd)
}
