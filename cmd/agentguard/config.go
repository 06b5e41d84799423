package main

import (
	"fmt"

	"github.com/spf13/cobra"

	agentconfig "github.com/agentguard/agentguard/internal/config"
	"github.com/agentguard/agentguard/pkg/policy"
)

func newConfigCmd(newSvc func() (*App, error), jsonOutput *bool) *cobra.Command {
	configCmd := &cobra.Command{Use: "config", Short: "Read or update config.json"}

	getCmd := &cobra.Command{
		Use:   "get",
		Short: "Print the current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newSvc()
			if err != nil {
				return err
			}
			return printOut(*jsonOutput, app.Config, fmt.Sprintf("level=%s autoRegisterScans=%t", app.Config.Level, app.Config.AutoRegisterScans))
		},
	}

	setLevelCmd := &cobra.Command{
		Use:   "set-level <strict|balanced|permissive>",
		Short: "Set the protection level",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newSvc()
			if err != nil {
				return err
			}
			app.Config.Level = policy.ProtectionLevel(args[0])
			if err := agentconfig.Save(app.ConfigPath, app.Config); err != nil {
				return err
			}
			return printOut(*jsonOutput, app.Config, fmt.Sprintf("level set to %s", app.Config.Level))
		},
	}

	configCmd.AddCommand(getCmd, setLevelCmd)
	return configCmd
}
