package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// ExitCoder lets a returned error carry a process exit code, mirroring the
// hook transport contract's allow/deny/ask exit semantics.
type ExitCoder interface {
	ExitCode() int
}

type exitError struct {
	code int
	msg  string
}

func (e *exitError) Error() string { return e.msg }
func (e *exitError) ExitCode() int { return e.code }

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if err.Error() != "" {
			fmt.Fprintln(os.Stderr, err)
		}
		if ex, ok := err.(ExitCoder); ok {
			os.Exit(ex.ExitCode())
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:           "agentguard",
		Short:         "Local security policy engine for AI agent/skill tool calls",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config.json (defaults to $AGENTGUARD_HOME/config.json)")
	cmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "emit JSON output")

	newSvc := func() (*App, error) {
		return NewApp(configPath)
	}

	cmd.AddCommand(newDecideCmd(newSvc, &jsonOutput))
	cmd.AddCommand(newScanCmd(newSvc, &jsonOutput))
	cmd.AddCommand(newRegistryCmd(newSvc, &jsonOutput))
	cmd.AddCommand(newConfigCmd(newSvc, &jsonOutput))
	cmd.AddCommand(newDoctorCmd(newSvc, &jsonOutput))

	return cmd
}
