package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newDoctorCmd(newSvc func() (*App, error), jsonOutput *bool) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "doctor",
		Aliases: []string{"diag", "checkup"},
		Short:   "Run diagnostics against the registry, config, audit log, and threat-intel setup",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newSvc()
			if err != nil {
				return err
			}
			report := app.Doctor.Run()
			if *jsonOutput {
				return printOut(true, report, "")
			}
			if report.Healthy {
				fmt.Println("healthy")
				return nil
			}
			fmt.Println("issues found:")
			for _, f := range report.Findings {
				fmt.Printf("- [%s/%s] %s\n", f.Level, f.Code, f.Message)
			}
			return nil
		},
	}
	return cmd
}
