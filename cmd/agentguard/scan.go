package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentguard/agentguard/internal/staticscan"
)

func newScanCmd(newSvc func() (*App, error), jsonOutput *bool) *cobra.Command {
	var quick bool
	cmd := &cobra.Command{
		Use:   "scan <dir>",
		Short: "Run the static scanner over a skill package directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result staticscan.Result
			var err error
			if quick {
				result, err = staticscan.QuickScan(args[0])
			} else {
				result, err = staticscan.Scan(args[0])
			}
			if err != nil {
				return fmt.Errorf("SCAN_FAILED: %w", err)
			}
			if *jsonOutput {
				return printOut(true, result, "")
			}
			if len(result.Findings) == 0 {
				fmt.Printf("no findings (risk=%s, scanned=%d, skipped=%d)\n", result.RiskLevel, result.FilesScanned, result.SkippedFiles)
				return nil
			}
			fmt.Printf("risk=%s findings=%d scanned=%d skipped=%d\n", result.RiskLevel, len(result.Findings), result.FilesScanned, result.SkippedFiles)
			for _, f := range result.Findings {
				fmt.Printf("- [%s] %s:%d (%s)\n", f.RuleID, f.FilePath, f.Line, f.Category)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&quick, "quick", false, "apply every rule but skip the base64 re-scan and snippet capture")
	return cmd
}
