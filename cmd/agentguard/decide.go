package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/agentguard/agentguard/internal/arbitrator"
	"github.com/agentguard/agentguard/pkg/hookapi"
	"github.com/agentguard/agentguard/pkg/policy"
)

// hookReply is the single-line structured reply written to stdout for an
// ask verdict (spec.md §6).
type hookReply struct {
	Event                    string `json:"event"`
	PermissionDecision       string `json:"permissionDecision"`
	PermissionDecisionReason string `json:"permissionDecisionReason"`
}

func newDecideCmd(newSvc func() (*App, error), jsonOutput *bool) *cobra.Command {
	var adapterName string
	var initiatingSkill string

	cmd := &cobra.Command{
		Use:   "decide",
		Short: "Evaluate a single hook payload and exit per the hook transport contract",
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("POL_STDIN_READ: %w", err)
			}

			app, err := newSvc()
			if err != nil {
				return err
			}

			adp, err := app.Adapters.Get(adapterName)
			if err != nil {
				return &exitError{code: 2, msg: err.Error()}
			}

			input, err := adp.ParseInput(raw)
			if err != nil {
				return &exitError{code: 2, msg: err.Error()}
			}

			if input.EventType == hookapi.EventPost {
				return nil
			}

			skill := initiatingSkill
			if skill == "" {
				if inferred, ok := adp.InferInitiatingSkill(input); ok {
					skill = inferred
				}
			}

			envelope, ok := adp.BuildEnvelope(input, skill)
			if !ok {
				return nil
			}

			decision := app.Engine.Decide(context.Background(), envelope)
			sensitivePath := hasRiskTag(decision.RiskTags, "SENSITIVE_PATH")
			verdict := arbitrator.Arbitrate(app.Config.Level, decision.Decision, decision.RiskLevel, sensitivePath, skill != "")
			return emitVerdict(verdict, decision, *jsonOutput)
		},
	}
	cmd.Flags().StringVar(&adapterName, "adapter", "claude-code", "hook adapter name (claude-code|generic)")
	cmd.Flags().StringVar(&initiatingSkill, "initiating-skill", "", "override inferred initiating skill id")
	return cmd
}

func hasRiskTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}

// emitVerdict maps the Arbitrator's allow/deny/ask verdict to the hook
// transport contract's exit-code semantics (spec.md §6). The raw engine
// decision is retained only for its explanation/JSON payload; the exit
// code and ask/deny branching are driven by verdict, never decision.Decision
// directly, so the user's chosen protection level is always consulted.
func emitVerdict(verdict policy.Verdict, decision policy.PolicyDecision, jsonOutput bool) error {
	switch verdict {
	case policy.VerdictAllow:
		if jsonOutput {
			return printOut(true, decision, "")
		}
		return nil
	case policy.VerdictDeny:
		if jsonOutput {
			if err := printOut(true, decision, ""); err != nil {
				return err
			}
			return &exitError{code: 2, msg: ""}
		}
		return &exitError{code: 2, msg: decision.Explanation}
	case policy.VerdictAsk:
		reply := hookReply{Event: "pre", PermissionDecision: "ask", PermissionDecisionReason: decision.Explanation}
		blob, err := json.Marshal(reply)
		if err != nil {
			return fmt.Errorf("POL_REPLY_ENCODE: %w", err)
		}
		fmt.Fprintln(os.Stdout, string(blob))
		return nil
	default:
		return &exitError{code: 2, msg: "POL_UNKNOWN_VERDICT: " + string(verdict)}
	}
}
