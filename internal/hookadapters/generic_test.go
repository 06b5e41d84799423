package hookadapters

import (
	"testing"

	"github.com/agentguard/agentguard/pkg/hookapi"
	"github.com/agentguard/agentguard/pkg/policy"
)

func hookInputFixture(toolName string, toolInput map[string]any) hookapi.HookInput {
	return hookapi.HookInput{ToolName: toolName, ToolInput: toolInput, EventType: hookapi.EventPre}
}

func TestGenericBuildEnvelopeWeb3Tx(t *testing.T) {
	a := newGenericAdapter()
	input := hookInputFixture(string(policy.ActionWeb3Tx), map[string]any{"chainId": "1", "to": "0xabc", "from": "0xdef"})
	env, ok := a.BuildEnvelope(input, "")
	if !ok {
		t.Fatal("expected envelope to be built")
	}
	if env.Action.Web3Tx == nil || env.Action.Web3Tx.To != "0xabc" {
		t.Errorf("unexpected web3 tx action: %+v", env.Action.Web3Tx)
	}
}

func TestGenericBuildEnvelopeUnknownActionRejected(t *testing.T) {
	a := newGenericAdapter()
	input := hookInputFixture("not_an_action", map[string]any{})
	if _, ok := a.BuildEnvelope(input, ""); ok {
		t.Error("expected BuildEnvelope to reject unknown action type")
	}
}

func TestGenericParseInputDefaultsToPreEvent(t *testing.T) {
	a := newGenericAdapter()
	raw := []byte(`{"toolName":"exec_command","toolInput":{}}`)
	input, err := a.ParseInput(raw)
	if err != nil {
		t.Fatal(err)
	}
	if input.EventType != hookapi.EventPre {
		t.Errorf("expected default event type pre, got %q", input.EventType)
	}
}

func TestGenericInferInitiatingSkillMissing(t *testing.T) {
	a := newGenericAdapter()
	input := hookInputFixture(string(policy.ActionReadFile), map[string]any{"path": "/tmp/x"})
	if _, ok := a.InferInitiatingSkill(input); ok {
		t.Error("expected no initiating skill when absent from tool input")
	}
}

func TestRegistryGetUnknownAdapter(t *testing.T) {
	r, err := NewRegistry([]string{"generic"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := r.Get("does-not-exist"); err == nil {
		t.Error("expected error for unknown adapter name")
	}
}

func TestRegistryRejectsUnknownNameAtConstruction(t *testing.T) {
	if _, err := NewRegistry([]string{"nonexistent"}); err == nil {
		t.Error("expected NewRegistry to reject unknown adapter names")
	}
}

func TestDefaultRegistryHasBuiltins(t *testing.T) {
	r := DefaultRegistry()
	if _, err := r.Get("claude-code"); err != nil {
		t.Error("expected claude-code adapter to be registered by default")
	}
	if _, err := r.Get("generic"); err != nil {
		t.Error("expected generic adapter to be registered by default")
	}
}
