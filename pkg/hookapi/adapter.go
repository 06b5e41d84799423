// Package hookapi defines the hook adapter contract (spec.md §6): the
// boundary between a platform's tool-call hook payload and the engine's
// ActionEnvelope, kept separate from internal/engine so external
// collaborators can implement new adapters without reaching into engine
// internals (grounded on the teacher's pkg/adapterapi interface package).
package hookapi

import "github.com/agentguard/agentguard/pkg/policy"

// EventType distinguishes a pre-tool-call hook from a post-tool-call one.
// The decide command returns on a post event without evaluating it and
// without writing an audit entry.
type EventType string

const (
	EventPre  EventType = "pre"
	EventPost EventType = "post"
)

// HookInput is the platform-neutral shape every adapter normalizes its raw
// hook payload into.
type HookInput struct {
	ToolName  string
	ToolInput map[string]any
	EventType EventType
	SessionID string
	Cwd       string
}

// Adapter is the hook adapter contract. ParseInput returns an error for a
// payload it cannot parse; MapToolToActionType and BuildEnvelope return
// ok=false (rather than an error) when the input simply isn't something
// this adapter can turn into a policy action — e.g. a tool call with no
// security-relevant side effect.
type Adapter interface {
	// Name identifies the adapter, e.g. "claude-code" or "generic".
	Name() string

	// ParseInput normalizes a raw hook payload (typically JSON read from
	// stdin) into a HookInput.
	ParseInput(raw []byte) (HookInput, error)

	// MapToolToActionType resolves a platform tool name to the action
	// type it represents, or ok=false if the tool has no corresponding
	// action type to evaluate.
	MapToolToActionType(toolName string) (policy.ActionType, bool)

	// InferInitiatingSkill attempts to recover which skill's code path
	// produced this tool call, or ok=false if it cannot be determined.
	InferInitiatingSkill(input HookInput) (string, bool)

	// BuildEnvelope constructs the ActionEnvelope to submit to
	// engine.Decide, or ok=false if input doesn't map to an evaluable
	// action.
	BuildEnvelope(input HookInput, initiatingSkill string) (policy.ActionEnvelope, bool)
}
