package hookadapters

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/agentguard/agentguard/pkg/hookapi"
	"github.com/agentguard/agentguard/pkg/policy"
)

// genericPayload is the minimal envelope-shaped hook payload any platform
// can emit when it has no richer tool-call convention of its own.
type genericPayload struct {
	SessionID       string         `json:"sessionId"`
	Cwd             string         `json:"cwd"`
	EventType       string         `json:"eventType"`
	ToolName        string         `json:"toolName"`
	ToolInput       map[string]any `json:"toolInput"`
	InitiatingSkill string         `json:"initiatingSkill,omitempty"`
}

// genericAdapter implements hookapi.Adapter against the platform-neutral
// genericPayload shape, used whenever no platform-specific adapter is
// configured for a hook's origin.
type genericAdapter struct{}

func newGenericAdapter() hookapi.Adapter { return genericAdapter{} }

func (genericAdapter) Name() string { return "generic" }

func (genericAdapter) ParseInput(raw []byte) (hookapi.HookInput, error) {
	var p genericPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return hookapi.HookInput{}, fmt.Errorf("HOOK_PARSE_ERROR: %w", err)
	}
	eventType := hookapi.EventPre
	if p.EventType == string(hookapi.EventPost) {
		eventType = hookapi.EventPost
	}
	return hookapi.HookInput{
		ToolName:  p.ToolName,
		ToolInput: p.ToolInput,
		EventType: eventType,
		SessionID: p.SessionID,
		Cwd:       p.Cwd,
	}, nil
}

func (genericAdapter) MapToolToActionType(toolName string) (policy.ActionType, bool) {
	switch policy.ActionType(toolName) {
	case policy.ActionNetworkRequest, policy.ActionExecCommand, policy.ActionReadFile,
		policy.ActionWriteFile, policy.ActionSecretAccess, policy.ActionWeb3Tx, policy.ActionWeb3Sign:
		return policy.ActionType(toolName), true
	default:
		return "", false
	}
}

func (genericAdapter) InferInitiatingSkill(input hookapi.HookInput) (string, bool) {
	raw, ok := input.ToolInput["initiatingSkill"]
	if !ok {
		return "", false
	}
	id, ok := raw.(string)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}

// BuildEnvelope treats the generic payload's toolInput as an
// already-marshaled policy.Action payload keyed by the tool name; this lets
// a platform with no bespoke adapter submit a fully-formed action directly.
func (a genericAdapter) BuildEnvelope(input hookapi.HookInput, initiatingSkill string) (policy.ActionEnvelope, bool) {
	actionType, ok := a.MapToolToActionType(input.ToolName)
	if !ok {
		return policy.ActionEnvelope{}, false
	}
	blob, err := json.Marshal(input.ToolInput)
	if err != nil {
		return policy.ActionEnvelope{}, false
	}
	action := policy.Action{Type: actionType}
	var unmarshalErr error
	switch actionType {
	case policy.ActionExecCommand:
		action.Exec = &policy.ExecData{}
		unmarshalErr = json.Unmarshal(blob, action.Exec)
	case policy.ActionNetworkRequest:
		action.Network = &policy.NetworkData{}
		unmarshalErr = json.Unmarshal(blob, action.Network)
	case policy.ActionReadFile, policy.ActionWriteFile:
		action.File = &policy.FileData{}
		unmarshalErr = json.Unmarshal(blob, action.File)
	case policy.ActionSecretAccess:
		action.Secret = &policy.SecretData{}
		unmarshalErr = json.Unmarshal(blob, action.Secret)
	case policy.ActionWeb3Tx:
		action.Web3Tx = &policy.Web3TxData{}
		unmarshalErr = json.Unmarshal(blob, action.Web3Tx)
	case policy.ActionWeb3Sign:
		action.Web3Sign = &policy.Web3SignData{}
		unmarshalErr = json.Unmarshal(blob, action.Web3Sign)
	}
	if unmarshalErr != nil {
		return policy.ActionEnvelope{}, false
	}

	return policy.ActionEnvelope{
		Actor: policy.Actor{Skill: policy.SkillIdentity{ID: initiatingSkill}},
		Action: action,
		Context: policy.Context{
			SessionID:       input.SessionID,
			UserPresent:     true,
			Env:             policy.EnvProd,
			Time:            time.Now().UTC(),
			InitiatingSkill: initiatingSkill,
		},
	}, true
}
