package hookadapters

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/agentguard/agentguard/pkg/hookapi"
	"github.com/agentguard/agentguard/pkg/policy"
)

// claudeCodePayload mirrors the JSON shape Claude Code writes to a
// PreToolUse/PostToolUse hook's stdin.
type claudeCodePayload struct {
	SessionID      string         `json:"session_id"`
	Cwd            string         `json:"cwd"`
	HookEventName  string         `json:"hook_event_name"`
	ToolName       string         `json:"tool_name"`
	ToolInput      map[string]any `json:"tool_input"`
	TranscriptPath string         `json:"transcript_path,omitempty"`
}

// claudeCodeAdapter implements hookapi.Adapter for Claude Code's hook
// payload shape.
type claudeCodeAdapter struct{}

func newClaudeCodeAdapter() hookapi.Adapter { return claudeCodeAdapter{} }

func (claudeCodeAdapter) Name() string { return "claude-code" }

func (claudeCodeAdapter) ParseInput(raw []byte) (hookapi.HookInput, error) {
	var p claudeCodePayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return hookapi.HookInput{}, fmt.Errorf("HOOK_PARSE_ERROR: %w", err)
	}
	eventType := hookapi.EventPre
	if p.HookEventName == "PostToolUse" {
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

func (claudeCodeAdapter) MapToolToActionType(toolName string) (policy.ActionType, bool) {
	switch toolName {
	case "Bash":
		return policy.ActionExecCommand, true
	case "WebFetch", "WebSearch":
		return policy.ActionNetworkRequest, true
	case "Read", "Glob", "Grep":
		return policy.ActionReadFile, true
	case "Write", "Edit", "NotebookEdit":
		return policy.ActionWriteFile, true
	default:
		return "", false
	}
}

func (claudeCodeAdapter) InferInitiatingSkill(input hookapi.HookInput) (string, bool) {
	raw, ok := input.ToolInput["_agentguard_initiating_skill"]
	if !ok {
		return "", false
	}
	id, ok := raw.(string)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}

func (a claudeCodeAdapter) BuildEnvelope(input hookapi.HookInput, initiatingSkill string) (policy.ActionEnvelope, bool) {
	actionType, ok := a.MapToolToActionType(input.ToolName)
	if !ok {
		return policy.ActionEnvelope{}, false
	}

	action := policy.Action{Type: actionType}
	switch actionType {
	case policy.ActionExecCommand:
		command, _ := input.ToolInput["command"].(string)
		if command == "" {
			return policy.ActionEnvelope{}, false
		}
		action.Exec = &policy.ExecData{Command: command, Cwd: input.Cwd}
	case policy.ActionNetworkRequest:
		url, _ := input.ToolInput["url"].(string)
		if url == "" {
			return policy.ActionEnvelope{}, false
		}
		action.Network = &policy.NetworkData{Method: "GET", URL: url}
	case policy.ActionReadFile:
		path := stringField(input.ToolInput, "file_path", "path", "pattern")
		if path == "" {
			return policy.ActionEnvelope{}, false
		}
		action.File = &policy.FileData{Path: path}
	case policy.ActionWriteFile:
		path := stringField(input.ToolInput, "file_path", "notebook_path")
		if path == "" {
			return policy.ActionEnvelope{}, false
		}
		action.File = &policy.FileData{Path: path}
	default:
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

func stringField(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if v, ok := m[k].(string); ok && v != "" {
			return v
		}
	}
	return ""
}
