// Package policy defines the wire-level data model shared by the Action
// Scanner, the hook adapters, and callers of the core's exported
// decide(envelope) -> PolicyDecision entry point (spec.md §3, §6).
package policy

import (
	"time"

	"github.com/agentguard/agentguard/internal/patterns"
)

// Severity re-exports patterns.Severity so callers of this package do not
// need to import internal/patterns directly.
type Severity = patterns.Severity

const (
	SeverityLow      = patterns.SeverityLow
	SeverityMedium   = patterns.SeverityMedium
	SeverityHigh     = patterns.SeverityHigh
	SeverityCritical = patterns.SeverityCritical
)

// Decision is the Action Scanner's output verdict (spec.md §3, §4.6).
type Decision string

const (
	Allow   Decision = "allow"
	Deny    Decision = "deny"
	Confirm Decision = "confirm"
)

// ActionType enumerates the action envelope's tagged variants (spec.md §3).
type ActionType string

const (
	ActionNetworkRequest ActionType = "network_request"
	ActionExecCommand    ActionType = "exec_command"
	ActionReadFile       ActionType = "read_file"
	ActionWriteFile      ActionType = "write_file"
	ActionSecretAccess   ActionType = "secret_access"
	ActionWeb3Tx         ActionType = "web3_tx"
	ActionWeb3Sign       ActionType = "web3_sign"
)

// Env classifies the execution environment an action is proposed in.
type Env string

const (
	EnvProd Env = "prod"
	EnvDev  Env = "dev"
	EnvTest Env = "test"
)

// SkillIdentity uniquely identifies a skill/plugin version (spec.md §3).
type SkillIdentity struct {
	ID            string `json:"id"`
	Source        string `json:"source"`
	VersionRef    string `json:"versionRef"`
	ArtifactHash  string `json:"artifactHash"`
}

// Actor is the action envelope's actor field.
type Actor struct {
	Skill     SkillIdentity `json:"skill"`
	RecordKey string        `json:"recordKey,omitempty"`
}

// ExecData is the action-data variant for exec_command.
type ExecData struct {
	Command string            `json:"command"`
	Args    []string          `json:"args,omitempty"`
	Cwd     string            `json:"cwd,omitempty"`
	Env     map[string]string `json:"env,omitempty"`
}

// NetworkData is the action-data variant for network_request.
type NetworkData struct {
	Method      string            `json:"method"`
	URL         string            `json:"url"`
	Headers     map[string]string `json:"headers,omitempty"`
	BodyPreview string            `json:"bodyPreview,omitempty"`
}

// FileData is the action-data variant for read_file/write_file.
type FileData struct {
	Path string `json:"path"`
}

// SecretData is the action-data variant for secret_access.
type SecretData struct {
	SecretName string `json:"secretName"`
	AccessType string `json:"accessType,omitempty"`
}

// Web3TxData is the action-data variant for web3_tx. Origin carries the
// initiating dApp's URL, if known, for the phishing-site check (spec.md
// §4.5); it may be empty when the envelope's source doesn't expose one.
type Web3TxData struct {
	ChainID string `json:"chainId"`
	From    string `json:"from"`
	To      string `json:"to"`
	Value   string `json:"value,omitempty"`
	Data    string `json:"data,omitempty"`
	Origin  string `json:"origin,omitempty"`
}

// Web3SignData is the action-data variant for web3_sign.
type Web3SignData struct {
	ChainID   string `json:"chainId"`
	Message   string `json:"message,omitempty"`
	TypedData string `json:"typedData,omitempty"`
}

// Action is the type-tagged action field of an envelope.
type Action struct {
	Type        ActionType    `json:"type"`
	Exec        *ExecData     `json:"exec,omitempty"`
	Network     *NetworkData  `json:"network,omitempty"`
	File        *FileData     `json:"file,omitempty"`
	Secret      *SecretData   `json:"secret,omitempty"`
	Web3Tx      *Web3TxData   `json:"web3Tx,omitempty"`
	Web3Sign    *Web3SignData `json:"web3Sign,omitempty"`
}

// Context is the action envelope's context field.
type Context struct {
	SessionID       string    `json:"sessionId,omitempty"`
	UserPresent     bool      `json:"userPresent"`
	Env             Env       `json:"env"`
	Time            time.Time `json:"time"`
	InitiatingSkill string    `json:"initiatingSkill,omitempty"`
}

// ActionEnvelope is the single-use, stateless unit of work submitted to the
// Action Scanner (spec.md §3).
type ActionEnvelope struct {
	Actor   Actor   `json:"actor"`
	Action  Action  `json:"action"`
	Context Context `json:"context"`
}

// Evidence is one contributing fact behind a decision (spec.md §3).
type Evidence struct {
	Type        string `json:"type"`
	Field       string `json:"field,omitempty"`
	Match       string `json:"match,omitempty"`
	Description string `json:"description"`
}

// EffectiveCapabilities is a JSON-serializable snapshot of the capability
// set that was applied for a decision, used for audit/explanation; the
// full capability.Set type lives in internal/capability, which this public
// package does not import.
type EffectiveCapabilities struct {
	NetworkAllowlist    []string `json:"networkAllowlist,omitempty"`
	FilesystemAllowlist []string `json:"filesystemAllowlist,omitempty"`
	Exec                string   `json:"exec"`
	SecretsAllowlist    []string `json:"secretsAllowlist,omitempty"`
}

// PolicyDecision is the Action Scanner's output (spec.md §3).
type PolicyDecision struct {
	Decision              Decision               `json:"decision"`
	RiskLevel             Severity               `json:"riskLevel"`
	RiskTags              []string               `json:"riskTags"`
	Evidence              []Evidence             `json:"evidence"`
	Explanation           string                 `json:"explanation"`
	EffectiveCapabilities *EffectiveCapabilities `json:"effectiveCapabilities,omitempty"`
}

// ProtectionLevel is the user-chosen posture mapped by the Arbitrator.
type ProtectionLevel string

const (
	LevelStrict     ProtectionLevel = "strict"
	LevelBalanced   ProtectionLevel = "balanced"
	LevelPermissive ProtectionLevel = "permissive"
)

// Verdict is the hook-integration output alphabet (spec.md §4.7, §6).
type Verdict string

const (
	VerdictAllow Verdict = "allow"
	VerdictDeny  Verdict = "deny"
	VerdictAsk   Verdict = "ask"
)
