// Package registry implements the Trust Registry (spec.md §3, §4.2): an
// identity-keyed store of trust level and capability records, persisted as
// the JSON document described in spec.md §6.
package registry

import (
	"time"

	"github.com/agentguard/agentguard/internal/capability"
	"github.com/agentguard/agentguard/pkg/policy"
)

// TrustLevel is ordered untrusted < restricted < trusted (spec.md §3, §4.2).
type TrustLevel int

const (
	Untrusted TrustLevel = iota
	Restricted
	Trusted
)

func (t TrustLevel) String() string {
	switch t {
	case Trusted:
		return "trusted"
	case Restricted:
		return "restricted"
	default:
		return "untrusted"
	}
}

// ParseTrustLevel parses the spec's string vocabulary; unrecognized input
// maps to Untrusted (fail-closed, spec.md §7).
func ParseTrustLevel(s string) TrustLevel {
	switch s {
	case "trusted":
		return Trusted
	case "restricted":
		return Restricted
	default:
		return Untrusted
	}
}

// Status is the record lifecycle state (spec.md §3).
type Status string

const (
	StatusActive  Status = "active"
	StatusRevoked Status = "revoked"
)

// ReviewMetadata carries free-form attestation provenance.
type ReviewMetadata struct {
	Reviewer string            `json:"reviewer,omitempty"`
	Notes    string            `json:"notes,omitempty"`
	Extra    map[string]string `json:"extra,omitempty"`
}

// Record is a trust record (spec.md §3).
type Record struct {
	RecordKey      string               `json:"recordKey"`
	Skill          policy.SkillIdentity `json:"skill"`
	TrustLevel     TrustLevel           `json:"trustLevel"`
	Capabilities   capability.Set       `json:"capabilities"`
	ReviewMetadata ReviewMetadata       `json:"reviewMetadata,omitempty"`
	Status         Status               `json:"status"`
	CreatedAt      time.Time            `json:"createdAt"`
	UpdatedAt      time.Time            `json:"updatedAt"`
	ExpiresAt      *time.Time           `json:"expiresAt,omitempty"`
}

// Expired reports whether r has passed its expiry as of now.
func (r Record) Expired(now time.Time) bool {
	return r.ExpiresAt != nil && now.After(*r.ExpiresAt)
}

// Document is the on-disk schema, registry.json (spec.md §6).
type Document struct {
	Version   int       `json:"version"`
	UpdatedAt time.Time `json:"updatedAt"`
	Records   []Record  `json:"records"`
}

const DocumentVersion = 1

// LookupResult is the lookup operation's output (spec.md §4.2).
type LookupResult struct {
	Record               *Record
	EffectiveTrustLevel  TrustLevel
	EffectiveCapabilities capability.Set
}

// ListFilters narrows a list operation (spec.md §4.2).
type ListFilters struct {
	TrustLevel     *TrustLevel
	Status         *Status
	SourcePattern  string
	IncludeExpired bool
}

// RevokeMatch selects records to revoke; at least one field must be set
// (spec.md §4.2 — empty match is InvalidMatch).
type RevokeMatch struct {
	Source     string
	VersionRef string
	RecordKey  string
}
