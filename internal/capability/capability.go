// Package capability implements the capability model (spec.md §3): per-skill
// network/filesystem/exec/secrets allowlists plus an optional Web3 policy,
// named presets, and a derived boolean view computed on demand (spec.md §9 —
// never stored alongside the structured record).
package capability

// ExecPolicy is the exec capability: allow or deny.
type ExecPolicy string

const (
	ExecAllow ExecPolicy = "allow"
	ExecDeny  ExecPolicy = "deny"
)

// TxPolicy governs Web3 transaction handling.
type TxPolicy string

const (
	TxAllow           TxPolicy = "allow"
	TxConfirmHighRisk TxPolicy = "confirm_high_risk"
	TxDeny            TxPolicy = "deny"
)

// Web3 is the optional Web3 capability sub-block.
type Web3 struct {
	ChainsAllowlist []string `json:"chainsAllowlist,omitempty"`
	RPCAllowlist    []string `json:"rpcAllowlist,omitempty"`
	TxPolicy        TxPolicy `json:"txPolicy,omitempty"`
}

// Set is the capability model (spec.md §3).
type Set struct {
	NetworkAllowlist    []string `json:"networkAllowlist,omitempty"`
	FilesystemAllowlist []string `json:"filesystemAllowlist,omitempty"`
	Exec                ExecPolicy `json:"exec"`
	SecretsAllowlist    []string `json:"secretsAllowlist,omitempty"`
	Web3                *Web3    `json:"web3,omitempty"`
}

// Booleans is the derived on-demand view used by the untrusted-skill
// overlay (spec.md §4.6 step 5, §9).
type Booleans struct {
	CanExec    bool
	CanNetwork bool
	CanWrite   bool
	CanRead    bool
	CanWeb3    bool
}

// AsBooleans computes the coarse-grained boolean view of s.
func (s Set) AsBooleans() Booleans {
	return Booleans{
		CanExec:    s.Exec == ExecAllow,
		CanNetwork: len(s.NetworkAllowlist) > 0,
		CanWrite:   len(s.FilesystemAllowlist) > 0,
		CanRead:    len(s.FilesystemAllowlist) > 0,
		CanWeb3:    s.Web3 != nil && len(s.Web3.ChainsAllowlist) > 0,
	}
}

// None is the zero-trust preset: no network, no filesystem, exec denied,
// no secrets, no Web3.
func None() Set {
	return Set{Exec: ExecDeny}
}

// ReadOnly allows filesystem access under a "**" allowlist and nothing
// else. The File detector applies the same allowlist to reads and writes,
// so writes outside sensitive paths are allowed as well.
func ReadOnly() Set {
	return Set{
		FilesystemAllowlist: []string{"**"},
		Exec:                ExecDeny,
	}
}

// TradingBot is a preset tuned for Web3 trading skills: network to common
// RPC/exchange endpoints, exec denied, Web3 tx confirmation on high risk.
func TradingBot() Set {
	return Set{
		NetworkAllowlist: []string{"*.infura.io", "*.alchemy.com", "*binance.com", "*coinbase.com"},
		Exec:             ExecDeny,
		Web3: &Web3{
			ChainsAllowlist: []string{"1", "137", "42161"},
			TxPolicy:        TxConfirmHighRisk,
		},
	}
}

// Defi is a broader Web3 preset for DeFi-interacting skills.
func Defi() Set {
	return Set{
		NetworkAllowlist: []string{"*.infura.io", "*.alchemy.com", "*.thegraph.com"},
		Exec:             ExecDeny,
		Web3: &Web3{
			ChainsAllowlist: []string{"1", "10", "137", "8453", "42161"},
			TxPolicy:        TxConfirmHighRisk,
		},
	}
}

// Preset resolves a named preset; the caller is responsible for treating an
// unknown name as None() per spec.md §3 ("named presets are constants, not
// stored per record").
func Preset(name string) (Set, bool) {
	switch name {
	case "none":
		return None(), true
	case "read_only":
		return ReadOnly(), true
	case "trading_bot":
		return TradingBot(), true
	case "defi":
		return Defi(), true
	default:
		return Set{}, false
	}
}
