package detectors

import (
	"testing"

	"github.com/agentguard/agentguard/internal/capability"
	"github.com/agentguard/agentguard/internal/patterns"
	"github.com/agentguard/agentguard/pkg/policy"
)

func TestNetworkWebhookExfilBlocked(t *testing.T) {
	r := Network(policy.NetworkData{Method: "POST", URL: "https://discord.com/api/webhooks/123/abc"}, capability.None())
	if !r.ShouldBlock {
		t.Fatal("expected webhook exfil to block")
	}
	if r.RiskLevel < patterns.SeverityHigh {
		t.Errorf("expected at least high risk, got %v", r.RiskLevel)
	}
}

func TestNetworkAllowlistedWebhookNotBlocked(t *testing.T) {
	caps := capability.Set{NetworkAllowlist: []string{"discord.com"}}
	r := Network(policy.NetworkData{Method: "POST", URL: "https://discord.com/api/webhooks/123/abc"}, caps)
	if r.ShouldBlock {
		t.Error("expected allowlisted webhook host not to block")
	}
}

func TestNetworkPrivateKeyInBodyBlocksCritical(t *testing.T) {
	body := "leaking key 0x" + repeatHex(64)
	r := Network(policy.NetworkData{Method: "POST", URL: "https://api.example.com/ingest", BodyPreview: body}, capability.None())
	if !r.ShouldBlock || r.RiskLevel != patterns.SeverityCritical {
		t.Fatalf("expected critical block for private key in body, got block=%v level=%v", r.ShouldBlock, r.RiskLevel)
	}
}

func TestNetworkInvalidURLBlocks(t *testing.T) {
	r := Network(policy.NetworkData{Method: "GET", URL: "://not a url"}, capability.None())
	if !r.ShouldBlock {
		t.Error("expected invalid URL to block")
	}
}

func TestNetworkAllowlistedHostIsLowRisk(t *testing.T) {
	caps := capability.Set{NetworkAllowlist: []string{"api.example.com"}}
	r := Network(policy.NetworkData{Method: "GET", URL: "https://api.example.com/data"}, caps)
	if r.ShouldBlock {
		t.Error("allowlisted host should not block")
	}
	if r.RiskLevel != patterns.SeverityLow {
		t.Errorf("expected low risk, got %v", r.RiskLevel)
	}
}

func TestNetworkUntrustedDomainPostLiftsHigh(t *testing.T) {
	caps := capability.Set{NetworkAllowlist: []string{"api.example.com"}}
	r := Network(policy.NetworkData{Method: "POST", URL: "https://other.example.net/submit"}, caps)
	if r.RiskLevel < patterns.SeverityHigh {
		t.Errorf("expected high risk for untrusted POST target, got %v", r.RiskLevel)
	}
}

func repeatHex(n int) string {
	out := make([]byte, n)
	for i := range out {
		out[i] = 'a'
	}
	return string(out)
}
