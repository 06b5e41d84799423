package detectors

import (
	"strings"
	"testing"

	"github.com/agentguard/agentguard/internal/capability"
	"github.com/agentguard/agentguard/internal/patterns"
	"github.com/agentguard/agentguard/pkg/policy"
)

func tradingCaps() capability.Set {
	return capability.TradingBot()
}

func TestWeb3TxChainNotAllowedDenies(t *testing.T) {
	r := Web3Tx(policy.Web3TxData{ChainID: "999", To: "0xabc"}, tradingCaps())
	if !r.ShouldBlock {
		t.Error("expected disallowed chain to deny")
	}
}

func TestWeb3TxAllowedChainPasses(t *testing.T) {
	r := Web3Tx(policy.Web3TxData{ChainID: "1", To: "0xabc"}, tradingCaps())
	if r.ShouldBlock {
		t.Error("expected allowed chain to pass chain check")
	}
}

func TestWeb3SignPermitSignatureLiftsMedium(t *testing.T) {
	r := Web3Sign(policy.Web3SignData{ChainID: "1", TypedData: `{"primaryType":"Permit"}`}, tradingCaps())
	if r.RiskLevel < patterns.SeverityMedium {
		t.Errorf("expected at least medium risk for Permit signature, got %v", r.RiskLevel)
	}
	if !r.ShouldBlock {
		t.Error("expected a Permit signature to require confirmation, not pass through silently")
	}
}

func TestWeb3SignUnlimitedValueLiftsHigh(t *testing.T) {
	unlimited := "0x" + strings.Repeat("f", 64)
	r := Web3Sign(policy.Web3SignData{ChainID: "1", TypedData: `{"value":"` + unlimited + `"}`}, tradingCaps())
	if r.RiskLevel < patterns.SeverityHigh {
		t.Errorf("expected at least high risk for unlimited value, got %v", r.RiskLevel)
	}
}

func TestWeb3SignSecretInMessageDenies(t *testing.T) {
	msg := "please sign with key 0x" + strings.Repeat("a", 64)
	r := Web3Sign(policy.Web3SignData{ChainID: "1", Message: msg}, tradingCaps())
	if !r.ShouldBlock || r.RiskLevel != patterns.SeverityCritical {
		t.Fatalf("expected critical deny for secret in signed message, got block=%v level=%v", r.ShouldBlock, r.RiskLevel)
	}
}
