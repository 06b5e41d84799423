package arbitrator

import (
	"testing"

	"github.com/agentguard/agentguard/pkg/policy"
)

func TestStrictDeniesAnythingNotAllow(t *testing.T) {
	if v := Arbitrate(policy.LevelStrict, policy.Confirm, policy.SeverityLow, false, false); v != policy.VerdictDeny {
		t.Errorf("expected deny, got %v", v)
	}
	if v := Arbitrate(policy.LevelStrict, policy.Allow, policy.SeverityLow, false, false); v != policy.VerdictAllow {
		t.Errorf("expected allow, got %v", v)
	}
}

func TestBalancedMapsConfirmToAsk(t *testing.T) {
	if v := Arbitrate(policy.LevelBalanced, policy.Confirm, policy.SeverityHigh, false, false); v != policy.VerdictAsk {
		t.Errorf("expected ask, got %v", v)
	}
	if v := Arbitrate(policy.LevelBalanced, policy.Deny, policy.SeverityCritical, false, false); v != policy.VerdictDeny {
		t.Errorf("expected deny, got %v", v)
	}
}

func TestPermissiveDowngradesNonCriticalDeny(t *testing.T) {
	if v := Arbitrate(policy.LevelPermissive, policy.Deny, policy.SeverityHigh, false, false); v != policy.VerdictAsk {
		t.Errorf("expected ask for non-critical deny under permissive, got %v", v)
	}
	if v := Arbitrate(policy.LevelPermissive, policy.Deny, policy.SeverityCritical, false, false); v != policy.VerdictDeny {
		t.Errorf("expected deny retained for critical risk under permissive, got %v", v)
	}
}

func TestPermissiveConfirmThresholds(t *testing.T) {
	if v := Arbitrate(policy.LevelPermissive, policy.Confirm, policy.SeverityMedium, false, false); v != policy.VerdictAllow {
		t.Errorf("expected allow for medium-risk confirm under permissive, got %v", v)
	}
	if v := Arbitrate(policy.LevelPermissive, policy.Confirm, policy.SeverityHigh, false, false); v != policy.VerdictAsk {
		t.Errorf("expected ask for high-risk confirm under permissive, got %v", v)
	}
}

func TestSensitivePathDominatesUnderStrictAndBalanced(t *testing.T) {
	for _, level := range []policy.ProtectionLevel{policy.LevelStrict, policy.LevelBalanced} {
		if v := Arbitrate(level, policy.Deny, policy.SeverityCritical, true, true); v != policy.VerdictDeny {
			t.Errorf("level %v: expected sensitive path write to deny, got %v", level, v)
		}
	}
}

func TestSensitivePathPermissiveDowngradesOnlyWithoutInitiatingSkill(t *testing.T) {
	if v := Arbitrate(policy.LevelPermissive, policy.Deny, policy.SeverityCritical, true, false); v != policy.VerdictAsk {
		t.Errorf("expected ask when no initiating skill attributed, got %v", v)
	}
	if v := Arbitrate(policy.LevelPermissive, policy.Deny, policy.SeverityCritical, true, true); v != policy.VerdictDeny {
		t.Errorf("expected deny retained when initiating skill is attributed, got %v", v)
	}
}

func TestLevelOrderingDenyAskAllow(t *testing.T) {
	order := map[policy.Verdict]int{policy.VerdictDeny: 0, policy.VerdictAsk: 1, policy.VerdictAllow: 2}
	strict := Arbitrate(policy.LevelStrict, policy.Confirm, policy.SeverityLow, false, false)
	balanced := Arbitrate(policy.LevelBalanced, policy.Confirm, policy.SeverityLow, false, false)
	permissive := Arbitrate(policy.LevelPermissive, policy.Confirm, policy.SeverityLow, false, false)
	if !(order[strict] <= order[balanced] && order[balanced] <= order[permissive]) {
		t.Errorf("expected deny<=ask<=allow ordering as level relaxes, got strict=%v balanced=%v permissive=%v", strict, balanced, permissive)
	}
}
