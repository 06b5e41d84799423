package registry

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/agentguard/agentguard/internal/capability"
	"github.com/agentguard/agentguard/pkg/policy"
)

func mkdirAllAndWrite(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(content), 0o644)
}

func testSkill(source, version string) policy.SkillIdentity {
	return policy.SkillIdentity{
		ID:           source,
		Source:       source,
		VersionRef:   version,
		ArtifactHash: "deadbeef",
	}
}

func TestLookupMissingRecordIsUntrustedNone(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "registry.json"))
	if err != nil {
		t.Fatal(err)
	}
	res := s.Lookup(testSkill("github.com/acme/skill", "v1.0.0"))
	if res.EffectiveTrustLevel != Untrusted {
		t.Errorf("expected Untrusted, got %v", res.EffectiveTrustLevel)
	}
	if res.EffectiveCapabilities.Exec != capability.ExecDeny {
		t.Errorf("expected exec denied for missing record")
	}
}

func TestAttestThenLookup(t *testing.T) {
	s, _ := Open(filepath.Join(t.TempDir(), "registry.json"))
	skill := testSkill("github.com/acme/skill", "v1.0.0")

	rec, err := s.Attest(AttestRequest{
		Skill:        skill,
		TrustLevel:   Restricted,
		Capabilities: capability.ReadOnly(),
	})
	if err != nil {
		t.Fatalf("attest: %v", err)
	}
	if rec.Status != StatusActive {
		t.Errorf("expected active status")
	}

	res := s.Lookup(skill)
	if res.EffectiveTrustLevel != Restricted {
		t.Errorf("expected Restricted, got %v", res.EffectiveTrustLevel)
	}
}

func TestAttestRaiseWithoutForceNeedsConfirmation(t *testing.T) {
	s, _ := Open(filepath.Join(t.TempDir(), "registry.json"))
	skill := testSkill("github.com/acme/skill", "v1.0.0")

	if _, err := s.Attest(AttestRequest{Skill: skill, TrustLevel: Restricted}); err != nil {
		t.Fatal(err)
	}
	_, err := s.Attest(AttestRequest{Skill: skill, TrustLevel: Trusted})
	if err != ErrNeedsConfirmation {
		t.Fatalf("expected ErrNeedsConfirmation, got %v", err)
	}

	// lowering or holding trust level never needs confirmation.
	if _, err := s.Attest(AttestRequest{Skill: skill, TrustLevel: Untrusted}); err != nil {
		t.Fatalf("lowering trust should not need confirmation: %v", err)
	}
}

func TestForceAttestBypassesConfirmation(t *testing.T) {
	s, _ := Open(filepath.Join(t.TempDir(), "registry.json"))
	skill := testSkill("github.com/acme/skill", "v1.0.0")

	if _, err := s.Attest(AttestRequest{Skill: skill, TrustLevel: Restricted}); err != nil {
		t.Fatal(err)
	}
	rec, err := s.ForceAttest(AttestRequest{Skill: skill, TrustLevel: Trusted})
	if err != nil {
		t.Fatalf("force attest: %v", err)
	}
	if rec.TrustLevel != Trusted {
		t.Errorf("expected Trusted after force attest")
	}
}

func TestRevokeIsMonotonicAndRetainsRecord(t *testing.T) {
	s, _ := Open(filepath.Join(t.TempDir(), "registry.json"))
	skill := testSkill("github.com/acme/skill", "v1.0.0")
	s.Attest(AttestRequest{Skill: skill, TrustLevel: Trusted})

	if _, err := s.Revoke(RevokeMatch{Source: skill.Source}); err != nil {
		t.Fatalf("revoke: %v", err)
	}

	res := s.Lookup(skill)
	if res.EffectiveTrustLevel != Untrusted {
		t.Errorf("expected revoked record to resolve untrusted")
	}
	if res.Record == nil {
		t.Fatal("expected revoked record retained, not deleted")
	}
	if res.Record.Status != StatusRevoked {
		t.Errorf("expected status revoked")
	}

	// Revoking again is a no-op success, not an error.
	if _, err := s.Revoke(RevokeMatch{Source: skill.Source}); err != nil {
		t.Errorf("re-revoking should succeed: %v", err)
	}

	records := s.List(ListFilters{})
	if len(records) != 1 {
		t.Errorf("expected revoked record retained in list, got %d", len(records))
	}
}

func TestAttestRefusesToReactivateRevokedRecordWithoutForce(t *testing.T) {
	s, _ := Open(filepath.Join(t.TempDir(), "registry.json"))
	skill := testSkill("github.com/acme/skill", "v1.0.0")
	if _, err := s.Attest(AttestRequest{Skill: skill, TrustLevel: Trusted}); err != nil {
		t.Fatalf("attest: %v", err)
	}
	if _, err := s.Revoke(RevokeMatch{Source: skill.Source}); err != nil {
		t.Fatalf("revoke: %v", err)
	}

	if _, err := s.Attest(AttestRequest{Skill: skill, TrustLevel: Trusted}); err != ErrNeedsConfirmation {
		t.Fatalf("expected ErrNeedsConfirmation re-attesting a revoked record, got %v", err)
	}

	res := s.Lookup(skill)
	if res.EffectiveTrustLevel != Untrusted || res.Record.Status != StatusRevoked {
		t.Errorf("expected revoked record to remain revoked after refused attest, got %+v", res)
	}

	if _, err := s.ForceAttest(AttestRequest{Skill: skill, TrustLevel: Trusted}); err != nil {
		t.Fatalf("force attest: %v", err)
	}
	res = s.Lookup(skill)
	if res.EffectiveTrustLevel != Trusted || res.Record.Status != StatusActive {
		t.Errorf("expected force attest to reactivate record, got %+v", res)
	}
}

func TestAttestAnnotatesVersionChangeAgainstLatestActiveVersion(t *testing.T) {
	s, _ := Open(filepath.Join(t.TempDir(), "registry.json"))

	v1, err := s.Attest(AttestRequest{Skill: testSkill("github.com/acme/skill", "v1.0.0"), TrustLevel: Restricted})
	if err != nil {
		t.Fatalf("attest v1: %v", err)
	}
	if v1.ReviewMetadata.Extra["versionChange"] != "" {
		t.Errorf("expected no version-change annotation for the first attestation, got %q", v1.ReviewMetadata.Extra["versionChange"])
	}

	v2, err := s.Attest(AttestRequest{Skill: testSkill("github.com/acme/skill", "v2.0.0"), TrustLevel: Restricted})
	if err != nil {
		t.Fatalf("attest v2: %v", err)
	}
	if got := v2.ReviewMetadata.Extra["versionChange"]; got != "upgrade from v1.0.0" {
		t.Errorf("expected upgrade annotation, got %q", got)
	}

	v1again, err := s.ForceAttest(AttestRequest{Skill: testSkill("github.com/acme/skill", "v1.0.0"), TrustLevel: Trusted})
	if err != nil {
		t.Fatalf("force re-attest v1: %v", err)
	}
	if got := v1again.ReviewMetadata.Extra["versionChange"]; got != "downgrade from v2.0.0" {
		t.Errorf("expected downgrade annotation, got %q", got)
	}
}

func TestRevokeEmptyMatchIsInvalid(t *testing.T) {
	s, _ := Open(filepath.Join(t.TempDir(), "registry.json"))
	if _, err := s.Revoke(RevokeMatch{}); err != ErrInvalidMatch {
		t.Fatalf("expected ErrInvalidMatch, got %v", err)
	}
}

func TestRevokeNoMatchIsNotFound(t *testing.T) {
	s, _ := Open(filepath.Join(t.TempDir(), "registry.json"))
	if _, err := s.Revoke(RevokeMatch{Source: "github.com/nope/nope"}); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestExpiredRecordResolvesUntrustedButIsRetained(t *testing.T) {
	s, _ := Open(filepath.Join(t.TempDir(), "registry.json"))
	skill := testSkill("github.com/acme/skill", "v1.0.0")
	past := time.Now().UTC().Add(-time.Hour)
	s.Attest(AttestRequest{Skill: skill, TrustLevel: Trusted, ExpiresAt: &past})

	res := s.Lookup(skill)
	if res.EffectiveTrustLevel != Untrusted {
		t.Errorf("expected expired record to resolve untrusted, got %v", res.EffectiveTrustLevel)
	}
	if res.Record == nil || res.Record.TrustLevel != Trusted {
		t.Errorf("expected stored trust level to remain Trusted on the retained record")
	}
}

func TestPersistenceAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.json")
	skill := testSkill("github.com/acme/skill", "v2.0.0")

	s1, _ := Open(path)
	if _, err := s1.Attest(AttestRequest{Skill: skill, TrustLevel: Trusted}); err != nil {
		t.Fatal(err)
	}

	s2, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	res := s2.Lookup(skill)
	if res.EffectiveTrustLevel != Trusted {
		t.Errorf("expected reopened store to see persisted Trusted record")
	}
}

func TestListFiltersByTrustLevelAndSource(t *testing.T) {
	s, _ := Open(filepath.Join(t.TempDir(), "registry.json"))
	s.Attest(AttestRequest{Skill: testSkill("github.com/acme/a", "v1.0.0"), TrustLevel: Trusted})
	s.Attest(AttestRequest{Skill: testSkill("github.com/acme/b", "v1.0.0"), TrustLevel: Restricted})

	trusted := Trusted
	out := s.List(ListFilters{TrustLevel: &trusted})
	if len(out) != 1 || out[0].Skill.Source != "github.com/acme/a" {
		t.Errorf("expected single trusted record for acme/a, got %+v", out)
	}

	out = s.List(ListFilters{SourcePattern: "github.com/acme/*"})
	if len(out) != 2 {
		t.Errorf("expected both records to match glob source pattern, got %d", len(out))
	}
}

func TestLatestVersionPrefersHigherSemver(t *testing.T) {
	s, _ := Open(filepath.Join(t.TempDir(), "registry.json"))
	s.Attest(AttestRequest{Skill: testSkill("github.com/acme/skill", "v1.0.0"), TrustLevel: Restricted})
	s.Attest(AttestRequest{Skill: testSkill("github.com/acme/skill", "v1.2.0"), TrustLevel: Restricted})

	latest, ok := s.LatestVersion("github.com/acme/skill")
	if !ok || latest != "v1.2.0" {
		t.Errorf("expected latest v1.2.0, got %q (ok=%v)", latest, ok)
	}
}

func TestCalculateArtifactHashDeterministic(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "main.go", "package main\n")
	writeFile(t, dir, "sub/helper.go", "package sub\n")

	h1, err := CalculateArtifactHash(dir)
	if err != nil {
		t.Fatal(err)
	}
	h2, err := CalculateArtifactHash(dir)
	if err != nil {
		t.Fatal(err)
	}
	if h1 != h2 {
		t.Errorf("expected deterministic hash, got %q and %q", h1, h2)
	}
	if h1 == "" {
		t.Error("expected non-empty hash")
	}
}

func TestCalculateArtifactHashExcludesGitDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "main.go", "package main\n")
	before, err := CalculateArtifactHash(dir)
	if err != nil {
		t.Fatal(err)
	}

	writeFile(t, dir, ".git/HEAD", "ref: refs/heads/main\n")
	after, err := CalculateArtifactHash(dir)
	if err != nil {
		t.Fatal(err)
	}
	if before != after {
		t.Errorf("expected .git contents to be excluded from artifact hash")
	}
}

func writeFile(t *testing.T, dir, rel, content string) {
	t.Helper()
	full := filepath.Join(dir, filepath.FromSlash(rel))
	if err := mkdirAllAndWrite(full, content); err != nil {
		t.Fatal(err)
	}
}
