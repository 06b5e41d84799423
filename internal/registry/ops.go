package registry

import (
	"sort"
	"time"

	"github.com/agentguard/agentguard/internal/capability"
	"github.com/agentguard/agentguard/pkg/policy"
	"golang.org/x/mod/semver"
)

// Lookup resolves the effective trust level and capabilities for a skill
// identity. Lookup never fails: a missing record resolves to Untrusted with
// the "none" capability preset (spec.md §4.2).
func (s *Store) Lookup(skill policy.SkillIdentity) LookupResult {
	key := RecordKey(skill.Source, skill.VersionRef, skill.ArtifactHash)

	s.mu.RLock()
	rec, ok := s.records[key]
	s.mu.RUnlock()

	if !ok {
		return LookupResult{
			EffectiveTrustLevel:   Untrusted,
			EffectiveCapabilities: capability.None(),
		}
	}
	return effectiveFrom(rec)
}

// LookupByID resolves the most recently updated active record whose skill
// ID matches id, used by the untrusted-skill overlay (spec.md §4.6 step 5)
// to resolve an initiating_skill that is identified by bare ID rather than
// full (source, version_ref, artifact_hash) identity.
func (s *Store) LookupByID(id string) (Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := time.Now().UTC()
	var best Record
	found := false
	for _, rec := range s.records {
		if rec.Skill.ID != id || rec.Status != StatusActive || rec.Expired(now) {
			continue
		}
		if !found || rec.UpdatedAt.After(best.UpdatedAt) {
			best, found = rec, true
		}
	}
	return best, found
}

// LookupByKey resolves a record directly by record_key. A missing key
// resolves to untrusted with the None capability preset, as in Lookup.
func (s *Store) LookupByKey(key string) LookupResult {
	s.mu.RLock()
	rec, ok := s.records[key]
	s.mu.RUnlock()

	if !ok {
		return LookupResult{
			EffectiveTrustLevel:   Untrusted,
			EffectiveCapabilities: capability.None(),
		}
	}
	return effectiveFrom(rec)
}

func effectiveFrom(rec Record) LookupResult {
	r := rec
	now := time.Now().UTC()
	if rec.Status == StatusRevoked || rec.Expired(now) {
		return LookupResult{
			Record:                &r,
			EffectiveTrustLevel:   Untrusted,
			EffectiveCapabilities: capability.None(),
		}
	}
	return LookupResult{
		Record:                &r,
		EffectiveTrustLevel:   rec.TrustLevel,
		EffectiveCapabilities: rec.Capabilities,
	}
}

// AttestRequest describes a proposed trust record write (spec.md §4.2).
type AttestRequest struct {
	Skill          policy.SkillIdentity
	TrustLevel     TrustLevel
	Capabilities   capability.Set
	ReviewMetadata ReviewMetadata
	ExpiresAt      *time.Time
	Force          bool
}

// Attest creates or updates a trust record. If an active record already
// exists for the same record_key and req raises its trust_level without
// Force set, Attest fails with ErrNeedsConfirmation and does not mutate the
// store (spec.md §4.2). Revocation is monotonic (spec.md §3): a revoked
// record can never become active again through a plain Attest, regardless
// of trust_level; only ForceAttest may resurrect it.
//
// A different version_ref yields a different record_key, so attesting a
// new version of a source writes a new record and the raise-without-force
// gate does not apply to it. Semver ordering against the source's latest
// active version only annotates the review metadata (upgrade/downgrade).
func (s *Store) Attest(req AttestRequest) (Record, error) {
	return s.attest(req, req.Force)
}

// ForceAttest is an unconditional upsert, bypassing the confirmation gate
// (spec.md §4.2).
func (s *Store) ForceAttest(req AttestRequest) (Record, error) {
	return s.attest(req, true)
}

func (s *Store) attest(req AttestRequest, force bool) (Record, error) {
	key := RecordKey(req.Skill.Source, req.Skill.VersionRef, req.Skill.ArtifactHash)

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	existing, had := s.records[key]

	if had && !force {
		if existing.Status == StatusRevoked {
			return Record{}, ErrNeedsConfirmation
		}
		if existing.Status == StatusActive && req.TrustLevel > existing.TrustLevel {
			return Record{}, ErrNeedsConfirmation
		}
	}

	reviewMetadata := req.ReviewMetadata
	if latest, ok := s.latestActiveVersionLocked(req.Skill.Source, key); ok {
		extra := make(map[string]string, len(reviewMetadata.Extra)+1)
		for k, v := range reviewMetadata.Extra {
			extra[k] = v
		}
		extra["versionChange"] = describeVersionChange(req.Skill.VersionRef, latest)
		reviewMetadata.Extra = extra
	}

	rec := Record{
		RecordKey:      key,
		Skill:          req.Skill,
		TrustLevel:     req.TrustLevel,
		Capabilities:   req.Capabilities,
		ReviewMetadata: reviewMetadata,
		Status:         StatusActive,
		UpdatedAt:      now,
		ExpiresAt:      req.ExpiresAt,
	}
	if had {
		rec.CreatedAt = existing.CreatedAt
	} else {
		rec.CreatedAt = now
	}

	s.records[key] = rec
	if err := s.save(); err != nil {
		// Roll back the in-memory mutation: registry writes must raise on
		// I/O failure without leaving the store mutated (spec.md §7).
		if had {
			s.records[key] = existing
		} else {
			delete(s.records, key)
		}
		return Record{}, err
	}
	return rec, nil
}

// Revoke marks matching active records as revoked. Revocation is monotonic:
// revoking an already-revoked record is a no-op success, and revoked
// records are retained rather than deleted (spec.md §3, §8).
func (s *Store) Revoke(match RevokeMatch) ([]Record, error) {
	if match.Source == "" && match.VersionRef == "" && match.RecordKey == "" {
		return nil, ErrInvalidMatch
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var touched []string
	for key, rec := range s.records {
		if !matchesRevoke(rec, match) {
			continue
		}
		if rec.Status == StatusRevoked {
			touched = append(touched, key)
			continue
		}
		rec.Status = StatusRevoked
		rec.UpdatedAt = time.Now().UTC()
		s.records[key] = rec
		touched = append(touched, key)
	}
	if len(touched) == 0 {
		return nil, ErrNotFound
	}

	if err := s.save(); err != nil {
		return nil, err
	}

	out := make([]Record, 0, len(touched))
	for _, key := range touched {
		out = append(out, s.records[key])
	}
	return out, nil
}

func matchesRevoke(rec Record, match RevokeMatch) bool {
	if match.RecordKey != "" {
		return rec.RecordKey == match.RecordKey
	}
	if match.Source != "" && rec.Skill.Source != match.Source {
		return false
	}
	if match.VersionRef != "" && rec.Skill.VersionRef != match.VersionRef {
		return false
	}
	return match.Source != "" || match.VersionRef != ""
}

// List returns records matching filters, sorted by record_key for
// deterministic output.
func (s *Store) List(filters ListFilters) []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := time.Now().UTC()
	var out []Record
	for _, rec := range s.records {
		if filters.TrustLevel != nil && rec.TrustLevel != *filters.TrustLevel {
			continue
		}
		if filters.Status != nil && rec.Status != *filters.Status {
			continue
		}
		if filters.SourcePattern != "" && !capability.MatchGlob(filters.SourcePattern, rec.Skill.Source) {
			continue
		}
		if !filters.IncludeExpired && rec.Expired(now) {
			continue
		}
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RecordKey < out[j].RecordKey })
	return out
}

// LatestVersion returns the version_ref among active records for source
// that compares highest under semantic-version ordering, per spec.md §9's
// guidance to treat the registry as authoritative for "what's currently
// trusted" rather than tracking upgrade history separately. Non-semver
// version_ref values sort below all valid semver values, and lexically
// among themselves.
func (s *Store) LatestVersion(source string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latestActiveVersionLocked(source, "")
}

// latestActiveVersionLocked is LatestVersion's body, callable with s.mu
// already held (by either Lock or RLock) so attest can consult it without
// recursively locking the mutex. excludeKey skips the record_key currently
// being written, so a re-attest of an existing key is not compared against
// itself.
func (s *Store) latestActiveVersionLocked(source, excludeKey string) (string, bool) {
	var best string
	found := false
	for key, rec := range s.records {
		if key == excludeKey || rec.Skill.Source != source || rec.Status != StatusActive {
			continue
		}
		v := rec.Skill.VersionRef
		if !found {
			best, found = v, true
			continue
		}
		if compareVersionRefs(v, best) > 0 {
			best = v
		}
	}
	return best, found
}

// describeVersionChange annotates a re-attestation's review metadata with
// how candidate compares to the source's current latest active version
// (spec.md §4.2: re-attesting a skill is a routine upgrade or a suspicious
// downgrade, not a fresh trust decision either way).
func describeVersionChange(candidate, latest string) string {
	switch compareVersionRefs(candidate, latest) {
	case 0:
		return "reattest-same-version (latest " + latest + ")"
	case 1:
		return "upgrade from " + latest
	default:
		return "downgrade from " + latest
	}
}

func compareVersionRefs(a, b string) int {
	va, vb := canonicalSemver(a), canonicalSemver(b)
	if va == "" || vb == "" {
		if va == vb {
			if a == b {
				return 0
			}
			if a < b {
				return -1
			}
			return 1
		}
		if va == "" {
			return -1
		}
		return 1
	}
	return semver.Compare(va, vb)
}

func canonicalSemver(v string) string {
	if v == "" {
		return ""
	}
	if v[0] != 'v' {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		return ""
	}
	return v
}
