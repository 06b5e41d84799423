package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/agentguard/agentguard/internal/fsutil"
)

// Store is the sync.RWMutex-guarded, JSON-file-backed Trust Registry
// (spec.md §5: "registry file is only shared mutable resource... exclusive
// lock writes, shared reads"). A Store is safe for concurrent use.
type Store struct {
	path string

	mu       sync.RWMutex
	records  map[string]Record // keyed by RecordKey
	readOnly bool // set when the on-disk document carries an unknown version
}

// Open loads path if it exists, or starts an empty in-memory document
// otherwise. A registry read I/O error is non-fatal per spec.md §7: the
// store falls back to an empty, writable document so lookups still default
// to untrusted+none rather than failing the caller.
func Open(path string) (*Store, error) {
	s := &Store{path: path, records: make(map[string]Record)}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		// REG_IO_ERROR on read: fail closed to an empty, in-memory store
		// rather than propagating, matching lookup's "never fails" contract.
		return s, nil
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return s, nil
	}
	if doc.Version != DocumentVersion {
		s.readOnly = true
	}
	for _, r := range doc.Records {
		s.records[r.RecordKey] = r
	}
	return s, nil
}

// save persists the current record set. Callers must hold mu for writing.
func (s *Store) save() error {
	if s.readOnly {
		return fmt.Errorf("REG_READ_ONLY: registry document version is unsupported, refusing to write")
	}
	doc := Document{
		Version:   DocumentVersion,
		UpdatedAt: time.Now().UTC(),
		Records:   make([]Record, 0, len(s.records)),
	}
	for _, r := range s.records {
		doc.Records = append(doc.Records, r)
	}
	sort.Slice(doc.Records, func(i, j int) bool {
		return doc.Records[i].RecordKey < doc.Records[j].RecordKey
	})

	blob, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("REG_IO_ERROR: encode registry: %w", err)
	}
	if err := fsutil.AtomicWrite(s.path, blob, 0o600); err != nil {
		return fmt.Errorf("REG_IO_ERROR: write registry: %w", err)
	}
	return nil
}
