package checkpoint

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// DefaultName is spec.md §6's checkpoint naming convention.
const DefaultName = "chk.cst.p"

// Store wraps a Backend with the retention policy SPEC_FULL.md §4 adds:
// keep the last Retain checkpoints for rollback, rather than the source's
// single overwritten file.
type Store struct {
	Backend Backend
	Retain  int // 0 or negative: keep every checkpoint (no pruning)
}

func NewStore(backend Backend, retain int) *Store {
	return &Store{Backend: backend, Retain: retain}
}

func sequencedName(seq int) string {
	return fmt.Sprintf("%s.%06d", DefaultName, seq)
}

// Save writes doc under the next sequence number and prunes any
// checkpoints beyond Retain, oldest first.
func (s *Store) Save(doc Document) error {
	names, err := s.Backend.List()
	if err != nil {
		return fmt.Errorf("checkpoint: listing existing checkpoints: %w", err)
	}
	sort.Strings(names)

	seq := 0
	for _, n := range names {
		if i := strings.LastIndexByte(n, '.'); i >= 0 {
			if k, err := strconv.Atoi(n[i+1:]); err == nil && k >= seq {
				seq = k + 1
			}
		}
	}
	data, err := Encode(doc)
	if err != nil {
		return fmt.Errorf("checkpoint: encoding: %w", err)
	}
	if err := s.Backend.Write(sequencedName(seq), data); err != nil {
		return fmt.Errorf("checkpoint: writing: %w", err)
	}

	names = append(names, sequencedName(seq))
	if s.Retain > 0 && len(names) > s.Retain {
		for _, stale := range names[:len(names)-s.Retain] {
			if err := s.Backend.Delete(stale); err != nil {
				return fmt.Errorf("checkpoint: pruning %s: %w", stale, err)
			}
		}
	}
	return nil
}

// Latest reads the most recently written checkpoint, or ok=false if none
// exist yet.
func (s *Store) Latest() (Document, bool, error) {
	names, err := s.Backend.List()
	if err != nil {
		return Document{}, false, fmt.Errorf("checkpoint: listing checkpoints: %w", err)
	}
	if len(names) == 0 {
		return Document{}, false, nil
	}
	sort.Strings(names)
	data, err := s.Backend.Read(names[len(names)-1])
	if err != nil {
		return Document{}, false, fmt.Errorf("checkpoint: reading %s: %w", names[len(names)-1], err)
	}
	doc, err := Decode(data)
	if err != nil {
		return Document{}, false, err
	}
	return doc, true, nil
}
