package metadata

import (
	"cmp"
	"slices"
	"sync"

	"jvmabi/internal/decl"
	"jvmabi/internal/project"
)

// Store is the in-memory view of persisted facts for one module.
// Queries take a read lock, so a Store may serve concurrent planners.
type Store struct {
	mu         sync.RWMutex
	module     string
	moduleHash project.Digest
	records    map[Key]Flags
	dirty      bool
}

// NewStore returns an empty store for module.
func NewStore(module string) *Store {
	return &Store{module: module, records: make(map[Key]Flags, 32)}
}

// Module returns the module name the facts belong to.
func (s *Store) Module() string {
	if s == nil {
		return ""
	}
	return s.module
}

// ModuleHash returns the content hash recorded with the facts.
func (s *Store) ModuleHash() project.Digest {
	if s == nil {
		return project.Digest{}
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.moduleHash
}

// SetModuleHash updates the content hash saved with the facts.
func (s *Store) SetModuleHash(d project.Digest) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.moduleHash != d {
		s.moduleHash = d
		s.dirty = true
	}
}

// Flags returns the persisted flags of a property.
func (s *Store) Flags(fq decl.FqName) Flags {
	if s == nil {
		return 0
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.records[KeyOf(fq)]
}

// MovedFromInterfaceCompanion implements abi.MoveHistory.
func (s *Store) MovedFromInterfaceCompanion(fq decl.FqName) bool {
	return s.Flags(fq).Has(FlagMovedFromInterfaceCompanion)
}

// Record adds flags to a property. Existing flags are never cleared.
// It reports whether anything changed.
func (s *Store) Record(fq decl.FqName, flags Flags) bool {
	if flags == 0 {
		return false
	}
	key := KeyOf(fq)
	s.mu.Lock()
	defer s.mu.Unlock()
	old := s.records[key]
	merged := old | flags
	if merged == old {
		return false
	}
	s.records[key] = merged
	s.dirty = true
	return true
}

// Dirty reports unsaved changes.
func (s *Store) Dirty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dirty
}

// Len returns the number of recorded properties.
func (s *Store) Len() int {
	if s == nil {
		return 0
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Records returns all entries sorted by key.
func (s *Store) Records() []Record {
	if s == nil {
		return nil
	}
	s.mu.RLock()
	out := make([]Record, 0, len(s.records))
	for k, f := range s.records {
		out = append(out, Record{Key: k, Flags: f})
	}
	s.mu.RUnlock()
	slices.SortFunc(out, func(a, b Record) int { return cmp.Compare(a.Key, b.Key) })
	return out
}
