package metadata

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/vmihailenco/msgpack/v5"

	"jvmabi/internal/project"
)

// Current schema version - increment when Payload format changes.
const schemaVersion uint16 = 1

// ErrSchemaMismatch is returned for payloads written by another schema.
var ErrSchemaMismatch = errors.New("metadata schema mismatch")

// Payload is the on-disk form of a Store.
type Payload struct {
	Schema     uint16         `msgpack:"schema"`
	Module     string         `msgpack:"module"`
	ModuleHash project.Digest `msgpack:"module_hash"`
	Records    []Record       `msgpack:"records"`
}

// Encode writes the store as a msgpack payload.
func (s *Store) Encode(w io.Writer) error {
	payload := Payload{
		Schema:     schemaVersion,
		Module:     s.Module(),
		ModuleHash: s.ModuleHash(),
		Records:    s.Records(),
	}
	return msgpack.NewEncoder(w).Encode(&payload)
}

// Decode reads a payload written by Encode.
func Decode(r io.Reader) (*Store, error) {
	var payload Payload
	if err := msgpack.NewDecoder(r).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode metadata: %w", err)
	}
	if payload.Schema != schemaVersion {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrSchemaMismatch, payload.Schema, schemaVersion)
	}
	s := NewStore(payload.Module)
	s.moduleHash = payload.ModuleHash
	for _, rec := range payload.Records {
		s.records[rec.Key] |= rec.Flags
	}
	return s, nil
}

// Load reads the store at path. A missing file yields an empty store for
// module and found=false.
func Load(path, module string) (store *Store, found bool, err error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return NewStore(module), false, nil
		}
		return nil, false, err
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()
	store, err = Decode(f)
	if err != nil {
		return nil, true, fmt.Errorf("%s: %w", path, err)
	}
	if module != "" && store.module != module {
		return nil, true, fmt.Errorf("%s: metadata belongs to module %q, not %q", path, store.module, module)
	}
	return store, true, nil
}

// Save writes the store to path atomically (temp file + rename) and clears
// the dirty flag.
func Save(path string, s *Store) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, "tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() {
		// после успешного Rename файла уже нет
		_ = os.Remove(tmp)
	}()

	if err := s.Encode(f); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		return err
	}
	s.mu.Lock()
	s.dirty = false
	s.mu.Unlock()
	return nil
}
