package keystore

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"gocloud.dev/secrets"

	"github.com/shipdocs/employee-onboarding-sub012/internal/encryption/domain"
)

// FileStore persists the key table as a single JSON document on disk.
//
// When a KMS keeper is configured, key material is wrapped by the keeper
// before it touches the filesystem, so the document never contains raw key
// bytes. Without a keeper the material is stored base64-encoded only, which
// is acceptable for development but not for production.
//
// Writes are atomic: the document is written to a temporary file in the same
// directory and renamed over the target, so a crash mid-write never leaves a
// torn key table behind.
type FileStore struct {
	path   string
	keeper *secrets.Keeper

	mu  sync.Mutex
	doc document
}

type document struct {
	Current uint32      `json:"current"`
	Keys    []keyRecord `json:"keys"`
}

type keyRecord struct {
	ID        uuid.UUID        `json:"id"`
	Version   uint32           `json:"version"`
	Algorithm domain.Algorithm `json:"algorithm"`
	Material  string           `json:"material"` // base64, KMS-wrapped when a keeper is set
	CreatedAt time.Time        `json:"created_at"`
}

// NewFileStore opens or creates a file-backed key store at path.
// An unreadable or corrupt document yields domain.ErrKeyStoreUnavailable.
func NewFileStore(path string, keeper *secrets.Keeper) (*FileStore, error) {
	fs := &FileStore{path: path, keeper: keeper}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return fs, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", domain.ErrKeyStoreUnavailable, path, err)
	}
	if err := json.Unmarshal(data, &fs.doc); err != nil {
		return nil, fmt.Errorf("%w: corrupt key table at %s: %v", domain.ErrKeyStoreUnavailable, path, err)
	}

	return fs, nil
}

// Get loads and, when a keeper is configured, unwraps a key version.
func (f *FileStore) Get(ctx context.Context, version uint32) (*domain.KeyVersion, error) {
	f.mu.Lock()
	rec, ok := f.lookup(version)
	f.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("%w: version %d", ErrKeyNotFound, version)
	}

	wrapped, err := base64.StdEncoding.DecodeString(rec.Material)
	if err != nil {
		return nil, fmt.Errorf("%w: corrupt material for version %d", domain.ErrKeyStoreUnavailable, version)
	}

	material := wrapped
	if f.keeper != nil {
		material, err = f.keeper.Decrypt(ctx, wrapped)
		if err != nil {
			return nil, fmt.Errorf("%w: unwrapping version %d: %v", domain.ErrKeyStoreUnavailable, version, err)
		}
	}

	return &domain.KeyVersion{
		ID:        rec.ID,
		Version:   rec.Version,
		Algorithm: rec.Algorithm,
		Material:  material,
		CreatedAt: rec.CreatedAt,
	}, nil
}

// Put wraps and persists a new key version. Existing versions are never
// overwritten.
func (f *FileStore) Put(ctx context.Context, kv *domain.KeyVersion) error {
	material := kv.Material
	if f.keeper != nil {
		wrapped, err := f.keeper.Encrypt(ctx, kv.Material)
		if err != nil {
			return fmt.Errorf("%w: wrapping version %d: %v", domain.ErrKeyStoreUnavailable, kv.Version, err)
		}
		material = wrapped
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if _, exists := f.lookup(kv.Version); exists {
		return fmt.Errorf("%w: version %d already exists", domain.ErrKeyStoreUnavailable, kv.Version)
	}

	f.doc.Keys = append(f.doc.Keys, keyRecord{
		ID:        kv.ID,
		Version:   kv.Version,
		Algorithm: kv.Algorithm,
		Material:  base64.StdEncoding.EncodeToString(material),
		CreatedAt: kv.CreatedAt,
	})
	return f.persist()
}

// CurrentVersion returns the persisted current-version pointer.
func (f *FileStore) CurrentVersion(_ context.Context) (uint32, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.doc.Current, nil
}

// SetCurrentVersion durably updates the current-version pointer.
func (f *FileStore) SetCurrentVersion(_ context.Context, version uint32) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, exists := f.lookup(version); !exists {
		return fmt.Errorf("%w: cannot point at unknown version %d", domain.ErrKeyStoreUnavailable, version)
	}
	f.doc.Current = version
	return f.persist()
}

// Close releases the store. The keeper is owned by the caller.
func (f *FileStore) Close() error {
	return nil
}

// lookup finds a record by version. Caller holds f.mu.
func (f *FileStore) lookup(version uint32) (keyRecord, bool) {
	for _, rec := range f.doc.Keys {
		if rec.Version == version {
			return rec, true
		}
	}
	return keyRecord{}, false
}

// persist writes the document atomically. Caller holds f.mu.
func (f *FileStore) persist() error {
	data, err := json.MarshalIndent(f.doc, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encoding key table: %v", domain.ErrKeyStoreUnavailable, err)
	}

	dir := filepath.Dir(f.path)
	tmp, err := os.CreateTemp(dir, ".keys-*.tmp")
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrKeyStoreUnavailable, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: writing key table: %v", domain.ErrKeyStoreUnavailable, err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: %v", domain.ErrKeyStoreUnavailable, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: %v", domain.ErrKeyStoreUnavailable, err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: replacing key table: %v", domain.ErrKeyStoreUnavailable, err)
	}
	return nil
}
