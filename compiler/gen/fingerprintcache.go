package gen

import (
	"os"
	"sync"

	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"
)

// cachedRepository is one RepositoryFingerprint's emitted source text, keyed
// by the filename Emit* would otherwise have written (4.H step 5).
type cachedRepository map[string]string

// FingerprintCache is the process-wide mapping from RepositoryFingerprint to
// emitted source text described in 4.H/§5's shared-resource policy: guarded
// by a sync.Map rather than a plain map plus mutex, since last-writer-wins is
// safe (any two producers that agree on the fingerprint produce identical
// text) and a sync.Map avoids lock contention between concurrent callers.
type FingerprintCache struct {
	entries sync.Map // RepositoryFingerprint -> cachedRepository
}

// NewFingerprintCache returns an empty cache.
func NewFingerprintCache() *FingerprintCache {
	return &FingerprintCache{}
}

// Get reports whether fp was already emitted, returning its cached files.
func (c *FingerprintCache) Get(fp RepositoryFingerprint) (map[string]string, bool) {
	v, ok := c.entries.Load(fp)
	if !ok {
		return nil, false
	}
	return v.(cachedRepository), true
}

// Put stores files under fp, overwriting any prior entry.
func (c *FingerprintCache) Put(fp RepositoryFingerprint, files map[string]string) {
	c.entries.Store(fp, cachedRepository(files))
}

// spillRecord is the on-disk shape both the msgpack spill file and the YAML
// manual-override fixture format share: a flat list rather than a map, so
// field order in the YAML file is stable and diffable across commits.
type spillRecord struct {
	Fingerprint uint64            `msgpack:"fingerprint" yaml:"fingerprint"`
	Files       map[string]string `msgpack:"files" yaml:"files"`
}

// LoadSpill primes the cache from a msgpack file written by a prior run's
// Flush. A missing file is not an error — the cache simply starts empty.
func (c *FingerprintCache) LoadSpill(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	var records []spillRecord
	if err := msgpack.Unmarshal(data, &records); err != nil {
		return err
	}
	for _, r := range records {
		c.entries.Store(RepositoryFingerprint(r.Fingerprint), cachedRepository(r.Files))
	}
	return nil
}

// Flush serializes the cache to path via msgpack, for the next run's
// LoadSpill to pick back up (4.H: "primed from the spill file at driver
// startup and flushed at the end of a successful run").
func (c *FingerprintCache) Flush(path string) error {
	var records []spillRecord
	c.entries.Range(func(k, v any) bool {
		records = append(records, spillRecord{Fingerprint: uint64(k.(RepositoryFingerprint)), Files: v.(cachedRepository)})
		return true
	})
	data, err := msgpack.Marshal(records)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// LoadYAMLOverride merges a human-authored .npagen-cache.yaml file into the
// cache, for deterministic test fixtures that want to pin what a given
// fingerprint resolves to without rendering (G). Entries overwrite any
// already in the cache under the same fingerprint. A missing file is not an
// error.
func (c *FingerprintCache) LoadYAMLOverride(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	var records []spillRecord
	if err := yaml.Unmarshal(data, &records); err != nil {
		return err
	}
	for _, r := range records {
		c.entries.Store(RepositoryFingerprint(r.Fingerprint), cachedRepository(r.Files))
	}
	return nil
}
