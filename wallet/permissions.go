package wallet

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	mapset "github.com/deckarep/golang-set"
	"github.com/pkg/errors"
)

// Grant allows a dApp origin to use a chain.
type Grant struct {
	Origin  string `json:"origin" toml:"origin" yaml:"origin"`
	ChainID string `json:"chain_id" toml:"chain_id" yaml:"chain_id"`
}

// on-disk representation
type permissionFile struct {
	Grants  []Grant `json:"grants"`
	Updated string  `json:"updated,omitempty"`
}

// PermissionStore is the allowlist of grants. With a path, every change made
// through Enable or Disable is written to a JSON file. Static grants are
// never written.
type PermissionStore struct {
	mu     sync.Mutex
	path   string
	grants mapset.Set
	static mapset.Set
}

// NewPermissionStore creates a store backed by path. An empty path keeps grants in memory.
func NewPermissionStore(path string) *PermissionStore {
	return &PermissionStore{
		path:   path,
		grants: mapset.NewSet(),
		static: mapset.NewSet(),
	}
}

// SetStatic replaces the static grants, typically the ones listed in the
// config file. They live as long as the store and cannot be disabled.
func (ps *PermissionStore) SetStatic(grants []Grant) {
	static := mapset.NewSet()
	for _, g := range grants {
		static.Add(g)
	}
	ps.mu.Lock()
	ps.static = static
	ps.mu.Unlock()
}

// Load reads the grants from disk. A missing file is an empty allowlist.
func (ps *PermissionStore) Load() error {
	if ps.path == "" {
		return nil
	}
	ps.mu.Lock()
	defer ps.mu.Unlock()

	b, err := os.ReadFile(ps.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrap(err, "read permissions file")
	}

	var pf permissionFile
	if err = json.Unmarshal(b, &pf); err != nil {
		return errors.Wrap(err, "parse permissions file")
	}
	grants := mapset.NewSet()
	for _, g := range pf.Grants {
		grants.Add(g)
	}
	ps.grants = grants
	return nil
}

func (ps *PermissionStore) save() error {
	if ps.path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(ps.path), 0o700); err != nil {
		return errors.Wrap(err, "mkdir permissions dir")
	}
	pf := permissionFile{
		Grants:  sortGrants(ps.grants),
		Updated: time.Now().UTC().Format(time.RFC3339),
	}
	b, err := json.MarshalIndent(pf, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshal permissions")
	}
	return errors.Wrap(os.WriteFile(ps.path, b, 0o600), "write permissions file")
}

// Enable grants origin the chain and persists the allowlist. If the write
// fails the grant is not kept.
func (ps *PermissionStore) Enable(origin, chainID string) error {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	g := Grant{Origin: origin, ChainID: chainID}
	if !ps.grants.Add(g) {
		return nil
	}
	if err := ps.save(); err != nil {
		ps.grants.Remove(g)
		return err
	}
	return nil
}

// Disable revokes a persisted grant. A static grant stays in effect.
func (ps *PermissionStore) Disable(origin, chainID string) error {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	g := Grant{Origin: origin, ChainID: chainID}
	if !ps.grants.Contains(g) {
		return nil
	}
	ps.grants.Remove(g)
	if err := ps.save(); err != nil {
		ps.grants.Add(g)
		return err
	}
	return nil
}

func (ps *PermissionStore) IsEnabled(origin, chainID string) bool {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	g := Grant{Origin: origin, ChainID: chainID}
	return ps.grants.Contains(g) || ps.static.Contains(g)
}

// List returns the persisted and static grants sorted by origin then chain.
func (ps *PermissionStore) List() []Grant {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	return sortGrants(ps.grants.Union(ps.static))
}

func sortGrants(set mapset.Set) []Grant {
	out := make([]Grant, 0, set.Cardinality())
	for _, v := range set.ToSlice() {
		out = append(out, v.(Grant))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Origin != out[j].Origin {
			return out[i].Origin < out[j].Origin
		}
		return out[i].ChainID < out[j].ChainID
	})
	return out
}
