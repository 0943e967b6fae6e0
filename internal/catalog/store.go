package catalog

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/jmonterocr/archivador/internal/common"
	"github.com/jmonterocr/archivador/internal/model"
)

// overlay is the persisted per-client shape: category -> subtype -> account.
type overlay map[string]map[string]map[string]struct{}

// Store is the merged taxonomy for one client. Reads and mutations are safe
// for concurrent use; mutations are serialized and persisted with a
// write-temp-then-rename sequence so a reader never observes a partial file.
type Store struct {
	client string
	path   string
	mu     sync.RWMutex
	t      *tree
}

// NewStore builds a client's catalog from the firm-wide default nodes
// overlaid with the client's persisted additions at overridesPath. A missing
// overrides file simply means the client has no additions yet.
func NewStore(client string, defaults []model.CatalogNode, overridesPath string) (*Store, error) {
	if strings.TrimSpace(client) == "" {
		return nil, fmt.Errorf("client cannot be empty")
	}

	t, err := buildTree(defaults)
	if err != nil {
		return nil, fmt.Errorf("client %s: %w", client, err)
	}

	s := &Store{client: client, path: overridesPath, t: t}
	if overridesPath != "" {
		if err := s.loadOverrides(); err != nil {
			return nil, fmt.Errorf("client %s: %w", client, err)
		}
	}
	return s, nil
}

// Client returns the client this catalog belongs to.
func (s *Store) Client() string { return s.client }

func (s *Store) loadOverrides() error {
	raw, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read catalog overrides: %w", err)
	}
	if len(strings.TrimSpace(string(raw))) == 0 {
		return nil
	}

	var o overlay
	if err := json.Unmarshal(raw, &o); err != nil {
		return fmt.Errorf("failed to parse catalog overrides: %w", err)
	}

	// Nested keys carry their own ancestry, so every parent exists by
	// construction. Sorted at each level for a deterministic merge.
	for _, cat := range sortedKeys(o) {
		catNode := s.t.root.ensureChild(folderName(cat))
		for _, sub := range sortedKeys(o[cat]) {
			subNode := catNode.ensureChild(sub)
			for _, acct := range sortedKeys(o[cat][sub]) {
				subNode.ensureChild(acct)
			}
		}
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Categories returns the top-level category names in catalog order.
func (s *Store) Categories() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.t.root.names()
}

// Subtypes returns the subtypes under a category.
func (s *Store) Subtypes(category string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cat, err := s.findCategory(category)
	if err != nil {
		return nil, err
	}
	return cat.names(), nil
}

// Accounts returns the accounts under a category and subtype. Subtypes with
// no accounts layer (OGND) yield an empty list.
func (s *Store) Accounts(category, subtype string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sub, err := s.findSubtype(category, subtype)
	if err != nil {
		return nil, err
	}
	return sub.names(), nil
}

// AddAccount inserts a new account leaf and persists the full per-client
// catalog immediately. Sibling names are unique case-insensitively.
func (s *Store) AddAccount(category, subtype, name string) error {
	clean := strings.TrimSpace(name)
	if clean == "" {
		return fmt.Errorf("account name cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sub, err := s.findSubtype(category, subtype)
	if err != nil {
		return err
	}
	if existing := sub.find(clean); existing != nil {
		return fmt.Errorf("%w: account %q already exists under %s/%s",
			common.ErrDuplicateCatalogEntry, clean, category, subtype)
	}

	sub.ensureChild(clean)
	if err := s.persistLocked(); err != nil {
		// Roll the in-memory tree back so a failed persist cannot leave the
		// store claiming an account the file does not have.
		sub.children = sub.children[:len(sub.children)-1]
		return err
	}

	slog.Info("added catalog account",
		"client", s.client,
		"category", category,
		"subtype", subtype,
		"account", clean)
	return nil
}

// persistLocked writes the whole merged tree to the overrides file. The
// caller must hold the write lock.
func (s *Store) persistLocked() error {
	if s.path == "" {
		return nil
	}

	o := make(overlay, len(s.t.root.children))
	for _, cat := range s.t.root.children {
		subs := make(map[string]map[string]struct{}, len(cat.children))
		for _, sub := range cat.children {
			accts := make(map[string]struct{}, len(sub.children))
			for _, acct := range sub.children {
				accts[acct.name] = struct{}{}
			}
			subs[sub.name] = accts
		}
		o[cat.name] = subs
	}

	data, err := json.MarshalIndent(o, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode catalog: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("failed to create catalog directory: %w", err)
	}

	tmp := filepath.Join(dir, fmt.Sprintf(".catalog-%s.tmp", uuid.NewString()))
	if err := os.WriteFile(tmp, data, 0o640); err != nil {
		return fmt.Errorf("failed to write catalog temp file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to replace catalog file: %w", err)
	}
	return nil
}

// ValidateSelection checks a selection against the catalog: the category
// must exist, and for variants with deeper segments the subtype (and for
// GASTOS the account) must exist too.
func (s *Store) ValidateSelection(sel model.CategorySelection) error {
	if err := sel.Validate(); err != nil {
		return err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	cat, err := s.findCategory(sel.Category())
	if err != nil {
		return err
	}

	subtype := model.Subtype(sel)
	if subtype == "" {
		return nil
	}
	sub := cat.find(subtype)
	if sub == nil {
		return fmt.Errorf("%w: %q under %s%s",
			common.ErrUnknownSubtype, subtype, sel.Category(), suggestion(cat.names(), subtype))
	}

	account := model.Account(sel)
	if account == "" {
		return nil
	}
	if sub.find(account) == nil {
		return fmt.Errorf("%w: %q under %s/%s%s",
			common.ErrUnknownAccount, account, sel.Category(), subtype, suggestion(sub.names(), account))
	}
	return nil
}

func (s *Store) findCategory(category string) (*node, error) {
	cat := s.t.root.find(category)
	if cat == nil {
		return nil, fmt.Errorf("%w: %q%s",
			common.ErrUnknownCategory, category, suggestion(s.t.root.names(), category))
	}
	return cat, nil
}

func (s *Store) findSubtype(category, subtype string) (*node, error) {
	cat, err := s.findCategory(category)
	if err != nil {
		return nil, err
	}
	sub := cat.find(subtype)
	if sub == nil {
		return nil, fmt.Errorf("%w: %q under %s%s",
			common.ErrUnknownSubtype, subtype, category, suggestion(cat.names(), subtype))
	}
	return sub, nil
}
