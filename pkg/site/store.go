package site

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/shelfplan/pkg/errors"
)

// DefaultFile is the site document looked up in the working directory.
const DefaultFile = "shelfplan.toml"

// ErrNotFound is returned by Store.Load when no document has been saved yet.
var ErrNotFound = stderrors.New("site not found")

// Store loads and saves a site document.
type Store interface {
	Load(ctx context.Context) (*Site, error)
	Save(ctx context.Context, s *Site) error
}

// LoadOrInit loads the site from store, saving and returning Default when
// the store is still empty.
func LoadOrInit(ctx context.Context, store Store) (s *Site, created bool, err error) {
	s, err = store.Load(ctx)
	if err == nil {
		return s, false, nil
	}
	if !stderrors.Is(err, ErrNotFound) {
		return nil, false, err
	}

	s = Default()
	if err := store.Save(ctx, s); err != nil {
		return nil, false, fmt.Errorf("save default site: %w", err)
	}
	return s, true, nil
}

// Decode reads a TOML site document. Missing values keep the defaults.
func Decode(r io.Reader) (*Site, error) {
	s := Default()
	s.Zones = nil
	md, err := toml.NewDecoder(r).Decode(s)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidSite, err, "parse site")
	}
	if !md.IsDefined("zones") {
		s.Zones = Default().Zones
	}
	return s, nil
}

// DecodeJSON reads a JSON site document with the same defaulting rules as
// Decode. An empty input yields Default.
func DecodeJSON(data []byte) (*Site, error) {
	s := Default()
	if len(bytes.TrimSpace(data)) == 0 || string(bytes.TrimSpace(data)) == "null" {
		return s, nil
	}
	s.Zones = nil
	if err := json.Unmarshal(data, s); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidSite, err, "parse site")
	}
	if s.Zones == nil {
		s.Zones = Default().Zones
	}
	return s, nil
}

// Encode writes s as a TOML document.
func Encode(w io.Writer, s *Site) error {
	if err := toml.NewEncoder(w).Encode(s); err != nil {
		return fmt.Errorf("encode site: %w", err)
	}
	return nil
}

// ReadFile reads a TOML site document from path.
func ReadFile(path string) (*Site, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "read site %s", path)
		}
		return nil, err
	}
	defer f.Close()
	return Decode(f)
}

// FileStore keeps the site in a single TOML file.
type FileStore struct {
	mu   sync.RWMutex
	path string
}

// NewFileStore creates a store for path. An empty path selects DefaultFile.
func NewFileStore(path string) *FileStore {
	if path == "" {
		path = DefaultFile
	}
	return &FileStore{path: path}
}

// Path returns the file backing the store.
func (s *FileStore) Path() string { return s.path }

func (s *FileStore) Load(ctx context.Context) (*Site, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	site, err := ReadFile(s.path)
	if errors.Is(err, errors.ErrCodeFileNotFound) {
		return nil, ErrNotFound
	}
	return site, err
}

func (s *FileStore) Save(ctx context.Context, site *Site) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var buf bytes.Buffer
	if err := Encode(&buf, site); err != nil {
		return err
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create site dir: %w", err)
		}
	}
	if err := os.WriteFile(s.path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write site file: %w", err)
	}
	return nil
}

var _ Store = (*FileStore)(nil)

// MemoryStore keeps the site in memory. The zero value is an empty store.
type MemoryStore struct {
	mu   sync.RWMutex
	site *Site
}

// NewMemoryStore creates a store holding s, or an empty store if s is nil.
func NewMemoryStore(s *Site) *MemoryStore {
	return &MemoryStore{site: s}
}

func (m *MemoryStore) Load(ctx context.Context) (*Site, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.site == nil {
		return nil, ErrNotFound
	}
	return m.site.Clone(), nil
}

func (m *MemoryStore) Save(ctx context.Context, s *Site) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.site = s.Clone()
	return nil
}

var _ Store = (*MemoryStore)(nil)

// Clone returns a deep copy of s.
func (s *Site) Clone() *Site {
	c := *s
	c.Zones = append([]Zone(nil), s.Zones...)
	return &c
}
