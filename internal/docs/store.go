package docs

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
)

// Source looks up documentation by element UID.
type Source interface {
	Lookup(uid string) (*Record, bool)
}

// Kind names where a doc base came from.
type Kind string

const (
	KindNone Kind = ""
	KindAuto Kind = "auto_docs"
	KindDemo Kind = "demo_docs"
)

// SelectDir picks the doc base for app under root: demonstration docs when
// present, otherwise exploration docs. KindNone means no-doc mode.
func SelectDir(root, app string) (string, Kind) {
	appDir := filepath.Join(root, "apps", app)
	for _, k := range []Kind{KindDemo, KindAuto} {
		dir := filepath.Join(appDir, string(k))
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return dir, k
		}
	}
	return "", KindNone
}

// fileFormats lists the record files tried for a UID, in order.
var fileFormats = []struct {
	ext, format string
}{
	{".yaml", "yaml"},
	{".yml", "yaml"},
	{".json", "json"},
	{".txt", "literal"},
}

const defaultCacheSize = 512

// Store reads records from <dir>/<uid>.{yaml,yml,json,txt}. Missing and
// invalid records both read as "no documentation". Results, including misses,
// are cached for the life of the store.
type Store struct {
	dir    string
	cache  *lru.Cache[string, *Record]
	logger *zap.Logger
}

// NewStore opens the doc base at dir.
func NewStore(dir string, logger *zap.Logger) (*Store, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("open doc base: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("open doc base: %s is not a directory", dir)
	}
	cache, err := lru.New[string, *Record](defaultCacheSize)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{dir: dir, cache: cache, logger: logger.Named("docs")}, nil
}

// Dir returns the doc base directory.
func (s *Store) Dir() string { return s.dir }

// Lookup returns the record for uid, or false when none is usable.
func (s *Store) Lookup(uid string) (*Record, bool) {
	if r, ok := s.cache.Get(uid); ok {
		return r, r != nil
	}
	r := s.load(uid)
	s.cache.Add(uid, r)
	return r, r != nil
}

func (s *Store) load(uid string) *Record {
	if uid == "" || filepath.Base(uid) != uid {
		return nil
	}
	for _, ff := range fileFormats {
		path := filepath.Join(s.dir, uid+ff.ext)
		data, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			s.logger.Warn("unreadable doc", zap.String("path", path), zap.Error(err))
			return nil
		}
		r, err := Decode(data, ff.format)
		if err != nil {
			s.logger.Warn("invalid doc ignored", zap.String("path", path), zap.Error(err))
			return nil
		}
		return &r
	}
	return nil
}

// None is a Source with no documentation.
type None struct{}

func (None) Lookup(string) (*Record, bool) { return nil, false }
