// Package snapshot stores the file versions introduced by each commit.
//
// Every commit that adds or modifies files owns a directory named after its
// id holding one entry per changed file. Files inherited unchanged from an
// ancestor are never copied again; a commit's manifest points at the
// ancestor directory instead.
package snapshot

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"sort"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/klauspost/compress/zstd"

	"github.com/odvcencio/twig/pkg/object"
)

var (
	// ErrNotMaterialized is returned when a (commit, file) pair was never
	// written to the store.
	ErrNotMaterialized = errors.New("snapshot not materialized")
	// ErrCorrupt is returned when a stored file fails its checksum.
	ErrCorrupt = errors.New("snapshot corrupt")
)

// Source supplies the current content of working files.
type Source interface {
	Read(name string) ([]byte, error)
}

// Store is a per-commit snapshot store over a billy filesystem.
type Store struct {
	fs  billy.Filesystem
	enc *zstd.Encoder
	dec *zstd.Decoder
}

// Option configures a Store.
type Option func(*options)

type options struct {
	level zstd.EncoderLevel
}

// WithCompression selects a zstd level by name: fastest, default, better or
// best. Unknown names keep the default.
func WithCompression(name string) Option {
	return func(o *options) {
		if ok, lvl := zstd.EncoderLevelFromString(name); ok {
			o.level = lvl
		}
	}
}

// New creates a Store rooted at fs.
func New(fs billy.Filesystem, opts ...Option) (*Store, error) {
	o := options{level: zstd.SpeedDefault}
	for _, opt := range opts {
		opt(&o)
	}
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(o.level))
	if err != nil {
		return nil, fmt.Errorf("snapshot store: zstd encoder: %w", err)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		enc.Close()
		return nil, fmt.Errorf("snapshot store: zstd decoder: %w", err)
	}
	return &Store{fs: fs, enc: enc, dec: dec}, nil
}

// Open creates a Store rooted at dir on the host filesystem.
func Open(dir string, opts ...Option) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("snapshot store: mkdir %s: %w", dir, err)
	}
	return New(osfs.New(dir), opts...)
}

// Close releases the codec resources.
func (s *Store) Close() error {
	s.dec.Close()
	return s.enc.Close()
}

func entryPath(id object.Hash, name string) string {
	return path.Join(string(id), name)
}

// Has reports whether the store holds name as introduced by commit id.
func (s *Store) Has(id object.Hash, name string) bool {
	info, err := s.fs.Stat(entryPath(id, name))
	return err == nil && !info.IsDir()
}

// Materialize copies the current content of each file in files from src into
// the directory owned by commit id. Writes are atomic per file: data goes to
// a temp file that is then renamed into place.
func (s *Store) Materialize(id object.Hash, files object.FileSet, src Source) error {
	if len(files) == 0 {
		return nil
	}
	if err := s.fs.MkdirAll(string(id), 0o755); err != nil {
		return fmt.Errorf("materialize %s: mkdir: %w", id.Short(), err)
	}
	for _, name := range files.Sorted() {
		data, err := src.Read(name)
		if err != nil {
			return fmt.Errorf("materialize %s: %w", id.Short(), err)
		}
		if err := s.write(entryPath(id, name), data); err != nil {
			return fmt.Errorf("materialize %s: %w", id.Short(), err)
		}
	}
	return nil
}

func (s *Store) write(p string, data []byte) error {
	dir := path.Dir(p)
	if err := s.fs.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}

	tmp, err := s.fs.TempFile(dir, ".tmp-")
	if err != nil {
		return fmt.Errorf("tmpfile: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(encodeFrame(s.enc, data)); err != nil {
		tmp.Close()
		s.fs.Remove(tmpName)
		return fmt.Errorf("write %s: %w", p, err)
	}
	if err := tmp.Close(); err != nil {
		s.fs.Remove(tmpName)
		return fmt.Errorf("close %s: %w", p, err)
	}
	if err := s.fs.Rename(tmpName, p); err != nil {
		s.fs.Remove(tmpName)
		return fmt.Errorf("rename %s: %w", p, err)
	}
	return nil
}

// Retrieve returns the version of name stored by commit id.
func (s *Store) Retrieve(id object.Hash, name string) ([]byte, error) {
	f, err := s.fs.Open(entryPath(id, name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("retrieve %s@%s: %w", name, id.Short(), ErrNotMaterialized)
		}
		return nil, fmt.Errorf("retrieve %s@%s: %w", name, id.Short(), err)
	}
	defer f.Close()

	raw, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("retrieve %s@%s: %w", name, id.Short(), err)
	}
	data, err := decodeFrame(s.dec, raw)
	if err != nil {
		return nil, fmt.Errorf("retrieve %s@%s: %w", name, id.Short(), err)
	}
	return data, nil
}

// Dirs lists the commit ids that own a snapshot directory, sorted.
func (s *Store) Dirs() ([]object.Hash, error) {
	entries, err := s.fs.ReadDir("/")
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	var ids []object.Hash
	for _, e := range entries {
		if e.IsDir() {
			ids = append(ids, object.Hash(e.Name()))
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}
