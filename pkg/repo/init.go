package repo

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/odvcencio/twig/pkg/boltstore"
	"github.com/odvcencio/twig/pkg/config"
	"github.com/odvcencio/twig/pkg/snapshot"
	"github.com/odvcencio/twig/pkg/worktree"
)

const (
	dirName       = ".twig"
	stateFile     = "state.db"
	snapshotsDir  = "snapshots"
	logsDir       = "logs"
	defaultReason = "update"
)

// WithConfig supplies already-loaded settings so Open does not read
// config.toml again.
func WithConfig(cfg *config.Config) Option {
	return func(r *Repo) { r.Config = cfg }
}

// LogPath returns the log file location for the repository rooted at root.
func LogPath(root string) string {
	return filepath.Join(root, dirName, logsDir, "twig.log")
}

// ConfigPath returns the config file location for the repository rooted at root.
func ConfigPath(root string) string {
	return filepath.Join(root, dirName, config.FileName)
}

// Init creates a new repository at path. It creates the .twig/ directory
// with a default config.toml, the state database and the snapshot store,
// then records the initial commit. Fails if .twig/ already exists.
func Init(path string, opts ...Option) (*Repo, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, wrap("init", fmt.Errorf("abs path: %w", err))
	}
	twigDir := filepath.Join(abs, dirName)
	if _, err := os.Stat(twigDir); err == nil {
		return nil, userError("init", ErrRepoExists)
	}

	for _, d := range []string{
		filepath.Join(twigDir, snapshotsDir),
		filepath.Join(twigDir, logsDir),
	} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return nil, wrap("init", fmt.Errorf("mkdir %s: %w", d, err))
		}
	}

	probe := New(nil, nil, nil, opts...)
	cfg := probe.Config
	if err := config.Write(ConfigPath(abs), cfg); err != nil {
		return nil, wrap("init", err)
	}

	db, err := boltstore.Open(filepath.Join(twigDir, stateFile))
	if err != nil {
		return nil, wrap("init", err)
	}
	snaps, err := snapshot.Open(filepath.Join(twigDir, snapshotsDir), snapshot.WithCompression(cfg.Storage.Compression))
	if err != nil {
		db.Close()
		return nil, wrap("init", err)
	}

	r, err := Create(cfg.DefaultBranch, snaps, worktree.OS(abs), opts...)
	if err != nil {
		snaps.Close()
		db.Close()
		return nil, err
	}
	r.RootDir = abs
	r.TwigDir = twigDir
	r.Config = cfg
	r.db = db

	if err := r.Save("init"); err != nil {
		r.Close()
		return nil, err
	}
	r.log.WithField("op", "init").WithField("branch", cfg.DefaultBranch).Info("initialized repository")
	return r, nil
}

// FindRoot searches upward from path for a directory containing .twig/.
func FindRoot(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", wrap("open", fmt.Errorf("abs path: %w", err))
	}
	cur := abs
	for {
		info, err := os.Stat(filepath.Join(cur, dirName))
		if err == nil && info.IsDir() {
			return cur, nil
		}
		parent := filepath.Dir(cur)
		if parent == cur {
			return "", userError("open", ErrNotARepo)
		}
		cur = parent
	}
}

// Open searches upward from path for a .twig/ directory and loads the
// repository state it holds.
func Open(path string, opts ...Option) (*Repo, error) {
	root, err := FindRoot(path)
	if err != nil {
		return nil, err
	}
	r := newRepo(nil, nil, worktree.OS(root), opts)
	r.RootDir = root
	r.TwigDir = filepath.Join(root, dirName)

	if r.Config == nil {
		cfg, err := config.Load(ConfigPath(root))
		if err != nil {
			return nil, wrap("open", err)
		}
		r.Config = cfg
	}

	db, err := boltstore.Open(filepath.Join(r.TwigDir, stateFile))
	if err != nil {
		return nil, wrap("open", err)
	}
	st, err := db.Load()
	if err != nil {
		db.Close()
		if errors.Is(err, boltstore.ErrNoRepository) {
			return nil, invariantError("open", err)
		}
		return nil, wrap("open", err)
	}
	snaps, err := snapshot.Open(filepath.Join(r.TwigDir, snapshotsDir), snapshot.WithCompression(r.Config.Storage.Compression))
	if err != nil {
		db.Close()
		return nil, wrap("open", err)
	}

	r.State = st
	r.Snapshots = snaps
	r.db = db
	return r, nil
}

// Save persists the state. Repos built with New have no database and
// saving them is a no-op. reason is recorded in the reflog of every branch
// whose head moved.
func (r *Repo) Save(reason string) error {
	if r.db == nil {
		return nil
	}
	if strings.TrimSpace(reason) == "" {
		reason = defaultReason
	}
	if err := r.db.Save(r.State, reason); err != nil {
		return wrap("save", err)
	}
	return nil
}

// Close releases the state database and snapshot codecs.
func (r *Repo) Close() error {
	var errs []error
	if r.Snapshots != nil {
		errs = append(errs, r.Snapshots.Close())
	}
	if r.db != nil {
		errs = append(errs, r.db.Close())
		r.db = nil
	}
	return errors.Join(errs...)
}

// RelPath converts a path (absolute, or relative to the process working
// directory) into a slash-separated path relative to the repository root.
func (r *Repo) RelPath(p string) (string, error) {
	abs := p
	if !filepath.IsAbs(p) {
		cwd, err := os.Getwd()
		if err != nil || r.RootDir == "" {
			return filepath.ToSlash(filepath.Clean(p)), nil
		}
		abs = filepath.Join(cwd, p)
	}
	if r.RootDir == "" {
		return filepath.ToSlash(filepath.Clean(p)), nil
	}
	rel, err := filepath.Rel(r.RootDir, abs)
	if err != nil {
		return "", userError("path", fmt.Errorf("cannot make %q relative to %q: %w", p, r.RootDir, err))
	}
	rel = filepath.ToSlash(rel)
	if rel == ".." || strings.HasPrefix(rel, "../") {
		return "", userError("path", fmt.Errorf("%q is outside repository at %s", p, r.RootDir))
	}
	if rel == dirName || strings.HasPrefix(rel, dirName+"/") {
		return "", userError("path", fmt.Errorf("%q is inside the repository directory", p))
	}
	return rel, nil
}
