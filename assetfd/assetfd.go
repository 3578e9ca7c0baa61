//go:build linux || darwin

// Copyright 2025 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

// Package assetfd overlays a read-only asset tree onto real file
// descriptors.
//
// Asset content ships inside the application package rather than on the
// filesystem, but callers expect ordinary descriptors they can read, seek,
// and stat. The [Table] bridges the two: paths under a configured prefix
// (/assets by default) resolve against an [io/fs.FS], the content is
// materialized into an anonymous in-memory descriptor, and the descriptor's
// metadata is shadowed so [Table.Fstat] reports the asset rather than the
// backing object. Paths outside the prefix pass through to the real
// syscalls untouched.
//
// The table tracks descriptor numbers, not open file descriptions: a
// descriptor duplicated with dup(2) escapes the shadow, and a descriptor
// closed other than through [Table.Close] leaves a stale entry behind.
package assetfd

import (
	"io"
	"io/fs"
	"strings"
	"sync"

	"github.com/joeycumines/logiface"
	"golang.org/x/sys/unix"
)

// MaxAssetFD is the default bound on descriptor numbers the table will
// shadow. Materialized descriptors at or above the bound are closed and
// reported as unavailable.
const MaxAssetFD = 65535

// DefaultPrefix is the directory under which assets are addressed.
const DefaultPrefix = `/assets`

// Config models optional [Table] behavior. Nil is equivalent to the zero
// value.
type Config struct {
	// Logger receives descriptor lifecycle diagnostics. Defaults to no
	// logging, if nil.
	Logger *logiface.Logger[logiface.Event]

	// Prefix is the directory under which assets are addressed, without
	// a trailing slash. Defaults to [DefaultPrefix], if empty.
	Prefix string

	// MaxFD bounds the descriptor numbers the table will shadow.
	// Defaults to [MaxAssetFD], if 0.
	MaxFD int
}

type tableEntry struct {
	name string
	stat unix.Stat_t
}

// Table maps open descriptor numbers to shadowed asset metadata.
type Table struct {
	log    *logiface.Logger[logiface.Event]
	assets fs.FS
	prefix string
	maxFD  int

	mu      sync.Mutex
	entries map[int]tableEntry
}

// NewTable creates a Table resolving asset paths against fsys. The config
// may be nil.
func NewTable(config *Config, fsys fs.FS) *Table {
	if fsys == nil {
		panic(`assetfd: nil fs`)
	}
	t := &Table{
		assets:  fsys,
		prefix:  DefaultPrefix,
		maxFD:   MaxAssetFD,
		entries: make(map[int]tableEntry),
	}
	if config != nil {
		t.log = config.Logger
		if config.Prefix != `` {
			t.prefix = strings.TrimSuffix(config.Prefix, `/`)
		}
		if config.MaxFD > 0 {
			t.maxFD = config.MaxFD
		}
	}
	return t
}

// Name returns the asset tree name for path, or false if path is outside
// the asset prefix. The prefix itself names the tree root.
func (t *Table) Name(path string) (string, bool) {
	if path == t.prefix || path == t.prefix+`/` {
		return `.`, true
	}
	if rest, ok := strings.CutPrefix(path, t.prefix+`/`); ok {
		return rest, true
	}
	return ``, false
}

// Open opens the named file. Paths under the asset prefix are resolved
// from the asset tree and materialized into an in-memory descriptor;
// opening one for writing fails with [unix.EROFS], and asset directories
// cannot be opened. All other paths are passed to [unix.Open] verbatim.
func (t *Table) Open(path string, flag int, mode uint32) (int, error) {
	name, ok := t.Name(path)
	if !ok {
		return unix.Open(path, flag, mode)
	}

	if flag&(unix.O_WRONLY|unix.O_RDWR) != 0 {
		return -1, unix.EROFS
	}
	if flag&unix.O_DIRECTORY != 0 {
		return -1, unix.EINVAL
	}

	data, err := t.readAsset(name)
	if err != nil {
		return -1, err
	}

	fd, err := materialize(name, data)
	if err != nil {
		t.log.Err().Err(err).Str(`name`, name).Log(`materializing asset`)
		return -1, unix.ENXIO
	}

	if fd >= t.maxFD {
		_ = unix.Close(fd)
		return -1, unix.ENOMEM
	}

	entry := tableEntry{name: name}
	entry.stat.Mode = unix.S_IFREG
	entry.stat.Size = int64(len(data))

	t.mu.Lock()
	if _, ok := t.entries[fd]; ok {
		t.log.Warning().Int(`fd`, fd).Log(`replacing stale asset descriptor entry`)
	}
	t.entries[fd] = entry
	t.mu.Unlock()

	return fd, nil
}

// readAsset returns the content of a regular file in the asset tree.
// Missing names and directories both report [unix.ENOENT], matching the
// asset runtime, which refuses to open directories.
func (t *Table) readAsset(name string) ([]byte, error) {
	f, err := t.assets.Open(name)
	if err != nil {
		return nil, unix.ENOENT
	}
	defer f.Close()
	if fi, err := f.Stat(); err != nil || fi.IsDir() {
		return nil, unix.ENOENT
	}
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, unix.ENOENT
	}
	return data, nil
}

// Fstat is like [unix.Fstat], except descriptors opened through the table
// report their shadowed asset metadata: a regular file owned by root, with
// the asset's size and no timestamps.
func (t *Table) Fstat(fd int, stat *unix.Stat_t) error {
	t.mu.Lock()
	entry, ok := t.entries[fd]
	t.mu.Unlock()
	if ok {
		*stat = entry.stat
		return nil
	}
	return unix.Fstat(fd, stat)
}

// Stat reports metadata for a path without opening a descriptor. Asset
// paths are shadowed the same way as [Table.Fstat]; directories in the
// asset tree report [unix.ENOENT]. Other paths are passed to
// [unix.Fstatat] verbatim.
func (t *Table) Stat(path string, stat *unix.Stat_t) error {
	name, ok := t.Name(path)
	if !ok {
		return unix.Fstatat(unix.AT_FDCWD, path, stat, 0)
	}
	fi, err := fs.Stat(t.assets, name)
	if err != nil || fi.IsDir() {
		return unix.ENOENT
	}
	*stat = unix.Stat_t{}
	stat.Mode = unix.S_IFREG
	stat.Size = fi.Size()
	return nil
}

// Access reports whether path names an existing asset file or directory,
// as long as mode does not request write access. Paths outside the asset
// prefix report false.
func (t *Table) Access(path string, mode uint32) bool {
	if mode&unix.W_OK != 0 {
		return false
	}
	name, ok := t.Name(path)
	if !ok {
		return false
	}
	_, err := fs.Stat(t.assets, name)
	return err == nil
}

// Close closes fd, dropping its shadow entry if one exists.
func (t *Table) Close(fd int) error {
	t.mu.Lock()
	if _, ok := t.entries[fd]; ok {
		t.log.Info().Int(`fd`, fd).Log(`closing asset descriptor`)
		delete(t.entries, fd)
	}
	t.mu.Unlock()
	return unix.Close(fd)
}
