/*
 * SPDX-License-Identifier: Apache-2.0
 */

// Package rootfs implements component G of spec.md: the backend
// registered at the empty path prefix, whose only job is to let a
// hosted application discover what else is mounted by opendir("/") and
// readdir-ing the result.
package rootfs

import (
	"github.com/pico-embedded/vfsd/internal/errdefs"
	"github.com/pico-embedded/vfsd/pkg/vfs"
)

// registry is the slice of VFS that rootfs depends on — just enough to
// enumerate registered prefixes, never the full dispatch surface, so
// this package can't accidentally reach into fd-table internals.
type registry interface {
	PrefixEntryAt(off int) (name string, next int, ok bool)
	RegistrySize() int
}

// Backend implements vfs.Backend and vfs.DirBackend for the root of the
// namespace. File operations are ENOSYS (the root has no files of its
// own, only subdirectories standing for other backends' prefixes),
// except Read and Write once console hooks are attached with
// WithConsole; otherwise only the directory half of the vtable does
// anything.
type Backend struct {
	vfs.UnimplementedBackend
	reg     registry
	console Console
}

// New returns a root backend enumerating reg's registered prefixes. The
// caller registers it with reg.Register("", b) (spec.md §4.G).
func New(reg registry) *Backend {
	return &Backend{reg: reg}
}

// handle is the opaque per-opendir state spec.md §3's "directory handle"
// describes: nothing but a scan cursor, since the backend index is
// implicit (every handle this package issues belongs to the root
// backend itself).
type handle struct {
	dOff int
}

// OpenDir accepts only "/" — the translated path an empty-prefix
// registration receives for any request at the namespace root — and
// rejects everything else with ENOENT (spec.md §4.G).
func (b *Backend) OpenDir(path string) (interface{}, error) {
	if path != "/" {
		return nil, errdefs.ErrNotFound
	}
	return &handle{}, nil
}

func (b *Backend) CloseDir(interface{}) error {
	return nil
}

// ReadDir scans the registry forward from the handle's cursor for the
// next path-routable prefix, reports it as a "directory" entry with its
// leading slash stripped, and advances the cursor past it (spec.md
// §4.G). It reports ErrNotFound once the registry is exhausted, mirroring
// every other backend's "no more entries" signal in this module.
func (b *Backend) ReadDir(dir interface{}) (*vfs.DirEntry, error) {
	h := dir.(*handle)
	name, next, ok := b.reg.PrefixEntryAt(h.dOff)
	if !ok {
		return nil, errdefs.ErrNotFound
	}
	h.dOff = next
	return &vfs.DirEntry{Name: name, Type: "directory"}, nil
}

func (b *Backend) ReadDirR(dir interface{}, entry *vfs.DirEntry) (*vfs.DirEntry, error) {
	e, err := b.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	*entry = *e
	return entry, nil
}

func (b *Backend) TellDir(dir interface{}) (int64, error) {
	return int64(dir.(*handle).dOff), nil
}

// SeekDir clamps loc to [0, RegistrySize()], the range TellDir can
// report (RegistrySize() being the end-of-scan position). It has no
// error return, matching the platform seekdir(3) signature: an
// out-of-range loc is silently clamped rather than rejected.
func (b *Backend) SeekDir(dir interface{}, loc int64) {
	h := dir.(*handle)
	switch {
	case loc < 0:
		h.dOff = 0
	case loc >= int64(b.reg.RegistrySize()):
		h.dOff = b.reg.RegistrySize()
	default:
		h.dOff = int(loc)
	}
}
