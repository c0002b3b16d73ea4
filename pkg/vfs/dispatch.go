/*
 * SPDX-License-Identifier: Apache-2.0
 */

package vfs

import "github.com/pico-embedded/vfsd/internal/errdefs"

// Open resolves path to a backend via longest-prefix match, asks the
// backend to open its translated path, and on success claims the
// lowest-numbered free descriptor row, per spec.md §5's open sequence.
// A successful backend open with no free row is rolled back by closing
// the backend fd before reporting ErrTooManyFiles, so a failed global
// open never leaks a backend-local one.
func (v *VFS) Open(path string, flags int, mode uint32) (int, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	r, ok := v.resolveLocked(path)
	if !ok {
		return -1, errdefs.ErrNotFound
	}

	local, err := r.backend.Open(r.translated, flags, mode)
	if err != nil {
		return -1, err
	}

	fd, err := v.allocFDLocked(r.index, local)
	if err != nil {
		_ = r.backend.Close(local)
		return -1, err
	}
	v.reportFDCountLocked()
	return fd, nil
}

// Close forwards to the owning backend's Close and frees the row only
// once that call returns success, per spec.md §4.E/§5(b): the row must
// stay occupied — and so unavailable to a concurrent Open — for as long
// as the backend's close is in flight, and a failed backend close must
// leave the descriptor valid rather than silently freeing it.
func (v *VFS) Close(fd int) error {
	v.mu.Lock()
	row, err := v.rowLocked(fd)
	if err != nil {
		v.mu.Unlock()
		return err
	}
	backend := v.backends[row.backendIndex].ops
	v.mu.Unlock()

	closeErr := backend.Close(row.localFD)

	v.mu.Lock()
	if closeErr == nil {
		v.freeFDLocked(fd)
		v.reportFDCountLocked()
	}
	v.mu.Unlock()

	return closeErr
}

// reportFDCountLocked pushes the current occupied-row count to the
// injected Metrics collector, if any. Caller must hold v.mu.
func (v *VFS) reportFDCountLocked() {
	if v.metrics == nil {
		return
	}
	n := 0
	for _, row := range v.fds {
		if row.backendIndex >= 0 {
			n++
		}
	}
	v.metrics.SetFDCount(n)
}

func (v *VFS) lookup(fd int) (Backend, LocalFD, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	row, err := v.rowLocked(fd)
	if err != nil {
		return nil, 0, err
	}
	return v.backends[row.backendIndex].ops, row.localFD, nil
}

func (v *VFS) Read(fd int, buf []byte) (int, error) {
	b, local, err := v.lookup(fd)
	if err != nil {
		return -1, err
	}
	return b.Read(local, buf)
}

func (v *VFS) Write(fd int, buf []byte) (int, error) {
	b, local, err := v.lookup(fd)
	if err != nil {
		return -1, err
	}
	return b.Write(local, buf)
}

func (v *VFS) PRead(fd int, buf []byte, offset int64) (int, error) {
	b, local, err := v.lookup(fd)
	if err != nil {
		return -1, err
	}
	return b.PRead(local, buf, offset)
}

func (v *VFS) PWrite(fd int, buf []byte, offset int64) (int, error) {
	b, local, err := v.lookup(fd)
	if err != nil {
		return -1, err
	}
	return b.PWrite(local, buf, offset)
}

func (v *VFS) Lseek(fd int, offset int64, whence int) (int64, error) {
	b, local, err := v.lookup(fd)
	if err != nil {
		return -1, err
	}
	return b.Lseek(local, offset, whence)
}

func (v *VFS) Fcntl(fd int, cmd int, arg int) (int, error) {
	b, local, err := v.lookup(fd)
	if err != nil {
		return -1, err
	}
	return b.Fcntl(local, cmd, arg)
}

func (v *VFS) Fstat(fd int, st *Stat) error {
	b, local, err := v.lookup(fd)
	if err != nil {
		return err
	}
	return b.Fstat(local, st)
}

// Stat resolves path directly, without going through the descriptor
// table, matching stat(2)'s path-only contract.
func (v *VFS) Stat(path string, st *Stat) error {
	v.mu.RLock()
	r, ok := v.resolveLocked(path)
	v.mu.RUnlock()
	if !ok {
		return errdefs.ErrNotFound
	}
	return r.backend.Stat(r.translated, st)
}

func (v *VFS) Fsync(fd int) error {
	b, local, err := v.lookup(fd)
	if err != nil {
		return err
	}
	return b.Fsync(local)
}

func (v *VFS) Ioctl(fd int, cmd int, args ...interface{}) (int, error) {
	b, local, err := v.lookup(fd)
	if err != nil {
		return -1, err
	}
	return b.Ioctl(local, cmd, args...)
}

// dirHandle pairs a backend's own directory handle with the backend
// that produced it, so the handle-indexed calls below know where to
// forward without consulting the descriptor table (directory handles
// are never visible as global fds, per spec.md §5's scope: the fd table
// covers files, not directory streams).
type dirHandle struct {
	backend DirBackend
	handle  interface{}
}

// OpenDir resolves path and opens it against the backend's DirBackend
// half of the vtable, reporting ErrNoSys if the backend doesn't
// implement directory operations at all.
func (v *VFS) OpenDir(path string) (*dirHandle, error) {
	v.mu.RLock()
	r, ok := v.resolveLocked(path)
	v.mu.RUnlock()
	if !ok {
		return nil, errdefs.ErrNotFound
	}
	dirBackend, ok := r.backend.(DirBackend)
	if !ok {
		return nil, errdefs.ErrNoSys
	}
	h, err := dirBackend.OpenDir(r.translated)
	if err != nil {
		return nil, err
	}
	return &dirHandle{backend: dirBackend, handle: h}, nil
}

func (v *VFS) CloseDir(h *dirHandle) error {
	return h.backend.CloseDir(h.handle)
}

func (v *VFS) ReadDir(h *dirHandle) (*DirEntry, error) {
	return h.backend.ReadDir(h.handle)
}

func (v *VFS) ReadDirR(h *dirHandle, entry *DirEntry) (*DirEntry, error) {
	return h.backend.ReadDirR(h.handle, entry)
}

func (v *VFS) TellDir(h *dirHandle) (int64, error) {
	return h.backend.TellDir(h.handle)
}

func (v *VFS) SeekDir(h *dirHandle, loc int64) {
	h.backend.SeekDir(h.handle, loc)
}

// resolveLocked is resolve without its own locking, for callers that
// already hold v.mu (read or write).
func (v *VFS) resolveLocked(path string) (resolved, bool) {
	best := -1
	bestLen := -1
	for i, b := range v.backends {
		if !b.occupied || b.prefixLen == ignoredPrefixLen {
			continue
		}
		if !prefixMatches(b.prefix, path) {
			continue
		}
		if b.prefixLen > bestLen {
			bestLen = b.prefixLen
			best = i
		}
	}
	if best < 0 {
		return resolved{}, false
	}
	b := v.backends[best]
	return resolved{index: best, backend: b.ops, translated: translatePath(b.prefix, path)}, true
}
