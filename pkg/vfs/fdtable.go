/*
 * SPDX-License-Identifier: Apache-2.0
 */

package vfs

import (
	"sync"

	"github.com/pico-embedded/vfsd/internal/config"
	"github.com/pico-embedded/vfsd/internal/errdefs"
)

// Metrics is the small surface pkg/metrics implements; VFS reports
// occupancy through it if non-nil, never depending on the metrics
// package directly (spec.md ambient stack: no import cycle between a
// core module and its observability surface).
type Metrics interface {
	SetBackendCount(n int)
	SetFDCount(n int)
}

// fdRow is one row of the fixed-size descriptor table of spec.md §5.
// backendIndex is -1 for a free row; permanent rows (the stdio range
// reserved via RegisterFDRange) are never returned to the free list by
// Close.
type fdRow struct {
	backendIndex int
	localFD      LocalFD
	permanent    bool
}

// VFS ties together the backend registry (component D), the descriptor
// table (component E) and the dispatch surface (component F) of
// spec.md behind a single lock, trading the C original's lock-free
// descriptor-table read for straightforward correctness (spec.md §9
// Open Question on pico_vfs_fdtable synchronization).
type VFS struct {
	mu sync.RWMutex

	maxPrefix int
	backends  []backendSlot
	fds       []fdRow

	observer Observer
	metrics  Metrics
}

// NewVFS builds an empty VFS sized from cfg. observer and metrics may
// both be nil.
func NewVFS(cfg *config.Config, observer Observer, metrics Metrics) *VFS {
	v := &VFS{
		maxPrefix: cfg.PathMaxPrefix,
		backends:  make([]backendSlot, cfg.VFSMaxCount),
		fds:       make([]fdRow, cfg.MaxFDs),
		observer:  observer,
		metrics:   metrics,
	}
	for i := range v.fds {
		v.fds[i].backendIndex = -1
	}
	return v
}

// allocFDLocked finds the lowest-numbered free, non-permanent row and claims
// it for (backendIndex, local), per spec.md §5's "lowest available row"
// allocation rule. Caller must hold v.mu for writing.
func (v *VFS) allocFDLocked(backendIndex int, local LocalFD) (int, error) {
	for i := range v.fds {
		if v.fds[i].backendIndex < 0 {
			v.fds[i] = fdRow{backendIndex: backendIndex, localFD: local}
			return i, nil
		}
	}
	return -1, errdefs.ErrTooManyFiles
}

// freeFDLocked releases row fd back to the free list, unless it is a
// permanent row (spec.md §5: permanent rows survive Close and stay
// occupied; RegisterFDRange never reuses an occupied row). Caller must
// hold v.mu.
func (v *VFS) freeFDLocked(fd int) {
	if v.fds[fd].permanent {
		return
	}
	v.fds[fd] = fdRow{backendIndex: -1}
}

// rowLocked reports ErrBadFd not only for an out-of-range or free row but
// also for one whose backend slot has since been unregistered — a
// descriptor left open across an Unregister, per spec.md §4.F ("if the
// descriptor ... points to a now-unregistered backend, fail with
// EBADF"). Caller must hold v.mu (read or write).
func (v *VFS) rowLocked(fd int) (fdRow, error) {
	if fd < 0 || fd >= len(v.fds) || v.fds[fd].backendIndex < 0 {
		return fdRow{}, errdefs.ErrBadFd
	}
	if !v.backends[v.fds[fd].backendIndex].occupied {
		return fdRow{}, errdefs.ErrBadFd
	}
	return v.fds[fd], nil
}

func (v *VFS) fdCount() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	n := 0
	for _, row := range v.fds {
		if row.backendIndex >= 0 {
			n++
		}
	}
	return n
}
