/*
 * SPDX-License-Identifier: Apache-2.0
 */

package vfs

import (
	"strings"

	"github.com/rs/xid"

	"github.com/pico-embedded/vfsd/internal/errdefs"
)

// ignoredPrefixLen is the "ignored" sentinel of spec.md §3: a backend
// registered with this prefix length is reachable only by a reserved
// descriptor range, never by path resolution.
const ignoredPrefixLen = -1

// Observer receives the registration/unregistration boundary
// notifications of spec.md §4.D, supplied once at registry construction
// (NewVFS), never as a package-level mutable hook (spec.md §9).
type Observer interface {
	OnRegister(index int, prefix string, token string)
	OnUnregister(index int, prefix string)
}

type backendSlot struct {
	occupied  bool
	prefix    string
	prefixLen int
	ops       Backend
	token     string // reported to Observer.OnRegister; OnUnregister does not receive it
}

func validatePrefix(prefix string, maxPrefix int) error {
	if prefix == "" {
		return nil
	}
	if len(prefix) < 2 || len(prefix) > maxPrefix {
		return errdefs.ErrInvalid
	}
	if prefix[0] != '/' || strings.HasSuffix(prefix, "/") {
		return errdefs.ErrInvalid
	}
	return nil
}

// Register places ops in the first free registry slot under basePath,
// per spec.md §4.D. It returns the slot index (stable for the lifetime
// of the registration) or a negative errno-bearing error.
func (v *VFS) Register(basePath string, ops Backend) (int, error) {
	if err := validatePrefix(basePath, v.maxPrefix); err != nil {
		return -1, err
	}

	v.mu.Lock()
	idx := v.firstFreeSlotLocked()
	if idx < 0 {
		v.mu.Unlock()
		return -1, errdefs.ErrNoSpace
	}
	token := xid.New().String()
	v.backends[idx] = backendSlot{
		occupied:  true,
		prefix:    basePath,
		prefixLen: len(basePath),
		ops:       ops,
		token:     token,
	}
	v.mu.Unlock()

	if v.observer != nil {
		v.observer.OnRegister(idx, basePath, token)
	}
	if v.metrics != nil {
		v.metrics.SetBackendCount(v.occupiedCount())
	}
	return idx, nil
}

// RegisterFDRange registers ops under the "ignored" prefix sentinel
// (unreachable by path) and reserves descriptor rows [min, max] for it,
// all marked permanent — the shape used for e.g. stdin/stdout/stderr
// (spec.md §4.D). The whole reservation is atomic: on failure, no row is
// left set and no slot is consumed.
func (v *VFS) RegisterFDRange(ops Backend, min, max int) (int, error) {
	if min < 0 || max < min || max >= len(v.fds) {
		return -1, errdefs.ErrInvalid
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	for i := min; i <= max; i++ {
		if v.fds[i].backendIndex >= 0 {
			return -1, errdefs.ErrInvalid
		}
	}

	idx := v.firstFreeSlotLocked()
	if idx < 0 {
		return -1, errdefs.ErrNoSpace
	}

	token := xid.New().String()
	v.backends[idx] = backendSlot{
		occupied:  true,
		prefixLen: ignoredPrefixLen,
		ops:       ops,
		token:     token,
	}
	for i := min; i <= max; i++ {
		v.fds[i] = fdRow{backendIndex: idx, permanent: true}
	}
	v.reportFDCountLocked()

	if v.observer != nil {
		v.observer.OnRegister(idx, "", token)
	}
	return idx, nil
}

// Unregister atomically detaches the slot at index (spec.md §4.D), then
// emits the unregistration notification outside the lock.
func (v *VFS) Unregister(index int) error {
	v.mu.Lock()
	if index < 0 || index >= len(v.backends) || !v.backends[index].occupied {
		v.mu.Unlock()
		return errdefs.ErrInvalid
	}
	prefix := v.backends[index].prefix
	v.backends[index] = backendSlot{}
	v.mu.Unlock()

	if v.observer != nil {
		v.observer.OnUnregister(index, prefix)
	}
	if v.metrics != nil {
		v.metrics.SetBackendCount(v.occupiedCount())
	}
	return nil
}

func (v *VFS) firstFreeSlotLocked() int {
	for i := range v.backends {
		if !v.backends[i].occupied {
			return i
		}
	}
	return -1
}

// PrefixEntryAt scans the registry starting at index off (inclusive) for
// the first occupied, path-routable slot — skipping free slots and
// slots registered under the ignored (fd-range-only) or empty (root
// itself) prefix — per spec.md §4.G's readdir scan. It reports the
// prefix with its leading "/" stripped, and the index one past the
// match, for the caller to resume the next scan from.
func (v *VFS) PrefixEntryAt(off int) (name string, next int, ok bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	for i := off; i < len(v.backends); i++ {
		b := v.backends[i]
		if !b.occupied || b.prefixLen == ignoredPrefixLen || b.prefix == "" {
			continue
		}
		return b.prefix[1:], i + 1, true
	}
	return "", len(v.backends), false
}

// RegistrySize returns the fixed capacity of the backend registry
// (VFS_MAX_COUNT), the upper bound telldir/seekdir clamp against.
func (v *VFS) RegistrySize() int {
	return len(v.backends)
}

func (v *VFS) occupiedCount() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	n := 0
	for _, b := range v.backends {
		if b.occupied {
			n++
		}
	}
	return n
}

// resolved is the outcome of path resolution: the matched slot, plus the
// path translated for that backend's own namespace (spec.md §4.D).
type resolved struct {
	index      int
	backend    Backend
	translated string
}

// resolve implements spec.md §4.D's longest-prefix match: the occupied,
// non-ignored entry whose prefix is the longest prefix of path, subject
// to the "/"-boundary rule, falling back to the empty default-catch-all
// backend if no longer match exists.
func (v *VFS) resolve(path string) (resolved, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.resolveLocked(path)
}

// prefixMatches reports whether prefix is a "/"-boundary prefix of path:
// the empty prefix matches everything, and a non-empty prefix must
// either equal path exactly or be followed immediately by "/".
func prefixMatches(prefix, path string) bool {
	if prefix == "" {
		return true
	}
	if !strings.HasPrefix(path, prefix) {
		return false
	}
	if len(path) == len(prefix) {
		return true
	}
	return path[len(prefix)] == '/'
}

// translatePath strips prefix from path, reporting "/" when path equals
// prefix exactly (spec.md §4.D).
func translatePath(prefix, path string) string {
	if prefix == "" {
		return path
	}
	rest := path[len(prefix):]
	if rest == "" {
		return "/"
	}
	return rest
}
