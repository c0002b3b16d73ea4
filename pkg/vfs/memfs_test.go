/*
 * SPDX-License-Identifier: Apache-2.0
 */

package vfs

import (
	"sync"

	"github.com/pico-embedded/vfsd/internal/errdefs"
)

// memFile is an in-memory Backend used across this package's tests: one
// flat namespace of named byte buffers, keyed by the translated path it
// receives from the VFS router.
type memFile struct {
	UnimplementedBackend

	mu      sync.Mutex
	files   map[string][]byte
	nextFD  LocalFD
	open    map[LocalFD]string
	entries []string // for DirBackend
}

func newMemFile(entries ...string) *memFile {
	return &memFile{
		files: make(map[string][]byte),
		open:  make(map[LocalFD]string),
		entries: entries,
	}
}

func (m *memFile) Open(path string, _ int, _ uint32) (LocalFD, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.files[path]; !ok {
		m.files[path] = nil
	}
	m.nextFD++
	fd := m.nextFD
	m.open[fd] = path
	return fd, nil
}

func (m *memFile) Close(fd LocalFD) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.open[fd]; !ok {
		return errdefs.ErrBadFd
	}
	delete(m.open, fd)
	return nil
}

func (m *memFile) Write(fd LocalFD, buf []byte) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	path, ok := m.open[fd]
	if !ok {
		return -1, errdefs.ErrBadFd
	}
	m.files[path] = append(m.files[path], buf...)
	return len(buf), nil
}

func (m *memFile) Read(fd LocalFD, buf []byte) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	path, ok := m.open[fd]
	if !ok {
		return -1, errdefs.ErrBadFd
	}
	n := copy(buf, m.files[path])
	return n, nil
}

func (m *memFile) Stat(path string, st *Stat) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.files[path]
	if !ok {
		return errdefs.ErrNotFound
	}
	st.Size = int64(len(data))
	return nil
}

func (m *memFile) Fstat(fd LocalFD, st *Stat) error {
	m.mu.Lock()
	path, ok := m.open[fd]
	m.mu.Unlock()
	if !ok {
		return errdefs.ErrBadFd
	}
	return m.Stat(path, st)
}

type memDirHandle struct {
	pos int
}

func (m *memFile) OpenDir(string) (interface{}, error) {
	return &memDirHandle{}, nil
}

func (m *memFile) CloseDir(interface{}) error { return nil }

func (m *memFile) ReadDir(dir interface{}) (*DirEntry, error) {
	h := dir.(*memDirHandle)
	if h.pos >= len(m.entries) {
		return nil, errdefs.ErrNotFound
	}
	e := &DirEntry{Name: m.entries[h.pos], Type: "file"}
	h.pos++
	return e, nil
}

func (m *memFile) ReadDirR(dir interface{}, entry *DirEntry) (*DirEntry, error) {
	e, err := m.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	*entry = *e
	return entry, nil
}

func (m *memFile) TellDir(dir interface{}) (int64, error) {
	return int64(dir.(*memDirHandle).pos), nil
}

func (m *memFile) SeekDir(dir interface{}, loc int64) {
	dir.(*memDirHandle).pos = int(loc)
}
