/*
 * SPDX-License-Identifier: Apache-2.0
 */

// Package vfs implements components D, E and F of spec.md: the path
// router and backend registry, the fixed-size file-descriptor table,
// and the dispatch surface that glues the two into the standard
// open/close/read/write/... operation set a hosted C library expects.
package vfs

import "github.com/pico-embedded/vfsd/internal/errdefs"

// LocalFD is the small opaque integer a backend uses to identify one of
// its own open files, distinct from the global descriptor the VFS hands
// back to callers (spec.md GLOSSARY).
type LocalFD int

// Stat is the subset of file metadata spec.md's fstat/stat operations
// report.
type Stat struct {
	Size  int64
	Mode  uint32
	IsDir bool
}

// DirEntry is one result of a directory iteration.
type DirEntry struct {
	Name string
	Type string // "directory", "file", ...
}

// Backend is the mandatory half of the VFS backend vtable (spec.md §6).
// Drivers normally embed UnimplementedBackend and override only the
// methods they support; every method not overridden reports ENOSYS,
// which is indistinguishable at the call site from a method that was
// never in the C vtable to begin with.
type Backend interface {
	Open(path string, flags int, mode uint32) (LocalFD, error)
	Close(fd LocalFD) error
	Read(fd LocalFD, buf []byte) (int, error)
	Write(fd LocalFD, buf []byte) (int, error)
	PRead(fd LocalFD, buf []byte, offset int64) (int, error)
	PWrite(fd LocalFD, buf []byte, offset int64) (int, error)
	Lseek(fd LocalFD, offset int64, whence int) (int64, error)
	Fcntl(fd LocalFD, cmd int, arg int) (int, error)
	Fstat(fd LocalFD, st *Stat) error
	Stat(path string, st *Stat) error
	Fsync(fd LocalFD) error
	Ioctl(fd LocalFD, cmd int, args ...interface{}) (int, error)
}

// DirBackend is the optional directory-operations half of the vtable.
// Dispatch checks for it via a type assertion on the registered Backend;
// a backend that doesn't implement it reports ENOSYS for opendir and the
// handle-indexed directory calls, exactly as a nil function pointer
// would in the C vtable.
type DirBackend interface {
	OpenDir(path string) (interface{}, error)
	CloseDir(dir interface{}) error
	ReadDir(dir interface{}) (*DirEntry, error)
	ReadDirR(dir interface{}, entry *DirEntry) (*DirEntry, error)
	TellDir(dir interface{}) (int64, error)
	SeekDir(dir interface{}, loc int64)
}

// UnimplementedBackend provides ENOSYS defaults for every Backend
// method. Embedding it lets a driver implement only the handful of
// operations it actually supports, matching spec.md §3's "any of which
// may be absent" vtable field.
type UnimplementedBackend struct{}

func (UnimplementedBackend) Open(string, int, uint32) (LocalFD, error) { return 0, errdefs.ErrNoSys }
func (UnimplementedBackend) Close(LocalFD) error                       { return errdefs.ErrNoSys }
func (UnimplementedBackend) Read(LocalFD, []byte) (int, error)         { return 0, errdefs.ErrNoSys }
func (UnimplementedBackend) Write(LocalFD, []byte) (int, error)        { return 0, errdefs.ErrNoSys }
func (UnimplementedBackend) PRead(LocalFD, []byte, int64) (int, error) { return 0, errdefs.ErrNoSys }
func (UnimplementedBackend) PWrite(LocalFD, []byte, int64) (int, error) {
	return 0, errdefs.ErrNoSys
}
func (UnimplementedBackend) Lseek(LocalFD, int64, int) (int64, error) { return 0, errdefs.ErrNoSys }
func (UnimplementedBackend) Fcntl(LocalFD, int, int) (int, error)    { return 0, errdefs.ErrNoSys }
func (UnimplementedBackend) Fstat(LocalFD, *Stat) error              { return errdefs.ErrNoSys }
func (UnimplementedBackend) Stat(string, *Stat) error                { return errdefs.ErrNoSys }
func (UnimplementedBackend) Fsync(LocalFD) error                     { return errdefs.ErrNoSys }
func (UnimplementedBackend) Ioctl(LocalFD, int, ...interface{}) (int, error) {
	return 0, errdefs.ErrNoSys
}
