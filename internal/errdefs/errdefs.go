/*
 * SPDX-License-Identifier: Apache-2.0
 */

// Package errdefs carries the error kinds of spec.md §7 as sentinel
// errors backed by real errno values, so a dispatch-layer failure can be
// handed straight to a caller's error channel via ToErrno.
package errdefs

import (
	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

var (
	// ErrBadFd is returned when a descriptor is out of range, free, or
	// points to a now-unregistered backend.
	ErrBadFd = errors.New("bad file descriptor")
	// ErrNotFound is returned when no backend matches a path, or a table
	// lookup misses.
	ErrNotFound = errors.New("no such file or directory")
	// ErrNoSys is returned when a backend does not implement a requested
	// operation.
	ErrNoSys = errors.New("function not implemented")
	// ErrInvalid is returned for malformed arguments (e.g. an invalid
	// path prefix).
	ErrInvalid = errors.New("invalid argument")
	// ErrNoSpace is returned when a fixed-capacity table has no free row
	// or slot left.
	ErrNoSpace = errors.New("no space left")
	// ErrTooManyFiles is returned when the descriptor table is full.
	ErrTooManyFiles = errors.New("too many open files")
	// ErrAlready is returned when a resource is already bound (e.g. a
	// child device that already has a parent). An fd range that overlaps
	// an existing reservation is reported as ErrInvalid instead.
	ErrAlready = errors.New("operation already in progress")
	// ErrBusy is returned when an object that must be initialized once
	// is initialized again.
	ErrBusy = errors.New("device or resource busy")
)

// errnoOf maps each sentinel to the errno a hosted C library caller
// expects in its error channel.
var errnoOf = map[error]unix.Errno{
	ErrBadFd:        unix.EBADF,
	ErrNotFound:     unix.ENOENT,
	ErrNoSys:        unix.ENOSYS,
	ErrInvalid:      unix.EINVAL,
	ErrNoSpace:      unix.ENOMEM,
	ErrTooManyFiles: unix.ENFILE,
	ErrAlready:      unix.EALREADY,
	ErrBusy:         unix.EBUSY,
}

// ToErrno unwraps err to the errno value it carries. An error that
// matches none of the sentinels above but whose cause is a unix.Errno
// is surfaced as that errno; any other error is surfaced as EIO.
func ToErrno(err error) unix.Errno {
	if err == nil {
		return 0
	}
	for sentinel, errno := range errnoOf {
		if errors.Is(err, sentinel) {
			return errno
		}
	}
	if errno, ok := errors.Cause(err).(unix.Errno); ok {
		return errno
	}
	return unix.EIO
}

// FromErrno wraps a raw negative backend return value (spec.md §7's
// "-errno" convention) into one of the sentinel errors above, or a plain
// errno-bearing error if it isn't one of the well-known kinds.
func FromErrno(negative int) error {
	if negative >= 0 {
		return nil
	}
	errno := unix.Errno(-negative)
	for sentinel, known := range errnoOf {
		if known == errno {
			return sentinel
		}
	}
	return errno
}

func IsBadFd(err error) bool        { return errors.Is(err, ErrBadFd) }
func IsNotFound(err error) bool     { return errors.Is(err, ErrNotFound) }
func IsNoSys(err error) bool        { return errors.Is(err, ErrNoSys) }
func IsInvalid(err error) bool      { return errors.Is(err, ErrInvalid) }
func IsNoSpace(err error) bool      { return errors.Is(err, ErrNoSpace) }
func IsTooManyFiles(err error) bool { return errors.Is(err, ErrTooManyFiles) }
func IsAlready(err error) bool      { return errors.Is(err, ErrAlready) }
func IsBusy(err error) bool         { return errors.Is(err, ErrBusy) }
