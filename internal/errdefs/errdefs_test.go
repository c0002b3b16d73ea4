/*
 * SPDX-License-Identifier: Apache-2.0
 */

package errdefs

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"golang.org/x/sys/unix"
)

func TestToErrno(t *testing.T) {
	assert.Equal(t, unix.EBADF, ToErrno(ErrBadFd))
	assert.Equal(t, unix.ENOENT, ToErrno(errors.Wrap(ErrNotFound, "resolve")))
	assert.Equal(t, unix.Errno(0), ToErrno(nil))
}

func TestFromErrno(t *testing.T) {
	assert.Nil(t, FromErrno(7))
	assert.True(t, IsBadFd(FromErrno(-int(unix.EBADF))))
	assert.True(t, IsNoSys(FromErrno(-int(unix.ENOSYS))))

	err := FromErrno(-int(unix.EPERM))
	assert.Equal(t, unix.EPERM, ToErrno(err))
}

func TestPredicates(t *testing.T) {
	assert.True(t, IsNotFound(ErrNotFound))
	assert.False(t, IsNotFound(ErrBadFd))
	assert.True(t, IsAlready(ErrAlready))
	assert.True(t, IsBusy(ErrBusy))
	assert.True(t, IsInvalid(ErrInvalid))
	assert.True(t, IsNoSpace(ErrNoSpace))
	assert.True(t, IsTooManyFiles(ErrTooManyFiles))
}
