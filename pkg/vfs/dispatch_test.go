/*
 * SPDX-License-Identifier: Apache-2.0
 */

package vfs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pico-embedded/vfsd/internal/errdefs"
)

func TestOpenWriteReadCloseRoundTrip(t *testing.T) {
	v := newTestVFS()
	_, err := v.Register("/data", newMemFile())
	require.NoError(t, err)

	fd, err := v.Open("/data/file.txt", 0, 0)
	require.NoError(t, err)

	n, err := v.Write(fd, []byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	buf := make([]byte, 5)
	n, err = v.Read(fd, buf)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(buf[:n]))

	require.NoError(t, v.Close(fd))

	_, err = v.Read(fd, buf)
	assert.True(t, errdefs.IsBadFd(err))
}

func TestOpenOnUnmatchedPathReturnsNotFound(t *testing.T) {
	v := newTestVFS()
	_, err := v.Open("/nowhere/file", 0, 0)
	assert.True(t, errdefs.IsNotFound(err))
}

func TestOpenAllocatesLowestFreeRow(t *testing.T) {
	v := newTestVFS()
	_, err := v.Register("/data", newMemFile())
	require.NoError(t, err)

	fd0, err := v.Open("/data/a", 0, 0)
	require.NoError(t, err)
	fd1, err := v.Open("/data/b", 0, 0)
	require.NoError(t, err)
	require.NoError(t, v.Close(fd0))

	fd2, err := v.Open("/data/c", 0, 0)
	require.NoError(t, err)
	assert.Equal(t, fd0, fd2, "the freed lowest row must be reused before a higher one")
	assert.NotEqual(t, fd1, fd2)
}

func TestOpenReportsTooManyFilesWhenTableFull(t *testing.T) {
	v := newTestVFS()
	_, err := v.Register("/data", newMemFile())
	require.NoError(t, err)

	for i := 0; i < len(v.fds); i++ {
		_, err := v.Open("/data/x", 0, 0)
		require.NoError(t, err)
	}
	_, err = v.Open("/data/overflow", 0, 0)
	assert.True(t, errdefs.IsTooManyFiles(err))
}

func TestStatResolvesDirectlyWithoutADescriptor(t *testing.T) {
	v := newTestVFS()
	backend := newMemFile()
	_, err := v.Register("/data", backend)
	require.NoError(t, err)

	fd, err := v.Open("/data/f", 0, 0)
	require.NoError(t, err)
	_, err = v.Write(fd, []byte("abc"))
	require.NoError(t, err)
	require.NoError(t, v.Close(fd))

	var st Stat
	require.NoError(t, v.Stat("/data/f", &st))
	assert.EqualValues(t, 3, st.Size)

	assert.True(t, errdefs.IsNotFound(v.Stat("/nowhere", &st)))
}

func TestFstatForwardsThroughFDTable(t *testing.T) {
	v := newTestVFS()
	_, err := v.Register("/data", newMemFile())
	require.NoError(t, err)

	fd, err := v.Open("/data/f", 0, 0)
	require.NoError(t, err)
	_, err = v.Write(fd, []byte("hello world"))
	require.NoError(t, err)

	var st Stat
	require.NoError(t, v.Fstat(fd, &st))
	assert.EqualValues(t, 11, st.Size)
}

func TestOpenDirReadDirEnumeratesEntries(t *testing.T) {
	v := newTestVFS()
	_, err := v.Register("/data", newMemFile("a", "b", "c"))
	require.NoError(t, err)

	h, err := v.OpenDir("/data")
	require.NoError(t, err)

	var names []string
	for {
		e, err := v.ReadDir(h)
		if err != nil {
			break
		}
		names = append(names, e.Name)
	}
	assert.Equal(t, []string{"a", "b", "c"}, names)
	require.NoError(t, v.CloseDir(h))
}

func TestTellDirSeekDirRoundTrip(t *testing.T) {
	v := newTestVFS()
	_, err := v.Register("/data", newMemFile("a", "b", "c"))
	require.NoError(t, err)

	h, err := v.OpenDir("/data")
	require.NoError(t, err)

	_, err = v.ReadDir(h)
	require.NoError(t, err)
	pos, err := v.TellDir(h)
	require.NoError(t, err)
	assert.EqualValues(t, 1, pos)

	v.SeekDir(h, 0)
	e, err := v.ReadDir(h)
	require.NoError(t, err)
	assert.Equal(t, "a", e.Name)
}

func TestOpenDirOnNonDirBackendReportsNoSys(t *testing.T) {
	v := newTestVFS()
	_, err := v.Register("/plain", struct{ UnimplementedBackend }{})
	require.NoError(t, err)

	_, err = v.OpenDir("/plain")
	assert.True(t, errdefs.IsNoSys(err))
}

func TestCloseOfUnknownFDReturnsBadFd(t *testing.T) {
	v := newTestVFS()
	assert.True(t, errdefs.IsBadFd(v.Close(0)))
	assert.True(t, errdefs.IsBadFd(v.Close(999)))
}
