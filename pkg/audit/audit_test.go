/*
 * SPDX-License-Identifier: Apache-2.0
 */

package audit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pico-embedded/vfsd/internal/config"
	"github.com/pico-embedded/vfsd/pkg/vfs"
)

func TestOpenCreatesDatabaseAndBucket(t *testing.T) {
	dir := t.TempDir()
	log, err := Open(dir)
	require.NoError(t, err)
	defer log.Close()

	events, err := log.Events()
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestVFSObserverRecordsRegisterAndUnregisterInOrder(t *testing.T) {
	dir := t.TempDir()
	log, err := Open(dir)
	require.NoError(t, err)
	defer log.Close()

	v := vfs.NewVFS(config.Default(), VFSObserver{Log: log}, nil)
	idx, err := v.Register("/data", vfs.UnimplementedBackend{})
	require.NoError(t, err)
	require.NoError(t, v.Unregister(idx))

	events, err := log.Events()
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "register", events[0].Kind)
	assert.Equal(t, "/data", events[0].Prefix)
	assert.Equal(t, "unregister", events[1].Kind)
	assert.Equal(t, "/data", events[1].Prefix)
	assert.Less(t, events[0].Seq, events[1].Seq)
}
