/*
 * SPDX-License-Identifier: Apache-2.0
 */

package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pico-embedded/vfsd/internal/config"
	"github.com/pico-embedded/vfsd/pkg/blockdev"
	"github.com/pico-embedded/vfsd/pkg/vfs"
)

type stubBackend struct {
	vfs.UnimplementedBackend
}

func (stubBackend) Open(string, int, uint32) (vfs.LocalFD, error) { return 1, nil }
func (stubBackend) Close(vfs.LocalFD) error                       { return nil }

func TestCollectorTracksHighWaterMark(t *testing.T) {
	c := &Collector{}
	c.SetFDCount(2)
	c.SetFDCount(1)
	c.SetFDCount(5)
	c.SetFDCount(3)

	assert.Equal(t, 5, c.highWaterMark)
}

type noopDiskOps struct{}

func (noopDiskOps) ReadSector(*blockdev.Device, []byte, uint32, uint32) (uint32, error) {
	return 0, nil
}
func (noopDiskOps) WriteSector(*blockdev.Device, []byte, uint32, uint32) (uint32, error) {
	return 0, nil
}
func (noopDiskOps) Ioctl(*blockdev.Device, blockdev.Cmd, interface{}) (interface{}, error) {
	return nil, nil
}
func (noopDiskOps) Destroy(*blockdev.Device) {}

func TestBlockdevTreeSizeGaugeReflectsTopology(t *testing.T) {
	root := &blockdev.Device{}
	root.Init(noopDiskOps{}, nil)
	root.SetLabel("disk0")
	root.Ref()

	child := &blockdev.Device{}
	child.Init(noopDiskOps{}, nil)
	require.NoError(t, root.AddChild(child))

	SetBlockdevTreeSize(root.Label(), blockdev.TreeSize(root))
	assert.Equal(t, 2, blockdev.TreeSize(root))
}

func TestCollectorWiredIntoVFSReportsOccupancy(t *testing.T) {
	c := &Collector{}
	v := vfs.NewVFS(config.Default(), nil, c)

	_, err := v.Register("/data", stubBackend{})
	require.NoError(t, err)

	fd, err := v.Open("/data/f", 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, c.highWaterMark)

	require.NoError(t, v.Close(fd))
	assert.Equal(t, 1, c.highWaterMark, "high water mark must not decrease on close")
}
