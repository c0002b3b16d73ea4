/*
 * SPDX-License-Identifier: Apache-2.0
 */

package blockdev

// partitionOps implements Ops for a device that forwards sector I/O to
// its parent after shifting by a fixed sector offset — spec.md §3's
// "partition child".
type partitionOps struct {
	startSector uint32
	numSectors  uint32
}

// NewPartitionChild builds a Device that exposes [startSector,
// startSector+numSectors) of parent as an independent device. The
// returned device has refcount 1 (not yet added to parent); the caller
// is expected to call parent.AddChild(child) followed by child.Register().
func NewPartitionChild(parent *Device, startSector, numSectors uint32) *Device {
	child := &Device{}
	child.Init(&partitionOps{startSector: startSector, numSectors: numSectors}, parent.observer)
	return child
}

func (p *partitionOps) ReadSector(dev *Device, data []byte, start, count uint32) (uint32, error) {
	return dev.parent.ReadSector(data, p.startSector+start, count)
}

func (p *partitionOps) WriteSector(dev *Device, data []byte, start, count uint32) (uint32, error) {
	return dev.parent.WriteSector(data, p.startSector+start, count)
}

// Ioctl answers BLKGETSIZE itself (with the partition's own sector
// count, per spec.md §4.C); any other command is forwarded to the
// parent device unchanged.
func (p *partitionOps) Ioctl(dev *Device, cmd Cmd, data interface{}) (interface{}, error) {
	if cmd == BLKGETSIZE {
		return p.numSectors, nil
	}
	return dev.parent.Ioctl(cmd, data)
}

// Destroy releases the partition's reference on its parent device and
// lets the child itself be garbage collected.
func (p *partitionOps) Destroy(dev *Device) {
	ReleaseParent(dev)
}
