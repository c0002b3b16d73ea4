/*
 * SPDX-License-Identifier: Apache-2.0
 */

// Package blockdev implements component C of spec.md: reference-counted
// block device objects with a parent/child topology (used to expose
// partitions of a parent disk as independent devices) and an MS-DOS
// partition-table scanner that populates that topology.
package blockdev

import (
	"github.com/pico-embedded/vfsd/internal/errdefs"
	"github.com/pico-embedded/vfsd/pkg/refcount"
)

// Ops is the block-device operation vtable (spec.md §6). A Device whose
// Ops is nil reports errdefs.ErrNoSys from ReadSector, WriteSector and
// Ioctl; an implementation lacking one operation returns ErrNoSys from
// that method itself.
type Ops interface {
	// ReadSector transfers count sectors starting at start into data and
	// returns the number of sectors transferred.
	ReadSector(dev *Device, data []byte, start, count uint32) (uint32, error)
	// WriteSector is ReadSector's write-side counterpart.
	WriteSector(dev *Device, data []byte, start, count uint32) (uint32, error)
	// Ioctl implements one of the commands in ioctl.go.
	Ioctl(dev *Device, cmd Cmd, data interface{}) (interface{}, error)
	// Destroy runs exactly once, synchronously, when the last reference
	// to dev is dropped. It is responsible for releasing dev's parent
	// reference (if any) via ReleaseParent and freeing dev's own
	// resources; the Device itself does not do this automatically.
	Destroy(dev *Device)
}

// Observer receives the two boundary notifications spec.md §3 and §4.C
// define. It is supplied at Device construction time (Init), never as a
// global mutable hook, per spec.md §9's guidance on
// pico_blockdev_register_event.
type Observer interface {
	OnRegister(dev *Device)
	OnUnregister(dev *Device)
}

type childLink struct {
	device *Device
	next   *childLink
}

// Device is the embeddable block-device object of spec.md §3. A driver
// embeds Device as the first field of its own type and supplies an Ops
// implementation whose methods receive the *Device back, mimicking the
// vtable-with-context shape of the C source without any casting.
type Device struct {
	refcount.Object

	ops      Ops
	observer Observer
	parent   *Device
	children *childLink
	label    string
}

// Init initializes an embedded device: refcount 1, no parent, no
// children. observer may be nil.
func (d *Device) Init(ops Ops, observer Observer) {
	d.ops = ops
	d.observer = observer
	d.Object.Init(func() { ops.Destroy(d) })
}

// SetLabel attaches an opaque debug label to the device, surfaced by
// Label() for logging and auditing; it has no effect on dispatch.
func (d *Device) SetLabel(label string) {
	d.label = label
}

// Label returns the device's debug label, or "" if none was set.
func (d *Device) Label() string {
	return d.label
}

// ReadSector forwards to the backend, or reports ErrNoSys if the backend
// doesn't implement it.
func (d *Device) ReadSector(data []byte, start, count uint32) (uint32, error) {
	if d.ops == nil {
		return 0, errdefs.ErrNoSys
	}
	return d.ops.ReadSector(d, data, start, count)
}

// WriteSector is ReadSector's write-side counterpart.
func (d *Device) WriteSector(data []byte, start, count uint32) (uint32, error) {
	if d.ops == nil {
		return 0, errdefs.ErrNoSys
	}
	return d.ops.WriteSector(d, data, start, count)
}

// Ioctl forwards to the backend, or reports ErrNoSys if the backend
// doesn't implement it.
func (d *Device) Ioctl(cmd Cmd, data interface{}) (interface{}, error) {
	if d.ops == nil {
		return nil, errdefs.ErrNoSys
	}
	return d.ops.Ioctl(d, cmd, data)
}

// Parent returns the device this device was added as a child of, or nil
// for a root device.
func (d *Device) Parent() *Device {
	return d.parent
}

// Children returns a snapshot slice of the device's current children,
// in reverse order of addition (most-recently-added first, matching the
// singly-linked prepend list of spec.md §4.C).
func (d *Device) Children() []*Device {
	d.Lock()
	defer d.Unlock()
	var out []*Device
	for link := d.children; link != nil; link = link.next {
		out = append(out, link.device)
	}
	return out
}

// AddChild links child under d. It fails with ErrAlready if child
// already has a parent (spec.md §4.C). On success, d holds a strong
// reference to child (via the link list) and child holds a strong
// reference to d (the deliberate ownership cycle of spec.md §3, broken
// only by Unregister).
func (d *Device) AddChild(child *Device) error {
	if child.parent != nil {
		return errdefs.ErrAlready
	}

	link := &childLink{device: child}

	d.Lock()
	link.next = d.children
	d.children = link
	child.parent = d
	d.RefNolock()
	d.Unlock()

	child.Ref()

	return nil
}

// Register performs spec.md §4.C's registration sequence: a root device
// (no parent) is scanned for MS-DOS partitions first; then the
// registration notification fires; then the caller's initial reference
// (the one Init set to 1) is dropped, handing ownership to whatever now
// holds the device — the parent's child link, or an external holder such
// as a VFS backend, if the scan found no partitions.
func (d *Device) Register() error {
	if d.parent == nil {
		scanPartitions(d)
	}
	if d.observer != nil {
		d.observer.OnRegister(d)
	}
	d.Unref()
	return nil
}

// Unregister performs spec.md §4.C's depth-first teardown: each child is
// recursively unregistered and then severed from the list (releasing the
// strong reference the link held on it), and finally the unregistration
// notification fires for d itself.
func (d *Device) Unregister() {
	d.Lock()
	children := d.children
	d.children = nil
	d.Unlock()

	for link := children; link != nil; link = link.next {
		link.device.Unregister()
		link.device.Unref()
	}

	if d.observer != nil {
		d.observer.OnUnregister(d)
	}
}

// TreeSize counts root and every device transitively reachable through
// its children, for reporting block device topology size (e.g. to
// pkg/metrics).
func TreeSize(root *Device) int {
	n := 1
	for _, child := range root.Children() {
		n += TreeSize(child)
	}
	return n
}

// ReleaseParent drops the reference a child device holds on its parent.
// Driver Destroy implementations call this for any device created via
// AddChild, matching spec.md §3's ownership description.
func ReleaseParent(d *Device) {
	if d.parent != nil {
		d.parent.Unref()
		d.parent = nil
	}
}

