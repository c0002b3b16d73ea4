/*
 * SPDX-License-Identifier: Apache-2.0
 */

package blockdev

import "golang.org/x/sys/unix"

// Cmd is a block-device ioctl command, per spec.md §4.C. Values reuse
// the real Linux ioctl numbers (the same ones a hosted "block device
// ioctl" syscall alias would pass through), the way
// _examples/other_examples/00fe1f43_siderolabs-go-blockdevice uses
// unix.BLKSSZGET/unix.BLKROGET/unix.BLKFLSBUF directly against a real
// device fd.
type Cmd uintptr

const (
	// BLKGETSIZE returns the device's total sector count.
	BLKGETSIZE Cmd = Cmd(unix.BLKGETSIZE)
	// BLKSSZGET returns the device's sector size in bytes.
	BLKSSZGET Cmd = Cmd(unix.BLKSSZGET)
	// BLKROGET returns a non-zero int if the device is read-only.
	BLKROGET Cmd = Cmd(unix.BLKROGET)
	// BLKFLSBUF asks the device to flush any buffered state.
	BLKFLSBUF Cmd = Cmd(unix.BLKFLSBUF)
	// HDIOGETGEO returns a Geometry. The Linux kernel spells this
	// HDIO_GETGEO; golang.org/x/sys/unix does not export it, so the
	// literal ioctl number from <linux/hdreg.h> is reproduced here.
	HDIOGETGEO Cmd = 0x0301
)

// Geometry is the result shape of HDIOGETGEO.
type Geometry struct {
	Heads      uint8
	Sectors    uint8
	Cylinders  uint16
	StartLBA32 uint32
}
