/*
 * SPDX-License-Identifier: Apache-2.0
 */

package blockdev

import (
	"encoding/binary"

	"github.com/containerd/log"
)

const (
	sectorSize        = 512
	mbrSignatureOff   = 510
	mbrPartitionTable = 0x1BE
	mbrEntrySize      = 16
	mbrEntryCount     = 4

	mbrEntryTypeOff  = 4
	mbrEntryStartOff = 8
	mbrEntryCountOff = 12
)

var mbrSignature = [2]byte{0x55, 0xAA}

// scanPartitions implements spec.md §4.C's MS-DOS partition scan. It
// reads sector 0 of dev; if it carries a valid MBR signature, each
// non-empty partition entry becomes a PartitionChild, added under dev
// and registered. A failure to allocate or link one entry is logged and
// scanning continues with the remaining entries — the scan never
// recurses into extended partitions.
func scanPartitions(dev *Device) {
	buf := make([]byte, sectorSize)
	n, err := dev.ReadSector(buf, 0, 1)
	if err != nil || n != 1 {
		return
	}
	if buf[mbrSignatureOff] != mbrSignature[0] || buf[mbrSignatureOff+1] != mbrSignature[1] {
		return
	}

	for i := 0; i < mbrEntryCount; i++ {
		off := mbrPartitionTable + i*mbrEntrySize
		entry := buf[off : off+mbrEntrySize]

		partType := entry[mbrEntryTypeOff]
		if partType == 0 {
			continue
		}

		startSect := binary.LittleEndian.Uint32(entry[mbrEntryStartOff : mbrEntryStartOff+4])
		numSects := binary.LittleEndian.Uint32(entry[mbrEntryCountOff : mbrEntryCountOff+4])

		child := NewPartitionChild(dev, startSect, numSects)
		if err := dev.AddChild(child); err != nil {
			log.L.Warnf("blockdev: add partition %d (start %d count %d) to device: %s", i, startSect, numSects, err)
			continue
		}
		if err := child.Register(); err != nil {
			log.L.Warnf("blockdev: register partition %d: %s", i, err)
			continue
		}
	}
}
