/*
 * SPDX-License-Identifier: Apache-2.0
 */

package audit

import (
	"github.com/pico-embedded/vfsd/pkg/blockdev"
	"github.com/pico-embedded/vfsd/pkg/vfs"
)

// VFSObserver adapts Log to vfs.Observer.
type VFSObserver struct {
	Log *Log
}

func (o VFSObserver) OnRegister(_ int, prefix, token string) {
	o.Log.append("register", "vfs", prefix, token)
}

func (o VFSObserver) OnUnregister(_ int, prefix string) {
	o.Log.append("unregister", "vfs", prefix, "")
}

// BlockdevObserver adapts Log to blockdev.Observer. Block devices have
// no path prefix, so the recorded event carries the device's registered
// identity instead (see (*blockdev.Device).Label, an opaque debug label
// the driver sets with SetLabel — absent it, the event is still
// recorded with an empty label).
type BlockdevObserver struct {
	Log *Log
}

func (o BlockdevObserver) OnRegister(dev *blockdev.Device) {
	o.Log.append("register", "blockdev", dev.Label(), "")
}

func (o BlockdevObserver) OnUnregister(dev *blockdev.Device) {
	o.Log.append("unregister", "blockdev", dev.Label(), "")
}
