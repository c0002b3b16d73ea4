/*
 * SPDX-License-Identifier: Apache-2.0
 */

package rootfs

import "github.com/pico-embedded/vfsd/pkg/vfs"

// Console is the optional platform hook spec.md §4.G allows the root
// backend to carry: "console read/write if the platform wires them in;
// that binding is a boundary concern." Reader reads from the console
// device, Writer writes to it — ordinary io.Reader/io.Writer semantics.
//
// The original firmware's stdio_vfs_read/stdio_vfs_write swapped these
// two (read called the platform's write function and vice versa). This
// wiring is deliberately the non-swapped, correct pairing; see
// DESIGN.md for the discrepancy this corrects.
type Console struct {
	Reader func(buf []byte) (int, error)
	Writer func(buf []byte) (int, error)
}

// WithConsole attaches console I/O to b. Without it, Read and Write
// report ENOSYS like any other unimplemented Backend method.
func (b *Backend) WithConsole(c Console) *Backend {
	b.console = c
	return b
}

func (b *Backend) Read(_ vfs.LocalFD, buf []byte) (int, error) {
	if b.console.Reader == nil {
		return b.UnimplementedBackend.Read(0, buf)
	}
	return b.console.Reader(buf)
}

func (b *Backend) Write(_ vfs.LocalFD, buf []byte) (int, error) {
	if b.console.Writer == nil {
		return b.UnimplementedBackend.Write(0, buf)
	}
	return b.console.Writer(buf)
}
