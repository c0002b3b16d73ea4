/*
 * SPDX-License-Identifier: Apache-2.0
 */

// Package refcount implements component B of the VFS/block-device
// substrate: a generic shared-ownership header that derived types embed
// as their first field, giving atomic-with-respect-to-its-own-critical-
// section reference counting and a caller-supplied destructor.
//
// The source this is distilled from hand-rolls this via struct casting;
// here it is a plain embeddable struct, per spec.md §9's guidance to
// prefer a generic shared-ownership container over casting tricks.
package refcount

import (
	"sync"
)

// maxRefs is the highest reference count the 8-bit counter of spec.md
// §4.B allows before Ref panics. The count is intentionally kept one
// below the type's range so an accidental extra Ref is easy to spot in
// a panic message rather than silently wrapping to zero.
const maxRefs = 254

// Dealloc is invoked synchronously, with no lock held, exactly once:
// when the last reference to the object is dropped. It must not call
// Ref or Unref on the same Object.
type Dealloc func()

// Object is the embeddable refcounted header. The zero value is not
// usable; call Init or InitNoRef first.
type Object struct {
	mu      sync.Mutex
	count   uint8
	dealloc Dealloc
}

// Init sets the refcount to 1, as for an object whose sole owner is the
// caller of Init.
func (o *Object) Init(dealloc Dealloc) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.count = 1
	o.dealloc = dealloc
}

// InitNoRef sets the refcount to 0, for an object whose first owner will
// call Ref explicitly once it has decided to keep it.
func (o *Object) InitNoRef(dealloc Dealloc) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.count = 0
	o.dealloc = dealloc
}

// Lock acquires the object's own critical section, for callers that need
// to perform a short mutation of the object's own list structure (e.g.
// blockdev.Device.AddChild) alongside a Ref/Unref.
func (o *Object) Lock() { o.mu.Lock() }

// Unlock releases the critical section acquired by Lock.
func (o *Object) Unlock() { o.mu.Unlock() }

// Ref increments the refcount. It returns nothing, so unlike a
// pointer-returning ref() it cannot be chained. It panics if the count
// would exceed the 8-bit counter's budget (spec.md §4.B).
func (o *Object) Ref() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.refLocked()
}

// RefNolock is Ref for a caller that already holds the critical section.
func (o *Object) RefNolock() {
	o.refLocked()
}

func (o *Object) refLocked() {
	if o.count >= maxRefs {
		panic("refcount: too many references to object")
	}
	o.count++
}

// Unref decrements the refcount and, if it reaches zero, invokes dealloc
// with no lock held. Returns true iff the object was just destroyed.
func (o *Object) Unref() bool {
	o.mu.Lock()
	zero, dealloc := o.unrefLocked()
	o.mu.Unlock()
	if zero && dealloc != nil {
		dealloc()
	}
	return zero
}

// UnrefNolock is Unref for a caller that already holds the critical
// section. It never invokes dealloc itself — the caller must release
// the lock first and then call the returned Dealloc if it is non-nil,
// so that the destructor always runs with no lock held:
//
//	o.Lock()
//	dealloc := o.UnrefNolock()
//	o.Unlock()
//	if dealloc != nil {
//		dealloc()
//	}
func (o *Object) UnrefNolock() Dealloc {
	zero, dealloc := o.unrefLocked()
	if !zero {
		return nil
	}
	return dealloc
}

func (o *Object) unrefLocked() (bool, Dealloc) {
	if o.count == 0 {
		panic("refcount: unref of an object with zero references")
	}
	o.count--
	if o.count == 0 {
		return true, o.dealloc
	}
	return false, nil
}

// Count returns a point-in-time snapshot of the refcount, for tests and
// diagnostics only; production code must never branch on it.
func (o *Object) Count() uint8 {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.count
}
