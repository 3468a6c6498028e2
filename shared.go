// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package tdjson

import (
	"runtime"

	"code.hybscloud.com/atomix"
)

// sharedSession is the reference-counted owner of a rawSession.
// The session is destroyed when the count reaches zero.
type sharedSession struct {
	raw  *rawSession
	refs atomix.Int64
}

func newSharedSession(raw *rawSession) *sharedSession {
	s := &sharedSession{raw: raw}
	s.refs.Store(1)
	return s
}

// tryRetain adds a reference unless the count already reached zero.
func (s *sharedSession) tryRetain() bool {
	for {
		n := s.refs.Load()
		if n <= 0 {
			return false
		}
		if s.refs.CompareAndSwap(n, n+1) {
			return true
		}
	}
}

func (s *sharedSession) drop() {
	if s.refs.Add(-1) == 0 {
		s.raw.destroy()
	}
}

// capability is one reference to a sharedSession held by a Client, Sender or
// Receiver. It is released at most once.
type capability struct {
	shared   *sharedSession
	released atomix.Uint32
}

// newCapability wraps a reference already counted in shared.
func newCapability(shared *sharedSession) *capability {
	return &capability{shared: shared}
}

// releaseOnCollect releases c if holder is collected unclosed.
// Only holders that never borrow engine memory may use it: a Response or a
// slice from Response.Bytes does not keep its holder reachable.
func releaseOnCollect[T any](holder *T, c *capability) *capability {
	runtime.AddCleanup(holder, (*capability).release, c)
	return c
}

func (c *capability) release() {
	if c.released.CompareAndSwap(0, 1) {
		c.shared.drop()
	}
}

// move marks c released without dropping its reference, which now belongs to
// another capability.
func (c *capability) move() bool {
	return c.released.CompareAndSwap(0, 1)
}

func (c *capability) live() bool {
	return c.released.Load() == 0
}

// noCopy may be embedded into structs which must not be copied after first
// use. See go vet -copylocks.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}
