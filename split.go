// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package tdjson

import (
	"context"
	"time"

	"code.hybscloud.com/atomix"
)

// Sender is the send capability of a split session.
// It is safe for concurrent use; use [Sender.Clone] to hand out more
// references, each of which should be closed. A Sender collected while open
// releases its reference.
type Sender struct {
	s   *rawSession
	ref *capability
}

// Send enqueues request on the engine without waiting for an answer.
func (tx *Sender) Send(request string) error {
	req, err := NewRequest(request)
	if err != nil {
		return err
	}
	if !tx.ref.live() {
		return ErrClosed
	}
	return tx.s.send(req)
}

// Clone returns a new reference to the same session.
// It fails with [ErrClosed] if tx is closed.
func (tx *Sender) Clone() (*Sender, error) {
	if !tx.ref.live() || !tx.ref.shared.tryRetain() {
		return nil, ErrClosed
	}
	c := &Sender{s: tx.s}
	c.ref = releaseOnCollect(c, newCapability(tx.ref.shared))
	return c, nil
}

// Close releases this reference. It is safe to call more than once.
func (tx *Sender) Close() error {
	tx.ref.release()
	return nil
}

// Serial returns the serial number of the session.
func (tx *Sender) Serial() Serial {
	return tx.s.serial
}

// Receiver is the receive capability of a split session.
// There is exactly one per split, it must not be copied and it must be
// closed for the session to be destroyed. Receive calls on
// it must not overlap; an overlapping call fails with [ErrBusy].
type Receiver struct {
	_    noCopy
	s    *rawSession
	ref  *capability
	busy atomix.Uint32
}

// Receive waits up to timeout for the next engine answer.
// ok is false if none arrived; that is not an error.
// The Response is valid until the next Receive.
func (rx *Receiver) Receive(timeout time.Duration) (resp Response, ok bool, err error) {
	if !rx.busy.CompareAndSwap(0, 1) {
		return Response{}, false, ErrBusy
	}
	defer rx.busy.Store(0)
	if !rx.ref.live() {
		return Response{}, false, ErrClosed
	}
	return rx.s.receive(timeout)
}

// Poll receives on the calling goroutine until ctx is done, calling fn with
// every answer while its buffer is valid. Each Receive waits at most timeout,
// so cancellation is noticed within one timeout. Poll returns ctx.Err(), the
// first error from fn, or the first receive error.
func (rx *Receiver) Poll(ctx context.Context, timeout time.Duration, fn func(Response) error) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		resp, ok, err := rx.Receive(timeout)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		if err := fn(resp); err != nil {
			return err
		}
	}
}

// Close releases the receive capability. It is safe to call more than once.
func (rx *Receiver) Close() error {
	rx.ref.release()
	return nil
}

// Serial returns the serial number of the session.
func (rx *Receiver) Serial() Serial {
	return rx.s.serial
}
