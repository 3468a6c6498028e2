// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package tdjson

import (
	"time"

	"code.hybscloud.com/atomix"
	"go.uber.org/zap"
)

const (
	clientOpen uint32 = iota
	clientSplit
	clientClosed
)

// Client is the exclusive owner of one engine session.
//
// Execute and Receive return borrowed buffers, so at most one of them may be
// in flight on a Client at a time; an overlapping call fails with [ErrBusy].
// Send may be called from any number of goroutines.
//
// A Client must not be copied. Close it, or consume it with [Client.Split];
// an abandoned Client leaks its session, since responses borrowed from it may
// still be in use.
type Client struct {
	_     noCopy
	s     *rawSession
	owner *capability
	state atomix.Uint32
	busy  atomix.Uint32
}

// New creates a session on engine and returns its exclusive handle.
func New(engine Engine, opts ...Option) *Client {
	o := buildOptions(opts)
	raw := newRawSession(engine, &o)
	c := &Client{s: raw}
	c.owner = newCapability(newSharedSession(raw))
	return c
}

// Serial returns the serial number of the session.
func (c *Client) Serial() Serial {
	return c.s.serial
}

// Execute runs request synchronously and returns the engine's answer.
// ok is false if the engine had no answer.
// The Response is valid until the next Execute or Receive.
func (c *Client) Execute(request string) (resp Response, ok bool, err error) {
	req, err := NewRequest(request)
	if err != nil {
		return Response{}, false, err
	}
	if err := c.enter(); err != nil {
		return Response{}, false, err
	}
	defer c.busy.Store(0)
	return c.s.execute(req)
}

// Send enqueues request on the engine without waiting for an answer.
func (c *Client) Send(request string) error {
	req, err := NewRequest(request)
	if err != nil {
		return err
	}
	if err := c.usable(); err != nil {
		return err
	}
	return c.s.send(req)
}

// Receive waits up to timeout for the next engine answer.
// ok is false if none arrived; that is not an error.
// The Response is valid until the next Execute or Receive.
func (c *Client) Receive(timeout time.Duration) (resp Response, ok bool, err error) {
	if err := c.enter(); err != nil {
		return Response{}, false, err
	}
	defer c.busy.Store(0)
	return c.s.receive(timeout)
}

// Split consumes c and returns the send and receive capabilities of its
// session. The session is destroyed when the returned Sender, all its clones
// and the Receiver have been closed. After Split every method of c fails with
// [ErrSplit] and Close is a no-op.
func (c *Client) Split() (*Sender, *Receiver, error) {
	if err := c.usable(); err != nil {
		return nil, nil, err
	}
	if !c.busy.CompareAndSwap(0, 1) {
		return nil, nil, ErrBusy
	}
	defer c.busy.Store(0)
	if !c.state.CompareAndSwap(clientOpen, clientSplit) {
		return nil, nil, c.usable()
	}
	shared := c.owner.shared
	// The owner's reference moves to the Receiver; the Sender takes a new one.
	if !c.owner.move() || !shared.tryRetain() {
		return nil, nil, ErrClosed
	}
	tx := &Sender{s: c.s}
	tx.ref = releaseOnCollect(tx, newCapability(shared))
	rx := &Receiver{s: c.s}
	rx.ref = newCapability(shared)
	c.s.log.Debug("tdjson: session split", zap.Uint32("session", c.s.serial))
	return tx, rx, nil
}

// Close destroys the session. It is safe to call more than once and is a
// no-op after Split.
func (c *Client) Close() error {
	if c.state.CompareAndSwap(clientOpen, clientClosed) {
		c.owner.release()
	}
	return nil
}

// usable reports why c can no longer be used, if it cannot.
func (c *Client) usable() error {
	switch c.state.Load() {
	case clientSplit:
		return ErrSplit
	case clientClosed:
		return ErrClosed
	}
	return nil
}

// enter claims the exclusive right to execute or receive.
func (c *Client) enter() error {
	if err := c.usable(); err != nil {
		return err
	}
	if !c.busy.CompareAndSwap(0, 1) {
		return ErrBusy
	}
	if err := c.usable(); err != nil {
		c.busy.Store(0)
		return err
	}
	return nil
}
