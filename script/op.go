// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package script

import (
	"time"

	"code.hybscloud.com/kont"
	"code.hybscloud.com/tdjson"
)

// Reply is an answer copied out of the engine.
// OK is false when the engine had no answer or the receive timed out.
type Reply struct {
	Text string
	OK   bool
}

func reply(resp tdjson.Response, ok bool) Reply {
	if !ok {
		return Reply{}
	}
	return Reply{Text: resp.String(), OK: true}
}

// Execute is the effect operation for a synchronous request.
// Perform(Execute{Request: r}) resumes with the engine's [Reply].
type Execute struct {
	kont.Phantom[Reply]
	Request string
}

// DispatchClient runs Execute on c.
func (o Execute) DispatchClient(c *tdjson.Client) (kont.Resumed, error) {
	resp, ok, err := c.Execute(o.Request)
	if err != nil {
		return nil, err
	}
	return reply(resp, ok), nil
}

// Send is the effect operation for a fire-and-forget request.
type Send struct {
	kont.Phantom[struct{}]
	Request string
}

// DispatchClient runs Send on c. Never blocks.
func (o Send) DispatchClient(c *tdjson.Client) (kont.Resumed, error) {
	if err := c.Send(o.Request); err != nil {
		return nil, err
	}
	return struct{}{}, nil
}

// Receive is the effect operation for waiting on the next answer.
// Perform(Receive{Timeout: d}) resumes with a [Reply]; Reply.OK is false on
// timeout.
type Receive struct {
	kont.Phantom[Reply]
	Timeout time.Duration
}

// DispatchClient runs Receive on c, blocking for at most o.Timeout.
func (o Receive) DispatchClient(c *tdjson.Client) (kont.Resumed, error) {
	resp, ok, err := c.Receive(o.Timeout)
	if err != nil {
		return nil, err
	}
	return reply(resp, ok), nil
}

// Close is the effect operation for closing the client's session.
type Close struct {
	kont.Phantom[struct{}]
}

// DispatchClient closes c. Never blocks.
func (Close) DispatchClient(c *tdjson.Client) (kont.Resumed, error) {
	return struct{}{}, c.Close()
}
