// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package script

import (
	"errors"

	"code.hybscloud.com/iox"
	"code.hybscloud.com/kont"
	"code.hybscloud.com/tdjson"
)

// clientDispatcher is the structural interface for client operations.
// DispatchClient returns tdjson.ErrBusy when the client is in use elsewhere.
type clientDispatcher interface {
	DispatchClient(c *tdjson.Client) (kont.Resumed, error)
}

// errorDispatcher is the structural interface of kont error operations.
type errorDispatcher interface {
	DispatchError(ctx *kont.ErrorContext[error]) (kont.Resumed, bool)
}

// clientHandler handles both client and error effects.
// Client ops wait out ErrBusy via iox.Backoff; any other client error and
// Throw short-circuit.
// Value type: passed to evalFrames on the stack, avoiding heap allocation.
type clientHandler[R any] struct {
	c      *tdjson.Client
	errCtx *kont.ErrorContext[error]
}

// Dispatch implements kont.Handler for the composed Client+Error handler.
// Dispatch order: Client → Error.
func (h clientHandler[R]) Dispatch(op kont.Operation) (kont.Resumed, bool) {
	if cop, ok := op.(clientDispatcher); ok {
		v, err := dispatchWait(h.c, cop)
		if err != nil {
			return kont.Left[error, R](err), false
		}
		return v, true
	}
	if eop, ok := op.(errorDispatcher); ok {
		v, _ := eop.DispatchError(h.errCtx)
		if h.errCtx.HasErr {
			return kont.Left[error, R](h.errCtx.Err), false
		}
		return v, true
	}
	panic("script: unhandled effect in clientHandler")
}

// dispatchWait retries DispatchClient while the client is busy, backing off
// with iox.Backoff.
func dispatchWait(c *tdjson.Client, cop clientDispatcher) (kont.Resumed, error) {
	var bo iox.Backoff
	for {
		v, err := cop.DispatchClient(c)
		if !errors.Is(err, tdjson.ErrBusy) {
			return v, err
		}
		bo.Wait()
	}
}

func right[R any](r R) kont.Either[error, R] {
	return kont.Right[error, R](r)
}

func unwrap[R any](e kont.Either[error, R]) (R, error) {
	if err, ok := e.GetLeft(); ok {
		var zero R
		return zero, err
	}
	r, _ := e.GetRight()
	return r, nil
}
