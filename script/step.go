// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package script

import (
	"errors"

	"code.hybscloud.com/kont"
	"code.hybscloud.com/tdjson"
)

// Step evaluates a script until the first effect suspension.
// Returns (Either[error, R], nil) on completion or error,
// or (zero, suspension) if pending.
func Step[R any](protocol kont.Expr[R]) (kont.Either[error, R], *kont.Suspension[kont.Either[error, R]]) {
	return kont.StepExpr(kont.ExprMap(protocol, right[R]))
}

// Advance dispatches the suspended operation on c.
//
// On tdjson.ErrBusy the suspension is returned unconsumed together with the
// error and may be retried once the client is free. Any other client error,
// like a thrown error, discards the suspension and returns Left.
func Advance[R any](c *tdjson.Client, susp *kont.Suspension[kont.Either[error, R]]) (kont.Either[error, R], *kont.Suspension[kont.Either[error, R]], error) {
	// Client ops: dispatched once
	if cop, ok := susp.Op().(clientDispatcher); ok {
		v, err := cop.DispatchClient(c)
		if errors.Is(err, tdjson.ErrBusy) {
			var zero kont.Either[error, R]
			return zero, susp, err
		}
		if err != nil {
			susp.Discard()
			return kont.Left[error, R](err), nil, nil
		}
		result, next := susp.Resume(v)
		return result, next, nil
	}
	// Error ops: eager dispatch
	if eop, ok := susp.Op().(errorDispatcher); ok {
		var ctx kont.ErrorContext[error]
		v, _ := eop.DispatchError(&ctx)
		if ctx.HasErr {
			susp.Discard()
			return kont.Left[error, R](ctx.Err), nil, nil
		}
		result, next := susp.Resume(v)
		return result, next, nil
	}
	panic("script: unhandled effect in Advance")
}
