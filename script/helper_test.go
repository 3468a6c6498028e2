// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package script_test

import (
	"testing"

	"code.hybscloud.com/kont"
	"code.hybscloud.com/tdjson"
	"code.hybscloud.com/tdjson/loopback"
	"code.hybscloud.com/tdjson/script"
)

// newClient returns a client on a fresh loopback engine, closed at test end.
func newClient(tb testing.TB, opts loopback.Options) (*tdjson.Client, *loopback.Engine) {
	tb.Helper()
	e := loopback.New(opts)
	c := tdjson.New(e)
	tb.Cleanup(func() { c.Close() })
	return c, e
}

// execExpr drives a script to completion on c via Step+Advance loop.
// Retries on tdjson.ErrBusy (client in use elsewhere).
func execExpr[R any](c *tdjson.Client, protocol kont.Expr[R]) (R, error) {
	result, susp := script.Step[R](protocol)
	for susp != nil {
		var err error
		result, susp, err = script.Advance(c, susp)
		if err != nil {
			continue
		}
	}
	if err, ok := result.GetLeft(); ok {
		var zero R
		return zero, err
	}
	r, _ := result.GetRight()
	return r, nil
}
