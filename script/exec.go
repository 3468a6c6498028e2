// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package script

import (
	"code.hybscloud.com/kont"
	"code.hybscloud.com/tdjson"
)

// Exec runs a Cont-world script on c.
// Returns the script result, or the client error or thrown error that
// short-circuited it. Runs on the calling goroutine.
func Exec[R any](c *tdjson.Client, protocol kont.Eff[R]) (R, error) {
	wrapped := kont.Map[kont.Resumed, R, kont.Either[error, R]](protocol, right[R])
	var errCtx kont.ErrorContext[error]
	h := clientHandler[R]{c: c, errCtx: &errCtx}
	return unwrap(kont.Handle(wrapped, h))
}

// ExecExpr runs an Expr-world script on c.
// Returns the script result, or the client error or thrown error that
// short-circuited it. Runs on the calling goroutine.
func ExecExpr[R any](c *tdjson.Client, protocol kont.Expr[R]) (R, error) {
	wrapped := kont.ExprMap(protocol, right[R])
	var errCtx kont.ErrorContext[error]
	h := clientHandler[R]{c: c, errCtx: &errCtx}
	return unwrap(kont.HandleExpr(wrapped, h))
}
