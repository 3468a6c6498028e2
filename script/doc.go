// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package script runs request/response conversations against a
// [tdjson.Client] as algebraic effects on [code.hybscloud.com/kont].
//
// A script is composed of typed operations dispatched on a client. Every
// answer is copied out of the client's borrowed buffer before the script
// continues, so scripts never observe a stale [tdjson.Response].
//
// # API Topologies
//
//   - Operations: [Execute], [Send], [Receive], [Close].
//   - Cont-world: [ExecuteBind], [SendThen], [ReceiveBind], [CloseDone].
//   - Expr-world: [ExprExecuteBind], [ExprSendThen], [ExprReceiveBind],
//     [ExprCloseDone]. Convert between the two with [kont.Reify] and
//     [kont.Reflect].
//   - Polling: [ReceiveUntil], [Drain] and [AwaitBind], with Expr forms
//     [ExprReceiveUntil], [ExprDrain] and [ExprAwaitBind].
//
// # Evaluation
//
//   - Blocking: [Exec] and [ExecExpr] run a script to completion. A client
//     error or a [kont.ThrowError] short-circuits the script.
//   - Stepping: [Step] and [Advance] evaluate one effect at a time. Advance
//     returns [tdjson.ErrBusy] with the suspension unconsumed when the client
//     is in use elsewhere.
//
// # Example
//
//	c := tdjson.New(engine)
//	defer c.Close()
//	version, err := script.Exec(c, script.ExecuteBind(`{"@type":"getOption","name":"version"}`,
//		func(r script.Reply) kont.Eff[string] {
//			return kont.Pure(r.Text)
//		}))
package script
