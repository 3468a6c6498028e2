// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package script

import (
	"time"

	"code.hybscloud.com/kont"
)

// ReceiveUntil receives answers, each call waiting at most timeout, and folds
// every reply into state with step. Timed-out receives reach step as a Reply
// with OK false. It stops when step reports done and returns the final state.
func ReceiveUntil[S any](timeout time.Duration, state S, step func(S, Reply) (S, bool)) kont.Eff[S] {
	return ReceiveBind(timeout, func(r Reply) kont.Eff[S] {
		next, done := step(state, r)
		if done {
			return kont.Pure(next)
		}
		return ReceiveUntil(timeout, next, step)
	})
}

// ExprReceiveUntil is [ReceiveUntil] in Expr-world. Each further receive is
// built only when the previous reply has been folded.
func ExprReceiveUntil[S any](timeout time.Duration, state S, step func(S, Reply) (S, bool)) kont.Expr[S] {
	return ExprReceiveBind(timeout, func(r Reply) kont.Expr[S] {
		next, done := step(state, r)
		if done {
			return kont.ExprReturn(next)
		}
		return ExprReceiveUntil(timeout, next, step)
	})
}

// Drain receives until a receive times out and returns the answer texts in
// arrival order.
func Drain(timeout time.Duration) kont.Eff[[]string] {
	return ReceiveUntil(timeout, []string(nil), collect)
}

// ExprDrain is [Drain] in Expr-world.
func ExprDrain(timeout time.Duration) kont.Expr[[]string] {
	return ExprReceiveUntil(timeout, []string(nil), collect)
}

func collect(texts []string, r Reply) ([]string, bool) {
	if !r.OK {
		return texts, true
	}
	return append(texts, r.Text), false
}

// AwaitBind receives up to attempts times, each waiting at most timeout, and
// passes the first answer to f. If none arrives f gets a Reply with OK false.
func AwaitBind[B any](timeout time.Duration, attempts int, f func(Reply) kont.Eff[B]) kont.Eff[B] {
	if attempts <= 0 {
		return f(Reply{})
	}
	return ReceiveBind(timeout, func(r Reply) kont.Eff[B] {
		if r.OK || attempts == 1 {
			return f(r)
		}
		return AwaitBind(timeout, attempts-1, f)
	})
}

// ExprAwaitBind is [AwaitBind] in Expr-world.
func ExprAwaitBind[B any](timeout time.Duration, attempts int, f func(Reply) kont.Expr[B]) kont.Expr[B] {
	if attempts <= 0 {
		return f(Reply{})
	}
	return ExprReceiveBind(timeout, func(r Reply) kont.Expr[B] {
		if r.OK || attempts == 1 {
			return f(r)
		}
		return ExprAwaitBind(timeout, attempts-1, f)
	})
}
