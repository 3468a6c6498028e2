// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package script

import (
	"time"

	"code.hybscloud.com/kont"
)

// Pre-allocated erased operations and frames to eliminate heap escapes
// when boxing empty structs into any/kont.Frame during Expr-world execution.
var (
	exprReturnFrame kont.Frame  = kont.ReturnFrame{}
	exprClose       kont.Erased = Close{}
)

// identityResume is the identity resume function for EffectFrame construction.
// Named function produces a static function value, consistent with kont convention.
func identityResume(v kont.Erased) kont.Erased { return v }

func replyBindUnwind[B any](data, _, _ kont.Erased, current kont.Erased) (kont.Erased, kont.Frame) {
	f := data.(func(Reply) kont.Expr[B])
	result := f(current.(Reply))
	return kont.Erased(result.Value), result.Frame
}

// exprReplyBind suspends on op, which resumes with a Reply, and binds f.
func exprReplyBind[B any](op kont.Erased, f func(Reply) kont.Expr[B]) kont.Expr[B] {
	bf := kont.AcquireUnwindFrame()
	bf.Data1 = f
	bf.Unwind = replyBindUnwind[B]
	ef := kont.AcquireEffectFrame()
	ef.Operation = op
	ef.Resume = identityResume
	ef.Next = bf
	return kont.ExprSuspend[B](ef)
}

// ExprExecuteBind executes request and passes the reply to f.
// Fuses ExprPerform(Execute{Request: request}) + ExprBind.
func ExprExecuteBind[B any](request string, f func(Reply) kont.Expr[B]) kont.Expr[B] {
	return exprReplyBind(kont.Erased(Execute{Request: request}), f)
}

// ExprReceiveBind waits up to timeout for an answer and passes the reply to f.
// Fuses ExprPerform(Receive{Timeout: timeout}) + ExprBind.
func ExprReceiveBind[B any](timeout time.Duration, f func(Reply) kont.Expr[B]) kont.Expr[B] {
	return exprReplyBind(kont.Erased(Receive{Timeout: timeout}), f)
}

// ExprSendThen sends request and then continues with next.
// Fuses ExprPerform(Send{Request: request}) + ExprThen.
func ExprSendThen[B any](request string, next kont.Expr[B]) kont.Expr[B] {
	tf := kont.AcquireThenFrame()
	tf.Second = kont.Expr[kont.Erased]{Value: kont.Erased(next.Value), Frame: next.Frame}
	tf.Next = exprReturnFrame
	ef := kont.AcquireEffectFrame()
	ef.Operation = Send{Request: request}
	ef.Resume = identityResume
	ef.Next = tf
	return kont.ExprSuspend[B](ef)
}

// ExprCloseDone closes the session and returns a.
// Fuses ExprPerform(Close{}) + ExprThen + ExprReturn.
func ExprCloseDone[A any](a A) kont.Expr[A] {
	tf := kont.AcquireThenFrame()
	tf.Second = kont.Expr[kont.Erased]{Value: kont.Erased(a), Frame: exprReturnFrame}
	tf.Next = exprReturnFrame
	ef := kont.AcquireEffectFrame()
	ef.Operation = exprClose
	ef.Resume = identityResume
	ef.Next = tf
	return kont.ExprSuspend[A](ef)
}
