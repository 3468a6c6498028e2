// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package script

import (
	"time"

	"code.hybscloud.com/kont"
)

// ExecuteBind executes request and passes the reply to f.
// Fuses Perform(Execute{Request: request}) + Bind.
func ExecuteBind[B any](request string, f func(Reply) kont.Eff[B]) kont.Eff[B] {
	return kont.Bind(kont.Perform(Execute{Request: request}), f)
}

// SendThen sends request and then continues with next.
// Fuses Perform(Send{Request: request}) + Then.
func SendThen[B any](request string, next kont.Eff[B]) kont.Eff[B] {
	return kont.Then(kont.Perform(Send{Request: request}), next)
}

// ReceiveBind waits up to timeout for an answer and passes the reply to f.
// Fuses Perform(Receive{Timeout: timeout}) + Bind.
func ReceiveBind[B any](timeout time.Duration, f func(Reply) kont.Eff[B]) kont.Eff[B] {
	return kont.Bind(kont.Perform(Receive{Timeout: timeout}), f)
}

// CloseDone closes the session and returns a.
// Fuses Perform(Close{}) + Then + Pure.
func CloseDone[A any](a A) kont.Eff[A] {
	return kont.Then(kont.Perform(Close{}), kont.Pure(a))
}
