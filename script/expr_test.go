// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package script_test

import (
	"errors"
	"testing"
	"time"

	"code.hybscloud.com/kont"
	"code.hybscloud.com/tdjson"
	"code.hybscloud.com/tdjson/loopback"
	"code.hybscloud.com/tdjson/script"
)

func TestExprExecuteBind(t *testing.T) {
	c, _ := newClient(t, loopback.Options{})
	protocol := script.ExprExecuteBind("abc", func(r script.Reply) kont.Expr[string] {
		return kont.ExprReturn(r.Text)
	})
	got, err := script.ExecExpr(c, protocol)
	if err != nil {
		t.Fatalf("ExecExpr: %v", err)
	}
	if got != "abc" {
		t.Fatalf("got %q, want %q", got, "abc")
	}
}

func TestExprSendReceive(t *testing.T) {
	c, _ := newClient(t, loopback.Options{})
	protocol := script.ExprSendThen("one",
		script.ExprSendThen("two",
			script.ExprReceiveBind(time.Second, func(a script.Reply) kont.Expr[string] {
				return script.ExprReceiveBind(time.Second, func(b script.Reply) kont.Expr[string] {
					return kont.ExprReturn(a.Text + "," + b.Text)
				})
			}),
		),
	)
	got, err := script.ExecExpr(c, protocol)
	if err != nil {
		t.Fatalf("ExecExpr: %v", err)
	}
	if got != "one,two" {
		t.Fatalf("got %q, want %q", got, "one,two")
	}
}

func TestExprReceiveTimeout(t *testing.T) {
	c, _ := newClient(t, loopback.Options{})
	got, err := script.ExecExpr(c, script.ExprReceiveBind(time.Millisecond, func(r script.Reply) kont.Expr[bool] {
		return kont.ExprReturn(r.OK)
	}))
	if err != nil {
		t.Fatalf("ExecExpr: %v", err)
	}
	if got {
		t.Fatal("receive on an idle session reported an answer")
	}
}

func TestExprCloseDone(t *testing.T) {
	c, e := newClient(t, loopback.Options{})
	got, err := script.ExecExpr(c, script.ExprSendThen("x", script.ExprCloseDone(7)))
	if err != nil {
		t.Fatalf("ExecExpr: %v", err)
	}
	if got != 7 {
		t.Fatalf("got %d, want 7", got)
	}
	if e.Live() != 0 {
		t.Fatalf("%d sessions live, want 0", e.Live())
	}
}

func TestExprUseAfterClose(t *testing.T) {
	c, _ := newClient(t, loopback.Options{})
	protocol := script.ExprCloseDone(0)
	if _, err := script.ExecExpr(c, protocol); err != nil {
		t.Fatalf("ExecExpr: %v", err)
	}
	_, err := script.ExecExpr(c, script.ExprExecuteBind("x", func(r script.Reply) kont.Expr[string] {
		return kont.ExprReturn(r.Text)
	}))
	if !errors.Is(err, tdjson.ErrClosed) {
		t.Fatalf("got %v, want ErrClosed", err)
	}
}

func TestExecExprOfContScript(t *testing.T) {
	c, _ := newClient(t, loopback.Options{})
	cont := script.SendThen("hello",
		script.ReceiveBind(time.Second, func(r script.Reply) kont.Eff[string] {
			return kont.Pure(r.Text)
		}),
	)
	got, err := script.ExecExpr(c, kont.Reify(cont))
	if err != nil {
		t.Fatalf("ExecExpr: %v", err)
	}
	if got != "hello" {
		t.Fatalf("got %q, want %q", got, "hello")
	}
}

func TestExecOfExprScript(t *testing.T) {
	c, _ := newClient(t, loopback.Options{})
	expr := script.ExprExecuteBind("hello", func(r script.Reply) kont.Expr[string] {
		return kont.ExprReturn(r.Text)
	})
	got, err := script.Exec(c, kont.Reflect(expr))
	if err != nil {
		t.Fatalf("Exec: %v", err)
	}
	if got != "hello" {
		t.Fatalf("got %q, want %q", got, "hello")
	}
}
