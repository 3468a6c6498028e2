// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package script_test

import (
	"slices"
	"strconv"
	"testing"
	"time"

	"code.hybscloud.com/kont"
	"code.hybscloud.com/tdjson/loopback"
	"code.hybscloud.com/tdjson/script"
)

func TestDrain(t *testing.T) {
	c, e := newClient(t, loopback.Options{})
	protocol := script.SendThen("0", script.SendThen("1", script.SendThen("2",
		script.Drain(time.Millisecond))))
	got, err := script.Exec(c, protocol)
	if err != nil {
		t.Fatalf("Exec: %v", err)
	}
	if !slices.Equal(got, []string{"0", "1", "2"}) {
		t.Fatalf("got %q", got)
	}
	// Three sends, three answers and the receive that timed out.
	if e.Calls() != 7 {
		t.Fatalf("engine saw %d calls, want 7", e.Calls())
	}
}

func TestExprDrain(t *testing.T) {
	c, _ := newClient(t, loopback.Options{})
	for i := range 3 {
		if err := c.Send(strconv.Itoa(i)); err != nil {
			t.Fatalf("Send: %v", err)
		}
	}
	got, err := script.ExecExpr(c, script.ExprDrain(time.Millisecond))
	if err != nil {
		t.Fatalf("ExecExpr: %v", err)
	}
	if !slices.Equal(got, []string{"0", "1", "2"}) {
		t.Fatalf("got %q", got)
	}
}

func TestDrainEmpty(t *testing.T) {
	c, e := newClient(t, loopback.Options{})
	got, err := script.Exec(c, script.Drain(time.Millisecond))
	if err != nil {
		t.Fatalf("Exec: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("got %q, want nothing", got)
	}
	if e.Calls() != 1 {
		t.Fatalf("engine saw %d calls, want 1", e.Calls())
	}
}

// countUntil stops after n answers or the first timeout.
func countUntil(n int) func(int, script.Reply) (int, bool) {
	return func(seen int, r script.Reply) (int, bool) {
		if !r.OK {
			return seen, true
		}
		seen++
		return seen, seen == n
	}
}

func TestReceiveUntilStopsOnStep(t *testing.T) {
	c, e := newClient(t, loopback.Options{})
	for i := range 5 {
		c.Send(strconv.Itoa(i))
	}
	calls := e.Calls()
	got, err := script.Exec(c, script.ReceiveUntil(time.Second, 0, countUntil(2)))
	if err != nil {
		t.Fatalf("Exec: %v", err)
	}
	if got != 2 {
		t.Fatalf("got %d, want 2", got)
	}
	if e.Calls()-calls != 2 {
		t.Fatalf("engine saw %d receives, want 2", e.Calls()-calls)
	}
	// The rest stay queued for the next receive.
	resp, ok, err := c.Receive(time.Second)
	if err != nil || !ok || resp.String() != "2" {
		t.Fatalf("next receive: %v %v", ok, err)
	}
}

func TestExprReceiveUntilStepsOneReceiveAtATime(t *testing.T) {
	c, _ := newClient(t, loopback.Options{})
	c.Send("a")
	c.Send("b")
	protocol := script.ExprReceiveUntil(time.Millisecond, 0, countUntil(10))

	_, susp := script.Step[int](protocol)
	steps := 0
	for susp != nil {
		result, next, err := script.Advance(c, susp)
		if err != nil {
			t.Fatalf("Advance: %v", err)
		}
		steps++
		if next == nil {
			if v, _ := result.GetRight(); v != 2 {
				t.Fatalf("got %d, want 2", v)
			}
		}
		susp = next
	}
	// Two answers and the receive that timed out.
	if steps != 3 {
		t.Fatalf("took %d steps, want 3", steps)
	}
}

func TestAwaitBindTimesOut(t *testing.T) {
	c, e := newClient(t, loopback.Options{})
	got, err := script.Exec(c, script.AwaitBind(time.Millisecond, 3, func(r script.Reply) kont.Eff[script.Reply] {
		return kont.Pure(r)
	}))
	if err != nil {
		t.Fatalf("Exec: %v", err)
	}
	if got.OK {
		t.Fatalf("got %+v, want no reply", got)
	}
	if e.Calls() != 3 {
		t.Fatalf("engine saw %d receives, want 3", e.Calls())
	}
}

func TestAwaitBindAnswer(t *testing.T) {
	c, _ := newClient(t, loopback.Options{})
	protocol := script.SendThen("update",
		script.AwaitBind(10*time.Millisecond, 100, func(r script.Reply) kont.Eff[string] {
			return kont.Pure(r.Text)
		}),
	)
	got, err := script.Exec(c, protocol)
	if err != nil {
		t.Fatalf("Exec: %v", err)
	}
	if got != "update" {
		t.Fatalf("got %q, want %q", got, "update")
	}
}

func TestAwaitBindNoAttempts(t *testing.T) {
	c, e := newClient(t, loopback.Options{})
	got, err := script.Exec(c, script.AwaitBind(time.Second, 0, func(r script.Reply) kont.Eff[bool] {
		return kont.Pure(r.OK)
	}))
	if err != nil || got {
		t.Fatalf("got (%v, %v)", got, err)
	}
	if e.Calls() != 0 {
		t.Fatalf("engine saw %d calls, want 0", e.Calls())
	}
}

func TestExprAwaitBind(t *testing.T) {
	c, e := newClient(t, loopback.Options{})
	protocol := script.ExprSendThen("late",
		script.ExprAwaitBind(time.Millisecond, 5, func(r script.Reply) kont.Expr[string] {
			return kont.ExprReturn(r.Text)
		}),
	)
	got, err := script.ExecExpr(c, protocol)
	if err != nil {
		t.Fatalf("ExecExpr: %v", err)
	}
	if got != "late" {
		t.Fatalf("got %q, want %q", got, "late")
	}
	// One send and the first receive answered.
	if e.Calls() != 2 {
		t.Fatalf("engine saw %d calls, want 2", e.Calls())
	}
}
