// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package tdjson provides a safe, concurrency-aware handle over a single
// session with a JSON-speaking engine such as libtdjson.
//
// The engine exposes create, destroy, execute, send and receive on an opaque
// handle. It promises that a handle is destroyed once, that send may run
// concurrently, that receive runs on one caller at a time, and that text
// returned by execute or receive stays valid only until the next execute or
// receive on the same handle. This package turns those rules into an API.
//
// # Architecture
//
//   - Foreign boundary: [Engine] and [LogEngine]. See the loopback package for
//     an in-process engine and the libtdjson package for the cgo binding.
//   - Lifecycle: every session is destroyed exactly once, never while a call is
//     in flight. Calls after destruction fail with [ErrClosed].
//   - Borrowing: [Response] is a view of engine memory. It is valid until the
//     next execute or receive on the same session; using it afterwards panics.
//   - Capabilities: [Client.Split] turns a [Client] into many [Sender] clones and
//     one [Receiver]. The session is destroyed when the last of them is closed.
//
// # Scheduling
//
// Nothing here spawns goroutines. Every call runs on the caller's goroutine and
// [Client.Receive]/[Receiver.Receive] block it for at most their timeout.
// A timeout is reported as ok == false, not as an error.
//
// # Example
//
//	c := tdjson.New(engine)
//	tx, rx, _ := c.Split()
//	defer tx.Close()
//	defer rx.Close()
//	_ = tx.Send(`{"@type":"getOption","name":"version"}`)
//	resp, ok, err := rx.Receive(time.Second)
//	if err == nil && ok {
//		fmt.Println(resp.String())
//	}
package tdjson
