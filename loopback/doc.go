// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package loopback provides an in-process [tdjson.Engine] that answers every
// request itself.
//
// # Architecture
//
//   - Transport: each session owns a bounded lock-free SPSC queue from
//     [code.hybscloud.com/lfq]. Producers are serialized by a mutex; the single
//     receiver is the queue consumer.
//   - Waiting: Receive polls the queue, backing off on
//     [code.hybscloud.com/iox.ErrWouldBlock] with [code.hybscloud.com/iox.Backoff]
//     until the timeout elapses. Send backs off while the queue is full.
//   - Borrowing: Execute and Receive copy the answer into one buffer per
//     session and return it, so the next call really does overwrite the
//     previous answer.
//   - Accounting: the engine panics on a second Destroy, on use of a destroyed
//     handle and on overlapping Receive calls, and counts every call, so tests
//     can assert the engine contract was honoured.
package loopback
