// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package loopback

import (
	"sync"
	"time"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/iox"
	"code.hybscloud.com/lfq"
	"code.hybscloud.com/tdjson"
)

// DefaultCapacity is the default bound of each session's answer queue.
const DefaultCapacity = 1024

// Responder computes the answer to a request.
// ok == false means the engine has no answer for it.
type Responder func(request string) (answer []byte, ok bool)

// Echo answers every request with the request text.
func Echo(request string) ([]byte, bool) {
	return []byte(request), true
}

// Options configures an [Engine].
type Options struct {
	// Capacity bounds each session's answer queue. Zero means DefaultCapacity.
	Capacity int
	// Execute answers synchronous requests. Nil means Echo.
	Execute Responder
	// Send answers asynchronous requests; the answer is queued for Receive.
	// Nil means Echo.
	Send Responder
	// RejectLogPath reports whether SetLogFilePath fails for path.
	RejectLogPath func(path string) bool
}

// Engine is an in-process [tdjson.Engine] and [tdjson.LogEngine].
type Engine struct {
	opts Options

	mu       sync.RWMutex
	next     tdjson.Handle
	sessions map[tdjson.Handle]*session

	created   atomix.Uint32
	destroyed atomix.Uint32
	calls     atomix.Uint64

	logMu     sync.Mutex
	logPath   string
	verbosity int
	logCalls  int
}

var (
	_ tdjson.Engine    = (*Engine)(nil)
	_ tdjson.LogEngine = (*Engine)(nil)
)

// New creates an engine.
func New(opts Options) *Engine {
	if opts.Capacity <= 0 {
		opts.Capacity = DefaultCapacity
	}
	if opts.Execute == nil {
		opts.Execute = Echo
	}
	if opts.Send == nil {
		opts.Send = Echo
	}
	return &Engine{
		opts:      opts,
		sessions:  make(map[tdjson.Handle]*session),
		verbosity: int(tdjson.LevelVerbose),
	}
}

// session holds the transport of one handle.
type session struct {
	queue     lfq.SPSC[[]byte]
	sendMu    sync.Mutex
	buf       []byte
	receiving atomix.Uint32
	destroyed atomix.Uint32
}

// Create implements [tdjson.Engine].
func (e *Engine) Create() tdjson.Handle {
	s := &session{}
	s.queue.Init(e.opts.Capacity)

	e.mu.Lock()
	e.next++
	h := e.next
	e.sessions[h] = s
	e.mu.Unlock()

	e.created.Add(1)
	return h
}

// Destroy implements [tdjson.Engine]. It panics if h was already destroyed.
// The session's queue and buffer are dropped; handles are never reused, so
// a known handle with no session is a destroyed one.
func (e *Engine) Destroy(h tdjson.Handle) {
	e.mu.Lock()
	s, ok := e.sessions[h]
	if ok {
		delete(e.sessions, h)
	}
	known := h > 0 && h <= e.next
	e.mu.Unlock()
	if !ok {
		if known {
			panic("loopback: session destroyed twice")
		}
		panic("loopback: unknown session handle")
	}
	s.destroyed.Store(1)
	e.destroyed.Add(1)
}

// Execute implements [tdjson.Engine].
func (e *Engine) Execute(h tdjson.Handle, request string) []byte {
	s := e.live(h)
	answer, ok := e.opts.Execute(request)
	if !ok {
		return nil
	}
	return s.borrow(answer)
}

// Send implements [tdjson.Engine]. It blocks while the answer queue is full.
func (e *Engine) Send(h tdjson.Handle, request string) {
	s := e.live(h)
	answer, ok := e.opts.Send(request)
	if !ok {
		return
	}
	s.sendMu.Lock()
	defer s.sendMu.Unlock()
	var bo iox.Backoff
	for {
		if err := s.queue.Enqueue(&answer); err == nil {
			return
		}
		bo.Wait()
	}
}

// Receive implements [tdjson.Engine]. It panics if another Receive on h is in
// flight.
func (e *Engine) Receive(h tdjson.Handle, timeout float64) []byte {
	s := e.live(h)
	if !s.receiving.CompareAndSwap(0, 1) {
		panic("loopback: concurrent receive on one session")
	}
	defer s.receiving.Store(0)

	deadline := time.Now().Add(time.Duration(timeout * float64(time.Second)))
	var bo iox.Backoff
	for {
		answer, err := s.queue.Dequeue()
		if err == nil {
			return s.borrow(answer)
		}
		if !iox.IsWouldBlock(err) || !time.Now().Before(deadline) {
			return nil
		}
		bo.Wait()
	}
}

// borrow copies answer into the session buffer, overwriting the previous
// answer, and returns the buffer.
func (s *session) borrow(answer []byte) []byte {
	s.buf = append(s.buf[:0], answer...)
	return s.buf
}

// lookup returns the session of h, or reports that h was destroyed.
func (e *Engine) lookup(h tdjson.Handle) (*session, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if s, ok := e.sessions[h]; ok {
		return s, false
	}
	if h > 0 && h <= e.next {
		return nil, true
	}
	panic("loopback: unknown session handle")
}

// live returns the session of h and counts the call.
func (e *Engine) live(h tdjson.Handle) *session {
	s, destroyed := e.lookup(h)
	if destroyed || s.destroyed.Load() != 0 {
		panic("loopback: use of destroyed session")
	}
	e.calls.Add(1)
	return s
}

// SetLogFilePath implements [tdjson.LogEngine].
func (e *Engine) SetLogFilePath(path string) bool {
	e.logMu.Lock()
	defer e.logMu.Unlock()
	e.logCalls++
	if e.opts.RejectLogPath != nil && e.opts.RejectLogPath(path) {
		return false
	}
	e.logPath = path
	return true
}

// SetLogVerbosityLevel implements [tdjson.LogEngine].
func (e *Engine) SetLogVerbosityLevel(level int) {
	e.logMu.Lock()
	defer e.logMu.Unlock()
	e.logCalls++
	e.verbosity = level
}

// Created returns the number of sessions created.
func (e *Engine) Created() int { return int(e.created.Load()) }

// Destroyed returns the number of sessions destroyed.
func (e *Engine) Destroyed() int { return int(e.destroyed.Load()) }

// Live returns the number of sessions the engine still holds.
func (e *Engine) Live() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.sessions)
}

// IsDestroyed reports whether h has been destroyed.
func (e *Engine) IsDestroyed(h tdjson.Handle) bool {
	_, destroyed := e.lookup(h)
	return destroyed
}

// Calls returns the number of Execute, Send and Receive calls that reached
// the engine.
func (e *Engine) Calls() int { return int(e.calls.Load()) }

// LogCalls returns the number of log configuration calls that reached the
// engine.
func (e *Engine) LogCalls() int {
	e.logMu.Lock()
	defer e.logMu.Unlock()
	return e.logCalls
}

// LogPath returns the last accepted log file path.
func (e *Engine) LogPath() string {
	e.logMu.Lock()
	defer e.logMu.Unlock()
	return e.logPath
}

// Verbosity returns the last verbosity level set.
func (e *Engine) Verbosity() int {
	e.logMu.Lock()
	defer e.logMu.Unlock()
	return e.verbosity
}
