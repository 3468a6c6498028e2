// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package tdjson_test

import (
	"sync"
	"sync/atomic"
	"testing"

	"code.hybscloud.com/tdjson"
	"code.hybscloud.com/tdjson/loopback"
)

// newClient returns a client on a fresh loopback engine, closed at test end.
func newClient(tb testing.TB, opts loopback.Options, copts ...tdjson.Option) (*tdjson.Client, *loopback.Engine) {
	tb.Helper()
	e := loopback.New(opts)
	c := tdjson.New(e, copts...)
	tb.Cleanup(func() { c.Close() })
	return c, e
}

// stubEngine is a foreign layer that records every call made to it.
// Execute and Receive answer with answer unless it is nil; Receive runs
// onReceive first when set.
type stubEngine struct {
	answer    []byte
	onReceive func()

	creates  atomic.Int64
	executes atomic.Int64
	sends    atomic.Int64
	receives atomic.Int64

	mu        sync.Mutex
	destroyed map[tdjson.Handle]int
	next      tdjson.Handle

	logPaths  []string
	levels    []int
	rejectLog bool
}

func (s *stubEngine) Create() tdjson.Handle {
	s.creates.Add(1)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	return s.next
}

func (s *stubEngine) Destroy(h tdjson.Handle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.destroyed == nil {
		s.destroyed = make(map[tdjson.Handle]int)
	}
	s.destroyed[h]++
}

func (s *stubEngine) Execute(tdjson.Handle, string) []byte {
	s.executes.Add(1)
	return s.answer
}

func (s *stubEngine) Send(tdjson.Handle, string) {
	s.sends.Add(1)
}

func (s *stubEngine) Receive(tdjson.Handle, float64) []byte {
	s.receives.Add(1)
	if s.onReceive != nil {
		s.onReceive()
	}
	return s.answer
}

func (s *stubEngine) destroyCount(h tdjson.Handle) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.destroyed[h]
}

func (s *stubEngine) calls() int64 {
	return s.executes.Load() + s.sends.Load() + s.receives.Load()
}

func (s *stubEngine) SetLogFilePath(path string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logPaths = append(s.logPaths, path)
	return !s.rejectLog
}

func (s *stubEngine) SetLogVerbosityLevel(level int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.levels = append(s.levels, level)
}
