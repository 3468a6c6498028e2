// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package tdjson

import (
	"math"
	"time"
	"unicode/utf8"

	"code.hybscloud.com/atomix"
	"go.uber.org/zap"
)

// rawSession owns one engine handle.
//
// calls counts in-flight engine calls plus one for the owner. destroy drops
// the owner's count; whoever brings calls to -1 destroys the handle, so the
// handle outlives every call issued against it and is destroyed exactly once.
type rawSession struct {
	engine    Engine
	handle    Handle
	serial    Serial
	calls     atomix.Int64
	destroyed atomix.Uint32
	gen       atomix.Uint64
	log       *zap.Logger
	metrics   *metrics
}

func newRawSession(e Engine, o *options) *rawSession {
	s := &rawSession{
		engine: e,
		handle: e.Create(),
		serial: nextSerial(),
		log:    o.logger,
	}
	m, err := newMetrics(o.registerer)
	if err != nil {
		s.log.Warn("tdjson: metrics disabled", zap.Uint32("session", s.serial), zap.Error(err))
	}
	s.metrics = m
	s.metrics.created()
	s.log.Debug("tdjson: session created", zap.Uint32("session", s.serial))
	return s
}

// acquire registers an in-flight call. It fails once destroy has run, even
// while earlier calls are still in flight.
func (s *rawSession) acquire() error {
	for {
		n := s.calls.Load()
		if n < 0 || s.destroyed.Load() != 0 {
			return ErrClosed
		}
		if n == math.MaxInt64 {
			panic("tdjson: session call counter would overflow")
		}
		if s.calls.CompareAndSwap(n, n+1) {
			return nil
		}
	}
}

func (s *rawSession) release() {
	if s.calls.Add(-1) == -1 {
		s.free()
	}
}

// destroy gives up the owner's count. Repeated calls are no-ops.
func (s *rawSession) destroy() {
	if s.destroyed.CompareAndSwap(0, 1) {
		if s.calls.Add(-1) == -1 {
			s.free()
		}
	}
}

func (s *rawSession) free() {
	s.gen.Add(1)
	s.engine.Destroy(s.handle)
	s.metrics.destroy()
	s.log.Debug("tdjson: session destroyed", zap.Uint32("session", s.serial))
}

func (s *rawSession) execute(req Request) (Response, bool, error) {
	if err := s.acquire(); err != nil {
		return Response{}, false, err
	}
	defer s.release()
	gen := s.gen.Add(1)
	s.metrics.call(opExecute)
	return s.borrow(opExecute, gen, s.engine.Execute(s.handle, req.text))
}

func (s *rawSession) send(req Request) error {
	if err := s.acquire(); err != nil {
		return err
	}
	defer s.release()
	s.metrics.call(opSend)
	s.engine.Send(s.handle, req.text)
	return nil
}

func (s *rawSession) receive(timeout time.Duration) (Response, bool, error) {
	if err := s.acquire(); err != nil {
		return Response{}, false, err
	}
	defer s.release()
	gen := s.gen.Add(1)
	s.metrics.call(opReceive)
	return s.borrow(opReceive, gen, s.engine.Receive(s.handle, seconds(timeout)))
}

// borrow wraps engine output produced under generation gen.
func (s *rawSession) borrow(op string, gen uint64, buf []byte) (Response, bool, error) {
	if buf == nil {
		s.metrics.emptyResult(op)
		return Response{}, false, nil
	}
	if !utf8.Valid(buf) {
		err := &DecodeError{Op: op, Serial: s.serial, Offset: invalidOffset(buf)}
		s.log.Error("tdjson: engine contract violation", zap.Uint32("session", s.serial), zap.Error(err))
		return Response{}, false, err
	}
	return Response{buf: buf, gen: gen, s: s}, true, nil
}

// seconds converts timeout to the engine's fractional seconds.
func seconds(timeout time.Duration) float64 {
	if timeout <= 0 {
		return 0
	}
	return timeout.Seconds()
}

func invalidOffset(buf []byte) int {
	for i := 0; i < len(buf); {
		r, size := utf8.DecodeRune(buf[i:])
		if r == utf8.RuneError && size <= 1 {
			return i
		}
		i += size
	}
	return len(buf)
}
