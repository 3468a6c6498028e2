// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package tdjson

const staleResponse = "tdjson: response used after next execute or receive"

// Response is a borrowed view of engine memory returned by execute or receive.
//
// It stays valid until the next execute or receive on the same session,
// whichever capability issues it. Copy the text out with [Response.String] or
// [Response.AppendTo] to keep it longer. Reading a stale Response panics.
type Response struct {
	buf []byte
	gen uint64
	s   *rawSession
}

// Valid reports whether r is still the current answer of its session.
func (r Response) Valid() bool {
	return r.s != nil && r.s.gen.Load() == r.gen
}

// Bytes returns the borrowed bytes. The caller must not retain or modify
// the slice past the next execute or receive on the session.
func (r Response) Bytes() []byte {
	r.check()
	return r.buf
}

// String returns a copy of the response text.
func (r Response) String() string {
	r.check()
	return string(r.buf)
}

// AppendTo appends a copy of the response text to dst.
func (r Response) AppendTo(dst []byte) []byte {
	r.check()
	return append(dst, r.buf...)
}

// Len returns the response length in bytes.
func (r Response) Len() int {
	return len(r.buf)
}

func (r Response) check() {
	if !r.Valid() {
		panic(staleResponse)
	}
}
