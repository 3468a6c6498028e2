// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package tdjson

// Handle is the opaque session token issued by an [Engine].
type Handle uintptr

// Engine is the foreign session API consumed by this package.
//
// Execute and Receive return borrowed engine memory: the slice is valid only
// until the next Execute or Receive on the same handle. A nil slice means the
// engine had no answer, which is distinct from an empty answer.
//
// Send may be called concurrently with itself and with Receive. Receive must
// not be called concurrently with another Receive on the same handle. Destroy
// must be called exactly once per handle and never while another call on that
// handle is in flight. Requests never contain a NUL byte.
type Engine interface {
	Create() Handle
	Execute(h Handle, request string) []byte
	Send(h Handle, request string)
	Receive(h Handle, timeout float64) []byte
	Destroy(h Handle)
}

// LogEngine is the engine's process-wide log configuration.
type LogEngine interface {
	SetLogFilePath(path string) bool
	SetLogVerbosityLevel(level int)
}
