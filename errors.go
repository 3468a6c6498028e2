// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package tdjson

import (
	"errors"
	"strconv"
)

var (
	// ErrNulByte reports a request that contains a NUL byte and therefore
	// cannot cross the engine boundary.
	ErrNulByte = errors.New("tdjson: request contains NUL byte")

	// ErrInvalidUTF8 reports engine output that is not valid UTF-8.
	// It indicates a broken engine contract and is never retried.
	ErrInvalidUTF8 = errors.New("tdjson: engine returned invalid UTF-8")

	// ErrClosed is returned by operations on a closed session or capability.
	ErrClosed = errors.New("tdjson: session closed")

	// ErrSplit is returned by operations on a client consumed by Split.
	ErrSplit = errors.New("tdjson: client already split")

	// ErrBusy is returned when execute or receive overlaps another execute or
	// receive through the same handle.
	ErrBusy = errors.New("tdjson: execute or receive already in flight")
)

// RequestError describes a request rejected before reaching the engine.
type RequestError struct {
	// Offset is the byte offset of the first NUL.
	Offset int
}

func (e *RequestError) Error() string {
	return ErrNulByte.Error() + " at offset " + strconv.Itoa(e.Offset)
}

func (e *RequestError) Unwrap() error { return ErrNulByte }

// DecodeError describes engine output that failed UTF-8 validation.
type DecodeError struct {
	Op     string
	Serial Serial
	// Offset is the byte offset of the first invalid sequence.
	Offset int
}

func (e *DecodeError) Error() string {
	return "tdjson: " + e.Op + " on session " + strconv.FormatUint(uint64(e.Serial), 10) +
		": invalid UTF-8 at offset " + strconv.Itoa(e.Offset)
}

func (e *DecodeError) Unwrap() error { return ErrInvalidUTF8 }
