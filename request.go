// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package tdjson

import "strings"

// Request is request text known to be free of NUL bytes.
// The zero Request is the empty request.
type Request struct {
	text string
}

// NewRequest validates text for the engine boundary.
// It fails with a [*RequestError] if text contains a NUL byte.
func NewRequest(text string) (Request, error) {
	if i := strings.IndexByte(text, 0); i >= 0 {
		return Request{}, &RequestError{Offset: i}
	}
	return Request{text: text}, nil
}

// String returns the request text.
func (r Request) String() string {
	return r.text
}
