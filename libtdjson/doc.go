// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package libtdjson binds [tdjson.Engine] and [tdjson.LogEngine] to the TDLib
// JSON client library through cgo.
//
// The binding is compiled only with cgo enabled and the tdjson build tag:
//
//	go build -tags tdjson ./...
//
// libtdjson and its headers must be installed where the C toolchain finds them,
// or CGO_CFLAGS/CGO_LDFLAGS must point at them.
package libtdjson
