// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build cgo && tdjson

package libtdjson

/*
#cgo LDFLAGS: -ltdjson
#include <stdlib.h>
#include <string.h>
#include <td/telegram/td_json_client.h>
#include <td/telegram/td_log.h>
*/
import "C"

import (
	"sync"
	"unsafe"

	"code.hybscloud.com/tdjson"
)

// Engine calls into libtdjson. The zero Engine is ready to use and all
// Engines share the library's process-wide state.
type Engine struct{}

var (
	_ tdjson.Engine    = Engine{}
	_ tdjson.LogEngine = Engine{}
)

// clients maps handles to client pointers so that no C pointer is ever
// round-tripped through an integer.
var clients struct {
	sync.RWMutex
	next tdjson.Handle
	ptr  map[tdjson.Handle]unsafe.Pointer
}

func client(h tdjson.Handle) unsafe.Pointer {
	clients.RLock()
	p, ok := clients.ptr[h]
	clients.RUnlock()
	if !ok {
		panic("libtdjson: unknown client handle")
	}
	return p
}

// Create implements [tdjson.Engine].
func (Engine) Create() tdjson.Handle {
	p := C.td_json_client_create()
	clients.Lock()
	defer clients.Unlock()
	if clients.ptr == nil {
		clients.ptr = make(map[tdjson.Handle]unsafe.Pointer)
	}
	clients.next++
	clients.ptr[clients.next] = p
	return clients.next
}

// Destroy implements [tdjson.Engine].
func (Engine) Destroy(h tdjson.Handle) {
	clients.Lock()
	p, ok := clients.ptr[h]
	delete(clients.ptr, h)
	clients.Unlock()
	if !ok {
		panic("libtdjson: client destroyed twice")
	}
	C.td_json_client_destroy(p)
}

// Execute implements [tdjson.Engine].
func (Engine) Execute(h tdjson.Handle, request string) []byte {
	creq := C.CString(request)
	defer C.free(unsafe.Pointer(creq))
	return borrow(C.td_json_client_execute(client(h), creq))
}

// Send implements [tdjson.Engine].
func (Engine) Send(h tdjson.Handle, request string) {
	creq := C.CString(request)
	defer C.free(unsafe.Pointer(creq))
	C.td_json_client_send(client(h), creq)
}

// Receive implements [tdjson.Engine].
func (Engine) Receive(h tdjson.Handle, timeout float64) []byte {
	return borrow(C.td_json_client_receive(client(h), C.double(timeout)))
}

// borrow views the library-owned answer without copying it.
func borrow(answer *C.char) []byte {
	if answer == nil {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(answer)), int(C.strlen(answer)))
}

// SetLogFilePath implements [tdjson.LogEngine].
func (Engine) SetLogFilePath(path string) bool {
	cpath := C.CString(path)
	defer C.free(unsafe.Pointer(cpath))
	return C.td_set_log_file_path(cpath) == 1
}

// SetLogVerbosityLevel implements [tdjson.LogEngine].
func (Engine) SetLogVerbosityLevel(level int) {
	C.td_set_log_verbosity_level(C.int(level))
}
