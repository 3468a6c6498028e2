// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build cgo && tdjson

package main

import (
	"code.hybscloud.com/tdjson/internal/config"
	"code.hybscloud.com/tdjson/libtdjson"
)

const engineName = "libtdjson"

func newEngine(config.Config) engine {
	return libtdjson.Engine{}
}
