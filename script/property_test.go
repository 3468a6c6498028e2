// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package script_test

import (
	"errors"
	"strings"
	"testing"
	"testing/quick"

	"code.hybscloud.com/kont"
	"code.hybscloud.com/tdjson"
	"code.hybscloud.com/tdjson/loopback"
	"code.hybscloud.com/tdjson/script"
)

// TestPropertyExecuteEcho proves that for any generated request text the
// script either gets the exact text back or, if the text contains NUL, fails
// before the engine is called.
func TestPropertyExecuteEcho(t *testing.T) {
	propertyEcho := func(request string) bool {
		e := loopback.New(loopback.Options{})
		c := tdjson.New(e)
		defer c.Close()

		got, err := script.Exec(c, script.ExecuteBind(request, func(r script.Reply) kont.Eff[script.Reply] {
			return kont.Pure(r)
		}))
		if strings.IndexByte(request, 0) >= 0 {
			return errors.Is(err, tdjson.ErrNulByte) && e.Calls() == 0
		}
		return err == nil && got.OK && got.Text == request
	}

	if err := quick.Check(propertyEcho, nil); err != nil {
		t.Error(err)
	}
}
