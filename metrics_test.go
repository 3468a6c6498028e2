// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package tdjson_test

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"code.hybscloud.com/tdjson"
	"code.hybscloud.com/tdjson/loopback"
)

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	e := loopback.New(loopback.Options{})

	c := tdjson.New(e, tdjson.WithRegisterer(reg))
	// A second session on the same registry shares the collectors.
	other := tdjson.New(e, tdjson.WithRegisterer(reg))

	c.Execute("a")
	c.Send("b")
	c.Receive(time.Second)
	c.Receive(time.Millisecond)

	count, err := testutil.GatherAndCount(reg,
		"tdjson_calls_total", "tdjson_empty_results_total",
		"tdjson_sessions_live", "tdjson_sessions_destroyed_total")
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	// execute, send and receive call series, one empty-result series and the
	// two session metrics.
	if count != 6 {
		t.Fatalf("got %d series, want 6", count)
	}

	c.Close()
	other.Close()

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	values := map[string]float64{}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			key := mf.GetName()
			for _, lp := range m.GetLabel() {
				key += "/" + lp.GetValue()
			}
			switch {
			case m.GetCounter() != nil:
				values[key] = m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				values[key] = m.GetGauge().GetValue()
			}
		}
	}
	want := map[string]float64{
		"tdjson_calls_total/execute":         1,
		"tdjson_calls_total/send":            1,
		"tdjson_calls_total/receive":         2,
		"tdjson_empty_results_total/receive": 1,
		"tdjson_sessions_live":               0,
		"tdjson_sessions_destroyed_total":    2,
	}
	for k, v := range want {
		if values[k] != v {
			t.Fatalf("%s = %v, want %v", k, values[k], v)
		}
	}
}
