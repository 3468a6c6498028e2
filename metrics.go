// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package tdjson

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	opExecute = "execute"
	opSend    = "send"
	opReceive = "receive"
)

// metrics holds the collectors shared by every session created with the same
// registerer. A nil *metrics records nothing.
type metrics struct {
	calls     *prometheus.CounterVec
	empty     *prometheus.CounterVec
	live      prometheus.Gauge
	destroyed prometheus.Counter
}

func newMetrics(reg prometheus.Registerer) (*metrics, error) {
	if reg == nil {
		return nil, nil
	}
	m := &metrics{
		calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tdjson_calls_total",
			Help: "Engine calls issued, by operation.",
		}, []string{"op"}),
		empty: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tdjson_empty_results_total",
			Help: "Execute and receive calls that returned no answer.",
		}, []string{"op"}),
		live: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "tdjson_sessions_live",
			Help: "Sessions created and not yet destroyed.",
		}),
		destroyed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tdjson_sessions_destroyed_total",
			Help: "Sessions destroyed.",
		}),
	}
	var err error
	if m.calls, err = register(reg, m.calls); err != nil {
		return nil, err
	}
	if m.empty, err = register(reg, m.empty); err != nil {
		return nil, err
	}
	if m.live, err = register(reg, m.live); err != nil {
		return nil, err
	}
	if m.destroyed, err = register(reg, m.destroyed); err != nil {
		return nil, err
	}
	return m, nil
}

// register registers c, or returns the collector already registered under
// the same descriptor.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

func (m *metrics) call(op string) {
	if m != nil {
		m.calls.WithLabelValues(op).Inc()
	}
}

func (m *metrics) emptyResult(op string) {
	if m != nil {
		m.empty.WithLabelValues(op).Inc()
	}
}

func (m *metrics) created() {
	if m != nil {
		m.live.Inc()
	}
}

func (m *metrics) destroy() {
	if m != nil {
		m.live.Dec()
		m.destroyed.Inc()
	}
}
