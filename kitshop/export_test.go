package kitshop

import "github.com/prometheus/client_golang/prometheus"

func (m *Metrics) Requests() *prometheus.CounterVec {
	return m.requests
}
