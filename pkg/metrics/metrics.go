// Package metrics 以Prometheus格式导出每个目标的采样统计
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/Kevin-Rudy/pingplot/pkg/core"
)

const namespace = "pingplot"

// Collector 按目标统计发送数、丢失数和延迟分布
type Collector struct {
	sent    *prometheus.CounterVec
	lost    *prometheus.CounterVec
	latency *prometheus.HistogramVec
	last    *prometheus.GaugeVec
}

// NewCollector 创建新的Collector
func NewCollector() *Collector {
	return &Collector{
		sent: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "probe",
				Name:      "sent_total",
				Help:      "The total number of probes sent.",
			},
			[]string{"target"},
		),
		lost: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "probe",
				Name:      "lost_total",
				Help:      "The total number of probes without a reply.",
			},
			[]string{"target"},
		),
		latency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "probe",
				Name:      "latency_milliseconds",
				Help:      "Round trip latency of answered probes.",
				Buckets:   []float64{1, 2, 5, 10, 20, 50, 100, 200, 500, 1000, 2000},
			},
			[]string{"target"},
		),
		last: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "probe",
				Name:      "last_latency_milliseconds",
				Help:      "Latency of the most recent answered probe.",
			},
			[]string{"target"},
		),
	}
}

// Observe 记录一个样本，缺失值计为丢失
func (c *Collector) Observe(s core.Sample) {
	c.sent.WithLabelValues(s.Target).Inc()

	v, ok := s.Value.Get()
	if !ok {
		c.lost.WithLabelValues(s.Target).Inc()
		return
	}
	c.latency.WithLabelValues(s.Target).Observe(v)
	c.last.WithLabelValues(s.Target).Set(v)
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	c.sent.Describe(ch)
	c.lost.Describe(ch)
	c.latency.Describe(ch)
	c.last.Describe(ch)
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.sent.Collect(ch)
	c.lost.Collect(ch)
	c.latency.Collect(ch)
	c.last.Collect(ch)
}

// Totals 是单个目标的计数快照
type Totals struct {
	Sent uint64
	Lost uint64
}

// LossRate 返回丢包率（百分比）
func (t Totals) LossRate() float64 {
	if t.Sent == 0 {
		return 0
	}
	return float64(t.Lost) / float64(t.Sent) * 100
}

// Snapshot 返回每个目标当前的发送和丢失计数
func (c *Collector) Snapshot() map[string]Totals {
	res := make(map[string]Totals)

	read := func(vec *prometheus.CounterVec, set func(*Totals, uint64)) {
		ch := make(chan prometheus.Metric)
		go func() {
			vec.Collect(ch)
			close(ch)
		}()

		for m := range ch {
			var content dto.Metric
			if err := m.Write(&content); err != nil {
				continue
			}

			var target string
			for _, l := range content.GetLabel() {
				if l.GetName() == "target" {
					target = l.GetValue()
				}
			}

			t := res[target]
			set(&t, uint64(content.GetCounter().GetValue()))
			res[target] = t
		}
	}

	read(c.sent, func(t *Totals, v uint64) { t.Sent = v })
	read(c.lost, func(t *Totals, v uint64) { t.Lost = v })

	return res
}

// check interfaces
var (
	_ prometheus.Collector = (*Collector)(nil)
)
