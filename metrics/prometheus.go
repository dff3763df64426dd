// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/xiaodino/minimal-rollup/log"
)

const namespace = "rollup"

var logger = log.WithContext("pkg", "metrics")

// InitializePrometheusMetrics switches the process to prometheus meters.
// Meters already handed out stay no-ops.
func InitializePrometheusMetrics() {
	if _, ok := metrics.(*prometheusMetrics); !ok {
		metrics = &prometheusMetrics{}
	}
}

type prometheusMetrics struct {
	meters sync.Map
}

// getOrCreate returns the meter registered under name, creating and
// registering it on first use.
func getOrCreate[T any](o *prometheusMetrics, name string, create func() (T, prometheus.Collector)) T {
	if m, ok := o.meters.Load(name); ok {
		return m.(T)
	}
	meter, collector := create()
	actual, loaded := o.meters.LoadOrStore(name, meter)
	if !loaded {
		if err := prometheus.Register(collector); err != nil {
			logger.Warn("failed to register metric", "name", name, "err", err)
		}
	}
	return actual.(T)
}

func (o *prometheusMetrics) Counter(name string) CountMeter {
	return getOrCreate(o, name, func() (CountMeter, prometheus.Collector) {
		c := prometheus.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: name})
		return &promCounter{c}, c
	})
}

func (o *prometheusMetrics) CounterVec(name string, labels []string) CountVecMeter {
	return getOrCreate(o, name, func() (CountVecMeter, prometheus.Collector) {
		c := prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: name}, labels)
		return &promCounterVec{c}, c
	})
}

func (o *prometheusMetrics) Gauge(name string) GaugeMeter {
	return getOrCreate(o, name, func() (GaugeMeter, prometheus.Collector) {
		g := prometheus.NewGauge(prometheus.GaugeOpts{Namespace: namespace, Name: name})
		return &promGauge{g}, g
	})
}

func (o *prometheusMetrics) Histogram(name string, buckets []int64) HistogramMeter {
	return getOrCreate(o, name, func() (HistogramMeter, prometheus.Collector) {
		h := prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      name,
			Buckets:   floatBuckets(buckets),
		})
		return &promHistogram{h}, h
	})
}

func (o *prometheusMetrics) HistogramVec(name string, labels []string, buckets []int64) HistogramVecMeter {
	return getOrCreate(o, name, func() (HistogramVecMeter, prometheus.Collector) {
		h := prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      name,
			Buckets:   floatBuckets(buckets),
		}, labels)
		return &promHistogramVec{h}, h
	})
}

func (o *prometheusMetrics) Handler() http.Handler {
	return promhttp.Handler()
}

func floatBuckets(buckets []int64) []float64 {
	if len(buckets) == 0 {
		return nil
	}
	out := make([]float64, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, float64(b))
	}
	return out
}

type promCounter struct{ c prometheus.Counter }

func (p *promCounter) Add(i int64) { p.c.Add(float64(i)) }

type promCounterVec struct{ c *prometheus.CounterVec }

func (p *promCounterVec) AddWithLabel(i int64, labels map[string]string) {
	p.c.With(labels).Add(float64(i))
}

type promGauge struct{ g prometheus.Gauge }

func (p *promGauge) Add(i int64) { p.g.Add(float64(i)) }
func (p *promGauge) Set(i int64) { p.g.Set(float64(i)) }

type promHistogram struct{ h prometheus.Histogram }

func (p *promHistogram) Observe(i int64) { p.h.Observe(float64(i)) }

type promHistogramVec struct{ h *prometheus.HistogramVec }

func (p *promHistogramVec) ObserveWithLabels(i int64, labels map[string]string) {
	p.h.With(labels).Observe(float64(i))
}
