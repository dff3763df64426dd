// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package metrics exposes process-wide meters. Until prometheus is enabled
// every meter is a no-op, so packages can define meters unconditionally.
package metrics

import (
	"net/http"
	"sync"
)

var metrics Metrics = noopMetrics{}

// Metrics creates and caches meters by name.
type Metrics interface {
	Counter(name string) CountMeter
	CounterVec(name string, labels []string) CountVecMeter
	Gauge(name string) GaugeMeter
	Histogram(name string, buckets []int64) HistogramMeter
	HistogramVec(name string, labels []string, buckets []int64) HistogramVecMeter
	Handler() http.Handler
}

// BucketHTTPReqs are request duration buckets in milliseconds.
var BucketHTTPReqs = []int64{0, 1, 2, 5, 10, 20, 50, 100, 200, 500, 1000, 2000, 5000}

type CountMeter interface {
	Add(int64)
}

type CountVecMeter interface {
	AddWithLabel(int64, map[string]string)
}

type GaugeMeter interface {
	Add(int64)
	Set(int64)
}

type HistogramMeter interface {
	Observe(int64)
}

type HistogramVecMeter interface {
	ObserveWithLabels(int64, map[string]string)
}

// HTTPHandler returns the handler serving the collected metrics, or nil when disabled.
func HTTPHandler() http.Handler { return metrics.Handler() }

func Counter(name string) CountMeter { return metrics.Counter(name) }

func CounterVec(name string, labels []string) CountVecMeter { return metrics.CounterVec(name, labels) }

func Gauge(name string) GaugeMeter { return metrics.Gauge(name) }

func Histogram(name string, buckets []int64) HistogramMeter { return metrics.Histogram(name, buckets) }

func HistogramVec(name string, labels []string, buckets []int64) HistogramVecMeter {
	return metrics.HistogramVec(name, labels, buckets)
}

// LazyLoad defers creating a meter to its first use, after the backend has
// been chosen.
func LazyLoad[T any](f func() T) func() T {
	var (
		result T
		once   sync.Once
	)
	return func() T {
		once.Do(func() { result = f() })
		return result
	}
}

func LazyLoadCounter(name string) func() CountMeter {
	return LazyLoad(func() CountMeter { return Counter(name) })
}

func LazyLoadCounterVec(name string, labels []string) func() CountVecMeter {
	return LazyLoad(func() CountVecMeter { return CounterVec(name, labels) })
}

func LazyLoadGauge(name string) func() GaugeMeter {
	return LazyLoad(func() GaugeMeter { return Gauge(name) })
}

func LazyLoadHistogramVec(name string, labels []string, buckets []int64) func() HistogramVecMeter {
	return LazyLoad(func() HistogramVecMeter { return HistogramVec(name, labels, buckets) })
}
