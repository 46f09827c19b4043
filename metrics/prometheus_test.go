// Copyright (c) 2026 The Ori developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import (
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dto "github.com/prometheus/client_model/go"
)

func gather(t *testing.T) map[string]*dto.MetricFamily {
	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)

	out := make(map[string]*dto.MetricFamily)
	for _, mf := range families {
		out[mf.GetName()] = mf
	}
	return out
}

func labelValue(m *dto.Metric, name string) string {
	for _, l := range m.GetLabel() {
		if l.GetName() == name {
			return l.GetValue()
		}
	}
	return ""
}

func TestPromMetrics(t *testing.T) {
	InitializePrometheusMetrics()

	count := Counter("count1")
	countVec := CounterVec("count_vec1", []string{"parity"})
	gauge := Gauge("gauge1")
	gaugeVec := GaugeVec("gauge_vec1", []string{"parity"})
	hist := Histogram("hist1", Bucket10s)
	histVec := HistogramVec("hist_vec1", []string{"parity"}, nil)

	count.Add(1)
	for range 9 {
		Counter("count1").Add(1)
	}

	var sum [2]int64
	for i := range int64(20) {
		parity := map[string]string{"parity": strconv.Itoa(int(i % 2))}
		countVec.AddWithLabel(i, parity)
		gaugeVec.AddWithLabel(i, parity)
		hist.Observe(i)
		histVec.ObserveWithLabels(i, parity)
		sum[i%2] += i
	}
	gauge.Set(42)
	gauge.Add(-2)
	gaugeVec.SetWithLabel(7, map[string]string{"parity": "2"})

	metrics := gather(t)

	require.Contains(t, metrics, "ori_count1")
	assert.Equal(t, float64(10), metrics["ori_count1"].Metric[0].GetCounter().GetValue())
	assert.Equal(t, float64(40), metrics["ori_gauge1"].Metric[0].GetGauge().GetValue())
	assert.Equal(t, float64(sum[0]+sum[1]), metrics["ori_hist1"].Metric[0].GetHistogram().GetSampleSum())
	assert.Equal(t, uint64(20), metrics["ori_hist1"].Metric[0].GetHistogram().GetSampleCount())

	for _, m := range metrics["ori_count_vec1"].Metric {
		p, _ := strconv.Atoi(labelValue(m, "parity"))
		assert.Equal(t, float64(sum[p]), m.GetCounter().GetValue())
	}

	gauges := make(map[string]float64)
	for _, m := range metrics["ori_gauge_vec1"].Metric {
		gauges[labelValue(m, "parity")] = m.GetGauge().GetValue()
	}
	assert.Equal(t, map[string]float64{
		"0": float64(sum[0]),
		"1": float64(sum[1]),
		"2": 7,
	}, gauges)

	for _, m := range metrics["ori_hist_vec1"].Metric {
		p, _ := strconv.Atoi(labelValue(m, "parity"))
		assert.Equal(t, float64(sum[p]), m.GetHistogram().GetSampleSum())
		assert.Equal(t, uint64(10), m.GetHistogram().GetSampleCount())
	}

	// re-initializing keeps the registered meters
	InitializePrometheusMetrics()
	Counter("count1").Add(1)
	assert.Equal(t, float64(11), gather(t)["ori_count1"].Metric[0].GetCounter().GetValue())
}

func TestLazyLoading(t *testing.T) {
	InitializePrometheusMetrics()

	lazy := LazyLoadCounter("lazy_count")
	assert.NotContains(t, gather(t), "ori_lazy_count")

	lazy().Add(3)
	lazy().Add(2)
	assert.Equal(t, float64(5), gather(t)["ori_lazy_count"].Metric[0].GetCounter().GetValue())

	gv := LazyLoadGaugeVec("lazy_gauge_vec", []string{"k"})
	gv().SetWithLabel(9, map[string]string{"k": "v"})
	assert.Equal(t, float64(9), gather(t)["ori_lazy_gauge_vec"].Metric[0].GetGauge().GetValue())
}

func TestHandler(t *testing.T) {
	InitializePrometheusMetrics()
	Counter("handler_count").Add(1)

	rec := httptest.NewRecorder()
	HTTPHandler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	assert.Equal(t, 200, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "ori_handler_count 1"))
}

func TestNoop(t *testing.T) {
	m := defaultNoopMetrics()
	assert.Nil(t, m.GetOrCreateHandler())

	assert.NotPanics(t, func() {
		m.GetOrCreateCountMeter("a").Add(1)
		m.GetOrCreateCountVecMeter("b", nil).AddWithLabel(1, nil)
		m.GetOrCreateGaugeMeter("c").Set(1)
		m.GetOrCreateGaugeVecMeter("d", nil).SetWithLabel(1, nil)
		m.GetOrCreateHistogramMeter("e", nil).Observe(1)
		m.GetOrCreateHistogramVecMeter("f", nil, nil).ObserveWithLabels(1, nil)
	})
}
