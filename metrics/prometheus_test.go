// Copyright (c) 2025 The StakeHive developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// #nosec G404
package metrics

import (
	"math/rand"
	"strconv"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	dto "github.com/prometheus/client_model/go"
)

func TestPromMetrics(t *testing.T) {
	InitializePrometheusMetrics()

	// 2 ways of accessing it - useful to avoid lookups
	count1 := Counter("count1")
	Counter("count2")
	countVec := CounterVec("countVec1", []string{"zeroOrOne"})

	hist := Histogram("hist1", nil)
	HistogramVec("hist2", []string{"zeroOrOne"}, nil)

	gauge1 := Gauge("gauge1")
	gaugeVec := GaugeVec("gaugeVec1", []string{"zeroOrOne"})

	count1.Add(1)
	randCount2 := rand.Intn(100) + 1
	for j := 0; j < randCount2; j++ {
		Counter("count2").Add(1)
	}

	histTotal := 0
	histCount := rand.Intn(100) + 2
	for i := 0; i < histCount; i++ {
		zeroOrOne := i % 2
		hist.Observe(int64(i))
		HistogramVec("hist2", []string{"zeroOrOne"}, nil).
			ObserveWithLabels(int64(i), map[string]string{"zeroOrOne": strconv.Itoa(zeroOrOne)})
		histTotal += i
	}

	totalCountVec := 0
	countVecN := rand.Intn(100) + 2
	for i := 0; i < countVecN; i++ {
		zeroOrOne := i % 2
		countVec.AddWithLabel(int64(i), map[string]string{"zeroOrOne": strconv.Itoa(zeroOrOne)})
		totalCountVec += i
	}

	gauge1.Set(100)
	gauge1.Add(-1)
	gaugeVec.SetWithLabel(5, map[string]string{"zeroOrOne": "0"})
	gaugeVec.AddWithLabel(2, map[string]string{"zeroOrOne": "0"})

	mfs, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)

	byName := make(map[string]*dto.MetricFamily)
	for _, mf := range mfs {
		byName[mf.GetName()] = mf
	}

	require.Equal(t, float64(1), byName[namespace+"_count1"].GetMetric()[0].GetCounter().GetValue())
	require.Equal(t, float64(randCount2), byName[namespace+"_count2"].GetMetric()[0].GetCounter().GetValue())

	var countVecTotal float64
	for _, m := range byName[namespace+"_countVec1"].GetMetric() {
		countVecTotal += m.GetCounter().GetValue()
	}
	require.Equal(t, float64(totalCountVec), countVecTotal)

	require.Equal(t, float64(histTotal), byName[namespace+"_hist1"].GetMetric()[0].GetHistogram().GetSampleSum())
	require.Equal(t, float64(99), byName[namespace+"_gauge1"].GetMetric()[0].GetGauge().GetValue())
	require.Equal(t, float64(7), byName[namespace+"_gaugeVec1"].GetMetric()[0].GetGauge().GetValue())
}

func TestLazyLoad(t *testing.T) {
	calls := 0
	meter := LazyLoadCounter("lazyCount1")
	_ = meter
	loaded := LazyLoad(func() CountMeter {
		calls++
		return Counter("lazyCount2")
	})
	loaded()
	loaded()
	require.Equal(t, 1, calls)
}
