/**
 * Copyright (c) 2022, Xerra Earth Observation Institute.
 * Copyright (c) 2025, Simeon Miteff.
 *
 * See LICENSE.TXT in the root directory of this source tree.
 */

package exporter

import (
	"reflect"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/simeonmiteff/tcpstats/pkg/tcpinfo"
)

// metric binds a Prometheus descriptor to the tcpinfo.Info field it is
// sourced from.
type metric struct {
	desc      *prometheus.Desc
	fieldIdx  int
	valueType prometheus.ValueType
}

// buildMetrics constructs one descriptor per tagged tcpinfo.Info field by
// reflecting over its tcpi/prom/help struct tags.
func buildMetrics(prefix string, connLabels []string, constLabels prometheus.Labels) []metric {
	t := reflect.TypeOf(tcpinfo.Info{})

	metrics := make([]metric, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)

		name, ok := f.Tag.Lookup("tcpi")
		if !ok {
			continue
		}

		valueType := prometheus.GaugeValue
		if f.Tag.Get("prom") == "counter" {
			valueType = prometheus.CounterValue
		}

		metrics = append(metrics, metric{
			desc: prometheus.NewDesc(
				prometheus.BuildFQName(prefix, "", name),
				f.Tag.Get("help"),
				connLabels,
				constLabels,
			),
			fieldIdx:  i,
			valueType: valueType,
		})
	}

	return metrics
}

// value extracts the field as a float64. The second return is false when the
// field is a nullable the running kernel does not report, in which case no
// sample is emitted.
func (m metric) value(info *tcpinfo.Info) (float64, bool) {
	switch v := reflect.ValueOf(info).Elem().Field(m.fieldIdx).Interface().(type) {
	case uint8:
		return float64(v), true
	case uint16:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	case tcpinfo.NullableBool:
		if !v.Valid {
			return 0, false
		}
		if v.Value {
			return 1, true
		}
		return 0, true
	case tcpinfo.NullableUint8:
		return float64(v.Value), v.Valid
	case tcpinfo.NullableUint16:
		return float64(v.Value), v.Valid
	case tcpinfo.NullableUint32:
		return float64(v.Value), v.Valid
	case tcpinfo.NullableUint64:
		return float64(v.Value), v.Valid
	}
	return 0, false
}

func (m metric) sample(info *tcpinfo.Info, labelValues []string) (prometheus.Metric, bool) {
	v, ok := m.value(info)
	if !ok {
		return nil, false
	}
	return prometheus.MustNewConstMetric(m.desc, m.valueType, v, labelValues...), true
}
