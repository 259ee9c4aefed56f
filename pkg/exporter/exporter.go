/**
 * Copyright (c) 2022, Xerra Earth Observation Institute.
 * Copyright (c) 2025, Simeon Miteff.
 *
 * See LICENSE.TXT in the root directory of this source tree.
 */

// Package exporter exposes per-connection tcp_info fields as Prometheus
// metrics. Connections are registered with label values and sampled on every
// scrape; connections whose statistics can no longer be read are evicted.
package exporter

import (
	"net"
	"sync"

	"github.com/higebu/netfd"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/simeonmiteff/tcpstats/pkg/tcpinfo"
)

type connEntry struct {
	fd     int
	labels []string
}

// Collector implements prometheus.Collector over a set of registered
// connections.
type Collector struct {
	mu      sync.Mutex
	conns   map[net.Conn]connEntry
	log     logrus.FieldLogger
	metrics []metric
}

// NewCollector builds a collector with one metric per tagged tcpinfo.Info
// field. connLabels are declared up front; their values are supplied per
// connection in Add. constLabels are fixed for the life of the process.
func NewCollector(
	prefix string,
	connLabels []string,
	constLabels prometheus.Labels,
	log logrus.FieldLogger,
) *Collector {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Collector{
		conns:   make(map[net.Conn]connEntry),
		log:     log,
		metrics: buildMetrics(prefix, connLabels, constLabels),
	}
}

// Add registers a connection for sampling. labelValues must match the
// connLabels the collector was built with.
func (c *Collector) Add(conn net.Conn, labelValues []string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.conns[conn] = connEntry{
		fd:     netfd.GetFdFromConn(conn),
		labels: labelValues,
	}
}

// Remove unregisters a connection.
func (c *Collector) Remove(conn net.Conn) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.conns, conn)
}

func (c *Collector) Describe(descs chan<- *prometheus.Desc) {
	for _, m := range c.metrics {
		descs <- m.desc
	}
}

func (c *Collector) Collect(metrics chan<- prometheus.Metric) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for conn, entry := range c.conns {
		info, err := tcpinfo.GetTCPInfo(uintptr(entry.fd))
		if err != nil {
			c.log.WithError(err).
				WithField("local", conn.LocalAddr()).
				WithField("remote", conn.RemoteAddr()).
				Warn("removing connection: tcp_info unavailable")

			delete(c.conns, conn)
			continue
		}

		for _, m := range c.metrics {
			if sample, ok := m.sample(info, entry.labels); ok {
				metrics <- sample
			}
		}
	}
}
