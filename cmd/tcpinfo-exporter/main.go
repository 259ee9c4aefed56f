/**
 * Copyright (c) 2022, Xerra Earth Observation Institute.
 * Copyright (c) 2025, Simeon Miteff.
 *
 * See LICENSE.TXT in the root directory of this source tree.
 */

// tcpinfo-exporter serves files over HTTP and exports per-connection
// tcp_info metrics on /metrics. Each connection is labelled with a unique id
// and the remote host.
package main

import (
	"flag"
	"net"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/xid"
	"github.com/sirupsen/logrus"

	"github.com/simeonmiteff/tcpstats/pkg/exporter"
)

func main() {
	listen := flag.String("listen", ":18080", "listen address")
	webRoot := flag.String("webroot", ".", "directory to serve under /files/")
	flag.Parse()

	log := logrus.StandardLogger()

	hostname, err := os.Hostname()
	if err != nil {
		log.WithError(err).Fatal("resolving hostname failed")
	}

	if _, err := os.Stat(*webRoot); err != nil {
		log.WithError(err).WithField("webroot", *webRoot).Fatal("webroot is not accessible")
	}

	collector := exporter.NewCollector(
		"tcpinfo",
		[]string{"id", "remote_host"},
		prometheus.Labels{
			"app":      "tcpinfo-exporter",
			"hostname": hostname,
		},
		log,
	)
	prometheus.MustRegister(collector)

	fs := http.FileServer(http.Dir(*webRoot))
	http.Handle("/files/", http.StripPrefix("/files", fs))
	http.Handle("/metrics", promhttp.Handler())

	server := http.Server{
		Addr: *listen,
		ConnState: func(conn net.Conn, state http.ConnState) {
			switch state {
			case http.StateNew:
				log.WithField("remote", conn.RemoteAddr()).Debug("tracking connection")
				collector.Add(conn, []string{xid.New().String(), conn.RemoteAddr().String()})
			case http.StateClosed:
				collector.Remove(conn)
			}
		},
	}

	log.WithField("listen", *listen).Info("serving")
	if err := server.ListenAndServe(); err != nil {
		log.WithError(err).Fatal("server exited")
	}
}
