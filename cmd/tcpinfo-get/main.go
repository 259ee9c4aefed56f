/**
 * Copyright (c) 2022, Xerra Earth Observation Institute.
 * Copyright (c) 2025, Simeon Miteff.
 *
 * See LICENSE.TXT in the root directory of this source tree.
 */

// tcpinfo-get dials a TCP endpoint and dumps the socket's unpacked tcp_info
// as JSON.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"net"
	"time"

	"github.com/higebu/netfd"
	"github.com/sirupsen/logrus"

	"github.com/simeonmiteff/tcpstats/pkg/tcpinfo"
)

func main() {
	timeout := flag.Duration("timeout", 5*time.Second, "dial timeout")
	flag.Parse()

	target := "golang.org:443"
	if flag.NArg() > 0 {
		target = flag.Arg(0)
	}

	if !tcpinfo.Supported() {
		logrus.Fatal("tcp_info is not supported on this platform")
	}

	conn, err := net.DialTimeout("tcp", target, *timeout)
	if err != nil {
		logrus.WithError(err).WithField("target", target).Fatal("dial failed")
	}
	defer conn.Close()

	info, err := tcpinfo.GetTCPInfo(uintptr(netfd.GetFdFromConn(conn)))
	if err != nil {
		logrus.WithError(err).Fatal("reading tcp_info failed")
	}

	b, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		logrus.WithError(err).Fatal("encoding tcp_info failed")
	}

	fmt.Println(string(b))
}
