/**
 * Copyright (c) 2022, Xerra Earth Observation Institute.
 * Copyright (c) 2025, Simeon Miteff.
 *
 * See LICENSE.TXT in the root directory of this source tree.
 */

// Package tcpstats wraps a net.Conn to track transfer statistics and capture
// kernel tcp_info snapshots on open and close, reporting both through a
// caller-supplied callback.
package tcpstats

import (
	"context"
	"net"
	"time"

	"github.com/simeonmiteff/tcpstats/pkg/tcpinfo"
)

const (
	Opened = 0
	Closed = 1
)

var StateMap = map[int]string{
	Opened: "open",
	Closed: "close",
}

// ReportFn receives the wrapped connection when it is opened and again when
// it is closed.
type ReportFn func(c *Conn, state int)

type Conn struct {
	net.Conn `json:"-"`
	Context  context.Context `json:"-"`

	report          ReportFn      `json:"-"`
	OpenedAt        int64         `json:"openedAt,omitempty"`
	ClosedAt        int64         `json:"closedAt,omitempty"`
	FirstRxAt       int64         `json:"firstRxAt,omitempty"`
	FirstTxAt       int64         `json:"firstTxAt,omitempty"`
	LastRxAt        int64         `json:"lastRxAt,omitempty"`
	LastTxAt        int64         `json:"lastTxAt,omitempty"`
	TxBytes         int64         `json:"txBytes"`
	RxBytes         int64         `json:"rxBytes"`
	RxErr           error         `json:"rxErr,omitempty"`
	TxErr           error         `json:"txErr,omitempty"`
	InfoErr         error         `json:"infoErr,omitempty"`
	Attempts        int           `json:"attempts,omitempty"`
	OpenedInfo      *tcpinfo.Info `json:"openedInfo,omitempty"`
	ClosedInfo      *tcpinfo.Info `json:"closedInfo,omitempty"`
	supportsTCPInfo bool
	openReported    bool
	closeReported   bool
}

// Wrap wraps the given net.Conn, triggers an immediate report in the Opened
// state, and returns the wrapped connection. Reads and writes are tracked and
// a final report is triggered on Close. Separate tcp_info snapshots are taken
// on the open and close events.
func Wrap(nc net.Conn, report ReportFn) net.Conn {
	return WrapContext(context.Background(), nc, report)
}

// WrapContext is Wrap with a caller-supplied context, carried on the wrapped
// connection for the report callback's use.
func WrapContext(ctx context.Context, nc net.Conn, report ReportFn) net.Conn {
	w := &Conn{
		Conn:            nc,
		Context:         ctx,
		report:          report,
		OpenedAt:        time.Now().UnixNano(),
		supportsTCPInfo: tcpinfo.Supported(),
	}
	w.snapshotAndReport(Opened)
	return w
}

func (w *Conn) snapshotAndReport(state int) {
	if w.report == nil {
		return
	}

	// Each of the two events is reported at most once.
	switch state {
	case Opened:
		if w.openReported {
			return
		}
		w.openReported = true
	case Closed:
		if w.closeReported {
			return
		}
		w.closeReported = true
	default:
		return
	}

	// The report fires regardless of whether the snapshot succeeded.
	defer w.report(w, state)

	if !w.supportsTCPInfo || w.InfoErr != nil {
		return
	}

	tcpConn, ok := w.Conn.(*net.TCPConn)
	if !ok {
		return
	}

	rawConn, err := tcpConn.SyscallConn()
	if err != nil {
		return
	}

	var info *tcpinfo.Info
	ctlErr := rawConn.Control(func(fd uintptr) {
		info, err = tcpinfo.GetTCPInfo(fd)
	})
	if ctlErr != nil {
		err = ctlErr
	}
	if err != nil {
		w.InfoErr = err
		return
	}

	if state == Opened {
		w.OpenedInfo = info
		return
	}
	w.ClosedInfo = info
}

// SetConnectionAttempts stores the number of attempts that were needed to
// open this connection. Managed by the caller, reported in the final stats.
func (w *Conn) SetConnectionAttempts(attempts int) {
	w.Attempts = attempts
}

// Close triggers the Closed report before closing the underlying connection.
func (w *Conn) Close() error {
	w.ClosedAt = time.Now().UnixNano()
	w.snapshotAndReport(Closed)
	return w.Conn.Close()
}

// Read wraps the underlying Read and tracks the bytes received.
func (w *Conn) Read(b []byte) (int, error) {
	n, err := w.Conn.Read(b)
	if err == nil && n > 0 {
		ts := time.Now().UnixNano()
		if w.FirstRxAt == 0 {
			w.FirstRxAt = ts
		}
		w.LastRxAt = ts
	}
	w.RxBytes += int64(n)
	if err, ok := err.(net.Error); ok && !err.Timeout() {
		w.RxErr = err
	}
	return n, err
}

// Write wraps the underlying Write and tracks the bytes sent.
func (w *Conn) Write(b []byte) (int, error) {
	n, err := w.Conn.Write(b)
	if err == nil && n > 0 {
		ts := time.Now().UnixNano()
		if w.FirstTxAt == 0 {
			w.FirstTxAt = ts
		}
		w.LastTxAt = ts
	}
	w.TxBytes += int64(n)
	if err, ok := err.(net.Error); ok && !err.Timeout() {
		w.TxErr = err
	}
	return n, err
}
