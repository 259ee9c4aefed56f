/**
 * Copyright (c) 2022, Xerra Earth Observation Institute.
 * Copyright (c) 2025, Simeon Miteff.
 *
 * See LICENSE.TXT in the root directory of this source tree.
 */

package tcpinfo

import (
	"github.com/docker/docker/pkg/parsers/kernel"
)

// featureSet records which tcp_info fields the running kernel fills in.
// struct tcp_info only ever grows, so each flag implies all earlier ones.
type featureSet struct {
	tcpInfo      bool // v2.6.2, tcp_info itself
	pacing       bool // v3.15, pacing_rate, max_pacing_rate
	byteCounters bool // v4.1, bytes_acked, bytes_received
	segCounters  bool // v4.2, segs_out, segs_in
	notSent      bool // v4.6, notsent_bytes, min_rtt, data_segs_in/out
	deliveryRate bool // v4.9, delivery_rate, delivery_rate_app_limited
	stallTimers  bool // v4.10, busy_time, rwnd_limited, sndbuf_limited
	delivered    bool // v4.18, delivered, delivered_ce
	txByteStats  bool // v4.19, bytes_sent, bytes_retrans, dsack_dups, reord_seen
	oooPackets   bool // v5.4, rcv_ooopack, snd_wnd
	fastOpenFail bool // v5.5, fastopen_client_fail
	rcvWndRehash bool // v6.2, rcv_wnd, rehash
	totalRTO     bool // v6.7, total_rto, total_rto_recoveries, total_rto_time
}

type versionGate struct {
	version kernel.VersionInfo
	size    int // bytes of struct tcp_info the kernel returns
	enable  func(*featureSet)
}

var versionGates = []versionGate{
	{kernel.VersionInfo{Kernel: 2, Major: 6, Minor: 2}, 104, func(f *featureSet) { f.tcpInfo = true }},
	{kernel.VersionInfo{Kernel: 3, Major: 15}, 120, func(f *featureSet) { f.pacing = true }},
	{kernel.VersionInfo{Kernel: 4, Major: 1}, 136, func(f *featureSet) { f.byteCounters = true }},
	{kernel.VersionInfo{Kernel: 4, Major: 2}, 144, func(f *featureSet) { f.segCounters = true }},
	{kernel.VersionInfo{Kernel: 4, Major: 6}, 160, func(f *featureSet) { f.notSent = true }},
	{kernel.VersionInfo{Kernel: 4, Major: 9}, 168, func(f *featureSet) { f.deliveryRate = true }},
	{kernel.VersionInfo{Kernel: 4, Major: 10}, 192, func(f *featureSet) { f.stallTimers = true }},
	{kernel.VersionInfo{Kernel: 4, Major: 18}, 200, func(f *featureSet) { f.delivered = true }},
	{kernel.VersionInfo{Kernel: 4, Major: 19}, 224, func(f *featureSet) { f.txByteStats = true }},
	{kernel.VersionInfo{Kernel: 5, Major: 4}, 232, func(f *featureSet) { f.oooPackets = true }},
	{kernel.VersionInfo{Kernel: 5, Major: 5}, 232, func(f *featureSet) { f.fastOpenFail = true }},
	{kernel.VersionInfo{Kernel: 6, Major: 2}, 240, func(f *featureSet) { f.rcvWndRehash = true }},
	{kernel.VersionInfo{Kernel: 6, Major: 7}, 248, func(f *featureSet) { f.totalRTO = true }},
}

var (
	hostVersion *kernel.VersionInfo
	features    featureSet
	rawInfoSize int
)

// applyVersion recomputes the feature set and getsockopt length for
// hostVersion. Called once at init on Linux, and again by tests that
// override hostVersion.
func applyVersion() {
	features = featureSet{}
	rawInfoSize = 0

	for _, g := range versionGates {
		if kernel.CompareKernelVersion(*hostVersion, g.version) < 0 {
			break
		}
		g.enable(&features)
		rawInfoSize = g.size
	}
}
