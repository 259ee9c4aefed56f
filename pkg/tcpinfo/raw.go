/**
 * Copyright (c) 2022, Xerra Earth Observation Institute.
 * Copyright (c) 2025, Simeon Miteff.
 *
 * Portions are derived from of Linux's tcp.h, used under the syscall exception
 * (see https://spdx.org/licenses/Linux-syscall-note.html).
 *
 * See LICENSE.TXT in the root directory of this source tree.
 */

package tcpinfo

import "encoding/json"

// Raw has identical memory layout to the Linux kernel's struct tcp_info
// (current as of kernel 6.7). The kernel packs six bitfield members into two
// bytes; they are captured here as bitfield0 and bitfield1 and split by
// Unpack. bitfield1 occupied the same offset even before
// tcpi_delivery_rate_app_limited (v4.9) and tcpi_fastopen_client_fail (v5.5)
// were added, because of alignment rules, so older kernels only change how
// much of the tail of the struct is filled in, never field offsets.
type Raw struct {
	state       uint8 // tcpi_state
	ca_state    uint8 // tcpi_ca_state
	retransmits uint8 // tcpi_retransmits
	probes      uint8 // tcpi_probes
	backoff     uint8 // tcpi_backoff
	options     uint8 // tcpi_options
	bitfield0   uint8 // tcpi_snd_wscale:4, tcpi_rcv_wscale:4
	bitfield1   uint8 // tcpi_delivery_rate_app_limited:1, tcpi_fastopen_client_fail:2

	rto     uint32 // tcpi_rto
	ato     uint32 // tcpi_ato
	snd_mss uint32 // tcpi_snd_mss
	rcv_mss uint32 // tcpi_rcv_mss

	unacked uint32 // tcpi_unacked
	sacked  uint32 // tcpi_sacked
	lost    uint32 // tcpi_lost
	retrans uint32 // tcpi_retrans
	fackets uint32 // tcpi_fackets

	last_data_sent uint32 // tcpi_last_data_sent
	last_ack_sent  uint32 // tcpi_last_ack_sent (never filled in by the kernel)
	last_data_recv uint32 // tcpi_last_data_recv
	last_ack_recv  uint32 // tcpi_last_ack_recv

	pmtu         uint32 // tcpi_pmtu
	rcv_ssthresh uint32 // tcpi_rcv_ssthresh
	rtt          uint32 // tcpi_rtt
	rttvar       uint32 // tcpi_rttvar
	snd_ssthresh uint32 // tcpi_snd_ssthresh
	snd_cwnd     uint32 // tcpi_snd_cwnd
	advmss       uint32 // tcpi_advmss
	reordering   uint32 // tcpi_reordering

	rcv_rtt   uint32 // tcpi_rcv_rtt
	rcv_space uint32 // tcpi_rcv_space

	total_retrans uint32 // tcpi_total_retrans

	pacing_rate     uint64 // tcpi_pacing_rate, v3.15
	max_pacing_rate uint64 // tcpi_max_pacing_rate, v3.15
	bytes_acked     uint64 // tcpi_bytes_acked, v4.1, RFC4898 tcpEStatsAppHCThruOctetsAcked
	bytes_received  uint64 // tcpi_bytes_received, v4.1, RFC4898 tcpEStatsAppHCThruOctetsReceived
	segs_out        uint32 // tcpi_segs_out, v4.2, RFC4898 tcpEStatsPerfSegsOut
	segs_in         uint32 // tcpi_segs_in, v4.2, RFC4898 tcpEStatsPerfSegsIn

	notsent_bytes uint32 // tcpi_notsent_bytes, v4.6
	min_rtt       uint32 // tcpi_min_rtt, v4.6
	data_segs_in  uint32 // tcpi_data_segs_in, v4.6, RFC4898 tcpEStatsDataSegsIn
	data_segs_out uint32 // tcpi_data_segs_out, v4.6, RFC4898 tcpEStatsDataSegsOut

	delivery_rate uint64 // tcpi_delivery_rate, v4.9

	busy_time      uint64 // tcpi_busy_time, v4.10, usec busy sending data
	rwnd_limited   uint64 // tcpi_rwnd_limited, v4.10, usec limited by receive window
	sndbuf_limited uint64 // tcpi_sndbuf_limited, v4.10, usec limited by send buffer

	delivered    uint32 // tcpi_delivered, v4.18
	delivered_ce uint32 // tcpi_delivered_ce, v4.18

	bytes_sent    uint64 // tcpi_bytes_sent, v4.19, RFC4898 tcpEStatsPerfHCDataOctetsOut
	bytes_retrans uint64 // tcpi_bytes_retrans, v4.19, RFC4898 tcpEStatsPerfOctetsRetrans
	dsack_dups    uint32 // tcpi_dsack_dups, v4.19, RFC4898 tcpEStatsStackDSACKDups
	reord_seen    uint32 // tcpi_reord_seen, v4.19

	rcv_ooopack uint32 // tcpi_rcv_ooopack, v5.4
	snd_wnd     uint32 // tcpi_snd_wnd, v5.4, peer's advertised window after scaling (bytes)
	rcv_wnd     uint32 // tcpi_rcv_wnd, v6.2, local advertised window after scaling (bytes)
	rehash      uint32 // tcpi_rehash, v6.2, PLB or timeout triggered rehash attempts

	total_rto            uint16 // tcpi_total_rto, v6.7
	total_rto_recoveries uint16 // tcpi_total_rto_recoveries, v6.7
	total_rto_time       uint32 // tcpi_total_rto_time, v6.7, msec in RTO recoveries
}

// Subfield layout of the two bitfield bytes, per uapi/linux/tcp.h on
// little-endian targets.
const (
	sndWScaleMask = 0x0f

	rcvWScaleShift = 4

	appLimitedBit = 0x01

	fastOpenFailShift = 1
	fastOpenFailMask  = 0x03
)

// Nullable wrappers mark fields that the running kernel is too old to
// report. They marshal to JSON as the bare value, or null when not valid.

type NullableBool struct {
	Valid bool
	Value bool
}

type NullableUint8 struct {
	Valid bool
	Value uint8
}

type NullableUint16 struct {
	Valid bool
	Value uint16
}

type NullableUint32 struct {
	Valid bool
	Value uint32
}

type NullableUint64 struct {
	Valid bool
	Value uint64
}

func (n NullableBool) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.Value)
}

func (n NullableUint8) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.Value)
}

func (n NullableUint16) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.Value)
}

func (n NullableUint32) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.Value)
}

func (n NullableUint64) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.Value)
}
