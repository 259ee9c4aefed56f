/**
 * Copyright (c) 2022, Xerra Earth Observation Institute.
 * Copyright (c) 2025, Simeon Miteff.
 *
 * See LICENSE.TXT in the root directory of this source tree.
 */

package tcpinfo

// Info is a gopher-style unpacked representation of Raw. The bitfield bytes
// are split into their subfields, and fields the running kernel does not
// report are marked not valid.
//
// The tcpi tag carries the kernel field name, prom the Prometheus metric
// type, and help the metric help text. pkg/exporter reflects over these to
// build its metric descriptors.
type Info struct {
	State                  uint8          `tcpi:"state" prom:"gauge" help:"Connection state, see include/net/tcp_states.h."`
	CAState                uint8          `tcpi:"ca_state" prom:"gauge" help:"Loss recovery state machine, see include/net/tcp.h."`
	Retransmits            uint8          `tcpi:"retransmits" prom:"gauge" help:"RTO based retransmissions at this sequence, reset on forward progress."`
	Probes                 uint8          `tcpi:"probes" prom:"gauge" help:"Consecutive zero window probes that have gone unanswered."`
	Backoff                uint8          `tcpi:"backoff" prom:"gauge" help:"Exponential timeout backoff counter, incremented on RTO."`
	Options                uint8          `tcpi:"options" prom:"gauge" help:"Bit encoded SYN options: TIMESTAMPS 0x1, SACK 0x2, WSCALE 0x4, ECN 0x8."`
	SndWScale              uint8          `tcpi:"snd_wscale" prom:"gauge" help:"Window scaling shift for the send half of the connection."`
	RcvWScale              uint8          `tcpi:"rcv_wscale" prom:"gauge" help:"Window scaling shift for the receive half of the connection."`
	DeliveryRateAppLimited NullableBool   `tcpi:"delivery_rate_app_limited" prom:"gauge" help:"Rate measurements reflect a non-network bottleneck (1.0 = true)."`
	FastOpenClientFail     NullableUint8  `tcpi:"fastopen_client_fail" prom:"gauge" help:"Why TCP fastopen failed: 0 unspecified, 1 no cookie sent, 2 SYN-ACK did not ack SYN data, 3 ditto after timeout."`
	RTO                    uint32         `tcpi:"rto" prom:"gauge" help:"Retransmission timeout in usec."`
	ATO                    uint32         `tcpi:"ato" prom:"gauge" help:"Delayed ACK timeout in usec."`
	SndMSS                 uint32         `tcpi:"snd_mss" prom:"gauge" help:"Current maximum segment size for the send direction."`
	RcvMSS                 uint32         `tcpi:"rcv_mss" prom:"gauge" help:"Maximum observed segment size from the remote host."`
	UnAcked                uint32         `tcpi:"unacked" prom:"gauge" help:"Segments between snd.nxt and snd.una."`
	Sacked                 uint32         `tcpi:"sacked" prom:"gauge" help:"Scoreboard segments marked SACKED by SACK blocks."`
	Lost                   uint32         `tcpi:"lost" prom:"gauge" help:"Scoreboard segments marked lost by loss detection heuristics."`
	Retrans                uint32         `tcpi:"retrans" prom:"gauge" help:"Scoreboard segments marked retransmitted."`
	Fackets                uint32         `tcpi:"fackets" prom:"counter" help:"Forward acknowledgment counter (unused by modern kernels)."`
	LastDataSent           uint32         `tcpi:"last_data_sent" prom:"gauge" help:"Time since last data segment was sent, in jiffies."`
	LastAckSent            uint32         `tcpi:"last_ack_sent" prom:"gauge" help:"Time since last ACK was sent (not implemented by the kernel)."`
	LastDataRecv           uint32         `tcpi:"last_data_recv" prom:"gauge" help:"Time since last data segment was received, in jiffies."`
	LastAckRecv            uint32         `tcpi:"last_ack_recv" prom:"gauge" help:"Time since last ACK was received, in jiffies."`
	PMTU                   uint32         `tcpi:"pmtu" prom:"gauge" help:"Maximum IP transmission unit for this path."`
	RcvSSThresh            uint32         `tcpi:"rcv_ssthresh" prom:"gauge" help:"Current window clamp on the receive side."`
	RTT                    uint32         `tcpi:"rtt" prom:"gauge" help:"Smoothed round trip time in usec."`
	RTTVar                 uint32         `tcpi:"rttvar" prom:"gauge" help:"Round trip time variance in usec."`
	SndSSThresh            uint32         `tcpi:"snd_ssthresh" prom:"gauge" help:"Slow start threshold, controlled by the congestion control algorithm."`
	SndCWnd                uint32         `tcpi:"snd_cwnd" prom:"gauge" help:"Congestion window, controlled by the congestion control algorithm."`
	AdvMSS                 uint32         `tcpi:"advmss" prom:"gauge" help:"Advertised maximum segment size."`
	Reordering             uint32         `tcpi:"reordering" prom:"gauge" help:"Maximum observed reordering distance."`
	RcvRTT                 uint32         `tcpi:"rcv_rtt" prom:"gauge" help:"Receiver side round trip time estimate in usec."`
	RcvSpace               uint32         `tcpi:"rcv_space" prom:"gauge" help:"Space reserved for the receive queue, updated by receive auto-tuning."`
	TotalRetrans           uint32         `tcpi:"total_retrans" prom:"counter" help:"Total segments containing retransmitted data."`
	PacingRate             NullableUint64 `tcpi:"pacing_rate" prom:"gauge" help:"Current pacing rate in bytes per second."`
	MaxPacingRate          NullableUint64 `tcpi:"max_pacing_rate" prom:"gauge" help:"Pacing rate clamp set with SO_MAX_PACING_RATE."`
	BytesAcked             NullableUint64 `tcpi:"bytes_acked" prom:"counter" help:"Data bytes for which cumulative acknowledgments have been received."`
	BytesReceived          NullableUint64 `tcpi:"bytes_received" prom:"counter" help:"Data bytes for which cumulative acknowledgments have been sent."`
	SegsOut                NullableUint32 `tcpi:"segs_out" prom:"counter" help:"Segments transmitted, including data and pure ACKs."`
	SegsIn                 NullableUint32 `tcpi:"segs_in" prom:"counter" help:"Segments received, including data and pure ACKs."`
	NotsentBytes           NullableUint32 `tcpi:"notsent_bytes" prom:"gauge" help:"Bytes queued in the send buffer that have not been sent."`
	MinRTT                 NullableUint32 `tcpi:"min_rtt" prom:"gauge" help:"Minimum observed round trip time in usec."`
	DataSegsIn             NullableUint32 `tcpi:"data_segs_in" prom:"counter" help:"Received segments carrying data."`
	DataSegsOut            NullableUint32 `tcpi:"data_segs_out" prom:"counter" help:"Transmitted segments carrying data."`
	DeliveryRate           NullableUint64 `tcpi:"delivery_rate" prom:"gauge" help:"Most recent delivery rate sample in bytes per second."`
	BusyTime               NullableUint64 `tcpi:"busy_time" prom:"counter" help:"Time in usec with outstanding unacknowledged data."`
	RwndLimited            NullableUint64 `tcpi:"rwnd_limited" prom:"counter" help:"Time in usec spent limited by the receive window."`
	SndbufLimited          NullableUint64 `tcpi:"sndbuf_limited" prom:"counter" help:"Time in usec spent limited by the send buffer."`
	Delivered              NullableUint32 `tcpi:"delivered" prom:"counter" help:"Data segments delivered to the receiver, including retransmits."`
	DeliveredCE            NullableUint32 `tcpi:"delivered_ce" prom:"counter" help:"CE marked data segments delivered to the receiver."`
	BytesSent              NullableUint64 `tcpi:"bytes_sent" prom:"counter" help:"Payload bytes sent, including retransmissions."`
	BytesRetrans           NullableUint64 `tcpi:"bytes_retrans" prom:"counter" help:"Bytes retransmitted."`
	DSACKDups              NullableUint32 `tcpi:"dsack_dups" prom:"counter" help:"Duplicate segments reported by DSACK."`
	ReordSeen              NullableUint32 `tcpi:"reord_seen" prom:"counter" help:"Received ACKs that were out of order."`
	RcvOOOPack             NullableUint32 `tcpi:"rcv_ooopack" prom:"counter" help:"Out-of-order packets received."`
	SndWnd                 NullableUint32 `tcpi:"snd_wnd" prom:"gauge" help:"Peer's advertised receive window after scaling, in bytes."`
	RcvWnd                 NullableUint32 `tcpi:"rcv_wnd" prom:"gauge" help:"Local advertised receive window after scaling, in bytes."`
	Rehash                 NullableUint32 `tcpi:"rehash" prom:"counter" help:"PLB or timeout triggered rehash attempts."`
	TotalRTO               NullableUint16 `tcpi:"total_rto" prom:"counter" help:"Total RTO timeouts, including SYN/SYN-ACK and recurring timeouts."`
	TotalRTORecoveries     NullableUint16 `tcpi:"total_rto_recoveries" prom:"counter" help:"Total RTO recoveries, including any unfinished recovery."`
	TotalRTOTime           NullableUint32 `tcpi:"total_rto_time" prom:"counter" help:"Total time in msec spent in RTO recoveries."`

	// CCAlgorithm is the congestion control algorithm name reported by
	// TCP_CONGESTION. Filled in by GetTCPInfo, not part of struct tcp_info.
	CCAlgorithm string `json:",omitempty"`
}

func nBool(valid bool, v bool) NullableBool {
	if !valid {
		return NullableBool{}
	}
	return NullableBool{Valid: true, Value: v}
}

func nU8(valid bool, v uint8) NullableUint8 {
	if !valid {
		return NullableUint8{}
	}
	return NullableUint8{Valid: true, Value: v}
}

func nU16(valid bool, v uint16) NullableUint16 {
	if !valid {
		return NullableUint16{}
	}
	return NullableUint16{Valid: true, Value: v}
}

func nU32(valid bool, v uint32) NullableUint32 {
	if !valid {
		return NullableUint32{}
	}
	return NullableUint32{Valid: true, Value: v}
}

func nU64(valid bool, v uint64) NullableUint64 {
	if !valid {
		return NullableUint64{}
	}
	return NullableUint64{Valid: true, Value: v}
}

// Unpack copies fields from Raw into Info, splitting the two bitfield bytes
// and marking fields not provided by the detected kernel version as not
// valid.
func (r *Raw) Unpack() *Info {
	f := features

	return &Info{
		State:       r.state,
		CAState:     r.ca_state,
		Retransmits: r.retransmits,
		Probes:      r.probes,
		Backoff:     r.backoff,
		Options:     r.options,
		SndWScale:   r.bitfield0 & sndWScaleMask,
		RcvWScale:   r.bitfield0 >> rcvWScaleShift,

		DeliveryRateAppLimited: nBool(f.deliveryRate, r.bitfield1&appLimitedBit != 0),
		FastOpenClientFail:     nU8(f.fastOpenFail, r.bitfield1>>fastOpenFailShift&fastOpenFailMask),

		RTO:          r.rto,
		ATO:          r.ato,
		SndMSS:       r.snd_mss,
		RcvMSS:       r.rcv_mss,
		UnAcked:      r.unacked,
		Sacked:       r.sacked,
		Lost:         r.lost,
		Retrans:      r.retrans,
		Fackets:      r.fackets,
		LastDataSent: r.last_data_sent,
		LastAckSent:  r.last_ack_sent,
		LastDataRecv: r.last_data_recv,
		LastAckRecv:  r.last_ack_recv,
		PMTU:         r.pmtu,
		RcvSSThresh:  r.rcv_ssthresh,
		RTT:          r.rtt,
		RTTVar:       r.rttvar,
		SndSSThresh:  r.snd_ssthresh,
		SndCWnd:      r.snd_cwnd,
		AdvMSS:       r.advmss,
		Reordering:   r.reordering,
		RcvRTT:       r.rcv_rtt,
		RcvSpace:     r.rcv_space,
		TotalRetrans: r.total_retrans,

		PacingRate:    nU64(f.pacing, r.pacing_rate),
		MaxPacingRate: nU64(f.pacing, r.max_pacing_rate),

		BytesAcked:    nU64(f.byteCounters, r.bytes_acked),
		BytesReceived: nU64(f.byteCounters, r.bytes_received),

		SegsOut: nU32(f.segCounters, r.segs_out),
		SegsIn:  nU32(f.segCounters, r.segs_in),

		NotsentBytes: nU32(f.notSent, r.notsent_bytes),
		MinRTT:       nU32(f.notSent, r.min_rtt),
		DataSegsIn:   nU32(f.notSent, r.data_segs_in),
		DataSegsOut:  nU32(f.notSent, r.data_segs_out),

		DeliveryRate: nU64(f.deliveryRate, r.delivery_rate),

		BusyTime:      nU64(f.stallTimers, r.busy_time),
		RwndLimited:   nU64(f.stallTimers, r.rwnd_limited),
		SndbufLimited: nU64(f.stallTimers, r.sndbuf_limited),

		Delivered:   nU32(f.delivered, r.delivered),
		DeliveredCE: nU32(f.delivered, r.delivered_ce),

		BytesSent:    nU64(f.txByteStats, r.bytes_sent),
		BytesRetrans: nU64(f.txByteStats, r.bytes_retrans),
		DSACKDups:    nU32(f.txByteStats, r.dsack_dups),
		ReordSeen:    nU32(f.txByteStats, r.reord_seen),

		RcvOOOPack: nU32(f.oooPackets, r.rcv_ooopack),
		SndWnd:     nU32(f.oooPackets, r.snd_wnd),

		RcvWnd:             nU32(f.rcvWndRehash, r.rcv_wnd),
		Rehash:             nU32(f.rcvWndRehash, r.rehash),
		TotalRTO:           nU16(f.totalRTO, r.total_rto),
		TotalRTORecoveries: nU16(f.totalRTO, r.total_rto_recoveries),
		TotalRTOTime:       nU32(f.totalRTO, r.total_rto_time),
	}
}
