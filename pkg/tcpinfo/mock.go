/**
 * Copyright (c) 2022, Xerra Earth Observation Institute.
 * Copyright (c) 2025, Simeon Miteff.
 *
 * See LICENSE.TXT in the root directory of this source tree.
 */

package tcpinfo

// Mock mutators for tests that need a synthetic Raw record instead of one
// returned by getsockopt(2). They write the packed bitfield subfields the
// same way a C bitfield assignment would: values wider than the subfield
// are truncated to its width. None of them can fail.

// Zero resets every field of the record to its zero value.
func (r *Raw) Zero() {
	*r = Raw{}
}

// SetSndWScale sets the tcpi_snd_wscale subfield (4 bits).
func (r *Raw) SetSndWScale(v uint8) {
	r.bitfield0 = r.bitfield0&^sndWScaleMask | v&sndWScaleMask
}

// SetRcvWScale sets the tcpi_rcv_wscale subfield (4 bits).
func (r *Raw) SetRcvWScale(v uint8) {
	r.bitfield0 = r.bitfield0&sndWScaleMask | v<<rcvWScaleShift
}

// SetDeliveryRateAppLimited sets the tcpi_delivery_rate_app_limited flag (1 bit).
func (r *Raw) SetDeliveryRateAppLimited(v bool) {
	if v {
		r.bitfield1 |= appLimitedBit
	} else {
		r.bitfield1 &^= appLimitedBit
	}
}

// SetFastOpenClientFail sets the tcpi_fastopen_client_fail subfield (2 bits).
func (r *Raw) SetFastOpenClientFail(v uint8) {
	r.bitfield1 = r.bitfield1&^(fastOpenFailMask<<fastOpenFailShift) | (v&fastOpenFailMask)<<fastOpenFailShift
}

// MockSetFields zeroes the record and applies the four mock mutators in one
// call. The two nullable arguments are skipped when not valid, leaving those
// subfields zero.
func (r *Raw) MockSetFields(
	sndWScale uint8,
	rcvWScale uint8,
	deliveryRateAppLimited NullableBool,
	fastOpenClientFail NullableUint8,
) {
	r.Zero()
	r.SetSndWScale(sndWScale)
	r.SetRcvWScale(rcvWScale)

	if deliveryRateAppLimited.Valid {
		r.SetDeliveryRateAppLimited(deliveryRateAppLimited.Value)
	}

	if fastOpenClientFail.Valid {
		r.SetFastOpenClientFail(fastOpenClientFail.Value)
	}
}
