/**
 * Copyright (c) 2022, Xerra Earth Observation Institute.
 * Copyright (c) 2025, Simeon Miteff.
 *
 * See LICENSE.TXT in the root directory of this source tree.
 */

package tcpinfo

import (
	"testing"

	"github.com/docker/docker/pkg/parsers/kernel"
)

// useKernel pins the detected kernel version for the duration of a test so
// that Unpack validity gating is deterministic.
func useKernel(t *testing.T, k, major, minor int) {
	t.Helper()

	prev := hostVersion
	hostVersion = &kernel.VersionInfo{Kernel: k, Major: major, Minor: minor}
	applyVersion()

	t.Cleanup(func() {
		hostVersion = prev
		if hostVersion != nil {
			applyVersion()
		} else {
			features = featureSet{}
			rawInfoSize = 0
		}
	})
}

func TestRawSetSndWScale(t *testing.T) {
	useKernel(t, 6, 7, 0)

	for v := uint8(0); v <= 0xf; v++ {
		var raw Raw
		raw.SetSndWScale(v)

		got := raw.Unpack()
		if got.SndWScale != v {
			t.Errorf("SetSndWScale(%d): got %d", v, got.SndWScale)
		}
		if got.RcvWScale != 0 {
			t.Errorf("SetSndWScale(%d): RcvWScale changed to %d", v, got.RcvWScale)
		}
	}
}

func TestRawSetRcvWScale(t *testing.T) {
	useKernel(t, 6, 7, 0)

	for v := uint8(0); v <= 0xf; v++ {
		var raw Raw
		raw.SetRcvWScale(v)

		got := raw.Unpack()
		if got.RcvWScale != v {
			t.Errorf("SetRcvWScale(%d): got %d", v, got.RcvWScale)
		}
		if got.SndWScale != 0 {
			t.Errorf("SetRcvWScale(%d): SndWScale changed to %d", v, got.SndWScale)
		}
	}
}

func TestRawSetDeliveryRateAppLimited(t *testing.T) {
	useKernel(t, 6, 7, 0)

	var raw Raw
	for _, v := range []bool{true, false, true} {
		raw.SetDeliveryRateAppLimited(v)

		got := raw.Unpack()
		if !got.DeliveryRateAppLimited.Valid || got.DeliveryRateAppLimited.Value != v {
			t.Errorf("SetDeliveryRateAppLimited(%v): got %+v", v, got.DeliveryRateAppLimited)
		}
	}
}

func TestRawSetFastOpenClientFail(t *testing.T) {
	useKernel(t, 6, 7, 0)

	for v := uint8(0); v <= 0x3; v++ {
		var raw Raw
		raw.SetFastOpenClientFail(v)

		got := raw.Unpack()
		if !got.FastOpenClientFail.Valid || got.FastOpenClientFail.Value != v {
			t.Errorf("SetFastOpenClientFail(%d): got %+v", v, got.FastOpenClientFail)
		}
	}
}

// Values wider than the underlying bitfield truncate to the field width,
// matching C bitfield assignment.
func TestRawSettersTruncate(t *testing.T) {
	useKernel(t, 6, 7, 0)

	var raw Raw
	raw.SetSndWScale(0x37)
	raw.SetRcvWScale(0xf9)
	raw.SetFastOpenClientFail(0xff)

	got := raw.Unpack()
	if got.SndWScale != 0x7 {
		t.Errorf("SndWScale: got %#x, want 0x7", got.SndWScale)
	}
	if got.RcvWScale != 0x9 {
		t.Errorf("RcvWScale: got %#x, want 0x9", got.RcvWScale)
	}
	if got.FastOpenClientFail.Value != 0x3 {
		t.Errorf("FastOpenClientFail: got %#x, want 0x3", got.FastOpenClientFail.Value)
	}
}

func TestRawSettersAreIndependent(t *testing.T) {
	useKernel(t, 6, 7, 0)

	var raw Raw
	raw.SetSndWScale(7)
	raw.SetRcvWScale(9)
	raw.SetDeliveryRateAppLimited(true)
	raw.SetFastOpenClientFail(3)

	got := raw.Unpack()
	if got.SndWScale != 7 || got.RcvWScale != 9 ||
		!got.DeliveryRateAppLimited.Value || got.FastOpenClientFail.Value != 3 {
		t.Fatalf("after setting all four: got snd=%d rcv=%d appLimited=%v fail=%d",
			got.SndWScale, got.RcvWScale, got.DeliveryRateAppLimited.Value, got.FastOpenClientFail.Value)
	}

	// Clearing one subfield must leave the other three alone.
	raw.SetDeliveryRateAppLimited(false)

	got = raw.Unpack()
	if got.DeliveryRateAppLimited.Value {
		t.Error("DeliveryRateAppLimited still set")
	}
	if got.SndWScale != 7 || got.RcvWScale != 9 || got.FastOpenClientFail.Value != 3 {
		t.Errorf("clearing app limited disturbed other fields: snd=%d rcv=%d fail=%d",
			got.SndWScale, got.RcvWScale, got.FastOpenClientFail.Value)
	}
}

func TestRawZero(t *testing.T) {
	useKernel(t, 6, 7, 0)

	raw := Raw{
		state:          1,
		rto:            200000,
		rtt:            1234,
		bytes_acked:    1 << 40,
		total_rto_time: 5,
	}
	raw.SetSndWScale(7)
	raw.SetRcvWScale(9)
	raw.SetDeliveryRateAppLimited(true)
	raw.SetFastOpenClientFail(3)

	raw.Zero()

	if raw != (Raw{}) {
		t.Fatalf("Zero left residual state: %+v", raw)
	}

	got := raw.Unpack()
	if got.SndWScale != 0 || got.RcvWScale != 0 ||
		got.DeliveryRateAppLimited.Value || got.FastOpenClientFail.Value != 0 {
		t.Errorf("zeroed record reads back non-zero: snd=%d rcv=%d appLimited=%v fail=%d",
			got.SndWScale, got.RcvWScale, got.DeliveryRateAppLimited.Value, got.FastOpenClientFail.Value)
	}
}

func TestRawMockSetFields(t *testing.T) {
	useKernel(t, 6, 7, 0)

	tests := []struct {
		name                   string
		sndWScale              uint8
		rcvWScale              uint8
		deliveryRateAppLimited NullableBool
		fastOpenClientFail     NullableUint8
		wantAppLimited         bool
		wantFastOpenFail       uint8
	}{
		{
			name: "zeros",
		},
		{
			name:                   "all set",
			sndWScale:              7,
			rcvWScale:              9,
			deliveryRateAppLimited: NullableBool{Valid: true, Value: true},
			fastOpenClientFail:     NullableUint8{Valid: true, Value: 3},
			wantAppLimited:         true,
			wantFastOpenFail:       3,
		},
		{
			name:                   "invalid nullables are skipped",
			sndWScale:              1,
			rcvWScale:              2,
			deliveryRateAppLimited: NullableBool{Valid: false, Value: true},
			fastOpenClientFail:     NullableUint8{Valid: false, Value: 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Pre-fill so MockSetFields has something to wipe.
			raw := Raw{state: 4, snd_cwnd: 10}
			raw.MockSetFields(tt.sndWScale, tt.rcvWScale, tt.deliveryRateAppLimited, tt.fastOpenClientFail)

			if raw.state != 0 || raw.snd_cwnd != 0 {
				t.Error("MockSetFields did not zero the record first")
			}

			got := raw.Unpack()
			if got.SndWScale != tt.sndWScale {
				t.Errorf("SndWScale: got %d, want %d", got.SndWScale, tt.sndWScale)
			}
			if got.RcvWScale != tt.rcvWScale {
				t.Errorf("RcvWScale: got %d, want %d", got.RcvWScale, tt.rcvWScale)
			}
			if got.DeliveryRateAppLimited.Value != tt.wantAppLimited {
				t.Errorf("DeliveryRateAppLimited: got %v, want %v", got.DeliveryRateAppLimited.Value, tt.wantAppLimited)
			}
			if got.FastOpenClientFail.Value != tt.wantFastOpenFail {
				t.Errorf("FastOpenClientFail: got %d, want %d", got.FastOpenClientFail.Value, tt.wantFastOpenFail)
			}
		})
	}
}
