//go:build !linux

/**
 * Copyright (c) 2022, Xerra Earth Observation Institute.
 * Copyright (c) 2025, Simeon Miteff.
 *
 * See LICENSE.TXT in the root directory of this source tree.
 */

package tcpinfo

import (
	"errors"
	"runtime"
)

var ErrUnsupported = errors.New("tcp_info is not available on " + runtime.GOOS)

// GetTCPInfo is not implemented on this platform.
func GetTCPInfo(fd uintptr) (*Info, error) {
	return nil, ErrUnsupported
}
