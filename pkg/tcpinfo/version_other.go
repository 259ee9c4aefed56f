//go:build !linux

/**
 * Copyright (c) 2022, Xerra Earth Observation Institute.
 * Copyright (c) 2025, Simeon Miteff.
 *
 * See LICENSE.TXT in the root directory of this source tree.
 */

package tcpinfo

// Supported reports whether this platform provides tcp_info. Only Linux does.
func Supported() bool {
	return false
}
