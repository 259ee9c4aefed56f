//go:build linux && !386

/**
 * Copyright (c) 2022, Xerra Earth Observation Institute.
 * Copyright (c) 2025, Simeon Miteff.
 *
 * See LICENSE.TXT in the root directory of this source tree.
 */

package tcpinfo

import (
	"syscall"
	"unsafe"
)

// GetRawTCPInfo calls getsockopt(2) to retrieve tcp_info for the socket,
// asking only for the bytes the running kernel is known to provide. This
// variant is for all architectures other than 32-bit x86.
func GetRawTCPInfo(fd uintptr) (*Raw, error) {
	var value Raw
	length := uint32(rawInfoSize)

	_, _, errNo := syscall.Syscall6(
		syscall.SYS_GETSOCKOPT,
		fd,
		uintptr(syscall.SOL_TCP),
		uintptr(syscall.TCP_INFO),
		uintptr(unsafe.Pointer(&value)),
		uintptr(unsafe.Pointer(&length)),
		0,
	)
	if errNo != 0 {
		return nil, mapErrno(errNo)
	}

	return &value, nil
}
