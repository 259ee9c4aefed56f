//go:build linux && 386

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

// 32-bit x86 multiplexes socket calls through socketcall(2).
const netGetSockOpt = 15

// GetRawTCPInfo calls socketcall(2) to retrieve tcp_info for the socket.
// This variant is for the 32-bit x86 (386) architecture.
func GetRawTCPInfo(fd uintptr) (*Raw, error) {
	var value Raw
	length := uint32(rawInfoSize)

	args := [5]uintptr{
		fd,
		uintptr(syscall.SOL_TCP), uintptr(syscall.TCP_INFO),
		uintptr(unsafe.Pointer(&value)), uintptr(unsafe.Pointer(&length)),
	}

	_, _, errNo := syscall.RawSyscall(
		syscall.SYS_SOCKETCALL,
		netGetSockOpt,
		uintptr(unsafe.Pointer(&args)),
		0,
	)
	if errNo != 0 {
		return nil, mapErrno(errNo)
	}

	return &value, nil
}
