//go:build linux

/**
 * Copyright (c) 2022, Xerra Earth Observation Institute.
 * Copyright (c) 2025, Simeon Miteff.
 *
 * See LICENSE.TXT in the root directory of this source tree.
 */

package tcpinfo

import (
	"errors"
	"syscall"

	"golang.org/x/sys/unix"
)

// Errors from the syscall package are private, so we define our own to match
// the errno.
var (
	EAGAIN error = syscall.EAGAIN
	EINVAL error = syscall.EINVAL
	ENOENT error = syscall.ENOENT
)

var ErrKernelTooOld = errors.New("tcp_info is not available on Linux prior to kernel 2.6.2")

func mapErrno(errNo syscall.Errno) error {
	switch errNo {
	case syscall.EAGAIN:
		return EAGAIN
	case syscall.EINVAL:
		return EINVAL
	case syscall.ENOENT:
		return ENOENT
	}
	return errNo
}

// GetCongestionAlgorithm returns the congestion control algorithm in use for
// the socket, e.g. "cubic", "bbr", "vegas" or "dctcp".
func GetCongestionAlgorithm(fd uintptr) (string, error) {
	return unix.GetsockoptString(int(fd), unix.IPPROTO_TCP, unix.TCP_CONGESTION)
}

// GetTCPInfo calls getsockopt(2) to retrieve tcp_info for the socket and
// unpacks it. The congestion control algorithm name is filled in on a best
// effort basis.
func GetTCPInfo(fd uintptr) (*Info, error) {
	if !features.tcpInfo {
		return nil, ErrKernelTooOld
	}

	raw, err := GetRawTCPInfo(fd)
	if err != nil {
		return nil, err
	}

	info := raw.Unpack()
	if alg, err := GetCongestionAlgorithm(fd); err == nil {
		info.CCAlgorithm = alg
	}
	return info, nil
}
