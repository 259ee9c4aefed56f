//go:build linux

/**
 * Copyright (c) 2022, Xerra Earth Observation Institute.
 * Copyright (c) 2025, Simeon Miteff.
 *
 * See LICENSE.TXT in the root directory of this source tree.
 */

package tcpinfo

import (
	"fmt"

	"github.com/docker/docker/pkg/parsers/kernel"
)

func init() {
	v, err := kernel.GetKernelVersion()
	if err != nil {
		panic(fmt.Errorf("tcpinfo: error getting kernel version: %w", err))
	}

	hostVersion = v
	applyVersion()
}

// Supported reports whether the running kernel provides tcp_info.
func Supported() bool {
	return features.tcpInfo
}
