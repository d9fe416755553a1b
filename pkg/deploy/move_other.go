//go:build !windows

package deploy

import "syscall"

const crossDeviceErrno = syscall.EXDEV
