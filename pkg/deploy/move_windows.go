package deploy

import "syscall"

// ERROR_NOT_SAME_DEVICE
const crossDeviceErrno = syscall.Errno(17)
