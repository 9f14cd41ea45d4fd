package device

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

// ioctl request numbers of the rpifan driver, precomputed from the
// kernel's _IOW/_IOR encoding with type 'r' and a uint64 payload:
// direction << 30 | size(8) << 16 | 'r' << 8 | nr.
const (
	// iocWritePwmValue is _IOW('r', 'a', uint64 *): write the duty cycle.
	iocWritePwmValue = 0x40087261

	// iocReadPwmValue is _IOR('r', 'b', uint64 *): read the duty cycle back.
	iocReadPwmValue = 0x80087262
)

// ioctlUint64 issues an ioctl carrying a uint64 by reference, the way
// the driver expects for both duty cycle requests.
func ioctlUint64(fd uintptr, request uintptr, value *uint64) error {
	_, _, errno := unix.Syscall(
		unix.SYS_IOCTL,
		fd,
		request,
		uintptr(unsafe.Pointer(value)),
	)
	if errno != 0 {
		return errno
	}
	return nil
}
