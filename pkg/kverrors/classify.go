package kverrors

import (
	"os"
	"syscall"
)

// ClassifyIO inspects an os/syscall-level error from a filesystem operation
// on path and returns a KindIo Error annotated with the specific disk
// condition when one is known (permission denied, disk full, read-only
// filesystem), falling back to a generic I/O classification otherwise. This
// mirrors the disk-condition-specific error construction the storage layer
// needs for filesystem calls such as directory creation, segment file open,
// rename and removal, without repeating the syscall.Errno switch at every
// call site. Buffered write and flush failures are wrapped with NewIo
// directly and do not pass through here.
func ClassifyIO(err error, op, path string) *Error {
	if err == nil {
		return nil
	}

	e := NewIo(err, "I/O operation failed").WithPath(path).WithDetail("operation", op)

	if os.IsPermission(err) {
		return e.WithDetail("reason", "permission_denied")
	}

	var pathErr *os.PathError
	if pe, ok := err.(*os.PathError); ok {
		pathErr = pe
	}
	if pathErr != nil {
		if errno, ok := pathErr.Err.(syscall.Errno); ok {
			switch errno {
			case syscall.ENOSPC:
				return e.WithDetail("reason", "disk_full")
			case syscall.EROFS:
				return e.WithDetail("reason", "readonly_filesystem")
			case syscall.EIO:
				return e.WithDetail("reason", "device_io_error")
			}
		}
	}

	return e
}
