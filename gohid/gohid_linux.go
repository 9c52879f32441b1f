//go:build linux
// +build linux

package gohid

import (
	"errors"
	"os"
	"runtime"
	"syscall"
	"time"
	"unsafe"

	"golang.org/x/sys/unix"
)

type HIDRaw struct {
	dev *os.File
}

var ErrorNoDeadline = errors.New("Device node does not support read deadlines")

func openHIDInternal(path string) (Device, error) {
	dev, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, err
	}

	/* Reads rely on deadlines to turn a dead bridge into an error. A
	   node the runtime cannot poll would hang forever instead, so
	   refuse it here. */
	if err := dev.SetReadDeadline(time.Time{}); err != nil {
		dev.Close()
		return nil, ErrorNoDeadline
	}

	return &HIDRaw{
		dev: dev,
	}, nil
}

var ErrorWrongDevice = errors.New("Device does not match the requested IDs")

/*
 HIDIOCGRAWINFO = 80084803
 struct hidraw_devinfo { __u32 bustype; __s16 vendor; __s16 product; }
*/

type rawInfo struct {
	bustype uint32
	vendor  int16
	product int16
}

func (h *HIDRaw) Info() (uint16, uint16, error) {
	var info rawInfo

	_, _, errno := unix.Syscall(
		syscall.SYS_IOCTL,
		uintptr(h.dev.Fd()),
		uintptr(0x80084803),
		uintptr(unsafe.Pointer(&info)),
	)

	runtime.KeepAlive(&info)

	if errno != 0 {
		return 0, 0, os.NewSyscallError("HIDIOCGRAWINFO", errno)
	}

	return uint16(info.vendor), uint16(info.product), nil
}

// CheckID fails when the node does not belong to the given VID/PID. A
// zero VID skips the check.
func (h *HIDRaw) CheckID(vid uint16, pid uint16) error {
	if vid == 0 {
		return nil
	}

	v, p, err := h.Info()
	if err != nil {
		return err
	}
	if v != vid || p != pid {
		return ErrorWrongDevice
	}

	return nil
}

func (h *HIDRaw) Write(b []byte) (int, error) {
	return h.dev.Write(b)
}

func (h *HIDRaw) Read(b []byte) (int, error) {
	/* A bridge that stops answering should error out, not hang. */
	h.dev.SetReadDeadline(time.Now().Add(time.Second))
	return h.dev.Read(b)
}

func (h *HIDRaw) Close() error {
	return h.dev.Close()
}
