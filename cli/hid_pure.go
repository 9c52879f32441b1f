//go:build puregohid
// +build puregohid

package main

import (
	"errors"

	"github.com/BertoldVdb/i2ctap/gohid"
)

func OpenDevice() (gohid.Device, error) {
	if CLI.RawPath == "" {
		return nil, errors.New("RawPath must be specified when using pure GO HID")
	}

	dev, err := gohid.OpenHID(CLI.RawPath)
	if err != nil {
		return nil, err
	}

	/* No enumeration in this build, so verify the node really is the
	   requested bridge before sending commands at it. */
	if raw, ok := dev.(*gohid.HIDRaw); ok {
		if err := raw.CheckID(uint16(CLI.VID), uint16(CLI.PID)); err != nil {
			dev.Close()
			return nil, err
		}
	}

	return dev, nil
}

type ListHIDCmd struct {
}

func (l *ListHIDCmd) Run(c *Context) error {
	return errors.New("This command is not supported using pure GO HID")
}
