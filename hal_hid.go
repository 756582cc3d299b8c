package mcp2210

import (
	"errors"
	"fmt"
	"io"

	"github.com/karalabe/usb"
)

// ErrUSBNotSupported is returned when the USB support is missing.
//
// When building, CGO is required for USB support. If CGO is not enabled, the
// HID transport will not be available.
var ErrUSBNotSupported = errors.New("mcp2210: usb support is missing")

// Open enumerates HID devices matching the configured vendor and product
// identifiers and opens the first one that can be claimed.
//
// The returned closer releases the underlying HID handle. Close it on every
// exit path, or the device stays claimed until the process exits.
func Open(cfg Config) (*Dev, io.Closer, error) {
	if !usb.Supported() {
		return nil, nil, ErrUSBNotSupported
	}

	deviceInfos, err := usb.EnumerateHid(cfg.VendorID, cfg.ProductID)
	if err != nil {
		return nil, nil, fmt.Errorf("mcp2210: failed to get hid devices: %w", err)
	}
	for _, di := range deviceInfos {
		hid, e := di.Open()
		if e != nil {
			err = e
			continue
		}
		return NewDev(hid, cfg), hid, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("mcp2210: %w", err)
	}
	return nil, nil, errors.New("mcp2210: no hid devices found")
}
