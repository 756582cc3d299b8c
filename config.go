package mcp2210

import "time"

// VendorID and ProductID are the factory USB identifiers of the MCP2210.
const (
	VendorID  = 0x04d8
	ProductID = 0x00de
)

// Config is the configuration object for a device.
type Config struct {
	// VendorID and ProductID select the USB device to open. Chips whose
	// NVRAM carries a custom identity need these overridden.
	VendorID  uint16
	ProductID uint16

	// BusyRetries is the number of consecutive busy responses the SPI
	// transfer engine tolerates for a single chunk before it gives up.
	BusyRetries int

	// BusyBackoff is the time to wait before retrying a busy chunk.
	BusyBackoff time.Duration

	// Debug is used for debug output.
	Debug Logger
}

// DefaultConfig returns a configuration with the chip's factory USB identity
// and a retry policy suited for a bus shared with one external master.
func DefaultConfig() Config {
	return Config{
		VendorID:    VendorID,
		ProductID:   ProductID,
		BusyRetries: 50,
		BusyBackoff: 300 * time.Microsecond,
	}
}
