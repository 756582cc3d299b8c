// Package mcp2210 is a driver for the Microchip MCP2210 USB-to-SPI bridge.
//
// The chip exposes an SPI master and nine general purpose pins as a USB
// HID-class device speaking a fixed-size command/response protocol: every
// exchange is one 64-byte report out and one 64-byte report in. This package
// implements the report codec, the settings marshaling and a chunked
// full-duplex SPI transfer engine on top of a pluggable Transport. The HID
// transport in this package uses github.com/karalabe/usb.
//
// Adapters are provided so the bridge can back a periph.io SPI port
// (Dev.SPIPort) or a golang.org/x/exp/io/spi device (Opener).
//
// A Dev owns its Transport exclusively. The chip processes a single
// command/response pair at a time and offers no pipelining, so a Dev must not
// be shared between goroutines without external synchronization.
//
// # Datasheet
//
// https://ww1.microchip.com/downloads/en/DeviceDoc/22288A.pdf
package mcp2210
