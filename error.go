package mcp2210

import (
	"errors"
	"fmt"
)

// Chip status codes. See datasheet for specification.
var (
	// ErrSpiUnavailable is returned when the SPI bus is owned by an
	// external master and cannot be used by the bridge.
	ErrSpiUnavailable = errors.New("mcp2210: spi bus unavailable") // 0xf7

	// ErrSpiBusy is returned when the chip cannot service the exchange
	// right now, for example while a bus release is pending.
	//
	// This is a transient condition. The SPI transfer engine retries it
	// up to Config.BusyRetries consecutive times; no other layer does.
	ErrSpiBusy = errors.New("mcp2210: spi bus busy") // 0xf8

	// ErrUnknownCommand is returned when the chip did not recognize the
	// command code, which indicates a firmware mismatch.
	ErrUnknownCommand = errors.New("mcp2210: unknown command code") // 0xf9

	// ErrEepromWrite is returned when an EEPROM write did not stick.
	ErrEepromWrite = errors.New("mcp2210: eeprom write failure") // 0xfa

	ErrAccessDenied      = errors.New("mcp2210: access denied")                   // 0xfb
	ErrAccessRejected    = errors.New("mcp2210: access rejected")                 // 0xfc
	ErrAccessDeniedRetry = errors.New("mcp2210: access denied, retries allowed") // 0xfd
)

// Package errors.
var (
	// ErrInvalidReport is used when a response report is truncated or
	// carries a value outside the chip's published encoding.
	ErrInvalidReport = errors.New("mcp2210: invalid report")

	// ErrProtocol is used when the chip violates a protocol invariant,
	// such as echoing the wrong command code or claiming a finished
	// transfer with data still outstanding.
	ErrProtocol = errors.New("mcp2210: protocol violation")

	// ErrInvalidSettings is used when caller-supplied settings are outside
	// the ranges the chip accepts. It is raised before any I/O happens.
	ErrInvalidSettings = errors.New("mcp2210: invalid settings")

	// ErrPayloadSize is used when a single SPI exchange is asked to carry
	// more data than fits in one report.
	ErrPayloadSize = errors.New("mcp2210: payload exceeds 60 bytes")

	// ErrStringSize is used when a USB string descriptor does not fit in
	// its NVRAM slot.
	ErrStringSize = errors.New("mcp2210: string exceeds 29 UTF-16 code units")

	// ErrCancelled is returned by Transfer when its context was cancelled
	// mid-transfer. Partial data is discarded.
	ErrCancelled = errors.New("mcp2210: transfer cancelled")
)

// StatusError is a non-success chip status code that has no dedicated error.
type StatusError uint8

func (e StatusError) Error() string {
	return fmt.Sprintf("mcp2210: chip status %#02x", uint8(e))
}

// statusError maps the status byte of a response to an error.
//
// The status byte is the second byte of every response and indicates how the
// command was processed by the chip.
func statusError(code uint8) error {
	switch code {
	case 0x00:
		return nil
	case 0xf7:
		return ErrSpiUnavailable
	case 0xf8:
		return ErrSpiBusy
	case 0xf9:
		return ErrUnknownCommand
	case 0xfa:
		return ErrEepromWrite
	case 0xfb:
		return ErrAccessDenied
	case 0xfc:
		return ErrAccessRejected
	case 0xfd:
		return ErrAccessDeniedRetry
	default:
		return StatusError(code)
	}
}
