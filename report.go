package mcp2210

import "fmt"

// ReportSize is the size in bytes of every command and response report.
const ReportSize = 64

// maxSpiPayload is the number of SPI data bytes that fit in one report.
const maxSpiPayload = 60

// Command codes. Sent as the first byte of a request report and echoed back
// as the first byte of the matching response.
const (
	cmdGetChipStatus         = 0x10
	cmdCancelSpiTransfer     = 0x11
	cmdInterruptEventCounter = 0x12
	cmdGetChipSettings       = 0x20
	cmdSetChipSettings       = 0x21
	cmdSetGPIOValue          = 0x30
	cmdGetGPIOValue          = 0x31
	cmdSetGPIODirection      = 0x32
	cmdGetGPIODirection      = 0x33
	cmdSetSpiSettings        = 0x40
	cmdGetSpiSettings        = 0x41
	cmdSpiTransfer           = 0x42
	cmdReadEEPROM            = 0x50
	cmdWriteEEPROM           = 0x51
	cmdSetNVRAM              = 0x60
	cmdGetNVRAM              = 0x61
	cmdSendAccessPassword    = 0x70
	cmdRequestBusRelease     = 0x80
)

// NVRAM sub-command codes used with cmdSetNVRAM and cmdGetNVRAM. The chip
// echoes the sub-command at byte 2 of the response.
const (
	nvramSpiSettings    = 0x10
	nvramChipSettings   = 0x20
	nvramUsbParameters  = 0x30
	nvramUsbProductName = 0x40
	nvramUsbVendorName  = 0x50
)

// newReport returns a zeroed request report with the command code set.
// Unused trailing bytes stay zero on the wire.
func newReport(cmd byte) []byte {
	p := make([]byte, ReportSize)
	p[0] = cmd
	return p
}

// checkResponse validates a raw response report against the command that was
// sent. It checks the report length, the echoed command code and the status
// byte, in that order. The transport is untrusted, so a short report is an
// error here even though HID framing should make it impossible.
func checkResponse(cmd byte, rsp []byte) error {
	if len(rsp) != ReportSize {
		return fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidReport, len(rsp), ReportSize)
	}
	if rsp[0] != cmd {
		return fmt.Errorf("%w: command code mismatch (sent %#02x, got %#02x)", ErrProtocol, cmd, rsp[0])
	}
	return statusError(rsp[1])
}
