package mcp2210

// Transport moves fixed-size reports to and from the chip.
//
// Implementations operate on whole reports: one Write sends a single
// ReportSize-byte request and one Read receives the single matching
// response. The HID transport in this package satisfies the interface;
// tests substitute their own.
type Transport interface {
	// Read reads up to len(p) bytes into p from the device.
	Read(p []byte) (int, error)
	// Write writes len(p) bytes from p to the device.
	Write(p []byte) (int, error)
}
