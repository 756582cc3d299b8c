package mcp2210

import (
	"context"
	"fmt"
)

// Dev is an open MCP2210 device.
//
// A Dev owns its Transport exclusively for its whole lifetime. The chip
// serializes one command/response exchange at a time, so a Dev is not safe
// for concurrent use; callers that share one across goroutines must provide
// their own synchronization.
type Dev struct {
	t   Transport
	cfg Config
	log Logger

	// txSize caches the active BytesPerTransaction so the transfer engine
	// does not have to fetch the settings on every call. Zero means not
	// yet known.
	txSize uint16
}

// NewDev returns a device that communicates through the supplied transport.
//
// The transport must exchange whole 64-byte reports, one Write per request
// and one Read per response. Use Open for the HID transport.
func NewDev(t Transport, cfg Config) *Dev {
	d := &Dev{t: t, cfg: cfg, log: getLogger(cfg)}
	if cfg.Debug != nil {
		d.t = &transportDebug{"hid", d.log, d.t}
	}
	return d
}

// command performs one request/response exchange.
//
// fill populates the command-specific bytes of the request report before it
// is written. Exactly one write and one read happen per call; there are no
// retries at this layer. Retry policy lives in the transfer engine.
func (d *Dev) command(ctx context.Context, cmd byte, fill func(p []byte)) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	req := newReport(cmd)
	if fill != nil {
		fill(req)
	}
	if _, err := d.t.Write(req); err != nil {
		return nil, fmt.Errorf("mcp2210: write command %#02x: %w", cmd, err)
	}

	rsp := make([]byte, ReportSize)
	n, err := d.t.Read(rsp)
	if err != nil {
		return nil, fmt.Errorf("mcp2210: read response %#02x: %w", cmd, err)
	}
	if err := checkResponse(cmd, rsp[:n]); err != nil {
		return nil, err
	}
	return rsp, nil
}

// subCommand performs an exchange for the NVRAM commands, which carry a
// sub-command code that the chip echoes at byte 2 of the response.
func (d *Dev) subCommand(ctx context.Context, cmd, sub byte, fill func(p []byte)) ([]byte, error) {
	rsp, err := d.command(ctx, cmd, func(p []byte) {
		p[1] = sub
		if fill != nil {
			fill(p)
		}
	})
	if err != nil {
		return nil, err
	}
	if rsp[2] != sub {
		return nil, fmt.Errorf("%w: sub-command code mismatch (sent %#02x, got %#02x)",
			ErrProtocol, sub, rsp[2])
	}
	return rsp, nil
}
