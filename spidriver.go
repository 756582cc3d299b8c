package mcp2210

import (
	"context"
	"fmt"
	"io"

	"golang.org/x/exp/io/spi/driver"
)

// Opener implements golang.org/x/exp/io/spi/driver.Opener, so the bridge
// can back an exp/io/spi.Device.
//
// The MCP2210 exposes a single SPI master, and chip selects are routed
// through the transfer settings.
type Opener struct {
	// Config configures the opened device. The zero value is replaced by
	// DefaultConfig.
	Config Config
}

var _ driver.Opener = Opener{}

func (o Opener) Open() (driver.Conn, error) {
	cfg := o.Config
	if cfg == (Config{}) {
		cfg = DefaultConfig()
	}
	d, closer, err := Open(cfg)
	if err != nil {
		return nil, err
	}
	return &driverConn{d: d, closer: closer}, nil
}

type driverConn struct {
	d      *Dev
	closer io.Closer
}

func (c *driverConn) Configure(k, v int) error {
	ctx := context.Background()
	s, err := c.d.SpiTransferSettings(ctx)
	if err != nil {
		return err
	}
	switch k {
	case driver.Mode:
		s.Mode = SpiMode(v)
	case driver.Bits:
		if v != 8 {
			return fmt.Errorf("mcp2210: %d bits per word is not supported", v)
		}
		return nil
	case driver.MaxSpeed:
		s.BitRate = uint32(v)
	case driver.Order:
		if v != 0 {
			return fmt.Errorf("mcp2210: LSB-first bit order is not supported")
		}
		return nil
	case driver.Delay:
		// exp/io/spi expresses the delay in µs, the chip in 100 µs
		// quanta; round up so a requested delay is never shortened.
		s.InterByteDelay = uint16((v + 99) / 100)
	default:
		return fmt.Errorf("mcp2210: unknown configuration key %d", k)
	}
	return c.d.SetSpiTransferSettings(ctx, s)
}

func (c *driverConn) Tx(tx, rx []byte) error {
	if len(tx) != len(rx) {
		return fmt.Errorf("mcp2210: tx and rx length mismatch (%d != %d)", len(tx), len(rx))
	}
	got, err := c.d.Transfer(context.Background(), tx)
	if err != nil {
		return err
	}
	copy(rx, got)
	return nil
}

func (c *driverConn) Close() error {
	return c.closer.Close()
}
