package mcp2210

import (
	"context"
	"errors"
	"fmt"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
)

// SPIPort adapts the device to a periph.io SPI port so existing periph
// device drivers can run on top of the bridge.
//
// The port borrows the device; it does not own the underlying HID handle,
// and closing the port only marks it unusable. Chip select routing is
// whatever the active settings say, since the bridge drives its CS lines
// from the transfer settings rather than per SPI port.
func (d *Dev) SPIPort() spi.PortCloser {
	return &spiPort{d: d}
}

type spiPort struct {
	d      *Dev
	maxHz  physic.Frequency
	closed bool
}

func (p *spiPort) String() string { return "mcp2210" }

func (p *spiPort) Close() error {
	p.closed = true
	return nil
}

// LimitSpeed caps the bus clock for every later Connect.
func (p *spiPort) LimitSpeed(f physic.Frequency) error {
	if f <= 0 {
		return fmt.Errorf("mcp2210: invalid frequency %s", f)
	}
	p.maxHz = f
	return nil
}

func (p *spiPort) Connect(f physic.Frequency, mode spi.Mode, bits int) (spi.Conn, error) {
	if p.closed {
		return nil, errors.New("mcp2210: port is closed")
	}
	if bits != 8 {
		return nil, fmt.Errorf("mcp2210: %d bits per word is not supported", bits)
	}
	if mode&(spi.HalfDuplex|spi.NoCS|spi.LSBFirst) != 0 {
		return nil, fmt.Errorf("mcp2210: mode flags in %s are not supported", mode)
	}
	if p.maxHz != 0 && f > p.maxHz {
		f = p.maxHz
	}

	ctx := context.Background()
	settings, err := p.d.SpiTransferSettings(ctx)
	if err != nil {
		return nil, err
	}
	settings.BitRate = uint32(f / physic.Hertz)
	settings.Mode = SpiMode(mode & spi.Mode3)
	if err := p.d.SetSpiTransferSettings(ctx, settings); err != nil {
		return nil, err
	}
	return &spiConn{d: p.d}, nil
}

type spiConn struct {
	d *Dev
}

func (c *spiConn) String() string { return "mcp2210" }

func (c *spiConn) Duplex() conn.Duplex { return conn.Full }

// Tx performs one transaction. Either w or r may be nil for a write-only or
// read-only transaction; when both are set their lengths must match.
func (c *spiConn) Tx(w, r []byte) error {
	if len(w) != 0 && len(r) != 0 && len(w) != len(r) {
		return fmt.Errorf("mcp2210: tx and rx length mismatch (%d != %d)", len(w), len(r))
	}
	if len(w) == 0 {
		// Read-only: clock out zeros to drive the exchange.
		w = make([]byte, len(r))
	}
	got, err := c.d.Transfer(context.Background(), w)
	if err != nil {
		return err
	}
	copy(r, got)
	return nil
}

func (c *spiConn) TxPackets(pkts []spi.Packet) error {
	for _, pkt := range pkts {
		if pkt.BitsPerWord != 0 && pkt.BitsPerWord != 8 {
			return fmt.Errorf("mcp2210: %d bits per word is not supported", pkt.BitsPerWord)
		}
		if err := c.Tx(pkt.W, pkt.R); err != nil {
			return err
		}
	}
	return nil
}
