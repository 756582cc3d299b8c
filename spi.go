package mcp2210

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// TransferState tracks the progress of one logical SPI transfer. A state
// value exists only for the duration of a single Transfer call; it is never
// persisted on the device handle.
type TransferState int

const (
	TransferIdle TransferState = iota
	TransferStarted
	TransferInProgress
	TransferFinished
	TransferError
)

func (s TransferState) String() string {
	switch s {
	case TransferIdle:
		return "idle"
	case TransferStarted:
		return "started"
	case TransferInProgress:
		return "in progress"
	case TransferFinished:
		return "finished"
	case TransferError:
		return "error"
	default:
		return "unknown"
	}
}

// spiTransferStatus is the chip-side engine status echoed at byte 3 of every
// SPI transfer response.
type spiTransferStatus uint8

const (
	spiStatusFinished spiTransferStatus = 0x10 // no data left on either side
	spiStatusStarted  spiTransferStatus = 0x20 // transfer accepted
	spiStatusPending  spiTransferStatus = 0x30 // response data not drained yet
)

func spiTransferStatusFromByte(v byte) (spiTransferStatus, error) {
	switch v {
	case 0x10, 0x20, 0x30:
		return spiTransferStatus(v), nil
	default:
		return 0, fmt.Errorf("%w: spi transfer status %#02x", ErrInvalidReport, v)
	}
}

// spiExchange performs a single SPI transfer exchange of at most
// maxSpiPayload bytes and returns the bytes the chip handed back together
// with the chip-side engine status. A zero-length data slice polls the chip
// for buffered response data without clocking anything out.
func (d *Dev) spiExchange(ctx context.Context, data []byte) ([]byte, spiTransferStatus, error) {
	if len(data) > maxSpiPayload {
		return nil, 0, fmt.Errorf("%w: got %d", ErrPayloadSize, len(data))
	}
	rsp, err := d.command(ctx, cmdSpiTransfer, func(p []byte) {
		p[1] = byte(len(data))
		copy(p[4:], data)
	})
	if err != nil {
		return nil, 0, err
	}
	status, err := spiTransferStatusFromByte(rsp[3])
	if err != nil {
		return nil, 0, err
	}
	n := int(rsp[2])
	if n > maxSpiPayload {
		return nil, 0, fmt.Errorf("%w: response payload length %d", ErrInvalidReport, n)
	}
	return rsp[4 : 4+n], status, nil
}

// Transfer performs a full-duplex SPI transfer of len(tx) bytes and returns
// the len(tx) bytes clocked in from the slave.
//
// The transfer is split into chunks bounded by the active settings'
// BytesPerTransaction and by the report payload capacity. Busy responses do
// not advance the transfer; they are retried with backoff up to
// Config.BusyRetries consecutive times per chunk. If ctx is cancelled
// between chunks, a best-effort cancel command is issued and the partial
// data is discarded; the returned error matches both ErrCancelled and
// ctx.Err() under errors.Is.
func (d *Dev) Transfer(ctx context.Context, tx []byte) ([]byte, error) {
	rx, _, err := d.transfer(ctx, tx)
	return rx, err
}

func (d *Dev) transfer(ctx context.Context, tx []byte) ([]byte, TransferState, error) {
	if len(tx) == 0 {
		return nil, TransferFinished, nil
	}

	txSize := int(d.txSize)
	if txSize == 0 {
		s, err := d.SpiTransferSettings(ctx)
		if err != nil {
			return nil, TransferError, err
		}
		txSize = int(s.BytesPerTransaction)
	}
	if txSize == 0 {
		return nil, TransferError, fmt.Errorf("%w: bytes per transaction is 0", ErrInvalidSettings)
	}

	state := TransferStarted
	rx := make([]byte, 0, len(tx))
	var sent, busy int
	for len(rx) < len(tx) {
		if err := ctx.Err(); err != nil {
			d.cancelTransfer()
			return nil, TransferError, fmt.Errorf("%w: %w", ErrCancelled, err)
		}

		// Chunk of unsent bytes; zero-length once the send side is
		// exhausted but the chip still holds response data.
		chunk := len(tx) - sent
		if chunk > txSize {
			chunk = txSize
		}
		if chunk > maxSpiPayload {
			chunk = maxSpiPayload
		}

		data, status, err := d.spiExchange(ctx, tx[sent:sent+chunk])
		if errors.Is(err, ErrSpiBusy) || errors.Is(err, ErrSpiUnavailable) {
			busy++
			if busy > d.cfg.BusyRetries {
				return nil, TransferError,
					fmt.Errorf("mcp2210: %d consecutive busy responses: %w", busy, err)
			}
			if err := d.backoff(ctx); err != nil {
				d.cancelTransfer()
				return nil, TransferError, fmt.Errorf("%w: %w", ErrCancelled, err)
			}
			continue
		}
		if err != nil {
			return nil, TransferError, err
		}

		rx = append(rx, data...)
		sent += chunk
		busy = 0
		if state != TransferInProgress {
			d.log.Printf("spi: %s -> %s", state, TransferInProgress)
			state = TransferInProgress
		}

		if status == spiStatusFinished && len(rx) < len(tx) {
			return nil, TransferError,
				fmt.Errorf("%w: chip finished with %d of %d bytes received",
					ErrProtocol, len(rx), len(tx))
		}
	}
	return rx, TransferFinished, nil
}

// cancelTransfer issues a best-effort cancel command. The context that drove
// the transfer is already done by the time this runs, so it uses a fresh one.
func (d *Dev) cancelTransfer() {
	if _, err := d.CancelSpiTransfer(context.Background()); err != nil {
		d.log.Printf("spi: cancel failed: %v", err)
	}
}

func (d *Dev) backoff(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d.cfg.BusyBackoff):
		return nil
	}
}
