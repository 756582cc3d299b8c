package mcp2210

import (
	"bytes"
	"context"
	"errors"
	"testing"
)

// echoChip emulates the chip end of the SPI transfer protocol: every chunk
// is echoed back in the same exchange, as if MOSI were wired to MISO. busy
// makes the next exchanges report a busy bus, finishEarly makes every
// response claim a finished transfer.
type echoChip struct {
	txSize      uint16
	busy        int
	finishEarly bool

	// cancelAfter invokes cancel once that many transfer exchanges have
	// succeeded.
	cancelAfter int
	cancel      func()

	chunks   [][]byte // data of each successful transfer exchange
	cancels  int
	settings *SpiTransferSettings
	rsp      []byte
}

func (c *echoChip) Write(p []byte) (int, error) {
	rsp := make([]byte, ReportSize)
	rsp[0] = p[0]
	switch p[0] {
	case cmdGetSpiSettings:
		if c.settings == nil {
			s := DefaultSpiTransferSettings()
			s.BytesPerTransaction = c.txSize
			c.settings = &s
		}
		c.settings.marshal(rsp)
	case cmdSetSpiSettings:
		s, err := parseSpiTransferSettings(p)
		if err != nil {
			rsp[1] = 0xfb
			break
		}
		c.settings = &s
		c.txSize = s.BytesPerTransaction
	case cmdSpiTransfer:
		if c.busy > 0 {
			c.busy--
			rsp[1] = 0xf8
			break
		}
		n := int(p[1])
		c.chunks = append(c.chunks, append([]byte(nil), p[4:4+n]...))
		rsp[2] = byte(n)
		rsp[3] = byte(spiStatusPending)
		if c.finishEarly {
			rsp[3] = byte(spiStatusFinished)
		}
		copy(rsp[4:], p[4:4+n])
		if c.cancel != nil && len(c.chunks) == c.cancelAfter {
			c.cancel()
		}
	case cmdCancelSpiTransfer:
		c.cancels++
		rsp[2] = 0x01 // no external release request
		rsp[3] = 0x00
	}
	c.rsp = rsp
	return len(p), nil
}

func (c *echoChip) Read(p []byte) (int, error) {
	return copy(p, c.rsp), nil
}

func newEchoDev(chip *echoChip) *Dev {
	cfg := DefaultConfig()
	cfg.BusyRetries = 4
	cfg.BusyBackoff = 0
	return NewDev(chip, cfg)
}

func TestTransferSingleChunk(t *testing.T) {
	chip := &echoChip{txSize: 60}
	d := newEchoDev(chip)

	tx := []byte{0xaa, 0x55}
	rx, state, err := d.transfer(context.Background(), tx)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(rx, tx) {
		t.Errorf("rx % x != tx % x", rx, tx)
	}
	if state != TransferFinished {
		t.Errorf("state %v != %v", state, TransferFinished)
	}
	if len(chip.chunks) != 1 {
		t.Errorf("%d exchanges, want 1", len(chip.chunks))
	}
}

func TestTransferChunking(t *testing.T) {
	chip := &echoChip{txSize: 60}
	d := newEchoDev(chip)

	tx := make([]byte, 200)
	for i := range tx {
		tx[i] = byte(i)
	}
	rx, state, err := d.transfer(context.Background(), tx)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(rx, tx) {
		t.Error("rx does not match tx")
	}
	if state != TransferFinished {
		t.Errorf("state %v != %v", state, TransferFinished)
	}
	if len(chip.chunks) != 4 {
		t.Fatalf("%d exchanges, want 4", len(chip.chunks))
	}
	for i, want := range []int{60, 60, 60, 20} {
		if len(chip.chunks[i]) != want {
			t.Errorf("exchange %d carried %d bytes, want %d", i, len(chip.chunks[i]), want)
		}
	}
}

func TestTransferChunkBounds(t *testing.T) {
	// The configured transaction size, not the report capacity, must
	// bound the chunks when it is the smaller of the two.
	chip := &echoChip{txSize: 7}
	d := newEchoDev(chip)

	tx := make([]byte, 20)
	rx, _, err := d.transfer(context.Background(), tx)
	if err != nil {
		t.Fatal(err)
	}
	if len(rx) != len(tx) {
		t.Errorf("received %d bytes, want %d", len(rx), len(tx))
	}
	for i, chunk := range chip.chunks {
		if len(chunk) > 7 {
			t.Errorf("exchange %d carried %d bytes, want at most 7", i, len(chunk))
		}
	}
}

func TestTransferEmpty(t *testing.T) {
	chip := &echoChip{txSize: 60}
	d := newEchoDev(chip)

	rx, state, err := d.transfer(context.Background(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(rx) != 0 {
		t.Errorf("received %d bytes, want 0", len(rx))
	}
	if state != TransferFinished {
		t.Errorf("state %v != %v", state, TransferFinished)
	}
	if len(chip.chunks) != 0 {
		t.Errorf("%d exchanges, want 0", len(chip.chunks))
	}
}

func TestTransferZeroTransactionSize(t *testing.T) {
	chip := &echoChip{txSize: 0}
	d := newEchoDev(chip)

	_, state, err := d.transfer(context.Background(), []byte{0x01})
	if !errors.Is(err, ErrInvalidSettings) {
		t.Fatalf("got %v, want %v", err, ErrInvalidSettings)
	}
	if state != TransferError {
		t.Errorf("state %v != %v", state, TransferError)
	}
	if len(chip.chunks) != 0 {
		t.Errorf("%d exchanges before validation", len(chip.chunks))
	}
}

func TestTransferBusyRetry(t *testing.T) {
	chip := &echoChip{txSize: 60, busy: 3}
	d := newEchoDev(chip)

	tx := []byte{0x01, 0x02, 0x03}
	rx, state, err := d.transfer(context.Background(), tx)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(rx, tx) {
		t.Errorf("rx % x != tx % x", rx, tx)
	}
	if state != TransferFinished {
		t.Errorf("state %v != %v", state, TransferFinished)
	}
	if len(chip.chunks) != 1 {
		t.Errorf("%d successful exchanges, want 1", len(chip.chunks))
	}
}

func TestTransferBusyExhausted(t *testing.T) {
	chip := &echoChip{txSize: 60, busy: 1000}
	d := newEchoDev(chip)

	rx, state, err := d.transfer(context.Background(), []byte{0x01})
	if !errors.Is(err, ErrSpiBusy) {
		t.Fatalf("got %v, want %v", err, ErrSpiBusy)
	}
	if state != TransferError {
		t.Errorf("state %v != %v", state, TransferError)
	}
	if rx != nil {
		t.Errorf("partial data % x reported after failure", rx)
	}
	// BusyRetries=4 allows the first attempt plus four retries.
	if chip.busy != 1000-5 {
		t.Errorf("%d busy responses consumed, want 5", 1000-chip.busy)
	}
}

func TestTransferEarlyFinish(t *testing.T) {
	chip := &echoChip{txSize: 60, finishEarly: true}
	d := newEchoDev(chip)

	_, state, err := d.transfer(context.Background(), make([]byte, 200))
	if !errors.Is(err, ErrProtocol) {
		t.Fatalf("got %v, want %v", err, ErrProtocol)
	}
	if state != TransferError {
		t.Errorf("state %v != %v", state, TransferError)
	}
}

func TestTransferCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	chip := &echoChip{txSize: 60, cancelAfter: 2, cancel: cancel}
	d := newEchoDev(chip)

	rx, state, err := d.transfer(ctx, make([]byte, 200))
	if !errors.Is(err, ErrCancelled) {
		t.Fatalf("got %v, want %v", err, ErrCancelled)
	}
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("%v does not match context.Canceled", err)
	}
	if state != TransferError {
		t.Errorf("state %v != %v", state, TransferError)
	}
	if rx != nil {
		t.Errorf("partial data % x reported after cancellation", rx)
	}
	if chip.cancels != 1 {
		t.Errorf("%d cancel commands issued, want 1", chip.cancels)
	}
	if len(chip.chunks) != 2 {
		t.Errorf("%d exchanges before cancellation, want 2", len(chip.chunks))
	}
}

func TestSpiExchangePayloadTooBig(t *testing.T) {
	d, _ := newTestDev()

	_, _, err := d.spiExchange(context.Background(), make([]byte, 61))
	if !errors.Is(err, ErrPayloadSize) {
		t.Fatalf("got %v, want %v", err, ErrPayloadSize)
	}
}

func TestSpiExchangeBadStatusByte(t *testing.T) {
	d, _ := newTestDev(response(0x42, 0x00, 0x00, 0x40))

	_, _, err := d.spiExchange(context.Background(), []byte{0x01})
	if !errors.Is(err, ErrInvalidReport) {
		t.Fatalf("got %v, want %v", err, ErrInvalidReport)
	}
}

func TestTransferLoopback(t *testing.T) {
	// Settings written through the public API must bound later transfers.
	chip := &echoChip{txSize: 60}
	d := newEchoDev(chip)

	ctx := context.Background()
	s := DefaultSpiTransferSettings()
	s.BytesPerTransaction = 16
	if err := d.SetSpiTransferSettings(ctx, s); err != nil {
		t.Fatal(err)
	}

	tx := make([]byte, 50)
	for i := range tx {
		tx[i] = byte(0xff - i)
	}
	rx, err := d.Transfer(ctx, tx)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(rx, tx) {
		t.Error("rx does not match tx")
	}
	if want := 4; len(chip.chunks) != want { // 16+16+16+2
		t.Errorf("%d exchanges, want %d", len(chip.chunks), want)
	}
}
