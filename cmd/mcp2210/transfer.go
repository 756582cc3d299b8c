package main

import (
	"context"
	"encoding/hex"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/peterbourgon/ff/v3/ffcli"
	"github.com/voltblue/go-mcp2210"
)

type transferConfig struct {
	rootConfig *rootConfig
	in         io.Reader
	out        io.Writer
	err        io.Writer
	bitRate    uint
	mode       uint
	timeout    time.Duration
}

func (c *transferConfig) Exec(ctx context.Context, args []string) error {
	if c.rootConfig.verbose {
		fmt.Fprintln(c.err, "transfer")
	}

	tx, err := readPayload(c.in, args)
	if err != nil {
		return err
	}

	d, closer, err := newDev(c.rootConfig)
	if err != nil {
		return err
	}
	defer closer.Close()

	if c.bitRate > 0 || c.mode > 0 {
		s, err := d.SpiTransferSettings(ctx)
		if err != nil {
			return err
		}
		if c.bitRate > 0 {
			s.BitRate = uint32(c.bitRate)
		}
		s.Mode = mcp2210.SpiMode(c.mode)
		if err := d.SetSpiTransferSettings(ctx, s); err != nil {
			return err
		}
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	rx, err := d.Transfer(ctx, tx)
	if err != nil {
		return err
	}

	fmt.Fprintln(c.out, prettyHexIndent(rx, "", " "))
	return nil
}

// readPayload decodes the transfer payload from the arguments, or from the
// reader when no arguments are given.
func readPayload(r io.Reader, args []string) ([]byte, error) {
	s := strings.Join(args, "")
	if s == "" {
		in, err := io.ReadAll(r)
		if err != nil {
			return nil, err
		}
		s = string(in)
	}

	// Remove any whitespace incl newline
	s = strings.Join(strings.Fields(s), "")

	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("mcp2210: payload is not hex: %w", err)
	}
	if len(b) == 0 {
		return nil, fmt.Errorf("mcp2210: empty payload")
	}
	return b, nil
}

func newTransferCmd(
	rootConfig *rootConfig, in io.Reader, out io.Writer, err io.Writer,
) *ffcli.Command {
	cfg := transferConfig{
		rootConfig: rootConfig,
		in:         in,
		out:        out,
		err:        err,
	}

	fs := flag.NewFlagSet("mcp2210 transfer", flag.ExitOnError)
	fs.UintVar(&cfg.bitRate, "bps", 0, "set the bus clock in bits per second before the transfer")
	fs.UintVar(&cfg.mode, "mode", 0, "set the SPI mode (0-3) before the transfer")
	fs.DurationVar(&cfg.timeout, "timeout", 0, "maximum time for the transfer eg 1s, 500ms")
	rootConfig.registerFlags(fs)

	return addLongHelp(&ffcli.Command{
		Name:       "transfer",
		ShortUsage: "transfer [flags] [hex bytes]",
		ShortHelp:  "Performs a full-duplex SPI transfer and prints the response.",
		FlagSet:    fs,
		Exec:       cfg.Exec,
	})
}
