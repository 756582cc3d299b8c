package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/peterbourgon/ff/v3/ffcli"
	"github.com/voltblue/go-mcp2210"
)

type gpioConfig struct {
	rootConfig *rootConfig
	out        io.Writer
	err        io.Writer
	set        string
	dir        string
}

func (c *gpioConfig) Exec(ctx context.Context, _ []string) error {
	if c.rootConfig.verbose {
		fmt.Fprintln(c.err, "gpio")
	}

	d, closer, err := newDev(c.rootConfig)
	if err != nil {
		return err
	}
	defer closer.Close()

	if c.dir != "" {
		mask, err := parsePinMask(c.dir)
		if err != nil {
			return err
		}
		if err := d.SetGPIODirection(ctx, mask); err != nil {
			return err
		}
	}
	if c.set != "" {
		mask, err := parsePinMask(c.set)
		if err != nil {
			return err
		}
		if err := d.SetGPIOValue(ctx, mask); err != nil {
			return err
		}
	}

	value, err := d.GPIOValue(ctx)
	if err != nil {
		return err
	}
	dir, err := d.GPIODirection(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintln(c.out, "              GP876543210")
	fmt.Fprintf(c.out, "value         %09b\n", uint16(value))
	fmt.Fprintf(c.out, "direction     %09b (1 = input)\n", uint16(dir))
	return nil
}

// parsePinMask accepts a 9 bit mask in hex (0x1ff) or binary (0b111111111).
func parsePinMask(s string) (mcp2210.GPIOMask, error) {
	base := 16
	switch {
	case strings.HasPrefix(s, "0x"):
		s = s[2:]
	case strings.HasPrefix(s, "0b"):
		s = s[2:]
		base = 2
	}
	m, err := strconv.ParseUint(s, base, 16)
	if err != nil {
		return 0, fmt.Errorf("mcp2210: bad pin mask: %w", err)
	}
	if m > uint64(mcp2210.GPIOAllHigh) {
		return 0, fmt.Errorf("mcp2210: pin mask %#x is wider than 9 bits", m)
	}
	return mcp2210.GPIOMask(m), nil
}

func newGPIOCmd(rootConfig *rootConfig, out io.Writer, err io.Writer) *ffcli.Command {
	cfg := gpioConfig{
		rootConfig: rootConfig,
		out:        out,
		err:        err,
	}

	fs := flag.NewFlagSet("mcp2210 gpio", flag.ExitOnError)
	fs.StringVar(&cfg.set, "set", "", "drive the GPIO outputs to this 9 bit mask, eg 0x1ff or 0b000000001")
	fs.StringVar(&cfg.dir, "dir", "", "set the GPIO directions to this 9 bit mask, 1 = input")
	rootConfig.registerFlags(fs)

	return addLongHelp(&ffcli.Command{
		Name:       "gpio",
		ShortUsage: "gpio [flags]",
		ShortHelp:  "Reads and drives the general purpose pins.",
		FlagSet:    fs,
		Exec:       cfg.Exec,
	})
}
