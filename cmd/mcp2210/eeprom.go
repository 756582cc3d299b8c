package main

import (
	"context"
	"encoding/hex"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/peterbourgon/ff/v3/ffcli"
)

const eepromSize = 256

type eepromConfig struct {
	rootConfig *rootConfig
	out        io.Writer
	err        io.Writer
	addr       uint
	length     uint
	write      string
}

func (c *eepromConfig) Exec(ctx context.Context, _ []string) error {
	if c.rootConfig.verbose {
		fmt.Fprintln(c.err, "eeprom")
	}

	if c.addr >= eepromSize {
		return fmt.Errorf("mcp2210: eeprom address %d out of range", c.addr)
	}

	d, closer, err := newDev(c.rootConfig)
	if err != nil {
		return err
	}
	defer closer.Close()

	if c.write != "" {
		data, err := hex.DecodeString(strings.TrimPrefix(c.write, "0x"))
		if err != nil {
			return fmt.Errorf("mcp2210: eeprom data is not hex: %w", err)
		}
		if int(c.addr)+len(data) > eepromSize {
			return fmt.Errorf("mcp2210: write of %d bytes at %d runs past the eeprom", len(data), c.addr)
		}
		for i, b := range data {
			if err := d.WriteEEPROM(ctx, uint8(c.addr)+uint8(i), b); err != nil {
				return err
			}
		}
		return nil
	}

	end := c.addr + c.length
	if end > eepromSize {
		end = eepromSize
	}
	data := make([]byte, 0, c.length)
	for a := c.addr; a < end; a++ {
		b, err := d.ReadEEPROM(ctx, uint8(a))
		if err != nil {
			return err
		}
		data = append(data, b)
	}

	fmt.Fprintln(c.out, prettyHexIndent(data, "", " "))
	return nil
}

func newEEPROMCmd(rootConfig *rootConfig, out io.Writer, err io.Writer) *ffcli.Command {
	cfg := eepromConfig{
		rootConfig: rootConfig,
		out:        out,
		err:        err,
	}

	fs := flag.NewFlagSet("mcp2210 eeprom", flag.ExitOnError)
	fs.UintVar(&cfg.addr, "addr", 0, "eeprom address to start at, 0-"+strconv.Itoa(eepromSize-1))
	fs.UintVar(&cfg.length, "bytes", 16, "number of bytes to read")
	fs.StringVar(&cfg.write, "write", "", "hex bytes to write at the address instead of reading")
	rootConfig.registerFlags(fs)

	return addLongHelp(&ffcli.Command{
		Name:       "eeprom",
		ShortUsage: "eeprom [flags]",
		ShortHelp:  "Reads and writes the 256 byte user EEPROM.",
		FlagSet:    fs,
		Exec:       cfg.Exec,
	})
}
