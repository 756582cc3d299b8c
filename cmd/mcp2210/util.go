package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/voltblue/go-mcp2210"
)

func newDev(c *rootConfig) (*mcp2210.Dev, io.Closer, error) {
	cfg := mcp2210.DefaultConfig()
	cfg.Debug = newLogger(c.verbose)
	if c.busyRetries > 0 {
		cfg.BusyRetries = c.busyRetries
	}

	if c.vid != "" {
		id, err := parseUSBID(c.vid)
		if err != nil {
			return nil, nil, fmt.Errorf("mcp2210: bad vendor id: %w", err)
		}
		cfg.VendorID = id
	}
	if c.pid != "" {
		id, err := parseUSBID(c.pid)
		if err != nil {
			return nil, nil, fmt.Errorf("mcp2210: bad product id: %w", err)
		}
		cfg.ProductID = id
	}

	return mcp2210.Open(cfg)
}

func parseUSBID(s string) (uint16, error) {
	id, err := strconv.ParseUint(strings.TrimPrefix(s, "0x"), 16, 16)
	return uint16(id), err
}

func newLogger(verbose bool) mcp2210.Logger {
	if verbose {
		return log.New(os.Stderr, "", 0)
	} else {
		return nil
	}
}

func writeJSON(w io.Writer, data any) error {
	j, err := json.MarshalIndent(data, "", " ")
	if err != nil {
		return err
	}
	_, err = w.Write(j)
	return err
}

func prettyHex(data []byte) string {
	return prettyHexIndent(data, "    ", "")
}

func prettyHexIndent(data []byte, prefix string, space string) string {
	var buf strings.Builder

	// prefix and space every 16 byte, and 2 hex, and one space/newline
	cols := 16
	size := (len(data)/cols+1)*(len(prefix)+len(space)+1) + len(data)*3
	buf.Grow(size)

	for i := range data {
		if i > 0 {
			switch i % cols {
			case 0:
				buf.WriteByte('\n')
			case cols / 2:
				buf.WriteByte(' ')
				buf.WriteString(space)
			default:
				buf.WriteByte(' ')
			}
		}
		if i%cols == 0 {
			buf.WriteString(prefix)
		}

		buf.WriteString(fmt.Sprintf("%02X", data[i:i+1]))
	}

	return buf.String()
}
