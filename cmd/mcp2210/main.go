/*
mcp2210 is a tool to communicate with the MCP2210 USB-to-SPI bridge.

It talks to the chip over USB HID and exposes its SPI, GPIO, EEPROM and
NVRAM features as subcommands.
*/
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/peterbourgon/ff/v3/ffcli"
)

func main() {
	var (
		in  = os.Stdin
		out = os.Stdout
		err = os.Stderr
	)

	rootCmd, cfg := newRootCmd()
	rootCmd.Subcommands = []*ffcli.Command{
		newEEPROMCmd(cfg, out, err),
		newGPIOCmd(cfg, out, err),
		newInfoCmd(cfg, out, err),
		newTransferCmd(cfg, in, out, err),
	}

	ctx, cancel := context.WithCancel(context.Background())

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	go func() {
		var num = 0
		for range c {
			num += 1
			if num >= 3 {
				os.Exit(1)
			} else {
				cancel()
			}
		}
	}()

	if err := rootCmd.ParseAndRun(ctx, os.Args[1:]); err != nil {
		if !errors.Is(err, context.Canceled) {
			libPrefix := "mcp2210: "
			msg := strings.TrimPrefix(err.Error(), libPrefix)
			fmt.Fprintf(os.Stderr, "%s: %s\n", rootCmd.Name, msg)
			os.Exit(1)
		} else if cfg.verbose {
			fmt.Fprintf(os.Stderr, "%s: cancelled\n", rootCmd.Name)
		}
	}
}
