package main

import (
	"context"
	"flag"

	"github.com/peterbourgon/ff/v3/ffcli"
)

type rootConfig struct {
	verbose     bool
	vid         string
	pid         string
	busyRetries int
}

func (c *rootConfig) registerFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.verbose, "v", false, "increase log verbosity")
	fs.StringVar(&c.vid, "vid", "", "USB vendor id in hex, default is the factory id")
	fs.StringVar(&c.pid, "pid", "", "USB product id in hex, default is the factory id")
	fs.IntVar(&c.busyRetries, "busy-retries", 0, "consecutive busy responses tolerated per transfer chunk")
}

func (c *rootConfig) Exec(context.Context, []string) error {
	return flag.ErrHelp
}

func newRootCmd() (*ffcli.Command, *rootConfig) {
	var cfg rootConfig

	fs := flag.NewFlagSet("mcp2210", flag.ExitOnError)
	cfg.registerFlags(fs)

	return addLongHelp(&ffcli.Command{
		Name:       "mcp2210",
		ShortUsage: "mcp2210 [flags] <subcommand>",
		ShortHelp:  "Utilities to inspect and use your MCP2210 USB-to-SPI bridge.",
		FlagSet:    fs,
		Exec:       cfg.Exec,
	}), &cfg
}

var mcp2210LongHelp = `

GENERAL
Chips whose NVRAM carries a custom USB identity are not found under the
factory ids. Pass -vid and -pid the same way they show up in lsusb:

  mcp2210 -vid 04d8 -pid 00de info`

func addLongHelp(cmd *ffcli.Command) *ffcli.Command {
	if cmd.LongHelp == "" {
		cmd.LongHelp = cmd.ShortHelp
	}

	cmd.LongHelp += mcp2210LongHelp

	return cmd
}
