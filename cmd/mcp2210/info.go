package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"text/template"

	"github.com/peterbourgon/ff/v3/ffcli"
	"github.com/voltblue/go-mcp2210"
)

type infoConfig struct {
	rootConfig *rootConfig
	out        io.Writer
	err        io.Writer
	json       bool
}

func (c *infoConfig) Exec(ctx context.Context, _ []string) error {
	if c.rootConfig.verbose {
		fmt.Fprintf(c.err, "info\n")
	}

	d, closer, err := newDev(c.rootConfig)
	if err != nil {
		return err
	}
	defer closer.Close()

	di, err := getDeviceInfo(ctx, d)
	if err != nil {
		return err
	}

	if c.json {
		return writeJSON(c.out, di)
	} else {
		return writeText(c.out, di)
	}
}

const deviceInfoTemplate = `
Chip Status:
    bus owner is {{ .BusOwner }}
    bus release {{ if .BusReleasePending }}requested by external master{{ else }}not requested{{ end }}
    {{ .PasswordAttempts }} password attempts, password {{ if .PasswordGuessed }}accepted{{ else }}not accepted{{ end }}

SPI Transfer Settings:
    {{ .BitRate }} bps, mode {{ .SpiMode }}
    {{ .BytesPerTransaction }} bytes per transaction

GPIO:
    value     {{ pins .GPIOValue }}
    direction {{ pins .GPIODirection }} (1 = input)

USB Identity:
    {{ .VendorName }} {{ .ProductName }} ({{ printf "%04x:%04x" .VendorID .ProductID }})
    {{ current .RequestedCurrent }} mA requested

Done
`

func writeText(w io.Writer, di *deviceInfo) error {
	funcs := template.FuncMap{
		"pins": func(m mcp2210.GPIOMask) string {
			return fmt.Sprintf("%09b", uint16(m))
		},
		"current": func(v uint8) int {
			return int(v) * 2
		},
	}
	t, err := template.New("info").Funcs(funcs).Parse(deviceInfoTemplate)
	if err != nil {
		return err
	}

	return t.Execute(w, di)
}

func newInfoCmd(
	rootConfig *rootConfig, out io.Writer, err io.Writer,
) *ffcli.Command {
	cfg := infoConfig{
		rootConfig: rootConfig,
		out:        out,
		err:        err,
	}

	fs := flag.NewFlagSet("mcp2210 info", flag.ExitOnError)
	fs.BoolVar(&cfg.json, "json", false, "output in json mode")
	rootConfig.registerFlags(fs)

	return addLongHelp(&ffcli.Command{
		Name:       "info",
		ShortUsage: "info",
		ShortHelp:  "Returns information about the bridge and its settings.",
		FlagSet:    fs,
		Exec:       cfg.Exec,
	})
}

type deviceInfo struct {
	BusOwner            string           `json:"bus_owner"`
	BusReleasePending   bool             `json:"bus_release_pending"`
	PasswordAttempts    uint8            `json:"password_attempts"`
	PasswordGuessed     bool             `json:"password_guessed"`
	BitRate             uint32           `json:"bit_rate"`
	SpiMode             uint8            `json:"spi_mode"`
	BytesPerTransaction uint16           `json:"bytes_per_transaction"`
	GPIOValue           mcp2210.GPIOMask `json:"gpio_value"`
	GPIODirection       mcp2210.GPIOMask `json:"gpio_direction"`
	VendorID            uint16           `json:"vendor_id"`
	ProductID           uint16           `json:"product_id"`
	RequestedCurrent    uint8            `json:"requested_current"`
	VendorName          string           `json:"vendor_name"`
	ProductName         string           `json:"product_name"`
}

func getDeviceInfo(ctx context.Context, d *mcp2210.Dev) (*deviceInfo, error) {
	var di = &deviceInfo{}

	status, err := d.ChipStatus(ctx)
	if err != nil {
		return nil, err
	}
	di.BusOwner = status.BusOwner.String()
	di.BusReleasePending = status.BusReleasePending
	di.PasswordAttempts = status.PasswordAttempts
	di.PasswordGuessed = status.PasswordGuessed

	settings, err := d.SpiTransferSettings(ctx)
	if err != nil {
		return di, err
	}
	di.BitRate = settings.BitRate
	di.SpiMode = uint8(settings.Mode)
	di.BytesPerTransaction = settings.BytesPerTransaction

	di.GPIOValue, err = d.GPIOValue(ctx)
	if err != nil {
		return di, err
	}
	di.GPIODirection, err = d.GPIODirection(ctx)
	if err != nil {
		return di, err
	}

	params, err := d.NVRAMUsbParameters(ctx)
	if err != nil {
		return di, err
	}
	di.VendorID = params.VendorID
	di.ProductID = params.ProductID
	di.RequestedCurrent = params.RequestedCurrent

	di.VendorName, err = d.USBVendorName(ctx)
	if err != nil {
		return di, err
	}
	di.ProductName, err = d.USBProductName(ctx)
	if err != nil {
		return di, err
	}

	return di, nil
}
