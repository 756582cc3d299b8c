package mcp2210

import (
	"context"
	"encoding/binary"
	"fmt"
	"unicode/utf16"
)

// ChipStatus reads the current SPI bus ownership and password state.
func (d *Dev) ChipStatus(ctx context.Context) (ChipStatus, error) {
	rsp, err := d.command(ctx, cmdGetChipStatus, nil)
	if err != nil {
		return ChipStatus{}, err
	}
	return parseChipStatus(rsp)
}

// CancelSpiTransfer aborts the SPI transfer in progress, if any, and returns
// the resulting bus state.
func (d *Dev) CancelSpiTransfer(ctx context.Context) (ChipStatus, error) {
	rsp, err := d.command(ctx, cmdCancelSpiTransfer, nil)
	if err != nil {
		return ChipStatus{}, err
	}
	return parseChipStatus(rsp)
}

// InterruptEventCounter reads the number of GP6 interrupt events without
// clearing the counter.
func (d *Dev) InterruptEventCounter(ctx context.Context) (uint16, error) {
	rsp, err := d.command(ctx, cmdInterruptEventCounter, func(p []byte) {
		p[1] = 0xff // read only, do not reset
	})
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(rsp[4:6]), nil
}

// ResetInterruptEventCounter reads and clears the GP6 interrupt event
// counter, returning the value it held.
func (d *Dev) ResetInterruptEventCounter(ctx context.Context) (uint16, error) {
	rsp, err := d.command(ctx, cmdInterruptEventCounter, func(p []byte) {
		p[1] = 0x00
	})
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(rsp[4:6]), nil
}

// ChipSettings reads the runtime chip settings.
func (d *Dev) ChipSettings(ctx context.Context) (ChipSettings, error) {
	rsp, err := d.command(ctx, cmdGetChipSettings, nil)
	if err != nil {
		return ChipSettings{}, err
	}
	return parseChipSettings(rsp)
}

// SetChipSettings writes the runtime chip settings.
func (d *Dev) SetChipSettings(ctx context.Context, s ChipSettings) error {
	_, err := d.command(ctx, cmdSetChipSettings, s.marshal)
	return err
}

// GPIOValue reads the level of the pins configured as GPIO.
func (d *Dev) GPIOValue(ctx context.Context) (GPIOMask, error) {
	rsp, err := d.command(ctx, cmdGetGPIOValue, nil)
	if err != nil {
		return 0, err
	}
	return GPIOMask(binary.LittleEndian.Uint16(rsp[4:6])) & GPIOAllHigh, nil
}

// SetGPIOValue sets the level of the pins configured as GPIO outputs.
func (d *Dev) SetGPIOValue(ctx context.Context, v GPIOMask) error {
	_, err := d.command(ctx, cmdSetGPIOValue, func(p []byte) {
		binary.LittleEndian.PutUint16(p[4:6], uint16(v))
	})
	return err
}

// GPIODirection reads the direction of the pins configured as GPIO. A set
// bit means the pin is an input.
func (d *Dev) GPIODirection(ctx context.Context) (GPIOMask, error) {
	rsp, err := d.command(ctx, cmdGetGPIODirection, nil)
	if err != nil {
		return 0, err
	}
	return GPIOMask(binary.LittleEndian.Uint16(rsp[4:6])) & GPIOAllHigh, nil
}

// SetGPIODirection sets the direction of the pins configured as GPIO.
func (d *Dev) SetGPIODirection(ctx context.Context, v GPIOMask) error {
	_, err := d.command(ctx, cmdSetGPIODirection, func(p []byte) {
		binary.LittleEndian.PutUint16(p[4:6], uint16(v))
	})
	return err
}

// SpiTransferSettings reads the active SPI transfer settings.
func (d *Dev) SpiTransferSettings(ctx context.Context) (SpiTransferSettings, error) {
	rsp, err := d.command(ctx, cmdGetSpiSettings, nil)
	if err != nil {
		return SpiTransferSettings{}, err
	}
	s, err := parseSpiTransferSettings(rsp)
	if err != nil {
		return SpiTransferSettings{}, err
	}
	d.txSize = s.BytesPerTransaction
	return s, nil
}

// SetSpiTransferSettings validates and writes the active SPI transfer
// settings. Out-of-range values are rejected before any I/O.
func (d *Dev) SetSpiTransferSettings(ctx context.Context, s SpiTransferSettings) error {
	if err := s.Validate(); err != nil {
		return err
	}
	if _, err := d.command(ctx, cmdSetSpiSettings, s.marshal); err != nil {
		return err
	}
	d.txSize = s.BytesPerTransaction
	return nil
}

// ReadEEPROM reads one byte of user EEPROM.
func (d *Dev) ReadEEPROM(ctx context.Context, addr uint8) (uint8, error) {
	rsp, err := d.command(ctx, cmdReadEEPROM, func(p []byte) {
		p[1] = addr
	})
	if err != nil {
		return 0, err
	}
	if rsp[2] != addr {
		return 0, fmt.Errorf("%w: eeprom address mismatch (sent %#02x, got %#02x)",
			ErrProtocol, addr, rsp[2])
	}
	return rsp[3], nil
}

// WriteEEPROM writes one byte of user EEPROM.
func (d *Dev) WriteEEPROM(ctx context.Context, addr, value uint8) error {
	_, err := d.command(ctx, cmdWriteEEPROM, func(p []byte) {
		p[1] = addr
		p[2] = value
	})
	return err
}

// NVRAMSpiTransferSettings reads the power-on SPI transfer settings.
func (d *Dev) NVRAMSpiTransferSettings(ctx context.Context) (SpiTransferSettings, error) {
	rsp, err := d.subCommand(ctx, cmdGetNVRAM, nvramSpiSettings, nil)
	if err != nil {
		return SpiTransferSettings{}, err
	}
	return parseSpiTransferSettings(rsp)
}

// SetNVRAMSpiTransferSettings writes the power-on SPI transfer settings.
func (d *Dev) SetNVRAMSpiTransferSettings(ctx context.Context, s SpiTransferSettings) error {
	if err := s.Validate(); err != nil {
		return err
	}
	_, err := d.subCommand(ctx, cmdSetNVRAM, nvramSpiSettings, s.marshal)
	return err
}

// NVRAMChipSettings reads the power-on chip settings.
func (d *Dev) NVRAMChipSettings(ctx context.Context) (ChipSettings, error) {
	rsp, err := d.subCommand(ctx, cmdGetNVRAM, nvramChipSettings, nil)
	if err != nil {
		return ChipSettings{}, err
	}
	return parseChipSettings(rsp)
}

// SetNVRAMChipSettings writes the power-on chip settings. A non-nil password
// sets the NVRAM access password in the same exchange.
func (d *Dev) SetNVRAMChipSettings(ctx context.Context, s ChipSettings, password *[8]byte) error {
	_, err := d.subCommand(ctx, cmdSetNVRAM, nvramChipSettings, func(p []byte) {
		s.marshal(p)
		if password != nil {
			copy(p[19:27], password[:])
		}
	})
	return err
}

// NVRAMUsbParameters reads the USB enumeration parameters.
func (d *Dev) NVRAMUsbParameters(ctx context.Context) (UsbParameters, error) {
	rsp, err := d.subCommand(ctx, cmdGetNVRAM, nvramUsbParameters, nil)
	if err != nil {
		return UsbParameters{}, err
	}
	return parseUsbParameters(rsp)
}

// SetNVRAMUsbParameters writes the USB enumeration parameters. They take
// effect on the next enumeration.
func (d *Dev) SetNVRAMUsbParameters(ctx context.Context, u UsbParameters) error {
	_, err := d.subCommand(ctx, cmdSetNVRAM, nvramUsbParameters, u.marshal)
	return err
}

// USBProductName reads the USB product string descriptor from NVRAM.
func (d *Dev) USBProductName(ctx context.Context) (string, error) {
	return d.usbString(ctx, nvramUsbProductName)
}

// USBVendorName reads the USB vendor string descriptor from NVRAM.
func (d *Dev) USBVendorName(ctx context.Context) (string, error) {
	return d.usbString(ctx, nvramUsbVendorName)
}

// SetUSBProductName writes the USB product string descriptor to NVRAM.
func (d *Dev) SetUSBProductName(ctx context.Context, name string) error {
	return d.setUSBString(ctx, nvramUsbProductName, name)
}

// SetUSBVendorName writes the USB vendor string descriptor to NVRAM.
func (d *Dev) SetUSBVendorName(ctx context.Context, name string) error {
	return d.setUSBString(ctx, nvramUsbVendorName, name)
}

func (d *Dev) usbString(ctx context.Context, sub byte) (string, error) {
	rsp, err := d.subCommand(ctx, cmdGetNVRAM, sub, nil)
	if err != nil {
		return "", err
	}
	return parseUSBString(rsp)
}

func (d *Dev) setUSBString(ctx context.Context, sub byte, name string) error {
	units := utf16.Encode([]rune(name))
	if len(units) > maxUSBStringLen {
		return fmt.Errorf("%w: got %d", ErrStringSize, len(units))
	}
	_, err := d.subCommand(ctx, cmdSetNVRAM, sub, func(p []byte) {
		p[4] = byte(len(units))*2 + 2
		p[5] = 0x03 // USB string descriptor type
		for i, u := range units {
			binary.LittleEndian.PutUint16(p[6+2*i:8+2*i], u)
		}
	})
	return err
}

// SendAccessPassword submits the NVRAM access password. The chip reports
// ErrAccessDenied family errors on later NVRAM writes when it was wrong.
func (d *Dev) SendAccessPassword(ctx context.Context, password [8]byte) error {
	_, err := d.command(ctx, cmdSendAccessPassword, func(p []byte) {
		copy(p[4:12], password[:])
	})
	return err
}

// RequestSpiBusRelease asks the chip to release the SPI bus to an external
// master. ack is the level driven on the bus release acknowledge pin.
func (d *Dev) RequestSpiBusRelease(ctx context.Context, ack bool) error {
	_, err := d.command(ctx, cmdRequestBusRelease, func(p []byte) {
		if ack {
			p[1] = 0x01
		}
	})
	return err
}
