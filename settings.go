package mcp2210

import (
	"encoding/binary"
	"fmt"
	"unicode/utf16"
)

// Bit rates accepted by the chip, in Hz.
const (
	MinBitRate = 1464
	MaxBitRate = 12000000
)

// ChipSelect is a bit mask over the nine chip select lines.
type ChipSelect uint16

const (
	CS0 ChipSelect = 1 << iota
	CS1
	CS2
	CS3
	CS4
	CS5
	CS6
	CS7
	CS8
)

const (
	ChipSelectAllHigh ChipSelect = 0x1ff
	ChipSelectAllLow  ChipSelect = 0x000
)

// GPIOMask is a bit mask over the nine general purpose pins.
type GPIOMask uint16

const (
	GP0 GPIOMask = 1 << iota
	GP1
	GP2
	GP3
	GP4
	GP5
	GP6
	GP7
	GP8
)

const (
	GPIOAllHigh GPIOMask = 0x1ff
	GPIOAllLow  GPIOMask = 0x000

	// Direction masks: a set bit configures the pin as an input.
	GPIOAllInputs  = GPIOAllHigh
	GPIOAllOutputs = GPIOAllLow
)

// SpiMode selects the SPI clock polarity and phase.
type SpiMode uint8

const (
	SpiMode0 SpiMode = 0x00
	SpiMode1 SpiMode = 0x01
	SpiMode2 SpiMode = 0x02
	SpiMode3 SpiMode = 0x03
)

func (m SpiMode) String() string {
	if m > SpiMode3 {
		return fmt.Sprintf("SpiMode(%d)", uint8(m))
	}
	return fmt.Sprintf("Mode%d", uint8(m))
}

func spiModeFromByte(v byte) (SpiMode, error) {
	if v > 0x03 {
		return 0, fmt.Errorf("%w: spi mode %#02x", ErrInvalidReport, v)
	}
	return SpiMode(v), nil
}

// SpiTransferSettings are the transfer parameters of the SPI master. They
// occupy bytes 4 through 20 of the settings reports, in both directions.
//
// Delay fields are in quanta of 100 µs.
type SpiTransferSettings struct {
	// BitRate is the SPI clock rate in Hz.
	BitRate uint32
	// IdleCS and ActiveCS are the chip select line levels outside and
	// inside a transaction.
	IdleCS   ChipSelect
	ActiveCS ChipSelect
	// CSToDataDelay is the delay between chip select assertion and the
	// first data byte.
	CSToDataDelay uint16
	// LastDataToCSDelay is the delay between the last data byte and chip
	// select release.
	LastDataToCSDelay uint16
	// InterByteDelay is the delay between consecutive data bytes.
	InterByteDelay uint16
	// BytesPerTransaction is the number of bytes the chip exchanges per
	// logical SPI transaction. It bounds the chunk size of Transfer.
	BytesPerTransaction uint16
	// Mode is the SPI mode (clock polarity and phase).
	Mode SpiMode
}

// DefaultSpiTransferSettings returns settings matching the chip's factory
// NVRAM contents.
func DefaultSpiTransferSettings() SpiTransferSettings {
	return SpiTransferSettings{
		BitRate:             MaxBitRate,
		IdleCS:              ChipSelectAllHigh,
		ActiveCS:            ChipSelectAllLow,
		BytesPerTransaction: 4,
		Mode:                SpiMode0,
	}
}

// Validate checks every field against the ranges the chip accepts. It is
// called before the settings are marshaled, so out-of-range values never
// reach the wire.
func (s SpiTransferSettings) Validate() error {
	if s.BitRate < MinBitRate || s.BitRate > MaxBitRate {
		return fmt.Errorf("%w: bit rate %d out of range [%d, %d]",
			ErrInvalidSettings, s.BitRate, MinBitRate, MaxBitRate)
	}
	if s.IdleCS > ChipSelectAllHigh || s.ActiveCS > ChipSelectAllHigh {
		return fmt.Errorf("%w: chip select mask wider than 9 bits", ErrInvalidSettings)
	}
	if s.BytesPerTransaction == 0 {
		return fmt.Errorf("%w: bytes per transaction must be at least 1", ErrInvalidSettings)
	}
	if s.Mode > SpiMode3 {
		return fmt.Errorf("%w: spi mode %d", ErrInvalidSettings, uint8(s.Mode))
	}
	return nil
}

func (s SpiTransferSettings) marshal(p []byte) {
	binary.LittleEndian.PutUint32(p[4:8], s.BitRate)
	binary.LittleEndian.PutUint16(p[8:10], uint16(s.IdleCS))
	binary.LittleEndian.PutUint16(p[10:12], uint16(s.ActiveCS))
	binary.LittleEndian.PutUint16(p[12:14], s.CSToDataDelay)
	binary.LittleEndian.PutUint16(p[14:16], s.LastDataToCSDelay)
	binary.LittleEndian.PutUint16(p[16:18], s.InterByteDelay)
	binary.LittleEndian.PutUint16(p[18:20], s.BytesPerTransaction)
	p[20] = byte(s.Mode)
}

func parseSpiTransferSettings(p []byte) (SpiTransferSettings, error) {
	if len(p) < 21 {
		return SpiTransferSettings{}, fmt.Errorf("%w: truncated spi transfer settings", ErrInvalidReport)
	}
	mode, err := spiModeFromByte(p[20])
	if err != nil {
		return SpiTransferSettings{}, err
	}
	return SpiTransferSettings{
		BitRate:             binary.LittleEndian.Uint32(p[4:8]),
		IdleCS:              ChipSelect(binary.LittleEndian.Uint16(p[8:10])),
		ActiveCS:            ChipSelect(binary.LittleEndian.Uint16(p[10:12])),
		CSToDataDelay:       binary.LittleEndian.Uint16(p[12:14]),
		LastDataToCSDelay:   binary.LittleEndian.Uint16(p[14:16]),
		InterByteDelay:      binary.LittleEndian.Uint16(p[16:18]),
		BytesPerTransaction: binary.LittleEndian.Uint16(p[18:20]),
		Mode:                mode,
	}, nil
}

// PinMode selects the function of a general purpose pin.
type PinMode uint8

const (
	PinModeGPIO       PinMode = 0x00
	PinModeChipSelect PinMode = 0x01
	PinModeDedicated  PinMode = 0x02
)

func (m PinMode) String() string {
	switch m {
	case PinModeGPIO:
		return "gpio"
	case PinModeChipSelect:
		return "chip select"
	case PinModeDedicated:
		return "dedicated"
	default:
		return fmt.Sprintf("PinMode(%d)", uint8(m))
	}
}

func pinModeFromByte(v byte) (PinMode, error) {
	if v > 0x02 {
		return 0, fmt.Errorf("%w: pin mode %#02x", ErrInvalidReport, v)
	}
	return PinMode(v), nil
}

// InterruptMode selects which GP6 events the interrupt counter counts.
type InterruptMode uint8

const (
	InterruptNone         InterruptMode = 0x00
	InterruptFallingEdges InterruptMode = 0x01
	InterruptRisingEdges  InterruptMode = 0x02
	InterruptLowPulses    InterruptMode = 0x03
	InterruptHighPulses   InterruptMode = 0x04
)

func interruptModeFromByte(v byte) (InterruptMode, error) {
	if v > 0x04 {
		return 0, fmt.Errorf("%w: interrupt mode %#02x", ErrInvalidReport, v)
	}
	return InterruptMode(v), nil
}

// NVRAMAccessControl selects how NVRAM writes are protected.
type NVRAMAccessControl uint8

const (
	NVRAMAccessNone     NVRAMAccessControl = 0x00
	NVRAMAccessPassword NVRAMAccessControl = 0x40
	NVRAMAccessLocked   NVRAMAccessControl = 0x80
)

func nvramAccessControlFromByte(v byte) (NVRAMAccessControl, error) {
	switch v {
	case 0x00, 0x40, 0x80:
		return NVRAMAccessControl(v), nil
	default:
		return 0, fmt.Errorf("%w: nvram access control %#02x", ErrInvalidReport, v)
	}
}

// ChipSettings is the static pin and power configuration of the chip. It
// occupies bytes 4 through 18 of the settings reports, in both directions.
type ChipSettings struct {
	// PinModes holds the function of pins GP0 through GP8.
	PinModes [9]PinMode
	// DefaultGPIOValue and DefaultGPIODirection are the power-on levels
	// and directions of the pins configured as GPIO.
	DefaultGPIOValue     GPIOMask
	DefaultGPIODirection GPIOMask
	// RemoteWakeup enables USB remote wakeup on interrupt events.
	RemoteWakeup bool
	// InterruptMode selects the GP6 event edge counted by the chip.
	InterruptMode InterruptMode
	// SPIBusReleaseEnabled lets the chip hand the bus over to an external
	// master between transfers.
	SPIBusReleaseEnabled bool
	// AccessControl selects the NVRAM write protection.
	AccessControl NVRAMAccessControl
}

func (s ChipSettings) marshal(p []byte) {
	for i, m := range s.PinModes {
		p[4+i] = byte(m)
	}
	binary.LittleEndian.PutUint16(p[13:15], uint16(s.DefaultGPIOValue))
	binary.LittleEndian.PutUint16(p[15:17], uint16(s.DefaultGPIODirection))
	var b byte
	if s.RemoteWakeup {
		b |= 0x10
	}
	b |= byte(s.InterruptMode) << 1
	if !s.SPIBusReleaseEnabled {
		b |= 0x01
	}
	p[17] = b
	p[18] = byte(s.AccessControl)
}

func parseChipSettings(p []byte) (ChipSettings, error) {
	if len(p) < 19 {
		return ChipSettings{}, fmt.Errorf("%w: truncated chip settings", ErrInvalidReport)
	}
	var s ChipSettings
	for i := range s.PinModes {
		m, err := pinModeFromByte(p[4+i])
		if err != nil {
			return ChipSettings{}, fmt.Errorf("gp%d: %w", i, err)
		}
		s.PinModes[i] = m
	}
	s.DefaultGPIOValue = GPIOMask(binary.LittleEndian.Uint16(p[13:15])) & GPIOAllHigh
	s.DefaultGPIODirection = GPIOMask(binary.LittleEndian.Uint16(p[15:17])) & GPIOAllHigh
	s.RemoteWakeup = p[17]&0x10 != 0
	mode, err := interruptModeFromByte(p[17] >> 1 & 0x07)
	if err != nil {
		return ChipSettings{}, err
	}
	s.InterruptMode = mode
	s.SPIBusReleaseEnabled = p[17]&0x01 == 0
	ac, err := nvramAccessControlFromByte(p[18])
	if err != nil {
		return ChipSettings{}, err
	}
	s.AccessControl = ac
	return s, nil
}

// UsbPowerOption selects how the chip reports its power source.
type UsbPowerOption uint8

const (
	PowerSelfPowered UsbPowerOption = 0x01
	PowerHostPowered UsbPowerOption = 0x02
)

func usbPowerOptionFromByte(v byte) (UsbPowerOption, error) {
	switch v {
	case 0x01, 0x02:
		return UsbPowerOption(v), nil
	default:
		return 0, fmt.Errorf("%w: usb power option %#02x", ErrInvalidReport, v)
	}
}

// UsbParameters are the USB enumeration parameters stored in NVRAM.
//
// The chip reads and writes these at different report offsets, so the two
// marshaling directions are not symmetric. That is per datasheet, not a
// quirk of this package.
type UsbParameters struct {
	VendorID  uint16
	ProductID uint16
	// PowerOption selects self- or host-powered enumeration.
	PowerOption UsbPowerOption
	// RemoteWakeupCapable advertises remote wakeup in the USB descriptor.
	RemoteWakeupCapable bool
	// RequestedCurrent is the USB current request in units of 2 mA.
	RequestedCurrent uint8
}

// DefaultUsbParameters returns the chip's factory USB identity.
func DefaultUsbParameters() UsbParameters {
	return UsbParameters{
		VendorID:         VendorID,
		ProductID:        ProductID,
		PowerOption:      PowerHostPowered,
		RequestedCurrent: 50,
	}
}

func (u UsbParameters) marshal(p []byte) {
	binary.LittleEndian.PutUint16(p[4:6], u.VendorID)
	binary.LittleEndian.PutUint16(p[6:8], u.ProductID)
	b := byte(u.PowerOption) << 6
	if u.RemoteWakeupCapable {
		b |= 0x20
	}
	p[8] = b
	p[9] = u.RequestedCurrent
}

func parseUsbParameters(p []byte) (UsbParameters, error) {
	if len(p) < 31 {
		return UsbParameters{}, fmt.Errorf("%w: truncated usb parameters", ErrInvalidReport)
	}
	power, err := usbPowerOptionFromByte(p[29] >> 6)
	if err != nil {
		return UsbParameters{}, err
	}
	return UsbParameters{
		VendorID:            binary.LittleEndian.Uint16(p[12:14]),
		ProductID:           binary.LittleEndian.Uint16(p[14:16]),
		PowerOption:         power,
		RemoteWakeupCapable: p[29]&0x20 != 0,
		RequestedCurrent:    p[30],
	}, nil
}

// maxUSBStringLen is the longest USB string descriptor the NVRAM holds, in
// UTF-16 code units.
const maxUSBStringLen = 29

// parseUSBString decodes a USB string descriptor response. Byte 4 holds the
// descriptor length (string bytes plus two), byte 5 the descriptor type and
// bytes 6 onward the UTF-16LE string.
func parseUSBString(p []byte) (string, error) {
	if int(p[4]) < 2 || int(p[4]) > 2*maxUSBStringLen+2 {
		return "", fmt.Errorf("%w: string descriptor length %d", ErrInvalidReport, p[4])
	}
	n := (int(p[4]) - 2) / 2
	units := make([]uint16, n)
	for i := range units {
		units[i] = binary.LittleEndian.Uint16(p[6+2*i : 8+2*i])
	}
	return string(utf16.Decode(units)), nil
}
