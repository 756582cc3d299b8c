package mcp2210

import (
	"errors"
	"strconv"
	"testing"
)

func TestSpiTransferSettingsRoundTrip(t *testing.T) {
	testCases := []SpiTransferSettings{
		DefaultSpiTransferSettings(),
		{
			BitRate:             1500,
			IdleCS:              CS0 | CS4,
			ActiveCS:            CS1,
			CSToDataDelay:       10,
			LastDataToCSDelay:   20,
			InterByteDelay:      1,
			BytesPerTransaction: 2,
			Mode:                SpiMode3,
		},
		{
			BitRate:             MaxBitRate,
			IdleCS:              ChipSelectAllHigh,
			ActiveCS:            ChipSelectAllLow,
			BytesPerTransaction: 65535,
			Mode:                SpiMode1,
		},
	}

	for i, want := range testCases {
		t.Run(strconv.Itoa(i), func(t *testing.T) {
			if err := want.Validate(); err != nil {
				t.Fatal(err)
			}
			p := make([]byte, ReportSize)
			want.marshal(p)
			got, err := parseSpiTransferSettings(p)
			if err != nil {
				t.Fatal(err)
			}
			if got != want {
				t.Errorf("got %+v, want %+v", got, want)
			}
		})
	}
}

func TestSpiTransferSettingsValidate(t *testing.T) {
	valid := DefaultSpiTransferSettings()
	testCases := []struct {
		name   string
		mutate func(*SpiTransferSettings)
	}{
		{"bit rate too low", func(s *SpiTransferSettings) { s.BitRate = MinBitRate - 1 }},
		{"bit rate too high", func(s *SpiTransferSettings) { s.BitRate = MaxBitRate + 1 }},
		{"idle cs too wide", func(s *SpiTransferSettings) { s.IdleCS = 0x200 }},
		{"active cs too wide", func(s *SpiTransferSettings) { s.ActiveCS = 0x3ff }},
		{"zero transaction size", func(s *SpiTransferSettings) { s.BytesPerTransaction = 0 }},
		{"bad mode", func(s *SpiTransferSettings) { s.Mode = 4 }},
	}

	if err := valid.Validate(); err != nil {
		t.Fatal(err)
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s := valid
			tc.mutate(&s)
			if err := s.Validate(); !errors.Is(err, ErrInvalidSettings) {
				t.Errorf("got %v, want %v", err, ErrInvalidSettings)
			}
		})
	}
}

func TestParseSpiTransferSettingsTruncated(t *testing.T) {
	_, err := parseSpiTransferSettings(make([]byte, 20))
	if !errors.Is(err, ErrInvalidReport) {
		t.Fatalf("got %v, want %v", err, ErrInvalidReport)
	}
}

func TestChipSettingsRoundTrip(t *testing.T) {
	testCases := []ChipSettings{
		{
			DefaultGPIOValue:     GPIOAllHigh,
			DefaultGPIODirection: GPIOAllInputs,
			SPIBusReleaseEnabled: true,
		},
		{
			PinModes: [9]PinMode{
				PinModeChipSelect, PinModeGPIO, PinModeGPIO,
				PinModeDedicated, PinModeGPIO, PinModeChipSelect,
				PinModeGPIO, PinModeGPIO, PinModeGPIO,
			},
			DefaultGPIOValue:     GP1 | GP6,
			DefaultGPIODirection: GP2 | GP4 | GP8,
			RemoteWakeup:         true,
			InterruptMode:        InterruptRisingEdges,
			SPIBusReleaseEnabled: false,
			AccessControl:        NVRAMAccessPassword,
		},
	}

	for i, want := range testCases {
		t.Run(strconv.Itoa(i), func(t *testing.T) {
			p := make([]byte, ReportSize)
			want.marshal(p)
			got, err := parseChipSettings(p)
			if err != nil {
				t.Fatal(err)
			}
			if got != want {
				t.Errorf("got %+v, want %+v", got, want)
			}
		})
	}
}

func TestParseChipSettingsBadPinMode(t *testing.T) {
	p := make([]byte, ReportSize)
	ChipSettings{SPIBusReleaseEnabled: true}.marshal(p)
	p[7] = 0x05 // GP3
	_, err := parseChipSettings(p)
	if !errors.Is(err, ErrInvalidReport) {
		t.Fatalf("got %v, want %v", err, ErrInvalidReport)
	}
}

func TestUsbParametersMarshal(t *testing.T) {
	u := UsbParameters{
		VendorID:            0x04d8,
		ProductID:           0x00de,
		PowerOption:         PowerSelfPowered,
		RemoteWakeupCapable: true,
		RequestedCurrent:    50,
	}
	p := make([]byte, ReportSize)
	u.marshal(p)

	want := []byte{0xd8, 0x04, 0xde, 0x00, 0x01<<6 | 0x20, 50}
	for i, b := range want {
		if p[4+i] != b {
			t.Errorf("byte %d: got %#02x, want %#02x", 4+i, p[4+i], b)
		}
	}
}

func TestParseUsbParameters(t *testing.T) {
	// The chip reports these fields at different offsets than it
	// accepts them, so this is a fixture rather than a round trip.
	p := make([]byte, ReportSize)
	p[12], p[13] = 0xd8, 0x04
	p[14], p[15] = 0xde, 0x00
	p[29] = 0x02<<6 | 0x20
	p[30] = 50

	got, err := parseUsbParameters(p)
	if err != nil {
		t.Fatal(err)
	}
	want := UsbParameters{
		VendorID:            0x04d8,
		ProductID:           0x00de,
		PowerOption:         PowerHostPowered,
		RemoteWakeupCapable: true,
		RequestedCurrent:    50,
	}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestParseChipStatusBadOwner(t *testing.T) {
	p := make([]byte, ReportSize)
	p[2] = 0x01
	p[3] = 0x07
	_, err := parseChipStatus(p)
	if !errors.Is(err, ErrInvalidReport) {
		t.Fatalf("got %v, want %v", err, ErrInvalidReport)
	}
}
