package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestPrettyHexIndent(t *testing.T) {
	testCases := []struct {
		name   string
		in     []byte
		prefix string
		space  string
		want   string
	}{
		{"empty", []byte{}, "  ", "", ""},
		{"one", []byte{0x00}, "  ", "", "  00"},
		{"two", []byte{0x00, 0x01}, "  ", "", "  00 01"},
		{"three", []byte{0x00, 0x01, 0x02}, "    ", "", "    00 01 02"},
		{
			"big", bytes.Repeat([]byte{0x00}, 32), "    ", "",
			"    00 00 00 00 00 00 00 00 00 00 00 00 00 00 00 00\n" +
				"    00 00 00 00 00 00 00 00 00 00 00 00 00 00 00 00",
		},
		{
			"space", bytes.Repeat([]byte{0x00}, 32), "    ", " ",
			"    00 00 00 00 00 00 00 00  00 00 00 00 00 00 00 00\n" +
				"    00 00 00 00 00 00 00 00  00 00 00 00 00 00 00 00",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := prettyHexIndent(tc.in, tc.prefix, tc.space)
			if got != tc.want {
				t.Errorf("want %q, got %q", tc.want, got)
			}
		})
	}
}

func TestParseUSBID(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want uint16
	}{
		{"04d8", 0x04d8},
		{"0x04d8", 0x04d8},
		{"00de", 0x00de},
	} {
		got, err := parseUSBID(tc.in)
		if err != nil {
			t.Errorf("parseUSBID(%q): %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("parseUSBID(%q) = %#04x, want %#04x", tc.in, got, tc.want)
		}
	}
	if _, err := parseUSBID("zz"); err == nil {
		t.Error("parseUSBID accepted non-hex input")
	}
}

func TestParsePinMask(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want uint16
	}{
		{"0x1ff", 0x1ff},
		{"1ff", 0x1ff},
		{"0b000000001", 0x001},
		{"0", 0},
	} {
		got, err := parsePinMask(tc.in)
		if err != nil {
			t.Errorf("parsePinMask(%q): %v", tc.in, err)
			continue
		}
		if uint16(got) != tc.want {
			t.Errorf("parsePinMask(%q) = %#03x, want %#03x", tc.in, got, tc.want)
		}
	}
	if _, err := parsePinMask("0x3ff"); err == nil {
		t.Error("parsePinMask accepted a 10 bit mask")
	}
}

func TestReadPayload(t *testing.T) {
	got, err := readPayload(strings.NewReader("de ad\nbe ef\n"), nil)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, []byte{0xde, 0xad, 0xbe, 0xef}) {
		t.Errorf("payload % x", got)
	}

	got, err = readPayload(nil, []string{"0102", "03"})
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, []byte{0x01, 0x02, 0x03}) {
		t.Errorf("payload % x", got)
	}

	if _, err := readPayload(strings.NewReader(""), nil); err == nil {
		t.Error("empty payload accepted")
	}
}
