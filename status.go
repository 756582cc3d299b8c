package mcp2210

import "fmt"

// BusOwner identifies the current owner of the SPI bus.
type BusOwner int

const (
	BusOwnerNone BusOwner = iota
	BusOwnerBridge
	BusOwnerExternalMaster
)

func (o BusOwner) String() string {
	switch o {
	case BusOwnerNone:
		return "none"
	case BusOwnerBridge:
		return "usb bridge"
	case BusOwnerExternalMaster:
		return "external master"
	default:
		return "unknown"
	}
}

func busOwnerFromByte(v byte) (BusOwner, error) {
	if v > 0x02 {
		return 0, fmt.Errorf("%w: bus owner %#02x", ErrInvalidReport, v)
	}
	return BusOwner(v), nil
}

// ChipStatus is the decoded payload of the chip status and transfer cancel
// responses.
type ChipStatus struct {
	// BusReleasePending reports whether an external master has requested
	// the SPI bus and the chip has not released it yet.
	BusReleasePending bool
	// BusOwner is the current owner of the SPI bus.
	BusOwner BusOwner
	// PasswordAttempts is the number of NVRAM access password attempts
	// made since power-up.
	PasswordAttempts uint8
	// PasswordGuessed reports whether the access password was accepted.
	PasswordGuessed bool
}

func parseChipStatus(p []byte) (ChipStatus, error) {
	// Byte 2 reads as "no external release request pending".
	noRelease, err := parseBool(p[2])
	if err != nil {
		return ChipStatus{}, fmt.Errorf("bus release flag: %w", err)
	}
	owner, err := busOwnerFromByte(p[3])
	if err != nil {
		return ChipStatus{}, err
	}
	guessed, err := parseBool(p[5])
	if err != nil {
		return ChipStatus{}, fmt.Errorf("password flag: %w", err)
	}
	return ChipStatus{
		BusReleasePending: !noRelease,
		BusOwner:          owner,
		PasswordAttempts:  p[4],
		PasswordGuessed:   guessed,
	}, nil
}

func parseBool(v byte) (bool, error) {
	switch v {
	case 0x00:
		return false, nil
	case 0x01:
		return true, nil
	default:
		return false, fmt.Errorf("%w: boolean %#02x", ErrInvalidReport, v)
	}
}
