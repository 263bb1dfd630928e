package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrInvalidAddress = errors.New("invalid address format")
	ErrInvalidPrefix  = errors.New("invalid prefix format")
)

// Address is a single registry entry: an IPv4 host or CIDR block together
// with the note it was stored under.
//
// Text keeps the address exactly as the caller supplied it and doubles as
// the registry key. CIDR is the normalized form, octets zero-padded to four
// segments plus an explicit prefix, so "137.43" renders as "137.43.0.0/32".
// Value holds the padded octets as a big-endian 32-bit integer.
type Address struct {
	Text   string
	Note   string
	CIDR   string
	Value  uint32
	Prefix int
}

// NewAddress parses an address in plain ("137.43.4.18"), short ("137.43") or
// CIDR ("137.43/16") form. Missing trailing octets are padded with zeros and
// a missing prefix defaults to /32.
func NewAddress(text, note string) (*Address, error) {
	value, prefix := text, "32"
	if idx := strings.IndexByte(text, '/'); idx >= 0 {
		value, prefix = text[:idx], text[idx+1:]
	}

	octets := strings.Split(value, ".")
	if len(octets) > 4 {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAddress, text)
	}
	for len(octets) < 4 {
		octets = append(octets, "0")
	}

	var addrInt uint32
	for _, octet := range octets {
		parsed, err := strconv.ParseUint(octet, 10, 8)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidAddress, text)
		}
		addrInt = addrInt<<8 | uint32(parsed)
	}

	prefixInt, err := strconv.ParseUint(prefix, 10, 8)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPrefix, prefix)
	}

	return &Address{
		Text:   text,
		Note:   note,
		CIDR:   strings.Join(octets, ".") + "/" + prefix,
		Value:  addrInt,
		Prefix: int(prefixInt),
	}, nil
}

// Contains reports whether other falls inside this address block: the top
// Prefix bits of both values must match and other must be at least as
// specific. A /32 host is contained in a /16 network, never the reverse.
func (address *Address) Contains(other *Address) bool {
	if other == nil || address.Prefix > other.Prefix {
		return false
	}

	// Prefix 0 matches every address; returning early keeps the shift
	// below inside [0, 31].
	if address.Prefix <= 0 {
		return true
	}

	// Prefixes past 32 are accepted verbatim by NewAddress and degrade
	// to an exact value comparison.
	shift := 0
	if address.Prefix < 32 {
		shift = 32 - address.Prefix
	}
	return address.Value>>shift == other.Value>>shift
}

func (address *Address) String() string {
	if address.Note == "" {
		return address.CIDR
	}
	return fmt.Sprintf("%s (%s)", address.CIDR, address.Note)
}
