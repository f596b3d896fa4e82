package ipgate

import (
	"fmt"
	"net/netip"
	"strconv"
	"strings"
)

// NormalizeCIDR parses a bare address or CIDR string in either address family
// and renders it in canonical form. IPv4 output is dotted decimal, IPv6 output
// is fully expanded to eight hextets with no "::" compression, and the prefix
// length is always explicit (/32 and /128 for bare addresses). Two textually
// different spellings of the same range always normalize to the identical
// string, and the function is idempotent.
func NormalizeCIDR(input string) (string, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return "", ErrInvalidInput
	}

	addrPart, prefixPart, hasPrefix := strings.Cut(trimmed, "/")

	addr, err := netip.ParseAddr(addrPart)
	if err != nil || addr.Zone() != "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidAddress, addrPart)
	}

	isV6 := strings.Contains(addrPart, ":")
	maxBits := 32
	if isV6 {
		maxBits = 128
	}

	bits := maxBits
	if hasPrefix {
		parsed, err := strconv.Atoi(prefixPart)
		if err != nil || parsed < 0 || parsed > maxBits {
			return "", fmt.Errorf("%w: prefix /%s", ErrInvalidAddress, prefixPart)
		}
		bits = parsed
	}

	return canonicalAddr(addr, isV6) + "/" + strconv.Itoa(bits), nil
}

// canonicalAddr renders the address without any compression so that equal
// addresses always produce byte-identical strings. The family follows the
// input spelling: "::ffff:1.2.3.4" stays an IPv6 address here.
func canonicalAddr(addr netip.Addr, isV6 bool) string {
	if !isV6 {
		return addr.Unmap().String()
	}

	raw := addr.As16()
	hextets := make([]string, 8)
	for i := 0; i < 8; i++ {
		hextets[i] = fmt.Sprintf("%04x", uint16(raw[2*i])<<8|uint16(raw[2*i+1]))
	}
	return strings.Join(hextets, ":")
}
