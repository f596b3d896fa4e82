package ipgate

import (
	"net/netip"

	"mailroom/internal/domain"
)

// IPInCIDR reports whether address falls inside the given canonical CIDR.
// IPv4-mapped IPv6 addresses ("::ffff:a.b.c.d") are unwrapped to their
// embedded IPv4 form before comparison. An unparsable address matches
// nothing, so the function returns false instead of an error.
func IPInCIDR(address, cidr string) bool {
	addr, err := netip.ParseAddr(address)
	if err != nil {
		return false
	}
	addr = addr.Unmap()

	prefix, err := netip.ParsePrefix(cidr)
	if err != nil {
		return false
	}

	if addr.Is4() != prefix.Addr().Is4() {
		return false
	}

	// Contains compares the top prefix-length bits, so /0 matches every
	// address of the family and /32 or /128 only the exact address.
	return prefix.Contains(addr)
}

// MatchingEntryIDs returns the ids of every entry whose CIDR contains the
// address, in input order. All matches are returned; the gate has no
// most-specific-wins precedence.
func MatchingEntryIDs(address string, entries []domain.WhitelistEntry) []uint64 {
	var ids []uint64
	for _, entry := range entries {
		if IPInCIDR(address, entry.CIDR) {
			ids = append(ids, entry.ID)
		}
	}
	return ids
}
