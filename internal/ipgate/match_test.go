package ipgate

import (
	"reflect"
	"testing"

	"mailroom/internal/domain"
)

func TestIPInCIDR(t *testing.T) {
	tests := []struct {
		name    string
		address string
		cidr    string
		want    bool
	}{
		{name: "ipv4 inside /24", address: "203.0.113.10", cidr: "203.0.113.0/24", want: true},
		{name: "ipv4 outside /24", address: "203.0.114.1", cidr: "203.0.113.0/24", want: false},
		{name: "exact /32 match", address: "203.0.113.10", cidr: "203.0.113.10/32", want: true},
		{name: "exact /32 mismatch", address: "203.0.113.11", cidr: "203.0.113.10/32", want: false},
		{name: "zero prefix matches all v4", address: "198.51.100.77", cidr: "0.0.0.0/0", want: true},
		{name: "ipv6 inside /32", address: "2001:db8::1", cidr: "2001:db8::/32", want: true},
		{name: "ipv6 outside /32", address: "2001:db9::1", cidr: "2001:db8::/32", want: false},
		{
			name:    "ipv6 canonical cidr form",
			address: "2001:db8::1",
			cidr:    "2001:0db8:0000:0000:0000:0000:0000:0000/32",
			want:    true,
		},
		{name: "ipv4-mapped unwrap", address: "::ffff:203.0.113.10", cidr: "203.0.113.10/32", want: true},
		{name: "ipv4-mapped unwrap into range", address: "::ffff:203.0.113.10", cidr: "203.0.113.0/24", want: true},
		{name: "family mismatch v6 addr v4 cidr", address: "2001:db8::1", cidr: "203.0.113.0/24", want: false},
		{name: "family mismatch v4 addr v6 cidr", address: "203.0.113.10", cidr: "2001:db8::/32", want: false},
		{name: "unparsable address matches nothing", address: "garbage", cidr: "203.0.113.0/24", want: false},
		{name: "empty address matches nothing", address: "", cidr: "0.0.0.0/0", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IPInCIDR(tt.address, tt.cidr); got != tt.want {
				t.Fatalf("IPInCIDR(%q, %q) = %v, want %v", tt.address, tt.cidr, got, tt.want)
			}
		})
	}
}

func TestMatchingEntryIDs(t *testing.T) {
	entries := []domain.WhitelistEntry{
		{ID: 5, CIDR: "203.0.113.0/24"},
		{ID: 2, CIDR: "198.51.100.5/32"},
		{ID: 9, CIDR: "203.0.113.10/32"},
		{ID: 7, CIDR: "0.0.0.0/0"},
	}

	got := MatchingEntryIDs("203.0.113.10", entries)
	want := []uint64{5, 9, 7}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("MatchingEntryIDs returned %v, want %v (input order, all matches)", got, want)
	}

	if got := MatchingEntryIDs("192.0.2.1", entries[:3]); got != nil {
		t.Fatalf("expected no matches, got %v", got)
	}
}
