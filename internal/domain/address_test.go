package domain

import (
	"errors"
	"testing"
)

func TestNewAddressCanonicalForm(t *testing.T) {
	testCases := map[string]string{
		"137.43.4.18":    "137.43.4.18/32",
		"137.43.4.18/32": "137.43.4.18/32",
		"137.43":         "137.43.0.0/32",
		"137.43/16":      "137.43.0.0/16",
		"10/8":           "10.0.0.0/8",
		"0.0.0.0/0":      "0.0.0.0/0",
	}

	for input, want := range testCases {
		address, err := NewAddress(input, "")
		if err != nil {
			t.Fatalf("NewAddress(%q) returned error: %v", input, err)
		}
		if address.CIDR != want {
			t.Errorf("NewAddress(%q).CIDR = %s, want %s", input, address.CIDR, want)
		}
	}
}

func TestNewAddressValue(t *testing.T) {
	address, err := NewAddress("137.43.4.18", "")
	if err != nil {
		t.Fatalf("NewAddress returned error: %v", err)
	}
	want := uint32(137)<<24 | uint32(43)<<16 | uint32(4)<<8 | uint32(18)
	if address.Value != want {
		t.Fatalf("Value = %d, want %d", address.Value, want)
	}

	short, err := NewAddress("137.43", "")
	if err != nil {
		t.Fatalf("NewAddress returned error: %v", err)
	}
	if short.Value != uint32(137)<<24|uint32(43)<<16 {
		t.Fatalf("short form Value = %d, want %d", short.Value, uint32(137)<<24|uint32(43)<<16)
	}
	if short.Prefix != 32 {
		t.Fatalf("short form Prefix = %d, want 32", short.Prefix)
	}
}

func TestNewAddressInvalid(t *testing.T) {
	invalidAddresses := []string{
		"999.1.1.1",
		"1.2.3.4.5",
		"10.0.0.-1",
		"not.an.ip",
		"",
	}
	for _, input := range invalidAddresses {
		if _, err := NewAddress(input, ""); !errors.Is(err, ErrInvalidAddress) {
			t.Errorf("NewAddress(%q) returned %v, want ErrInvalidAddress", input, err)
		}
	}

	invalidPrefixes := []string{
		"10.0.0.0/xx",
		"10.0.0.0/-1",
		"10.0.0.0/",
	}
	for _, input := range invalidPrefixes {
		if _, err := NewAddress(input, ""); !errors.Is(err, ErrInvalidPrefix) {
			t.Errorf("NewAddress(%q) returned %v, want ErrInvalidPrefix", input, err)
		}
	}
}

func TestContains(t *testing.T) {
	mustAddress := func(text string) *Address {
		t.Helper()
		address, err := NewAddress(text, "")
		if err != nil {
			t.Fatalf("NewAddress(%q) returned error: %v", text, err)
		}
		return address
	}

	t.Run("reflexive at equal prefix", func(t *testing.T) {
		host := mustAddress("10.0.0.1/32")
		if !host.Contains(host) {
			t.Fatal("host does not contain itself")
		}
	})

	t.Run("network contains host, not the reverse", func(t *testing.T) {
		network := mustAddress("10.0/16")
		host := mustAddress("10.0.0.1/32")
		if !network.Contains(host) {
			t.Fatal("10.0/16 should contain 10.0.0.1/32")
		}
		if host.Contains(network) {
			t.Fatal("10.0.0.1/32 should not contain 10.0/16")
		}
	})

	t.Run("prefix zero matches everything", func(t *testing.T) {
		all := mustAddress("0.0.0.0/0")
		if !all.Contains(mustAddress("200.1.2.3/32")) {
			t.Fatal("0.0.0.0/0 should contain 200.1.2.3/32")
		}
		if !all.Contains(mustAddress("137.43/16")) {
			t.Fatal("0.0.0.0/0 should contain 137.43/16")
		}
	})

	t.Run("disjoint networks", func(t *testing.T) {
		if mustAddress("10.0/16").Contains(mustAddress("11.0.0.1")) {
			t.Fatal("10.0/16 should not contain 11.0.0.1")
		}
	})

	t.Run("prefix past 32 compares exact values", func(t *testing.T) {
		if !mustAddress("10.0.0.1/40").Contains(mustAddress("10.0.0.1/40")) {
			t.Fatal("equal addresses at /40 should match")
		}
		if mustAddress("10.0.0.1/40").Contains(mustAddress("10.0.0.2/48")) {
			t.Fatal("different addresses at oversized prefixes should not match")
		}
	})

	t.Run("nil candidate", func(t *testing.T) {
		if mustAddress("10.0/16").Contains(nil) {
			t.Fatal("Contains(nil) should be false")
		}
	})
}

func TestAddressString(t *testing.T) {
	address, err := NewAddress("137.43/16", "net")
	if err != nil {
		t.Fatalf("NewAddress returned error: %v", err)
	}
	if got := address.String(); got != "137.43.0.0/16 (net)" {
		t.Fatalf("String returned %q, want %q", got, "137.43.0.0/16 (net)")
	}

	address.Note = ""
	if got := address.String(); got != "137.43.0.0/16" {
		t.Fatalf("String returned %q, want %q", got, "137.43.0.0/16")
	}
}
