package sdk

import "strings"

type AddressType string

const (
	AddressTypeNamed    AddressType = "named"
	AddressTypeImplicit AddressType = "implicit"
	AddressTypeUnknown  AddressType = "unknown"
)

const (
	minAddressLen = 2
	maxAddressLen = 64
)

// Address is an account identity as handed to us by the host.
type Address string

// String returns the literal representation (like alice.testnet) of the address.
// Example payload: sdk.Address("alice.testnet").String()
func (a Address) String() string {
	return string(a)
}

// IsEmpty reports whether the address carries no identity at all.
func (a Address) IsEmpty() bool {
	return a == ""
}

// Type tells a 64 char hex implicit account apart from a named one.
// Example payload: sdk.Address("bob.near").Type()
func (a Address) Type() AddressType {
	if !a.IsValid() {
		return AddressTypeUnknown
	}
	s := a.String()
	if len(s) == maxAddressLen && isHex(s) {
		return AddressTypeImplicit
	}
	return AddressTypeNamed
}

// IsValid applies the account id grammar: 2..64 chars of [a-z0-9] parts
// joined by single '-', '_' or '.' separators.
// Example payload: sdk.Address("a..b").IsValid()
func (a Address) IsValid() bool {
	s := a.String()
	if len(s) < minAddressLen || len(s) > maxAddressLen {
		return false
	}
	lastSep := true
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9':
			lastSep = false
		case c == '-' || c == '_' || c == '.':
			if lastSep {
				return false
			}
			lastSep = true
		default:
			return false
		}
	}
	return !lastSep
}

// TopLevel returns the part after the last dot, "" for top level names.
func (a Address) TopLevel() string {
	s := a.String()
	idx := strings.LastIndexByte(s, '.')
	if idx < 0 {
		return ""
	}
	return s[idx+1:]
}

func isHex(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !(c >= '0' && c <= '9') && !(c >= 'a' && c <= 'f') {
			return false
		}
	}
	return true
}
