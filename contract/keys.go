package contract

import "moloch_dao/sdk"

// packU64LEInline writes x into dst in little-endian order so our keys stay compact.
func packU64LEInline(x uint64, dst []byte) {
	dst[0] = byte(x)
	dst[1] = byte(x >> 8)
	dst[2] = byte(x >> 16)
	dst[3] = byte(x >> 24)
	dst[4] = byte(x >> 32)
	dst[5] = byte(x >> 40)
	dst[6] = byte(x >> 48)
	dst[7] = byte(x >> 56)
}

// addressKey is prefix byte plus raw address, no separators needed since the prefix is fixed width.
func addressKey(prefix byte, addr sdk.Address) string {
	s := addr.String()
	buf := make([]byte, 0, 1+len(s))
	buf = append(buf, prefix)
	buf = append(buf, s...)
	return string(buf)
}

func memberKey(addr sdk.Address) string {
	return addressKey(kMember, addr)
}

func delegateKey(delegate sdk.Address) string {
	return addressKey(kDelegate, delegate)
}

func escrowKey(addr sdk.Address) string {
	return addressKey(kEscrow, addr)
}

// proposalKey encodes the queue index under 0x10 so proposals sit contiguous.
func proposalKey(index uint64) string {
	var buf [9]byte
	buf[0] = kProposalMeta
	packU64LEInline(index, buf[1:])
	return string(buf[:])
}
