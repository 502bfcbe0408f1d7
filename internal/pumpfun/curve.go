package pumpfun

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"pumpscope/internal/domain"
)

// Fixed byte offsets of the bonding curve account layout.
const (
	offsetVirtualTokenReserves = 0x08
	offsetVirtualSolReserves   = 0x10
	offsetRealTokenReserves    = 0x18
	offsetRealSolReserves      = 0x20
	offsetTokenTotalSupply     = 0x28
	offsetComplete             = 0x30

	// Signature plus five u64 fields plus the complete flag byte.
	curveStateMinLen = offsetComplete + 1
)

// CurveState is a point-in-time snapshot of one bonding curve account.
// Constructed fresh on every read, never mutated, never cached.
type CurveState struct {
	VirtualTokenReserves uint64
	VirtualSolReserves   uint64
	RealTokenReserves    uint64
	RealSolReserves      uint64
	TokenTotalSupply     uint64
	Complete             bool
}

// DecodeCurveState deserializes the raw bonding curve account bytes.
// Decoding either fully succeeds or fails; no partial state is returned.
func DecodeCurveState(data []byte) (*CurveState, error) {
	if len(data) < curveStateMinLen {
		return nil, domain.Wrap(domain.ErrTruncatedAccount,
			fmt.Errorf("have %d bytes, need %d", len(data), curveStateMinLen))
	}

	if !bytes.Equal(data[:8], curveStateSignature[:]) {
		return nil, domain.ErrInvalidSignature
	}

	return &CurveState{
		VirtualTokenReserves: binary.LittleEndian.Uint64(data[offsetVirtualTokenReserves:]),
		VirtualSolReserves:   binary.LittleEndian.Uint64(data[offsetVirtualSolReserves:]),
		RealTokenReserves:    binary.LittleEndian.Uint64(data[offsetRealTokenReserves:]),
		RealSolReserves:      binary.LittleEndian.Uint64(data[offsetRealSolReserves:]),
		TokenTotalSupply:     binary.LittleEndian.Uint64(data[offsetTokenTotalSupply:]),
		Complete:             data[offsetComplete] != 0,
	}, nil
}
