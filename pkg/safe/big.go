package safe

import (
	"fmt"
	"math/big"
)

// BigUint64 converts a big integer returned by a contract call to uint64.
func BigUint64(v *big.Int) (uint64, error) {
	if v == nil {
		return 0, fmt.Errorf("nil value")
	}
	if v.Sign() < 0 || !v.IsUint64() {
		return 0, fmt.Errorf("value %s out of uint64 range", v.String())
	}
	return v.Uint64(), nil
}

// BigFromUint64 returns v as a new big integer.
func BigFromUint64(v uint64) *big.Int {
	return new(big.Int).SetUint64(v)
}
