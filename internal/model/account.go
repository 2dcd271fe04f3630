package model

import "github.com/ethereum/go-ethereum/common"

// Account is the wallet state reported by the connection layer.
// A zero ChainID means the wallet has no active network.
type Account struct {
	Address   common.Address
	Connected bool
	ChainID   uint64
}

// OnNetwork reports whether the account is connected to the given network.
func (a Account) OnNetwork(n Network) bool {
	return a.Connected && a.ChainID != 0 && a.ChainID == n.ChainID
}
