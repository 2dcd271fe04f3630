// Package model defines domain models for subname claiming.
package model

import (
	"fmt"
	"strings"
)

// Network describes an EVM network the claim contracts are deployed on.
type Network struct {
	ChainID     uint64
	Name        string
	DisplayName string
	ExplorerURL string
}

var (
	Mainnet = Network{ChainID: 1, Name: "mainnet", DisplayName: "Ethereum", ExplorerURL: "https://etherscan.io"}
	Sepolia = Network{ChainID: 11155111, Name: "sepolia", DisplayName: "Sepolia", ExplorerURL: "https://sepolia.etherscan.io"}
)

// SupportedNetworks lists networks with known deployments.
var SupportedNetworks = []Network{Mainnet, Sepolia}

var networkAliases = map[string]Network{
	"ethereum": Mainnet,
	"mainnet":  Mainnet,
	"sepolia":  Sepolia,
}

// ResolveNetwork picks a supported network by chain id, falling back to its name.
// When both are empty it returns Mainnet and defaulted set to true.
func ResolveNetwork(chainID uint64, name string) (network Network, defaulted bool, err error) {
	if chainID != 0 {
		for _, n := range SupportedNetworks {
			if n.ChainID == chainID {
				return n, false, nil
			}
		}
		return Network{}, false, fmt.Errorf("unsupported chain id %d (allowed: %s)", chainID, allowedChainIDs())
	}

	normalized := normalizeNetworkName(name)
	if normalized == "" {
		return Mainnet, true, nil
	}
	if n, ok := networkAliases[normalized]; ok {
		return n, false, nil
	}
	return Network{}, false, fmt.Errorf("unsupported network %q (allowed: ethereum, mainnet, sepolia)", name)
}

// TxURL returns a block explorer link for a transaction hash.
func (n Network) TxURL(ref TxRef) string {
	if n.ExplorerURL == "" || ref == "" {
		return ""
	}
	return n.ExplorerURL + "/tx/" + string(ref)
}

func (n Network) String() string {
	if n.DisplayName != "" {
		return n.DisplayName
	}
	return n.Name
}

func normalizeNetworkName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.NewReplacer("_", "-", " ", "-").Replace(name)
	return name
}

func allowedChainIDs() string {
	ids := make([]string, 0, len(SupportedNetworks))
	for _, n := range SupportedNetworks {
		ids = append(ids, fmt.Sprintf("%d", n.ChainID))
	}
	return strings.Join(ids, ", ")
}
