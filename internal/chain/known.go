package chain

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// KnownChain names a public chain and its block explorer.
type KnownChain struct {
	Name     string
	Explorer string
}

var knownChains = map[uint64]KnownChain{
	// Ethereum
	1:        {"mainnet", "https://etherscan.io"},
	11155111: {"sepolia", "https://sepolia.etherscan.io"},
	17000:    {"holesky", "https://holesky.etherscan.io"},

	// Layer 2s
	42161:  {"arbitrum", "https://arbiscan.io"},
	421614: {"arbitrum-sepolia", "https://sepolia.arbiscan.io"},

	10:       {"optimism", "https://optimistic.etherscan.io"},
	11155420: {"optimism-sepolia", "https://sepolia-optimistic.etherscan.io"},

	8453:  {"base", "https://basescan.org"},
	84532: {"base-sepolia", "https://sepolia.basescan.org"},

	137:   {"polygon", "https://polygonscan.com"},
	80002: {"polygon-amoy", "https://amoy.polygonscan.com"},

	// Scroll
	534352: {"scroll", "https://scrollscan.com"},
	534351: {"scroll-sepolia", "https://sepolia.scrollscan.com"},
}

// Known looks up a chain by id.
func Known(chainID *big.Int) (KnownChain, bool) {
	if chainID == nil || !chainID.IsUint64() {
		return KnownChain{}, false
	}
	k, ok := knownChains[chainID.Uint64()]
	return k, ok
}

func (k KnownChain) TxURL(hash common.Hash) string {
	return k.Explorer + "/tx/" + hash.Hex()
}
