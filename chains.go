package recipienthandler

import (
	"fmt"
	"strconv"
	"strings"
)

// CAIP-2 network identifiers for chains the settlement contract is deployed on.
const (
	// Mainnets
	NetworkEthereum = "eip155:1"
	NetworkBase     = "eip155:8453"
	NetworkPolygon  = "eip155:137"

	// Testnets
	NetworkSepolia     = "eip155:11155111"
	NetworkBaseSepolia = "eip155:84532"
	NetworkPolygonAmoy = "eip155:80002"
)

// ChainID parses the chain ID from a CAIP-2 EVM network identifier such as
// "eip155:8453".
func ChainID(network string) (int64, error) {
	namespace, reference, ok := strings.Cut(network, ":")
	if !ok {
		return 0, fmt.Errorf("invalid CAIP-2 network %q (expected namespace:reference)", network)
	}
	if namespace != "eip155" {
		return 0, fmt.Errorf("unsupported network namespace %q (only eip155 chains are supported)", namespace)
	}
	chainID, err := strconv.ParseInt(reference, 10, 64)
	if err != nil || chainID <= 0 {
		return 0, fmt.Errorf("invalid chain ID in network %q", network)
	}
	return chainID, nil
}

// Network returns the CAIP-2 identifier for an EVM chain ID.
func Network(chainID int64) string {
	return fmt.Sprintf("eip155:%d", chainID)
}
