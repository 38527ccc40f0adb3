// Package bip44 builds derivation-path strings for the chains this
// module supports, per the BIP-44/49/84/86 purpose-field conventions
// and their SLIP-44 registered coin types.
package bip44

import "fmt"

// SLIP-44 coin types used by the path builders below.
const (
	CoinTypeBitcoin  uint32 = 0
	CoinTypeEVM      uint32 = 60
	CoinTypeTron     uint32 = 195
	CoinTypeCosmos   uint32 = 118
	CoinTypeAptos    uint32 = 637
	CoinTypeNear     uint32 = 397
	CoinTypeSolana   uint32 = 501
)

// BtcAddressType selects which BIP-44-family purpose field a Bitcoin
// path uses.
type BtcAddressType int

const (
	// BtcLegacy is P2PKH, purpose 44.
	BtcLegacy BtcAddressType = iota
	// BtcNestedSegWit is P2SH-P2WPKH, purpose 49.
	BtcNestedSegWit
	// BtcNativeSegWit is P2WPKH/P2WSH, purpose 84.
	BtcNativeSegWit
	// BtcTaproot is P2TR, purpose 86.
	BtcTaproot
)

func (t BtcAddressType) purpose() uint32 {
	switch t {
	case BtcLegacy:
		return 44
	case BtcNestedSegWit:
		return 49
	case BtcNativeSegWit:
		return 84
	case BtcTaproot:
		return 86
	default:
		return 44
	}
}

// EVMPath returns m/44'/60'/{acct}'/{change}/{addr}.
func EVMPath(account, change, addressIndex uint32) string {
	return fmt.Sprintf("m/44'/%d'/%d'/%d/%d", CoinTypeEVM, account, change, addressIndex)
}

// TronPath returns m/44'/195'/{acct}'/{change}/{addr}.
func TronPath(account, change, addressIndex uint32) string {
	return fmt.Sprintf("m/44'/%d'/%d'/%d/%d", CoinTypeTron, account, change, addressIndex)
}

// CosmosPath returns m/44'/118'/{acct}'/{change}/{addr}.
func CosmosPath(account, change, addressIndex uint32) string {
	return fmt.Sprintf("m/44'/%d'/%d'/%d/%d", CoinTypeCosmos, account, change, addressIndex)
}

// AptosPath returns m/44'/637'/{acct}'/{change}/{addr}.
func AptosPath(account, change, addressIndex uint32) string {
	return fmt.Sprintf("m/44'/%d'/%d'/%d/%d", CoinTypeAptos, account, change, addressIndex)
}

// NearPath returns m/44'/397'/{acct}'/{change}/{addr}.
func NearPath(account, change, addressIndex uint32) string {
	return fmt.Sprintf("m/44'/%d'/%d'/%d/%d", CoinTypeNear, account, change, addressIndex)
}

// SolanaPath returns m/44'/501'/{acct}'/{addr}' — only hardened indices
// and no change level, since Solana's convention (and SLIP-10 Ed25519)
// has no non-hardened derivation.
func SolanaPath(account, addressIndex uint32) string {
	return fmt.Sprintf("m/44'/%d'/%d'/%d'", CoinTypeSolana, account, addressIndex)
}

// BitcoinPath returns m/{purpose}'/0'/{acct}'/{change}/{addr}, with
// purpose selected by addrType per §4.16.
func BitcoinPath(addrType BtcAddressType, account, change, addressIndex uint32) string {
	return fmt.Sprintf("m/%d'/%d'/%d'/%d/%d", addrType.purpose(), CoinTypeBitcoin, account, change, addressIndex)
}
