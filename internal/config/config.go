// Package config holds the small set of environment-tunable parameters
// a host service needs to stand up this module: which EVM chain id to
// sign for, which Bitcoin network/address template to derive against,
// and the chain adapter registry those derivations dispatch through.
// Everything else the teacher's config carried — poll intervals,
// broadcast retry counts, fee defaults — belonged to the broadcasting
// layer this module does not implement (see DESIGN.md).
package config

import (
	"os"
	"strconv"

	btcaddr "github.com/vaultedge/walletcore/addr/btc"
	"github.com/vaultedge/walletcore/kdf/bip44"
	"github.com/vaultedge/walletcore/spi"
	"github.com/vaultedge/walletcore/internal/wallet"
)

// Config holds the chain-selection parameters for derivation and
// signing: which EVM chain id to sign EIP-155 transactions for, and
// which Bitcoin network and address template to derive/encode against.
type Config struct {
	EVMChainID     uint64
	BTCNetwork     btcaddr.Network
	BTCAddressType bip44.BtcAddressType
}

// Default returns a Config populated with mainnet defaults: EVM chain
// id 1, Bitcoin mainnet, native SegWit (P2WPKH) addresses.
func Default() Config {
	return Config{
		EVMChainID:     1,
		BTCNetwork:     btcaddr.Mainnet,
		BTCAddressType: bip44.BtcNativeSegWit,
	}
}

// FromEnv returns a Config populated from environment variables,
// falling back to Default's values for unset or unparsable ones.
func FromEnv() Config {
	cfg := Default()

	if v := os.Getenv("EVM_CHAIN_ID"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			cfg.EVMChainID = n
		}
	}
	if v := os.Getenv("BTC_NETWORK"); v == "testnet" {
		cfg.BTCNetwork = btcaddr.Testnet
	}
	if v := os.Getenv("BTC_ADDRESS_TYPE"); v != "" {
		if t, ok := parseBTCAddressType(v); ok {
			cfg.BTCAddressType = t
		}
	}

	return cfg
}

func parseBTCAddressType(v string) (bip44.BtcAddressType, bool) {
	switch v {
	case "legacy":
		return bip44.BtcLegacy, true
	case "nested-segwit":
		return bip44.BtcNestedSegWit, true
	case "native-segwit":
		return bip44.BtcNativeSegWit, true
	case "taproot":
		return bip44.BtcTaproot, true
	default:
		return 0, false
	}
}

// Registry builds a spi.Registry with this module's default chain
// adapters and address encoders installed, ready for a host service
// to look up by spi.ChainType.
func (c Config) Registry() *spi.Registry {
	r := spi.NewRegistry()
	wallet.RegisterDefaults(r)
	return r
}
