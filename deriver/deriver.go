// Package deriver implements AccountDeriver (§4.16): routing a
// user id and a chain tag to a derivation path, a derived key, an
// address string, and a SigningKey the caller takes ownership of.
// It is pure glue over hdwallet and addr/*; it holds no state of its
// own and never performs I/O.
package deriver

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"

	"github.com/vaultedge/walletcore/addr/btc"
	"github.com/vaultedge/walletcore/addr/evm"
	"github.com/vaultedge/walletcore/addr/sol"
	"github.com/vaultedge/walletcore/addr/tron"
	"github.com/vaultedge/walletcore/bytesutil"
	"github.com/vaultedge/walletcore/ecc/ed25519"
	"github.com/vaultedge/walletcore/ecc/secp256k1"
	"github.com/vaultedge/walletcore/hdwallet"
	"github.com/vaultedge/walletcore/kdf/bip44"
	"github.com/vaultedge/walletcore/pkg/models"
	"github.com/vaultedge/walletcore/spi"
	"github.com/vaultedge/walletcore/walleterr"
)

// accountIndexModulus is 2^31 - 1, per §4.16's user_id_to_account_index.
const accountIndexModulus = 0x7FFFFFFF

// Options carries the per-chain knobs derive_for_user needs beyond the
// account index: the change/address levels every BIP-44-family chain
// uses, and the address-type/network pair Bitcoin needs to pick its
// script template.
type Options struct {
	Change         uint32
	AddressIndex   uint32
	BTCAddressType bip44.BtcAddressType
	BTCNetwork     btc.Network
}

// Account is the result of deriving a single user/chain pair: the
// routing metadata plus the address string and a SigningKey the
// caller owns and must eventually Destroy.
type Account struct {
	UserID       string
	AccountIndex int32
	Path         string
	Chain        spi.ChainType
	Address      string
	PublicKey    []byte
	SigningKey   spi.SigningKey
}

// ToDerivedAddress projects Account into models.DerivedAddress, the
// JSON-serializable shape a host service returns across an API
// boundary. It never touches SigningKey, so it is safe to call before
// or after the caller destroys it.
func (a *Account) ToDerivedAddress() models.DerivedAddress {
	return models.DerivedAddress{
		Chain:          string(a.Chain),
		Address:        a.Address,
		DerivationPath: a.Path,
		PublicKey:      hex.EncodeToString(a.PublicKey),
	}
}

// UserIDToAccountIndex hashes userID with SHA-256, takes the
// big-endian uint32 of the first 4 bytes, and reduces it modulo
// 2^31-1 so the result always fits a non-negative int32. Rejects an
// empty user id.
func UserIDToAccountIndex(userID string) (int32, error) {
	if userID == "" {
		return 0, fmt.Errorf("deriver: user id must not be empty: %w", walleterr.ErrInvalidInput)
	}
	digest := sha256.Sum256([]byte(userID))
	v := binary.BigEndian.Uint32(digest[0:4])
	idx := uint64(v) % accountIndexModulus
	return int32(idx), nil
}

// PathForChain builds the derivation path for chain per §4.16's
// per-chain template. btcAddrType is ignored for every chain but
// ChainBitcoin.
func PathForChain(chain spi.ChainType, account, change, addressIndex uint32, btcAddrType bip44.BtcAddressType) (string, error) {
	switch chain {
	case spi.ChainEVM:
		return bip44.EVMPath(account, change, addressIndex), nil
	case spi.ChainTron:
		return bip44.TronPath(account, change, addressIndex), nil
	case spi.ChainCosmos:
		return bip44.CosmosPath(account, change, addressIndex), nil
	case spi.ChainAptos:
		return bip44.AptosPath(account, change, addressIndex), nil
	case spi.ChainNear:
		return bip44.NearPath(account, change, addressIndex), nil
	case spi.ChainSolana:
		return bip44.SolanaPath(account, addressIndex), nil
	case spi.ChainBitcoin:
		return bip44.BitcoinPath(btcAddrType, account, change, addressIndex), nil
	default:
		return "", fmt.Errorf("deriver: unsupported chain %q: %w", chain, walleterr.ErrUnsupportedChain)
	}
}

// schemeForChain reports which HD tree a chain's keys are derived
// against: Solana uses SLIP-10 Ed25519, every other chain here uses
// BIP-32 secp256k1.
func schemeForChain(chain spi.ChainType) hdwallet.Scheme {
	if chain == spi.ChainSolana {
		return hdwallet.SchemeSLIP10Ed25519
	}
	return hdwallet.SchemeBIP32Secp256k1
}

// publicKeyForChain extracts key's private material just long enough
// to compute the public key format each chain's address algorithm
// needs, then wipes its local copy.
func publicKeyForChain(chain spi.ChainType, key *hdwallet.DerivedKey) ([]byte, error) {
	priv, err := key.PrivateMaterial()
	if err != nil {
		return nil, err
	}
	defer bytesutil.SecureWipe(priv)

	switch chain {
	case spi.ChainSolana:
		return ed25519.DerivePublicKey(priv)
	case spi.ChainTron:
		return secp256k1.DerivePublicKey(priv, false)
	case spi.ChainBitcoin:
		return secp256k1.DerivePublicKey(priv, true)
	default: // EVM, COSMOS, APTOS, NEAR: uncompressed, Keccak-ready
		return secp256k1.DerivePublicKey(priv, false)
	}
}

// addressForChain encodes pubKey into that chain's address string.
// COSMOS, APTOS and NEAR have a path template (§4.16) but no address
// encoder in this module, so they report ErrUnsupportedChain here
// rather than guessing at a format.
func addressForChain(chain spi.ChainType, pubKey []byte, opts Options) (string, error) {
	switch chain {
	case spi.ChainEVM:
		a, err := evm.FromPublicKey(pubKey)
		if err != nil {
			return "", err
		}
		return a.String(), nil
	case spi.ChainTron:
		a, err := tron.FromPublicKey(pubKey)
		if err != nil {
			return "", err
		}
		return a.String(), nil
	case spi.ChainSolana:
		a, err := sol.FromPublicKey(pubKey)
		if err != nil {
			return "", err
		}
		return a.String(), nil
	case spi.ChainBitcoin:
		return btcAddressString(pubKey, opts)
	default:
		return "", fmt.Errorf("deriver: no address encoder for chain %q: %w", chain, walleterr.ErrUnsupportedChain)
	}
}

func btcAddressString(compressedPub []byte, opts Options) (string, error) {
	switch opts.BTCAddressType {
	case bip44.BtcLegacy:
		a, err := btc.NewP2PKH(compressedPub, opts.BTCNetwork)
		if err != nil {
			return "", err
		}
		return a.String(), nil
	case bip44.BtcNestedSegWit:
		a, err := btc.NewP2SHP2WPKH(compressedPub, opts.BTCNetwork)
		if err != nil {
			return "", err
		}
		return a.String(), nil
	case bip44.BtcNativeSegWit:
		a, err := btc.NewP2WPKH(compressedPub, opts.BTCNetwork)
		if err != nil {
			return "", err
		}
		return a.String(), nil
	case bip44.BtcTaproot:
		a, err := btc.NewP2TR(compressedPub, opts.BTCNetwork)
		if err != nil {
			return "", err
		}
		return a.String(), nil
	default:
		return "", fmt.Errorf("deriver: unknown bitcoin address type %d: %w", opts.BTCAddressType, walleterr.ErrInvalidInput)
	}
}

// secp256k1SigningKey adapts ecc/secp256k1.KeyPair to spi.SigningKey.
// PublicKey is always compressed: every secp256k1 chain this module
// signs for (BTC) consumes the compressed form, and EVM/TRON/etc.
// compute their own address-specific format directly from the raw
// private material in publicKeyForChain rather than through this type.
type secp256k1SigningKey struct {
	kp *secp256k1.KeyPair
}

func (s *secp256k1SigningKey) Sign(hash32 []byte) ([]byte, error) {
	sig, err := s.kp.Sign(hash32)
	if err != nil {
		return nil, err
	}
	return sig.Bytes(), nil
}

func (s *secp256k1SigningKey) PublicKey() ([]byte, error) { return s.kp.PublicKey(true) }
func (s *secp256k1SigningKey) Scheme() string              { return s.kp.Scheme() }
func (s *secp256k1SigningKey) Destroy()                    { s.kp.Destroy() }

// ed25519SigningKey adapts ecc/ed25519.KeyPair to spi.SigningKey.
type ed25519SigningKey struct {
	kp *ed25519.KeyPair
}

func (s *ed25519SigningKey) Sign(message []byte) ([]byte, error) { return s.kp.Sign(message) }
func (s *ed25519SigningKey) PublicKey() ([]byte, error)          { return s.kp.PublicKey() }
func (s *ed25519SigningKey) Scheme() string                      { return s.kp.Scheme() }
func (s *ed25519SigningKey) Destroy()                            { s.kp.Destroy() }

// toSigningKey copies key's private material into a freshly-owned
// concrete signer and returns it as a spi.SigningKey. The caller is
// still responsible for destroying the original DerivedKey; this
// function never does so itself.
func toSigningKey(key *hdwallet.DerivedKey) (spi.SigningKey, error) {
	priv, err := key.PrivateMaterial()
	if err != nil {
		return nil, err
	}
	defer bytesutil.SecureWipe(priv)

	switch key.Scheme() {
	case hdwallet.SchemeBIP32Secp256k1:
		kp, err := secp256k1.NewKeyPair(priv)
		if err != nil {
			return nil, err
		}
		return &secp256k1SigningKey{kp: kp}, nil
	case hdwallet.SchemeSLIP10Ed25519:
		kp, err := ed25519.NewKeyPair(priv)
		if err != nil {
			return nil, err
		}
		return &ed25519SigningKey{kp: kp}, nil
	default:
		return nil, fmt.Errorf("deriver: unknown scheme %d: %w", key.Scheme(), walleterr.ErrUnsupportedScheme)
	}
}

// DeriveForUser derives userID's account on chain: it maps the user
// id to an account index, builds that chain's path, derives the key
// from wallet, and returns the resulting address alongside a
// SigningKey the caller owns and must Destroy.
func DeriveForUser(wallet *hdwallet.UnifiedHDWallet, userID string, chain spi.ChainType, opts Options) (*Account, error) {
	accountIndex, err := UserIDToAccountIndex(userID)
	if err != nil {
		return nil, err
	}
	path, err := PathForChain(chain, uint32(accountIndex), opts.Change, opts.AddressIndex, opts.BTCAddressType)
	if err != nil {
		return nil, err
	}

	key, err := wallet.DerivePath(path, schemeForChain(chain))
	if err != nil {
		return nil, err
	}

	pubKey, err := publicKeyForChain(chain, key)
	if err != nil {
		key.Destroy()
		return nil, err
	}
	address, err := addressForChain(chain, pubKey, opts)
	if err != nil {
		key.Destroy()
		return nil, err
	}

	signingKey, err := toSigningKey(key)
	key.Destroy()
	if err != nil {
		return nil, err
	}

	return &Account{
		UserID:       userID,
		AccountIndex: accountIndex,
		Path:         path,
		Chain:        chain,
		Address:      address,
		PublicKey:    pubKey,
		SigningKey:   signingKey,
	}, nil
}

// DeriveAddress derives userID's account on chain and returns only
// the address string, destroying the SigningKey before returning so
// no private material escapes the call.
func DeriveAddress(wallet *hdwallet.UnifiedHDWallet, userID string, chain spi.ChainType, opts Options) (string, error) {
	account, err := DeriveForUser(wallet, userID, chain, opts)
	if err != nil {
		return "", err
	}
	account.SigningKey.Destroy()
	return account.Address, nil
}
