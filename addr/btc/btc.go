// Package btc implements Bitcoin address encoding for the script
// templates this module supports: P2PKH, P2SH-P2WPKH, native P2WPKH /
// P2WSH, and P2TR (BIP-86 key-path only), per §4.10.
package btc

import (
	"fmt"
	"strings"

	"github.com/vaultedge/walletcore/codec/base58check"
	"github.com/vaultedge/walletcore/codec/bech32"
	"github.com/vaultedge/walletcore/hash"
	"github.com/vaultedge/walletcore/walleterr"
)

// Network selects the version bytes / HRP an Address is encoded with.
type Network int

const (
	Mainnet Network = iota
	Testnet
	Regtest
)

func (n Network) hrp() string {
	switch n {
	case Mainnet:
		return "bc"
	case Testnet:
		return "tb"
	case Regtest:
		return "bcrt"
	default:
		return "bc"
	}
}

func (n Network) p2pkhVersion() byte {
	if n == Mainnet {
		return 0x00
	}
	return 0x6f
}

func (n Network) p2shVersion() byte {
	if n == Mainnet {
		return 0x05
	}
	return 0xc4
}

// Kind discriminates the variants of the BtcAddress sum type.
type Kind int

const (
	P2PKH Kind = iota
	P2SH
	P2WPKH
	P2WSH
	P2TR
)

// Address is a polymorphic Bitcoin address: Kind selects which of
// Hash20/Hash32 is populated and how it is encoded.
type Address struct {
	Kind    Kind
	Network Network
	Hash20  [20]byte
	Hash32  [32]byte
}

// NewP2PKH builds a legacy address from a compressed public key.
func NewP2PKH(compressedPub []byte, network Network) (Address, error) {
	if len(compressedPub) != 33 {
		return Address{}, fmt.Errorf("btc: expected a 33-byte compressed public key: %w", walleterr.ErrInvalidInput)
	}
	addr := Address{Kind: P2PKH, Network: network}
	h := hash.Hash160(compressedPub)
	copy(addr.Hash20[:], h[:])
	return addr, nil
}

// NewP2SHP2WPKH builds a nested-SegWit address: the P2SH hash of the
// redeem script `0x00 0x14 ‖ HASH160(pub)`.
func NewP2SHP2WPKH(compressedPub []byte, network Network) (Address, error) {
	if len(compressedPub) != 33 {
		return Address{}, fmt.Errorf("btc: expected a 33-byte compressed public key: %w", walleterr.ErrInvalidInput)
	}
	pubHash := hash.Hash160(compressedPub)
	redeem := make([]byte, 0, 22)
	redeem = append(redeem, 0x00, 0x14)
	redeem = append(redeem, pubHash[:]...)

	addr := Address{Kind: P2SH, Network: network}
	h := hash.Hash160(redeem)
	copy(addr.Hash20[:], h[:])
	return addr, nil
}

// NewP2WPKH builds a native SegWit v0 address whose program is
// HASH160(pub).
func NewP2WPKH(compressedPub []byte, network Network) (Address, error) {
	if len(compressedPub) != 33 {
		return Address{}, fmt.Errorf("btc: expected a 33-byte compressed public key: %w", walleterr.ErrInvalidInput)
	}
	addr := Address{Kind: P2WPKH, Network: network}
	h := hash.Hash160(compressedPub)
	copy(addr.Hash20[:], h[:])
	return addr, nil
}

// NewP2WSH builds a native SegWit v0 address whose program is
// SHA256(script).
func NewP2WSH(script []byte, network Network) (Address, error) {
	addr := Address{Kind: P2WSH, Network: network}
	addr.Hash32 = hash.SHA256(script)
	return addr, nil
}

// NewP2TR builds a BIP-86 key-path-only Taproot address from a
// compressed public key: the x-only key is tweaked by
// tagged_hash("TapTweak", x_only) and the output key's x-coordinate
// becomes the witness program. Returns an explicit error (rather than
// falling back to the untweaked x-only key) if the tweak fails.
func NewP2TR(compressedPub []byte, network Network) (Address, error) {
	if len(compressedPub) != 33 {
		return Address{}, fmt.Errorf("btc: expected a 33-byte compressed public key: %w", walleterr.ErrInvalidInput)
	}
	var xOnly [32]byte
	copy(xOnly[:], compressedPub[1:])

	outputKey, err := computeTweakedOutputKey(xOnly)
	if err != nil {
		return Address{}, fmt.Errorf("btc: taproot tweak: %w", err)
	}
	return Address{Kind: P2TR, Network: network, Hash32: outputKey}, nil
}

// String encodes the address per its Kind: Base58Check for
// P2PKH/P2SH, Bech32/Bech32m SegWit for P2WPKH/P2WSH/P2TR.
func (a Address) String() string {
	switch a.Kind {
	case P2PKH:
		return base58check.EncodeCheck(a.Network.p2pkhVersion(), a.Hash20[:])
	case P2SH:
		return base58check.EncodeCheck(a.Network.p2shVersion(), a.Hash20[:])
	case P2WPKH:
		s, _ := bech32.EncodeSegWitAddress(a.Network.hrp(), 0, a.Hash20[:])
		return s
	case P2WSH:
		s, _ := bech32.EncodeSegWitAddress(a.Network.hrp(), 0, a.Hash32[:])
		return s
	case P2TR:
		s, _ := bech32.EncodeSegWitAddress(a.Network.hrp(), 1, a.Hash32[:])
		return s
	default:
		return ""
	}
}

// ScriptPubKey returns the locking script for the address.
func (a Address) ScriptPubKey() []byte {
	switch a.Kind {
	case P2PKH:
		s := make([]byte, 0, 25)
		s = append(s, 0x76, 0xa9, 0x14)
		s = append(s, a.Hash20[:]...)
		s = append(s, 0x88, 0xac)
		return s
	case P2SH:
		s := make([]byte, 0, 23)
		s = append(s, 0xa9, 0x14)
		s = append(s, a.Hash20[:]...)
		s = append(s, 0x87)
		return s
	case P2WPKH:
		s := make([]byte, 0, 22)
		s = append(s, 0x00, 0x14)
		s = append(s, a.Hash20[:]...)
		return s
	case P2WSH:
		s := make([]byte, 0, 34)
		s = append(s, 0x00, 0x20)
		s = append(s, a.Hash32[:]...)
		return s
	case P2TR:
		s := make([]byte, 0, 34)
		s = append(s, 0x51, 0x20)
		s = append(s, a.Hash32[:]...)
		return s
	default:
		return nil
	}
}

// FromString dispatches on s's prefix to the appropriate parser and
// enforces that the decoded address matches expectedNetwork.
func FromString(s string, expectedNetwork Network) (Address, error) {
	switch {
	case strings.HasPrefix(s, "1") || strings.HasPrefix(s, "m") || strings.HasPrefix(s, "n"):
		return parseP2PKHOrP2SH(s, expectedNetwork, P2PKH)
	case strings.HasPrefix(s, "3") || strings.HasPrefix(s, "2"):
		return parseP2PKHOrP2SH(s, expectedNetwork, P2SH)
	case strings.HasPrefix(s, "bc1q") || strings.HasPrefix(s, "tb1q") || strings.HasPrefix(s, "bcrt1q"):
		return parseSegWitV0(s, expectedNetwork)
	case strings.HasPrefix(s, "bc1p") || strings.HasPrefix(s, "tb1p") || strings.HasPrefix(s, "bcrt1p"):
		return parseTaproot(s, expectedNetwork)
	default:
		return Address{}, fmt.Errorf("btc: unrecognized address prefix in %q: %w", s, walleterr.ErrAddressFormat)
	}
}

func parseP2PKHOrP2SH(s string, expectedNetwork Network, kind Kind) (Address, error) {
	version, payload, err := base58check.DecodeCheck(s)
	if err != nil {
		return Address{}, err
	}
	if len(payload) != 20 {
		return Address{}, fmt.Errorf("btc: decoded payload is not 20 bytes: %w", walleterr.ErrAddressFormat)
	}

	var network Network
	switch {
	case kind == P2PKH && version == Mainnet.p2pkhVersion():
		network = Mainnet
	case kind == P2PKH && version == Testnet.p2pkhVersion():
		network = Testnet
	case kind == P2SH && version == Mainnet.p2shVersion():
		network = Mainnet
	case kind == P2SH && version == Testnet.p2shVersion():
		network = Testnet
	default:
		return Address{}, fmt.Errorf("btc: unrecognized version byte 0x%02x: %w", version, walleterr.ErrAddressFormat)
	}
	if network != expectedNetwork {
		return Address{}, fmt.Errorf("btc: address network %v does not match expected %v: %w", network, expectedNetwork, walleterr.ErrAddressFormat)
	}

	addr := Address{Kind: kind, Network: network}
	copy(addr.Hash20[:], payload)
	return addr, nil
}

func parseSegWitV0(s string, expectedNetwork Network) (Address, error) {
	version, program, err := bech32.DecodeSegWitAddress(expectedNetwork.hrp(), s)
	if err != nil {
		return Address{}, err
	}
	if version != 0 {
		return Address{}, fmt.Errorf("btc: expected witness version 0, got %d: %w", version, walleterr.ErrAddressFormat)
	}
	switch len(program) {
	case 20:
		addr := Address{Kind: P2WPKH, Network: expectedNetwork}
		copy(addr.Hash20[:], program)
		return addr, nil
	case 32:
		addr := Address{Kind: P2WSH, Network: expectedNetwork}
		copy(addr.Hash32[:], program)
		return addr, nil
	default:
		return Address{}, fmt.Errorf("btc: v0 witness program must be 20 or 32 bytes, got %d: %w", len(program), walleterr.ErrAddressFormat)
	}
}

func parseTaproot(s string, expectedNetwork Network) (Address, error) {
	version, program, err := bech32.DecodeSegWitAddress(expectedNetwork.hrp(), s)
	if err != nil {
		return Address{}, err
	}
	if version != 1 || len(program) != 32 {
		return Address{}, fmt.Errorf("btc: expected witness v1 with a 32-byte program: %w", walleterr.ErrAddressFormat)
	}
	addr := Address{Kind: P2TR, Network: expectedNetwork}
	copy(addr.Hash32[:], program)
	return addr, nil
}
