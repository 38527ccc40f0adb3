// Package walleterr defines the error taxonomy shared by every package in
// this module. Callers should test against these sentinels with errors.Is;
// most constructors/parsers wrap one of them with call-site context via
// fmt.Errorf("...: %w", ...), and some return it bare (e.g. ErrDestroyed
// on access after Destroy); errors.Is matches both.
package walleterr

import "errors"

var (
	// ErrInvalidInput covers length mismatches, nil inputs, unexpected
	// leading bytes, and non-hex/non-base58/non-bech32 characters.
	ErrInvalidInput = errors.New("walletcore: invalid input")

	// ErrAddressFormat covers unrecognized prefixes, wrong network, bad
	// checksums, and witness-program length violations.
	ErrAddressFormat = errors.New("walletcore: invalid address format")

	// ErrChecksumMismatch covers Base58Check, Bech32 and EIP-55 checksum
	// failures specifically (a subset of address-format errors with its
	// own sentinel because callers often want to distinguish "malformed"
	// from "typo'd").
	ErrChecksumMismatch = errors.New("walletcore: checksum mismatch")

	// ErrUnsupportedChain is raised by the adapter/encoder registry when
	// a chain tag has no registered implementation.
	ErrUnsupportedChain = errors.New("walletcore: unsupported chain")

	// ErrUnsupportedScheme is raised when a signer or key of the wrong
	// curve/scheme is used for an operation (e.g. a secp256k1 key handed
	// to a Solana adapter).
	ErrUnsupportedScheme = errors.New("walletcore: unsupported signature scheme")

	// ErrHardenedRequired is raised by SLIP-10 CKD when asked to derive a
	// non-hardened child of an Ed25519 extended key.
	ErrHardenedRequired = errors.New("walletcore: hardened index required")

	// ErrRecoveryFailed is raised by secp256k1 signing when no recovery
	// id in [0,3] yields the signer's own public key.
	ErrRecoveryFailed = errors.New("walletcore: signature recovery failed")

	// ErrDerivationInvalid is raised by BIP-32 CKD when I_L >= n or the
	// resulting child scalar is zero. Callers may retry with the next
	// index, or treat it as fatal if already at a leaf.
	ErrDerivationInvalid = errors.New("walletcore: derivation produced an invalid key")

	// ErrDestroyed is raised by any access on a key/secret after Destroy
	// has been called on it.
	ErrDestroyed = errors.New("walletcore: key material already destroyed")

	// ErrArithmeticOverflow is raised when a count or index does not fit
	// its wire field (Solana message header counts or a program id index
	// above 255).
	ErrArithmeticOverflow = errors.New("walletcore: arithmetic overflow")
)
