// Package spi defines the module's external service-provider
// interfaces per §6 and §9: the ChainAdapter and AddressEncoder
// capabilities, and the process-wide registry that maps a ChainType
// to its implementations.
package spi

// ChainType tags which blockchain a ChainAdapter/AddressEncoder
// implements. It is the registry's lookup key.
type ChainType string

const (
	ChainEVM     ChainType = "EVM"
	ChainTron    ChainType = "TRON"
	ChainBitcoin ChainType = "BTC"
	ChainSolana  ChainType = "SOL"
	ChainCosmos  ChainType = "COSMOS"
	ChainAptos   ChainType = "APTOS"
	ChainNear    ChainType = "NEAR"
)

// PubKeyFormat is the public-key encoding an AddressEncoder expects.
type PubKeyFormat int

const (
	UncompressedSecp256k1_65 PubKeyFormat = iota
	CompressedSecp256k1_33
	Ed25519Raw32
)

// ChainAdapter is the single capability interface for chain-specific
// transaction signing: one implementation per chain, dispatched by
// the registry at runtime rather than by static type. rawTx/signingKey/
// signedTx are passed as `any` and type-asserted by each concrete
// adapter to its own raw/signed-tx types, mirroring a trait object's
// dynamic dispatch — the registry holds heterogeneous adapters behind
// one interface, so a single associated concrete type per method
// would not let EVM and TRON coexist in the same map.
type ChainAdapter interface {
	ChainType() ChainType
	Sign(rawTx any, signingKey any) (signedTx any, err error)
	RawBytes(signedTx any) ([]byte, error)
	TxHash(signedTx any) ([]byte, error)
}

// AddressEncoder is the single capability interface for deriving a
// chain's address string from a public key.
type AddressEncoder interface {
	ChainType() ChainType
	Encode(pubKey []byte, options any) (string, error)
	RequiredFormat() PubKeyFormat
}

// SigningKey is the capability a DerivedKey converts into once it
// hands off ownership of its private material, per §4.15/§6: sign,
// report its own public key and scheme, and be destroyed exactly
// once. messageOrHash is a pre-image the concrete signer hashes
// itself (Ed25519) or a pre-computed digest it signs directly
// (secp256k1) — callers pass whichever that signer's Scheme expects.
type SigningKey interface {
	Sign(messageOrHash []byte) ([]byte, error)
	PublicKey() ([]byte, error)
	Scheme() string
	Destroy()
}
