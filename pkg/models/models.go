// Package models holds the JSON-serializable view of a derived
// account: the shape a host service hands back across an API boundary
// once deriver.Account has done the actual derivation work.
package models

// DerivedAddress is the externally-facing projection of a
// deriver.Account: enough to show a user their receiving address and
// let them audit which path produced it, without exposing the
// spi.SigningKey it was derived alongside.
type DerivedAddress struct {
	Chain          string `json:"chain"`
	Address        string `json:"address"`
	DerivationPath string `json:"derivation_path"`
	PublicKey      string `json:"public_key"`
}
