// Package wallet wires this module's concrete per-chain signers and
// address encoders into the spi registry. It is the "production glue"
// layer a host service calls RegisterDefaults from; importing the
// package registers nothing by itself. Everything it
// defines is a thin spi.ChainAdapter/spi.AddressEncoder implementation
// over tx/* and addr/*, with no algorithm of its own.
package wallet

import "github.com/vaultedge/walletcore/spi"

// RegisterDefaults installs every chain adapter and address encoder
// this module ships into r. Called once at startup; safe to call
// again against a fresh registry (e.g. in tests via spi.NewRegistry).
func RegisterDefaults(r *spi.Registry) {
	r.RegisterAdapter(EVMAdapter{})
	r.RegisterEncoder(EVMEncoder{})

	r.RegisterAdapter(TronAdapter{})
	r.RegisterEncoder(TronEncoder{})

	r.RegisterAdapter(BTCAdapter{})
	r.RegisterEncoder(BTCEncoder{})

	r.RegisterAdapter(SolanaAdapter{})
	r.RegisterEncoder(SolanaEncoder{})
}
