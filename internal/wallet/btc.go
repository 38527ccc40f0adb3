package wallet

import (
	"fmt"

	btcaddr "github.com/vaultedge/walletcore/addr/btc"
	"github.com/vaultedge/walletcore/kdf/bip44"
	"github.com/vaultedge/walletcore/spi"
	btctx "github.com/vaultedge/walletcore/tx/btc"
	"github.com/vaultedge/walletcore/walleterr"
)

// BTCAddressOptions is the options value BTCEncoder.Encode expects:
// which script template to use and which network's version bytes/HRP
// to encode with, per §4.16's "BTC receiving (address_type, network)".
type BTCAddressOptions struct {
	AddressType bip44.BtcAddressType
	Network     btcaddr.Network
}

// BTCAdapter is the spi.ChainAdapter for P2PKH/P2WPKH Bitcoin
// transactions. rawTx must be a btctx.RawTransaction and signingKey a
// []btctx.InputSpec describing each input's signer.
type BTCAdapter struct{}

func (BTCAdapter) ChainType() spi.ChainType { return spi.ChainBitcoin }

func (BTCAdapter) Sign(rawTx any, signingKey any) (any, error) {
	tx, ok := rawTx.(btctx.RawTransaction)
	if !ok {
		return nil, fmt.Errorf("wallet: BTCAdapter.Sign expected btc.RawTransaction: %w", walleterr.ErrInvalidInput)
	}
	specs, ok := signingKey.([]btctx.InputSpec)
	if !ok {
		return nil, fmt.Errorf("wallet: BTCAdapter.Sign expected []btc.InputSpec: %w", walleterr.ErrInvalidInput)
	}
	return btctx.Sign(tx, specs)
}

func (BTCAdapter) RawBytes(signedTx any) ([]byte, error) {
	s, ok := signedTx.(*btctx.SignedTransaction)
	if !ok {
		return nil, fmt.Errorf("wallet: BTCAdapter.RawBytes expected *btc.SignedTransaction: %w", walleterr.ErrInvalidInput)
	}
	return s.Broadcast, nil
}

func (BTCAdapter) TxHash(signedTx any) ([]byte, error) {
	s, ok := signedTx.(*btctx.SignedTransaction)
	if !ok {
		return nil, fmt.Errorf("wallet: BTCAdapter.TxHash expected *btc.SignedTransaction: %w", walleterr.ErrInvalidInput)
	}
	return s.TxID[:], nil
}

// BTCEncoder is the spi.AddressEncoder for Bitcoin: it dispatches to
// whichever of P2PKH/P2SH-P2WPKH/P2WPKH/P2TR options.(BTCAddressOptions)
// selects.
type BTCEncoder struct{}

func (BTCEncoder) ChainType() spi.ChainType { return spi.ChainBitcoin }

func (BTCEncoder) Encode(pubKey []byte, options any) (string, error) {
	opts, ok := options.(BTCAddressOptions)
	if !ok {
		return "", fmt.Errorf("wallet: BTCEncoder.Encode expected BTCAddressOptions: %w", walleterr.ErrInvalidInput)
	}

	var (
		addr btcaddr.Address
		err  error
	)
	switch opts.AddressType {
	case bip44.BtcLegacy:
		addr, err = btcaddr.NewP2PKH(pubKey, opts.Network)
	case bip44.BtcNestedSegWit:
		addr, err = btcaddr.NewP2SHP2WPKH(pubKey, opts.Network)
	case bip44.BtcNativeSegWit:
		addr, err = btcaddr.NewP2WPKH(pubKey, opts.Network)
	case bip44.BtcTaproot:
		addr, err = btcaddr.NewP2TR(pubKey, opts.Network)
	default:
		return "", fmt.Errorf("wallet: unknown bitcoin address type %d: %w", opts.AddressType, walleterr.ErrInvalidInput)
	}
	if err != nil {
		return "", err
	}
	return addr.String(), nil
}

func (BTCEncoder) RequiredFormat() spi.PubKeyFormat { return spi.CompressedSecp256k1_33 }
