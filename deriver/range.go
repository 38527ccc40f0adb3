package deriver

import (
	"encoding/hex"

	"github.com/vaultedge/walletcore/hdwallet"
	"github.com/vaultedge/walletcore/pkg/models"
	"github.com/vaultedge/walletcore/spi"
)

// RangeAccount is one entry of a DeriveRange batch: the same shape as
// Account, but keyed by an address index within a fixed chain/account
// rather than by a user id.
type RangeAccount struct {
	Index        int
	AccountIndex uint32
	Path         string
	Chain        spi.ChainType
	Address      string
	PublicKey    []byte
	SigningKey   spi.SigningKey
}

// ToDerivedAddress projects RangeAccount into models.DerivedAddress,
// the same JSON-serializable shape Account.ToDerivedAddress produces.
func (a *RangeAccount) ToDerivedAddress() models.DerivedAddress {
	return models.DerivedAddress{
		Chain:          string(a.Chain),
		Address:        a.Address,
		DerivationPath: a.Path,
		PublicKey:      hex.EncodeToString(a.PublicKey),
	}
}

// DeriveRange derives the contiguous address-index window
// [start, start+count) under a single chain/account, per §12's
// generalization of the teacher's per-index address generation: it
// calls hdwallet.DeriveRange once (replacing the base path's trailing
// segment) and decorates each resulting key with its address and
// SigningKey. Results are in the ascending index order DeriveRange
// itself guarantees. Every SigningKey is owned by the caller.
func DeriveRange(wallet *hdwallet.UnifiedHDWallet, chain spi.ChainType, accountIndex uint32, start, count int, opts Options) ([]RangeAccount, error) {
	basePath, err := PathForChain(chain, accountIndex, opts.Change, uint32(start), opts.BTCAddressType)
	if err != nil {
		return nil, err
	}

	results, err := wallet.DeriveRange(basePath, start, count, schemeForChain(chain))
	if err != nil {
		return nil, err
	}

	out := make([]RangeAccount, 0, len(results))
	for _, r := range results {
		pubKey, err := publicKeyForChain(chain, r.Key)
		if err != nil {
			r.Key.Destroy()
			return nil, err
		}
		address, err := addressForChain(chain, pubKey, opts)
		if err != nil {
			r.Key.Destroy()
			return nil, err
		}
		path, err := PathForChain(chain, accountIndex, opts.Change, uint32(r.Index), opts.BTCAddressType)
		if err != nil {
			r.Key.Destroy()
			return nil, err
		}
		signingKey, err := toSigningKey(r.Key)
		r.Key.Destroy()
		if err != nil {
			return nil, err
		}

		out = append(out, RangeAccount{
			Index:        r.Index,
			AccountIndex: accountIndex,
			Path:         path,
			Chain:        chain,
			Address:      address,
			PublicKey:    pubKey,
			SigningKey:   signingKey,
		})
	}
	return out, nil
}

// DeriveAddressRange is DeriveRange with every SigningKey destroyed
// before return, for callers that only need the address strings.
func DeriveAddressRange(wallet *hdwallet.UnifiedHDWallet, chain spi.ChainType, accountIndex uint32, start, count int, opts Options) ([]string, error) {
	accounts, err := DeriveRange(wallet, chain, accountIndex, start, count, opts)
	if err != nil {
		return nil, err
	}
	addresses := make([]string, len(accounts))
	for i, a := range accounts {
		addresses[i] = a.Address
		a.SigningKey.Destroy()
	}
	return addresses, nil
}
