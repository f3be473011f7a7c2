package marketplace

import (
	"bytes"
	"github.com/ZilDuck/lazy-marketplace/internal/access"
	"github.com/ZilDuck/lazy-marketplace/internal/custody"
	"github.com/ZilDuck/lazy-marketplace/internal/entity"
	"github.com/ZilDuck/lazy-marketplace/internal/ledger"
	"github.com/ZilDuck/lazy-marketplace/internal/nonce"
	"github.com/ZilDuck/lazy-marketplace/internal/signature"
	"github.com/ZilDuck/lazy-marketplace/internal/typeddata"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
	"math/big"
	"sort"
)

const (
	DefaultDomainName    = "Lazy Soccer Marketplace"
	DefaultDomainVersion = "1"
)

type Params struct {
	// Address is both the escrow holding listed assets and the verifying
	// contract orders are signed for.
	Address       common.Address
	Owner         common.Address
	ChainID       *big.Int
	DomainName    string
	DomainVersion string
	BackendSigner common.Address
	Currency      common.Address
	FeeWallets    []common.Address
	Collections   []common.Address
}

type Config struct {
	Address       common.Address   `json:"address"`
	Owner         common.Address   `json:"owner"`
	BackendSigner common.Address   `json:"backendSigner"`
	Currency      common.Address   `json:"currency"`
	FeeWallets    []common.Address `json:"feeWallets"`
	Collections   []common.Address `json:"collections"`
	Paused        bool             `json:"paused"`
}

// Engine settles signed orders against listings held in escrow. All state is
// read and written inside ledger units of work.
type Engine struct {
	ledger    *ledger.Ledger
	domain    typeddata.Domain
	authority *signature.Authority
	nonces    *nonce.Guard
	custody   *custody.Custody
	owner     *access.Ownable
	pause     *access.PauseGate

	currency    common.Address
	feeWallets  []common.Address
	collections map[common.Address]struct{}
}

func NewEngine(l *ledger.Ledger, p Params, recoverer signature.Recoverer) *Engine {
	if p.DomainName == "" {
		p.DomainName = DefaultDomainName
	}
	if p.DomainVersion == "" {
		p.DomainVersion = DefaultDomainVersion
	}
	if p.ChainID == nil {
		p.ChainID = big.NewInt(1)
	}

	e := &Engine{
		ledger: l,
		domain: typeddata.Domain{
			Name:              p.DomainName,
			Version:           p.DomainVersion,
			ChainID:           new(big.Int).Set(p.ChainID),
			VerifyingContract: p.Address,
		},
		authority:   signature.NewAuthority(recoverer, p.BackendSigner),
		nonces:      nonce.NewGuard(),
		custody:     custody.New(p.Address),
		owner:       access.NewOwnable(p.Owner),
		pause:       &access.PauseGate{},
		currency:    p.Currency,
		feeWallets:  append([]common.Address(nil), p.FeeWallets...),
		collections: make(map[common.Address]struct{}),
	}
	for _, c := range p.Collections {
		e.collections[c] = struct{}{}
	}

	zap.L().With(
		zap.String("address", p.Address.Hex()),
		zap.String("owner", p.Owner.Hex()),
		zap.Int("collections", len(e.collections)),
	).Info("Marketplace: Engine created")

	return e
}

func (e *Engine) Address() common.Address {
	return e.custody.Escrow()
}

func (e *Engine) Domain() typeddata.Domain {
	return e.domain
}

func (e *Engine) Listing(collection common.Address, tokenId uint64) (listing entity.Listing, err error) {
	err = e.ledger.View(func(v *ledger.View) error {
		var ok bool
		if listing, ok = e.custody.Listing(v, entity.AssetRef{Collection: collection, TokenId: tokenId}); !ok {
			return entity.ErrNoListing
		}
		return nil
	})
	return listing, err
}

func (e *Engine) Listings() (listings []entity.Listing) {
	_ = e.ledger.View(func(v *ledger.View) error {
		listings = e.custody.Listings(v)
		return nil
	})
	return listings
}

// IsNonceUsed reports whether nonce was consumed for the current backend signer.
func (e *Engine) IsNonceUsed(n *big.Int) (used bool) {
	_ = e.ledger.View(func(v *ledger.View) error {
		used = e.nonces.IsUsed(v, e.scope(), n)
		return nil
	})
	return used
}

func (e *Engine) Config() (cfg Config) {
	_ = e.ledger.View(func(v *ledger.View) error {
		cfg = Config{
			Address:       e.Address(),
			Owner:         e.owner.Owner(),
			BackendSigner: e.authority.Signer(),
			Currency:      e.currency,
			FeeWallets:    append([]common.Address(nil), e.feeWallets...),
			Collections:   e.sortedCollections(),
			Paused:        e.pause.Paused(),
		}
		return nil
	})
	return cfg
}

func (e *Engine) ChangeFeeWallets(caller common.Address, wallets []common.Address) (*ledger.Receipt, error) {
	return e.ledger.Execute(func(tx *ledger.Tx) error {
		if err := e.owner.OnlyOwner(caller); err != nil {
			return err
		}
		if len(wallets) == 0 {
			return entity.ErrNoFeeWallets
		}

		previous := e.feeWallets
		e.feeWallets = append([]common.Address(nil), wallets...)
		tx.OnRollback(func() { e.feeWallets = previous })

		return nil
	})
}

func (e *Engine) ChangeBackendSigner(caller, signer common.Address) (*ledger.Receipt, error) {
	return e.ledger.Execute(func(tx *ledger.Tx) error {
		if err := e.owner.OnlyOwner(caller); err != nil {
			return err
		}

		previous := e.authority.Signer()
		e.authority.SetSigner(signer)
		tx.OnRollback(func() { e.authority.SetSigner(previous) })

		return nil
	})
}

func (e *Engine) ChangeCurrencyAddress(caller, currency common.Address) (*ledger.Receipt, error) {
	return e.ledger.Execute(func(tx *ledger.Tx) error {
		if err := e.owner.OnlyOwner(caller); err != nil {
			return err
		}

		previous := e.currency
		e.currency = currency
		tx.OnRollback(func() { e.currency = previous })

		return nil
	})
}

func (e *Engine) AddCollection(caller, collection common.Address) (*ledger.Receipt, error) {
	return e.SetCollectionAvailable(caller, collection, true)
}

// RemoveCollection stops new listings of collection. Existing listings can
// still be bought or cancelled.
func (e *Engine) RemoveCollection(caller, collection common.Address) (*ledger.Receipt, error) {
	return e.SetCollectionAvailable(caller, collection, false)
}

func (e *Engine) SetCollectionAvailable(caller, collection common.Address, available bool) (*ledger.Receipt, error) {
	return e.ledger.Execute(func(tx *ledger.Tx) error {
		if err := e.owner.OnlyOwner(caller); err != nil {
			return err
		}
		if _, ok := e.collections[collection]; ok == available {
			return nil
		}

		if available {
			e.collections[collection] = struct{}{}
			tx.OnRollback(func() { delete(e.collections, collection) })
		} else {
			delete(e.collections, collection)
			tx.OnRollback(func() { e.collections[collection] = struct{}{} })
		}

		zap.L().With(zap.String("collection", collection.Hex()), zap.Bool("available", available)).Info("Marketplace: Collection changed")

		return nil
	})
}

func (e *Engine) IsCollectionAvailable(collection common.Address) (available bool) {
	_ = e.ledger.View(func(v *ledger.View) error {
		_, available = e.collections[collection]
		return nil
	})
	return available
}

func (e *Engine) TransferOwnership(caller, newOwner common.Address) (*ledger.Receipt, error) {
	return e.ledger.Execute(func(tx *ledger.Tx) error {
		return e.owner.TransferOwnership(tx, caller, newOwner)
	})
}

func (e *Engine) Pause(caller common.Address) (*ledger.Receipt, error) {
	return e.ledger.Execute(func(tx *ledger.Tx) error {
		if err := e.owner.OnlyOwner(caller); err != nil {
			return err
		}
		e.pause.Pause(tx)
		zap.L().Warn("Marketplace: Paused")

		return nil
	})
}

func (e *Engine) Unpause(caller common.Address) (*ledger.Receipt, error) {
	return e.ledger.Execute(func(tx *ledger.Tx) error {
		if err := e.owner.OnlyOwner(caller); err != nil {
			return err
		}
		e.pause.Unpause(tx)
		zap.L().Info("Marketplace: Unpaused")

		return nil
	})
}

func (e *Engine) scope() nonce.Scope {
	return nonce.Scope{Domain: e.domain.VerifyingContract, Signer: e.authority.Signer()}
}

func (e *Engine) sortedCollections() []common.Address {
	collections := make([]common.Address, 0, len(e.collections))
	for c := range e.collections {
		collections = append(collections, c)
	}
	sort.Slice(collections, func(i, j int) bool {
		return bytes.Compare(collections[i].Bytes(), collections[j].Bytes()) < 0
	})

	return collections
}
