package registry

import (
	"fmt"
	"github.com/ZilDuck/lazy-marketplace/internal/access"
	"github.com/ZilDuck/lazy-marketplace/internal/entity"
	"github.com/ZilDuck/lazy-marketplace/internal/ledger"
	"github.com/ZilDuck/lazy-marketplace/internal/signature"
	"github.com/ZilDuck/lazy-marketplace/internal/typeddata"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
	"math/big"
)

const (
	DefaultDomainName    = "Lazy Staff"
	DefaultDomainVersion = "1"
	DefaultBaseURI       = "ipfs://"
)

type Params struct {
	Address       common.Address
	Admin         common.Address
	ChainID       *big.Int
	DomainName    string
	DomainVersion string
	BackendSigner common.Address
	BaseURI       string
	// Custodians hold assets on behalf of their owners, such as the
	// marketplace escrow. Assets they hold cannot be locked.
	Custodians []common.Address
}

// Registry is the staff collection. Ownership and approvals live on the
// ledger collection at Address, the registry keeps the asset records.
type Registry struct {
	ledger     *ledger.Ledger
	address    common.Address
	domain     typeddata.Domain
	authority  *signature.Authority
	roles      *access.Roles
	pause      *access.PauseGate
	baseURI    string
	custodians map[common.Address]struct{}
	assets     map[uint64]*record
}

type record struct {
	ipfsHash      string
	skills        entity.Skills
	unspentSkills uint64
	locked        bool
}

func New(l *ledger.Ledger, p Params, recoverer signature.Recoverer) (*Registry, error) {
	if p.DomainName == "" {
		p.DomainName = DefaultDomainName
	}
	if p.DomainVersion == "" {
		p.DomainVersion = DefaultDomainVersion
	}
	if p.BaseURI == "" {
		p.BaseURI = DefaultBaseURI
	}
	if p.ChainID == nil {
		p.ChainID = big.NewInt(1)
	}

	r := &Registry{
		ledger:  l,
		address: p.Address,
		domain: typeddata.Domain{
			Name:              p.DomainName,
			Version:           p.DomainVersion,
			ChainID:           new(big.Int).Set(p.ChainID),
			VerifyingContract: p.Address,
		},
		authority:  signature.NewAuthority(recoverer, p.BackendSigner),
		roles:      access.NewRoles(p.Admin),
		pause:      &access.PauseGate{},
		baseURI:    p.BaseURI,
		custodians: make(map[common.Address]struct{}, len(p.Custodians)),
		assets:     make(map[uint64]*record),
	}
	for _, c := range p.Custodians {
		r.custodians[c] = struct{}{}
	}

	_, err := l.Execute(func(tx *ledger.Tx) error {
		if tx.HasCollection(p.Address) {
			return fmt.Errorf("collection %s already registered", p.Address.Hex())
		}
		tx.RegisterCollection(p.Address, r.transferGuard)
		return nil
	})
	if err != nil {
		return nil, err
	}

	zap.L().With(zap.String("address", p.Address.Hex()), zap.String("admin", p.Admin.Hex())).Info("Registry: Created")

	return r, nil
}

func (r *Registry) Address() common.Address {
	return r.address
}

func (r *Registry) Domain() typeddata.Domain {
	return r.domain
}

// transferGuard keeps locked assets where they are.
func (r *Registry) transferGuard(_, _ common.Address, tokenId uint64) error {
	if rec, ok := r.assets[tokenId]; ok && rec.locked {
		return entity.ErrAssetLocked
	}
	return nil
}

func (r *Registry) Mint(sender, to common.Address, tokenId uint64, ipfsHash string, skills entity.Skills, unspentSkills uint64) (*ledger.Receipt, error) {
	return r.ledger.Execute(func(tx *ledger.Tx) error {
		if err := r.pause.WhenNotPaused(); err != nil {
			return err
		}
		if err := r.roles.OnlyRole(access.MinterRole, sender); err != nil {
			return err
		}

		asset, err := r.mint(tx, to, tokenId, ipfsHash, skills, unspentSkills)
		if err != nil {
			return err
		}
		tx.Emit(entity.NewNftMinted(asset))

		zap.L().With(zap.Uint64("tokenId", tokenId), zap.String("to", to.Hex())).Info("Registry: Minted")

		return nil
	})
}

func (r *Registry) mint(tx *ledger.Tx, to common.Address, tokenId uint64, ipfsHash string, skills entity.Skills, unspentSkills uint64) (entity.Asset, error) {
	if err := tx.MintAsset(r.address, to, tokenId); err != nil {
		return entity.Asset{}, err
	}

	r.assets[tokenId] = &record{
		ipfsHash:      ipfsHash,
		skills:        skills,
		unspentSkills: unspentSkills,
		locked:        true,
	}
	tx.OnRollback(func() { delete(r.assets, tokenId) })

	return r.asset(tokenId, to), nil
}

func (r *Registry) Approve(sender, spender common.Address, tokenId uint64) (*ledger.Receipt, error) {
	return r.ledger.Execute(func(tx *ledger.Tx) error {
		return tx.Approve(r.address, sender, spender, tokenId)
	})
}

func (r *Registry) SetApprovalForAll(sender, operator common.Address, approved bool) (*ledger.Receipt, error) {
	return r.ledger.Execute(func(tx *ledger.Tx) error {
		return tx.SetApprovalForAll(r.address, sender, operator, approved)
	})
}

func (r *Registry) TransferFrom(sender, from, to common.Address, tokenId uint64) (*ledger.Receipt, error) {
	return r.ledger.Execute(func(tx *ledger.Tx) error {
		return tx.TransferAsset(r.address, sender, from, to, tokenId)
	})
}

func (r *Registry) ChangeBackendSigner(caller, signer common.Address) (*ledger.Receipt, error) {
	return r.ledger.Execute(func(tx *ledger.Tx) error {
		if err := r.roles.OnlyRole(access.DefaultAdminRole, caller); err != nil {
			return err
		}

		previous := r.authority.Signer()
		r.authority.SetSigner(signer)
		tx.OnRollback(func() { r.authority.SetSigner(previous) })

		return nil
	})
}

func (r *Registry) BackendSigner() common.Address {
	return r.authority.Signer()
}

func (r *Registry) GrantRole(caller common.Address, role access.Role, account common.Address) (*ledger.Receipt, error) {
	return r.ledger.Execute(func(tx *ledger.Tx) error {
		return r.roles.GrantRole(tx, caller, role, account)
	})
}

func (r *Registry) RevokeRole(caller common.Address, role access.Role, account common.Address) (*ledger.Receipt, error) {
	return r.ledger.Execute(func(tx *ledger.Tx) error {
		return r.roles.RevokeRole(tx, caller, role, account)
	})
}

func (r *Registry) HasRole(role access.Role, account common.Address) (has bool) {
	_ = r.ledger.View(func(v *ledger.View) error {
		has = r.roles.HasRole(role, account)
		return nil
	})
	return has
}

func (r *Registry) Pause(caller common.Address) (*ledger.Receipt, error) {
	return r.ledger.Execute(func(tx *ledger.Tx) error {
		if err := r.roles.OnlyRole(access.DefaultAdminRole, caller); err != nil {
			return err
		}
		r.pause.Pause(tx)
		zap.L().Warn("Registry: Paused")

		return nil
	})
}

func (r *Registry) Unpause(caller common.Address) (*ledger.Receipt, error) {
	return r.ledger.Execute(func(tx *ledger.Tx) error {
		if err := r.roles.OnlyRole(access.DefaultAdminRole, caller); err != nil {
			return err
		}
		r.pause.Unpause(tx)
		zap.L().Info("Registry: Unpaused")

		return nil
	})
}

func (r *Registry) Paused() (paused bool) {
	_ = r.ledger.View(func(v *ledger.View) error {
		paused = r.pause.Paused()
		return nil
	})
	return paused
}

func (r *Registry) Asset(tokenId uint64) (asset entity.Asset, err error) {
	err = r.ledger.View(func(v *ledger.View) error {
		owner, err := r.ownerOf(v, tokenId)
		if err != nil {
			return err
		}
		asset = r.asset(tokenId, owner)
		return nil
	})
	return asset, err
}

func (r *Registry) TokenURI(tokenId uint64) (string, error) {
	asset, err := r.Asset(tokenId)
	if err != nil {
		return "", err
	}
	return r.baseURI + asset.IpfsHash, nil
}

func (r *Registry) UnspentSkills(tokenId uint64) (uint64, error) {
	asset, err := r.Asset(tokenId)
	if err != nil {
		return 0, err
	}
	return asset.UnspentSkills, nil
}

func (r *Registry) NftStats(tokenId uint64) (entity.Skills, error) {
	asset, err := r.Asset(tokenId)
	if err != nil {
		return entity.Skills{}, err
	}
	return asset.Skills, nil
}

func (r *Registry) ownerOf(v *ledger.View, tokenId uint64) (common.Address, error) {
	if _, ok := r.assets[tokenId]; !ok {
		return common.Address{}, entity.ErrNftNotFound
	}
	return v.OwnerOf(r.address, tokenId)
}

func (r *Registry) asset(tokenId uint64, owner common.Address) entity.Asset {
	rec := r.assets[tokenId]

	return entity.Asset{
		Collection:    r.address,
		TokenId:       tokenId,
		Owner:         owner,
		IpfsHash:      rec.ipfsHash,
		Skills:        rec.skills,
		UnspentSkills: rec.unspentSkills,
		Locked:        rec.locked,
	}
}

// set replaces the record of tokenId as part of tx.
func (r *Registry) set(tx *ledger.Tx, tokenId uint64, next record) {
	rec := r.assets[tokenId]
	previous := *rec
	*rec = next
	tx.OnRollback(func() { *rec = previous })
}
