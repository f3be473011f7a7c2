package access

import (
	"github.com/ZilDuck/lazy-marketplace/internal/entity"
	"github.com/ZilDuck/lazy-marketplace/internal/ledger"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Role identifiers use the keccak of the role name, DefaultAdminRole is zero.
type Role common.Hash

var (
	DefaultAdminRole = Role{}
	MinterRole       = Role(crypto.Keccak256Hash([]byte("MINTER_ROLE")))
	LockerRole       = Role(crypto.Keccak256Hash([]byte("LOCKER_ROLE")))
)

var roleNames = map[Role]string{
	DefaultAdminRole: "DEFAULT_ADMIN_ROLE",
	MinterRole:       "MINTER_ROLE",
	LockerRole:       "LOCKER_ROLE",
}

func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return common.Hash(r).Hex()
}

func RoleByName(name string) (Role, bool) {
	for role, roleName := range roleNames {
		if roleName == name {
			return role, true
		}
	}
	return Role{}, false
}

// The types below hold engine configuration. They are read and written under
// the ledger lock only; every write registers its undo on the Tx.

type Ownable struct {
	owner common.Address
}

func NewOwnable(owner common.Address) *Ownable {
	return &Ownable{owner: owner}
}

func (o *Ownable) Owner() common.Address {
	return o.owner
}

func (o *Ownable) OnlyOwner(caller common.Address) error {
	if caller != o.owner {
		return entity.ErrUnauthorized
	}
	return nil
}

func (o *Ownable) TransferOwnership(tx *ledger.Tx, caller, newOwner common.Address) error {
	if err := o.OnlyOwner(caller); err != nil {
		return err
	}
	if newOwner == (common.Address{}) {
		return entity.ErrInvalidOrder
	}

	previous := o.owner
	o.owner = newOwner
	tx.OnRollback(func() { o.owner = previous })

	return nil
}

type Roles struct {
	members map[Role]map[common.Address]bool
}

// NewRoles grants DefaultAdminRole to admin.
func NewRoles(admin common.Address) *Roles {
	return &Roles{members: map[Role]map[common.Address]bool{
		DefaultAdminRole: {admin: true},
	}}
}

func (r *Roles) HasRole(role Role, account common.Address) bool {
	return r.members[role][account]
}

func (r *Roles) OnlyRole(role Role, caller common.Address) error {
	if !r.HasRole(role, caller) {
		return entity.ErrUnauthorized
	}
	return nil
}

func (r *Roles) GrantRole(tx *ledger.Tx, caller common.Address, role Role, account common.Address) error {
	if err := r.OnlyRole(DefaultAdminRole, caller); err != nil {
		return err
	}
	r.set(tx, role, account, true)

	return nil
}

func (r *Roles) RevokeRole(tx *ledger.Tx, caller common.Address, role Role, account common.Address) error {
	if err := r.OnlyRole(DefaultAdminRole, caller); err != nil {
		return err
	}
	r.set(tx, role, account, false)

	return nil
}

func (r *Roles) set(tx *ledger.Tx, role Role, account common.Address, member bool) {
	members, ok := r.members[role]
	if !ok {
		members = make(map[common.Address]bool)
		r.members[role] = members
	}
	previous := members[account]
	members[account] = member
	tx.OnRollback(func() { members[account] = previous })
}

type PauseGate struct {
	paused bool
}

func (p *PauseGate) Paused() bool {
	return p.paused
}

func (p *PauseGate) WhenNotPaused() error {
	if p.paused {
		return entity.ErrPaused
	}
	return nil
}

func (p *PauseGate) Pause(tx *ledger.Tx) {
	p.setPaused(tx, true)
}

func (p *PauseGate) Unpause(tx *ledger.Tx) {
	p.setPaused(tx, false)
}

func (p *PauseGate) setPaused(tx *ledger.Tx, paused bool) {
	previous := p.paused
	p.paused = paused
	tx.OnRollback(func() { p.paused = previous })
}
