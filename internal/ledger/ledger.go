package ledger

import (
	"fmt"
	"github.com/ZilDuck/lazy-marketplace/internal/entity"
	"github.com/ZilDuck/lazy-marketplace/internal/event"
	"github.com/ethereum/go-ethereum/common"
	"github.com/nu7hatch/gouuid"
	"go.uber.org/zap"
	"math/big"
	"sync"
	"time"
)

// TransferGuard is consulted before an asset of a collection changes owner.
// It runs inside the unit of work performing the transfer.
type TransferGuard func(from, to common.Address, tokenId uint64) error

// Ledger is an in-process ledger primitive. Every unit of work passed to
// Execute is applied under a single lock, so units are totally ordered, and
// is rolled back entirely when it returns an error.
type Ledger struct {
	mu          sync.RWMutex
	clock       func() time.Time
	native      map[common.Address]*big.Int
	tokens      map[common.Address]*token
	collections map[common.Address]*collection
	events      *event.Manager
}

type token struct {
	balances   map[common.Address]*big.Int
	allowances map[common.Address]map[common.Address]*big.Int
}

type collection struct {
	owners    map[uint64]common.Address
	approvals map[uint64]common.Address
	operators map[common.Address]map[common.Address]bool
	guard     TransferGuard
}

type Receipt struct {
	ID     string         `json:"id"`
	Time   time.Time      `json:"time"`
	Events []entity.Event `json:"events"`
}

func New(clock func() time.Time, events *event.Manager) *Ledger {
	if clock == nil {
		clock = time.Now
	}

	return &Ledger{
		clock:       clock,
		native:      make(map[common.Address]*big.Int),
		tokens:      make(map[common.Address]*token),
		collections: make(map[common.Address]*collection),
		events:      events,
	}
}

// Execute runs fn as one atomic unit of work. fn must not call Execute or View.
func (l *Ledger) Execute(fn func(tx *Tx) error) (receipt *Receipt, err error) {
	l.mu.Lock()
	tx := &Tx{View: &View{l: l, now: l.clock()}}

	committed := false
	defer func() {
		if !committed {
			tx.rollback()
			l.mu.Unlock()
		}
	}()

	if err = fn(tx); err != nil {
		return nil, err
	}

	receipt = tx.receipt()
	committed = true
	l.mu.Unlock()

	l.dispatch(receipt)

	return receipt, nil
}

// View runs fn with shared read access to the ledger.
func (l *Ledger) View(fn func(v *View) error) error {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return fn(&View{l: l, now: l.clock()})
}

func (l *Ledger) Now() time.Time {
	return l.clock()
}

func (l *Ledger) dispatch(receipt *Receipt) {
	if l.events == nil {
		return
	}
	for _, e := range receipt.Events {
		l.events.EmitEvent(e.Type(), e)
	}
}

func newReceiptId() string {
	u, err := uuid.NewV4()
	if err != nil {
		zap.L().With(zap.Error(err)).Warn("Ledger: Failed to generate receipt id")
		return fmt.Sprintf("tx-%d", time.Now().UnixNano())
	}

	return u.String()
}
