package fees

import (
	"github.com/ZilDuck/lazy-marketplace/internal/entity"
	"github.com/ethereum/go-ethereum/common"
	"math/big"
)

type Share struct {
	Wallet common.Address `json:"wallet"`
	Amount *big.Int       `json:"amount"`
}

// Distribution describes how a payment of price+fee is paid out. Excess is
// the part of the amount sent that is not collected.
type Distribution struct {
	Seller *big.Int `json:"seller"`
	Fees   []Share  `json:"fees"`
	Excess *big.Int `json:"excess"`
}

// Total is the amount collected from the buyer.
func (d *Distribution) Total() *big.Int {
	total := new(big.Int).Set(d.Seller)
	for _, share := range d.Fees {
		total.Add(total, share.Amount)
	}
	return total
}

// Split pays price to the seller and divides fee equally over wallets, the
// remainder of the division going to the first wallet.
func Split(totalSent, price, fee *big.Int, wallets []common.Address) (*Distribution, error) {
	if totalSent == nil || price == nil || fee == nil {
		return nil, entity.ErrInvalidAmount
	}
	if totalSent.Sign() < 0 || price.Sign() < 0 || fee.Sign() < 0 {
		return nil, entity.ErrInvalidAmount
	}

	required := new(big.Int).Add(price, fee)
	if totalSent.Cmp(required) < 0 {
		return nil, entity.ErrInsufficientPayment
	}
	if fee.Sign() > 0 && len(wallets) == 0 {
		return nil, entity.ErrNoFeeWallets
	}

	d := &Distribution{
		Seller: new(big.Int).Set(price),
		Fees:   make([]Share, 0, len(wallets)),
		Excess: new(big.Int).Sub(totalSent, required),
	}
	if len(wallets) == 0 {
		return d, nil
	}

	each, remainder := new(big.Int).QuoRem(fee, big.NewInt(int64(len(wallets))), new(big.Int))
	for i, wallet := range wallets {
		amount := new(big.Int).Set(each)
		if i == 0 {
			amount.Add(amount, remainder)
		}
		d.Fees = append(d.Fees, Share{Wallet: wallet, Amount: amount})
	}

	return d, nil
}
