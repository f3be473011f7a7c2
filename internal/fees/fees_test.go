package fees

import (
	"math/big"
	"testing"

	"github.com/ZilDuck/lazy-marketplace/internal/entity"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	walletA = common.HexToAddress("0x00000000000000000000000000000000000000fa")
	walletB = common.HexToAddress("0x00000000000000000000000000000000000000fb")
	walletC = common.HexToAddress("0x00000000000000000000000000000000000000fc")
)

func assertAmount(t *testing.T, want int64, got *big.Int) {
	t.Helper()
	assert.Zero(t, big.NewInt(want).Cmp(got), "want %d, got %s", want, got)
}

func TestSplit(t *testing.T) {
	tests := []struct {
		name    string
		sent    int64
		price   int64
		fee     int64
		wallets []common.Address
		shares  []int64
		excess  int64
	}{
		{"single wallet", 105, 100, 5, []common.Address{walletA}, []int64{5}, 0},
		{"even split", 110, 100, 10, []common.Address{walletA, walletB}, []int64{5, 5}, 0},
		{"remainder to first", 110, 100, 10, []common.Address{walletA, walletB, walletC}, []int64{4, 3, 3}, 0},
		{"fee smaller than wallets", 102, 100, 2, []common.Address{walletA, walletB, walletC}, []int64{2, 0, 0}, 0},
		{"overpayment", 150, 100, 5, []common.Address{walletA}, []int64{5}, 45},
		{"zero fee without wallets", 100, 100, 0, nil, []int64{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := Split(big.NewInt(tt.sent), big.NewInt(tt.price), big.NewInt(tt.fee), tt.wallets)
			require.NoError(t, err)

			assertAmount(t, tt.price, d.Seller)
			assertAmount(t, tt.excess, d.Excess)
			require.Len(t, d.Fees, len(tt.shares))
			for i, share := range tt.shares {
				assert.Equal(t, tt.wallets[i], d.Fees[i].Wallet)
				assertAmount(t, share, d.Fees[i].Amount)
			}
			assertAmount(t, tt.price+tt.fee, d.Total())
		})
	}
}

func TestSplit_Errors(t *testing.T) {
	_, err := Split(big.NewInt(104), big.NewInt(100), big.NewInt(5), []common.Address{walletA})
	assert.ErrorIs(t, err, entity.ErrInsufficientPayment)

	_, err = Split(big.NewInt(105), big.NewInt(100), big.NewInt(5), nil)
	assert.ErrorIs(t, err, entity.ErrNoFeeWallets)

	_, err = Split(big.NewInt(105), big.NewInt(-1), big.NewInt(5), []common.Address{walletA})
	assert.ErrorIs(t, err, entity.ErrInvalidAmount)

	_, err = Split(nil, big.NewInt(1), big.NewInt(0), nil)
	assert.ErrorIs(t, err, entity.ErrInvalidAmount)
}
