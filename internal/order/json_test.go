package order

import (
	"encoding/json"
	"math/big"
	"testing"

	"github.com/ZilDuck/lazy-marketplace/internal/entity"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuyItem_AcceptsHexAndDecimalAmounts(t *testing.T) {
	var o BuyItem
	require.NoError(t, json.Unmarshal([]byte(`{
		"buyer": "0x00000000000000000000000000000000000000b1",
		"tokenId": 3,
		"price": "0x64",
		"fee": "10",
		"currency": 1,
		"deadline": 1700000600,
		"nonce": 115792089237316195423570985008687907853269984665640564039457584007913129639935
	}`), &o))

	assert.Equal(t, common.HexToAddress("0xb1"), o.Buyer)
	assert.Equal(t, uint64(3), o.TokenId)
	assert.Equal(t, 0, o.Price.Cmp(big.NewInt(100)))
	assert.Equal(t, 0, o.Fee.Cmp(big.NewInt(10)))
	assert.Equal(t, entity.TokenCurrency, o.Currency)
	assert.Equal(t, 256, o.Nonce.BitLen())

	raw, err := json.Marshal(o)
	require.NoError(t, err)
	var fields map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &fields))
	assert.Equal(t, "0x64", fields["price"])
	assert.Equal(t, "0xa", fields["fee"])

	var again BuyItem
	require.NoError(t, json.Unmarshal(raw, &again))
	assert.Equal(t, 0, again.Nonce.Cmp(o.Nonce))
}

func TestBuyInGameAsset_RejectsInvalidAmounts(t *testing.T) {
	var o BuyInGameAsset
	assert.Error(t, json.Unmarshal([]byte(`{"price": "twelve"}`), &o))
	assert.Error(t, json.Unmarshal([]byte(`{"transferId": "0x10000000000000000000000000000000000000000000000000000000000000000"}`), &o))

	require.NoError(t, json.Unmarshal([]byte(`{"transferId": "7", "price": 5, "fee": "0x0", "nonce": "1"}`), &o))
	assert.Equal(t, 0, o.TransferId.Cmp(big.NewInt(7)))
	assert.Equal(t, 0, o.Price.Cmp(big.NewInt(5)))
}
