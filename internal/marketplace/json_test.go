package marketplace

import (
	"encoding/json"
	"math/big"
	"testing"

	"github.com/ZilDuck/lazy-marketplace/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuyItemRequest_AmountsOnTheWire(t *testing.T) {
	var req BuyItemRequest
	require.NoError(t, json.Unmarshal([]byte(`{
		"collection": "0x0000000000000000000000000000000000005aff",
		"tokenId": 1,
		"price": "1000000000000000000",
		"fee": "0x2386f26fc10000",
		"currency": 0,
		"deadline": 1700000600,
		"nonce": 7,
		"signature": "0x0102"
	}`), &req))

	assert.Equal(t, "1000000000000000000", req.Price.String())
	assert.Equal(t, "10000000000000000", req.Fee.String())
	assert.Equal(t, 0, req.Nonce.Cmp(big.NewInt(7)))
	assert.Equal(t, []byte{1, 2}, []byte(req.Signature))
	assert.Equal(t, entity.NativeCurrency, req.Currency)

	raw, err := json.Marshal(req)
	require.NoError(t, err)
	var back BuyItemRequest
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.Equal(t, 0, back.Price.Cmp(req.Price))
	assert.Equal(t, 0, back.Fee.Cmp(req.Fee))
	assert.Equal(t, 0, back.Nonce.Cmp(req.Nonce))
	assert.Equal(t, req.Signature, back.Signature)
	assert.Equal(t, req.Collection, back.Collection)
}

func TestBuyInGameAssetRequest_AmountsOnTheWire(t *testing.T) {
	req := BuyInGameAssetRequest{
		TransferId: big.NewInt(42),
		Currency:   entity.TokenCurrency,
		Price:      big.NewInt(500),
		Fee:        big.NewInt(0),
		Deadline:   1700000600,
		Nonce:      big.NewInt(3),
		Signature:  []byte{0xaa},
	}

	raw, err := json.Marshal(req)
	require.NoError(t, err)
	var fields map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &fields))
	assert.Equal(t, "0x2a", fields["transferId"])
	assert.Equal(t, "0x1f4", fields["price"])
	assert.Equal(t, "0x0", fields["fee"])

	var back BuyInGameAssetRequest
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.Equal(t, 0, back.TransferId.Cmp(req.TransferId))
	assert.Equal(t, 0, back.Price.Cmp(req.Price))
	assert.Equal(t, 0, back.Fee.Cmp(req.Fee))

	assert.Error(t, json.Unmarshal([]byte(`{"price": "twelve"}`), &back))
}
